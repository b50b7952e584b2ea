// Package handshake runs the initiating side of a networked exchange.
//
// It fetches an offer from the responder, checks the offered group and public
// value, answers with its own public value and compares the responder's
// fingerprint with its own before returning the result.
package handshake
