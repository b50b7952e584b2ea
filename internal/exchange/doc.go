// Package exchange carries a Diffie-Hellman handshake over HTTP and JSON.
//
// # Protocol
//
//	POST /v1/handshake        {bits, group}  -> {id, p, g, public}
//	POST /v1/handshake/{id}   {public}       -> {fingerprint}
//
// Integers travel as base-10 text. The responder (Server) keeps the pending
// secret for each id until the initiator completes or the entry expires. It
// validates the initiator's public value strictly, derives the shared digest
// and answers with a fingerprint of it so the initiator can confirm both sides
// agree. HTTPClient is the initiator-side transport.
package exchange
