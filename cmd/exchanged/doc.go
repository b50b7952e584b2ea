// Command exchanged answers Diffie-Hellman handshakes over HTTP.
//
// It reads the [exchange], [engine] and [log] sections of dhlib.ini and
// serves POST /v1/handshake and POST /v1/handshake/{id} until interrupted.
package main
