package types

// HandshakeRequest opens a handshake. Bits and Group are hints; the responder
// may ignore them and use its own configured parameters.
type HandshakeRequest struct {
	Bits  int `json:"bits,omitempty"`
	Group int `json:"group,omitempty"`
}

// HandshakeOffer is the responder's first message. Integers travel as base-10 text.
type HandshakeOffer struct {
	ID     HandshakeID `json:"id"`
	P      string      `json:"p"`
	G      string      `json:"g"`
	Public string      `json:"public"`
}

// HandshakeReply carries the initiator's public value.
type HandshakeReply struct {
	Public string `json:"public"`
}

// HandshakeAck closes a handshake with the responder's key fingerprint.
type HandshakeAck struct {
	Fingerprint Fingerprint `json:"fingerprint"`
}

// Result is the outcome of a completed handshake on the initiating side.
type Result struct {
	ID          HandshakeID
	Params      Parameters
	Local       Public
	Peer        Public
	Digest      Digest
	Fingerprint Fingerprint
	// Key is HKDF output over the shared secret, filled by initiators that
	// can derive keys.
	Key []byte
}
