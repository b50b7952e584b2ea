package interfaces

import (
	"context"

	domaintypes "dhlib/internal/domain/types"
)

// ExchangeClient moves handshake messages to a remote responder.
type ExchangeClient interface {
	Offer(ctx context.Context, req domaintypes.HandshakeRequest) (domaintypes.HandshakeOffer, error)
	Complete(
		ctx context.Context,
		id domaintypes.HandshakeID,
		reply domaintypes.HandshakeReply,
	) (domaintypes.HandshakeAck, error)
}

// HandshakeService runs the initiating side of a networked exchange.
type HandshakeService interface {
	Handshake(ctx context.Context, req domaintypes.HandshakeRequest) (domaintypes.Result, error)
}
