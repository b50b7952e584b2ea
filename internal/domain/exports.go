package domain

import (
	interfaces "dhlib/internal/domain/interfaces"
	types "dhlib/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Parameters       = types.Parameters
	Secret           = types.Secret
	Public           = types.Public
	Shared           = types.Shared
	Digest           = types.Digest
	Fingerprint      = types.Fingerprint
	HandshakeID      = types.HandshakeID
	HandshakeOffer   = types.HandshakeOffer
	HandshakeReply   = types.HandshakeReply
	HandshakeAck     = types.HandshakeAck
	HandshakeRequest = types.HandshakeRequest
	Result           = types.Result
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	Engine           = interfaces.Engine
	ParamStore       = interfaces.ParamStore
	KeyStore         = interfaces.KeyStore
	ExchangeClient   = interfaces.ExchangeClient
	HandshakeService = interfaces.HandshakeService
)

// Constructors re-exported for callers that only import domain.
var (
	NewSecret = types.NewSecret
	NewShared = types.NewShared
)
