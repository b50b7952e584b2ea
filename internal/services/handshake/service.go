package handshake

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/engine"
	"dhlib/internal/logging"
)

// KeySize is the length of key material derived for each handshake.
const KeySize = 32

// Engine is the subset of *engine.Engine the service needs.
type Engine interface {
	domain.Engine
	ValidateParameters(params domain.Parameters) error
	DeriveKey(shared domain.Shared, salt, info []byte, size int) ([]byte, error)
}

// Service performs handshakes against a remote responder.
//
// This service handles:
//   - Requesting an offer (group and responder public value).
//   - Validating the group unless Trust is set, and the public value always.
//   - Deriving the shared digest and a key.
//   - Confirming the responder derived the same digest.
type Service struct {
	eng    Engine
	client domain.ExchangeClient
	log    *logrus.Entry

	// Trust skips the safe-prime check on offered groups.
	Trust bool
}

var _ domain.HandshakeService = (*Service)(nil)

// New constructs a handshake Service.
func New(eng Engine, client domain.ExchangeClient, logger *logrus.Logger) *Service {
	return &Service{eng: eng, client: client, log: logging.Component(logger, "handshake")}
}

// Handshake runs one exchange with the responder.
//
// Steps:
//  1. Fetch an offer carrying p, g and the responder's public value.
//  2. Parse and check the offer; a malformed or weak group is refused.
//  3. Generate our key pair and derive the shared digest.
//  4. Send our public value and compare fingerprints.
func (s *Service) Handshake(ctx context.Context, req domain.HandshakeRequest) (domain.Result, error) {
	offer, err := s.client.Offer(ctx, req)
	if err != nil {
		return domain.Result{}, fmt.Errorf("offer: %w", err)
	}
	params, peer, err := parseOffer(offer)
	if err != nil {
		return domain.Result{}, err
	}
	if !s.Trust {
		if err := s.eng.ValidateParameters(params); err != nil {
			return domain.Result{}, fmt.Errorf("offered group: %w", err)
		}
	}
	if err := engine.CheckPeer(peer, params); err != nil {
		return domain.Result{}, err
	}

	secret, err := s.eng.GenerateSecret(params)
	if err != nil {
		return domain.Result{}, err
	}
	defer secret.Wipe()
	local, err := s.eng.GeneratePublic(params, secret)
	if err != nil {
		return domain.Result{}, err
	}
	shared, err := s.eng.ComputeShared(peer, params, secret)
	if err != nil {
		return domain.Result{}, err
	}
	defer shared.Wipe()

	digest, err := s.eng.HashShared(shared)
	if err != nil {
		return domain.Result{}, err
	}
	key, err := s.eng.DeriveKey(shared, nil, nil, KeySize)
	if err != nil {
		return domain.Result{}, err
	}
	fp := crypto.DigestFingerprint(digest)

	ack, err := s.client.Complete(ctx, offer.ID, domain.HandshakeReply{Public: local.String()})
	if err != nil {
		return domain.Result{}, fmt.Errorf("complete: %w", err)
	}
	if ack.Fingerprint != fp {
		s.log.WithFields(logrus.Fields{"id": offer.ID, "local": fp, "remote": ack.Fingerprint}).
			Warn("fingerprint mismatch")
		return domain.Result{}, fmt.Errorf("%w: local %s, remote %s", domain.ErrFingerprintMismatch, fp, ack.Fingerprint)
	}

	s.log.WithFields(logrus.Fields{"id": offer.ID, "bits": params.Bits(), "fingerprint": fp}).
		Info("handshake complete")
	return domain.Result{
		ID:          offer.ID,
		Params:      params,
		Local:       local,
		Peer:        peer,
		Digest:      digest,
		Fingerprint: fp,
		Key:         key,
	}, nil
}

func parseOffer(offer domain.HandshakeOffer) (domain.Parameters, domain.Public, error) {
	if offer.ID == "" {
		return domain.Parameters{}, domain.Public{}, fmt.Errorf("%w: offer without id", domain.ErrInvalidInput)
	}
	p, err := crypto.ParsePositive(offer.P)
	if err != nil {
		return domain.Parameters{}, domain.Public{}, fmt.Errorf("offer p: %w", err)
	}
	g, err := crypto.ParsePositive(offer.G)
	if err != nil {
		return domain.Parameters{}, domain.Public{}, fmt.Errorf("offer g: %w", err)
	}
	y, err := crypto.ParsePositive(offer.Public)
	if err != nil {
		return domain.Parameters{}, domain.Public{}, fmt.Errorf("offer public: %w", err)
	}
	return domain.Parameters{P: p, G: g}, domain.Public{Y: y}, nil
}
