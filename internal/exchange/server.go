package exchange

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"dhlib/internal/crypto"
	"dhlib/internal/domain"
	"dhlib/internal/engine"
	"dhlib/internal/logging"
)

// Defaults for ServerConfig zero values.
const (
	DefaultBits       = 2048
	DefaultTTL        = time.Minute
	DefaultMaxPending = 1024
	maxBodyBytes      = 64 << 10
)

// ServerConfig tunes the responder.
type ServerConfig struct {
	// Bits is the modulus size offered when the request asks for none, and
	// the largest size a request may ask for.
	Bits int
	// Group, when non-zero, pins every handshake to that well-known group.
	Group int
	// TTL bounds how long a pending handshake waits for completion.
	TTL time.Duration
	// MaxPending caps concurrent pending handshakes.
	MaxPending int
	// AllowedPeers restricts callers by IP. Empty allows everyone.
	AllowedPeers []string
	// OnComplete, if set, receives each finished handshake.
	OnComplete func(domain.Result)
	// Now overrides the clock used for expiry.
	Now func() time.Time
}

type pending struct {
	params  domain.Parameters
	secret  domain.Secret
	public  domain.Public
	expires time.Time
}

var errTooManyPending = errors.New("too many pending handshakes")

// Server is the responding side of a handshake. It implements http.Handler.
type Server struct {
	eng     *engine.Engine
	cfg     ServerConfig
	allowed map[string]struct{}
	log     *logrus.Entry
	mux     *http.ServeMux
	now     func() time.Time

	mu      sync.Mutex
	pending map[domain.HandshakeID]*pending
}

// NewServer returns a responder running handshakes on eng.
func NewServer(eng *engine.Engine, cfg ServerConfig, logger *logrus.Logger) *Server {
	if cfg.Bits <= 0 {
		cfg.Bits = DefaultBits
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxPending <= 0 {
		cfg.MaxPending = DefaultMaxPending
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Server{
		eng:     eng,
		cfg:     cfg,
		log:     logging.Component(logger, "exchange"),
		mux:     http.NewServeMux(),
		now:     cfg.Now,
		pending: make(map[domain.HandshakeID]*pending),
	}
	if len(cfg.AllowedPeers) > 0 {
		s.allowed = make(map[string]struct{}, len(cfg.AllowedPeers))
		for _, ip := range cfg.AllowedPeers {
			s.allowed[ip] = struct{}{}
		}
	}
	s.mux.HandleFunc("POST /v1/handshake", s.handleOffer)
	s.mux.HandleFunc("POST /v1/handshake/{id}", s.handleComplete)
	return s
}

// ServeHTTP applies the peer allowlist and access logging around the routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	if !s.permitted(r) {
		writeError(rec, http.StatusForbidden, errors.New("peer not allowed"))
	} else {
		s.mux.ServeHTTP(rec, r)
	}
	s.log.WithFields(logrus.Fields{
		"method":  r.Method,
		"path":    r.URL.Path,
		"remote":  r.RemoteAddr,
		"status":  rec.status,
		"elapsed": time.Since(start),
	}).Info("request")
}

// Pending returns the number of handshakes awaiting completion.
func (s *Server) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Sweep drops expired handshakes and returns how many were removed.
func (s *Server) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(now)
}

// admit stores p under id unless MaxPending handshakes are already waiting.
// The cap check and the insert share one critical section.
func (s *Server) admit(id domain.HandshakeID, p *pending) bool {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) >= s.cfg.MaxPending {
		s.sweepLocked(now)
		if len(s.pending) >= s.cfg.MaxPending {
			return false
		}
	}
	s.pending[id] = p
	return true
}

func (s *Server) sweepLocked(now time.Time) int {
	n := 0
	for id, p := range s.pending {
		if now.After(p.expires) {
			p.secret.Wipe()
			delete(s.pending, id)
			n++
		}
	}
	return n
}

// RunJanitor sweeps expired handshakes until ctx is done.
func (s *Server) RunJanitor(ctx context.Context) {
	interval := s.cfg.TTL / 2
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				s.log.WithField("expired", n).Debug("swept pending handshakes")
			}
		}
	}
}

func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	var req domain.HandshakeRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if s.Pending() >= s.cfg.MaxPending {
		s.Sweep()
		if s.Pending() >= s.cfg.MaxPending {
			writeError(w, http.StatusServiceUnavailable, errTooManyPending)
			return
		}
	}

	params, err := s.parameters(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	secret, public, err := s.eng.GenerateKeyPair(params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	id, err := newHandshakeID()
	if err != nil {
		secret.Wipe()
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if !s.admit(id, &pending{
		params:  params,
		secret:  secret,
		public:  public,
		expires: s.now().Add(s.cfg.TTL),
	}) {
		secret.Wipe()
		writeError(w, http.StatusServiceUnavailable, errTooManyPending)
		return
	}

	s.log.WithFields(logrus.Fields{"id": id, "bits": params.Bits()}).Debug("handshake offered")
	writeJSON(w, http.StatusOK, domain.HandshakeOffer{
		ID:     id,
		P:      params.P.Text(10),
		G:      params.G.Text(10),
		Public: public.String(),
	})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id := domain.HandshakeID(r.PathValue("id"))
	var reply domain.HandshakeReply
	if err := decodeBody(r, &reply, false); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	p, ok := s.take(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrHandshakeNotFound, id))
		return
	}
	defer p.secret.Wipe()

	y, err := crypto.ParsePositive(reply.Public)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	peer := domain.Public{Y: y}
	if err := engine.CheckPeer(peer, p.params); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	shared, err := s.eng.ComputeShared(peer, p.params, p.secret)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	defer shared.Wipe()
	digest, err := s.eng.HashShared(shared)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	fp := crypto.DigestFingerprint(digest)

	if s.cfg.OnComplete != nil {
		key, err := s.eng.DeriveKey(shared, nil, nil, 32)
		if err != nil {
			s.log.WithError(err).Warn("derive key")
		}
		s.cfg.OnComplete(domain.Result{
			ID:          id,
			Params:      p.params,
			Local:       p.public,
			Peer:        peer,
			Digest:      digest,
			Fingerprint: fp,
			Key:         key,
		})
	}
	s.log.WithFields(logrus.Fields{"id": id, "fingerprint": fp}).Info("handshake complete")
	writeJSON(w, http.StatusOK, domain.HandshakeAck{Fingerprint: fp})
}

// parameters picks the group for a request: a pinned group, a requested
// well-known group, or a generated (usually cached) group of the requested size.
func (s *Server) parameters(req domain.HandshakeRequest) (domain.Parameters, error) {
	switch {
	case s.cfg.Group != 0:
		return s.eng.WellKnown(s.cfg.Group)
	case req.Group != 0:
		return s.eng.WellKnown(req.Group)
	}
	bits := req.Bits
	if bits <= 0 {
		bits = s.cfg.Bits
	}
	if bits > s.cfg.Bits {
		return domain.Parameters{}, fmt.Errorf("%w: %d bits exceeds the server limit of %d",
			domain.ErrInvalidInput, bits, s.cfg.Bits)
	}
	return s.eng.GenerateParameters(bits)
}

func (s *Server) take(id domain.HandshakeID) (*pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return nil, false
	}
	delete(s.pending, id)
	if s.now().After(p.expires) {
		p.secret.Wipe()
		return nil, false
	}
	return p, true
}

func (s *Server) permitted(r *http.Request) bool {
	if s.allowed == nil {
		return true
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	_, ok := s.allowed[host]
	return ok
}

func newHandshakeID() (domain.HandshakeID, error) {
	var b [16]byte
	if _, err := io.ReadFull(crypto.SystemSource, b[:]); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEntropy, err)
	}
	return domain.HandshakeID(hex.EncodeToString(b[:])), nil
}

func decodeBody(r *http.Request, out any, allowEmpty bool) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(out)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: decode body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidPeer),
		errors.Is(err, domain.ErrUnknownGroup):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrHandshakeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
