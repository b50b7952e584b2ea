package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"dhlib/internal/domain"
)

// HTTPClient is the initiator-side transport for Server.
type HTTPClient struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the responder at base, e.g. http://host:8080.
func NewHTTP(base string) *HTTPClient {
	return &HTTPClient{Base: strings.TrimRight(base, "/"), HTTP: http.DefaultClient}
}

var _ domain.ExchangeClient = (*HTTPClient)(nil)

// StatusError is a non-2xx response from the responder.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exchange: %d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

// Offer opens a handshake.
func (c *HTTPClient) Offer(ctx context.Context, req domain.HandshakeRequest) (domain.HandshakeOffer, error) {
	var out domain.HandshakeOffer
	if err := c.post(ctx, "/v1/handshake", req, &out); err != nil {
		return domain.HandshakeOffer{}, err
	}
	return out, nil
}

// Complete sends the initiator's public value and returns the responder's fingerprint.
func (c *HTTPClient) Complete(
	ctx context.Context,
	id domain.HandshakeID,
	reply domain.HandshakeReply,
) (domain.HandshakeAck, error) {
	var out domain.HandshakeAck
	if err := c.post(ctx, "/v1/handshake/"+url.PathEscape(id.String()), reply, &out); err != nil {
		return domain.HandshakeAck{}, err
	}
	return out, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		var body errorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		se := &StatusError{Code: resp.StatusCode, Message: body.Error}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", domain.ErrHandshakeNotFound, se)
		}
		if resp.StatusCode == http.StatusBadRequest {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, se)
		}
		return se
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
