package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTimeout bounds a single signal request.
const DefaultTimeout = 8 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Fetcher returns the current signal for a pair.
type Fetcher interface {
	Fetch(ctx context.Context, pair string) (*Signal, error)
}

// HTTPFetcher calls GET <base>?pair=<key> on the prediction service.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{baseURL: baseURL, client: &http.Client{}, timeout: timeout}
}

// payload mirrors the endpoint's JSON. Null decimals tell a missing field
// from a zero one.
type payload struct {
	Direction      string              `json:"direction"`
	Confidence     decimal.NullDecimal `json:"confidence"`
	LivePrice      decimal.NullDecimal `json:"live_price"`
	PredictedPrice decimal.NullDecimal `json:"predicted_price"`
	Timer          string              `json:"timer"`
}

// Fetch performs one request. Every failure mode is reported as
// ErrSignalUnavailable with the cause attached.
func (f *HTTPFetcher) Fetch(ctx context.Context, pair string) (*Signal, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	u, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base url: %v", ErrSignalUnavailable, err)
	}
	q := u.Query()
	q.Set("pair", pair)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignalUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	// the prediction service is commonly exposed through an ngrok tunnel
	req.Header.Set("ngrok-skip-browser-warning", "true")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("%w: http status %d", ErrSignalUnavailable, resp.StatusCode)
	}

	var p payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSignalUnavailable, err)
	}
	return p.validate()
}

func (p payload) validate() (*Signal, error) {
	dir := Direction(p.Direction)
	if dir != Green && dir != Red {
		return nil, fmt.Errorf("%w: invalid direction %q", ErrSignalUnavailable, p.Direction)
	}
	if p.Timer == "" {
		return nil, fmt.Errorf("%w: missing timer", ErrSignalUnavailable)
	}
	if _, err := ParseTimer(p.Timer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignalUnavailable, err)
	}
	if !p.LivePrice.Valid || p.LivePrice.Decimal.IsZero() {
		return nil, fmt.Errorf("%w: missing live_price", ErrSignalUnavailable)
	}

	s := &Signal{
		Direction:      dir,
		Confidence:     p.Confidence.Decimal,
		LivePrice:      p.LivePrice.Decimal,
		PredictedPrice: p.LivePrice.Decimal,
		Timer:          p.Timer,
	}
	if p.PredictedPrice.Valid {
		s.PredictedPrice = p.PredictedPrice.Decimal
	}
	return s, nil
}
