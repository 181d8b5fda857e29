// Package geocode resolves a free-form address to coordinates via the Census
// Geocoder, falling back to Google when a key is configured.
package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client geocodes addresses.
type Client interface {
	Geocode(ctx context.Context, addr AddressInput) (*Result, error)
}

// AddressInput represents an address to geocode. Line, when set, is used
// verbatim and the structured parts are ignored.
type AddressInput struct {
	Line    string
	Street  string
	City    string
	State   string
	ZipCode string
}

// Result holds the geocoding output for an address. FormattedAddress is the
// provider's canonical rendering of the match.
type Result struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	Source           string // "census" or "google"
	Quality          string // "rooftop", "range", "centroid", "approximate"
	Matched          bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithGoogleAPIKey enables Google Geocoding API as a fallback.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) {
		g.googleKey = key
	}
}

// WithHTTPClient sets a custom HTTP client for both Census and Google requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second rate limit shared by both providers.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type geocoder struct {
	httpClient *http.Client
	googleKey  string
	limiter    *rate.Limiter
	censusURL  string
	googleURL  string
}

// NewClient creates a new geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(10, 10),
		censusURL:  censusOneLineURL,
		googleURL:  googleGeocodeURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode tries Census first, then Google if configured. An address no
// provider matches is returned as an unmatched Result, not an error.
func (g *geocoder) Geocode(ctx context.Context, addr AddressInput) (*Result, error) {
	line := formatOneLine(addr)
	if line == "" {
		return &Result{Matched: false}, nil
	}

	result, censusErr := g.geocodeCensus(ctx, line)
	if censusErr == nil && result.Matched {
		return result, nil
	}
	if g.googleKey == "" {
		if censusErr != nil {
			return nil, censusErr
		}
		return &Result{Matched: false}, nil
	}

	googleResult, googleErr := g.geocodeGoogle(ctx, line)
	switch {
	case googleErr == nil && googleResult.Matched:
		return googleResult, nil
	case googleErr != nil && censusErr != nil:
		return nil, googleErr
	}
	return &Result{Matched: false}, nil
}

// getJSON waits for the shared limiter, issues a GET to endpoint with params
// and decodes a 200 response into out. provider prefixes error messages.
func (g *geocoder) getJSON(ctx context.Context, provider, endpoint string, params url.Values, out any) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return eris.Wrapf(err, "geocode: %s rate limit", provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrapf(err, "geocode: %s build request", provider)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return eris.Wrapf(err, "geocode: %s request", provider)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("geocode: %s returned status %d", provider, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrapf(err, "geocode: %s parse response", provider)
	}
	return nil
}

// formatOneLine renders addr as the single line both providers accept. Line
// wins over the structured parts.
func formatOneLine(addr AddressInput) string {
	if line := strings.TrimSpace(addr.Line); line != "" {
		return line
	}
	var parts []string
	for _, p := range []string{addr.Street, addr.City, addr.State, addr.ZipCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
