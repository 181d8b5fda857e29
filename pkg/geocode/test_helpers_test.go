package geocode

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"golang.org/x/time/rate"
)

// fakeProvider is a fake geocoding endpoint that replies with a fixed body and
// records the queries it received.
type fakeProvider struct {
	srv    *httptest.Server
	status int
	body   string

	mu      sync.Mutex
	queries []url.Values
}

func newProvider(t *testing.T, status int, body string) *fakeProvider {
	t.Helper()
	p := &fakeProvider{status: status, body: body}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.queries = append(p.queries, r.URL.Query())
		p.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(p.status)
		_, _ = io.WriteString(w, p.body)
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakeProvider) calls() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]url.Values(nil), p.queries...)
}

// newTestGeocoder points the geocoder at the given fakes. A nil google leaves
// the fallback unconfigured.
func newTestGeocoder(census, google *fakeProvider) *geocoder {
	g := &geocoder{
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		censusURL:  "http://127.0.0.1:1",
		googleURL:  "http://127.0.0.1:1",
	}
	if census != nil {
		g.censusURL = census.srv.URL
	}
	if google != nil {
		g.googleURL = google.srv.URL
		g.googleKey = "test-key"
	}
	return g
}

const (
	censusNoMatch = `{"result": {"addressMatches": []}}`
	googleNoMatch = `{"status": "ZERO_RESULTS", "results": []}`
)
