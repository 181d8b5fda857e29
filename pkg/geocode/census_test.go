package geocode

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCensus_HomeAddressLine(t *testing.T) {
	census := newProvider(t, http.StatusOK, `{
		"result": {
			"addressMatches": [{
				"coordinates": {"x": -89.6501, "y": 39.7817},
				"matchedAddress": "1 OLD STATE CAPITOL PLZ, SPRINGFIELD, IL, 62701"
			}]
		}
	}`)
	g := newTestGeocoder(census, nil)

	res, err := g.geocodeCensus(context.Background(), "1 Old State Capitol Plaza, Springfield IL")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.InDelta(t, 39.7817, res.Latitude, 0.0001)
	assert.InDelta(t, -89.6501, res.Longitude, 0.0001)
	assert.Equal(t, "1 OLD STATE CAPITOL PLZ, SPRINGFIELD, IL, 62701", res.FormattedAddress)
	assert.Equal(t, "rooftop", res.Quality)

	q := census.calls()
	require.Len(t, q, 1)
	assert.Equal(t, "1 Old State Capitol Plaza, Springfield IL", q[0].Get("address"))
	assert.Equal(t, censusBenchmark, q[0].Get("benchmark"))
	assert.Equal(t, "json", q[0].Get("format"))
}

func TestCensus_NoMatch(t *testing.T) {
	g := newTestGeocoder(newProvider(t, http.StatusOK, censusNoMatch), nil)

	res, err := g.geocodeCensus(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, "census", res.Source)
	assert.Empty(t, res.FormattedAddress)
}

func TestCensus_BadBody(t *testing.T) {
	g := newTestGeocoder(newProvider(t, http.StatusOK, `<html>`), nil)

	_, err := g.geocodeCensus(context.Background(), "somewhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geocode: census parse response")
}

func TestFormatOneLine(t *testing.T) {
	tests := []struct {
		name string
		addr AddressInput
		want string
	}{
		{"line wins", AddressInput{Line: "  Rua dos Andradas 1001, Porto Alegre ", City: "ignored"}, "Rua dos Andradas 1001, Porto Alegre"},
		{"structured", AddressInput{Street: "123 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}, "123 Main St, Springfield, IL, 62701"},
		{"partial", AddressInput{City: "Denver", State: " CO "}, "Denver, CO"},
		{"blank line falls through", AddressInput{Line: "   ", City: "Lisbon"}, "Lisbon"},
		{"empty", AddressInput{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatOneLine(tt.addr))
		})
	}
}
