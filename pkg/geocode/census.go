package geocode

import (
	"context"
	"net/url"
)

const (
	censusOneLineURL = "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress"
	censusBenchmark  = "Public_AR_Current"
)

type censusResponse struct {
	Result struct {
		AddressMatches []struct {
			Coordinates struct {
				X float64 `json:"x"` // longitude
				Y float64 `json:"y"` // latitude
			} `json:"coordinates"`
			MatchedAddress string `json:"matchedAddress"`
		} `json:"addressMatches"`
	} `json:"result"`
}

// geocodeCensus resolves a single-line address with the Census geocoder.
// One-line matches are exact, so a match is reported as rooftop quality.
func (g *geocoder) geocodeCensus(ctx context.Context, line string) (*Result, error) {
	params := url.Values{
		"address":   {line},
		"benchmark": {censusBenchmark},
		"format":    {"json"},
	}
	var body censusResponse
	if err := g.getJSON(ctx, "census", g.censusURL, params, &body); err != nil {
		return nil, err
	}

	res := &Result{Source: "census"}
	if matches := body.Result.AddressMatches; len(matches) > 0 {
		m := matches[0]
		res.Latitude, res.Longitude = m.Coordinates.Y, m.Coordinates.X
		res.FormattedAddress = m.MatchedAddress
		res.Quality = "rooftop"
		res.Matched = true
	}
	return res, nil
}
