package geocode

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"`
		} `json:"geometry"`
	} `json:"results"`
}

// googleQuality maps Google's location_type onto the Result quality names.
var googleQuality = map[string]string{
	"ROOFTOP":            "rooftop",
	"RANGE_INTERPOLATED": "range",
	"GEOMETRIC_CENTER":   "centroid",
}

// geocodeGoogle resolves a single-line address with the Google Geocoding API.
// Any status other than OK is an unmatched result.
func (g *geocoder) geocodeGoogle(ctx context.Context, line string) (*Result, error) {
	if g.googleKey == "" {
		return nil, eris.New("geocode: google api key not configured")
	}

	params := url.Values{"address": {line}, "key": {g.googleKey}}
	var body googleResponse
	if err := g.getJSON(ctx, "google", g.googleURL, params, &body); err != nil {
		return nil, err
	}

	res := &Result{Source: "google"}
	if body.Status != "OK" || len(body.Results) == 0 {
		return res, nil
	}
	top := body.Results[0]
	res.Latitude, res.Longitude = top.Geometry.Location.Lat, top.Geometry.Location.Lng
	res.FormattedAddress = top.FormattedAddress
	res.Quality = googleQuality[top.Geometry.LocationType]
	if res.Quality == "" {
		res.Quality = "approximate"
	}
	res.Matched = true
	return res, nil
}
