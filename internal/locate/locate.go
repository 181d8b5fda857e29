// Package locate provides the device-location capability used by "near me"
// searches. A CLI has no GPS, so positions come from configuration or from
// geocoding the configured home address.
package locate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/pkg/geocode"
)

var (
	// ErrUnavailable means no position could be determined.
	ErrUnavailable = eris.New("locate: position unavailable")
	// ErrDenied means location access is disabled.
	ErrDenied = eris.New("locate: permission denied")
)

// Locator yields the user's current position once per call.
type Locator interface {
	CurrentPosition(ctx context.Context) (model.Coordinates, error)
}

// Static returns a fixed position.
type Static struct {
	Position model.Coordinates
}

// CurrentPosition implements Locator.
func (s Static) CurrentPosition(context.Context) (model.Coordinates, error) {
	return s.Position, nil
}

// Denied is a Locator with location access turned off.
type Denied struct{}

// CurrentPosition implements Locator.
func (Denied) CurrentPosition(context.Context) (model.Coordinates, error) {
	return model.Coordinates{}, ErrDenied
}

// Geocoded resolves a street address to a position.
type Geocoded struct {
	client  geocode.Client
	address string
}

// NewGeocoded creates a Locator for the given home address.
func NewGeocoded(client geocode.Client, address string) *Geocoded {
	return &Geocoded{client: client, address: strings.TrimSpace(address)}
}

// CurrentPosition implements Locator. The position is labelled with the
// provider's formatted address, or the configured address when it has none.
func (g *Geocoded) CurrentPosition(ctx context.Context) (model.Coordinates, error) {
	if g.address == "" {
		return model.Coordinates{}, ErrUnavailable
	}

	res, err := g.client.Geocode(ctx, geocode.AddressInput{Line: g.address})
	if err != nil {
		zap.L().Warn("locate: geocode failed", zap.String("address", g.address), zap.Error(err))
		return model.Coordinates{}, fmt.Errorf("locate: geocode home address: %w: %w", ErrUnavailable, err)
	}
	if res == nil || !res.Matched {
		return model.Coordinates{}, ErrUnavailable
	}

	label := res.FormattedAddress
	if label == "" {
		label = g.address
	}
	zap.L().Debug("locate: resolved home address",
		zap.String("label", label),
		zap.String("source", res.Source),
		zap.String("quality", res.Quality),
	)
	return model.Coordinates{Lat: res.Latitude, Lng: res.Longitude, Label: label}, nil
}

// Config selects a Locator.
type Config struct {
	Lat         *float64
	Lng         *float64
	HomeAddress string
}

// New picks a Static locator when coordinates are configured, a Geocoded one
// when only an address is, and Denied otherwise.
func New(cfg Config, client geocode.Client) Locator {
	switch {
	case cfg.Lat != nil && cfg.Lng != nil:
		return Static{Position: model.Coordinates{Lat: *cfg.Lat, Lng: *cfg.Lng}}
	case strings.TrimSpace(cfg.HomeAddress) != "" && client != nil:
		return NewGeocoded(client, cfg.HomeAddress)
	default:
		return Denied{}
	}
}
