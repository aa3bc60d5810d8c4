// Package geo resolves free-text addresses to coordinates so plantations
// registered without a lat/lon can still get forecasts.
package geo

import (
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"
)

// ErrNoAPIKey is returned when geocoding is requested but not configured.
var ErrNoAPIKey = errors.New("geocoder api key not configured")

// Resolver turns an address into coordinates.
type Resolver interface {
	Resolve(address string) (lat, lon float64, err error)
}

// GoogleResolver uses the Google geocoding API through kelvins/geocoder.
type GoogleResolver struct {
	configured bool
}

// NewGoogleResolver sets the package-level API key and returns a resolver.
func NewGoogleResolver(apiKey string) *GoogleResolver {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &GoogleResolver{configured: apiKey != ""}
}

// Resolve geocodes a free-text address.
func (r *GoogleResolver) Resolve(address string) (float64, float64, error) {
	if !r.configured {
		return 0, 0, ErrNoAPIKey
	}

	location, err := geocoder.Geocoding(geocoder.Address{Street: address})
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: %w", address, err)
	}
	return location.Latitude, location.Longitude, nil
}
