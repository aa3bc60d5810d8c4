package forecast

import (
	"context"
	"time"
)

// Daily is one normalized forecast day. Fields are pointers because the
// provider may return nulls for unknown values; consumers must tolerate
// absent data per field.
type Daily struct {
	Date             time.Time `json:"date"`
	PrecipitationSum *float64  `json:"precipitationSum"`
	TemperatureMax   *float64  `json:"temperatureMax"`
	TemperatureMin   *float64  `json:"temperatureMin"`
}

// Forecast is a multi-day daily forecast ordered today-first.
type Forecast []Daily

// Day returns the forecast entry at the given offset from today, or nil
// when the forecast does not reach that far.
func (f Forecast) Day(offset int) *Daily {
	if offset < 0 || offset >= len(f) {
		return nil
	}
	return &f[offset]
}

// Today returns the first forecast day, if any.
func (f Forecast) Today() *Daily { return f.Day(0) }

// Tomorrow returns the second forecast day, if any.
func (f Forecast) Tomorrow() *Daily { return f.Day(1) }

// Provider abstracts the external daily-forecast source.
type Provider interface {
	Name() string
	FetchDaily(ctx context.Context, lat, lon float64, days int) (Forecast, error)
}
