package forecast

import (
	"context"
	"fmt"
)

// Cache memoizes forecasts per coordinate pair for the duration of one
// engine run, so co-located plantations share a single external call. A
// cache is created per run and discarded with it; it is not safe for
// concurrent use and does not need to be (runs are sequential).
type Cache struct {
	provider Provider
	days     int
	entries  map[string]Forecast
}

// NewCache creates a per-run cache around the given provider.
func NewCache(provider Provider, days int) *Cache {
	return &Cache{
		provider: provider,
		days:     days,
		entries:  make(map[string]Forecast),
	}
}

// cacheKey rounds coordinates to 2 decimals (roughly 1 km), so neighbouring
// plantations share one fetch.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f_%.2f", lat, lon)
}

// Get returns the forecast for the coordinate pair, fetching it at most
// once per run. Failed fetches are not cached so a later plantation at the
// same spot can retry within the same run.
func (c *Cache) Get(ctx context.Context, lat, lon float64) (Forecast, error) {
	key := cacheKey(lat, lon)
	if fc, ok := c.entries[key]; ok {
		return fc, nil
	}

	fc, err := c.provider.FetchDaily(ctx, lat, lon, c.days)
	if err != nil {
		return nil, err
	}

	c.entries[key] = fc
	return fc, nil
}
