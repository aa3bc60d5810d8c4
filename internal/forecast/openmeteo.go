package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// OpenMeteoProvider fetches daily forecasts from Open-Meteo, which serves
// daily aggregates without an API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	policy  retryPolicy
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		policy: retryPolicy{
			maxRetries:      3,
			initialInterval: 500 * time.Millisecond,
			maxInterval:     5 * time.Second,
		},
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchDaily returns up to days daily entries ordered today-first.
func (p *OpenMeteoProvider) FetchDaily(ctx context.Context, lat, lon float64, days int) (Forecast, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("daily", "precipitation_sum,temperature_2m_max,temperature_2m_min")
		values.Set("forecast_days", fmt.Sprintf("%d", days))
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := fetchWithResilience(ctx, p.client, p.circuit, p.policy, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("openmeteo fetch failed: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time             []string   `json:"time"`
			PrecipitationSum []*float64 `json:"precipitation_sum"`
			TemperatureMax   []*float64 `json:"temperature_2m_max"`
			TemperatureMin   []*float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("openmeteo decode failed: %w", err)
	}

	fc := make(Forecast, 0, len(payload.Daily.Time))
	for i, dateStr := range payload.Daily.Time {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		day := Daily{Date: date}
		if i < len(payload.Daily.PrecipitationSum) {
			day.PrecipitationSum = payload.Daily.PrecipitationSum[i]
		}
		if i < len(payload.Daily.TemperatureMax) {
			day.TemperatureMax = payload.Daily.TemperatureMax[i]
		}
		if i < len(payload.Daily.TemperatureMin) {
			day.TemperatureMin = payload.Daily.TemperatureMin[i]
		}
		fc = append(fc, day)

		if len(fc) >= days {
			break
		}
	}

	if len(fc) == 0 {
		return nil, fmt.Errorf("openmeteo returned no daily data")
	}

	return fc, nil
}
