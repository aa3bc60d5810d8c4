package plant

import (
	"time"

	"github.com/potagerapp/careengine/internal/forecast"
)

// Card types attached to watering decisions.
const (
	CardWateringAuto = "watering_auto"
	CardColdAlert    = "cold_alert"
	CardHeatAlert    = "heat_alert"
	CardDangerAlert  = "danger_alert"
)

// Card severities.
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Auto-validation reasons.
const (
	ReasonRainToday    = "rain-today"
	ReasonRainForecast = "rain-forecast"
)

// AdvisoryCard is a severity-tagged message attached to a watering decision.
type AdvisoryCard struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// AutoValidation records a watering cycle considered satisfied by rain.
type AutoValidation struct {
	ValidatedAt     time.Time `json:"validatedAt"`
	ValidatedFor    time.Time `json:"validatedFor"`
	Reason          string    `json:"reason"`
	PrecipitationMM float64   `json:"precipitationMm"`
	Message         string    `json:"message"`
}

// IsRain reports whether the cycle was validated by detected or forecast rain.
func (v *AutoValidation) IsRain() bool {
	return v != nil && (v.Reason == ReasonRainToday || v.Reason == ReasonRainForecast)
}

// TemperatureAdvice is a temperature-driven care hint.
type TemperatureAdvice struct {
	Type     string `json:"type"` // cold_alert | heat_alert
	Location string `json:"location"`
	Message  string `json:"message"`
}

// DecisionDetails is the decision payload embedded into a snapshot.
type DecisionDetails struct {
	Notes             []string            `json:"notes,omitempty"`
	FrequencyDays     int                 `json:"frequencyDays"`
	AutoValidation    *AutoValidation     `json:"autoValidation,omitempty"`
	TemperatureAdvice []TemperatureAdvice `json:"temperatureAdvice,omitempty"`
	Cards             []AdvisoryCard      `json:"cards,omitempty"`
	LastWateredAt     *time.Time          `json:"lastWateredAt,omitempty"`
	ManualWatering    bool                `json:"manualWatering,omitempty"`
}

// Snapshot is an immutable point-in-time record of growth and watering state.
// Snapshots are append-only; the newest one is authoritative.
type Snapshot struct {
	Date             time.Time         `json:"date"`
	Stage            string            `json:"stage"`
	ProgressionPct   float64           `json:"progressionPct"`
	NextWateringDate time.Time         `json:"nextWateringDate"`
	QuantityML       float64           `json:"quantityMl"`
	Details          DecisionDetails   `json:"details"`
	Forecast         forecast.Forecast `json:"forecast,omitempty"`
}
