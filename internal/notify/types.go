package notify

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates the notification kinds the engine can emit.
type Type string

const (
	TypeRainCancellation   Type = "rain_cancellation"
	TypeDayBeforePlanting  Type = "day_before_planting"
	TypePlantingDay        Type = "planting_day"
	TypeWateringReminder   Type = "watering_reminder"
	TypeWateringOverdue    Type = "watering_overdue"
	TypeHarvestApproaching Type = "harvest_approaching"
	TypeFertilizationPhase Type = "fertilization_phase"
	TypeLateRegistration   Type = "late_registration"
	TypeWeatherAlert       Type = "weather_alert"
)

// Notification is a rendered, persisted message for a user. At most one
// notification of a given type is created per plantation per calendar day.
type Notification struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"userId"`
	PlantationID uuid.UUID      `json:"plantationId,omitempty"`
	Type         Type           `json:"type"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Read         bool           `json:"read"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Context is the structured metadata a rule hands to the formatter and
// stores on the notification.
type Context map[string]any

func (c Context) plantNames() []string {
	switch v := c["plant_names"].(type) {
	case []string:
		return v
	case string:
		return []string{v}
	}
	if name, ok := c["plant_name"].(string); ok && name != "" {
		return []string{name}
	}
	return nil
}
