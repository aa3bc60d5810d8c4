package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatJoinsPlantNames(t *testing.T) {
	cases := []struct {
		name  string
		ctx   Context
		wants string
	}{
		{"single", Context{"plant_names": []string{"Basil"}}, "watering Basil is no longer needed"},
		{"pair", Context{"plant_names": []string{"Basil", "Mint"}}, "watering Basil and Mint is no longer needed"},
		{"trio", Context{"plant_names": []string{"Basil", "Mint", "Thyme"}}, "watering Basil, Mint and Thyme is no longer needed"},
		{"empty", Context{}, "watering your plants is no longer needed"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			f := Format(TypeRainCancellation, tt.ctx)
			assert.Equal(t, "Rain expected today", f.Title)
			assert.Contains(t, f.Message, tt.wants)
		})
	}
}

func TestFormatDayBeforePlanting(t *testing.T) {
	ctx := Context{
		"plant_name": "Tomato",
		"date":       time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	}

	f := Format(TypeDayBeforePlanting, ctx)
	assert.Equal(t, "Planting tomorrow", f.Title)
	assert.Equal(t, "Get ready, your planting of Tomato is scheduled for tomorrow (02/04/2026).", f.Message)
}

func TestFormatWateringReminderWithTime(t *testing.T) {
	ctx := Context{"plant_names": []string{"Basil"}, "time": "17:00"}

	f := Format(TypeWateringReminder, ctx)
	assert.Equal(t, "Don't forget to water Basil at 17:00.", f.Message)

	f = Format(TypeWateringReminder, Context{"plant_names": []string{"Basil"}})
	assert.Equal(t, "Don't forget to water Basil.", f.Message)
}

func TestFormatWateringOverdue(t *testing.T) {
	ctx := Context{"plant_names": []string{"Basil"}, "delay_hours": 53}

	f := Format(TypeWateringOverdue, ctx)
	assert.Equal(t, "Missed watering", f.Title)
	assert.Contains(t, f.Message, "for more than 53 hours")

	// Default floor when the context carries no delay.
	f = Format(TypeWateringOverdue, Context{"plant_names": []string{"Basil"}})
	assert.Contains(t, f.Message, "for more than 48 hours")
}

func TestFormatHarvestApproachingPluralizes(t *testing.T) {
	f := Format(TypeHarvestApproaching, Context{"plant_name": "Tomato", "days_remaining": 7})
	assert.Contains(t, f.Message, "expected in 7 days")

	f = Format(TypeHarvestApproaching, Context{"plant_name": "Tomato", "days_remaining": 1})
	assert.Contains(t, f.Message, "expected in 1 day.")
}

func TestFormatFertilizationPhase(t *testing.T) {
	f := Format(TypeFertilizationPhase, Context{"plant_names": []string{"Tomato"}, "phase": "flowering"})
	assert.Equal(t, "Fertilization recommended", f.Title)
	assert.Contains(t, f.Message, "Tomato reached the flowering phase")

	f = Format(TypeFertilizationPhase, Context{"plant_names": []string{"Tomato"}, "phase": "bolting"})
	assert.Contains(t, f.Message, "reached a new growth phase")
}

func TestFormatLateRegistration(t *testing.T) {
	f := Format(TypeLateRegistration, Context{"plant_name": "Mint", "delay_days": 3})
	assert.Contains(t, f.Message, "Mint 3 days after the actual planting date")
}

func TestFormatWeatherAlertUsesRuleMessage(t *testing.T) {
	f := Format(TypeWeatherAlert, Context{"message": "Heavy rain may cause blight on your tomatoes."})
	assert.Equal(t, "Weather alert", f.Title)
	assert.Equal(t, "Heavy rain may cause blight on your tomatoes.", f.Message)

	f = Format(TypeWeatherAlert, Context{})
	assert.Equal(t, "Severe weather ahead for your plantations.", f.Message)
}

func TestFormatUnknownTypeFallsBack(t *testing.T) {
	f := Format(Type("mystery"), Context{})
	assert.Equal(t, "Notification", f.Title)
}
