// Package watering implements the watering calculator: a pure function of a
// plant template, the last known watering state, and a daily weather
// forecast, producing the next watering decision with auto-validation and
// advisory cards.
package watering

import (
	"fmt"
	"math"
	"time"

	"github.com/potagerapp/careengine/internal/forecast"
	"github.com/potagerapp/careengine/internal/plant"
)

const (
	// RainThresholdMM is the daily precipitation at or above which a
	// watering cycle is considered satisfied by rain.
	RainThresholdMM = 5.0

	// moderateRainMM starts the quantity-reduction band [2, threshold).
	moderateRainMM = 2.0

	// heavyRainTomorrowMM pushes the next date back by an extra day.
	heavyRainTomorrowMM = 7.0

	// cumulativeRainDangerMM over today+tomorrow triggers a danger card.
	cumulativeRainDangerMM = 30.0

	defaultQuantityML = 500
)

// Input carries everything the calculator reads. Now is injected so runs
// and tests are deterministic.
type Input struct {
	Template       *plant.Template
	Location       string
	Stage          string // growth-stage label from the latest snapshot, may be empty
	LastWateredAt  *time.Time
	ManualWatering bool
	Forecast       forecast.Forecast
	Now            time.Time
}

// Decision is the transient next-watering decision, embedded into a
// snapshot by the caller.
type Decision struct {
	NextDate          time.Time                 `json:"nextDate"`
	QuantityML        float64                   `json:"quantityMl"`
	Notes             []string                  `json:"notes,omitempty"`
	FrequencyDays     int                       `json:"frequencyDays"`
	AutoValidation    *plant.AutoValidation     `json:"autoValidation,omitempty"`
	TemperatureAdvice []plant.TemperatureAdvice `json:"temperatureAdvice,omitempty"`
	Cards             []plant.AdvisoryCard      `json:"cards,omitempty"`
	LastWateredAt     time.Time                 `json:"lastWateredAt"`
	Outdoor           bool                      `json:"outdoor"`
}

// DangerCard returns the danger_alert card, if the decision carries one.
func (d *Decision) DangerCard() *plant.AdvisoryCard {
	for i := range d.Cards {
		if d.Cards[i].Type == plant.CardDangerAlert {
			return &d.Cards[i]
		}
	}
	return nil
}

// Compute derives the next watering decision. It never fails: malformed
// template data falls back to defaults and absent forecast fields are
// simply skipped.
func Compute(in Input) Decision {
	freqDays := resolveFrequency(in.Template)
	quantity := baseQuantity(in.Template)
	kind := plant.ClassifyLocation(in.Location)
	outdoor := kind == plant.Outdoor

	today := startOfDay(in.Now)
	reference := today
	if in.LastWateredAt != nil && !in.ManualWatering {
		reference = startOfDay(*in.LastWateredAt)
	}

	interval := time.Duration(freqDays) * 24 * time.Hour
	next := reference.Add(interval)

	d := Decision{
		FrequencyDays: freqDays,
		LastWateredAt: reference,
		Outdoor:       outdoor,
	}

	todayFc := in.Forecast.Today()
	tomorrowFc := in.Forecast.Tomorrow()

	if outdoor {
		if rain := precip(todayFc); rain != nil && *rain >= RainThresholdMM {
			// Rain today satisfies the current cycle: restart from today.
			reference = today
			next = today.Add(interval)
			msg := "Rain expected today, watering is validated automatically. No need to water."
			d.AutoValidation = &plant.AutoValidation{
				ValidatedAt:     today,
				ValidatedFor:    next,
				Reason:          plant.ReasonRainToday,
				PrecipitationMM: *rain,
				Message:         msg,
			}
			d.LastWateredAt = reference
			d.Notes = append(d.Notes, msg)
			d.Cards = append(d.Cards, plant.AdvisoryCard{
				Type:     plant.CardWateringAuto,
				Severity: plant.SeveritySuccess,
				Message:  msg,
			})
		} else if offset := daysBetween(today, next); offset >= 0 && offset <= 2 {
			if fcDay := in.Forecast.Day(offset); fcDay != nil && fcDay.PrecipitationSum != nil && *fcDay.PrecipitationSum >= RainThresholdMM {
				// Forecast rain covers the upcoming cycle: skip it forward.
				msg := fmt.Sprintf("Rain expected in %d day(s), watering is validated automatically. No need to water.", offset)
				if offset == 0 {
					msg = "Rain expected today, watering is validated automatically. No need to water."
				}
				d.AutoValidation = &plant.AutoValidation{
					ValidatedAt:     today,
					ValidatedFor:    next,
					Reason:          plant.ReasonRainForecast,
					PrecipitationMM: *fcDay.PrecipitationSum,
					Message:         msg,
				}
				d.Notes = append(d.Notes, msg)
				d.Cards = append(d.Cards, plant.AdvisoryCard{
					Type:     plant.CardWateringAuto,
					Severity: plant.SeverityInfo,
					Message:  msg,
				})
				next = next.Add(interval)
			}
		}

		if d.AutoValidation == nil {
			if rain := precip(todayFc); rain != nil && *rain >= moderateRainMM && *rain < RainThresholdMM {
				quantity *= 0.8
				d.Notes = append(d.Notes, "Quantity reduced by 20% because moderate rain is expected.")
			}
			if rain := precip(tomorrowFc); rain != nil && *rain >= heavyRainTomorrowMM {
				next = next.Add(24 * time.Hour)
				d.Notes = append(d.Notes, "Extra one-day postponement because heavy rain is expected tomorrow.")
			}
		}

		if card := cumulativeRainCard(in.Template, in.Stage, todayFc, tomorrowFc); card != nil {
			d.Cards = append(d.Cards, *card)
			d.Notes = append(d.Notes, "Heavy cumulative rain ahead: "+card.Message)
		}
	}

	quantity = applyTemperature(&d, todayFc, outdoor, quantity)

	// The next watering date is always strictly after today. The rain-today
	// path already lands in the future, so this loop is a no-op there.
	for !next.After(today) {
		next = next.Add(interval)
	}

	d.NextDate = next
	d.QuantityML = round2(quantity)
	return d
}

// applyTemperature applies quantity adjustments and advisory cards driven by
// today's temperatures. The hot and cold quantity branches are mutually
// exclusive and compose multiplicatively with the rain reduction.
func applyTemperature(d *Decision, today *forecast.Daily, outdoor bool, quantity float64) float64 {
	if today == nil {
		return quantity
	}

	if today.TemperatureMax != nil {
		switch {
		case *today.TemperatureMax >= 32:
			quantity *= 1.2
			d.Notes = append(d.Notes, "Quantity increased by 20% because max temperature >= 32°C.")
		case *today.TemperatureMax <= 10:
			quantity *= 0.9
			d.Notes = append(d.Notes, "Quantity reduced by 10% because max temperature <= 10°C.")
		}
	}

	if today.TemperatureMin != nil && *today.TemperatureMin >= 10 && *today.TemperatureMin <= 15 && !outdoor {
		msg := "Indoor plant: beware of the cold! Keep it away from drafts and cold window panes. " +
			"Most importantly: cut watering to the minimum. Cold soil plus water means guaranteed rot."
		d.TemperatureAdvice = append(d.TemperatureAdvice, plant.TemperatureAdvice{
			Type:     plant.CardColdAlert,
			Location: "indoor",
			Message:  msg,
		})
		d.Cards = append(d.Cards, plant.AdvisoryCard{
			Type:     plant.CardColdAlert,
			Severity: plant.SeverityWarning,
			Message:  msg,
		})
		d.Notes = append(d.Notes, "Indoor cold advice: delay watering if possible and watch humidity.")
	}

	if today.TemperatureMax != nil && *today.TemperatureMax > 30 {
		var msg string
		if outdoor {
			msg = "Apply a thick layer of mulch to insulate the soil and water deeply in the evening or early morning."
		} else {
			msg = "Move plants away from direct window sun and raise humidity by misting or with clay-pebble saucers."
		}
		loc := "indoor"
		if outdoor {
			loc = "outdoor"
		}
		d.TemperatureAdvice = append(d.TemperatureAdvice, plant.TemperatureAdvice{
			Type:     plant.CardHeatAlert,
			Location: loc,
			Message:  msg,
		})
		d.Cards = append(d.Cards, plant.AdvisoryCard{
			Type:     plant.CardHeatAlert,
			Severity: plant.SeverityInfo,
			Message:  msg,
		})
		d.Notes = append(d.Notes, "Heat advice: "+msg)
	}

	return quantity
}

func resolveFrequency(t *plant.Template) int {
	if t == nil {
		return plant.DefaultFrequencyDays
	}
	if days, ok := plant.ResolveFrequency(t.WateringFrequency); ok {
		return days
	}
	return plant.DefaultFrequencyDays
}

func baseQuantity(t *plant.Template) float64 {
	if t == nil || t.WateringQuantityML <= 0 {
		return defaultQuantityML
	}
	return t.WateringQuantityML
}

func precip(day *forecast.Daily) *float64 {
	if day == nil {
		return nil
	}
	return day.PrecipitationSum
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
