package notify

import (
	"fmt"
	"time"

	"github.com/potagerapp/careengine/internal/forecast"
	"github.com/potagerapp/careengine/internal/plant"
	"github.com/potagerapp/careengine/internal/watering"
)

// ruleRainCancellation notifies when watering was auto-validated by rain.
// The legacy fallback covers plantations whose stored next-watering date is
// today while rain is already above the threshold.
func (e *Engine) ruleRainCancellation(p *plant.Plantation, latest *plant.Snapshot, fc forecast.Forecast, d watering.Decision, names []string, today time.Time) (int, error) {
	if d.AutoValidation.IsRain() {
		return e.emit(p, TypeRainCancellation, Context{
			"plant_names":       names,
			"precipitation_sum": d.AutoValidation.PrecipitationMM,
			"message":           "Rain detected. Watering validated automatically.",
		}, today)
	}

	if latest == nil {
		return 0, nil
	}
	day := fc.Today()
	if day == nil || day.PrecipitationSum == nil || *day.PrecipitationSum < watering.RainThresholdMM {
		return 0, nil
	}
	if !sameDay(latest.NextWateringDate, today) {
		return 0, nil
	}

	return e.emit(p, TypeRainCancellation, Context{
		"plant_names":       names,
		"precipitation_sum": *day.PrecipitationSum,
	}, today)
}

// ruleWeatherAlert relays a danger advisory card, at most once per day.
func (e *Engine) ruleWeatherAlert(p *plant.Plantation, d watering.Decision, names []string, today time.Time) (int, error) {
	card := d.DangerCard()
	if card == nil {
		return 0, nil
	}

	return e.emit(p, TypeWeatherAlert, Context{
		"plant_names": names,
		"message":     card.Message,
		"severity":    card.Severity,
	}, today)
}

// rulePlantingReminders fires the day-before and planting-day reminders for
// plantations not yet confirmed.
func (e *Engine) rulePlantingReminders(p *plant.Plantation, today time.Time) (int, error) {
	if p.Confirmed() || p.PlantingDate.IsZero() {
		return 0, nil
	}

	created := 0
	switch daysBetween(today, p.PlantingDate) {
	case 1:
		n, err := e.emit(p, TypeDayBeforePlanting, Context{
			"plant_name": p.PlantName(),
			"date":       p.PlantingDate,
		}, today)
		if err != nil {
			return created, err
		}
		created += n
	case 0:
		n, err := e.emit(p, TypePlantingDay, Context{
			"plant_name": p.PlantName(),
			"date":       p.PlantingDate,
		}, today)
		if err != nil {
			return created, err
		}
		created += n
	}

	return created, nil
}

// ruleHarvestApproaching fires exactly one week before the expected harvest.
func (e *Engine) ruleHarvestApproaching(p *plant.Plantation, today time.Time) (int, error) {
	if !p.Confirmed() || p.Template == nil || p.Template.ExpectedHarvestDays <= 0 {
		return 0, nil
	}

	harvestDate := startOfDay(*p.ConfirmedAt).AddDate(0, 0, p.Template.ExpectedHarvestDays)
	if daysBetween(today, harvestDate) != 7 {
		return 0, nil
	}

	return e.emit(p, TypeHarvestApproaching, Context{
		"plant_name":     p.PlantName(),
		"days_remaining": 7,
		"harvest_date":   harvestDate,
	}, today)
}

// fertilizationBand is a growth-percentage window that maps to a phase.
type fertilizationBand struct {
	low, high float64
	phase     string
}

var fertilizationBands = []fertilizationBand{
	{18, 22, "vegetative"},
	{38, 42, "flowering"},
	{68, 72, "fruiting"},
}

// ruleFertilizationPhase recommends fertilizing when growth enters a phase
// band. The dedup lookback is widened to a week so the notification does
// not repeat while the percentage drifts through the band.
func (e *Engine) ruleFertilizationPhase(p *plant.Plantation, names []string, today time.Time) (int, error) {
	if !p.Confirmed() || p.Template == nil || p.Template.ExpectedHarvestDays <= 0 {
		return 0, nil
	}

	ageDays := daysBetween(startOfDay(*p.ConfirmedAt), today)
	pct := float64(ageDays) / float64(p.Template.ExpectedHarvestDays) * 100

	var phase string
	for _, band := range fertilizationBands {
		if pct >= band.low && pct <= band.high {
			phase = band.phase
			break
		}
	}
	if phase == "" {
		return 0, nil
	}

	since := today.AddDate(0, 0, -fertilizationLookbackDays)
	return e.emit(p, TypeFertilizationPhase, Context{
		"plant_names":       names,
		"phase":             phase,
		"growth_percentage": pct,
	}, since)
}

// ruleWateringReminder nudges in the evening when today is watering day and
// no rain will do the job.
func (e *Engine) ruleWateringReminder(p *plant.Plantation, latest *plant.Snapshot, fc forecast.Forecast, names []string, today, now time.Time) (int, error) {
	if latest == nil || !sameDay(latest.NextWateringDate, today) {
		return 0, nil
	}
	if now.Hour() < e.reminderHour {
		return 0, nil
	}
	if day := fc.Today(); day != nil && day.PrecipitationSum != nil && *day.PrecipitationSum >= watering.RainThresholdMM {
		return 0, nil
	}

	return e.emit(p, TypeWateringReminder, Context{
		"plant_names": names,
		"time":        fmt.Sprintf("%02d:00", e.reminderHour),
	}, today)
}

// ruleWateringOverdue warns when the stored next-watering date is more than
// 48 hours in the past. The dedup window is anchored to yesterday's start,
// so at most one overdue notice goes out per calendar day.
func (e *Engine) ruleWateringOverdue(p *plant.Plantation, latest *plant.Snapshot, names []string, now time.Time) (int, error) {
	if latest == nil || latest.NextWateringDate.IsZero() {
		return 0, nil
	}

	overdueBy := now.Sub(latest.NextWateringDate)
	if overdueBy <= OverdueHours*time.Hour {
		return 0, nil
	}

	delayHours := int(overdueBy.Hours())
	if delayHours < OverdueHours {
		delayHours = OverdueHours
	}

	since := startOfDay(now).AddDate(0, 0, -1)
	return e.emit(p, TypeWateringOverdue, Context{
		"plant_names": names,
		"delay_hours": delayHours,
	}, since)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
