package notify

import (
	"fmt"
	"strings"
	"time"
)

// Formatted is a rendered title/body pair.
type Formatted struct {
	Title   string
	Message string
}

// Format renders the per-type template for a notification context.
// Plant-name lists are joined with commas and a final "and".
func Format(t Type, ctx Context) Formatted {
	switch t {
	case TypeRainCancellation:
		return Formatted{
			Title:   "Rain expected today",
			Message: fmt.Sprintf("Rain is expected today, watering %s is no longer needed.", joinedNames(ctx)),
		}
	case TypeDayBeforePlanting:
		return Formatted{
			Title:   "Planting tomorrow",
			Message: fmt.Sprintf("Get ready, your planting of %s is scheduled for tomorrow (%s).", singleName(ctx), contextDate(ctx)),
		}
	case TypePlantingDay:
		return Formatted{
			Title:   "Planting day",
			Message: fmt.Sprintf("Today is the day! Time to plant %s.", singleName(ctx)),
		}
	case TypeWateringReminder:
		msg := fmt.Sprintf("Don't forget to water %s", joinedNames(ctx))
		if at, ok := ctx["time"].(string); ok && at != "" {
			msg += " at " + at
		}
		return Formatted{Title: "Watering reminder", Message: msg + "."}
	case TypeWateringOverdue:
		delay := 48
		if h, ok := ctx["delay_hours"].(int); ok {
			delay = h
		}
		return Formatted{
			Title: "Missed watering",
			Message: fmt.Sprintf("Watering missed! You forgot to water %s for more than %d hours. Risk of drying out!",
				joinedNames(ctx), delay),
		}
	case TypeHarvestApproaching:
		days := 7
		if d, ok := ctx["days_remaining"].(int); ok {
			days = d
		}
		return Formatted{
			Title:   "Harvest almost ready",
			Message: fmt.Sprintf("Your %s will soon be ready to harvest! Harvest expected in %s.", singleName(ctx), plural(days, "day")),
		}
	case TypeFertilizationPhase:
		phase, _ := ctx["phase"].(string)
		return Formatted{
			Title: "Fertilization recommended",
			Message: fmt.Sprintf("Your %s reached %s. Fertilizing now is recommended to optimize growth.",
				joinedNames(ctx), phaseText(phase)),
		}
	case TypeLateRegistration:
		delay := 1
		if d, ok := ctx["delay_days"].(int); ok && d > 0 {
			delay = d
		}
		return Formatted{
			Title: "Late registration",
			Message: fmt.Sprintf("You registered the planting of %s %s after the actual planting date. "+
				"For accurate tracking, register plantings as soon as they happen.",
				singleName(ctx), plural(delay, "day")),
		}
	case TypeWeatherAlert:
		msg, _ := ctx["message"].(string)
		if msg == "" {
			msg = "Severe weather ahead for your plantations."
		}
		return Formatted{Title: "Weather alert", Message: msg}
	}

	return Formatted{Title: "Notification", Message: "You have a new garden notification."}
}

// joinedNames renders plant names: a single name as-is, two or more joined
// with commas and a final "and".
func joinedNames(ctx Context) string {
	names := ctx.plantNames()
	switch len(names) {
	case 0:
		return "your plants"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func singleName(ctx Context) string {
	if name, ok := ctx["plant_name"].(string); ok && name != "" {
		return name
	}
	return joinedNames(ctx)
}

func contextDate(ctx Context) string {
	if d, ok := ctx["date"].(time.Time); ok {
		return d.Format("02/01/2006")
	}
	if s, ok := ctx["date"].(string); ok && s != "" {
		return s
	}
	return time.Now().Format("02/01/2006")
}

func phaseText(phase string) string {
	switch phase {
	case "vegetative":
		return "the vegetative phase"
	case "flowering":
		return "the flowering phase"
	case "fruiting":
		return "the fruiting phase"
	default:
		return "a new growth phase"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
