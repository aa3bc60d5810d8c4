package watering

import (
	"strings"

	"github.com/potagerapp/careengine/internal/common"
	"github.com/potagerapp/careengine/internal/forecast"
	"github.com/potagerapp/careengine/internal/plant"
)

// dangerRule pairs a predicate with the advisory message it selects.
// Rules are evaluated top to bottom; the first match wins.
type dangerRule struct {
	match   func(name string, stage string, t plant.Type) bool
	message string
}

var dangerRules = []dangerRule{
	{
		match: func(name, _ string, _ plant.Type) bool {
			return common.HasAny(name, "tomato", "tomate", "potato", "pomme de terre")
		},
		message: "Heavy rain ahead: high blight risk for this crop. Check drainage and avoid wetting the foliage.",
	},
	{
		match: func(name, _ string, _ plant.Type) bool {
			return common.HasAny(name, "strawberry", "fraise", "lettuce", "laitue", "salade")
		},
		message: "Heavy rain ahead: fruit and leaf rot risk. Mulch under the plants and improve airflow.",
	},
	{
		match: func(name, _ string, _ plant.Type) bool {
			return common.HasAny(name, "cactus", "succulent")
		},
		message: "Heavy rain ahead: critical overwatering risk for this plant. Shelter it or cover the soil completely.",
	},
	{
		match: func(_, stage string, t plant.Type) bool {
			return t == plant.TypeFruit && strings.Contains(stage, "fruiting")
		},
		message: "Heavy rain ahead during fruiting: splitting risk. Do not water and pick ripe fruit before the rain.",
	},
	{
		match: func(_, _ string, t plant.Type) bool {
			return t == plant.TypeVegetable
		},
		message: "Heavy rain ahead: waterlogging risk for vegetables. Hold off watering and loosen the soil afterwards.",
	},
	{
		match: func(_, _ string, t plant.Type) bool {
			return t == plant.TypeFlower
		},
		message: "Heavy rain ahead: protect fragile blooms and make sure pots drain freely.",
	},
}

const dangerFallbackMessage = "Heavy rain ahead: suspend watering and check that the soil drains properly."

// cumulativeRainCard emits a danger card when today+tomorrow precipitation
// reaches the danger threshold. Message selection goes through the ordered
// rule table.
func cumulativeRainCard(t *plant.Template, stage string, today, tomorrow *forecast.Daily) *plant.AdvisoryCard {
	total := 0.0
	known := false
	for _, day := range []*forecast.Daily{today, tomorrow} {
		if day != nil && day.PrecipitationSum != nil {
			total += *day.PrecipitationSum
			known = true
		}
	}
	if !known || total < cumulativeRainDangerMM {
		return nil
	}

	name := ""
	pt := plant.TypeUnknown
	if t != nil {
		name = strings.ToLower(t.Name)
		pt = t.Type
	}
	stage = strings.ToLower(stage)

	msg := dangerFallbackMessage
	for _, rule := range dangerRules {
		if rule.match(name, stage, pt) {
			msg = rule.message
			break
		}
	}

	return &plant.AdvisoryCard{
		Type:     plant.CardDangerAlert,
		Severity: plant.SeverityWarning,
		Message:  msg,
	}
}
