// Package health aggregates a plantation's snapshot history into a
// composite wellness score with a per-factor breakdown.
package health

import (
	"math"
	"time"

	"github.com/potagerapp/careengine/internal/plant"
)

const (
	neutralScore = 70

	// scorerFrequencyFallback differs from the calculator's: an
	// unresolvable frequency counts gaps against a 2-day expectation.
	scorerFrequencyFallback = 2

	maxWateringGaps    = 10
	maxGrowthSnapshots = 5
	growthDelayGapPct  = 15
)

// Factor weights of the composite score.
const (
	wateringWeight = 0.40
	growthWeight   = 0.35
	ageWeight      = 0.25
)

// Factors is the per-factor score breakdown.
type Factors struct {
	Watering int `json:"watering"`
	Growth   int `json:"growth"`
	Age      int `json:"age"`
}

// Score is the composite health result.
type Score struct {
	Score           int      `json:"score"`
	Status          string   `json:"status"`
	Factors         Factors  `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// ComputeScore aggregates the snapshot history (newest first) into a 0-100
// wellness score. Missing confirmation date or template yields the neutral
// default rather than an error.
func ComputeScore(template *plant.Template, confirmedAt *time.Time, snapshots []plant.Snapshot, now time.Time) Score {
	if confirmedAt == nil || template == nil {
		return defaultScore("Plantation not confirmed yet or insufficient data")
	}

	watering := wateringScore(template, snapshots)
	growth := growthScore(template, *confirmedAt, snapshots)
	age := ageScore(template, *confirmedAt, now)

	total := int(math.Round(float64(watering)*wateringWeight +
		float64(growth)*growthWeight +
		float64(age)*ageWeight))

	return Score{
		Score:           total,
		Status:          statusFor(total),
		Factors:         Factors{Watering: watering, Growth: growth, Age: age},
		Recommendations: recommendations(watering, growth, age),
	}
}

// wateringScore measures regularity of the snapshot-to-snapshot intervals
// against the template's expected frequency, with a one-day tolerance.
func wateringScore(template *plant.Template, snapshots []plant.Snapshot) int {
	if len(snapshots) < 2 {
		return neutralScore
	}

	expected, ok := plant.ResolveFrequency(template.WateringFrequency)
	if !ok {
		expected = scorerFrequencyFallback
	}

	recent := snapshots
	if len(recent) > maxWateringGaps {
		recent = recent[:maxWateringGaps]
	}

	irregular := 0
	checked := 0
	for i := 0; i < len(recent)-1; i++ {
		gap := daysApart(recent[i+1].Date, recent[i].Date)
		if absInt(gap-expected) > 1 {
			irregular++
		}
		checked++
	}

	if checked == 0 {
		return neutralScore
	}
	return int(math.Round((1 - float64(irregular)/float64(checked)) * 100))
}

// growthScore counts snapshots whose recorded progression trails the
// expected progression at that age by more than the delay gap.
func growthScore(template *plant.Template, confirmedAt time.Time, snapshots []plant.Snapshot) int {
	if len(snapshots) < 2 || template.ExpectedHarvestDays <= 0 {
		return neutralScore
	}

	recent := snapshots
	if len(recent) > maxGrowthSnapshots {
		recent = recent[:maxGrowthSnapshots]
	}

	delayed := 0
	for _, snap := range recent {
		ageDays := daysApart(confirmedAt, snap.Date)
		if ageDays < 0 {
			continue
		}
		expectedPct := float64(ageDays) / float64(template.ExpectedHarvestDays) * 100
		if expectedPct-snap.ProgressionPct > growthDelayGapPct {
			delayed++
		}
	}

	return int(math.Round((1 - float64(delayed)/float64(len(recent))) * 100))
}

// ageScore penalizes plantations running past their expected harvest time.
// Tiers are inclusive at each boundary.
func ageScore(template *plant.Template, confirmedAt time.Time, now time.Time) int {
	if template.ExpectedHarvestDays <= 0 {
		return neutralScore
	}

	ageDays := daysApart(confirmedAt, now)
	agePct := float64(ageDays) / float64(template.ExpectedHarvestDays) * 100

	switch {
	case agePct <= 100:
		return 100
	case agePct <= 120:
		return 80
	case agePct <= 150:
		return 60
	default:
		return 40
	}
}

func statusFor(score int) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "average"
	default:
		return "needs attention"
	}
}

func recommendations(watering, growth, age int) []string {
	var recs []string

	if watering < 60 {
		recs = append(recs, "Improve watering regularity for optimal growth")
	} else if watering < 80 {
		recs = append(recs, "Keep the watering schedule steady")
	}

	if growth < 60 {
		recs = append(recs, "Slowed growth detected. Check sun exposure and fertilization")
	} else if growth < 80 {
		recs = append(recs, "Growth is acceptable but could be improved")
	}

	if age < 60 {
		recs = append(recs, "The plant is past its expected cycle. Review growing conditions")
	}

	if len(recs) == 0 {
		recs = append(recs, "Keep up the good work! Your plantation is in excellent health")
	}
	return recs
}

func defaultScore(reason string) Score {
	return Score{
		Score:  neutralScore,
		Status: "insufficient data",
		Factors: Factors{
			Watering: neutralScore,
			Growth:   neutralScore,
			Age:      neutralScore,
		},
		Recommendations: []string{reason},
	}
}

func daysApart(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)).Hours() / 24)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
