package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/potagerapp/careengine/internal/plant"
)

var scorerNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func basilTemplate() *plant.Template {
	return &plant.Template{
		Name:                "Basilic",
		Type:                plant.TypeHerb,
		WateringQuantityML:  200,
		WateringFrequency:   "tous les 2 jours",
		ExpectedHarvestDays: 60,
	}
}

func snapshotsAt(offsets []int, progression []float64) []plant.Snapshot {
	snaps := make([]plant.Snapshot, len(offsets))
	for i, off := range offsets {
		snaps[i] = plant.Snapshot{
			Date:           scorerNow.AddDate(0, 0, off),
			ProgressionPct: progression[i],
		}
	}
	return snaps
}

func TestComputeScoreDefaultWhenUnconfirmed(t *testing.T) {
	s := ComputeScore(basilTemplate(), nil, nil, scorerNow)

	assert.Equal(t, 70, s.Score)
	assert.Equal(t, Factors{Watering: 70, Growth: 70, Age: 70}, s.Factors)
	assert.Len(t, s.Recommendations, 1)

	s = ComputeScore(nil, &scorerNow, nil, scorerNow)
	assert.Equal(t, 70, s.Score)
}

func TestComputeScoreSingleSnapshotIsNeutral(t *testing.T) {
	confirmed := scorerNow.AddDate(0, 0, -10)
	snaps := snapshotsAt([]int{0}, []float64{20})

	s := ComputeScore(basilTemplate(), &confirmed, snaps, scorerNow)

	assert.Equal(t, 70, s.Factors.Watering)
	assert.Equal(t, 70, s.Factors.Growth)
}

func TestComputeScoreRegularWateringAndGrowth(t *testing.T) {
	confirmed := scorerNow.AddDate(0, 0, -8)
	// Perfect two-day cadence, progression tracking expectation.
	snaps := snapshotsAt(
		[]int{0, -2, -4, -6, -8},
		[]float64{13.3, 10, 6.7, 3.3, 0},
	)

	s := ComputeScore(basilTemplate(), &confirmed, snaps, scorerNow)

	assert.Equal(t, 100, s.Factors.Watering)
	assert.Equal(t, 100, s.Factors.Growth)
	assert.Equal(t, 100, s.Factors.Age)
	assert.Equal(t, 100, s.Score)
	assert.Equal(t, "excellent", s.Status)
	assert.Equal(t, []string{"Keep up the good work! Your plantation is in excellent health"}, s.Recommendations)
}

func TestComputeScoreIrregularWatering(t *testing.T) {
	confirmed := scorerNow.AddDate(0, 0, -20)
	// Gaps of 6, 6 days against a 2-day expectation: both irregular.
	snaps := snapshotsAt(
		[]int{0, -6, -12},
		[]float64{90, 80, 70},
	)

	s := ComputeScore(basilTemplate(), &confirmed, snaps, scorerNow)

	assert.Equal(t, 0, s.Factors.Watering)
	assert.Contains(t, s.Recommendations, "Improve watering regularity for optimal growth")
}

func TestComputeScoreGrowthDelay(t *testing.T) {
	confirmed := scorerNow.AddDate(0, 0, -30)
	// At day 30 of 60, expected progression is 50%; recorded lags far behind.
	snaps := snapshotsAt(
		[]int{0, -2},
		[]float64{10, 8},
	)

	s := ComputeScore(basilTemplate(), &confirmed, snaps, scorerNow)

	assert.Equal(t, 0, s.Factors.Growth)
	assert.Contains(t, s.Recommendations, "Slowed growth detected. Check sun exposure and fertilization")
}

func TestAgeFactorTiersInclusive(t *testing.T) {
	tmpl := basilTemplate()
	tmpl.ExpectedHarvestDays = 100

	tiers := []struct {
		ageDays int
		score   int
	}{
		{100, 100}, // exactly 100%
		{101, 80},  // just over
		{120, 80},  // 120% inclusive
		{121, 60},
		{150, 60}, // 150% inclusive
		{151, 40},
	}

	for _, tt := range tiers {
		confirmed := scorerNow.AddDate(0, 0, -tt.ageDays)
		assert.Equal(t, tt.score, ageScore(tmpl, confirmed, scorerNow), "age %d days", tt.ageDays)
	}
}

func TestCompositeWeighting(t *testing.T) {
	// Watering and growth were fine up to harvest time, but the plantation
	// overstayed its cycle: 0.40*100 + 0.35*100 + 0.25*40 = 85.
	confirmed := scorerNow.AddDate(0, 0, -160)
	tmpl := basilTemplate()
	tmpl.ExpectedHarvestDays = 100

	snaps := snapshotsAt(
		[]int{-60, -62, -64},
		[]float64{100, 98, 96},
	)
	s := ComputeScore(tmpl, &confirmed, snaps, scorerNow)

	assert.Equal(t, 100, s.Factors.Watering)
	assert.Equal(t, 100, s.Factors.Growth)
	assert.Equal(t, 40, s.Factors.Age)
	assert.Equal(t, 85, s.Score) // 40 + 35 + 10
	assert.Equal(t, "excellent", s.Status)
}
