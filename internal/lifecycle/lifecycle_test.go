package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressStageBands(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		ageDays int
		stage   string
		pct     float64
	}{
		{0, StageSeedling, 0},
		{19, StageSeedling, 19},
		{20, StageVegetative, 20},
		{39, StageVegetative, 39},
		{40, StageFlowering, 40},
		{69, StageFlowering, 69},
		{70, StageFruiting, 70},
		{99, StageFruiting, 99},
		{100, StageHarvestReady, 100},
		{130, StageHarvestReady, 100}, // progression caps at 100
	}

	for _, tt := range cases {
		confirmed := now.AddDate(0, 0, -tt.ageDays)
		st := Progress(confirmed, 100, now)

		assert.Equal(t, tt.stage, st.Stage, "age %d days", tt.ageDays)
		assert.InDelta(t, tt.pct, st.ProgressionPct, 0.001, "age %d days", tt.ageDays)
		assert.Equal(t, tt.ageDays, st.AgeDays)
	}
}

func TestProgressIgnoresTimeOfDay(t *testing.T) {
	confirmed := time.Date(2026, 3, 1, 23, 50, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 0, 10, 0, 0, time.UTC)

	st := Progress(confirmed, 60, now)
	assert.Equal(t, 1, st.AgeDays)
}

func TestProgressWithoutHarvestDuration(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	confirmed := now.AddDate(0, 0, -45)

	st := Progress(confirmed, 0, now)

	assert.Equal(t, StageSeedling, st.Stage)
	assert.Zero(t, st.ProgressionPct)
	assert.Equal(t, 45, st.AgeDays)
}

func TestProgressFutureConfirmationClampsToZero(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	confirmed := now.AddDate(0, 0, 3)

	st := Progress(confirmed, 60, now)
	assert.Zero(t, st.AgeDays)
	assert.Equal(t, StageSeedling, st.Stage)
}
