// Package lifecycle derives a plantation's growth stage and progression
// from its age relative to the template's expected harvest duration.
package lifecycle

import (
	"time"
)

// Stage labels, derived from percentage of the expected harvest duration.
const (
	StageSeedling     = "seedling"
	StageVegetative   = "vegetative"
	StageFlowering    = "flowering"
	StageFruiting     = "fruiting"
	StageHarvestReady = "harvest-ready"
)

// State is the computed lifecycle position of a plantation.
type State struct {
	Stage          string  `json:"stage"`
	ProgressionPct float64 `json:"progressionPct"` // 0..100, capped
	AgeDays        int     `json:"ageDays"`
}

// Progress computes the lifecycle state at now for a plantation confirmed
// at confirmedAt. With no usable harvest duration the plantation stays at
// the seedling stage with zero progression.
func Progress(confirmedAt time.Time, expectedHarvestDays int, now time.Time) State {
	age := int(startOfDay(now).Sub(startOfDay(confirmedAt)).Hours() / 24)
	if age < 0 {
		age = 0
	}

	st := State{Stage: StageSeedling, AgeDays: age}
	if expectedHarvestDays <= 0 {
		return st
	}

	pct := float64(age) / float64(expectedHarvestDays) * 100
	if pct > 100 {
		pct = 100
	}
	st.ProgressionPct = pct
	st.Stage = stageFor(pct)
	return st
}

// stageFor maps progression to the phase bands the fertilization rule also
// keys on (vegetative ~20%, flowering ~40%, fruiting ~70%).
func stageFor(pct float64) string {
	switch {
	case pct >= 100:
		return StageHarvestReady
	case pct >= 70:
		return StageFruiting
	case pct >= 40:
		return StageFlowering
	case pct >= 20:
		return StageVegetative
	default:
		return StageSeedling
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
