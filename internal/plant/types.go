package plant

import (
	"time"

	"github.com/google/uuid"
)

// Type is the botanical category of a template.
type Type string

const (
	TypeUnknown   Type = "unknown"
	TypeFruit     Type = "fruit"
	TypeVegetable Type = "vegetable"
	TypeHerb      Type = "herb"
	TypeFlower    Type = "flower"
)

// Status is the lifecycle state of a plantation.
type Status string

const (
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusActive               Status = "active"
	StatusFinished             Status = "finished"
)

// Template is the static botanical profile a plantation instantiates.
// Reference data owned by the catalog collaborator; never mutated here.
type Template struct {
	Name                string  `json:"name"`
	Type                Type    `json:"type"`
	WateringQuantityML  float64 `json:"wateringQuantityMl"`
	WateringFrequency   string  `json:"wateringFrequency"` // free text, parsed via ResolveFrequency
	ExpectedHarvestDays int     `json:"expectedHarvestDays"`
}

// Plantation is one user's tracked instance of a template.
type Plantation struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"userId"`
	Template *Template `json:"template"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Location is the free-text label ("jardin", "kitchen windowsill", ...)
	// classified into indoor/outdoor at computation time.
	Location string `json:"location"`

	PlantingDate time.Time  `json:"plantingDate"`
	ConfirmedAt  *time.Time `json:"confirmedAt,omitempty"` // nil until in the ground
	Status       Status     `json:"status"`

	// Snapshots are ordered newest first; the head is authoritative for
	// next-watering queries.
	Snapshots []Snapshot `json:"snapshots,omitempty"`
}

// Confirmed reports whether the plantation is confirmed as actually planted.
func (p *Plantation) Confirmed() bool {
	return p.ConfirmedAt != nil
}

// LifecycleStatus is the externally reported status: an active plantation
// without a confirmation date is still awaiting confirmation.
func (p *Plantation) LifecycleStatus() Status {
	if p.Status == StatusActive && !p.Confirmed() {
		return StatusAwaitingConfirmation
	}
	return p.Status
}

// LatestSnapshot returns the most recent snapshot, or nil when none exists.
func (p *Plantation) LatestSnapshot() *Snapshot {
	if len(p.Snapshots) == 0 {
		return nil
	}
	return &p.Snapshots[0]
}

// PlantName returns the template name or a generic fallback for messages.
func (p *Plantation) PlantName() string {
	if p.Template != nil && p.Template.Name != "" {
		return p.Template.Name
	}
	return "your plant"
}
