// Package notify evaluates the per-plantation notification rules once per
// run and emits deduplicated notifications through the sink.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/potagerapp/careengine/internal/forecast"
	"github.com/potagerapp/careengine/internal/plant"
	"github.com/potagerapp/careengine/internal/watering"
)

const (
	// ReminderHour is the earliest local hour a same-day watering
	// reminder may go out.
	ReminderHour = 17

	// OverdueHours is how far past the stored next-watering date a
	// plantation must be before an overdue notice fires.
	OverdueHours = 48

	// fertilizationLookbackDays widens the dedup window for phase
	// notifications so they don't re-trigger while the growth percentage
	// drifts through a band.
	fertilizationLookbackDays = 7
)

// PlantationSource lists plantations by lifecycle status.
type PlantationSource interface {
	AllWithStatus(status plant.Status) ([]*plant.Plantation, error)
}

// SnapshotRepository reads a plantation's observation history.
type SnapshotRepository interface {
	LatestForPlantation(plantationID uuid.UUID) (*plant.Snapshot, error)
}

// Sink persists notifications and answers the dedup query.
type Sink interface {
	HasNotificationSince(plantationID uuid.UUID, t Type, since time.Time) (bool, error)
	Create(userID uuid.UUID, t Type, ctx Context, plantationID uuid.UUID) (*Notification, error)
}

// Report summarizes one engine run.
type Report struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Created   int `json:"created"`
}

// Engine runs the notification rules over all active plantations. One
// engine run is strictly sequential; the caller guarantees single-flight
// invocation.
type Engine struct {
	plantations  PlantationSource
	snapshots    SnapshotRepository
	sink         Sink
	provider     forecast.Provider
	forecastDays int
	reminderHour int

	// Now is the injected clock; defaults to time.Now.
	Now func() time.Time
}

// NewEngine wires the engine with its collaborators.
func NewEngine(plantations PlantationSource, snapshots SnapshotRepository, sink Sink, provider forecast.Provider, forecastDays int) *Engine {
	if forecastDays <= 0 {
		forecastDays = 3
	}
	return &Engine{
		plantations:  plantations,
		snapshots:    snapshots,
		sink:         sink,
		provider:     provider,
		forecastDays: forecastDays,
		reminderHour: ReminderHour,
		Now:          time.Now,
	}
}

// Run evaluates every active plantation once. A forecast failure or rule
// panic on one plantation never aborts the run; persistence failures on
// notification create are aggregated into the returned error while
// already-created notifications stay committed.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	var report Report
	var createErrs []error

	plantations, err := e.plantations.AllWithStatus(plant.StatusActive)
	if err != nil {
		return report, fmt.Errorf("list active plantations: %w", err)
	}

	log.Printf("notify: %d active plantations to analyze", len(plantations))

	cache := forecast.NewCache(e.provider, e.forecastDays)

	for _, p := range plantations {
		if p == nil || p.UserID == uuid.Nil {
			continue
		}

		created, err := e.processPlantation(ctx, cache, p)
		report.Created += created
		if err != nil {
			report.Failed++
			log.Printf("notify: plantation %s failed: %v", p.ID, err)
			if errors.Is(err, errCreate) {
				createErrs = append(createErrs, err)
			}
			continue
		}
		report.Processed++
	}

	log.Printf("notify: run complete, processed=%d failed=%d created=%d",
		report.Processed, report.Failed, report.Created)

	return report, errors.Join(createErrs...)
}

var errCreate = errors.New("notification create failed")

func (e *Engine) processPlantation(ctx context.Context, cache *forecast.Cache, p *plant.Plantation) (int, error) {
	now := e.Now()
	today := startOfDay(now)

	fc, err := cache.Get(ctx, p.Latitude, p.Longitude)
	if err != nil {
		return 0, fmt.Errorf("forecast fetch: %w", err)
	}

	latest, err := e.snapshots.LatestForPlantation(p.ID)
	if err != nil {
		return 0, fmt.Errorf("latest snapshot: %w", err)
	}

	decision := e.computeWatering(p, latest, fc, now)
	names := []string{p.PlantName()}

	rules := []struct {
		name string
		run  func() (int, error)
	}{
		{"rain_cancellation", func() (int, error) { return e.ruleRainCancellation(p, latest, fc, decision, names, today) }},
		{"weather_alert", func() (int, error) { return e.ruleWeatherAlert(p, decision, names, today) }},
		{"planting_reminders", func() (int, error) { return e.rulePlantingReminders(p, today) }},
		{"harvest_approaching", func() (int, error) { return e.ruleHarvestApproaching(p, today) }},
		{"fertilization_phase", func() (int, error) { return e.ruleFertilizationPhase(p, names, today) }},
		{"watering_reminder", func() (int, error) { return e.ruleWateringReminder(p, latest, fc, names, today, now) }},
		{"watering_overdue", func() (int, error) { return e.ruleWateringOverdue(p, latest, names, now) }},
	}

	created := 0
	var firstCreateErr error
	for _, rule := range rules {
		n, err := rule.run()
		created += n
		if err != nil {
			// One rule's failure is isolated; the remaining rules still run.
			log.Printf("notify: rule %s failed for plantation %s: %v", rule.name, p.ID, err)
			if errors.Is(err, errCreate) && firstCreateErr == nil {
				firstCreateErr = err
			}
		}
	}

	return created, firstCreateErr
}

// computeWatering reruns the calculator from the latest snapshot's watering
// state so rules see a fresh decision for today's forecast.
func (e *Engine) computeWatering(p *plant.Plantation, latest *plant.Snapshot, fc forecast.Forecast, now time.Time) watering.Decision {
	in := watering.Input{
		Template: p.Template,
		Location: p.Location,
		Forecast: fc,
		Now:      now,
	}
	if latest != nil {
		in.Stage = latest.Stage
		if latest.Details.LastWateredAt != nil {
			in.LastWateredAt = latest.Details.LastWateredAt
		} else {
			date := latest.Date
			in.LastWateredAt = &date
		}
	}
	return watering.Compute(in)
}

// emit creates one notification unless a notification of the same type has
// already been created for the plantation since the given timestamp.
func (e *Engine) emit(p *plant.Plantation, t Type, nctx Context, since time.Time) (int, error) {
	sent, err := e.sink.HasNotificationSince(p.ID, t, since)
	if err != nil {
		return 0, fmt.Errorf("dedup query for %s: %w", t, err)
	}
	if sent {
		return 0, nil
	}

	if _, err := e.sink.Create(p.UserID, t, nctx, p.ID); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errCreate, t, err)
	}
	return 1, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)).Hours() / 24)
}
