// Package intake handles plantation registration and confirmation,
// including the auto-confirmation rules and the first decision snapshot.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/potagerapp/careengine/internal/forecast"
	"github.com/potagerapp/careengine/internal/geo"
	"github.com/potagerapp/careengine/internal/lifecycle"
	"github.com/potagerapp/careengine/internal/notify"
	"github.com/potagerapp/careengine/internal/plant"
	"github.com/potagerapp/careengine/internal/watering"
)

// ErrAlreadyConfirmed is returned when confirming a confirmed plantation.
var ErrAlreadyConfirmed = errors.New("plantation already confirmed")

// Store is the persistence surface intake writes through.
type Store interface {
	SavePlantation(p *plant.Plantation)
	Plantation(id uuid.UUID) (*plant.Plantation, error)
	AppendSnapshot(plantationID uuid.UUID, snap plant.Snapshot) error
}

// Service registers and confirms plantations.
type Service struct {
	store        Store
	sink         notify.Sink
	provider     forecast.Provider
	resolver     geo.Resolver
	forecastDays int

	// Now is the injected clock; defaults to time.Now.
	Now func() time.Time
}

// NewService wires the intake service.
func NewService(store Store, sink notify.Sink, provider forecast.Provider, resolver geo.Resolver, forecastDays int) *Service {
	if forecastDays <= 0 {
		forecastDays = 3
	}
	return &Service{
		store:        store,
		sink:         sink,
		provider:     provider,
		resolver:     resolver,
		forecastDays: forecastDays,
		Now:          time.Now,
	}
}

// Request describes a plantation to register.
type Request struct {
	UserID       uuid.UUID
	Template     *plant.Template
	Latitude     float64
	Longitude    float64
	Address      string // geocoded when coordinates are missing
	Location     string // free-text label, classified indoor/outdoor later
	PlantingDate time.Time
}

// Register creates a plantation. A future planting date leaves the
// plantation awaiting explicit confirmation; today or a past date confirms
// it immediately on that date. A confirmed plantation gets its first
// decision snapshot, and a registration more than a day after the actual
// planting date triggers a late-registration notice.
func (s *Service) Register(ctx context.Context, req Request) (*plant.Plantation, error) {
	now := s.Now()
	today := startOfDay(now)

	plantingDate := req.PlantingDate
	if plantingDate.IsZero() {
		plantingDate = today
	}
	plantingDate = startOfDay(plantingDate)

	lat, lon := req.Latitude, req.Longitude
	if lat == 0 && lon == 0 && req.Address != "" {
		var err error
		lat, lon, err = s.resolver.Resolve(req.Address)
		if err != nil {
			return nil, fmt.Errorf("resolve coordinates: %w", err)
		}
	}

	p := &plant.Plantation{
		ID:           uuid.New(),
		UserID:       req.UserID,
		Template:     req.Template,
		Latitude:     lat,
		Longitude:    lon,
		Location:     req.Location,
		PlantingDate: plantingDate,
		Status:       plant.StatusActive,
	}

	if !plantingDate.After(today) {
		confirmed := plantingDate
		p.ConfirmedAt = &confirmed
	}

	s.store.SavePlantation(p)

	if p.Confirmed() {
		if err := s.createSnapshot(ctx, p, now); err != nil {
			// The plantation is registered either way; the first snapshot
			// catches up on the next engine run.
			log.Printf("intake: first snapshot for %s failed: %v", p.ID, err)
		}
	}

	if delay := daysBetween(plantingDate, today); delay >= 1 {
		_, err := s.sink.Create(p.UserID, notify.TypeLateRegistration, notify.Context{
			"plant_name": p.PlantName(),
			"delay_days": delay,
		}, p.ID)
		if err != nil {
			log.Printf("intake: late-registration notice for %s failed: %v", p.ID, err)
		}
	}

	return p, nil
}

// Confirm marks an awaiting plantation as actually in the ground and
// creates its first decision snapshot.
func (s *Service) Confirm(ctx context.Context, plantationID uuid.UUID) (*plant.Plantation, error) {
	p, err := s.store.Plantation(plantationID)
	if err != nil {
		return nil, err
	}
	if p.Confirmed() {
		return nil, ErrAlreadyConfirmed
	}

	now := s.Now()
	confirmed := startOfDay(now)
	p.ConfirmedAt = &confirmed
	p.Status = plant.StatusActive
	s.store.SavePlantation(p)

	if err := s.createSnapshot(ctx, p, now); err != nil {
		log.Printf("intake: first snapshot for %s failed: %v", p.ID, err)
	}

	return p, nil
}

// createSnapshot computes lifecycle and watering state and appends the
// decision snapshot. Forecast trouble degrades to a decision without
// weather adjustments rather than failing the registration.
func (s *Service) createSnapshot(ctx context.Context, p *plant.Plantation, now time.Time) error {
	var fc forecast.Forecast
	if s.provider != nil {
		var err error
		fc, err = s.provider.FetchDaily(ctx, p.Latitude, p.Longitude, s.forecastDays)
		if err != nil {
			log.Printf("intake: forecast for %s unavailable: %v", p.ID, err)
			fc = nil
		}
	}

	expectedDays := 0
	if p.Template != nil {
		expectedDays = p.Template.ExpectedHarvestDays
	}
	life := lifecycle.Progress(*p.ConfirmedAt, expectedDays, now)

	decision := watering.Compute(watering.Input{
		Template: p.Template,
		Location: p.Location,
		Stage:    life.Stage,
		Forecast: fc,
		Now:      now,
	})

	snap := plant.Snapshot{
		Date:             now,
		Stage:            life.Stage,
		ProgressionPct:   life.ProgressionPct,
		NextWateringDate: decision.NextDate,
		QuantityML:       decision.QuantityML,
		Details: plant.DecisionDetails{
			Notes:             decision.Notes,
			FrequencyDays:     decision.FrequencyDays,
			AutoValidation:    decision.AutoValidation,
			TemperatureAdvice: decision.TemperatureAdvice,
			Cards:             decision.Cards,
			LastWateredAt:     &decision.LastWateredAt,
		},
		Forecast: fc,
	}

	return s.store.AppendSnapshot(p.ID, snap)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
