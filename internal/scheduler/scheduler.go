package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/potagerapp/careengine/internal/notify"
)

// Scheduler periodically runs the notification engine. SingletonMode keeps
// runs single-flight: the dedup check-then-create sequence assumes at most
// one run executes at a time.
type Scheduler struct {
	scheduler *gocron.Scheduler
	engine    *notify.Engine
	interval  time.Duration
}

// New creates a new Scheduler.
func New(engine *notify.Engine, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		engine:    engine,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		log.Println("scheduler: running notification engine")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		report, err := s.engine.Run(ctx)
		if err != nil {
			log.Printf("scheduler: run finished with errors: %v", err)
		}
		log.Printf("scheduler: run done, processed=%d failed=%d created=%d",
			report.Processed, report.Failed, report.Created)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
