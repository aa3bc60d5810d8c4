package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/potagerapp/careengine/internal/api/http"
	"github.com/potagerapp/careengine/internal/config"
	"github.com/potagerapp/careengine/internal/forecast"
	"github.com/potagerapp/careengine/internal/geo"
	"github.com/potagerapp/careengine/internal/intake"
	"github.com/potagerapp/careengine/internal/notify"
	"github.com/potagerapp/careengine/internal/scheduler"
	"github.com/potagerapp/careengine/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store backing the collaborator contracts.
	memStore := store.NewMemoryStore()

	// Daily forecast provider with resilience (backoff + circuit breaker).
	provider := forecast.NewOpenMeteoProvider(httpClient)

	// Address resolution for plantations registered without coordinates.
	resolver := geo.NewGoogleResolver(cfg.GeocoderAPIKey)

	// Core services.
	engine := notify.NewEngine(memStore, memStore, memStore, provider, cfg.ForecastDays)
	intakeSvc := intake.NewService(memStore, memStore, provider, resolver, cfg.ForecastDays)

	// Scheduler that periodically evaluates the notification rules.
	sched := scheduler.New(engine, cfg.RunInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "careengine",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "careengine",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Store:        memStore,
		Intake:       intakeSvc,
		Engine:       engine,
		Provider:     provider,
		ForecastDays: cfg.ForecastDays,
		CronSecret:   cfg.CronSecret,
	})

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
