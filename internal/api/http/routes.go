package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/potagerapp/careengine/internal/forecast"
	"github.com/potagerapp/careengine/internal/health"
	"github.com/potagerapp/careengine/internal/intake"
	"github.com/potagerapp/careengine/internal/notify"
	"github.com/potagerapp/careengine/internal/plant"
	"github.com/potagerapp/careengine/internal/store"
	"github.com/potagerapp/careengine/internal/watering"
)

var validate = validator.New()

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Store        *store.MemoryStore
	Intake       *intake.Service
	Engine       *notify.Engine
	Provider     forecast.Provider
	ForecastDays int
	CronSecret   string

	// Now is the injected clock; defaults to time.Now.
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Post("/plantations", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		intakeReq, err := req.toIntake()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		p, err := deps.Intake.Register(c.Context(), intakeReq)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}

		return c.Status(fiber.StatusCreated).JSON(plantationView(p))
	})

	v1.Post("/plantations/:id/confirm", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid plantation id")
		}

		p, err := deps.Intake.Confirm(c.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return fiber.NewError(fiber.StatusNotFound, "plantation not found")
			case errors.Is(err, intake.ErrAlreadyConfirmed):
				return fiber.NewError(fiber.StatusBadRequest, "plantation already confirmed")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to confirm plantation")
		}

		return c.JSON(fiber.Map{
			"status":           "ok",
			"confirmationDate": p.ConfirmedAt.Format(time.RFC3339),
			"lifecycleStatus":  p.LifecycleStatus(),
		})
	})

	v1.Get("/plantations/:id/health-score", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid plantation id")
		}

		p, err := deps.Store.Plantation(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "plantation not found")
		}

		snapshots, err := deps.Store.SnapshotsNewestFirst(id)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read snapshots")
		}

		score := health.ComputeScore(p.Template, p.ConfirmedAt, snapshots, deps.now())
		return c.JSON(score)
	})

	v1.Get("/plantations/:id/watering", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid plantation id")
		}

		p, err := deps.Store.Plantation(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "plantation not found")
		}

		fc, err := deps.Provider.FetchDaily(c.Context(), p.Latitude, p.Longitude, deps.ForecastDays)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "forecast unavailable")
		}

		in := watering.Input{
			Template:       p.Template,
			Location:       p.Location,
			Forecast:       fc,
			ManualWatering: c.QueryBool("watered"),
			Now:            deps.now(),
		}
		if latest := p.LatestSnapshot(); latest != nil {
			in.Stage = latest.Stage
			in.LastWateredAt = latest.Details.LastWateredAt
		}

		return c.JSON(watering.Compute(in))
	})

	v1.Get("/notifications", func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Query("userId"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "userId query parameter is required")
		}

		items, total, err := deps.Store.NotificationsForUser(
			userID,
			c.QueryInt("page", 1),
			c.QueryInt("limit", 20),
			c.QueryBool("unread"),
		)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list notifications")
		}

		return c.JSON(fiber.Map{
			"items": items,
			"total": total,
		})
	})

	v1.Post("/notifications/:id/read", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
		}
		if err := deps.Store.MarkRead(id); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "notification not found")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1.Post("/notifications/read-all", func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Query("userId"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "userId query parameter is required")
		}
		affected, err := deps.Store.MarkAllRead(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to mark notifications read")
		}
		return c.JSON(fiber.Map{"affected": affected})
	})

	// Manual trigger for the notification run, guarded by a shared secret.
	v1.Get("/cron/notifications", func(c *fiber.Ctx) error {
		if deps.CronSecret != "" && c.Get("X-Cron-Auth") != deps.CronSecret {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		report, err := deps.Engine.Run(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": "error",
				"report": report,
				"detail": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"report": report,
		})
	})
}

// registerRequest is the intake payload.
type registerRequest struct {
	UserID       string          `json:"userId" validate:"required,uuid4"`
	Template     templateRequest `json:"template" validate:"required"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	Address      string          `json:"address"`
	Location     string          `json:"location"`
	PlantingDate string          `json:"plantingDate"` // YYYY-MM-DD, defaults to today
}

type templateRequest struct {
	Name                string  `json:"name" validate:"required"`
	Type                string  `json:"type"`
	WateringQuantityML  float64 `json:"wateringQuantityMl" validate:"gte=0"`
	WateringFrequency   string  `json:"wateringFrequency"`
	ExpectedHarvestDays int     `json:"expectedHarvestDays" validate:"gte=0"`
}

func (r registerRequest) toIntake() (intake.Request, error) {
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return intake.Request{}, errors.New("invalid userId")
	}

	var plantingDate time.Time
	if r.PlantingDate != "" {
		plantingDate, err = time.Parse("2006-01-02", r.PlantingDate)
		if err != nil {
			return intake.Request{}, errors.New("invalid plantingDate; use YYYY-MM-DD")
		}
	}

	return intake.Request{
		UserID: userID,
		Template: &plant.Template{
			Name:                r.Template.Name,
			Type:                plant.ClassifyType(r.Template.Type),
			WateringQuantityML:  r.Template.WateringQuantityML,
			WateringFrequency:   r.Template.WateringFrequency,
			ExpectedHarvestDays: r.Template.ExpectedHarvestDays,
		},
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Address:      r.Address,
		Location:     r.Location,
		PlantingDate: plantingDate,
	}, nil
}

// plantationView shapes the API response for a plantation.
func plantationView(p *plant.Plantation) fiber.Map {
	view := fiber.Map{
		"id":              p.ID,
		"userId":          p.UserID,
		"template":        p.Template,
		"latitude":        p.Latitude,
		"longitude":       p.Longitude,
		"location":        p.Location,
		"plantingDate":    p.PlantingDate.Format("2006-01-02"),
		"lifecycleStatus": p.LifecycleStatus(),
	}
	if p.ConfirmedAt != nil {
		view["confirmedAt"] = p.ConfirmedAt.Format(time.RFC3339)
	}
	if latest := p.LatestSnapshot(); latest != nil {
		view["latestSnapshot"] = latest
	}
	return view
}
