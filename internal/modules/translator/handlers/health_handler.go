package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/modules/translator/services"
)

// Pinger is satisfied by *database.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	sessions *services.SessionService
	db       Pinger
}

func NewHealthHandler(sessions *services.SessionService) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

// WithDatabase adds the audit database to the health report
func (h *HealthHandler) WithDatabase(db Pinger) *HealthHandler {
	h.db = db
	return h
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive. Status is "degraded" when the audit database is unreachable.
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	status, dbStatus := "ok", "disabled"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			log.Warn().Err(err).Msg("health: database ping failed")
			status, dbStatus = "degraded", "down"
		} else {
			dbStatus = "up"
		}
	}

	return c.JSON(fiber.Map{
		"status":          status,
		"service":         "image-translator-api",
		"database":        dbStatus,
		"ocr_engine":      h.sessions.ExtractorName(),
		"translator":      h.sessions.TranslatorName(),
		"sessions":        h.sessions.Count(),
		"running_workers": h.sessions.RunningWorkers(),
	})
}
