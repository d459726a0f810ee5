package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/audit"
)

// EventQuerier reads stored pipeline events
type EventQuerier interface {
	GetEvents(ctx context.Context, filter audit.EventFilter) (*audit.EventResponse, error)
}

// AuditHandler exposes pipeline events. events is nil when auditing is off.
type AuditHandler struct {
	events EventQuerier
}

func NewAuditHandler(events EventQuerier) *AuditHandler {
	return &AuditHandler{events: events}
}

// GetEvents godoc
// @Summary Pipeline events
// @Description Paginated extraction and translation events, newest first. Events never contain text.
// @Tags Audit
// @Produce json
// @Param session_id query string false "Session ID"
// @Param action query string false "extract or translate"
// @Param status query string false "succeeded, failed or superseded"
// @Param start_date query string false "RFC3339 lower bound"
// @Param end_date query string false "RFC3339 upper bound"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 50)"
// @Success 200 {object} audit.EventResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /audit/events [get]
func (h *AuditHandler) GetEvents(c *fiber.Ctx) error {
	if h.events == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "audit is disabled, set DATABASE_URL to enable it",
		})
	}

	filter := audit.EventFilter{
		Action:   c.Query("action"),
		Status:   c.Query("status"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 50),
	}

	if raw := c.Query("session_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid session_id format",
			})
		}
		filter.SessionID = &id
	}

	for param, dst := range map[string]**time.Time{"start_date": &filter.StartDate, "end_date": &filter.EndDate} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid " + param + ", expected RFC3339",
			})
		}
		*dst = &t
	}

	resp, err := h.events.GetEvents(c.UserContext(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get pipeline events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get pipeline events",
		})
	}
	return c.JSON(resp)
}
