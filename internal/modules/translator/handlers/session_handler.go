package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/modules/translator/services"
)

// SessionHandler handles translation session requests
type SessionHandler struct {
	sessions *services.SessionService
	ingestor *ingest.Ingestor
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *services.SessionService, ingestor *ingest.Ingestor) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		ingestor: ingestor,
	}
}

// UpdateSourceRequest represents the request body for editing the source text
type UpdateSourceRequest struct {
	Text string `json:"text"`
}

// UpdateLanguagesRequest represents the request body for changing the language pair
type UpdateLanguagesRequest struct {
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

// CreateSession godoc
// @Summary Create a translation session
// @Description Start a new session with the default language pair and an empty history
// @Tags Sessions
// @Produce json
// @Success 201 {object} services.Snapshot
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	o := h.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(o.Snapshot())
}

// GetSession godoc
// @Summary Get session state
// @Description Current state, progress, texts, language pair and history of a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.Snapshot
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}
	return c.JSON(o.Snapshot())
}

// DeleteSession godoc
// @Summary Delete a session
// @Description Drops the session and its history
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session id format",
		})
	}
	if err := h.sessions.Delete(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadImage godoc
// @Summary Upload an image for text extraction
// @Description Validates the image and starts extraction in the background. Poll the session for progress.
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param image formData file true "Image file"
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /sessions/{id}/image [post]
func (h *SessionHandler) UploadImage(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "image file is required",
		})
	}

	payload, err := h.ingestor.IngestMultipart(c.UserContext(), file)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrTooLarge):
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, ingest.ErrNotAnImage):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			log.Error().Err(err).Str("session_id", o.ID().String()).Msg("failed to read uploaded image")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to read image file",
			})
		}
	}

	if err := h.sessions.SubmitImage(o.ID(), payload); err != nil {
		if errors.Is(err, services.ErrPoolBusy) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Error().Err(err).Str("session_id", o.ID().String()).Msg("failed to submit extraction")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to start text extraction",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"session_id": o.ID(),
		"status":     "processing",
		"image": services.ImageInfo{
			MediaType: payload.MediaType,
			FileName:  payload.FileName,
			Size:      payload.Size,
			Width:     payload.Width,
			Height:    payload.Height,
		},
	})
}

// GetImage godoc
// @Summary Download the current image
// @Tags Sessions
// @Produce octet-stream
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/image [get]
func (h *SessionHandler) GetImage(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}
	image, ok := o.Image()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session has no image",
		})
	}
	c.Set(fiber.HeaderContentType, image.MediaType)
	return c.Send(image.Data)
}

// ClearImage godoc
// @Summary Remove the current image
// @Description Drops the image and abandons its extraction. The source text stays.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.Snapshot
// @Router /sessions/{id}/image [delete]
func (h *SessionHandler) ClearImage(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}
	o.ClearImage()
	return c.JSON(o.Snapshot())
}

// UpdateSource godoc
// @Summary Edit the source text
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body UpdateSourceRequest true "Source text (max 5000 characters)"
// @Success 200 {object} services.Snapshot
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/source [put]
func (h *SessionHandler) UpdateSource(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}

	var req UpdateSourceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := o.SetSourceText(req.Text); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(o.Snapshot())
}

// UpdateLanguages godoc
// @Summary Change the language pair
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body UpdateLanguagesRequest true "Language codes from GET /languages"
// @Success 200 {object} services.Snapshot
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/languages [put]
func (h *SessionHandler) UpdateLanguages(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}

	var req UpdateLanguagesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := o.SetLanguages(req.SourceLanguage, req.TargetLanguage); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(o.Snapshot())
}

// Translate godoc
// @Summary Translate the source text
// @Description Runs one translation. On failure the target text holds an error message and the response is 502.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.Snapshot
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]interface{}
// @Router /sessions/{id}/translate [post]
func (h *SessionHandler) Translate(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}

	_, err = o.Translate(c.UserContext())
	switch {
	case err == nil:
		return c.JSON(o.Snapshot())
	case errors.Is(err, services.ErrEmptySource), errors.Is(err, services.ErrSourceTooLong):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrTranslationInFlight), errors.Is(err, services.ErrSuperseded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   services.TranslationErrorMessage,
			"session": o.Snapshot(),
		})
	}
}

// Swap godoc
// @Summary Swap languages and texts
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.Snapshot
// @Router /sessions/{id}/swap [post]
func (h *SessionHandler) Swap(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}
	o.Swap()
	return c.JSON(o.Snapshot())
}

// GetHistory godoc
// @Summary Recent translations
// @Description Up to five completed translations, most recent first
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{}
// @Router /sessions/{id}/history [get]
func (h *SessionHandler) GetHistory(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}
	entries := o.History()
	return c.JSON(fiber.Map{
		"history": entries,
		"count":   len(entries),
	})
}

// ClearHistory godoc
// @Summary Clear recent translations
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id}/history [delete]
func (h *SessionHandler) ClearHistory(c *fiber.Ctx) error {
	o, err := h.session(c)
	if o == nil {
		return err
	}
	o.ClearHistory()
	return c.SendStatus(fiber.StatusNoContent)
}

// session resolves :id. A nil session means the error response has already
// been written and the returned error is the one to hand back to fiber.
func (h *SessionHandler) session(c *fiber.Ctx) (*services.Orchestrator, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid session id format",
		})
	}
	o, err := h.sessions.Get(id)
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return o, nil
}
