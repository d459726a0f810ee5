package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/language"
)

type LanguageHandler struct {
	defaultSource string
	defaultTarget string
}

func NewLanguageHandler(defaultSource, defaultTarget string) *LanguageHandler {
	return &LanguageHandler{defaultSource: defaultSource, defaultTarget: defaultTarget}
}

// ListLanguages godoc
// @Summary Supported languages
// @Description Language codes accepted by the translation endpoints, sorted by name
// @Tags Languages
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /languages [get]
func (h *LanguageHandler) ListLanguages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"languages":      language.All(),
		"count":          language.Count(),
		"default_source": h.defaultSource,
		"default_target": h.defaultTarget,
	})
}
