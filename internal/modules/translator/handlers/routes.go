package handlers

import "github.com/gofiber/fiber/v2"

// Handlers groups every HTTP handler of the translator API
type Handlers struct {
	Health   *HealthHandler
	Language *LanguageHandler
	Session  *SessionHandler
	Audit    *AuditHandler
}

// RegisterRoutes mounts the translator API on router
func RegisterRoutes(router fiber.Router, h Handlers) {
	router.Get("/health", h.Health.GetHealth)
	router.Get("/languages", h.Language.ListLanguages)

	router.Post("/sessions", h.Session.CreateSession)
	router.Get("/sessions/:id", h.Session.GetSession)
	router.Delete("/sessions/:id", h.Session.DeleteSession)
	router.Post("/sessions/:id/image", h.Session.UploadImage)
	router.Get("/sessions/:id/image", h.Session.GetImage)
	router.Delete("/sessions/:id/image", h.Session.ClearImage)
	router.Put("/sessions/:id/source", h.Session.UpdateSource)
	router.Put("/sessions/:id/languages", h.Session.UpdateLanguages)
	router.Post("/sessions/:id/translate", h.Session.Translate)
	router.Post("/sessions/:id/swap", h.Session.Swap)
	router.Get("/sessions/:id/history", h.Session.GetHistory)
	router.Delete("/sessions/:id/history", h.Session.ClearHistory)

	router.Get("/audit/events", h.Audit.GetEvents)
}
