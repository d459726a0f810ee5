package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ocr/engines"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/translation"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/modules/translator/handlers"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/modules/translator/services"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/image-translator-be/cmd/translator-api/docs"
)

// @title Image Translator API
// @version 1.0
// @description Extract text from images and translate it between languages.
// @BasePath /
func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel, cfg.Env)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting translator-api")

	// Audit (optional)
	var recorder services.EventRecorder = audit.NopRecorder{}
	var eventQuerier handlers.EventQuerier
	var auditService *audit.Service
	var db *database.DB
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		var err error
		db, err = database.NewDB(ctx, cfg.DatabaseURL, database.DefaultPoolOptions())
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		auditService = audit.NewService(db.GORM)
		recorder = auditService
		eventQuerier = auditService
	} else {
		log.Warn().Msg("DATABASE_URL not set, pipeline events will not be stored")
	}

	// OCR
	extractor, err := engines.NewManager(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OCR engine")
	}

	// Translation
	translator, err := translation.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize translator")
	}

	log.Info().
		Str("ocr_engine", extractor.Name()).
		Str("ocr_language", cfg.OCRLanguage).
		Str("translator", translator.Name()).
		Msg("providers ready")

	sessions, err := services.NewSessionService(extractor, translator, recorder, services.SessionConfig{
		SourceLanguage:     cfg.DefaultSourceLang,
		TargetLanguage:     cfg.DefaultTargetLang,
		ExtractionTimeout:  cfg.ExtractionTimeout,
		TranslationTimeout: cfg.TranslationTimeout,
		IdleTTL:            cfg.SessionIdleTTL,
		PoolSize:           cfg.WorkerPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session service")
	}

	// Scheduled jobs
	sched := scheduler.NewScheduler()
	if err := sched.AddJob("session-sweep", cfg.SessionSweepSchedule, func() {
		sessions.SweepIdle(time.Now())
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule session sweep")
	}
	if auditService != nil {
		days := cfg.AuditRetentionDays
		if err := sched.AddJob("audit-retention", "0 0 3 * * *", func() {
			if _, err := auditService.DeleteOldEvents(context.Background(), days); err != nil {
				log.Error().Err(err).Msg("audit retention job failed")
			}
		}); err != nil {
			log.Fatal().Err(err).Msg("failed to schedule audit retention")
		}
	}
	sched.Start()

	ingestor := ingest.NewIngestor(&ingest.Options{MaxSize: cfg.MaxUploadBytes})

	app := fiber.New(fiber.Config{
		AppName: "Image Translator API",
		// Room for the multipart envelope around the largest accepted image
		BodyLimit: int(cfg.MaxUploadBytes) + 1024*1024,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	health := handlers.NewHealthHandler(sessions)
	if db != nil {
		health.WithDatabase(db)
	}

	handlers.RegisterRoutes(app, handlers.Handlers{
		Health:   health,
		Language: handlers.NewLanguageHandler(cfg.DefaultSourceLang, cfg.DefaultTargetLang),
		Session:  handlers.NewSessionHandler(sessions, ingestor),
		Audit:    handlers.NewAuditHandler(eventQuerier),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info().Msg("shutting down")
		sched.Stop()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Msgf("translator-api running at :%s", cfg.Port)
	log.Info().Msgf("Swagger UI: http://localhost:%s/swagger/", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}

	if err := sessions.Close(cfg.ExtractionTimeout); err != nil {
		log.Warn().Err(err).Msg("extraction workers did not finish in time")
	}
}
