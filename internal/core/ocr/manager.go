package ocr

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/textnorm"
)

// Manager runs extractions, one engine instance per call
type Manager struct {
	newEngine EngineFactory
	config    RecognizeConfig
	name      string
}

// NewManager creates a manager. name is reported in logs and audit events.
func NewManager(name string, factory EngineFactory, language string) *Manager {
	return &Manager{
		newEngine: factory,
		config:    DefaultRecognizeConfig(language),
		name:      name,
	}
}

// Name returns the configured engine name
func (m *Manager) Name() string {
	return m.name
}

// Config returns the recognition policy applied to every call
func (m *Manager) Config() RecognizeConfig {
	return m.config
}

// Extract recognizes the text in image and returns it normalized.
// onProgress only ever sees percents within [0,100].
func (m *Manager) Extract(ctx context.Context, image ingest.ImagePayload, onProgress ProgressFunc) (string, error) {
	start := time.Now()
	report := clamped(onProgress)

	var raw string
	err := m.withEngine(ctx, func(engine Engine) error {
		text, err := engine.Recognize(ctx, image, m.config, report)
		if err != nil {
			return &EngineError{Stage: StageRecognize, Err: err}
		}
		raw = text
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("engine", m.name).Msg("text extraction failed")
		return "", err
	}

	text := textnorm.Normalize(raw)
	if textnorm.IsBlank(text) {
		log.Warn().Str("engine", m.name).Msg("no text found in image")
		return "", ErrNoText
	}

	log.Info().
		Str("engine", m.name).
		Int("chars", len(text)).
		Dur("duration", time.Since(start)).
		Msg("text extracted")
	return text, nil
}

// withEngine acquires a fresh engine, brings it up and hands it to fn.
// Terminate runs exactly once on every path, panics included; its error is
// logged and dropped.
func (m *Manager) withEngine(ctx context.Context, fn func(Engine) error) error {
	engine, err := m.newEngine()
	if err != nil {
		return &EngineError{Stage: StageCreate, Err: err}
	}
	defer func() {
		if err := engine.Terminate(); err != nil {
			log.Warn().Err(err).Str("engine", engine.Name()).Msg("failed to terminate engine")
		}
	}()

	if err := engine.Load(ctx); err != nil {
		return &EngineError{Stage: StageLoad, Err: err}
	}
	if err := engine.LoadLanguage(ctx, m.config.Language); err != nil {
		return &EngineError{Stage: StageLoadLanguage, Err: err}
	}
	if err := engine.Initialize(ctx, m.config.Language); err != nil {
		return &EngineError{Stage: StageInitialize, Err: err}
	}

	return fn(engine)
}

func clamped(fn ProgressFunc) ProgressFunc {
	return func(p Progress) {
		if fn == nil || p.Phase != PhaseRecognizing {
			return
		}
		if p.Percent < 0 {
			p.Percent = 0
		}
		if p.Percent > 100 {
			p.Percent = 100
		}
		fn(p)
	}
}
