// Package ocr drives text recognition engines. Every extraction gets its own
// engine instance, which is always terminated before Extract returns.
package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
)

// PhaseRecognizing is the only phase surfaced to progress listeners
const PhaseRecognizing = "recognizing text"

// Progress is a single progress notification from an engine
type Progress struct {
	Percent int    `json:"percent"` // 0-100
	Phase   string `json:"phase"`
}

// ProgressFunc receives progress notifications. It may be nil.
type ProgressFunc func(Progress)

// RecognizeConfig is the fixed recognition policy of this pipeline
type RecognizeConfig struct {
	Language                string `json:"language"`
	RotateAuto              bool   `json:"rotate_auto"`
	EngineMode              int    `json:"engine_mode"` // 1 = LSTM only
	PreserveInterwordSpaces bool   `json:"preserve_interword_spaces"`
	PageSegMode             int    `json:"page_seg_mode"` // 1 = automatic with orientation detection
}

// DefaultRecognizeConfig returns the pipeline policy for the given language.
// These values are not user-configurable.
func DefaultRecognizeConfig(language string) RecognizeConfig {
	if language == "" {
		language = "eng"
	}
	return RecognizeConfig{
		Language:                language,
		RotateAuto:              true,
		EngineMode:              1,
		PreserveInterwordSpaces: true,
		PageSegMode:             1,
	}
}

// Engine is a stateful recognition resource. Callers go through
// Load, LoadLanguage, Initialize and Recognize in order, then Terminate.
type Engine interface {
	Load(ctx context.Context) error
	LoadLanguage(ctx context.Context, language string) error
	Initialize(ctx context.Context, language string) error
	Recognize(ctx context.Context, image ingest.ImagePayload, cfg RecognizeConfig, onProgress ProgressFunc) (string, error)
	Terminate() error

	// Name returns the engine name
	Name() string
}

// EngineFactory creates a fresh, unloaded engine
type EngineFactory func() (Engine, error)

// Engine lifecycle stages, used in EngineError
const (
	StageCreate       = "create"
	StageLoad         = "load"
	StageLoadLanguage = "load language"
	StageInitialize   = "initialize"
	StageRecognize    = "recognize"
)

var (
	// ErrNoText means recognition finished but found nothing but whitespace
	ErrNoText = errors.New("no text found in image")

	// ErrEngineFailure matches any EngineError
	ErrEngineFailure = errors.New("text recognition engine failure")
)

// EngineError reports which lifecycle stage failed
type EngineError struct {
	Stage string
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s during %s: %v", ErrEngineFailure, e.Stage, e.Err)
}

func (e *EngineError) Unwrap() []error {
	return []error{ErrEngineFailure, e.Err}
}
