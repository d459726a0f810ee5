package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/history"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/language"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/translation"
)

// Messages written into the text fields when a pass fails
const (
	ExtractionErrorMessage  = "Error extracting text from image. Please try again."
	TranslationErrorMessage = "Translation error occurred. Please try again."
)

// MaxSourceRunes is the longest source text accepted for translation
const MaxSourceRunes = 5000

// PipelineState is the orchestrator's current activity
type PipelineState string

const (
	StateIdle           PipelineState = "idle"
	StateExtractingText PipelineState = "extracting_text"
	StateTranslating    PipelineState = "translating"
	StateError          PipelineState = "error"
)

var (
	// ErrSuperseded is returned by a pass whose result was dropped because a newer action replaced it
	ErrSuperseded = errors.New("result discarded: superseded by a newer action")
	// ErrTranslationInFlight is returned by Translate while another translation runs
	ErrTranslationInFlight = errors.New("a translation is already in progress")
	// ErrEmptySource is returned by Translate when the source text is blank
	ErrEmptySource = errors.New("source text is empty")
	// ErrSourceTooLong is returned when the source text exceeds MaxSourceRunes
	ErrSourceTooLong = fmt.Errorf("source text exceeds %d characters", MaxSourceRunes)
	// ErrUnsupportedLanguage is returned by SetLanguages for codes outside the catalog
	ErrUnsupportedLanguage = errors.New("unsupported language code")
)

// TextExtractor turns an image into normalized text
type TextExtractor interface {
	Extract(ctx context.Context, image ingest.ImagePayload, onProgress ocr.ProgressFunc) (string, error)
	Name() string
}

// EventRecorder receives one event per finished pass
type EventRecorder interface {
	Record(ctx context.Context, event *audit.PipelineEvent) error
}

// OrchestratorOptions configures an Orchestrator
type OrchestratorOptions struct {
	SessionID          uuid.UUID
	SourceLanguage     string
	TargetLanguage     string
	ExtractionTimeout  time.Duration // 0 disables the timeout
	TranslationTimeout time.Duration // 0 disables the timeout
	Recorder           EventRecorder
	OnProgress         ocr.ProgressFunc // optional, sees the progress of the current pass only
}

// ImageInfo describes the current image without its bytes
type ImageInfo struct {
	MediaType string `json:"media_type"`
	FileName  string `json:"file_name,omitempty"`
	Size      int64  `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Snapshot is a consistent copy of the orchestrator's state. It is what
// clipboard and speech features read from.
type Snapshot struct {
	SessionID          uuid.UUID        `json:"session_id"`
	State              PipelineState    `json:"state"`
	Progress           int              `json:"progress"`
	SourceText         string           `json:"source_text"`
	TargetText         string           `json:"target_text"`
	SourceLanguage     string           `json:"source_language"`
	TargetLanguage     string           `json:"target_language"`
	SourceLanguageName string           `json:"source_language_name"`
	TargetLanguageName string           `json:"target_language_name"`
	Image              *ImageInfo       `json:"image,omitempty"`
	Error              string           `json:"error,omitempty"`
	History            []history.Record `json:"history"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Orchestrator sequences extraction and translation for one session.
// Every state change happens under mu, so readers never see a half-applied
// result.
type Orchestrator struct {
	extractor  TextExtractor
	translator translation.Translator
	recorder   EventRecorder
	history    *history.Cache
	onProgress ocr.ProgressFunc

	id                 uuid.UUID
	extractionTimeout  time.Duration
	translationTimeout time.Duration
	logger             zerolog.Logger

	mu             sync.RWMutex
	sourceText     string
	targetText     string
	sourceLanguage string
	targetLanguage string
	image          *ingest.ImagePayload
	progress       int
	extracting     bool
	translating    bool
	lastErr        string
	extractGen     uint64
	translateGen   uint64
	updatedAt      time.Time
}

// NewOrchestrator creates an idle orchestrator with an empty history
func NewOrchestrator(extractor TextExtractor, translator translation.Translator, opts OrchestratorOptions) *Orchestrator {
	if opts.SessionID == uuid.Nil {
		opts.SessionID = uuid.New()
	}
	var recorder EventRecorder = audit.NopRecorder{}
	if opts.Recorder != nil {
		recorder = opts.Recorder
	}

	return &Orchestrator{
		extractor:          extractor,
		translator:         translator,
		recorder:           recorder,
		history:            history.NewCache(history.DefaultCapacity),
		onProgress:         opts.OnProgress,
		id:                 opts.SessionID,
		extractionTimeout:  opts.ExtractionTimeout,
		translationTimeout: opts.TranslationTimeout,
		logger:             log.With().Str("session_id", opts.SessionID.String()).Logger(),
		sourceLanguage:     opts.SourceLanguage,
		targetLanguage:     opts.TargetLanguage,
		updatedAt:          time.Now(),
	}
}

// ID returns the session ID
func (o *Orchestrator) ID() uuid.UUID {
	return o.id
}

// ProcessImage runs one extraction pass for image. On success the text
// becomes the source text. On failure the source text is replaced with
// ExtractionErrorMessage and the error is returned. A newer image, a source
// edit or ClearImage during the pass makes it return ErrSuperseded without
// touching any state.
func (o *Orchestrator) ProcessImage(ctx context.Context, image ingest.ImagePayload) (string, error) {
	gen, _ := o.BeginExtraction(image)
	return o.RunExtraction(ctx, gen, image)
}

// BeginExtraction makes image the current image and moves the session to
// ExtractingText under a new generation, superseding any earlier pass. The
// returned generation is handed to RunExtraction. The previous image is
// returned for AbortExtraction.
func (o *Orchestrator) BeginExtraction(image ingest.ImagePayload) (uint64, *ingest.ImagePayload) {
	o.mu.Lock()
	defer o.mu.Unlock()

	previous := o.image
	o.extractGen++
	o.extracting = true
	o.progress = 0
	o.lastErr = ""
	o.image = &image
	o.touch()
	return o.extractGen, previous
}

// AbortExtraction undoes a BeginExtraction whose pass never ran. It is a
// no-op once gen has been superseded. An earlier pass superseded by gen
// stays superseded.
func (o *Orchestrator) AbortExtraction(gen uint64, previous *ingest.ImagePayload) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.extractGen || !o.extracting {
		return
	}
	o.extractGen++
	o.extracting = false
	o.progress = 0
	o.image = previous
	o.touch()
}

// RunExtraction executes the pass started by BeginExtraction. A pass whose
// generation is already stale returns ErrSuperseded without calling the
// engine.
func (o *Orchestrator) RunExtraction(ctx context.Context, gen uint64, image ingest.ImagePayload) (string, error) {
	o.mu.RLock()
	stale := gen != o.extractGen || !o.extracting
	o.mu.RUnlock()
	if stale {
		o.logger.Info().Uint64("generation", gen).Msg("extraction skipped, superseded before start")
		return "", ErrSuperseded
	}

	start := time.Now()
	o.logger.Info().Str("media_type", image.MediaType).Int64("size", image.Size).Msg("extraction started")

	if o.extractionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.extractionTimeout)
		defer cancel()
	}

	text, err := o.extractor.Extract(ctx, image, func(p ocr.Progress) {
		o.mu.Lock()
		current := gen == o.extractGen && o.extracting
		if current {
			o.progress = p.Percent
		}
		o.mu.Unlock()

		if current && o.onProgress != nil {
			o.onProgress(p)
		}
	})

	o.mu.Lock()
	if gen != o.extractGen || !o.extracting {
		o.mu.Unlock()
		o.logger.Info().Msg("extraction result discarded, superseded")
		o.record(ctx, audit.ActionExtract, audit.StatusSuperseded, o.extractor.Name(), start, nil, imageMeta(image))
		return "", ErrSuperseded
	}

	o.extracting = false
	o.progress = 0
	if err != nil {
		o.sourceText = ExtractionErrorMessage
		o.lastErr = err.Error()
	} else {
		o.sourceText = text
	}
	o.touch()
	o.mu.Unlock()

	if err != nil {
		o.logger.Error().Err(err).Msg("extraction failed")
		o.record(ctx, audit.ActionExtract, audit.StatusFailed, o.extractor.Name(), start, err, imageMeta(image))
		return "", err
	}

	o.logger.Info().Int("chars", utf8.RuneCountInString(text)).Dur("duration", time.Since(start)).Msg("extraction completed")
	o.record(ctx, audit.ActionExtract, audit.StatusSucceeded, o.extractor.Name(), start, nil, imageMeta(image))
	return text, nil
}

// SetSourceText replaces the editable source text. It supersedes any
// in-flight extraction or translation.
func (o *Orchestrator) SetSourceText(text string) error {
	if utf8.RuneCountInString(text) > MaxSourceRunes {
		return ErrSourceTooLong
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.supersedeExtraction()
	o.supersedeTranslation()
	o.sourceText = text
	o.lastErr = ""
	o.touch()
	return nil
}

// SetLanguages changes the language pair. Both codes must be in the catalog.
func (o *Orchestrator) SetLanguages(sourceLanguage, targetLanguage string) error {
	for _, code := range []string{sourceLanguage, targetLanguage} {
		if !language.IsSupported(code) {
			return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if sourceLanguage != o.sourceLanguage || targetLanguage != o.targetLanguage {
		o.supersedeTranslation()
	}
	o.sourceLanguage = sourceLanguage
	o.targetLanguage = targetLanguage
	o.lastErr = ""
	o.touch()
	return nil
}

// Translate sends the current source text to the translator. Only one
// translation runs at a time; a second call returns ErrTranslationInFlight
// and changes nothing. On success the target text is set and a record is
// prepended to the history. On failure the target text becomes
// TranslationErrorMessage and the history is left alone.
func (o *Orchestrator) Translate(ctx context.Context) (string, error) {
	o.mu.Lock()
	if o.translating {
		o.mu.Unlock()
		return "", ErrTranslationInFlight
	}
	source := o.sourceText
	if strings.TrimSpace(source) == "" {
		o.mu.Unlock()
		return "", ErrEmptySource
	}
	if utf8.RuneCountInString(source) > MaxSourceRunes {
		o.mu.Unlock()
		return "", ErrSourceTooLong
	}
	o.translateGen++
	gen := o.translateGen
	o.translating = true
	o.lastErr = ""
	sourceLang, targetLang := o.sourceLanguage, o.targetLanguage
	o.touch()
	o.mu.Unlock()

	start := time.Now()
	o.logger.Info().Str("from", sourceLang).Str("to", targetLang).Msg("translation started")

	if o.translationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.translationTimeout)
		defer cancel()
	}

	translated, err := o.translator.Translate(ctx, source, sourceLang, targetLang)
	meta := map[string]int{"chars": utf8.RuneCountInString(source)}

	o.mu.Lock()
	if gen != o.translateGen || !o.translating {
		o.mu.Unlock()
		o.logger.Info().Msg("translation result discarded, superseded")
		o.recordTranslation(ctx, audit.StatusSuperseded, sourceLang, targetLang, start, nil, meta)
		return "", ErrSuperseded
	}

	o.translating = false
	if err != nil {
		o.targetText = TranslationErrorMessage
		o.lastErr = err.Error()
		o.touch()
		o.mu.Unlock()

		o.logger.Error().Err(err).Str("provider", o.translator.Name()).Msg("translation failed")
		o.recordTranslation(ctx, audit.StatusFailed, sourceLang, targetLang, start, err, meta)
		return "", err
	}

	o.targetText = translated
	if err := o.history.Add(history.Record{
		SourceText:     source,
		TargetText:     translated,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
	}); err != nil {
		o.logger.Warn().Err(err).Msg("translation not added to history")
	}
	o.touch()
	o.mu.Unlock()

	o.logger.Info().Dur("duration", time.Since(start)).Msg("translation completed")
	o.recordTranslation(ctx, audit.StatusSucceeded, sourceLang, targetLang, start, nil, meta)
	return translated, nil
}

// Swap exchanges the language pair and the two texts together. It does not
// translate. Swapping twice restores the original state.
func (o *Orchestrator) Swap() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.supersedeTranslation()
	o.sourceLanguage, o.targetLanguage = o.targetLanguage, o.sourceLanguage
	o.sourceText, o.targetText = o.targetText, o.sourceText
	o.lastErr = ""
	o.touch()
}

// ClearImage drops the current image and any extraction running for it.
// The source text stays.
func (o *Orchestrator) ClearImage() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.supersedeExtraction()
	o.image = nil
	o.touch()
}

// Image returns the current image, if any
func (o *Orchestrator) Image() (ingest.ImagePayload, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.image == nil {
		return ingest.ImagePayload{}, false
	}
	return *o.image, true
}

// ClearHistory empties the history
func (o *Orchestrator) ClearHistory() {
	o.history.Clear()
	o.mu.Lock()
	o.touch()
	o.mu.Unlock()
}

// History returns the completed translations, most recent first
func (o *Orchestrator) History() []history.Record {
	return o.history.Entries()
}

// State returns the current pipeline state. An error wins over work in
// flight, and extraction wins over translation.
func (o *Orchestrator) State() PipelineState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.stateLocked()
}

// UpdatedAt returns when the session last changed
func (o *Orchestrator) UpdatedAt() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.updatedAt
}

// Busy reports whether any pass is in flight
func (o *Orchestrator) Busy() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.extracting || o.translating
}

// Snapshot returns a copy of the whole state
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snap := Snapshot{
		SessionID:          o.id,
		State:              o.stateLocked(),
		Progress:           o.progress,
		SourceText:         o.sourceText,
		TargetText:         o.targetText,
		SourceLanguage:     o.sourceLanguage,
		TargetLanguage:     o.targetLanguage,
		SourceLanguageName: displayName(o.sourceLanguage),
		TargetLanguageName: displayName(o.targetLanguage),
		Error:              o.lastErr,
		History:            o.history.Entries(),
		UpdatedAt:          o.updatedAt,
	}
	if o.image != nil {
		snap.Image = &ImageInfo{
			MediaType: o.image.MediaType,
			FileName:  o.image.FileName,
			Size:      o.image.Size,
			Width:     o.image.Width,
			Height:    o.image.Height,
		}
	}
	return snap
}

func (o *Orchestrator) stateLocked() PipelineState {
	switch {
	case o.lastErr != "":
		return StateError
	case o.extracting:
		return StateExtractingText
	case o.translating:
		return StateTranslating
	default:
		return StateIdle
	}
}

// callers hold mu
func (o *Orchestrator) supersedeExtraction() {
	if o.extracting {
		o.extractGen++
		o.extracting = false
		o.progress = 0
	}
}

// callers hold mu
func (o *Orchestrator) supersedeTranslation() {
	if o.translating {
		o.translateGen++
		o.translating = false
	}
}

// callers hold mu
func (o *Orchestrator) touch() {
	o.updatedAt = time.Now()
}

func (o *Orchestrator) recordTranslation(ctx context.Context, status, sourceLang, targetLang string, start time.Time, err error, meta interface{}) {
	event := o.event(audit.ActionTranslate, status, o.translator.Name(), start, err, meta)
	event.SourceLanguage = sourceLang
	event.TargetLanguage = targetLang
	o.save(ctx, event)
}

func (o *Orchestrator) record(ctx context.Context, action, status, provider string, start time.Time, err error, meta interface{}) {
	o.save(ctx, o.event(action, status, provider, start, err, meta))
}

func (o *Orchestrator) event(action, status, provider string, start time.Time, err error, meta interface{}) *audit.PipelineEvent {
	event := &audit.PipelineEvent{
		SessionID:  o.id,
		Action:     action,
		Status:     status,
		Provider:   provider,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		event.ErrorDetail = err.Error()
	}
	if data, jerr := audit.ToJSON(meta); jerr == nil {
		event.Metadata = data
	}
	return event
}

func (o *Orchestrator) save(ctx context.Context, event *audit.PipelineEvent) {
	// The pass's own deadline may already be spent
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := o.recorder.Record(ctx, event); err != nil {
		o.logger.Warn().Err(err).Str("action", event.Action).Msg("failed to record pipeline event")
	}
}

func displayName(code string) string {
	name, _ := language.Name(code)
	return name
}

func imageMeta(image ingest.ImagePayload) map[string]interface{} {
	return map[string]interface{}{
		"media_type": image.MediaType,
		"size":       image.Size,
		"width":      image.Width,
		"height":     image.Height,
	}
}
