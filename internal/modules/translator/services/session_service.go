package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/translation"
)

var (
	// ErrSessionNotFound is returned for unknown or swept session IDs
	ErrSessionNotFound = errors.New("session not found")
	// ErrPoolBusy is returned by SubmitImage when no extraction worker is free
	ErrPoolBusy = errors.New("all extraction workers are busy, try again later")
)

// SessionConfig holds the per-session defaults
type SessionConfig struct {
	SourceLanguage     string
	TargetLanguage     string
	ExtractionTimeout  time.Duration
	TranslationTimeout time.Duration
	IdleTTL            time.Duration
	PoolSize           int
}

// imageJob is the argument of the extraction pool
type imageJob struct {
	session    *Orchestrator
	generation uint64
	image      ingest.ImagePayload
}

// SessionService owns one Orchestrator per session. Image passes run on a
// bounded worker pool; callers never wait for them.
type SessionService struct {
	extractor  TextExtractor
	translator translation.Translator
	recorder   EventRecorder
	cfg        SessionConfig
	pool       *ants.PoolWithFunc

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Orchestrator
}

// NewSessionService creates the registry and its worker pool
func NewSessionService(extractor TextExtractor, translator translation.Translator, recorder EventRecorder, cfg SessionConfig) (*SessionService, error) {
	if cfg.PoolSize <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}

	s := &SessionService{
		extractor:  extractor,
		translator: translator,
		recorder:   recorder,
		cfg:        cfg,
		sessions:   make(map[uuid.UUID]*Orchestrator),
	}

	pool, err := ants.NewPoolWithFunc(cfg.PoolSize, func(args any) {
		job, ok := args.(*imageJob)
		if !ok {
			panic("image pool args type error")
		}
		// Failures are already written into the session and logged
		_, _ = job.session.RunExtraction(context.Background(), job.generation, job.image)
	}, ants.WithNonblocking(true), ants.WithPanicHandler(func(p any) {
		log.Error().Interface("panic", p).Msg("extraction worker panicked")
	}))
	if err != nil {
		return nil, fmt.Errorf("create extraction pool: %w", err)
	}
	s.pool = pool

	return s, nil
}

// Create starts a new idle session
func (s *SessionService) Create() *Orchestrator {
	o := NewOrchestrator(s.extractor, s.translator, OrchestratorOptions{
		SessionID:          uuid.New(),
		SourceLanguage:     s.cfg.SourceLanguage,
		TargetLanguage:     s.cfg.TargetLanguage,
		ExtractionTimeout:  s.cfg.ExtractionTimeout,
		TranslationTimeout: s.cfg.TranslationTimeout,
		Recorder:           s.recorder,
	})

	s.mu.Lock()
	s.sessions[o.ID()] = o
	s.mu.Unlock()

	log.Info().Str("session_id", o.ID().String()).Msg("session created")
	return o
}

// Get returns the session with id
func (s *SessionService) Get(id uuid.UUID) (*Orchestrator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return o, nil
}

// Delete removes a session and its history. Passes still running for it
// finish against the detached orchestrator.
func (s *SessionService) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	log.Info().Str("session_id", id.String()).Msg("session deleted")
	return nil
}

// SubmitImage makes image the session's current image and queues its
// extraction pass. The session is in ExtractingText when this returns, so
// submissions are ordered by call, not by when a worker picks them up. It
// returns ErrPoolBusy instead of waiting when every worker is taken, and the
// session goes back to its previous image.
func (s *SessionService) SubmitImage(id uuid.UUID, image ingest.ImagePayload) error {
	o, err := s.Get(id)
	if err != nil {
		return err
	}

	gen, previous := o.BeginExtraction(image)
	if err := s.pool.Invoke(&imageJob{session: o, generation: gen, image: image}); err != nil {
		o.AbortExtraction(gen, previous)
		if errors.Is(err, ants.ErrPoolOverload) {
			return ErrPoolBusy
		}
		return fmt.Errorf("failed to submit extraction: %w", err)
	}
	return nil
}

// SweepIdle removes sessions untouched for longer than the idle TTL. Busy
// sessions are kept.
func (s *SessionService) SweepIdle(now time.Time) int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, o := range s.sessions {
		if o.Busy() || now.Sub(o.UpdatedAt()) < s.cfg.IdleTTL {
			continue
		}
		delete(s.sessions, id)
		removed++
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Int("remaining", len(s.sessions)).Msg("idle sessions swept")
	}
	return removed
}

// Count returns the number of live sessions
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// RunningWorkers returns the number of extraction passes in progress
func (s *SessionService) RunningWorkers() int {
	return s.pool.Running()
}

// ExtractorName returns the OCR engine name
func (s *SessionService) ExtractorName() string {
	return s.extractor.Name()
}

// TranslatorName returns the translation service name
func (s *SessionService) TranslatorName() string {
	return s.translator.Name()
}

// Close waits up to timeout for running passes, then releases the pool
func (s *SessionService) Close(timeout time.Duration) error {
	return s.pool.ReleaseTimeout(timeout)
}
