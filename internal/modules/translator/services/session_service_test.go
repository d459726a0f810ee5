package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ingest"
	"github.com/MuhamadAgungGumelar/image-translator-be/internal/core/ocr"
)

func newSessionService(t *testing.T, extractor TextExtractor, cfg SessionConfig) *SessionService {
	t.Helper()
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 2
	}
	if cfg.SourceLanguage == "" {
		cfg.SourceLanguage, cfg.TargetLanguage = "en-GB", "es-ES"
	}
	svc, err := NewSessionService(extractor, echoTranslator(), nil, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close(time.Second) })
	return svc
}

func TestSessionService_CreateGetDelete(t *testing.T) {
	svc := newSessionService(t, staticExtractor("x"), SessionConfig{})

	o := svc.Create()
	assert.Equal(t, 1, svc.Count())
	assert.Equal(t, "en-GB", o.Snapshot().SourceLanguage)
	assert.Equal(t, "es-ES", o.Snapshot().TargetLanguage)

	got, err := svc.Get(o.ID())
	require.NoError(t, err)
	assert.Same(t, o, got)

	require.NoError(t, svc.Delete(o.ID()))
	_, err = svc.Get(o.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Delete(o.ID()), ErrSessionNotFound)
}

func TestSessionService_SubmitImageRunsInBackground(t *testing.T) {
	svc := newSessionService(t, staticExtractor("Platform 9"), SessionConfig{})
	o := svc.Create()

	require.NoError(t, svc.SubmitImage(o.ID(), sampleImage))

	assert.Eventually(t, func() bool {
		return o.Snapshot().SourceText == "Platform 9"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, StateIdle, o.State())
}

func TestSessionService_SubmitImageUnknownSession(t *testing.T) {
	svc := newSessionService(t, staticExtractor("x"), SessionConfig{})
	assert.ErrorIs(t, svc.SubmitImage(uuid.New(), sampleImage), ErrSessionNotFound)
}

func TestSessionService_PoolOverload(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	blocking := extractorFunc(func(ctx context.Context, image ingest.ImagePayload, onProgress ocr.ProgressFunc) (string, error) {
		started <- struct{}{}
		<-release
		return "done", nil
	})
	svc := newSessionService(t, blocking, SessionConfig{PoolSize: 1})

	first := svc.Create()
	second := svc.Create()

	require.NoError(t, svc.SubmitImage(first.ID(), sampleImage))
	<-started
	assert.Equal(t, 1, svc.RunningWorkers())

	assert.ErrorIs(t, svc.SubmitImage(second.ID(), sampleImage), ErrPoolBusy)
	rejected := second.Snapshot()
	assert.Equal(t, StateIdle, rejected.State)
	assert.Nil(t, rejected.Image)
	assert.False(t, second.Busy())

	close(release)
	assert.Eventually(t, func() bool { return first.Snapshot().SourceText == "done" }, 2*time.Second, 10*time.Millisecond)
}

func TestSessionService_SweepIdle(t *testing.T) {
	svc := newSessionService(t, staticExtractor("x"), SessionConfig{IdleTTL: time.Minute})

	stale := svc.Create()
	fresh := svc.Create()

	now := time.Now()
	assert.Equal(t, 0, svc.SweepIdle(now))

	require.NoError(t, fresh.SetSourceText("still typing"))
	removed := svc.SweepIdle(fresh.UpdatedAt().Add(59 * time.Second))
	assert.Equal(t, 0, removed)

	removed = svc.SweepIdle(stale.UpdatedAt().Add(2 * time.Minute))
	assert.GreaterOrEqual(t, removed, 1)
	_, err := svc.Get(stale.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_SweepDisabled(t *testing.T) {
	svc := newSessionService(t, staticExtractor("x"), SessionConfig{})
	svc.Create()
	assert.Equal(t, 0, svc.SweepIdle(time.Now().Add(24*time.Hour)))
	assert.Equal(t, 1, svc.Count())
}

func TestNewSessionService_RejectsZeroPool(t *testing.T) {
	_, err := NewSessionService(staticExtractor("x"), echoTranslator(), nil, SessionConfig{PoolSize: -1})
	assert.Error(t, err)
}

func TestSessionService_LatestSubmissionWins(t *testing.T) {
	byName := extractorFunc(func(ctx context.Context, image ingest.ImagePayload, onProgress ocr.ProgressFunc) (string, error) {
		return image.FileName, nil
	})
	svc := newSessionService(t, byName, SessionConfig{PoolSize: 8})
	o := svc.Create()

	older := ingest.ImagePayload{Data: []byte("a"), MediaType: "image/png", FileName: "A", Size: 1}
	newer := ingest.ImagePayload{Data: []byte("b"), MediaType: "image/png", FileName: "B", Size: 1}

	for i := 0; i < 200; i++ {
		require.NoError(t, svc.SubmitImage(o.ID(), older))
		require.NoError(t, svc.SubmitImage(o.ID(), newer))

		queued := o.Snapshot()
		require.NotNil(t, queued.Image)
		assert.Equal(t, "B", queued.Image.FileName)

		require.Eventually(t, func() bool { return !o.Busy() }, 2*time.Second, time.Millisecond)

		snap := o.Snapshot()
		require.Equal(t, "B", snap.SourceText, "iteration %d", i)
		require.Equal(t, "B", snap.Image.FileName, "iteration %d", i)
		assert.Equal(t, StateIdle, snap.State)
	}
}

func TestSessionService_SubmitImageIsVisibleImmediately(t *testing.T) {
	release := make(chan struct{})
	blocking := extractorFunc(func(ctx context.Context, image ingest.ImagePayload, onProgress ocr.ProgressFunc) (string, error) {
		<-release
		return "late", nil
	})
	svc := newSessionService(t, blocking, SessionConfig{PoolSize: 1, IdleTTL: time.Minute})
	o := svc.Create()

	require.NoError(t, svc.SubmitImage(o.ID(), sampleImage))

	snap := o.Snapshot()
	assert.Equal(t, StateExtractingText, snap.State)
	require.NotNil(t, snap.Image)
	assert.Equal(t, "sign.png", snap.Image.FileName)

	assert.Equal(t, 0, svc.SweepIdle(time.Now().Add(time.Hour)))
	_, err := svc.Get(o.ID())
	assert.NoError(t, err)

	close(release)
	assert.Eventually(t, func() bool { return o.Snapshot().SourceText == "late" }, 2*time.Second, 10*time.Millisecond)
}
