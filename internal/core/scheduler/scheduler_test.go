package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddReplaceRemove(t *testing.T) {
	s := NewScheduler()

	require.NoError(t, s.AddJob("sweep", "0 * * * * *", func() {}))
	require.NoError(t, s.AddJob("sweep", "*/30 * * * * *", func() {}))
	assert.Equal(t, []string{"sweep"}, s.Jobs())

	s.RemoveJob("sweep")
	s.RemoveJob("missing")
	assert.Empty(t, s.Jobs())
}

func TestScheduler_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler()

	err := s.AddJob("sweep", "every minute", func() {})
	assert.ErrorContains(t, err, `failed to add cron job "sweep"`)
	assert.Empty(t, s.Jobs())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := NewScheduler()

	var runs atomic.Int32
	require.NoError(t, s.AddJob("tick", "* * * * * *", func() { runs.Add(1) }))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_SurvivesPanickingJob(t *testing.T) {
	s := NewScheduler()

	var runs atomic.Int32
	require.NoError(t, s.AddJob("boom", "* * * * * *", func() {
		runs.Add(1)
		panic("job failed")
	}))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() > 1 }, 4*time.Second, 50*time.Millisecond)
}

func TestScheduler_NextRun(t *testing.T) {
	s := NewScheduler()
	assert.True(t, s.NextRun("missing").IsZero())

	require.NoError(t, s.AddJob("sweep", "0 * * * * *", func() {}))
	s.Start()
	defer s.Stop()

	next := s.NextRun("sweep")
	assert.False(t, next.IsZero())
	assert.Equal(t, 0, next.Second())
	assert.WithinDuration(t, time.Now(), next, time.Minute+time.Second)
}

func TestScheduler_JobsSorted(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.AddJob("session-sweep", "0 * * * * *", func() {}))
	require.NoError(t, s.AddJob("audit-retention", "0 0 3 * * *", func() {}))

	assert.Equal(t, []string{"audit-retention", "session-sweep"}, s.Jobs())
}
