// Package scheduler runs named cron jobs (seconds precision).
package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs named maintenance jobs such as the idle-session sweep.
// A job never overlaps with itself and a panicking job does not take the
// scheduler down.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.RWMutex
	entries map[string]cron.EntryID
}

func NewScheduler() *Scheduler {
	logger := zerologAdapter{}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		entries: make(map[string]cron.EntryID),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Strs("jobs", s.Jobs()).Msg("scheduler started")
}

// Stop halts the schedule and waits for running jobs to return
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// AddJob schedules fn under name, replacing any job with the same name.
// spec is a six-field cron expression, e.g. "0 * * * * *" for every minute.
func (s *Scheduler) AddJob(name, spec string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, timed(name, fn))
	if err != nil {
		return fmt.Errorf("failed to add cron job %q: %w", name, err)
	}

	if old, ok := s.entries[name]; ok {
		s.cron.Remove(old)
	}
	s.entries[name] = id

	log.Debug().Str("job", name).Str("schedule", spec).Msg("job scheduled")
	return nil
}

func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return
	}
	s.cron.Remove(id)
	delete(s.entries, name)
	log.Debug().Str("job", name).Msg("job removed")
}

// Jobs returns the scheduled job names in lexical order
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextRun reports when the named job fires next. The zero time is returned
// for unknown jobs and before Start.
func (s *Scheduler) NextRun(name string) time.Time {
	s.mu.RLock()
	id, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

func timed(name string, fn func()) func() {
	return func() {
		start := time.Now()
		fn()
		log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("job finished")
	}
}

// zerologAdapter satisfies cron.Logger
type zerologAdapter struct{}

func (zerologAdapter) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (zerologAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
