package internal

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/core/resilience"
)

// Sweeper periodically drops idle sessions and their rate limiter buckets.
type Sweeper struct {
	cron     *cron.Cron
	sessions *SessionStore
	limiter  *resilience.KeyedLimiter
	idle     time.Duration
	metrics  *Metrics
}

// NewSweeper schedules the sweep. schedule accepts six-field cron specs and
// descriptors such as "@every 5m".
func NewSweeper(schedule string, idle time.Duration, sessions *SessionStore, limiter *resilience.KeyedLimiter, metrics *Metrics) (*Sweeper, error) {
	s := &Sweeper{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		limiter:  limiter,
		idle:     idle,
		metrics:  metrics,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return nil, err
	}
	return s, nil
}

// Sweep runs one pass and returns the number of sessions removed.
func (s *Sweeper) Sweep(ctx context.Context) int {
	n := s.sessions.PurgeIdle(s.idle)
	buckets := 0
	if s.limiter != nil {
		buckets = s.limiter.Sweep(s.idle)
	}
	s.metrics.SessionsPurged.Add(ctx, int64(n))
	if n > 0 || buckets > 0 {
		slog.InfoContext(ctx, "idle sweep", "sessions", n, "limiter_buckets", buckets, "remaining", s.sessions.Len())
	}
	return n
}

func (s *Sweeper) Start() { s.cron.Start() }

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() { <-s.cron.Stop().Done() }
