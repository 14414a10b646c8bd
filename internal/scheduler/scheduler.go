package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Expirer closes dialogs idle since before the timeout.
// telegram.Router implements this (method: ExpireDialogs).
type Expirer interface {
	ExpireDialogs(now time.Time) int
}

// Scheduler periodically sweeps timed out dialogs.
type Scheduler struct {
	expirer  Expirer
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
}

// New creates a new Scheduler. Poll interval is fixed (10s).
func New(expirer Expirer, log *zap.Logger) *Scheduler {
	return &Scheduler{
		expirer:  expirer,
		log:      log,
		interval: 10 * time.Second,
		now:      time.Now,
	}
}

// Run starts the loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick performs one sweep.
func (s *Scheduler) tick() {
	if n := s.expirer.ExpireDialogs(s.now()); n > 0 {
		s.log.Debug("dialogs timed out", zap.Int("count", n))
	}
}
