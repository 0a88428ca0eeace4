package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hydrocal/hydrocal/models"
)

// GoalProvider resolves the daily targets for a user, normally from the
// profile layer. The sweeper stays decoupled from the user database this way.
type GoalProvider func(ctx context.Context, userID uint) (models.Goals, error)

// MidnightSweeper periodically reconciles every user with tracker state so day
// boundaries are processed even while no requests arrive. It is best-effort
// only: every request path reconciles on its own, so correctness never depends
// on this timer firing.
type MidnightSweeper struct {
	store    *TrackerStore
	engine   *StreakEngine
	goals    GoalProvider
	interval time.Duration
	log      *zap.SugaredLogger
}

// NewMidnightSweeper creates a sweeper; interval defaults to 15 minutes.
func NewMidnightSweeper(store *TrackerStore, engine *StreakEngine, goals GoalProvider, interval time.Duration, log *zap.SugaredLogger) *MidnightSweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &MidnightSweeper{store: store, engine: engine, goals: goals, interval: interval, log: log}
}

// Run blocks until ctx is canceled, sweeping once per interval. Canceling the
// context is how the owning process retires the timer on shutdown.
func (s *MidnightSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *MidnightSweeper) sweep(ctx context.Context) {
	ids, err := s.store.UserIDs(ctx)
	if err != nil {
		s.log.Warnf("sweep: listing tracker users failed: %v", err)
		return
	}
	for _, id := range ids {
		goals, err := s.goals(ctx, id)
		if err != nil {
			s.log.Warnf("sweep: goals lookup failed for user %d: %v", id, err)
			continue
		}
		if err := s.engine.Reconcile(ctx, id, goals); err != nil {
			s.log.Warnf("sweep: reconcile failed for user %d: %v", id, err)
		}
	}
}
