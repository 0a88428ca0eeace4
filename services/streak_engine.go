package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/hydrocal/hydrocal/models"
)

// StreakEngine maintains the consecutive-day streak counter and performs the
// day-rollover reset of daily counters.
//
// Division of labor: Evaluate is the only place the streak increments, and it
// increments at most once per calendar day; Reconcile is the only place it
// resets. Reconcile must run before any same-request read or mutation of
// progress, because everything downstream assumes the live record belongs to
// the current calendar date.
type StreakEngine struct {
	store *TrackerStore
	clock Clock
	log   *zap.SugaredLogger
}

// NewStreakEngine creates an engine over the given store and clock.
func NewStreakEngine(store *TrackerStore, clock Clock, log *zap.SugaredLogger) *StreakEngine {
	return &StreakEngine{store: store, clock: clock, log: log}
}

// Reconcile processes any day boundary that passed since the last check.
//
// When a rollover is detected the just-elapsed day's progress decides the
// streak: unmet goals reset the counter to zero, met goals leave it alone
// (the increment already happened live in Evaluate on that day). The live
// counters, meal list, water mirror and credit marker are then zeroed for the
// new day. lastCheckDate is written last, so a crash mid-rollover replays the
// whole rollover on the next call instead of leaving half-reset state behind.
//
// Calling Reconcile again with no elapsed day in between is a no-op.
func (e *StreakEngine) Reconcile(ctx context.Context, userID uint, goals models.Goals) error {
	count, lastCheck, err := e.store.LoadStreak(ctx, userID)
	if err != nil {
		e.log.Warnf("reconcile: load streak failed for user %d: %v", userID, err)
		return err
	}

	now := e.clock.Now()
	if !HasRolledOver(lastCheck, now) {
		if lastCheck == nil {
			// First run: record today so future calls can detect boundaries.
			if err := e.store.SaveLastCheckDate(ctx, userID, now); err != nil {
				e.log.Warnf("reconcile: init last check date failed for user %d: %v", userID, err)
				return err
			}
		}
		return nil
	}

	elapsed, err := e.store.LoadProgress(ctx, userID)
	if err != nil {
		e.log.Warnf("reconcile: load elapsed progress failed for user %d: %v", userID, err)
		return err
	}

	// The live record can only describe the day of the last check. When more
	// than one boundary passed, every day in between had no activity at all,
	// so the streak is broken regardless of that record.
	missed := !goals.Met(elapsed) || !IsYesterday(*lastCheck, now)
	if missed && count != 0 {
		if err := e.store.SaveStreakCount(ctx, userID, 0); err != nil {
			e.log.Warnf("reconcile: streak reset failed for user %d: %v", userID, err)
			return err
		}
		e.log.Infof("streak reset for user %d: daily goals missed since %s", userID, lastCheck.Format(models.DateLayout))
	}

	fresh := models.DailyProgress{Date: now.Format(models.DateLayout)}
	if err := e.store.SaveProgress(ctx, userID, fresh); err != nil {
		return err
	}
	if err := e.store.SetWaterMirror(ctx, userID, 0); err != nil {
		return err
	}
	if err := e.store.SaveMeals(ctx, userID, nil); err != nil {
		return err
	}
	if err := e.store.ClearCredited(ctx, userID); err != nil {
		return err
	}
	return e.store.SaveLastCheckDate(ctx, userID, now)
}

// Evaluate re-checks goal attainment for the current, not-yet-rolled-over day
// and credits the streak when both goals are first met. Repeated calls on the
// same day are no-ops once the day is credited. Returns whether this call
// applied the credit.
func (e *StreakEngine) Evaluate(ctx context.Context, userID uint, progress models.DailyProgress, goals models.Goals) (bool, error) {
	if !goals.Met(progress) {
		return false, nil
	}

	today := e.clock.Now()
	credited, err := e.store.Credited(ctx, userID, today)
	if err != nil {
		e.log.Warnf("evaluate: credited check failed for user %d: %v", userID, err)
		return false, err
	}
	if credited {
		return false, nil
	}

	count, _, err := e.store.LoadStreak(ctx, userID)
	if err != nil {
		return false, err
	}
	if err := e.store.SaveStreakCount(ctx, userID, count+1); err != nil {
		return false, err
	}
	// Marker is written after the counter; keys are independent, no transaction.
	if err := e.store.SetCredited(ctx, userID, today); err != nil {
		return false, err
	}
	e.log.Infof("streak credited for user %d: now %d days", userID, count+1)
	return true, nil
}

// Streak returns the current persisted streak counter.
func (e *StreakEngine) Streak(ctx context.Context, userID uint) (int, error) {
	count, _, err := e.store.LoadStreak(ctx, userID)
	return count, err
}
