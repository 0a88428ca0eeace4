package services

import (
	"context"
	"errors"

	"github.com/hydrocal/hydrocal/models"
)

// ErrInvalidAmount rejects non-positive water amounts before any state changes.
var ErrInvalidAmount = errors.New("water amount must be a positive number of milliliters")

// ProgressRecorder owns the live DailyProgress and exposes the mutators behind
// the tracker endpoints. Every mutation reconciles first, persists the updated
// record, then re-evaluates goal attainment with the fresh totals. One write
// per call, no buffering.
type ProgressRecorder struct {
	store  *TrackerStore
	engine *StreakEngine
	clock  Clock
}

// NewProgressRecorder wires a recorder to its store and streak engine.
func NewProgressRecorder(store *TrackerStore, engine *StreakEngine, clock Clock) *ProgressRecorder {
	return &ProgressRecorder{store: store, engine: engine, clock: clock}
}

// AddWater increases today's water total by amountMl. Totals are not clamped
// to the goal; the evaluator thresholds off the raw accumulated value and any
// clamping is a presentation concern.
func (r *ProgressRecorder) AddWater(ctx context.Context, userID uint, amountMl int, goals models.Goals) (models.DailyProgress, error) {
	if amountMl <= 0 {
		return models.DailyProgress{}, ErrInvalidAmount
	}

	if err := r.engine.Reconcile(ctx, userID, goals); err != nil {
		return models.DailyProgress{}, err
	}

	p, err := r.currentProgress(ctx, userID)
	if err != nil {
		return models.DailyProgress{}, err
	}

	p.WaterConsumedMl += amountMl
	if err := r.store.SaveProgress(ctx, userID, p); err != nil {
		return models.DailyProgress{}, err
	}
	if err := r.store.SetWaterMirror(ctx, userID, p.WaterConsumedMl); err != nil {
		return models.DailyProgress{}, err
	}

	if _, err := r.engine.Evaluate(ctx, userID, p, goals); err != nil {
		return p, err
	}
	return p, nil
}

// RecomputeCaloriesFromMeals sets today's calorie total to the sum over the
// authoritative meal list. Recomputing from the full list rather than
// accumulating makes the operation idempotent.
func (r *ProgressRecorder) RecomputeCaloriesFromMeals(ctx context.Context, userID uint, meals []models.MealEntry, goals models.Goals) (models.DailyProgress, error) {
	if err := r.engine.Reconcile(ctx, userID, goals); err != nil {
		return models.DailyProgress{}, err
	}

	p, err := r.currentProgress(ctx, userID)
	if err != nil {
		return models.DailyProgress{}, err
	}

	total := 0
	for _, m := range meals {
		if m.Calories > 0 {
			total += m.Calories
		}
	}

	p.CaloriesConsumed = total
	if err := r.store.SaveProgress(ctx, userID, p); err != nil {
		return models.DailyProgress{}, err
	}

	if _, err := r.engine.Evaluate(ctx, userID, p, goals); err != nil {
		return p, err
	}
	return p, nil
}

// AddMeal appends one meal to the day's list and recomputes the calorie total.
func (r *ProgressRecorder) AddMeal(ctx context.Context, userID uint, meal models.MealEntry, goals models.Goals) ([]models.MealEntry, models.DailyProgress, error) {
	if err := r.engine.Reconcile(ctx, userID, goals); err != nil {
		return nil, models.DailyProgress{}, err
	}

	meals, err := r.store.LoadMeals(ctx, userID)
	if err != nil {
		return nil, models.DailyProgress{}, err
	}
	meals = append(meals, meal)
	if err := r.store.SaveMeals(ctx, userID, meals); err != nil {
		return nil, models.DailyProgress{}, err
	}

	p, err := r.RecomputeCaloriesFromMeals(ctx, userID, meals, goals)
	if err != nil {
		return meals, p, err
	}
	return meals, p, nil
}

// Snapshot reconciles and returns the live progress plus the current streak.
func (r *ProgressRecorder) Snapshot(ctx context.Context, userID uint, goals models.Goals) (models.DailyProgress, int, error) {
	if err := r.engine.Reconcile(ctx, userID, goals); err != nil {
		return models.DailyProgress{}, 0, err
	}
	p, err := r.currentProgress(ctx, userID)
	if err != nil {
		return models.DailyProgress{}, 0, err
	}
	streak, err := r.engine.Streak(ctx, userID)
	if err != nil {
		return p, 0, err
	}
	return p, streak, nil
}

// currentProgress loads the live record and restamps it for today when the
// stored record is missing or carries no date yet.
func (r *ProgressRecorder) currentProgress(ctx context.Context, userID uint) (models.DailyProgress, error) {
	today := r.clock.Now().Format(models.DateLayout)
	p, err := r.store.LoadProgress(ctx, userID)
	if err != nil {
		return models.DailyProgress{}, err
	}
	if p.Date != today {
		// Reconcile ran first, so a date mismatch can only mean a fresh or
		// corrupted record. Start clean rather than crediting stale totals.
		p = models.DailyProgress{Date: today}
	}
	return p, nil
}
