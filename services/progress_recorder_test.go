package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/hydrocal/hydrocal/models"
)

func newTestRecorder() (*ProgressRecorder, *TrackerStore, *fakeClock) {
	store := NewTrackerStore(NewMemoryKV())
	clock := &fakeClock{now: date(2025, 3, 10, 9, 0)}
	engine := NewStreakEngine(store, clock, zap.NewNop().Sugar())
	return NewProgressRecorder(store, engine, clock), store, clock
}

func TestAddWaterAccumulates(t *testing.T) {
	recorder, _, _ := newTestRecorder()
	ctx := context.Background()

	if _, err := recorder.AddWater(ctx, 1, 1000, testGoals); err != nil {
		t.Fatalf("AddWater: %v", err)
	}
	p, err := recorder.AddWater(ctx, 1, 1700, testGoals)
	if err != nil {
		t.Fatalf("AddWater: %v", err)
	}
	if p.WaterConsumedMl != 2700 {
		t.Errorf("water total = %d, want 2700", p.WaterConsumedMl)
	}

	// Two smaller adds must equal one big add.
	single, _, _ := newTestRecorder()
	sp, err := single.AddWater(ctx, 1, 2700, testGoals)
	if err != nil {
		t.Fatalf("AddWater: %v", err)
	}
	if sp.WaterConsumedMl != p.WaterConsumedMl {
		t.Errorf("single add total = %d, split adds total = %d", sp.WaterConsumedMl, p.WaterConsumedMl)
	}
}

func TestAddWaterRejectsNonPositiveAmounts(t *testing.T) {
	recorder, store, _ := newTestRecorder()
	ctx := context.Background()

	for _, amount := range []int{0, -250} {
		if _, err := recorder.AddWater(ctx, 1, amount, testGoals); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("AddWater(%d) err = %v, want ErrInvalidAmount", amount, err)
		}
	}

	p, err := store.LoadProgress(ctx, 1)
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if p.WaterConsumedMl != 0 {
		t.Errorf("rejected amounts must not change state, water = %d", p.WaterConsumedMl)
	}
}

func TestAddWaterDoesNotClampOverGoal(t *testing.T) {
	recorder, _, _ := newTestRecorder()
	ctx := context.Background()

	p, err := recorder.AddWater(ctx, 1, 5000, testGoals)
	if err != nil {
		t.Fatalf("AddWater: %v", err)
	}
	if p.WaterConsumedMl != 5000 {
		t.Errorf("water total = %d, want raw 5000 (no clamping)", p.WaterConsumedMl)
	}
}

func TestRecomputeCaloriesIsIdempotent(t *testing.T) {
	recorder, _, _ := newTestRecorder()
	ctx := context.Background()

	meals := []models.MealEntry{
		{ID: "m1", Name: "Eggs", Calories: 300},
		{ID: "m2", Name: "Rice bowl", Calories: 700},
	}

	p1, err := recorder.RecomputeCaloriesFromMeals(ctx, 1, meals, testGoals)
	if err != nil {
		t.Fatalf("RecomputeCaloriesFromMeals: %v", err)
	}
	p2, err := recorder.RecomputeCaloriesFromMeals(ctx, 1, meals, testGoals)
	if err != nil {
		t.Fatalf("RecomputeCaloriesFromMeals: %v", err)
	}
	if p1.CaloriesConsumed != 1000 || p2.CaloriesConsumed != 1000 {
		t.Errorf("calorie totals = %d, %d; want 1000, 1000", p1.CaloriesConsumed, p2.CaloriesConsumed)
	}
}

func TestAddMealAppendsAndRecomputes(t *testing.T) {
	recorder, _, _ := newTestRecorder()
	ctx := context.Background()

	meals, p, err := recorder.AddMeal(ctx, 1, models.MealEntry{ID: "m1", Name: "Toast", Calories: 250}, testGoals)
	if err != nil {
		t.Fatalf("AddMeal: %v", err)
	}
	if len(meals) != 1 || p.CaloriesConsumed != 250 {
		t.Fatalf("after first meal: %d meals, %d kcal", len(meals), p.CaloriesConsumed)
	}

	meals, p, err = recorder.AddMeal(ctx, 1, models.MealEntry{ID: "m2", Name: "Curry", Calories: 800}, testGoals)
	if err != nil {
		t.Fatalf("AddMeal: %v", err)
	}
	if len(meals) != 2 || p.CaloriesConsumed != 1050 {
		t.Errorf("after second meal: %d meals, %d kcal; want 2, 1050", len(meals), p.CaloriesConsumed)
	}
}

func TestWaterMirrorTracksRawCounter(t *testing.T) {
	recorder, store, _ := newTestRecorder()
	ctx := context.Background()

	if _, err := recorder.AddWater(ctx, 1, 1200, testGoals); err != nil {
		t.Fatalf("AddWater: %v", err)
	}

	raw, err := store.kv.Get(ctx, userKey(1, keyWaterConsumed))
	if err != nil {
		t.Fatalf("kv.Get: %v", err)
	}
	if string(raw) != "1200" {
		t.Errorf("water mirror = %q, want \"1200\"", raw)
	}
}

func TestRecorderCreditsStreakWhenGoalsMet(t *testing.T) {
	recorder, store, _ := newTestRecorder()
	ctx := context.Background()

	if _, err := recorder.AddWater(ctx, 1, 2700, testGoals); err != nil {
		t.Fatalf("AddWater: %v", err)
	}
	meals := []models.MealEntry{
		{ID: "m1", Name: "Breakfast", Calories: 800},
		{ID: "m2", Name: "Dinner", Calories: 1200},
	}
	if _, err := recorder.RecomputeCaloriesFromMeals(ctx, 1, meals, testGoals); err != nil {
		t.Fatalf("RecomputeCaloriesFromMeals: %v", err)
	}

	count, _, err := store.LoadStreak(ctx, 1)
	if err != nil {
		t.Fatalf("LoadStreak: %v", err)
	}
	if count != 1 {
		t.Errorf("streak = %d, want 1 after both goals met", count)
	}

	// Logging more water the same day must not double-credit.
	if _, err := recorder.AddWater(ctx, 1, 500, testGoals); err != nil {
		t.Fatalf("AddWater: %v", err)
	}
	count, _, _ = store.LoadStreak(ctx, 1)
	if count != 1 {
		t.Errorf("streak = %d after extra water, want still 1", count)
	}
}

func TestScenarioMetDayThenMissedDayResets(t *testing.T) {
	recorder, store, clock := newTestRecorder()
	engine := recorder.engine
	ctx := context.Background()

	// Day 1: goals reached, streak credited to 1.
	if _, err := recorder.AddWater(ctx, 1, 2700, testGoals); err != nil {
		t.Fatalf("AddWater: %v", err)
	}
	meals := []models.MealEntry{{ID: "m1", Name: "Big plate", Calories: 2000}}
	if _, err := recorder.RecomputeCaloriesFromMeals(ctx, 1, meals, testGoals); err != nil {
		t.Fatalf("RecomputeCaloriesFromMeals: %v", err)
	}
	count, _, _ := store.LoadStreak(ctx, 1)
	if count != 1 {
		t.Fatalf("day 1 streak = %d, want 1", count)
	}

	// Day 2: nothing logged. Day 3: reconcile sees the miss and resets.
	clock.advanceDays(2)
	if err := engine.Reconcile(ctx, 1, testGoals); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	count, _, _ = store.LoadStreak(ctx, 1)
	if count != 0 {
		t.Errorf("day 3 streak = %d, want 0 after missed day", count)
	}
}

func TestSnapshotReturnsFreshDayAfterRollover(t *testing.T) {
	recorder, _, clock := newTestRecorder()
	ctx := context.Background()

	if _, err := recorder.AddWater(ctx, 1, 900, testGoals); err != nil {
		t.Fatalf("AddWater: %v", err)
	}

	clock.advanceDays(1)
	p, streak, err := recorder.Snapshot(ctx, 1, testGoals)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if p.WaterConsumedMl != 0 || p.CaloriesConsumed != 0 {
		t.Errorf("snapshot after rollover = %+v, want zeroed counters", p)
	}
	if p.Date != clock.now.Format(models.DateLayout) {
		t.Errorf("snapshot date = %q, want today", p.Date)
	}
	if streak != 0 {
		t.Errorf("streak = %d, want 0", streak)
	}
}
