package services

import (
	"context"
	"testing"
	"time"

	"github.com/hydrocal/hydrocal/models"
)

func TestStoreDefaultsForMissingKeys(t *testing.T) {
	store := NewTrackerStore(NewMemoryKV())
	ctx := context.Background()

	count, lastCheck, err := store.LoadStreak(ctx, 7)
	if err != nil {
		t.Fatalf("LoadStreak: %v", err)
	}
	if count != 0 || lastCheck != nil {
		t.Errorf("missing streak state = (%d, %v), want (0, nil)", count, lastCheck)
	}

	p, err := store.LoadProgress(ctx, 7)
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if p != (models.DailyProgress{}) {
		t.Errorf("missing progress = %+v, want zero value", p)
	}

	meals, err := store.LoadMeals(ctx, 7)
	if err != nil {
		t.Fatalf("LoadMeals: %v", err)
	}
	if meals != nil {
		t.Errorf("missing meals = %v, want nil", meals)
	}
}

func TestStoreDefaultsForCorruptValues(t *testing.T) {
	kv := NewMemoryKV()
	store := NewTrackerStore(kv)
	ctx := context.Background()

	_ = kv.Set(ctx, userKey(7, keyCurrentStreak), []byte("not-a-number"))
	_ = kv.Set(ctx, userKey(7, keyLastCheckDate), []byte("garbage"))
	_ = kv.Set(ctx, userKey(7, keyDailyProgress), []byte("{broken json"))
	_ = kv.Set(ctx, userKey(7, keyRecentMeals), []byte("[{]"))

	count, lastCheck, err := store.LoadStreak(ctx, 7)
	if err != nil {
		t.Fatalf("LoadStreak: %v", err)
	}
	if count != 0 || lastCheck != nil {
		t.Errorf("corrupt streak state = (%d, %v), want (0, nil)", count, lastCheck)
	}

	p, err := store.LoadProgress(ctx, 7)
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if p != (models.DailyProgress{}) {
		t.Errorf("corrupt progress = %+v, want zero value", p)
	}

	meals, err := store.LoadMeals(ctx, 7)
	if err != nil {
		t.Fatalf("LoadMeals: %v", err)
	}
	if meals != nil {
		t.Errorf("corrupt meals = %v, want nil", meals)
	}
}

func TestStoreAcceptsLegacyValueFormats(t *testing.T) {
	kv := NewMemoryKV()
	store := NewTrackerStore(kv)
	ctx := context.Background()

	// Older clients wrote quoted counters and full ISO timestamps.
	_ = kv.Set(ctx, userKey(7, keyCurrentStreak), []byte(`"4"`))
	_ = kv.Set(ctx, userKey(7, keyLastCheckDate), []byte("2025-03-10T21:15:00Z"))

	count, lastCheck, err := store.LoadStreak(ctx, 7)
	if err != nil {
		t.Fatalf("LoadStreak: %v", err)
	}
	if count != 4 {
		t.Errorf("legacy streak = %d, want 4", count)
	}
	if lastCheck == nil {
		t.Fatal("legacy timestamp must parse")
	}
}

func TestCreditedFlagIsPerDay(t *testing.T) {
	store := NewTrackerStore(NewMemoryKV())
	ctx := context.Background()

	day1 := date(2025, 3, 10, 9, 0)
	day2 := day1.AddDate(0, 0, 1)

	if err := store.SetCredited(ctx, 7, day1); err != nil {
		t.Fatalf("SetCredited: %v", err)
	}

	credited, err := store.Credited(ctx, 7, day1)
	if err != nil {
		t.Fatalf("Credited: %v", err)
	}
	if !credited {
		t.Error("same day must read as credited")
	}

	credited, err = store.Credited(ctx, 7, day2)
	if err != nil {
		t.Fatalf("Credited: %v", err)
	}
	if credited {
		t.Error("a stale marker from yesterday must not block a new credit")
	}
}

func TestProgressRoundTrip(t *testing.T) {
	store := NewTrackerStore(NewMemoryKV())
	ctx := context.Background()

	p := models.DailyProgress{Date: "2025-03-10", WaterConsumedMl: 1500, CaloriesConsumed: 900}
	if err := store.SaveProgress(ctx, 7, p); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}
	got, err := store.LoadProgress(ctx, 7)
	if err != nil {
		t.Fatalf("LoadProgress: %v", err)
	}
	if got != p {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}

func TestUserIDsListsDistinctUsers(t *testing.T) {
	store := NewTrackerStore(NewMemoryKV())
	ctx := context.Background()

	now := time.Now()
	_ = store.SaveStreakCount(ctx, 1, 3)
	_ = store.SaveLastCheckDate(ctx, 1, now)
	_ = store.SaveStreakCount(ctx, 2, 0)
	_ = store.SetWaterMirror(ctx, 9, 500)

	ids, err := store.UserIDs(ctx)
	if err != nil {
		t.Fatalf("UserIDs: %v", err)
	}
	seen := map[uint]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate user id %d", id)
		}
		seen[id] = true
	}
	for _, want := range []uint{1, 2, 9} {
		if !seen[want] {
			t.Errorf("missing user id %d in %v", want, ids)
		}
	}
}
