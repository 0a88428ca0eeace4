package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hydrocal/hydrocal/models"
)

// Leaf key names, one JSON value each. Kept compatible with the mobile
// client's storage layout, including the raw waterConsumed mirror it reads.
const (
	keyLastCheckDate = "lastCheckDate"
	keyCurrentStreak = "currentStreak"
	keyDailyProgress = "dailyProgress"
	keyWaterConsumed = "waterConsumed"
	keyRecentMeals   = "recentMeals"
	keyGoalsCredited = "goalsCredited"

	trackerPrefix = "tracker:"
)

// TrackerStore persists per-user tracker state through a KV adapter.
// Each leaf key is written independently; there are no multi-key transactions,
// so write ordering is what protects the streak invariants (credited flag is
// always written after the streak counter).
//
// A corrupted or never-written value decodes to the type's zero default,
// never an error.
type TrackerStore struct {
	kv KV
}

// NewTrackerStore creates a store over the given KV backend.
func NewTrackerStore(kv KV) *TrackerStore {
	return &TrackerStore{kv: kv}
}

func userKey(userID uint, leaf string) string {
	return fmt.Sprintf("%s%d:%s", trackerPrefix, userID, leaf)
}

// LoadStreak returns the persisted streak counter and last reconcile date.
// A nil date means no prior record exists (first run).
func (s *TrackerStore) LoadStreak(ctx context.Context, userID uint) (int, *time.Time, error) {
	rawCount, err := s.kv.Get(ctx, userKey(userID, keyCurrentStreak))
	if err != nil {
		return 0, nil, err
	}
	count := parseCount(rawCount)

	rawDate, err := s.kv.Get(ctx, userKey(userID, keyLastCheckDate))
	if err != nil {
		return count, nil, err
	}
	return count, parseDate(rawDate), nil
}

// SaveStreakCount persists the streak counter.
func (s *TrackerStore) SaveStreakCount(ctx context.Context, userID uint, count int) error {
	return s.kv.Set(ctx, userKey(userID, keyCurrentStreak), []byte(strconv.Itoa(count)))
}

// SaveLastCheckDate persists the calendar date of the latest reconcile.
func (s *TrackerStore) SaveLastCheckDate(ctx context.Context, userID uint, day time.Time) error {
	return s.kv.Set(ctx, userKey(userID, keyLastCheckDate), []byte(day.Format(models.DateLayout)))
}

// LoadProgress returns the live daily progress record, or a zero record when
// the key is missing or unreadable.
func (s *TrackerStore) LoadProgress(ctx context.Context, userID uint) (models.DailyProgress, error) {
	var p models.DailyProgress
	raw, err := s.kv.Get(ctx, userKey(userID, keyDailyProgress))
	if err != nil {
		return p, err
	}
	if len(raw) > 0 {
		if uerr := json.Unmarshal(raw, &p); uerr != nil {
			p = models.DailyProgress{}
		}
	}
	return p, nil
}

// SaveProgress persists the live daily progress record.
func (s *TrackerStore) SaveProgress(ctx context.Context, userID uint, p models.DailyProgress) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, userKey(userID, keyDailyProgress), b)
}

// SetWaterMirror writes the legacy raw water counter consumed by the UI layer.
func (s *TrackerStore) SetWaterMirror(ctx context.Context, userID uint, waterMl int) error {
	return s.kv.Set(ctx, userKey(userID, keyWaterConsumed), []byte(strconv.Itoa(waterMl)))
}

// LoadMeals returns the ordered list of logged meals for the current day.
func (s *TrackerStore) LoadMeals(ctx context.Context, userID uint) ([]models.MealEntry, error) {
	raw, err := s.kv.Get(ctx, userKey(userID, keyRecentMeals))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var meals []models.MealEntry
	if uerr := json.Unmarshal(raw, &meals); uerr != nil {
		return nil, nil
	}
	return meals, nil
}

// SaveMeals persists the full meal list for the current day.
func (s *TrackerStore) SaveMeals(ctx context.Context, userID uint, meals []models.MealEntry) error {
	if meals == nil {
		meals = []models.MealEntry{}
	}
	b, err := json.Marshal(meals)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, userKey(userID, keyRecentMeals), b)
}

// Credited reports whether the streak was already incremented on the given day.
// The flag stores the credited date, so a stale flag from an earlier day never
// blocks a fresh credit.
func (s *TrackerStore) Credited(ctx context.Context, userID uint, day time.Time) (bool, error) {
	raw, err := s.kv.Get(ctx, userKey(userID, keyGoalsCredited))
	if err != nil {
		return false, err
	}
	return string(raw) == day.Format(models.DateLayout), nil
}

// SetCredited marks the given day as credited. Callers must write this after
// the streak counter so a crash in between can only lose a credit marker,
// never double-credit.
func (s *TrackerStore) SetCredited(ctx context.Context, userID uint, day time.Time) error {
	return s.kv.Set(ctx, userKey(userID, keyGoalsCredited), []byte(day.Format(models.DateLayout)))
}

// ClearCredited removes the credit marker on rollover.
func (s *TrackerStore) ClearCredited(ctx context.Context, userID uint) error {
	return s.kv.Set(ctx, userKey(userID, keyGoalsCredited), []byte(""))
}

// UserIDs lists every user with tracker state, for the background sweep.
func (s *TrackerStore) UserIDs(ctx context.Context) ([]uint, error) {
	keys, err := s.kv.Keys(ctx, trackerPrefix)
	if err != nil {
		return nil, err
	}
	seen := map[uint]bool{}
	var ids []uint
	for _, k := range keys {
		parts := strings.SplitN(strings.TrimPrefix(k, trackerPrefix), ":", 2)
		if len(parts) != 2 {
			continue
		}
		id, perr := strconv.ParseUint(parts[0], 10, 64)
		if perr != nil {
			continue
		}
		if !seen[uint(id)] {
			seen[uint(id)] = true
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}

// parseCount accepts both bare integers and quoted integer strings, matching
// the mix of formats older clients wrote. Anything else counts as zero.
func parseCount(raw []byte) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseDate accepts a plain calendar date or a full RFC3339 timestamp written
// by older clients. Unparseable values are treated as absent.
func parseDate(raw []byte) *time.Time {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return nil
	}
	if t, err := time.ParseInLocation(models.DateLayout, s, time.Local); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		local := t.Local()
		return &local
	}
	return nil
}
