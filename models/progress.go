package models

// DateLayout is the calendar-date key format used for all tracker state.
// Dates are local-time, truncated to midnight; no time component is stored.
const DateLayout = "2006-01-02"

// DailyProgress holds the live counters for the current calendar day.
// Counters only grow within a day and are zeroed exactly once per rollover.
type DailyProgress struct {
	Date             string `json:"date"`
	WaterConsumedMl  int    `json:"waterConsumedMl"`
	CaloriesConsumed int    `json:"caloriesConsumed"`
}

// Goals are the read-only daily targets a day is judged against.
// They come from the profile layer; the tracker never computes them itself.
type Goals struct {
	WaterGoalMl int `json:"water_goal_ml"`
	CalorieGoal int `json:"calorie_goal"`
}

// Met reports whether both targets are satisfied by the given progress.
func (g Goals) Met(p DailyProgress) bool {
	return p.WaterConsumedMl >= g.WaterGoalMl && p.CaloriesConsumed >= g.CalorieGoal
}

// MealEntry is one logged meal. Calorie totals are always recomputed from the
// full list, so re-saving the same list never changes the sum.
type MealEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Time     string `json:"time"`
	Calories int    `json:"calories"`
}

// StreakState is the persisted per-user streak snapshot.
// LastCheckDate is the date the tracker last reconciled rollover, not the date
// of the live DailyProgress.
type StreakState struct {
	StreakCount   int    `json:"streakCount"`
	LastCheckDate string `json:"lastCheckDate"`
}
