package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hydrocal/hydrocal/models"
	"github.com/hydrocal/hydrocal/services"
	"github.com/hydrocal/hydrocal/utils"
)

// TrackerController exposes the daily water/calorie tracker and streak state.
type TrackerController struct {
	db       *gorm.DB
	recorder *services.ProgressRecorder
	engine   *services.StreakEngine
	store    *services.TrackerStore
}

// NewTrackerController creates a TrackerController.
func NewTrackerController(db *gorm.DB, recorder *services.ProgressRecorder, engine *services.StreakEngine, store *services.TrackerStore) *TrackerController {
	return &TrackerController{db: db, recorder: recorder, engine: engine, store: store}
}

// userGoals loads the account and derives its daily targets.
func (t *TrackerController) userGoals(ctx *gin.Context, userID uint) (models.Goals, bool) {
	var user models.User
	if err := t.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return models.Goals{}, false
	}
	return utils.DailyGoals(user), true
}

type addWaterRequest struct {
	AmountMl int `json:"amount_ml" binding:"required"`
}

// AddWater logs a water intake for today.
func (t *TrackerController) AddWater(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req addWaterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request body")
		return
	}

	goals, ok := t.userGoals(ctx, userID)
	if !ok {
		return
	}

	progress, err := t.recorder.AddWater(ctx, userID, req.AmountMl, goals)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			utils.Error(ctx, http.StatusBadRequest, 40021, err.Error())
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to record water intake")
		return
	}

	streak, _ := t.engine.Streak(ctx, userID)
	utils.Success(ctx, gin.H{"progress": progress, "goals": goals, "streak": streak})
}

type addMealRequest struct {
	Name     string `json:"name" binding:"required"`
	Time     string `json:"time"`
	Calories int    `json:"calories" binding:"required"`
}

// AddMeal logs one meal and recomputes today's calorie total.
func (t *TrackerController) AddMeal(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req addMealRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request body")
		return
	}
	if req.Calories <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40023, "calories must be a positive number")
		return
	}

	name := utils.SanitizeText(req.Name)
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40024, "meal name must not be empty")
		return
	}

	goals, ok := t.userGoals(ctx, userID)
	if !ok {
		return
	}

	meal := models.MealEntry{
		ID:       uuid.NewString(),
		Name:     name,
		Time:     utils.SanitizeText(req.Time),
		Calories: req.Calories,
	}

	meals, progress, err := t.recorder.AddMeal(ctx, userID, meal, goals)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to record meal")
		return
	}

	streak, _ := t.engine.Streak(ctx, userID)
	utils.Success(ctx, gin.H{"meals": meals, "progress": progress, "goals": goals, "streak": streak})
}

// ListMeals returns today's logged meals.
func (t *TrackerController) ListMeals(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	goals, ok := t.userGoals(ctx, userID)
	if !ok {
		return
	}

	// Reconcile first so a list request after midnight never shows yesterday's meals.
	if err := t.engine.Reconcile(ctx, userID, goals); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load meals")
		return
	}

	meals, err := t.store.LoadMeals(ctx, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load meals")
		return
	}
	if meals == nil {
		meals = []models.MealEntry{}
	}
	utils.Success(ctx, gin.H{"meals": meals})
}

// GetProgress returns the live progress snapshot with goal percentages.
func (t *TrackerController) GetProgress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	goals, ok := t.userGoals(ctx, userID)
	if !ok {
		return
	}

	progress, streak, err := t.recorder.Snapshot(ctx, userID, goals)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load progress")
		return
	}

	pct := func(consumed, target int) float64 {
		if target <= 0 {
			return 0
		}
		p := float64(consumed) / float64(target)
		if p > 1 {
			return 1
		}
		return p
	}

	utils.Success(ctx, gin.H{
		"progress": progress,
		"goals":    goals,
		"streak":   streak,
		"water": gin.H{
			"consumed_ml": progress.WaterConsumedMl,
			"goal_ml":     goals.WaterGoalMl,
			"percent":     pct(progress.WaterConsumedMl, goals.WaterGoalMl),
		},
		"calories": gin.H{
			"consumed":  progress.CaloriesConsumed,
			"goal":      goals.CalorieGoal,
			"remaining": goals.CalorieGoal - progress.CaloriesConsumed,
			"percent":   pct(progress.CaloriesConsumed, goals.CalorieGoal),
		},
	})
}

// GetStreak returns the current streak counter.
func (t *TrackerController) GetStreak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	goals, ok := t.userGoals(ctx, userID)
	if !ok {
		return
	}

	if err := t.engine.Reconcile(ctx, userID, goals); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load streak")
		return
	}

	streak, err := t.engine.Streak(ctx, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load streak")
		return
	}
	utils.Success(ctx, gin.H{"streak": streak})
}
