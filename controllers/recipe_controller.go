package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hydrocal/hydrocal/models"
	"github.com/hydrocal/hydrocal/services"
	"github.com/hydrocal/hydrocal/utils"
)

// RecipeController serves LLM-generated recipe suggestions.
type RecipeController struct {
	db       *gorm.DB
	recipes  *services.RecipeService
	recorder *services.ProgressRecorder
	store    *services.TrackerStore
}

// NewRecipeController creates a RecipeController.
func NewRecipeController(db *gorm.DB, recipes *services.RecipeService, recorder *services.ProgressRecorder, store *services.TrackerStore) *RecipeController {
	return &RecipeController{db: db, recipes: recipes, recorder: recorder, store: store}
}

// Suggest generates recipe suggestions from the profile and today's intake.
func (r *RecipeController) Suggest(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if r.recipes == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50330, "recipe suggestions not configured")
		return
	}

	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	goals := utils.DailyGoals(user)
	progress, _, err := r.recorder.Snapshot(ctx, userID, goals)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load progress")
		return
	}

	meals, err := r.store.LoadMeals(ctx, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load meals")
		return
	}

	remaining := goals.CalorieGoal - progress.CaloriesConsumed
	if remaining < 0 {
		remaining = 0
	}

	suggestions, err := r.recipes.Suggest(ctx, user, meals, remaining)
	if err != nil {
		utils.Sugar.Warnf("recipe suggestion failed for user %d: %v", userID, err)
		utils.Error(ctx, http.StatusBadGateway, 50230, "failed to generate suggestions")
		return
	}

	utils.Success(ctx, suggestions)
}
