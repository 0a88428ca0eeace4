package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hydrocal/hydrocal/models"
	"github.com/hydrocal/hydrocal/utils"
)

// ProfileController exposes the profile fields that drive goal recommendations.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a ProfileController.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// GetProfile returns the profile plus derived BMI and daily goals.
func (p *ProfileController) GetProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	payload := gin.H{"profile": user, "goals": utils.DailyGoals(user)}
	if bmi, err := utils.CalculateBMI(user.HeightCm, user.WeightKg); err == nil {
		payload["bmi"] = bmi
		payload["bmi_category"] = utils.BMICategory(bmi)
	}
	utils.Success(ctx, payload)
}

type profileUpdateRequest struct {
	WeightKg           *float64 `json:"weight_kg"`
	HeightCm           *float64 `json:"height_cm"`
	Age                *int     `json:"age"`
	Gender             *string  `json:"gender"`
	ActivityLevel      *string  `json:"activity_level"`
	PrepTime           *string  `json:"prep_time"`
	Allergies          *string  `json:"allergies"`
	DietPreferences    *string  `json:"diet_preferences"`
	CuisinePreferences *string  `json:"cuisine_preferences"`
	HealthConditions   *string  `json:"health_conditions"`
}

// UpdateProfile applies a partial profile update.
func (p *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req profileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request body")
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	if req.WeightKg != nil {
		user.WeightKg = *req.WeightKg
	}
	if req.HeightCm != nil {
		user.HeightCm = *req.HeightCm
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Gender != nil {
		user.Gender = utils.SanitizeText(*req.Gender)
	}
	if req.ActivityLevel != nil {
		user.ActivityLevel = utils.SanitizeText(*req.ActivityLevel)
	}
	if req.PrepTime != nil {
		user.PrepTime = utils.SanitizeText(*req.PrepTime)
	}
	if req.Allergies != nil {
		user.Allergies = utils.SanitizeText(*req.Allergies)
	}
	if req.DietPreferences != nil {
		user.DietPreferences = utils.SanitizeText(*req.DietPreferences)
	}
	if req.CuisinePreferences != nil {
		user.CuisinePreferences = utils.SanitizeText(*req.CuisinePreferences)
	}
	if req.HealthConditions != nil {
		user.HealthConditions = utils.SanitizeText(*req.HealthConditions)
	}

	if err := p.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to update profile")
		return
	}

	utils.Success(ctx, gin.H{"profile": user, "goals": utils.DailyGoals(user)})
}
