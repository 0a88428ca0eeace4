package utils

import (
	"errors"
	"strings"

	"github.com/hydrocal/hydrocal/config"
	"github.com/hydrocal/hydrocal/models"
)

// CalculateBMI expects height in centimeters and weight in kilograms.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCm < 50 || heightCm > 250 || weightKg < 10 || weightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCm / 100.0 // to meters
	return weightKg / (h * h), nil
}

// BMICategory buckets a BMI value into the standard WHO classes.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

// activityFactors maps profile activity levels to TDEE multipliers.
var activityFactors = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// RecommendedCalories estimates a daily calorie target with Mifflin-St Jeor
// when the profile is complete, falling back to the configured per-gender
// default otherwise. The tracker treats the result as a read-only input.
func RecommendedCalories(u models.User) int {
	cfg := config.Get()

	fallback := cfg.FemaleCalorieGoal
	if strings.EqualFold(u.Gender, "male") {
		fallback = cfg.MaleCalorieGoal
	}

	if u.WeightKg <= 0 || u.HeightCm <= 0 || u.Age <= 0 {
		return fallback
	}

	bmr := 10*u.WeightKg + 6.25*u.HeightCm - 5*float64(u.Age)
	if strings.EqualFold(u.Gender, "male") {
		bmr += 5
	} else {
		bmr -= 161
	}

	factor, ok := activityFactors[strings.ToLower(u.ActivityLevel)]
	if !ok {
		factor = activityFactors["sedentary"]
	}
	return int(bmr * factor)
}

// DailyGoals bundles the water and calorie targets for one user.
func DailyGoals(u models.User) models.Goals {
	return models.Goals{
		WaterGoalMl: config.Get().WaterGoalMl,
		CalorieGoal: RecommendedCalories(u),
	}
}
