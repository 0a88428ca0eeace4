package utils

import (
	"math"
	"testing"

	"github.com/hydrocal/hydrocal/models"
)

func TestCalculateBMI(t *testing.T) {
	bmi, err := CalculateBMI(180, 75)
	if err != nil {
		t.Fatalf("CalculateBMI: %v", err)
	}
	if math.Abs(bmi-23.15) > 0.01 {
		t.Errorf("bmi = %.2f, want 23.15", bmi)
	}

	bad := [][2]float64{{0, 75}, {180, 0}, {-180, 75}, {30, 75}, {180, 500}}
	for _, in := range bad {
		if _, err := CalculateBMI(in[0], in[1]); err == nil {
			t.Errorf("CalculateBMI(%v, %v) accepted implausible input", in[0], in[1])
		}
	}
}

func TestBMICategory(t *testing.T) {
	cases := []struct {
		bmi  float64
		want string
	}{
		{17.0, "Underweight"},
		{18.5, "Normal weight"},
		{24.9, "Normal weight"},
		{27.0, "Overweight"},
		{32.0, "Obesity class I"},
		{37.0, "Obesity class II"},
		{42.0, "Obesity class III"},
	}
	for _, tc := range cases {
		if got := BMICategory(tc.bmi); got != tc.want {
			t.Errorf("BMICategory(%.1f) = %q, want %q", tc.bmi, got, tc.want)
		}
	}
}

func TestRecommendedCalories(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	// Mifflin-St Jeor for a complete male profile:
	// 10*80 + 6.25*180 - 5*30 + 5 = 1780, sedentary factor 1.2 -> 2136.
	male := models.User{
		Gender: "male", WeightKg: 80, HeightCm: 180, Age: 30,
		ActivityLevel: "sedentary",
	}
	if got := RecommendedCalories(male); got != 2136 {
		t.Errorf("male sedentary = %d, want 2136", got)
	}

	// 10*60 + 6.25*165 - 5*25 - 161 = 1345.25, moderate factor 1.55 -> 2085.
	female := models.User{
		Gender: "female", WeightKg: 60, HeightCm: 165, Age: 25,
		ActivityLevel: "moderate",
	}
	if got := RecommendedCalories(female); got != 2085 {
		t.Errorf("female moderate = %d, want 2085", got)
	}

	// Unknown activity levels fall back to the sedentary factor.
	male.ActivityLevel = "couch"
	if got := RecommendedCalories(male); got != 2136 {
		t.Errorf("unknown activity = %d, want sedentary 2136", got)
	}
}

func TestRecommendedCaloriesFallsBackOnIncompleteProfile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if got := RecommendedCalories(models.User{Gender: "male"}); got != 2500 {
		t.Errorf("incomplete male profile = %d, want default 2500", got)
	}
	if got := RecommendedCalories(models.User{Gender: "female"}); got != 2000 {
		t.Errorf("incomplete female profile = %d, want default 2000", got)
	}
	if got := RecommendedCalories(models.User{}); got != 2000 {
		t.Errorf("missing gender = %d, want female default 2000", got)
	}
}

func TestDailyGoals(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	goals := DailyGoals(models.User{Gender: "male"})
	if goals.WaterGoalMl != 2700 {
		t.Errorf("water goal = %d, want 2700", goals.WaterGoalMl)
	}
	if goals.CalorieGoal != 2500 {
		t.Errorf("calorie goal = %d, want 2500", goals.CalorieGoal)
	}
}
