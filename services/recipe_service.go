package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/prompts"

	"github.com/hydrocal/hydrocal/config"
	"github.com/hydrocal/hydrocal/models"
)

// RecipeSuggestion is one recommended recipe.
type RecipeSuggestion struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Calories    int      `json:"calories"`
	PrepTime    string   `json:"prepTime"`
	Ingredients []string `json:"ingredients"`
}

// RecipeResponse is the parsed LLM answer returned to the client.
type RecipeResponse struct {
	Recipes     []RecipeSuggestion `json:"recipes"`
	Explanation string             `json:"explanation"`
}

const recipePromptTemplate = `
You are a personal nutritionist suggesting recipes for the rest of today.

{{.CombinedInput}}

Suggest 3 recipes that:
1. Respect the allergies, diet preferences and health conditions above.
2. Fit within the remaining calories for today.
3. Match the preferred cuisines and preparation time where possible.

Stick to this JSON format for the output.

{
	"recipes": [
		{
			"name": string,
			"description": string,
			"calories": number,
			"prepTime": string,
			"ingredients": [string]
		}
	],
	"explanation": string
}
`

// RecipeService generates recipe suggestions through an OpenAI-compatible LLM.
type RecipeService struct {
	chain *chains.LLMChain
}

// NewRecipeService builds the LLM chain from configuration.
func NewRecipeService(cfg config.AppConfig) (*RecipeService, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.LLMAPIKey),
		openai.WithModel(cfg.LLMModel),
	}
	if cfg.LLMBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.LLMBaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}

	chain := chains.NewLLMChain(
		llm,
		prompts.NewPromptTemplate(recipePromptTemplate, []string{"CombinedInput"}),
	)
	return &RecipeService{chain: chain}, nil
}

// Suggest asks the model for recipes based on the profile, today's meals and
// the calories still available.
func (s *RecipeService) Suggest(ctx context.Context, user models.User, meals []models.MealEntry, remainingCalories int) (RecipeResponse, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Profile: gender=%s age=%d allergies=%q dietPreferences=%q cuisinePreferences=%q healthConditions=%q prepTime=%q\n",
		user.Gender, user.Age, user.Allergies, user.DietPreferences, user.CuisinePreferences, user.HealthConditions, user.PrepTime)
	fmt.Fprintf(&sb, "Remaining calories today: %d\n", remainingCalories)
	sb.WriteString("Meals already eaten today:\n")
	if len(meals) == 0 {
		sb.WriteString("  none\n")
	}
	for _, m := range meals {
		fmt.Fprintf(&sb, "  %s at %s (%d kcal)\n", m.Name, m.Time, m.Calories)
	}

	result, err := chains.Call(ctx, s.chain, map[string]any{"CombinedInput": sb.String()})
	if err != nil {
		return RecipeResponse{}, fmt.Errorf("calling chain: %w", err)
	}

	text, _ := result["text"].(string)
	text = stripCodeFences(text)

	var parsed RecipeResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return RecipeResponse{}, fmt.Errorf("unmarshalling response: %w", err)
	}
	return parsed, nil
}

// stripCodeFences removes markdown code fences models like to wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
