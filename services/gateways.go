package services

import (
	"context"

	"github.com/ngfenglong/JiakAIBot/models"
)

// Confidence levels reported by the analysis gateway.
const (
	ConfidenceHigh    = "high"
	ConfidenceMedium  = "medium"
	ConfidenceLow     = "low"
	ConfidenceVeryLow = "very_low"
)

// AnalysisResult is what the vision/text analyzer extracts from user input.
type AnalysisResult struct {
	Description string
	Confidence  string
	// OverallMultiplier seeds the pending meal's initial portion scaling.
	// Defaults to 1.0 when the analyzer sees nothing portion-like.
	OverallMultiplier float64
	// PortionItems are per-dish multipliers parsed from the description,
	// e.g. "2x chicken wing". Informational only.
	PortionItems []PortionItem
}

type PortionItem struct {
	Name       string
	Multiplier float64
}

// AnalysisGateway turns a photo or sentence into a food description.
// Failures the user can act on come back as *AnalysisError.
type AnalysisGateway interface {
	AnalyzeImage(ctx context.Context, image []byte) (*AnalysisResult, error)
	AnalyzeText(ctx context.Context, text string) (*AnalysisResult, error)
}

// NutritionResult carries both the scaled totals and the 1.0x baseline.
type NutritionResult struct {
	Totals     models.Nutrition
	Raw        models.Nutrition
	Multiplier float64
	Items      []NutritionItem
	// Degraded is set when the lookup failed and the totals are zeroed.
	// The flow still proceeds so the user can log the meal description.
	Degraded bool
}

type NutritionItem struct {
	Name     string
	Grams    float64
	Calories float64
}

// NutritionGateway resolves a food description into nutrient totals.
// Implementations never fail the flow: on provider errors they return a
// Degraded result with zero totals and a nil error.
type NutritionGateway interface {
	LookupNutrition(ctx context.Context, description string, multiplier float64) (*NutritionResult, error)
}
