package services

import (
	"context"
	"log"
	"time"

	"github.com/ngfenglong/JiakAIBot/models"
	"github.com/ngfenglong/JiakAIBot/utils"
)

// PendingMealView is the transport-facing snapshot of a pending meal.
type PendingMealView struct {
	MealKey           string           `json:"meal_key"`
	Description       string           `json:"description"`
	Nutrition         models.Nutrition `json:"nutrition"`
	Confidence        string           `json:"confidence"`
	PortionMultiplier float64          `json:"portion_multiplier"`
	ManuallyAdjusted  bool             `json:"manually_adjusted"`
	NutritionMissing  bool             `json:"nutrition_missing"`
}

// MealFlowService drives a meal from analysis through confirmation.
type MealFlowService struct {
	analysis  AnalysisGateway
	nutrition NutritionGateway
	pending   PendingMealStore
	portions  *PortionEngine
	meals     *MealService
}

func NewMealFlowService(
	analysis AnalysisGateway,
	nutrition NutritionGateway,
	pending PendingMealStore,
	portions *PortionEngine,
	meals *MealService,
) *MealFlowService {
	return &MealFlowService{
		analysis:  analysis,
		nutrition: nutrition,
		pending:   pending,
		portions:  portions,
		meals:     meals,
	}
}

// StartPhotoFlow analyzes a photo, looks up nutrition with the analyzer's
// portion estimate, and parks the result as a pending meal. The photo is
// archived best effort; a failed upload never blocks the flow.
func (s *MealFlowService) StartPhotoFlow(ctx context.Context, ownerID string, image []byte) (*PendingMealView, error) {
	analysis, err := s.analysis.AnalyzeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	photoURL, err := utils.UploadMealPhoto(ownerID, image)
	if err != nil {
		log.Printf("photo archive failed for user %s: %v", ownerID, err)
	}
	if photoURL == "" {
		photoURL = "photo"
	}

	return s.startFlow(ctx, ownerID, InputPhoto, photoURL, analysis)
}

// StartTextFlow analyzes a sentence and parks the result as a pending meal.
func (s *MealFlowService) StartTextFlow(ctx context.Context, ownerID, text string) (*PendingMealView, error) {
	analysis, err := s.analysis.AnalyzeText(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.startFlow(ctx, ownerID, InputText, text, analysis)
}

func (s *MealFlowService) startFlow(ctx context.Context, ownerID, kind, ref string, analysis *AnalysisResult) (*PendingMealView, error) {
	multiplier := analysis.OverallMultiplier
	if multiplier <= 0 {
		multiplier = 1.0
	}

	lookup, err := s.nutrition.LookupNutrition(ctx, analysis.Description, multiplier)
	if err != nil {
		return nil, err
	}

	pm := &PendingMeal{
		OwnerID:           ownerID,
		CreatedAt:         time.Now(),
		InputKind:         kind,
		InputRef:          ref,
		FoodDescription:   analysis.Description,
		Confidence:        analysis.Confidence,
		Nutrition:         lookup.Totals,
		RawNutrition:      lookup.Raw,
		PortionMultiplier: multiplier,
		NutritionMissing:  lookup.Degraded,
	}
	s.pending.Add(pm)
	return viewOf(pm), nil
}

// AdjustPortion rescales a pending meal. preset marks multipliers chosen
// from the keyboard; free-text custom values re-query the gateway.
func (s *MealFlowService) AdjustPortion(ctx context.Context, ownerID, mealKey string, multiplier float64, preset bool) (*PendingMealView, error) {
	pm, ok := s.pending.Get(ownerID, mealKey)
	if !ok {
		return nil, ErrPendingNotFound
	}

	if err := s.portions.ApplyMultiplier(ctx, pm, multiplier, preset); err != nil {
		return nil, err
	}
	s.pending.Update(pm)
	return viewOf(pm), nil
}

// AdjustNutrient nudges one macro field on a pending meal.
func (s *MealFlowService) AdjustNutrient(ownerID, mealKey, field string, delta float64) (*PendingMealView, error) {
	pm, ok := s.pending.Get(ownerID, mealKey)
	if !ok {
		return nil, ErrPendingNotFound
	}

	if err := s.portions.ApplyNutrientDelta(pm, field, delta); err != nil {
		return nil, err
	}
	s.pending.Update(pm)
	return viewOf(pm), nil
}

// Confirm commits the pending meal to storage and discards it.
func (s *MealFlowService) Confirm(ownerID, mealKey string) (*models.Meal, error) {
	pm, ok := s.pending.Get(ownerID, mealKey)
	if !ok {
		return nil, ErrPendingNotFound
	}

	meal, err := s.meals.Commit(pm)
	if err != nil {
		return nil, err
	}
	s.pending.Delete(ownerID, mealKey)
	return meal, nil
}

// Cancel drops a pending meal. Nothing was persisted yet, so there is no
// compensating work; canceling an unknown key is not an error.
func (s *MealFlowService) Cancel(ownerID, mealKey string) {
	s.pending.Delete(ownerID, mealKey)
}

// View returns the current state of a pending meal.
func (s *MealFlowService) View(ownerID, mealKey string) (*PendingMealView, error) {
	pm, ok := s.pending.Get(ownerID, mealKey)
	if !ok {
		return nil, ErrPendingNotFound
	}
	return viewOf(pm), nil
}

func viewOf(pm *PendingMeal) *PendingMealView {
	return &PendingMealView{
		MealKey:           pm.Key,
		Description:       pm.FoodDescription,
		Nutrition:         pm.Nutrition,
		Confidence:        pm.Confidence,
		PortionMultiplier: pm.PortionMultiplier,
		ManuallyAdjusted:  pm.ManuallyAdjusted,
		NutritionMissing:  pm.NutritionMissing,
	}
}
