package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngfenglong/JiakAIBot/models"
)

type fakeAnalysisGateway struct {
	result *AnalysisResult
	err    error
}

func (f *fakeAnalysisGateway) AnalyzeImage(context.Context, []byte) (*AnalysisResult, error) {
	return f.result, f.err
}

func (f *fakeAnalysisGateway) AnalyzeText(context.Context, string) (*AnalysisResult, error) {
	return f.result, f.err
}

func newFlowService(t *testing.T, analysis AnalysisGateway, nutrition NutritionGateway) *MealFlowService {
	t.Helper()
	setupTestDB(t)
	store := NewMemoryPendingStore(time.Minute)
	return NewMealFlowService(analysis, nutrition, store, NewPortionEngine(nutrition), NewMealService())
}

func TestTextFlowHappyPath(t *testing.T) {
	analysis := &fakeAnalysisGateway{result: &AnalysisResult{
		Description:       "1 cup rice, 100g chicken",
		Confidence:        ConfidenceMedium,
		OverallMultiplier: 1.0,
	}}
	nutrition := &fakeNutritionGateway{result: &NutritionResult{
		Totals: models.Nutrition{Calories: 450, Protein: 30, Carbs: 60, Fat: 10},
		Raw:    models.Nutrition{Calories: 450, Protein: 30, Carbs: 60, Fat: 10},
	}}
	flow := newFlowService(t, analysis, nutrition)
	ctx := context.Background()

	view, err := flow.StartTextFlow(ctx, "100", "chicken rice")
	require.NoError(t, err)
	assert.InDelta(t, 450.0, view.Nutrition.Calories, 0.001)
	assert.Equal(t, ConfidenceMedium, view.Confidence)
	require.NotEmpty(t, view.MealKey)

	mealKey := view.MealKey
	view, err = flow.AdjustPortion(ctx, "100", mealKey, 2.0, true)
	require.NoError(t, err)
	assert.InDelta(t, 900.0, view.Nutrition.Calories, 0.001)

	meal, err := flow.Confirm("100", mealKey)
	require.NoError(t, err)
	assert.InDelta(t, 900.0, meal.Nutrition.Calories, 0.001)

	summary, err := NewMealService().GetDailySummary("100", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.MealCount)
	assert.InDelta(t, 900.0, summary.Totals.Calories, 0.001)

	// The pending record is gone once confirmed.
	_, err = flow.View("100", mealKey)
	assert.ErrorIs(t, err, ErrPendingNotFound)
}

func TestInvalidPortionLeavesPendingUntouched(t *testing.T) {
	analysis := &fakeAnalysisGateway{result: &AnalysisResult{
		Description:       "1 plate nasi lemak",
		Confidence:        ConfidenceHigh,
		OverallMultiplier: 1.0,
	}}
	nutrition := &fakeNutritionGateway{}
	flow := newFlowService(t, analysis, nutrition)
	ctx := context.Background()

	view, err := flow.StartTextFlow(ctx, "100", "nasi lemak")
	require.NoError(t, err)

	_, err = flow.AdjustPortion(ctx, "100", view.MealKey, 15.0, false)
	assert.ErrorIs(t, err, ErrInvalidPortion)

	after, err := flow.View("100", view.MealKey)
	require.NoError(t, err)
	assert.Equal(t, 1.0, after.PortionMultiplier)
	assert.Equal(t, view.Nutrition, after.Nutrition)
}

func TestAnalysisFailurePropagates(t *testing.T) {
	analysis := &fakeAnalysisGateway{err: &AnalysisError{Code: CodeNoFoodDescribed}}
	flow := newFlowService(t, analysis, &fakeNutritionGateway{})

	_, err := flow.StartTextFlow(context.Background(), "100", "hello world")
	assert.Equal(t, CodeNoFoodDescribed, AnalysisCode(err))
}

func TestDegradedNutritionStillFlows(t *testing.T) {
	analysis := &fakeAnalysisGateway{result: &AnalysisResult{
		Description:       "mystery stew",
		Confidence:        ConfidenceLow,
		OverallMultiplier: 1.0,
	}}
	nutrition := &fakeNutritionGateway{result: &NutritionResult{Degraded: true}}
	flow := newFlowService(t, analysis, nutrition)

	view, err := flow.StartTextFlow(context.Background(), "100", "mystery stew")
	require.NoError(t, err)
	assert.True(t, view.NutritionMissing)
	assert.Equal(t, 0.0, view.Nutrition.Calories)

	// Logging a degraded meal still works.
	meal, err := flow.Confirm("100", view.MealKey)
	require.NoError(t, err)
	assert.Equal(t, 0.0, meal.Nutrition.Calories)
}

func TestCancelDiscardsPending(t *testing.T) {
	analysis := &fakeAnalysisGateway{result: &AnalysisResult{
		Description:       "kopi and toast",
		Confidence:        ConfidenceMedium,
		OverallMultiplier: 1.0,
	}}
	flow := newFlowService(t, analysis, &fakeNutritionGateway{})

	view, err := flow.StartTextFlow(context.Background(), "100", "kopi and toast")
	require.NoError(t, err)

	flow.Cancel("100", view.MealKey)
	_, err = flow.View("100", view.MealKey)
	assert.ErrorIs(t, err, ErrPendingNotFound)

	// Confirming after cancel fails and nothing is persisted.
	_, err = flow.Confirm("100", view.MealKey)
	assert.ErrorIs(t, err, ErrPendingNotFound)

	summary, err := NewMealService().GetDailySummary("100", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.MealCount)
}

func TestNutrientNudgeThenConfirm(t *testing.T) {
	analysis := &fakeAnalysisGateway{result: &AnalysisResult{
		Description:       "2 eggs",
		Confidence:        ConfidenceHigh,
		OverallMultiplier: 1.0,
	}}
	nutrition := &fakeNutritionGateway{result: &NutritionResult{
		Totals: models.Nutrition{Calories: 140, Protein: 12},
		Raw:    models.Nutrition{Calories: 140, Protein: 12},
	}}
	flow := newFlowService(t, analysis, nutrition)

	view, err := flow.StartTextFlow(context.Background(), "100", "2 eggs")
	require.NoError(t, err)

	view, err = flow.AdjustNutrient("100", view.MealKey, NutrientCalories, 20)
	require.NoError(t, err)
	assert.InDelta(t, 160.0, view.Nutrition.Calories, 0.001)
	assert.True(t, view.ManuallyAdjusted)

	meal, err := flow.Confirm("100", view.MealKey)
	require.NoError(t, err)
	assert.InDelta(t, 160.0, meal.Nutrition.Calories, 0.001)
}

func TestPortionEstimateSeedsInitialScaling(t *testing.T) {
	analysis := &fakeAnalysisGateway{result: &AnalysisResult{
		Description:       "1.5x steamed white rice",
		Confidence:        ConfidenceHigh,
		OverallMultiplier: 1.5,
	}}
	nutrition := &fakeNutritionGateway{}
	flow := newFlowService(t, analysis, nutrition)

	view, err := flow.StartTextFlow(context.Background(), "100", "lots of rice")
	require.NoError(t, err)
	assert.Equal(t, 1.5, view.PortionMultiplier)
	// fakeNutritionGateway scales its 300-calorie baseline.
	assert.InDelta(t, 450.0, view.Nutrition.Calories, 0.001)
}
