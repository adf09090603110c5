package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNutritionScaleLeavesReceiverUntouched(t *testing.T) {
	raw := Nutrition{Calories: 450, Protein: 30, Carbs: 50, Fat: 12}
	scaled := raw.Scale(2.0)

	assert.Equal(t, 900.0, scaled.Calories)
	assert.Equal(t, 60.0, scaled.Protein)
	assert.Equal(t, 450.0, raw.Calories, "value semantics, no mutation")
}

func TestNutritionSubFloor(t *testing.T) {
	a := Nutrition{Calories: 100, Protein: 5}
	b := Nutrition{Calories: 300, Protein: 2}

	floored := a.SubFloor(b)
	assert.Equal(t, 0.0, floored.Calories)
	assert.Equal(t, 3.0, floored.Protein)

	// Sub keeps the sign for summary diffs.
	diff := a.Sub(b)
	assert.Equal(t, -200.0, diff.Calories)
}
