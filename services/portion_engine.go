package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Macro fields the edit menu exposes for manual nudging.
const (
	NutrientCalories = "calories"
	NutrientProtein  = "protein"
	NutrientCarbs    = "carbs"
	NutrientFat      = "fat"
)

// PortionEngine recomputes a pending meal's nutrition for portion changes
// and manual nutrient nudges.
type PortionEngine struct {
	nutrition NutritionGateway
}

func NewPortionEngine(nutrition NutritionGateway) *PortionEngine {
	return &PortionEngine{nutrition: nutrition}
}

// ApplyMultiplier sets a new portion multiplier on pm. For a clean meal the
// new totals are rescaled from RawNutrition, never from the previous totals,
// so repeated adjustments do not compound rounding error. Once the meal has
// been manually nudged, or when the multiplier came in as free text, the
// gateway is re-queried instead because the provider may apply its own
// non-linear serving adjustments.
func (e *PortionEngine) ApplyMultiplier(ctx context.Context, pm *PendingMeal, multiplier float64, preset bool) error {
	if multiplier < 0.1 || multiplier > 10.0 {
		return ErrInvalidPortion
	}

	base := BaseDescription(pm.FoodDescription)

	if preset && !pm.ManuallyAdjusted {
		pm.Nutrition = pm.RawNutrition.Scale(multiplier)
	} else {
		res, err := e.nutrition.LookupNutrition(ctx, base, multiplier)
		if err != nil {
			return err
		}
		pm.Nutrition = res.Totals
		pm.NutritionMissing = res.Degraded
		if pm.ManuallyAdjusted {
			// Gateway totals supersede the nudged values.
			pm.ManuallyAdjusted = false
			pm.RawNutrition = res.Raw
		}
	}

	pm.PortionMultiplier = multiplier
	pm.FoodDescription = base + " " + PortionLabel(multiplier)
	return nil
}

// ApplyNutrientDelta nudges one macro field by delta, floored at zero.
// RawNutrition is left untouched so the pre-adjustment baseline survives.
func (e *PortionEngine) ApplyNutrientDelta(pm *PendingMeal, field string, delta float64) error {
	var target *float64
	switch field {
	case NutrientCalories:
		target = &pm.Nutrition.Calories
	case NutrientProtein:
		target = &pm.Nutrition.Protein
	case NutrientCarbs:
		target = &pm.Nutrition.Carbs
	case NutrientFat:
		target = &pm.Nutrition.Fat
	default:
		return ErrInvalidNutrient
	}

	*target += delta
	if *target < 0 {
		*target = 0
	}
	pm.ManuallyAdjusted = true
	return nil
}

// BaseDescription strips a previously appended portion suffix. If the
// description ends with a parenthesized suffix, the base is everything
// before the last " (".
func BaseDescription(description string) string {
	if strings.HasSuffix(description, ")") {
		if i := strings.LastIndex(description, " ("); i >= 0 {
			return description[:i]
		}
	}
	return description
}

// PortionLabel maps a multiplier to its description suffix. Exact matches
// are checked before the range buckets so 0.75 never falls into the small
// portion bucket.
func PortionLabel(multiplier float64) string {
	switch multiplier {
	case 1.0:
		return "(Normal portion)"
	case 0.5:
		return "(Half portion)"
	case 0.75:
		return "(3/4 portion)"
	case 1.25:
		return "(Large portion)"
	case 1.5:
		return "(1.5x portion)"
	case 2.0:
		return "(Double portion)"
	}
	switch {
	case multiplier < 0.5:
		return fmt.Sprintf("(%sx small portion)", formatMultiplier(multiplier))
	case multiplier > 2.0:
		return fmt.Sprintf("(%sx large portion)", formatMultiplier(multiplier))
	default:
		return fmt.Sprintf("(%sx portion)", formatMultiplier(multiplier))
	}
}

// formatMultiplier renders 3.0 as "3.0" and 0.33 as "0.33".
func formatMultiplier(m float64) string {
	s := strconv.FormatFloat(m, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
