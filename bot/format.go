package bot

import (
	"fmt"
	"strings"

	"github.com/ngfenglong/JiakAIBot/models"
	"github.com/ngfenglong/JiakAIBot/services"
	"github.com/ngfenglong/JiakAIBot/utils"
)

func formatPendingMeal(view *services.PendingMealView) string {
	var sb strings.Builder
	sb.WriteString("🍴 *Meal detected*\n\n")
	sb.WriteString(fmt.Sprintf("📝 %s\n\n", view.Description))

	if view.NutritionMissing {
		sb.WriteString("⚠️ Nutrition lookup is unavailable right now, totals show as zero. You can still log the meal or adjust the values manually.\n\n")
	} else {
		sb.WriteString(formatNutrition(view.Nutrition))
		sb.WriteString("\n")
	}

	switch view.Confidence {
	case services.ConfidenceLow, services.ConfidenceVeryLow:
		sb.WriteString("⚠️ I'm not very confident about this one. Please review before logging.\n")
	}

	if view.Nutrition.Calories > 1000 {
		sb.WriteString("⚠️ This seems like a high calorie estimate. Please review and adjust if needed.\n")
	} else if !view.NutritionMissing && view.Nutrition.Calories < 50 {
		sb.WriteString("⚠️ This seems like a low calorie estimate. Please review and adjust if needed.\n")
	}

	return sb.String()
}

func formatNutrition(n models.Nutrition) string {
	return fmt.Sprintf(
		"🔥 Calories: %.0f\n🥩 Protein: %.1fg\n🍞 Carbs: %.1fg\n🧈 Fat: %.1fg\n",
		n.Calories, n.Protein, n.Carbs, n.Fat,
	)
}

func formatDailySummary(s *models.DailySummary) string {
	if s.MealCount == 0 {
		return fmt.Sprintf("📅 *%s*\n\nNothing logged yet. Send me a photo or describe your meal!", utils.FormatDate(s.Date))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Summary for %s*\n\n", utils.FormatDate(s.Date)))
	sb.WriteString(fmt.Sprintf("🍽 Meals: %d\n", s.MealCount))
	sb.WriteString(fmt.Sprintf("🔥 Calories: %.0f\n", s.Totals.Calories))
	sb.WriteString(fmt.Sprintf("🥩 Protein: %.1fg\n", s.Totals.Protein))
	sb.WriteString(fmt.Sprintf("🍞 Carbs: %.1fg\n", s.Totals.Carbs))
	sb.WriteString(fmt.Sprintf("🧈 Fat: %.1fg\n", s.Totals.Fat))
	return sb.String()
}

func formatWeeklyTrend(t *services.WeeklyTrend) string {
	if t.DaysLogged == 0 {
		return "📈 No meals logged in the last 7 days."
	}

	var sb strings.Builder
	sb.WriteString("📈 *Last 7 days*\n\n")
	sb.WriteString(fmt.Sprintf("🗓 Days logged: %d\n", t.DaysLogged))
	sb.WriteString(fmt.Sprintf("🍽 Total meals: %d\n", t.TotalMeals))
	sb.WriteString(fmt.Sprintf("📊 Avg calories/day: %.0f\n\n", t.Average.Calories))
	for _, day := range t.DailyTotals {
		sb.WriteString(fmt.Sprintf("• *%s*: %.0f cal (%d meals)\n", utils.FormatDate(day.Date), day.Totals.Calories, day.MealCount))
	}
	return sb.String()
}

func formatMealLine(m *models.Meal) string {
	return fmt.Sprintf("📝 %s\n🔥 %.0f cal | 🥩 %.1fg | 🍞 %.1fg | 🧈 %.1fg\n🕐 %s",
		m.FoodDescription,
		m.Nutrition.Calories, m.Nutrition.Protein, m.Nutrition.Carbs, m.Nutrition.Fat,
		m.Timestamp.Format("Jan 2 15:04"),
	)
}

// analysisFailureText maps analyzer error codes to the retry copy shown to
// the user.
func analysisFailureText(code string) string {
	switch code {
	case services.CodeNoFoodDetected:
		return "🔍 I couldn't find any food in that photo. Try a clearer shot of your meal."
	case services.CodeImageUnclear:
		return "📷 That photo is too blurry or dark for me to read. Mind taking another?"
	case services.CodeNoFoodDescribed:
		return "🤔 That doesn't sound like a meal to me. Try describing what you ate, like \"chicken rice with egg\"."
	case services.CodeTextTooShort:
		return "✍️ That's a bit short. Give me a few more words about what you ate."
	case services.CodeNonFoodText:
		return "👋 Hi! Send me a photo of your meal or describe what you ate and I'll log it."
	case services.CodeLowConfidence:
		return "🤷 I couldn't work out what that is. Try a different angle or describe the meal in text."
	default:
		return "😓 Something went wrong analyzing that. Please try again in a moment."
	}
}
