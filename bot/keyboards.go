package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ngfenglong/JiakAIBot/services"
)

func pendingMealKeyboard(key string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Log it", encodeCallback(OpConfirm, key)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", encodeCallback(OpCancel, key)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽 Portion", encodeCallback(OpPortionMenu, key)),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Adjust", encodeCallback(OpNutrientMenu, key)),
		),
	)
}

func portionKeyboard(key string) tgbotapi.InlineKeyboardMarkup {
	preset := func(label string, mult float64) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, encodeCallback(OpPortionSet, key, formatValue(mult)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			preset("½x", 0.5), preset("¾x", 0.75), preset("1x", 1.0),
		),
		tgbotapi.NewInlineKeyboardRow(
			preset("1.25x", 1.25), preset("1.5x", 1.5), preset("2x", 2.0),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔢 Custom", encodeCallback(OpPortionCustom, key)),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Back", encodeCallback(OpBack, key)),
		),
	)
}

func nutrientKeyboard(key string) tgbotapi.InlineKeyboardMarkup {
	field := func(label, name string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, encodeCallback(OpNutrientField, key, name))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			field("🔥 Calories", services.NutrientCalories),
			field("🥩 Protein", services.NutrientProtein),
		),
		tgbotapi.NewInlineKeyboardRow(
			field("🍞 Carbs", services.NutrientCarbs),
			field("🧈 Fat", services.NutrientFat),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ Back", encodeCallback(OpBack, key)),
		),
	)
}

// nudgeKeyboard offers preset deltas per field. Calories move in bigger
// steps than the macro grams.
func nudgeKeyboard(key, field string) tgbotapi.InlineKeyboardMarkup {
	steps := []float64{5, 10, 20}
	if field == services.NutrientCalories {
		steps = []float64{20, 50, 100}
	}

	nudge := func(label string, delta float64) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, encodeCallback(OpNudge, key, field, formatValue(delta)))
	}

	var plus, minus []tgbotapi.InlineKeyboardButton
	for _, s := range steps {
		plus = append(plus, nudge("+"+formatValue(s), s))
		minus = append(minus, nudge("-"+formatValue(s), -s))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		plus,
		minus,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↩️ Back", encodeCallback(OpNutrientMenu, key)),
		),
	)
}

func accessReviewKeyboard(userID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", encodeCallback(OpApprove, userID)),
			tgbotapi.NewInlineKeyboardButtonData("🚫 Deny", encodeCallback(OpDeny, userID)),
		),
	)
}

func reinstateKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🙏 Request reinstatement", encodeCallback(OpReinstate)),
		),
	)
}

func requestAccessKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔑 Request access", encodeCallback(OpRequestAccess)),
		),
	)
}

func mealDeleteKeyboard(mealID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", encodeCallback(OpDeleteMeal, formatValue(float64(mealID)))),
		),
	)
}
