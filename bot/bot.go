package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ngfenglong/JiakAIBot/config"
	"github.com/ngfenglong/JiakAIBot/models"
	"github.com/ngfenglong/JiakAIBot/services"
	"github.com/ngfenglong/JiakAIBot/utils"
)

// Bot is the Telegram transport. It drives the same services as the REST
// API and holds only conversational state (which user owes us a number).
type Bot struct {
	api    *tgbotapi.BotAPI
	flow   *services.MealFlowService
	meals  *services.MealService
	access *services.AccessService

	httpClient *http.Client

	mu       sync.Mutex
	awaiting map[int64]*awaitingInput
}

// awaitingInput tracks a free-text prompt in flight: the next plain message
// from the user is a number for this meal, not a new meal description.
type awaitingInput struct {
	kind    string // "portion" or "nutrient"
	mealKey string
	field   string
}

func New(token string, flow *services.MealFlowService, meals *services.MealService, access *services.AccessService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:        api,
		flow:       flow,
		meals:      meals,
		access:     access,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		awaiting:   make(map[int64]*awaitingInput),
	}, nil
}

// Run long-polls for updates until ctx is canceled. Each update is handled
// on its own goroutine; per-user ordering comes from Telegram delivering a
// single conversation sequentially in practice, and last-write-wins on the
// pending record is acceptable if it doesn't.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	b.access.TouchUser(userID)

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, userID)
		return
	}

	authorized, err := b.access.IsAuthorized(userID)
	if err != nil {
		log.Printf("authorization check failed for %s: %v", userID, err)
		b.send(msg.Chat.ID, "😓 Something went wrong. Please try again.", nil)
		return
	}
	if !authorized {
		b.sendUnauthorized(msg.Chat.ID, userID)
		return
	}

	if pending := b.takeAwaiting(msg.From.ID); pending != nil {
		b.handleAwaitedNumber(ctx, msg, userID, pending)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, userID)
		return
	}
	if msg.Text != "" {
		b.handleText(ctx, msg, userID)
		return
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, userID string) {
	switch msg.Command() {
	case "start", "help":
		b.handleStart(msg, userID)
	case "summary":
		b.requireAccess(msg.Chat.ID, userID, func() { b.handleSummary(msg, userID) })
	case "week":
		b.requireAccess(msg.Chat.ID, userID, func() { b.handleWeek(msg.Chat.ID, userID) })
	case "recent":
		b.requireAccess(msg.Chat.ID, userID, func() { b.handleRecent(msg.Chat.ID, userID) })
	case "pending":
		b.requireAdmin(msg.Chat.ID, userID, func() { b.handlePendingRequests(msg.Chat.ID) })
	case "approved":
		b.requireAdmin(msg.Chat.ID, userID, func() { b.handleApprovedList(msg.Chat.ID) })
	case "revoke":
		b.requireAdmin(msg.Chat.ID, userID, func() { b.handleRevokeCommand(msg, userID) })
	default:
		b.send(msg.Chat.ID, "🤔 I don't know that command. Try /help.", nil)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message, userID string) {
	authorized, _ := b.access.IsAuthorized(userID)
	if !authorized {
		b.sendUnauthorized(msg.Chat.ID, userID)
		return
	}

	text := "👋 *Welcome to JiakAI!*\n\n" +
		"Send me a photo of your meal or describe what you ate and I'll log the nutrition for you.\n\n" +
		"Commands:\n" +
		"/summary — today's totals (or /summary 2026-08-28)\n" +
		"/week — last 7 days\n" +
		"/recent — recently logged meals"
	b.send(msg.Chat.ID, text, nil)
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, userID string) {
	status := b.sendAndReturn(msg.Chat.ID, "📸 *Analyzing your meal...*")

	// Largest photo size is last.
	fileID := msg.Photo[len(msg.Photo)-1].FileID
	image, err := b.downloadFile(fileID)
	if err != nil {
		log.Printf("photo download failed for %s: %v", userID, err)
		b.edit(msg.Chat.ID, status, "😓 I couldn't download that photo. Please try again.", nil)
		return
	}

	view, err := b.flow.StartPhotoFlow(ctx, userID, image)
	if err != nil {
		b.edit(msg.Chat.ID, status, analysisFailureText(services.AnalysisCode(err)), nil)
		return
	}

	kb := pendingMealKeyboard(view.MealKey)
	b.edit(msg.Chat.ID, status, formatPendingMeal(view), &kb)
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, userID string) {
	status := b.sendAndReturn(msg.Chat.ID, "🧠 *Working out the nutrition...*")

	view, err := b.flow.StartTextFlow(ctx, userID, msg.Text)
	if err != nil {
		b.edit(msg.Chat.ID, status, analysisFailureText(services.AnalysisCode(err)), nil)
		return
	}

	kb := pendingMealKeyboard(view.MealKey)
	b.edit(msg.Chat.ID, status, formatPendingMeal(view), &kb)
}

// handleAwaitedNumber consumes the free-text number a prompt asked for.
// Malformed input re-prompts without dropping the pending state.
func (b *Bot) handleAwaitedNumber(ctx context.Context, msg *tgbotapi.Message, userID string, pending *awaitingInput) {
	value, err := strconv.ParseFloat(strings.TrimSpace(msg.Text), 64)
	if err != nil {
		b.setAwaiting(msg.From.ID, pending)
		b.send(msg.Chat.ID, "🔢 Please send just a number, like 1.5", nil)
		return
	}

	switch pending.kind {
	case "portion":
		view, err := b.flow.AdjustPortion(ctx, userID, pending.mealKey, value, false)
		if err != nil {
			if errors.Is(err, services.ErrInvalidPortion) {
				b.setAwaiting(msg.From.ID, pending)
				b.send(msg.Chat.ID, "⚖️ Please enter a number between 0.1 and 10.0", nil)
				return
			}
			b.sendFlowError(msg.Chat.ID, err)
			return
		}
		kb := pendingMealKeyboard(view.MealKey)
		b.send(msg.Chat.ID, formatPendingMeal(view), &kb)

	case "nutrient":
		view, err := b.flow.AdjustNutrient(userID, pending.mealKey, pending.field, value)
		if err != nil {
			b.sendFlowError(msg.Chat.ID, err)
			return
		}
		kb := pendingMealKeyboard(view.MealKey)
		b.send(msg.Chat.ID, formatPendingMeal(view), &kb)
	}
}

func (b *Bot) handleSummary(msg *tgbotapi.Message, userID string) {
	day := time.Now()
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		parsed, err := utils.ParseDate(arg)
		if err != nil {
			b.send(msg.Chat.ID, "📅 Use /summary YYYY-MM-DD, like /summary 2026-08-28", nil)
			return
		}
		day = parsed
	}

	summary, err := b.meals.GetDailySummary(userID, day)
	if err != nil {
		b.sendFlowError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, formatDailySummary(summary), nil)
}

func (b *Bot) handleWeek(chatID int64, userID string) {
	trend, err := b.meals.GetWeeklyTrend(userID, time.Now())
	if err != nil {
		b.sendFlowError(chatID, err)
		return
	}
	b.send(chatID, formatWeeklyTrend(trend), nil)
}

func (b *Bot) handleRecent(chatID int64, userID string) {
	meals, err := b.meals.ListRecentMeals(userID, 5)
	if err != nil {
		b.sendFlowError(chatID, err)
		return
	}
	if len(meals) == 0 {
		b.send(chatID, "🍽 No meals logged yet.", nil)
		return
	}

	b.send(chatID, "🕐 *Your recent meals:*", nil)
	for i := range meals {
		kb := mealDeleteKeyboard(meals[i].ID)
		b.send(chatID, formatMealLine(&meals[i]), &kb)
	}
}

func (b *Bot) handlePendingRequests(chatID int64) {
	reqs, err := b.access.ListOpenRequests()
	if err != nil {
		b.sendFlowError(chatID, err)
		return
	}
	if len(reqs) == 0 {
		b.send(chatID, "📭 No open access requests.", nil)
		return
	}

	for _, req := range reqs {
		label := "requested access"
		if req.Status == models.AccessReinstate {
			label = "requested reinstatement"
		}
		kb := accessReviewKeyboard(req.UserID)
		b.send(chatID, fmt.Sprintf("👤 %s (id %s) %s.", req.DisplayName, req.UserID, label), &kb)
	}
}

func (b *Bot) handleApprovedList(chatID int64) {
	reqs, err := b.access.ListApproved()
	if err != nil {
		b.sendFlowError(chatID, err)
		return
	}
	if len(reqs) == 0 {
		b.send(chatID, "📭 Nobody is approved yet.", nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("✅ *Approved users:*\n\n")
	for _, req := range reqs {
		sb.WriteString(fmt.Sprintf("• %s (id %s)\n", req.DisplayName, req.UserID))
	}
	b.send(chatID, sb.String(), nil)
}

func (b *Bot) handleRevokeCommand(msg *tgbotapi.Message, adminID string) {
	target := strings.TrimSpace(msg.CommandArguments())
	if target == "" {
		b.send(msg.Chat.ID, "Usage: /revoke <user id>", nil)
		return
	}

	if err := b.access.Revoke(target, adminID); err != nil {
		b.sendAccessError(msg.Chat.ID, err)
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("🚫 Access revoked for %s.", target), nil)
	b.notifyUser(target, "🚫 Your access has been revoked. You can ask for it back with the button below.", reinstateKeyboard())
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}

	// Always answer to clear the client spinner.
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	ev, err := decodeCallback(query.Data)
	if err != nil {
		log.Printf("bad callback from %d: %v", query.From.ID, err)
		return
	}

	userID := strconv.FormatInt(query.From.ID, 10)
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch ev.Op {
	case OpRequestAccess:
		b.handleAccessRequest(query, userID)
		return
	case OpReinstate:
		b.handleReinstateRequest(query, userID)
		return
	case OpApprove, OpDeny, OpRevoke:
		if !config.IsAdmin(userID) {
			b.send(chatID, "⛔ Admin only.", nil)
			return
		}
		b.handleAdminDecision(query, ev, userID)
		return
	}

	authorized, _ := b.access.IsAuthorized(userID)
	if !authorized {
		b.sendUnauthorized(chatID, userID)
		return
	}

	switch ev.Op {
	case OpConfirm:
		meal, err := b.flow.Confirm(userID, ev.MealKey)
		if err != nil {
			b.editOrSendError(chatID, messageID, err)
			return
		}
		summary, _ := b.meals.GetDailySummary(userID, meal.Timestamp)
		text := fmt.Sprintf("✅ *Logged!*\n\n%s\n", meal.FoodDescription) + formatNutrition(meal.Nutrition)
		if summary != nil {
			text += fmt.Sprintf("\n📊 Today so far: %.0f cal over %d meals", summary.Totals.Calories, summary.MealCount)
		}
		b.edit(chatID, messageID, text, nil)

	case OpCancel:
		b.flow.Cancel(userID, ev.MealKey)
		b.edit(chatID, messageID, "🗑 Discarded. Nothing was logged.", nil)

	case OpBack:
		b.showPendingCard(chatID, messageID, userID, ev.MealKey)

	case OpPortionMenu:
		kb := portionKeyboard(ev.MealKey)
		b.editMarkup(chatID, messageID, &kb)

	case OpPortionSet:
		view, err := b.flow.AdjustPortion(ctx, userID, ev.MealKey, ev.Value, true)
		if err != nil {
			b.editOrSendError(chatID, messageID, err)
			return
		}
		kb := pendingMealKeyboard(view.MealKey)
		b.edit(chatID, messageID, formatPendingMeal(view), &kb)

	case OpPortionCustom:
		b.setAwaiting(query.From.ID, &awaitingInput{kind: "portion", mealKey: ev.MealKey})
		b.send(chatID, "🔢 How much did you have? Send a number between 0.1 and 10.0 (e.g. 1.5 for one and a half portions).", nil)

	case OpNutrientMenu:
		kb := nutrientKeyboard(ev.MealKey)
		b.editMarkup(chatID, messageID, &kb)

	case OpNutrientField:
		kb := nudgeKeyboard(ev.MealKey, ev.Field)
		b.editMarkup(chatID, messageID, &kb)

	case OpNudge:
		view, err := b.flow.AdjustNutrient(userID, ev.MealKey, ev.Field, ev.Value)
		if err != nil {
			b.editOrSendError(chatID, messageID, err)
			return
		}
		kb := nudgeKeyboard(ev.MealKey, ev.Field)
		b.edit(chatID, messageID, formatPendingMeal(view), &kb)

	case OpDeleteMeal:
		if err := b.meals.Delete(userID, ev.MealID); err != nil {
			b.editOrSendError(chatID, messageID, err)
			return
		}
		b.edit(chatID, messageID, "🗑 Meal deleted and today's totals updated.", nil)
	}
}

func (b *Bot) handleAccessRequest(query *tgbotapi.CallbackQuery, userID string) {
	profile := services.UserProfile{
		UserID:    userID,
		Username:  query.From.UserName,
		FirstName: query.From.FirstName,
		LastName:  query.From.LastName,
	}

	req, err := b.access.RequestAccess(profile)
	if err != nil {
		b.sendAccessError(query.Message.Chat.ID, err)
		return
	}

	b.send(query.Message.Chat.ID, "📨 Request sent! You'll hear back once an admin reviews it.", nil)
	b.notifyAdmins(fmt.Sprintf("🔔 %s (id %s) requested access.", req.DisplayName, req.UserID), accessReviewKeyboard(req.UserID))
}

func (b *Bot) handleReinstateRequest(query *tgbotapi.CallbackQuery, userID string) {
	req, err := b.access.RequestReinstatement(userID)
	if err != nil {
		b.sendAccessError(query.Message.Chat.ID, err)
		return
	}

	b.send(query.Message.Chat.ID, "📨 Reinstatement request sent! You'll hear back once an admin reviews it.", nil)
	b.notifyAdmins(fmt.Sprintf("🔔 %s (id %s) requested reinstatement.", req.DisplayName, req.UserID), accessReviewKeyboard(req.UserID))
}

func (b *Bot) handleAdminDecision(query *tgbotapi.CallbackQuery, ev *CallbackEvent, adminID string) {
	chatID := query.Message.Chat.ID

	switch ev.Op {
	case OpApprove:
		if err := b.access.Approve(ev.UserID, adminID, services.UserProfile{UserID: ev.UserID}); err != nil {
			b.sendAccessError(chatID, err)
			return
		}
		b.edit(chatID, query.Message.MessageID, fmt.Sprintf("✅ Approved %s.", ev.UserID), nil)
		b.notifyUser(ev.UserID, "🎉 You're in! Send me a photo of your meal or describe what you ate to get started.", tgbotapi.InlineKeyboardMarkup{})

	case OpDeny:
		if err := b.access.Deny(ev.UserID); err != nil {
			b.sendAccessError(chatID, err)
			return
		}
		b.edit(chatID, query.Message.MessageID, fmt.Sprintf("🚫 Denied %s.", ev.UserID), nil)
		b.notifyUser(ev.UserID, "😔 Your access request was not approved this time.", tgbotapi.InlineKeyboardMarkup{})

	case OpRevoke:
		if err := b.access.Revoke(ev.UserID, adminID); err != nil {
			b.sendAccessError(chatID, err)
			return
		}
		b.edit(chatID, query.Message.MessageID, fmt.Sprintf("🚫 Revoked %s.", ev.UserID), nil)
		b.notifyUser(ev.UserID, "🚫 Your access has been revoked. You can ask for it back with the button below.", reinstateKeyboard())
	}
}

func (b *Bot) showPendingCard(chatID int64, messageID int, userID, mealKey string) {
	view, err := b.flow.View(userID, mealKey)
	if err != nil {
		b.editOrSendError(chatID, messageID, err)
		return
	}
	kb := pendingMealKeyboard(view.MealKey)
	b.edit(chatID, messageID, formatPendingMeal(view), &kb)
}

// sendUnauthorized tells a user why they're locked out, steering revoked
// users to reinstatement instead of a fresh request.
func (b *Bot) sendUnauthorized(chatID int64, userID string) {
	req, err := b.access.Status(userID)
	if err != nil {
		b.send(chatID, "😓 Something went wrong. Please try again.", nil)
		return
	}

	switch {
	case req == nil:
		kb := requestAccessKeyboard()
		b.send(chatID, "🔒 JiakAI is invite-only for now. Request access and an admin will review it.", &kb)
	case req.Status == models.AccessPending || req.Status == models.AccessReinstate:
		b.send(chatID, "⏳ Your request is still being reviewed. Hang tight!", nil)
	case req.Status == models.AccessRevoked:
		kb := reinstateKeyboard()
		b.send(chatID, "🚫 Your access was revoked. You can request reinstatement below.", &kb)
	case req.Status == models.AccessDenied:
		kb := requestAccessKeyboard()
		b.send(chatID, "😔 Your last request was denied, but you can try again.", &kb)
	default:
		kb := requestAccessKeyboard()
		b.send(chatID, "🔒 JiakAI is invite-only for now. Request access and an admin will review it.", &kb)
	}
}

func (b *Bot) requireAccess(chatID int64, userID string, fn func()) {
	authorized, err := b.access.IsAuthorized(userID)
	if err != nil {
		log.Printf("authorization check failed for %s: %v", userID, err)
		b.send(chatID, "😓 Something went wrong. Please try again.", nil)
		return
	}
	if !authorized {
		b.sendUnauthorized(chatID, userID)
		return
	}
	fn()
}

func (b *Bot) requireAdmin(chatID int64, userID string, fn func()) {
	if !config.IsAdmin(userID) {
		b.send(chatID, "⛔ Admin only.", nil)
		return
	}
	fn()
}

func (b *Bot) notifyAdmins(text string, kb tgbotapi.InlineKeyboardMarkup) {
	for _, adminID := range config.AdminIDs() {
		chatID, err := strconv.ParseInt(adminID, 10, 64)
		if err != nil {
			continue
		}
		msg := tgbotapi.NewMessage(chatID, text)
		if len(kb.InlineKeyboard) > 0 {
			msg.ReplyMarkup = kb
		}
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("admin notify failed for %s: %v", adminID, err)
		}
	}
}

func (b *Bot) notifyUser(userID, text string, kb tgbotapi.InlineKeyboardMarkup) {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if len(kb.InlineKeyboard) > 0 {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("user notify failed for %s: %v", userID, err)
	}
}

func (b *Bot) sendFlowError(chatID int64, err error) {
	switch {
	case errors.Is(err, services.ErrPendingNotFound):
		b.send(chatID, "⌛ That meal has expired. Send the photo or description again.", nil)
	case errors.Is(err, services.ErrMealNotFound):
		b.send(chatID, "🤷 I can't find that meal anymore.", nil)
	case errors.Is(err, services.ErrInvalidPortion):
		b.send(chatID, "⚖️ Please enter a number between 0.1 and 10.0", nil)
	default:
		log.Printf("flow error: %v", err)
		b.send(chatID, "😓 Something went wrong. Please try again.", nil)
	}
}

func (b *Bot) sendAccessError(chatID int64, err error) {
	switch {
	case errors.Is(err, services.ErrAlreadyApproved):
		b.send(chatID, "✅ You already have access! Just send me a meal.", nil)
	case errors.Is(err, services.ErrRequestExists):
		b.send(chatID, "⏳ Your request is already in the queue. Hang tight!", nil)
	case errors.Is(err, services.ErrAccessRevoked):
		kb := reinstateKeyboard()
		b.send(chatID, "🚫 Your access was revoked. Request reinstatement instead.", &kb)
	case errors.Is(err, services.ErrNotRevoked):
		b.send(chatID, "🤷 No revoked access record found.", nil)
	case errors.Is(err, services.ErrNoRequest):
		b.send(chatID, "🤷 No open request found for that user.", nil)
	default:
		log.Printf("access error: %v", err)
		b.send(chatID, "😓 Something went wrong. Please try again.", nil)
	}
}

func (b *Bot) editOrSendError(chatID int64, messageID int, err error) {
	if errors.Is(err, services.ErrPendingNotFound) {
		b.edit(chatID, messageID, "⌛ That meal has expired. Send the photo or description again.", nil)
		return
	}
	b.sendFlowError(chatID, err)
}

func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, err
	}

	resp, err := b.httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (b *Bot) send(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send failed: %v", err)
	}
}

func (b *Bot) sendAndReturn(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("send failed: %v", err)
		return 0
	}
	return sent.MessageID
}

func (b *Bot) edit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if messageID == 0 {
		b.send(chatID, text, kb)
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	edit.ReplyMarkup = kb
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("edit failed: %v", err)
	}
}

func (b *Bot) editMarkup(chatID int64, messageID int, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, *kb)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("edit markup failed: %v", err)
	}
}

func (b *Bot) setAwaiting(telegramID int64, in *awaitingInput) {
	b.mu.Lock()
	b.awaiting[telegramID] = in
	b.mu.Unlock()
}

func (b *Bot) takeAwaiting(telegramID int64) *awaitingInput {
	b.mu.Lock()
	defer b.mu.Unlock()
	in := b.awaiting[telegramID]
	delete(b.awaiting, telegramID)
	return in
}
