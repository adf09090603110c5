package services

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/ngfenglong/JiakAIBot/config"
	"github.com/ngfenglong/JiakAIBot/models"
	"github.com/ngfenglong/JiakAIBot/utils"
)

// MealService moves pending meals into durable storage and keeps the
// per-day summaries consistent with them.
type MealService struct{}

func NewMealService() *MealService {
	return &MealService{}
}

// Commit writes the pending meal as a Meal row, then folds its nutrition
// into that day's summary. The two writes are not wrapped in a transaction:
// a meal whose summary update fails stays persisted and the gap is logged.
// A meal that fails to persist never touches the summary.
func (s *MealService) Commit(pm *PendingMeal) (*models.Meal, error) {
	meal := &models.Meal{
		UserID:          pm.OwnerID,
		Timestamp:       pm.CreatedAt,
		InputKind:       pm.InputKind,
		InputRef:        pm.InputRef,
		FoodDescription: pm.FoodDescription,
		Nutrition:       pm.Nutrition,
		Confidence:      pm.Confidence,
	}
	if err := config.DB.Create(meal).Error; err != nil {
		return nil, err
	}

	if err := s.addToSummary(pm.OwnerID, meal.Timestamp, meal.Nutrition); err != nil {
		log.Printf("summary update failed for user %s meal %d: %v", pm.OwnerID, meal.ID, err)
	}

	EmitEvent(pm.OwnerID, "meal.logged", meal)
	return meal, nil
}

// Delete removes a meal and subtracts it from that day's summary, flooring
// each nutrient and the meal count at zero. The summary row itself is never
// deleted.
func (s *MealService) Delete(userID string, mealID uint) error {
	var meal models.Meal
	err := config.DB.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMealNotFound
	}
	if err != nil {
		return err
	}

	if err := config.DB.Delete(&meal).Error; err != nil {
		return err
	}

	if err := s.subtractFromSummary(userID, meal.Timestamp, meal.Nutrition); err != nil {
		log.Printf("summary subtract failed for user %s meal %d: %v", userID, mealID, err)
	}

	EmitEvent(userID, "meal.deleted", map[string]any{"meal_id": mealID})
	return nil
}

// Edit replaces a meal's description and nutrition, adjusting the day's
// summary by the difference. The diff is applied as-is with no floor and
// the meal count stays unchanged.
func (s *MealService) Edit(userID string, mealID uint, description string, nutrition models.Nutrition) (*models.Meal, error) {
	var meal models.Meal
	err := config.DB.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMealNotFound
	}
	if err != nil {
		return nil, err
	}

	original := meal.Nutrition
	meal.FoodDescription = description
	meal.Nutrition = nutrition
	if err := config.DB.Save(&meal).Error; err != nil {
		return nil, err
	}

	if err := s.diffSummary(userID, meal.Timestamp, original, nutrition); err != nil {
		log.Printf("summary diff failed for user %s meal %d: %v", userID, mealID, err)
	}

	EmitEvent(userID, "meal.edited", &meal)
	return &meal, nil
}

func (s *MealService) GetMeal(userID string, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := config.DB.
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMealNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) ListMealsByDate(userID string, day time.Time) ([]models.Meal, error) {
	from := utils.DayStart(day)
	to := from.AddDate(0, 0, 1)
	var meals []models.Meal
	err := config.DB.
		Where("user_id = ? AND timestamp >= ? AND timestamp < ?", userID, from, to).
		Order("timestamp ASC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) ListRecentMeals(userID string, limit int) ([]models.Meal, error) {
	if limit <= 0 {
		limit = 5
	}
	var meals []models.Meal
	err := config.DB.
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&meals).Error
	return meals, err
}

// GetDailySummary returns the stored aggregate for one day, or a zero-value
// summary when nothing was logged.
func (s *MealService) GetDailySummary(userID string, day time.Time) (*models.DailySummary, error) {
	var summary models.DailySummary
	err := config.DB.
		Where("user_id = ? AND date = ?", userID, utils.DayStart(day)).
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.DailySummary{UserID: userID, Date: utils.DayStart(day)}, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListSummaries returns the stored daily aggregates between from and to
// inclusive, newest first. Days with no meals have no row.
func (s *MealService) ListSummaries(userID string, from, to time.Time) ([]models.DailySummary, error) {
	var summaries []models.DailySummary
	err := config.DB.
		Where("user_id = ? AND date >= ? AND date <= ?", userID, utils.DayStart(from), utils.DayStart(to)).
		Order("date DESC").
		Find(&summaries).Error
	return summaries, err
}

// WeeklyTrend averages the last seven days of summaries.
type WeeklyTrend struct {
	DaysLogged  int               `json:"days_logged"`
	TotalMeals  int               `json:"total_meals"`
	DailyTotals []models.DailySummary `json:"daily_totals"`
	Average     models.Nutrition  `json:"average"`
}

func (s *MealService) GetWeeklyTrend(userID string, until time.Time) (*WeeklyTrend, error) {
	to := utils.DayStart(until)
	from := to.AddDate(0, 0, -6)
	summaries, err := s.ListSummaries(userID, from, to)
	if err != nil {
		return nil, err
	}

	trend := &WeeklyTrend{DailyTotals: summaries}
	var total models.Nutrition
	for _, day := range summaries {
		if day.MealCount == 0 {
			continue
		}
		trend.DaysLogged++
		trend.TotalMeals += day.MealCount
		total = total.Add(day.Totals)
	}
	if trend.DaysLogged > 0 {
		trend.Average = total.Scale(1 / float64(trend.DaysLogged))
	}
	return trend, nil
}

func (s *MealService) addToSummary(userID string, at time.Time, n models.Nutrition) error {
	day := utils.DayStart(at)
	var summary models.DailySummary
	err := config.DB.
		Where("user_id = ? AND date = ?", userID, day).
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		summary = models.DailySummary{
			UserID:    userID,
			Date:      day,
			Totals:    n,
			MealCount: 1,
		}
		return config.DB.Create(&summary).Error
	}
	if err != nil {
		return err
	}

	summary.Totals = summary.Totals.Add(n)
	summary.MealCount++
	return config.DB.Save(&summary).Error
}

func (s *MealService) subtractFromSummary(userID string, at time.Time, n models.Nutrition) error {
	day := utils.DayStart(at)
	var summary models.DailySummary
	err := config.DB.
		Where("user_id = ? AND date = ?", userID, day).
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nothing to subtract from; the commit's summary write must have
		// failed. Leave it be.
		return nil
	}
	if err != nil {
		return err
	}

	summary.Totals = summary.Totals.SubFloor(n)
	if summary.MealCount > 0 {
		summary.MealCount--
	}
	return config.DB.Save(&summary).Error
}

func (s *MealService) diffSummary(userID string, at time.Time, before, after models.Nutrition) error {
	day := utils.DayStart(at)
	var summary models.DailySummary
	err := config.DB.
		Where("user_id = ? AND date = ?", userID, day).
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	summary.Totals = summary.Totals.Add(after.Sub(before))
	return config.DB.Save(&summary).Error
}
