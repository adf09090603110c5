package models

import (
	"time"

	"gorm.io/gorm"
)

// DailySummary is the per-user, per-date running total across all saved
// meals. It is maintained incrementally (add on save, subtract on delete,
// diff on edit) rather than recomputed. A row with MealCount == 0 means
// the same as no row at all.
type DailySummary struct {
	gorm.Model
	UserID    string    `gorm:"uniqueIndex:idx_summary_user_date;not null"`
	Date      time.Time `gorm:"uniqueIndex:idx_summary_user_date;not null"` // local midnight
	Totals    Nutrition `gorm:"embedded;embeddedPrefix:total_"`
	MealCount int
}
