package models

import (
	"time"

	"gorm.io/gorm"
)

// One confirmed meal entry. Nutrition is the final, post-portion snapshot.
type Meal struct {
	gorm.Model
	UserID          string    `gorm:"index;not null"` // Telegram user id
	Timestamp       time.Time `gorm:"index;not null"`
	InputKind       string    `gorm:"size:8"`    // "photo" | "text"
	InputRef        string    `gorm:"type:text"` // photo URL or the raw text
	FoodDescription string    `gorm:"type:text"`
	Nutrition       Nutrition `gorm:"embedded"`
	Confidence      string    `gorm:"size:16"` // high|medium|low|very_low
}
