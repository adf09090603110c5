package models

import (
	"time"

	"gorm.io/gorm"
)

// User profile for an approved user. Created (or refreshed) when access is
// approved and touched on /start. Kept on revocation for data retention.
type User struct {
	gorm.Model
	TelegramID string `gorm:"uniqueIndex;not null"`
	Username   string
	FirstName  string
	LastName   string
	LastActive time.Time
}
