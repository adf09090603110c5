package models

import (
	"time"

	"gorm.io/gorm"
)

// Access request lifecycle. Every state transition is stamped; records are
// never deleted so the history survives revocation and reinstatement.
const (
	AccessPending   = "pending"
	AccessApproved  = "approved"
	AccessDenied    = "denied"
	AccessRevoked   = "revoked"
	AccessReinstate = "reinstate_request"
)

type AccessRequest struct {
	gorm.Model
	UserID               string `gorm:"uniqueIndex;not null"` // Telegram user id
	DisplayName          string
	Username             string
	FirstName            string
	LastName             string
	Status               string `gorm:"size:24;index"`
	RequestedAt          time.Time
	ApprovedAt           *time.Time
	ApprovedBy           string `gorm:"size:32"`
	DeniedAt             *time.Time
	RevokedAt            *time.Time
	RevokedBy            string `gorm:"size:32"`
	ReinstateRequestedAt *time.Time
}
