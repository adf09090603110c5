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

// UserProfile is the identity snapshot a transport hands in with an
// access request.
type UserProfile struct {
	UserID    string
	Username  string
	FirstName string
	LastName  string
}

// DisplayName renders "First Last (@username)", falling back to "Unknown"
// when no name is set.
func (p UserProfile) DisplayName() string {
	name := ""
	if p.FirstName != "" {
		name = p.FirstName
	}
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	if name == "" {
		name = "Unknown"
	}
	if p.Username != "" {
		name += " (@" + p.Username + ")"
	}
	return name
}

// AccessService owns the request/approve/revoke lifecycle. Admin identity
// is a fixed allow-list in config, separate from this state machine.
type AccessService struct{}

func NewAccessService() *AccessService {
	return &AccessService{}
}

// RequestAccess creates a pending request for a user with no live record.
// Approved users and users with an open request are rejected with the
// matching sentinel. Revoked users must go through RequestReinstatement.
// A denied user may file a brand-new request.
func (s *AccessService) RequestAccess(profile UserProfile) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := config.DB.Where("user_id = ?", profile.UserID).First(&req).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		switch req.Status {
		case models.AccessApproved:
			return nil, ErrAlreadyApproved
		case models.AccessPending, models.AccessReinstate:
			return nil, ErrRequestExists
		case models.AccessRevoked:
			return nil, ErrAccessRevoked
		}
		// Denied: reset the existing row to a fresh pending request.
		req.Status = models.AccessPending
		req.DisplayName = profile.DisplayName()
		req.Username = profile.Username
		req.FirstName = profile.FirstName
		req.LastName = profile.LastName
		req.RequestedAt = time.Now()
		req.ApprovedAt = nil
		req.ApprovedBy = ""
		req.DeniedAt = nil
		req.RevokedAt = nil
		req.RevokedBy = ""
		req.ReinstateRequestedAt = nil
		if err := config.DB.Save(&req).Error; err != nil {
			return nil, err
		}
	} else {
		req = models.AccessRequest{
			UserID:      profile.UserID,
			DisplayName: profile.DisplayName(),
			Username:    profile.Username,
			FirstName:   profile.FirstName,
			LastName:    profile.LastName,
			Status:      models.AccessPending,
			RequestedAt: time.Now(),
		}
		if err := config.DB.Create(&req).Error; err != nil {
			return nil, err
		}
	}

	if err := utils.NotifyAccessRequest(req.DisplayName, req.UserID); err != nil {
		log.Printf("access request mail failed for user %s: %v", req.UserID, err)
	}
	EmitEvent(req.UserID, "access.requested", &req)
	return &req, nil
}

// RequestReinstatement is the entry point for a revoked user. Any other
// state fails with ErrNotRevoked.
func (s *AccessService) RequestReinstatement(userID string) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := config.DB.Where("user_id = ?", userID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotRevoked
	}
	if err != nil {
		return nil, err
	}
	if req.Status != models.AccessRevoked {
		return nil, ErrNotRevoked
	}

	now := time.Now()
	req.Status = models.AccessReinstate
	req.ReinstateRequestedAt = &now
	if err := config.DB.Save(&req).Error; err != nil {
		return nil, err
	}

	if err := utils.NotifyAccessRequest(req.DisplayName, req.UserID); err != nil {
		log.Printf("reinstatement mail failed for user %s: %v", req.UserID, err)
	}
	EmitEvent(req.UserID, "access.reinstate_requested", &req)
	return &req, nil
}

// Approve grants access from pending or reinstate_request and upserts the
// durable user profile. An existing profile keeps its original creation
// time, only the identity fields are refreshed.
func (s *AccessService) Approve(userID, actorID string, profile UserProfile) error {
	var req models.AccessRequest
	err := config.DB.Where("user_id = ?", userID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoRequest
	}
	if err != nil {
		return err
	}
	if req.Status != models.AccessPending && req.Status != models.AccessReinstate {
		return ErrNoRequest
	}

	now := time.Now()
	req.Status = models.AccessApproved
	req.ApprovedAt = &now
	req.ApprovedBy = actorID
	req.DeniedAt = nil
	req.RevokedAt = nil
	req.RevokedBy = ""
	if err := config.DB.Save(&req).Error; err != nil {
		return err
	}

	// Fall back to the identity captured at request time when the caller
	// approves by id alone.
	if profile.Username == "" {
		profile.Username = req.Username
	}
	if profile.FirstName == "" {
		profile.FirstName = req.FirstName
	}
	if profile.LastName == "" {
		profile.LastName = req.LastName
	}

	var user models.User
	err = config.DB.Where("telegram_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			TelegramID: userID,
			Username:   profile.Username,
			FirstName:  profile.FirstName,
			LastName:   profile.LastName,
			LastActive: now,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else {
		// Empty profile fields (admin approving by id alone) keep the
		// stored values.
		if profile.Username != "" {
			user.Username = profile.Username
		}
		if profile.FirstName != "" {
			user.FirstName = profile.FirstName
		}
		if profile.LastName != "" {
			user.LastName = profile.LastName
		}
		user.LastActive = now
		if err := config.DB.Save(&user).Error; err != nil {
			return err
		}
	}

	EmitEvent(userID, "access.approved", &req)
	return nil
}

// Deny rejects a pending or reinstate request.
func (s *AccessService) Deny(userID string) error {
	var req models.AccessRequest
	err := config.DB.Where("user_id = ?", userID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoRequest
	}
	if err != nil {
		return err
	}
	if req.Status != models.AccessPending && req.Status != models.AccessReinstate {
		return ErrNoRequest
	}

	now := time.Now()
	req.Status = models.AccessDenied
	req.DeniedAt = &now
	if err := config.DB.Save(&req).Error; err != nil {
		return err
	}
	EmitEvent(userID, "access.denied", &req)
	return nil
}

// Revoke withdraws access from an approved user. The user profile row is
// kept for data retention.
func (s *AccessService) Revoke(userID, actorID string) error {
	var req models.AccessRequest
	err := config.DB.Where("user_id = ?", userID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoRequest
	}
	if err != nil {
		return err
	}
	if req.Status != models.AccessApproved {
		return ErrNoRequest
	}

	now := time.Now()
	req.Status = models.AccessRevoked
	req.RevokedAt = &now
	req.RevokedBy = actorID
	if err := config.DB.Save(&req).Error; err != nil {
		return err
	}
	EmitEvent(userID, "access.revoked", &req)
	return nil
}

// IsAuthorized reads the stored status on every call. There is no cache:
// a revocation takes effect on the user's very next action.
func (s *AccessService) IsAuthorized(userID string) (bool, error) {
	var req models.AccessRequest
	err := config.DB.Where("user_id = ?", userID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return req.Status == models.AccessApproved, nil
}

// Status returns the raw request record, or nil when the user has none.
func (s *AccessService) Status(userID string) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := config.DB.Where("user_id = ?", userID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListOpenRequests returns requests awaiting an admin decision, oldest
// first.
func (s *AccessService) ListOpenRequests() ([]models.AccessRequest, error) {
	var reqs []models.AccessRequest
	err := config.DB.
		Where("status IN ?", []string{models.AccessPending, models.AccessReinstate}).
		Order("requested_at ASC").
		Find(&reqs).Error
	return reqs, err
}

// ListApproved returns all currently authorized users.
func (s *AccessService) ListApproved() ([]models.AccessRequest, error) {
	var reqs []models.AccessRequest
	err := config.DB.
		Where("status = ?", models.AccessApproved).
		Order("approved_at ASC").
		Find(&reqs).Error
	return reqs, err
}

// TouchUser updates the profile's last-active timestamp, ignoring users
// without a stored profile.
func (s *AccessService) TouchUser(userID string) {
	config.DB.Model(&models.User{}).
		Where("telegram_id = ?", userID).
		Update("last_active", time.Now())
}
