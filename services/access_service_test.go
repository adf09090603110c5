package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngfenglong/JiakAIBot/models"
)

func testProfile() UserProfile {
	return UserProfile{
		UserID:    "100",
		Username:  "jiakfan",
		FirstName: "Wei",
		LastName:  "Tan",
	}
}

func TestDisplayNameFormatting(t *testing.T) {
	assert.Equal(t, "Wei Tan (@jiakfan)", testProfile().DisplayName())
	assert.Equal(t, "Wei", UserProfile{FirstName: "Wei"}.DisplayName())
	assert.Equal(t, "Unknown (@ghost)", UserProfile{Username: "ghost"}.DisplayName())
	assert.Equal(t, "Unknown", UserProfile{}.DisplayName())
}

func TestRequestApproveLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService()

	req, err := svc.RequestAccess(testProfile())
	require.NoError(t, err)
	assert.Equal(t, models.AccessPending, req.Status)
	assert.Equal(t, "Wei Tan (@jiakfan)", req.DisplayName)

	ok, err := svc.IsAuthorized("100")
	require.NoError(t, err)
	assert.False(t, ok, "pending is not authorized")

	// Duplicate request while pending.
	_, err = svc.RequestAccess(testProfile())
	assert.ErrorIs(t, err, ErrRequestExists)

	require.NoError(t, svc.Approve("100", "999", testProfile()))

	ok, err = svc.IsAuthorized("100")
	require.NoError(t, err)
	assert.True(t, ok)

	// Approval creates the durable user profile.
	var user models.User
	require.NoError(t, db.Where("telegram_id = ?", "100").First(&user).Error)
	assert.Equal(t, "Wei", user.FirstName)

	// Requesting again once approved.
	_, err = svc.RequestAccess(testProfile())
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestDenyAllowsFreshRequest(t *testing.T) {
	setupTestDB(t)
	svc := NewAccessService()

	_, err := svc.RequestAccess(testProfile())
	require.NoError(t, err)
	require.NoError(t, svc.Deny("100"))

	ok, _ := svc.IsAuthorized("100")
	assert.False(t, ok)

	// A denied user may file a brand-new request.
	req, err := svc.RequestAccess(testProfile())
	require.NoError(t, err)
	assert.Equal(t, models.AccessPending, req.Status)
	assert.Nil(t, req.DeniedAt)
}

func TestRevokeAndReinstate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAccessService()

	_, err := svc.RequestAccess(testProfile())
	require.NoError(t, err)
	require.NoError(t, svc.Approve("100", "999", testProfile()))
	require.NoError(t, svc.Revoke("100", "999"))

	ok, _ := svc.IsAuthorized("100")
	assert.False(t, ok, "revocation takes effect on the next check")

	// The user profile row is retained.
	var user models.User
	require.NoError(t, db.Where("telegram_id = ?", "100").First(&user).Error)
	originalCreated := user.CreatedAt

	// A revoked user must use the reinstatement path.
	_, err = svc.RequestAccess(testProfile())
	assert.ErrorIs(t, err, ErrAccessRevoked)

	req, err := svc.RequestReinstatement("100")
	require.NoError(t, err)
	assert.Equal(t, models.AccessReinstate, req.Status)
	require.NotNil(t, req.ReinstateRequestedAt)

	// Reinstatement approval behaves like a fresh approval and keeps the
	// user's original creation time.
	require.NoError(t, svc.Approve("100", "999", testProfile()))
	ok, _ = svc.IsAuthorized("100")
	assert.True(t, ok)

	require.NoError(t, db.Where("telegram_id = ?", "100").First(&user).Error)
	assert.WithinDuration(t, originalCreated, user.CreatedAt, 0)
}

func TestReinstatementRequiresRevokedState(t *testing.T) {
	setupTestDB(t)
	svc := NewAccessService()

	_, err := svc.RequestReinstatement("100")
	assert.ErrorIs(t, err, ErrNotRevoked)

	_, err = svc.RequestAccess(testProfile())
	require.NoError(t, err)
	_, err = svc.RequestReinstatement("100")
	assert.ErrorIs(t, err, ErrNotRevoked)
}

func TestApproveRequiresOpenRequest(t *testing.T) {
	setupTestDB(t)
	svc := NewAccessService()

	assert.ErrorIs(t, svc.Approve("100", "999", testProfile()), ErrNoRequest)
	assert.ErrorIs(t, svc.Deny("100"), ErrNoRequest)
	assert.ErrorIs(t, svc.Revoke("100", "999"), ErrNoRequest)

	_, err := svc.RequestAccess(testProfile())
	require.NoError(t, err)
	require.NoError(t, svc.Approve("100", "999", testProfile()))

	// Approving twice.
	assert.ErrorIs(t, svc.Approve("100", "999", testProfile()), ErrNoRequest)
}

func TestIsAuthorizedUnknownUser(t *testing.T) {
	setupTestDB(t)
	svc := NewAccessService()

	ok, err := svc.IsAuthorized("nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListOpenRequests(t *testing.T) {
	setupTestDB(t)
	svc := NewAccessService()

	_, err := svc.RequestAccess(testProfile())
	require.NoError(t, err)
	_, err = svc.RequestAccess(UserProfile{UserID: "200", FirstName: "Mei"})
	require.NoError(t, err)
	require.NoError(t, svc.Approve("200", "999", UserProfile{UserID: "200"}))

	open, err := svc.ListOpenRequests()
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "100", open[0].UserID)

	approved, err := svc.ListApproved()
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "200", approved[0].UserID)
}
