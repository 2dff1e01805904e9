package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"marketplace/internal/api"
	"marketplace/internal/database/dbtest"
	"marketplace/internal/models"
	"marketplace/internal/repository"
)

func submitRequest(userID uint) api.SubmitVerificationRequest {
	return api.SubmitVerificationRequest{
		UserID:         userID,
		Phone:          "+7 900 000-00-00",
		Email:          "seller@example.com",
		DocumentType:   "passport",
		DocumentNumber: "4510 123456",
	}
}

func countNotifications(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func TestSubmitVerification(t *testing.T) {
	db := dbtest.Open(t)
	user := dbtest.SeedUser(t, db, "Anna", 4.8, false)
	service := NewVerificationService(repository.NewRepository(db), nil)
	ctx := context.Background()

	id, err := service.Submit(ctx, submitRequest(user.ID))
	require.NoError(t, err)
	require.NotZero(t, id)

	status, err := service.StatusForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, api.StatusPending, status.Status)
	assert.Equal(t, "Anna", status.UserName)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, "seller@example.com", stored.Email)

	// a second pending request is refused
	_, err = service.Submit(ctx, submitRequest(user.ID))
	assert.True(t, api.IsConflict(err), "expected conflict, got %v", err)
}

func TestSubmitVerificationValidation(t *testing.T) {
	db := dbtest.Open(t)
	user := dbtest.SeedUser(t, db, "Anna", 4.8, false)
	service := NewVerificationService(repository.NewRepository(db), nil)

	req := submitRequest(user.ID)
	req.DocumentNumber = "   "
	_, err := service.Submit(context.Background(), req)
	assert.True(t, api.IsValidation(err))

	_, err = service.Submit(context.Background(), submitRequest(999))
	assert.True(t, api.IsNotFound(err))
}

func TestStatusForUserWithoutRequest(t *testing.T) {
	db := dbtest.Open(t)
	user := dbtest.SeedUser(t, db, "Boris", 4.1, false)
	service := NewVerificationService(repository.NewRepository(db), nil)

	status, err := service.StatusForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, api.StatusNone, status.Status)
	assert.False(t, status.Verified)

	_, err = service.StatusForUser(context.Background(), 404)
	assert.True(t, api.IsNotFound(err))
}

func TestApproveVerification(t *testing.T) {
	db := dbtest.Open(t)
	user := dbtest.SeedUser(t, db, "Anna", 4.8, false)
	require.NoError(t, db.Create(&models.Product{Title: "Sofa", Price: 28000, Category: "Furniture", SellerID: user.ID}).Error)

	service := NewVerificationService(repository.NewRepository(db), nil)
	ctx := context.Background()

	id, err := service.Submit(ctx, submitRequest(user.ID))
	require.NoError(t, err)

	resp, err := service.Approve(ctx, id)
	require.NoError(t, err)
	assert.True(t, resp.Notified)
	assert.NotZero(t, resp.NotificationID)
	assert.Equal(t, api.StatusApproved, resp.Request.Status)
	assert.NotNil(t, resp.Request.ReviewedAt)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.True(t, stored.Verified)
	assert.Equal(t, models.VerificationLevelVerified, stored.VerificationLevel)

	var product models.Product
	require.NoError(t, db.Where("seller_id = ?", user.ID).First(&product).Error)
	assert.True(t, product.VerifiedSeller)

	var n models.Notification
	require.NoError(t, db.First(&n, resp.NotificationID).Error)
	assert.Equal(t, api.NotificationVerificationApproved, n.Type)
	assert.Equal(t, user.ID, n.UserID)
	assert.False(t, n.IsRead)
}

func TestApproveDecidedRequestConflictsWithoutNotification(t *testing.T) {
	db := dbtest.Open(t)
	user := dbtest.SeedUser(t, db, "Anna", 4.8, false)
	service := NewVerificationService(repository.NewRepository(db), nil)
	ctx := context.Background()

	id, err := service.Submit(ctx, submitRequest(user.ID))
	require.NoError(t, err)
	_, err = service.Reject(ctx, id, "blurry document photo")
	require.NoError(t, err)
	require.Equal(t, int64(1), countNotifications(t, db, user.ID))

	_, err = service.Approve(ctx, id)
	var conflict *api.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, id, conflict.ID)
	assert.Equal(t, int64(1), countNotifications(t, db, user.ID))

	// replaying the same decision is also a conflict
	_, err = service.Reject(ctx, id, "again")
	assert.True(t, api.IsConflict(err))
	assert.Equal(t, int64(1), countNotifications(t, db, user.ID))
}

func TestRejectVerification(t *testing.T) {
	db := dbtest.Open(t)
	user := dbtest.SeedUser(t, db, "Anna", 4.8, false)
	service := NewVerificationService(repository.NewRepository(db), nil)
	ctx := context.Background()

	id, err := service.Submit(ctx, submitRequest(user.ID))
	require.NoError(t, err)

	resp, err := service.Reject(ctx, id, "  document expired ")
	require.NoError(t, err)
	assert.Equal(t, api.StatusRejected, resp.Request.Status)
	assert.Equal(t, "document expired", resp.Request.RejectionReason)

	var n models.Notification
	require.NoError(t, db.First(&n, resp.NotificationID).Error)
	assert.Equal(t, api.NotificationVerificationRejected, n.Type)
	assert.Contains(t, n.Message, "document expired")

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.False(t, stored.Verified)

	// rejected users may apply again
	_, err = service.Submit(ctx, submitRequest(user.ID))
	require.NoError(t, err)
}

func TestRejectRequiresReason(t *testing.T) {
	db := dbtest.Open(t)
	user := dbtest.SeedUser(t, db, "Anna", 4.8, false)
	service := NewVerificationService(repository.NewRepository(db), nil)
	ctx := context.Background()

	id, err := service.Submit(ctx, submitRequest(user.ID))
	require.NoError(t, err)

	_, err = service.Reject(ctx, id, " \t ")
	assert.True(t, api.IsValidation(err))

	status, err := service.StatusForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, api.StatusPending, status.Status)
	assert.Zero(t, countNotifications(t, db, user.ID))
}

func TestDecideUnknownRequest(t *testing.T) {
	db := dbtest.Open(t)
	service := NewVerificationService(repository.NewRepository(db), nil)

	_, err := service.Decide(context.Background(), api.DecisionRequest{RequestID: 42, Action: api.ActionApprove})
	assert.True(t, api.IsNotFound(err))

	_, err = service.Decide(context.Background(), api.DecisionRequest{RequestID: 42, Action: "escalate"})
	assert.True(t, api.IsValidation(err))
}

func TestListPendingAndCounts(t *testing.T) {
	db := dbtest.Open(t)
	anna := dbtest.SeedUser(t, db, "Anna", 4.8, false)
	boris := dbtest.SeedUser(t, db, "Boris", 3.9, false)
	clara := dbtest.SeedUser(t, db, "Clara", 5.0, false)
	service := NewVerificationService(repository.NewRepository(db), nil)
	ctx := context.Background()

	first, err := service.Submit(ctx, submitRequest(anna.ID))
	require.NoError(t, err)
	second, err := service.Submit(ctx, submitRequest(boris.ID))
	require.NoError(t, err)
	third, err := service.Submit(ctx, submitRequest(clara.ID))
	require.NoError(t, err)

	_, err = service.Approve(ctx, second)
	require.NoError(t, err)

	pending, err := service.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first, pending[0].ID)
	assert.Equal(t, "Anna", pending[0].UserName)
	assert.InDelta(t, 4.8, pending[0].UserRating, 0.001)
	assert.Equal(t, third, pending[1].ID)

	counts, err := service.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[api.StatusPending])
	assert.Equal(t, int64(1), counts[api.StatusApproved])
	assert.Equal(t, int64(0), counts[api.StatusRejected])

	_, err = service.List(ctx, "archived")
	assert.True(t, api.IsValidation(err))
}
