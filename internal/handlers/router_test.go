package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"marketplace/internal/api"
	"marketplace/internal/auth"
	"marketplace/internal/database/dbtest"
	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/services"
)

type testServer struct {
	db         *gorm.DB
	router     *gin.Engine
	adminToken string
	userToken  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.InitJWT("handler-test-secret")

	db := dbtest.Open(t)
	repo := repository.NewRepository(db)
	router := NewRouter(Services{
		Listings:      services.NewListingService(repo, nil, nil),
		Verification:  services.NewVerificationService(repo, nil),
		Notifications: services.NewNotificationService(repo, nil),
	}, "", nil)

	adminToken, err := auth.GenerateToken(1, auth.RoleAdmin, time.Hour)
	require.NoError(t, err)
	userToken, err := auth.GenerateToken(2, auth.RoleUser, time.Hour)
	require.NoError(t, err)

	return &testServer{db: db, router: router, adminToken: adminToken, userToken: userToken}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProductsResource(t *testing.T) {
	s := newTestServer(t)
	seller := dbtest.SeedUser(t, s.db, "Anna", 4.8, true)

	w := s.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"seller_id": seller.ID, "title": "iPhone 13", "price": "65000", "category": "Electronics", "location": "Moscow",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// numeric price is accepted too
	w = s.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"seller_id": seller.ID, "title": "Sofa", "price": 28000, "category": "Furniture", "location": "Kazan",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"seller_id": seller.ID, "title": "Broken", "price": "abc", "category": "Furniture", "location": "Kazan",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp api.ErrorResponse
	decode(t, w, &errResp)
	assert.Contains(t, errResp.Error, "price")

	w = s.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list api.ListingsResponse
	decode(t, w, &list)
	assert.Len(t, list.Products, 2)

	w = s.do(t, http.MethodGet, "/api/products?min_price=30000", nil, "")
	decode(t, w, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "iPhone 13", list.Products[0].Title)

	w = s.do(t, http.MethodGet, "/api/products?min_price=oops&q=SOFA", nil, "")
	decode(t, w, &list)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Sofa", list.Products[0].Title)

	w = s.do(t, http.MethodGet, "/api/products/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/products/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/categories", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerificationResource(t *testing.T) {
	s := newTestServer(t)
	user := dbtest.SeedUser(t, s.db, "Anna", 4.8, false)

	submit := api.SubmitVerificationRequest{
		UserID: user.ID, Phone: "+7 900 000-00-00", Email: "anna@example.com",
		DocumentType: "passport", DocumentNumber: "4510 123456",
	}
	w := s.do(t, http.MethodPost, "/api/verification", submit, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created api.CreatedResponse
	decode(t, w, &created)

	w = s.do(t, http.MethodPost, "/api/verification", submit, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// the queue is admin only
	w = s.do(t, http.MethodGet, "/api/verification", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(t, http.MethodGet, "/api/verification", nil, s.userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/verification", nil, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var queue api.VerificationListResponse
	decode(t, w, &queue)
	require.Len(t, queue.Requests, 1)
	assert.Equal(t, "Anna", queue.Requests[0].UserName)

	// per-user status is public
	w = s.do(t, http.MethodGet, "/api/verification?user_id=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var status api.VerificationStatus
	decode(t, w, &status)
	assert.Equal(t, api.StatusPending, status.Status)

	reject := api.DecisionRequest{RequestID: created.ID, Action: api.ActionReject}
	w = s.do(t, http.MethodPut, "/api/verification", reject, s.adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	approve := api.DecisionRequest{RequestID: created.ID, Action: api.ActionApprove}
	w = s.do(t, http.MethodPut, "/api/verification", approve, s.userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, "/api/verification", approve, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var decision api.DecisionResponse
	decode(t, w, &decision)
	assert.True(t, decision.Notified)
	assert.Equal(t, api.StatusApproved, decision.Request.Status)

	w = s.do(t, http.MethodPut, "/api/verification", approve, s.adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	var notifications int64
	require.NoError(t, s.db.Model(&models.Notification{}).Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications)

	w = s.do(t, http.MethodGet, "/api/admin/verification/stats", nil, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var counts map[string]int64
	decode(t, w, &counts)
	assert.Equal(t, int64(1), counts[api.StatusApproved])
}

func TestNotificationsResource(t *testing.T) {
	s := newTestServer(t)
	user := dbtest.SeedUser(t, s.db, "Anna", 4.8, false)

	create := api.CreateNotificationRequest{UserID: user.ID, Type: "promo", Title: "Hi", Message: "Welcome", DedupeKey: "welcome:1"}
	w := s.do(t, http.MethodPost, "/api/notifications", create, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/notifications", create, s.adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first api.CreatedResponse
	decode(t, w, &first)

	w = s.do(t, http.MethodPost, "/api/notifications", create, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var replay api.CreatedResponse
	decode(t, w, &replay)
	assert.Equal(t, first.ID, replay.ID)

	w = s.do(t, http.MethodGet, "/api/notifications", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/notifications?user_id=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list api.NotificationsResponse
	decode(t, w, &list)
	assert.Equal(t, 1, list.UnreadCount)

	for i := 0; i < 2; i++ {
		w = s.do(t, http.MethodPut, "/api/notifications", api.MarkReadRequest{NotificationID: first.ID}, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/notifications?user_id=1", nil, "")
	decode(t, w, &list)
	assert.Equal(t, 0, list.UnreadCount)
	assert.True(t, list.Notifications[0].IsRead)

	w = s.do(t, http.MethodPut, "/api/notifications", api.MarkReadRequest{NotificationID: 555}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
