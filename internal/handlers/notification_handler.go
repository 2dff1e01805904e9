package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace/internal/api"
	"marketplace/internal/logging"
	"marketplace/internal/services"
)

type NotificationHandler struct {
	service *services.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service *services.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, log: logging.OrNop(log)}
}

// GetNotifications returns a user's notifications and unread count
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 32)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user_id is required"})
		return
	}

	resp, err := h.service.List(c.Request.Context(), uint(userID))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateNotification stores a notification (admin only). Replays with the
// same dedupe_key answer 200 with the existing id instead of 201.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req api.CreateNotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	id, created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, api.CreatedResponse{ID: id, Message: "Notification stored"})
}

// MarkRead flags a notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	var req api.MarkReadRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), req.NotificationID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
