package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace/internal/api"
	"marketplace/internal/auth"
	"marketplace/internal/logging"
	"marketplace/internal/services"
)

type VerificationHandler struct {
	service *services.VerificationService
	log     *zap.Logger
}

func NewVerificationHandler(service *services.VerificationService, log *zap.Logger) *VerificationHandler {
	return &VerificationHandler{service: service, log: logging.OrNop(log)}
}

// Get returns the caller's verification status when user_id is given,
// otherwise the moderation queue (admin only). The queue defaults to pending
// requests; ?status= selects another status, ?status=all every request.
func (h *VerificationHandler) Get(c *gin.Context) {
	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid user_id"})
			return
		}

		status, err := h.service.StatusForUser(c.Request.Context(), uint(userID))
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, status)
		return
	}

	if !auth.RequireAdmin(c) {
		return
	}

	status := c.DefaultQuery("status", api.StatusPending)
	if status == "all" {
		status = ""
	}

	requests, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, api.VerificationListResponse{Requests: requests})
}

// Submit files a verification request
func (h *VerificationHandler) Submit(c *gin.Context) {
	var req api.SubmitVerificationRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, api.CreatedResponse{ID: id, Message: "Verification request submitted"})
}

// Decide approves or rejects a pending request (admin only)
func (h *VerificationHandler) Decide(c *gin.Context) {
	var req api.DecisionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetStats returns request counts per status (admin only)
func (h *VerificationHandler) GetStats(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
