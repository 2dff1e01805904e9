package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketplace/internal/api"
)

// respondError maps service errors onto HTTP statuses and the
// {"error": "..."} body every resource uses.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		validation *api.ValidationError
		conflict   *api.ConflictError
		notFound   *api.NotFoundError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: validation.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: conflict.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: notFound.Error()})
	default:
		log.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}

// bindJSON decodes the request body, replying 400 on malformed JSON
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid JSON body: " + err.Error()})
		return false
	}
	return true
}
