package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// authenticate validates the bearer token and stores its claims in the
// context. On failure it aborts the request and returns false.
func authenticate(c *gin.Context) bool {
	if _, ok := c.Get("user_id"); ok {
		return true
	}

	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Authorization header required",
		})
		return false
	}

	// Extract token from "Bearer <token>" format
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid authorization header format. Expected: Bearer <token>",
		})
		return false
	}

	claims, err := ValidateToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired token",
		})
		return false
	}

	// Set user information in context
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	return true
}

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// AdminOnly rejects requests whose token does not carry the admin role
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !RequireAdmin(c) {
			return
		}
		c.Next()
	}
}

// RequireAdmin authenticates the request and checks for the admin role. It
// writes the error response itself and returns false when access is denied.
func RequireAdmin(c *gin.Context) bool {
	if !authenticate(c) {
		return false
	}
	if role, _ := c.Get("role"); role != RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return false
	}
	return true
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}
