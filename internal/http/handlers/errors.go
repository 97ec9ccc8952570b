package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/accountsvc/domain"
)

// writeError maps a service error onto a status code and JSON body.
// Conflicts are checked first because a failed unit of work may wrap one.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *domain.ValidationError
	var active *domain.ActiveSessionError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": verr.Violations})
	case errors.As(err, &active):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "User already has an active session",
			"expires_at": active.ExpiresAt.UTC().Format(time.RFC3339),
		})
	case errors.Is(err, domain.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Username is already taken"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrInvalidSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
