package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/http/middleware"
)

// AccountHandlers handles account and session HTTP requests
type AccountHandlers struct {
	accounts domain.AccountService
	sessions domain.SessionService
	logger   *zap.Logger
}

// NewAccountHandlers creates new account handlers
func NewAccountHandlers(accounts domain.AccountService, sessions domain.SessionService, logger *zap.Logger) *AccountHandlers {
	return &AccountHandlers{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
	}
}

// CreateUserRequest represents a registration request.
// Field rules are enforced by the account service so every violation is reported at once.
type CreateUserRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	UserTypeID   int    `json:"user_type_id"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	StreetNumber int    `json:"street_number"`
	StreetName   string `json:"street_name"`
	PostalCode   int    `json:"postal_code"`
	City         string `json:"city"`
}

func (r CreateUserRequest) command() domain.CreateUserCommand {
	return domain.CreateUserCommand{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Username:     r.Username,
		Password:     r.Password,
		UserTypeID:   domain.UserTypeID(r.UserTypeID),
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		StreetNumber: r.StreetNumber,
		StreetName:   r.StreetName,
		PostalCode:   r.PostalCode,
		City:         r.City,
	}
}

// LoginRequest represents login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUser handles public registration. Admin accounts cannot be created here.
func (h *AccountHandlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.accounts.CreateUser(c.Request.Context(), req.command(), false, false)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message": "User created successfully",
			"user_id": userID,
		},
	})
}

// CreateAdmin handles admin creation by an authenticated admin
func (h *AccountHandlers) CreateAdmin(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	callerIsAdmin := c.GetString(middleware.ContextUserRole) == domain.UserTypeAdmin.String()
	userID, err := h.accounts.CreateAdminUser(c.Request.Context(), req.command(), callerIsAdmin)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message": "Admin user created successfully",
			"user_id": userID,
		},
	})
}

// Login handles user login
func (h *AccountHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"token":      result.Token,
			"token_type": "Bearer",
			"user_id":    result.UserID,
			"expires_at": result.ExpiresAt.UTC().Format(time.RFC3339),
			"expires_in": int64(result.ExpiresIn.Seconds()),
		},
	})
}

// Logout handles user logout. The bearer token is read directly so that an
// expired token yields 404 instead of being rejected by the session gate.
func (h *AccountHandlers) Logout(c *gin.Context) {
	token, err := middleware.BearerToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}

// Me returns the identity resolved by the session gate
func (h *AccountHandlers) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user_id":    identity.UserID,
			"username":   identity.Username,
			"role":       identity.Role,
			"token":      identity.Token,
			"expires_at": identity.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}

// SeedAdmin seeds the bootstrap admin. A bearer token is optional, but when
// present it must belong to an admin.
func (h *AccountHandlers) SeedAdmin(c *gin.Context) {
	token, err := middleware.BearerToken(c)
	if err != nil && !errors.Is(err, middleware.ErrMissingBearer) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.SeedAdminUser(c.Request.Context(), token); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Admin account is in place",
		},
	})
}

// CountUsers returns the number of registered users
func (h *AccountHandlers) CountUsers(c *gin.Context) {
	count, err := h.accounts.CountUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"count": count,
		},
	})
}
