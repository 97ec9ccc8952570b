package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/accountsvc/domain"
)

// Keys set on the gin context for authenticated requests
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextUserRole = "user_role"
	ContextToken    = "token"
	ContextIdentity = "identity"
)

var (
	ErrMissingBearer   = errors.New("authorization header required")
	ErrMalformedBearer = errors.New("invalid authorization header format")
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingBearer
	}

	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
		return "", ErrMalformedBearer
	}
	token := strings.TrimSpace(tokenParts[1])
	if token == "" {
		return "", ErrMalformedBearer
	}
	return token, nil
}

// SessionMiddleware resolves the bearer token to an identity and rejects the
// request before it reaches the handler when that fails.
func SessionMiddleware(sessions domain.SessionService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		token, err := BearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		identity, err := sessions.WhoAmI(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
			} else {
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Session lookup failed"})
			}
			c.Abort()
			return
		}

		c.Set(ContextUserID, identity.UserID.String())
		c.Set(ContextUsername, identity.Username)
		c.Set(ContextUserRole, identity.Role)
		c.Set(ContextToken, identity.Token)
		c.Set(ContextIdentity, identity)

		c.Next()
	})
}

// IdentityFrom returns the identity stored by SessionMiddleware
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*domain.Identity)
	return identity, ok
}
