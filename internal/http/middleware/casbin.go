package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/accountsvc/domain"
)

// CasbinMW authorizes the role set by the session gate against the policy store
type CasbinMW struct {
	enforcer domain.PolicyEnforcer
	logger   *zap.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer domain.PolicyEnforcer, logger *zap.Logger) *CasbinMW {
	return &CasbinMW{enforcer: enforcer, logger: logger}
}

// Enforce returns the casbin authorization middleware. It must run after the session gate.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		role, ok := c.Get(ContextUserRole)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in session"})
			c.Abort()
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method

		// Policies are written against "role_<user type>" subjects.
		casbinRole := "role_" + role.(string)
		allowed, err := mw.enforcer.Enforce(casbinRole, path, method)
		if err != nil {
			mw.logger.Error("authorization check failed",
				zap.String("role", casbinRole),
				zap.String("path", path),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			c.Abort()
			return
		}

		if !allowed {
			mw.logger.Info("access denied",
				zap.String("user_id", c.GetString(ContextUserID)),
				zap.String("role", casbinRole),
				zap.String("method", method),
				zap.String("path", path))
			c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			c.Abort()
			return
		}

		c.Next()
	})
}
