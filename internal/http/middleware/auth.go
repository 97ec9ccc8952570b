package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/you/accountsvc/domain"
)

// SessionMW wraps the session service for middleware
type SessionMW struct {
	sessions domain.SessionService
}

// NewSessionMW creates new session middleware wrapper
func NewSessionMW(sessions domain.SessionService) *SessionMW {
	return &SessionMW{sessions: sessions}
}

// RequireSession returns the session gate middleware function
func (mw *SessionMW) RequireSession() gin.HandlerFunc {
	return SessionMiddleware(mw.sessions)
}
