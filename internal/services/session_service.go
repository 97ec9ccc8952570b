package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/metrics"
)

// DefaultSessionTTL is how long a login stays valid
const DefaultSessionTTL = time.Hour

// SessionServiceImpl implements domain.SessionService on top of the account
// service and the in-process session store.
type SessionServiceImpl struct {
	accounts  domain.AccountService
	store     domain.SessionStore
	publisher domain.EventPublisher
	metrics   *metrics.AccountMetrics
	logger    *zap.Logger
	clock     clockwork.Clock
	ttl       time.Duration

	// serializes the one-session-per-user check with the insert
	loginMu sync.Mutex
}

// NewSessionService creates a new session service. A non-positive ttl selects DefaultSessionTTL.
func NewSessionService(
	accounts domain.AccountService,
	store domain.SessionStore,
	publisher domain.EventPublisher,
	m *metrics.AccountMetrics,
	logger *zap.Logger,
	clock clockwork.Clock,
	ttl time.Duration,
) *SessionServiceImpl {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionServiceImpl{
		accounts:  accounts,
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		clock:     clock,
		ttl:       ttl,
	}
}

// Login implements domain.SessionService
func (s *SessionServiceImpl) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	user, err := s.accounts.ValidateCredentials(ctx, username, password)
	if err != nil {
		s.metrics.Logins.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("failed to validate credentials: %w", err)
	}
	if user == nil {
		s.metrics.Logins.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.logger.Info("login rejected", zap.String("username", username))
		s.publish(ctx, domain.NewAccountEvent(domain.UserLoginFailureEvent, uuid.Nil, username).
			WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	if existing, ok := s.activeSessionFor(user.ID); ok {
		s.metrics.Logins.WithLabelValues(metrics.OutcomeDenied).Inc()
		return nil, &domain.ActiveSessionError{ExpiresAt: existing.ExpiresAt}
	}

	result := &domain.LoginResult{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.clock.Now().Add(s.ttl),
		ExpiresIn: s.ttl,
	}
	s.store.AddSession(result.Token, result.UserID, result.ExpiresAt)

	s.metrics.Logins.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Time("expires_at", result.ExpiresAt))
	s.publish(ctx, domain.NewAccountEvent(domain.UserLoginEvent, user.ID, user.Username))

	return result, nil
}

// activeSessionFor returns the live session of userID, if any
func (s *SessionServiceImpl) activeSessionFor(userID uuid.UUID) (domain.Session, bool) {
	now := s.clock.Now()
	for _, session := range s.store.GetAllSessions() {
		if session.UserID == userID && !session.Expired(now) {
			return session, true
		}
	}
	return domain.Session{}, false
}

// Logout implements domain.SessionService. ErrSessionNotFound is returned
// when the token is unknown, blank or already expired.
func (s *SessionServiceImpl) Logout(ctx context.Context, token string) error {
	session, live := s.store.TryGetSession(token)
	if !s.store.RemoveSession(token) {
		s.metrics.Logouts.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return domain.ErrSessionNotFound
	}

	s.metrics.Logouts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	if live {
		s.logger.Info("user logged out", zap.String("user_id", session.UserID.String()))
		s.publish(ctx, domain.NewAccountEvent(domain.UserLogoutEvent, session.UserID, ""))
	}
	return nil
}

// WhoAmI implements domain.SessionService
func (s *SessionServiceImpl) WhoAmI(ctx context.Context, token string) (*domain.Identity, error) {
	session, ok := s.store.TryGetSession(token)
	if !ok {
		return nil, domain.ErrInvalidSession
	}

	user, err := s.accounts.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to resolve session owner: %w", err)
	}

	return &domain.Identity{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.UserTypeID.String(),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *SessionServiceImpl) publish(ctx context.Context, event *domain.AccountEvent) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to publish account event",
			zap.String("event_type", string(event.EventType)),
			zap.Error(err))
	}
}

var _ domain.SessionService = (*SessionServiceImpl)(nil)
