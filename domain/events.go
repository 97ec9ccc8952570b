package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountEventType defines the type of account event
type AccountEventType string

const (
	UserRegisteredEvent   AccountEventType = "USER_REGISTERED"
	UserLoginEvent        AccountEventType = "USER_LOGIN"
	UserLoginFailureEvent AccountEventType = "USER_LOGIN_FAILED"
	UserLogoutEvent       AccountEventType = "USER_LOGOUT"
	AdminSeededEvent      AccountEventType = "ADMIN_SEEDED"
)

// AccountEvent represents a business event that occurred in the system
type AccountEvent struct {
	EventType AccountEventType  `json:"event_type"`
	UserID    uuid.UUID         `json:"user_id"`
	Username  string            `json:"username,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	ErrorMsg  string            `json:"error_msg,omitempty"`
	Success   bool              `json:"success"`
}

// NewAccountEvent creates a new account event with common fields populated
func NewAccountEvent(eventType AccountEventType, userID uuid.UUID, username string) *AccountEvent {
	return &AccountEvent{
		EventType: eventType,
		UserID:    userID,
		Username:  username,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]string),
		Success:   true,
	}
}

// WithError marks the event as failed
func (e *AccountEvent) WithError(err error) *AccountEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithMetadata adds metadata to the event
func (e *AccountEvent) WithMetadata(key, value string) *AccountEvent {
	e.Metadata[key] = value
	return e
}
