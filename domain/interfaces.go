package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines user data access operations
type UserRepository interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	// GetUserByUsername loads the user together with its login information.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	AdminAccountExists(ctx context.Context) (bool, error)
	AddUser(ctx context.Context, user *User) error
	CountUsers(ctx context.Context) (int64, error)
}

// CityRepository resolves cities by postal code
type CityRepository interface {
	GetOrCreateCity(ctx context.Context, postalCode int, name string) (*City, error)
}

// AddressRepository resolves addresses by street and city
type AddressRepository interface {
	GetOrCreateAddress(ctx context.Context, address *Address) (*Address, error)
}

// ContactInfoRepository stores contact information
type ContactInfoRepository interface {
	AddContactInfo(ctx context.Context, info *ContactInfo) error
}

// LoginInfoRepository stores credentials
type LoginInfoRepository interface {
	AddLoginInfo(ctx context.Context, info *LoginInformation) error
}

// UserTypeRepository manages the user type lookup table
type UserTypeRepository interface {
	EnsureDefaults(ctx context.Context) error
}

// TransactionHandler runs fn as one unit of work. The context passed to fn
// carries the transaction; repositories called with it join the transaction.
type TransactionHandler interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// PasswordHasher defines password operations
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// SessionStore is the process-wide table of active session tokens
type SessionStore interface {
	AddSession(token string, userID uuid.UUID, expiresAt time.Time)
	TryGetSession(token string) (Session, bool)
	RemoveSession(token string) bool
	GetAllSessions() []Session
	HasActiveSessionForUser(userID uuid.UUID) bool
}

// AccountService defines account business logic
type AccountService interface {
	CreateUser(ctx context.Context, cmd CreateUserCommand, allowAdminCreation, isAdmin bool) (uuid.UUID, error)
	CreateAdminUser(ctx context.Context, cmd CreateUserCommand, callerIsAdmin bool) (uuid.UUID, error)
	ValidateCredentials(ctx context.Context, username, password string) (*User, error)
	GetUsernameByID(ctx context.Context, id uuid.UUID) (string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	CountUsers(ctx context.Context) (int64, error)
	EnsureAdminSeeded(ctx context.Context) error
	SeedAdminUser(ctx context.Context, token string) error
}

// SessionService defines the login, logout and token resolution policy
type SessionService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	WhoAmI(ctx context.Context, token string) (*Identity, error)
}

// EventPublisher delivers account events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, event *AccountEvent) error
}

// PolicyEnforcer decides whether a subject may perform an action on an object
type PolicyEnforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}
