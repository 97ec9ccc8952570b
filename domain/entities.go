package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserTypeID classifies a user account
type UserTypeID int

const (
	UserTypeOrdinary      UserTypeID = 1
	UserTypeDeliveryAgent UserTypeID = 2
	UserTypeAdmin         UserTypeID = 3
)

// DefaultUserTypes lists the user types seeded at startup
var DefaultUserTypes = []UserType{
	{ID: UserTypeOrdinary, Type: "ordinary"},
	{ID: UserTypeDeliveryAgent, Type: "delivery_agent"},
	{ID: UserTypeAdmin, Type: "admin"},
}

// Valid reports whether t is one of the known user types
func (t UserTypeID) Valid() bool {
	return t >= UserTypeOrdinary && t <= UserTypeAdmin
}

// String returns the role name used for authorization policies
func (t UserTypeID) String() string {
	for _, ut := range DefaultUserTypes {
		if ut.ID == t {
			return ut.Type
		}
	}
	return "unknown"
}

// UserType is a row of the user type lookup table
type UserType struct {
	ID   UserTypeID
	Type string
}

// User represents a registered account
type User struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	Username         string
	UserTypeID       UserTypeID
	ContactInfoID    uuid.UUID
	ContactInfo      *ContactInfo
	LoginInformation *LoginInformation
}

// IsAdmin reports whether the user has the admin user type
func (u *User) IsAdmin() bool {
	return u != nil && u.UserTypeID == UserTypeAdmin
}

// LoginInformation holds the credential for a username. It shares its key with User.
type LoginInformation struct {
	Username     string
	PasswordHash string
}

// ContactInfo is owned by exactly one User
type ContactInfo struct {
	ID          uuid.UUID
	Email       string
	PhoneNumber string
	AddressID   uuid.UUID
	Address     *Address
}

// Address may be shared by several ContactInfo records
type Address struct {
	ID             uuid.UUID
	StreetNumber   int
	StreetName     string
	CityPostalCode int
	City           *City
}

// City is keyed by postal code
type City struct {
	PostalCode int
	Name       string
}

// CreateUserCommand carries the registration input
type CreateUserCommand struct {
	FirstName    string
	LastName     string
	Username     string
	Password     string
	UserTypeID   UserTypeID
	Email        string
	PhoneNumber  string
	StreetNumber int
	StreetName   string
	PostalCode   int
	City         string
}

// Session is an active login held by the session store
type Session struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

// Identity is what a bearer token resolves to
type Identity struct {
	UserID    uuid.UUID
	Username  string
	Role      string
	Token     string
	ExpiresAt time.Time
}
