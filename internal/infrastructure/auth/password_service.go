package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/you/accountsvc/domain"
)

// BcryptHasher implements domain.PasswordHasher
type BcryptHasher struct {
	cost int
}

// NewPasswordHasher creates a bcrypt hasher with the default cost
func NewPasswordHasher() domain.PasswordHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewPasswordHasherWithCost is used by tests to keep hashing fast
func NewPasswordHasherWithCost(cost int) domain.PasswordHasher {
	return &BcryptHasher{cost: cost}
}

// Hash implements domain.PasswordHasher
func (p *BcryptHasher) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordHasher
func (p *BcryptHasher) Verify(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
