package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/you/accountsvc/domain"
)

var (
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9]{3,12}$`)
	emailPattern      = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern      = regexp.MustCompile(`^(?:\+45\s?)?\d{2}\s?\d{2}\s?\d{2}\s?\d{2}$`)
	streetNamePattern = regexp.MustCompile(`^[\p{L}\s]+$`)
)

const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// maxPasswordBytes is the longest input bcrypt accepts
const maxPasswordBytes = 72

const (
	minPostalCode = 1000
	maxPostalCode = 9999
)

// Validator checks the shape of a registration command without touching storage
type Validator struct{}

// NewValidator creates a registration command validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns nil when cmd is valid, or every violated rule otherwise
func (v *Validator) Validate(cmd domain.CreateUserCommand) *domain.ValidationError {
	verr := &domain.ValidationError{}

	switch {
	case cmd.Username == "":
		verr.Add("Username", "Username cannot be empty.")
	case !usernamePattern.MatchString(cmd.Username):
		verr.Add("Username", "Username must be between 3 and 12 characters and contain only letters and numbers.")
	}

	switch {
	case cmd.Password == "":
		verr.Add("Password", "Password cannot be empty.")
	case !validPassword(cmd.Password):
		verr.Add("Password", "Password must contain at least one uppercase letter, one lowercase letter, one number, and one symbol, and be 8-64 characters long.")
	case len(cmd.Password) > maxPasswordBytes:
		verr.Add("Password", "Password is too long when encoded, use fewer accented or special characters.")
	}

	switch {
	case cmd.Email == "":
		verr.Add("Email", "Email cannot be empty.")
	case !emailPattern.MatchString(cmd.Email):
		verr.Add("Email", "Invalid email format.")
	}

	switch {
	case cmd.PhoneNumber == "":
		verr.Add("PhoneNumber", "Phone number cannot be empty.")
	case !phonePattern.MatchString(cmd.PhoneNumber):
		verr.Add("PhoneNumber", "Phone number must be in Danish format.")
	}

	// zero means no street number was given
	if cmd.StreetNumber < 0 {
		verr.Add("StreetNumber", "Street number must be greater than 0.")
	}

	switch {
	case strings.TrimSpace(cmd.StreetName) == "":
		verr.Add("StreetName", "Streetname cannot be empty.")
	case !streetNamePattern.MatchString(cmd.StreetName):
		verr.Add("StreetName", "Street name must only contain letters.")
	}

	if strings.TrimSpace(cmd.City) == "" {
		verr.Add("City", "City name cannot be empty.")
	}

	switch {
	case cmd.PostalCode == 0:
		verr.Add("PostalCode", "Postal code cannot be empty.")
	case cmd.PostalCode < minPostalCode || cmd.PostalCode > maxPostalCode:
		verr.Add("PostalCode", "Postal code must be a 4-digit number.")
	}

	if !cmd.UserTypeID.Valid() {
		verr.Add("UserTypeID", "User type must be ordinary (1), delivery agent (2) or admin (3).")
	}

	if !verr.HasViolations() {
		return nil
	}
	return verr
}

func validPassword(password string) bool {
	if n := utf8.RuneCountInString(password); n < 8 || n > 64 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
