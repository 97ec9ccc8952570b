package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/you/accountsvc/domain"
)

// MockCityRepository implements domain.CityRepository interface for testing
type MockCityRepository struct {
	GetOrCreateCityFunc func(ctx context.Context, postalCode int, name string) (*domain.City, error)
}

// NewMockCityRepository creates a new MockCityRepository with default behaviors
func NewMockCityRepository() *MockCityRepository {
	return &MockCityRepository{}
}

// GetOrCreateCity resolves a city by postal code
func (m *MockCityRepository) GetOrCreateCity(ctx context.Context, postalCode int, name string) (*domain.City, error) {
	if m.GetOrCreateCityFunc != nil {
		return m.GetOrCreateCityFunc(ctx, postalCode, name)
	}
	// Default behavior: echo the input
	return &domain.City{PostalCode: postalCode, Name: name}, nil
}

// MockAddressRepository implements domain.AddressRepository interface for testing
type MockAddressRepository struct {
	GetOrCreateAddressFunc func(ctx context.Context, address *domain.Address) (*domain.Address, error)
}

// NewMockAddressRepository creates a new MockAddressRepository with default behaviors
func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{}
}

// GetOrCreateAddress resolves an address by street and city
func (m *MockAddressRepository) GetOrCreateAddress(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	if m.GetOrCreateAddressFunc != nil {
		return m.GetOrCreateAddressFunc(ctx, address)
	}
	// Default behavior: treat as new
	created := *address
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	return &created, nil
}

// MockContactInfoRepository implements domain.ContactInfoRepository interface for testing
type MockContactInfoRepository struct {
	AddContactInfoFunc func(ctx context.Context, info *domain.ContactInfo) error
}

// NewMockContactInfoRepository creates a new MockContactInfoRepository with default behaviors
func NewMockContactInfoRepository() *MockContactInfoRepository {
	return &MockContactInfoRepository{}
}

// AddContactInfo stores contact information
func (m *MockContactInfoRepository) AddContactInfo(ctx context.Context, info *domain.ContactInfo) error {
	if m.AddContactInfoFunc != nil {
		return m.AddContactInfoFunc(ctx, info)
	}
	return nil
}

// MockLoginInfoRepository implements domain.LoginInfoRepository interface for testing
type MockLoginInfoRepository struct {
	AddLoginInfoFunc func(ctx context.Context, info *domain.LoginInformation) error
}

// NewMockLoginInfoRepository creates a new MockLoginInfoRepository with default behaviors
func NewMockLoginInfoRepository() *MockLoginInfoRepository {
	return &MockLoginInfoRepository{}
}

// AddLoginInfo stores credentials
func (m *MockLoginInfoRepository) AddLoginInfo(ctx context.Context, info *domain.LoginInformation) error {
	if m.AddLoginInfoFunc != nil {
		return m.AddLoginInfoFunc(ctx, info)
	}
	return nil
}

// Compile-time interface compliance verification
var (
	_ domain.CityRepository        = (*MockCityRepository)(nil)
	_ domain.AddressRepository     = (*MockAddressRepository)(nil)
	_ domain.ContactInfoRepository = (*MockContactInfoRepository)(nil)
	_ domain.LoginInfoRepository   = (*MockLoginInfoRepository)(nil)
)
