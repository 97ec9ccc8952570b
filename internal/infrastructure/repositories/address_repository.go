package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/accountsvc/domain"
)

// AddressRepositoryImpl implements domain.AddressRepository using GORM
type AddressRepositoryImpl struct {
	db *gorm.DB
}

// NewAddressRepository creates a new address repository
func NewAddressRepository(db *gorm.DB) domain.AddressRepository {
	return &AddressRepositoryImpl{db: db}
}

// GetOrCreateAddress implements domain.AddressRepository.
// An address with the same street number, street name and postal code is reused.
func (r *AddressRepositoryImpl) GetOrCreateAddress(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	postalCode := address.CityPostalCode
	if address.City != nil {
		postalCode = address.City.PostalCode
	}

	db := conn(ctx, r.db)

	var existing DBAddress
	err := db.Where("street_number = ? AND street_name = ? AND city_postal_code = ?",
		address.StreetNumber, address.StreetName, postalCode).
		First(&existing).Error
	if err == nil {
		found, err := addressToDomain(&existing)
		if err != nil {
			return nil, err
		}
		found.City = address.City
		return found, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id := address.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	dbAddress := &DBAddress{
		ID:             id.String(),
		StreetNumber:   address.StreetNumber,
		StreetName:     address.StreetName,
		CityPostalCode: postalCode,
	}
	if err := db.Omit(clause.Associations).Create(dbAddress).Error; err != nil {
		return nil, err
	}

	return &domain.Address{
		ID:             id,
		StreetNumber:   address.StreetNumber,
		StreetName:     address.StreetName,
		CityPostalCode: postalCode,
		City:           address.City,
	}, nil
}

func addressToDomain(a *DBAddress) (*domain.Address, error) {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid address id %q: %w", a.ID, err)
	}
	address := &domain.Address{
		ID:             id,
		StreetNumber:   a.StreetNumber,
		StreetName:     a.StreetName,
		CityPostalCode: a.CityPostalCode,
	}
	if a.City.PostalCode != 0 {
		address.City = &domain.City{PostalCode: a.City.PostalCode, Name: a.City.Name}
	}
	return address, nil
}
