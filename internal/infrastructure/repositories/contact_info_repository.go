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

// ContactInfoRepositoryImpl implements domain.ContactInfoRepository using GORM
type ContactInfoRepositoryImpl struct {
	db *gorm.DB
}

// NewContactInfoRepository creates a new contact info repository
func NewContactInfoRepository(db *gorm.DB) domain.ContactInfoRepository {
	return &ContactInfoRepositoryImpl{db: db}
}

// AddContactInfo implements domain.ContactInfoRepository
func (r *ContactInfoRepositoryImpl) AddContactInfo(ctx context.Context, info *domain.ContactInfo) error {
	if info.AddressID == uuid.Nil {
		return errors.New("contact info must reference an address")
	}
	if info.ID == uuid.Nil {
		info.ID = uuid.New()
	}
	return conn(ctx, r.db).Omit(clause.Associations).Create(&DBContactInfo{
		ID:          info.ID.String(),
		Email:       info.Email,
		PhoneNumber: info.PhoneNumber,
		AddressID:   info.AddressID.String(),
	}).Error
}

func contactInfoToDomain(c *DBContactInfo) (*domain.ContactInfo, error) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid contact info id %q: %w", c.ID, err)
	}
	addressID, err := uuid.Parse(c.AddressID)
	if err != nil {
		return nil, fmt.Errorf("invalid address id %q: %w", c.AddressID, err)
	}
	info := &domain.ContactInfo{
		ID:          id,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		AddressID:   addressID,
	}
	if c.Address.ID != "" {
		address, err := addressToDomain(&c.Address)
		if err != nil {
			return nil, err
		}
		info.Address = address
	}
	return info, nil
}
