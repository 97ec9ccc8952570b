package repositories

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/accountsvc/domain"
)

// CityRepositoryImpl implements domain.CityRepository using GORM
type CityRepositoryImpl struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCityRepository creates a new city repository
func NewCityRepository(db *gorm.DB, logger *zap.Logger) domain.CityRepository {
	return &CityRepositoryImpl{db: db, logger: logger}
}

// GetOrCreateCity implements domain.CityRepository.
// The postal code is authoritative: when it already exists the stored name is
// kept and the supplied one is ignored.
func (r *CityRepositoryImpl) GetOrCreateCity(ctx context.Context, postalCode int, name string) (*domain.City, error) {
	db := conn(ctx, r.db)

	var city DBCity
	err := db.Where("postal_code = ?", postalCode).First(&city).Error
	if err == nil {
		if city.Name != name {
			r.logger.Debug("city name differs from stored name, keeping stored name",
				zap.Int("postal_code", postalCode),
				zap.String("stored", city.Name),
				zap.String("supplied", name))
		}
		return &domain.City{PostalCode: city.PostalCode, Name: city.Name}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	city = DBCity{PostalCode: postalCode, Name: name}
	// A concurrent registration may insert the same postal code first.
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&city).Error; err != nil {
		return nil, err
	}
	if err := db.Where("postal_code = ?", postalCode).First(&city).Error; err != nil {
		return nil, err
	}
	return &domain.City{PostalCode: city.PostalCode, Name: city.Name}, nil
}
