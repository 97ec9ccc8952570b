package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/you/accountsvc/domain"
)

// UserTypeRepositoryImpl implements domain.UserTypeRepository using GORM
type UserTypeRepositoryImpl struct {
	db *gorm.DB
}

// NewUserTypeRepository creates a new user type repository
func NewUserTypeRepository(db *gorm.DB) domain.UserTypeRepository {
	return &UserTypeRepositoryImpl{db: db}
}

// EnsureDefaults inserts the default user types that are missing
func (r *UserTypeRepositoryImpl) EnsureDefaults(ctx context.Context) error {
	rows := make([]DBUserType, 0, len(domain.DefaultUserTypes))
	for _, ut := range domain.DefaultUserTypes {
		rows = append(rows, DBUserType{ID: int(ut.ID), Type: ut.Type})
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
