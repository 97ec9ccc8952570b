package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/you/accountsvc/domain"
)

// LoginInfoRepositoryImpl implements domain.LoginInfoRepository using GORM
type LoginInfoRepositoryImpl struct {
	db *gorm.DB
}

// NewLoginInfoRepository creates a new login info repository
func NewLoginInfoRepository(db *gorm.DB) domain.LoginInfoRepository {
	return &LoginInfoRepositoryImpl{db: db}
}

// AddLoginInfo implements domain.LoginInfoRepository
func (r *LoginInfoRepositoryImpl) AddLoginInfo(ctx context.Context, info *domain.LoginInformation) error {
	err := conn(ctx, r.db).Create(&DBLoginInformation{
		Username: info.Username,
		Password: info.PasswordHash,
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrUsernameTaken
	}
	return err
}
