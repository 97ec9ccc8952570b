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

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// UsernameExists implements domain.UserRepository
func (r *UserRepositoryImpl) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&DBUser{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByUsername implements domain.UserRepository
func (r *UserRepositoryImpl) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	db := conn(ctx, r.db)

	var dbUser DBUser
	if err := db.Where("username = ?", username).First(&dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	var login DBLoginInformation
	if err := db.Where("username = ?", username).First(&login).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s has no login information: %w", username, domain.ErrUserNotFound)
		}
		return nil, err
	}

	user, err := r.dbToDomain(&dbUser)
	if err != nil {
		return nil, err
	}
	user.LoginInformation = &domain.LoginInformation{Username: login.Username, PasswordHash: login.Password}
	return user, nil
}

// GetUserByID implements domain.UserRepository.
// The contact information, address and city are loaded with the user.
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var dbUser DBUser
	err := conn(ctx, r.db).
		Preload("ContactInfo.Address.City").
		Where("id = ?", id.String()).
		First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// AdminAccountExists implements domain.UserRepository
func (r *UserRepositoryImpl) AdminAccountExists(ctx context.Context) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&DBUser{}).Where("user_type_id = ?", int(domain.UserTypeAdmin)).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddUser implements domain.UserRepository.
// A unique index violation on the username is reported as domain.ErrUsernameTaken.
func (r *UserRepositoryImpl) AddUser(ctx context.Context, user *domain.User) error {
	if user.ContactInfoID == uuid.Nil {
		return errors.New("user must reference contact info")
	}
	if !user.UserTypeID.Valid() {
		return fmt.Errorf("user type %d is not valid", user.UserTypeID)
	}

	err := conn(ctx, r.db).Omit(clause.Associations).Create(r.domainToDB(user)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrUsernameTaken
	}
	return err
}

// CountUsers implements domain.UserRepository
func (r *UserRepositoryImpl) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&DBUser{}).Count(&count).Error
	return count, err
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:            user.ID.String(),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Username:      user.Username,
		UserTypeID:    int(user.UserTypeID),
		ContactInfoID: user.ContactInfoID.String(),
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) (*domain.User, error) {
	id, err := uuid.Parse(dbUser.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", dbUser.ID, err)
	}
	contactID, err := uuid.Parse(dbUser.ContactInfoID)
	if err != nil {
		return nil, fmt.Errorf("invalid contact info id %q: %w", dbUser.ContactInfoID, err)
	}

	user := &domain.User{
		ID:            id,
		FirstName:     dbUser.FirstName,
		LastName:      dbUser.LastName,
		Username:      dbUser.Username,
		UserTypeID:    domain.UserTypeID(dbUser.UserTypeID),
		ContactInfoID: contactID,
	}
	if dbUser.ContactInfo.ID != "" {
		info, err := contactInfoToDomain(&dbUser.ContactInfo)
		if err != nil {
			return nil, err
		}
		user.ContactInfo = info
	}
	return user, nil
}
