package database

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/accountsvc/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings.
// Storage errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	return OpenDialector(postgres.Open(dsn))
}

// OpenDialector opens any gorm dialector with the service's settings
func OpenDialector(dialector gorm.Dialector) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	return gorm.Open(dialector, config)
}

// AutoMigrate performs database migration for all account tables
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(repositories.Models()...); err != nil {
		return fmt.Errorf("failed to migrate account tables: %w", err)
	}
	return nil
}

// SeedUserTypes inserts the fixed user types if they are absent
func SeedUserTypes(ctx context.Context, db *gorm.DB) error {
	if err := repositories.NewUserTypeRepository(db).EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed user types: %w", err)
	}
	return nil
}
