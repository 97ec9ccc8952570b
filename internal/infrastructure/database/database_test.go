package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"

	"github.com/you/accountsvc/internal/infrastructure/repositories"
)

func TestAutoMigrateAndSeedUserTypes(t *testing.T) {
	db, err := OpenDialector(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	for _, m := range repositories.Models() {
		assert.True(t, db.Migrator().HasTable(m), "expected table for %T", m)
	}

	ctx := context.Background()
	require.NoError(t, SeedUserTypes(ctx, db))
	require.NoError(t, SeedUserTypes(ctx, db), "seeding twice must be a no-op")

	var types []repositories.DBUserType
	require.NoError(t, db.Order("id").Find(&types).Error)
	require.Len(t, types, 3)
	assert.Equal(t, "ordinary", types[0].Type)
	assert.Equal(t, "delivery_agent", types[1].Type)
	assert.Equal(t, "admin", types[2].Type)
}
