package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/you/accountsvc/internal/config"
	"github.com/you/accountsvc/internal/infrastructure/database"
	"github.com/you/accountsvc/internal/infrastructure/repositories"
)

// Verifies database connectivity, runs migrations and seeds the user types.
func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	dsn := cfg.DSN
	if envDSN := os.Getenv("TEST_DATABASE_DSN"); envDSN != "" {
		dsn = envDSN
	}

	fmt.Println("Account database check")
	fmt.Println("======================")

	db, err := database.Open(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("✓ Database connection successful")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}
	fmt.Println("✓ AutoMigrate completed successfully")

	ctx := context.Background()
	if err := database.SeedUserTypes(ctx, db); err != nil {
		log.Fatalf("Failed to seed user types: %v", err)
	}
	fmt.Println("✓ User types present")

	users := repositories.NewUserRepository(db)
	count, err := users.CountUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	fmt.Printf("✓ Users table accessible (current count: %d)\n", count)

	hasAdmin, err := users.AdminAccountExists(ctx)
	if err != nil {
		log.Fatalf("Failed to look up admin account: %v", err)
	}
	if hasAdmin {
		fmt.Println("✓ Admin account present")
	} else {
		fmt.Println("! No admin account yet, it is seeded when the service starts")
	}
}
