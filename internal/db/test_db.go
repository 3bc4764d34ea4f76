package db

import (
	"fmt"
	"log"
	"time"

	"github.com/menuca/menuca-backend/config"
	"github.com/menuca/menuca-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// A single connection keeps the in-memory database alive; extra
	// connections would each see their own empty schema
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	// Run migrations
	err = db.AutoMigrate(
		&model.User{},
		&model.Restaurant{},
		&model.Dish{},
		&model.Review{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// SetupTestRegistry builds an isolated registry whose every role pool is a
// fresh in-memory SQLite database sharing one schema. Lets pool-routing
// code run in tests without a PostgreSQL server.
func SetupTestRegistry() (*Registry, error) {
	shared, err := SetupTestDB()
	if err != nil {
		return nil, err
	}

	cfg := &config.DatabaseConfig{MaxOpenConns: 1, PoolTimeout: 5 * time.Second}
	open := func(role PoolRole, _ *config.DatabaseConfig) (*gorm.DB, error) {
		return shared, nil
	}
	return NewRegistry(cfg, open), nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{"reviews", "dishes", "restaurants", "users"}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
