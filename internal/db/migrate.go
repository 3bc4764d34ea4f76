package db

import (
	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs schema migrations. Expected to be called with the
// administrator pool, the only principal granted DDL.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Restaurant{},
		&model.Dish{},
		&model.Review{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
