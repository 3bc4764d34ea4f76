package repository

import (
	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	CreateTx(tx *gorm.DB, review *model.Review) error
	FindByRestaurant(restaurantID uint) ([]model.Review, error)
	ExistsByUserAndRestaurant(userID, restaurantID uint) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateTx(tx *gorm.DB, review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"user_id":       review.UserID,
		"restaurant_id": review.RestaurantID,
		"score":         review.Score,
	})

	if err := tx.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"user_id":       review.UserID,
			"restaurant_id": review.RestaurantID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByRestaurant(restaurantID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.
		Preload("User").
		Where("restaurant_id = ?", restaurantID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews from database", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ExistsByUserAndRestaurant(userID, restaurantID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count reviews in database", err, map[string]interface{}{
			"user_id":       userID,
			"restaurant_id": restaurantID,
		})
		return false, err
	}
	return count > 0, nil
}
