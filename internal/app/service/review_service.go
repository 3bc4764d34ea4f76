package service

import (
	"errors"

	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/internal/app/repository"
	"github.com/menuca/menuca-backend/internal/db"
	apperrors "github.com/menuca/menuca-backend/internal/errors"
	"github.com/menuca/menuca-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewScoreOutOfRange = errors.New("score must be between 1 and 5")
	ErrReviewAlreadyExists   = errors.New("review already exists for this restaurant")
)

type CreateReviewInput struct {
	Score       int    `json:"score" binding:"required"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	FoodQuality *int   `json:"food_quality"`
	WaitTime    *int   `json:"wait_time"`
	Service     *int   `json:"service"`
	PortionSize *int   `json:"portion_size"`
}

type ReviewService interface {
	GetReviews(restaurantID uint) ([]model.Review, error)
	CreateReview(userID, restaurantID uint, input CreateReviewInput) (*model.Review, error)
}

type reviewService struct {
	registry       *db.Registry
	reviewRepo     repository.ReviewRepository
	restaurantRepo repository.RestaurantRepository
}

func NewReviewService(
	registry *db.Registry,
	reviewRepo repository.ReviewRepository,
	restaurantRepo repository.RestaurantRepository,
) ReviewService {
	return &reviewService{
		registry:       registry,
		reviewRepo:     reviewRepo,
		restaurantRepo: restaurantRepo,
	}
}

// GetReviews lists a restaurant's reviews. The restaurant itself is not
// required to still be listed: reviews outlive the restaurant they were
// written for.
func (s *reviewService) GetReviews(restaurantID uint) ([]model.Review, error) {
	return s.reviewRepo.FindByRestaurant(restaurantID)
}

func (s *reviewService) CreateReview(userID, restaurantID uint, input CreateReviewInput) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"user_id":       userID,
		"restaurant_id": restaurantID,
		"score":         input.Score,
	})

	if input.Score < 1 || input.Score > 5 {
		return nil, ErrReviewScoreOutOfRange
	}

	if _, err := s.restaurantRepo.FindByID(restaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByUserAndRestaurant(userID, restaurantID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewAlreadyExists
	}

	review := &model.Review{
		Score:        input.Score,
		Title:        input.Title,
		Body:         input.Body,
		FoodQuality:  input.FoodQuality,
		WaitTime:     input.WaitTime,
		Service:      input.Service,
		PortionSize:  input.PortionSize,
		UserID:       userID,
		RestaurantID: restaurantID,
	}

	err = s.registry.WithSessionUser(db.PoolConsumer, userID, func(tx *gorm.DB) error {
		return s.reviewRepo.CreateTx(tx, review)
	})
	if err != nil {
		// The unique index settles concurrent submissions the pre-check missed
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrReviewAlreadyExists
		}
		logger.Error("Failed to create review", err, map[string]interface{}{
			"user_id":       userID,
			"restaurant_id": restaurantID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":     review.ID,
		"user_id":       userID,
		"restaurant_id": restaurantID,
	})

	return review, nil
}
