package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menuca/menuca-backend/internal/app/service"
	apperrors "github.com/menuca/menuca-backend/internal/errors"
	"github.com/menuca/menuca-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// GetReviews lists a restaurant's reviews, newest first
// GET /api/restaurants/:id/reviews
func (ctrl *ReviewController) GetReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.GetReviews(restaurantID)
	if err != nil {
		log.Error("Failed to list reviews", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview submits the caller's review of a restaurant
// POST /api/restaurants/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid review request", map[string]interface{}{
			"restaurant_id": restaurantID,
			"error":         err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review data")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, restaurantID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewScoreOutOfRange):
			apperrors.BadRequest(c, apperrors.ReviewInvalidScore, "Score must be between 1 and 5")
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrReviewAlreadyExists):
			log.Warn("Duplicate review rejected", map[string]interface{}{
				"user_id":       userID,
				"restaurant_id": restaurantID,
			})
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "You have already reviewed this restaurant")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"user_id":       userID,
				"restaurant_id": restaurantID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create review")
		}
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id":     review.ID,
		"user_id":       userID,
		"restaurant_id": restaurantID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}
