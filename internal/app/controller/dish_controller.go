package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menuca/menuca-backend/internal/app/service"
	apperrors "github.com/menuca/menuca-backend/internal/errors"
	"github.com/menuca/menuca-backend/internal/middleware"
)

type DishController struct {
	dishService service.DishService
}

func NewDishController(dishService service.DishService) *DishController {
	return &DishController{
		dishService: dishService,
	}
}

// GetDishes lists a restaurant's active dishes
// GET /api/restaurants/:id/dishes
func (ctrl *DishController) GetDishes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dishes, err := ctrl.dishService.GetDishes(restaurantID)
	if err != nil {
		log.Error("Failed to list dishes", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list dishes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dishes": dishes,
		"count":  len(dishes),
	})
}

// CreateDish adds a dish to an owned restaurant
// POST /api/restaurants/:id/dishes
func (ctrl *DishController) CreateDish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.CreateDishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid dish request", map[string]interface{}{
			"restaurant_id": restaurantID,
			"error":         err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Dish name and price are required")
		return
	}

	dish, err := ctrl.dishService.CreateDish(vendorID, restaurantID, input)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("Failed to create dish", err, map[string]interface{}{
			"restaurant_id": restaurantID,
			"vendor_id":     vendorID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create dish")
		return
	}

	log.Info("Dish created", map[string]interface{}{
		"dish_id":       dish.ID,
		"restaurant_id": restaurantID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Dish created successfully",
		"dish":    dish,
	})
}

// UpdateDish updates a dish on an owned restaurant
// PUT /api/restaurants/:id/dishes/:dishId
func (ctrl *DishController) UpdateDish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	dishID, ok := parseIDParam(c, "dishId")
	if !ok {
		return
	}

	var input service.UpdateDishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid dish data")
		return
	}

	dish, err := ctrl.dishService.UpdateDish(vendorID, restaurantID, dishID, input)
	if err != nil {
		if errors.Is(err, service.ErrDishNotFound) {
			apperrors.NotFound(c, apperrors.DishNotFound, "Dish not found")
			return
		}
		log.Error("Failed to update dish", err, map[string]interface{}{
			"dish_id":   dishID,
			"vendor_id": vendorID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update dish")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dish updated successfully",
		"dish":    dish,
	})
}

// DeleteDish removes a dish from an owned restaurant
// DELETE /api/restaurants/:id/dishes/:dishId
func (ctrl *DishController) DeleteDish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	dishID, ok := parseIDParam(c, "dishId")
	if !ok {
		return
	}

	if err := ctrl.dishService.DeleteDish(vendorID, restaurantID, dishID); err != nil {
		if errors.Is(err, service.ErrDishNotFound) {
			apperrors.NotFound(c, apperrors.DishNotFound, "Dish not found")
			return
		}
		log.Error("Failed to delete dish", err, map[string]interface{}{
			"dish_id":   dishID,
			"vendor_id": vendorID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete dish")
		return
	}

	log.Info("Dish deleted", map[string]interface{}{
		"dish_id":   dishID,
		"vendor_id": vendorID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Dish deleted successfully",
	})
}
