package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/menuca/menuca-backend/internal/app/service"
	"github.com/menuca/menuca-backend/internal/db"
	apperrors "github.com/menuca/menuca-backend/internal/errors"
	"github.com/menuca/menuca-backend/internal/middleware"
)

type RestaurantController struct {
	restaurantService service.RestaurantService
}

func NewRestaurantController(restaurantService service.RestaurantService) *RestaurantController {
	return &RestaurantController{
		restaurantService: restaurantService,
	}
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// GetRestaurants lists all active restaurants with their aggregates
// GET /api/restaurants
func (ctrl *RestaurantController) GetRestaurants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	summaries, err := ctrl.restaurantService.GetRestaurants()
	if err != nil {
		log.Error("Failed to list restaurants", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list restaurants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": summaries,
		"count":       len(summaries),
	})
}

// GetMyRestaurants lists the calling vendor's restaurants
// GET /api/restaurants/mine
func (ctrl *RestaurantController) GetMyRestaurants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	summaries, err := ctrl.restaurantService.GetRestaurantsByVendor(vendorID)
	if err != nil {
		log.Error("Failed to list vendor restaurants", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list restaurants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": summaries,
		"count":       len(summaries),
	})
}

// GetRestaurant returns one restaurant with its active dishes
// GET /api/restaurants/:id
func (ctrl *RestaurantController) GetRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	restaurant, err := ctrl.restaurantService.GetRestaurantByID(id)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("Failed to get restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
	})
}

// RegisterRestaurant creates a restaurant together with its initial menu
// POST /api/restaurants/register
func (ctrl *RestaurantController) RegisterRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	var input service.CreateRestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid restaurant registration request", map[string]interface{}{
			"vendor_id": vendorID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid restaurant data")
		return
	}

	restaurant, skipped, err := ctrl.restaurantService.CreateRestaurant(vendorID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPriceTier):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Price tier must be economic, moderate or premium")
		case errors.Is(err, db.ErrPoolTimeout):
			log.Error("Restaurant registration failed: pool exhausted", err, map[string]interface{}{
				"vendor_id": vendorID,
			})
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalPoolTimeout,
				"Server is busy. Please try again shortly")
		default:
			log.Error("Restaurant registration failed", err, map[string]interface{}{
				"vendor_id": vendorID,
				"name":      input.Name,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register restaurant")
		}
		return
	}

	log.Info("Restaurant registered", map[string]interface{}{
		"restaurant_id":  restaurant.ID,
		"vendor_id":      vendorID,
		"dishes_skipped": skipped,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Restaurant registered successfully",
		"restaurant":     restaurant,
		"dishes_skipped": skipped,
	})
}

// UpdateRestaurant updates an owned restaurant's listed fields
// PUT /api/restaurants/:id
func (ctrl *RestaurantController) UpdateRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateRestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid restaurant data")
		return
	}

	restaurant, err := ctrl.restaurantService.UpdateRestaurant(vendorID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrInvalidPriceTier):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Price tier must be economic, moderate or premium")
		default:
			log.Error("Failed to update restaurant", err, map[string]interface{}{
				"restaurant_id": id,
				"vendor_id":     vendorID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update restaurant")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant updated successfully",
		"restaurant": restaurant,
	})
}

// DeleteRestaurant retires an owned restaurant and its menu
// DELETE /api/restaurants/:id
func (ctrl *RestaurantController) DeleteRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	vendorID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.restaurantService.DeleteRestaurant(vendorID, id); err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("Failed to delete restaurant", err, map[string]interface{}{
			"restaurant_id": id,
			"vendor_id":     vendorID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete restaurant")
		return
	}

	log.Info("Restaurant deleted", map[string]interface{}{
		"restaurant_id": id,
		"vendor_id":     vendorID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant deleted successfully",
	})
}
