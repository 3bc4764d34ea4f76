package service

import (
	"errors"

	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/internal/app/repository"
	"github.com/menuca/menuca-backend/internal/db"
	"github.com/menuca/menuca-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrDishNotFound = errors.New("dish not found")

type CreateDishInput struct {
	Name           string   `json:"name" binding:"required"`
	Price          *float64 `json:"price" binding:"required"`
	Ingredients    string   `json:"ingredients"`
	IncludesDrink  bool     `json:"includes_drink"`
	AvailableUnits int      `json:"available_units"`
}

type UpdateDishInput struct {
	Name           *string  `json:"name"`
	Price          *float64 `json:"price"`
	Ingredients    *string  `json:"ingredients"`
	IncludesDrink  *bool    `json:"includes_drink"`
	AvailableUnits *int     `json:"available_units"`
	Active         *bool    `json:"active"`
}

type DishService interface {
	GetDishes(restaurantID uint) ([]model.Dish, error)
	CreateDish(vendorID, restaurantID uint, input CreateDishInput) (*model.Dish, error)
	UpdateDish(vendorID, restaurantID, dishID uint, input UpdateDishInput) (*model.Dish, error)
	DeleteDish(vendorID, restaurantID, dishID uint) error
}

type dishService struct {
	registry       *db.Registry
	readRepo       repository.DishRepository
	vendorRepo     repository.DishRepository
	restaurantRepo repository.RestaurantRepository
}

// NewDishService takes a consumer-pool repository for reads, a vendor-pool
// repository for writes, and the vendor-pool restaurant repository for
// ownership checks. Writes run on vendor-pool transactions carrying the
// caller's session identity.
func NewDishService(
	registry *db.Registry,
	readRepo repository.DishRepository,
	vendorRepo repository.DishRepository,
	restaurantRepo repository.RestaurantRepository,
) DishService {
	return &dishService{
		registry:       registry,
		readRepo:       readRepo,
		vendorRepo:     vendorRepo,
		restaurantRepo: restaurantRepo,
	}
}

func (s *dishService) GetDishes(restaurantID uint) ([]model.Dish, error) {
	return s.readRepo.FindByRestaurant(restaurantID)
}

func (s *dishService) CreateDish(vendorID, restaurantID uint, input CreateDishInput) (*model.Dish, error) {
	// The parent restaurant must exist and belong to the caller
	if _, err := s.restaurantRepo.FindByIDForVendor(restaurantID, vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	dish := &model.Dish{
		Name:           input.Name,
		Price:          *input.Price,
		Ingredients:    input.Ingredients,
		IncludesDrink:  input.IncludesDrink,
		AvailableUnits: input.AvailableUnits,
		RestaurantID:   restaurantID,
		Active:         true,
	}

	err := s.registry.WithSessionUser(db.PoolVendor, vendorID, func(tx *gorm.DB) error {
		return s.vendorRepo.CreateTx(tx, dish)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Dish created", map[string]interface{}{
		"dish_id":       dish.ID,
		"restaurant_id": restaurantID,
		"vendor_id":     vendorID,
	})

	return dish, nil
}

func (s *dishService) UpdateDish(vendorID, restaurantID, dishID uint, input UpdateDishInput) (*model.Dish, error) {
	dish, err := s.vendorRepo.FindByIDForVendor(dishID, restaurantID, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		dish.Name = *input.Name
	}
	if input.Price != nil {
		dish.Price = *input.Price
	}
	if input.Ingredients != nil {
		dish.Ingredients = *input.Ingredients
	}
	if input.IncludesDrink != nil {
		dish.IncludesDrink = *input.IncludesDrink
	}
	if input.AvailableUnits != nil {
		dish.AvailableUnits = *input.AvailableUnits
	}
	if input.Active != nil {
		dish.Active = *input.Active
	}

	err = s.registry.WithSessionUser(db.PoolVendor, vendorID, func(tx *gorm.DB) error {
		return s.vendorRepo.UpdateTx(tx, dish)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Dish updated", map[string]interface{}{
		"dish_id":   dish.ID,
		"vendor_id": vendorID,
	})

	return dish, nil
}

func (s *dishService) DeleteDish(vendorID, restaurantID, dishID uint) error {
	if _, err := s.vendorRepo.FindByIDForVendor(dishID, restaurantID, vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDishNotFound
		}
		return err
	}

	err := s.registry.WithSessionUser(db.PoolVendor, vendorID, func(tx *gorm.DB) error {
		return s.vendorRepo.DeleteTx(tx, dishID)
	})
	if err != nil {
		return err
	}

	logger.Info("Dish deleted", map[string]interface{}{
		"dish_id":   dishID,
		"vendor_id": vendorID,
	})
	return nil
}
