package repository

import (
	"errors"

	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/pkg/logger"
	"gorm.io/gorm"
)

// DishRepository separates reads (bound to the constructing pool) from
// writes, which always run on a caller-owned transaction.
type DishRepository interface {
	CreateTx(tx *gorm.DB, dish *model.Dish) error
	FindByRestaurant(restaurantID uint) ([]model.Dish, error)
	FindByIDForVendor(id, restaurantID, vendorID uint) (*model.Dish, error)
	UpdateTx(tx *gorm.DB, dish *model.Dish) error
	DeleteTx(tx *gorm.DB, id uint) error
}

type dishRepository struct {
	db *gorm.DB
}

func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) CreateTx(tx *gorm.DB, dish *model.Dish) error {
	if err := tx.Create(dish).Error; err != nil {
		logger.Error("Failed to create dish in transaction", err, map[string]interface{}{
			"name":          dish.Name,
			"restaurant_id": dish.RestaurantID,
		})
		return err
	}
	return nil
}

func (r *dishRepository) FindByRestaurant(restaurantID uint) ([]model.Dish, error) {
	var dishes []model.Dish
	err := r.db.
		Where("restaurant_id = ? AND active = ?", restaurantID, true).
		Order("dishes.name ASC").
		Find(&dishes).Error
	if err != nil {
		logger.Error("Failed to list dishes from database", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}
	return dishes, nil
}

// FindByIDForVendor resolves a dish only when it belongs to the given
// restaurant and that restaurant belongs to the given vendor. Ownership is
// re-checked through the parent row on every dish write.
func (r *dishRepository) FindByIDForVendor(id, restaurantID, vendorID uint) (*model.Dish, error) {
	var dish model.Dish
	err := r.db.
		Joins("JOIN restaurants ON restaurants.id = dishes.restaurant_id").
		Where("dishes.id = ? AND dishes.restaurant_id = ?", id, restaurantID).
		Where("restaurants.vendor_id = ? AND restaurants.deleted_at IS NULL", vendorID).
		First(&dish).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find vendor dish in database", err, map[string]interface{}{
				"dish_id":       id,
				"restaurant_id": restaurantID,
				"vendor_id":     vendorID,
			})
		}
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) UpdateTx(tx *gorm.DB, dish *model.Dish) error {
	logger.Debug("Updating dish in database", map[string]interface{}{
		"dish_id": dish.ID,
	})

	if err := tx.Save(dish).Error; err != nil {
		logger.Error("Failed to update dish in database", err, map[string]interface{}{
			"dish_id": dish.ID,
		})
		return err
	}
	return nil
}

func (r *dishRepository) DeleteTx(tx *gorm.DB, id uint) error {
	logger.Debug("Deleting dish from database", map[string]interface{}{
		"dish_id": id,
	})

	if err := tx.Delete(&model.Dish{}, id).Error; err != nil {
		logger.Error("Failed to delete dish from database", err, map[string]interface{}{
			"dish_id": id,
		})
		return err
	}
	return nil
}
