package repository

import (
	"errors"

	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/pkg/logger"
	"gorm.io/gorm"
)

// RestaurantSummary is a listing row: the restaurant's own columns plus
// aggregates computed across its reviews and dishes.
type RestaurantSummary struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Location       string          `json:"location"`
	PriceTier      model.PriceTier `json:"price_tier"`
	CuisineType    string          `json:"cuisine_type"`
	AvgWaitMinutes int             `json:"avg_wait_minutes"`
	OpeningTime    string          `json:"opening_time"`
	ClosingTime    string          `json:"closing_time"`
	OfferCount     int             `json:"offer_count"`
	VendorID       uint            `json:"vendor_id"`
	AvgScore       float64         `json:"avg_score"`
	ReviewCount    int64           `json:"review_count"`
	DishCount      int64           `json:"dish_count"`
}

type RestaurantRepository interface {
	FindSummaries() ([]RestaurantSummary, error)
	FindSummariesByVendor(vendorID uint) ([]RestaurantSummary, error)
	FindByID(id uint) (*model.Restaurant, error)
	FindByIDForVendor(id, vendorID uint) (*model.Restaurant, error)
	CreateTx(tx *gorm.DB, restaurant *model.Restaurant) error
	UpdateTx(tx *gorm.DB, restaurant *model.Restaurant) error
	DeleteTx(tx *gorm.DB, id uint) error
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// summaryQuery builds the grouped listing query. Review and dish
// aggregates are computed in per-table subqueries and joined back in, so
// one aggregate never inflates the other's row count.
func (r *restaurantRepository) summaryQuery() *gorm.DB {
	reviewStats := r.db.Table("reviews").
		Select("reviews.restaurant_id, AVG(reviews.score) AS avg_score, COUNT(*) AS review_count").
		Group("reviews.restaurant_id")

	dishCounts := r.db.Table("dishes").
		Select("dishes.restaurant_id, COUNT(*) AS dish_count").
		Where("dishes.deleted_at IS NULL AND dishes.active = ?", true).
		Group("dishes.restaurant_id")

	return r.db.Model(&model.Restaurant{}).
		Select(`restaurants.id, restaurants.name, restaurants.location,
			restaurants.price_tier, restaurants.cuisine_type, restaurants.avg_wait_minutes,
			restaurants.opening_time, restaurants.closing_time, restaurants.offer_count,
			restaurants.vendor_id,
			COALESCE(review_stats.avg_score, 0) AS avg_score,
			COALESCE(review_stats.review_count, 0) AS review_count,
			COALESCE(dish_counts.dish_count, 0) AS dish_count`).
		Joins("LEFT JOIN (?) AS review_stats ON review_stats.restaurant_id = restaurants.id", reviewStats).
		Joins("LEFT JOIN (?) AS dish_counts ON dish_counts.restaurant_id = restaurants.id", dishCounts).
		Where("restaurants.active = ?", true).
		Order("avg_score DESC, restaurants.name ASC")
}

func (r *restaurantRepository) FindSummaries() ([]RestaurantSummary, error) {
	var summaries []RestaurantSummary
	if err := r.summaryQuery().Scan(&summaries).Error; err != nil {
		logger.Error("Failed to list restaurant summaries from database", err, nil)
		return nil, err
	}
	return summaries, nil
}

func (r *restaurantRepository) FindSummariesByVendor(vendorID uint) ([]RestaurantSummary, error) {
	var summaries []RestaurantSummary
	err := r.summaryQuery().
		Where("restaurants.vendor_id = ?", vendorID).
		Scan(&summaries).Error
	if err != nil {
		logger.Error("Failed to list vendor restaurant summaries from database", err, map[string]interface{}{
			"vendor_id": vendorID,
		})
		return nil, err
	}
	return summaries, nil
}

func (r *restaurantRepository) FindByID(id uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := r.db.
		Preload("Dishes", "active = ?", true).
		Where("active = ?", true).
		First(&restaurant, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find restaurant by ID in database", err, map[string]interface{}{
				"restaurant_id": id,
			})
		}
		return nil, err
	}
	return &restaurant, nil
}

// FindByIDForVendor scopes the lookup to the owning vendor. A restaurant
// owned by someone else is indistinguishable from one that does not exist.
func (r *restaurantRepository) FindByIDForVendor(id, vendorID uint) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := r.db.
		Where("id = ? AND vendor_id = ? AND active = ?", id, vendorID, true).
		First(&restaurant).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find vendor restaurant in database", err, map[string]interface{}{
				"restaurant_id": id,
				"vendor_id":     vendorID,
			})
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) CreateTx(tx *gorm.DB, restaurant *model.Restaurant) error {
	logger.Debug("Creating restaurant in transaction", map[string]interface{}{
		"name":      restaurant.Name,
		"vendor_id": restaurant.VendorID,
	})

	if err := tx.Create(restaurant).Error; err != nil {
		logger.Error("Failed to create restaurant in transaction", err, map[string]interface{}{
			"name":      restaurant.Name,
			"vendor_id": restaurant.VendorID,
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) UpdateTx(tx *gorm.DB, restaurant *model.Restaurant) error {
	logger.Debug("Updating restaurant in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
	})

	if err := tx.Save(restaurant).Error; err != nil {
		logger.Error("Failed to update restaurant in database", err, map[string]interface{}{
			"restaurant_id": restaurant.ID,
		})
		return err
	}
	return nil
}

// DeleteTx deactivates the restaurant and soft-deletes it along with its
// dishes. Reviews are kept; they belong to the diners who wrote them.
func (r *restaurantRepository) DeleteTx(tx *gorm.DB, id uint) error {
	logger.Debug("Deleting restaurant from database", map[string]interface{}{
		"restaurant_id": id,
	})

	if err := tx.Model(&model.Restaurant{}).Where("id = ?", id).
		Update("active", false).Error; err != nil {
		return err
	}
	if err := tx.Where("restaurant_id = ?", id).Delete(&model.Dish{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Restaurant{}, id).Error
}
