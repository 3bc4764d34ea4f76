package service

import (
	"errors"

	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/internal/app/repository"
	"github.com/menuca/menuca-backend/internal/db"
	"github.com/menuca/menuca-backend/pkg/logger"
	"github.com/menuca/menuca-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrInvalidPriceTier   = errors.New("invalid price tier")
)

// DishInput is one dish submitted alongside a new restaurant. Price is a
// pointer so an absent price is distinguishable from a free dish.
type DishInput struct {
	Name           string   `json:"name"`
	Price          *float64 `json:"price"`
	Ingredients    string   `json:"ingredients"`
	IncludesDrink  bool     `json:"includes_drink"`
	AvailableUnits int      `json:"available_units"`
}

type CreateRestaurantInput struct {
	Name           string          `json:"name" binding:"required"`
	Location       string          `json:"location" binding:"required"`
	PriceTier      model.PriceTier `json:"price_tier" binding:"required"`
	CuisineType    string          `json:"cuisine_type" binding:"required"`
	AvgWaitMinutes int             `json:"avg_wait_minutes"`
	OpeningTime    string          `json:"opening_time"`
	ClosingTime    string          `json:"closing_time"`
	OfferCount     int             `json:"offer_count"`
	Dishes         []DishInput     `json:"dishes"`
}

type UpdateRestaurantInput struct {
	Name           *string          `json:"name"`
	Location       *string          `json:"location"`
	PriceTier      *model.PriceTier `json:"price_tier"`
	CuisineType    *string          `json:"cuisine_type"`
	AvgWaitMinutes *int             `json:"avg_wait_minutes"`
	OpeningTime    *string          `json:"opening_time"`
	ClosingTime    *string          `json:"closing_time"`
	OfferCount     *int             `json:"offer_count"`
}

type RestaurantService interface {
	GetRestaurants() ([]repository.RestaurantSummary, error)
	GetRestaurantsByVendor(vendorID uint) ([]repository.RestaurantSummary, error)
	GetRestaurantByID(id uint) (*model.Restaurant, error)
	CreateRestaurant(vendorID uint, input CreateRestaurantInput) (*model.Restaurant, int, error)
	UpdateRestaurant(vendorID, id uint, input UpdateRestaurantInput) (*model.Restaurant, error)
	DeleteRestaurant(vendorID, id uint) error
}

type restaurantService struct {
	registry   *db.Registry
	readRepo   repository.RestaurantRepository
	vendorRepo repository.RestaurantRepository
	dishRepo   repository.DishRepository
}

// NewRestaurantService wires the read path to the consumer pool repository
// and the write path to the vendor pool repository.
func NewRestaurantService(
	registry *db.Registry,
	readRepo repository.RestaurantRepository,
	vendorRepo repository.RestaurantRepository,
	dishRepo repository.DishRepository,
) RestaurantService {
	return &restaurantService{
		registry:   registry,
		readRepo:   readRepo,
		vendorRepo: vendorRepo,
		dishRepo:   dishRepo,
	}
}

func validPriceTier(tier model.PriceTier) bool {
	switch tier {
	case model.PriceEconomic, model.PriceModerate, model.PricePremium:
		return true
	}
	return false
}

// normalizeSummaryTimes rewrites stored opening/closing values to canonical
// HH:MM before they leave the service.
func normalizeSummaryTimes(summaries []repository.RestaurantSummary) {
	for i := range summaries {
		summaries[i].OpeningTime = util.FormatTime(summaries[i].OpeningTime)
		summaries[i].ClosingTime = util.FormatTime(summaries[i].ClosingTime)
	}
}

func (s *restaurantService) GetRestaurants() ([]repository.RestaurantSummary, error) {
	summaries, err := s.readRepo.FindSummaries()
	if err != nil {
		return nil, err
	}
	normalizeSummaryTimes(summaries)
	return summaries, nil
}

func (s *restaurantService) GetRestaurantsByVendor(vendorID uint) ([]repository.RestaurantSummary, error) {
	summaries, err := s.vendorRepo.FindSummariesByVendor(vendorID)
	if err != nil {
		return nil, err
	}
	normalizeSummaryTimes(summaries)
	return summaries, nil
}

func (s *restaurantService) GetRestaurantByID(id uint) (*model.Restaurant, error) {
	restaurant, err := s.readRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	restaurant.OpeningTime = util.FormatTime(restaurant.OpeningTime)
	restaurant.ClosingTime = util.FormatTime(restaurant.ClosingTime)
	return restaurant, nil
}

// CreateRestaurant persists a restaurant and its dishes as one unit: either
// the restaurant row and every accepted dish commit together, or nothing
// does. Dishes missing a name or a price are skipped without failing the
// registration; the skipped count is returned so the caller can report it.
func (s *restaurantService) CreateRestaurant(vendorID uint, input CreateRestaurantInput) (*model.Restaurant, int, error) {
	logger.Info("Registering restaurant", map[string]interface{}{
		"name":       input.Name,
		"vendor_id":  vendorID,
		"dish_count": len(input.Dishes),
	})

	if !validPriceTier(input.PriceTier) {
		return nil, 0, ErrInvalidPriceTier
	}

	restaurant := &model.Restaurant{
		Name:           input.Name,
		Location:       input.Location,
		PriceTier:      input.PriceTier,
		CuisineType:    input.CuisineType,
		AvgWaitMinutes: input.AvgWaitMinutes,
		OpeningTime:    input.OpeningTime,
		ClosingTime:    input.ClosingTime,
		OfferCount:     input.OfferCount,
		VendorID:       vendorID,
		Active:         true,
	}
	if restaurant.AvgWaitMinutes <= 0 {
		restaurant.AvgWaitMinutes = 20
	}

	skipped := 0
	err := s.registry.WithSessionUser(db.PoolVendor, vendorID, func(tx *gorm.DB) error {
		if err := s.vendorRepo.CreateTx(tx, restaurant); err != nil {
			return err
		}

		for _, d := range input.Dishes {
			if d.Name == "" || d.Price == nil {
				skipped++
				logger.Warn("Skipping incomplete dish", map[string]interface{}{
					"restaurant": input.Name,
					"dish_name":  d.Name,
				})
				continue
			}

			dish := &model.Dish{
				Name:           d.Name,
				Price:          *d.Price,
				Ingredients:    d.Ingredients,
				IncludesDrink:  d.IncludesDrink,
				AvailableUnits: d.AvailableUnits,
				RestaurantID:   restaurant.ID,
				Active:         true,
			}
			if err := s.dishRepo.CreateTx(tx, dish); err != nil {
				// One bad dish undoes the whole registration
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to register restaurant", err, map[string]interface{}{
			"vendor_id": vendorID,
			"name":      input.Name,
		})
		return nil, 0, err
	}

	logger.Info("Restaurant registered", map[string]interface{}{
		"restaurant_id":  restaurant.ID,
		"vendor_id":      vendorID,
		"dishes_created": len(input.Dishes) - skipped,
		"dishes_skipped": skipped,
	})

	return restaurant, skipped, nil
}

func (s *restaurantService) UpdateRestaurant(vendorID, id uint, input UpdateRestaurantInput) (*model.Restaurant, error) {
	restaurant, err := s.vendorRepo.FindByIDForVendor(id, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if input.PriceTier != nil && !validPriceTier(*input.PriceTier) {
		return nil, ErrInvalidPriceTier
	}

	if input.Name != nil {
		restaurant.Name = *input.Name
	}
	if input.Location != nil {
		restaurant.Location = *input.Location
	}
	if input.PriceTier != nil {
		restaurant.PriceTier = *input.PriceTier
	}
	if input.CuisineType != nil {
		restaurant.CuisineType = *input.CuisineType
	}
	if input.AvgWaitMinutes != nil {
		restaurant.AvgWaitMinutes = *input.AvgWaitMinutes
	}
	if input.OpeningTime != nil {
		restaurant.OpeningTime = *input.OpeningTime
	}
	if input.ClosingTime != nil {
		restaurant.ClosingTime = *input.ClosingTime
	}
	if input.OfferCount != nil {
		restaurant.OfferCount = *input.OfferCount
	}

	err = s.registry.WithSessionUser(db.PoolVendor, vendorID, func(tx *gorm.DB) error {
		return s.vendorRepo.UpdateTx(tx, restaurant)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Restaurant updated", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"vendor_id":     vendorID,
	})

	return restaurant, nil
}

func (s *restaurantService) DeleteRestaurant(vendorID, id uint) error {
	if _, err := s.vendorRepo.FindByIDForVendor(id, vendorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRestaurantNotFound
		}
		return err
	}

	err := s.registry.WithSessionUser(db.PoolVendor, vendorID, func(tx *gorm.DB) error {
		return s.vendorRepo.DeleteTx(tx, id)
	})
	if err != nil {
		return err
	}

	logger.Info("Restaurant deleted", map[string]interface{}{
		"restaurant_id": id,
		"vendor_id":     vendorID,
	})
	return nil
}
