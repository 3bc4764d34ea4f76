package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/internal/app/repository"
	"github.com/menuca/menuca-backend/internal/app/service"
	"github.com/menuca/menuca-backend/internal/db"
	"github.com/menuca/menuca-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewControllerTest(t *testing.T) (*gin.Engine, service.AuthService, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	registry, err := db.SetupTestRegistry()
	require.NoError(t, err)

	authDB, err := registry.ForRole(db.PoolAuth)
	require.NoError(t, err)
	consumerDB, err := registry.ForRole(db.PoolConsumer)
	require.NoError(t, err)

	authService := service.NewAuthService(
		registry, repository.NewUserRepository(authDB), testSecret, 24*time.Hour)
	reviewService := service.NewReviewService(
		registry,
		repository.NewReviewRepository(consumerDB),
		repository.NewRestaurantRepository(consumerDB),
	)

	ctrl := NewReviewController(reviewService)
	authMiddleware := middleware.NewAuthMiddleware(testSecret)

	router := gin.New()
	router.GET("/restaurants/:id/reviews", ctrl.GetReviews)
	router.POST("/restaurants/:id/reviews",
		authMiddleware.Authenticate(),
		ctrl.CreateReview)

	return router, authService, consumerDB
}

func createReviewTestRestaurant(t *testing.T, testDB *gorm.DB) *model.Restaurant {
	vendor := &model.User{
		Name: "Vendor", Surname: "Owner", Email: "vendor@example.com",
		PasswordHash: "x", Role: model.RoleVendor,
	}
	require.NoError(t, testDB.Create(vendor).Error)

	restaurant := &model.Restaurant{
		Name: "Trattoria", Location: "Downtown", PriceTier: model.PriceModerate,
		CuisineType: "italian", VendorID: vendor.ID, Active: true,
	}
	require.NoError(t, testDB.Create(restaurant).Error)
	return restaurant
}

func TestReviewController_CreateReview(t *testing.T) {
	router, authService, testDB := setupReviewControllerTest(t)
	restaurant := createReviewTestRestaurant(t, testDB)

	_, token, err := authService.Register("Ana", "Silva", "ana@example.com", "password123", "consumer")
	require.NoError(t, err)

	path := "/restaurants/" + strconv.Itoa(int(restaurant.ID)) + "/reviews"

	w := performJSON(router, "POST", path, map[string]interface{}{
		"score": 4,
		"title": "Solid pasta",
	}, token)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Second submission from the same diner conflicts
	w = performJSON(router, "POST", path, map[string]interface{}{
		"score": 2,
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "REVIEW_ALREADY_EXISTS", response["error"])
}

func TestReviewController_CreateReview_ScoreOutOfRange(t *testing.T) {
	router, authService, testDB := setupReviewControllerTest(t)
	restaurant := createReviewTestRestaurant(t, testDB)

	_, token, err := authService.Register("Ana", "Silva", "ana@example.com", "password123", "consumer")
	require.NoError(t, err)

	path := "/restaurants/" + strconv.Itoa(int(restaurant.ID)) + "/reviews"

	w := performJSON(router, "POST", path, map[string]interface{}{
		"score": 6,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "REVIEW_INVALID_SCORE", response["error"])
}

func TestReviewController_CreateReview_AnyAuthenticatedRole(t *testing.T) {
	router, authService, testDB := setupReviewControllerTest(t)
	restaurant := createReviewTestRestaurant(t, testDB)

	path := "/restaurants/" + strconv.Itoa(int(restaurant.ID)) + "/reviews"

	// A token is required, but any role may review
	_, vendorToken, err := authService.Register("Bruno", "Costa", "bruno@example.com", "password123", "vendor")
	require.NoError(t, err)
	w := performJSON(router, "POST", path, map[string]interface{}{
		"score": 5,
	}, vendorToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	_, adminToken, err := authService.Register("Clara", "Nunes", "clara@example.com", "password123", "administrator")
	require.NoError(t, err)
	w = performJSON(router, "POST", path, map[string]interface{}{
		"score": 3,
	}, adminToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, "POST", path, map[string]interface{}{
		"score": 4,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewController_GetReviews_Public(t *testing.T) {
	router, authService, testDB := setupReviewControllerTest(t)
	restaurant := createReviewTestRestaurant(t, testDB)

	_, token, err := authService.Register("Ana", "Silva", "ana@example.com", "password123", "consumer")
	require.NoError(t, err)

	path := "/restaurants/" + strconv.Itoa(int(restaurant.ID)) + "/reviews"

	w := performJSON(router, "POST", path, map[string]interface{}{
		"score": 4,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, "GET", path, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}
