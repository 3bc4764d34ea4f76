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
)

type restaurantTestEnv struct {
	router      *gin.Engine
	authService service.AuthService
}

func setupRestaurantControllerTest(t *testing.T) restaurantTestEnv {
	gin.SetMode(gin.TestMode)

	registry, err := db.SetupTestRegistry()
	require.NoError(t, err)

	authDB, err := registry.ForRole(db.PoolAuth)
	require.NoError(t, err)
	consumerDB, err := registry.ForRole(db.PoolConsumer)
	require.NoError(t, err)
	vendorDB, err := registry.ForRole(db.PoolVendor)
	require.NoError(t, err)

	authService := service.NewAuthService(
		registry, repository.NewUserRepository(authDB), testSecret, 24*time.Hour)
	restaurantService := service.NewRestaurantService(
		registry,
		repository.NewRestaurantRepository(consumerDB),
		repository.NewRestaurantRepository(vendorDB),
		repository.NewDishRepository(vendorDB),
	)

	ctrl := NewRestaurantController(restaurantService)
	authMiddleware := middleware.NewAuthMiddleware(testSecret)

	router := gin.New()
	router.GET("/restaurants", ctrl.GetRestaurants)
	router.GET("/restaurants/:id", ctrl.GetRestaurant)
	router.GET("/restaurants/mine",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleVendor),
		ctrl.GetMyRestaurants)
	router.POST("/restaurants/register",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleVendor),
		ctrl.RegisterRestaurant)
	router.DELETE("/restaurants/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.RoleVendor),
		ctrl.DeleteRestaurant)

	return restaurantTestEnv{router: router, authService: authService}
}

func registerTestUser(t *testing.T, env restaurantTestEnv, email, role string) string {
	_, token, err := env.authService.Register("Test", "User", email, "password123", role)
	require.NoError(t, err)
	return token
}

func restaurantBody() map[string]interface{} {
	return map[string]interface{}{
		"name":         "Trattoria",
		"location":     "Downtown",
		"price_tier":   "moderate",
		"cuisine_type": "italian",
		"opening_time": "09:00",
		"closing_time": "22:00",
		"dishes": []map[string]interface{}{
			{"name": "Carbonara", "price": 12.5},
			{"name": "", "price": 5.0},
		},
	}
}

func TestRestaurantController_Register_AsVendor(t *testing.T) {
	env := setupRestaurantControllerTest(t)
	token := registerTestUser(t, env, "vendor@example.com", "vendor")

	w := performJSON(env.router, "POST", "/restaurants/register", restaurantBody(), token)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["dishes_skipped"])
	assert.NotNil(t, response["restaurant"])
}

func TestRestaurantController_Register_AsConsumer(t *testing.T) {
	env := setupRestaurantControllerTest(t)
	token := registerTestUser(t, env, "diner@example.com", "consumer")

	// Consumers hold a perfectly valid token, but not the vendor role
	w := performJSON(env.router, "POST", "/restaurants/register", restaurantBody(), token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTHZ_ROLE_REQUIRED", response["error"])
}

func TestRestaurantController_Register_NoToken(t *testing.T) {
	env := setupRestaurantControllerTest(t)

	w := performJSON(env.router, "POST", "/restaurants/register", restaurantBody(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRestaurantController_GetRestaurants_Public(t *testing.T) {
	env := setupRestaurantControllerTest(t)
	token := registerTestUser(t, env, "vendor@example.com", "vendor")

	w := performJSON(env.router, "POST", "/restaurants/register", restaurantBody(), token)
	require.Equal(t, http.StatusCreated, w.Code)

	// Listing requires no authentication
	w = performJSON(env.router, "GET", "/restaurants", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])

	restaurants := response["restaurants"].([]interface{})
	first := restaurants[0].(map[string]interface{})
	assert.Equal(t, "09:00", first["opening_time"])
	assert.Equal(t, float64(1), first["dish_count"])
}

func TestRestaurantController_GetRestaurant_NotFound(t *testing.T) {
	env := setupRestaurantControllerTest(t)

	w := performJSON(env.router, "GET", "/restaurants/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(env.router, "GET", "/restaurants/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestaurantController_Delete_OnlyOwner(t *testing.T) {
	env := setupRestaurantControllerTest(t)
	owner := registerTestUser(t, env, "owner@example.com", "vendor")
	rival := registerTestUser(t, env, "rival@example.com", "vendor")

	w := performJSON(env.router, "POST", "/restaurants/register", restaurantBody(), owner)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	restaurant := created["restaurant"].(map[string]interface{})
	id := int(restaurant["id"].(float64))

	w = performJSON(env.router, "DELETE", "/restaurants/"+strconv.Itoa(id), nil, rival)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(env.router, "DELETE", "/restaurants/"+strconv.Itoa(id), nil, owner)
	assert.Equal(t, http.StatusOK, w.Code)
}
