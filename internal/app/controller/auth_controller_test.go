package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menuca/menuca-backend/internal/app/repository"
	"github.com/menuca/menuca-backend/internal/app/service"
	"github.com/menuca/menuca-backend/internal/db"
	"github.com/menuca/menuca-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupAuthControllerTest(t *testing.T) (*gin.Engine, service.AuthService) {
	gin.SetMode(gin.TestMode)

	registry, err := db.SetupTestRegistry()
	require.NoError(t, err)

	authDB, err := registry.ForRole(db.PoolAuth)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(authDB)
	authService := service.NewAuthService(registry, userRepo, testSecret, 24*time.Hour)

	ctrl := NewAuthController(authService, 24*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(testSecret)

	router := gin.New()
	router.POST("/register", ctrl.Register)
	router.POST("/login", ctrl.Login)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.GetMe)
	router.POST("/logout", authMiddleware.Authenticate(), ctrl.Logout)

	return router, authService
}

func performJSON(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register_Success(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := performJSON(router, "POST", "/register", RegisterRequest{
		Name:     "Ana",
		Surname:  "Silva",
		Email:    "ana@example.com",
		Password: "password123",
		Role:     "consumer",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "User registered successfully", response["message"])
	assert.NotNil(t, response["user"])
	assert.NotEmpty(t, response["token"])
}

func TestAuthController_Register_InvalidRole(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := performJSON(router, "POST", "/register", RegisterRequest{
		Name:     "Eve",
		Surname:  "Intruder",
		Email:    "eve@example.com",
		Password: "password123",
		Role:     "superuser",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_INVALID_ROLE", response["error"])
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	body := RegisterRequest{
		Name:     "Ana",
		Surname:  "Silva",
		Email:    "ana@example.com",
		Password: "password123",
		Role:     "consumer",
	}
	w := performJSON(router, "POST", "/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, "POST", "/register", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTH_EMAIL_EXISTS", response["error"])
}

func TestAuthController_Login(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register("Ana", "Silva", "ana@example.com", "password123", "consumer")
	require.NoError(t, err)

	w := performJSON(router, "POST", "/login", LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, "POST", "/login", LoginRequest{
		Email:    "ana@example.com",
		Password: "wrongpassword",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_GetMe(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, token, err := authService.Register("Ana", "Silva", "ana@example.com", "password123", "consumer")
	require.NoError(t, err)

	w := performJSON(router, "GET", "/me", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "consumer", user["role"])
}

func TestAuthController_GetMe_NoToken(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := performJSON(router, "GET", "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTH_TOKEN_MISSING", response["error"])
}

func TestAuthController_GetMe_BadToken(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := performJSON(router, "GET", "/me", nil, "not-a-real-token")
	assert.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTH_TOKEN_INVALID", response["error"])
}

func TestAuthController_Logout(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, token, err := authService.Register("Ana", "Silva", "ana@example.com", "password123", "consumer")
	require.NoError(t, err)

	// Without a Redis client the blacklist is disabled; logout still succeeds
	w := performJSON(router, "POST", "/logout", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}
