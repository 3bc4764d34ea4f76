package router

import (
	"github.com/gin-gonic/gin"
	"github.com/menuca/menuca-backend/config"
	"github.com/menuca/menuca-backend/internal/app/controller"
	"github.com/menuca/menuca-backend/internal/app/model"
	"github.com/menuca/menuca-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	restaurantController *controller.RestaurantController
	dishController       *controller.DishController
	reviewController     *controller.ReviewController
	adminController      *controller.AdminController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	restaurantController *controller.RestaurantController,
	dishController *controller.DishController,
	reviewController *controller.ReviewController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		restaurantController: restaurantController,
		dishController:       dishController,
		reviewController:     reviewController,
		adminController:      adminController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MenuCA API is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/update-profile", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
			auth.PUT("/change-password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
		}

		restaurants := api.Group("/restaurants")
		{
			restaurants.GET("", r.restaurantController.GetRestaurants)
			restaurants.GET("/mine",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.restaurantController.GetMyRestaurants,
			)
			restaurants.GET("/:id", r.restaurantController.GetRestaurant)
			restaurants.POST("/register",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.restaurantController.RegisterRestaurant,
			)
			restaurants.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.restaurantController.UpdateRestaurant,
			)
			restaurants.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.restaurantController.DeleteRestaurant,
			)

			restaurants.GET("/:id/dishes", r.dishController.GetDishes)
			restaurants.POST("/:id/dishes",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.dishController.CreateDish,
			)
			restaurants.PUT("/:id/dishes/:dishId",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.dishController.UpdateDish,
			)
			restaurants.DELETE("/:id/dishes/:dishId",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleVendor),
				r.dishController.DeleteDish,
			)

			restaurants.GET("/:id/reviews", r.reviewController.GetReviews)
			// Any authenticated account may review; there is no role gate here
			restaurants.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.CreateReview,
			)
		}

		admin := api.Group("/admin")
		admin.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(model.RoleAdministrator),
		)
		{
			admin.GET("/users", r.adminController.ListUsers)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
