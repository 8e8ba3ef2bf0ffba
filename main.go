package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/controllers"
	"github.com/ella-marsh/handyhub-api/middleware"
	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.InitLogger(cfg.LogLevel, cfg.GoEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer config.Log.Sync()

	config.Log.Info("Starting HandyHub API server...")

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		config.Log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	db := config.GetDB()
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Service{},
		&models.Order{},
		&models.Review{},
		&models.Notification{},
	)
	if err != nil {
		config.Log.Fatal("Failed to migrate database", zap.Error(err))
	}
	config.Log.Info("Database migration completed successfully")

	if err := config.SeedDatabase(db); err != nil {
		config.Log.Fatal("Failed to seed database", zap.Error(err))
	}

	// Initialize services
	services.InitTokenService(cfg.JWTSecret)
	services.InitEventPublisher(cfg)
	services.InitNotifier(services.InitNotificationHub())
	services.InitOrderService()
	services.InitStatsService()

	// Image storage is optional; the upload endpoints report it unavailable
	// when no bucket is configured
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			config.Log.Fatal("Failed to initialize S3 service", zap.Error(err))
		}
		services.InitImageService(s3Service)
		config.Log.Info("Image storage initialized", zap.String("bucket", cfg.AWSS3Bucket))
	} else {
		config.Log.Warn("AWS_S3_BUCKET not set, image uploads disabled")
	}

	router := setupRouter(cfg)

	defer func() {
		if publisher := services.GetEventPublisher(); publisher != nil {
			publisher.Close()
		}
	}()

	// Start server
	addr := ":" + cfg.Port
	config.Log.Info("Server is running", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		config.Log.Fatal("Failed to start server", zap.Error(err))
	}
}

// setupRouter builds the gin engine with all middleware and routes
func setupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if !cfg.IsTest() {
		router.Use(gin.Logger())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	tokens := services.GetTokenService()

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Authentication
		auth := v1.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
		}

		// Public catalog
		v1.GET("/categories", controllers.ListCategories)
		v1.GET("/categories/:id", controllers.GetCategory)
		v1.GET("/services", controllers.ListServices)
		v1.GET("/services/:id", controllers.GetService)
		v1.GET("/services/category/:categoryId", controllers.ListServicesByCategory)
		v1.GET("/services/provider/:providerId", controllers.ListServicesByProvider)
		v1.GET("/reviews", controllers.ListReviews)
		v1.GET("/reviews/service/:serviceId", controllers.ListReviewsByService)
		v1.GET("/reviews/provider/:providerId", controllers.ListReviewsByProvider)

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.RequireAuth(tokens))
		{
			// Profile
			authed.GET("/users/me", controllers.GetMyProfile)
			authed.PUT("/users/me", controllers.UpdateMyProfile)
			authed.GET("/users/:id", controllers.GetUserByID)
			authed.GET("/users/username/:username", controllers.GetUserByUsername)

			// Notifications
			authed.GET("/notifications", controllers.ListMyNotifications)
			authed.PUT("/notifications/:id/read", controllers.MarkNotificationRead)
			authed.GET("/notifications/stream", controllers.StreamNotifications)

			// Customer orders and reviews
			customer := authed.Group("")
			customer.Use(middleware.RequireRole(models.RoleCustomer, models.RoleAdmin))
			{
				customer.POST("/orders", controllers.CreateOrder)
				customer.GET("/orders/my", controllers.GetMyOrders)
				customer.DELETE("/orders/:id", controllers.CancelOrder)
				customer.POST("/reviews", controllers.CreateReview)
				customer.PUT("/reviews/:id", controllers.UpdateReview)
			}

			authed.GET("/orders/:id", controllers.GetOrder)

			// Provider management
			provider := authed.Group("")
			provider.Use(middleware.RequireRole(models.RoleProvider, models.RoleAdmin))
			{
				provider.GET("/orders/my-provider", controllers.GetMyProviderOrders)
				provider.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
				provider.GET("/orders/provider/stats", controllers.GetProviderStats)
				provider.POST("/services", controllers.CreateService)
				provider.PUT("/services/:id", controllers.UpdateService)
				provider.DELETE("/services/:id", controllers.DeleteService)
				provider.POST("/services/:id/image", controllers.UploadServiceImage)
			}

			// Admin surface
			admin := authed.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/stats", controllers.GetPlatformStats)

				admin.GET("/users", controllers.ListUsers)
				admin.POST("/users", controllers.AdminCreateUser)
				admin.PUT("/users/:id/status", controllers.UpdateUserStatus)
				admin.PUT("/users/:id/role", controllers.UpdateUserRole)
				admin.DELETE("/users/:id", controllers.DeleteUser)

				admin.GET("/categories", controllers.ListCategories)
				admin.POST("/categories", controllers.CreateCategory)
				admin.PUT("/categories/:id", controllers.UpdateCategory)
				admin.DELETE("/categories/:id", controllers.DeleteCategory)

				admin.GET("/services", controllers.ListAllServices)
				admin.PUT("/services/:id/status", controllers.UpdateServiceStatus)
				admin.DELETE("/services/:id", controllers.AdminDeleteService)

				admin.GET("/orders", controllers.ListAllOrders)
				admin.POST("/orders", controllers.AdminCreateOrder)
				admin.PUT("/orders/:id/status", controllers.AdminUpdateOrderStatus)
				admin.DELETE("/orders/:id", controllers.AdminDeleteOrder)

				admin.DELETE("/reviews/:id", controllers.DeleteReview)
			}
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "HandyHub API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
