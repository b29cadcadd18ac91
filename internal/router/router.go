// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tapreview/tapreview-backend/internal/config"
	"github.com/tapreview/tapreview-backend/internal/handlers"
	"github.com/tapreview/tapreview-backend/internal/middleware"
	"github.com/tapreview/tapreview-backend/internal/services"
	"github.com/tapreview/tapreview-backend/internal/utils"
)

func Initialize(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	placesService, _ := services.NewPlacesService(cfg)
	socialService := services.NewSocialMediaService(cfg, rdb)

	authService := services.NewAuthService(db, cfg)
	inventoryService := services.NewInventoryService(db)
	transactionService := services.NewTransactionService(db, inventoryService)
	catalogService := services.NewCatalogService(db)
	tagLogService := services.NewTagLogService(db)
	analyticsService := services.NewAnalyticsService(db)
	paymentService := services.NewPaymentService(db, cfg, transactionService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	placesHandler := handlers.NewPlacesHandler(placesService, socialService, cfg)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	nfcTagHandler := handlers.NewNFCTagHandler(tagLogService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	uploadHandler := handlers.NewUploadHandler(storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/me", middleware.AuthRequired(), authHandler.UpdateProfile)
			auth.PUT("/me/password", middleware.AuthRequired(), authHandler.ChangePassword)
		}

		// Places proxy routes
		places := v1.Group("/places")
		places.Use(middleware.AuthRequired(), middleware.PlacesRateLimit())
		{
			places.GET("/search", placesHandler.Search)
			places.GET("/text-search", middleware.AdminRequired(), placesHandler.TextSearch)
			places.GET("/social-media", placesHandler.SocialMedia)
		}

		// Mobile catalog
		mobile := v1.Group("/mobile")
		mobile.Use(middleware.AuthRequired())
		{
			mobile.GET("/products", catalogHandler.ListMobileProducts)
		}

		// Product routes
		products := v1.Group("/products")
		products.Use(middleware.AuthRequired())
		{
			products.GET("/:id", catalogHandler.GetProduct)
			products.POST("", middleware.AdminRequired(), catalogHandler.CreateProduct)
		}

		// Sign type routes
		signTypes := v1.Group("/sign-types")
		signTypes.Use(middleware.AuthRequired())
		{
			signTypes.GET("", catalogHandler.ListSignTypes)
			signTypes.POST("", middleware.AdminRequired(), catalogHandler.CreateSignType)
			signTypes.PUT("/:id", middleware.AdminRequired(), catalogHandler.UpdateSignType)
			signTypes.DELETE("/:id", middleware.AdminRequired(), catalogHandler.DeleteSignType)
		}

		// Sale transaction ledger
		transactions := v1.Group("/transactions")
		transactions.Use(middleware.AuthRequired())
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PUT("/:id", transactionHandler.Update)
		}

		// Legacy tag write-log
		nfcTags := v1.Group("/nfc-tags")
		nfcTags.Use(middleware.AuthRequired())
		{
			nfcTags.POST("", nfcTagHandler.Create)
			nfcTags.POST("/verify", nfcTagHandler.Verify)
			nfcTags.GET("", middleware.AdminRequired(), nfcTagHandler.List)
		}

		// Inventory aggregate
		inventory := v1.Group("/inventory")
		inventory.Use(middleware.AuthRequired())
		{
			inventory.GET("", inventoryHandler.Get)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.CreateIntent)
			payments.POST("/confirm", paymentHandler.Confirm)
			payments.POST("/refund", middleware.AdminRequired(), paymentHandler.Refund)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			analytics := admin.Group("/analytics")
			{
				analytics.GET("/dashboard", analyticsHandler.Dashboard)
				analytics.GET("/sales-trend", analyticsHandler.SalesTrend)
				analytics.GET("/sign-popularity", analyticsHandler.SignPopularity)
				analytics.GET("/top-agents", analyticsHandler.TopAgents)
			}

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", analyticsHandler.GetUsers)
				adminUsers.PUT("/:id/status", analyticsHandler.UpdateUserStatus)
				adminUsers.PUT("/:id/role", analyticsHandler.UpdateUserRole)
			}

			admin.POST("/uploads/:category", middleware.UploadRateLimit(), uploadHandler.Upload)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
