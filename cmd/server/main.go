// @title           SmartWish Marketplace API
// @version         1.0.0
// @description     Backend API for the SmartWish greeting-card marketplace. Handles draft design CRUD, the publish pipeline (image variant generation, preview composites, storage upload, metadata persistence) and marketplace browsing.

// @contact.name   API Support
// @contact.email  support@smartwish.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"net/http"
	"net/url"

	"smartwish-backend/docs"
	"smartwish-backend/internal/config"
	"smartwish-backend/internal/database"
	"smartwish-backend/internal/handlers"
	"smartwish-backend/internal/images"
	"smartwish-backend/internal/middleware"
	"smartwish-backend/internal/services"
	"smartwish-backend/internal/supabase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set. Migrations will be skipped.")
		log.Println("Please set DATABASE_URL environment variable with your Supabase PostgreSQL connection string")
	}

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	var dbClient *supabase.DatabaseClient
	if cfg.DatabaseURL != "" {
		dbClient, err = supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize database client: %v", err)
			log.Println("Database operations will be limited. Please configure DATABASE_URL properly.")
		} else {
			defer dbClient.Close()

			migrator, err := database.NewMigrator(cfg.DatabaseURL)
			if err != nil {
				log.Printf("Warning: Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Printf("Warning: Migration failed: %v", err)
				} else {
					log.Println("Migrations completed successfully")
				}
			}
		}
	}

	analytics := supabase.NewAnalyticsRecorder(supabaseClient, dbClient)
	processor := images.NewProcessor(storageClient)

	var publishService *services.PublishService
	if dbClient != nil {
		publishService = services.NewPublishService(dbClient, storageClient, processor, analytics)
	} else {
		log.Println("Warning: Publish service not available without a database connection.")
	}

	designsHandler := handlers.NewDesignsHandler(dbClient)
	publishHandler := handlers.NewPublishHandler(publishService)
	marketplaceHandler := handlers.NewMarketplaceHandler(publishService)

	router := gin.Default()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	// Marketplace browsing is public
	api.GET("/marketplace/designs", marketplaceHandler.ListDesigns)
	api.GET("/marketplace/designs/:design_id", marketplaceHandler.GetDesign)
	api.POST("/marketplace/designs/:design_id/download", marketplaceHandler.Download)

	// Everything else requires a Supabase JWT
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))

	authed.POST("/designs", designsHandler.CreateDesign)
	authed.GET("/designs", designsHandler.ListDesigns)
	authed.GET("/designs/:design_id", designsHandler.GetDesign)
	authed.PUT("/designs/:design_id", designsHandler.UpdateDesign)
	authed.DELETE("/designs/:design_id", designsHandler.DeleteDesign)

	authed.POST("/marketplace/publish", publishHandler.Publish)
	authed.POST("/marketplace/designs/:design_id/unpublish", publishHandler.Unpublish)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
