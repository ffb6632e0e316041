package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"run2rejuvenate-api/config"
	"run2rejuvenate-api/database"
	"run2rejuvenate-api/jobs"
	"run2rejuvenate-api/middleware"
	"run2rejuvenate-api/routes"
	"run2rejuvenate-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Object storage for the photo gallery. The API stays up without it;
	// photo uploads report the misconfiguration instead.
	var storage services.ObjectStorage
	minioStorage, err := services.NewMinioStorage(cfg)
	if err != nil {
		log.Printf("Warning: Photo storage unavailable: %v", err)
	} else {
		storage = minioStorage
	}

	emailService := services.NewEmailService(cfg)

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()

	router.Use(middleware.SetupCORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit(120, 20))

	// Request logging middleware
	router.Use(gin.Logger())

	// Recovery middleware
	router.Use(gin.Recovery())

	// Setup routes
	routes.SetupRoutes(router, db, cfg, storage, emailService)

	// Sweep orphaned photo objects in the background
	if storage != nil {
		cleanupJob := jobs.NewStorageCleanupJob(db, storage, time.Hour)
		cleanupJob.Start()
		defer cleanupJob.Stop()
	}

	// Start server
	log.Printf("Starting Run2Rejuvenate API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/api/v1/health", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
