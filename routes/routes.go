package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"run2rejuvenate-api/config"
	"run2rejuvenate-api/controllers"
	"run2rejuvenate-api/middleware"
	"run2rejuvenate-api/repositories"
	"run2rejuvenate-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, storage services.ObjectStorage, emailService *services.EmailService) {
	// Services
	progressRepo := repositories.NewProgressRepository(db)
	leaderboardService := services.NewLeaderboardService(progressRepo)

	// Controllers
	userController := controllers.NewUserController(db, emailService)
	eventController := controllers.NewEventController(db, emailService)
	progressController := controllers.NewProgressController(db, leaderboardService)
	articleController := controllers.NewArticleController(db)
	photoController := controllers.NewPhotoController(db, storage)

	// API version 1
	v1 := r.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes (token parsed when present)
	public := v1.Group("/")
	public.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret))
	{
		public.GET("/events", eventController.GetEvents)
		public.GET("/events/:id", eventController.GetEvent)

		public.GET("/articles", articleController.GetArticles)
		public.GET("/articles/:id", articleController.GetArticle)

		public.GET("/photos", photoController.GetPhotos)
		public.GET("/photos/:id", photoController.GetPhoto)

		public.GET("/users/check-email", userController.CheckEmail)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		users := protected.Group("/users")
		{
			users.POST("/register", userController.RegisterUser)
			users.GET("/me", userController.GetMe)
			users.PUT("/me", userController.UpdateMe)
		}

		events := protected.Group("/events")
		{
			events.POST("/:id/register", eventController.RegisterForEvent)
			events.POST("/:id/unregister", eventController.UnregisterFromEvent)
			events.GET("/user/registered", eventController.GetRegisteredEvents)
		}

		progress := protected.Group("/progress")
		{
			progress.POST("", progressController.CreateProgress)
			progress.GET("", progressController.GetMyProgress)
			progress.GET("/:id", progressController.GetProgress)
			progress.PUT("/:id", progressController.UpdateProgress)
			progress.DELETE("/:id", progressController.DeleteProgress)
			progress.GET("/event/:id", progressController.GetEventProgress)
			progress.GET("/event/:id/leaderboard", progressController.GetLeaderboard)
			progress.GET("/event/:id/summary", progressController.GetEventSummary)
		}
	}

	// Admin-only routes
	admin := v1.Group("/")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.AdminMiddleware())
	{
		admin.POST("/events", eventController.CreateEvent)
		admin.PUT("/events/:id", eventController.UpdateEvent)
		admin.DELETE("/events/:id", eventController.DeleteEvent)

		admin.POST("/articles", articleController.CreateArticle)
		admin.PUT("/articles/:id", articleController.UpdateArticle)
		admin.DELETE("/articles/:id", articleController.DeleteArticle)

		admin.POST("/photos", photoController.CreatePhoto)
		admin.PUT("/photos/:id", photoController.UpdatePhoto)
		admin.DELETE("/photos/:id", photoController.DeletePhoto)

		admin.GET("/users", userController.GetUsers)
		admin.GET("/users/:id", userController.GetUser)
		admin.PUT("/users/:id", userController.UpdateUser)
		admin.DELETE("/users/:id", userController.DeleteUser)
	}
}
