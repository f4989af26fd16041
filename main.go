// main.go
package main

import (
	"log"
	"os"
	"time"

	"goaltrack/database"
	"goaltrack/handlers"
	"goaltrack/middleware"
	"goaltrack/repository"
	"goaltrack/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	db := database.GetDB()

	// Seed the achievement catalog and load it for the evaluator
	if err := services.SeedAchievements(db); err != nil {
		log.Fatalf("Failed to seed achievement catalog: %v", err)
	}
	catalog, err := services.LoadCatalog(db)
	if err != nil {
		log.Fatalf("Failed to load achievement catalog: %v", err)
	}

	// Repositories
	progressRepo := repository.NewProgressRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)

	// Services
	achievementSvc := services.NewAchievementService(catalog, progressRepo, notificationRepo)
	streakSvc := services.NewStreakService(activityRepo)
	eventSvc := services.NewEventService(metricsRepo, achievementSvc, streakSvc)

	// Periodic notification cleanup
	maintenance := services.NewMaintenanceService(notificationRepo, 6*time.Hour, 30*24*time.Hour)
	maintenance.Start()
	defer maintenance.Stop()

	// Handlers
	engagementHandler := handlers.NewEngagementHandler(achievementSvc, streakSvc, notificationRepo)
	goalHandler := handlers.NewGoalHandler(db, eventSvc)
	socialHandler := handlers.NewSocialHandler(db, eventSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Business hooks: persist the domain row, then run the engagement engine.
	// Writes carry a stricter rate limit.
	goalGroup := api.Group("/goals")
	goalGroup.Use(middleware.AuthMiddleware)
	goalGroup.Use(middleware.FiberWriteRateLimitMiddleware())
	goalGroup.Post("/", goalHandler.CreateGoal)
	goalGroup.Post("/:id/complete", goalHandler.CompleteGoal)
	goalGroup.Post("/:id/milestones/:mid/complete", goalHandler.CompleteMilestone)

	api.Post("/notes", middleware.AuthMiddleware, middleware.FiberWriteRateLimitMiddleware(), goalHandler.CreateNote)
	api.Post("/checkins", middleware.AuthMiddleware, middleware.FiberWriteRateLimitMiddleware(), goalHandler.CreateCheckIn)
	api.Post("/login-ping", middleware.AuthMiddleware, goalHandler.LoginPing)

	// Community hooks
	postGroup := api.Group("/posts")
	postGroup.Use(middleware.AuthMiddleware)
	postGroup.Use(middleware.FiberWriteRateLimitMiddleware())
	postGroup.Post("/", socialHandler.CreatePost)
	postGroup.Post("/:id/like", socialHandler.LikePost)
	postGroup.Post("/:id/comments", socialHandler.CreateComment)

	// Auxiliary usage hooks
	api.Post("/usage/ai", middleware.AuthMiddleware, socialHandler.RecordAIUsage)
	api.Post("/usage/export", middleware.AuthMiddleware, socialHandler.RecordExport)

	// Engagement routes (require authentication)
	api.Post("/activity", middleware.AuthMiddleware, engagementHandler.RecordActivity)
	api.Get("/streaks", middleware.AuthMiddleware, engagementHandler.GetStreaks)
	api.Get("/streaks/leaderboard", engagementHandler.GetStreakLeaderboard)

	achievementGroup := api.Group("/achievements")
	achievementGroup.Use(middleware.AuthMiddleware)
	achievementGroup.Get("/", engagementHandler.GetUserAchievements)
	achievementGroup.Get("/stats", engagementHandler.GetUserAchievementStats)

	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware)
	notificationGroup.Get("/", engagementHandler.GetNotifications)
	notificationGroup.Post("/:id/read", engagementHandler.MarkNotificationRead)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	// Start HTTP server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
