package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"parlez/catalog"
	"parlez/content"
	"parlez/database"
	"parlez/engine"
	"parlez/handlers"
	"parlez/middleware"
	"parlez/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Load the static catalogs
	courses, err := catalog.LoadCourses()
	if err != nil {
		log.Fatalf("FATAL: invalid course catalog: %v", err)
	}
	badges, err := catalog.LoadBadges()
	if err != nil {
		log.Fatalf("FATAL: invalid badge catalog: %v", err)
	}

	// Load course content
	contentDir := getEnv("CONTENT_DIR", "./content/courses")
	library, err := content.Load(contentDir, courses)
	if err != nil {
		log.Fatalf("FATAL: failed to load course content: %v", err)
	}

	// Wire the engine to the server store
	eng := engine.New(database.NewStore(database.GetDB()), courses, badges)

	hub := handlers.NewHub()
	eng.Notify = hub.Publish

	handlers.Init(eng, library)

	// Initialize cleanup service
	services.InitCleanupService()
	defer func() {
		if cleanupService := services.GetCleanupService(); cleanupService != nil {
			cleanupService.Stop()
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

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

	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)

	// Course routes
	courseGroup := api.Group("/courses")
	courseGroup.Use(middleware.AuthMiddleware)
	courseGroup.Get("/", handlers.GetCourses)
	courseGroup.Get("/:id/content", handlers.GetCourseContent)
	courseGroup.Get("/:id/progress", handlers.GetCourseProgress)
	courseGroup.Post("/:id/progress", handlers.UpdateCourseProgress)
	courseGroup.Delete("/:id/progress", handlers.ResetCourseProgress)
	courseGroup.Post("/:id/session", handlers.StartSession)
	courseGroup.Post("/:id/evaluate", handlers.Evaluate)

	// Points routes
	pointsGroup := api.Group("/points")
	pointsGroup.Use(middleware.AuthMiddleware)
	pointsGroup.Get("/", handlers.GetPoints)
	pointsGroup.Post("/", handlers.AddPoints)
	pointsGroup.Get("/history", handlers.GetPointsHistory)

	// Check-in routes
	checkinGroup := api.Group("/checkin")
	checkinGroup.Use(middleware.AuthMiddleware)
	checkinGroup.Post("/", handlers.CheckIn)
	checkinGroup.Get("/", handlers.GetCheckInInfo)

	// Mistake book routes
	mistakeGroup := api.Group("/mistakes")
	mistakeGroup.Use(middleware.AuthMiddleware)
	mistakeGroup.Get("/", handlers.GetMistakes)
	mistakeGroup.Post("/:questionId/review", handlers.ReviewMistake)

	// Badge routes
	badgeGroup := api.Group("/badges")
	badgeGroup.Use(middleware.AuthMiddleware)
	badgeGroup.Get("/", handlers.GetBadges)
	badgeGroup.Post("/check", handlers.CheckBadges)

	// Stats routes
	statsGroup := api.Group("/stats")
	statsGroup.Use(middleware.AuthMiddleware)
	statsGroup.Get("/", handlers.GetLearningStats)
	statsGroup.Post("/vocab", handlers.RecordVocabulary)
	statsGroup.Post("/conversation", handlers.RecordConversation)

	// Live award feed
	app.Use("/ws", handlers.UpgradeRequired)
	app.Get("/ws/awards", middleware.WebSocketAuthMiddleware, handlers.AwardsSocket(hub))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("📚 Courses loaded: %d", courses.Len())
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

	if os.Getenv("APP_ENV") == "production" {
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
