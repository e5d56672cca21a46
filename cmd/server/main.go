package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"pulsefeed/internal/config"
	"pulsefeed/internal/database"
	"pulsefeed/internal/handlers"
	"pulsefeed/internal/logging"
	"pulsefeed/internal/middleware"
	"pulsefeed/internal/services"
	"pulsefeed/pkg/auth"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting PulseFeed Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	// Initialize MongoDB
	if cfg.MongoURI == "" {
		log.Fatal("❌ MONGODB_URI environment variable is required")
	}
	log.Println("🔗 Connecting to MongoDB...")
	mongoDB, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())

	if err := mongoDB.Initialize(context.Background()); err != nil {
		log.Fatalf("❌ Failed to initialize MongoDB indexes: %v", err)
	}

	// Initialize Redis (seen-state tracking + ranking snapshots)
	log.Println("🔗 Connecting to Redis...")
	redisService, err := services.NewRedisService(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	// Initialize Prometheus metrics
	services.InitMetrics()
	log.Println("✅ Prometheus metrics initialized")

	// Initialize services
	userService := services.NewUserService(mongoDB)
	log.Println("✅ User service initialized")

	feedService := services.NewFeedService(mongoDB, cfg.FeedPageSize)
	log.Println("✅ Feed service initialized")

	seenTracker := services.NewSeenTracker(redisService)
	log.Println("✅ Seen tracker initialized")

	predictorClient := services.NewPredictorClient(cfg.PredictorURL, cfg.PredictorTimeout, cfg.PredictorRPS)
	log.Printf("✅ Predictor client initialized (%s, timeout %s)", cfg.PredictorURL, cfg.PredictorTimeout)

	suggestionService := services.NewSuggestionService(seenTracker, predictorClient, userService, services.SuggestionConfig{
		MinContentThreshold: cfg.MinContentThreshold,
		MinDiffTime:         cfg.MinDiffTime,
		SuggestAmount:       cfg.SuggestAmount,
	})
	log.Printf("✅ Suggestion service initialized (threshold=%d, gap=%s, amount=%d)",
		cfg.MinContentThreshold, cfg.MinDiffTime, cfg.SuggestAmount)

	suggestionServiceV2 := services.NewSuggestionServiceV2(redisService, predictorClient, userService, cfg.DefaultPageSize, cfg.MaxPageSize)
	log.Printf("✅ Suggestion service v2 initialized (page=%d, max=%d)", cfg.DefaultPageSize, cfg.MaxPageSize)

	// JWT auth (required outside development)
	var jwtAuth *auth.LocalJWTAuth
	if cfg.JWTSecret != "" {
		jwtAuth, err = auth.NewLocalJWTAuth(cfg.JWTSecret, 0)
		if err != nil {
			log.Fatalf("❌ Failed to initialize JWT auth: %v", err)
		}
		log.Println("✅ JWT auth initialized")
	} else {
		log.Println("⚠️ JWT_SECRET not set - auth disabled (development mode only)")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PulseFeed v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("pulsefeed")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := cfg.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Global API rate limiter - first line of DDoS defense
	rateLimitConfig := middleware.LoadRateLimitConfig()
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))
	log.Println("🛡️  [RATE-LIMIT] Global API rate limiter enabled")

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(mongoDB, redisService)
	feedHandler := handlers.NewFeedHandler(feedService, seenTracker, suggestionService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionServiceV2)
	userHandler := handlers.NewUserHandler(userService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api", middleware.LocalAuthMiddleware(jwtAuth))
	api.Use(middleware.AuthenticatedRateLimiter(rateLimitConfig))
	api.Get("/feed", feedHandler.Get)
	api.Post("/posts", feedHandler.CreatePost)
	api.Get("/suggestions", suggestionHandler.List)
	api.Get("/users/:id", userHandler.Get)

	// Start server
	log.Printf("✅ Server ready on port %s", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
