package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"najahtn/orientation-api/internal/config"
	"najahtn/orientation-api/internal/handlers"
	"najahtn/orientation-api/internal/middleware"
	"najahtn/orientation-api/internal/repositories"
	"najahtn/orientation-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	convRepo := repositories.NewConversationRepository(db)
	favRepo := repositories.NewFavoriteRepository(db)
	cmpRepo := repositories.NewComparisonRepository(db)
	pomRepo := repositories.NewPomodoroRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Load the static catalog
	catalog, err := services.NewCatalogService()
	if err != nil {
		log.Fatalf("❌ Failed to load catalog: %v", err)
	}

	// Initialize Gemini AI
	aiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize services
	comparator := services.NewComparatorService(
		cmpRepo,
		catalog,
		aiService,
		cfg.Compare.Margin,
		cfg.Worker.RetryMaxAttempts,
	)
	convService := services.NewConversationService(convRepo, aiService)
	log.Println("✅ Services initialized successfully")

	// Initialize worker
	worker := services.NewWorker(cmpRepo, comparator, cfg.Worker.Concurrency)

	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	scoreHandler := handlers.NewScoreHandler()
	catalogHandler := handlers.NewCatalogHandler(catalog, favRepo)
	favoriteHandler := handlers.NewFavoriteHandler(favRepo, catalog)
	comparisonHandler := handlers.NewComparisonHandler(cmpRepo, catalog, comparator, worker)
	chatHandler := handlers.NewChatHandler(convService)
	pomodoroHandler := handlers.NewPomodoroHandler(pomRepo)
	profileHandler := handlers.NewProfileHandler(userRepo)
	webhookHandler := handlers.NewWebhookHandler(userRepo, cfg.Auth.WebhookSecret)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Najah Orientation API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Public endpoints
	api.Get("/tracks", scoreHandler.HandleListTracks)
	api.Post("/score", scoreHandler.HandleComputeScore)
	api.Get("/programs", middleware.OptionalAuth(cfg.Auth.JWTSecret, userRepo), catalogHandler.HandleListPrograms)
	api.Get("/programs/filters", catalogHandler.HandleFilterValues)
	api.Get("/programs/:code", catalogHandler.HandleGetProgram)
	api.Post("/webhooks/auth", webhookHandler.HandleAuthWebhook)

	// Authenticated endpoints
	authed := api.Group("", middleware.RequireAuth(cfg.Auth.JWTSecret, userRepo))
	authed.Get("/favorites", favoriteHandler.HandleList)
	authed.Post("/favorites", favoriteHandler.HandleAdd)
	authed.Delete("/favorites/:code", favoriteHandler.HandleRemove)
	authed.Post("/comparisons", comparisonHandler.HandleCreate)
	authed.Get("/comparisons/:id", comparisonHandler.HandleGet)
	authed.Post("/chat", chatHandler.HandleChat)
	authed.Post("/chat/stream", chatHandler.HandleChatStream)
	authed.Get("/conversations", chatHandler.HandleListConversations)
	authed.Get("/conversations/:id", chatHandler.HandleGetConversation)
	authed.Patch("/conversations/:id/fullscreen", chatHandler.HandleToggleFullscreen)
	authed.Delete("/conversations/:id", chatHandler.HandleDeleteConversation)
	authed.Get("/pomodoro", pomodoroHandler.HandleGetSettings)
	authed.Put("/pomodoro", pomodoroHandler.HandleSaveSettings)
	authed.Get("/profile", profileHandler.HandleGetProfile)
	authed.Put("/profile", profileHandler.HandleUpdateProfile)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Najah Orientation API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/score",
				"GET /api/v1/programs",
				"POST /api/v1/comparisons",
				"POST /api/v1/chat",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
