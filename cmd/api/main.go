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
	"github.com/joho/godotenv"
	"github.com/railbook/railbook_core/internal/api"
	"github.com/railbook/railbook_core/internal/cache"
	"github.com/railbook/railbook_core/internal/catalog"
	"github.com/railbook/railbook_core/internal/db"
	"github.com/railbook/railbook_core/internal/middleware"
)

func main() {
	// .env is optional, for local development
	_ = godotenv.Load()

	log.Println("Starting RailBook API server...")

	// Initialize database connection
	if _, err := db.GetDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✓ Database connection established")

	// Initialize Redis connection
	rdb, err := cache.GetClient()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.Close()
	log.Println("✓ Redis connection established")

	// Load booking catalog into memory
	pool, _ := db.GetDB()
	cat := catalog.GetCatalog()
	if err := cat.LoadFromDB(context.Background(), pool); err != nil {
		log.Fatalf("Failed to load booking catalog: %v", err)
	}
	log.Println("✓ Booking catalog loaded into memory")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "RailBook API",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RateLimitMiddleware(rdb, middleware.DefaultRateLimits))
	app.Use(middleware.AnalyticsMiddleware(rdb))

	// Routes
	app.Get("/health", api.Health)
	app.Get("/v1/journeys/search", api.JourneySearch)
	app.Get("/v1/fares", api.FaresList)
	app.Get("/v1/extras", api.ExtrasList)
	app.Post("/v1/sessions", api.SessionCreate)
	app.Get("/v1/sessions/:id", api.SessionGet)
	app.Post("/v1/sessions/:id/actions", api.SessionAction)
	app.Get("/v1/sessions/:id/summary", api.SessionSummary)
	app.Post("/v1/sessions/:id/payment", api.SessionPayment)
	app.Get("/v1/stats", api.Stats)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "endpoint not found",
		})
	})

	// Get port from environment
	port := getEnv("API_PORT", "8080")
	addr := fmt.Sprintf(":%s", port)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	// Start server
	log.Printf("🚀 Server listening on http://localhost%s", addr)
	log.Printf("🔎 Journey search: http://localhost%s/v1/journeys/search?date=YYYY-MM-DD", addr)
	log.Printf("❤️  Health check: http://localhost%s/health", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// customErrorHandler handles errors returned from handlers
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
