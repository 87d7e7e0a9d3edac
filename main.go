package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"money-tracker-go-be/advisor"
	"money-tracker-go-be/auth"
	"money-tracker-go-be/config"
	"money-tracker-go-be/database"
	"money-tracker-go-be/events"
	"money-tracker-go-be/handlers"
	"money-tracker-go-be/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("Server stopped")
		stop()
		os.Exit(1)
	}
	log.Info().Msg("Server exited")
}

// run serves the API until ctx is cancelled or the listener fails. Every
// resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config) error {
	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()
	store := database.NewStore(db)

	publisher, err := events.Connect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, 5)
	if err != nil {
		return fmt.Errorf("connect to AMQP broker: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close AMQP publisher")
		}
	}()

	var generator advisor.Generator
	gemini, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, 30*time.Second)
	if err != nil {
		log.Warn().Err(err).Msg("AI advice disabled")
	} else {
		generator = gemini
	}

	h := handlers.New(handlers.Options{
		Store:          store,
		Tokens:         auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn),
		Advisor:        generator,
		AdviceCacheTTL: cfg.AdviceCacheTTL,
		Events:         publisher,
		AuthRateLimit:  cfg.AuthRateLimit,
	})

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "money-tracker",
		ErrorHandler:          handlers.ErrorHandler,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          60 * time.Second,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	h.Register(app)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		log.Info().Msg("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("Starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}
	return nil
}
