package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"taskflow/configs"
	v1 "taskflow/internal/api/v1"
	"taskflow/internal/api/v1/handlers"
	"taskflow/internal/config"
	"taskflow/internal/middleware"
	"taskflow/internal/repository"
	"taskflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	seed := pflag.Bool("seed", false, "insert demo users and tasks before serving")
	port := pflag.Int("port", 0, "listen port (overrides PORT)")
	dataFile := pflag.String("data", "", "document file for the file backend (overrides DATA_FILE)")
	pflag.Parse()

	// Load config
	cfg := configs.LoadConfig()
	if *port != 0 {
		cfg.Port = *port
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}

	// Inisialisasi logger
	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "init loggers: %v\n", err)
		os.Exit(1)
	}
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := config.Build(ctx, cfg)
	if err != nil {
		logger.ErrorLogger.Error("Failed to open document store", zap.Error(err))
		return
	}
	defer deps.Close()

	if *seed {
		if err := repository.Seed(ctx, deps.Store); err != nil {
			logger.ErrorLogger.Error("Seeding failed", zap.Error(err))
			return
		}
		logger.SystemLogger.Info("Demo data seeded")
	}

	go deps.Hub.Run(ctx)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.FiberErrorHandler})

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/ws/")
		},
	}))

	v1.RegisterRoutes(app, handlers.New(deps.Services, deps.Issuer, deps.Hub), deps.Issuer)

	go func() {
		<-ctx.Done()
		logger.SystemLogger.Info("Shutting down")
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
