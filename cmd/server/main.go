package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sponsorship_console/config"
	"sponsorship_console/db"
	"sponsorship_console/handlers"
	"sponsorship_console/middleware"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"sponsorship_console/services/jobs"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := services.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	if err := db.Initialize(db.Options{
		Path:           cfg.DBPath,
		Environment:    cfg.Environment,
		TursoURL:       cfg.TursoDatabaseURL,
		TursoAuthToken: cfg.TursoAuthToken,
	}); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	sealer, err := services.NewTokenSealer(cfg.SessionSecret)
	if err != nil {
		logger.Fatal("Failed to initialize token sealer", zap.Error(err))
	}
	sessions := services.NewSessionStore(db.DB, sealer, logger)
	backend := services.NewBackend(services.NewAPIClient(cfg, logger))
	lists := services.NewListRegistry(services.DefaultListIdleTimeout)
	defer lists.Close()
	storage := services.NewStorage(cfg, logger)

	scheduler, err := jobs.StartScheduler(sessions, lists, logger)
	if err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: len(cfg.AllowedOrigins) > 0 && cfg.AllowedOrigins[0] != "*",
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			middleware.CSRFHeader, "HX-Request", "HX-Target", "HX-Current-URL",
		},
		ExposeHeaders: []string{"HX-Trigger", "HX-Redirect", "X-Search-Seq"},
	}))
	e.Use(middleware.CSRF(cfg.IsProduction()))

	handlers.New(cfg, backend, sessions, lists, storage, logger).Register(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Start server
	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("backend", cfg.BackendURL),
			zap.String("storage", storage.Name()))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
