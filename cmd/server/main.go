package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"claimscan/internal/config"
	"claimscan/internal/extraction"
	"claimscan/internal/handler"
	"claimscan/internal/logging"
	"claimscan/internal/router"
	"claimscan/internal/service"
	"claimscan/internal/template"
	"claimscan/internal/textsource"
	"claimscan/internal/transform"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize text source
	source, err := textsource.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize text source: %w", err)
	}

	// Initialize extraction
	orchestrator, err := extraction.NewOrchestrator(template.Default(), transform.Default(), extraction.ConfigFrom(cfg.Extraction), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction: %w", err)
	}

	// Initialize services
	extractionSvc := service.NewExtractionService(orchestrator, source, service.ExtractionServiceConfigFrom(cfg.Extraction), logger)

	// Initialize handlers
	limits := handler.BodyLimitsFor(cfg.Extraction.MaxTextBytes, cfg.Extraction.MaxBatchSize)
	extractionH := handler.NewExtractionHandler(extractionSvc, limits, logger)
	healthH := handler.NewHealthHandler(extractionSvc)

	// Setup router
	r := router.Setup(logger, cfg.Server.CORSOrigins, extractionH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("source", cfg.Source.Provider),
			zap.Strings("templates", orchestrator.Registry().AvailableTemplates()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
