package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/config"
	"github.com/wso2/ob-consent-mgt/internal/dao"
	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/handlers"
	"github.com/wso2/ob-consent-mgt/internal/metrics"
	"github.com/wso2/ob-consent-mgt/internal/router"
	"github.com/wso2/ob-consent-mgt/internal/service"
	"github.com/wso2/ob-consent-mgt/internal/tokenclient"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting Consent Management API Server...")

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogger(logger, cfg.Logging)

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
		"db_type":     cfg.Database.Consent.Type,
	}).Info("Configuration loaded successfully")

	db, err := database.Initialize(&cfg.Database.Consent, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.HealthCheck(ctx); err != nil {
		cancel()
		logger.WithError(err).Fatal("Database health check failed")
	}
	if cfg.Database.Consent.AutoMigrate {
		if err := db.ApplySchema(ctx); err != nil {
			cancel()
			logger.WithError(err).Fatal("Failed to apply database schema")
		}
	}
	cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB.DB, cfg.Database.Consent.Database),
	)

	var revoker service.TokenRevoker = service.NewLoggingTokenRevoker(logger)
	if cfg.TokenRevocation.BaseURL != "" {
		revocationClient := tokenclient.NewRevocationClient(cfg.TokenRevocation, logger)
		defer revocationClient.Close()
		revoker = revocationClient
	}

	lifecycle, err := service.NewConsentLifecycle(
		dao.NewConsentStore(db),
		service.NewTransitionPolicy(cfg.Consent.TransitionGraph(), logger),
		revoker,
		cfg.Consent,
		metrics.New(registry),
		logger,
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize consent lifecycle")
	}

	consentHandler := handlers.NewConsentHandler(lifecycle, cfg.Consent, logger)
	ginRouter := router.SetupRouter(cfg, consentHandler, db, registry, logger)

	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        ginRouter,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.WithField("addr", serverAddr).Info("Starting HTTP server...")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		return
	}

	logger.Info("Server exited gracefully")
}

func configureLogger(logger *logrus.Logger, cfg config.LoggingConfig) {
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	switch cfg.Output {
	case "", "stdout":
		logger.SetOutput(os.Stdout)
	case "stderr":
		logger.SetOutput(os.Stderr)
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.WithError(err).Warn("Failed to open log file, logging to stdout")
			return
		}
		logger.SetOutput(file)
	}
}
