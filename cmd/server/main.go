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

	"github.com/nhabuon/ToolTinhLai/internal/advisor"
	"github.com/nhabuon/ToolTinhLai/internal/api"
	"github.com/nhabuon/ToolTinhLai/internal/cache"
	"github.com/nhabuon/ToolTinhLai/internal/config"
	"github.com/nhabuon/ToolTinhLai/internal/drive"
	"github.com/nhabuon/ToolTinhLai/internal/pipeline"
	"github.com/nhabuon/ToolTinhLai/internal/pricing"
	"github.com/nhabuon/ToolTinhLai/internal/report"
	"github.com/nhabuon/ToolTinhLai/internal/repository/sqlstore"
	"github.com/nhabuon/ToolTinhLai/internal/service"
	"github.com/nhabuon/ToolTinhLai/internal/storage"
	"github.com/nhabuon/ToolTinhLai/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	db, err := sqlstore.Open(cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, running without cache")
		dashboardCache = cache.NewNoopDashboardCache()
	}
	defer dashboardCache.Close()

	archive, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Object storage unavailable, uploads will not be archived")
		archive = nil
	}

	extractor := report.New(report.Config(cfg.Extract))

	productRepo := sqlstore.NewProductRepository(db)
	products := service.NewProductService(productRepo, dashboardCache)
	ledger := service.NewLedgerService(sqlstore.NewLedgerRepository(db), extractor, archive, dashboardCache)
	competitors := service.NewCompetitorService(productRepo, sqlstore.NewCompetitorRepository(db))

	var generator advisor.Generator
	gemini, err := advisor.NewGeminiGenerator(ctx, cfg.Advisor)
	switch {
	case err == nil:
		generator = gemini
		defer gemini.Close()
	case errors.Is(err, advisor.ErrDisabled):
		logger.Log.Info().Msg("Advisor disabled: no API key configured")
	default:
		logger.Log.Warn().Err(err).Msg("Advisor unavailable")
	}

	services := &api.Services{
		Products:    products,
		Ledger:      ledger,
		Competitors: competitors,
		Advisor:     service.NewAdvisorService(generator, products, ledger),
		Pricing: pricing.Defaults{
			PlatformFeePct: cfg.Pricing.PlatformFeePct,
			PackagingCost:  cfg.Pricing.PackagingCost,
		},
	}

	if cfg.Drive.CredentialsJSON != "" {
		driveService, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Google Drive unavailable")
		} else {
			importer := drive.NewImporter(driveService, pipeline.NewOrchestrator(extractor, ledger, pipeline.DefaultConfig()), cfg.Drive.FolderID)
			services.Drive = drive.NewHandler(driveService, importer).Router()
		}
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("driver", db.Driver()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
