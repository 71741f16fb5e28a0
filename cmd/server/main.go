package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/snapvalue/backend/config"
	httpDelivery "github.com/snapvalue/backend/internal/delivery/http"
	"github.com/snapvalue/backend/internal/domain"
	"github.com/snapvalue/backend/internal/infrastructure/cache"
	"github.com/snapvalue/backend/internal/infrastructure/detector"
	"github.com/snapvalue/backend/internal/infrastructure/retail"
	"github.com/snapvalue/backend/internal/infrastructure/storage"
	"github.com/snapvalue/backend/internal/infrastructure/vision"
	"github.com/snapvalue/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Server.Environment)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting snapvalue backend v1.0.0")

	ctx := context.Background()

	// Vision: Gemini describer behind a persistent SQLite cache
	store, err := storage.NewSQLiteStore(cfg.Vision.CachePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Vision.CachePath).Msg("failed to open vision cache")
	}
	defer store.Close()

	gemini, err := vision.NewGeminiDescriber(ctx, vision.Options{
		APIKey: cfg.Vision.APIKey,
		Model:  cfg.Vision.Model,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create vision describer")
	}
	describer := vision.NewCachedDescriber(gemini, store, logger)
	logger.Info().Str("model", cfg.Vision.Model).Str("cache_path", cfg.Vision.CachePath).Msg("vision describer ready")

	// Object detection service client
	detectorClient := detector.NewClient(detector.Options{
		BaseURL:       cfg.Detector.BaseURL,
		Timeout:       cfg.Detector.Timeout,
		MinConfidence: cfg.Detector.MinConfidence,
	}, logger)
	logger.Info().Str("base_url", cfg.Detector.BaseURL).Msg("detector client ready")

	// Retail sources, in priority order
	retailOpts := retail.Options{
		Timeout:           cfg.Retail.Timeout,
		UserAgent:         cfg.Retail.UserAgent,
		MaxResults:        cfg.Retail.MaxCandidates,
		RequestsPerSecond: cfg.Retail.RequestsPerSecond,
	}
	walmartOpts := retailOpts
	walmartOpts.BaseURL = cfg.Retail.WalmartBaseURL
	targetOpts := retailOpts
	targetOpts.BaseURL = cfg.Retail.TargetBaseURL

	sources := []domain.RetailSource{
		retail.NewWalmart(walmartOpts, logger),
		retail.NewTarget(targetOpts, logger),
	}

	// Pricing pipeline with in-memory result cache
	resultCache := cache.NewMemoryCache()
	pricingService := usecase.NewPricingService(
		sources,
		resultCache,
		usecase.PricingServiceConfig{CacheTTL: cfg.Cache.TTL},
		logger,
	)

	appraisalService := usecase.NewAppraisalService(
		detectorClient,
		describer,
		pricingService,
		usecase.AppraisalServiceConfig{MaxConcurrentObjects: cfg.Pricing.MaxConcurrentObjects},
		logger,
	)

	// HTTP delivery
	handler := httpDelivery.NewHandler(appraisalService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

// newLogger builds the root logger: human-readable console output in
// development, JSON elsewhere.
func newLogger(environment string) zerolog.Logger {
	if environment == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
