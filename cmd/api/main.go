package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/answer"
	"server/internal/providers/backlinks"
	"server/internal/providers/sentiment"
	"server/internal/visibility"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	users := repo.NewUserRepository(dbpool)
	projects := repo.NewProjectRepository(dbpool)
	checks := repo.NewCheckRepository(dbpool)

	runner := answer.NewRunner(logger)
	if cfg.OpenAIAPIKey != "" {
		client, err := answer.NewOpenAIClient(answer.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure openai client")
		}
		runner.Register(domain.ProviderChatGPT, client)
	}
	if cfg.PerplexityAPIKey != "" {
		client, err := answer.NewOpenAIClient(answer.OpenAIOptions{
			APIKey:  cfg.PerplexityAPIKey,
			Model:   cfg.PerplexityModel,
			BaseURL: cfg.PerplexityBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure perplexity client")
		}
		runner.Register(domain.ProviderPerplexity, client)
	}
	if cfg.AnthropicAPIKey != "" {
		client, err := answer.NewAnthropicClient(answer.AnthropicOptions{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.AnthropicModel,
			BaseURL: cfg.AnthropicBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure anthropic client")
		}
		runner.Register(domain.ProviderClaude, client)
	}
	if cfg.GeminiAPIKey != "" {
		client, err := answer.NewGeminiClient(answer.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure gemini client")
		}
		runner.Register(domain.ProviderGemini, client)

		grounded, err := answer.NewGeminiClient(answer.GeminiOptions{
			APIKey:       cfg.GeminiAPIKey,
			Model:        cfg.GeminiModel,
			BaseURL:      cfg.GeminiBaseURL,
			GroundSearch: true,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure ai-overview client")
		}
		runner.Register(domain.ProviderAIOverview, grounded)
	}

	var analyzer visibility.SentimentAnalyzer
	if cfg.SentimentAPIKey != "" {
		client, err := sentiment.NewClient(sentiment.Options{
			APIKey:  cfg.SentimentAPIKey,
			Model:   cfg.SentimentModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure sentiment client")
		}
		analyzer = client
	} else {
		logger.Warn().Msg("no sentiment credential configured, enrichment disabled")
	}

	var backlinkSource visibility.BacklinkSource
	if cfg.BacklinkAPIKey != "" && cfg.BacklinkBaseURL != "" {
		client, err := backlinks.NewClient(backlinks.Options{
			APIKey:  cfg.BacklinkAPIKey,
			BaseURL: cfg.BacklinkBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure backlink client")
		}
		backlinkSource = client
	} else {
		logger.Warn().Msg("no backlink credential configured, authority signal will be zero")
	}

	quota := visibility.NewQuotaGuard(checks, nil)
	enricher := visibility.NewEnricher(analyzer, logger)
	orchestrator := visibility.NewOrchestrator(users, projects, checks, quota, runner, enricher, logger)

	model := visibility.DefaultModel()
	scores := visibility.NewScoreEngine(backlinkSource, model, logger)
	analytics := visibility.NewAnalytics(
		projects,
		checks,
		scores,
		visibility.NewTrendAnalyzer(model),
		visibility.NewRecommendationGenerator(nil),
	)

	var lookup middleware.CountryLookup
	if resolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip resolver unavailable, region detection falls back to defaults")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := handlers.NewApp(logger, users, projects, orchestrator, analytics)
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultRegion:   cfg.DefaultRegion,
		DefaultLanguage: cfg.DefaultLanguage,
		CountryLookup:   lookup,
		Logger:          logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
