package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/outfit"
	"server/internal/providers/chat"
	"server/internal/providers/serp"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// GeoIP is optional; without a database the locale middleware falls
	// back to header hints only.
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
		if closer, ok := resolver.(*geoip.Resolver); ok {
			defer closer.Close()
		}
	}

	serpClient := serp.NewClient(serp.Options{
		APIKey:         cfg.SerpAPIKey,
		BaseURL:        cfg.SerpAPIBaseURL,
		ResultLimit:    cfg.SearchLimit,
		RequestTimeout: cfg.SearchTimeout,
		Logger:         &logger,
	})
	chatClient := chat.NewClient(chat.Options{
		APIKey:         cfg.OpenAIAPIKey,
		Model:          cfg.OpenAIModel,
		BaseURL:        cfg.OpenAIBaseURL,
		SystemPrompt:   cfg.SystemPrompt,
		RequestTimeout: cfg.ChatTimeout,
		Logger:         &logger,
	})

	pipelineCfg := outfit.DefaultConfig(cfg.FinalSlot)
	pipelineCfg.Overshoot = cfg.Overshoot
	linkResolver := outfit.NewLinkResolver(serpClient, serpClient, pipelineCfg.LocalTLDs, &logger)
	assembler := outfit.NewAssembler(pipelineCfg, serpClient, linkResolver, &logger)

	app := handlers.NewApp(assembler, chatClient, logger, serpClient.HasCredentials(), cfg.AppEnv, cfg.Version)
	router := httpapi.NewRouter(app, cfg, logger, lookup)
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
