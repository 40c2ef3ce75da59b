package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricematch-service/internal/config"
	pmHnd "pricematch-service/internal/pricematch/handler"
	"pricematch-service/internal/pricematch/embed"
	"pricematch-service/internal/pricematch/service"
	"pricematch-service/internal/pricestore"
	"pricematch-service/internal/progress"
	serverhttp "pricematch-service/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	// один клиент на оба провайдера; таймаут на отдельный запрос батча
	client := &http.Client{Timeout: cfg.EmbedTimeout}
	registry := embed.NewRegistry(
		embed.NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIModel, client),
		embed.NewCohere(cfg.CohereBaseURL, cfg.CohereModel, client),
	)

	var fallback *service.Fallback
	if cfg.FallbackEnabled {
		fallback = service.NewFallback(cfg.FallbackTopN, cfg.FallbackMinScore)
	}

	catalog := service.FileCatalog{Path: cfg.PriceFile}
	hub := progress.NewHub()
	matcher := service.NewMatcher(catalog, registry, fallback, logger)

	store, err := pricestore.Open(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("price store")
	}
	defer store.Close()

	// прайс может появиться позже: тогда POST /api/prices/reload
	if n, err := pmHnd.LoadPrices(context.Background(), store, catalog); err != nil {
		logger.Warn().Err(err).Str("file", cfg.PriceFile).Msg("price list not indexed")
	} else {
		logger.Info().Int("items", n).Str("file", cfg.PriceFile).Msg("price list indexed")
	}

	r := serverhttp.NewRouter(cfg, logger, serverhttp.Deps{
		Matcher: matcher,
		Hub:     hub,
		Store:   store,
		Catalog: catalog,
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().
		Str("addr", cfg.Addr()).
		Strs("providers", registry.Names()).
		Bool("fallback", fallback != nil).
		Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
