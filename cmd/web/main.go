// Command web runs the scan pipeline and the HTTP/WebSocket API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wsbpulse/internal/config"
	"wsbpulse/internal/extract"
	"wsbpulse/internal/infrastructure"
	"wsbpulse/internal/prices"
	"wsbpulse/internal/reddit"
	"wsbpulse/internal/sentiment"
	"wsbpulse/internal/services"
	"wsbpulse/internal/store"
	transporthttp "wsbpulse/internal/transport/http"
	"wsbpulse/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(logger)

	lexicon := sentiment.NewLexicon()
	if cfg.Lexicon.ExtraTermsFile != "" {
		if err := lexicon.LoadExtraTerms(cfg.Lexicon.ExtraTermsFile); err != nil {
			return fmt.Errorf("load extra lexicon terms: %w", err)
		}
		logger.Info("extra lexicon terms loaded",
			slog.String("file", cfg.Lexicon.ExtraTermsFile),
			slog.Int("total_terms", lexicon.Len()))
	}

	st, err := store.New(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	hub := websocket.NewHub(logger)
	hub.Start()
	defer hub.Stop()

	extractor := extract.NewExtractor(extract.WithContextRadius(cfg.Analysis.ContextRadius))
	analyzer := sentiment.NewAnalyzer(lexicon)
	source := reddit.NewClient(cfg.Reddit, logger)

	scan := services.NewScanService(cfg, source, extractor, analyzer, st, hub, logger)
	analytics := services.NewAnalyticsService(cfg, st, logger)
	priceService := prices.NewService(prices.NewClient(cfg.Prices, logger), cfg.Prices, logger)

	router := transporthttp.NewRouter(cfg, scan, analytics, priceService, hub, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go scan.RunLoop(ctx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			slog.Int("port", cfg.Server.Port),
			slog.String("version", transporthttp.Version))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
