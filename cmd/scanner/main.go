// Command scanner runs one scan cycle and optionally exports the
// results as CSV, for cron-style use without the long-running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"wsbpulse/internal/config"
	"wsbpulse/internal/exporter"
	"wsbpulse/internal/extract"
	"wsbpulse/internal/infrastructure"
	"wsbpulse/internal/reddit"
	"wsbpulse/internal/sentiment"
	"wsbpulse/internal/services"
	"wsbpulse/internal/store"
)

func main() {
	exportDir := flag.String("export", "", "directory to write summaries.csv and mentions.csv into")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall scan timeout")
	flag.Parse()

	if err := run(*exportDir, *timeout); err != nil {
		slog.Error("scan failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(exportDir string, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(logger)

	st, err := store.New(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	lexicon := sentiment.NewLexicon()
	if cfg.Lexicon.ExtraTermsFile != "" {
		if err := lexicon.LoadExtraTerms(cfg.Lexicon.ExtraTermsFile); err != nil {
			return fmt.Errorf("load extra lexicon terms: %w", err)
		}
	}

	scan := services.NewScanService(cfg,
		reddit.NewClient(cfg.Reddit, logger),
		extract.NewExtractor(extract.WithContextRadius(cfg.Analysis.ContextRadius)),
		sentiment.NewAnalyzer(lexicon),
		st, nil, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snapshot, err := scan.Scan(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("scanned %d posts, %d tickers, %d top movers in %.1fs\n",
		snapshot.PostsAnalyzed, snapshot.TickersFound,
		len(snapshot.TopMovers), snapshot.ScanDuration)

	if exportDir == "" {
		return nil
	}
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	if err := writeCSV(filepath.Join(exportDir, "summaries.csv"), func(f *os.File) error {
		return exporter.WriteSummaries(f, snapshot.Summaries)
	}); err != nil {
		return err
	}

	analytics := services.NewAnalyticsService(cfg, st, logger)
	mentions, err := analytics.MentionsWindow(ctx)
	if err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(exportDir, "mentions.csv"), func(f *os.File) error {
		return exporter.WriteMentions(f, mentions)
	}); err != nil {
		return err
	}

	logger.Info("export complete", slog.String("dir", exportDir))
	return nil
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Sync()
}
