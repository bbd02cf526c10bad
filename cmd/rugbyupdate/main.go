package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rugbydata/external/rugbyfeed"
	"rugbydata/external/wikipedia"
	"rugbydata/internal/config"
	"rugbydata/internal/infrastructure/repository/jsonfile"
	"rugbydata/internal/platform/fetch"
	"rugbydata/internal/platform/logging"
	"rugbydata/internal/usecase"
	"rugbydata/internal/wikitext"
)

var (
	flagCompetition string
	flagSeason      string
	flagDataDir     string
	flagDryRun      bool
)

var rootCmd = &cobra.Command{
	Use:   "rugbyupdate",
	Short: "rugbyupdate refreshes per-season rugby match data files from Wikipedia and the live sports feed.",
	RunE:  runUpdate,
}

func init() {
	rootCmd.Flags().StringVarP(&flagCompetition, "competition", "c", "", `competition key, or "all" (required)`)
	rootCmd.Flags().StringVarP(&flagSeason, "season", "s", "", `season label, e.g. "2024-2025" or "2023" (required)`)
	rootCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "directory holding season JSON files (overrides DATA_DIR)")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "fetch and merge but do not write the store")
	_ = rootCmd.MarkFlagRequired("competition")
	_ = rootCmd.MarkFlagRequired("season")
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	logger := logging.NewConsole(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	registry, err := config.Competitions(cfg.CompetitionsFile)
	if err != nil {
		return err
	}

	fetcher := fetch.NewClient(fetch.ClientConfig{
		HTTPClient:    &http.Client{Timeout: cfg.HTTPTimeout},
		MaxRetries:    cfg.MaxRetries,
		BaseDelay:     cfg.RetryBaseDelay,
		EnableBreaker: cfg.CircuitEnabled,
		Logger:        logger,
	})

	parser := wikitext.NewParser(wikitext.DefaultConfig(), logger)
	wikiClient := wikipedia.NewClient(wikipedia.ClientConfig{
		Fetcher: fetcher,
		APIURL:  cfg.WikipediaAPIURL,
		Logger:  logger,
	})
	scraper := wikipedia.NewScraper(wikiClient, parser, logger)
	feed := rugbyfeed.NewClient(rugbyfeed.ClientConfig{
		Fetcher: fetcher,
		BaseURL: cfg.FeedBaseURL,
		Logger:  logger,
	})
	store := jsonfile.NewStore(cfg.DataDir, logger)

	svc := usecase.NewUpdateService(store, scraper, feed, registry, logger)

	ctx := cmd.Context()
	keys := []string{flagCompetition}
	if flagCompetition == "all" {
		keys = config.CompetitionKeys(registry)
	}

	var failed bool
	for _, key := range keys {
		stats, err := svc.UpdateCompetition(ctx, key, flagSeason, flagDryRun)
		if err != nil {
			logger.ErrorContext(ctx, "update failed", "competition", key, "season", flagSeason, "error", err)
			failed = true
			continue
		}
		for _, problem := range stats.Errors {
			logger.WarnContext(ctx, "match skipped", "competition", key, "problem", problem)
		}
	}
	if failed {
		return fmt.Errorf("one or more competitions failed to update")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
