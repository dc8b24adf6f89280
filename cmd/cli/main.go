// Package main provides the CLI tool for the citation service.
// Uses Cobra for command parsing — the standard Go CLI framework
// (used by kubectl, docker, hugo, and many others).
//
// Run with: go run ./cmd/cli query --text "Is Acme Corp a market leader?" --keyword "Acme Corp"
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandpulse/citation-service/internal/catalog"
	"github.com/brandpulse/citation-service/internal/config"
	"github.com/brandpulse/citation-service/internal/model"
	"github.com/brandpulse/citation-service/internal/service"
	"github.com/brandpulse/citation-service/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd creates the root command. Cobra builds a tree of commands:
// citation-cli query --text "..." --keyword "Acme Corp"
// citation-cli platforms
// citation-cli stats
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "citation-cli",
		Short: "Citation service CLI tools",
	}

	root.AddCommand(queryCmd())
	root.AddCommand(platformsCmd())
	root.AddCommand(statsCmd())
	return root
}

func queryCmd() *cobra.Command {
	var (
		text     string
		keywords []string
		platform string
		mdl      string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a citation query against all platforms (or one with --platform)",
		// RunE returns an error (vs Run which doesn't). Cobra prints the error automatically.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(text, keywords, platform, mdl)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Query text (required)")
	cmd.Flags().StringArrayVar(&keywords, "keyword", nil, "Tracked keyword (repeatable)")
	cmd.Flags().StringVar(&platform, "platform", "", "Query a single platform instead of all")
	cmd.Flags().StringVar(&mdl, "model", "", "Model override (single-platform queries only)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func platformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List registered platforms and their models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			registry, err := catalog.FromConfig(cfg.Providers)
			if err != nil {
				return fmt.Errorf("building platform catalog: %w", err)
			}

			for _, p := range registry.Platforms() {
				models, err := registry.Models(p)
				if err != nil {
					return err
				}
				fmt.Printf("%-12s default=%s models=%v\n", p, models[0], models)
			}
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show provider-call audit statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			calls := storage.NewCallRepository(db)
			ctx := context.Background()

			total, err := calls.Count(ctx)
			if err != nil {
				return fmt.Errorf("counting calls: %w", err)
			}
			successful, err := calls.CountSuccessful(ctx)
			if err != nil {
				return fmt.Errorf("counting successful calls: %w", err)
			}
			byPlatform, err := calls.StatsByPlatform(ctx)
			if err != nil {
				return fmt.Errorf("aggregating platform stats: %w", err)
			}

			fmt.Printf("total=%d successful=%d failed=%d\n", total, successful, total-successful)
			for _, s := range byPlatform {
				fmt.Printf("  %-12s calls=%d successful=%d\n", s.Platform, s.Calls, s.Successful)
			}
			return nil
		},
	}
}

func runQuery(text string, keywords []string, platform, mdl string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Always use development logging for the CLI
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	registry, err := catalog.FromConfig(cfg.Providers)
	if err != nil {
		return fmt.Errorf("building platform catalog: %w", err)
	}

	// Audit locally too — CLI runs count toward provider spend just the same.
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	archive, err := storage.NewResponseArchive(cfg.Storage.ArchiveDir)
	if err != nil {
		return fmt.Errorf("creating response archive: %w", err)
	}

	citations := service.NewCitationService(
		registry,
		storage.NewCallRepository(db),
		archive,
		cfg.Providers.Timeout(),
		cfg.Providers.RatePerMinute,
		logger,
	)

	// Ctrl+C cancels the in-flight fan-out.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("cancelling query...")
		cancel()
	}()

	query := model.Query{Text: text, Keywords: keywords}

	if platform != "" {
		if !model.ValidPlatform(platform) {
			return fmt.Errorf("unknown platform: %s", platform)
		}
		res, err := citations.QueryPlatform(ctx, model.Platform(platform), query, mdl)
		if err != nil {
			return fmt.Errorf("querying %s: %w", platform, err)
		}
		printResult(*res)
		return nil
	}

	if mdl != "" {
		return fmt.Errorf("--model requires --platform")
	}

	agg, err := citations.QueryAllPlatforms(ctx, query)
	if err != nil {
		return fmt.Errorf("querying platforms: %w", err)
	}

	fmt.Printf("run %s: %d platform(s) cited the tracked keywords\n\n", agg.RunID, len(agg.Results))
	for _, res := range agg.Results {
		printResult(res)
	}
	return nil
}

func printResult(res model.CitationResult) {
	fmt.Printf("[%s / %s] sentiment=%.2f (%s) confidence=%.2f\n",
		res.Platform, res.Model, res.Sentiment, model.SentimentLabel(res.Sentiment), res.Confidence)
	for _, m := range res.Mentions {
		fmt.Printf("  - %s\n", m)
	}
	fmt.Println()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(os.Getenv("CITE_CONFIG_PATH"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
