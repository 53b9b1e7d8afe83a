package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"decarbgoals/internal/config"
	"decarbgoals/internal/logging"
	"decarbgoals/internal/pipeline"
	"decarbgoals/internal/report"
	"decarbgoals/pkg/llm"
	"decarbgoals/pkg/search"
)

func main() {
	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) && len(cfgErr.Missing) > 0 {
			fmt.Fprintln(os.Stderr, "Please create a .env file with the required API keys. See .env.example for the format.")
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig(cfg.DebugLog)
	logCfg.Level = cfg.LogLevel
	closeLog, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("error opening debug log: %w", err)
	}
	defer closeLog()

	orgs, err := config.LoadOrganizations(cfg.OrganizationsFile)
	if err != nil {
		return err
	}

	searcher := search.NewBraveClient(search.BraveConfig{
		APIKey:     cfg.BraveAPIKey,
		BaseURL:    cfg.BraveBaseURL,
		Count:      cfg.SearchResultCount,
		MaxRetries: cfg.SearchMaxRetries,
		RetryWait:  cfg.SearchRetryWait,
		Timeout:    cfg.HTTPTimeout,
	})

	var fallback llm.Extractor
	if cfg.OpenAIAPIKey != "" {
		fallback = llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.LLMMaxRetries,
		})
	}
	extractor := llm.NewFallbackExtractor(llm.NewAnthropicClient(llm.AnthropicConfig{
		APIKey:     cfg.AnthropicAPIKey,
		BaseURL:    cfg.AnthropicBaseURL,
		Model:      cfg.AnthropicModel,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.LLMMaxRetries,
	}), fallback)

	slog.Info("starting run",
		"organizations", len(orgs),
		"search", searcher.Name(),
		"extractor", extractor.Name(),
		"concurrency", cfg.Concurrency,
	)

	runner := &pipeline.Runner{
		Searcher:     searcher,
		Extractor:    extractor,
		Concurrency:  cfg.Concurrency,
		RequestDelay: cfg.RequestDelay,
		Progress: func(index, total int, org string) {
			fmt.Printf("\nAnalyzing %s (%d/%d)...\n", org, index+1, total)
		},
	}

	results, err := runner.Run(ctx, orgs)
	if err != nil {
		slog.Error("run aborted", "error", err)
		return fmt.Errorf("run interrupted: %w", err)
	}

	records := results.Records()
	if err := report.WriteCSV(cfg.OutputCSV, records); err != nil {
		slog.Error("error writing CSV", "path", cfg.OutputCSV, "error", err)
		return err
	}
	fmt.Printf("\nCSV saved to %s\n\n", cfg.OutputCSV)

	summary := report.Summarize(records)
	slog.Info("run complete",
		"total", summary.Total,
		"with_goals", summary.WithGoals,
		"search_failures", summary.SearchFailures,
		"extraction_failures", summary.ExtractFailures,
	)

	return report.PrintSummary(os.Stdout, records)
}
