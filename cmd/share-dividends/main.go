package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"share-dividends-parser/internal/app"
	"share-dividends-parser/internal/config"
	"share-dividends-parser/internal/dividend"
	"share-dividends-parser/internal/export"
	"share-dividends-parser/internal/observability"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	if err := run(configPath); err != nil {
		log.Fatalf("share-dividends: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(cfg.Tickers) == 0 {
		return fmt.Errorf("no tickers configured in %s", configPath)
	}

	logger := observability.NewLogger(observability.Options{
		LogPath:    cfg.Observability.LogPath,
		LogLevel:   cfg.Observability.LogLevel,
		LogFormat:  cfg.Observability.LogFormat,
		MaxSizeMB:  cfg.Observability.MaxSizeMB,
		MaxBackups: cfg.Observability.MaxBackups,
		MaxAgeDays: cfg.Observability.MaxAgeDays,
	})
	defer func() { _ = logger.Close() }()

	orch, err := app.NewOrchestratorFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := app.GracefulShutdown(context.Background(), logger)
	defer cancel()

	result, err := collect(ctx, orch, cfg)
	if err != nil {
		return err
	}

	if cfg.Output.DateColumn != "" {
		applyDateView(cfg, result, logger)
	}

	if err := write(cfg, result); err != nil {
		return err
	}

	if cfg.Output.SumColumn != "" {
		sums := dividend.SumBySymbol(result, cfg.Output.SumColumn)
		symbols := make([]string, 0, len(sums))
		for symbol := range sums {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
		for _, symbol := range symbols {
			sum := sums[symbol]
			logger.Info("Column total",
				"ticker", symbol,
				"column", cfg.Output.SumColumn,
				"total", sum.Total.String(),
				"counted", sum.Counted,
				"skipped", sum.Skipped,
			)
		}
	}

	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "✗ %s: %v\n", failure.Ticker, failure.Err)
	}

	return nil
}

// collect: один тикер — таблица напрямую, несколько — CollectMany
func collect(ctx context.Context, orch *app.Orchestrator, cfg *config.Config) (*dividend.Result, error) {
	if len(cfg.Tickers) == 1 {
		table, err := orch.CollectOne(ctx, cfg.Tickers[0])
		if err != nil {
			return nil, err
		}
		result := &dividend.Result{}
		result.Append(table)
		return result, nil
	}

	return orch.CollectMany(ctx, cfg.Tickers, app.OptionsFromConfig(cfg))
}

// applyDateView: фильтр output.since и сортировка по output.date_column
func applyDateView(cfg *config.Config, result *dividend.Result, logger *observability.Logger) {
	column := cfg.Output.DateColumn
	since := cfg.GetSince()

	for _, table := range result.Tables {
		if !since.IsZero() {
			if dropped := table.FilterSince(column, since); dropped > 0 {
				logger.Info("Records dropped by date",
					"ticker", table.Symbol,
					"column", column,
					"since", since.Format("2006-01-02"),
					"dropped", dropped,
				)
			}
		}
		table.SortByDate(column)
	}
}

func write(cfg *config.Config, result *dividend.Result) (err error) {
	var out io.Writer = os.Stdout
	if cfg.Output.Path != "" {
		file, createErr := os.Create(cfg.Output.Path)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", closeErr)
			}
		}()
		out = file
	}

	switch cfg.Output.Format {
	case "table":
		export.RenderTable(out, result)
		return nil
	default:
		return export.WriteCSV(out, result)
	}
}
