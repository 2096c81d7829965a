package app

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"share-dividends-parser/internal/config"
	"share-dividends-parser/internal/dividend"
	"share-dividends-parser/internal/fetcher"
	"share-dividends-parser/internal/normalize"
	"share-dividends-parser/internal/observability"
	"share-dividends-parser/internal/scraper"
)

type Orchestrator struct {
	logger    *observability.Logger
	fetcher   fetcher.PageFetcher
	scraper   *scraper.Scraper
	assembler *dividend.Assembler
}

func NewOrchestrator(
	logger *observability.Logger,
	f fetcher.PageFetcher,
	s *scraper.Scraper,
	a *dividend.Assembler,
) *Orchestrator {
	return &Orchestrator{
		logger:    logger,
		fetcher:   f,
		scraper:   s,
		assembler: a,
	}
}

// NewOrchestratorFromConfig собирает fetcher, scraper и assembler по конфигу
func NewOrchestratorFromConfig(cfg *config.Config, logger *observability.Logger) (*Orchestrator, error) {
	selectors, err := cfg.Selectors()
	if err != nil {
		return nil, fmt.Errorf("load selectors: %w", err)
	}

	return NewOrchestrator(
		logger,
		fetcher.NewFetcher(cfg, logger),
		scraper.NewScraper(selectors, normalize.NewNormalizer(cfg.NormalizeOptions()), logger),
		dividend.NewAssembler(logger),
	), nil
}

// Options управляет сбором нескольких тикеров
type Options struct {
	Concurrent bool
	Workers    int
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Concurrent: cfg.Collect.Concurrent,
		Workers:    cfg.Collect.Workers,
	}
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return config.DefaultWorkers
	}
	return o.Workers
}

// CollectOne запускает пайплайн для одного тикера и возвращает его таблицу
func (o *Orchestrator) CollectOne(ctx context.Context, ticker string) (*dividend.Table, error) {
	table, err := o.collect(ctx, ticker)
	if err != nil {
		return nil, &dividend.TickerError{Ticker: ticker, Err: err}
	}
	return table, nil
}

// CollectMany собирает несколько тикеров.
//
// Последовательно: порядок входа, первая ошибка прерывает сбор и
// частичный результат отбрасывается.
// Пулом: порядок завершения, ошибки тикеров изолированы, логируются
// и попадают в Result.Failures; общий вызов ошибки не возвращает.
func (o *Orchestrator) CollectMany(ctx context.Context, tickers []string, opts Options) (*dividend.Result, error) {
	start := time.Now()

	o.logger.Info("Starting collection",
		"tickers", len(tickers),
		"concurrent", opts.Concurrent,
		"workers", opts.workers(),
	)

	var (
		result *dividend.Result
		err    error
	)
	if opts.Concurrent {
		result = o.collectPooled(ctx, tickers, opts.workers())
	} else {
		result, err = o.collectSequential(ctx, tickers)
	}
	if err != nil {
		return nil, err
	}

	o.logger.Info("Collection completed",
		"tables", len(result.Tables),
		"records", result.Len(),
		"failures", len(result.Failures),
		"elapsed", time.Since(start).String(),
	)

	return result, nil
}

func (o *Orchestrator) collectSequential(ctx context.Context, tickers []string) (*dividend.Result, error) {
	result := &dividend.Result{}

	for _, ticker := range tickers {
		table, err := o.collect(ctx, ticker)
		if err != nil {
			o.logger.Error("Collection aborted",
				"ticker", ticker,
				"collected", len(result.Tables),
				"error", err.Error(),
			)
			return nil, &dividend.TickerError{Ticker: ticker, Err: err}
		}
		result.Append(table)
	}

	return result, nil
}

func (o *Orchestrator) collectPooled(ctx context.Context, tickers []string, workers int) *dividend.Result {
	result := &dividend.Result{}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(workers)

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			table, err := o.collectIsolated(ctx, ticker)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				o.logger.Error("Ticker collection failed",
					"ticker", ticker,
					"error", err.Error(),
				)
				result.Failures = append(result.Failures, dividend.TickerError{Ticker: ticker, Err: err})
				return nil // best-effort: соседние тикеры продолжают
			}
			result.Append(table)
			return nil
		})
	}

	_ = g.Wait()

	return result
}

// collectIsolated переводит panic задачи пула в ошибку тикера
func (o *Orchestrator) collectIsolated(ctx context.Context, ticker string) (table *dividend.Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Debug("Recovered panic", "ticker", ticker, "stack", string(debug.Stack()))
			table, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return o.collect(ctx, ticker)
}

// collect: fetch → parse → extract → assemble
func (o *Orchestrator) collect(ctx context.Context, ticker string) (*dividend.Table, error) {
	logger := o.logger.With("ticker", ticker)

	logger.Debug("Fetching dividend page")
	resp, err := o.fetcher.Fetch(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dividend.ErrFetch, err)
	}

	extraction, err := o.scraper.WithLogger(logger).ExtractTable(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dividend.ErrParse, err)
	}

	table := o.assembler.Assemble(ticker, extraction.Headers, extraction.Rows)

	logger.Info("Dividend table collected",
		"status", resp.StatusCode,
		"table_found", extraction.TableFound,
		"rows", len(table.Records),
		"columns", len(table.Columns),
		"checksum", table.Checksum,
	)

	return table, nil
}
