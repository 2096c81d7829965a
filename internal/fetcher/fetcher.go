package fetcher

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"share-dividends-parser/internal/config"
	"share-dividends-parser/internal/observability"
)

// PageFetcher загружает страницу дивидендов тикера
type PageFetcher interface {
	Fetch(ctx context.Context, ticker string) (*FetchResponse, error)
}

type FetchResponse struct {
	StatusCode int
	Body       []byte
	URL        string
	Headers    http.Header
}

// NewFetcher выбирает реализацию по конфигу: headless браузер если rod.enabled, иначе HTTP
func NewFetcher(cfg *config.Config, logger *observability.Logger) PageFetcher {
	if cfg.Rod.Enabled {
		return NewBrowserFetcher(cfg, logger)
	}
	return NewHTTPFetcher(cfg, logger)
}

// BuildURL склеивает базовый URL и тикер как есть, без экранирования
func BuildURL(baseURL, ticker string) string {
	return baseURL + ticker
}

type HTTPFetcher struct {
	client *http.Client
	cfg    *config.Config
	logger *observability.Logger
}

func NewHTTPFetcher(cfg *config.Config, logger *observability.Logger) *HTTPFetcher {
	if logger == nil {
		logger = observability.Nop()
	}

	client := &http.Client{
		Timeout: cfg.GetTotalTimeout(),
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.HTTP.MaxIdleConnections,
			MaxIdleConnsPerHost: cfg.HTTP.MaxIdleConnectionsPerHost,
			IdleConnTimeout:     cfg.GetIdleConnectionTimeout(),
		},
	}

	return &HTTPFetcher{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Fetch делает GET base_url+ticker и возвращает тело независимо от статуса.
// Ретраи только на сетевые ошибки и только если http.max_retries > 0.
func (f *HTTPFetcher) Fetch(ctx context.Context, ticker string) (*FetchResponse, error) {
	urlStr := BuildURL(f.cfg.BaseURL, ticker)

	var lastErr error
	for attempt := 0; attempt <= f.cfg.HTTP.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := f.calculateBackoff(attempt)
			f.logger.Debug("Retrying fetch",
				"ticker", ticker,
				"attempt", attempt,
				"backoff", backoff.String(),
				"error", lastErr.Error(),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := f.fetchOnce(ctx, urlStr)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			f.logger.Debug("Non-2xx response treated as page markup",
				"ticker", ticker,
				"url", urlStr,
				"status", resp.StatusCode,
			)
		}

		return resp, nil
	}

	if f.cfg.HTTP.MaxRetries == 0 {
		return nil, fmt.Errorf("GET %s: %w", urlStr, lastErr)
	}
	return nil, fmt.Errorf("GET %s failed after %d retries: %w", urlStr, f.cfg.HTTP.MaxRetries, lastErr)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, urlStr string) (*FetchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}

	// Заголовки только если заданы в конфиге
	if f.cfg.HTTP.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.HTTP.UserAgent)
	}
	if f.cfg.HTTP.AcceptEncoding != "" {
		// транспорт больше не распаковывает сам, см. decodeBody
		req.Header.Set("Accept-Encoding", f.cfg.HTTP.AcceptEncoding)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.logger.Warn("Failed to close response body", "error", err.Error())
		}
	}()

	reader, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Response received",
		"url", urlStr,
		"status", resp.StatusCode,
		"content_encoding", resp.Header.Get("Content-Encoding"),
		"content_type", resp.Header.Get("Content-Type"),
		"body_size", len(body),
	)

	return &FetchResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		URL:        resp.Request.URL.String(),
		Headers:    resp.Header,
	}, nil
}

// calculateBackoff: min*2^(attempt-1), не больше max, затем ±jitter_pct%.
// Результат не меньше min.
func (f *HTTPFetcher) calculateBackoff(attempt int) time.Duration {
	minDelay := f.cfg.GetBackoffMin()
	maxDelay := f.cfg.GetBackoffMax()

	delay := maxDelay
	if shift := attempt - 1; shift >= 0 && shift < 16 {
		if d := minDelay << shift; d < maxDelay {
			delay = d
		}
	}

	if pct := f.cfg.Backoff.JitterPct; pct > 0 {
		spread := float64(delay) * float64(pct) / 100
		delay += time.Duration((rand.Float64()*2 - 1) * spread)
	}

	return max(delay, minDelay)
}
