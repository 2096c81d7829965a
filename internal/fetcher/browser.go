package fetcher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"share-dividends-parser/internal/config"
	"share-dividends-parser/internal/observability"
)

// BrowserFetcher рендерит страницу в headless Chrome через go-rod.
// Браузер запускается на каждый вызов и закрывается до возврата.
type BrowserFetcher struct {
	cfg    *config.Config
	logger *observability.Logger
}

func NewBrowserFetcher(cfg *config.Config, logger *observability.Logger) *BrowserFetcher {
	if logger == nil {
		logger = observability.Nop()
	}
	return &BrowserFetcher{
		cfg:    cfg,
		logger: logger,
	}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, ticker string) (*FetchResponse, error) {
	urlStr := BuildURL(f.cfg.BaseURL, ticker)

	l := launcher.New().
		Context(ctx).
		Bin(f.cfg.Rod.ChromePath).
		Headless(true)
	if f.cfg.HTTP.UserAgent != "" {
		l = l.Set("user-agent", f.cfg.HTTP.UserAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			f.logger.Warn("Failed to close browser", "error", err.Error())
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: urlStr})
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", urlStr, err)
	}

	page = page.Timeout(f.cfg.GetRodPageTimeout())
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load %s: %w", urlStr, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read page html: %w", err)
	}

	f.logger.Debug("Page rendered",
		"ticker", ticker,
		"url", urlStr,
		"body_size", len(html),
	)

	return &FetchResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(html),
		URL:        urlStr,
	}, nil
}
