package config

import (
	"fmt"
	"strings"
	"time"

	"share-dividends-parser/internal/dividend"
	"share-dividends-parser/internal/normalize"
)

const (
	DefaultBaseURL = "http://www.sharedividends.com.au/"
	DefaultWorkers = 2
)

type Config struct {
	BaseURL       string              `yaml:"base_url"`
	Tickers       []string            `yaml:"tickers"`
	Collect       CollectConfig       `yaml:"collect"`
	HTTP          HttpConfig          `yaml:"http"`
	Backoff       BackoffConfig       `yaml:"backoff"`
	Rod           RodConfig           `yaml:"rod"`
	SelectorsFile string              `yaml:"selectors_file"`
	Normalize     NormalizeConfig     `yaml:"normalize"`
	Output        OutputConfig        `yaml:"output"`
	Observability ObservabilityConfig `yaml:"observability"`

	// директория файла конфига, относительно неё резолвится selectors_file
	baseDir string
}

type CollectConfig struct {
	Concurrent bool `yaml:"concurrent"`
	Workers    int  `yaml:"workers"`
}

type HttpConfig struct {
	UserAgent                 string `yaml:"user_agent"`
	AcceptEncoding            string `yaml:"accept_encoding"`
	TotalTimeoutMS            int    `yaml:"total_timeout_ms"`
	MaxRetries                int    `yaml:"max_retries"`
	MaxIdleConnections        int    `yaml:"max_idle_connections"`
	MaxIdleConnectionsPerHost int    `yaml:"max_idle_connections_per_host"`
	IdleConnectionTimeoutS    int    `yaml:"idle_connection_timeout_s"`
}

type BackoffConfig struct {
	MinMS     int `yaml:"min_ms"`
	MaxMS     int `yaml:"max_ms"`
	JitterPct int `yaml:"jitter_pct"`
}

type RodConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ChromePath   string `yaml:"chrome_path"`
	PageTimeoutS int    `yaml:"page_timeout_s"`
}

type NormalizeConfig struct {
	TrimNBSP       bool `yaml:"trim_nbsp"`
	CollapseSpaces bool `yaml:"collapse_spaces"`
}

type OutputConfig struct {
	Format     string `yaml:"format"`
	Path       string `yaml:"path"`
	SumColumn  string `yaml:"sum_column"`
	// date_column: строки каждого тикера сортируются по этой дате, новые сверху;
	// since (дата в любом формате ParseDate) отбрасывает более ранние строки
	DateColumn string `yaml:"date_column"`
	Since      string `yaml:"since"`
}

type ObservabilityConfig struct {
	LogPath    string `yaml:"log_path"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default возвращает рабочий конфиг без файла: один GET без заголовков,
// без ретраев и таймаута, пул из двух воркеров.
func Default() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Collect: CollectConfig{
			Workers: DefaultWorkers,
		},
		HTTP: HttpConfig{
			MaxIdleConnections:        100,
			MaxIdleConnectionsPerHost: 10,
			IdleConnectionTimeoutS:    90,
		},
		Backoff: BackoffConfig{
			MinMS:     250,
			MaxMS:     2000,
			JitterPct: 20,
		},
		Rod: RodConfig{
			PageTimeoutS: 30,
		},
		Output: OutputConfig{
			Format: "csv",
		},
		Observability: ObservabilityConfig{
			LogLevel:   "info",
			LogFormat:  "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Validation
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	for i, ticker := range c.Tickers {
		if strings.TrimSpace(ticker) == "" {
			return fmt.Errorf("tickers[%d] is empty", i)
		}
	}
	if c.Collect.Workers <= 0 {
		return fmt.Errorf("collect.workers must be > 0")
	}
	if c.HTTP.TotalTimeoutMS < 0 {
		return fmt.Errorf("http.total_timeout_ms must be >= 0")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if c.HTTP.MaxRetries > 0 {
		if c.Backoff.MinMS <= 0 {
			return fmt.Errorf("backoff.min_ms must be > 0")
		}
		if c.Backoff.MaxMS <= 0 {
			return fmt.Errorf("backoff.max_ms must be > 0")
		}
		if c.Backoff.MinMS > c.Backoff.MaxMS {
			return fmt.Errorf("backoff.min_ms must be <= backoff.max_ms")
		}
	}
	if c.Backoff.JitterPct < 0 || c.Backoff.JitterPct > 100 {
		return fmt.Errorf("backoff.jitter_pct must be between 0 and 100")
	}
	if c.Rod.Enabled {
		if c.Rod.ChromePath == "" {
			return fmt.Errorf("rod.chrome_path is required when rod.enabled is true")
		}
		if c.Rod.PageTimeoutS <= 0 {
			return fmt.Errorf("rod.page_timeout_s must be > 0")
		}
	}
	if c.Output.Format != "csv" && c.Output.Format != "table" {
		return fmt.Errorf("output.format must be 'csv' or 'table'")
	}
	if c.Output.Since != "" {
		if c.Output.DateColumn == "" {
			return fmt.Errorf("output.date_column is required when output.since is set")
		}
		if _, err := dividend.ParseDate(c.Output.Since); err != nil {
			return fmt.Errorf("output.since: %w", err)
		}
	}
	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("observability.log_level must be one of debug, info, warn, error")
	}
	if c.Observability.LogFormat != "" && c.Observability.LogFormat != "text" && c.Observability.LogFormat != "json" {
		return fmt.Errorf("observability.log_format must be 'text' or 'json'")
	}
	return nil
}

// Getters
func (c *Config) GetTotalTimeout() time.Duration {
	return time.Duration(c.HTTP.TotalTimeoutMS) * time.Millisecond
}

func (c *Config) GetIdleConnectionTimeout() time.Duration {
	return time.Duration(c.HTTP.IdleConnectionTimeoutS) * time.Second
}

func (c *Config) GetBackoffMin() time.Duration {
	return time.Duration(c.Backoff.MinMS) * time.Millisecond
}

func (c *Config) GetBackoffMax() time.Duration {
	return time.Duration(c.Backoff.MaxMS) * time.Millisecond
}

// GetSince — нулевое время, если output.since не задан
func (c *Config) GetSince() time.Time {
	if c.Output.Since == "" {
		return time.Time{}
	}
	since, _ := dividend.ParseDate(c.Output.Since)
	return since
}

func (c *Config) GetRodPageTimeout() time.Duration {
	return time.Duration(c.Rod.PageTimeoutS) * time.Second
}

func (c *Config) NormalizeOptions() normalize.Options {
	return normalize.Options{
		TrimNBSP:       c.Normalize.TrimNBSP,
		CollapseSpaces: c.Normalize.CollapseSpaces,
	}
}
