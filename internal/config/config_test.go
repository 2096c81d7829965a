package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Collect.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Collect.Workers)
	}
	if cfg.HTTP.MaxRetries != 0 || cfg.GetTotalTimeout() != 0 {
		t.Errorf("default should have no retries and no timeout, got %d / %v", cfg.HTTP.MaxRetries, cfg.GetTotalTimeout())
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
tickers: [CBA, ANZ]
collect:
  concurrent: true
  workers: 4
http:
  total_timeout_ms: 1500
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if len(cfg.Tickers) != 2 || cfg.Tickers[1] != "ANZ" {
		t.Errorf("Tickers = %v", cfg.Tickers)
	}
	if !cfg.Collect.Concurrent || cfg.Collect.Workers != 4 {
		t.Errorf("Collect = %+v", cfg.Collect)
	}
	if cfg.GetTotalTimeout() != 1500*time.Millisecond {
		t.Errorf("GetTotalTimeout() = %v", cfg.GetTotalTimeout())
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("Output.Format = %q, want csv", cfg.Output.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty base url", func(c *Config) { c.BaseURL = "" }, "base_url"},
		{"blank ticker", func(c *Config) { c.Tickers = []string{"CBA", " "} }, "tickers[1]"},
		{"zero workers", func(c *Config) { c.Collect.Workers = 0 }, "collect.workers"},
		{"negative retries", func(c *Config) { c.HTTP.MaxRetries = -1 }, "max_retries"},
		{"backoff inverted", func(c *Config) {
			c.HTTP.MaxRetries = 2
			c.Backoff.MinMS = 5000
		}, "backoff.min_ms"},
		{"rod without chrome", func(c *Config) { c.Rod.Enabled = true }, "rod.chrome_path"},
		{"bad output", func(c *Config) { c.Output.Format = "xlsx" }, "output.format"},
		{"bad level", func(c *Config) { c.Observability.LogLevel = "trace" }, "log_level"},
		{"since without column", func(c *Config) { c.Output.Since = "2024-01-01" }, "output.date_column"},
		{"bad since", func(c *Config) {
			c.Output.DateColumn = "ex_date"
			c.Output.Since = "yesterday"
		}, "output.since"},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: Validate() = %v, want error containing %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestLoadConfigSince(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "output:\n  date_column: ex_date\n  since: \"01 Jul 2024\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if want := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC); !cfg.GetSince().Equal(want) {
		t.Errorf("GetSince() = %v, want %v", cfg.GetSince(), want)
	}
	if !Default().GetSince().IsZero() {
		t.Error("GetSince() without output.since should be zero")
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL || cfg.Collect.Workers != DefaultWorkers {
		t.Errorf("empty file should give defaults, got %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "collect:\n  worker: 4\n")

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "worker") {
		t.Fatalf("LoadConfig() = %v, want unknown field error", err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "collect:\n  workers: 0\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected open error")
	}
}

func TestSelectorsFromFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "selectors.yaml", "table: \"table.dividends\"\n")
	path := writeFile(t, dir, "config.yaml", "selectors_file: selectors.yaml\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	sel, err := cfg.Selectors()
	if err != nil {
		t.Fatalf("Selectors() error = %v", err)
	}
	if sel.Table != "table.dividends" {
		t.Errorf("Table = %q", sel.Table)
	}
	if sel.Row != "tr" || sel.BodyCell != "td" {
		t.Errorf("defaults not kept: %+v", sel)
	}
}

func TestLoadSelectorsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "selectors.yaml", "")

	sel, err := LoadSelectors(path)
	if err != nil {
		t.Fatalf("LoadSelectors() error = %v", err)
	}
	if sel.Table != "table" || sel.BodyCell != "td" {
		t.Errorf("empty file should give defaults, got %+v", sel)
	}
}

func TestSelectorsDefault(t *testing.T) {
	sel, err := Default().Selectors()
	if err != nil {
		t.Fatalf("Selectors() error = %v", err)
	}
	if sel.Table != "table" || sel.Header != "thead" || sel.HeaderCell != "th" {
		t.Errorf("unexpected defaults: %+v", sel)
	}
}

func TestLoadSelectorsRejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "selectors.yaml", "row: \"\"\n")

	if _, err := LoadSelectors(path); err == nil {
		t.Fatal("expected error for empty row selector")
	}
	if _, err := LoadSelectors(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadSelectors(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
