package config

import (
	"fmt"
	"path/filepath"

	"share-dividends-parser/internal/scraper"
)

// LoadSelectors загружает селекторы таблицы из YAML файла.
// Незаданные ключи берутся из scraper.DefaultSelectors().
func LoadSelectors(filePath string) (*scraper.Selectors, error) {
	if filePath == "" {
		return nil, fmt.Errorf("selectors file path is empty")
	}

	selectors := scraper.DefaultSelectors()
	if err := decodeFile(filePath, selectors); err != nil {
		return nil, fmt.Errorf("failed to load selectors: %w", err)
	}

	if err := validateSelectors(selectors); err != nil {
		return nil, err
	}

	return selectors, nil
}

// Selectors возвращает селекторы из selectors_file или дефолтные
func (c *Config) Selectors() (*scraper.Selectors, error) {
	if c.SelectorsFile == "" {
		return scraper.DefaultSelectors(), nil
	}

	filePath := c.SelectorsFile
	// Относительный путь считаем от директории конфига
	if !filepath.IsAbs(filePath) && c.baseDir != "" {
		filePath = filepath.Join(c.baseDir, filePath)
	}

	return LoadSelectors(filePath)
}

func validateSelectors(s *scraper.Selectors) error {
	if s.Table == "" {
		return fmt.Errorf("table selector is required")
	}
	if s.Header == "" {
		return fmt.Errorf("header selector is required")
	}
	if s.HeaderCell == "" {
		return fmt.Errorf("header_cell selector is required")
	}
	if s.Row == "" {
		return fmt.Errorf("row selector is required")
	}
	if s.BodyCell == "" {
		return fmt.Errorf("body_cell selector is required")
	}

	return nil
}
