package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig читает YAML поверх Default(), так что незаданные поля
// сохраняют значения по умолчанию. Пустой файл даёт Default().
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(filePath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	cfg.baseDir = filepath.Dir(filePath)

	return cfg, nil
}

// decodeFile накладывает YAML файла на out. Неизвестные ключи — ошибка,
// пустой файл оставляет out без изменений.
func decodeFile(filePath string, out any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	return nil
}
