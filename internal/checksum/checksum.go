package checksum

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

const (
	fieldSep = "\x1f"
	rowSep   = "\x1e"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateTableHash генерирует SHA256 хеш таблицы
// Формула: SHA256(columns RS row1 RS row2 ...), поля разделены US
func (g *Generator) GenerateTableHash(columns []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(columns, fieldSep))
	for _, row := range rows {
		b.WriteString(rowSep)
		b.WriteString(strings.Join(row, fieldSep))
	}

	hash := sha256.Sum256([]byte(b.String()))

	return fmt.Sprintf("%x", hash)
}
