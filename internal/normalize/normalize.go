package normalize

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Options управляет дополнительной чисткой текста ячеек.
// По умолчанию обе опции выключены и текст ячейки не трогается,
// кроме удаления '\r'.
type Options struct {
	TrimNBSP       bool
	CollapseSpaces bool
}

type Normalizer struct {
	opts Options
}

func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// HeaderName приводит заголовок колонки к виду ex_date:
// обрезает пробелы по краям, в нижний регистр, пробелы → '_'
func (n *Normalizer) HeaderName(text string) string {
	text = strings.TrimSpace(n.clean(text))
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}

// CellText возвращает текст ячейки без '\r'
func (n *Normalizer) CellText(text string) string {
	return n.clean(strings.ReplaceAll(text, "\r", ""))
}

func (n *Normalizer) clean(text string) string {
	if n.opts.TrimNBSP {
		// Заменяем NBSP (\u00A0) на обычный пробел
		text = strings.ReplaceAll(text, "\u00A0", " ")
	}

	if n.opts.CollapseSpaces {
		text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	}

	return text
}

// IsBlankRow сообщает, что в строке нет ни одной непустой ячейки
func IsBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
