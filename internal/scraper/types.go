package scraper

// Selectors описывает где на странице искать таблицу дивидендов.
// Значения по умолчанию повторяют разметку сайта: первая table,
// заголовок в thead/th, данные в tr/td.
type Selectors struct {
	Table      string `yaml:"table"`
	Header     string `yaml:"header"`
	HeaderCell string `yaml:"header_cell"`
	Row        string `yaml:"row"`
	BodyCell   string `yaml:"body_cell"`
}

func DefaultSelectors() *Selectors {
	return &Selectors{
		Table:      "table",
		Header:     "thead",
		HeaderCell: "th",
		Row:        "tr",
		BodyCell:   "td",
	}
}

// Extraction — сырые данные таблицы одной страницы
type Extraction struct {
	TableFound bool
	Headers    []string
	Rows       [][]string
}
