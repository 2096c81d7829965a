package scraper

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"share-dividends-parser/internal/normalize"
	"share-dividends-parser/internal/observability"
)

type Scraper struct {
	selectors  *Selectors
	normalizer *normalize.Normalizer
	logger     *observability.Logger
}

func NewScraper(selectors *Selectors, normalizer *normalize.Normalizer, logger *observability.Logger) *Scraper {
	if selectors == nil {
		selectors = DefaultSelectors()
	}
	if normalizer == nil {
		normalizer = normalize.NewNormalizer(normalize.Options{})
	}
	if logger == nil {
		logger = observability.Nop()
	}

	return &Scraper{
		selectors:  selectors,
		normalizer: normalizer,
		logger:     logger,
	}
}

// WithLogger возвращает копию скрапера с другим логгером
// (например с полем ticker для предупреждений).
func (s *Scraper) WithLogger(logger *observability.Logger) *Scraper {
	clone := *s
	clone.logger = logger
	return &clone
}

// Parse разбирает HTML в дерево документа. Парсер терпим к битой разметке.
func (s *Scraper) Parse(markup []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// FindFirstTable возвращает первую таблицу в порядке документа
func (s *Scraper) FindFirstTable(doc *goquery.Document) (*goquery.Selection, bool) {
	table := doc.Find(s.selectors.Table).First()
	return table, table.Length() > 0
}

// ExtractHeaders возвращает имена колонок из секции заголовка.
// Нет заголовка — предупреждение и nil, не ошибка.
func (s *Scraper) ExtractHeaders(table *goquery.Selection) []string {
	header := table.Find(s.selectors.Header).First()
	if header.Length() == 0 {
		s.logger.Warn("Headers not found")
		return nil
	}

	headers := make([]string, 0)
	header.Find(s.selectors.HeaderCell).Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, s.normalizer.HeaderName(cell.Text()))
	})

	return headers
}

// ExtractRows собирает текст ячеек данных по всем строкам таблицы.
// Строки заголовка не исключаются: в них обычно только th, поэтому
// они отпадают как пустые.
func (s *Scraper) ExtractRows(table *goquery.Selection) [][]string {
	rows := table.Find(s.selectors.Row)
	if rows.Length() == 0 {
		s.logger.Warn("Table contains no data")
		return nil
	}

	data := make([][]string, 0, rows.Length())
	rows.Each(func(i int, row *goquery.Selection) {
		var cells []string
		row.Find(s.selectors.BodyCell).Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, s.normalizer.CellText(cell.Text()))
		})

		if normalize.IsBlankRow(cells) {
			s.logger.Debug("Skipping empty row", "row", i, "cells", len(cells))
			return
		}
		data = append(data, cells)
	})

	return data
}

// ExtractTable — Parse + FindFirstTable + ExtractHeaders + ExtractRows.
// Отсутствие таблицы не ошибка: пустой результат и предупреждение.
func (s *Scraper) ExtractTable(markup []byte) (*Extraction, error) {
	doc, err := s.Parse(markup)
	if err != nil {
		return nil, err
	}

	table, found := s.FindFirstTable(doc)
	if !found {
		s.logger.Warn("Table not found", "selector", s.selectors.Table)
		s.logger.Warn("Headers not found")
		s.logger.Warn("Table contains no data")
		return &Extraction{}, nil
	}

	return &Extraction{
		TableFound: true,
		Headers:    s.ExtractHeaders(table),
		Rows:       s.ExtractRows(table),
	}, nil
}
