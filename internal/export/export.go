package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"share-dividends-parser/internal/dividend"
)

// WriteCSV пишет результат в CSV. Заголовок — объединение колонок всех
// тикеров; колонки, которых нет у тикера, остаются пустыми.
func WriteCSV(w io.Writer, result *dividend.Result) error {
	columns := result.Columns()

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range result.Records() {
		if err := cw.Write(alignRecord(rec, columns)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// RenderTable печатает результат таблицей для консоли
func RenderTable(w io.Writer, result *dividend.Result) {
	columns := result.Columns()

	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, rec := range result.Records() {
		values := alignRecord(rec, columns)
		row := make(table.Row, len(values))
		for i, v := range values {
			row[i] = v
		}
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{fmt.Sprintf("%d rows", result.Len())})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// alignRecord раскладывает строку по объединённым колонкам результата
func alignRecord(rec dividend.Record, columns []string) []string {
	byName := rec.Map()
	values := make([]string, len(columns))
	for i, c := range columns {
		values[i] = byName[c]
	}
	return values
}
