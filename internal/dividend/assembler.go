package dividend

import (
	"strconv"

	"share-dividends-parser/internal/checksum"
	"share-dividends-parser/internal/observability"
)

type Assembler struct {
	logger   *observability.Logger
	checksum *checksum.Generator
}

func NewAssembler(logger *observability.Logger) *Assembler {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Assembler{
		logger:   logger,
		checksum: checksum.NewGenerator(),
	}
}

// Assemble собирает таблицу тикера. Ячейки сопоставляются с заголовками
// по позиции: короткие строки дополняются "", лишние ячейки отбрасываются
// с предупреждением. Без заголовков колонки называются "0", "1", ...
// Колонка symbol страницы заменяется тикером и ставится последней.
// Повторяющиеся имена колонок получают суффикс: amount, amount_1.
func (a *Assembler) Assemble(ticker string, headers []string, rows [][]string) *Table {
	if len(headers) == 0 {
		headers = positionalHeaders(rows)
	}

	columns := make([]string, 0, len(headers)+1)
	source := make([]int, 0, len(headers))
	for i, h := range headers {
		if h == SymbolColumn {
			continue
		}
		columns = append(columns, h)
		source = append(source, i)
	}
	columns = append(uniqueColumns(columns), SymbolColumn)

	table := &Table{
		Symbol:  ticker,
		Columns: columns,
		Records: make([]Record, 0, len(rows)),
	}

	for i, row := range rows {
		if len(row) > len(headers) {
			a.logger.Warn("Row wider than header",
				"ticker", ticker,
				"row", i,
				"cells", len(row),
				"columns", len(headers),
			)
		}

		values := make([]string, len(columns))
		for j, src := range source {
			if src < len(row) {
				values[j] = row[src]
			}
		}
		values[len(values)-1] = ticker

		table.Records = append(table.Records, Record{Columns: columns, Values: values})
	}

	table.Checksum = a.checksum.GenerateTableHash(table.Columns, table.Rows())

	return table
}

func positionalHeaders(rows [][]string) []string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	for i := range headers {
		headers[i] = strconv.Itoa(i)
	}
	return headers
}

// uniqueColumns: первое вхождение имени остаётся как есть, следующие
// получают _1, _2, ... с пропуском имён, уже занятых другими колонками
func uniqueColumns(names []string) []string {
	taken := make(map[string]bool, len(names)+1)
	taken[SymbolColumn] = true
	for _, name := range names {
		taken[name] = true
	}

	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if !used[name] {
			used[name] = true
			out[i] = name
			continue
		}
		for n := 1; ; n++ {
			candidate := name + "_" + strconv.Itoa(n)
			if !taken[candidate] {
				taken[candidate] = true
				used[candidate] = true
				out[i] = candidate
				break
			}
		}
	}
	return out
}
