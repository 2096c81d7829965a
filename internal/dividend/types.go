package dividend

import (
	"errors"
	"fmt"
)

// SymbolColumn всегда последняя колонка таблицы
const SymbolColumn = "symbol"

var (
	ErrFetch = errors.New("fetch failed")
	ErrParse = errors.New("parse failed")
)

// TickerError связывает ошибку пайплайна с тикером
type TickerError struct {
	Ticker string
	Err    error
}

func (e *TickerError) Error() string {
	return fmt.Sprintf("ticker %s: %v", e.Ticker, e.Err)
}

func (e *TickerError) Unwrap() error {
	return e.Err
}

// Record — одна строка таблицы. Columns общий для всех строк таблицы.
type Record struct {
	Columns []string
	Values  []string
}

func (r Record) Get(column string) (string, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return "", false
}

// Map — значения по именам колонок; имена уникальны в пределах таблицы
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// Table — все строки одного тикера
type Table struct {
	Symbol   string
	Columns  []string
	Records  []Record
	Checksum string
}

func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.Records))
	for i, rec := range t.Records {
		rows[i] = rec.Values
	}
	return rows
}

// Result — объединение таблиц нескольких тикеров.
// Failures заполняется только в режиме пула.
type Result struct {
	Tables   []*Table
	Failures []TickerError
}

func (r *Result) Append(t *Table) {
	r.Tables = append(r.Tables, t)
}

// Records возвращает строки всех таблиц подряд, с сохранением группировки по тикеру
func (r *Result) Records() []Record {
	var out []Record
	for _, t := range r.Tables {
		out = append(out, t.Records...)
	}
	return out
}

func (r *Result) Len() int {
	n := 0
	for _, t := range r.Tables {
		n += len(t.Records)
	}
	return n
}

// Columns — объединение колонок в порядке первого появления, symbol последним
func (r *Result) Columns() []string {
	seen := make(map[string]bool)
	var columns []string
	for _, t := range r.Tables {
		for _, c := range t.Columns {
			if c == SymbolColumn || seen[c] {
				continue
			}
			seen[c] = true
			columns = append(columns, c)
		}
	}
	return append(columns, SymbolColumn)
}

func (r *Result) Symbols() []string {
	symbols := make([]string, 0, len(r.Tables))
	for _, t := range r.Tables {
		symbols = append(symbols, t.Symbol)
	}
	return symbols
}

// Err объединяет ошибки пула, nil если все тикеры успешны
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i := range r.Failures {
		errs[i] = &r.Failures[i]
	}
	return errors.Join(errs...)
}
