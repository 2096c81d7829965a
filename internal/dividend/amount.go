package dividend

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer("$", "", ",", "", "%", "", " ", "", "\u00A0", "")

// ParseAmount разбирает денежное или процентное значение: "$0.50", "1,234.5", "100%"
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountCleaner.Replace(text))
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, fmt.Errorf("empty amount: %q", text)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", text, err)
	}
	return d, nil
}

// Decimal разбирает значение колонки как число
func (r Record) Decimal(column string) (decimal.Decimal, error) {
	v, ok := r.Get(column)
	if !ok {
		return decimal.Zero, fmt.Errorf("column not found: %s", column)
	}
	return ParseAmount(v)
}

type ColumnSum struct {
	Total   decimal.Decimal
	Counted int
	Skipped int
}

// SumColumn суммирует колонку; нечисловые и отсутствующие значения пропускаются
func SumColumn(records []Record, column string) ColumnSum {
	sum := ColumnSum{Total: decimal.Zero}
	for _, rec := range records {
		d, err := rec.Decimal(column)
		if err != nil {
			sum.Skipped++
			continue
		}
		sum.Total = sum.Total.Add(d)
		sum.Counted++
	}
	return sum
}

// SumBySymbol — SumColumn отдельно для каждого тикера результата
func SumBySymbol(result *Result, column string) map[string]ColumnSum {
	sums := make(map[string]ColumnSum, len(result.Tables))
	for _, t := range result.Tables {
		part := SumColumn(t.Records, column)
		acc, ok := sums[t.Symbol]
		if !ok {
			acc.Total = decimal.Zero
		}
		acc.Total = acc.Total.Add(part.Total)
		acc.Counted += part.Counted
		acc.Skipped += part.Skipped
		sums[t.Symbol] = acc
	}
	return sums
}
