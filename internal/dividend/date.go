package dividend

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	months = map[string]time.Month{
		"jan": time.January, "january": time.January,
		"feb": time.February, "february": time.February,
		"mar": time.March, "march": time.March,
		"apr": time.April, "april": time.April,
		"may": time.May,
		"jun": time.June, "june": time.June,
		"jul": time.July, "july": time.July,
		"aug": time.August, "august": time.August,
		"sep": time.September, "sept": time.September, "september": time.September,
		"oct": time.October, "october": time.October,
		"nov": time.November, "november": time.November,
		"dec": time.December, "december": time.December,
	}

	// "01 Jan 2024", "1-Jan-24", "01 Jan"
	namedMonthDate = regexp.MustCompile(`^(\d{1,2})[\s\-]+([a-z]+)\.?(?:[\s\-]+(\d{2}|\d{4}))?$`)
	// "01/01/2024", "1.1.24" — день впереди, как на австралийских сайтах
	numericDate = regexp.MustCompile(`^(\d{1,2})[/.](\d{1,2})(?:[/.](\d{2}|\d{4}))?$`)
	isoDate     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// ParseDate разбирает дату из ячейки таблицы и возвращает time.Time (UTC, 00:00:00).
// Без года подставляется текущий год.
func ParseDate(text string) (time.Time, error) {
	dateStr := strings.ToLower(strings.TrimSpace(text))
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	if m := isoDate.FindStringSubmatch(dateStr); m != nil {
		return buildDate(m[1], m[2], m[3])
	}

	if m := namedMonthDate.FindStringSubmatch(dateStr); m != nil {
		month, ok := months[m[2]]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown month: %s", m[2])
		}
		return buildDate(m[3], strconv.Itoa(int(month)), m[1])
	}

	if m := numericDate.FindStringSubmatch(dateStr); m != nil {
		return buildDate(m[3], m[2], m[1])
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", text)
}

func buildDate(yearStr, monthStr, dayStr string) (time.Time, error) {
	year := time.Now().Year()
	if yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid year: %q: %w", yearStr, err)
		}
		if len(yearStr) == 2 {
			y += 2000
		}
		year = y
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month: %q: %w", monthStr, err)
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day: %q: %w", dayStr, err)
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month: %d", month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid day: %d", day)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date нормализует 31.02 в март
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date: %04d-%02d-%02d", year, month, day)
	}
	return t, nil
}

// Date разбирает значение колонки как дату
func (r Record) Date(column string) (time.Time, error) {
	v, ok := r.Get(column)
	if !ok {
		return time.Time{}, fmt.Errorf("column not found: %s", column)
	}
	return ParseDate(v)
}

// SortByDate упорядочивает строки таблицы по дате колонки, новые сверху.
// Строки с неразбираемой датой уходят в конец в исходном порядке.
// Checksum не пересчитывается: он описывает таблицу как она была на странице.
func (t *Table) SortByDate(column string) {
	type dated struct {
		rec  Record
		date time.Time
		ok   bool
	}

	keyed := make([]dated, len(t.Records))
	for i, rec := range t.Records {
		d, err := rec.Date(column)
		keyed[i] = dated{rec: rec, date: d, ok: err == nil}
	}

	slices.SortStableFunc(keyed, func(a, b dated) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return b.date.Compare(a.date)
	})

	for i := range keyed {
		t.Records[i] = keyed[i].rec
	}
}

// FilterSince оставляет строки с датой не раньше since и возвращает
// число отброшенных. Строки с неразбираемой датой отбрасываются.
func (t *Table) FilterSince(column string, since time.Time) int {
	kept := make([]Record, 0, len(t.Records))
	for _, rec := range t.Records {
		d, err := rec.Date(column)
		if err != nil || d.Before(since) {
			continue
		}
		kept = append(kept, rec)
	}

	dropped := len(t.Records) - len(kept)
	t.Records = kept
	return dropped
}
