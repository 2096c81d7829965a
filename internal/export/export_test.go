package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"share-dividends-parser/internal/dividend"
)

func sampleResult() *dividend.Result {
	a := dividend.NewAssembler(nil)
	result := &dividend.Result{}
	result.Append(a.Assemble("CBA", []string{"ex_date", "amount"}, [][]string{
		{"01 Jan", "0.50"},
		{"01 Jul", "0.60"},
	}))
	result.Append(a.Assemble("ANZ", []string{"ex_date", "franking"}, [][]string{
		{"02 Jan", "100%, fully"},
	}))
	return result
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}

	want := [][]string{
		{"ex_date", "amount", "franking", "symbol"},
		{"01 Jan", "0.50", "", "CBA"},
		{"01 Jul", "0.60", "", "CBA"},
		{"02 Jan", "", "100%, fully", "ANZ"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVKeepsDuplicateColumns(t *testing.T) {
	result := &dividend.Result{}
	result.Append(dividend.NewAssembler(nil).Assemble("CBA",
		[]string{"", "amount", "", "amount"},
		[][]string{{"icon1", "0.50", "icon2", "0.70"}},
	))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, result); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}

	want := [][]string{
		{"", "amount", "_1", "amount_1", "symbol"},
		{"icon1", "0.50", "icon2", "0.70", "CBA"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderTableKeepsDuplicateColumns(t *testing.T) {
	result := &dividend.Result{}
	result.Append(dividend.NewAssembler(nil).Assemble("CBA",
		[]string{"amount", "amount"},
		[][]string{{"0.50", "0.70"}},
	))

	var buf bytes.Buffer
	RenderTable(&buf, result)

	out := buf.String()
	for _, want := range []string{"AMOUNT", "0.50", "0.70"} {
		if !strings.Contains(strings.ToUpper(out), want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, &dividend.Result{}); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if got := buf.String(); got != "symbol\n" {
		t.Errorf("WriteCSV() = %q, want header only", got)
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, sampleResult())

	out := buf.String()
	for _, want := range []string{"DATE", "SYMBOL", "01 Jul", "ANZ", "3 ROWS"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
}
