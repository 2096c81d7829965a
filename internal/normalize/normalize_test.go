package normalize

import (
	"testing"
)

func TestHeaderName(t *testing.T) {
	n := NewNormalizer(Options{})

	tests := []struct {
		input    string
		expected string
	}{
		{"Ex Date", "ex_date"},
		{"  Amount\n", "amount"},
		{"Franking %", "franking_%"},
		{"Pay  Date", "pay__date"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := n.HeaderName(tt.input); got != tt.expected {
			t.Errorf("HeaderName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestHeaderNameCollapse(t *testing.T) {
	n := NewNormalizer(Options{TrimNBSP: true, CollapseSpaces: true})

	if got := n.HeaderName("Pay\u00A0 \tDate"); got != "pay_date" {
		t.Errorf("HeaderName = %q, want pay_date", got)
	}
}

func TestCellText(t *testing.T) {
	plain := NewNormalizer(Options{})
	if got := plain.CellText("0.50\r\n"); got != "0.50\n" {
		t.Errorf("CellText = %q, want %q", got, "0.50\n")
	}
	if got := plain.CellText(" 01 Jan "); got != " 01 Jan " {
		t.Errorf("CellText should keep surrounding spaces by default, got %q", got)
	}

	cleaned := NewNormalizer(Options{TrimNBSP: true, CollapseSpaces: true})
	if got := cleaned.CellText("\u00A001\u00A0\u00A0Jan\r\n"); got != "01 Jan" {
		t.Errorf("CellText = %q, want %q", got, "01 Jan")
	}
}

func TestIsBlankRow(t *testing.T) {
	tests := []struct {
		cells    []string
		expected bool
	}{
		{nil, true},
		{[]string{"", " ", "\n"}, true},
		{[]string{"", "0.50"}, false},
	}

	for _, tt := range tests {
		if got := IsBlankRow(tt.cells); got != tt.expected {
			t.Errorf("IsBlankRow(%q) = %v, want %v", tt.cells, got, tt.expected)
		}
	}
}
