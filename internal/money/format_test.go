package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   []string
	}{
		{"1234.5", "USD", []string{"$", "1,234"}},
		{"1234567.89", "EUR", []string{"€", "1,234,567"}},
		{"42", "nope", []string{"$", "42"}},
	}

	for _, tt := range tests {
		got := Format(decimal.RequireFromString(tt.amount), tt.code)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("Format(%s, %s) = %q, missing %q", tt.amount, tt.code, got, w)
			}
		}
	}
}

func TestParseCurrency(t *testing.T) {
	got, err := ParseCurrency(" eur ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "EUR" {
		t.Errorf("ParseCurrency = %q, want EUR", got)
	}

	_, err = ParseCurrency("XYZ1")
	if err == nil {
		t.Error("expected error for unknown code")
	}
}
