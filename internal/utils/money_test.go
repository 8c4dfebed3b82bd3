package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"120", "R$ 120,00"},
		{"1234.5", "R$ 1.234,50"},
		{"1234567.89", "R$ 1.234.567,89"},
		{"-50.10", "-R$ 50,10"},
	}
	for _, tc := range cases {
		v := decimal.RequireFromString(tc.in)
		if got := FormatBRL(v); got != tc.want {
			t.Errorf("FormatBRL(%s) = %q, esperado %q", tc.in, got, tc.want)
		}
	}
}
