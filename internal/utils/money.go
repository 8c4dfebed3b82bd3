package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a decimal amount as Brazilian currency (R$ 1.234,56).
func FormatBRL(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Abs()
	}
	s := v.StringFixed(2)
	parts := strings.SplitN(s, ".", 2)
	intPart, decPart := parts[0], "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}
	var out strings.Builder
	for i, c := range intPart {
		if i != 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte('.')
		}
		out.WriteRune(c)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, out.String(), decPart)
}
