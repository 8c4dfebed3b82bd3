package services

import (
	"testing"
)

func TestOverlapDays(t *testing.T) {
	cases := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         int
	}{
		{"totalmente dentro", "2025-03-10", "2025-03-12", "2025-03-01", "2025-03-31", 3},
		{"atravessa o início", "2025-02-25", "2025-03-03", "2025-03-01", "2025-03-31", 3},
		{"atravessa o fim", "2025-03-29", "2025-04-05", "2025-03-01", "2025-03-31", 3},
		{"sem interseção", "2025-04-01", "2025-04-03", "2025-03-01", "2025-03-31", 0},
		{"um único dia", "2025-03-15", "2025-03-15", "2025-03-01", "2025-03-31", 1},
		{"cobre o mês inteiro", "2025-02-01", "2025-04-30", "2025-03-01", "2025-03-31", 31},
	}
	for _, tc := range cases {
		got := overlapDays(day(tc.aStart), day(tc.aEnd), day(tc.bStart), day(tc.bEnd))
		if got != tc.want {
			t.Errorf("%s: overlapDays = %d, esperado %d", tc.name, got, tc.want)
		}
	}
}
