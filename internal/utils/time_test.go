package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	parse := func(s string) time.Time {
		v, err := ParseDate(s)
		if err != nil {
			t.Fatalf("ParseDate(%s): %v", s, err)
		}
		return v
	}

	cases := []struct {
		a, b string
		want int
	}{
		{"2025-03-10", "2025-03-13", 3},
		{"2025-03-10", "2025-03-10", 0},
		{"2025-03-13", "2025-03-10", -3},
		{"2025-02-27", "2025-03-02", 3},
		{"2024-02-27", "2024-03-02", 4},
	}
	for _, tc := range cases {
		if got := DaysBetween(parse(tc.a), parse(tc.b)); got != tc.want {
			t.Errorf("DaysBetween(%s, %s) = %d, esperado %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestValidTimeHM(t *testing.T) {
	if !ValidTimeHM("09:30") {
		t.Error("09:30 é válido")
	}
	if ValidTimeHM("25:00") {
		t.Error("25:00 é inválido")
	}
	if ValidTimeHM("9h30") {
		t.Error("9h30 é inválido")
	}
}
