package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBillableDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2025-03-10", "2025-03-13", 3},
		{"2025-03-10", "2025-03-11", 1},
		{"2025-03-10", "2025-03-10", 1},
		{"2025-02-27", "2025-03-02", 3},
	}
	for _, tc := range cases {
		if got := BillableDays(day(tc.start), day(tc.end)); got != tc.want {
			t.Errorf("BillableDays(%s, %s) = %d, esperado %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestDailyCharge(t *testing.T) {
	rate := dec("100.00")

	if got := DailyCharge(rate, 3, false, decimal.Zero); !got.Equal(dec("300.00")) {
		t.Errorf("3 diárias: %s", got)
	}
	if got := DailyCharge(rate, 3, true, decimal.Zero); !got.Equal(dec("250.00")) {
		t.Errorf("3 diárias com meia-diária: %s", got)
	}
	if got := DailyCharge(rate, 1, true, decimal.Zero); !got.Equal(dec("50.00")) {
		t.Errorf("1 diária com meia-diária cobra meia tarifa: %s", got)
	}
	if got := DailyCharge(rate, 3, false, dec("50.00")); !got.Equal(dec("250.00")) {
		t.Errorf("desconto: %s", got)
	}
	if got := DailyCharge(rate, 1, false, dec("500.00")); !got.Equal(decimal.Zero) {
		t.Errorf("desconto maior que o total deve zerar: %s", got)
	}
}

func TestDailyChargeExactCents(t *testing.T) {
	// 0.1 + 0.2 style drift must not appear with decimals
	rate := dec("33.33")
	if got := DailyCharge(rate, 3, false, decimal.Zero); !got.Equal(dec("99.99")) {
		t.Errorf("soma exata: %s", got)
	}
}

func TestKmCharge(t *testing.T) {
	perKm := dec("0.80")

	if got := KmCharge(1000, 1350, 300, perKm); !got.Equal(dec("40.00")) {
		t.Errorf("excedente de 50 km: %s", got)
	}
	if got := KmCharge(1000, 1200, 300, perKm); !got.Equal(decimal.Zero) {
		t.Errorf("dentro da franquia: %s", got)
	}
	if got := KmCharge(1000, 1300, 300, perKm); !got.Equal(decimal.Zero) {
		t.Errorf("exatamente na franquia: %s", got)
	}
}

func TestSettle(t *testing.T) {
	s := Settle(dec("300.00"), dec("40.00"), dec("30.00"), decimal.Zero, decimal.Zero, dec("10.00"), dec("100.00"), dec("50.00"))

	if !s.GrandTotal.Equal(dec("380.00")) {
		t.Errorf("total geral: %s", s.GrandTotal)
	}
	if !s.SignedBalance.Equal(dec("230.00")) {
		t.Errorf("saldo: %s", s.SignedBalance)
	}
	if !s.BalanceDue.Equal(dec("230.00")) {
		t.Errorf("saldo a receber: %s", s.BalanceDue)
	}
	if !s.Refund.Equal(decimal.Zero) {
		t.Errorf("não deveria haver reembolso: %s", s.Refund)
	}
}

func TestSettleOverpaid(t *testing.T) {
	s := Settle(dec("100.00"), decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, dec("150.00"), decimal.Zero)

	if !s.SignedBalance.Equal(dec("-50.00")) {
		t.Errorf("saldo assinado deve ficar negativo: %s", s.SignedBalance)
	}
	if !s.BalanceDue.Equal(decimal.Zero) {
		t.Errorf("saldo armazenado nunca é negativo: %s", s.BalanceDue)
	}
	if !s.Refund.Equal(dec("50.00")) {
		t.Errorf("reembolso: %s", s.Refund)
	}
}

func TestSettleIdempotent(t *testing.T) {
	first := Settle(dec("250.00"), dec("12.50"), decimal.Zero, dec("80.00"), decimal.Zero, decimal.Zero, dec("100.00"), decimal.Zero)
	second := Settle(first.DaysCharge, first.KmCharge, decimal.Zero, dec("80.00"), decimal.Zero, decimal.Zero, dec("100.00"), decimal.Zero)

	if !first.GrandTotal.Equal(second.GrandTotal) || !first.BalanceDue.Equal(second.BalanceDue) {
		t.Errorf("recomputar com as mesmas entradas mudou o resultado: %s vs %s", first.GrandTotal, second.GrandTotal)
	}
}
