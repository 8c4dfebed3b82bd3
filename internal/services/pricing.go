package services

import (
	"time"

	"rental/internal/utils"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// BillableDays converts a rental interval into charged days. Same-day
// rentals charge one day; otherwise the day count is the calendar
// difference, return day not included.
func BillableDays(start, end time.Time) int {
	days := utils.DaysBetween(start, end)
	if days < 1 {
		return 1
	}
	return days
}

// DailyCharge prices the stay. With the half-day option the last day is
// billed at half rate, so a single half-day rental pays half the rate.
// The discount is subtracted here so the stored daily total is already
// net; it never goes below zero.
func DailyCharge(rate decimal.Decimal, days int, halfDay bool, discount decimal.Decimal) decimal.Decimal {
	var total decimal.Decimal
	if halfDay {
		total = rate.Mul(decimal.NewFromInt(int64(days - 1))).Add(rate.Mul(half))
	} else {
		total = rate.Mul(decimal.NewFromInt(int64(days)))
	}
	total = total.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}

// KmCharge bills mileage beyond the contracted allowance.
func KmCharge(odometerOut, odometerIn, allowanceKm int, perKmRate decimal.Decimal) decimal.Decimal {
	driven := odometerIn - odometerOut
	if driven <= allowanceKm {
		return decimal.Zero
	}
	excess := decimal.NewFromInt(int64(driven - allowanceKm))
	return excess.Mul(perKmRate).Round(2)
}

// Settlement is the money breakdown produced when a rental closes.
// SignedBalance can be negative (customer overpaid); BalanceDue is the
// amount actually carried as receivable and never goes below zero.
type Settlement struct {
	DaysCharge    decimal.Decimal
	KmCharge      decimal.Decimal
	Extras        decimal.Decimal
	GrandTotal    decimal.Decimal
	SignedBalance decimal.Decimal
	BalanceDue    decimal.Decimal
	Refund        decimal.Decimal
}

// Settle combines the net daily total with mileage and incident charges and
// nets out everything already paid.
func Settle(daysCharge, kmCharge, washCost, fineCharges, damageCharges, otherCharges, advancePayment, deliveryPayment decimal.Decimal) Settlement {
	extras := washCost.Add(fineCharges).Add(damageCharges).Add(otherCharges)
	grand := daysCharge.Add(kmCharge).Add(extras).Round(2)
	signed := grand.Sub(advancePayment).Sub(deliveryPayment).Round(2)

	s := Settlement{
		DaysCharge:    daysCharge,
		KmCharge:      kmCharge,
		Extras:        extras.Round(2),
		GrandTotal:    grand,
		SignedBalance: signed,
		BalanceDue:    signed,
	}
	if signed.IsNegative() {
		s.BalanceDue = decimal.Zero
		s.Refund = signed.Neg()
	}
	return s
}
