package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fine status values. Paid and Exempt both release the reservation from
// FinePending once no other pending fine remains.
const (
	FinePending = "Pending"
	FinePaid    = "Paid"
	FineExempt  = "Exempt"
)

type Fine struct {
	ID             int64           `json:"id"`
	ReservationID  int64           `json:"reservationId"`
	InfractionType string          `json:"infractionType"`
	Amount         decimal.Decimal `json:"amount"`
	InfractionAt   time.Time       `json:"infractionAt"`
	Location       string          `json:"location,omitempty"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes,omitempty"`
	PaidAt         *time.Time      `json:"paidAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
}

func ValidFineStatus(s string) bool {
	switch s {
	case FinePending, FinePaid, FineExempt:
		return true
	}
	return false
}
