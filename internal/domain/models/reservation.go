package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Reservation lifecycle status (reservation_status column).
const (
	ReservationReserved  = "Reserved"
	ReservationRented    = "Rented"
	ReservationCancelled = "Cancelled"
	ReservationFinalized = "Finalized"
)

// Operational status (operational_status column). FinePending is a side state
// entered while any fine attached to the reservation is unresolved.
const (
	OperationalActive      = "Active"
	OperationalInactive    = "Inactive"
	OperationalFinalized   = "Finalized"
	OperationalFinePending = "FinePending"
)

// allowedTransitions is the reservation state machine as a directed graph.
// Cancelled is terminal; Finalized still oscillates through FinePending on
// the operational axis, handled by the fine service.
var allowedTransitions = map[string][]string{
	ReservationReserved:  {ReservationRented, ReservationCancelled},
	ReservationRented:    {ReservationFinalized},
	ReservationFinalized: {},
	ReservationCancelled: {},
}

// CanTransition reports whether from -> to is an allowed lifecycle move.
// Same-state is allowed so edits that do not change status pass through.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID                int64           `json:"id"`
	VehicleID         int64           `json:"vehicleId"`
	CustomerID        int64           `json:"customerId"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	DeliveryTime      string          `json:"deliveryTime,omitempty"`
	OperationalStatus string          `json:"operationalStatus"`
	ReservationStatus string          `json:"reservationStatus"`
	OdometerOut       int             `json:"odometerOut"`
	OdometerIn        *int            `json:"odometerIn,omitempty"`
	KmAllowance       int             `json:"kmAllowance"`
	AdvancePayment    decimal.Decimal `json:"advancePayment"`
	DeliveryPayment   decimal.Decimal `json:"deliveryPayment"`
	WashCost          decimal.Decimal `json:"washCost"`
	FineCharges       decimal.Decimal `json:"fineCharges"`
	DamageCharges     decimal.Decimal `json:"damageCharges"`
	OtherCharges      decimal.Decimal `json:"otherCharges"`
	Discount          decimal.Decimal `json:"discount"`
	HalfDay           bool            `json:"halfDay"`
	DaysCharge        decimal.Decimal `json:"daysCharge"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	BalanceDue        decimal.Decimal `json:"balanceDue"`
	CreatedAt         time.Time       `json:"createdAt,omitempty"`
	UpdatedAt         time.Time       `json:"updatedAt,omitempty"`
}

// Transition mutates the lifecycle status after validating it against the
// state machine.
func (r *Reservation) Transition(to string) error {
	if !CanTransition(r.ReservationStatus, to) {
		return fmt.Errorf("transição de reserva inválida: %s -> %s", r.ReservationStatus, to)
	}
	r.ReservationStatus = to
	return nil
}

// Active reports whether the reservation still blocks its vehicle's calendar.
func (r Reservation) Active() bool {
	return r.ReservationStatus == ReservationReserved || r.ReservationStatus == ReservationRented
}
