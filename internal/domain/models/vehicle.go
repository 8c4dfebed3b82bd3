package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle status values stored in the vehicles table. "Excluded" is a
// soft-delete: the row is kept for rental history.
const (
	VehicleAvailable   = "Available"
	VehicleRented      = "Rented"
	VehicleReserved    = "Reserved"
	VehicleUnavailable = "Unavailable"
	VehicleExcluded    = "Excluded"
)

type Vehicle struct {
	ID                 int64           `json:"id"`
	Make               string          `json:"make"`
	Model              string          `json:"model"`
	Plate              string          `json:"plate"`
	Color              string          `json:"color,omitempty"`
	CurrentKm          int             `json:"currentKm"`
	DailyRate          decimal.Decimal `json:"dailyRate"`
	PerKmRate          decimal.Decimal `json:"perKmRate"`
	ChassisNumber      string          `json:"chassisNumber,omitempty"`
	RegistrationNumber string          `json:"registrationNumber,omitempty"`
	ManufactureYear    int             `json:"manufactureYear,omitempty"`
	OilChangeKm        int             `json:"oilChangeKm,omitempty"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"createdAt,omitempty"`
	UpdatedAt          time.Time       `json:"updatedAt,omitempty"`
}

// VehicleStatusFor maps a reservation status to the vehicle status that must
// accompany it. Every reservation mutation goes through this table so the two
// rows never drift apart.
func VehicleStatusFor(reservationStatus string) string {
	switch reservationStatus {
	case ReservationReserved:
		return VehicleReserved
	case ReservationRented:
		return VehicleRented
	default:
		return VehicleAvailable
	}
}
