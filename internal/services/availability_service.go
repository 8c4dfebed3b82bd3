package services

import (
	"time"

	intdb "rental/internal/db"
	"rental/internal/domain"
	"rental/internal/domain/models"
	"rental/internal/repositories"
)

// AvailabilityService answers which vehicles can take a rental interval.
type AvailabilityService struct {
	Reservations repositories.ReservationRepository
}

func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.ValidationError{Field: "period", Msg: "datas de início e fim são obrigatórias"}
	}
	if end.Before(start) {
		return domain.ValidationError{Field: "period", Msg: "data final não pode ser anterior à inicial"}
	}
	return nil
}

// FindAvailable lists every bookable vehicle for the interval. The turnover
// flag relaxes the overlap rule so a vehicle can go out the same day another
// rental of it ends.
func (s AvailabilityService) FindAvailable(start, end time.Time, allowSameDayTurnover bool) ([]models.Vehicle, error) {
	if err := validateInterval(start, end); err != nil {
		return nil, err
	}
	return s.Reservations.FindAvailableVehicles(start, end, allowSameDayTurnover)
}

// VehicleFree checks one vehicle against active reservations using the
// conservative rule (boundary days conflict). Booking always uses this
// check, regardless of how the vehicle was found. excludeReservationID
// ignores the reservation being edited.
func (s AvailabilityService) VehicleFree(q intdb.Querier, vehicleID int64, start, end time.Time, excludeReservationID int64) (bool, error) {
	if err := validateInterval(start, end); err != nil {
		return false, err
	}
	count, err := s.Reservations.CountOverlapping(q, vehicleID, start, end, excludeReservationID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
