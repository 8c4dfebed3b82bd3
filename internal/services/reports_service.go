package services

import (
	"time"

	"rental/internal/domain"
	"rental/internal/domain/models"
	"rental/internal/repositories"
	"rental/internal/utils"

	"github.com/shopspring/decimal"
)

// ReportsService assembles the operator dashboard and the monthly occupancy
// report.
type ReportsService struct {
	Reports   repositories.ReportsRepository
	RequestID string
}

type DashboardSnapshot struct {
	VehiclesAvailable int             `json:"vehiclesAvailable"`
	VehiclesReserved  int             `json:"vehiclesReserved"`
	VehiclesRented    int             `json:"vehiclesRented"`
	ReturnsDueToday   int             `json:"returnsDueToday"`
	MonthRevenue      decimal.Decimal `json:"monthRevenue"`
	PendingFines      int             `json:"pendingFines"`
}

// Dashboard aggregates the numbers shown on the operator landing screen for
// the current day and month.
func (s ReportsService) Dashboard() (DashboardSnapshot, error) {
	counts, err := s.Reports.CountVehiclesByStatus()
	if err != nil {
		return DashboardSnapshot{}, err
	}

	today := utils.Today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	revenue, err := s.Reports.RevenueBetween(monthStart, monthEnd)
	if err != nil {
		return DashboardSnapshot{}, err
	}
	dueToday, err := s.Reports.CountReturnsDueOn(today)
	if err != nil {
		return DashboardSnapshot{}, err
	}
	pendingFines, err := s.Reports.CountPendingFines()
	if err != nil {
		return DashboardSnapshot{}, err
	}

	return DashboardSnapshot{
		VehiclesAvailable: counts[models.VehicleAvailable],
		VehiclesReserved:  counts[models.VehicleReserved],
		VehiclesRented:    counts[models.VehicleRented],
		ReturnsDueToday:   dueToday,
		MonthRevenue:      revenue,
		PendingFines:      pendingFines,
	}, nil
}

type OccupancyReport struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	FleetSize        int             `json:"fleetSize"`
	FleetVehicleDays int             `json:"fleetVehicleDays"`
	RentedDays       int             `json:"rentedDays"`
	OccupancyRate    decimal.Decimal `json:"occupancyRate"`
}

// MonthlyOccupancy measures how many vehicle-days of the month were taken by
// reservations, as a fraction of the whole fleet's capacity.
func (s ReportsService) MonthlyOccupancy(year, month int) (OccupancyReport, error) {
	if month < 1 || month > 12 {
		return OccupancyReport{}, domain.ValidationError{Field: "month", Msg: "mês inválido"}
	}
	if year < 2000 || year > 2200 {
		return OccupancyReport{}, domain.ValidationError{Field: "year", Msg: "ano inválido"}
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, -1)
	daysInMonth := monthEnd.Day()

	counts, err := s.Reports.CountVehiclesByStatus()
	if err != nil {
		return OccupancyReport{}, err
	}
	fleetSize := 0
	for _, n := range counts {
		fleetSize += n
	}

	ranges, err := s.Reports.RentalRangesOverlapping(monthStart, monthEnd)
	if err != nil {
		return OccupancyReport{}, err
	}
	rented := 0
	for _, rg := range ranges {
		rented += overlapDays(rg.Start, rg.End, monthStart, monthEnd)
	}

	report := OccupancyReport{
		Year:             year,
		Month:            month,
		FleetSize:        fleetSize,
		FleetVehicleDays: fleetSize * daysInMonth,
		RentedDays:       rented,
		OccupancyRate:    decimal.Zero,
	}
	if report.FleetVehicleDays > 0 {
		report.OccupancyRate = decimal.NewFromInt(int64(rented)).
			Div(decimal.NewFromInt(int64(report.FleetVehicleDays))).Round(4)
	}
	return report, nil
}

// overlapDays counts the days both intervals share, inclusive of both ends.
func overlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if end.Before(start) {
		return 0
	}
	return utils.DaysBetween(start, end) + 1
}
