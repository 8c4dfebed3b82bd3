package services

import (
	"testing"

	"rental/internal/domain"
	"rental/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func vehicleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "make", "model", "plate", "color", "current_km",
		"daily_rate", "per_km_rate", "chassis_number", "registration_number",
		"manufacture_year", "oil_change_km", "status",
	})
}

func TestFindAvailableDefaultRule(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`r\.start_date <= \? AND r\.end_date >= \?`).
		WillReturnRows(vehicleRows().
			AddRow(1, "Fiat", "Mobi", "ABC1D23", "Prata", 42000, "120.00", "0.80", "", "", 2022, 50000, "Available"))

	svc := AvailabilityService{Reservations: repositories.ReservationRepository{DB: db}}

	list, err := svc.FindAvailable(day("2025-03-10"), day("2025-03-12"), false)
	if err != nil {
		t.Fatalf("FindAvailable: %v", err)
	}
	if len(list) != 1 || list[0].Plate != "ABC1D23" {
		t.Fatalf("resultado inesperado: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestFindAvailableTurnoverUsesStrictBounds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// with turnover the subquery must compare with strict inequalities,
	// so a rental ending on the requested start day no longer blocks
	mock.ExpectQuery(`r\.start_date < \? AND r\.end_date > \?`).
		WillReturnRows(vehicleRows().
			AddRow(2, "VW", "Gol", "XYZ9A88", "Branco", 30500, "110.00", "0.70", "", "", 2021, 40000, "Available"))

	svc := AvailabilityService{Reservations: repositories.ReservationRepository{DB: db}}

	list, err := svc.FindAvailable(day("2025-03-12"), day("2025-03-14"), true)
	if err != nil {
		t.Fatalf("FindAvailable: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("esperava um veículo, obteve %d", len(list))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestFindAvailableRejectsInvertedInterval(t *testing.T) {
	svc := AvailabilityService{}

	_, err := svc.FindAvailable(day("2025-03-14"), day("2025-03-10"), false)
	if !domain.IsValidation(err) {
		t.Fatalf("esperava erro de validação, obteve %v", err)
	}
}

func TestVehicleFree(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
		WithArgs(int64(7), "Reserved", "Rented", day("2025-03-14"), day("2025-03-10"), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	svc := AvailabilityService{Reservations: repositories.ReservationRepository{DB: db}}

	free, err := svc.VehicleFree(db, 7, day("2025-03-10"), day("2025-03-14"), 0)
	if err != nil {
		t.Fatalf("VehicleFree: %v", err)
	}
	if free {
		t.Fatal("veículo com reserva sobreposta não pode estar livre")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}
