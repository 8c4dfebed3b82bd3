package services

import (
	"errors"
	"testing"

	"rental/internal/domain"
	"rental/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func newReservationService(t *testing.T) (ReservationService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	svc := ReservationService{
		Reservations: repositories.ReservationRepository{DB: db},
		Vehicles:     repositories.VehicleRepository{DB: db},
		Customers:    repositories.CustomerRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func customerRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "full_name", "national_id", "secondary_id", "license_number",
		"license_expiry", "license_state", "phone", "address", "notes", "status",
	}).AddRow(3, "Maria Souza", "123.456.789-00", "", "99887766",
		day("2027-01-01"), "PR", "(45) 99999-0000", "", "", "Active")
}

func vehicleRowFor(status string) *sqlmock.Rows {
	return vehicleRows().
		AddRow(5, "Fiat", "Mobi", "ABC1D23", "Prata", 42000, "120.00", "0.80", "", "", 2022, 50000, status)
}

func reservationRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "vehicle_id", "customer_id", "start_date", "end_date", "delivery_time",
		"operational_status", "reservation_status", "odometer_out", "odometer_in", "km_allowance",
		"advance_payment", "delivery_payment", "wash_cost", "fine_charges", "damage_charges",
		"other_charges", "discount", "half_day", "days_charge", "total_amount", "balance_due",
	}).AddRow(9, 5, 3, day("2025-03-10"), day("2025-03-13"), "09:00",
		"Active", status, 42000, nil, 300,
		"100.00", "0.00", "0.00", "0.00", "0.00",
		"0.00", "0.00", false, "360.00", "360.00", "260.00")
}

func TestCreateReservation(t *testing.T) {
	svc, mock, done := newReservationService(t)
	defer done()

	mock.ExpectQuery(`FROM customers WHERE id=\?`).WillReturnRows(customerRow())
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM vehicles WHERE id=\? FOR UPDATE`).WillReturnRows(vehicleRowFor("Available"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO reservations`).WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(`UPDATE vehicles SET status=\?`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.Create(CreateReservationInput{
		VehicleID:      5,
		CustomerID:     3,
		StartDate:      day("2025-03-10"),
		EndDate:        day("2025-03-13"),
		AdvancePayment: dec("100.00"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.ID != 9 {
		t.Errorf("id: %d", res.ID)
	}
	if !res.DaysCharge.Equal(dec("360.00")) {
		t.Errorf("diárias de 3 dias a 120: %s", res.DaysCharge)
	}
	if !res.BalanceDue.Equal(dec("260.00")) {
		t.Errorf("saldo após adiantamento: %s", res.BalanceDue)
	}
	if res.OdometerOut != 42000 {
		t.Errorf("km de saída deve vir do veículo: %d", res.OdometerOut)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestCreateReservationVehicleTaken(t *testing.T) {
	svc, mock, done := newReservationService(t)
	defer done()

	mock.ExpectQuery(`FROM customers WHERE id=\?`).WillReturnRows(customerRow())
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM vehicles WHERE id=\? FOR UPDATE`).WillReturnRows(vehicleRowFor("Available"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Create(CreateReservationInput{
		VehicleID:  5,
		CustomerID: 3,
		StartDate:  day("2025-03-10"),
		EndDate:    day("2025-03-13"),
	})
	if !domain.IsAvailability(err) {
		t.Fatalf("esperava erro de disponibilidade, obteve %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestReturnRollsBackWhenReceiptFails(t *testing.T) {
	svc, mock, done := newReservationService(t)
	defer done()

	svc.RenderReceipt = func(rentalDocData) ([]byte, string, error) {
		return nil, "", errors.New("sem espaço em disco")
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations WHERE id=\? FOR UPDATE`).WillReturnRows(reservationRow("Rented"))
	mock.ExpectQuery(`FROM vehicles WHERE id=\? FOR UPDATE`).WillReturnRows(vehicleRowFor("Rented"))
	mock.ExpectQuery(`FROM customers WHERE id=\?`).WillReturnRows(customerRow())
	mock.ExpectExec(`UPDATE reservations`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE vehicles SET status=\?, current_km=\?`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	_, err := svc.Return(9, ReturnInput{
		ReturnDate: day("2025-03-13"),
		OdometerIn: 42350,
	})
	if !domain.IsDocument(err) {
		t.Fatalf("esperava erro de documento, obteve %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("a transação deve ser revertida quando o recibo falha: %v", err)
	}
}

func TestReturnRejectsOdometerRollback(t *testing.T) {
	svc, mock, done := newReservationService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations WHERE id=\? FOR UPDATE`).WillReturnRows(reservationRow("Rented"))
	mock.ExpectRollback()

	_, err := svc.Return(9, ReturnInput{ReturnDate: day("2025-03-13"), OdometerIn: 41000})
	if !domain.IsValidation(err) {
		t.Fatalf("km de retorno menor que o de saída deve falhar: %v", err)
	}
}

func TestCancelOnlyOpenReservations(t *testing.T) {
	svc, mock, done := newReservationService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations WHERE id=\? FOR UPDATE`).WillReturnRows(reservationRow("Finalized"))
	mock.ExpectRollback()

	err := svc.Cancel(9)
	if !domain.IsConflict(err) {
		t.Fatalf("cancelar reserva finalizada deve falhar: %v", err)
	}
}

func TestDeliverRequiresValidLicense(t *testing.T) {
	svc, mock, done := newReservationService(t)
	defer done()

	expired := sqlmock.NewRows([]string{
		"id", "full_name", "national_id", "secondary_id", "license_number",
		"license_expiry", "license_state", "phone", "address", "notes", "status",
	}).AddRow(3, "Maria Souza", "123.456.789-00", "", "99887766",
		day("2020-01-01"), "PR", "", "", "", "Active")

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations WHERE id=\? FOR UPDATE`).WillReturnRows(reservationRow("Reserved"))
	mock.ExpectQuery(`FROM customers WHERE id=\?`).WillReturnRows(expired)
	mock.ExpectRollback()

	_, err := svc.Deliver(9, DeliverInput{DeliveryDate: day("2025-03-10"), DeliveryPayment: decimal.Zero})
	if !domain.IsValidation(err) {
		t.Fatalf("entrega com CNH vencida deve falhar: %v", err)
	}
}
