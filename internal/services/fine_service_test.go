package services

import (
	"testing"

	"rental/internal/domain"
	"rental/internal/domain/models"
	"rental/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func newFineService(t *testing.T) (FineService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	svc := FineService{
		Fines:        repositories.FineRepository{DB: db},
		Reservations: repositories.ReservationRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func TestRegisterFineFlagsReservation(t *testing.T) {
	svc, mock, done := newFineService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations WHERE id=\? FOR UPDATE`).WillReturnRows(reservationRow("Rented"))
	mock.ExpectExec(`INSERT INTO fines`).WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(`UPDATE reservations SET operational_status=\?`).
		WithArgs(models.OperationalFinePending, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fine, err := svc.Register(RegisterFineInput{
		ReservationID:  9,
		InfractionType: "Excesso de velocidade",
		Amount:         dec("195.23"),
		InfractionAt:   day("2025-03-11"),
		Location:       "BR-277 km 598",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if fine.ID != 4 || fine.Status != models.FinePending {
		t.Errorf("multa inesperada: %+v", fine)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestRegisterFineOutsideRentalPeriod(t *testing.T) {
	svc, mock, done := newFineService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations WHERE id=\? FOR UPDATE`).WillReturnRows(reservationRow("Rented"))
	mock.ExpectRollback()

	_, err := svc.Register(RegisterFineInput{
		ReservationID:  9,
		InfractionType: "Avanço de sinal",
		Amount:         dec("293.47"),
		InfractionAt:   day("2025-04-01"),
	})
	if !domain.IsValidation(err) {
		t.Fatalf("infração fora do período deve falhar: %v", err)
	}
}

func TestRegisterFineRejectsNonPositiveAmount(t *testing.T) {
	svc, _, done := newFineService(t)
	defer done()

	_, err := svc.Register(RegisterFineInput{
		ReservationID:  9,
		InfractionType: "Estacionamento irregular",
		Amount:         decimal.Zero,
		InfractionAt:   day("2025-03-11"),
	})
	if !domain.IsValidation(err) {
		t.Fatalf("valor zero deve falhar: %v", err)
	}
}

func fineRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "reservation_id", "infraction_type", "amount", "infraction_at",
		"location", "status", "notes", "paid_at",
	}).AddRow(4, 9, "Excesso de velocidade", "195.23", day("2025-03-11"), "", status, "", nil)
}

func TestPayLastPendingFineReleasesReservation(t *testing.T) {
	svc, mock, done := newFineService(t)
	defer done()

	mock.ExpectQuery(`FROM fines WHERE id=\?`).WillReturnRows(fineRow(models.FinePending))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE fines SET status=\?`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM fines`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM reservations WHERE id=\?`).WillReturnRows(reservationRow("Finalized"))
	mock.ExpectExec(`UPDATE reservations SET operational_status=\?`).
		WithArgs(models.OperationalFinalized, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fine, err := svc.SetStatus(4, models.FinePaid)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if fine.Status != models.FinePaid || fine.PaidAt == nil {
		t.Errorf("multa paga deve registrar data de pagamento: %+v", fine)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestSetStatusStillPendingKeepsFlag(t *testing.T) {
	svc, mock, done := newFineService(t)
	defer done()

	mock.ExpectQuery(`FROM fines WHERE id=\?`).WillReturnRows(fineRow(models.FinePending))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE fines SET status=\?`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM fines`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	if _, err := svc.SetStatus(4, models.FineExempt); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("com multas pendentes restantes a reserva não deve ser liberada: %v", err)
	}
}
