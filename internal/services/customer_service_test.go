package services

import (
	"testing"

	"rental/internal/domain"
	"rental/internal/domain/models"
	"rental/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCustomerRemoveBlockedWithActiveReservation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM customers WHERE id=\?`).WillReturnRows(customerRow())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	svc := CustomerService{Customers: repositories.CustomerRepository{DB: db}}

	err = svc.Remove(3)
	if !domain.IsIntegrity(err) {
		t.Fatalf("cliente com reserva ativa não pode ser removido: %v", err)
	}
}

func TestCustomerRemoveSoftDeletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM customers WHERE id=\?`).WillReturnRows(customerRow())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE customers SET status=\?`).
		WithArgs(models.CustomerRemoved, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := CustomerService{Customers: repositories.CustomerRepository{DB: db}}

	if err := svc.Remove(3); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestCustomerCreateDuplicateNationalID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	svc := CustomerService{Customers: repositories.CustomerRepository{DB: db}}

	_, err = svc.Create(models.Customer{FullName: "Maria Souza", NationalID: "123.456.789-00"})
	if !domain.IsConflict(err) {
		t.Fatalf("CPF duplicado deve falhar com conflito: %v", err)
	}
}
