package services

import (
	"testing"

	"rental/internal/domain"
	"rental/internal/domain/models"
	"rental/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestFleetRemoveBlockedWhileRented(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM vehicles WHERE id=\?`).WillReturnRows(vehicleRowFor("Rented"))

	svc := FleetService{Vehicles: repositories.VehicleRepository{DB: db}}

	err = svc.Remove(5)
	if !domain.IsIntegrity(err) {
		t.Fatalf("veículo locado não pode ser excluído: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestFleetRemoveSoftDeletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM vehicles WHERE id=\?`).WillReturnRows(vehicleRowFor("Available"))
	mock.ExpectExec(`UPDATE vehicles SET status=\?`).
		WithArgs(models.VehicleExcluded, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := FleetService{Vehicles: repositories.VehicleRepository{DB: db}}

	if err := svc.Remove(5); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestFleetUpdateBlocksExclusionWhileRented(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM vehicles WHERE id=\?`).WillReturnRows(vehicleRowFor("Rented"))

	svc := FleetService{Vehicles: repositories.VehicleRepository{DB: db}}

	_, err = svc.Update(models.Vehicle{
		ID: 5, Make: "Fiat", Model: "Mobi", Plate: "ABC1D23",
		DailyRate: dec("120.00"), PerKmRate: dec("0.80"),
		CurrentKm: 42000, Status: models.VehicleExcluded,
	})
	if !domain.IsIntegrity(err) {
		t.Fatalf("edição não pode excluir veículo locado: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestFleetUpdateRejectsOdometerRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM vehicles WHERE id=\?`).WillReturnRows(vehicleRowFor("Available"))

	svc := FleetService{Vehicles: repositories.VehicleRepository{DB: db}}

	_, err = svc.Update(models.Vehicle{
		ID: 5, Make: "Fiat", Model: "Mobi", Plate: "ABC1D23",
		DailyRate: dec("120.00"), PerKmRate: dec("0.80"),
		CurrentKm: 41000,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("quilometragem não pode diminuir: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectativas sqlmock: %v", err)
	}
}

func TestFleetCreateValidation(t *testing.T) {
	svc := FleetService{}

	_, err := svc.Create(models.Vehicle{Make: "Fiat", Model: "Mobi", Plate: "ABC1D23"})
	if !domain.IsValidation(err) {
		t.Fatalf("diária zero deve falhar: %v", err)
	}

	_, err = svc.Create(models.Vehicle{Make: "Fiat", Plate: "ABC1D23", DailyRate: dec("120.00")})
	if !domain.IsValidation(err) {
		t.Fatalf("modelo vazio deve falhar: %v", err)
	}
}

func TestOilChangeDue(t *testing.T) {
	if OilChangeDue(models.Vehicle{CurrentKm: 9000, OilChangeKm: 10000}) {
		t.Error("abaixo do limite não está vencido")
	}
	if !OilChangeDue(models.Vehicle{CurrentKm: 10500, OilChangeKm: 10000}) {
		t.Error("acima do limite está vencido")
	}
}
