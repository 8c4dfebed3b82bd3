package services

import (
	"fmt"

	"rental/internal/domain"
	"rental/internal/domain/models"
	"rental/internal/repositories"
	"rental/internal/utils"
)

// DefaultOilChangeInterval is applied when a vehicle is registered without
// an explicit oil change threshold.
const DefaultOilChangeInterval = 10000

// FleetService owns the vehicle registry.
type FleetService struct {
	Vehicles     repositories.VehicleRepository
	Reservations repositories.ReservationRepository
	RequestID    string
}

func validateVehicle(v models.Vehicle) error {
	if utils.TrimOrEmpty(v.Make) == "" || utils.TrimOrEmpty(v.Model) == "" {
		return domain.ValidationError{Field: "make", Msg: "marca e modelo são obrigatórios"}
	}
	if utils.TrimOrEmpty(v.Plate) == "" {
		return domain.ValidationError{Field: "plate", Msg: "placa é obrigatória"}
	}
	if !v.DailyRate.IsPositive() {
		return domain.ValidationError{Field: "daily_rate", Msg: "diária deve ser maior que zero"}
	}
	if v.PerKmRate.IsNegative() {
		return domain.ValidationError{Field: "per_km_rate", Msg: "valor por km não pode ser negativo"}
	}
	if v.CurrentKm < 0 {
		return domain.ValidationError{Field: "current_km", Msg: "quilometragem não pode ser negativa"}
	}
	return nil
}

func (s FleetService) Get(id int64) (models.Vehicle, error) {
	return s.Vehicles.GetByID(id)
}

func (s FleetService) List(query string, includeExcluded bool) ([]models.Vehicle, error) {
	return s.Vehicles.List(query, includeExcluded)
}

func (s FleetService) Create(v models.Vehicle) (models.Vehicle, error) {
	v.Plate = utils.NormalizePlate(v.Plate)
	if err := validateVehicle(v); err != nil {
		return models.Vehicle{}, err
	}
	if v.OilChangeKm <= 0 {
		v.OilChangeKm = v.CurrentKm + DefaultOilChangeInterval
	}

	id, err := s.Vehicles.Create(v)
	if err != nil {
		return models.Vehicle{}, err
	}
	v.ID = id
	v.Status = models.VehicleAvailable

	utils.LogEvent(s.RequestID, "fleet", "create", fmt.Sprintf("id=%d plate=%s", id, v.Plate))
	return v, nil
}

func (s FleetService) Update(v models.Vehicle) (models.Vehicle, error) {
	v.Plate = utils.NormalizePlate(v.Plate)
	if err := validateVehicle(v); err != nil {
		return models.Vehicle{}, err
	}
	current, err := s.Vehicles.GetByID(v.ID)
	if err != nil {
		return models.Vehicle{}, err
	}
	if v.Status == "" {
		v.Status = current.Status
	}
	// Exclusion goes through Remove; the edit path honors the same guard.
	if v.Status == models.VehicleExcluded &&
		(current.Status == models.VehicleRented || current.Status == models.VehicleReserved) {
		return models.Vehicle{}, domain.IntegrityError{Msg: "veículo com reserva ou locação ativa não pode ser excluído"}
	}
	if v.CurrentKm < current.CurrentKm {
		return models.Vehicle{}, domain.ValidationError{Field: "current_km", Msg: "quilometragem não pode ser reduzida"}
	}

	if err := s.Vehicles.Update(v); err != nil {
		return models.Vehicle{}, err
	}
	utils.LogEvent(s.RequestID, "fleet", "update", fmt.Sprintf("id=%d plate=%s", v.ID, v.Plate))
	return v, nil
}

// Remove soft-deletes a vehicle. Vehicles currently reserved or on the
// street keep their history and cannot be excluded.
func (s FleetService) Remove(id int64) error {
	v, err := s.Vehicles.GetByID(id)
	if err != nil {
		return err
	}
	if v.Status == models.VehicleRented || v.Status == models.VehicleReserved {
		return domain.IntegrityError{Msg: "veículo com reserva ou locação ativa não pode ser excluído"}
	}

	if err := s.Vehicles.SetStatus(id, models.VehicleExcluded); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "fleet", "remove", fmt.Sprintf("id=%d plate=%s", id, v.Plate))
	return nil
}

// OilChangeDue reports whether the vehicle passed its oil change threshold.
func OilChangeDue(v models.Vehicle) bool {
	return v.OilChangeKm > 0 && v.CurrentKm >= v.OilChangeKm
}
