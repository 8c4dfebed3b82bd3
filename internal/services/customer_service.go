package services

import (
	"fmt"

	"rental/internal/domain"
	"rental/internal/domain/models"
	"rental/internal/repositories"
	"rental/internal/utils"
)

// CustomerService owns the customer registry.
type CustomerService struct {
	Customers    repositories.CustomerRepository
	Reservations repositories.ReservationRepository
	RequestID    string
}

func validateCustomer(c models.Customer) error {
	if utils.TrimOrEmpty(c.FullName) == "" {
		return domain.ValidationError{Field: "full_name", Msg: "nome completo é obrigatório"}
	}
	if utils.TrimOrEmpty(c.NationalID) == "" {
		return domain.ValidationError{Field: "national_id", Msg: "CPF é obrigatório"}
	}
	if digits := utils.DigitsOnly(c.NationalID); len(digits) != 11 {
		return domain.ValidationError{Field: "national_id", Msg: "CPF deve ter 11 dígitos"}
	}
	return nil
}

func (s CustomerService) Get(id int64) (models.Customer, error) {
	return s.Customers.GetByID(id)
}

func (s CustomerService) List(query string, includeRemoved bool) ([]models.Customer, error) {
	return s.Customers.List(query, includeRemoved)
}

func (s CustomerService) Create(c models.Customer) (models.Customer, error) {
	c.FullName = utils.NormalizeSpace(c.FullName)
	if err := validateCustomer(c); err != nil {
		return models.Customer{}, err
	}
	inUse, err := s.Customers.NationalIDInUse(c.NationalID, 0)
	if err != nil {
		return models.Customer{}, err
	}
	if inUse {
		return models.Customer{}, domain.ConflictError{Msg: "CPF já cadastrado para outro cliente"}
	}

	id, err := s.Customers.Create(c)
	if err != nil {
		return models.Customer{}, err
	}
	c.ID = id
	c.Status = models.CustomerActive

	utils.LogEvent(s.RequestID, "customers", "create", fmt.Sprintf("id=%d", id))
	return c, nil
}

func (s CustomerService) Update(c models.Customer) (models.Customer, error) {
	c.FullName = utils.NormalizeSpace(c.FullName)
	if err := validateCustomer(c); err != nil {
		return models.Customer{}, err
	}
	current, err := s.Customers.GetByID(c.ID)
	if err != nil {
		return models.Customer{}, err
	}
	inUse, err := s.Customers.NationalIDInUse(c.NationalID, c.ID)
	if err != nil {
		return models.Customer{}, err
	}
	if inUse {
		return models.Customer{}, domain.ConflictError{Msg: "CPF já cadastrado para outro cliente"}
	}
	if c.Status == "" {
		c.Status = current.Status
	}

	if err := s.Customers.Update(c); err != nil {
		return models.Customer{}, err
	}
	utils.LogEvent(s.RequestID, "customers", "update", fmt.Sprintf("id=%d", c.ID))
	return c, nil
}

// Remove soft-deletes a customer unless they still hold an open reservation
// or an ongoing rental.
func (s CustomerService) Remove(id int64) error {
	if _, err := s.Customers.GetByID(id); err != nil {
		return err
	}
	active, err := s.Customers.CountActiveReservations(id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.IntegrityError{Msg: "cliente com reserva ou locação ativa não pode ser removido"}
	}

	if err := s.Customers.SetStatus(id, models.CustomerRemoved); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "customers", "remove", fmt.Sprintf("id=%d", id))
	return nil
}
