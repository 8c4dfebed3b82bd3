package services

import (
	"database/sql"
	"fmt"
	"time"

	intconfig "rental/internal/config"
	"rental/internal/domain"
	"rental/internal/domain/models"
	"rental/internal/repositories"
	"rental/internal/utils"

	"github.com/shopspring/decimal"
)

// FineService tracks traffic fines and keeps the owning reservation's
// operational flag in sync: any pending fine holds the reservation in
// FinePending until every fine is settled or exempted.
type FineService struct {
	Fines        repositories.FineRepository
	Reservations repositories.ReservationRepository
	RequestID    string
}

func (s FineService) db() *sql.DB {
	if s.Fines.DB != nil {
		return s.Fines.DB
	}
	return intconfig.DB
}

type RegisterFineInput struct {
	ReservationID  int64
	InfractionType string
	Amount         decimal.Decimal
	InfractionAt   time.Time
	Location       string
	Notes          string
}

// Register attaches a fine to the reservation that held the vehicle on the
// infraction date.
func (s FineService) Register(in RegisterFineInput) (models.Fine, error) {
	if utils.TrimOrEmpty(in.InfractionType) == "" {
		return models.Fine{}, domain.ValidationError{Field: "infraction_type", Msg: "tipo da infração é obrigatório"}
	}
	if !in.Amount.IsPositive() {
		return models.Fine{}, domain.ValidationError{Field: "amount", Msg: "valor da multa deve ser maior que zero"}
	}
	if in.InfractionAt.IsZero() {
		return models.Fine{}, domain.ValidationError{Field: "infraction_at", Msg: "data da infração é obrigatória"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Fine{}, domain.InternalError{Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	res, err := s.Reservations.LockByID(tx, in.ReservationID)
	if err != nil {
		return models.Fine{}, err
	}
	if in.InfractionAt.Before(res.StartDate) || in.InfractionAt.After(res.EndDate) {
		return models.Fine{}, domain.ValidationError{Field: "infraction_at", Msg: "data da infração fora do período da locação"}
	}

	fine := models.Fine{
		ReservationID:  res.ID,
		InfractionType: in.InfractionType,
		Amount:         in.Amount.Round(2),
		InfractionAt:   in.InfractionAt,
		Location:       in.Location,
		Status:         models.FinePending,
		Notes:          in.Notes,
	}
	id, err := s.Fines.Create(tx, fine)
	if err != nil {
		return models.Fine{}, err
	}
	fine.ID = id

	if err := s.Reservations.SetOperationalStatus(tx, res.ID, models.OperationalFinePending); err != nil {
		return models.Fine{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Fine{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "fines", "register",
		fmt.Sprintf("id=%d reservation=%d valor=%s", id, res.ID, fine.Amount))
	return fine, nil
}

// SetStatus settles or exempts a fine. Once the reservation has no pending
// fine left its operational flag returns to the state its lifecycle implies.
func (s FineService) SetStatus(fineID int64, status string) (models.Fine, error) {
	if !models.ValidFineStatus(status) {
		return models.Fine{}, domain.ValidationError{Field: "status", Msg: "status de multa inválido"}
	}

	fine, err := s.Fines.GetByID(fineID)
	if err != nil {
		return models.Fine{}, err
	}

	var paidAt *time.Time
	if status == models.FinePaid {
		now := time.Now()
		paidAt = &now
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Fine{}, domain.InternalError{Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Fines.UpdateStatus(tx, fineID, status, paidAt); err != nil {
		return models.Fine{}, err
	}

	pending, err := s.Fines.CountPendingByReservation(tx, fine.ReservationID)
	if err != nil {
		return models.Fine{}, err
	}
	if pending == 0 {
		res, err := s.Reservations.GetByIDTx(tx, fine.ReservationID)
		if err != nil {
			return models.Fine{}, err
		}
		operational := models.OperationalActive
		switch res.ReservationStatus {
		case models.ReservationFinalized:
			operational = models.OperationalFinalized
		case models.ReservationCancelled:
			operational = models.OperationalInactive
		}
		if err := s.Reservations.SetOperationalStatus(tx, fine.ReservationID, operational); err != nil {
			return models.Fine{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Fine{}, domain.InternalError{Err: err}
	}

	fine.Status = status
	fine.PaidAt = paidAt
	utils.LogEvent(s.RequestID, "fines", "set_status", fmt.Sprintf("id=%d status=%s", fineID, status))
	return fine, nil
}

func (s FineService) Get(id int64) (models.Fine, error) {
	return s.Fines.GetByID(id)
}

// ListByPeriod lists fines registered in the interval.
func (s FineService) ListByPeriod(start, end time.Time) ([]repositories.FineDetail, error) {
	if err := validateInterval(start, end); err != nil {
		return nil, err
	}
	return s.Fines.ListByPeriod(start, end)
}

// LookupByDate finds which reservations covered the infraction day, so the
// operator can pick the right renter.
func (s FineService) LookupByDate(day time.Time) ([]repositories.ReservationDetail, error) {
	if day.IsZero() {
		return nil, domain.ValidationError{Field: "date", Msg: "data é obrigatória"}
	}
	return s.Reservations.ListCoveringDate(day)
}
