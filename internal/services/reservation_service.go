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

// DefaultKmAllowance is the contracted mileage when the operator does not
// set one.
const DefaultKmAllowance = 300

// ReservationService drives the rental lifecycle. Every mutation that spans
// the reservation and its vehicle runs in one transaction so the two rows
// never disagree.
type ReservationService struct {
	Reservations repositories.ReservationRepository
	Vehicles     repositories.VehicleRepository
	Customers    repositories.CustomerRepository
	RequestID    string

	// PDF renderers, replaceable in tests
	RenderContract func(rentalDocData) ([]byte, string, error)
	RenderReceipt  func(rentalDocData) ([]byte, string, error)
}

func (s ReservationService) db() *sql.DB {
	if s.Reservations.DB != nil {
		return s.Reservations.DB
	}
	return intconfig.DB
}

func (s ReservationService) availability() AvailabilityService {
	return AvailabilityService{Reservations: s.Reservations}
}

func (s ReservationService) contract(d rentalDocData) ([]byte, string, error) {
	if s.RenderContract != nil {
		return s.RenderContract(d)
	}
	return buildContractPDF(d)
}

func (s ReservationService) receipt(d rentalDocData) ([]byte, string, error) {
	if s.RenderReceipt != nil {
		return s.RenderReceipt(d)
	}
	return buildReceiptPDF(d)
}

type CreateReservationInput struct {
	VehicleID      int64
	CustomerID     int64
	StartDate      time.Time
	EndDate        time.Time
	DeliveryTime   string
	HalfDay        bool
	KmAllowance    int
	Discount       decimal.Decimal
	AdvancePayment decimal.Decimal
}

// Create books a vehicle. Availability is re-checked under a row lock on the
// vehicle, so two overlapping requests cannot both succeed.
func (s ReservationService) Create(in CreateReservationInput) (models.Reservation, error) {
	if err := validateInterval(in.StartDate, in.EndDate); err != nil {
		return models.Reservation{}, err
	}
	if in.DeliveryTime != "" && !utils.ValidTimeHM(in.DeliveryTime) {
		return models.Reservation{}, domain.ValidationError{Field: "delivery_time", Msg: "horário inválido, use HH:MM"}
	}
	if in.Discount.IsNegative() || in.AdvancePayment.IsNegative() {
		return models.Reservation{}, domain.ValidationError{Field: "values", Msg: "valores não podem ser negativos"}
	}

	customer, err := s.Customers.GetByID(in.CustomerID)
	if err != nil {
		return models.Reservation{}, err
	}
	if customer.Status != models.CustomerActive {
		return models.Reservation{}, domain.ValidationError{Field: "customer_id", Msg: "cliente não está ativo"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	vehicle, err := s.Vehicles.LockByID(tx, in.VehicleID)
	if err != nil {
		return models.Reservation{}, err
	}
	if vehicle.Status == models.VehicleExcluded || vehicle.Status == models.VehicleUnavailable {
		return models.Reservation{}, domain.AvailabilityError{VehicleID: vehicle.ID, Msg: "veículo indisponível para locação"}
	}

	free, err := s.availability().VehicleFree(tx, in.VehicleID, in.StartDate, in.EndDate, 0)
	if err != nil {
		return models.Reservation{}, err
	}
	if !free {
		return models.Reservation{}, domain.AvailabilityError{VehicleID: vehicle.ID, Msg: "veículo já reservado no período"}
	}

	allowance := in.KmAllowance
	if allowance <= 0 {
		allowance = DefaultKmAllowance
	}

	days := BillableDays(in.StartDate, in.EndDate)
	daysCharge := DailyCharge(vehicle.DailyRate, days, in.HalfDay, in.Discount)
	settle := Settle(daysCharge, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, in.AdvancePayment, decimal.Zero)

	res := models.Reservation{
		VehicleID:         vehicle.ID,
		CustomerID:        customer.ID,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		DeliveryTime:      in.DeliveryTime,
		OperationalStatus: models.OperationalActive,
		ReservationStatus: models.ReservationReserved,
		OdometerOut:       vehicle.CurrentKm,
		KmAllowance:       allowance,
		AdvancePayment:    in.AdvancePayment,
		Discount:          in.Discount,
		HalfDay:           in.HalfDay,
		DaysCharge:        daysCharge,
		TotalAmount:       settle.GrandTotal,
		BalanceDue:        settle.BalanceDue,
	}

	id, err := s.Reservations.Create(tx, res)
	if err != nil {
		return models.Reservation{}, err
	}
	res.ID = id

	if err := s.Vehicles.SetStatusTx(tx, vehicle.ID, models.VehicleReserved); err != nil {
		return models.Reservation{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "reservations", "create",
		fmt.Sprintf("id=%d vehicle=%d customer=%d %s..%s", id, vehicle.ID, customer.ID,
			utils.FormatDate(in.StartDate), utils.FormatDate(in.EndDate)))
	return res, nil
}

type DeliverInput struct {
	DeliveryDate    time.Time
	DeliveryTime    string
	OdometerOut     int
	DeliveryPayment decimal.Decimal
}

// DeliverResult carries the updated reservation plus the contract generated
// in the same transaction.
type DeliverResult struct {
	Reservation  models.Reservation
	ContractPDF  []byte
	ContractName string
}

// Deliver hands the vehicle over: reservation goes to Rented, the vehicle
// row is synced, totals are recomputed from the actual departure date and
// the contract is rendered before commit. A contract failure aborts the
// whole delivery.
func (s ReservationService) Deliver(id int64, in DeliverInput) (DeliverResult, error) {
	if in.DeliveryDate.IsZero() {
		in.DeliveryDate = utils.Today()
	}
	if in.DeliveryTime != "" && !utils.ValidTimeHM(in.DeliveryTime) {
		return DeliverResult{}, domain.ValidationError{Field: "delivery_time", Msg: "horário inválido, use HH:MM"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return DeliverResult{}, domain.InternalError{Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	res, err := s.Reservations.LockByID(tx, id)
	if err != nil {
		return DeliverResult{}, err
	}
	if !models.CanTransition(res.ReservationStatus, models.ReservationRented) {
		return DeliverResult{}, domain.ConflictError{Msg: "somente reservas em aberto podem ser entregues"}
	}

	customer, err := s.Customers.GetByIDTx(tx, res.CustomerID)
	if err != nil {
		return DeliverResult{}, err
	}
	if !customer.LicenseValidOn(in.DeliveryDate) {
		return DeliverResult{}, domain.ValidationError{Field: "license", Msg: "CNH do cliente vencida ou não cadastrada"}
	}

	vehicle, err := s.Vehicles.LockByID(tx, res.VehicleID)
	if err != nil {
		return DeliverResult{}, err
	}

	odometer := in.OdometerOut
	if odometer <= 0 {
		odometer = vehicle.CurrentKm
	}
	if odometer < vehicle.CurrentKm {
		return DeliverResult{}, domain.ValidationError{Field: "odometer_out", Msg: "km de saída não pode ser menor que o km atual do veículo"}
	}

	deliveryTime := in.DeliveryTime
	if deliveryTime == "" {
		deliveryTime = res.DeliveryTime
	}

	days := BillableDays(in.DeliveryDate, res.EndDate)
	daysCharge := DailyCharge(vehicle.DailyRate, days, res.HalfDay, res.Discount)
	settle := Settle(daysCharge, decimal.Zero, res.WashCost, res.FineCharges, res.DamageCharges, res.OtherCharges,
		res.AdvancePayment, in.DeliveryPayment)

	res.StartDate = in.DeliveryDate
	res.DeliveryTime = deliveryTime
	res.OdometerOut = odometer
	res.DeliveryPayment = in.DeliveryPayment
	res.DaysCharge = daysCharge
	res.TotalAmount = settle.GrandTotal
	res.BalanceDue = settle.BalanceDue

	if err := s.Reservations.UpdateOnDeliver(tx, res); err != nil {
		return DeliverResult{}, err
	}
	res.ReservationStatus = models.ReservationRented

	if err := s.Vehicles.SetStatusAndKm(tx, vehicle.ID, models.VehicleRented, odometer); err != nil {
		return DeliverResult{}, err
	}

	doc := rentalDocData{
		ReservationID:   res.ID,
		CustomerName:    customer.FullName,
		NationalID:      customer.NationalID,
		Phone:           customer.Phone,
		VehicleMake:     vehicle.Make,
		VehicleModel:    vehicle.Model,
		Plate:           vehicle.Plate,
		StartDate:       res.StartDate,
		EndDate:         res.EndDate,
		DeliveryTime:    res.DeliveryTime,
		OdometerOut:     res.OdometerOut,
		KmAllowance:     res.KmAllowance,
		DailyRate:       vehicle.DailyRate,
		PerKmRate:       vehicle.PerKmRate,
		DaysCharge:      res.DaysCharge,
		Discount:        res.Discount,
		AdvancePayment:  res.AdvancePayment,
		DeliveryPayment: res.DeliveryPayment,
		TotalAmount:     res.TotalAmount,
		BalanceDue:      res.BalanceDue,
	}
	pdf, name, err := s.contract(doc)
	if err != nil {
		return DeliverResult{}, domain.DocumentError{Doc: "contrato", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return DeliverResult{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "reservations", "deliver", fmt.Sprintf("id=%d vehicle=%d km=%d", id, vehicle.ID, odometer))
	return DeliverResult{Reservation: res, ContractPDF: pdf, ContractName: name}, nil
}

type ReturnInput struct {
	ReturnDate    time.Time
	OdometerIn    int
	WashCost      decimal.Decimal
	FineCharges   decimal.Decimal
	DamageCharges decimal.Decimal
	OtherCharges  decimal.Decimal
}

// ReturnResult exposes the settlement, including a refund when payments
// exceeded the final total, and the receipt rendered in-transaction.
type ReturnResult struct {
	Reservation models.Reservation
	Settlement  Settlement
	ReceiptPDF  []byte
	ReceiptName string
}

// Return closes the rental. The daily total charged is the one fixed at
// delivery; only mileage and incident charges are added here.
func (s ReservationService) Return(id int64, in ReturnInput) (ReturnResult, error) {
	if in.ReturnDate.IsZero() {
		in.ReturnDate = utils.Today()
	}
	for _, v := range []decimal.Decimal{in.WashCost, in.FineCharges, in.DamageCharges, in.OtherCharges} {
		if v.IsNegative() {
			return ReturnResult{}, domain.ValidationError{Field: "charges", Msg: "valores não podem ser negativos"}
		}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return ReturnResult{}, domain.InternalError{Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	res, err := s.Reservations.LockByID(tx, id)
	if err != nil {
		return ReturnResult{}, err
	}
	if res.ReservationStatus != models.ReservationRented {
		return ReturnResult{}, domain.ConflictError{Msg: "somente locações em andamento podem ser devolvidas"}
	}
	if in.OdometerIn < res.OdometerOut {
		return ReturnResult{}, domain.ValidationError{Field: "odometer_in", Msg: "km de retorno não pode ser menor que o km de saída"}
	}

	// returning before the pickup date still bills from the pickup date
	if in.ReturnDate.Before(res.StartDate) {
		in.ReturnDate = res.StartDate
	}

	vehicle, err := s.Vehicles.LockByID(tx, res.VehicleID)
	if err != nil {
		return ReturnResult{}, err
	}
	customer, err := s.Customers.GetByIDTx(tx, res.CustomerID)
	if err != nil {
		return ReturnResult{}, err
	}

	kmCharge := KmCharge(res.OdometerOut, in.OdometerIn, res.KmAllowance, vehicle.PerKmRate)
	settle := Settle(res.DaysCharge, kmCharge, in.WashCost, in.FineCharges, in.DamageCharges, in.OtherCharges,
		res.AdvancePayment, res.DeliveryPayment)

	odometerIn := in.OdometerIn
	res.EndDate = in.ReturnDate
	res.OdometerIn = &odometerIn
	res.WashCost = in.WashCost
	res.FineCharges = in.FineCharges
	res.DamageCharges = in.DamageCharges
	res.OtherCharges = in.OtherCharges
	res.OperationalStatus = models.OperationalFinalized
	res.TotalAmount = settle.GrandTotal
	res.BalanceDue = settle.BalanceDue

	if err := s.Reservations.UpdateOnReturn(tx, res); err != nil {
		return ReturnResult{}, err
	}
	res.ReservationStatus = models.ReservationFinalized

	if err := s.Vehicles.SetStatusAndKm(tx, vehicle.ID, models.VehicleAvailable, in.OdometerIn); err != nil {
		return ReturnResult{}, err
	}

	doc := rentalDocData{
		ReservationID:   res.ID,
		CustomerName:    customer.FullName,
		NationalID:      customer.NationalID,
		Phone:           customer.Phone,
		VehicleMake:     vehicle.Make,
		VehicleModel:    vehicle.Model,
		Plate:           vehicle.Plate,
		StartDate:       res.StartDate,
		EndDate:         res.EndDate,
		DeliveryTime:    res.DeliveryTime,
		OdometerOut:     res.OdometerOut,
		OdometerIn:      res.OdometerIn,
		KmAllowance:     res.KmAllowance,
		DailyRate:       vehicle.DailyRate,
		PerKmRate:       vehicle.PerKmRate,
		DaysCharge:      res.DaysCharge,
		KmCharge:        kmCharge,
		WashCost:        res.WashCost,
		FineCharges:     res.FineCharges,
		DamageCharges:   res.DamageCharges,
		OtherCharges:    res.OtherCharges,
		Discount:        res.Discount,
		AdvancePayment:  res.AdvancePayment,
		DeliveryPayment: res.DeliveryPayment,
		TotalAmount:     res.TotalAmount,
		BalanceDue:      res.BalanceDue,
	}
	pdf, name, err := s.receipt(doc)
	if err != nil {
		return ReturnResult{}, domain.DocumentError{Doc: "recibo", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return ReturnResult{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "reservations", "return",
		fmt.Sprintf("id=%d km_in=%d total=%s saldo=%s", id, in.OdometerIn, settle.GrandTotal, settle.SignedBalance))
	return ReturnResult{Reservation: res, Settlement: settle, ReceiptPDF: pdf, ReceiptName: name}, nil
}

type EditReservationInput struct {
	VehicleID      int64
	CustomerID     int64
	StartDate      time.Time
	EndDate        time.Time
	DeliveryTime   string
	Status         string
	HalfDay        bool
	KmAllowance    int
	Discount       decimal.Decimal
	AdvancePayment decimal.Decimal
	// ManualDaysCharge overrides the recomputed daily total when set.
	ManualDaysCharge *decimal.Decimal
}

// Edit rewrites a reservation. The daily total is recomputed from the
// current vehicle rate and dates unless an explicit override is given, and
// both the new and (when swapped) the old vehicle rows are re-synced.
func (s ReservationService) Edit(id int64, in EditReservationInput) (models.Reservation, error) {
	if err := validateInterval(in.StartDate, in.EndDate); err != nil {
		return models.Reservation{}, err
	}
	if in.DeliveryTime != "" && !utils.ValidTimeHM(in.DeliveryTime) {
		return models.Reservation{}, domain.ValidationError{Field: "delivery_time", Msg: "horário inválido, use HH:MM"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	res, err := s.Reservations.LockByID(tx, id)
	if err != nil {
		return models.Reservation{}, err
	}

	newStatus := in.Status
	if newStatus == "" {
		newStatus = res.ReservationStatus
	}
	if !models.CanTransition(res.ReservationStatus, newStatus) {
		return models.Reservation{}, domain.ConflictError{
			Msg: fmt.Sprintf("transição de status inválida: %s -> %s", res.ReservationStatus, newStatus),
		}
	}

	if _, err := s.Customers.GetByIDTx(tx, in.CustomerID); err != nil {
		return models.Reservation{}, err
	}

	oldVehicleID := res.VehicleID
	vehicle, err := s.Vehicles.LockByID(tx, in.VehicleID)
	if err != nil {
		return models.Reservation{}, err
	}

	stillActive := newStatus == models.ReservationReserved || newStatus == models.ReservationRented
	if stillActive {
		free, err := s.availability().VehicleFree(tx, in.VehicleID, in.StartDate, in.EndDate, id)
		if err != nil {
			return models.Reservation{}, err
		}
		if !free {
			return models.Reservation{}, domain.AvailabilityError{VehicleID: in.VehicleID, Msg: "veículo já reservado no período"}
		}
	}

	allowance := in.KmAllowance
	if allowance <= 0 {
		allowance = DefaultKmAllowance
	}

	var daysCharge decimal.Decimal
	if in.ManualDaysCharge != nil {
		daysCharge = in.ManualDaysCharge.Round(2)
	} else {
		days := BillableDays(in.StartDate, in.EndDate)
		daysCharge = DailyCharge(vehicle.DailyRate, days, in.HalfDay, in.Discount)
	}
	var kmCharge decimal.Decimal
	if res.OdometerIn != nil {
		kmCharge = KmCharge(res.OdometerOut, *res.OdometerIn, allowance, vehicle.PerKmRate)
	}
	settle := Settle(daysCharge, kmCharge, res.WashCost, res.FineCharges, res.DamageCharges, res.OtherCharges,
		in.AdvancePayment, res.DeliveryPayment)

	res.VehicleID = in.VehicleID
	res.CustomerID = in.CustomerID
	res.StartDate = in.StartDate
	res.EndDate = in.EndDate
	res.DeliveryTime = in.DeliveryTime
	res.ReservationStatus = newStatus
	res.KmAllowance = allowance
	res.AdvancePayment = in.AdvancePayment
	res.Discount = in.Discount
	res.HalfDay = in.HalfDay
	res.DaysCharge = daysCharge
	res.TotalAmount = settle.GrandTotal
	res.BalanceDue = settle.BalanceDue
	switch newStatus {
	case models.ReservationCancelled:
		res.OperationalStatus = models.OperationalInactive
	case models.ReservationFinalized:
		res.OperationalStatus = models.OperationalFinalized
	default:
		res.OperationalStatus = models.OperationalActive
	}

	if err := s.Reservations.UpdateFull(tx, res); err != nil {
		return models.Reservation{}, err
	}

	if err := s.Vehicles.SetStatusTx(tx, in.VehicleID, models.VehicleStatusFor(newStatus)); err != nil {
		return models.Reservation{}, err
	}
	if oldVehicleID != in.VehicleID {
		if err := s.Vehicles.SetStatusTx(tx, oldVehicleID, models.VehicleAvailable); err != nil {
			return models.Reservation{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Reservation{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "reservations", "edit", fmt.Sprintf("id=%d status=%s", id, newStatus))
	return res, nil
}

// Cancel voids an open reservation and frees its vehicle.
func (s ReservationService) Cancel(id int64) error {
	tx, err := s.db().Begin()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	res, err := s.Reservations.LockByID(tx, id)
	if err != nil {
		return err
	}
	if !models.CanTransition(res.ReservationStatus, models.ReservationCancelled) {
		return domain.ConflictError{Msg: "somente reservas em aberto podem ser canceladas"}
	}

	if err := s.Reservations.SetStatuses(tx, id, models.OperationalInactive, models.ReservationCancelled); err != nil {
		return err
	}
	if err := s.Vehicles.SetStatusTx(tx, res.VehicleID, models.VehicleAvailable); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "reservations", "cancel", fmt.Sprintf("id=%d", id))
	return nil
}

func (s ReservationService) Get(id int64) (repositories.ReservationDetail, error) {
	return s.Reservations.GetDetail(id)
}

func (s ReservationService) List(status string) ([]repositories.ReservationDetail, error) {
	return s.Reservations.ListByStatus(status)
}

func (s ReservationService) PendingDelivery() ([]repositories.ReservationDetail, error) {
	return s.Reservations.ListPendingDelivery()
}

func (s ReservationService) PendingReturn() ([]repositories.ReservationDetail, error) {
	return s.Reservations.ListPendingReturn()
}
