package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "rental/internal/config"
	intdb "rental/internal/db"
	"rental/internal/domain"
	"rental/internal/domain/models"

	"github.com/shopspring/decimal"
)

type ReservationRepository struct {
	DB *sql.DB
}

func (r ReservationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const reservationColumns = `
	id,
	vehicle_id,
	customer_id,
	start_date,
	end_date,
	COALESCE(delivery_time,''),
	operational_status,
	reservation_status,
	COALESCE(odometer_out,0),
	odometer_in,
	COALESCE(km_allowance,0),
	COALESCE(advance_payment,0),
	COALESCE(delivery_payment,0),
	COALESCE(wash_cost,0),
	COALESCE(fine_charges,0),
	COALESCE(damage_charges,0),
	COALESCE(other_charges,0),
	COALESCE(discount,0),
	COALESCE(half_day,0),
	COALESCE(days_charge,0),
	COALESCE(total_amount,0),
	COALESCE(balance_due,0)`

func scanReservation(row interface{ Scan(...any) error }) (models.Reservation, error) {
	var res models.Reservation
	var odoIn sql.NullInt64
	err := row.Scan(
		&res.ID,
		&res.VehicleID,
		&res.CustomerID,
		&res.StartDate,
		&res.EndDate,
		&res.DeliveryTime,
		&res.OperationalStatus,
		&res.ReservationStatus,
		&res.OdometerOut,
		&odoIn,
		&res.KmAllowance,
		&res.AdvancePayment,
		&res.DeliveryPayment,
		&res.WashCost,
		&res.FineCharges,
		&res.DamageCharges,
		&res.OtherCharges,
		&res.Discount,
		&res.HalfDay,
		&res.DaysCharge,
		&res.TotalAmount,
		&res.BalanceDue,
	)
	if odoIn.Valid {
		v := int(odoIn.Int64)
		res.OdometerIn = &v
	}
	return res, err
}

func (r ReservationRepository) GetByID(id int64) (models.Reservation, error) {
	return r.GetByIDTx(r.db(), id)
}

func (r ReservationRepository) GetByIDTx(q intdb.Querier, id int64) (models.Reservation, error) {
	if id <= 0 {
		return models.Reservation{}, domain.ValidationError{Field: "reservation_id", Msg: "id inválido"}
	}
	res, err := scanReservation(q.QueryRow(`SELECT `+reservationColumns+` FROM reservations WHERE id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reservation{}, domain.NotFoundError{Resource: "reserva", Err: err}
		}
		return models.Reservation{}, domain.InternalError{Err: err}
	}
	return res, nil
}

// LockByID reads the reservation under SELECT ... FOR UPDATE so that two
// concurrent finalizations cannot both proceed on a stale read.
func (r ReservationRepository) LockByID(q intdb.Querier, id int64) (models.Reservation, error) {
	res, err := scanReservation(q.QueryRow(`SELECT `+reservationColumns+` FROM reservations WHERE id=? FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reservation{}, domain.NotFoundError{Resource: "reserva", Err: err}
		}
		return models.Reservation{}, domain.ConcurrencyError{Msg: "não foi possível bloquear a reserva", Err: err}
	}
	return res, nil
}

// CountOverlapping applies the conservative overlap rule (touching at a
// boundary day counts) against active reservations of one vehicle.
// excludeID skips the reservation being edited; pass 0 otherwise.
func (r ReservationRepository) CountOverlapping(q intdb.Querier, vehicleID int64, start, end time.Time, excludeID int64) (int, error) {
	var count int
	err := q.QueryRow(`
		SELECT COUNT(*) FROM reservations
		WHERE vehicle_id=?
		AND reservation_status IN (?,?)
		AND start_date <= ? AND end_date >= ?
		AND id != ?`,
		vehicleID, models.ReservationReserved, models.ReservationRented,
		end, start, excludeID,
	).Scan(&count)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return count, nil
}

// FindAvailableVehicles returns bookable vehicles for the interval. With
// allowSameDayTurnover the overlap comparison switches to strict inequality,
// freeing a vehicle on the exact day it returns from another rental.
func (r ReservationRepository) FindAvailableVehicles(start, end time.Time, allowSameDayTurnover bool) ([]models.Vehicle, error) {
	overlap := "r.start_date <= ? AND r.end_date >= ?"
	if allowSameDayTurnover {
		overlap = "r.start_date < ? AND r.end_date > ?"
	}
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE status NOT IN (?,?)
		AND id NOT IN (
			SELECT r.vehicle_id FROM reservations r
			WHERE r.reservation_status IN (?,?)
			AND ` + overlap + `
		)
		ORDER BY make, model`

	rows, err := r.db().Query(query,
		models.VehicleUnavailable, models.VehicleExcluded,
		models.ReservationReserved, models.ReservationRented,
		end, start,
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Create inserts the reservation in Reserved state inside the caller's
// transaction (creation re-checks availability under a vehicle row lock).
func (r ReservationRepository) Create(q intdb.Querier, res models.Reservation) (int64, error) {
	out, err := q.Exec(`
		INSERT INTO reservations
			(vehicle_id, customer_id, start_date, end_date, delivery_time,
			 operational_status, reservation_status,
			 odometer_out, km_allowance, advance_payment,
			 wash_cost, fine_charges, damage_charges, other_charges,
			 discount, half_day, days_charge, total_amount, balance_due,
			 created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())`,
		res.VehicleID, res.CustomerID, res.StartDate, res.EndDate, intdb.NullIfEmpty(res.DeliveryTime),
		res.OperationalStatus, res.ReservationStatus,
		res.OdometerOut, res.KmAllowance, res.AdvancePayment,
		res.WashCost, res.FineCharges, res.DamageCharges, res.OtherCharges,
		res.Discount, res.HalfDay, res.DaysCharge, res.TotalAmount, res.BalanceDue,
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := out.LastInsertId()
	return id, nil
}

// UpdateOnDeliver persists the delivery: actual departure date, confirmed
// odometer, recomputed totals, status to Rented.
func (r ReservationRepository) UpdateOnDeliver(q intdb.Querier, res models.Reservation) error {
	out, err := q.Exec(`
		UPDATE reservations
		SET odometer_out=?,
		    start_date=?,
		    delivery_time=?,
		    reservation_status=?,
		    advance_payment=?,
		    delivery_payment=?,
		    days_charge=?,
		    total_amount=?,
		    balance_due=?,
		    updated_at=NOW()
		WHERE id=? AND reservation_status=?`,
		res.OdometerOut, res.StartDate, intdb.NullIfEmpty(res.DeliveryTime),
		models.ReservationRented,
		res.AdvancePayment, res.DeliveryPayment,
		res.DaysCharge, res.TotalAmount, res.BalanceDue,
		res.ID, models.ReservationReserved,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.ConcurrencyError{Msg: "reserva foi alterada por outra operação"}
	}
	return nil
}

// UpdateOnReturn persists the settlement computed at return time.
func (r ReservationRepository) UpdateOnReturn(q intdb.Querier, res models.Reservation) error {
	out, err := q.Exec(`
		UPDATE reservations
		SET operational_status=?,
		    reservation_status=?,
		    end_date=?,
		    odometer_in=?,
		    wash_cost=?,
		    fine_charges=?,
		    damage_charges=?,
		    other_charges=?,
		    days_charge=?,
		    total_amount=?,
		    balance_due=?,
		    updated_at=NOW()
		WHERE id=? AND reservation_status=?`,
		res.OperationalStatus, models.ReservationFinalized,
		res.EndDate, res.OdometerIn,
		res.WashCost, res.FineCharges, res.DamageCharges, res.OtherCharges,
		res.DaysCharge, res.TotalAmount, res.BalanceDue,
		res.ID, models.ReservationRented,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.ConcurrencyError{Msg: "reserva foi alterada por outra operação"}
	}
	return nil
}

// UpdateFull rewrites every editable field (edit flow).
func (r ReservationRepository) UpdateFull(q intdb.Querier, res models.Reservation) error {
	out, err := q.Exec(`
		UPDATE reservations
		SET vehicle_id=?, customer_id=?, start_date=?, end_date=?, delivery_time=?,
		    operational_status=?, reservation_status=?,
		    odometer_out=?, odometer_in=?, km_allowance=?,
		    advance_payment=?, delivery_payment=?,
		    wash_cost=?, fine_charges=?, damage_charges=?, other_charges=?,
		    discount=?, half_day=?, days_charge=?, total_amount=?, balance_due=?,
		    updated_at=NOW()
		WHERE id=?`,
		res.VehicleID, res.CustomerID, res.StartDate, res.EndDate, intdb.NullIfEmpty(res.DeliveryTime),
		res.OperationalStatus, res.ReservationStatus,
		res.OdometerOut, res.OdometerIn, res.KmAllowance,
		res.AdvancePayment, res.DeliveryPayment,
		res.WashCost, res.FineCharges, res.DamageCharges, res.OtherCharges,
		res.Discount, res.HalfDay, res.DaysCharge, res.TotalAmount, res.BalanceDue,
		res.ID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.ConcurrencyError{Msg: "nenhuma linha atualizada"}
	}
	return nil
}

// SetStatuses updates both status axes (cancel path).
func (r ReservationRepository) SetStatuses(q intdb.Querier, id int64, operational, reservation string) error {
	out, err := q.Exec(`
		UPDATE reservations SET operational_status=?, reservation_status=?, updated_at=NOW() WHERE id=?`,
		operational, reservation, id,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.ConcurrencyError{Msg: "reserva não encontrada ao atualizar status"}
	}
	return nil
}

// SetOperationalStatus flips only the operational axis (fine feedback loop).
func (r ReservationRepository) SetOperationalStatus(q intdb.Querier, id int64, operational string) error {
	out, err := q.Exec(`
		UPDATE reservations SET operational_status=?, updated_at=NOW() WHERE id=?`,
		operational, id,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "reserva"}
	}
	return nil
}

// ReservationDetail joins the customer and vehicle data the operator screens
// and the PDF documents need.
type ReservationDetail struct {
	models.Reservation
	CustomerName       string          `json:"customerName"`
	CustomerNationalID string          `json:"customerNationalId"`
	CustomerPhone      string          `json:"customerPhone,omitempty"`
	VehicleMake        string          `json:"vehicleMake"`
	VehicleModel       string          `json:"vehicleModel"`
	VehiclePlate       string          `json:"vehiclePlate"`
	VehicleDailyRate   decimal.Decimal `json:"vehicleDailyRate"`
	VehiclePerKmRate   decimal.Decimal `json:"vehiclePerKmRate"`
	VehicleCurrentKm   int             `json:"vehicleCurrentKm"`
}

const reservationDetailQuery = `
	SELECT
		r.id, r.vehicle_id, r.customer_id, r.start_date, r.end_date,
		COALESCE(r.delivery_time,''), r.operational_status, r.reservation_status,
		COALESCE(r.odometer_out,0), r.odometer_in, COALESCE(r.km_allowance,0),
		COALESCE(r.advance_payment,0), COALESCE(r.delivery_payment,0),
		COALESCE(r.wash_cost,0), COALESCE(r.fine_charges,0), COALESCE(r.damage_charges,0),
		COALESCE(r.other_charges,0), COALESCE(r.discount,0), COALESCE(r.half_day,0),
		COALESCE(r.days_charge,0), COALESCE(r.total_amount,0), COALESCE(r.balance_due,0),
		c.full_name, c.national_id, COALESCE(c.phone,''),
		v.make, v.model, v.plate, v.daily_rate, v.per_km_rate, COALESCE(v.current_km,0)
	FROM reservations r
	JOIN customers c ON r.customer_id = c.id
	JOIN vehicles v ON r.vehicle_id = v.id`

func scanReservationDetail(row interface{ Scan(...any) error }) (ReservationDetail, error) {
	var d ReservationDetail
	var odoIn sql.NullInt64
	err := row.Scan(
		&d.ID, &d.VehicleID, &d.CustomerID, &d.StartDate, &d.EndDate,
		&d.DeliveryTime, &d.OperationalStatus, &d.ReservationStatus,
		&d.OdometerOut, &odoIn, &d.KmAllowance,
		&d.AdvancePayment, &d.DeliveryPayment,
		&d.WashCost, &d.FineCharges, &d.DamageCharges,
		&d.OtherCharges, &d.Discount, &d.HalfDay,
		&d.DaysCharge, &d.TotalAmount, &d.BalanceDue,
		&d.CustomerName, &d.CustomerNationalID, &d.CustomerPhone,
		&d.VehicleMake, &d.VehicleModel, &d.VehiclePlate,
		&d.VehicleDailyRate, &d.VehiclePerKmRate, &d.VehicleCurrentKm,
	)
	if odoIn.Valid {
		v := int(odoIn.Int64)
		d.OdometerIn = &v
	}
	return d, err
}

// GetDetail loads one reservation with its customer and vehicle joined.
func (r ReservationRepository) GetDetail(id int64) (ReservationDetail, error) {
	d, err := scanReservationDetail(r.db().QueryRow(reservationDetailQuery+` WHERE r.id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReservationDetail{}, domain.NotFoundError{Resource: "reserva", Err: err}
		}
		return ReservationDetail{}, domain.InternalError{Err: err}
	}
	return d, nil
}

func (r ReservationRepository) listDetails(where string, args ...any) ([]ReservationDetail, error) {
	rows, err := r.db().Query(reservationDetailQuery+" "+where, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []ReservationDetail{}
	for rows.Next() {
		d, err := scanReservationDetail(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ListPendingDelivery returns reservations awaiting vehicle handover.
func (r ReservationRepository) ListPendingDelivery() ([]ReservationDetail, error) {
	return r.listDetails(
		`WHERE r.operational_status=? AND r.reservation_status=? AND v.status != ? ORDER BY r.start_date ASC`,
		models.OperationalActive, models.ReservationReserved, models.VehicleRented,
	)
}

// ListPendingReturn returns rentals currently on the street.
func (r ReservationRepository) ListPendingReturn() ([]ReservationDetail, error) {
	return r.listDetails(
		`WHERE r.operational_status=? AND r.reservation_status=? ORDER BY r.end_date ASC`,
		models.OperationalActive, models.ReservationRented,
	)
}

// ListByStatus lists reservations filtered by lifecycle status ("" = all).
func (r ReservationRepository) ListByStatus(status string) ([]ReservationDetail, error) {
	if status == "" {
		return r.listDetails(`ORDER BY r.start_date DESC`)
	}
	return r.listDetails(`WHERE r.reservation_status=? ORDER BY r.start_date DESC`, status)
}

// ListCoveringDate finds reservations whose interval covers the given day,
// used to attach a traffic fine to whoever held the vehicle then.
func (r ReservationRepository) ListCoveringDate(day time.Time) ([]ReservationDetail, error) {
	return r.listDetails(
		`WHERE ? BETWEEN r.start_date AND r.end_date
		 AND r.reservation_status IN (?,?,?)
		 ORDER BY r.start_date`,
		day, models.ReservationRented, models.ReservationReserved, models.ReservationFinalized,
	)
}
