package repositories

import (
	"database/sql"
	"errors"
	"time"

	intconfig "rental/internal/config"
	intdb "rental/internal/db"
	"rental/internal/domain"
	"rental/internal/domain/models"
)

type FineRepository struct {
	DB *sql.DB
}

func (r FineRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const fineColumns = `
	id,
	reservation_id,
	infraction_type,
	amount,
	infraction_at,
	COALESCE(location,''),
	status,
	COALESCE(notes,''),
	paid_at`

func scanFine(row interface{ Scan(...any) error }) (models.Fine, error) {
	var f models.Fine
	var paidAt sql.NullTime
	err := row.Scan(
		&f.ID,
		&f.ReservationID,
		&f.InfractionType,
		&f.Amount,
		&f.InfractionAt,
		&f.Location,
		&f.Status,
		&f.Notes,
		&paidAt,
	)
	if paidAt.Valid {
		t := paidAt.Time
		f.PaidAt = &t
	}
	return f, err
}

func (r FineRepository) GetByID(id int64) (models.Fine, error) {
	f, err := scanFine(r.db().QueryRow(`SELECT `+fineColumns+` FROM fines WHERE id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Fine{}, domain.NotFoundError{Resource: "multa", Err: err}
		}
		return models.Fine{}, domain.InternalError{Err: err}
	}
	return f, nil
}

// Create records the fine inside the caller's transaction so fine insert and
// reservation flag change commit together.
func (r FineRepository) Create(q intdb.Querier, f models.Fine) (int64, error) {
	out, err := q.Exec(`
		INSERT INTO fines
			(reservation_id, infraction_type, amount, infraction_at, location, status, notes, created_at)
		VALUES (?,?,?,?,?,?,?,NOW())`,
		f.ReservationID, f.InfractionType, f.Amount, f.InfractionAt,
		intdb.NullIfEmpty(f.Location), f.Status, intdb.NullIfEmpty(f.Notes),
	)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, _ := out.LastInsertId()
	return id, nil
}

// UpdateStatus changes the payment state; paid fines keep a settlement date.
func (r FineRepository) UpdateStatus(q intdb.Querier, id int64, status string, paidAt *time.Time) error {
	out, err := q.Exec(`UPDATE fines SET status=?, paid_at=? WHERE id=?`, status, paidAt, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "multa"}
	}
	return nil
}

// CountPendingByReservation counts fines still awaiting settlement, which
// keeps the reservation operationally flagged.
func (r FineRepository) CountPendingByReservation(q intdb.Querier, reservationID int64) (int, error) {
	var count int
	err := q.QueryRow(`SELECT COUNT(*) FROM fines WHERE reservation_id=? AND status=?`,
		reservationID, models.FinePending).Scan(&count)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return count, nil
}

// FineDetail carries the fine with the renter and vehicle it belongs to.
type FineDetail struct {
	models.Fine
	CustomerName string `json:"customerName"`
	VehicleMake  string `json:"vehicleMake"`
	VehicleModel string `json:"vehicleModel"`
	VehiclePlate string `json:"vehiclePlate"`
}

// ListByPeriod lists fines whose infraction date falls in [start, end],
// newest first, with renter and vehicle joined.
func (r FineRepository) ListByPeriod(start, end time.Time) ([]FineDetail, error) {
	rows, err := r.db().Query(`
		SELECT
			f.id, f.reservation_id, f.infraction_type, f.amount, f.infraction_at,
			COALESCE(f.location,''), f.status, COALESCE(f.notes,''), f.paid_at,
			c.full_name, v.make, v.model, v.plate
		FROM fines f
		JOIN reservations r ON f.reservation_id = r.id
		JOIN customers c ON r.customer_id = c.id
		JOIN vehicles v ON r.vehicle_id = v.id
		WHERE f.infraction_at BETWEEN ? AND ?
		ORDER BY f.infraction_at DESC`,
		start, end,
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []FineDetail{}
	for rows.Next() {
		var d FineDetail
		var paidAt sql.NullTime
		err := rows.Scan(
			&d.ID, &d.ReservationID, &d.InfractionType, &d.Amount, &d.InfractionAt,
			&d.Location, &d.Status, &d.Notes, &paidAt,
			&d.CustomerName, &d.VehicleMake, &d.VehicleModel, &d.VehiclePlate,
		)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		if paidAt.Valid {
			t := paidAt.Time
			d.PaidAt = &t
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
