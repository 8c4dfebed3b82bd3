package repositories

import (
	"database/sql"
	"time"

	intconfig "rental/internal/config"
	"rental/internal/domain"
	"rental/internal/domain/models"

	"github.com/shopspring/decimal"
)

// ReportsRepository holds the read-only aggregate queries behind the
// dashboard and the occupancy report.
type ReportsRepository struct {
	DB *sql.DB
}

func (r ReportsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CountVehiclesByStatus counts the fleet per status, excluded vehicles left
// out.
func (r ReportsRepository) CountVehiclesByStatus() (map[string]int, error) {
	rows, err := r.db().Query(`
		SELECT status, COUNT(*) FROM vehicles WHERE status != ? GROUP BY status`,
		models.VehicleExcluded,
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// RevenueBetween sums the final totals of rentals settled in the window.
func (r ReportsRepository) RevenueBetween(start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db().QueryRow(`
		SELECT COALESCE(SUM(total_amount),0) FROM reservations
		WHERE reservation_status=? AND end_date BETWEEN ? AND ?`,
		models.ReservationFinalized, start, end,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, domain.InternalError{Err: err}
	}
	return total, nil
}

// CountReturnsDueOn counts rentals expected back on the given day.
func (r ReportsRepository) CountReturnsDueOn(day time.Time) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM reservations WHERE reservation_status=? AND end_date=?`,
		models.ReservationRented, day,
	).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}

// CountPendingFines counts unresolved fines across the whole fleet.
func (r ReportsRepository) CountPendingFines() (int, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM fines WHERE status=?`, models.FinePending).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}

// DateRange is one rental interval, as needed by the occupancy report.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RentalRangesOverlapping returns the intervals of every rental that touched
// the window. Cancelled reservations never count as occupation.
func (r ReportsRepository) RentalRangesOverlapping(start, end time.Time) ([]DateRange, error) {
	rows, err := r.db().Query(`
		SELECT start_date, end_date FROM reservations
		WHERE reservation_status IN (?,?,?)
		AND start_date <= ? AND end_date >= ?`,
		models.ReservationReserved, models.ReservationRented, models.ReservationFinalized,
		end, start,
	)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []DateRange{}
	for rows.Next() {
		var d DateRange
		if err := rows.Scan(&d.Start, &d.End); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
