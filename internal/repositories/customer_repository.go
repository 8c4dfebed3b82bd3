package repositories

import (
	"database/sql"
	"errors"

	intconfig "rental/internal/config"
	intdb "rental/internal/db"
	"rental/internal/domain"
	"rental/internal/domain/models"
)

type CustomerRepository struct {
	DB *sql.DB
}

func (r CustomerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const customerColumns = `
	id,
	full_name,
	national_id,
	COALESCE(secondary_id,''),
	COALESCE(license_number,''),
	license_expiry,
	COALESCE(license_state,''),
	COALESCE(phone,''),
	COALESCE(address,''),
	COALESCE(notes,''),
	status`

func scanCustomer(row interface{ Scan(...any) error }) (models.Customer, error) {
	var c models.Customer
	var expiry sql.NullTime
	err := row.Scan(
		&c.ID,
		&c.FullName,
		&c.NationalID,
		&c.SecondaryID,
		&c.LicenseNumber,
		&expiry,
		&c.LicenseState,
		&c.Phone,
		&c.Address,
		&c.Notes,
		&c.Status,
	)
	if expiry.Valid {
		t := expiry.Time
		c.LicenseExpiry = &t
	}
	return c, err
}

func (r CustomerRepository) GetByID(id int64) (models.Customer, error) {
	return r.GetByIDTx(r.db(), id)
}

func (r CustomerRepository) GetByIDTx(q intdb.Querier, id int64) (models.Customer, error) {
	if id <= 0 {
		return models.Customer{}, domain.ValidationError{Field: "customer_id", Msg: "id inválido"}
	}
	c, err := scanCustomer(q.QueryRow(`SELECT `+customerColumns+` FROM customers WHERE id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Customer{}, domain.NotFoundError{Resource: "cliente", Err: err}
		}
		return models.Customer{}, domain.InternalError{Err: err}
	}
	return c, nil
}

// List returns customers, hiding removed ones unless includeRemoved is set.
func (r CustomerRepository) List(q string, includeRemoved bool) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	where := []string{}
	args := []any{}
	if !includeRemoved {
		where = append(where, "status != ?")
		args = append(args, models.CustomerRemoved)
	}
	if q != "" {
		where = append(where, "(full_name LIKE ? OR national_id LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY full_name"

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// NationalIDInUse checks uniqueness among non-removed customers only. A
// removed customer's id may be registered again; the old row stays as history.
func (r CustomerRepository) NationalIDInUse(nationalID string, excludeID int64) (bool, error) {
	var count int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM customers
		WHERE national_id=? AND status != ? AND id != ?`,
		nationalID, models.CustomerRemoved, excludeID,
	).Scan(&count)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return count > 0, nil
}

func (r CustomerRepository) Create(c models.Customer) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO customers
			(full_name, national_id, secondary_id, license_number, license_expiry, license_state,
			 phone, address, notes, status, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,NOW(),NOW())`,
		c.FullName, c.NationalID, intdb.NullIfEmpty(c.SecondaryID),
		intdb.NullIfEmpty(c.LicenseNumber), c.LicenseExpiry, intdb.NullIfEmpty(c.LicenseState),
		intdb.NullIfEmpty(c.Phone), intdb.NullIfEmpty(c.Address), intdb.NullIfEmpty(c.Notes),
		models.CustomerActive,
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ConflictError{Resource: "cliente", Msg: "CPF ou RG já cadastrado"}
		}
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r CustomerRepository) Update(c models.Customer) error {
	res, err := r.db().Exec(`
		UPDATE customers
		SET full_name=?, national_id=?, secondary_id=?, license_number=?, license_expiry=?,
		    license_state=?, phone=?, address=?, notes=?, status=?, updated_at=NOW()
		WHERE id=?`,
		c.FullName, c.NationalID, intdb.NullIfEmpty(c.SecondaryID),
		intdb.NullIfEmpty(c.LicenseNumber), c.LicenseExpiry, intdb.NullIfEmpty(c.LicenseState),
		intdb.NullIfEmpty(c.Phone), intdb.NullIfEmpty(c.Address), intdb.NullIfEmpty(c.Notes),
		c.Status, c.ID,
	)
	if err != nil {
		if isDuplicate(err) {
			return domain.ConflictError{Resource: "cliente", Msg: "CPF ou RG já cadastrado"}
		}
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "cliente"}
	}
	return nil
}

func (r CustomerRepository) SetStatus(id int64, status string) error {
	res, err := r.db().Exec(`UPDATE customers SET status=?, updated_at=NOW() WHERE id=?`, status, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "cliente"}
	}
	return nil
}

// CountActiveReservations backs the removal guard: a customer holding a
// Reserved or Rented reservation cannot be removed.
func (r CustomerRepository) CountActiveReservations(customerID int64) (int, error) {
	var count int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM reservations
		WHERE customer_id=? AND reservation_status IN (?,?)`,
		customerID, models.ReservationReserved, models.ReservationRented,
	).Scan(&count)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return count, nil
}
