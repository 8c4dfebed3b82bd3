package repositories

import (
	"database/sql"
	"errors"

	intconfig "rental/internal/config"
	intdb "rental/internal/db"
	"rental/internal/domain"
	"rental/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleColumns = `
	id,
	make,
	model,
	plate,
	COALESCE(color,''),
	COALESCE(current_km,0),
	daily_rate,
	per_km_rate,
	COALESCE(chassis_number,''),
	COALESCE(registration_number,''),
	COALESCE(manufacture_year,0),
	COALESCE(oil_change_km,0),
	status`

func scanVehicle(row interface{ Scan(...any) error }) (models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(
		&v.ID,
		&v.Make,
		&v.Model,
		&v.Plate,
		&v.Color,
		&v.CurrentKm,
		&v.DailyRate,
		&v.PerKmRate,
		&v.ChassisNumber,
		&v.RegistrationNumber,
		&v.ManufactureYear,
		&v.OilChangeKm,
		&v.Status,
	)
	return v, err
}

// GetByID loads a vehicle row, excluded ones included (history views need them).
func (r VehicleRepository) GetByID(id int64) (models.Vehicle, error) {
	return r.GetByIDTx(r.db(), id)
}

// GetByIDTx is the transaction-aware variant used inside lifecycle mutations.
func (r VehicleRepository) GetByIDTx(q intdb.Querier, id int64) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "vehicle_id", Msg: "id inválido"}
	}
	v, err := scanVehicle(q.QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vehicle{}, domain.NotFoundError{Resource: "veículo", Err: err}
		}
		return models.Vehicle{}, domain.InternalError{Err: err}
	}
	return v, nil
}

// LockByID reads a vehicle under a row lock. Only valid inside a transaction.
func (r VehicleRepository) LockByID(q intdb.Querier, id int64) (models.Vehicle, error) {
	v, err := scanVehicle(q.QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE id=? FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vehicle{}, domain.NotFoundError{Resource: "veículo", Err: err}
		}
		return models.Vehicle{}, domain.ConcurrencyError{Msg: "não foi possível bloquear o veículo", Err: err}
	}
	return v, nil
}

// List returns fleet rows, optionally filtered by a plate/model search term.
// Excluded vehicles are hidden unless includeExcluded is set.
func (r VehicleRepository) List(q string, includeExcluded bool) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	where := []string{}
	args := []any{}
	if !includeExcluded {
		where = append(where, "status != ?")
		args = append(args, models.VehicleExcluded)
	}
	if q != "" {
		where = append(where, "(plate LIKE ? OR model LIKE ? OR make LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY make, model"

	rows, err := r.db().Query(query, args...)
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

// Create inserts a vehicle as Available.
func (r VehicleRepository) Create(v models.Vehicle) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO vehicles
			(make, model, plate, color, current_km, daily_rate, per_km_rate,
			 chassis_number, registration_number, manufacture_year, oil_change_km, status, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())`,
		v.Make, v.Model, v.Plate, intdb.NullIfEmpty(v.Color), v.CurrentKm,
		v.DailyRate, v.PerKmRate,
		intdb.NullIfEmpty(v.ChassisNumber), intdb.NullIfEmpty(v.RegistrationNumber),
		v.ManufactureYear, v.OilChangeKm, models.VehicleAvailable,
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ConflictError{Resource: "veículo", Msg: "placa já cadastrada"}
		}
		return 0, domain.InternalError{Err: err}
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// Update rewrites the editable fields of a vehicle.
func (r VehicleRepository) Update(v models.Vehicle) error {
	res, err := r.db().Exec(`
		UPDATE vehicles
		SET make=?, model=?, plate=?, color=?, current_km=?, daily_rate=?, per_km_rate=?,
		    chassis_number=?, registration_number=?, manufacture_year=?, oil_change_km=?, status=?, updated_at=NOW()
		WHERE id=?`,
		v.Make, v.Model, v.Plate, intdb.NullIfEmpty(v.Color), v.CurrentKm,
		v.DailyRate, v.PerKmRate,
		intdb.NullIfEmpty(v.ChassisNumber), intdb.NullIfEmpty(v.RegistrationNumber),
		v.ManufactureYear, v.OilChangeKm, v.Status, v.ID,
	)
	if err != nil {
		if isDuplicate(err) {
			return domain.ConflictError{Resource: "veículo", Msg: "placa já cadastrada"}
		}
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "veículo"}
	}
	return nil
}

// SetStatus updates only the status column (used for soft delete and manual
// availability toggles outside the reservation lifecycle).
func (r VehicleRepository) SetStatus(id int64, status string) error {
	return r.SetStatusTx(r.db(), id, status)
}

func (r VehicleRepository) SetStatusTx(q intdb.Querier, id int64, status string) error {
	res, err := q.Exec(`UPDATE vehicles SET status=?, updated_at=NOW() WHERE id=?`, status, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ConcurrencyError{Msg: "veículo não encontrado ao atualizar status"}
	}
	return nil
}

// SetStatusAndKm synchronizes status and odometer in one statement, the shape
// both deliver and return need.
func (r VehicleRepository) SetStatusAndKm(q intdb.Querier, id int64, status string, km int) error {
	res, err := q.Exec(`UPDATE vehicles SET status=?, current_km=?, updated_at=NOW() WHERE id=?`, status, km, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ConcurrencyError{Msg: "veículo não encontrado ao atualizar status"}
	}
	return nil
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
