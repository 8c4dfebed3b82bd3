package repositories

import (
	"database/sql"
	"errors"

	intconfig "rental/internal/config"
	"rental/internal/domain"
	"rental/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `
	id, name, username, COALESCE(email,''), COALESCE(phone,''),
	password_hash, role, status, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r UserRepository) GetByID(id int64) (models.User, error) {
	u, err := scanUser(r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "usuário", Err: err}
		}
		return models.User{}, domain.InternalError{Err: err}
	}
	return u, nil
}

// GetByLogin accepts either the email or the username.
func (r UserRepository) GetByLogin(login string) (models.User, error) {
	u, err := scanUser(r.db().QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email=? OR username=? LIMIT 1`, login, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "usuário", Err: err}
		}
		return models.User{}, domain.InternalError{Err: err}
	}
	return u, nil
}

func (r UserRepository) List() ([]models.User, error) {
	rows, err := r.db().Query(`SELECT ` + userColumns + ` FROM users ORDER BY name`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	list := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, domain.InternalError{Err: err}
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r UserRepository) LoginInUse(email, username string, excludeID int64) (bool, error) {
	var count int
	err := r.db().QueryRow(
		`SELECT COUNT(*) FROM users WHERE (email=? OR username=?) AND id != ?`,
		email, username, excludeID,
	).Scan(&count)
	if err != nil {
		return false, domain.InternalError{Err: err}
	}
	return count > 0, nil
}

func (r UserRepository) Create(u models.User) (int64, error) {
	out, err := r.db().Exec(`
		INSERT INTO users (name, username, email, phone, password_hash, role, status, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,NOW(),NOW())`,
		u.Name, u.Username, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status,
	)
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ConflictError{Msg: "email ou usuário já cadastrado"}
		}
		return 0, domain.InternalError{Err: err}
	}
	id, _ := out.LastInsertId()
	return id, nil
}

func (r UserRepository) Update(u models.User) error {
	out, err := r.db().Exec(`
		UPDATE users SET name=?, username=?, email=?, phone=?, role=?, status=?, updated_at=NOW()
		WHERE id=?`,
		u.Name, u.Username, u.Email, u.Phone, u.Role, u.Status, u.ID,
	)
	if err != nil {
		if isDuplicate(err) {
			return domain.ConflictError{Msg: "email ou usuário já cadastrado"}
		}
		return domain.InternalError{Err: err}
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "usuário"}
	}
	return nil
}

func (r UserRepository) UpdatePassword(id int64, hash string) error {
	out, err := r.db().Exec(`UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?`, hash, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "usuário"}
	}
	return nil
}

func (r UserRepository) SetStatus(id int64, status string) error {
	out, err := r.db().Exec(`UPDATE users SET status=?, updated_at=NOW() WHERE id=?`, status, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "usuário"}
	}
	return nil
}
