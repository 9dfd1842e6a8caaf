package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kavehram/rms-auth/internal/model"
)

// UserRepo persists user records in the 'users' table. Employee identifier
// allocation is part of Create and runs inside the insert transaction.
type UserRepo struct {
	DB     *sql.DB
	Prefix string // employee id prefix, e.g. "EMP"
	Floor  int    // first number handed out when none exist yet
}

func NewUserRepo(db *sql.DB, prefix string, floor int) *UserRepo {
	return &UserRepo{DB: db, Prefix: prefix, Floor: floor}
}

const userColumns = "id,email,full_name,employee_id,password_hash,role,is_active,is_superuser,created_at,updated_at"

// Create inserts a user and allocates the next sequential employee
// identifier. The MAX lookup and the insert share one transaction with the
// scanned rows locked, so two concurrent registrations cannot compute the
// same number.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var last sql.NullInt64
	err = tx.QueryRowContext(ctx,
		"SELECT MAX(CAST(SUBSTRING(employee_id, ?) AS UNSIGNED)) FROM users WHERE employee_id LIKE ? FOR UPDATE",
		len(r.Prefix)+1, r.Prefix+"%").Scan(&last)
	if err != nil {
		return model.User{}, err
	}
	next := r.Floor
	if last.Valid {
		next = int(last.Int64) + 1
	}
	u.EmployeeID = fmt.Sprintf("%s%d", r.Prefix, next)

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, full_name, employee_id, password_hash, role, is_active, is_superuser) VALUES (?,?,?,?,?,?,?)",
		u.Email, u.FullName, u.EmployeeID, u.PasswordHash, u.Role, u.IsActive, u.IsSuperuser)
	if err != nil {
		// MySQL duplicate-key error on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	u.ID = uint64(id)
	return u, nil
}

// GetByEmail fetches a user by exact email match.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetAll returns every user ordered by id.
func (r *UserRepo) GetAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.EmployeeID, &u.PasswordHash,
			&u.Role, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update overwrites the mutable columns of an existing user.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=?, password_hash=?, role=?, is_active=?, is_superuser=?, updated_at=NOW() WHERE id=?",
		u.FullName, u.PasswordHash, u.Role, u.IsActive, u.IsSuperuser, u.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// Delete removes a user row.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.EmployeeID, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
