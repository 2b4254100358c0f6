package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hireflow/recruitment-api/internal/auth"
	"github.com/hireflow/recruitment-api/internal/utils"
)

// User mirrors the 'users' table.  Deleting a user never removes the row;
// it flips IsActive so audit history stays intact.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         auth.Role `json:"role"`
	Department   string    `json:"department"`
	Phone        string    `json:"phone"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,full_name,role,department,phone,is_active,created_at,updated_at"

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.Department, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a self-registered user and returns its ID.  The role is
// decided by the caller (handlers force it to the lowest role for public
// signup).
func (r *UserRepo) Create(ctx context.Context, email, password, fullName string, role auth.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name, role) VALUES (?,?,?,?)",
		email, hash, fullName, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Provision inserts a fully specified profile created by a privileged user.
// The password hash is for a generated initial password the new user is
// expected to change.  A single INSERT keeps identity and profile creation
// atomic, so there is no orphaned-identity failure mode.
func (r *UserRepo) Provision(ctx context.Context, u *User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name, role, department, phone, is_active) VALUES (?,?,?,?,?,?,TRUE)",
		u.Email, u.PasswordHash, u.FullName, u.Role, u.Department, u.Phone)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	// Follow-up SELECT populates default timestamp fields.
	got, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = got
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// List returns all users, most recently created first.  Inactive rows are
// included so soft-deleted accounts stay visible to administrators.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update rewrites the mutable profile fields.  Email and password are not
// touched here; the row's updated_at is bumped.
func (r *UserRepo) Update(ctx context.Context, id uint64, fullName string, role auth.Role, department, phone string, isActive bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET full_name=?, role=?, department=?, phone=?, is_active=?, updated_at=NOW() WHERE id=?`,
		fullName, role, department, phone, isActive, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks the account inactive.  The row itself is preserved and
// keeps appearing in List results.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=FALSE, updated_at=NOW() WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
