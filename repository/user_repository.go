package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelJournal/models"
)

// ErrNotFound is returned by updates that matched no row.
var ErrNotFound = errors.New("not found")

const userColumns = `user_id, username, email, password_hash, first_name, last_name, location, profile_image, personal_description, role, status`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// NewUser carries the fields accepted at signup. Names and location are stored trimmed.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Location     string
}

// Create inserts a new account with the default role (traveller) and status (active).
func (r *UserRepository) Create(ctx context.Context, in NewUser) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	first, last, loc := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), strings.TrimSpace(in.Location)
	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, password_hash, email, first_name, last_name, location, profile_image, personal_description, role, shareable, status)
VALUES (?, ?, ?, ?, ?, ?, NULL, NULL, ?, 1, ?)`,
		in.Username, in.PasswordHash, in.Email, first, last, loc, models.RoleTraveller, models.UserStatusActive)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		FirstName:    first,
		LastName:     last,
		Location:     loc,
		Role:         models.RoleTraveller,
		Status:       models.UserStatusActive,
	}, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, id)
}

// GetByUsername returns the user including the password hash and status,
// which is what the login flow needs. It returns (nil, nil) when absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// UserIDByUsername backs the username uniqueness check.
func (r *UserRepository) UserIDByUsername(ctx context.Context, username string) (int64, bool, error) {
	return r.lookupID(ctx, `SELECT user_id FROM users WHERE username = ?`, username)
}

// UserIDByEmail backs the email uniqueness check.
func (r *UserRepository) UserIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	return r.lookupID(ctx, `SELECT user_id FROM users WHERE email = ?`, email)
}

func (r *UserRepository) lookupID(ctx context.Context, query, arg string) (int64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ProfileUpdate is the editable part of a profile. Text fields are stored trimmed.
type ProfileUpdate struct {
	Email               string
	FirstName           string
	LastName            string
	Location            string
	PersonalDescription string
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, p ProfileUpdate) error {
	return r.execOne(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, email = ?, location = ?, personal_description = ? WHERE user_id = ?`,
		strings.TrimSpace(p.FirstName), strings.TrimSpace(p.LastName), p.Email,
		strings.TrimSpace(p.Location), strings.TrimSpace(p.PersonalDescription), id)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = ? WHERE user_id = ?`, passwordHash, id)
}

// SetProfileImage stores the image file name; nil clears it.
func (r *UserRepository) SetProfileImage(ctx context.Context, id int64, name *string) error {
	return r.execOne(ctx, `UPDATE users SET profile_image = ? WHERE user_id = ?`, name, id)
}

// UpdateRoleAndStatus is the admin edit of an account. Both values must be known.
func (r *UserRepository) UpdateRoleAndStatus(ctx context.Context, id int64, role models.Role, status models.UserStatus) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	return r.execOne(ctx, `UPDATE users SET role = ?, status = ? WHERE user_id = ?`, role, status, id)
}

// UpdateRoleByUsername sets the role for the given username.
// Intended for seeding and tests.
func (r *UserRepository) UpdateRoleByUsername(ctx context.Context, username string, role models.Role) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE username = ?`, role, username)
	return err
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u    models.User
		img  sql.NullString
		desc sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Location, &img, &desc, &u.Role, &u.Status); err != nil {
		return nil, err
	}
	if img.Valid {
		u.ProfileImage = &img.String
	}
	if desc.Valid {
		u.PersonalDescription = &desc.String
	}
	return &u, nil
}
