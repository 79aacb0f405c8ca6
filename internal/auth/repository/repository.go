package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

// User is a row of the users table. AllowedSources is NULL for staff and a
// JSON array of lead-source ids for external users.
type User struct {
	ID             int64
	Email          string
	PasswordHash   string
	Role           string
	AllowedSources []int64
	Restricted     bool
	CreatedAt      time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByEmail loads a user by e-mail address.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	var allowedRaw []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, allowed_sources, created_at
		FROM users
		WHERE lower(email) = lower($1)`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &allowedRaw, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	if allowedRaw != nil {
		u.Restricted = true
		if err := json.Unmarshal(allowedRaw, &u.AllowedSources); err != nil {
			// A corrupt allow-list must fail closed, not open.
			u.AllowedSources = nil
		}
	}
	return u, nil
}

// GetByID loads a user by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	var allowedRaw []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, allowed_sources, created_at
		FROM users
		WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &allowedRaw, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	if allowedRaw != nil {
		u.Restricted = true
		if err := json.Unmarshal(allowedRaw, &u.AllowedSources); err != nil {
			u.AllowedSources = nil
		}
	}
	return u, nil
}
