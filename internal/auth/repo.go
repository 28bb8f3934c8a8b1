package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaditya574/ledgelogger/internal/platform/db"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	CreateOwner(ctx context.Context, owner Owner) (Owner, error)
	FindByEmail(ctx context.Context, email string) (*Owner, error)
	CreateSession(ctx context.Context, id string, ownerID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// CreateOwner inserts a new owner row. A duplicate email surfaces as
// shared.ErrDuplicateEmail.
func (r *PGRepository) CreateOwner(ctx context.Context, owner Owner) (Owner, error) {
	query := `INSERT INTO owners (name, email_id, phone_number, street, city, state, postal_code, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query, owner.Name, owner.EmailID, owner.PhoneNumber,
		owner.Street, owner.City, owner.State, owner.PostalCode, owner.PasswordHash, now).Scan(&owner.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Owner{}, shared.ErrDuplicateEmail
		}
		return Owner{}, err
	}
	owner.CreatedAt = now
	return owner, nil
}

// FindByEmail fetches an owner by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Owner, error) {
	query := `SELECT id, name, email_id, phone_number, street, city, state, postal_code, password_hash, created_at
		FROM owners WHERE email_id = $1`
	var o Owner
	err := r.db.QueryRow(ctx, query, email).Scan(&o.ID, &o.Name, &o.EmailID, &o.PhoneNumber,
		&o.Street, &o.City, &o.State, &o.PostalCode, &o.PasswordHash, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateSession persists a login session in the database for auditing.
func (r *PGRepository) CreateSession(ctx context.Context, id string, ownerID int64, expiresAt time.Time, ip, ua string) error {
	query := `INSERT INTO sessions (id, owner_id, created_at, expires_at, ip, ua) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, id, ownerID, time.Now().UTC(), expiresAt.UTC(), ip, ua)
	return err
}

// DeleteSession removes a session record from the database.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpiredSessions prunes session audit rows past their expiry.
func (r *PGRepository) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now().UTC())
	return err
}

var _ Repository = (*PGRepository)(nil)
