package buyers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mdshared "github.com/aaditya574/ledgelogger/internal/masterdata/shared"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

const buyerColumns = `id, owner_id, name, email_id, phone_number, street, city, state, postal_code, created_at, updated_at`

var buyerSortColumns = map[string]bool{"name": true, "created_at": true}

type Repository interface {
	List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Buyer, int, error)
	Get(ctx context.Context, ownerID, id int64) (Buyer, error)
	Create(ctx context.Context, buyer Buyer) (Buyer, error)
	Update(ctx context.Context, ownerID, id int64, buyer Buyer) error
	Delete(ctx context.Context, ownerID, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Buyer, int, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE owner_id = $1`
	args := []interface{}{ownerID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		query += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM buyers WHERE owner_id = $1`
	countArgs := []interface{}{ownerID}
	if filters.Search != "" {
		countQuery += ` AND name ILIKE $2`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + mdshared.SortOrder(filters.SortBy, filters.SortDir, buyerSortColumns, "name")

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var buyers []Buyer
	for rows.Next() {
		var b Buyer
		if err := scanBuyer(rows, &b); err != nil {
			return nil, 0, err
		}
		buyers = append(buyers, b)
	}
	return buyers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, ownerID, id int64) (Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE id = $1 AND owner_id = $2`
	var b Buyer
	err := scanBuyer(r.db.QueryRow(ctx, query, id, ownerID), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		return Buyer{}, shared.ErrNotFound
	}
	return b, err
}

func (r *repository) Create(ctx context.Context, buyer Buyer) (Buyer, error) {
	query := `INSERT INTO buyers (owner_id, name, email_id, phone_number, street, city, state, postal_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query, buyer.OwnerID, buyer.Name, buyer.EmailID, buyer.PhoneNumber,
		buyer.Street, buyer.City, buyer.State, buyer.PostalCode, now).Scan(&buyer.ID)
	if err != nil {
		return Buyer{}, err
	}
	buyer.CreatedAt = now
	buyer.UpdatedAt = now
	return buyer, nil
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, buyer Buyer) error {
	query := `UPDATE buyers SET name = $1, email_id = $2, phone_number = $3, street = $4, city = $5, state = $6, postal_code = $7, updated_at = $8
		WHERE id = $9 AND owner_id = $10`
	tag, err := r.db.Exec(ctx, query, buyer.Name, buyer.EmailID, buyer.PhoneNumber,
		buyer.Street, buyer.City, buyer.State, buyer.PostalCode, time.Now().UTC(), id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM buyers WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanBuyer(row pgx.Row, b *Buyer) error {
	return row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.EmailID, &b.PhoneNumber,
		&b.Street, &b.City, &b.State, &b.PostalCode, &b.CreatedAt, &b.UpdatedAt)
}
