package vendors

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

const vendorColumns = `id, owner_id, name, email_id, phone_number, street, city, state, postal_code, created_at, updated_at`

var vendorSortColumns = map[string]bool{"name": true, "created_at": true}

type Repository interface {
	List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Vendor, int, error)
	Get(ctx context.Context, ownerID, id int64) (Vendor, error)
	Create(ctx context.Context, vendor Vendor) (Vendor, error)
	Update(ctx context.Context, ownerID, id int64, vendor Vendor) error
	Delete(ctx context.Context, ownerID, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Vendor, int, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE owner_id = $1`
	args := []interface{}{ownerID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		query += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM vendors WHERE owner_id = $1`
	countArgs := []interface{}{ownerID}
	if filters.Search != "" {
		countQuery += ` AND name ILIKE $2`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + mdshared.SortOrder(filters.SortBy, filters.SortDir, vendorSortColumns, "name")

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

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := scanVendor(rows, &v); err != nil {
			return nil, 0, err
		}
		vendors = append(vendors, v)
	}
	return vendors, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, ownerID, id int64) (Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1 AND owner_id = $2`
	var v Vendor
	err := scanVendor(r.db.QueryRow(ctx, query, id, ownerID), &v)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vendor{}, shared.ErrNotFound
	}
	return v, err
}

func (r *repository) Create(ctx context.Context, vendor Vendor) (Vendor, error) {
	query := `INSERT INTO vendors (owner_id, name, email_id, phone_number, street, city, state, postal_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query, vendor.OwnerID, vendor.Name, vendor.EmailID, vendor.PhoneNumber,
		vendor.Street, vendor.City, vendor.State, vendor.PostalCode, now).Scan(&vendor.ID)
	if err != nil {
		return Vendor{}, err
	}
	vendor.CreatedAt = now
	vendor.UpdatedAt = now
	return vendor, nil
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, vendor Vendor) error {
	query := `UPDATE vendors SET name = $1, email_id = $2, phone_number = $3, street = $4, city = $5, state = $6, postal_code = $7, updated_at = $8
		WHERE id = $9 AND owner_id = $10`
	tag, err := r.db.Exec(ctx, query, vendor.Name, vendor.EmailID, vendor.PhoneNumber,
		vendor.Street, vendor.City, vendor.State, vendor.PostalCode, time.Now().UTC(), id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vendors WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanVendor(row pgx.Row, v *Vendor) error {
	return row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.EmailID, &v.PhoneNumber,
		&v.Street, &v.City, &v.State, &v.PostalCode, &v.CreatedAt, &v.UpdatedAt)
}
