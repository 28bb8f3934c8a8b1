package items

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mdshared "github.com/aaditya574/ledgelogger/internal/masterdata/shared"
	"github.com/aaditya574/ledgelogger/internal/platform/db"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

const itemColumns = `id, owner_id, name, selling_price_per_unit, created_at, updated_at`

var itemSortColumns = map[string]bool{"name": true, "created_at": true, "selling_price_per_unit": true}

type Repository interface {
	List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Item, int, error)
	Get(ctx context.Context, ownerID, id int64) (Detail, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, ownerID, id int64, item Item) error
	Delete(ctx context.Context, ownerID, id int64) error
	AddVendors(ctx context.Context, ownerID, itemID int64, vendorIDs []int64) error
	ReplaceStocks(ctx context.Context, ownerID, itemID int64, keepStockIDs []int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Item, int, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = $1`
	args := []interface{}{ownerID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		query += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM items WHERE owner_id = $1`
	countArgs := []interface{}{ownerID}
	if filters.Search != "" {
		countQuery += ` AND name ILIKE $2`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + mdshared.SortOrder(filters.SortBy, filters.SortDir, itemSortColumns, "name")

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

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Name, &it.SellingPricePerUnit, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// Get returns the item populated with its vendor and stock sets.
func (r *repository) Get(ctx context.Context, ownerID, id int64) (Detail, error) {
	var d Detail
	err := r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 AND owner_id = $2`, id, ownerID).
		Scan(&d.ID, &d.OwnerID, &d.Name, &d.SellingPricePerUnit, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Detail{}, shared.ErrNotFound
	}
	if err != nil {
		return Detail{}, err
	}

	d.Vendors = []VendorRef{}
	rows, err := r.db.Query(ctx, `SELECT v.id, v.name FROM item_vendors iv
		JOIN vendors v ON v.id = iv.vendor_id
		WHERE iv.item_id = $1 AND iv.owner_id = $2
		ORDER BY v.name ASC`, id, ownerID)
	if err != nil {
		return Detail{}, err
	}
	for rows.Next() {
		var v VendorRef
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			rows.Close()
			return Detail{}, err
		}
		d.Vendors = append(d.Vendors, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Detail{}, err
	}

	d.Stocks = []StockRef{}
	rows, err = r.db.Query(ctx, `SELECT s.id, s.rack_number, s.units FROM item_stocks ist
		JOIN stocks s ON s.id = ist.stock_id
		WHERE ist.item_id = $1 AND ist.owner_id = $2
		ORDER BY s.rack_number ASC`, id, ownerID)
	if err != nil {
		return Detail{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var s StockRef
		if err := rows.Scan(&s.ID, &s.RackNumber, &s.Units); err != nil {
			return Detail{}, err
		}
		d.Stocks = append(d.Stocks, s)
	}
	return d, rows.Err()
}

func (r *repository) Create(ctx context.Context, item Item) (Item, error) {
	query := `INSERT INTO items (owner_id, name, selling_price_per_unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query, item.OwnerID, item.Name, item.SellingPricePerUnit, now).Scan(&item.ID)
	if err != nil {
		return Item{}, err
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, item Item) error {
	query := `UPDATE items SET name = $1, selling_price_per_unit = $2, updated_at = $3 WHERE id = $4 AND owner_id = $5`
	tag, err := r.db.Exec(ctx, query, item.Name, item.SellingPricePerUnit, time.Now().UTC(), id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the item, its vendor links and its stock rows. Ledger
// records referencing the item are left untouched.
func (r *repository) Delete(ctx context.Context, ownerID, id int64) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM item_vendors WHERE item_id = $1 AND owner_id = $2`, id, ownerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM stocks WHERE item_id = $1 AND owner_id = $2`, id, ownerID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1 AND owner_id = $2`, id, ownerID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// AddVendors links vendors to an item with set semantics. Vendors already
// linked are skipped, vendors of another owner are rejected.
func (r *repository) AddVendors(ctx context.Context, ownerID, itemID int64, vendorIDs []int64) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1 AND owner_id = $2)`, itemID, ownerID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		for _, vendorID := range vendorIDs {
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vendors WHERE id = $1 AND owner_id = $2)`, vendorID, ownerID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return shared.ErrNotFound
			}
			if _, err := tx.Exec(ctx, `INSERT INTO item_vendors (owner_id, item_id, vendor_id) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, ownerID, itemID, vendorID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceStocks prunes the item's stock rows not present in keepStockIDs.
// item_stocks links disappear via the stock foreign key cascade.
func (r *repository) ReplaceStocks(ctx context.Context, ownerID, itemID int64, keepStockIDs []int64) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1 AND owner_id = $2)`, itemID, ownerID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
		_, err := tx.Exec(ctx, `DELETE FROM stocks WHERE item_id = $1 AND owner_id = $2 AND NOT (id = ANY($3))`, itemID, ownerID, keepStockIDs)
		return err
	})
}
