package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists stock rows and ledger records in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the transactional operations used by the service.
// Every statement is scoped by owner_id; a row belonging to another owner is
// indistinguishable from a missing row.
type TxRepository interface {
	LinkVendor(ctx context.Context, ownerID, itemID, vendorID int64) error
	AddStock(ctx context.Context, ownerID, itemID, rackNumber, units int64) (Stock, error)
	LinkStock(ctx context.Context, ownerID, itemID, stockID int64) error
	InsertBuyingRecord(ctx context.Context, rec BuyingRecord) (int64, error)
	DecrementStock(ctx context.Context, ownerID, itemID, stockID, units int64) (int64, error)
	DeleteStock(ctx context.Context, ownerID, stockID int64) error
	InsertSellingRecord(ctx context.Context, rec SellingRecord) (int64, error)
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("ledger repository not initialised")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// ListStocks returns the owner's stock rows joined with item names, ordered
// by rack number or by item id.
func (r *Repository) ListStocks(ctx context.Context, ownerID int64, sortBy string) ([]StockListing, error) {
	if r == nil {
		return nil, errors.New("ledger repository not initialised")
	}
	order := "s.rack_number ASC, s.id ASC"
	if sortBy == SortByItem {
		order = "s.item_id ASC, s.id ASC"
	}
	query := `SELECT s.id, s.rack_number, s.item_id, i.name, s.units
		FROM stocks s
		JOIN items i ON i.id = s.item_id AND i.owner_id = s.owner_id
		WHERE s.owner_id = $1
		ORDER BY ` + order

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []StockListing
	for rows.Next() {
		var l StockListing
		if err := rows.Scan(&l.ID, &l.RackNumber, &l.ItemID, &l.ItemName, &l.Units); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// LinkVendor records the item-vendor association, once. Set semantics: a
// second purchase from the same vendor is a no-op.
func (r *txRepository) LinkVendor(ctx context.Context, ownerID, itemID, vendorID int64) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO item_vendors (owner_id, item_id, vendor_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id, vendor_id) DO NOTHING`,
		ownerID, itemID, vendorID)
	return err
}

// AddStock creates the stock row for (owner, item, rack) or atomically adds
// units to the existing one. The increment happens inside the upsert, never
// as a read followed by a write, so concurrent purchases cannot lose updates.
func (r *txRepository) AddStock(ctx context.Context, ownerID, itemID, rackNumber, units int64) (Stock, error) {
	stock := Stock{OwnerID: ownerID, ItemID: itemID, RackNumber: rackNumber}
	err := r.tx.QueryRow(ctx, `
		INSERT INTO stocks (owner_id, item_id, rack_number, units)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, item_id, rack_number)
		DO UPDATE SET units = stocks.units + EXCLUDED.units
		RETURNING id, units`,
		ownerID, itemID, rackNumber, units).Scan(&stock.ID, &stock.Units)
	if err != nil {
		return Stock{}, err
	}
	return stock, nil
}

// LinkStock records the item-stock reference, once.
func (r *txRepository) LinkStock(ctx context.Context, ownerID, itemID, stockID int64) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO item_stocks (owner_id, item_id, stock_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id, stock_id) DO NOTHING`,
		ownerID, itemID, stockID)
	return err
}

func (r *txRepository) InsertBuyingRecord(ctx context.Context, rec BuyingRecord) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO buying_records (owner_id, vendor_id, item_id, units, buying_price, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		rec.OwnerID, rec.VendorID, rec.ItemID, rec.Units, rec.BuyingPrice, rec.TransactionDate).Scan(&id)
	return id, err
}

// DecrementStock checks and decrements the stock row in one conditional
// UPDATE: the row must belong to (owner, item) and hold at least units.
// Returns the remaining units, ErrInsufficientStock when the balance is too
// low, or ErrStockNotFound when no such row exists for the owner.
func (r *txRepository) DecrementStock(ctx context.Context, ownerID, itemID, stockID, units int64) (int64, error) {
	var remaining int64
	err := r.tx.QueryRow(ctx, `
		UPDATE stocks
		SET units = units - $1
		WHERE id = $2 AND owner_id = $3 AND item_id = $4 AND units >= $1
		RETURNING units`,
		units, stockID, ownerID, itemID).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// Zero rows matched: distinguish a missing row from a short balance.
	var units0 int64
	probe := r.tx.QueryRow(ctx, `
		SELECT units FROM stocks
		WHERE id = $1 AND owner_id = $2 AND item_id = $3`,
		stockID, ownerID, itemID).Scan(&units0)
	if errors.Is(probe, pgx.ErrNoRows) {
		return 0, ErrStockNotFound
	}
	if probe != nil {
		return 0, probe
	}
	return 0, ErrInsufficientStock
}

// DeleteStock removes a depleted stock row. The item_stocks reference goes
// with it via ON DELETE CASCADE; the explicit delete keeps the invariant
// visible even against a schema without the cascade.
func (r *txRepository) DeleteStock(ctx context.Context, ownerID, stockID int64) error {
	if _, err := r.tx.Exec(ctx, `
		DELETE FROM item_stocks WHERE owner_id = $1 AND stock_id = $2`,
		ownerID, stockID); err != nil {
		return err
	}
	_, err := r.tx.Exec(ctx, `
		DELETE FROM stocks WHERE id = $1 AND owner_id = $2 AND units = 0`,
		stockID, ownerID)
	return err
}

func (r *txRepository) InsertSellingRecord(ctx context.Context, rec SellingRecord) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO selling_records (owner_id, buyer_id, item_id, units, selling_price, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		rec.OwnerID, rec.BuyerID, rec.ItemID, rec.Units, rec.SellingPrice, rec.TransactionDate).Scan(&id)
	return id, err
}
