package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaditya574/ledgelogger/internal/ledger"
)

// Repository reads ledger records for reporting. It never writes; the ledger
// is immutable at rest and the sole input to every rollup.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BuyingsInRange fetches the owner's buying records with transaction_date in
// the half-open range [from, to).
func (r *Repository) BuyingsInRange(ctx context.Context, ownerID int64, from, to time.Time) ([]ledger.BuyingRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, vendor_id, item_id, units, buying_price, transaction_date
		FROM buying_records
		WHERE owner_id = $1 AND transaction_date >= $2 AND transaction_date < $3
		ORDER BY transaction_date ASC, id ASC`,
		ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ledger.BuyingRecord
	for rows.Next() {
		var rec ledger.BuyingRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.VendorID, &rec.ItemID, &rec.Units, &rec.BuyingPrice, &rec.TransactionDate); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SellingsInRange fetches the owner's selling records in [from, to).
func (r *Repository) SellingsInRange(ctx context.Context, ownerID int64, from, to time.Time) ([]ledger.SellingRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, buyer_id, item_id, units, selling_price, transaction_date
		FROM selling_records
		WHERE owner_id = $1 AND transaction_date >= $2 AND transaction_date < $3
		ORDER BY transaction_date ASC, id ASC`,
		ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ledger.SellingRecord
	for rows.Next() {
		var rec ledger.SellingRecord
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.BuyerID, &rec.ItemID, &rec.Units, &rec.SellingPrice, &rec.TransactionDate); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// OwnerIDs lists every registered owner, used by the warmup job.
func (r *Repository) OwnerIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM owners ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
