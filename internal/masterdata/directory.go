// Package masterdata groups the owner-scoped vendor, buyer and item
// packages and exposes the entity directory the transaction layer needs.
package masterdata

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aaditya574/ledgelogger/internal/ledger"
)

// Directory resolves entity existence with owner scoping. It satisfies
// ledger.EntityDirectory.
type Directory struct {
	db *pgxpool.Pool
}

func NewDirectory(db *pgxpool.Pool) *Directory {
	return &Directory{db: db}
}

var _ ledger.EntityDirectory = (*Directory)(nil)

func (d *Directory) FindVendor(ctx context.Context, ownerID, vendorID int64) error {
	return d.exists(ctx, `SELECT EXISTS (SELECT 1 FROM vendors WHERE id = $1 AND owner_id = $2)`, vendorID, ownerID, ledger.ErrVendorNotFound)
}

func (d *Directory) FindItem(ctx context.Context, ownerID, itemID int64) error {
	return d.exists(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1 AND owner_id = $2)`, itemID, ownerID, ledger.ErrItemNotFound)
}

func (d *Directory) FindBuyer(ctx context.Context, ownerID, buyerID int64) error {
	return d.exists(ctx, `SELECT EXISTS (SELECT 1 FROM buyers WHERE id = $1 AND owner_id = $2)`, buyerID, ownerID, ledger.ErrBuyerNotFound)
}

func (d *Directory) exists(ctx context.Context, query string, id, ownerID int64, missing error) error {
	var found bool
	if err := d.db.QueryRow(ctx, query, id, ownerID).Scan(&found); err != nil {
		return err
	}
	if !found {
		return missing
	}
	return nil
}
