package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaditya574/ledgelogger/internal/platform/db"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

// Stock listing sort keys.
const (
	SortByRack = "rack_number"
	SortByItem = "item_id"
)

// maxTxAttempts bounds retries of a transaction that failed on a
// serialization conflict. Exhaustion surfaces shared.ErrConflict.
const maxTxAttempts = 3

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListStocks(ctx context.Context, ownerID int64, sortBy string) ([]StockListing, error)
}

// EntityDirectory resolves owner-scoped master data. Implemented by the
// masterdata packages; the ledger only needs existence and ownership.
type EntityDirectory interface {
	FindVendor(ctx context.Context, ownerID, vendorID int64) error
	FindItem(ctx context.Context, ownerID, itemID int64) error
	FindBuyer(ctx context.Context, ownerID, buyerID int64) error
}

// ReportInvalidator invalidates cached report rollups after a ledger write.
type ReportInvalidator interface {
	Bump(ctx context.Context) error
}

// Service owns the stock-mutation invariants.
type Service struct {
	repo        RepositoryPort
	directory   EntityDirectory
	idempotency *shared.IdempotencyStore
	reports     ReportInvalidator
	logger      *slog.Logger
}

// NewService builds Service. idempotency and reports may be nil.
func NewService(repo RepositoryPort, directory EntityDirectory, idem *shared.IdempotencyStore, reports ReportInvalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, directory: directory, idempotency: idem, reports: reports, logger: logger}
}

// RecordPurchase buys units of an item from a vendor into a rack position.
// It associates the vendor with the item (once), creates or atomically
// increments the (owner, item, rack) stock row, links the row to the item,
// and appends an immutable buying record. All mutations happen in one
// transaction; precondition failures leave no side effects.
func (s *Service) RecordPurchase(ctx context.Context, input PurchaseInput) (Stock, error) {
	if input.Units <= 0 {
		return Stock{}, ErrInvalidUnits
	}
	if input.BuyingPrice < 0 {
		return Stock{}, ErrInvalidPrice
	}
	if input.RackNumber < 0 {
		return Stock{}, fmt.Errorf("%w: rack number must be >= 0", shared.ErrValidation)
	}
	if err := s.directory.FindVendor(ctx, input.OwnerID, input.VendorID); err != nil {
		return Stock{}, ErrVendorNotFound
	}
	if err := s.directory.FindItem(ctx, input.OwnerID, input.ItemID); err != nil {
		return Stock{}, ErrItemNotFound
	}

	insertedKey, err := s.claimIdempotencyKey(ctx, "purchase", input.IdempotencyKey)
	if err != nil {
		return Stock{}, err
	}

	now := time.Now().UTC()
	var stock Stock
	err = s.withRetry(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.LinkVendor(ctx, input.OwnerID, input.ItemID, input.VendorID); err != nil {
			return err
		}
		var err error
		stock, err = tx.AddStock(ctx, input.OwnerID, input.ItemID, input.RackNumber, input.Units)
		if err != nil {
			return err
		}
		if err := tx.LinkStock(ctx, input.OwnerID, input.ItemID, stock.ID); err != nil {
			return err
		}
		_, err = tx.InsertBuyingRecord(ctx, BuyingRecord{
			OwnerID:         input.OwnerID,
			VendorID:        input.VendorID,
			ItemID:          input.ItemID,
			Units:           input.Units,
			BuyingPrice:     input.BuyingPrice,
			TransactionDate: now,
		})
		return err
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, "purchase", input.IdempotencyKey, insertedKey)
		return Stock{}, err
	}
	s.bumpReports(ctx)
	return stock, nil
}

// RecordSale sells units out of an explicit stock row. The check and the
// decrement are a single conditional statement against the store; a sale that
// would drive the balance negative fails entirely. A row depleted to exactly
// zero is deleted together with its item reference, then the immutable
// selling record is appended, all in the same transaction.
func (s *Service) RecordSale(ctx context.Context, input SaleInput) error {
	if input.Units <= 0 {
		return ErrInvalidUnits
	}
	if input.SellingPrice < 0 {
		return ErrInvalidPrice
	}
	if err := s.directory.FindItem(ctx, input.OwnerID, input.ItemID); err != nil {
		return ErrItemNotFound
	}
	if err := s.directory.FindBuyer(ctx, input.OwnerID, input.BuyerID); err != nil {
		return ErrBuyerNotFound
	}

	insertedKey, err := s.claimIdempotencyKey(ctx, "sale", input.IdempotencyKey)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = s.withRetry(ctx, func(ctx context.Context, tx TxRepository) error {
		remaining, err := tx.DecrementStock(ctx, input.OwnerID, input.ItemID, input.StockID, input.Units)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.DeleteStock(ctx, input.OwnerID, input.StockID); err != nil {
				return err
			}
		}
		_, err = tx.InsertSellingRecord(ctx, SellingRecord{
			OwnerID:         input.OwnerID,
			BuyerID:         input.BuyerID,
			ItemID:          input.ItemID,
			Units:           input.Units,
			SellingPrice:    input.SellingPrice,
			TransactionDate: now,
		})
		return err
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, "sale", input.IdempotencyKey, insertedKey)
		return err
	}
	s.bumpReports(ctx)
	return nil
}

// ListStocks returns the owner's stock positions sorted by rack number
// (default) or item id.
func (s *Service) ListStocks(ctx context.Context, ownerID int64, sortBy string) ([]StockListing, error) {
	switch sortBy {
	case "":
		sortBy = SortByRack
	case SortByRack, SortByItem:
	default:
		return nil, ErrInvalidSort
	}
	return s.repo.ListStocks(ctx, ownerID, sortBy)
}

// withRetry re-runs the transaction on serialization failures. Preconditions
// are not re-validated; the conditional statements inside the transaction
// already detect rows that disappeared between attempts.
func (s *Service) withRetry(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.repo.WithTx(ctx, fn)
		if err == nil || !db.IsSerializationFailure(err) {
			return err
		}
		if s.logger != nil {
			s.logger.Warn("ledger tx serialization conflict", slog.Int("attempt", attempt), slog.Any("error", err))
		}
	}
	return fmt.Errorf("%w: %v", shared.ErrConflict, err)
}

func (s *Service) claimIdempotencyKey(ctx context.Context, op, key string) (bool, error) {
	if s.idempotency == nil || key == "" {
		return false, nil
	}
	if err := s.idempotency.CheckAndInsert(ctx, op+":"+key, "ledger"); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) releaseIdempotencyKey(ctx context.Context, op, key string, inserted bool) {
	if !inserted {
		return
	}
	if err := s.idempotency.Delete(ctx, op+":"+key); err != nil && s.logger != nil {
		s.logger.Warn("release idempotency key", slog.Any("error", err))
	}
}

func (s *Service) bumpReports(ctx context.Context) {
	if s.reports == nil {
		return
	}
	if err := s.reports.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("bump report cache", slog.Any("error", err))
	}
}
