package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/aaditya574/ledgelogger/internal/shared"
)

type memoryRepo struct {
	mu          sync.Mutex
	nextID      int64
	stocks      map[int64]*Stock
	byPosition  map[string]int64
	itemVendors map[string]bool
	itemStocks  map[string]bool
	buyings     []BuyingRecord
	sellings    []SellingRecord
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		stocks:      make(map[int64]*Stock),
		byPosition:  make(map[string]int64),
		itemVendors: make(map[string]bool),
		itemStocks:  make(map[string]bool),
	}
}

func positionKey(ownerID, itemID, rackNumber int64) string {
	return fmt.Sprintf("%d:%d:%d", ownerID, itemID, rackNumber)
}

func pairKey(a, b int64) string {
	return fmt.Sprintf("%d:%d", a, b)
}

// WithTx serializes transactions with a mutex, mirroring the per-row
// serialization the conditional SQL statements provide.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx, &memoryTx{repo: r})
}

func (r *memoryRepo) ListStocks(ctx context.Context, ownerID int64, sortBy string) ([]StockListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var listings []StockListing
	for _, s := range r.stocks {
		if s.OwnerID != ownerID {
			continue
		}
		listings = append(listings, StockListing{ID: s.ID, RackNumber: s.RackNumber, ItemID: s.ItemID, Units: s.Units})
	}
	return listings, nil
}

func (tx *memoryTx) LinkVendor(ctx context.Context, ownerID, itemID, vendorID int64) error {
	tx.repo.itemVendors[pairKey(itemID, vendorID)] = true
	return nil
}

func (tx *memoryTx) AddStock(ctx context.Context, ownerID, itemID, rackNumber, units int64) (Stock, error) {
	key := positionKey(ownerID, itemID, rackNumber)
	if id, ok := tx.repo.byPosition[key]; ok {
		stock := tx.repo.stocks[id]
		stock.Units += units
		return *stock, nil
	}
	tx.repo.nextID++
	stock := &Stock{ID: tx.repo.nextID, OwnerID: ownerID, ItemID: itemID, RackNumber: rackNumber, Units: units}
	tx.repo.stocks[stock.ID] = stock
	tx.repo.byPosition[key] = stock.ID
	return *stock, nil
}

func (tx *memoryTx) LinkStock(ctx context.Context, ownerID, itemID, stockID int64) error {
	tx.repo.itemStocks[pairKey(itemID, stockID)] = true
	return nil
}

func (tx *memoryTx) InsertBuyingRecord(ctx context.Context, rec BuyingRecord) (int64, error) {
	tx.repo.buyings = append(tx.repo.buyings, rec)
	return int64(len(tx.repo.buyings)), nil
}

func (tx *memoryTx) DecrementStock(ctx context.Context, ownerID, itemID, stockID, units int64) (int64, error) {
	stock, ok := tx.repo.stocks[stockID]
	if !ok || stock.OwnerID != ownerID || stock.ItemID != itemID {
		return 0, ErrStockNotFound
	}
	if stock.Units < units {
		return 0, ErrInsufficientStock
	}
	stock.Units -= units
	return stock.Units, nil
}

func (tx *memoryTx) DeleteStock(ctx context.Context, ownerID, stockID int64) error {
	stock, ok := tx.repo.stocks[stockID]
	if !ok || stock.OwnerID != ownerID {
		return nil
	}
	delete(tx.repo.itemStocks, pairKey(stock.ItemID, stockID))
	delete(tx.repo.byPosition, positionKey(stock.OwnerID, stock.ItemID, stock.RackNumber))
	delete(tx.repo.stocks, stockID)
	return nil
}

func (tx *memoryTx) InsertSellingRecord(ctx context.Context, rec SellingRecord) (int64, error) {
	tx.repo.sellings = append(tx.repo.sellings, rec)
	return int64(len(tx.repo.sellings)), nil
}

type memoryDirectory struct {
	vendors map[string]bool
	items   map[string]bool
	buyers  map[string]bool
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{vendors: make(map[string]bool), items: make(map[string]bool), buyers: make(map[string]bool)}
}

func (d *memoryDirectory) FindVendor(ctx context.Context, ownerID, vendorID int64) error {
	if !d.vendors[pairKey(ownerID, vendorID)] {
		return shared.ErrNotFound
	}
	return nil
}

func (d *memoryDirectory) FindItem(ctx context.Context, ownerID, itemID int64) error {
	if !d.items[pairKey(ownerID, itemID)] {
		return shared.ErrNotFound
	}
	return nil
}

func (d *memoryDirectory) FindBuyer(ctx context.Context, ownerID, buyerID int64) error {
	if !d.buyers[pairKey(ownerID, buyerID)] {
		return shared.ErrNotFound
	}
	return nil
}

func newTestService() (*Service, *memoryRepo, *memoryDirectory) {
	repo := newMemoryRepo()
	dir := newMemoryDirectory()
	dir.vendors[pairKey(1, 10)] = true
	dir.items[pairKey(1, 20)] = true
	dir.buyers[pairKey(1, 30)] = true
	return NewService(repo, dir, nil, nil, nil), repo, dir
}

func TestRecordPurchaseCreatesAndIncrements(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	stock, err := svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 3, Units: 10, BuyingPrice: 50})
	require.NoError(t, err)
	require.EqualValues(t, 3, stock.RackNumber)
	require.EqualValues(t, 10, stock.Units)

	stock, err = svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 3, Units: 5, BuyingPrice: 25})
	require.NoError(t, err)
	require.EqualValues(t, 15, stock.Units)

	require.Len(t, repo.buyings, 2)
	require.True(t, repo.itemStocks[pairKey(20, stock.ID)])
}

func TestRecordPurchaseVendorSetIdempotent(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 1, Units: 1, BuyingPrice: 1})
		require.NoError(t, err)
	}
	require.Len(t, repo.itemVendors, 1)
}

func TestRecordPurchaseValidation(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 1, Units: 0, BuyingPrice: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 1, Units: 1, BuyingPrice: -1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 99, ItemID: 20, RackNumber: 1, Units: 1, BuyingPrice: 1})
	require.ErrorIs(t, err, ErrVendorNotFound)

	_, err = svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 99, RackNumber: 1, Units: 1, BuyingPrice: 1})
	require.ErrorIs(t, err, ErrItemNotFound)

	// Precondition failures must leave no side effects.
	require.Empty(t, repo.buyings)
	require.Empty(t, repo.stocks)
}

func TestRecordSaleInsufficientStockUnchanged(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	stock, err := svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 3, Units: 10, BuyingPrice: 50})
	require.NoError(t, err)

	err = svc.RecordSale(ctx, SaleInput{OwnerID: 1, BuyerID: 30, ItemID: 20, StockID: stock.ID, Units: 15, SellingPrice: 80})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.EqualValues(t, 10, repo.stocks[stock.ID].Units)
	require.Empty(t, repo.sellings)
}

func TestRecordSaleExactlyExhaustsRow(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 3, Units: 10, BuyingPrice: 50})
	require.NoError(t, err)
	stock, err := svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 3, Units: 5, BuyingPrice: 25})
	require.NoError(t, err)
	require.EqualValues(t, 15, stock.Units)

	err = svc.RecordSale(ctx, SaleInput{OwnerID: 1, BuyerID: 30, ItemID: 20, StockID: stock.ID, Units: 15, SellingPrice: 120})
	require.NoError(t, err)

	_, exists := repo.stocks[stock.ID]
	require.False(t, exists, "depleted stock row must be deleted")
	require.False(t, repo.itemStocks[pairKey(20, stock.ID)], "item must not reference a deleted stock row")
	require.Len(t, repo.sellings, 1)
}

func TestRecordSalePartialLeavesRow(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	stock, err := svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 3, Units: 10, BuyingPrice: 50})
	require.NoError(t, err)

	err = svc.RecordSale(ctx, SaleInput{OwnerID: 1, BuyerID: 30, ItemID: 20, StockID: stock.ID, Units: 4, SellingPrice: 40})
	require.NoError(t, err)
	require.EqualValues(t, 6, repo.stocks[stock.ID].Units)
	require.True(t, repo.itemStocks[pairKey(20, stock.ID)])
}

func TestRecordSaleStockNotFound(t *testing.T) {
	svc, _, dir := newTestService()
	ctx := context.Background()

	// Item and buyer resolve, but the stock row does not exist.
	err := svc.RecordSale(ctx, SaleInput{OwnerID: 1, BuyerID: 30, ItemID: 20, StockID: 404, Units: 1, SellingPrice: 1})
	require.ErrorIs(t, err, ErrStockNotFound)

	// A stock row under another item is equally missing.
	dir.items[pairKey(1, 21)] = true
	svc2, repo2, _ := newTestService()
	stock, err := svc2.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 1, Units: 5, BuyingPrice: 5})
	require.NoError(t, err)
	repo2.stocks[stock.ID].ItemID = 20
	err = svc2.RecordSale(ctx, SaleInput{OwnerID: 2, BuyerID: 30, ItemID: 20, StockID: stock.ID, Units: 1, SellingPrice: 1})
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestConcurrentPurchasesNoLostUpdates(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.RecordPurchase(ctx, PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 7, Units: 1, BuyingPrice: 2})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	id := repo.byPosition[positionKey(1, 20, 7)]
	require.EqualValues(t, workers, repo.stocks[id].Units)
	require.Len(t, repo.buyings, workers)
	require.Len(t, repo.itemVendors, 1)
}

func TestListStocksSortValidation(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.ListStocks(context.Background(), 1, "price")
	require.ErrorIs(t, err, shared.ErrValidation)
}

type conflictRepo struct{}

func (conflictRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return &pgconn.PgError{Code: "40001", Message: "serialization failure"}
}

func (conflictRepo) ListStocks(ctx context.Context, ownerID int64, sortBy string) ([]StockListing, error) {
	return nil, nil
}

func TestRetriesExhaustedSurfacesConflict(t *testing.T) {
	dir := newMemoryDirectory()
	dir.vendors[pairKey(1, 10)] = true
	dir.items[pairKey(1, 20)] = true
	svc := NewService(conflictRepo{}, dir, nil, nil, nil)

	_, err := svc.RecordPurchase(context.Background(), PurchaseInput{OwnerID: 1, VendorID: 10, ItemID: 20, RackNumber: 1, Units: 1, BuyingPrice: 1})
	require.ErrorIs(t, err, shared.ErrConflict)
}
