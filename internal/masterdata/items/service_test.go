package items

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdshared "github.com/aaditya574/ledgelogger/internal/masterdata/shared"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

type fakeRepo struct {
	items         map[int64]Item
	replacedWith  []int64
	replaceCalled bool
	addedVendors  []int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[int64]Item{}}
}

func (f *fakeRepo) List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Item, int, error) {
	var out []Item
	for _, it := range f.items {
		if it.OwnerID == ownerID {
			out = append(out, it)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(ctx context.Context, ownerID, id int64) (Detail, error) {
	it, ok := f.items[id]
	if !ok || it.OwnerID != ownerID {
		return Detail{}, shared.ErrNotFound
	}
	return Detail{Item: it, Vendors: []VendorRef{}, Stocks: []StockRef{}}, nil
}

func (f *fakeRepo) Create(ctx context.Context, item Item) (Item, error) {
	item.ID = int64(len(f.items) + 1)
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeRepo) Update(ctx context.Context, ownerID, id int64, item Item) error {
	existing, ok := f.items[id]
	if !ok || existing.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	item.ID = id
	item.OwnerID = ownerID
	f.items[id] = item
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, ownerID, id int64) error {
	existing, ok := f.items[id]
	if !ok || existing.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) AddVendors(ctx context.Context, ownerID, itemID int64, vendorIDs []int64) error {
	f.addedVendors = append(f.addedVendors, vendorIDs...)
	return nil
}

func (f *fakeRepo) ReplaceStocks(ctx context.Context, ownerID, itemID int64, keepStockIDs []int64) error {
	f.replaceCalled = true
	f.replacedWith = keepStockIDs
	return nil
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Item{OwnerID: 1, Name: "   "})

	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Item{OwnerID: 1, Name: "soap", SellingPricePerUnit: -1})

	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdatePrunesStocksOnlyWhenSetGiven(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), Item{OwnerID: 1, Name: "soap", SellingPricePerUnit: 25})
	require.NoError(t, err)

	require.NoError(t, svc.Update(context.Background(), 1, created.ID, Item{Name: "soap bar", SellingPricePerUnit: 30}, nil))
	assert.False(t, repo.replaceCalled)

	require.NoError(t, svc.Update(context.Background(), 1, created.ID, Item{Name: "soap bar", SellingPricePerUnit: 30}, []int64{4, 7}))
	assert.True(t, repo.replaceCalled)
	assert.Equal(t, []int64{4, 7}, repo.replacedWith)
}

func TestUpdateWrongOwnerIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), Item{OwnerID: 1, Name: "soap"})
	require.NoError(t, err)

	err = svc.Update(context.Background(), 2, created.ID, Item{Name: "soap"}, nil)

	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAddVendorsValidatesInput(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	require.ErrorIs(t, svc.AddVendors(context.Background(), 1, 5, nil), shared.ErrValidation)
	require.ErrorIs(t, svc.AddVendors(context.Background(), 1, 5, []int64{0}), shared.ErrValidation)
	require.NoError(t, svc.AddVendors(context.Background(), 1, 5, []int64{3, 3}))
	assert.Equal(t, []int64{3, 3}, repo.addedVendors)
}
