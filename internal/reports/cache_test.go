package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaditya574/ledgelogger/internal/ledger"
)

type memoryRecords struct {
	buyings  []ledger.BuyingRecord
	sellings []ledger.SellingRecord
}

func (m *memoryRecords) BuyingsInRange(ctx context.Context, ownerID int64, from, to time.Time) ([]ledger.BuyingRecord, error) {
	var out []ledger.BuyingRecord
	for _, b := range m.buyings {
		if !b.TransactionDate.Before(from) && b.TransactionDate.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryRecords) SellingsInRange(ctx context.Context, ownerID int64, from, to time.Time) ([]ledger.SellingRecord, error) {
	var out []ledger.SellingRecord
	for _, s := range m.sellings {
		if !s.TransactionDate.Before(from) && s.TransactionDate.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func newCachedService(t *testing.T) (*Service, *memoryRecords, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Hour)
	repo := &memoryRecords{}
	return NewService(repo, cache), repo, cache
}

func TestCacheBumpInvalidatesDailyRollup(t *testing.T) {
	svc, repo, cache := newCachedService(t)
	ctx := context.Background()
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	repo.buyings = append(repo.buyings, buyingAt(day.Add(9*time.Hour), 50))

	report, err := svc.Daily(ctx, 1, day)
	require.NoError(t, err)
	require.Equal(t, 50.0, report.TotalBuyingAmount)

	// A write the cache has not been told about is invisible.
	repo.buyings = append(repo.buyings, buyingAt(day.Add(11*time.Hour), 25))
	report, err = svc.Daily(ctx, 1, day)
	require.NoError(t, err)
	assert.Equal(t, 50.0, report.TotalBuyingAmount)

	require.NoError(t, cache.Bump(ctx))
	report, err = svc.Daily(ctx, 1, day)
	require.NoError(t, err)
	assert.Equal(t, 75.0, report.TotalBuyingAmount)
	assert.Len(t, report.Buyings, 2)
}

func TestCacheBuildKeyChangesAfterBump(t *testing.T) {
	_, _, cache := newCachedService(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "reports:daily", "1", "2025-06-10")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "reports:daily", "1", "2025-06-10")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestCacheNilClientPassesThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	var dest DailyReport
	err := cache.FetchJSON(ctx, "whatever", &dest, func(context.Context) (interface{}, error) {
		return BuildDaily(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), nil, nil), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", dest.StartDate)
	require.NoError(t, cache.Bump(ctx))
}
