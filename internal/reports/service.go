package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aaditya574/ledgelogger/internal/ledger"
)

// RepositoryPort abstracts the ledger record queries used by the service.
type RepositoryPort interface {
	BuyingsInRange(ctx context.Context, ownerID int64, from, to time.Time) ([]ledger.BuyingRecord, error)
	SellingsInRange(ctx context.Context, ownerID int64, from, to time.Time) ([]ledger.SellingRecord, error)
}

// Service produces profit/loss rollups over the immutable ledger. All
// operations are pure reads; they run in parallel with each other and with
// ledger writes.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	group singleflight.Group
	now   func() time.Time
}

// NewService builds Service. cache may be nil.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// Daily reports one day's ledger entries and totals. A zero day means today.
func (s *Service) Daily(ctx context.Context, ownerID int64, day time.Time) (DailyReport, error) {
	if day.IsZero() {
		day = s.now()
	}
	start := startOfDay(day)
	end := start.Add(24 * time.Hour)

	var report DailyReport
	err := s.cached(ctx, fmt.Sprintf("reports:daily:%d:%s", ownerID, start.Format(DateFormat)), &report, func(ctx context.Context) (interface{}, error) {
		buyings, sellings, err := s.fetch(ctx, ownerID, start, end)
		if err != nil {
			return nil, err
		}
		return BuildDaily(start, buyings, sellings), nil
	})
	return report, err
}

// Monthly reports per-day totals for one calendar month, one entry per day
// including inactive ones. Zero year/month mean the current month.
func (s *Service) Monthly(ctx context.Context, ownerID int64, year int, month time.Month) ([]DayRollup, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	if month == 0 {
		month = s.now().UTC().Month()
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("reports: month out of range: %d", month)
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var rollups []DayRollup
	err := s.cached(ctx, fmt.Sprintf("reports:monthly:%d:%d-%02d", ownerID, year, month), &rollups, func(ctx context.Context) (interface{}, error) {
		buyings, sellings, err := s.fetch(ctx, ownerID, start, end)
		if err != nil {
			return nil, err
		}
		return BuildMonthly(year, month, buyings, sellings), nil
	})
	return rollups, err
}

// Yearly reports per-month totals for one calendar year, twelve entries.
// A zero year means the current year.
func (s *Service) Yearly(ctx context.Context, ownerID int64, year int) ([]MonthRollup, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var rollups []MonthRollup
	err := s.cached(ctx, fmt.Sprintf("reports:yearly:%d:%d", ownerID, year), &rollups, func(ctx context.Context) (interface{}, error) {
		buyings, sellings, err := s.fetch(ctx, ownerID, start, end)
		if err != nil {
			return nil, err
		}
		return BuildYearly(year, buyings, sellings), nil
	})
	return rollups, err
}

// Warm precomputes and caches the daily report for the given day.
func (s *Service) Warm(ctx context.Context, ownerID int64, day time.Time) error {
	_, err := s.Daily(ctx, ownerID, day)
	return err
}

func (s *Service) fetch(ctx context.Context, ownerID int64, from, to time.Time) ([]ledger.BuyingRecord, []ledger.SellingRecord, error) {
	buyings, err := s.repo.BuyingsInRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("reports: fetch buyings: %w", err)
	}
	sellings, err := s.repo.SellingsInRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("reports: fetch sellings: %w", err)
	}
	return buyings, sellings, nil
}

// cached runs the loader behind the versioned cache and collapses concurrent
// identical loads through singleflight. The flight returns raw JSON so every
// sharing caller can decode into its own destination.
func (s *Service) cached(ctx context.Context, baseKey string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, baseKey)
	if err != nil {
		return err
	}
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		var raw json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &raw, loader); err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.(json.RawMessage), dest)
}
