package items

import (
	"context"
	"fmt"
	"strings"

	mdshared "github.com/aaditya574/ledgelogger/internal/masterdata/shared"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Item, int, error) {
	return s.repo.List(ctx, ownerID, filters)
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (Detail, error) {
	if id <= 0 {
		return Detail{}, shared.ErrNotFound
	}
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) Create(ctx context.Context, item Item) (Item, error) {
	if err := s.validate(item); err != nil {
		return Item{}, err
	}
	return s.repo.Create(ctx, item)
}

// Update changes the item fields and, when keepStockIDs is non-nil, prunes
// the stock rows that are absent from it.
func (s *Service) Update(ctx context.Context, ownerID, id int64, item Item, keepStockIDs []int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if err := s.validate(item); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, ownerID, id, item); err != nil {
		return err
	}
	if keepStockIDs != nil {
		return s.repo.ReplaceStocks(ctx, ownerID, id, keepStockIDs)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *Service) AddVendors(ctx context.Context, ownerID, itemID int64, vendorIDs []int64) error {
	if itemID <= 0 {
		return shared.ErrNotFound
	}
	if len(vendorIDs) == 0 {
		return fmt.Errorf("%w: at least one vendor id is required", shared.ErrValidation)
	}
	for _, vendorID := range vendorIDs {
		if vendorID <= 0 {
			return fmt.Errorf("%w: vendor ids must be positive", shared.ErrValidation)
		}
	}
	return s.repo.AddVendors(ctx, ownerID, itemID, vendorIDs)
}

func (s *Service) validate(it Item) error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: item name is required", shared.ErrValidation)
	}
	if it.SellingPricePerUnit < 0 {
		return fmt.Errorf("%w: selling price must not be negative", shared.ErrValidation)
	}
	return nil
}
