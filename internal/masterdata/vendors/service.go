package vendors

import (
	"context"

	mdshared "github.com/aaditya574/ledgelogger/internal/masterdata/shared"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Vendor, int, error) {
	return s.repo.List(ctx, ownerID, filters)
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (Vendor, error) {
	if id <= 0 {
		return Vendor{}, shared.ErrNotFound
	}
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) Create(ctx context.Context, vendor Vendor) (Vendor, error) {
	if err := s.validate(vendor); err != nil {
		return Vendor{}, err
	}
	return s.repo.Create(ctx, vendor)
}

func (s *Service) Update(ctx context.Context, ownerID, id int64, vendor Vendor) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if err := s.validate(vendor); err != nil {
		return err
	}
	return s.repo.Update(ctx, ownerID, id, vendor)
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	return s.repo.Delete(ctx, ownerID, id)
}
