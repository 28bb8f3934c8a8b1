package buyers

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

func (s *Service) List(ctx context.Context, ownerID int64, filters mdshared.ListFilters) ([]Buyer, int, error) {
	return s.repo.List(ctx, ownerID, filters)
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (Buyer, error) {
	if id <= 0 {
		return Buyer{}, shared.ErrNotFound
	}
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) Create(ctx context.Context, buyer Buyer) (Buyer, error) {
	if err := s.validate(buyer); err != nil {
		return Buyer{}, err
	}
	return s.repo.Create(ctx, buyer)
}

func (s *Service) Update(ctx context.Context, ownerID, id int64, buyer Buyer) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if err := s.validate(buyer); err != nil {
		return err
	}
	return s.repo.Update(ctx, ownerID, id, buyer)
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *Service) validate(b Buyer) error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: buyer name is required", shared.ErrValidation)
	}
	if b.EmailID != "" && !strings.Contains(b.EmailID, "@") {
		return fmt.Errorf("%w: buyer email is malformed", shared.ErrValidation)
	}
	return nil
}
