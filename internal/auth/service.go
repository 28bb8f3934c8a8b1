package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aaditya574/ledgelogger/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Signup registers a new owner account with a bcrypt password hash.
func (s *Service) Signup(ctx context.Context, input SignupInput) (Owner, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Owner{}, err
	}
	owner := Owner{
		Name:         input.Name,
		EmailID:      strings.ToLower(strings.TrimSpace(input.EmailID)),
		PhoneNumber:  input.PhoneNumber,
		Street:       input.Street,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		PasswordHash: string(hash),
	}
	return s.repo.CreateOwner(ctx, owner)
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Owner, error) {
	owner, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return owner, nil
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, ownerID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, ownerID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
