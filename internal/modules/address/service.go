package address

import (
	"context"

	"github.com/google/uuid"
)

// Service defines address book operations.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Address, error)
	// Create validates req and saves it for userID.
	Create(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*Address, error)
	// GetForUser returns the address only if userID owns it.
	GetForUser(ctx context.Context, userID uuid.UUID, id string) (*Address, error)
	Get(ctx context.Context, id string) (*Address, error)
	// Update edits an address in place. Orders referencing it see the change.
	Update(ctx context.Context, id string, req CreateAddressRequest) (*Address, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Address, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*Address, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	req = req.normalize()
	a := &Address{
		ID:           uuid.New(),
		UserID:       userID,
		Label:        req.Label,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetForUser(ctx context.Context, userID uuid.UUID, id string) (*Address, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *service) Get(ctx context.Context, id string) (*Address, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, uid)
}

func (s *service) Update(ctx context.Context, id string, req CreateAddressRequest) (*Address, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req = req.normalize()
	a.Label = req.Label
	a.FullName = req.FullName
	a.Phone = req.Phone
	a.AddressLine1 = req.AddressLine1
	a.AddressLine2 = req.AddressLine2
	a.City = req.City
	a.State = req.State
	a.PostalCode = req.PostalCode
	a.Country = req.Country
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
