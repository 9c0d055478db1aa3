package cashbook

import (
	"context"
	"time"

	"github.com/fueltrade/backend/internal/domain/cashbook"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountHeadService manages the client/supplier/other account heads that
// cashbook entries are booked against
type AccountHeadService struct {
	headRepo  cashbook.AccountHeadRepository
	entryRepo cashbook.CashbookEntryRepository
}

// NewAccountHeadService creates a new AccountHeadService
func NewAccountHeadService(
	headRepo cashbook.AccountHeadRepository,
	entryRepo cashbook.CashbookEntryRepository,
) *AccountHeadService {
	return &AccountHeadService{
		headRepo:  headRepo,
		entryRepo: entryRepo,
	}
}

// AccountHeadResponse represents an account head in API responses
type AccountHeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAccountHeadRequest represents a request to create an account head
type CreateAccountHeadRequest struct {
	Name  string `json:"name" binding:"required"`
	Kind  string `json:"kind" binding:"required"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// UpdateAccountHeadRequest represents a request to update an account head
type UpdateAccountHeadRequest struct {
	Name  string `json:"name" binding:"required"`
	Kind  string `json:"kind" binding:"required"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// CreateAccountHead creates a new account head
func (s *AccountHeadService) CreateAccountHead(ctx context.Context, req CreateAccountHeadRequest) (*AccountHeadResponse, error) {
	head, err := cashbook.NewAccountHead(req.Name, cashbook.AccountHeadKind(req.Kind), req.Phone, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.headRepo.Save(ctx, head); err != nil {
		return nil, err
	}
	return toAccountHeadResponse(head), nil
}

// GetAccountHeadByID gets an account head by ID
func (s *AccountHeadService) GetAccountHeadByID(ctx context.Context, id uuid.UUID) (*AccountHeadResponse, error) {
	head, err := s.headRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Account head not found")
	}
	return toAccountHeadResponse(head), nil
}

// ListAccountHeads lists account heads, optionally filtered by kind
func (s *AccountHeadService) ListAccountHeads(ctx context.Context, kind string, filter shared.Filter) ([]AccountHeadResponse, int64, error) {
	var (
		heads []cashbook.AccountHead
		err   error
	)
	if kind != "" {
		heads, err = s.headRepo.FindByKind(ctx, cashbook.AccountHeadKind(kind), filter)
	} else {
		heads, err = s.headRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, 0, err
	}
	total, err := s.headRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AccountHeadResponse, len(heads))
	for i := range heads {
		responses[i] = *toAccountHeadResponse(&heads[i])
	}
	return responses, total, nil
}

// UpdateAccountHead updates an account head's details
func (s *AccountHeadService) UpdateAccountHead(ctx context.Context, id uuid.UUID, req UpdateAccountHeadRequest) (*AccountHeadResponse, error) {
	head, err := s.headRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Account head not found")
	}

	if err := head.Update(req.Name, cashbook.AccountHeadKind(req.Kind), req.Phone, req.Notes); err != nil {
		return nil, err
	}

	if err := s.headRepo.Save(ctx, head); err != nil {
		return nil, err
	}
	return toAccountHeadResponse(head), nil
}

// DeleteAccountHead removes an account head with no entries booked against it
func (s *AccountHeadService) DeleteAccountHead(ctx context.Context, id uuid.UUID) error {
	head, err := s.headRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if head == nil {
		return shared.NewDomainError("NOT_FOUND", "Account head not found")
	}

	entries, err := s.entryRepo.Count(ctx, cashbook.EntryFilter{AccountHeadID: &id})
	if err != nil {
		return err
	}
	if entries > 0 {
		return shared.NewDomainError("ACCOUNT_HEAD_IN_USE",
			"Cannot delete an account head with cashbook entries booked against it")
	}
	return s.headRepo.Delete(ctx, id)
}

func toAccountHeadResponse(head *cashbook.AccountHead) *AccountHeadResponse {
	return &AccountHeadResponse{
		ID:        head.ID,
		Name:      head.Name,
		Kind:      string(head.Kind),
		Phone:     head.Phone,
		Notes:     head.Notes,
		CreatedAt: head.CreatedAt,
		UpdatedAt: head.UpdatedAt,
	}
}
