package cashbook

import (
	"context"
	"time"

	"github.com/fueltrade/backend/internal/domain/allocation"
	"github.com/fueltrade/backend/internal/domain/cashbook"
	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryService provides application-level cashbook entry operations
type EntryService struct {
	entryRepo   cashbook.CashbookEntryRepository
	headRepo    cashbook.AccountHeadRepository
	paymentRepo allocation.PaymentAllocationRepository
	advanceRepo allocation.SupplierAdvanceAllocationRepository
	invoiceRepo sales.InvoiceRepository
	saleRepo    sales.SaleRepository
	engine      *allocation.Engine
	txManager   shared.TransactionManager
}

// NewEntryService creates a new EntryService
func NewEntryService(
	entryRepo cashbook.CashbookEntryRepository,
	headRepo cashbook.AccountHeadRepository,
	paymentRepo allocation.PaymentAllocationRepository,
	advanceRepo allocation.SupplierAdvanceAllocationRepository,
	invoiceRepo sales.InvoiceRepository,
	saleRepo sales.SaleRepository,
	engine *allocation.Engine,
	txManager shared.TransactionManager,
) *EntryService {
	return &EntryService{
		entryRepo:   entryRepo,
		headRepo:    headRepo,
		paymentRepo: paymentRepo,
		advanceRepo: advanceRepo,
		invoiceRepo: invoiceRepo,
		saleRepo:    saleRepo,
		engine:      engine,
		txManager:   txManager,
	}
}

// EntryResponse represents a cashbook entry in API responses
type EntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	TransactionDate time.Time       `json:"transaction_date"`
	Kind            string          `json:"kind"`
	Direction       string          `json:"direction"`
	Amount          decimal.Decimal `json:"amount"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	AccountHeadID   uuid.UUID       `json:"account_head_id"`
	AccountHeadName string          `json:"account_head_name"`
	Counterparty    string          `json:"counterparty,omitempty"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     *uuid.UUID      `json:"reference_id,omitempty"`
	Pending         bool            `json:"pending"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CreateEntryRequest represents a request to record a cashbook entry
type CreateEntryRequest struct {
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	Kind            string          `json:"kind" binding:"required"`
	Direction       string          `json:"direction"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	AccountHeadID   uuid.UUID       `json:"account_head_id" binding:"required"`
	Counterparty    string          `json:"counterparty"`
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     *uuid.UUID      `json:"reference_id"`
	Pending         bool            `json:"pending"`
	Notes           string          `json:"notes"`
}

// UpdateEntryRequest represents a request to correct a cashbook entry. The
// kind, direction and account head are fixed at creation; a misbooked entry
// is deleted and re-entered.
type UpdateEntryRequest struct {
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Counterparty    string          `json:"counterparty"`
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	Pending         bool            `json:"pending"`
	Notes           string          `json:"notes"`
}

// EntryListFilter defines filtering options for entry list queries
type EntryListFilter struct {
	Kind          string     `form:"kind"`
	Direction     string     `form:"direction"`
	AccountHeadID *uuid.UUID `form:"account_head_id"`
	Pending       *bool      `form:"pending"`
	FromDate      *time.Time `form:"from_date"`
	ToDate        *time.Time `form:"to_date"`
	Search        string     `form:"search"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// CashbookSummaryResponse totals the ledger by direction
type CashbookSummaryResponse struct {
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	NetBalance   decimal.Decimal `json:"net_balance"`
}

// CreateEntry records a new cashbook entry
func (s *EntryService) CreateEntry(ctx context.Context, req CreateEntryRequest) (*EntryResponse, error) {
	head, err := s.headRepo.FindByID(ctx, req.AccountHeadID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Account head not found")
	}

	entry, err := cashbook.NewCashbookEntry(
		req.TransactionDate,
		cashbook.EntryKind(req.Kind),
		cashbook.Direction(req.Direction),
		req.Amount,
		head.ID,
		head.Name,
		req.Counterparty,
		cashbook.PaymentMethod(req.PaymentMethod),
		cashbook.ReferenceType(req.ReferenceType),
		req.ReferenceID,
		req.Pending,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	return s.toEntryResponse(ctx, entry)
}

// GetEntryByID gets a cashbook entry by ID
func (s *EntryService) GetEntryByID(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cashbook entry not found")
	}
	return s.toEntryResponse(ctx, entry)
}

// ListEntries lists cashbook entries with filtering
func (s *EntryService) ListEntries(ctx context.Context, filter EntryListFilter) ([]EntryResponse, int64, error) {
	domainFilter := cashbook.EntryFilter{
		AccountHeadID: filter.AccountHeadID,
		Pending:       filter.Pending,
		FromDate:      filter.FromDate,
		ToDate:        filter.ToDate,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Kind != "" {
		kind := cashbook.EntryKind(filter.Kind)
		domainFilter.Kind = &kind
	}
	if filter.Direction != "" {
		direction := cashbook.Direction(filter.Direction)
		domainFilter.Direction = &direction
	}

	entries, err := s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		resp, err := s.toEntryResponse(ctx, &entries[i])
		if err != nil {
			return nil, 0, err
		}
		responses[i] = *resp
	}
	return responses, total, nil
}

// UpdateEntry corrects a cashbook entry. Rejected once allocations exist:
// shrinking or redirecting an entry under live allocations would orphan them.
func (s *EntryService) UpdateEntry(ctx context.Context, id uuid.UUID, req UpdateEntryRequest) (*EntryResponse, error) {
	var entry *cashbook.CashbookEntry
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.entryRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewDomainError("NOT_FOUND", "Cashbook entry not found")
		}

		allocated, err := s.countAllocations(ctx, entry)
		if err != nil {
			return err
		}
		if allocated > 0 {
			return shared.NewDomainError("ENTRY_HAS_ALLOCATIONS",
				"Cannot edit an entry with allocations; remove the allocations first")
		}

		if err := entry.Update(
			req.TransactionDate,
			req.Amount,
			req.Counterparty,
			cashbook.PaymentMethod(req.PaymentMethod),
			req.Pending,
			req.Notes,
		); err != nil {
			return err
		}

		return s.entryRepo.SaveWithLock(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return s.toEntryResponse(ctx, entry)
}

// DeleteEntry removes a cashbook entry. An entry with allocations is only
// deleted with cascade=true, which reverses every allocation (restoring sale
// pending amounts and stepping PAID sales back) before removing the entry.
func (s *EntryService) DeleteEntry(ctx context.Context, id uuid.UUID, cascade bool) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := s.entryRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewDomainError("NOT_FOUND", "Cashbook entry not found")
		}

		allocated, err := s.countAllocations(ctx, entry)
		if err != nil {
			return err
		}
		if allocated > 0 {
			if !cascade {
				return shared.NewDomainError("ENTRY_HAS_ALLOCATIONS",
					"Entry has allocations; pass cascade=true to delete them together")
			}
			if err := s.cascadeAllocations(ctx, entry); err != nil {
				return err
			}
		}

		return s.entryRepo.Delete(ctx, id)
	})
}

// GetSummary totals the cashbook by direction
func (s *EntryService) GetSummary(ctx context.Context) (*CashbookSummaryResponse, error) {
	inflow, err := s.entryRepo.SumAmountByDirection(ctx, cashbook.DirectionInflow)
	if err != nil {
		return nil, err
	}
	outflow, err := s.entryRepo.SumAmountByDirection(ctx, cashbook.DirectionOutflow)
	if err != nil {
		return nil, err
	}
	return &CashbookSummaryResponse{
		TotalInflow:  inflow,
		TotalOutflow: outflow,
		NetBalance:   inflow.Sub(outflow),
	}, nil
}

func (s *EntryService) countAllocations(ctx context.Context, entry *cashbook.CashbookEntry) (int64, error) {
	if entry.IsInflow() {
		return s.paymentRepo.CountByEntry(ctx, entry.ID)
	}
	return s.advanceRepo.CountByEntry(ctx, entry.ID)
}

func (s *EntryService) cascadeAllocations(ctx context.Context, entry *cashbook.CashbookEntry) error {
	if entry.IsOutflow() {
		// advances carry no state machine, dropping the rows is enough
		return s.advanceRepo.DeleteByEntry(ctx, entry.ID)
	}

	allocs, err := s.paymentRepo.FindByEntry(ctx, entry.ID)
	if err != nil {
		return err
	}
	for _, alloc := range allocs {
		invoice, err := s.invoiceRepo.FindByID(ctx, alloc.InvoiceID)
		if err != nil {
			return err
		}
		sale, err := s.saleRepo.FindByID(ctx, alloc.SaleID)
		if err != nil {
			return err
		}
		if err := s.engine.ReversePayment(alloc, &allocation.InvoiceTarget{Invoice: invoice, Sale: sale}); err != nil {
			return err
		}
		if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
			return err
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
			return err
		}
	}
	return s.paymentRepo.DeleteByEntry(ctx, entry.ID)
}

func (s *EntryService) toEntryResponse(ctx context.Context, entry *cashbook.CashbookEntry) (*EntryResponse, error) {
	var (
		allocated decimal.Decimal
		err       error
	)
	if entry.IsInflow() {
		allocated, err = s.paymentRepo.SumByEntry(ctx, entry.ID)
	} else {
		allocated, err = s.advanceRepo.SumByEntry(ctx, entry.ID)
	}
	if err != nil {
		return nil, err
	}

	return &EntryResponse{
		ID:              entry.ID,
		TransactionDate: entry.TransactionDate,
		Kind:            string(entry.Kind),
		Direction:       string(entry.Direction),
		Amount:          entry.Amount,
		AllocatedAmount: allocated,
		AccountHeadID:   entry.AccountHeadID,
		AccountHeadName: entry.AccountHeadName,
		Counterparty:    entry.Counterparty,
		PaymentMethod:   string(entry.PaymentMethod),
		ReferenceType:   string(entry.ReferenceType),
		ReferenceID:     entry.ReferenceID,
		Pending:         entry.Pending,
		Notes:           entry.Notes,
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
		Version:         entry.Version,
	}, nil
}
