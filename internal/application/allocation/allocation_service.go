package allocation

import (
	"context"
	"time"

	"github.com/fueltrade/backend/internal/domain/allocation"
	"github.com/fueltrade/backend/internal/domain/cashbook"
	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationService applies and reverses allocation batches. Every operation
// runs inside one transaction: capacity and balances are re-read and
// re-validated authoritatively there, so two clients racing over the same
// entry or invoice cannot both succeed past the optimistic version check.
type AllocationService struct {
	entryRepo   cashbook.CashbookEntryRepository
	allocRepo   allocation.PaymentAllocationRepository
	advanceRepo allocation.SupplierAdvanceAllocationRepository
	invoiceRepo sales.InvoiceRepository
	saleRepo    sales.SaleRepository
	lotRepo     stock.StockLotRepository
	engine      *allocation.Engine
	txManager   shared.TransactionManager
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	entryRepo cashbook.CashbookEntryRepository,
	allocRepo allocation.PaymentAllocationRepository,
	advanceRepo allocation.SupplierAdvanceAllocationRepository,
	invoiceRepo sales.InvoiceRepository,
	saleRepo sales.SaleRepository,
	lotRepo stock.StockLotRepository,
	engine *allocation.Engine,
	txManager shared.TransactionManager,
) *AllocationService {
	return &AllocationService{
		entryRepo:   entryRepo,
		allocRepo:   allocRepo,
		advanceRepo: advanceRepo,
		invoiceRepo: invoiceRepo,
		saleRepo:    saleRepo,
		lotRepo:     lotRepo,
		engine:      engine,
		txManager:   txManager,
	}
}

// AllocationLineRequest is one line of an allocation batch
type AllocationLineRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Remark    string          `json:"remark"`
}

// AllocatePaymentRequest allocates an inflow entry across invoices
type AllocatePaymentRequest struct {
	EntryID uuid.UUID               `json:"entry_id" binding:"required"`
	Lines   []AllocationLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// AdvanceLineRequest is one line of a supplier advance batch
type AdvanceLineRequest struct {
	StockLotID uuid.UUID       `json:"stock_lot_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Remark     string          `json:"remark"`
}

// AllocateAdvanceRequest allocates an outflow entry across stock lots
type AllocateAdvanceRequest struct {
	EntryID uuid.UUID            `json:"entry_id" binding:"required"`
	Lines   []AdvanceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PaymentAllocationResponse represents a payment allocation in API responses
type PaymentAllocationResponse struct {
	ID              uuid.UUID       `json:"id"`
	CashbookEntryID uuid.UUID       `json:"cashbook_entry_id"`
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	SaleID          uuid.UUID       `json:"sale_id"`
	Amount          decimal.Decimal `json:"amount"`
	Remark          string          `json:"remark,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AdvanceAllocationResponse represents a supplier advance in API responses
type AdvanceAllocationResponse struct {
	ID              uuid.UUID       `json:"id"`
	CashbookEntryID uuid.UUID       `json:"cashbook_entry_id"`
	StockLotID      uuid.UUID       `json:"stock_lot_id"`
	Amount          decimal.Decimal `json:"amount"`
	Remark          string          `json:"remark,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AllocatePayment validates and applies a payment allocation batch. The whole
// batch fails if any line fails; partial application never happens.
func (s *AllocationService) AllocatePayment(ctx context.Context, req AllocatePaymentRequest) ([]PaymentAllocationResponse, error) {
	var created []*allocation.PaymentAllocation
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := s.entryRepo.FindByID(ctx, req.EntryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewDomainError("ENTRY_NOT_FOUND", "Cashbook entry not found")
		}

		allocated, err := s.allocRepo.SumByEntry(ctx, req.EntryID)
		if err != nil {
			return err
		}

		targets := make(map[uuid.UUID]*allocation.InvoiceTarget, len(req.Lines))
		lines := make([]allocation.PaymentLine, len(req.Lines))
		for i, line := range req.Lines {
			lines[i] = allocation.PaymentLine{InvoiceID: line.InvoiceID, Amount: line.Amount, Remark: line.Remark}
			if _, loaded := targets[line.InvoiceID]; loaded {
				continue
			}
			invoice, err := s.invoiceRepo.FindByID(ctx, line.InvoiceID)
			if err != nil {
				return err
			}
			if invoice == nil {
				continue // engine reports INVOICE_NOT_FOUND with the offending ID
			}
			sale, err := s.saleRepo.FindByID(ctx, invoice.SaleID)
			if err != nil {
				return err
			}
			targets[line.InvoiceID] = &allocation.InvoiceTarget{Invoice: invoice, Sale: sale}
		}

		created, err = s.engine.AllocatePayment(entry, allocated, targets, lines)
		if err != nil {
			return err
		}

		for _, target := range targets {
			if err := s.saleRepo.SaveWithLock(ctx, target.Sale); err != nil {
				return err
			}
			if err := s.invoiceRepo.SaveWithLock(ctx, target.Invoice); err != nil {
				return err
			}
		}
		return s.allocRepo.SaveAll(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentAllocationResponse, len(created))
	for i, alloc := range created {
		responses[i] = *toPaymentAllocationResponse(alloc)
	}
	return responses, nil
}

// DeletePaymentAllocation reverses one allocation: the sale's pending amount
// is restored, a PAID sale steps back to INVOICED and the row is removed.
// Deleting and re-creating the same allocation converges on the same state.
func (s *AllocationService) DeletePaymentAllocation(ctx context.Context, id uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		alloc, err := s.allocRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if alloc == nil {
			return shared.NewDomainError("ALLOCATION_NOT_FOUND", "Allocation not found")
		}

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
		return s.allocRepo.Delete(ctx, id)
	})
}

// ListPaymentAllocationsByEntry lists the allocations made from an entry
func (s *AllocationService) ListPaymentAllocationsByEntry(ctx context.Context, entryID uuid.UUID) ([]PaymentAllocationResponse, error) {
	allocs, err := s.allocRepo.FindByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentAllocationResponse, len(allocs))
	for i, alloc := range allocs {
		responses[i] = *toPaymentAllocationResponse(alloc)
	}
	return responses, nil
}

// ListPaymentAllocationsByInvoice lists the allocations applied to an invoice
func (s *AllocationService) ListPaymentAllocationsByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]PaymentAllocationResponse, error) {
	allocs, err := s.allocRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentAllocationResponse, len(allocs))
	for i, alloc := range allocs {
		responses[i] = *toPaymentAllocationResponse(alloc)
	}
	return responses, nil
}

// AllocateAdvance validates and applies a supplier advance batch
func (s *AllocationService) AllocateAdvance(ctx context.Context, req AllocateAdvanceRequest) ([]AdvanceAllocationResponse, error) {
	var created []*allocation.SupplierAdvanceAllocation
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := s.entryRepo.FindByID(ctx, req.EntryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return shared.NewDomainError("ENTRY_NOT_FOUND", "Cashbook entry not found")
		}

		allocated, err := s.advanceRepo.SumByEntry(ctx, req.EntryID)
		if err != nil {
			return err
		}

		targets := make(map[uuid.UUID]*allocation.LotTarget, len(req.Lines))
		lines := make([]allocation.AdvanceLine, len(req.Lines))
		for i, line := range req.Lines {
			lines[i] = allocation.AdvanceLine{StockLotID: line.StockLotID, Amount: line.Amount, Remark: line.Remark}
			if _, loaded := targets[line.StockLotID]; loaded {
				continue
			}
			lot, err := s.lotRepo.FindByID(ctx, line.StockLotID)
			if err != nil {
				return err
			}
			if lot == nil {
				continue
			}
			lotAllocated, err := s.advanceRepo.SumByLot(ctx, line.StockLotID)
			if err != nil {
				return err
			}
			targets[line.StockLotID] = &allocation.LotTarget{Lot: lot, Allocated: lotAllocated}
		}

		created, err = s.engine.AllocateAdvance(entry, allocated, targets, lines)
		if err != nil {
			return err
		}
		return s.advanceRepo.SaveAll(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	responses := make([]AdvanceAllocationResponse, len(created))
	for i, alloc := range created {
		responses[i] = *toAdvanceAllocationResponse(alloc)
	}
	return responses, nil
}

// DeleteAdvanceAllocation removes one supplier advance allocation
func (s *AllocationService) DeleteAdvanceAllocation(ctx context.Context, id uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		alloc, err := s.advanceRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if alloc == nil {
			return shared.NewDomainError("ALLOCATION_NOT_FOUND", "Allocation not found")
		}
		return s.advanceRepo.Delete(ctx, id)
	})
}

// ListAdvancesByLot lists the supplier advances recorded against a stock lot
func (s *AllocationService) ListAdvancesByLot(ctx context.Context, lotID uuid.UUID) ([]AdvanceAllocationResponse, error) {
	allocs, err := s.advanceRepo.FindByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}
	responses := make([]AdvanceAllocationResponse, len(allocs))
	for i, alloc := range allocs {
		responses[i] = *toAdvanceAllocationResponse(alloc)
	}
	return responses, nil
}

func toPaymentAllocationResponse(alloc *allocation.PaymentAllocation) *PaymentAllocationResponse {
	return &PaymentAllocationResponse{
		ID:              alloc.ID,
		CashbookEntryID: alloc.CashbookEntryID,
		InvoiceID:       alloc.InvoiceID,
		SaleID:          alloc.SaleID,
		Amount:          alloc.Amount,
		Remark:          alloc.Remark,
		CreatedAt:       alloc.CreatedAt,
	}
}

func toAdvanceAllocationResponse(alloc *allocation.SupplierAdvanceAllocation) *AdvanceAllocationResponse {
	return &AdvanceAllocationResponse{
		ID:              alloc.ID,
		CashbookEntryID: alloc.CashbookEntryID,
		StockLotID:      alloc.StockLotID,
		Amount:          alloc.Amount,
		Remark:          alloc.Remark,
		CreatedAt:       alloc.CreatedAt,
	}
}
