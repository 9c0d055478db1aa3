package allocation

import (
	"fmt"

	"github.com/fueltrade/backend/internal/domain/cashbook"
	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentLine is one requested allocation within a batch.
type PaymentLine struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Remark    string
}

// InvoiceTarget pairs an invoice with its backing sale so the engine can
// check and move the sale's pending balance.
type InvoiceTarget struct {
	Invoice *sales.Invoice
	Sale    *sales.Sale
}

// AdvanceLine is one requested supplier advance within a batch.
type AdvanceLine struct {
	StockLotID uuid.UUID
	Amount     decimal.Decimal
	Remark     string
}

// LotTarget pairs a stock lot with the amount already advanced against it.
type LotTarget struct {
	Lot       *stock.StockLot
	Allocated decimal.Decimal
}

// Engine validates and applies allocation batches. A batch is all or
// nothing: every line is checked against entry capacity and target balances
// before any aggregate is mutated, so a failing line leaves no partial state.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// AllocatePayment distributes an inflow entry across one or more invoices.
// entryAllocated is the sum of the entry's existing allocations. On success
// the targeted sales have their pending balances reduced (flipping to PAID at
// exactly zero), invoices of fully paid sales are marked paid, and the new
// allocation rows are returned for persistence.
func (e *Engine) AllocatePayment(entry *cashbook.CashbookEntry, entryAllocated decimal.Decimal, targets map[uuid.UUID]*InvoiceTarget, lines []PaymentLine) ([]*PaymentAllocation, error) {
	if entry == nil {
		return nil, shared.NewDomainError("ENTRY_NOT_FOUND", "Cashbook entry not found")
	}
	if !entry.IsInflow() {
		return nil, shared.NewDomainError("ENTRY_NOT_INFLOW", "Payments can only be allocated from inflow entries")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Allocation batch cannot be empty")
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
		}
		if _, dup := seen[line.InvoiceID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_INVOICE_IN_BATCH",
				fmt.Sprintf("Invoice %s appears more than once in the batch", line.InvoiceID))
		}
		seen[line.InvoiceID] = struct{}{}
		total = total.Add(line.Amount)

		target, ok := targets[line.InvoiceID]
		if !ok || target == nil || target.Invoice == nil || target.Sale == nil {
			return nil, shared.NewDomainError("INVOICE_NOT_FOUND",
				fmt.Sprintf("Invoice %s not found", line.InvoiceID))
		}
		if line.Amount.GreaterThan(target.Sale.PendingAmount) {
			return nil, shared.NewDomainError("AMOUNT_EXCEEDS_INVOICE_BALANCE",
				fmt.Sprintf("Allocation %s exceeds pending balance %s on invoice %s",
					line.Amount.StringFixed(2), target.Sale.PendingAmount.StringFixed(2), target.Invoice.InvoiceNumber))
		}
	}

	capacity := entry.RemainingCapacity(entryAllocated)
	if total.GreaterThan(capacity) {
		return nil, shared.NewDomainError("AMOUNT_EXCEEDS_ENTRY_CAPACITY",
			fmt.Sprintf("Batch total %s exceeds remaining entry capacity %s",
				total.StringFixed(2), capacity.StringFixed(2)))
	}

	allocations := make([]*PaymentAllocation, 0, len(lines))
	for _, line := range lines {
		target := targets[line.InvoiceID]
		if err := target.Sale.ApplyAllocation(line.Amount); err != nil {
			return nil, err
		}
		if target.Sale.Status == sales.SaleStatusPaid {
			target.Invoice.MarkPaid()
		}
		alloc, err := NewPaymentAllocation(entry.ID, target.Invoice.ID, target.Sale.ID, line.Amount, line.Remark)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, alloc)
	}
	return allocations, nil
}

// ReversePayment undoes one allocation: the sale's pending balance is
// restored and a PAID sale returns to INVOICED, with the invoice following.
func (e *Engine) ReversePayment(alloc *PaymentAllocation, target *InvoiceTarget) error {
	if alloc == nil {
		return shared.NewDomainError("ALLOCATION_NOT_FOUND", "Allocation not found")
	}
	if target == nil || target.Invoice == nil || target.Sale == nil {
		return shared.NewDomainError("INVOICE_NOT_FOUND",
			fmt.Sprintf("Invoice %s not found", alloc.InvoiceID))
	}
	wasPaid := target.Sale.Status == sales.SaleStatusPaid
	if err := target.Sale.ReverseAllocation(alloc.Amount); err != nil {
		return err
	}
	if wasPaid {
		target.Invoice.MarkUnpaid()
	}
	return nil
}

// AllocateAdvance distributes an outflow entry across stock lots, capped per
// lot by the lot's total cost net of advances already recorded against it.
func (e *Engine) AllocateAdvance(entry *cashbook.CashbookEntry, entryAllocated decimal.Decimal, targets map[uuid.UUID]*LotTarget, lines []AdvanceLine) ([]*SupplierAdvanceAllocation, error) {
	if entry == nil {
		return nil, shared.NewDomainError("ENTRY_NOT_FOUND", "Cashbook entry not found")
	}
	if !entry.IsOutflow() {
		return nil, shared.NewDomainError("ENTRY_NOT_OUTFLOW", "Supplier advances can only be allocated from outflow entries")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Allocation batch cannot be empty")
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
		}
		if _, dup := seen[line.StockLotID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_LOT_IN_BATCH",
				fmt.Sprintf("Stock lot %s appears more than once in the batch", line.StockLotID))
		}
		seen[line.StockLotID] = struct{}{}
		total = total.Add(line.Amount)

		target, ok := targets[line.StockLotID]
		if !ok || target == nil || target.Lot == nil {
			return nil, shared.NewDomainError("STOCK_LOT_NOT_FOUND",
				fmt.Sprintf("Stock lot %s not found", line.StockLotID))
		}
		remaining := target.Lot.TotalCost.Sub(target.Allocated)
		if line.Amount.GreaterThan(remaining) {
			return nil, shared.NewDomainError("AMOUNT_EXCEEDS_LOT_COST",
				fmt.Sprintf("Allocation %s exceeds unsettled cost %s on stock lot %s",
					line.Amount.StringFixed(2), remaining.StringFixed(2), line.StockLotID))
		}
	}

	capacity := entry.RemainingCapacity(entryAllocated)
	if total.GreaterThan(capacity) {
		return nil, shared.NewDomainError("AMOUNT_EXCEEDS_ENTRY_CAPACITY",
			fmt.Sprintf("Batch total %s exceeds remaining entry capacity %s",
				total.StringFixed(2), capacity.StringFixed(2)))
	}

	allocations := make([]*SupplierAdvanceAllocation, 0, len(lines))
	for _, line := range lines {
		alloc, err := NewSupplierAdvanceAllocation(entry.ID, line.StockLotID, line.Amount, line.Remark)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, alloc)
	}
	return allocations, nil
}
