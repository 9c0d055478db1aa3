package allocation

import (
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentAllocation links one inflow cashbook entry to one invoice for a
// portion of the entry's amount. Several allocations may share an entry
// (splitting one payment across invoices) or an invoice (several partial
// payments). Rows are immutable: corrections delete and re-create.
type PaymentAllocation struct {
	shared.BaseEntity
	CashbookEntryID uuid.UUID       `json:"cashbook_entry_id"`
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	SaleID          uuid.UUID       `json:"sale_id"`
	Amount          decimal.Decimal `json:"amount"`
	Remark          string          `json:"remark"`
}

// NewPaymentAllocation creates an allocation row. Capacity checks live in the
// allocation engine; this constructor only guards structural validity.
func NewPaymentAllocation(entryID, invoiceID, saleID uuid.UUID, amount decimal.Decimal, remark string) (*PaymentAllocation, error) {
	if entryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Cashbook entry ID cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	return &PaymentAllocation{
		BaseEntity:      shared.NewBaseEntity(),
		CashbookEntryID: entryID,
		InvoiceID:       invoiceID,
		SaleID:          saleID,
		Amount:          amount,
		Remark:          remark,
	}, nil
}
