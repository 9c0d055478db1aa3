package sales

import (
	"fmt"
	"time"

	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusGenerated InvoiceStatus = "GENERATED"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID" // Derived: the sale's pending amount reached zero
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusGenerated, InvoiceStatusSent, InvoiceStatusPaid:
		return true
	}
	return false
}

// AllocationStatus is derived purely from the sum of active payment
// allocations against the invoice total.
type AllocationStatus string

const (
	AllocationStatusNotAllocated       AllocationStatus = "NOT_ALLOCATED"
	AllocationStatusPartiallyAllocated AllocationStatus = "PARTIALLY_ALLOCATED"
	AllocationStatusFullyAllocated     AllocationStatus = "FULLY_ALLOCATED"
)

// DeriveAllocationStatus maps an allocated sum against a total
func DeriveAllocationStatus(allocated, total decimal.Decimal) AllocationStatus {
	switch {
	case allocated.IsZero():
		return AllocationStatusNotAllocated
	case allocated.GreaterThanOrEqual(total):
		return AllocationStatusFullyAllocated
	default:
		return AllocationStatusPartiallyAllocated
	}
}

// Invoice materializes a sale for billing. Amounts are frozen at generation
// time: later edits to the sale never re-sync the invoice. Only the number
// and date may be corrected afterwards.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `json:"invoice_number"`
	SaleID        uuid.UUID       `json:"sale_id"`
	ClientID      uuid.UUID       `json:"client_id"`
	ClientName    string          `json:"client_name"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	VatAmount     decimal.Decimal `json:"vat_amount"`
	Status        InvoiceStatus   `json:"status"`
	SentAt        *time.Time      `json:"sent_at"`
}

// NewInvoice freezes the sale's amounts into an invoice. The caller (the
// invoice generator) enforces one-invoice-per-sale and assigns the sequential
// number before constructing.
func NewInvoice(sale *Sale, invoiceNumber string, invoiceDate time.Time) (*Invoice, error) {
	if sale == nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale cannot be nil")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if sale.Status != SaleStatusLPOReceived {
		return nil, shared.NewDomainError("SALE_NOT_LPO_RECEIVED",
			fmt.Sprintf("Sale must be in %s status to invoice, currently %s", SaleStatusLPOReceived, sale.Status))
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		SaleID:            sale.ID,
		ClientID:          sale.ClientID,
		ClientName:        sale.ClientName,
		InvoiceDate:       invoiceDate,
		TotalAmount:       sale.TotalAmount,
		VatAmount:         sale.VatAmount,
		Status:            InvoiceStatusGenerated,
	}, nil
}

// AllocationStatus derives the invoice's allocation status from the active
// allocation sum the caller loaded.
func (i *Invoice) AllocationStatus(allocated decimal.Decimal) AllocationStatus {
	return DeriveAllocationStatus(allocated, i.TotalAmount)
}

// MarkSent records that the invoice was delivered to the client
func (i *Invoice) MarkSent() error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot mark a paid invoice as sent")
	}
	now := time.Now()
	i.Status = InvoiceStatusSent
	i.SentAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()
	return nil
}

// MarkPaid is driven by the payment allocation engine when the sale's
// pending amount reaches zero.
func (i *Invoice) MarkPaid() {
	i.Status = InvoiceStatusPaid
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// MarkUnpaid steps the status back when an allocation deletion reopens the
// balance. The invoice returns to SENT if it had been sent, else GENERATED.
func (i *Invoice) MarkUnpaid() {
	if i.SentAt != nil {
		i.Status = InvoiceStatusSent
	} else {
		i.Status = InvoiceStatusGenerated
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// UpdateDetails corrects the invoice number and date. Amounts stay frozen.
func (i *Invoice) UpdateDetails(invoiceNumber string, invoiceDate time.Time) error {
	if invoiceNumber == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	i.InvoiceNumber = invoiceNumber
	i.InvoiceDate = invoiceDate
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}
