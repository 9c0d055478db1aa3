package sales

import (
	"fmt"
	"time"

	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusPendingLPO  SaleStatus = "PENDING_LPO"  // Awaiting the client's purchase order
	SaleStatusLPOReceived SaleStatus = "LPO_RECEIVED" // LPO on file, invoice not yet raised
	SaleStatusInvoiced    SaleStatus = "INVOICED"     // Invoice raised, balance outstanding
	SaleStatusPaid        SaleStatus = "PAID"         // Pending amount reached exactly zero
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPendingLPO, SaleStatusLPOReceived, SaleStatusInvoiced, SaleStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// Sale represents a fuel sale to a client. It owns the pending (unpaid)
// balance; only the payment allocation engine mutates it, via
// ApplyAllocation/ReverseAllocation.
type Sale struct {
	shared.BaseAggregateRoot
	ClientID              uuid.UUID       `json:"client_id"` // client account head
	ClientName            string          `json:"client_name"`
	ProjectName           string          `json:"project_name"`
	SaleDate              time.Time       `json:"sale_date"`
	Quantity              decimal.Decimal `json:"quantity"`   // gallons
	UnitPrice             decimal.Decimal `json:"unit_price"` // per gallon, VAT exclusive
	PurchaseCostPerGallon decimal.Decimal `json:"purchase_cost_per_gallon"`
	VatPercentage         decimal.Decimal `json:"vat_percentage"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	VatAmount             decimal.Decimal `json:"vat_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	PendingAmount         decimal.Decimal `json:"pending_amount"`
	LPONumber             string          `json:"lpo_number"`
	LPODueDate            *time.Time      `json:"lpo_due_date"`
	InvoiceDate           *time.Time      `json:"invoice_date"`
	Status                SaleStatus      `json:"status"`
	Voided                bool            `json:"voided"`
	VoidedAt              *time.Time      `json:"voided_at"`
	VoidReason            string          `json:"void_reason"`
	PaidAt                *time.Time      `json:"paid_at"`
	Notes                 string          `json:"notes"`
}

// NewSale creates a sale and derives subtotal, VAT and total. A sale created
// with an LPO number on hand starts in LPO_RECEIVED, otherwise PENDING_LPO.
func NewSale(
	clientID uuid.UUID,
	clientName string,
	projectName string,
	saleDate time.Time,
	quantity decimal.Decimal,
	unitPrice decimal.Decimal,
	purchaseCostPerGallon decimal.Decimal,
	vatPercentage decimal.Decimal,
	lpoNumber string,
	lpoDueDate *time.Time,
) (*Sale, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if err := validateSaleAmounts(quantity, unitPrice, vatPercentage); err != nil {
		return nil, err
	}
	if purchaseCostPerGallon.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PURCHASE_COST", "Purchase cost per gallon cannot be negative")
	}

	sale := &Sale{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		ClientID:              clientID,
		ClientName:            clientName,
		ProjectName:           projectName,
		SaleDate:              saleDate,
		Quantity:              quantity,
		UnitPrice:             unitPrice,
		PurchaseCostPerGallon: purchaseCostPerGallon,
		VatPercentage:         vatPercentage,
		LPONumber:             lpoNumber,
		LPODueDate:            lpoDueDate,
		Status:                SaleStatusPendingLPO,
	}
	sale.computeAmounts()
	sale.PendingAmount = sale.TotalAmount

	if lpoNumber != "" {
		sale.Status = SaleStatusLPOReceived
	}
	return sale, nil
}

// HasPayments returns true once any payment has been allocated to the sale
func (s *Sale) HasPayments() bool {
	return s.PendingAmount.LessThan(s.TotalAmount)
}

// RecordLPO records the client's purchase order, moving the sale from
// PENDING_LPO to LPO_RECEIVED. The number may be corrected while the sale is
// still un-invoiced.
func (s *Sale) RecordLPO(lpoNumber string, dueDate *time.Time) error {
	if s.Voided {
		return shared.NewDomainError("SALE_VOIDED", "Cannot record an LPO on a voided sale")
	}
	if lpoNumber == "" {
		return shared.NewDomainError("INVALID_LPO_NUMBER", "LPO number cannot be empty")
	}
	if s.Status != SaleStatusPendingLPO && s.Status != SaleStatusLPOReceived {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record an LPO for a sale in %s status", s.Status))
	}

	s.LPONumber = lpoNumber
	s.LPODueDate = dueDate
	s.Status = SaleStatusLPOReceived
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// UpdateAmounts replaces quantity, unit price and VAT percentage and
// recomputes the derived amounts. Rejected once any payment has been
// allocated: mutating totals under a partial payment would leave the pending
// amount inconsistent. Callers correcting a mis-entered sale must delete the
// allocations first.
func (s *Sale) UpdateAmounts(quantity, unitPrice, vatPercentage decimal.Decimal) error {
	if s.Voided {
		return shared.NewDomainError("SALE_VOIDED", "Cannot edit a voided sale")
	}
	if s.HasPayments() {
		return shared.NewDomainError("SALE_HAS_PAYMENTS",
			"Cannot edit amounts of a sale with allocated payments; remove the allocations first")
	}
	if err := validateSaleAmounts(quantity, unitPrice, vatPercentage); err != nil {
		return err
	}

	s.Quantity = quantity
	s.UnitPrice = unitPrice
	s.VatPercentage = vatPercentage
	s.computeAmounts()
	s.PendingAmount = s.TotalAmount
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetDetails updates descriptive fields that do not affect amounts or state.
func (s *Sale) SetDetails(clientName, projectName string, saleDate time.Time, notes string) {
	if clientName != "" {
		s.ClientName = clientName
	}
	s.ProjectName = projectName
	s.SaleDate = saleDate
	s.Notes = notes
	s.UpdatedAt = time.Now()
}

// MarkInvoiced transitions LPO_RECEIVED -> INVOICED when the invoice
// generator raises the sale's invoice.
func (s *Sale) MarkInvoiced(invoiceDate time.Time) error {
	if s.Voided {
		return shared.NewDomainError("SALE_VOIDED", "Cannot invoice a voided sale")
	}
	switch s.Status {
	case SaleStatusLPOReceived:
		// fallthrough to transition
	case SaleStatusInvoiced, SaleStatusPaid:
		return shared.NewDomainError("ALREADY_INVOICED", "Sale has already been invoiced")
	default:
		return shared.NewDomainError("SALE_NOT_LPO_RECEIVED",
			fmt.Sprintf("Sale must be in %s status to invoice, currently %s", SaleStatusLPOReceived, s.Status))
	}

	s.Status = SaleStatusInvoiced
	s.InvoiceDate = &invoiceDate
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ApplyAllocation reduces the pending amount by an allocated payment.
// The sale flips to PAID the instant the pending amount reaches exactly zero.
func (s *Sale) ApplyAllocation(amount decimal.Decimal) error {
	if s.Voided {
		return shared.NewDomainError("SALE_VOIDED", "Cannot allocate a payment to a voided sale")
	}
	if s.Status != SaleStatusInvoiced && s.Status != SaleStatusPaid {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot allocate a payment to a sale in %s status", s.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if amount.GreaterThan(s.PendingAmount) {
		return shared.NewDomainError("AMOUNT_EXCEEDS_INVOICE_BALANCE",
			fmt.Sprintf("Allocation amount %s exceeds pending amount %s",
				amount.StringFixed(2), s.PendingAmount.StringFixed(2)))
	}

	s.PendingAmount = s.PendingAmount.Sub(amount)
	if s.PendingAmount.IsZero() {
		now := time.Now()
		s.Status = SaleStatusPaid
		s.PaidAt = &now
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ReverseAllocation restores the pending amount when an allocation is
// deleted. A sale marked PAID steps back to INVOICED when its balance goes
// positive again; leaving it PAID with an outstanding balance is exactly the
// bug class this transition guards against.
func (s *Sale) ReverseAllocation(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	restored := s.PendingAmount.Add(amount)
	if restored.GreaterThan(s.TotalAmount) {
		return shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Reversal of %s would push pending amount %s above the sale total %s",
				amount.StringFixed(2), s.PendingAmount.StringFixed(2), s.TotalAmount.StringFixed(2)))
	}

	s.PendingAmount = restored
	if s.Status == SaleStatusPaid && s.PendingAmount.IsPositive() {
		s.Status = SaleStatusInvoiced
		s.PaidAt = nil
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Void removes the sale from stock consumption and revenue. Rejected once
// payments exist; those must be deallocated first.
func (s *Sale) Void(reason string) error {
	if s.Voided {
		return shared.NewDomainError("SALE_VOIDED", "Sale is already voided")
	}
	if s.HasPayments() {
		return shared.NewDomainError("SALE_HAS_PAYMENTS",
			"Cannot void a sale with allocated payments; remove the allocations first")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}

	now := time.Now()
	s.Voided = true
	s.VoidedAt = &now
	s.VoidReason = reason
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}

// GrossProfit returns (unitPrice - purchaseCostPerGallon) x quantity, the
// margin locked in at sale time.
func (s *Sale) GrossProfit() decimal.Decimal {
	return s.UnitPrice.Sub(s.PurchaseCostPerGallon).Mul(s.Quantity)
}

// IsOverdue reports whether the invoice is older than thresholdDays with a
// balance still outstanding.
func (s *Sale) IsOverdue(thresholdDays int, now time.Time) bool {
	if s.Voided || s.InvoiceDate == nil {
		return false
	}
	if !s.PendingAmount.IsPositive() {
		return false
	}
	return s.InvoiceDate.AddDate(0, 0, thresholdDays).Before(now)
}

func (s *Sale) computeAmounts() {
	s.Subtotal = s.Quantity.Mul(s.UnitPrice).Round(2)
	s.VatAmount = s.Subtotal.Mul(s.VatPercentage).Div(oneHundred).Round(2)
	s.TotalAmount = s.Subtotal.Add(s.VatAmount)
}

func validateSaleAmounts(quantity, unitPrice, vatPercentage decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Sale quantity must be positive")
	}
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price must be positive")
	}
	if vatPercentage.IsNegative() || vatPercentage.GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_VAT_PERCENTAGE", "VAT percentage must be between 0 and 100")
	}
	return nil
}
