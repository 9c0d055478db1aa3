package cashbook

import (
	"fmt"
	"time"

	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells whether money moved into or out of the business
type Direction string

const (
	DirectionInflow  Direction = "INFLOW"
	DirectionOutflow Direction = "OUTFLOW"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionInflow || d == DirectionOutflow
}

// EntryKind is the closed set of cashbook transaction kinds. Each directional
// kind carries its direction as data, so a kind can never be branched on by
// raw string and silently land on the wrong side of the ledger.
type EntryKind string

const (
	EntryKindInvoice         EntryKind = "INVOICE"          // client payment against an invoice
	EntryKindInvestment      EntryKind = "INVESTMENT"       // owner capital in
	EntryKindSupplierPayment EntryKind = "SUPPLIER_PAYMENT" // advance or settlement to a supplier
	EntryKindExpense         EntryKind = "EXPENSE"
	EntryKindWithdrawal      EntryKind = "WITHDRAWAL"
	EntryKindOther           EntryKind = "OTHER" // direction chosen per entry
)

// IsValid checks if the kind is a valid EntryKind
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindInvoice, EntryKindInvestment, EntryKindSupplierPayment,
		EntryKindExpense, EntryKindWithdrawal, EntryKindOther:
		return true
	}
	return false
}

// FixedDirection returns the direction a kind is bound to; ok is false for
// EntryKindOther, which carries direction per entry.
func (k EntryKind) FixedDirection() (Direction, bool) {
	switch k {
	case EntryKindInvoice, EntryKindInvestment:
		return DirectionInflow, true
	case EntryKindSupplierPayment, EntryKindExpense, EntryKindWithdrawal:
		return DirectionOutflow, true
	}
	return "", false
}

// PaymentMethod identifies how the money moved
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodCard         PaymentMethod = "CARD"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodCard:
		return true
	}
	return false
}

// ReferenceType links an entry back to whatever generated it
type ReferenceType string

const (
	ReferenceTypeSalePayment   ReferenceType = "SALE_PAYMENT"
	ReferenceTypeStockPurchase ReferenceType = "STOCK_PURCHASE"
	ReferenceTypeManual        ReferenceType = "MANUAL"
)

// CashbookEntry records a single cash movement against an account head.
// Entries are independent of sales and stock except through allocations.
type CashbookEntry struct {
	shared.BaseAggregateRoot
	TransactionDate time.Time       `json:"transaction_date"`
	Kind            EntryKind       `json:"kind"`
	Direction       Direction       `json:"direction"`
	Amount          decimal.Decimal `json:"amount"`
	AccountHeadID   uuid.UUID       `json:"account_head_id"`
	AccountHeadName string          `json:"account_head_name"`
	Counterparty    string          `json:"counterparty"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	ReferenceType   ReferenceType   `json:"reference_type"`
	ReferenceID     *uuid.UUID      `json:"reference_id"`
	Pending         bool            `json:"pending"` // entry itself awaits settlement (e.g. a debt owed)
	Notes           string          `json:"notes"`
}

// NewCashbookEntry creates an entry, deriving the direction from the kind
// where the kind is directional and validating consistency otherwise.
func NewCashbookEntry(
	transactionDate time.Time,
	kind EntryKind,
	direction Direction,
	amount decimal.Decimal,
	accountHeadID uuid.UUID,
	accountHeadName string,
	counterparty string,
	paymentMethod PaymentMethod,
	referenceType ReferenceType,
	referenceID *uuid.UUID,
	pending bool,
	notes string,
) (*CashbookEntry, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_KIND", fmt.Sprintf("Entry kind %q is not valid", kind))
	}
	if fixed, ok := kind.FixedDirection(); ok {
		if direction != "" && direction != fixed {
			return nil, shared.NewDomainError("DIRECTION_MISMATCH",
				fmt.Sprintf("Entry kind %s is always %s", kind, fixed))
		}
		direction = fixed
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Entry direction must be INFLOW or OUTFLOW")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}
	if accountHeadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_HEAD", "Account head ID cannot be empty")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Payment method %q is not valid", paymentMethod))
	}
	if referenceType == "" {
		referenceType = ReferenceTypeManual
	}

	return &CashbookEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransactionDate:   transactionDate,
		Kind:              kind,
		Direction:         direction,
		Amount:            amount,
		AccountHeadID:     accountHeadID,
		AccountHeadName:   accountHeadName,
		Counterparty:      counterparty,
		PaymentMethod:     paymentMethod,
		ReferenceType:     referenceType,
		ReferenceID:       referenceID,
		Pending:           pending,
		Notes:             notes,
	}, nil
}

// IsInflow returns true for money received
func (e *CashbookEntry) IsInflow() bool {
	return e.Direction == DirectionInflow
}

// IsOutflow returns true for money paid out
func (e *CashbookEntry) IsOutflow() bool {
	return e.Direction == DirectionOutflow
}

// RemainingCapacity is the entry amount minus what has already been
// allocated against it. Callers load the allocated sum inside the same
// transaction that validates a new allocation.
func (e *CashbookEntry) RemainingCapacity(allocated decimal.Decimal) decimal.Decimal {
	return e.Amount.Sub(allocated)
}

// Update replaces the entry's mutable fields. The application layer rejects
// updates once allocations exist against the entry; amount changes would
// invalidate their capacity checks.
func (e *CashbookEntry) Update(
	transactionDate time.Time,
	amount decimal.Decimal,
	counterparty string,
	paymentMethod PaymentMethod,
	pending bool,
	notes string,
) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}
	if !paymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Payment method %q is not valid", paymentMethod))
	}

	e.TransactionDate = transactionDate
	e.Amount = amount
	e.Counterparty = counterparty
	e.PaymentMethod = paymentMethod
	e.Pending = pending
	e.Notes = notes
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// MarkSettled clears the pending flag once the owed amount is received/paid
func (e *CashbookEntry) MarkSettled() {
	e.Pending = false
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}
