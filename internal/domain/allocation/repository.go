package allocation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentAllocationRepository persists entry-to-invoice allocations.
// FindByID reports a miss as (nil, nil).
type PaymentAllocationRepository interface {
	Save(ctx context.Context, alloc *PaymentAllocation) error
	SaveAll(ctx context.Context, allocs []*PaymentAllocation) error
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentAllocation, error)
	FindByEntry(ctx context.Context, entryID uuid.UUID) ([]*PaymentAllocation, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*PaymentAllocation, error)
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]*PaymentAllocation, error)
	SumByEntry(ctx context.Context, entryID uuid.UUID) (decimal.Decimal, error)
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	CountByEntry(ctx context.Context, entryID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEntry(ctx context.Context, entryID uuid.UUID) error
}

// SupplierAdvanceAllocationRepository persists entry-to-lot advances.
// FindByID reports a miss as (nil, nil).
type SupplierAdvanceAllocationRepository interface {
	Save(ctx context.Context, alloc *SupplierAdvanceAllocation) error
	SaveAll(ctx context.Context, allocs []*SupplierAdvanceAllocation) error
	FindByID(ctx context.Context, id uuid.UUID) (*SupplierAdvanceAllocation, error)
	FindByEntry(ctx context.Context, entryID uuid.UUID) ([]*SupplierAdvanceAllocation, error)
	FindByLot(ctx context.Context, lotID uuid.UUID) ([]*SupplierAdvanceAllocation, error)
	SumByEntry(ctx context.Context, entryID uuid.UUID) (decimal.Decimal, error)
	SumByLot(ctx context.Context, lotID uuid.UUID) (decimal.Decimal, error)
	CountByEntry(ctx context.Context, entryID uuid.UUID) (int64, error)
	CountByLot(ctx context.Context, lotID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEntry(ctx context.Context, entryID uuid.UUID) error
}
