package sales

import (
	"context"
	"fmt"

	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRepository defines persistence operations for sales.
// Single-row finders report a miss as (nil, nil); callers decide whether a
// missing row is an error.
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Sale, error)
	FindByStatus(ctx context.Context, status SaleStatus, filter shared.Filter) ([]Sale, error)
	Save(ctx context.Context, sale *Sale) error
	SaveWithLock(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status SaleStatus) (int64, error)
	// SumQuantitySold totals gallons across non-voided sales; feeds the
	// current stock level.
	SumQuantitySold(ctx context.Context) (decimal.Decimal, error)
	// SumPendingByStatus totals outstanding amounts for sales in a status.
	SumPendingByStatus(ctx context.Context, status SaleStatus) (decimal.Decimal, error)
	// SumTotalByStatus totals sale amounts for sales in a status.
	SumTotalByStatus(ctx context.Context, status SaleStatus) (decimal.Decimal, error)
}

// InvoiceRepository defines persistence operations for invoices.
// Single-row finders report a miss as (nil, nil).
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsForSale(ctx context.Context, saleID uuid.UUID) (bool, error)
}

// InvoiceNumberAllocator hands out the next invoice sequence number for a
// prefix/year pair. Implementations must increment transactionally so that
// concurrent generators never collide; numbers are monotonic and never
// reused, so a voided invoice leaves a gap.
type InvoiceNumberAllocator interface {
	Next(ctx context.Context, prefix string, year int) (int64, error)
}

// FormatInvoiceNumber renders a sequence value as an invoice number,
// e.g. INV-2026-00042.
func FormatInvoiceNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}
