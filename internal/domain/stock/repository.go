package stock

import (
	"context"
	"time"

	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLotRepository defines persistence operations for stock lots.
// FindByID reports a miss as (nil, nil).
type StockLotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockLot, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StockLot, error)
	FindPurchasedOnOrBefore(ctx context.Context, date time.Time) ([]StockLot, error)
	Save(ctx context.Context, lot *StockLot) error
	SaveWithLock(ctx context.Context, lot *StockLot) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	SumQuantity(ctx context.Context) (decimal.Decimal, error)
	// SumQuantityExcluding sums lot quantities leaving out one lot, used to
	// evaluate the hypothetical stock level before a delete or edit commits.
	SumQuantityExcluding(ctx context.Context, excludedID uuid.UUID) (decimal.Decimal, error)
}
