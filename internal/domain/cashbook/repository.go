package cashbook

import (
	"context"
	"time"

	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryFilter narrows cashbook entry queries
type EntryFilter struct {
	shared.Filter
	Kind          *EntryKind
	Direction     *Direction
	AccountHeadID *uuid.UUID
	Pending       *bool
	FromDate      *time.Time
	ToDate        *time.Time
}

// CashbookEntryRepository defines persistence operations for cashbook entries.
// FindByID reports a miss as (nil, nil).
type CashbookEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CashbookEntry, error)
	FindAll(ctx context.Context, filter EntryFilter) ([]CashbookEntry, error)
	Save(ctx context.Context, entry *CashbookEntry) error
	SaveWithLock(ctx context.Context, entry *CashbookEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter EntryFilter) (int64, error)
	SumAmountByDirection(ctx context.Context, direction Direction) (decimal.Decimal, error)
}

// AccountHeadRepository defines persistence operations for account heads.
// FindByID reports a miss as (nil, nil).
type AccountHeadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AccountHead, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]AccountHead, error)
	FindByKind(ctx context.Context, kind AccountHeadKind, filter shared.Filter) ([]AccountHead, error)
	Save(ctx context.Context, head *AccountHead) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
