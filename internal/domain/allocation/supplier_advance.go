package allocation

import (
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierAdvanceAllocation links one outflow cashbook entry to one stock lot,
// tracking how much of a supplier payment settles that lot's cost. Like
// payment allocations the rows are immutable.
type SupplierAdvanceAllocation struct {
	shared.BaseEntity
	CashbookEntryID uuid.UUID       `json:"cashbook_entry_id"`
	StockLotID      uuid.UUID       `json:"stock_lot_id"`
	Amount          decimal.Decimal `json:"amount"`
	Remark          string          `json:"remark"`
}

func NewSupplierAdvanceAllocation(entryID, lotID uuid.UUID, amount decimal.Decimal, remark string) (*SupplierAdvanceAllocation, error) {
	if entryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Cashbook entry ID cannot be empty")
	}
	if lotID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK_LOT", "Stock lot ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	return &SupplierAdvanceAllocation{
		BaseEntity:      shared.NewBaseEntity(),
		CashbookEntryID: entryID,
		StockLotID:      lotID,
		Amount:          amount,
		Remark:          remark,
	}, nil
}
