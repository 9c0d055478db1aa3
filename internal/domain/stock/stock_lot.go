package stock

import (
	"time"

	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// StockLot represents a single fuel purchase: a quantity of gallons bought at
// a unit cost on a given date. Lots are the source records for the running
// stock level and the weighted-average cost used for COGS.
type StockLot struct {
	shared.BaseAggregateRoot
	PurchaseDate  time.Time       `json:"purchase_date"`
	Quantity      decimal.Decimal `json:"quantity"`       // gallons
	UnitCost      decimal.Decimal `json:"unit_cost"`      // per gallon, VAT exclusive
	VatPercentage decimal.Decimal `json:"vat_percentage"` // 0-100
	TotalCost     decimal.Decimal `json:"total_cost"`     // quantity x unitCost x (1 + vat/100)
	SupplierName  string          `json:"supplier_name"`
	Notes         string          `json:"notes"`
}

// NewStockLot creates a stock lot and derives its total cost.
func NewStockLot(purchaseDate time.Time, quantity, unitCost, vatPercentage decimal.Decimal, supplierName, notes string) (*StockLot, error) {
	if err := validateLotAmounts(quantity, unitCost, vatPercentage); err != nil {
		return nil, err
	}

	lot := &StockLot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PurchaseDate:      purchaseDate,
		Quantity:          quantity,
		UnitCost:          unitCost,
		VatPercentage:     vatPercentage,
		SupplierName:      supplierName,
		Notes:             notes,
	}
	lot.TotalCost = computeTotalCost(quantity, unitCost, vatPercentage)
	return lot, nil
}

// UpdateAmounts replaces quantity, unit cost and VAT percentage and
// recomputes the total cost. The caller is responsible for verifying the
// resulting stock level stays non-negative before persisting.
func (l *StockLot) UpdateAmounts(quantity, unitCost, vatPercentage decimal.Decimal) error {
	if err := validateLotAmounts(quantity, unitCost, vatPercentage); err != nil {
		return err
	}
	l.Quantity = quantity
	l.UnitCost = unitCost
	l.VatPercentage = vatPercentage
	l.TotalCost = computeTotalCost(quantity, unitCost, vatPercentage)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// SetDetails updates the non-financial fields.
func (l *StockLot) SetDetails(purchaseDate time.Time, supplierName, notes string) {
	l.PurchaseDate = purchaseDate
	l.SupplierName = supplierName
	l.Notes = notes
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

func validateLotAmounts(quantity, unitCost, vatPercentage decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Lot quantity must be positive")
	}
	if unitCost.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_UNIT_COST", "Unit cost must be positive")
	}
	if vatPercentage.IsNegative() || vatPercentage.GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_VAT_PERCENTAGE", "VAT percentage must be between 0 and 100")
	}
	return nil
}

func computeTotalCost(quantity, unitCost, vatPercentage decimal.Decimal) decimal.Decimal {
	net := quantity.Mul(unitCost)
	vat := net.Mul(vatPercentage).Div(oneHundred)
	return net.Add(vat).Round(2)
}
