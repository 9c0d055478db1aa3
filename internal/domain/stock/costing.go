package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostingService computes the weighted-average cost per gallon across stock
// lots. It is a pure domain service: callers load the relevant lots and pass
// them in, which keeps the math trivially testable.
type CostingService struct{}

// NewCostingService creates a new CostingService
func NewCostingService() *CostingService {
	return &CostingService{}
}

// WeightedAverageCost returns sum(qty x unitCost) / sum(qty) over the given
// lots. Returns zero when there are no lots (a quotient of zero quantity is
// meaningless, not an error).
func (s *CostingService) WeightedAverageCost(lots []StockLot) decimal.Decimal {
	totalQty := decimal.Zero
	totalValue := decimal.Zero
	for _, lot := range lots {
		totalQty = totalQty.Add(lot.Quantity)
		totalValue = totalValue.Add(lot.Quantity.Mul(lot.UnitCost))
	}
	if totalQty.IsZero() {
		return decimal.Zero
	}
	return totalValue.Div(totalQty)
}

// WeightedAverageCostAsOf returns the weighted-average cost considering only
// lots purchased on or before the given date. Historical margin reporting
// uses this so that later deliveries do not restate past COGS.
func (s *CostingService) WeightedAverageCostAsOf(lots []StockLot, asOf time.Time) decimal.Decimal {
	eligible := make([]StockLot, 0, len(lots))
	for _, lot := range lots {
		if !lot.PurchaseDate.After(asOf) {
			eligible = append(eligible, lot)
		}
	}
	return s.WeightedAverageCost(eligible)
}

// StockLevel returns total purchased minus total sold. The caller supplies
// the sold quantity from non-voided sales only.
func (s *CostingService) StockLevel(totalPurchased, totalSold decimal.Decimal) decimal.Decimal {
	return totalPurchased.Sub(totalSold)
}
