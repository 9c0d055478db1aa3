package stock

import (
	"context"
	"time"

	"github.com/fueltrade/backend/internal/domain/allocation"
	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockService provides application-level stock ledger operations
type StockService struct {
	lotRepo     stock.StockLotRepository
	saleRepo    sales.SaleRepository
	advanceRepo allocation.SupplierAdvanceAllocationRepository
	costing     *stock.CostingService
	txManager   shared.TransactionManager
}

// NewStockService creates a new StockService
func NewStockService(
	lotRepo stock.StockLotRepository,
	saleRepo sales.SaleRepository,
	advanceRepo allocation.SupplierAdvanceAllocationRepository,
	costing *stock.CostingService,
	txManager shared.TransactionManager,
) *StockService {
	return &StockService{
		lotRepo:     lotRepo,
		saleRepo:    saleRepo,
		advanceRepo: advanceRepo,
		costing:     costing,
		txManager:   txManager,
	}
}

// StockLotResponse represents a stock lot in API responses
type StockLotResponse struct {
	ID            uuid.UUID       `json:"id"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	VatPercentage decimal.Decimal `json:"vat_percentage"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	AdvancedPaid  decimal.Decimal `json:"advance_paid"`
	SupplierName  string          `json:"supplier_name"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// CreateStockLotRequest represents a request to record a fuel purchase
type CreateStockLotRequest struct {
	PurchaseDate  time.Time       `json:"purchase_date" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost      decimal.Decimal `json:"unit_cost" binding:"required"`
	VatPercentage decimal.Decimal `json:"vat_percentage"`
	SupplierName  string          `json:"supplier_name"`
	Notes         string          `json:"notes"`
}

// UpdateStockLotRequest represents a request to correct a recorded purchase
type UpdateStockLotRequest struct {
	PurchaseDate  time.Time       `json:"purchase_date" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost      decimal.Decimal `json:"unit_cost" binding:"required"`
	VatPercentage decimal.Decimal `json:"vat_percentage"`
	SupplierName  string          `json:"supplier_name"`
	Notes         string          `json:"notes"`
}

// StockSummaryResponse reports the current position of the fuel inventory
type StockSummaryResponse struct {
	CurrentStockLevel   decimal.Decimal `json:"current_stock_level"`
	TotalPurchased      decimal.Decimal `json:"total_purchased"`
	TotalSold           decimal.Decimal `json:"total_sold"`
	WeightedAverageCost decimal.Decimal `json:"weighted_average_cost"`
	StockValue          decimal.Decimal `json:"stock_value"`
}

// CreateStockLot records a new fuel purchase lot
func (s *StockService) CreateStockLot(ctx context.Context, req CreateStockLotRequest) (*StockLotResponse, error) {
	lot, err := stock.NewStockLot(req.PurchaseDate, req.Quantity, req.UnitCost, req.VatPercentage, req.SupplierName, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.lotRepo.Save(ctx, lot); err != nil {
		return nil, err
	}

	return s.toStockLotResponse(ctx, lot)
}

// GetStockLotByID gets a stock lot by ID
func (s *StockService) GetStockLotByID(ctx context.Context, id uuid.UUID) (*StockLotResponse, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Stock lot not found")
	}
	return s.toStockLotResponse(ctx, lot)
}

// ListStockLots lists stock lots with pagination
func (s *StockService) ListStockLots(ctx context.Context, filter shared.Filter) ([]StockLotResponse, int64, error) {
	lots, err := s.lotRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.lotRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockLotResponse, len(lots))
	for i := range lots {
		resp, err := s.toStockLotResponse(ctx, &lots[i])
		if err != nil {
			return nil, 0, err
		}
		responses[i] = *resp
	}
	return responses, total, nil
}

// UpdateStockLot corrects a recorded purchase. The edit fails closed when the
// resulting stock level would not cover what has already been sold, or when
// the reduced cost would fall below advances already allocated to the lot.
func (s *StockService) UpdateStockLot(ctx context.Context, id uuid.UUID, req UpdateStockLotRequest) (*StockLotResponse, error) {
	var lot *stock.StockLot
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		lot, err = s.lotRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if lot == nil {
			return shared.NewDomainError("NOT_FOUND", "Stock lot not found")
		}

		if err := s.checkHypotheticalLevel(ctx, id, req.Quantity); err != nil {
			return err
		}

		if err := lot.UpdateAmounts(req.Quantity, req.UnitCost, req.VatPercentage); err != nil {
			return err
		}
		lot.SetDetails(req.PurchaseDate, req.SupplierName, req.Notes)

		advanced, err := s.advanceRepo.SumByLot(ctx, id)
		if err != nil {
			return err
		}
		if lot.TotalCost.LessThan(advanced) {
			return shared.NewDomainError("LOT_COST_BELOW_ADVANCES",
				"Lot total cost cannot fall below supplier advances already allocated to it")
		}

		return s.lotRepo.SaveWithLock(ctx, lot)
	})
	if err != nil {
		return nil, err
	}
	return s.toStockLotResponse(ctx, lot)
}

// DeleteStockLot removes a purchase record. Rejected when supplier advances
// reference the lot or when removing it would underflow the inventory.
func (s *StockService) DeleteStockLot(ctx context.Context, id uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		lot, err := s.lotRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if lot == nil {
			return shared.NewDomainError("NOT_FOUND", "Stock lot not found")
		}

		advances, err := s.advanceRepo.CountByLot(ctx, id)
		if err != nil {
			return err
		}
		if advances > 0 {
			return shared.NewDomainError("LOT_HAS_ALLOCATIONS",
				"Cannot delete a stock lot with supplier advances allocated to it")
		}

		if err := s.checkHypotheticalLevel(ctx, id, decimal.Zero); err != nil {
			return err
		}

		return s.lotRepo.Delete(ctx, id)
	})
}

// GetStockSummary reports the current inventory position
func (s *StockService) GetStockSummary(ctx context.Context) (*StockSummaryResponse, error) {
	purchased, err := s.lotRepo.SumQuantity(ctx)
	if err != nil {
		return nil, err
	}
	sold, err := s.saleRepo.SumQuantitySold(ctx)
	if err != nil {
		return nil, err
	}

	lots, err := s.lotRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: -1})
	if err != nil {
		return nil, err
	}
	avgCost := s.costing.WeightedAverageCost(lots)
	level := purchased.Sub(sold)

	return &StockSummaryResponse{
		CurrentStockLevel:   level,
		TotalPurchased:      purchased,
		TotalSold:           sold,
		WeightedAverageCost: avgCost,
		StockValue:          level.Mul(avgCost).Round(2),
	}, nil
}

// checkHypotheticalLevel verifies that sold quantity stays covered after the
// lot's quantity is replaced with newQuantity (zero models a delete).
func (s *StockService) checkHypotheticalLevel(ctx context.Context, lotID uuid.UUID, newQuantity decimal.Decimal) error {
	otherLots, err := s.lotRepo.SumQuantityExcluding(ctx, lotID)
	if err != nil {
		return err
	}
	sold, err := s.saleRepo.SumQuantitySold(ctx)
	if err != nil {
		return err
	}
	if otherLots.Add(newQuantity).LessThan(sold) {
		return shared.NewDomainError("WOULD_UNDERFLOW_INVENTORY",
			"Change would leave less stock than has already been sold")
	}
	return nil
}

func (s *StockService) toStockLotResponse(ctx context.Context, lot *stock.StockLot) (*StockLotResponse, error) {
	advanced, err := s.advanceRepo.SumByLot(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	return &StockLotResponse{
		ID:            lot.ID,
		PurchaseDate:  lot.PurchaseDate,
		Quantity:      lot.Quantity,
		UnitCost:      lot.UnitCost,
		VatPercentage: lot.VatPercentage,
		TotalCost:     lot.TotalCost,
		AdvancedPaid:  advanced,
		SupplierName:  lot.SupplierName,
		Notes:         lot.Notes,
		CreatedAt:     lot.CreatedAt,
		UpdatedAt:     lot.UpdatedAt,
		Version:       lot.Version,
	}, nil
}
