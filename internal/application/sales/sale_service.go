package sales

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

// SaleService provides application-level sale record operations
type SaleService struct {
	saleRepo       sales.SaleRepository
	invoiceRepo    sales.InvoiceRepository
	lotRepo        stock.StockLotRepository
	allocationRepo allocation.PaymentAllocationRepository
	costing        *stock.CostingService
	txManager      shared.TransactionManager
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sales.SaleRepository,
	invoiceRepo sales.InvoiceRepository,
	lotRepo stock.StockLotRepository,
	allocationRepo allocation.PaymentAllocationRepository,
	costing *stock.CostingService,
	txManager shared.TransactionManager,
) *SaleService {
	return &SaleService{
		saleRepo:       saleRepo,
		invoiceRepo:    invoiceRepo,
		lotRepo:        lotRepo,
		allocationRepo: allocationRepo,
		costing:        costing,
		txManager:      txManager,
	}
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID                    uuid.UUID       `json:"id"`
	ClientID              uuid.UUID       `json:"client_id"`
	ClientName            string          `json:"client_name"`
	ProjectName           string          `json:"project_name,omitempty"`
	SaleDate              time.Time       `json:"sale_date"`
	Quantity              decimal.Decimal `json:"quantity"`
	UnitPrice             decimal.Decimal `json:"unit_price"`
	PurchaseCostPerGallon decimal.Decimal `json:"purchase_cost_per_gallon"`
	VatPercentage         decimal.Decimal `json:"vat_percentage"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	VatAmount             decimal.Decimal `json:"vat_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	PendingAmount         decimal.Decimal `json:"pending_amount"`
	GrossProfit           decimal.Decimal `json:"gross_profit"`
	LPONumber             string          `json:"lpo_number,omitempty"`
	LPODueDate            *time.Time      `json:"lpo_due_date,omitempty"`
	InvoiceDate           *time.Time      `json:"invoice_date,omitempty"`
	Status                string          `json:"status"`
	Voided                bool            `json:"voided"`
	VoidedAt              *time.Time      `json:"voided_at,omitempty"`
	VoidReason            string          `json:"void_reason,omitempty"`
	PaidAt                *time.Time      `json:"paid_at,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Version               int             `json:"version"`
}

// CreateSaleRequest represents a request to record a fuel sale
type CreateSaleRequest struct {
	ClientID      uuid.UUID       `json:"client_id" binding:"required"`
	ClientName    string          `json:"client_name" binding:"required"`
	ProjectName   string          `json:"project_name"`
	SaleDate      time.Time       `json:"sale_date" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"required"`
	VatPercentage decimal.Decimal `json:"vat_percentage"`
	LPONumber     string          `json:"lpo_number"`
	LPODueDate    *time.Time      `json:"lpo_due_date"`
	Notes         string          `json:"notes"`
}

// UpdateSaleRequest represents a request to correct a recorded sale
type UpdateSaleRequest struct {
	ClientName    string          `json:"client_name" binding:"required"`
	ProjectName   string          `json:"project_name"`
	SaleDate      time.Time       `json:"sale_date" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"required"`
	VatPercentage decimal.Decimal `json:"vat_percentage"`
	Notes         string          `json:"notes"`
}

// RecordLPORequest records the client's purchase order against a sale
type RecordLPORequest struct {
	LPONumber  string     `json:"lpo_number" binding:"required"`
	LPODueDate *time.Time `json:"lpo_due_date"`
}

// CreateSale records a sale. The purchase cost per gallon is snapshotted from
// the weighted-average cost of the lots on hand at this moment, and the sale
// quantity must be covered by the current stock level.
func (s *SaleService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	var sale *sales.Sale
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		purchased, err := s.lotRepo.SumQuantity(ctx)
		if err != nil {
			return err
		}
		sold, err := s.saleRepo.SumQuantitySold(ctx)
		if err != nil {
			return err
		}
		if purchased.Sub(sold).LessThan(req.Quantity) {
			return shared.NewDomainError("WOULD_UNDERFLOW_INVENTORY",
				"Sale quantity exceeds the current stock level")
		}

		lots, err := s.lotRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: -1})
		if err != nil {
			return err
		}
		costSnapshot := s.costing.WeightedAverageCostAsOf(lots, req.SaleDate)

		sale, err = sales.NewSale(
			req.ClientID, req.ClientName, req.ProjectName, req.SaleDate,
			req.Quantity, req.UnitPrice, costSnapshot, req.VatPercentage,
			req.LPONumber, req.LPODueDate)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			sale.Notes = req.Notes
		}

		return s.saleRepo.Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// GetSaleByID gets a sale by ID
func (s *SaleService) GetSaleByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}
	return toSaleResponse(sale), nil
}

// ListSales lists sales with pagination
func (s *SaleService) ListSales(ctx context.Context, filter shared.Filter) ([]SaleResponse, int64, error) {
	items, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(items))
	for i := range items {
		responses[i] = *toSaleResponse(&items[i])
	}
	return responses, total, nil
}

// UpdateSale corrects a recorded sale. Amount edits are rejected once any
// payment is allocated; increasing the quantity re-checks stock coverage.
func (s *SaleService) UpdateSale(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	var sale *sales.Sale
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.saleRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return shared.NewDomainError("NOT_FOUND", "Sale not found")
		}

		if req.Quantity.GreaterThan(sale.Quantity) {
			purchased, err := s.lotRepo.SumQuantity(ctx)
			if err != nil {
				return err
			}
			sold, err := s.saleRepo.SumQuantitySold(ctx)
			if err != nil {
				return err
			}
			extra := req.Quantity.Sub(sale.Quantity)
			if purchased.Sub(sold).LessThan(extra) {
				return shared.NewDomainError("WOULD_UNDERFLOW_INVENTORY",
					"Increased sale quantity exceeds the current stock level")
			}
		}

		if err := sale.UpdateAmounts(req.Quantity, req.UnitPrice, req.VatPercentage); err != nil {
			return err
		}
		sale.SetDetails(req.ClientName, req.ProjectName, req.SaleDate, req.Notes)

		return s.saleRepo.SaveWithLock(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// RecordLPO records the client's purchase order number for a sale
func (s *SaleService) RecordLPO(ctx context.Context, id uuid.UUID, req RecordLPORequest) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	if err := sale.RecordLPO(req.LPONumber, req.LPODueDate); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// VoidSale voids a sale, removing it from stock consumption and revenue
func (s *SaleService) VoidSale(ctx context.Context, id uuid.UUID, reason string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}

	if err := sale.Void(reason); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// DeleteSale removes a sale record entirely. Only un-invoiced sales without
// payments can be deleted; anything later is voided instead to keep the
// invoice numbering audit trail intact.
func (s *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return shared.NewDomainError("NOT_FOUND", "Sale not found")
		}
		if sale.HasPayments() {
			return shared.NewDomainError("SALE_HAS_PAYMENTS",
				"Cannot delete a sale with allocated payments")
		}
		invoiced, err := s.invoiceRepo.ExistsForSale(ctx, id)
		if err != nil {
			return err
		}
		if invoiced {
			return shared.NewDomainError("ALREADY_INVOICED",
				"Cannot delete an invoiced sale; void it instead")
		}
		return s.saleRepo.Delete(ctx, id)
	})
}

func toSaleResponse(sale *sales.Sale) *SaleResponse {
	return &SaleResponse{
		ID:                    sale.ID,
		ClientID:              sale.ClientID,
		ClientName:            sale.ClientName,
		ProjectName:           sale.ProjectName,
		SaleDate:              sale.SaleDate,
		Quantity:              sale.Quantity,
		UnitPrice:             sale.UnitPrice,
		PurchaseCostPerGallon: sale.PurchaseCostPerGallon,
		VatPercentage:         sale.VatPercentage,
		Subtotal:              sale.Subtotal,
		VatAmount:             sale.VatAmount,
		TotalAmount:           sale.TotalAmount,
		PendingAmount:         sale.PendingAmount,
		GrossProfit:           sale.GrossProfit(),
		LPONumber:             sale.LPONumber,
		LPODueDate:            sale.LPODueDate,
		InvoiceDate:           sale.InvoiceDate,
		Status:                string(sale.Status),
		Voided:                sale.Voided,
		VoidedAt:              sale.VoidedAt,
		VoidReason:            sale.VoidReason,
		PaidAt:                sale.PaidAt,
		Notes:                 sale.Notes,
		CreatedAt:             sale.CreatedAt,
		UpdatedAt:             sale.UpdatedAt,
		Version:               sale.Version,
	}
}
