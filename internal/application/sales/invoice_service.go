package sales

import (
	"context"
	"time"

	"github.com/fueltrade/backend/internal/domain/allocation"
	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/settings"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService generates and manages invoices. Number assignment, amount
// freezing and the sale's state transition happen inside one transaction so a
// failed generation never burns a visible half-written invoice.
type InvoiceService struct {
	invoiceRepo    sales.InvoiceRepository
	saleRepo       sales.SaleRepository
	allocationRepo allocation.PaymentAllocationRepository
	settingsRepo   settings.Repository
	numberAlloc    sales.InvoiceNumberAllocator
	txManager      shared.TransactionManager
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo sales.InvoiceRepository,
	saleRepo sales.SaleRepository,
	allocationRepo allocation.PaymentAllocationRepository,
	settingsRepo settings.Repository,
	numberAlloc sales.InvoiceNumberAllocator,
	txManager shared.TransactionManager,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		saleRepo:       saleRepo,
		allocationRepo: allocationRepo,
		settingsRepo:   settingsRepo,
		numberAlloc:    numberAlloc,
		txManager:      txManager,
	}
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID               uuid.UUID       `json:"id"`
	InvoiceNumber    string          `json:"invoice_number"`
	SaleID           uuid.UUID       `json:"sale_id"`
	ClientID         uuid.UUID       `json:"client_id"`
	ClientName       string          `json:"client_name"`
	InvoiceDate      time.Time       `json:"invoice_date"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	VatAmount        decimal.Decimal `json:"vat_amount"`
	AllocatedAmount  decimal.Decimal `json:"allocated_amount"`
	Status           string          `json:"status"`
	AllocationStatus string          `json:"allocation_status"`
	SentAt           *time.Time      `json:"sent_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// GenerateInvoiceRequest requests invoice generation for a sale
type GenerateInvoiceRequest struct {
	SaleID      uuid.UUID  `json:"sale_id" binding:"required"`
	InvoiceDate *time.Time `json:"invoice_date"`
}

// UpdateInvoiceRequest corrects the invoice number or date. Amounts stay
// frozen from generation time.
type UpdateInvoiceRequest struct {
	InvoiceNumber string    `json:"invoice_number" binding:"required"`
	InvoiceDate   time.Time `json:"invoice_date" binding:"required"`
}

// GenerateInvoice assigns the next sequential number for the configured
// prefix and raises the invoice, moving the sale to INVOICED. Numbers are
// monotonic and never reused, so a later void leaves a gap.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, req GenerateInvoiceRequest) (*InvoiceResponse, error) {
	var invoice *sales.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.FindByID(ctx, req.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return shared.NewDomainError("NOT_FOUND", "Sale not found")
		}

		exists, err := s.invoiceRepo.ExistsForSale(ctx, req.SaleID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_INVOICED", "Sale has already been invoiced")
		}

		cfg, err := s.settingsRepo.Get(ctx)
		if err != nil {
			return err
		}

		invoiceDate := time.Now()
		if req.InvoiceDate != nil {
			invoiceDate = *req.InvoiceDate
		}

		seq, err := s.numberAlloc.Next(ctx, cfg.InvoicePrefix, invoiceDate.Year())
		if err != nil {
			return err
		}
		number := sales.FormatInvoiceNumber(cfg.InvoicePrefix, invoiceDate.Year(), seq)

		invoice, err = sales.NewInvoice(sale, number, invoiceDate)
		if err != nil {
			return err
		}
		if err := sale.MarkInvoiced(invoiceDate); err != nil {
			return err
		}

		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return err
		}
		return s.saleRepo.SaveWithLock(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return s.toInvoiceResponse(ctx, invoice)
}

// GetInvoiceByID gets an invoice by ID
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return s.toInvoiceResponse(ctx, invoice)
}

// GetInvoiceBySale gets the invoice raised against a sale, if any
func (s *InvoiceService) GetInvoiceBySale(ctx context.Context, saleID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "No invoice exists for this sale")
	}
	return s.toInvoiceResponse(ctx, invoice)
}

// ListInvoices lists invoices with pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, filter shared.Filter) ([]InvoiceResponse, int64, error) {
	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		resp, err := s.toInvoiceResponse(ctx, &invoices[i])
		if err != nil {
			return nil, 0, err
		}
		responses[i] = *resp
	}
	return responses, total, nil
}

// UpdateInvoice corrects the invoice number or date
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	if req.InvoiceNumber != invoice.InvoiceNumber {
		existing, err := s.invoiceRepo.FindByNumber(ctx, req.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Invoice number is already in use")
		}
	}

	if err := invoice.UpdateDetails(req.InvoiceNumber, req.InvoiceDate); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return s.toInvoiceResponse(ctx, invoice)
}

// MarkInvoiceSent marks an invoice as sent to the client
func (s *InvoiceService) MarkInvoiceSent(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	if err := invoice.MarkSent(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return s.toInvoiceResponse(ctx, invoice)
}

func (s *InvoiceService) toInvoiceResponse(ctx context.Context, invoice *sales.Invoice) (*InvoiceResponse, error) {
	allocated, err := s.allocationRepo.SumByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	return &InvoiceResponse{
		ID:               invoice.ID,
		InvoiceNumber:    invoice.InvoiceNumber,
		SaleID:           invoice.SaleID,
		ClientID:         invoice.ClientID,
		ClientName:       invoice.ClientName,
		InvoiceDate:      invoice.InvoiceDate,
		TotalAmount:      invoice.TotalAmount,
		VatAmount:        invoice.VatAmount,
		AllocatedAmount:  allocated,
		Status:           string(invoice.Status),
		AllocationStatus: string(sales.DeriveAllocationStatus(allocated, invoice.TotalAmount)),
		SentAt:           invoice.SentAt,
		CreatedAt:        invoice.CreatedAt,
		UpdatedAt:        invoice.UpdatedAt,
		Version:          invoice.Version,
	}, nil
}
