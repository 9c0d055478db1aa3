package persistence

import (
	"context"
	"time"

	"github.com/fueltrade/backend/internal/application/report"
	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportReadRepository implements report.ReadRepository with direct SQL
// over the invoice and sale tables, bypassing the aggregate repositories.
type GormReportReadRepository struct {
	db *gorm.DB
}

// NewGormReportReadRepository creates a new GormReportReadRepository
func NewGormReportReadRepository(db *gorm.DB) *GormReportReadRepository {
	return &GormReportReadRepository{db: db}
}

// OverdueInvoices returns invoices issued on or before invoicedBefore whose
// sales still carry a pending balance. Voided sales never show up here.
func (r *GormReportReadRepository) OverdueInvoices(ctx context.Context, invoicedBefore time.Time) ([]report.OverdueInvoiceRow, error) {
	type overdueResult struct {
		InvoiceID     uuid.UUID
		InvoiceNumber string
		InvoiceDate   time.Time
		ClientID      uuid.UUID
		ClientName    string
		TotalAmount   decimal.Decimal
		PendingAmount decimal.Decimal
	}

	var results []overdueResult

	err := r.db.WithContext(ctx).Table("invoices i").
		Select(`
			i.id as invoice_id,
			i.invoice_number,
			i.invoice_date,
			i.client_id,
			i.client_name,
			i.total_amount,
			s.pending_amount
		`).
		Joins("JOIN sales s ON s.id = i.sale_id").
		Where("i.invoice_date < ?", invoicedBefore).
		Where("s.voided = ?", false).
		Where("s.status <> ?", string(sales.SaleStatusPaid)).
		Where("s.pending_amount > 0").
		Order("i.invoice_date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	rows := make([]report.OverdueInvoiceRow, len(results))
	for i, res := range results {
		rows[i] = report.OverdueInvoiceRow{
			InvoiceID:     res.InvoiceID,
			InvoiceNumber: res.InvoiceNumber,
			InvoiceDate:   res.InvoiceDate,
			ClientID:      res.ClientID,
			ClientName:    res.ClientName,
			TotalAmount:   res.TotalAmount,
			PendingAmount: res.PendingAmount,
		}
	}
	return rows, nil
}
