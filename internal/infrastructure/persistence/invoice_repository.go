package persistence

import (
	"context"
	"errors"

	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements sales.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySaleID finds the invoice raised for a sale
func (r *GormInvoiceRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*sales.Invoice, error) {
	return r.findOne(ctx, "sale_id = ?", saleID)
}

// FindByNumber finds an invoice by its number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*sales.Invoice, error) {
	return r.findOne(ctx, "invoice_number = ?", invoiceNumber)
}

func (r *GormInvoiceRepository) findOne(ctx context.Context, cond string, arg any) (*sales.Invoice, error) {
	var model models.InvoiceModel
	if err := r.conn(ctx).First(&model, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.conn(ctx).Model(&models.InvoiceModel{}), filter)
	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]sales.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *sales.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.conn(ctx).Save(model).Error
}

// SaveWithLock saves an invoice with optimistic locking (version check)
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *sales.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes an invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.conn(ctx).Model(&models.InvoiceModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForSale reports whether an invoice has been raised for the sale
func (r *GormInvoiceRepository) ExistsForSale(ctx context.Context, saleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&models.InvoiceModel{}).
		Where("sale_id = ?", saleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormInvoiceRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number LIKE ? OR client_name LIKE ?", pattern, pattern)
	}
	return query
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "invoice_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// GormInvoiceNumberAllocator implements sales.InvoiceNumberAllocator on a
// per prefix/year counter row. The upsert increments and reads back in one
// statement, so concurrent generators serialize on the row lock and never
// see the same value.
type GormInvoiceNumberAllocator struct {
	db *gorm.DB
}

// NewGormInvoiceNumberAllocator creates a new GormInvoiceNumberAllocator
func NewGormInvoiceNumberAllocator(db *gorm.DB) *GormInvoiceNumberAllocator {
	return &GormInvoiceNumberAllocator{db: db}
}

// Next hands out the next sequence value for the prefix/year pair
func (a *GormInvoiceNumberAllocator) Next(ctx context.Context, prefix string, year int) (int64, error) {
	conn := dbFromContext(ctx, a.db).WithContext(ctx)

	seq := models.InvoiceSequenceModel{Prefix: prefix, Year: year, Value: 1}
	if err := conn.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "prefix"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]any{"value": gorm.Expr("invoice_sequences.value + 1")}),
		}).
		Create(&seq).Error; err != nil {
		return 0, err
	}

	// Create does not read back the conflict-updated value, so fetch it
	// under the same transaction.
	var current models.InvoiceSequenceModel
	if err := conn.
		Where("prefix = ? AND year = ?", prefix, year).
		First(&current).Error; err != nil {
		return 0, err
	}
	return current.Value, nil
}
