package persistence

import (
	"context"
	"errors"

	"github.com/fueltrade/backend/internal/domain/allocation"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentAllocationRepository implements allocation.PaymentAllocationRepository using GORM
type GormPaymentAllocationRepository struct {
	db *gorm.DB
}

// NewGormPaymentAllocationRepository creates a new GormPaymentAllocationRepository
func NewGormPaymentAllocationRepository(db *gorm.DB) *GormPaymentAllocationRepository {
	return &GormPaymentAllocationRepository{db: db}
}

func (r *GormPaymentAllocationRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Save persists a payment allocation
func (r *GormPaymentAllocationRepository) Save(ctx context.Context, alloc *allocation.PaymentAllocation) error {
	model := models.PaymentAllocationModelFromDomain(alloc)
	return r.conn(ctx).Create(model).Error
}

// SaveAll persists a batch of payment allocations
func (r *GormPaymentAllocationRepository) SaveAll(ctx context.Context, allocs []*allocation.PaymentAllocation) error {
	if len(allocs) == 0 {
		return nil
	}
	allocModels := make([]*models.PaymentAllocationModel, len(allocs))
	for i, a := range allocs {
		allocModels[i] = models.PaymentAllocationModelFromDomain(a)
	}
	return r.conn(ctx).Create(allocModels).Error
}

// FindByID finds a payment allocation by its ID
func (r *GormPaymentAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*allocation.PaymentAllocation, error) {
	var model models.PaymentAllocationModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEntry finds all allocations drawn from one cashbook entry
func (r *GormPaymentAllocationRepository) FindByEntry(ctx context.Context, entryID uuid.UUID) ([]*allocation.PaymentAllocation, error) {
	return r.findWhere(ctx, "cashbook_entry_id = ?", entryID)
}

// FindByInvoice finds all allocations applied to one invoice
func (r *GormPaymentAllocationRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*allocation.PaymentAllocation, error) {
	return r.findWhere(ctx, "invoice_id = ?", invoiceID)
}

// FindBySale finds all allocations applied to one sale
func (r *GormPaymentAllocationRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*allocation.PaymentAllocation, error) {
	return r.findWhere(ctx, "sale_id = ?", saleID)
}

func (r *GormPaymentAllocationRepository) findWhere(ctx context.Context, cond string, arg any) ([]*allocation.PaymentAllocation, error) {
	var allocModels []models.PaymentAllocationModel
	if err := r.conn(ctx).
		Where(cond, arg).
		Order("created_at ASC").
		Find(&allocModels).Error; err != nil {
		return nil, err
	}

	allocs := make([]*allocation.PaymentAllocation, len(allocModels))
	for i := range allocModels {
		allocs[i] = allocModels[i].ToDomain()
	}
	return allocs, nil
}

// SumByEntry totals the amounts drawn from one cashbook entry
func (r *GormPaymentAllocationRepository) SumByEntry(ctx context.Context, entryID uuid.UUID) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "cashbook_entry_id = ?", entryID)
}

// SumByInvoice totals the amounts applied to one invoice
func (r *GormPaymentAllocationRepository) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "invoice_id = ?", invoiceID)
}

func (r *GormPaymentAllocationRepository) sumWhere(ctx context.Context, cond string, arg any) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.conn(ctx).
		Model(&models.PaymentAllocationModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where(cond, arg).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountByEntry counts the allocations drawn from one cashbook entry
func (r *GormPaymentAllocationRepository) CountByEntry(ctx context.Context, entryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&models.PaymentAllocationModel{}).
		Where("cashbook_entry_id = ?", entryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete deletes a payment allocation
func (r *GormPaymentAllocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&models.PaymentAllocationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByEntry deletes all allocations drawn from one cashbook entry
func (r *GormPaymentAllocationRepository) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	return r.conn(ctx).Delete(&models.PaymentAllocationModel{}, "cashbook_entry_id = ?", entryID).Error
}

// GormSupplierAdvanceAllocationRepository implements allocation.SupplierAdvanceAllocationRepository using GORM
type GormSupplierAdvanceAllocationRepository struct {
	db *gorm.DB
}

// NewGormSupplierAdvanceAllocationRepository creates a new GormSupplierAdvanceAllocationRepository
func NewGormSupplierAdvanceAllocationRepository(db *gorm.DB) *GormSupplierAdvanceAllocationRepository {
	return &GormSupplierAdvanceAllocationRepository{db: db}
}

func (r *GormSupplierAdvanceAllocationRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Save persists a supplier advance allocation
func (r *GormSupplierAdvanceAllocationRepository) Save(ctx context.Context, alloc *allocation.SupplierAdvanceAllocation) error {
	model := models.SupplierAdvanceAllocationModelFromDomain(alloc)
	return r.conn(ctx).Create(model).Error
}

// SaveAll persists a batch of supplier advance allocations
func (r *GormSupplierAdvanceAllocationRepository) SaveAll(ctx context.Context, allocs []*allocation.SupplierAdvanceAllocation) error {
	if len(allocs) == 0 {
		return nil
	}
	allocModels := make([]*models.SupplierAdvanceAllocationModel, len(allocs))
	for i, a := range allocs {
		allocModels[i] = models.SupplierAdvanceAllocationModelFromDomain(a)
	}
	return r.conn(ctx).Create(allocModels).Error
}

// FindByID finds a supplier advance allocation by its ID
func (r *GormSupplierAdvanceAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*allocation.SupplierAdvanceAllocation, error) {
	var model models.SupplierAdvanceAllocationModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEntry finds all advances drawn from one cashbook entry
func (r *GormSupplierAdvanceAllocationRepository) FindByEntry(ctx context.Context, entryID uuid.UUID) ([]*allocation.SupplierAdvanceAllocation, error) {
	return r.findWhere(ctx, "cashbook_entry_id = ?", entryID)
}

// FindByLot finds all advances applied to one stock lot
func (r *GormSupplierAdvanceAllocationRepository) FindByLot(ctx context.Context, lotID uuid.UUID) ([]*allocation.SupplierAdvanceAllocation, error) {
	return r.findWhere(ctx, "stock_lot_id = ?", lotID)
}

func (r *GormSupplierAdvanceAllocationRepository) findWhere(ctx context.Context, cond string, arg any) ([]*allocation.SupplierAdvanceAllocation, error) {
	var allocModels []models.SupplierAdvanceAllocationModel
	if err := r.conn(ctx).
		Where(cond, arg).
		Order("created_at ASC").
		Find(&allocModels).Error; err != nil {
		return nil, err
	}

	allocs := make([]*allocation.SupplierAdvanceAllocation, len(allocModels))
	for i := range allocModels {
		allocs[i] = allocModels[i].ToDomain()
	}
	return allocs, nil
}

// SumByEntry totals the amounts drawn from one cashbook entry
func (r *GormSupplierAdvanceAllocationRepository) SumByEntry(ctx context.Context, entryID uuid.UUID) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "cashbook_entry_id = ?", entryID)
}

// SumByLot totals the amounts advanced against one stock lot
func (r *GormSupplierAdvanceAllocationRepository) SumByLot(ctx context.Context, lotID uuid.UUID) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "stock_lot_id = ?", lotID)
}

func (r *GormSupplierAdvanceAllocationRepository) sumWhere(ctx context.Context, cond string, arg any) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.conn(ctx).
		Model(&models.SupplierAdvanceAllocationModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where(cond, arg).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountByEntry counts the advances drawn from one cashbook entry
func (r *GormSupplierAdvanceAllocationRepository) CountByEntry(ctx context.Context, entryID uuid.UUID) (int64, error) {
	return r.countWhere(ctx, "cashbook_entry_id = ?", entryID)
}

// CountByLot counts the advances applied to one stock lot
func (r *GormSupplierAdvanceAllocationRepository) CountByLot(ctx context.Context, lotID uuid.UUID) (int64, error) {
	return r.countWhere(ctx, "stock_lot_id = ?", lotID)
}

func (r *GormSupplierAdvanceAllocationRepository) countWhere(ctx context.Context, cond string, arg any) (int64, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&models.SupplierAdvanceAllocationModel{}).
		Where(cond, arg).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete deletes a supplier advance allocation
func (r *GormSupplierAdvanceAllocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&models.SupplierAdvanceAllocationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByEntry deletes all advances drawn from one cashbook entry
func (r *GormSupplierAdvanceAllocationRepository) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	return r.conn(ctx).Delete(&models.SupplierAdvanceAllocationModel{}, "cashbook_entry_id = ?", entryID).Error
}
