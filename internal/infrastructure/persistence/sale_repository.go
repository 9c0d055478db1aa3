package persistence

import (
	"context"
	"errors"

	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	query := r.applyFilter(r.conn(ctx).Model(&models.SaleModel{}), filter)
	return r.findSales(query)
}

// FindByClient finds a client's sales
func (r *GormSaleRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	query := r.applyFilter(r.conn(ctx).Model(&models.SaleModel{}).Where("client_id = ?", clientID), filter)
	return r.findSales(query)
}

// FindByStatus finds sales in the given status
func (r *GormSaleRepository) FindByStatus(ctx context.Context, status sales.SaleStatus, filter shared.Filter) ([]sales.Sale, error) {
	query := r.applyFilter(r.conn(ctx).Model(&models.SaleModel{}).Where("status = ?", status), filter)
	return r.findSales(query)
}

func (r *GormSaleRepository) findSales(query *gorm.DB) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}

	result := make([]sales.Sale, len(saleModels))
	for i := range saleModels {
		result[i] = *saleModels[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.conn(ctx).Save(model).Error
}

// SaveWithLock saves a sale with optimistic locking (version check)
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", sale.ID, sale.Version-1).
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

// Delete deletes a sale
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.conn(ctx).Model(&models.SaleModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts non-voided sales in the given status
func (r *GormSaleRepository) CountByStatus(ctx context.Context, status sales.SaleStatus) (int64, error) {
	var count int64
	if err := r.conn(ctx).
		Model(&models.SaleModel{}).
		Where("status = ? AND voided = ?", status, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantitySold totals gallons across non-voided sales
func (r *GormSaleRepository) SumQuantitySold(ctx context.Context) (decimal.Decimal, error) {
	return r.sumColumn(ctx, "quantity", nil)
}

// SumPendingByStatus totals outstanding amounts for non-voided sales in a status
func (r *GormSaleRepository) SumPendingByStatus(ctx context.Context, status sales.SaleStatus) (decimal.Decimal, error) {
	return r.sumColumn(ctx, "pending_amount", &status)
}

// SumTotalByStatus totals sale amounts for non-voided sales in a status
func (r *GormSaleRepository) SumTotalByStatus(ctx context.Context, status sales.SaleStatus) (decimal.Decimal, error) {
	return r.sumColumn(ctx, "total_amount", &status)
}

func (r *GormSaleRepository) sumColumn(ctx context.Context, column string, status *sales.SaleStatus) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.conn(ctx).
		Model(&models.SaleModel{}).
		Select("COALESCE(SUM("+column+"), 0) as total").
		Where("voided = ?", false)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormSaleRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("client_name LIKE ? OR project_name LIKE ? OR lpo_number LIKE ?",
			pattern, pattern, pattern)
	}
	return query
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "sale_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}
