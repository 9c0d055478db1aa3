package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/domain/stock"
	"github.com/fueltrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockLotRepository implements stock.StockLotRepository using GORM
type GormStockLotRepository struct {
	db *gorm.DB
}

// NewGormStockLotRepository creates a new GormStockLotRepository
func NewGormStockLotRepository(db *gorm.DB) *GormStockLotRepository {
	return &GormStockLotRepository{db: db}
}

func (r *GormStockLotRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a stock lot by its ID
func (r *GormStockLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockLot, error) {
	var model models.StockLotModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all stock lots matching the filter
func (r *GormStockLotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockLot, error) {
	var lotModels []models.StockLotModel
	query := r.applyFilter(r.conn(ctx).Model(&models.StockLotModel{}), filter)
	if err := query.Find(&lotModels).Error; err != nil {
		return nil, err
	}

	lots := make([]stock.StockLot, len(lotModels))
	for i := range lotModels {
		lots[i] = *lotModels[i].ToDomain()
	}
	return lots, nil
}

// FindPurchasedOnOrBefore finds lots purchased on or before the given date
func (r *GormStockLotRepository) FindPurchasedOnOrBefore(ctx context.Context, date time.Time) ([]stock.StockLot, error) {
	var lotModels []models.StockLotModel
	if err := r.conn(ctx).
		Where("purchase_date <= ?", date).
		Order("purchase_date ASC").
		Find(&lotModels).Error; err != nil {
		return nil, err
	}

	lots := make([]stock.StockLot, len(lotModels))
	for i := range lotModels {
		lots[i] = *lotModels[i].ToDomain()
	}
	return lots, nil
}

// Save creates or updates a stock lot
func (r *GormStockLotRepository) Save(ctx context.Context, lot *stock.StockLot) error {
	model := models.StockLotModelFromDomain(lot)
	return r.conn(ctx).Save(model).Error
}

// SaveWithLock saves a stock lot with optimistic locking (version check)
func (r *GormStockLotRepository) SaveWithLock(ctx context.Context, lot *stock.StockLot) error {
	model := models.StockLotModelFromDomain(lot)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", lot.ID, lot.Version-1).
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

// Delete deletes a stock lot
func (r *GormStockLotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&models.StockLotModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts stock lots matching the filter
func (r *GormStockLotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.conn(ctx).Model(&models.StockLotModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantity totals purchased gallons across all lots
func (r *GormStockLotRepository) SumQuantity(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.conn(ctx).
		Model(&models.StockLotModel{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumQuantityExcluding totals purchased gallons leaving out one lot
func (r *GormStockLotRepository) SumQuantityExcluding(ctx context.Context, excludedID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.conn(ctx).
		Model(&models.StockLotModel{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("id <> ?", excludedID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormStockLotRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("supplier_name LIKE ? OR notes LIKE ?", pattern, pattern)
	}
	return query
}

func (r *GormStockLotRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockLotSortFields, "purchase_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}
