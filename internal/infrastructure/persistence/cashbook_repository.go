package persistence

import (
	"context"
	"errors"

	"github.com/fueltrade/backend/internal/domain/cashbook"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAccountHeadRepository implements cashbook.AccountHeadRepository using GORM
type GormAccountHeadRepository struct {
	db *gorm.DB
}

// NewGormAccountHeadRepository creates a new GormAccountHeadRepository
func NewGormAccountHeadRepository(db *gorm.DB) *GormAccountHeadRepository {
	return &GormAccountHeadRepository{db: db}
}

func (r *GormAccountHeadRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds an account head by its ID
func (r *GormAccountHeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashbook.AccountHead, error) {
	var model models.AccountHeadModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all account heads matching the filter
func (r *GormAccountHeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]cashbook.AccountHead, error) {
	query := r.applyFilter(r.conn(ctx).Model(&models.AccountHeadModel{}), filter)
	return r.findHeads(query)
}

// FindByKind finds account heads of the given kind
func (r *GormAccountHeadRepository) FindByKind(ctx context.Context, kind cashbook.AccountHeadKind, filter shared.Filter) ([]cashbook.AccountHead, error) {
	query := r.applyFilter(r.conn(ctx).Model(&models.AccountHeadModel{}).Where("kind = ?", kind), filter)
	return r.findHeads(query)
}

func (r *GormAccountHeadRepository) findHeads(query *gorm.DB) ([]cashbook.AccountHead, error) {
	var headModels []models.AccountHeadModel
	if err := query.Find(&headModels).Error; err != nil {
		return nil, err
	}

	heads := make([]cashbook.AccountHead, len(headModels))
	for i := range headModels {
		heads[i] = *headModels[i].ToDomain()
	}
	return heads, nil
}

// Save creates or updates an account head
func (r *GormAccountHeadRepository) Save(ctx context.Context, head *cashbook.AccountHead) error {
	model := models.AccountHeadModelFromDomain(head)
	return r.conn(ctx).Save(model).Error
}

// Delete deletes an account head
func (r *GormAccountHeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&models.AccountHeadModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts account heads matching the filter
func (r *GormAccountHeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.conn(ctx).Model(&models.AccountHeadModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAccountHeadRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", pattern, pattern)
	}
	return query
}

func (r *GormAccountHeadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AccountHeadSortFields, "name")
	orderDir := "ASC"
	if filter.OrderDir != "" {
		orderDir = ValidateSortOrder(filter.OrderDir)
	}
	return query.Order(orderBy + " " + orderDir)
}

// GormCashbookEntryRepository implements cashbook.CashbookEntryRepository using GORM
type GormCashbookEntryRepository struct {
	db *gorm.DB
}

// NewGormCashbookEntryRepository creates a new GormCashbookEntryRepository
func NewGormCashbookEntryRepository(db *gorm.DB) *GormCashbookEntryRepository {
	return &GormCashbookEntryRepository{db: db}
}

func (r *GormCashbookEntryRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a cashbook entry by its ID
func (r *GormCashbookEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashbook.CashbookEntry, error) {
	var model models.CashbookEntryModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all cashbook entries matching the filter
func (r *GormCashbookEntryRepository) FindAll(ctx context.Context, filter cashbook.EntryFilter) ([]cashbook.CashbookEntry, error) {
	var entryModels []models.CashbookEntryModel
	query := r.applyFilter(r.conn(ctx).Model(&models.CashbookEntryModel{}), filter)
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]cashbook.CashbookEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}

// Save creates or updates a cashbook entry
func (r *GormCashbookEntryRepository) Save(ctx context.Context, entry *cashbook.CashbookEntry) error {
	model := models.CashbookEntryModelFromDomain(entry)
	return r.conn(ctx).Save(model).Error
}

// SaveWithLock saves a cashbook entry with optimistic locking (version check)
func (r *GormCashbookEntryRepository) SaveWithLock(ctx context.Context, entry *cashbook.CashbookEntry) error {
	model := models.CashbookEntryModelFromDomain(entry)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", entry.ID, entry.Version-1).
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

// Delete deletes a cashbook entry
func (r *GormCashbookEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&models.CashbookEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts cashbook entries matching the filter
func (r *GormCashbookEntryRepository) Count(ctx context.Context, filter cashbook.EntryFilter) (int64, error) {
	var count int64
	query := r.applyConditions(r.conn(ctx).Model(&models.CashbookEntryModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumAmountByDirection totals entry amounts flowing in the given direction
func (r *GormCashbookEntryRepository) SumAmountByDirection(ctx context.Context, direction cashbook.Direction) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.conn(ctx).
		Model(&models.CashbookEntryModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("direction = ?", direction).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

func (r *GormCashbookEntryRepository) applyConditions(query *gorm.DB, filter cashbook.EntryFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("account_head_name LIKE ? OR counterparty LIKE ? OR notes LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.AccountHeadID != nil {
		query = query.Where("account_head_id = ?", *filter.AccountHeadID)
	}
	if filter.Pending != nil {
		query = query.Where("pending = ?", *filter.Pending)
	}
	if filter.FromDate != nil {
		query = query.Where("transaction_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("transaction_date <= ?", *filter.ToDate)
	}
	return query
}

func (r *GormCashbookEntryRepository) applyFilter(query *gorm.DB, filter cashbook.EntryFilter) *gorm.DB {
	query = r.applyConditions(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CashbookEntrySortFields, "transaction_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}
