package models

import (
	"github.com/fueltrade/backend/internal/domain/allocation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentAllocationModel is the persistence model for payment allocations.
// Rows are immutable once written; reversals delete rather than update.
type PaymentAllocationModel struct {
	BaseModel
	CashbookEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Remark          string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain PaymentAllocation entity.
func (m *PaymentAllocationModel) ToDomain() *allocation.PaymentAllocation {
	return &allocation.PaymentAllocation{
		BaseEntity:      m.BaseModel.ToDomain(),
		CashbookEntryID: m.CashbookEntryID,
		InvoiceID:       m.InvoiceID,
		SaleID:          m.SaleID,
		Amount:          m.Amount,
		Remark:          m.Remark,
	}
}

// PaymentAllocationModelFromDomain builds a persistence model from a domain PaymentAllocation.
func PaymentAllocationModelFromDomain(alloc *allocation.PaymentAllocation) *PaymentAllocationModel {
	m := &PaymentAllocationModel{}
	m.FromDomainBaseEntity(alloc.BaseEntity)
	m.CashbookEntryID = alloc.CashbookEntryID
	m.InvoiceID = alloc.InvoiceID
	m.SaleID = alloc.SaleID
	m.Amount = alloc.Amount
	m.Remark = alloc.Remark
	return m
}

// SupplierAdvanceAllocationModel is the persistence model for supplier advances.
type SupplierAdvanceAllocationModel struct {
	BaseModel
	CashbookEntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockLotID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Remark          string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SupplierAdvanceAllocationModel) TableName() string {
	return "supplier_advance_allocations"
}

// ToDomain converts the persistence model to a domain SupplierAdvanceAllocation entity.
func (m *SupplierAdvanceAllocationModel) ToDomain() *allocation.SupplierAdvanceAllocation {
	return &allocation.SupplierAdvanceAllocation{
		BaseEntity:      m.BaseModel.ToDomain(),
		CashbookEntryID: m.CashbookEntryID,
		StockLotID:      m.StockLotID,
		Amount:          m.Amount,
		Remark:          m.Remark,
	}
}

// SupplierAdvanceAllocationModelFromDomain builds a persistence model from a domain SupplierAdvanceAllocation.
func SupplierAdvanceAllocationModelFromDomain(alloc *allocation.SupplierAdvanceAllocation) *SupplierAdvanceAllocationModel {
	m := &SupplierAdvanceAllocationModel{}
	m.FromDomainBaseEntity(alloc.BaseEntity)
	m.CashbookEntryID = alloc.CashbookEntryID
	m.StockLotID = alloc.StockLotID
	m.Amount = alloc.Amount
	m.Remark = alloc.Remark
	return m
}
