package models

import (
	"time"

	"github.com/fueltrade/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// StockLotModel is the persistence model for the StockLot aggregate root.
type StockLotModel struct {
	AggregateModel
	PurchaseDate  time.Time       `gorm:"not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VatPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SupplierName  string          `gorm:"type:varchar(200)"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (StockLotModel) TableName() string {
	return "stock_lots"
}

// ToDomain converts the persistence model to a domain StockLot entity.
func (m *StockLotModel) ToDomain() *stock.StockLot {
	return &stock.StockLot{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PurchaseDate:      m.PurchaseDate,
		Quantity:          m.Quantity,
		UnitCost:          m.UnitCost,
		VatPercentage:     m.VatPercentage,
		TotalCost:         m.TotalCost,
		SupplierName:      m.SupplierName,
		Notes:             m.Notes,
	}
}

// StockLotModelFromDomain builds a persistence model from a domain StockLot.
func StockLotModelFromDomain(lot *stock.StockLot) *StockLotModel {
	m := &StockLotModel{}
	m.FromDomainAggregateRoot(lot.BaseAggregateRoot)
	m.PurchaseDate = lot.PurchaseDate
	m.Quantity = lot.Quantity
	m.UnitCost = lot.UnitCost
	m.VatPercentage = lot.VatPercentage
	m.TotalCost = lot.TotalCost
	m.SupplierName = lot.SupplierName
	m.Notes = lot.Notes
	return m
}
