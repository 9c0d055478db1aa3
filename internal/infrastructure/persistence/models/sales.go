package models

import (
	"time"

	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	AggregateModel
	ClientID              uuid.UUID        `gorm:"type:uuid;not null;index"`
	ClientName            string           `gorm:"type:varchar(200);not null"`
	ProjectName           string           `gorm:"type:varchar(200)"`
	SaleDate              time.Time        `gorm:"not null;index"`
	Quantity              decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitPrice             decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	PurchaseCostPerGallon decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	VatPercentage         decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	Subtotal              decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	VatAmount             decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	TotalAmount           decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	PendingAmount         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	LPONumber             string           `gorm:"column:lpo_number;type:varchar(100)"`
	LPODueDate            *time.Time       `gorm:"column:lpo_due_date"`
	InvoiceDate           *time.Time      
	Status                sales.SaleStatus `gorm:"type:varchar(20);not null;index"`
	Voided                bool             `gorm:"not null;default:false;index"`
	VoidedAt              *time.Time      
	VoidReason            string           `gorm:"type:varchar(500)"`
	PaidAt                *time.Time      
	Notes                 string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		BaseAggregateRoot:     m.ToDomainAggregateRoot(),
		ClientID:              m.ClientID,
		ClientName:            m.ClientName,
		ProjectName:           m.ProjectName,
		SaleDate:              m.SaleDate,
		Quantity:              m.Quantity,
		UnitPrice:             m.UnitPrice,
		PurchaseCostPerGallon: m.PurchaseCostPerGallon,
		VatPercentage:         m.VatPercentage,
		Subtotal:              m.Subtotal,
		VatAmount:             m.VatAmount,
		TotalAmount:           m.TotalAmount,
		PendingAmount:         m.PendingAmount,
		LPONumber:             m.LPONumber,
		LPODueDate:            m.LPODueDate,
		InvoiceDate:           m.InvoiceDate,
		Status:                m.Status,
		Voided:                m.Voided,
		VoidedAt:              m.VoidedAt,
		VoidReason:            m.VoidReason,
		PaidAt:                m.PaidAt,
		Notes:                 m.Notes,
	}
}

// SaleModelFromDomain builds a persistence model from a domain Sale.
func SaleModelFromDomain(sale *sales.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomainAggregateRoot(sale.BaseAggregateRoot)
	m.ClientID = sale.ClientID
	m.ClientName = sale.ClientName
	m.ProjectName = sale.ProjectName
	m.SaleDate = sale.SaleDate
	m.Quantity = sale.Quantity
	m.UnitPrice = sale.UnitPrice
	m.PurchaseCostPerGallon = sale.PurchaseCostPerGallon
	m.VatPercentage = sale.VatPercentage
	m.Subtotal = sale.Subtotal
	m.VatAmount = sale.VatAmount
	m.TotalAmount = sale.TotalAmount
	m.PendingAmount = sale.PendingAmount
	m.LPONumber = sale.LPONumber
	m.LPODueDate = sale.LPODueDate
	m.InvoiceDate = sale.InvoiceDate
	m.Status = sale.Status
	m.Voided = sale.Voided
	m.VoidedAt = sale.VoidedAt
	m.VoidReason = sale.VoidReason
	m.PaidAt = sale.PaidAt
	m.Notes = sale.Notes
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SaleID        uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex"`
	ClientID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	ClientName    string              `gorm:"type:varchar(200);not null"`
	InvoiceDate   time.Time           `gorm:"not null;index"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	VatAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Status        sales.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	SentAt        *time.Time         
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *sales.Invoice {
	return &sales.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		SaleID:            m.SaleID,
		ClientID:          m.ClientID,
		ClientName:        m.ClientName,
		InvoiceDate:       m.InvoiceDate,
		TotalAmount:       m.TotalAmount,
		VatAmount:         m.VatAmount,
		Status:            m.Status,
		SentAt:            m.SentAt,
	}
}

// InvoiceModelFromDomain builds a persistence model from a domain Invoice.
func InvoiceModelFromDomain(invoice *sales.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomainAggregateRoot(invoice.BaseAggregateRoot)
	m.InvoiceNumber = invoice.InvoiceNumber
	m.SaleID = invoice.SaleID
	m.ClientID = invoice.ClientID
	m.ClientName = invoice.ClientName
	m.InvoiceDate = invoice.InvoiceDate
	m.TotalAmount = invoice.TotalAmount
	m.VatAmount = invoice.VatAmount
	m.Status = invoice.Status
	m.SentAt = invoice.SentAt
	return m
}

// InvoiceSequenceModel backs the transactional invoice number allocator.
// One row per prefix/year pair holds the last value handed out.
type InvoiceSequenceModel struct {
	Prefix    string    `gorm:"type:varchar(20);primaryKey"`
	Year      int       `gorm:"primaryKey"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}
