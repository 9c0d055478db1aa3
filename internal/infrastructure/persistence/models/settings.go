package models

import (
	"github.com/fueltrade/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// BusinessSettingsModel is the persistence model for the settings singleton.
type BusinessSettingsModel struct {
	AggregateModel
	BusinessName      string          `gorm:"type:varchar(200);not null"`
	Address           string          `gorm:"type:varchar(500)"`
	Phone             string          `gorm:"type:varchar(50)"`
	Email             string          `gorm:"type:varchar(200)"`
	TaxRegistrationNo string          `gorm:"type:varchar(100)"`
	InvoicePrefix     string          `gorm:"type:varchar(20);not null"`
	PaymentTermsDays  int             `gorm:"not null"`
	DefaultVatPct     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	BankDetails       string          `gorm:"type:text"`
	InvoiceFooter     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BusinessSettingsModel) TableName() string {
	return "business_settings"
}

// ToDomain converts the persistence model to a domain BusinessSettings entity.
func (m *BusinessSettingsModel) ToDomain() *settings.BusinessSettings {
	return &settings.BusinessSettings{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BusinessName:      m.BusinessName,
		Address:           m.Address,
		Phone:             m.Phone,
		Email:             m.Email,
		TaxRegistrationNo: m.TaxRegistrationNo,
		InvoicePrefix:     m.InvoicePrefix,
		PaymentTermsDays:  m.PaymentTermsDays,
		DefaultVatPct:     m.DefaultVatPct,
		BankDetails:       m.BankDetails,
		InvoiceFooter:     m.InvoiceFooter,
	}
}

// BusinessSettingsModelFromDomain builds a persistence model from domain BusinessSettings.
func BusinessSettingsModelFromDomain(s *settings.BusinessSettings) *BusinessSettingsModel {
	m := &BusinessSettingsModel{}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.BusinessName = s.BusinessName
	m.Address = s.Address
	m.Phone = s.Phone
	m.Email = s.Email
	m.TaxRegistrationNo = s.TaxRegistrationNo
	m.InvoicePrefix = s.InvoicePrefix
	m.PaymentTermsDays = s.PaymentTermsDays
	m.DefaultVatPct = s.DefaultVatPct
	m.BankDetails = s.BankDetails
	m.InvoiceFooter = s.InvoiceFooter
	return m
}
