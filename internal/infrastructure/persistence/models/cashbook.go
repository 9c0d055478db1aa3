package models

import (
	"time"

	"github.com/fueltrade/backend/internal/domain/cashbook"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountHeadModel is the persistence model for the AccountHead aggregate root.
type AccountHeadModel struct {
	AggregateModel
	Name  string                   `gorm:"type:varchar(200);not null;uniqueIndex"`
	Kind  cashbook.AccountHeadKind `gorm:"type:varchar(20);not null;index"`
	Phone string                   `gorm:"type:varchar(50)"`
	Notes string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AccountHeadModel) TableName() string {
	return "account_heads"
}

// ToDomain converts the persistence model to a domain AccountHead entity.
func (m *AccountHeadModel) ToDomain() *cashbook.AccountHead {
	return &cashbook.AccountHead{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Kind:              m.Kind,
		Phone:             m.Phone,
		Notes:             m.Notes,
	}
}

// AccountHeadModelFromDomain builds a persistence model from a domain AccountHead.
func AccountHeadModelFromDomain(head *cashbook.AccountHead) *AccountHeadModel {
	m := &AccountHeadModel{}
	m.FromDomainAggregateRoot(head.BaseAggregateRoot)
	m.Name = head.Name
	m.Kind = head.Kind
	m.Phone = head.Phone
	m.Notes = head.Notes
	return m
}

// CashbookEntryModel is the persistence model for the CashbookEntry aggregate root.
type CashbookEntryModel struct {
	AggregateModel
	TransactionDate time.Time              `gorm:"not null;index"`
	Kind            cashbook.EntryKind     `gorm:"type:varchar(30);not null;index"`
	Direction       cashbook.Direction     `gorm:"type:varchar(10);not null;index"`
	Amount          decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	AccountHeadID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	AccountHeadName string                 `gorm:"type:varchar(200);not null"`
	Counterparty    string                 `gorm:"type:varchar(200)"`
	PaymentMethod   cashbook.PaymentMethod `gorm:"type:varchar(20);not null"`
	ReferenceType   cashbook.ReferenceType `gorm:"type:varchar(30);not null"`
	ReferenceID     *uuid.UUID             `gorm:"type:uuid;index"`
	Pending         bool                   `gorm:"not null;default:false;index"`
	Notes           string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CashbookEntryModel) TableName() string {
	return "cashbook_entries"
}

// ToDomain converts the persistence model to a domain CashbookEntry entity.
func (m *CashbookEntryModel) ToDomain() *cashbook.CashbookEntry {
	return &cashbook.CashbookEntry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		TransactionDate:   m.TransactionDate,
		Kind:              m.Kind,
		Direction:         m.Direction,
		Amount:            m.Amount,
		AccountHeadID:     m.AccountHeadID,
		AccountHeadName:   m.AccountHeadName,
		Counterparty:      m.Counterparty,
		PaymentMethod:     m.PaymentMethod,
		ReferenceType:     m.ReferenceType,
		ReferenceID:       m.ReferenceID,
		Pending:           m.Pending,
		Notes:             m.Notes,
	}
}

// CashbookEntryModelFromDomain builds a persistence model from a domain CashbookEntry.
func CashbookEntryModelFromDomain(entry *cashbook.CashbookEntry) *CashbookEntryModel {
	m := &CashbookEntryModel{}
	m.FromDomainAggregateRoot(entry.BaseAggregateRoot)
	m.TransactionDate = entry.TransactionDate
	m.Kind = entry.Kind
	m.Direction = entry.Direction
	m.Amount = entry.Amount
	m.AccountHeadID = entry.AccountHeadID
	m.AccountHeadName = entry.AccountHeadName
	m.Counterparty = entry.Counterparty
	m.PaymentMethod = entry.PaymentMethod
	m.ReferenceType = entry.ReferenceType
	m.ReferenceID = entry.ReferenceID
	m.Pending = entry.Pending
	m.Notes = entry.Notes
	return m
}
