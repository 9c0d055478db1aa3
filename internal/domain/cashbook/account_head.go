package cashbook

import (
	"time"

	"github.com/fueltrade/backend/internal/domain/shared"
)

// AccountHeadKind buckets counterparties for filtering and aggregation
type AccountHeadKind string

const (
	AccountHeadKindClient   AccountHeadKind = "CLIENT"
	AccountHeadKindSupplier AccountHeadKind = "SUPPLIER"
	AccountHeadKindOther    AccountHeadKind = "OTHER"
)

// IsValid checks if the kind is a valid AccountHeadKind
func (k AccountHeadKind) IsValid() bool {
	switch k {
	case AccountHeadKindClient, AccountHeadKindSupplier, AccountHeadKindOther:
		return true
	}
	return false
}

// AccountHead is a named counterparty bucket cashbook entries are grouped
// under. Client account heads double as the client reference on sales.
type AccountHead struct {
	shared.BaseAggregateRoot
	Name  string          `json:"name"`
	Kind  AccountHeadKind `json:"kind"`
	Phone string          `json:"phone"`
	Notes string          `json:"notes"`
}

// NewAccountHead creates a new account head
func NewAccountHead(name string, kind AccountHeadKind, phone, notes string) (*AccountHead, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account head name cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Account head kind is not valid")
	}
	return &AccountHead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Kind:              kind,
		Phone:             phone,
		Notes:             notes,
	}, nil
}

// Update replaces the head's details
func (h *AccountHead) Update(name string, kind AccountHeadKind, phone, notes string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Account head name cannot be empty")
	}
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_KIND", "Account head kind is not valid")
	}
	h.Name = name
	h.Kind = kind
	h.Phone = phone
	h.Notes = notes
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
	return nil
}
