package settings

import (
	"time"

	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BusinessSettings is a singleton aggregate holding business-wide
// configuration: branding printed on invoices, the invoice numbering prefix,
// and the defaults the invoice generator and overdue reports fall back to.
type BusinessSettings struct {
	shared.BaseAggregateRoot
	BusinessName      string          `json:"business_name"`
	Address           string          `json:"address"`
	Phone             string          `json:"phone"`
	Email             string          `json:"email"`
	TaxRegistrationNo string          `json:"tax_registration_no"`
	InvoicePrefix     string          `json:"invoice_prefix"`
	PaymentTermsDays  int             `json:"payment_terms_days"`
	DefaultVatPct     decimal.Decimal `json:"default_vat_pct"`
	BankDetails       string          `json:"bank_details"`
	InvoiceFooter     string          `json:"invoice_footer"`
}

const (
	DefaultInvoicePrefix    = "INV"
	DefaultPaymentTermsDays = 30
)

// NewDefaultSettings seeds the singleton on first boot.
func NewDefaultSettings(businessName string) *BusinessSettings {
	return &BusinessSettings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BusinessName:      businessName,
		InvoicePrefix:     DefaultInvoicePrefix,
		PaymentTermsDays:  DefaultPaymentTermsDays,
		DefaultVatPct:     decimal.NewFromInt(5),
	}
}

// Update replaces the mutable configuration fields.
func (s *BusinessSettings) Update(
	businessName, address, phone, email, taxRegistrationNo string,
	invoicePrefix string,
	paymentTermsDays int,
	defaultVatPct decimal.Decimal,
	bankDetails, invoiceFooter string,
) error {
	if businessName == "" {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot be empty")
	}
	if invoicePrefix == "" {
		return shared.NewDomainError("INVALID_INVOICE_PREFIX", "Invoice prefix cannot be empty")
	}
	if paymentTermsDays < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms days cannot be negative")
	}
	if defaultVatPct.IsNegative() || defaultVatPct.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_VAT", "Default VAT percentage must be between 0 and 100")
	}
	s.BusinessName = businessName
	s.Address = address
	s.Phone = phone
	s.Email = email
	s.TaxRegistrationNo = taxRegistrationNo
	s.InvoicePrefix = invoicePrefix
	s.PaymentTermsDays = paymentTermsDays
	s.DefaultVatPct = defaultVatPct
	s.BankDetails = bankDetails
	s.InvoiceFooter = invoiceFooter
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// OverdueThreshold returns the payment terms as a duration for overdue checks.
func (s *BusinessSettings) OverdueThreshold() time.Duration {
	return time.Duration(s.PaymentTermsDays) * 24 * time.Hour
}
