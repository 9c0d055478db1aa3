package settings

import (
	"context"
	"time"

	"github.com/fueltrade/backend/internal/domain/settings"
	"github.com/shopspring/decimal"
)

// SettingsService reads and updates the business settings singleton
type SettingsService struct {
	repo settings.Repository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.Repository) *SettingsService {
	return &SettingsService{repo: repo}
}

// SettingsResponse represents the business settings in API responses
type SettingsResponse struct {
	BusinessName      string          `json:"business_name"`
	Address           string          `json:"address,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Email             string          `json:"email,omitempty"`
	TaxRegistrationNo string          `json:"tax_registration_no,omitempty"`
	InvoicePrefix     string          `json:"invoice_prefix"`
	PaymentTermsDays  int             `json:"payment_terms_days"`
	DefaultVatPct     decimal.Decimal `json:"default_vat_pct"`
	BankDetails       string          `json:"bank_details,omitempty"`
	InvoiceFooter     string          `json:"invoice_footer,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// UpdateSettingsRequest replaces the business settings
type UpdateSettingsRequest struct {
	BusinessName      string          `json:"business_name" binding:"required"`
	Address           string          `json:"address"`
	Phone             string          `json:"phone"`
	Email             string          `json:"email"`
	TaxRegistrationNo string          `json:"tax_registration_no"`
	InvoicePrefix     string          `json:"invoice_prefix" binding:"required"`
	PaymentTermsDays  int             `json:"payment_terms_days"`
	DefaultVatPct     decimal.Decimal `json:"default_vat_pct"`
	BankDetails       string          `json:"bank_details"`
	InvoiceFooter     string          `json:"invoice_footer"`
}

// GetSettings returns the current business settings
func (s *SettingsService) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(cfg), nil
}

// UpdateSettings replaces the business settings
func (s *SettingsService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := cfg.Update(
		req.BusinessName, req.Address, req.Phone, req.Email, req.TaxRegistrationNo,
		req.InvoicePrefix, req.PaymentTermsDays, req.DefaultVatPct,
		req.BankDetails, req.InvoiceFooter,
	); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, cfg); err != nil {
		return nil, err
	}
	return toSettingsResponse(cfg), nil
}

func toSettingsResponse(cfg *settings.BusinessSettings) *SettingsResponse {
	return &SettingsResponse{
		BusinessName:      cfg.BusinessName,
		Address:           cfg.Address,
		Phone:             cfg.Phone,
		Email:             cfg.Email,
		TaxRegistrationNo: cfg.TaxRegistrationNo,
		InvoicePrefix:     cfg.InvoicePrefix,
		PaymentTermsDays:  cfg.PaymentTermsDays,
		DefaultVatPct:     cfg.DefaultVatPct,
		BankDetails:       cfg.BankDetails,
		InvoiceFooter:     cfg.InvoiceFooter,
		UpdatedAt:         cfg.UpdatedAt,
		Version:           cfg.Version,
	}
}
