package settings

import (
	"context"
	"testing"

	"github.com/fueltrade/backend/internal/domain/settings"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*settings.BusinessSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.BusinessSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, cfg *settings.BusinessSettings) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockSettingsRepository) SaveWithLock(ctx context.Context, cfg *settings.BusinessSettings) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func TestSettingsService_GetSettings_ReturnsDefaults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo)

	repo.On("Get", ctx).Return(settings.NewDefaultSettings("Desert Fuel Trading"), nil)

	resp, err := service.GetSettings(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Desert Fuel Trading", resp.BusinessName)
	assert.Equal(t, settings.DefaultInvoicePrefix, resp.InvoicePrefix)
	assert.Equal(t, settings.DefaultPaymentTermsDays, resp.PaymentTermsDays)
	assert.Equal(t, "5", resp.DefaultVatPct.String())
}

func TestSettingsService_UpdateSettings_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo)

	cfg := settings.NewDefaultSettings("Desert Fuel Trading")
	repo.On("Get", ctx).Return(cfg, nil)
	repo.On("SaveWithLock", ctx, cfg).Return(nil)

	resp, err := service.UpdateSettings(ctx, UpdateSettingsRequest{
		BusinessName:      "Desert Fuel Trading LLC",
		Address:           "Industrial Area 4, Sharjah",
		TaxRegistrationNo: "100234567800003",
		InvoicePrefix:     "DFT",
		PaymentTermsDays:  45,
		DefaultVatPct:     decimal.RequireFromString("5"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Desert Fuel Trading LLC", resp.BusinessName)
	assert.Equal(t, "DFT", resp.InvoicePrefix)
	assert.Equal(t, 45, resp.PaymentTermsDays)
	repo.AssertExpectations(t)
}

func TestSettingsService_UpdateSettings_RejectsEmptyPrefix(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSettingsRepository)
	service := NewSettingsService(repo)

	repo.On("Get", ctx).Return(settings.NewDefaultSettings("Desert Fuel Trading"), nil)

	_, err := service.UpdateSettings(ctx, UpdateSettingsRequest{
		BusinessName:  "Desert Fuel Trading",
		InvoicePrefix: "",
	})

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_INVOICE_PREFIX", derr.Code)
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}
