package stock

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLot(t *testing.T, qty, unitCost, vat string) *StockLot {
	lot, err := NewStockLot(
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString(qty),
		decimal.RequireFromString(unitCost),
		decimal.RequireFromString(vat),
		"Emirates Fuel Supply",
		"",
	)
	require.NoError(t, err)
	return lot
}

func TestNewStockLot_ComputesTotalCost(t *testing.T) {
	tests := []struct {
		name     string
		qty      string
		unitCost string
		vat      string
		want     string
	}{
		{"no VAT", "10000", "2.000", "0", "20000.00"},
		{"5 percent VAT", "4000", "2.500", "5", "10500.00"},
		{"fractional gallons", "1250.5", "1.845", "5", "2422.53"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lot := createTestLot(t, tt.qty, tt.unitCost, tt.vat)
			assert.Equal(t, tt.want, lot.TotalCost.StringFixed(2))
		})
	}
}

func TestNewStockLot_Validation(t *testing.T) {
	date := time.Now()

	_, err := NewStockLot(date, decimal.Zero, decimal.NewFromFloat(2.0), decimal.Zero, "", "")
	assert.Error(t, err, "zero quantity rejected")

	_, err = NewStockLot(date, decimal.NewFromInt(-5), decimal.NewFromFloat(2.0), decimal.Zero, "", "")
	assert.Error(t, err, "negative quantity rejected")

	_, err = NewStockLot(date, decimal.NewFromInt(100), decimal.Zero, decimal.Zero, "", "")
	assert.Error(t, err, "zero unit cost rejected")

	_, err = NewStockLot(date, decimal.NewFromInt(100), decimal.NewFromFloat(2.0), decimal.NewFromInt(101), "", "")
	assert.Error(t, err, "VAT above 100 rejected")

	_, err = NewStockLot(date, decimal.NewFromInt(100), decimal.NewFromFloat(2.0), decimal.NewFromInt(-1), "", "")
	assert.Error(t, err, "negative VAT rejected")
}

func TestStockLot_UpdateAmounts(t *testing.T) {
	lot := createTestLot(t, "10000", "2.000", "0")
	initialVersion := lot.Version

	err := lot.UpdateAmounts(
		decimal.RequireFromString("8000"),
		decimal.RequireFromString("2.100"),
		decimal.RequireFromString("5"),
	)
	require.NoError(t, err)

	assert.Equal(t, "8000", lot.Quantity.String())
	assert.Equal(t, "17640.00", lot.TotalCost.StringFixed(2))
	assert.Equal(t, initialVersion+1, lot.Version)
}

func TestStockLot_UpdateAmounts_Invalid(t *testing.T) {
	lot := createTestLot(t, "10000", "2.000", "0")

	err := lot.UpdateAmounts(decimal.Zero, decimal.NewFromFloat(2.0), decimal.Zero)
	assert.Error(t, err)
	// Failed update must not mutate the lot
	assert.Equal(t, "10000", lot.Quantity.String())
	assert.Equal(t, "20000.00", lot.TotalCost.StringFixed(2))
}
