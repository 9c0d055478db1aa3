package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSale(t *testing.T) *Sale {
	t.Helper()
	sale, err := NewSale(
		uuid.New(),
		"Gulf Star Contracting",
		"Tower B Site",
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString("4000"),
		decimal.RequireFromString("2.500"),
		decimal.RequireFromString("2.000"),
		decimal.RequireFromString("5"),
		"",
		nil,
	)
	require.NoError(t, err)
	return sale
}

func createInvoicedSale(t *testing.T) *Sale {
	t.Helper()
	sale := createTestSale(t)
	require.NoError(t, sale.RecordLPO("LPO-4471", nil))
	require.NoError(t, sale.MarkInvoiced(time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)))
	return sale
}

func TestNewSale_ComputesAmounts(t *testing.T) {
	sale := createTestSale(t)

	// 4000 gal @ 2.500 with 5% VAT
	assert.Equal(t, "10000.00", sale.Subtotal.StringFixed(2))
	assert.Equal(t, "500.00", sale.VatAmount.StringFixed(2))
	assert.Equal(t, "10500.00", sale.TotalAmount.StringFixed(2))
	assert.Equal(t, "10500.00", sale.PendingAmount.StringFixed(2))
	assert.Equal(t, SaleStatusPendingLPO, sale.Status)

	// total == subtotal + vat must hold after construction
	assert.True(t, sale.TotalAmount.Equal(sale.Subtotal.Add(sale.VatAmount)))
}

func TestNewSale_WithLPOStartsLPOReceived(t *testing.T) {
	sale, err := NewSale(
		uuid.New(), "Client", "", time.Now(),
		decimal.NewFromInt(100), decimal.NewFromFloat(2.5), decimal.NewFromFloat(2.0),
		decimal.Zero, "LPO-1001", nil,
	)
	require.NoError(t, err)
	assert.Equal(t, SaleStatusLPOReceived, sale.Status)
}

func TestSale_StateMachine(t *testing.T) {
	sale := createTestSale(t)

	// Cannot invoice before the LPO is on file
	err := sale.MarkInvoiced(time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LPO_RECEIVED")

	require.NoError(t, sale.RecordLPO("LPO-4471", nil))
	assert.Equal(t, SaleStatusLPOReceived, sale.Status)

	require.NoError(t, sale.MarkInvoiced(time.Now()))
	assert.Equal(t, SaleStatusInvoiced, sale.Status)
	require.NotNil(t, sale.InvoiceDate)

	// A second invoicing attempt is rejected
	err = sale.MarkInvoiced(time.Now())
	assert.Error(t, err)
}

func TestSale_ApplyAllocation_PartialThenFull(t *testing.T) {
	sale := createInvoicedSale(t)

	require.NoError(t, sale.ApplyAllocation(decimal.RequireFromString("6000")))
	assert.Equal(t, "4500.00", sale.PendingAmount.StringFixed(2))
	assert.Equal(t, SaleStatusInvoiced, sale.Status)

	require.NoError(t, sale.ApplyAllocation(decimal.RequireFromString("4500")))
	assert.True(t, sale.PendingAmount.IsZero())
	assert.Equal(t, SaleStatusPaid, sale.Status)
	assert.NotNil(t, sale.PaidAt)
}

func TestSale_ApplyAllocation_OverBalanceRejected(t *testing.T) {
	sale := createInvoicedSale(t)
	require.NoError(t, sale.ApplyAllocation(decimal.RequireFromString("6000")))

	err := sale.ApplyAllocation(decimal.RequireFromString("4600"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds pending amount")
	// No state change on rejection
	assert.Equal(t, "4500.00", sale.PendingAmount.StringFixed(2))
	assert.Equal(t, SaleStatusInvoiced, sale.Status)
}

func TestSale_ApplyAllocation_WrongState(t *testing.T) {
	sale := createTestSale(t)
	err := sale.ApplyAllocation(decimal.NewFromInt(100))
	assert.Error(t, err)
}

func TestSale_ReverseAllocation_RevertsPaid(t *testing.T) {
	sale := createInvoicedSale(t)
	require.NoError(t, sale.ApplyAllocation(decimal.RequireFromString("6000")))
	require.NoError(t, sale.ApplyAllocation(decimal.RequireFromString("4500")))
	require.Equal(t, SaleStatusPaid, sale.Status)

	require.NoError(t, sale.ReverseAllocation(decimal.RequireFromString("6000")))
	assert.Equal(t, "6000.00", sale.PendingAmount.StringFixed(2))
	assert.Equal(t, SaleStatusInvoiced, sale.Status)
	assert.Nil(t, sale.PaidAt)
}

func TestSale_ReverseAllocation_CannotExceedTotal(t *testing.T) {
	sale := createInvoicedSale(t)
	err := sale.ReverseAllocation(decimal.NewFromInt(1))
	assert.Error(t, err, "reversing more than was allocated must fail")
}

func TestSale_AllocateDeleteReallocate_Idempotent(t *testing.T) {
	sale := createInvoicedSale(t)
	amount := decimal.RequireFromString("10500")

	require.NoError(t, sale.ApplyAllocation(amount))
	require.Equal(t, SaleStatusPaid, sale.Status)

	require.NoError(t, sale.ReverseAllocation(amount))
	assert.Equal(t, "10500.00", sale.PendingAmount.StringFixed(2))
	assert.Equal(t, SaleStatusInvoiced, sale.Status)

	// Re-creating the identical allocation lands in the same state
	require.NoError(t, sale.ApplyAllocation(amount))
	assert.True(t, sale.PendingAmount.IsZero())
	assert.Equal(t, SaleStatusPaid, sale.Status)
}

func TestSale_UpdateAmounts_RejectedAfterPayment(t *testing.T) {
	sale := createInvoicedSale(t)
	require.NoError(t, sale.ApplyAllocation(decimal.NewFromInt(1000)))

	err := sale.UpdateAmounts(
		decimal.NewFromInt(5000),
		decimal.NewFromFloat(2.6),
		decimal.NewFromInt(5),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allocated payments")
}

func TestSale_UpdateAmounts_Recomputes(t *testing.T) {
	sale := createTestSale(t)

	require.NoError(t, sale.UpdateAmounts(
		decimal.RequireFromString("2000"),
		decimal.RequireFromString("3.000"),
		decimal.RequireFromString("0"),
	))
	assert.Equal(t, "6000.00", sale.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", sale.VatAmount.StringFixed(2))
	assert.Equal(t, "6000.00", sale.TotalAmount.StringFixed(2))
	assert.Equal(t, "6000.00", sale.PendingAmount.StringFixed(2))
}

func TestSale_Void(t *testing.T) {
	sale := createTestSale(t)
	require.NoError(t, sale.Void("duplicate entry"))
	assert.True(t, sale.Voided)

	err := sale.RecordLPO("LPO-1", nil)
	assert.Error(t, err, "voided sale accepts no further operations")
}

func TestSale_Void_RejectedWithPayments(t *testing.T) {
	sale := createInvoicedSale(t)
	require.NoError(t, sale.ApplyAllocation(decimal.NewFromInt(500)))

	err := sale.Void("mistake")
	assert.Error(t, err)
}

func TestSale_IsOverdue(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	sale := createInvoicedSale(t) // invoice date 2026-02-12, pending 10500
	assert.True(t, sale.IsOverdue(30, now))
	assert.False(t, sale.IsOverdue(60, now))

	// Fully paid sales are never overdue
	require.NoError(t, sale.ApplyAllocation(sale.PendingAmount))
	assert.False(t, sale.IsOverdue(30, now))
}

func TestSale_GrossProfit(t *testing.T) {
	sale := createTestSale(t)
	// (2.500 - 2.000) * 4000
	assert.Equal(t, "2000.00", sale.GrossProfit().StringFixed(2))
}
