package cashbook

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEntry(t *testing.T, kind EntryKind, direction Direction, amount string) *CashbookEntry {
	t.Helper()
	entry, err := NewCashbookEntry(
		time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		kind,
		direction,
		decimal.RequireFromString(amount),
		uuid.New(),
		"Gulf Star Contracting",
		"",
		PaymentMethodBankTransfer,
		ReferenceTypeManual,
		nil,
		false,
		"",
	)
	require.NoError(t, err)
	return entry
}

func TestEntryKind_FixedDirection(t *testing.T) {
	tests := []struct {
		kind  EntryKind
		want  Direction
		fixed bool
	}{
		{EntryKindInvoice, DirectionInflow, true},
		{EntryKindInvestment, DirectionInflow, true},
		{EntryKindSupplierPayment, DirectionOutflow, true},
		{EntryKindExpense, DirectionOutflow, true},
		{EntryKindWithdrawal, DirectionOutflow, true},
		{EntryKindOther, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			dir, ok := tt.kind.FixedDirection()
			assert.Equal(t, tt.fixed, ok)
			if ok {
				assert.Equal(t, tt.want, dir)
			}
		})
	}
}

func TestNewCashbookEntry_DerivesDirectionFromKind(t *testing.T) {
	// Direction omitted: derived from the kind
	entry := createTestEntry(t, EntryKindInvoice, "", "6000")
	assert.Equal(t, DirectionInflow, entry.Direction)
	assert.True(t, entry.IsInflow())

	entry = createTestEntry(t, EntryKindExpense, "", "150")
	assert.Equal(t, DirectionOutflow, entry.Direction)
	assert.True(t, entry.IsOutflow())
}

func TestNewCashbookEntry_DirectionMismatchRejected(t *testing.T) {
	_, err := NewCashbookEntry(
		time.Now(), EntryKindInvoice, DirectionOutflow,
		decimal.NewFromInt(100), uuid.New(), "", "",
		PaymentMethodCash, ReferenceTypeManual, nil, false, "",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "always INFLOW")
}

func TestNewCashbookEntry_OtherRequiresExplicitDirection(t *testing.T) {
	_, err := NewCashbookEntry(
		time.Now(), EntryKindOther, "",
		decimal.NewFromInt(100), uuid.New(), "", "",
		PaymentMethodCash, ReferenceTypeManual, nil, false, "",
	)
	assert.Error(t, err, "OTHER without a direction is rejected, never defaulted")

	entry := createTestEntry(t, EntryKindOther, DirectionInflow, "100")
	assert.True(t, entry.IsInflow())
}

func TestNewCashbookEntry_Validation(t *testing.T) {
	_, err := NewCashbookEntry(
		time.Now(), EntryKind("REFUND"), DirectionInflow,
		decimal.NewFromInt(100), uuid.New(), "", "",
		PaymentMethodCash, ReferenceTypeManual, nil, false, "",
	)
	assert.Error(t, err, "unknown kind rejected")

	_, err = NewCashbookEntry(
		time.Now(), EntryKindInvoice, "",
		decimal.Zero, uuid.New(), "", "",
		PaymentMethodCash, ReferenceTypeManual, nil, false, "",
	)
	assert.Error(t, err, "zero amount rejected")

	_, err = NewCashbookEntry(
		time.Now(), EntryKindInvoice, "",
		decimal.NewFromInt(100), uuid.Nil, "", "",
		PaymentMethodCash, ReferenceTypeManual, nil, false, "",
	)
	assert.Error(t, err, "missing account head rejected")

	_, err = NewCashbookEntry(
		time.Now(), EntryKindInvoice, "",
		decimal.NewFromInt(100), uuid.New(), "", "",
		PaymentMethod("BITCOIN"), ReferenceTypeManual, nil, false, "",
	)
	assert.Error(t, err, "unknown payment method rejected")
}

func TestCashbookEntry_RemainingCapacity(t *testing.T) {
	entry := createTestEntry(t, EntryKindInvoice, "", "6000")

	assert.Equal(t, "6000", entry.RemainingCapacity(decimal.Zero).String())
	assert.Equal(t, "1500", entry.RemainingCapacity(decimal.NewFromInt(4500)).String())
	assert.Equal(t, "0", entry.RemainingCapacity(decimal.NewFromInt(6000)).String())
}

func TestCashbookEntry_Update(t *testing.T) {
	entry := createTestEntry(t, EntryKindInvoice, "", "6000")
	version := entry.Version

	err := entry.Update(
		time.Now(), decimal.NewFromInt(6500), "walk-in",
		PaymentMethodCash, true, "adjusted",
	)
	require.NoError(t, err)
	assert.Equal(t, "6500", entry.Amount.String())
	assert.True(t, entry.Pending)
	assert.Equal(t, version+1, entry.Version)

	assert.Error(t, entry.Update(time.Now(), decimal.Zero, "", PaymentMethodCash, false, ""))
}

func TestCashbookEntry_MarkSettled(t *testing.T) {
	entry, err := NewCashbookEntry(
		time.Now(), EntryKindInvoice, "",
		decimal.NewFromInt(100), uuid.New(), "", "",
		PaymentMethodCash, ReferenceTypeManual, nil, true, "",
	)
	require.NoError(t, err)
	require.True(t, entry.Pending)

	entry.MarkSettled()
	assert.False(t, entry.Pending)
}
