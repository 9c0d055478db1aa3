package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fueltrade/backend/internal/domain/cashbook"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHead(t *testing.T, name string, kind cashbook.AccountHeadKind) *cashbook.AccountHead {
	t.Helper()

	head, err := cashbook.NewAccountHead(name, kind, "+971-50-1234567", "")
	require.NoError(t, err)
	return head
}

func createTestEntry(t *testing.T, head *cashbook.AccountHead, kind cashbook.EntryKind, amount int64, date time.Time) *cashbook.CashbookEntry {
	t.Helper()

	entry, err := cashbook.NewCashbookEntry(
		date,
		kind,
		"",
		decimal.NewFromInt(amount),
		head.ID,
		head.Name,
		head.Name,
		cashbook.PaymentMethodBankTransfer,
		cashbook.ReferenceTypeManual,
		nil,
		false,
		"",
	)
	require.NoError(t, err)
	return entry
}

func TestGormAccountHeadRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountHeadRepository(db)
	ctx := context.Background()

	client := createTestHead(t, "Al Futtaim Construction", cashbook.AccountHeadKindClient)
	supplier := createTestHead(t, "Gulf Petroleum", cashbook.AccountHeadKindSupplier)
	require.NoError(t, repo.Save(ctx, client))
	require.NoError(t, repo.Save(ctx, supplier))

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Al Futtaim Construction", found.Name)
		assert.Equal(t, cashbook.AccountHeadKindClient, found.Kind)
	})

	t.Run("miss yields nil without error", func(t *testing.T) {
		head, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, head)
	})

	t.Run("all ordered by name ascending", func(t *testing.T) {
		heads, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, heads, 2)
		assert.Equal(t, "Al Futtaim Construction", heads[0].Name)
		assert.Equal(t, "Gulf Petroleum", heads[1].Name)
	})

	t.Run("by kind", func(t *testing.T) {
		heads, err := repo.FindByKind(ctx, cashbook.AccountHeadKindSupplier, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, heads, 1)
		assert.Equal(t, supplier.ID, heads[0].ID)
	})

	t.Run("search by name", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.Filter{Search: "Gulf"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormAccountHeadRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccountHeadRepository(db)
	ctx := context.Background()

	head := createTestHead(t, "Al Futtaim Construction", cashbook.AccountHeadKindClient)
	require.NoError(t, repo.Save(ctx, head))

	require.NoError(t, repo.Delete(ctx, head.ID))
	assert.ErrorIs(t, repo.Delete(ctx, head.ID), shared.ErrNotFound)
}

func TestGormCashbookEntryRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCashbookEntryRepository(db)
	ctx := context.Background()

	head := createTestHead(t, "Al Futtaim Construction", cashbook.AccountHeadKindClient)
	entry := createTestEntry(t, head, cashbook.EntryKindInvoice, 10000, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, cashbook.EntryKindInvoice, found.Kind)
	assert.Equal(t, cashbook.DirectionInflow, found.Direction, "direction derived from kind")
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(10000)))
	assert.False(t, found.Pending)
}

func TestGormCashbookEntryRepository_FindAll_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCashbookEntryRepository(db)
	ctx := context.Background()

	client := createTestHead(t, "Al Futtaim Construction", cashbook.AccountHeadKindClient)
	supplier := createTestHead(t, "Gulf Petroleum", cashbook.AccountHeadKindSupplier)

	payment := createTestEntry(t, client, cashbook.EntryKindInvoice, 10000, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	advance := createTestEntry(t, supplier, cashbook.EntryKindSupplierPayment, 4000, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	expense := createTestEntry(t, supplier, cashbook.EntryKindExpense, 250, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, payment))
	require.NoError(t, repo.Save(ctx, advance))
	require.NoError(t, repo.Save(ctx, expense))

	t.Run("by kind", func(t *testing.T) {
		kind := cashbook.EntryKindExpense
		entries, err := repo.FindAll(ctx, cashbook.EntryFilter{
			Filter: shared.Filter{Page: 1, PageSize: 10},
			Kind:   &kind,
		})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, expense.ID, entries[0].ID)
	})

	t.Run("by direction", func(t *testing.T) {
		direction := cashbook.DirectionOutflow
		entries, err := repo.FindAll(ctx, cashbook.EntryFilter{
			Filter:    shared.Filter{Page: 1, PageSize: 10},
			Direction: &direction,
		})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("by account head", func(t *testing.T) {
		entries, err := repo.FindAll(ctx, cashbook.EntryFilter{
			Filter:        shared.Filter{Page: 1, PageSize: 10},
			AccountHeadID: &supplier.ID,
		})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("by date range", func(t *testing.T) {
		from := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
		entries, err := repo.FindAll(ctx, cashbook.EntryFilter{
			Filter:   shared.Filter{Page: 1, PageSize: 10},
			FromDate: &from,
			ToDate:   &to,
		})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, advance.ID, entries[0].ID)
	})

	t.Run("orders by transaction date descending by default", func(t *testing.T) {
		entries, err := repo.FindAll(ctx, cashbook.EntryFilter{
			Filter: shared.Filter{Page: 1, PageSize: 10},
		})
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, expense.ID, entries[0].ID)
		assert.Equal(t, payment.ID, entries[2].ID)
	})

	t.Run("count honors filters", func(t *testing.T) {
		kind := cashbook.EntryKindInvoice
		count, err := repo.Count(ctx, cashbook.EntryFilter{Kind: &kind})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormCashbookEntryRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCashbookEntryRepository(db)
	ctx := context.Background()

	head := createTestHead(t, "Gulf Petroleum", cashbook.AccountHeadKindSupplier)
	entry := createTestEntry(t, head, cashbook.EntryKindSupplierPayment, 4000, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	entry.Pending = true
	require.NoError(t, repo.Save(ctx, entry))

	// MarkSettled flips Pending back to false; the zero value must still be
	// written through the locked update
	entry.MarkSettled()
	require.NoError(t, repo.SaveWithLock(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.False(t, found.Pending)

	stale := createTestEntry(t, head, cashbook.EntryKindSupplierPayment, 4000, entry.TransactionDate)
	stale.ID = entry.ID
	stale.Version = entry.Version
	assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
}

func TestGormCashbookEntryRepository_SumAmountByDirection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCashbookEntryRepository(db)
	ctx := context.Background()

	client := createTestHead(t, "Al Futtaim Construction", cashbook.AccountHeadKindClient)
	supplier := createTestHead(t, "Gulf Petroleum", cashbook.AccountHeadKindSupplier)

	require.NoError(t, repo.Save(ctx, createTestEntry(t, client, cashbook.EntryKindInvoice, 10000, time.Now())))
	require.NoError(t, repo.Save(ctx, createTestEntry(t, client, cashbook.EntryKindInvestment, 50000, time.Now())))
	require.NoError(t, repo.Save(ctx, createTestEntry(t, supplier, cashbook.EntryKindExpense, 250, time.Now())))

	inflows, err := repo.SumAmountByDirection(ctx, cashbook.DirectionInflow)
	require.NoError(t, err)
	assert.True(t, inflows.Equal(decimal.NewFromInt(60000)))

	outflows, err := repo.SumAmountByDirection(ctx, cashbook.DirectionOutflow)
	require.NoError(t, err)
	assert.True(t, outflows.Equal(decimal.NewFromInt(250)))
}

func TestGormCashbookEntryRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCashbookEntryRepository(db)
	ctx := context.Background()

	head := createTestHead(t, "Al Futtaim Construction", cashbook.AccountHeadKindClient)
	entry := createTestEntry(t, head, cashbook.EntryKindInvoice, 10000, time.Now())
	require.NoError(t, repo.Save(ctx, entry))

	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), shared.ErrNotFound)
}
