package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionManager_Commit(t *testing.T) {
	db := setupTestDB(t)
	tm := NewGormTransactionManager(db)
	lotRepo := NewGormStockLotRepository(db)
	ctx := context.Background()

	lot := createTestLot(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 5000, "Emirates Fuel Supply")

	err := tm.WithinTransaction(ctx, func(txCtx context.Context) error {
		return lotRepo.Save(txCtx, lot)
	})
	require.NoError(t, err)

	found, err := lotRepo.FindByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, lot.ID, found.ID)
}

func TestGormTransactionManager_RollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	tm := NewGormTransactionManager(db)
	lotRepo := NewGormStockLotRepository(db)
	ctx := context.Background()

	lot := createTestLot(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 5000, "Emirates Fuel Supply")
	boom := errors.New("allocation failed")

	err := tm.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := lotRepo.Save(txCtx, lot); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := lotRepo.FindByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Nil(t, found, "rolled back write must not be visible")
}

func TestGormTransactionManager_NestedJoinsOuterTransaction(t *testing.T) {
	db := setupTestDB(t)
	tm := NewGormTransactionManager(db)
	lotRepo := NewGormStockLotRepository(db)
	ctx := context.Background()

	first := createTestLot(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 5000, "Emirates Fuel Supply")
	second := createTestLot(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), 2000, "Gulf Petroleum")
	boom := errors.New("inner failure")

	err := tm.WithinTransaction(ctx, func(outerCtx context.Context) error {
		if err := lotRepo.Save(outerCtx, first); err != nil {
			return err
		}
		return tm.WithinTransaction(outerCtx, func(innerCtx context.Context) error {
			if err := lotRepo.Save(innerCtx, second); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	// the inner call joined the outer transaction, so both writes roll back
	found, err := lotRepo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
	found, err = lotRepo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGormTransactionManager_ReadsSeeUncommittedWritesInTx(t *testing.T) {
	db := setupTestDB(t)
	tm := NewGormTransactionManager(db)
	lotRepo := NewGormStockLotRepository(db)
	ctx := context.Background()

	lot := createTestLot(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 5000, "Emirates Fuel Supply")

	err := tm.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := lotRepo.Save(txCtx, lot); err != nil {
			return err
		}
		found, err := lotRepo.FindByID(txCtx, lot.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, lot.ID, found.ID)
		return nil
	})
	require.NoError(t, err)
}
