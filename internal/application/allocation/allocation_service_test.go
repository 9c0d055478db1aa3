package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/fueltrade/backend/internal/domain/allocation"
	"github.com/fueltrade/backend/internal/domain/cashbook"
	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// passthroughTxManager runs the unit of work directly; transactional
// behavior itself is covered by the persistence tests.
type passthroughTxManager struct{}

func (passthroughTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashbook.CashbookEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashbook.CashbookEntry), args.Error(1)
}

func (m *MockEntryRepository) FindAll(ctx context.Context, filter cashbook.EntryFilter) ([]cashbook.CashbookEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]cashbook.CashbookEntry), args.Error(1)
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *cashbook.CashbookEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) SaveWithLock(ctx context.Context, entry *cashbook.CashbookEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEntryRepository) Count(ctx context.Context, filter cashbook.EntryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) SumAmountByDirection(ctx context.Context, direction cashbook.Direction) (decimal.Decimal, error) {
	args := m.Called(ctx, direction)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockPaymentAllocationRepository struct {
	mock.Mock
}

func (m *MockPaymentAllocationRepository) Save(ctx context.Context, alloc *allocation.PaymentAllocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *MockPaymentAllocationRepository) SaveAll(ctx context.Context, allocs []*allocation.PaymentAllocation) error {
	args := m.Called(ctx, allocs)
	return args.Error(0)
}

func (m *MockPaymentAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*allocation.PaymentAllocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentAllocationRepository) FindByEntry(ctx context.Context, entryID uuid.UUID) ([]*allocation.PaymentAllocation, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).([]*allocation.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentAllocationRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*allocation.PaymentAllocation, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]*allocation.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentAllocationRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*allocation.PaymentAllocation, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).([]*allocation.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentAllocationRepository) SumByEntry(ctx context.Context, entryID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentAllocationRepository) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentAllocationRepository) CountByEntry(ctx context.Context, entryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentAllocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentAllocationRepository) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

type MockAdvanceAllocationRepository struct {
	mock.Mock
}

func (m *MockAdvanceAllocationRepository) Save(ctx context.Context, alloc *allocation.SupplierAdvanceAllocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *MockAdvanceAllocationRepository) SaveAll(ctx context.Context, allocs []*allocation.SupplierAdvanceAllocation) error {
	args := m.Called(ctx, allocs)
	return args.Error(0)
}

func (m *MockAdvanceAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*allocation.SupplierAdvanceAllocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.SupplierAdvanceAllocation), args.Error(1)
}

func (m *MockAdvanceAllocationRepository) FindByEntry(ctx context.Context, entryID uuid.UUID) ([]*allocation.SupplierAdvanceAllocation, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).([]*allocation.SupplierAdvanceAllocation), args.Error(1)
}

func (m *MockAdvanceAllocationRepository) FindByLot(ctx context.Context, lotID uuid.UUID) ([]*allocation.SupplierAdvanceAllocation, error) {
	args := m.Called(ctx, lotID)
	return args.Get(0).([]*allocation.SupplierAdvanceAllocation), args.Error(1)
}

func (m *MockAdvanceAllocationRepository) SumByEntry(ctx context.Context, entryID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAdvanceAllocationRepository) SumByLot(ctx context.Context, lotID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, lotID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAdvanceAllocationRepository) CountByEntry(ctx context.Context, entryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdvanceAllocationRepository) CountByLot(ctx context.Context, lotID uuid.UUID) (int64, error) {
	args := m.Called(ctx, lotID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdvanceAllocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAdvanceAllocationRepository) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*sales.Invoice, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*sales.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *sales.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *sales.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsForSale(ctx context.Context, saleID uuid.UUID) (bool, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).(bool), args.Error(1)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, clientID, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByStatus(ctx context.Context, status sales.SaleStatus, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) CountByStatus(ctx context.Context, status sales.SaleStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) SumQuantitySold(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSaleRepository) SumPendingByStatus(ctx context.Context, status sales.SaleStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSaleRepository) SumTotalByStatus(ctx context.Context, status sales.SaleStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockStockLotRepository struct {
	mock.Mock
}

func (m *MockStockLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockLot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockLot, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]stock.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) FindPurchasedOnOrBefore(ctx context.Context, date time.Time) ([]stock.StockLot, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]stock.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) Save(ctx context.Context, lot *stock.StockLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockStockLotRepository) SaveWithLock(ctx context.Context, lot *stock.StockLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockStockLotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStockLotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockLotRepository) SumQuantity(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStockLotRepository) SumQuantityExcluding(ctx context.Context, excludedID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, excludedID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// =============================================================================
// Test Helpers
// =============================================================================

func newTestService(
	entryRepo *MockEntryRepository,
	allocRepo *MockPaymentAllocationRepository,
	advanceRepo *MockAdvanceAllocationRepository,
	invoiceRepo *MockInvoiceRepository,
	saleRepo *MockSaleRepository,
	lotRepo *MockStockLotRepository,
) *AllocationService {
	return NewAllocationService(
		entryRepo, allocRepo, advanceRepo, invoiceRepo, saleRepo, lotRepo,
		allocation.NewEngine(), passthroughTxManager{})
}

func newInflowEntry(t *testing.T, amount string) *cashbook.CashbookEntry {
	t.Helper()
	entry, err := cashbook.NewCashbookEntry(
		time.Now(), cashbook.EntryKindInvoice, "",
		decimal.RequireFromString(amount),
		uuid.New(), "Al Madar Contracting", "", cashbook.PaymentMethodBankTransfer,
		cashbook.ReferenceTypeManual, nil, false, "")
	require.NoError(t, err)
	return entry
}

// newInvoicedSale builds a sale with a 4500.00 total (2000 gal) in INVOICED
// status together with its invoice.
func newInvoicedSale(t *testing.T) (*sales.Sale, *sales.Invoice) {
	t.Helper()
	sale, err := sales.NewSale(
		uuid.New(), "Al Madar Contracting", "Site B", time.Now(),
		decimal.RequireFromString("2000"),
		decimal.RequireFromString("2.142857"),
		decimal.RequireFromString("2.000"),
		decimal.RequireFromString("5"),
		"LPO-7731", nil)
	require.NoError(t, err)
	invoice, err := sales.NewInvoice(sale, "INV-2026-00001", time.Now())
	require.NoError(t, err)
	require.NoError(t, sale.MarkInvoiced(time.Now()))
	return sale, invoice
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}

// =============================================================================
// AllocatePayment
// =============================================================================

func TestAllocationService_AllocatePayment_FullSettlement(t *testing.T) {
	ctx := context.Background()
	entryRepo := new(MockEntryRepository)
	allocRepo := new(MockPaymentAllocationRepository)
	advanceRepo := new(MockAdvanceAllocationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	saleRepo := new(MockSaleRepository)
	lotRepo := new(MockStockLotRepository)
	service := newTestService(entryRepo, allocRepo, advanceRepo, invoiceRepo, saleRepo, lotRepo)

	entry := newInflowEntry(t, "4500.00")
	sale, invoice := newInvoicedSale(t)

	entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)
	allocRepo.On("SumByEntry", ctx, entry.ID).Return(decimal.Zero, nil)
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	saleRepo.On("FindByID", ctx, invoice.SaleID).Return(sale, nil)
	saleRepo.On("SaveWithLock", ctx, sale).Return(nil)
	invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)
	allocRepo.On("SaveAll", ctx, mock.AnythingOfType("[]*allocation.PaymentAllocation")).Return(nil)

	result, err := service.AllocatePayment(ctx, AllocatePaymentRequest{
		EntryID: entry.ID,
		Lines: []AllocationLineRequest{
			{InvoiceID: invoice.ID, Amount: decimal.RequireFromString("4500.00")},
		},
	})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, sales.SaleStatusPaid, sale.Status)
	assert.Equal(t, sales.InvoiceStatusPaid, invoice.Status)
	assert.True(t, sale.PendingAmount.IsZero())

	entryRepo.AssertExpectations(t)
	allocRepo.AssertExpectations(t)
	saleRepo.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
}

func TestAllocationService_AllocatePayment_OverBalanceLeavesNothingApplied(t *testing.T) {
	ctx := context.Background()
	entryRepo := new(MockEntryRepository)
	allocRepo := new(MockPaymentAllocationRepository)
	advanceRepo := new(MockAdvanceAllocationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	saleRepo := new(MockSaleRepository)
	lotRepo := new(MockStockLotRepository)
	service := newTestService(entryRepo, allocRepo, advanceRepo, invoiceRepo, saleRepo, lotRepo)

	entry := newInflowEntry(t, "10000.00")
	sale, invoice := newInvoicedSale(t)

	entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)
	allocRepo.On("SumByEntry", ctx, entry.ID).Return(decimal.Zero, nil)
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	saleRepo.On("FindByID", ctx, invoice.SaleID).Return(sale, nil)

	// 4600 against a 4500 pending balance
	_, err := service.AllocatePayment(ctx, AllocatePaymentRequest{
		EntryID: entry.ID,
		Lines: []AllocationLineRequest{
			{InvoiceID: invoice.ID, Amount: decimal.RequireFromString("4600.00")},
		},
	})

	assertDomainCode(t, err, "AMOUNT_EXCEEDS_INVOICE_BALANCE")
	assert.Equal(t, "4500.00", sale.PendingAmount.StringFixed(2))
	assert.Equal(t, sales.SaleStatusInvoiced, sale.Status)
	saleRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	allocRepo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestAllocationService_AllocatePayment_BatchFailsWhole(t *testing.T) {
	ctx := context.Background()
	entryRepo := new(MockEntryRepository)
	allocRepo := new(MockPaymentAllocationRepository)
	advanceRepo := new(MockAdvanceAllocationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	saleRepo := new(MockSaleRepository)
	lotRepo := new(MockStockLotRepository)
	service := newTestService(entryRepo, allocRepo, advanceRepo, invoiceRepo, saleRepo, lotRepo)

	entry := newInflowEntry(t, "10000.00")
	saleA, invoiceA := newInvoicedSale(t)
	missingInvoiceID := uuid.New()

	entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)
	allocRepo.On("SumByEntry", ctx, entry.ID).Return(decimal.Zero, nil)
	invoiceRepo.On("FindByID", ctx, invoiceA.ID).Return(invoiceA, nil)
	saleRepo.On("FindByID", ctx, invoiceA.SaleID).Return(saleA, nil)
	invoiceRepo.On("FindByID", ctx, missingInvoiceID).Return(nil, nil)

	// the valid first line must not survive the failure of the second
	_, err := service.AllocatePayment(ctx, AllocatePaymentRequest{
		EntryID: entry.ID,
		Lines: []AllocationLineRequest{
			{InvoiceID: invoiceA.ID, Amount: decimal.RequireFromString("1000.00")},
			{InvoiceID: missingInvoiceID, Amount: decimal.RequireFromString("500.00")},
		},
	})

	assertDomainCode(t, err, "INVOICE_NOT_FOUND")
	assert.Equal(t, "4500.00", saleA.PendingAmount.StringFixed(2))
	allocRepo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}

func TestAllocationService_AllocatePayment_EntryNotFound(t *testing.T) {
	ctx := context.Background()
	entryRepo := new(MockEntryRepository)
	allocRepo := new(MockPaymentAllocationRepository)
	advanceRepo := new(MockAdvanceAllocationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	saleRepo := new(MockSaleRepository)
	lotRepo := new(MockStockLotRepository)
	service := newTestService(entryRepo, allocRepo, advanceRepo, invoiceRepo, saleRepo, lotRepo)

	entryID := uuid.New()
	entryRepo.On("FindByID", ctx, entryID).Return(nil, nil)

	_, err := service.AllocatePayment(ctx, AllocatePaymentRequest{
		EntryID: entryID,
		Lines: []AllocationLineRequest{
			{InvoiceID: uuid.New(), Amount: decimal.RequireFromString("100.00")},
		},
	})

	assertDomainCode(t, err, "ENTRY_NOT_FOUND")
}

// =============================================================================
// DeletePaymentAllocation
// =============================================================================

func TestAllocationService_DeletePaymentAllocation_ReversesPaid(t *testing.T) {
	ctx := context.Background()
	entryRepo := new(MockEntryRepository)
	allocRepo := new(MockPaymentAllocationRepository)
	advanceRepo := new(MockAdvanceAllocationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	saleRepo := new(MockSaleRepository)
	lotRepo := new(MockStockLotRepository)
	service := newTestService(entryRepo, allocRepo, advanceRepo, invoiceRepo, saleRepo, lotRepo)

	sale, invoice := newInvoicedSale(t)
	require.NoError(t, sale.ApplyAllocation(decimal.RequireFromString("4500.00")))
	invoice.MarkPaid()
	require.Equal(t, sales.SaleStatusPaid, sale.Status)

	alloc, err := allocation.NewPaymentAllocation(uuid.New(), invoice.ID, sale.ID,
		decimal.RequireFromString("4500.00"), "")
	require.NoError(t, err)

	allocRepo.On("FindByID", ctx, alloc.ID).Return(alloc, nil)
	invoiceRepo.On("FindByID", ctx, invoice.ID).Return(invoice, nil)
	saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
	saleRepo.On("SaveWithLock", ctx, sale).Return(nil)
	invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)
	allocRepo.On("Delete", ctx, alloc.ID).Return(nil)

	require.NoError(t, service.DeletePaymentAllocation(ctx, alloc.ID))

	assert.Equal(t, sales.SaleStatusInvoiced, sale.Status)
	assert.Equal(t, "4500.00", sale.PendingAmount.StringFixed(2))
	assert.Equal(t, sales.InvoiceStatusGenerated, invoice.Status)
	allocRepo.AssertExpectations(t)
}

func TestAllocationService_DeletePaymentAllocation_NotFound(t *testing.T) {
	ctx := context.Background()
	entryRepo := new(MockEntryRepository)
	allocRepo := new(MockPaymentAllocationRepository)
	advanceRepo := new(MockAdvanceAllocationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	saleRepo := new(MockSaleRepository)
	lotRepo := new(MockStockLotRepository)
	service := newTestService(entryRepo, allocRepo, advanceRepo, invoiceRepo, saleRepo, lotRepo)

	id := uuid.New()
	allocRepo.On("FindByID", ctx, id).Return(nil, nil)

	err := service.DeletePaymentAllocation(ctx, id)
	assertDomainCode(t, err, "ALLOCATION_NOT_FOUND")
}

// =============================================================================
// AllocateAdvance
// =============================================================================

func TestAllocationService_AllocateAdvance_Success(t *testing.T) {
	ctx := context.Background()
	entryRepo := new(MockEntryRepository)
	allocRepo := new(MockPaymentAllocationRepository)
	advanceRepo := new(MockAdvanceAllocationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	saleRepo := new(MockSaleRepository)
	lotRepo := new(MockStockLotRepository)
	service := newTestService(entryRepo, allocRepo, advanceRepo, invoiceRepo, saleRepo, lotRepo)

	entry, err := cashbook.NewCashbookEntry(
		time.Now(), cashbook.EntryKindSupplierPayment, "",
		decimal.RequireFromString("20000.00"),
		uuid.New(), "Gulf Fuel Supplies", "", cashbook.PaymentMethodBankTransfer,
		cashbook.ReferenceTypeManual, nil, false, "")
	require.NoError(t, err)

	lot, err := stock.NewStockLot(time.Now(),
		decimal.RequireFromString("4000"),
		decimal.RequireFromString("2.500"),
		decimal.RequireFromString("5"),
		"Gulf Fuel Supplies", "")
	require.NoError(t, err)

	entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)
	advanceRepo.On("SumByEntry", ctx, entry.ID).Return(decimal.Zero, nil)
	lotRepo.On("FindByID", ctx, lot.ID).Return(lot, nil)
	advanceRepo.On("SumByLot", ctx, lot.ID).Return(decimal.Zero, nil)
	advanceRepo.On("SaveAll", ctx, mock.AnythingOfType("[]*allocation.SupplierAdvanceAllocation")).Return(nil)

	result, err := service.AllocateAdvance(ctx, AllocateAdvanceRequest{
		EntryID: entry.ID,
		Lines: []AdvanceLineRequest{
			{StockLotID: lot.ID, Amount: decimal.RequireFromString("10500.00")},
		},
	})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, lot.ID, result[0].StockLotID)
	advanceRepo.AssertExpectations(t)
}

func TestAllocationService_AllocateAdvance_RejectsInflowEntry(t *testing.T) {
	ctx := context.Background()
	entryRepo := new(MockEntryRepository)
	allocRepo := new(MockPaymentAllocationRepository)
	advanceRepo := new(MockAdvanceAllocationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	saleRepo := new(MockSaleRepository)
	lotRepo := new(MockStockLotRepository)
	service := newTestService(entryRepo, allocRepo, advanceRepo, invoiceRepo, saleRepo, lotRepo)

	entry := newInflowEntry(t, "5000.00")
	lotID := uuid.New()

	entryRepo.On("FindByID", ctx, entry.ID).Return(entry, nil)
	advanceRepo.On("SumByEntry", ctx, entry.ID).Return(decimal.Zero, nil)
	lotRepo.On("FindByID", ctx, lotID).Return(nil, nil)

	_, err := service.AllocateAdvance(ctx, AllocateAdvanceRequest{
		EntryID: entry.ID,
		Lines: []AdvanceLineRequest{
			{StockLotID: lotID, Amount: decimal.RequireFromString("1000.00")},
		},
	})

	assertDomainCode(t, err, "ENTRY_NOT_OUTFLOW")
	advanceRepo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
}
