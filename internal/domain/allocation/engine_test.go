package allocation

import (
	"testing"
	"time"

	"github.com/fueltrade/backend/internal/domain/cashbook"
	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func newOutflowEntry(t *testing.T, amount string) *cashbook.CashbookEntry {
	t.Helper()
	entry, err := cashbook.NewCashbookEntry(
		time.Now(), cashbook.EntryKindSupplierPayment, "",
		decimal.RequireFromString(amount),
		uuid.New(), "Gulf Fuel Supplies", "", cashbook.PaymentMethodBankTransfer,
		cashbook.ReferenceTypeManual, nil, false, "")
	require.NoError(t, err)
	return entry
}

// newInvoicedTarget builds a sale in INVOICED status with its invoice.
func newInvoicedTarget(t *testing.T, quantity, unitPrice, vat string) *InvoiceTarget {
	t.Helper()
	sale, err := sales.NewSale(
		uuid.New(), "Al Madar Contracting", "Site B",
		time.Now(),
		decimal.RequireFromString(quantity),
		decimal.RequireFromString(unitPrice),
		decimal.RequireFromString("2.000"),
		decimal.RequireFromString(vat),
		"LPO-7731", nil)
	require.NoError(t, err)

	invoice, err := sales.NewInvoice(sale, "INV-2026-00001", time.Now())
	require.NoError(t, err)
	require.NoError(t, sale.MarkInvoiced(time.Now()))

	return &InvoiceTarget{Invoice: invoice, Sale: sale}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	return derr.Code
}

func TestAllocatePaymentFullSettlement(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "4500.00")
	// 2000 gal at 2.142857 with 5% VAT comes to 4500.00
	target := newInvoicedTarget(t, "2000", "2.142857", "5")
	require.Equal(t, "4500.00", target.Sale.TotalAmount.StringFixed(2))

	allocs, err := engine.AllocatePayment(entry, decimal.Zero,
		map[uuid.UUID]*InvoiceTarget{target.Invoice.ID: target},
		[]PaymentLine{{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("4500.00")}})

	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, entry.ID, allocs[0].CashbookEntryID)
	assert.Equal(t, target.Sale.ID, allocs[0].SaleID)
	assert.True(t, target.Sale.PendingAmount.IsZero())
	assert.Equal(t, sales.SaleStatusPaid, target.Sale.Status)
	assert.Equal(t, sales.InvoiceStatusPaid, target.Invoice.Status)
}

func TestAllocatePaymentPartialThenRemainder(t *testing.T) {
	engine := NewEngine()
	target := newInvoicedTarget(t, "2000", "2.142857", "5")

	first := newInflowEntry(t, "6000.00")
	_, err := engine.AllocatePayment(first, decimal.Zero,
		map[uuid.UUID]*InvoiceTarget{target.Invoice.ID: target},
		[]PaymentLine{{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("3000.00")}})
	require.NoError(t, err)
	assert.Equal(t, "1500.00", target.Sale.PendingAmount.StringFixed(2))
	assert.Equal(t, sales.SaleStatusInvoiced, target.Sale.Status)

	// remainder from the same entry, which has 3000 of capacity left
	_, err = engine.AllocatePayment(first, decimal.RequireFromString("3000.00"),
		map[uuid.UUID]*InvoiceTarget{target.Invoice.ID: target},
		[]PaymentLine{{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("1500.00")}})
	require.NoError(t, err)
	assert.Equal(t, sales.SaleStatusPaid, target.Sale.Status)
}

func TestAllocatePaymentSplitAcrossInvoices(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "10000.00")
	a := newInvoicedTarget(t, "2000", "2.142857", "5")
	b := newInvoicedTarget(t, "1000", "2.50", "5")

	allocs, err := engine.AllocatePayment(entry, decimal.Zero,
		map[uuid.UUID]*InvoiceTarget{a.Invoice.ID: a, b.Invoice.ID: b},
		[]PaymentLine{
			{InvoiceID: a.Invoice.ID, Amount: decimal.RequireFromString("4500.00")},
			{InvoiceID: b.Invoice.ID, Amount: decimal.RequireFromString("1000.00")},
		})

	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, sales.SaleStatusPaid, a.Sale.Status)
	assert.Equal(t, "1625.00", b.Sale.PendingAmount.StringFixed(2))
	assert.Equal(t, sales.SaleStatusInvoiced, b.Sale.Status)
}

func TestAllocatePaymentRejectsOverInvoiceBalance(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "10000.00")
	target := newInvoicedTarget(t, "2000", "2.142857", "5")

	_, err := engine.AllocatePayment(entry, decimal.Zero,
		map[uuid.UUID]*InvoiceTarget{target.Invoice.ID: target},
		[]PaymentLine{{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("4600.00")}})

	require.Error(t, err)
	assert.Equal(t, "AMOUNT_EXCEEDS_INVOICE_BALANCE", domainCode(t, err))
	// nothing mutated
	assert.Equal(t, "4500.00", target.Sale.PendingAmount.StringFixed(2))
	assert.Equal(t, sales.SaleStatusInvoiced, target.Sale.Status)
}

func TestAllocatePaymentRejectsOverEntryCapacity(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "3000.00")
	target := newInvoicedTarget(t, "2000", "2.142857", "5")

	_, err := engine.AllocatePayment(entry, decimal.RequireFromString("1000.00"),
		map[uuid.UUID]*InvoiceTarget{target.Invoice.ID: target},
		[]PaymentLine{{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("2500.00")}})

	require.Error(t, err)
	assert.Equal(t, "AMOUNT_EXCEEDS_ENTRY_CAPACITY", domainCode(t, err))
	assert.Equal(t, "4500.00", target.Sale.PendingAmount.StringFixed(2))
}

func TestAllocatePaymentRejectsDuplicateInvoice(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "10000.00")
	target := newInvoicedTarget(t, "2000", "2.142857", "5")

	_, err := engine.AllocatePayment(entry, decimal.Zero,
		map[uuid.UUID]*InvoiceTarget{target.Invoice.ID: target},
		[]PaymentLine{
			{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("2000.00")},
			{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("2000.00")},
		})

	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_INVOICE_IN_BATCH", domainCode(t, err))
	assert.Equal(t, "4500.00", target.Sale.PendingAmount.StringFixed(2))
}

func TestAllocatePaymentRejectsOutflowEntry(t *testing.T) {
	engine := NewEngine()
	entry := newOutflowEntry(t, "5000.00")
	target := newInvoicedTarget(t, "2000", "2.142857", "5")

	_, err := engine.AllocatePayment(entry, decimal.Zero,
		map[uuid.UUID]*InvoiceTarget{target.Invoice.ID: target},
		[]PaymentLine{{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("1000.00")}})

	require.Error(t, err)
	assert.Equal(t, "ENTRY_NOT_INFLOW", domainCode(t, err))
}

func TestAllocatePaymentRejectsUnknownInvoice(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "5000.00")

	_, err := engine.AllocatePayment(entry, decimal.Zero,
		map[uuid.UUID]*InvoiceTarget{},
		[]PaymentLine{{InvoiceID: uuid.New(), Amount: decimal.RequireFromString("1000.00")}})

	require.Error(t, err)
	assert.Equal(t, "INVOICE_NOT_FOUND", domainCode(t, err))
}

func TestAllocatePaymentRejectsEmptyBatch(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "5000.00")

	_, err := engine.AllocatePayment(entry, decimal.Zero, nil, nil)

	require.Error(t, err)
	assert.Equal(t, "INVALID_INPUT", domainCode(t, err))
}

func TestReversePaymentReopensPaidSale(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "4500.00")
	target := newInvoicedTarget(t, "2000", "2.142857", "5")

	allocs, err := engine.AllocatePayment(entry, decimal.Zero,
		map[uuid.UUID]*InvoiceTarget{target.Invoice.ID: target},
		[]PaymentLine{{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("4500.00")}})
	require.NoError(t, err)
	require.Equal(t, sales.SaleStatusPaid, target.Sale.Status)

	require.NoError(t, engine.ReversePayment(allocs[0], target))

	assert.Equal(t, "4500.00", target.Sale.PendingAmount.StringFixed(2))
	assert.Equal(t, sales.SaleStatusInvoiced, target.Sale.Status)
	assert.Equal(t, sales.InvoiceStatusGenerated, target.Invoice.Status)
}

func TestReversePaymentPartialKeepsInvoiceStatus(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "4500.00")
	target := newInvoicedTarget(t, "2000", "2.142857", "5")

	allocs, err := engine.AllocatePayment(entry, decimal.Zero,
		map[uuid.UUID]*InvoiceTarget{target.Invoice.ID: target},
		[]PaymentLine{{InvoiceID: target.Invoice.ID, Amount: decimal.RequireFromString("2000.00")}})
	require.NoError(t, err)

	require.NoError(t, engine.ReversePayment(allocs[0], target))

	assert.Equal(t, "4500.00", target.Sale.PendingAmount.StringFixed(2))
	assert.Equal(t, sales.SaleStatusInvoiced, target.Sale.Status)
}

func TestAllocateAdvanceHappyPath(t *testing.T) {
	engine := NewEngine()
	entry := newOutflowEntry(t, "20000.00")
	lot, err := stock.NewStockLot(time.Now(),
		decimal.RequireFromString("4000"),
		decimal.RequireFromString("2.500"),
		decimal.RequireFromString("5"),
		"Gulf Fuel Supplies", "")
	require.NoError(t, err)
	require.Equal(t, "10500.00", lot.TotalCost.StringFixed(2))

	allocs, err := engine.AllocateAdvance(entry, decimal.Zero,
		map[uuid.UUID]*LotTarget{lot.ID: {Lot: lot, Allocated: decimal.Zero}},
		[]AdvanceLine{{StockLotID: lot.ID, Amount: decimal.RequireFromString("10500.00")}})

	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, lot.ID, allocs[0].StockLotID)
}

func TestAllocateAdvanceRejectsOverLotCost(t *testing.T) {
	engine := NewEngine()
	entry := newOutflowEntry(t, "20000.00")
	lot, err := stock.NewStockLot(time.Now(),
		decimal.RequireFromString("4000"),
		decimal.RequireFromString("2.500"),
		decimal.RequireFromString("5"),
		"Gulf Fuel Supplies", "")
	require.NoError(t, err)

	// 8000 already advanced, only 2500 of the lot's 10500 cost is open
	_, err = engine.AllocateAdvance(entry, decimal.Zero,
		map[uuid.UUID]*LotTarget{lot.ID: {Lot: lot, Allocated: decimal.RequireFromString("8000.00")}},
		[]AdvanceLine{{StockLotID: lot.ID, Amount: decimal.RequireFromString("3000.00")}})

	require.Error(t, err)
	assert.Equal(t, "AMOUNT_EXCEEDS_LOT_COST", domainCode(t, err))
}

func TestAllocateAdvanceRejectsInflowEntry(t *testing.T) {
	engine := NewEngine()
	entry := newInflowEntry(t, "5000.00")

	_, err := engine.AllocateAdvance(entry, decimal.Zero,
		map[uuid.UUID]*LotTarget{},
		[]AdvanceLine{{StockLotID: uuid.New(), Amount: decimal.RequireFromString("1000.00")}})

	require.Error(t, err)
	assert.Equal(t, "ENTRY_NOT_OUTFLOW", domainCode(t, err))
}

func TestAllocateAdvanceRejectsDuplicateLot(t *testing.T) {
	engine := NewEngine()
	entry := newOutflowEntry(t, "20000.00")
	lot, err := stock.NewStockLot(time.Now(),
		decimal.RequireFromString("4000"),
		decimal.RequireFromString("2.500"),
		decimal.RequireFromString("5"),
		"Gulf Fuel Supplies", "")
	require.NoError(t, err)

	_, err = engine.AllocateAdvance(entry, decimal.Zero,
		map[uuid.UUID]*LotTarget{lot.ID: {Lot: lot, Allocated: decimal.Zero}},
		[]AdvanceLine{
			{StockLotID: lot.ID, Amount: decimal.RequireFromString("1000.00")},
			{StockLotID: lot.ID, Amount: decimal.RequireFromString("1000.00")},
		})

	require.Error(t, err)
	assert.Equal(t, "DUPLICATE_LOT_IN_BATCH", domainCode(t, err))
}

func TestAllocateAdvanceRejectsUnknownLot(t *testing.T) {
	engine := NewEngine()
	entry := newOutflowEntry(t, "5000.00")

	_, err := engine.AllocateAdvance(entry, decimal.Zero,
		map[uuid.UUID]*LotTarget{},
		[]AdvanceLine{{StockLotID: uuid.New(), Amount: decimal.RequireFromString("1000.00")}})

	require.Error(t, err)
	assert.Equal(t, "STOCK_LOT_NOT_FOUND", domainCode(t, err))
}
