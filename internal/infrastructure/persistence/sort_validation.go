package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// StockLotSortFields contains allowed sort fields for stock lots
var StockLotSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"purchase_date": true,
	"quantity":      true,
	"unit_cost":     true,
	"total_cost":    true,
	"supplier_name": true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"sale_date":      true,
	"client_name":    true,
	"quantity":       true,
	"total_amount":   true,
	"pending_amount": true,
	"status":         true,
	"lpo_number":     true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"invoice_date":   true,
	"client_name":    true,
	"total_amount":   true,
	"status":         true,
}

// AccountHeadSortFields contains allowed sort fields for account heads
var AccountHeadSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"kind":       true,
}

// CashbookEntrySortFields contains allowed sort fields for cashbook entries
var CashbookEntrySortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"transaction_date":  true,
	"kind":              true,
	"direction":         true,
	"amount":            true,
	"account_head_name": true,
}
