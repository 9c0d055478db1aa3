package report

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/fueltrade/backend/internal/domain/sales"
	"github.com/fueltrade/backend/internal/domain/settings"
	"github.com/fueltrade/backend/internal/domain/shared"
	"github.com/fueltrade/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CacheStore is a small TTL'd byte cache the report layer serializes its
// computed overview into. Redis and in-memory implementations live in
// infrastructure/cache.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// OverdueInvoiceRow is one overdue invoice as read from the store. The read
// repository joins invoices to their sales so the service never walks
// aggregates for reporting.
type OverdueInvoiceRow struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	InvoiceDate   time.Time
	ClientID      uuid.UUID
	ClientName    string
	TotalAmount   decimal.Decimal
	PendingAmount decimal.Decimal
}

// ReadRepository serves the report queries with direct SQL, bypassing the
// aggregate repositories.
type ReadRepository interface {
	OverdueInvoices(ctx context.Context, invoicedBefore time.Time) ([]OverdueInvoiceRow, error)
}

const overviewCacheKey = "report:overview"

// ReportService computes the business overview and overdue receivables
type ReportService struct {
	saleRepo     sales.SaleRepository
	lotRepo      stock.StockLotRepository
	settingsRepo settings.Repository
	readRepo     ReadRepository
	costing      *stock.CostingService
	cache        CacheStore
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	saleRepo sales.SaleRepository,
	lotRepo stock.StockLotRepository,
	settingsRepo settings.Repository,
	readRepo ReadRepository,
	costing *stock.CostingService,
	cache CacheStore,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		saleRepo:     saleRepo,
		lotRepo:      lotRepo,
		settingsRepo: settingsRepo,
		readRepo:     readRepo,
		costing:      costing,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// OverviewResponse is the business dashboard summary
type OverviewResponse struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalCOGS         decimal.Decimal `json:"total_cogs"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	GrossMarginPct    decimal.Decimal `json:"gross_margin_pct"`
	CurrentStockLevel decimal.Decimal `json:"current_stock_level"`
	PendingLPOCount   int64           `json:"pending_lpo_count"`
	PendingLPOValue   decimal.Decimal `json:"pending_lpo_value"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	ComputedAt        time.Time       `json:"computed_at"`
}

// OverdueInvoiceDetail is one overdue invoice within a client group
type OverdueInvoiceDetail struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	DaysOverdue   int             `json:"days_overdue"`
}

// OverdueClientResponse groups a client's overdue invoices
type OverdueClientResponse struct {
	ClientID     uuid.UUID              `json:"client_id"`
	ClientName   string                 `json:"client_name"`
	TotalPending decimal.Decimal        `json:"total_pending"`
	Invoices     []OverdueInvoiceDetail `json:"invoices"`
}

// GetOverview returns the dashboard summary, served from cache while fresh.
// Reads never mutate state; a cache failure falls back to recomputation.
func (s *ReportService) GetOverview(ctx context.Context) (*OverviewResponse, error) {
	if cached, err := s.cache.Get(ctx, overviewCacheKey); err == nil && cached != nil {
		var overview OverviewResponse
		if err := json.Unmarshal(cached, &overview); err == nil {
			return &overview, nil
		}
		s.logger.Warn("discarding malformed cached overview")
	}

	overview, err := s.computeOverview(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(overview); err == nil {
		if err := s.cache.Set(ctx, overviewCacheKey, payload, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache overview", zap.Error(err))
		}
	}
	return overview, nil
}

// InvalidateOverview drops the cached overview so the next read recomputes
// it. The HTTP layer invokes this after every successful mutating request.
func (s *ReportService) InvalidateOverview(ctx context.Context) {
	if err := s.cache.Delete(ctx, overviewCacheKey); err != nil {
		s.logger.Warn("failed to invalidate overview cache", zap.Error(err))
	}
}

// GetOverdueClients groups overdue invoices per client, sorted by total
// pending descending. thresholdDays <= 0 falls back to the configured
// payment terms.
func (s *ReportService) GetOverdueClients(ctx context.Context, thresholdDays int) ([]OverdueClientResponse, error) {
	if thresholdDays <= 0 {
		cfg, err := s.settingsRepo.Get(ctx)
		if err != nil {
			return nil, err
		}
		thresholdDays = cfg.PaymentTermsDays
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, -thresholdDays)
	rows, err := s.readRepo.OverdueInvoices(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID]*OverdueClientResponse)
	for _, row := range rows {
		client, ok := grouped[row.ClientID]
		if !ok {
			client = &OverdueClientResponse{
				ClientID:     row.ClientID,
				ClientName:   row.ClientName,
				TotalPending: decimal.Zero,
			}
			grouped[row.ClientID] = client
		}
		client.TotalPending = client.TotalPending.Add(row.PendingAmount)
		client.Invoices = append(client.Invoices, OverdueInvoiceDetail{
			InvoiceID:     row.InvoiceID,
			InvoiceNumber: row.InvoiceNumber,
			InvoiceDate:   row.InvoiceDate,
			TotalAmount:   row.TotalAmount,
			PendingAmount: row.PendingAmount,
			DaysOverdue:   int(now.Sub(row.InvoiceDate).Hours() / 24),
		})
	}

	responses := make([]OverdueClientResponse, 0, len(grouped))
	for _, client := range grouped {
		responses = append(responses, *client)
	}
	sort.Slice(responses, func(i, j int) bool {
		return responses[i].TotalPending.GreaterThan(responses[j].TotalPending)
	})
	return responses, nil
}

func (s *ReportService) computeOverview(ctx context.Context) (*OverviewResponse, error) {
	lots, err := s.lotRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: -1})
	if err != nil {
		return nil, err
	}
	allSales, err := s.saleRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: -1})
	if err != nil {
		return nil, err
	}

	totalRevenue := decimal.Zero
	totalCOGS := decimal.Zero
	for _, sale := range allSales {
		if sale.Voided {
			continue
		}
		totalRevenue = totalRevenue.Add(sale.TotalAmount)
		// COGS uses the average cost of the lots on hand as of the sale
		// date, so later deliveries never restate past margins
		costAsOf := s.costing.WeightedAverageCostAsOf(lots, sale.SaleDate)
		totalCOGS = totalCOGS.Add(sale.Quantity.Mul(costAsOf))
	}
	totalCOGS = totalCOGS.Round(2)

	grossProfit := totalRevenue.Sub(totalCOGS)
	grossMargin := decimal.Zero
	if totalRevenue.IsPositive() {
		grossMargin = grossProfit.Div(totalRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	}

	purchased, err := s.lotRepo.SumQuantity(ctx)
	if err != nil {
		return nil, err
	}
	sold, err := s.saleRepo.SumQuantitySold(ctx)
	if err != nil {
		return nil, err
	}

	pendingLPOCount, err := s.saleRepo.CountByStatus(ctx, sales.SaleStatusPendingLPO)
	if err != nil {
		return nil, err
	}
	pendingLPOValue, err := s.saleRepo.SumTotalByStatus(ctx, sales.SaleStatusPendingLPO)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.saleRepo.SumPendingByStatus(ctx, sales.SaleStatusInvoiced)
	if err != nil {
		return nil, err
	}

	return &OverviewResponse{
		TotalRevenue:      totalRevenue,
		TotalCOGS:         totalCOGS,
		GrossProfit:       grossProfit,
		GrossMarginPct:    grossMargin,
		CurrentStockLevel: s.costing.StockLevel(purchased, sold),
		PendingLPOCount:   pendingLPOCount,
		PendingLPOValue:   pendingLPOValue,
		TotalOutstanding:  outstanding,
		ComputedAt:        time.Now(),
	}, nil
}
