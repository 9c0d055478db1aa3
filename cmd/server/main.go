package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	allocationapp "github.com/fueltrade/backend/internal/application/allocation"
	cashbookapp "github.com/fueltrade/backend/internal/application/cashbook"
	reportapp "github.com/fueltrade/backend/internal/application/report"
	salesapp "github.com/fueltrade/backend/internal/application/sales"
	settingsapp "github.com/fueltrade/backend/internal/application/settings"
	stockapp "github.com/fueltrade/backend/internal/application/stock"
	allocdomain "github.com/fueltrade/backend/internal/domain/allocation"
	stockdomain "github.com/fueltrade/backend/internal/domain/stock"
	"github.com/fueltrade/backend/internal/infrastructure/auth"
	"github.com/fueltrade/backend/internal/infrastructure/cache"
	"github.com/fueltrade/backend/internal/infrastructure/config"
	"github.com/fueltrade/backend/internal/infrastructure/logger"
	"github.com/fueltrade/backend/internal/infrastructure/persistence"
	"github.com/fueltrade/backend/internal/infrastructure/telemetry"
	"github.com/fueltrade/backend/internal/interfaces/http/handler"
	"github.com/fueltrade/backend/internal/interfaces/http/middleware"
	"github.com/fueltrade/backend/internal/interfaces/http/router"
)

//	@title			Fuel Trade Back Office API
//	@version		1.0
//	@description	Reconciliation core for a fuel trading back office: stock lots, sales, invoicing, cashbook and allocations.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Fuel Trade Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize tracing
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	if cfg.Telemetry.Enabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracing := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	stockLotRepo := persistence.NewGormStockLotRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	invoiceNumberAlloc := persistence.NewGormInvoiceNumberAllocator(db.DB)
	accountHeadRepo := persistence.NewGormAccountHeadRepository(db.DB)
	entryRepo := persistence.NewGormCashbookEntryRepository(db.DB)
	paymentAllocRepo := persistence.NewGormPaymentAllocationRepository(db.DB)
	advanceAllocRepo := persistence.NewGormSupplierAdvanceAllocationRepository(db.DB)
	settingsRepo := persistence.NewGormBusinessSettingsRepository(db.DB, cfg.App.Name)
	reportReadRepo := persistence.NewGormReportReadRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Domain services
	costing := stockdomain.NewCostingService()
	allocEngine := allocdomain.NewEngine()

	// Report cache store (Redis when configured, in-memory otherwise)
	cacheFactory := cache.NewCacheStoreFactory(cfg.Redis, cache.WithLogger(log))
	cacheStore, err := cacheFactory.Create()
	if err != nil {
		log.Fatal("Failed to create cache store", zap.Error(err))
	}

	// Initialize application services
	stockService := stockapp.NewStockService(stockLotRepo, saleRepo, advanceAllocRepo, costing, txManager)
	saleService := salesapp.NewSaleService(saleRepo, invoiceRepo, stockLotRepo, paymentAllocRepo, costing, txManager)
	invoiceService := salesapp.NewInvoiceService(invoiceRepo, saleRepo, paymentAllocRepo, settingsRepo, invoiceNumberAlloc, txManager)
	accountHeadService := cashbookapp.NewAccountHeadService(accountHeadRepo, entryRepo)
	entryService := cashbookapp.NewEntryService(entryRepo, accountHeadRepo, paymentAllocRepo, advanceAllocRepo, invoiceRepo, saleRepo, allocEngine, txManager)
	allocationService := allocationapp.NewAllocationService(entryRepo, paymentAllocRepo, advanceAllocRepo, invoiceRepo, saleRepo, stockLotRepo, allocEngine, txManager)
	reportService := reportapp.NewReportService(saleRepo, stockLotRepo, settingsRepo, reportReadRepo, costing, cacheStore, cfg.Report.OverviewCacheTTL, log)
	settingsService := settingsapp.NewSettingsService(settingsRepo)

	// Token service for bearer authentication
	tokenService := auth.NewTokenService(cfg.JWT)

	// Initialize handlers
	stockHandler := handler.NewStockHandler(stockService)
	saleHandler := handler.NewSaleHandler(saleService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	accountHeadHandler := handler.NewAccountHeadHandler(accountHeadService)
	entryHandler := handler.NewEntryHandler(entryService)
	allocationHandler := handler.NewAllocationHandler(allocationService)
	reportHandler := handler.NewReportHandler(reportService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler(db.DB)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report JSON tag names in binding validation errors
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans (if enabled)
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning, no authentication)
	engine.GET("/healthz", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Bearer authentication for all API routes
	authConfig := middleware.DefaultAuthConfig(tokenService)
	authConfig.Logger = log
	r.Use(
		middleware.AuthMiddlewareWithConfig(authConfig),
		middleware.InvalidateOverviewOnWrite(reportService),
	)

	// Stock domain (fuel purchase lots)
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/lots", stockHandler.Create)
	stockRoutes.GET("/lots", stockHandler.List)
	stockRoutes.GET("/lots/:id", stockHandler.GetByID)
	stockRoutes.PUT("/lots/:id", stockHandler.Update)
	stockRoutes.DELETE("/lots/:id", stockHandler.Delete)
	stockRoutes.GET("/summary", stockHandler.Summary)

	// Sales domain
	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.POST("", saleHandler.Create)
	salesRoutes.GET("", saleHandler.List)
	salesRoutes.GET("/:id", saleHandler.GetByID)
	salesRoutes.PUT("/:id", saleHandler.Update)
	salesRoutes.POST("/:id/lpo", saleHandler.RecordLPO)
	salesRoutes.POST("/:id/void", saleHandler.Void)
	salesRoutes.DELETE("/:id", saleHandler.Delete)

	// Invoicing domain
	invoiceRoutes := router.NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.POST("", invoiceHandler.Generate)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/:id", invoiceHandler.GetByID)
	invoiceRoutes.GET("/sale/:saleId", invoiceHandler.GetBySale)
	invoiceRoutes.PUT("/:id", invoiceHandler.Update)
	invoiceRoutes.POST("/:id/sent", invoiceHandler.MarkSent)

	// Cashbook domain (account heads and money movement entries)
	cashbookRoutes := router.NewDomainGroup("cashbook", "/cashbook")
	cashbookRoutes.GET("/summary", entryHandler.Summary)

	headRoutes := cashbookRoutes.Group("heads", "/heads")
	headRoutes.POST("", accountHeadHandler.Create)
	headRoutes.GET("", accountHeadHandler.List)
	headRoutes.GET("/:id", accountHeadHandler.GetByID)
	headRoutes.PUT("/:id", accountHeadHandler.Update)
	headRoutes.DELETE("/:id", accountHeadHandler.Delete)

	entryRoutes := cashbookRoutes.Group("entries", "/entries")
	entryRoutes.POST("", entryHandler.Create)
	entryRoutes.GET("", entryHandler.List)
	entryRoutes.GET("/:id", entryHandler.GetByID)
	entryRoutes.PUT("/:id", entryHandler.Update)
	entryRoutes.DELETE("/:id", entryHandler.Delete)

	// Allocation domain (payment and advance matching)
	allocationRoutes := router.NewDomainGroup("allocations", "/allocations")
	allocationRoutes.POST("/payments", allocationHandler.AllocatePayment)
	allocationRoutes.DELETE("/payments/:id", allocationHandler.DeletePayment)
	allocationRoutes.GET("/payments/entry/:entryId", allocationHandler.ListPaymentsByEntry)
	allocationRoutes.GET("/payments/invoice/:invoiceId", allocationHandler.ListPaymentsByInvoice)
	allocationRoutes.POST("/advances", allocationHandler.AllocateAdvance)
	allocationRoutes.DELETE("/advances/:id", allocationHandler.DeleteAdvance)
	allocationRoutes.GET("/advances/lot/:lotId", allocationHandler.ListAdvancesByLot)

	// Report domain
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/overview", reportHandler.Overview)
	reportRoutes.GET("/overdue-clients", reportHandler.OverdueClients)

	// Business settings
	settingsRoutes := router.NewDomainGroup("settings", "/settings")
	settingsRoutes.GET("", settingsHandler.Get)
	settingsRoutes.PUT("", settingsHandler.Update)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(stockRoutes).
		Register(salesRoutes).
		Register(invoiceRoutes).
		Register(cashbookRoutes).
		Register(allocationRoutes).
		Register(reportRoutes).
		Register(settingsRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
