package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	ledgerapp "github.com/mizan/backend/internal/application/ledger"
	partnerapp "github.com/mizan/backend/internal/application/partner"
	"github.com/mizan/backend/internal/infrastructure/config"
	"github.com/mizan/backend/internal/infrastructure/logger"
	"github.com/mizan/backend/internal/infrastructure/persistence"
	"github.com/mizan/backend/internal/infrastructure/telemetry"
	"github.com/mizan/backend/internal/interfaces/http/handler"
	"github.com/mizan/backend/internal/interfaces/http/middleware"
	"github.com/mizan/backend/internal/interfaces/http/router"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting ledger backend",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
		zap.String("addr", cfg.HTTP.Addr()))

	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	// sqlite has no versioned migrations; create the schema directly
	if cfg.Database.Driver == "sqlite" {
		if err := persistence.AutoMigrate(db); err != nil {
			log.Fatal("failed to migrate schema", zap.Error(err))
		}
	}

	// Repositories
	obligationRepo := persistence.NewObligationRepository(db)
	paymentRepo := persistence.NewPaymentRepository(db)
	counterpartyRepo := persistence.NewCounterpartyRepository(db)
	creditTxRepo := persistence.NewCreditTransactionRepository(db)
	txManager := persistence.NewTxManager(db)

	// Application services
	obligationService := ledgerapp.NewObligationService(obligationRepo, counterpartyRepo, log)
	paymentService := ledgerapp.NewPaymentService(obligationRepo, paymentRepo, log)
	allocationService := ledgerapp.NewAllocationService(obligationRepo, paymentRepo, counterpartyRepo, creditTxRepo, txManager, log)
	counterpartyService := partnerapp.NewCounterpartyService(counterpartyRepo, creditTxRepo, log)

	// HTTP handlers
	obligationHandler := handler.NewObligationHandler(obligationService)
	paymentHandler := handler.NewPaymentHandler(paymentService, allocationService)
	counterpartyHandler := handler.NewCounterpartyHandler(counterpartyService)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.App.Name))
	}

	engine.GET("/health", healthHandler(db))

	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/obligations", obligationHandler.Create)
	ledgerRoutes.GET("/obligations", obligationHandler.List)
	ledgerRoutes.GET("/obligations/overdue", obligationHandler.ListOverdue)
	ledgerRoutes.GET("/obligations/:id", obligationHandler.Get)
	ledgerRoutes.PUT("/obligations/:id", obligationHandler.Update)
	ledgerRoutes.DELETE("/obligations/:id", obligationHandler.Delete)
	ledgerRoutes.GET("/obligations/:id/payments", paymentHandler.ListByObligation)
	ledgerRoutes.POST("/obligations/:id/reconcile", paymentHandler.Reconcile)
	ledgerRoutes.POST("/payments", paymentHandler.Record)
	ledgerRoutes.POST("/payments/allocate", paymentHandler.Allocate)
	ledgerRoutes.GET("/payments", paymentHandler.List)
	ledgerRoutes.GET("/counterparties/:id/outstanding", obligationHandler.Outstanding)

	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/counterparties", counterpartyHandler.Create)
	partnerRoutes.GET("/counterparties", counterpartyHandler.List)
	partnerRoutes.GET("/counterparties/:id", counterpartyHandler.Get)
	partnerRoutes.PUT("/counterparties/:id", counterpartyHandler.Update)
	partnerRoutes.DELETE("/counterparties/:id", counterpartyHandler.Delete)
	partnerRoutes.POST("/counterparties/:id/credit/consume", counterpartyHandler.ConsumeCredit)
	partnerRoutes.GET("/counterparties/:id/credit/history", counterpartyHandler.CreditHistory)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(ledgerRoutes).
		Register(partnerRoutes).
		Setup()

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		database := "ok"
		code := http.StatusOK

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			status, database = "unhealthy", "error"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": database,
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}
