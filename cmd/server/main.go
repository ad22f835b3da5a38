package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "github.com/simaogato/wealthflow-analytics/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-analytics/internal/adapter/marketdata"
	"github.com/simaogato/wealthflow-analytics/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-analytics/internal/config"
	"github.com/simaogato/wealthflow-analytics/internal/pkg/grpcserver"
	"github.com/simaogato/wealthflow-analytics/internal/pkg/logger"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/budget"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/goal"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/portfolio"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/transaction"
)

const connectAttempts = 5

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, os.Stdout)

	// 1. Setup Database
	db, err := connect(cfg.Postgres.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	// 2. Initialize Repositories (Postgres)
	transactionRepo := postgres.NewTransactionRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	holdingRepo := postgres.NewHoldingRepository(db)
	historyRepo := postgres.NewValueHistoryRepository(db)

	quotes := marketdata.NewStatic()
	if cfg.MarketData.PriceSheet != "" {
		quotes, err = marketdata.LoadFile(cfg.MarketData.PriceSheet)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load price sheet")
		}
		log.Info().Int("symbols", quotes.Len()).Msg("price sheet loaded")
	}

	// 3. Initialize Services (Use Cases)
	transactionService := transaction.NewTransactionService(transactionRepo, cfg.Finance.OpeningBalance)
	budgetService := budget.NewBudgetService(budgetRepo, transactionRepo, cfg.Finance.Currency)
	goalService := goal.NewGoalService(goalRepo)
	portfolioService := portfolio.NewPortfolioService(holdingRepo, historyRepo, quotes, log)
	dashboardService := dashboard.NewDashboardService(
		transactionRepo, budgetRepo, goalRepo, holdingRepo,
		cfg.Finance.OpeningBalance, cfg.Finance.Currency,
	)

	// 4. Start gRPC Server
	srv := grpcserver.New(cfg.Server.Address,
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)
	grpcadapter.RegisterAnalyticsServiceServer(srv.Server, grpcadapter.NewServer(
		transactionService, budgetService, goalService, portfolioService, dashboardService,
	))
	srv.Health.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		log.Info().Str("addr", cfg.Server.Address).Msg("gRPC server listening")
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to serve gRPC server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(srv, log)
}

// connect retries while Postgres is starting up
func connect(dsn string, log zerolog.Logger) (*postgres.DB, error) {
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		var db *postgres.DB
		db, err = postgres.NewDB(dsn)
		if err == nil {
			return db, nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready")
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return nil, err
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(srv *grpcserver.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	srv.Stop()
	log.Info().Msg("gRPC server stopped")
}
