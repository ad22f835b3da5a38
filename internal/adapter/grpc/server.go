package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/budget"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/goal"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/portfolio"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/transaction"
)

// Server implements the AnalyticsService gRPC server
type Server struct {
	TransactionService *transaction.TransactionService
	BudgetService      *budget.BudgetService
	GoalService        *goal.GoalService
	PortfolioService   *portfolio.PortfolioService
	DashboardService   *dashboard.DashboardService

	// Now is the clock used for analytics; defaults to time.Now
	Now func() time.Time
}

// NewServer creates a new gRPC server instance
func NewServer(
	transactionService *transaction.TransactionService,
	budgetService *budget.BudgetService,
	goalService *goal.GoalService,
	portfolioService *portfolio.PortfolioService,
	dashboardService *dashboard.DashboardService,
) *Server {
	return &Server{
		TransactionService: transactionService,
		BudgetService:      budgetService,
		GoalService:        goalService,
		PortfolioService:   portfolioService,
		DashboardService:   dashboardService,
		Now:                time.Now,
	}
}

var _ AnalyticsServiceServer = (*Server)(nil)

// RecordTransaction handles the RecordTransaction RPC
func (s *Server) RecordTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := requiredDecimal(req, "amount")
	if err != nil {
		return nil, err
	}
	date, err := timeField(req, "date")
	if err != nil {
		return nil, err
	}

	tx, err := s.TransactionService.Record(ctx, transaction.RecordTransactionInput{
		Amount:      amount,
		Category:    stringField(req, "category"),
		Description: stringField(req, "description"),
		Date:        date,
		Type:        domain.TransactionType(stringField(req, "type")),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(transactionToMap(tx))
}

// ListTransactions handles the ListTransactions RPC.
// Optional filters: category, type, from, to. Optional paging: limit, offset.
func (s *Server) ListTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	from, err := timeField(req, "from")
	if err != nil {
		return nil, err
	}
	to, err := timeField(req, "to")
	if err != nil {
		return nil, err
	}

	limit := int(field(req, "limit").GetNumberValue())
	offset := int(field(req, "offset").GetNumberValue())
	if field(req, "limit") != nil && limit <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "limit must be positive")
	}
	if offset < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "offset must be non-negative")
	}

	transactions, err := s.TransactionService.List(ctx, domain.TransactionFilter{
		Category: stringField(req, "category"),
		Type:     domain.TransactionType(stringField(req, "type")),
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, mapError(err)
	}

	total := len(transactions)
	page := transactions[min(offset, total):]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}

	return toStruct(map[string]interface{}{
		"transactions": list(page, transactionToMap),
		"total_count":  total,
	})
}

// DeleteTransaction handles the DeleteTransaction RPC
func (s *Server) DeleteTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredUUID(req, "id")
	if err != nil {
		return nil, err
	}
	if err := s.TransactionService.Delete(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return toStruct(map[string]interface{}{"id": id.String()})
}

// CreateBudget handles the CreateBudget RPC
func (s *Server) CreateBudget(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := requiredDecimal(req, "amount")
	if err != nil {
		return nil, err
	}

	b, err := s.BudgetService.Create(ctx, budget.CreateBudgetInput{
		Category: stringField(req, "category"),
		Limit:    amount,
		Period:   domain.BudgetPeriod(stringField(req, "period")),
		Color:    stringField(req, "color"),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(budgetToMap(b))
}

// ListBudgetPerformance handles the ListBudgetPerformance RPC
func (s *Server) ListBudgetPerformance(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	performance, err := s.BudgetService.Performance(ctx, s.Now())
	if err != nil {
		return nil, mapError(err)
	}
	totals, err := s.BudgetService.Totals(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	suggestions, err := s.BudgetService.Suggestions(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"budgets": list(performance, performanceToMap),
		"totals": map[string]interface{}{
			"budgeted":  totals.Budgeted.String(),
			"spent":     totals.Spent.String(),
			"remaining": totals.Remaining.String(),
		},
		"suggestions": list(suggestions, suggestionToMap),
	})
}

// CreateGoal handles the CreateGoal RPC
func (s *Server) CreateGoal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	target, err := requiredDecimal(req, "target_amount")
	if err != nil {
		return nil, err
	}
	deadline, err := timeField(req, "deadline")
	if err != nil {
		return nil, err
	}

	input := goal.CreateGoalInput{
		Name:     stringField(req, "name"),
		Target:   target,
		Deadline: deadline,
		Category: domain.GoalCategory(stringField(req, "category")),
		Priority: domain.GoalPriority(stringField(req, "priority")),
		Color:    stringField(req, "color"),
	}

	// Parse optional monthly contribution
	contribution, ok, err := decimalField(req, "monthly_contribution")
	if err != nil {
		return nil, err
	}
	if ok {
		input.MonthlyContribution = &contribution
	}

	g, err := s.GoalService.Create(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(goalToMap(g))
}

// ContributeToGoal handles the ContributeToGoal RPC
func (s *Server) ContributeToGoal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredUUID(req, "id")
	if err != nil {
		return nil, err
	}
	amount, err := requiredDecimal(req, "amount")
	if err != nil {
		return nil, err
	}

	g, err := s.GoalService.Contribute(ctx, id, amount)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(goalToMap(g))
}

// AddHolding handles the AddHolding RPC
func (s *Server) AddHolding(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	shares, err := requiredDecimal(req, "shares")
	if err != nil {
		return nil, err
	}
	avgCost, err := requiredDecimal(req, "avg_cost")
	if err != nil {
		return nil, err
	}

	h, err := s.PortfolioService.AddHolding(ctx, portfolio.AddHoldingInput{
		Symbol:     stringField(req, "symbol"),
		Name:       stringField(req, "name"),
		Shares:     shares,
		AvgCost:    avgCost,
		Sector:     stringField(req, "sector"),
		AssetClass: domain.AssetClass(stringField(req, "asset_class")),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(holdingToMap(h))
}

// RemoveHolding handles the RemoveHolding RPC
func (s *Server) RemoveHolding(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredUUID(req, "id")
	if err != nil {
		return nil, err
	}
	if err := s.PortfolioService.RemoveHolding(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return toStruct(map[string]interface{}{"id": id.String()})
}

// RefreshPrices handles the RefreshPrices RPC
func (s *Server) RefreshPrices(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	result, err := s.PortfolioService.RefreshPrices(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"updated":     stringList(result.Updated),
		"unavailable": stringList(result.Unavailable),
	})
}

// GetPortfolio handles the GetPortfolio RPC
func (s *Server) GetPortfolio(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	summary, err := s.PortfolioService.Summary(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(summaryToMap(summary))
}

// GetSnapshot handles the GetSnapshot RPC
func (s *Server) GetSnapshot(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	snap, err := s.DashboardService.Snapshot(ctx, s.Now())
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(snapshotToMap(snap))
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, domain.ErrAlreadyExists):
		return status.Errorf(codes.AlreadyExists, "%s", errorMsg)
	case errors.Is(err, domain.ErrQuoteUnavailable):
		return status.Errorf(codes.Unavailable, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
