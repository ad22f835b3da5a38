package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/anomaly"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/budget"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/forecast"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/goal"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/patterns"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/portfolio"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/transaction"
)

var hundred = decimal.NewFromInt(100)

// IncomeMonths is the window total income is averaged over to estimate monthly income
const IncomeMonths = 6

// NetWorthResult represents the calculated net worth
type NetWorthResult struct {
	Total     decimal.Decimal
	Liquidity decimal.Decimal // cash: opening balance + income - expenses
	Equity    decimal.Decimal // market value of the holdings
}

// Snapshot is every analytics view computed from one read of the stores
type Snapshot struct {
	GeneratedAt       time.Time
	Currency          string
	MonthlyIncome     decimal.Decimal
	SpendingTrends    []forecast.SpendingTrend
	CategoryAnalysis  []budget.CategoryAnalysis
	BudgetPerformance []budget.Performance
	BudgetTotals      budget.Totals
	Suggestions       []budget.Suggestion
	GoalProjections   []goal.Projection
	Health            HealthScore
	Prediction        forecast.Prediction
	Patterns          patterns.SpendingPattern
	Anomalies         anomaly.Report
	Portfolio         portfolio.Summary
	NetWorth          NetWorthResult
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	TransactionRepo domain.TransactionRepository
	BudgetRepo      domain.BudgetRepository
	GoalRepo        domain.GoalRepository
	HoldingRepo     domain.HoldingRepository
	OpeningBalance  decimal.Decimal
	Currency        string
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	goalRepo domain.GoalRepository,
	holdingRepo domain.HoldingRepository,
	openingBalance decimal.Decimal,
	currencyCode string,
) *DashboardService {
	return &DashboardService{
		TransactionRepo: transactionRepo,
		BudgetRepo:      budgetRepo,
		GoalRepo:        goalRepo,
		HoldingRepo:     holdingRepo,
		OpeningBalance:  openingBalance,
		Currency:        currencyCode,
	}
}

// MonthlyIncome estimates monthly income as total income / IncomeMonths
func MonthlyIncome(transactions []*domain.Transaction) decimal.Decimal {
	return transaction.Sum(transactions).Income.Div(decimal.NewFromInt(IncomeMonths)).Round(2)
}

// Snapshot refreshes every analytics view
// Logic:
//  1. Read transactions, budgets, goals and holdings
//  2. Estimate monthly income (total income / 6)
//  3. Run trends, category analysis, budget performance, goal projections,
//     health, prediction, patterns, anomalies and the portfolio summary
//  4. Net worth = cash balance + portfolio value
func (s *DashboardService) Snapshot(ctx context.Context, now time.Time) (*Snapshot, error) {
	transactions, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	budgets, err := s.BudgetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	goals, err := s.GoalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	monthlyIncome := MonthlyIncome(transactions)
	summary := portfolio.Summarize(holdings)
	liquidity := transaction.Balance(s.OpeningBalance, transactions)

	return &Snapshot{
		GeneratedAt:       now,
		Currency:          s.Currency,
		MonthlyIncome:     monthlyIncome,
		SpendingTrends:    forecast.SpendingTrends(transactions, IncomeMonths, now),
		CategoryAnalysis:  budget.AnalyzeCategories(transactions, budgets),
		BudgetPerformance: budget.EvaluateAll(budgets, now),
		BudgetTotals:      budget.Total(budgets),
		Suggestions:       budget.Suggest(transactions, budgets, s.Currency),
		GoalProjections:   goal.ProjectAll(goals, monthlyIncome, now),
		Health:            FinancialHealth(transactions, budgets, goals, now),
		Prediction:        forecast.Predict(transactions, now),
		Patterns:          patterns.Analyze(transactions, now.Location()),
		Anomalies:         anomaly.Detect(transactions, budgets, now.Location()),
		Portfolio:         summary,
		NetWorth: NetWorthResult{
			Total:     liquidity.Add(summary.TotalValue),
			Liquidity: liquidity,
			Equity:    summary.TotalValue,
		},
	}, nil
}

// GetNetWorth calculates the total net worth
// Logic:
//   - Liquidity: opening balance plus income minus expenses
//   - Equity: market value of all holdings
//   - Total: Liquidity + Equity
func (s *DashboardService) GetNetWorth(ctx context.Context) (*NetWorthResult, error) {
	transactions, err := s.TransactionRepo.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	liquidity := transaction.Balance(s.OpeningBalance, transactions)
	equity := portfolio.Summarize(holdings).TotalValue

	return &NetWorthResult{
		Total:     liquidity.Add(equity),
		Liquidity: liquidity,
		Equity:    equity,
	}, nil
}
