package grpc

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/anomaly"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/budget"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/forecast"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/goal"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/patterns"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/portfolio"
)

const dateLayout = "2006-01-02"

// field returns the value of key, nil when absent or null
func field(req *structpb.Struct, key string) *structpb.Value {
	v, ok := req.GetFields()[key]
	if !ok {
		return nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}
	return v
}

func stringField(req *structpb.Struct, key string) string {
	return field(req, key).GetStringValue()
}

// decimalField accepts a decimal string or a number. Absent fields yield ok == false.
func decimalField(req *structpb.Struct, key string) (d decimal.Decimal, ok bool, err error) {
	v := field(req, key)
	if v == nil {
		return decimal.Zero, false, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		d, err = decimal.NewFromString(k.StringValue)
		if err != nil {
			return decimal.Zero, false, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
		}
	case *structpb.Value_NumberValue:
		d = decimal.NewFromFloat(k.NumberValue)
	default:
		return decimal.Zero, false, status.Errorf(codes.InvalidArgument, "%s must be a number or a decimal string", key)
	}
	return d, true, nil
}

func requiredDecimal(req *structpb.Struct, key string) (decimal.Decimal, error) {
	d, ok, err := decimalField(req, key)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return d, nil
}

func requiredUUID(req *structpb.Struct, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(stringField(req, key))
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return id, nil
}

// timeField accepts RFC 3339 timestamps and YYYY-MM-DD dates. Absent fields yield the zero time.
func timeField(req *structpb.Struct, key string) (time.Time, error) {
	s := stringField(req, key)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return t, nil
}

func toStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

func list[T any](items []T, convert func(T) map[string]interface{}) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

func stringList(items []string) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, s := range items {
		out = append(out, s)
	}
	return out
}

func round(f float64, places int) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', places, 64), 64)
	return v
}

func transactionToMap(tx *domain.Transaction) map[string]interface{} {
	return map[string]interface{}{
		"id":          tx.ID.String(),
		"amount":      tx.Amount.String(),
		"category":    tx.Category,
		"description": tx.Description,
		"date":        tx.Date.Format(time.RFC3339),
		"type":        string(tx.Type),
	}
}

func budgetToMap(b *domain.Budget) map[string]interface{} {
	return map[string]interface{}{
		"id":       b.ID.String(),
		"category": b.Category,
		"amount":   b.Limit.String(),
		"spent":    b.Spent.String(),
		"period":   string(b.Period),
		"color":    b.Color,
	}
}

func performanceToMap(p budget.Performance) map[string]interface{} {
	return map[string]interface{}{
		"budget_id":        p.BudgetID.String(),
		"category":         p.Category,
		"period":           string(p.Period),
		"allocated":        p.Allocated.String(),
		"spent":            p.Spent.String(),
		"remaining":        p.Remaining.String(),
		"utilization_rate": round(p.UtilizationRate, 1),
		"level":            string(p.Level),
		"status":           string(p.Status),
		"projected_spend":  p.ProjectedSpend.String(),
		"days_remaining":   p.DaysRemaining,
	}
}

func categoryToMap(c budget.CategoryAnalysis) map[string]interface{} {
	return map[string]interface{}{
		"category":            c.Category,
		"total_spent":         c.TotalSpent.String(),
		"budget_allocated":    c.BudgetAllocated.String(),
		"variance":            c.Variance.String(),
		"variance_percentage": round(c.VariancePercentage, 1),
		"trend":               string(c.Trend),
		"transactions":        c.Transactions,
		"average_transaction": c.AverageTransaction.String(),
	}
}

func suggestionToMap(s budget.Suggestion) map[string]interface{} {
	return map[string]interface{}{
		"category":          s.Category,
		"kind":              string(s.Kind),
		"message":           s.Message,
		"potential_savings": s.PotentialSavings.String(),
	}
}

func goalToMap(g *domain.Goal) map[string]interface{} {
	m := map[string]interface{}{
		"id":             g.ID.String(),
		"name":           g.Name,
		"target_amount":  g.Target.String(),
		"current_amount": g.Current.String(),
		"deadline":       g.Deadline.Format(dateLayout),
		"category":       string(g.Category),
		"priority":       string(g.Priority),
		"progress":       round(g.Progress(), 1),
		"achieved":       g.IsAchieved(),
	}
	if g.MonthlyContribution != nil {
		m["monthly_contribution"] = g.MonthlyContribution.String()
	}
	return m
}

func projectionToMap(p goal.Projection) map[string]interface{} {
	m := map[string]interface{}{
		"goal_id":                       p.GoalID.String(),
		"goal_name":                     p.GoalName,
		"current":                       p.Current.String(),
		"target":                        p.Target.String(),
		"remaining":                     p.Remaining.String(),
		"months_to_deadline":            p.MonthsToDeadline,
		"required_monthly_contribution": p.RequiredMonthlyContribution.String(),
		"monthly_contribution":          p.MonthlyContribution.String(),
		"pace":                          string(p.Pace),
		"probability":                   round(p.Probability, 0),
		"months_to_completion":          p.MonthsToCompletion,
	}
	if p.ProjectedCompletion != nil {
		m["projected_completion"] = p.ProjectedCompletion.Format(dateLayout)
	}
	return m
}

func holdingToMap(h *domain.Holding) map[string]interface{} {
	return map[string]interface{}{
		"id":                   h.ID.String(),
		"symbol":               h.Symbol,
		"name":                 h.Name,
		"shares":               h.Shares.String(),
		"avg_cost":             h.AvgCost.String(),
		"current_price":        h.CurrentPrice.String(),
		"day_change":           h.DayChange.String(),
		"day_change_percent":   round(h.DayChangePercent, 2),
		"sector":               h.Sector,
		"asset_class":          string(h.AssetClass),
		"market_value":         h.MarketValue.String(),
		"total_return":         h.TotalReturn.String(),
		"total_return_percent": round(h.TotalReturnPercent, 2),
		"allocation":           round(h.Allocation, 2),
		"last_updated":         h.LastUpdated.Format(time.RFC3339),
	}
}

func summaryToMap(s *portfolio.Summary) map[string]interface{} {
	return map[string]interface{}{
		"total_value":          s.TotalValue.String(),
		"total_cost":           s.TotalCost.String(),
		"total_return":         s.TotalReturn.String(),
		"total_return_percent": round(s.TotalReturnPercent, 2),
		"daily_change":         s.DailyChange.String(),
		"daily_change_percent": round(s.DailyChangePercent, 2),
		"asset_allocation": list(s.AssetAllocation, func(b portfolio.AssetBucket) map[string]interface{} {
			return map[string]interface{}{
				"asset_class": string(b.Class),
				"value":       b.Value.String(),
				"allocation":  round(b.Allocation, 2),
			}
		}),
		"holdings":     list(s.Holdings, holdingToMap),
		"last_updated": s.LastUpdated.Format(time.RFC3339),
	}
}

func snapshotToMap(snap *dashboard.Snapshot) map[string]interface{} {
	h := snap.Health
	p := snap.Prediction
	a := snap.Anomalies

	buckets := func(bs []patterns.Bucket) []interface{} {
		return list(bs, func(b patterns.Bucket) map[string]interface{} {
			return map[string]interface{}{"label": b.Label, "amount": b.Amount.String()}
		})
	}

	return map[string]interface{}{
		"generated_at":   snap.GeneratedAt.Format(time.RFC3339),
		"currency":       snap.Currency,
		"monthly_income": snap.MonthlyIncome.String(),
		"net_worth": map[string]interface{}{
			"total":     snap.NetWorth.Total.String(),
			"liquidity": snap.NetWorth.Liquidity.String(),
			"equity":    snap.NetWorth.Equity.String(),
		},
		"spending_trends": list(snap.SpendingTrends, func(t forecast.SpendingTrend) map[string]interface{} {
			return map[string]interface{}{
				"month":              t.Label,
				"spending":           t.Spending.String(),
				"income":             t.Income.String(),
				"net_flow":           t.NetFlow.String(),
				"budget_utilization": round(t.BudgetUtilization, 1),
			}
		}),
		"category_analysis":  list(snap.CategoryAnalysis, categoryToMap),
		"budget_performance": list(snap.BudgetPerformance, performanceToMap),
		"budget_totals": map[string]interface{}{
			"budgeted":  snap.BudgetTotals.Budgeted.String(),
			"spent":     snap.BudgetTotals.Spent.String(),
			"remaining": snap.BudgetTotals.Remaining.String(),
		},
		"suggestions":      list(snap.Suggestions, suggestionToMap),
		"goal_projections": list(snap.GoalProjections, projectionToMap),
		"financial_health": map[string]interface{}{
			"overall":            h.Overall,
			"budget_compliance":  h.BudgetCompliance,
			"savings_rate":       h.SavingsRate,
			"goal_progress":      h.GoalProgress,
			"spending_stability": h.SpendingStability,
			"insights":           stringList(h.Insights),
			"recommendations":    stringList(h.Recommendations),
		},
		"prediction": map[string]interface{}{
			"next_month_spending": p.NextMonthSpending.String(),
			"next_month_income":   p.NextMonthIncome.String(),
			"confidence":          round(p.Confidence, 0),
			"trend":               string(p.Direction),
			"insufficient_data":   p.InsufficientData,
		},
		"spending_patterns": map[string]interface{}{
			"day_of_week":   buckets(snap.Patterns.DayOfWeek),
			"time_of_month": buckets(snap.Patterns.TimeOfMonth),
			"seasonality":   buckets(snap.Patterns.Seasonality),
		},
		"anomalies": map[string]interface{}{
			"unusual_transactions": list(a.UnusualTransactions, transactionToMap),
			"budget_anomalies": list(a.BudgetAnomalies, func(b anomaly.BudgetAnomaly) map[string]interface{} {
				return map[string]interface{}{
					"category":    b.Category,
					"severity":    string(b.Severity),
					"utilization": round(b.Utilization, 1),
					"description": b.Description,
				}
			}),
			"spending_spikes": list(a.Spikes, func(s anomaly.Spike) map[string]interface{} {
				return map[string]interface{}{
					"date":     s.Date.Format(dateLayout),
					"amount":   s.Amount.String(),
					"category": s.Category,
				}
			}),
		},
		"portfolio": summaryToMap(&snap.Portfolio),
	}
}

