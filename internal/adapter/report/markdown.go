package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/simaogato/wealthflow-analytics/internal/pkg/currency"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/goal"
)

// Markdown renders the full snapshot as a Markdown document
func Markdown(snap *dashboard.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Financial Analytics (%s)\n\n", snap.GeneratedAt.Format("2006-01-02"))

	fmt.Fprintf(&b, "| Net Worth | Cash | Investments | Monthly Income |\n")
	fmt.Fprintf(&b, "|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n\n",
		currency.Format(snap.NetWorth.Total, snap.Currency),
		currency.Format(snap.NetWorth.Liquidity, snap.Currency),
		currency.Format(snap.NetWorth.Equity, snap.Currency),
		currency.Format(snap.MonthlyIncome, snap.Currency),
	)

	writeHealth(&b, snap)
	writeTrends(&b, snap)
	writeCategories(&b, snap)
	writeBudgets(&b, snap)
	writeGoals(&b, snap)
	writePortfolio(&b, snap)
	writeAnomalies(&b, snap)

	return b.String()
}

func writeHealth(b *strings.Builder, snap *dashboard.Snapshot) {
	h := snap.Health
	fmt.Fprintf(b, "## Financial Health: %.0f/100\n\n", h.Overall)
	fmt.Fprintln(b, "| Budget Compliance | Savings Rate | Goal Progress | Spending Stability |")
	fmt.Fprintln(b, "|---:|---:|---:|---:|")
	fmt.Fprintf(b, "| %.0f | %.0f%% | %.0f%% | %.0f |\n\n", h.BudgetCompliance, h.SavingsRate, h.GoalProgress, h.SpendingStability)

	for i, insight := range h.Insights {
		fmt.Fprintf(b, "- **%s**: %s\n", insight, h.Recommendations[i])
	}
	if len(h.Insights) > 0 {
		fmt.Fprintln(b)
	}
}

func writeTrends(b *strings.Builder, snap *dashboard.Snapshot) {
	fmt.Fprintln(b, "## Spending Trends")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "| Month | Income | Spending | Net Flow | Budget Utilization |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|---:|")
	for _, t := range snap.SpendingTrends {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %.1f%% |\n",
			t.Label,
			currency.Format(t.Income, snap.Currency),
			currency.Format(t.Spending, snap.Currency),
			currency.Signed(t.NetFlow, snap.Currency),
			t.BudgetUtilization,
		)
	}
	fmt.Fprintln(b)

	p := snap.Prediction
	if p.InsufficientData {
		fmt.Fprint(b, "_Not enough history to predict next month._\n\n")
		return
	}
	fmt.Fprintf(b, "Next month: spending %s, income %s (%s, %.0f%% confidence)\n\n",
		currency.Format(p.NextMonthSpending, snap.Currency),
		currency.Format(p.NextMonthIncome, snap.Currency),
		p.Direction,
		p.Confidence,
	)
}

func writeCategories(b *strings.Builder, snap *dashboard.Snapshot) {
	if len(snap.CategoryAnalysis) == 0 {
		return
	}
	fmt.Fprintln(b, "## Categories")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "| Category | Spent | Budget | Variance | Trend | Transactions |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|:---:|---:|")
	for _, c := range snap.CategoryAnalysis {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %d |\n",
			c.Category,
			currency.Format(c.TotalSpent, snap.Currency),
			currency.Format(c.BudgetAllocated, snap.Currency),
			currency.Signed(c.Variance, snap.Currency),
			c.Trend,
			c.Transactions,
		)
	}
	fmt.Fprintln(b)
}

func writeBudgets(b *strings.Builder, snap *dashboard.Snapshot) {
	if len(snap.BudgetPerformance) == 0 {
		return
	}
	fmt.Fprintln(b, "## Budgets")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "| Category | Allocated | Spent | Utilization | Status | Projected |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|:---|---:|")
	for _, p := range snap.BudgetPerformance {
		fmt.Fprintf(b, "| %s | %s | %s | %.1f%% | %s | %s |\n",
			p.Category,
			currency.Format(p.Allocated, snap.Currency),
			currency.Format(p.Spent, snap.Currency),
			p.UtilizationRate,
			p.Status,
			currency.Format(p.ProjectedSpend, snap.Currency),
		)
	}
	fmt.Fprintf(b, "| **Total** | %s | %s | | | |\n\n",
		currency.Format(snap.BudgetTotals.Budgeted, snap.Currency),
		currency.Format(snap.BudgetTotals.Spent, snap.Currency),
	)

	for _, s := range snap.Suggestions {
		fmt.Fprintf(b, "- %s\n", s.Message)
	}
	if len(snap.Suggestions) > 0 {
		fmt.Fprintln(b)
	}
}

func writeGoals(b *strings.Builder, snap *dashboard.Snapshot) {
	if len(snap.GoalProjections) == 0 {
		return
	}
	fmt.Fprintln(b, "## Goals")
	fmt.Fprintln(b)
	fmt.Fprintln(b, "| Goal | Saved | Target | Required/Month | Pace | Probability | Completion |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|:---|---:|:---|")
	for _, p := range snap.GoalProjections {
		completion := "never"
		switch {
		case p.MonthsToCompletion == 0:
			completion = "done"
		case p.MonthsToCompletion != goal.NoCompletion:
			completion = p.ProjectedCompletion.Format("Jan 2006")
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %.0f%% | %s |\n",
			p.GoalName,
			currency.Format(p.Current, snap.Currency),
			currency.Format(p.Target, snap.Currency),
			currency.Format(p.RequiredMonthlyContribution, snap.Currency),
			p.Pace,
			p.Probability,
			completion,
		)
	}
	fmt.Fprintln(b)
}

func writePortfolio(b *strings.Builder, snap *dashboard.Snapshot) {
	s := snap.Portfolio
	if len(s.Holdings) == 0 {
		return
	}
	fmt.Fprintln(b, "## Portfolio")
	fmt.Fprintln(b)
	fmt.Fprintf(b, "Value %s, return %s (%.2f%%), today %s (%.2f%%)\n\n",
		currency.Format(s.TotalValue, snap.Currency),
		currency.Signed(s.TotalReturn, snap.Currency),
		s.TotalReturnPercent,
		currency.Signed(s.DailyChange, snap.Currency),
		s.DailyChangePercent,
	)
	fmt.Fprintln(b, "| Symbol | Class | Shares | Price | Value | Return | Allocation |")
	fmt.Fprintln(b, "|:---|:---|---:|---:|---:|---:|---:|")
	for _, h := range s.Holdings {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %.2f%% | %.1f%% |\n",
			h.Symbol,
			h.AssetClass,
			h.Shares.String(),
			currency.Format(h.CurrentPrice, snap.Currency),
			currency.Format(h.MarketValue, snap.Currency),
			h.TotalReturnPercent,
			h.Allocation,
		)
	}
	fmt.Fprintln(b)
}

func writeAnomalies(b *strings.Builder, snap *dashboard.Snapshot) {
	a := snap.Anomalies
	if len(a.UnusualTransactions)+len(a.BudgetAnomalies)+len(a.Spikes) == 0 {
		return
	}
	fmt.Fprintln(b, "## Anomalies")
	fmt.Fprintln(b)
	for _, tx := range a.UnusualTransactions {
		fmt.Fprintf(b, "- Unusual %s expense of %s on %s: %s\n",
			tx.Category, currency.Format(tx.Magnitude(), snap.Currency), tx.Date.Format("2006-01-02"), tx.Description)
	}
	for _, ba := range a.BudgetAnomalies {
		fmt.Fprintf(b, "- [%s] %s\n", ba.Severity, ba.Description)
	}
	for _, s := range a.Spikes {
		fmt.Fprintf(b, "- Spending spike of %s on %s (mostly %s)\n",
			currency.Format(s.Amount, snap.Currency), s.Date.Format("2006-01-02"), s.Category)
	}
	fmt.Fprintln(b)
}

// Render formats Markdown for the terminal, wrapping at width columns
func Render(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
