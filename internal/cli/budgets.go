package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/pkg/currency"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/budget"
)

type addBudgetCmd struct {
	category string
	limit    string
	period   string
	color    string
}

func (*addBudgetCmd) Name() string     { return "add-budget" }
func (*addBudgetCmd) Synopsis() string { return "create a spending budget for a category" }
func (*addBudgetCmd) Usage() string {
	return `wealthflow add-budget -c <category> -l <limit> [-p monthly|weekly] [-color <hex>]

  Creates a budget. A category can only have one budget.
`
}

func (c *addBudgetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Category")
	f.StringVar(&c.limit, "l", "", "Spending limit for the period")
	f.StringVar(&c.period, "p", string(domain.BudgetPeriodMonthly), "Period: monthly or weekly")
	f.StringVar(&c.color, "color", "", "Display color")
}

func (c *addBudgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *addBudgetCmd) run(ctx context.Context, app *App, _ []string) error {
	limit, err := parseAmount("l", c.limit)
	if err != nil {
		return err
	}

	b, err := app.Budgets.Create(ctx, budget.CreateBudgetInput{
		Category: strings.TrimSpace(c.category),
		Limit:    limit,
		Period:   domain.BudgetPeriod(strings.ToLower(c.period)),
		Color:    c.color,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Created %s budget of %s for %s (%s)\n", b.Period, currency.Format(b.Limit, app.Currency), b.Category, shortID(b.ID))
	return nil
}

// budgetsCmd shows budget performance, totals and suggestions
type budgetsCmd struct{}

func (*budgetsCmd) Name() string     { return "budgets" }
func (*budgetsCmd) Synopsis() string { return "show budget performance" }
func (*budgetsCmd) Usage() string {
	return `wealthflow budgets

  Shows every budget with its utilization, status and projection, then optimization suggestions.
`
}

func (c *budgetsCmd) SetFlags(f *flag.FlagSet) {}

func (c *budgetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *budgetsCmd) run(ctx context.Context, app *App, _ []string) error {
	performance, err := app.Budgets.Performance(ctx, app.Now())
	if err != nil {
		return err
	}
	totals, err := app.Budgets.Totals(ctx)
	if err != nil {
		return err
	}
	suggestions, err := app.Budgets.Suggestions(ctx)
	if err != nil {
		return err
	}

	code := app.Currency
	var b strings.Builder
	b.WriteString("# Budgets\n\n")
	if len(performance) == 0 {
		b.WriteString("_No budgets._\n")
		app.printMarkdown(b.String())
		return nil
	}

	b.WriteString("| ID | Category | Period | Limit | Spent | Used | Status | Projected | Days left |\n")
	b.WriteString("|---|---|---|---:|---:|---:|---|---:|---:|\n")
	for _, p := range performance {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %.1f%% | %s | %s | %d |\n",
			shortID(p.BudgetID), cell(p.Category), p.Period,
			currency.Format(p.Allocated, code), currency.Format(p.Spent, code),
			p.UtilizationRate, p.Status, currency.Format(p.ProjectedSpend, code), p.DaysRemaining)
	}
	fmt.Fprintf(&b, "\n- Budgeted: %s\n- Spent: %s\n- Remaining: %s\n",
		currency.Format(totals.Budgeted, code), currency.Format(totals.Spent, code), currency.Format(totals.Remaining, code))

	if len(suggestions) > 0 {
		b.WriteString("\n## Suggestions\n\n")
		for _, s := range suggestions {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", cell(s.Category), s.Kind, s.Message)
		}
	}

	app.printMarkdown(b.String())
	return nil
}

type rmBudgetCmd struct{}

func (*rmBudgetCmd) Name() string     { return "rm-budget" }
func (*rmBudgetCmd) Synopsis() string { return "delete a budget" }
func (*rmBudgetCmd) Usage() string {
	return `wealthflow rm-budget <id|category>

  Deletes a budget by id, id prefix or category.
`
}

func (c *rmBudgetCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmBudgetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *rmBudgetCmd) run(ctx context.Context, app *App, args []string) error {
	if len(args) != 1 {
		return usageError("expected exactly one id or category")
	}
	budgets, err := app.Budgets.List(ctx)
	if err != nil {
		return err
	}

	var id uuid.UUID
	known := make([]uuid.UUID, 0, len(budgets))
	for _, b := range budgets {
		if strings.EqualFold(b.Category, args[0]) {
			id = b.ID
		}
		known = append(known, b.ID)
	}
	if id == uuid.Nil {
		if id, err = parseID(args[0], known); err != nil {
			return err
		}
	}

	if err := app.Budgets.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Deleted budget %s\n", shortID(id))
	return nil
}
