package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/pkg/currency"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/goal"
)

type addGoalCmd struct {
	name         string
	target       string
	deadline     string
	category     string
	priority     string
	contribution string
}

func (*addGoalCmd) Name() string     { return "add-goal" }
func (*addGoalCmd) Synopsis() string { return "create a savings goal" }
func (*addGoalCmd) Usage() string {
	return `wealthflow add-goal -n <name> -t <target> -d <deadline> [-c <category>] [-p high|medium|low] [-m <monthly>]

  Creates a savings goal with nothing saved yet.
`
}

func (c *addGoalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Goal name")
	f.StringVar(&c.target, "t", "", "Target amount")
	f.StringVar(&c.deadline, "d", "", "Deadline (YYYY-MM-DD)")
	f.StringVar(&c.category, "c", string(domain.GoalCategoryOther), "Category: emergency, vacation, house, car, education, retirement, investment, other")
	f.StringVar(&c.priority, "p", string(domain.GoalPriorityMedium), "Priority: high, medium or low")
	f.StringVar(&c.contribution, "m", "", "Planned monthly contribution")
}

func (c *addGoalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *addGoalCmd) run(ctx context.Context, app *App, _ []string) error {
	target, err := parseAmount("t", c.target)
	if err != nil {
		return err
	}
	if c.deadline == "" {
		return usageError("-d is required")
	}
	deadline, err := parseDate("d", c.deadline)
	if err != nil {
		return err
	}

	input := goal.CreateGoalInput{
		Name:     strings.TrimSpace(c.name),
		Target:   target,
		Deadline: deadline,
		Category: domain.GoalCategory(strings.ToLower(c.category)),
		Priority: domain.GoalPriority(strings.ToLower(c.priority)),
	}
	if c.contribution != "" {
		monthly, err := parseAmount("m", c.contribution)
		if err != nil {
			return err
		}
		input.MonthlyContribution = &monthly
	}

	g, err := app.Goals.Create(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Created goal %q of %s due %s (%s)\n", g.Name, currency.Format(g.Target, app.Currency), g.Deadline.Format("2006-01-02"), shortID(g.ID))
	return nil
}

type contributeCmd struct {
	amount string
}

func (*contributeCmd) Name() string     { return "contribute" }
func (*contributeCmd) Synopsis() string { return "add money to a goal" }
func (*contributeCmd) Usage() string {
	return `wealthflow contribute -a <amount> <goal id|name>

  Adds a contribution to a goal. The saved amount never exceeds the target.
`
}

func (c *contributeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to contribute")
}

func (c *contributeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *contributeCmd) run(ctx context.Context, app *App, args []string) error {
	if len(args) != 1 {
		return usageError("expected exactly one goal")
	}
	amount, err := parseAmount("a", c.amount)
	if err != nil {
		return err
	}
	id, err := findGoal(ctx, app, args[0])
	if err != nil {
		return err
	}

	g, err := app.Goals.Contribute(ctx, id, amount)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "%s: %s of %s (%.1f%%)\n", g.Name, currency.Format(g.Current, app.Currency), currency.Format(g.Target, app.Currency), g.Progress())
	if g.IsAchieved() {
		fmt.Fprintln(app.Out, "Goal achieved!")
	}
	return nil
}

// findGoal resolves a goal by exact name (case insensitive), id or id prefix
func findGoal(ctx context.Context, app *App, ref string) (uuid.UUID, error) {
	goals, err := app.Goals.List(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	known := make([]uuid.UUID, 0, len(goals))
	for _, g := range goals {
		if strings.EqualFold(g.Name, ref) {
			return g.ID, nil
		}
		known = append(known, g.ID)
	}
	return parseID(ref, known)
}

// goalsCmd lists goal projections, and optionally splits an amount across them
type goalsCmd struct {
	distribute string
}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "show goal projections" }
func (*goalsCmd) Usage() string {
	return `wealthflow goals [-distribute <amount>]

  Projects every goal against the estimated monthly income.
  With -distribute, proposes how to split an amount across unfinished goals.
`
}

func (c *goalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.distribute, "distribute", "", "Amount to split across unfinished goals")
}

func (c *goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *goalsCmd) run(ctx context.Context, app *App, _ []string) error {
	now := app.Now()
	transactions, err := app.Transactions.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return err
	}
	projections, err := app.Goals.Projections(ctx, dashboard.MonthlyIncome(transactions), now)
	if err != nil {
		return err
	}

	code := app.Currency
	var b strings.Builder
	b.WriteString("# Goals\n\n")
	if len(projections) == 0 {
		b.WriteString("_No goals._\n")
		app.printMarkdown(b.String())
		return nil
	}

	b.WriteString("| ID | Goal | Saved | Target | Months left | Required/month | Pace | Probability |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---|---:|\n")
	names := make(map[uuid.UUID]string, len(projections))
	for _, p := range projections {
		names[p.GoalID] = p.GoalName
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %s | %s | %.0f%% |\n",
			shortID(p.GoalID), cell(p.GoalName),
			currency.Format(p.Current, code), currency.Format(p.Target, code),
			p.MonthsToDeadline, currency.Format(p.RequiredMonthlyContribution, code),
			p.Pace, p.Probability)
	}

	if c.distribute != "" {
		available, err := parseAmount("distribute", c.distribute)
		if err != nil {
			return err
		}
		allocations, err := app.Goals.Distribute(ctx, available, now)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "\n## Distribution of %s\n\n", currency.Format(available, code))
		allocated := decimal.Zero
		for _, a := range allocations {
			allocated = allocated.Add(a.Amount)
			fmt.Fprintf(&b, "- %s: %s\n", cell(names[a.GoalID]), currency.Format(a.Amount, code))
		}
		fmt.Fprintf(&b, "- _Unallocated_: %s\n", currency.Format(available.Sub(allocated), code))
	}

	app.printMarkdown(b.String())
	return nil
}
