package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/pkg/currency"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/portfolio"
)

// buyCmd adds a holding at the quoted price
type buyCmd struct {
	shares string
	cost   string
	name   string
	sector string
	class  string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "add a holding to the portfolio" }
func (*buyCmd) Usage() string {
	return `wealthflow buy -n <shares> -p <avg cost> [-class <asset class>] [-name <name>] [-sector <sector>] <symbol>

  Adds a holding. The symbol must have a quote in the price sheet.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.shares, "n", "", "Number of shares")
	f.StringVar(&c.cost, "p", "", "Average cost per share")
	f.StringVar(&c.name, "name", "", "Display name, defaults to the company name")
	f.StringVar(&c.sector, "sector", "", "Sector, defaults to the company sector")
	f.StringVar(&c.class, "class", string(domain.AssetClassStock), "Asset class: stock, etf, bond, crypto, reit")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *buyCmd) run(ctx context.Context, app *App, args []string) error {
	if len(args) != 1 {
		return usageError("expected exactly one symbol")
	}
	shares, err := parseAmount("n", c.shares)
	if err != nil {
		return err
	}
	cost, err := parseAmount("p", c.cost)
	if err != nil {
		return err
	}

	h, err := app.Portfolio.AddHolding(ctx, portfolio.AddHoldingInput{
		Symbol:     args[0],
		Name:       c.name,
		Shares:     shares,
		AvgCost:    cost,
		Sector:     c.sector,
		AssetClass: domain.AssetClass(strings.ToLower(c.class)),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Added %s %s (%s) at %s, market value %s\n",
		h.Shares, h.Symbol, h.Name, currency.Format(h.CurrentPrice, app.Currency), currency.Format(h.MarketValue, app.Currency))
	return nil
}

// sellCmd removes a holding
type sellCmd struct{}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "remove a holding from the portfolio" }
func (*sellCmd) Usage() string {
	return `wealthflow sell <symbol|id>

  Removes a holding; allocations of the remaining holdings are recomputed.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *sellCmd) run(ctx context.Context, app *App, args []string) error {
	if len(args) != 1 {
		return usageError("expected exactly one symbol or id")
	}
	summary, err := app.Portfolio.Summary(ctx)
	if err != nil {
		return err
	}

	symbol := domain.NormalizeSymbol(args[0])
	var id uuid.UUID
	known := make([]uuid.UUID, 0, len(summary.Holdings))
	for _, h := range summary.Holdings {
		if h.Symbol == symbol {
			id = h.ID
		}
		known = append(known, h.ID)
	}
	if id == uuid.Nil {
		if id, err = parseID(args[0], known); err != nil {
			return err
		}
	}

	if err := app.Portfolio.RemoveHolding(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Removed holding %s\n", shortID(id))
	return nil
}

// holdingsCmd prints the portfolio summary
type holdingsCmd struct {
	history int
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "show the portfolio" }
func (*holdingsCmd) Usage() string {
	return `wealthflow holdings [-history <days>]

  Shows holdings with value, return and allocation, then the asset class split.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.history, "history", 0, "Also list value snapshots of the last N days")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *holdingsCmd) run(ctx context.Context, app *App, _ []string) error {
	summary, err := app.Portfolio.Summary(ctx)
	if err != nil {
		return err
	}

	code := app.Currency
	var b strings.Builder
	b.WriteString("# Portfolio\n\n")
	if len(summary.Holdings) == 0 {
		b.WriteString("_No holdings._\n")
	} else {
		b.WriteString("| Symbol | Name | Shares | Price | Value | Return | Return % | Allocation |\n")
		b.WriteString("|---|---|---:|---:|---:|---:|---:|---:|\n")
		for _, h := range summary.Holdings {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %.2f%% | %.1f%% |\n",
				h.Symbol, cell(h.Name), h.Shares, currency.Format(h.CurrentPrice, code),
				currency.Format(h.MarketValue, code), currency.Signed(h.TotalReturn, code),
				h.TotalReturnPercent, h.Allocation)
		}
		fmt.Fprintf(&b, "\n- Value: %s\n- Cost: %s\n- Return: %s (%.2f%%)\n- Today: %s (%.2f%%)\n",
			currency.Format(summary.TotalValue, code), currency.Format(summary.TotalCost, code),
			currency.Signed(summary.TotalReturn, code), summary.TotalReturnPercent,
			currency.Signed(summary.DailyChange, code), summary.DailyChangePercent)

		b.WriteString("\n## Asset allocation\n\n")
		for _, a := range summary.AssetAllocation {
			if a.Value.IsZero() {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s (%.1f%%)\n", a.Class, currency.Format(a.Value, code), a.Allocation)
		}
	}

	if c.history > 0 {
		points, err := app.Portfolio.History(ctx, app.Now().Add(-time.Duration(c.history)*24*time.Hour))
		if err != nil {
			return err
		}
		b.WriteString("\n## History\n\n")
		if len(points) == 0 {
			b.WriteString("_No snapshots._\n")
		}
		for _, p := range points {
			fmt.Fprintf(&b, "- %s: %s (cost %s)\n", p.Date.Format("2006-01-02 15:04"),
				currency.Format(p.MarketValue, code), currency.Format(p.CostBasis, code))
		}
	}

	app.printMarkdown(b.String())
	return nil
}

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search symbols in the price sheet" }
func (*searchCmd) Usage() string {
	return `wealthflow search <query>

  Lists symbols whose ticker or name contains the query.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *searchCmd) run(ctx context.Context, app *App, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return usageError("missing query")
	}
	results, err := app.Portfolio.SearchSymbols(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(app.Out, "No symbol matches %q\n", query)
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(app.Out, "%-8s %-6s %s\n", r.Symbol, r.Type, r.Name)
	}
	return nil
}

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "re-quote every holding" }
func (*refreshCmd) Usage() string {
	return `wealthflow refresh

  Updates holding prices from the price sheet and records a portfolio value snapshot.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *refreshCmd) run(ctx context.Context, app *App, _ []string) error {
	result, err := app.Portfolio.RefreshPrices(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Updated %d holdings\n", len(result.Updated))
	if len(result.Unavailable) > 0 {
		fmt.Fprintf(app.Out, "No quote for: %s\n", strings.Join(result.Unavailable, ", "))
	}
	return nil
}
