// Package cli implements the wealthflow command line application on top of a
// local SQLite database.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simaogato/wealthflow-analytics/internal/adapter/marketdata"
	"github.com/simaogato/wealthflow-analytics/internal/adapter/report"
	"github.com/simaogato/wealthflow-analytics/internal/adapter/repository/sqlite"
	"github.com/simaogato/wealthflow-analytics/internal/config"
	"github.com/simaogato/wealthflow-analytics/internal/domain"
	"github.com/simaogato/wealthflow-analytics/internal/pkg/logger"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/budget"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/dashboard"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/goal"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/portfolio"
	"github.com/simaogato/wealthflow-analytics/internal/usecase/transaction"
)

// Commands lists every subcommand with its group.
var Commands = []struct {
	Cmd   subcommands.Command
	Group string
}{
	{&addTxCmd{}, "transactions"},
	{&txCmd{}, "transactions"},
	{&rmTxCmd{}, "transactions"},

	{&addBudgetCmd{}, "budgets"},
	{&budgetsCmd{}, "budgets"},
	{&rmBudgetCmd{}, "budgets"},

	{&addGoalCmd{}, "goals"},
	{&contributeCmd{}, "goals"},
	{&goalsCmd{}, "goals"},

	{&buyCmd{}, "portfolio"},
	{&sellCmd{}, "portfolio"},
	{&holdingsCmd{}, "portfolio"},
	{&searchCmd{}, "portfolio"},
	{&refreshCmd{}, "portfolio"},

	{&reportCmd{}, "reports"},
	{&exportCmd{}, "reports"},
}

// Register the subcommands.
// A main package will call Register() and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, entry := range Commands {
		c.Register(entry.Cmd, entry.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a YAML config file (default ./wealthflow.yaml when present)")
var dbFile = flag.String("db", "", "Path to the SQLite database. Overrides sqlite.path from the config.")

// App bundles the services a command works with
type App struct {
	Transactions *transaction.TransactionService
	Budgets      *budget.BudgetService
	Goals        *goal.GoalService
	Portfolio    *portfolio.PortfolioService
	Dashboard    *dashboard.DashboardService
	Currency     string

	Out   io.Writer
	Now   func() time.Time
	Width int  // word wrap of rendered markdown
	Raw   bool // print markdown source instead of rendering it

	db *gorm.DB
}

// NewApp wires the services over an open SQLite database
func NewApp(db *gorm.DB, cfg *config.Config, quotes domain.QuoteProvider, log zerolog.Logger, out io.Writer) *App {
	transactionRepo := sqlite.NewTransactionRepository(db)
	budgetRepo := sqlite.NewBudgetRepository(db)
	goalRepo := sqlite.NewGoalRepository(db)
	holdingRepo := sqlite.NewHoldingRepository(db)
	historyRepo := sqlite.NewValueHistoryRepository(db)

	return &App{
		Transactions: transaction.NewTransactionService(transactionRepo, cfg.Finance.OpeningBalance),
		Budgets:      budget.NewBudgetService(budgetRepo, transactionRepo, cfg.Finance.Currency),
		Goals:        goal.NewGoalService(goalRepo),
		Portfolio:    portfolio.NewPortfolioService(holdingRepo, historyRepo, quotes, log),
		Dashboard: dashboard.NewDashboardService(
			transactionRepo, budgetRepo, goalRepo, holdingRepo,
			cfg.Finance.OpeningBalance, cfg.Finance.Currency,
		),
		Currency: cfg.Finance.Currency,
		Out:      out,
		Now:      time.Now,
		Width:    100,
		db:       db,
	}
}

// Close releases the database
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return sqlite.Close(a.db)
}

// OpenApp loads the configuration, opens the database and the price sheet.
func OpenApp() (*App, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}

	path := cfg.SQLite.Path
	if *dbFile != "" {
		path = *dbFile
	}

	log := logger.New(cfg.Log.Level, true, os.Stderr)

	db, err := sqlite.Open(path, cfg.SQLite.LogMode)
	if err != nil {
		return nil, err
	}

	quotes := marketdata.NewStatic()
	if cfg.MarketData.PriceSheet != "" {
		quotes, err = marketdata.LoadFile(cfg.MarketData.PriceSheet)
		if err != nil {
			_ = sqlite.Close(db)
			return nil, err
		}
	}

	return NewApp(db, cfg, quotes, log, os.Stdout), nil
}

// runner is implemented by every command: the parsed flags are in the receiver
type runner interface {
	run(ctx context.Context, app *App, args []string) error
}

// execute opens the app, runs the command and maps the outcome to an exit status
func execute(ctx context.Context, r runner, f *flag.FlagSet) subcommands.ExitStatus {
	app, err := OpenApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	if err := r.run(ctx, app, f.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var errUsage = errors.New("usage")

func usageError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// printMarkdown renders md for the terminal, falling back to the source text
func (a *App) printMarkdown(md string) {
	if a.Raw {
		fmt.Fprint(a.Out, md)
		return
	}
	out, err := report.Render(md, a.Width)
	if err != nil {
		fmt.Fprint(a.Out, md)
		return
	}
	fmt.Fprint(a.Out, out)
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, usageError("-%s is required", name)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, usageError("invalid -%s %q", name, s)
	}
	return d, nil
}

// parseDate reads 2006-01-02 in the local time zone; empty means zero time
func parseDate(name, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, usageError("invalid -%s %q, want YYYY-MM-DD", name, s)
	}
	return t, nil
}

// parseID accepts a full UUID or the 8 character prefix printed by the list commands
func parseID(s string, known []uuid.UUID) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, usageError("missing id")
	}
	if id, err := uuid.Parse(s); err == nil {
		return id, nil
	}

	var match uuid.UUID
	found := 0
	for _, id := range known {
		if strings.HasPrefix(id.String(), strings.ToLower(s)) {
			match = id
			found++
		}
	}
	switch found {
	case 0:
		return uuid.Nil, fmt.Errorf("id %q: %w", s, domain.ErrNotFound)
	case 1:
		return match, nil
	default:
		return uuid.Nil, usageError("id prefix %q is ambiguous", s)
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// cell escapes a value for a markdown table
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
