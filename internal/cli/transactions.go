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
	"github.com/simaogato/wealthflow-analytics/internal/usecase/transaction"
)

// addTxCmd records an income or an expense
type addTxCmd struct {
	kind        string
	amount      string
	category    string
	description string
	date        string
}

func (*addTxCmd) Name() string     { return "add-tx" }
func (*addTxCmd) Synopsis() string { return "record an income or an expense" }
func (*addTxCmd) Usage() string {
	return `wealthflow add-tx -t <income|expense> -a <amount> -c <category> [-m <description>] [-d <date>]

  Records a transaction. Expenses add to the spent total of their category budget.
`
}

func (c *addTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "t", "expense", "Transaction type: income or expense")
	f.StringVar(&c.amount, "a", "", "Amount; the sign is taken from the type")
	f.StringVar(&c.category, "c", "", "Category")
	f.StringVar(&c.description, "m", "", "Description, defaults to the category")
	f.StringVar(&c.date, "d", "", "Date (YYYY-MM-DD), defaults to now")
}

func (c *addTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *addTxCmd) run(ctx context.Context, app *App, _ []string) error {
	kind, err := domain.ParseTransactionType(c.kind)
	if err != nil {
		return usageError("%v", err)
	}
	amount, err := parseAmount("a", c.amount)
	if err != nil {
		return err
	}
	date, err := parseDate("d", c.date)
	if err != nil {
		return err
	}

	description := c.description
	if description == "" {
		description = c.category
	}

	tx, err := app.Transactions.Record(ctx, transaction.RecordTransactionInput{
		Amount:      amount,
		Category:    c.category,
		Description: description,
		Date:        date,
		Type:        kind,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Recorded %s %s in %s (%s)\n", tx.Type, currency.Signed(tx.Amount, app.Currency), tx.Category, shortID(tx.ID))
	return nil
}

// txCmd lists transactions
type txCmd struct {
	kind     string
	category string
	from     string
	to       string
	head     int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `wealthflow tx [-t <type>] [-c <category>] [-s <start_date>] [-e <end_date>] [-head <n>]

  Lists transactions, most recent first, followed by income, expense and balance totals.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "t", "", "Only this type (income or expense)")
	f.StringVar(&c.category, "c", "", "Only this category")
	f.StringVar(&c.from, "s", "", "Start date (YYYY-MM-DD), inclusive")
	f.StringVar(&c.to, "e", "", "End date (YYYY-MM-DD), inclusive")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *txCmd) run(ctx context.Context, app *App, _ []string) error {
	filter := domain.TransactionFilter{Category: c.category}
	if c.kind != "" {
		kind, err := domain.ParseTransactionType(c.kind)
		if err != nil {
			return usageError("%v", err)
		}
		filter.Type = kind
	}
	from, err := parseDate("s", c.from)
	if err != nil {
		return err
	}
	to, err := parseDate("e", c.to)
	if err != nil {
		return err
	}
	filter.From = from
	if !to.IsZero() {
		// end of day, the filter bounds are inclusive
		filter.To = to.AddDate(0, 0, 1).Add(-1)
	}

	transactions, err := app.Transactions.List(ctx, filter)
	if err != nil {
		return err
	}
	totals := transaction.Sum(transactions)
	balance, err := app.Transactions.Balance(ctx)
	if err != nil {
		return err
	}

	if c.head > 0 && len(transactions) > c.head {
		transactions = transactions[:c.head]
	}

	app.printMarkdown(transactionsMarkdown(transactions, totals, balance, app.Currency))
	return nil
}

func transactionsMarkdown(transactions []*domain.Transaction, totals transaction.Totals, balance decimal.Decimal, code string) string {
	var b strings.Builder
	b.WriteString("# Transactions\n\n")
	if len(transactions) == 0 {
		b.WriteString("_No transactions._\n\n")
	} else {
		b.WriteString("| ID | Date | Type | Category | Description | Amount |\n")
		b.WriteString("|---|---|---|---|---|---:|\n")
		for _, tx := range transactions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				shortID(tx.ID), tx.Date.Format("2006-01-02"), tx.Type,
				cell(tx.Category), cell(tx.Description), currency.Signed(tx.Amount, code))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "- Income: %s\n", currency.Format(totals.Income, code))
	fmt.Fprintf(&b, "- Expenses: %s\n", currency.Format(totals.Expenses, code))
	fmt.Fprintf(&b, "- Balance: %s\n", currency.Format(balance, code))
	return b.String()
}

// rmTxCmd deletes a transaction
type rmTxCmd struct{}

func (*rmTxCmd) Name() string     { return "rm-tx" }
func (*rmTxCmd) Synopsis() string { return "delete a transaction" }
func (*rmTxCmd) Usage() string {
	return `wealthflow rm-tx <id>

  Deletes a transaction by id or id prefix. Budget spent totals are left unchanged.
`
}

func (c *rmTxCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmTxCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return execute(ctx, c, f)
}

func (c *rmTxCmd) run(ctx context.Context, app *App, args []string) error {
	if len(args) != 1 {
		return usageError("expected exactly one id")
	}
	transactions, err := app.Transactions.List(ctx, domain.TransactionFilter{})
	if err != nil {
		return err
	}
	known := make([]uuid.UUID, 0, len(transactions))
	for _, tx := range transactions {
		known = append(known, tx.ID)
	}

	id, err := parseID(args[0], known)
	if err != nil {
		return err
	}
	if err := app.Transactions.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Deleted transaction %s\n", shortID(id))
	return nil
}
