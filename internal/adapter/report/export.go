// Package report exports dashboard snapshots as CSV, XLSX and Markdown.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/simaogato/wealthflow-analytics/internal/usecase/dashboard"
)

// Format is an export file format
type Format string

const (
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "md"
)

// ParseFormat converts user input into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX, FormatMarkdown:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Filename returns the export file name for the day of now, e.g. wealthflow-analytics-2025-06-30.csv
func Filename(now time.Time, format Format) string {
	return fmt.Sprintf("wealthflow-analytics-%s.%s", now.Format("2006-01-02"), format)
}

// Write exports the snapshot to w in the given format
func Write(w io.Writer, snap *dashboard.Snapshot, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, snap)
	case FormatXLSX:
		return WriteXLSX(w, snap)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(snap))
		return err
	}
	return fmt.Errorf("unsupported export format %q", format)
}

var (
	categoryHeader = []string{"Category", "Total Spent", "Budget Allocated", "Variance", "Transactions"}
	budgetHeader   = []string{"Category", "Allocated", "Spent", "Utilization %", "Status"}
	goalHeader     = []string{"Goal", "Current", "Target", "Required Monthly", "Pace", "Probability %"}
	holdingHeader  = []string{"Symbol", "Asset Class", "Shares", "Price", "Market Value", "Total Return", "Allocation %"}
)

func categoryRows(snap *dashboard.Snapshot) [][]string {
	rows := make([][]string, 0, len(snap.CategoryAnalysis))
	for _, c := range snap.CategoryAnalysis {
		rows = append(rows, []string{
			c.Category,
			c.TotalSpent.StringFixed(2),
			c.BudgetAllocated.StringFixed(2),
			c.Variance.StringFixed(2),
			strconv.Itoa(c.Transactions),
		})
	}
	return rows
}

func budgetRows(snap *dashboard.Snapshot) [][]string {
	rows := make([][]string, 0, len(snap.BudgetPerformance))
	for _, b := range snap.BudgetPerformance {
		rows = append(rows, []string{
			b.Category,
			b.Allocated.StringFixed(2),
			b.Spent.StringFixed(2),
			strconv.FormatFloat(b.UtilizationRate, 'f', 1, 64),
			string(b.Status),
		})
	}
	return rows
}

// WriteCSV writes the category analysis and budget performance sections,
// separated by a blank row.
func WriteCSV(w io.Writer, snap *dashboard.Snapshot) error {
	cw := csv.NewWriter(w)

	records := [][]string{{"Category Analysis"}, categoryHeader}
	records = append(records, categoryRows(snap)...)
	records = append(records, []string{""}, []string{"Budget Performance"}, budgetHeader)
	records = append(records, budgetRows(snap)...)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes one worksheet per section
func WriteXLSX(w io.Writer, snap *dashboard.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	goals := make([][]string, 0, len(snap.GoalProjections))
	for _, p := range snap.GoalProjections {
		goals = append(goals, []string{
			p.GoalName,
			p.Current.StringFixed(2),
			p.Target.StringFixed(2),
			p.RequiredMonthlyContribution.StringFixed(2),
			string(p.Pace),
			strconv.FormatFloat(p.Probability, 'f', 0, 64),
		})
	}

	holdings := make([][]string, 0, len(snap.Portfolio.Holdings))
	for _, h := range snap.Portfolio.Holdings {
		holdings = append(holdings, []string{
			h.Symbol,
			string(h.AssetClass),
			h.Shares.String(),
			h.CurrentPrice.StringFixed(2),
			h.MarketValue.StringFixed(2),
			h.TotalReturn.StringFixed(2),
			strconv.FormatFloat(h.Allocation, 'f', 1, 64),
		})
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"Category Analysis", categoryHeader, categoryRows(snap)},
		{"Budget Performance", budgetHeader, budgetRows(snap)},
		{"Goals", goalHeader, goals},
		{"Portfolio", holdingHeader, holdings},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s.name, s.header, s.rows); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			// numeric columns are stored as numbers so spreadsheets can sum them
			if n, err := strconv.ParseFloat(v, 64); err == nil && i > 0 && j > 0 {
				values[j] = n
				continue
			}
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}
