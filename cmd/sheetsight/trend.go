package main

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"sheetsight/internal/dataprocessing"
	"sheetsight/internal/trend"
	"sheetsight/pkg/contracts/domain"
)

type trendFlags struct {
	dateColumn  string
	valueColumn string
	periodType  string
	previous    string
	pretty      bool
}

type trendOutput struct {
	Trend   domain.TrendAnalysis          `json:"trend_analysis"`
	Periods domain.PeriodComparisonResult `json:"period_comparison"`
}

func (c *cli) trendCmd() *cobra.Command {
	var f trendFlags

	cmd := &cobra.Command{
		Use:   "trend <file>",
		Short: "Analyze a value column over time",
		Long: `Run growth, anomaly, forecast and moving average analysis over one value
column, and compare the two most recent periods of the date column.

Rows are sorted by date first. With --previous the totals of the value
column are also compared against a second file.`,
		Example: `  sheetsight trend mrr.csv --date-column date --value-column mrr
  sheetsight trend sales.xlsx --date-column date --value-column revenue --period-type quarter`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTrend(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVar(&f.dateColumn, "date-column", "", "date column name")
	cmd.Flags().StringVar(&f.valueColumn, "value-column", "", "numeric column to analyze")
	cmd.Flags().StringVar(&f.periodType, "period-type", string(trend.PeriodMonth), "period size (day, week, month, quarter, year)")
	cmd.Flags().StringVar(&f.previous, "previous", "", "spreadsheet of the previous period")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "indent the JSON output")
	_ = cmd.MarkFlagRequired("date-column")
	_ = cmd.MarkFlagRequired("value-column")

	return cmd
}

func (c *cli) runTrend(cmd *cobra.Command, path string, f trendFlags) error {
	periodType := trend.PeriodType(f.periodType)
	if !periodType.Valid() {
		return fmt.Errorf("unknown period type %q", f.periodType)
	}

	dateColumn := dataprocessing.NormalizeColumnName(f.dateColumn)
	valueColumn := dataprocessing.NormalizeColumnName(f.valueColumn)

	table, err := c.loadTable(path)
	if err != nil {
		return err
	}
	for _, col := range []string{dateColumn, valueColumn} {
		if !table.HasColumn(col) {
			return fmt.Errorf("column %q not found in %s; columns: %v", col, path, table.Columns)
		}
	}

	var previous []domain.Row
	if f.previous != "" {
		prev, err := c.loadTable(f.previous)
		if err != nil {
			return err
		}
		previous = prev.Rows
	}

	rows := sortByDate(table.Rows, dateColumn)
	out := trendOutput{
		Trend:   trend.Analyze(rows, dateColumn, valueColumn, previous, c.cfg.Analysis.Options),
		Periods: trend.ComparePeriods(table, dateColumn, periodType),
	}

	c.logger.Info("trend analyzed",
		slog.String("file", path),
		slog.Int("rows", len(rows)),
		slog.Int("periods", out.Periods.Periods))

	return writeJSON(cmd.OutOrStdout(), out, f.pretty)
}

// loadTable reads a spreadsheet as a custom table
func (c *cli) loadTable(path string) (*domain.NormalizedTable, error) {
	upload, err := c.loadUpload(path)
	if err != nil {
		return nil, err
	}
	sheet, err := dataprocessing.ReadBytes(upload.Filename, upload.Data)
	if err != nil {
		return nil, err
	}
	table, _, err := dataprocessing.Parse(sheet, domain.ReportTypeCustom)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return table, nil
}

// sortByDate returns the rows in chronological order. Rows without a
// parsable date keep their relative order after the dated rows.
func sortByDate(rows []domain.Row, dateColumn string) []domain.Row {
	type dated struct {
		row domain.Row
		at  time.Time
		ok  bool
	}
	items := make([]dated, len(rows))
	for i, row := range rows {
		at, ok := dataprocessing.ParseDate(row[dateColumn])
		items[i] = dated{row: row, at: at, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].ok && items[i].at.Before(items[j].at)
	})

	out := make([]domain.Row, len(items))
	for i, it := range items {
		out[i] = it.row
	}
	return out
}
