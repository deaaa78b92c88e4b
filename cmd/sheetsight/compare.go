package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetsight/internal/exporter"
	"sheetsight/internal/services"
	api "sheetsight/pkg/contracts/api/v1"
)

type compareFlags struct {
	key        string
	columns    string
	labels     string
	summaryCSV string
	pretty     bool
}

func (c *cli) compareCmd() *cobra.Command {
	var f compareFlags

	cmd := &cobra.Command{
		Use:   "compare <first> <second>",
		Short: "Compare two spreadsheets column by column",
		Example: `  sheetsight compare jan.csv feb.csv --key product --labels January,February
  sheetsight compare q1.xlsx q2.xlsx --columns revenue,units --summary-csv out/summary.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd, args, f)
		},
	}

	cmd.Flags().StringVar(&f.key, "key", "", "primary key column for row-level details")
	cmd.Flags().StringVar(&f.columns, "columns", "", "comma separated columns to compare (default: common numeric columns)")
	cmd.Flags().StringVar(&f.labels, "labels", "", "comma separated labels for the two datasets")
	cmd.Flags().StringVar(&f.summaryCSV, "summary-csv", "", "also write the column summary to this CSV file")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "indent the JSON output")

	return cmd
}

func (c *cli) runCompare(cmd *cobra.Command, paths []string, f compareFlags) error {
	opts := services.CompareOptions{
		PrimaryKey:     f.key,
		CompareColumns: splitList(f.columns),
	}
	if f.labels != "" {
		labels := splitList(f.labels)
		if len(labels) != 2 {
			return fmt.Errorf("--labels needs exactly 2 values, got %d", len(labels))
		}
		opts.Labels = [2]string{labels[0], labels[1]}
	}

	uploads, err := c.loadUploads(paths)
	if err != nil {
		return err
	}

	svc := services.NewCompareService(services.NewMemorySessionStore(), nil, c.cfg.Sessions.MaxTotal, c.logger)
	result, err := svc.Compare(cmd.Context(), uploads, opts)
	if err != nil {
		return err
	}

	if f.summaryCSV != "" {
		if err := exporter.NewCSVWriter(c.logger).WriteFile(f.summaryCSV, exporter.ComparisonOptions(result.Comparison)); err != nil {
			return fmt.Errorf("failed to write summary csv: %w", err)
		}
	}

	out := api.CompareResponse{
		Success:    true,
		CompareID:  result.CompareID,
		Comparison: result.Comparison,
		Files:      compareFiles(result.Files),
	}
	return writeJSON(cmd.OutOrStdout(), out, f.pretty)
}
