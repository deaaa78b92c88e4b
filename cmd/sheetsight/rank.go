package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetsight/internal/files"
	"sheetsight/internal/services"
	api "sheetsight/pkg/contracts/api/v1"
)

type rankFlags struct {
	columns string
	labels  string
	pretty  bool
}

func (c *cli) rankCmd() *cobra.Command {
	var f rankFlags

	cmd := &cobra.Command{
		Use:   "rank <file|dir>...",
		Short: "Rank several spreadsheets by their column totals",
		Long: `Rank parses every spreadsheet given, expanding directories to the
spreadsheets they contain, and ranks the datasets by the totals of their
common numeric columns. Labels default to the file names.`,
		Example: `  sheetsight rank north.csv south.csv west.csv
  sheetsight rank exports/ --columns revenue --pretty`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRank(cmd, args, f)
		},
	}

	cmd.Flags().StringVar(&f.columns, "columns", "", "comma separated columns to rank by (default: common numeric columns)")
	cmd.Flags().StringVar(&f.labels, "labels", "", "comma separated labels, one per spreadsheet")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "indent the JSON output")

	return cmd
}

func (c *cli) runRank(cmd *cobra.Command, args []string, f rankFlags) error {
	paths, err := files.NewDiscovery(c.cfg.Upload.AllowedExtensions...).Expand(args)
	if err != nil {
		return err
	}

	labels := splitList(f.labels)
	if len(labels) > 0 && len(labels) != len(paths) {
		return fmt.Errorf("--labels needs %d values, got %d", len(paths), len(labels))
	}

	uploads, err := c.loadUploads(paths)
	if err != nil {
		return err
	}

	svc := services.NewCompareService(services.NewMemorySessionStore(), nil, c.cfg.Sessions.MaxTotal, c.logger)
	result, err := svc.Rank(cmd.Context(), uploads, services.RankOptions{
		Labels:         labels,
		CompareColumns: splitList(f.columns),
	})
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), api.RankResponse{
		Success: true,
		Ranking: result.Ranking,
		Files:   compareFiles(result.Files),
	}, f.pretty)
}
