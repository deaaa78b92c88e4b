package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sheetsight/internal/services"
	"sheetsight/internal/validation"
	api "sheetsight/pkg/contracts/api/v1"
	"sheetsight/pkg/contracts/domain"
)

type reportFlags struct {
	reportType   string
	templateID   string
	autoTemplate bool
	client       string
	period       string
	trend        bool
	metricsCSV   string
	pretty       bool
}

func (c *cli) reportCmd() *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Build a report payload from a spreadsheet",
		Long: `Build a report payload from a CSV or Excel file and print it as JSON.

Without --template, --auto-template or --trend the basic pipeline runs for
--type. Any of those flags switches to the template pipeline.`,
		Example: `  sheetsight report sales.csv --type sales --client Acme
  sheetsight report mrr.xlsx --auto-template --trend --pretty
  sheetsight report campaign.xlsx --metrics-csv out/metrics.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReport(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.reportType, "type", "t", string(domain.ReportTypeCustom), "report type (sales, financial, marketing, inventory, custom)")
	cmd.Flags().StringVar(&f.templateID, "template", "", "template id to apply")
	cmd.Flags().BoolVar(&f.autoTemplate, "auto-template", false, "detect the template from the columns")
	cmd.Flags().StringVar(&f.client, "client", "", "client name override")
	cmd.Flags().StringVar(&f.period, "period", "", "reporting period override")
	cmd.Flags().BoolVar(&f.trend, "trend", false, "run trend analysis")
	cmd.Flags().StringVar(&f.metricsCSV, "metrics-csv", "", "also write the metrics to this CSV file")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "indent the JSON output")
	cmd.MarkFlagsMutuallyExclusive("template", "auto-template")

	return cmd
}

func (c *cli) runReport(cmd *cobra.Command, path string, f reportFlags) error {
	ctx := cmd.Context()

	if !domain.ReportType(f.reportType).Valid() {
		return fmt.Errorf("unknown report type %q", f.reportType)
	}

	upload, err := c.loadUpload(path)
	if err != nil {
		return err
	}

	svc := services.NewReportService(services.NewMemorySessionStore(), nil, services.ReportConfigFrom(c.cfg), c.logger)

	var result *services.ReportResult
	if f.templateID != "" || f.autoTemplate || f.trend {
		result, err = svc.GenerateEnhanced(ctx, upload, services.EnhancedOptions{
			TemplateID:  f.templateID,
			EnableTrend: f.trend,
			Client:      f.client,
			Period:      f.period,
		})
	} else {
		result, err = svc.Generate(ctx, upload, services.ReportOptions{
			ReportType: domain.ReportType(f.reportType),
			Client:     f.client,
			Period:     f.period,
		})
	}
	if err != nil {
		return err
	}

	if f.metricsCSV != "" {
		if err := writeMetricsFile(cmd, c.logger, svc, result.SessionID, f.metricsCSV); err != nil {
			return err
		}
	}

	out := api.UploadResponse{
		Success:   true,
		SessionID: result.SessionID,
		Payload:   result.Payload,
		Summary:   result.Summary,
	}
	if result.Template != nil {
		out.Template = &api.TemplateInfo{
			ID:           result.TemplateID,
			Name:         result.Template.Name,
			Description:  result.Template.Description,
			AutoDetected: result.AutoDetected,
		}
	}
	return writeJSON(cmd.OutOrStdout(), out, f.pretty)
}

func writeMetricsFile(cmd *cobra.Command, logger *slog.Logger, svc *services.ReportService, sessionID, path string) (err error) {
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := svc.WriteMetricsCSV(cmd.Context(), sessionID, file); err != nil {
		return fmt.Errorf("failed to write metrics csv: %w", err)
	}
	logger.Info("metrics written", slog.String("path", path))
	return nil
}
