package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sheetsight/internal/analytics"
	"sheetsight/internal/config"
	"sheetsight/internal/dataprocessing"
	apierrors "sheetsight/internal/errors"
	"sheetsight/internal/exporter"
	"sheetsight/internal/infrastructure"
	"sheetsight/internal/templates"
	"sheetsight/internal/trend"
	"sheetsight/internal/validation"
	"sheetsight/pkg/contracts/domain"
)

const (
	reportIDPrefix  = "report_"
	noTemplate      = "none"
	customTemplate  = "Custom"
	trendSampleRows = 5
)

var trendValueKeywords = []string{"revenue", "amount", "mrr", "sales"}

// ReportConfig holds the settings of the report workflows
type ReportConfig struct {
	MaxBasicSessions int
	MaxSessions      int
	TrendEnabled     bool
	Trend            trend.Options
}

// ReportConfigFrom picks the report settings out of the application config
func ReportConfigFrom(cfg *config.Config) ReportConfig {
	return ReportConfig{
		MaxBasicSessions: cfg.Sessions.MaxBasic,
		MaxSessions:      cfg.Sessions.MaxTotal,
		TrendEnabled:     cfg.Analysis.TrendEnabled,
		Trend:            cfg.Analysis.Options,
	}
}

// Upload is one uploaded spreadsheet
type Upload struct {
	Filename string
	Data     []byte
}

// ReportOptions are the inputs of a basic report
type ReportOptions struct {
	ReportType domain.ReportType
	Client     string
	Period     string
}

// EnhancedOptions are the inputs of a template-aware report. An empty
// TemplateID asks for detection from the columns.
type EnhancedOptions struct {
	TemplateID  string
	EnableTrend bool
	Client      string
	Period      string
}

// ReportResult is a generated and stored report
type ReportResult struct {
	SessionID    string
	Payload      *domain.ReportPayload
	Summary      domain.ReportSummary
	Format       domain.Format
	TemplateID   string
	Template     *templates.Template
	AutoDetected bool
}

// ReportService runs the upload-to-payload pipelines and keeps their
// results in a session store
type ReportService struct {
	store     SessionStore
	validator *validation.Validator
	metrics   *infrastructure.BusinessMetrics
	csv       *exporter.CSVWriter
	cfg       ReportConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewReportService creates a report service
func NewReportService(store SessionStore, metrics *infrastructure.BusinessMetrics, cfg ReportConfig, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.NoopBusinessMetrics()
	}
	logger = logger.With(slog.String("component", "report_service"))

	logger.Info("ReportService initialized",
		slog.Int("max_basic_sessions", cfg.MaxBasicSessions),
		slog.Int("max_sessions", cfg.MaxSessions),
		slog.Bool("trend_enabled", cfg.TrendEnabled))

	return &ReportService{
		store:     store,
		validator: validation.NewValidator(),
		metrics:   metrics,
		csv:       exporter.NewCSVWriter(logger),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate builds a basic report: standard metrics, charts and a preview
// table for the requested report type.
func (s *ReportService) Generate(ctx context.Context, upload Upload, opts ReportOptions) (*ReportResult, error) {
	start := time.Now()

	reportType := opts.ReportType
	if reportType == "" {
		reportType = domain.ReportTypeCustom
	}

	table, err := parseUpload(ctx, s.logger, upload, reportType)
	if err != nil {
		return nil, s.fail(ctx, "generate", err)
	}

	meta := dataprocessing.ExtractMetadata(table, upload.Filename, dataprocessing.MetaOverrides{
		Client:     opts.Client,
		Period:     opts.Period,
		ReportType: string(reportType),
	}, s.now())

	payload := &domain.ReportPayload{
		Meta:    meta,
		Metrics: analytics.Calculate(table, reportType),
		Tables:  []domain.PreviewTable{analytics.SummaryTable(table)},
		Charts:  analytics.BuildCharts(table),
	}

	result, err := s.finish(ctx, upload, table, payload, s.cfg.MaxBasicSessions)
	if err != nil {
		return nil, s.fail(ctx, "generate", err)
	}

	s.metrics.RecordReport(ctx, string(table.Format), noTemplate, time.Since(start))
	s.logger.InfoContext(ctx, "report generated",
		slog.String("session_id", result.SessionID),
		slog.String("report_type", string(reportType)),
		slog.Int("metrics", len(payload.Metrics)),
		slog.Int("charts", len(payload.Charts)),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// GenerateEnhanced builds a template-aware report. The template is the
// requested one or the best match for the columns; its KPIs come first in
// the metric list. Trend analysis runs when enabled in both the options and
// the service config and the table has a date and a value column.
func (s *ReportService) GenerateEnhanced(ctx context.Context, upload Upload, opts EnhancedOptions) (*ReportResult, error) {
	start := time.Now()

	var (
		tmpl *templates.Template
		ok   bool
	)
	if opts.TemplateID != "" {
		if tmpl, ok = templates.Get(opts.TemplateID); !ok {
			return nil, s.fail(ctx, "generate_enhanced", ErrInvalidTemplate.WithContext("template_id", opts.TemplateID))
		}
	}

	table, err := parseUpload(ctx, s.logger, upload, domain.ReportTypeCustom)
	if err != nil {
		return nil, s.fail(ctx, "generate_enhanced", err)
	}

	templateID := opts.TemplateID
	autoDetected := false
	if templateID == "" {
		if id, found := templates.Detect(table.Columns); found {
			templateID = id
			tmpl, _ = templates.Get(id)
			autoDetected = true
		}
	}

	reportType := domain.ReportType(templateID)
	if templateID == "" {
		reportType = domain.ReportTypeCustom
	}

	s.logger.InfoContext(ctx, "template selected",
		slog.String("template_id", templateID),
		slog.Bool("auto_detected", autoDetected))

	meta := dataprocessing.ExtractMetadata(table, upload.Filename, dataprocessing.MetaOverrides{
		Client:     opts.Client,
		Period:     opts.Period,
		ReportType: string(reportType),
	}, s.now())
	meta.TemplateID = templateID
	meta.TemplateUsed = customTemplate

	metrics := analytics.Calculate(table, reportType)
	if tmpl != nil {
		meta.TemplateUsed = tmpl.Name
		metrics = templates.PrependKPIs(templates.CalculateKPIs(tmpl, table.Rows), metrics)
	}

	payload := &domain.ReportPayload{
		Meta:    meta,
		Metrics: metrics,
		Tables:  []domain.PreviewTable{analytics.SummaryTable(table)},
		Charts:  analytics.BuildCharts(table),
	}

	if opts.EnableTrend && s.cfg.TrendEnabled {
		if dateCol, valueCol, found := trendColumns(table); found {
			analysis := trend.Analyze(table.Rows, dateCol, valueCol, nil, s.cfg.Trend)
			payload.TrendAnalysis = &analysis
			s.logger.InfoContext(ctx, "trend analysis completed",
				slog.String("date_column", dateCol),
				slog.String("value_column", valueCol),
				slog.String("trend", string(analysis.Trends.Trend)))
		}
	}

	result, err := s.finish(ctx, upload, table, payload, s.cfg.MaxSessions)
	if err != nil {
		return nil, s.fail(ctx, "generate_enhanced", err)
	}
	result.TemplateID = templateID
	result.Template = tmpl
	result.AutoDetected = autoDetected

	templateLabel := templateID
	if templateLabel == "" {
		templateLabel = noTemplate
	}
	s.metrics.RecordReport(ctx, string(table.Format), templateLabel, time.Since(start))
	s.logger.InfoContext(ctx, "enhanced report generated",
		slog.String("session_id", result.SessionID),
		slog.String("template", meta.TemplateUsed),
		slog.Int("metrics", len(payload.Metrics)),
		slog.Int("charts", len(payload.Charts)),
		slog.Bool("trend_analysis", payload.TrendAnalysis != nil),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// Get returns a stored report session
func (s *ReportService) Get(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		s.logger.DebugContext(ctx, "session lookup failed", slog.String("session_id", sessionID))
		return nil, err
	}
	return session, nil
}

// Templates lists the registered templates in registry order
func (s *ReportService) Templates() []templates.Summary {
	return templates.List()
}

// PeriodComparison groups a stored report's rows by period and compares
// the two most recent periods. An empty dateColumn picks the first
// date-like column; an empty periodType means month.
func (s *ReportService) PeriodComparison(ctx context.Context, sessionID, dateColumn string, periodType trend.PeriodType) (*domain.PeriodComparisonResult, error) {
	if periodType == "" {
		periodType = trend.PeriodMonth
	}
	if !periodType.Valid() {
		return nil, s.fail(ctx, "period_comparison", ErrInvalidPeriodType.WithContext("period_type", string(periodType)))
	}

	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, s.fail(ctx, "period_comparison", err)
	}
	if session.Table == nil {
		return nil, s.fail(ctx, "period_comparison", ErrSessionNotFound.WithContext("session_id", sessionID))
	}

	if dateColumn == "" {
		col, found := dataprocessing.DateColumn(session.Table.Columns)
		if !found {
			return nil, s.fail(ctx, "period_comparison", ErrNoDateColumn)
		}
		dateColumn = col
	}

	result := trend.ComparePeriods(session.Table, dateColumn, periodType)
	s.metrics.RecordComparison(ctx, "period")
	s.logger.InfoContext(ctx, "period comparison completed",
		slog.String("session_id", sessionID),
		slog.String("date_column", dateColumn),
		slog.String("period_type", string(periodType)),
		slog.Int("periods", result.Periods))
	return &result, nil
}

// WriteMetricsCSV writes the metrics of a stored report as CSV
func (s *ReportService) WriteMetricsCSV(ctx context.Context, sessionID string, out io.Writer) error {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return err
	}
	if session.Payload == nil {
		return ErrSessionNotFound.WithContext("session_id", sessionID)
	}
	if err := s.csv.Write(out, exporter.MetricsOptions(session.Payload.Metrics)); err != nil {
		return fmt.Errorf("failed to export metrics: %w", err)
	}
	s.logger.DebugContext(ctx, "metrics exported",
		slog.String("session_id", sessionID),
		slog.Int("metrics", len(session.Payload.Metrics)))
	return nil
}

// SessionCount returns the number of stored sessions
func (s *ReportService) SessionCount() int {
	return s.store.Len()
}

// parseUpload reads an upload and normalizes its first sheet
func parseUpload(ctx context.Context, logger *slog.Logger, upload Upload, reportType domain.ReportType) (*domain.NormalizedTable, error) {
	sheet, err := readUpload(upload)
	if err != nil {
		return nil, err
	}

	table, decision, err := dataprocessing.Parse(sheet, reportType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", upload.Filename, err)
	}

	logger.InfoContext(ctx, "upload parsed",
		slog.String("filename", upload.Filename),
		slog.String("format", string(table.Format)),
		slog.Int("rows", table.RowCount),
		slog.Int("columns", len(table.Columns)))
	logger.DebugContext(ctx, "format detected",
		slog.String("rule", decision.Rule),
		slog.Int("label_count", decision.LabelCount),
		slog.Int("value_count", decision.ValueCount),
		slog.Int("section_count", decision.SectionCount),
		slog.Float64("vertical_ratio", decision.VerticalRatio))
	return table, nil
}

// finish validates the payload, stores the session and builds the result
func (s *ReportService) finish(ctx context.Context, upload Upload, table *domain.NormalizedTable, payload *domain.ReportPayload, keep int) (*ReportResult, error) {
	if payload.Metrics == nil {
		payload.Metrics = []domain.Metric{}
	}
	if payload.Charts == nil {
		payload.Charts = []domain.Chart{}
	}

	if err := s.validator.Struct(payload); err != nil {
		s.logger.ErrorContext(ctx, "generated payload failed validation",
			slog.String("filename", upload.Filename),
			slog.String("error", err.Error()))
		return nil, apierrors.NewAppError(apierrors.ErrTypeInternal, "generated report failed validation: "+err.Error(), nil)
	}

	session := &Session{
		ID:        reportIDPrefix + uuid.NewString(),
		Kind:      SessionReport,
		Filename:  upload.Filename,
		CreatedAt: s.now().UTC(),
		Payload:   payload,
		Table:     table,
	}
	if err := s.store.Save(session, keep); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	return &ReportResult{
		SessionID: session.ID,
		Payload:   payload,
		Format:    table.Format,
		Summary: domain.ReportSummary{
			RowCount:         table.RowCount,
			ColumnCount:      len(table.Columns),
			MetricsCount:     len(payload.Metrics),
			ChartsCount:      len(payload.Charts),
			HasTrendAnalysis: payload.TrendAnalysis != nil,
		},
	}, nil
}

// fail logs and counts a failed workflow and returns err unchanged
func (s *ReportService) fail(ctx context.Context, workflow string, err error) error {
	kind := errorKind(err)
	s.metrics.RecordError(ctx, kind)
	s.logger.WarnContext(ctx, "report workflow failed",
		slog.String("workflow", workflow),
		slog.String("error_type", kind),
		slog.String("error", err.Error()))
	return err
}

// readUpload decodes an upload, passing typed reader errors through and
// reporting anything else as unreadable
func readUpload(upload Upload) (domain.RawSheet, error) {
	sheet, err := dataprocessing.ReadBytes(upload.Filename, upload.Data)
	if err == nil {
		return sheet, nil
	}

	var empty *dataprocessing.EmptyInputError
	if errors.Is(err, dataprocessing.ErrUnsupportedFile) || errors.As(err, &empty) {
		return nil, err
	}
	return nil, apierrors.NewParsingError(fmt.Sprintf("could not read %s", upload.Filename), err)
}

// trendColumns picks the series for trend analysis: the first date-like
// column and the first revenue-like column, falling back to the first
// numeric column.
func trendColumns(table *domain.NormalizedTable) (dateCol, valueCol string, ok bool) {
	dateCol, ok = dataprocessing.DateColumn(table.Columns)
	if !ok {
		return "", "", false
	}

	for _, col := range table.Columns {
		if dataprocessing.ContainsAny(strings.ToLower(col), trendValueKeywords...) {
			return dateCol, col, true
		}
	}
	for _, col := range analytics.NumericColumns(table, trendSampleRows) {
		if col != dateCol {
			return dateCol, col, true
		}
	}
	return "", "", false
}
