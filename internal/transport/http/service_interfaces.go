package http

import (
	"context"
	"io"

	"sheetsight/internal/services"
	"sheetsight/internal/templates"
	"sheetsight/internal/trend"
	"sheetsight/pkg/contracts/domain"
)

// ReportServiceInterface defines the report workflows used by ReportHandler
type ReportServiceInterface interface {
	Generate(ctx context.Context, upload services.Upload, opts services.ReportOptions) (*services.ReportResult, error)
	GenerateEnhanced(ctx context.Context, upload services.Upload, opts services.EnhancedOptions) (*services.ReportResult, error)
	Get(ctx context.Context, sessionID string) (*services.Session, error)
	Templates() []templates.Summary

	// Period and export operations on stored reports
	PeriodComparison(ctx context.Context, sessionID, dateColumn string, periodType trend.PeriodType) (*domain.PeriodComparisonResult, error)
	WriteMetricsCSV(ctx context.Context, sessionID string, out io.Writer) error
}

// CompareServiceInterface defines the multi-file workflows
type CompareServiceInterface interface {
	Compare(ctx context.Context, uploads []services.Upload, opts services.CompareOptions) (*services.CompareResult, error)
	Rank(ctx context.Context, uploads []services.Upload, opts services.RankOptions) (*services.RankResult, error)
}

// HealthServiceInterface defines the health check used by HealthHandler
type HealthServiceInterface interface {
	Check(ctx context.Context) services.HealthStatus
}
