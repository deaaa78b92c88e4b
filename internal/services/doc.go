// Package services implements the workflows behind the HTTP handlers and
// the CLI. It wires the pure core packages (dataprocessing, analytics,
// templates, comparison, trend) into request-sized operations and owns the
// cross-cutting concerns the core stays free of: logging, metrics, payload
// validation and session storage.
//
// # Workflows
//
//   - ReportService.Generate: upload -> parse -> metadata -> metrics, charts
//     and preview table -> validated payload stored as a report session
//   - ReportService.GenerateEnhanced: as above plus template selection,
//     template KPIs ahead of the standard metrics and optional trend analysis
//   - ReportService.PeriodComparison: compares the two latest periods of a
//     stored report
//   - CompareService.Compare: parses two uploads concurrently and compares them
//   - CompareService.Rank: ranks two or more uploads by their column totals
//   - HealthService.Check: liveness and session counts
//
// # Sessions
//
// Results are kept in a SessionStore. MemorySessionStore evicts the oldest
// sessions first; basic reports trim the store harder than the enhanced
// and compare workflows.
//
// # Errors
//
// Service errors are *errors.AppError values (ErrSessionNotFound,
// ErrNoDateColumn, ErrTwoFilesRequired, ErrTooFewFiles, ErrInvalidTemplate,
// ErrInvalidPeriodType). Errors from the core packages are passed through
// wrapped, so callers can still match them with errors.As.
package services
