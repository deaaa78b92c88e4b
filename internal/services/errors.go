package services

import (
	"errors"
	"strings"

	"sheetsight/internal/dataprocessing"
	apierrors "sheetsight/internal/errors"
)

// Service errors. Each is an *apierrors.AppError so the HTTP layer can map
// it to a status; wrap them with %w or copy them with WithContext.
var (
	// Session errors
	ErrSessionNotFound = apierrors.NewNotFoundError("report session")

	// Workflow input errors
	ErrNoDateColumn      = apierrors.NewAppValidationError("Could not find a date column for period comparison")
	ErrTwoFilesRequired  = apierrors.NewAppValidationError("Please upload exactly 2 files to compare")
	ErrTooFewFiles       = apierrors.NewAppValidationError("Please upload at least 2 files to rank")
	ErrInvalidTemplate   = apierrors.NewAppValidationError("unknown template")
	ErrInvalidPeriodType = apierrors.NewAppValidationError("period type must be one of day, week, month, quarter, year")
)

// errorKind names the failure for the report_errors_total counter
func errorKind(err error) string {
	var (
		empty   *dataprocessing.EmptyInputError
		missing *dataprocessing.MissingColumnsError
	)
	switch {
	case errors.As(err, &empty):
		return "empty_input"
	case errors.As(err, &missing):
		return "missing_columns"
	case errors.Is(err, dataprocessing.ErrUnsupportedFile):
		return "unsupported_file"
	default:
		return strings.ToLower(string(apierrors.TypeOf(err)))
	}
}
