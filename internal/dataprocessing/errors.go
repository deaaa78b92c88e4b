package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFile is returned for files the reader cannot decode
var ErrUnsupportedFile = errors.New("unsupported file format")

// EmptyInputError means no usable data rows were found. It is a
// user-fixable input problem.
type EmptyInputError struct {
	Reason string
}

func (e *EmptyInputError) Error() string {
	if e.Reason == "" {
		return "file is empty or has no data rows"
	}
	return "file is empty or has no data rows: " + e.Reason
}

// MissingColumnsError lists the required columns a report type needs but
// the table does not have.
type MissingColumnsError struct {
	ReportType string
	Missing    []string
	Found      []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Missing required columns for %s report: %s. Found columns: %s",
		e.ReportType, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// IsEmptyInput reports whether err is or wraps an EmptyInputError
func IsEmptyInput(err error) bool {
	var target *EmptyInputError
	return errors.As(err, &target)
}

// IsMissingColumns reports whether err is or wraps a MissingColumnsError
func IsMissingColumns(err error) bool {
	var target *MissingColumnsError
	return errors.As(err, &target)
}
