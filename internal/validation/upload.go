package validation

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	apierrors "sheetsight/internal/errors"
)

// DefaultExtensions are the spreadsheet formats accepted for upload
var DefaultExtensions = []string{".xlsx", ".xls", ".csv"}

// UploadValidator rejects uploads by extension and size before any
// parsing happens
type UploadValidator struct {
	maxBytes   int64
	extensions []string
	logger     *slog.Logger
}

// NewUploadValidator creates an upload validator. A non-positive maxBytes
// disables the size check.
func NewUploadValidator(maxBytes int64, extensions []string, logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &UploadValidator{
		maxBytes:   maxBytes,
		extensions: normalizeExtensions(extensions),
		logger:     logger.With(slog.String("component", "upload_validator")),
	}
}

// MaxBytes returns the configured size limit
func (v *UploadValidator) MaxBytes() int64 {
	return v.maxBytes
}

// Validate checks one uploaded file. Errors are *apierrors.AppError values
// of type validation or too-large.
func (v *UploadValidator) Validate(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return apierrors.NewAppValidationError("no file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(v.extensions, ext) {
		v.logger.Warn("rejected upload",
			slog.String("filename", filename),
			slog.String("reason", "extension"))
		return apierrors.NewAppValidationError(
			fmt.Sprintf("Invalid file type %q. Allowed: %s", ext, strings.Join(v.extensions, ", ")),
		).WithContext("allowed_extensions", v.extensions)
	}

	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("rejected upload",
			slog.String("filename", filename),
			slog.String("reason", "size"),
			slog.Int64("size", size))
		return apierrors.NewAppError(apierrors.ErrTypeTooLarge,
			fmt.Sprintf("File %s exceeds the maximum upload size of %d bytes", filename, v.maxBytes), nil,
		).WithContext("max_bytes", v.maxBytes)
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
