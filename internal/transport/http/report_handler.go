package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "sheetsight/internal/errors"
	"sheetsight/internal/middleware"
	"sheetsight/internal/services"
	"sheetsight/internal/trend"
	"sheetsight/internal/validation"
	api "sheetsight/pkg/contracts/api/v1"
	"sheetsight/pkg/contracts/domain"
)

const (
	// multipartMemory is the part of a multipart form kept in memory
	multipartMemory = 32 << 20
	// formOverhead allows for boundaries and text fields around the files
	formOverhead = 1 << 20

	fileField    = "file"
	filesField   = "files"
	maxRankFiles = 10
)

// ReportHandler serves the upload, report, template and comparison routes
type ReportHandler struct {
	reports      ReportServiceInterface
	compare      CompareServiceInterface
	uploads      *validation.UploadValidator
	validator    *validation.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler with RFC 7807 error handling
func NewReportHandler(reports ReportServiceInterface, compare CompareServiceInterface, uploads *validation.UploadValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		reports:      reports,
		compare:      compare,
		uploads:      uploads,
		validator:    validation.NewValidator(),
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"))
		r.Post("/upload-excel", h.UploadExcel)
		r.Post("/upload-excel-enhanced", h.UploadExcelEnhanced)
		r.Post("/compare", h.Compare)
		r.Post("/rank", h.Rank)
	})

	r.Get("/templates", h.ListTemplates)

	r.Route("/report/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetReport)
		r.Get("/metrics.csv", h.DownloadMetricsCSV)
	})
	r.Post("/period-comparison/{sessionID}", h.PeriodComparison)

	return r
}

// UploadExcel handles POST /api/upload-excel
func (h *ReportHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	files, err := h.readUploads(w, r, fileField, 1)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req := api.UploadRequest{
		ReportType: r.FormValue("report_type"),
		Client:     r.FormValue("client"),
		Period:     r.FormValue("period"),
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "processing upload",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("filename", files[0].Filename),
		slog.Int("size", len(files[0].Data)),
		slog.String("report_type", req.ReportType))

	result, err := h.reports.Generate(r.Context(), files[0], services.ReportOptions{
		ReportType: domain.ReportType(req.ReportType),
		Client:     req.Client,
		Period:     req.Period,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, uploadResponse(result))
}

// UploadExcelEnhanced handles POST /api/upload-excel-enhanced
func (h *ReportHandler) UploadExcelEnhanced(w http.ResponseWriter, r *http.Request) {
	files, err := h.readUploads(w, r, fileField, 1)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req := api.EnhancedUploadRequest{
		TemplateID:  r.FormValue("template_id"),
		EnableTrend: formBool(r.FormValue("enable_trend"), true),
		Client:      r.FormValue("client"),
		Period:      r.FormValue("period"),
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "processing enhanced upload",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("filename", files[0].Filename),
		slog.String("template_id", req.TemplateID),
		slog.Bool("enable_trend", req.EnableTrend))

	result, err := h.reports.GenerateEnhanced(r.Context(), files[0], services.EnhancedOptions{
		TemplateID:  req.TemplateID,
		EnableTrend: req.EnableTrend,
		Client:      req.Client,
		Period:      req.Period,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, uploadResponse(result))
}

// GetReport handles GET /api/report/{sessionID}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.reports.Get(r.Context(), sessionID)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if session.Payload == nil {
		h.errorHandler.HandleError(w, r, services.ErrSessionNotFound.WithContext("session_id", sessionID))
		return
	}

	render.JSON(w, r, api.ReportResponse{
		Success:   true,
		SessionID: session.ID,
		Payload:   session.Payload,
		Filename:  session.Filename,
		CreatedAt: session.CreatedAt,
	})
}

// DownloadMetricsCSV handles GET /api/report/{sessionID}/metrics.csv
func (h *ReportHandler) DownloadMetricsCSV(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	// Buffer the export so a failure can still be reported as a problem
	var buf bytes.Buffer
	if err := h.reports.WriteMetricsCSV(r.Context(), sessionID, &buf); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sessionID+"-metrics.csv"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write metrics export",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
	}
}

// ListTemplates handles GET /api/templates
func (h *ReportHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	list := h.reports.Templates()

	out := make([]api.TemplateSummary, 0, len(list))
	for _, t := range list {
		out = append(out, api.TemplateSummary{
			ID:              t.ID,
			Name:            t.Name,
			Description:     t.Description,
			RequiredColumns: t.RequiredColumns,
		})
	}
	render.JSON(w, r, api.TemplatesResponse{Templates: out, Count: len(out)})
}

// Compare handles POST /api/compare
func (h *ReportHandler) Compare(w http.ResponseWriter, r *http.Request) {
	files, err := h.readUploads(w, r, filesField, 2)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var req api.CompareRequest
	req.PrimaryKey = r.FormValue("primary_key")
	if err := jsonFormValue(r, "labels", &req.Labels); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := jsonFormValue(r, "compare_columns", &req.CompareColumns); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	opts := services.CompareOptions{
		PrimaryKey:     req.PrimaryKey,
		CompareColumns: req.CompareColumns,
	}
	if len(req.Labels) == 2 {
		opts.Labels = [2]string{req.Labels[0], req.Labels[1]}
	}

	result, err := h.compare.Compare(r.Context(), files, opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := api.CompareResponse{
		Success:    true,
		CompareID:  result.CompareID,
		Comparison: result.Comparison,
		Files:      compareFiles(result.Files),
	}
	render.JSON(w, r, resp)
}

// Rank handles POST /api/rank. Between two and maxRankFiles uploads are
// ranked by column totals.
func (h *ReportHandler) Rank(w http.ResponseWriter, r *http.Request) {
	files, err := h.readUploads(w, r, filesField, maxRankFiles)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var req api.RankRequest
	if err := jsonFormValue(r, "labels", &req.Labels); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := jsonFormValue(r, "compare_columns", &req.CompareColumns); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if len(req.Labels) > 0 && len(req.Labels) != len(files) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("labels", "labels must name every uploaded file"))
		return
	}

	result, err := h.compare.Rank(r.Context(), files, services.RankOptions{
		Labels:         req.Labels,
		CompareColumns: req.CompareColumns,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := api.RankResponse{
		Success: true,
		Ranking: result.Ranking,
		Files:   compareFiles(result.Files),
	}
	render.JSON(w, r, resp)
}

// PeriodComparison handles POST /api/period-comparison/{sessionID}. The
// JSON body is optional.
func (h *ReportHandler) PeriodComparison(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req api.PeriodComparisonRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.reports.PeriodComparison(r.Context(), sessionID, req.DateColumn, trend.PeriodType(req.PeriodType))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.PeriodComparisonResponse{
		Success:   true,
		SessionID: sessionID,
		Result:    result,
	})
}

// readUploads parses the multipart form and returns the files under field.
// The body is capped at want files of the configured size plus form overhead.
func (h *ReportHandler) readUploads(w http.ResponseWriter, r *http.Request, field string, want int) ([]services.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes()*int64(want)+formOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apierrors.PayloadTooLarge(h.uploads.MaxBytes())
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}

	// Multi-file workflows check their own minimum
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 && want == 1 {
		return nil, apierrors.NewAppValidationError("No file uploaded. Please upload an Excel (.xlsx, .xls) or CSV (.csv) file")
	}
	if len(headers) > want {
		return nil, apierrors.NewAppValidationError(fmt.Sprintf("At most %d files may be uploaded", want)).
			WithContext("files", len(headers))
	}

	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		if err := h.uploads.Validate(fh.Filename, fh.Size); err != nil {
			return nil, err
		}
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, services.Upload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}

func compareFiles(in []services.ComparedFile) []api.CompareFile {
	out := make([]api.CompareFile, 0, len(in))
	for _, f := range in {
		out = append(out, api.CompareFile{
			Filename: f.Filename,
			Columns:  f.Columns,
			RowCount: f.RowCount,
		})
	}
	return out
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// jsonFormValue decodes a form field holding a JSON value. A missing field
// leaves v untouched.
func jsonFormValue(r *http.Request, field string, v interface{}) error {
	raw := r.FormValue(field)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return apierrors.ErrValidation(field, fmt.Sprintf("%s must be a JSON array of strings", field))
	}
	return nil
}

// formBool reads a boolean form value, falling back to def when the value
// is absent or not a boolean
func formBool(raw string, def bool) bool {
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return def
}

func uploadResponse(result *services.ReportResult) api.UploadResponse {
	resp := api.UploadResponse{
		Success:   true,
		SessionID: result.SessionID,
		Payload:   result.Payload,
		Summary:   result.Summary,
	}
	if result.Template != nil {
		resp.Template = &api.TemplateInfo{
			ID:           result.TemplateID,
			Name:         result.Template.Name,
			Description:  result.Template.Description,
			AutoDetected: result.AutoDetected,
		}
	}
	return resp
}
