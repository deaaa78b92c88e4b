// Package api contains the HTTP contract of the sheetsight service.
// Version v1 represents the current stable API version.
package api

import (
	"time"

	"sheetsight/pkg/contracts/domain"
)

// UploadRequest carries the form fields of POST /api/upload-excel. The
// file itself travels as the multipart part "file".
type UploadRequest struct {
	ReportType string `json:"report_type" validate:"omitempty,oneof=sales financial marketing inventory custom"`
	Client     string `json:"client" validate:"omitempty,max=200"`
	Period     string `json:"period" validate:"omitempty,max=200"`
}

// EnhancedUploadRequest carries the form fields of
// POST /api/upload-excel-enhanced. An empty TemplateID means the template
// is detected from the columns. Trend analysis runs unless enable_trend
// is sent as "false".
type EnhancedUploadRequest struct {
	TemplateID  string `json:"template_id" validate:"omitempty,max=64"`
	EnableTrend bool   `json:"enable_trend"`
	Client      string `json:"client" validate:"omitempty,max=200"`
	Period      string `json:"period" validate:"omitempty,max=200"`
}

// CompareRequest carries the form fields of POST /api/compare. Both files
// are sent under the multipart name "files"; labels and compare_columns
// are JSON arrays.
type CompareRequest struct {
	Labels         []string `json:"labels" validate:"omitempty,len=2,dive,max=100"`
	PrimaryKey     string   `json:"primary_key" validate:"omitempty,max=200"`
	CompareColumns []string `json:"compare_columns" validate:"omitempty,dive,required"`
}

// RankRequest holds the optional form fields of POST /api/rank
type RankRequest struct {
	Labels         []string `json:"labels" validate:"omitempty,dive,max=100"`
	CompareColumns []string `json:"compare_columns" validate:"omitempty,dive,required"`
}

// PeriodComparisonRequest is the JSON body of
// POST /api/period-comparison/{sessionID}.
type PeriodComparisonRequest struct {
	DateColumn string `json:"date_column" validate:"omitempty,max=200"`
	PeriodType string `json:"period_type" validate:"omitempty,oneof=day week month quarter year"`
}

// UploadResponse is returned by both upload endpoints
type UploadResponse struct {
	Success   bool                  `json:"success"`
	SessionID string                `json:"session_id"`
	Payload   *domain.ReportPayload `json:"payload"`
	Summary   domain.ReportSummary  `json:"summary"`
	Template  *TemplateInfo         `json:"template,omitempty"`
}

// ReportResponse is returned by GET /api/report/{sessionID}
type ReportResponse struct {
	Success   bool                  `json:"success"`
	SessionID string                `json:"session_id"`
	Payload   *domain.ReportPayload `json:"payload"`
	Filename  string                `json:"filename"`
	CreatedAt time.Time             `json:"created_at"`
}

// TemplateInfo identifies the template applied to an enhanced report
type TemplateInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	AutoDetected bool   `json:"auto_detected"`
}

// TemplateSummary is one entry of GET /api/templates
type TemplateSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	RequiredColumns []string `json:"required_columns"`
}

// TemplatesResponse lists the registered templates in registry order
type TemplatesResponse struct {
	Templates []TemplateSummary `json:"templates"`
	Count     int               `json:"count"`
}

// CompareResponse is returned by POST /api/compare
type CompareResponse struct {
	Success    bool                     `json:"success"`
	CompareID  string                   `json:"compare_id"`
	Comparison *domain.ComparisonResult `json:"comparison"`
	Files      []CompareFile            `json:"files"`
}

// RankResponse is returned by POST /api/rank
type RankResponse struct {
	Success bool                          `json:"success"`
	Ranking *domain.MultiComparisonResult `json:"ranking"`
	Files   []CompareFile                 `json:"files"`
}

// CompareFile describes one side of a comparison
type CompareFile struct {
	Filename string   `json:"filename"`
	Columns  []string `json:"columns"`
	RowCount int      `json:"row_count"`
}

// PeriodComparisonResponse is returned by the period comparison endpoint
type PeriodComparisonResponse struct {
	Success   bool                           `json:"success"`
	SessionID string                         `json:"session_id"`
	Result    *domain.PeriodComparisonResult `json:"result"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Sessions  int    `json:"sessions"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}
