package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "sheetsight/internal/errors"
	"sheetsight/internal/services"
	"sheetsight/internal/shared/testutil"
	"sheetsight/internal/validation"
	api "sheetsight/pkg/contracts/api/v1"
)

const salesCSV = "Date,Product,Quantity,Revenue\n" +
	"2024-01-05,A,150,4500\n" +
	"2024-01-10,B,50,5000\n"

const saasCSV = "date,mrr,customers\n" +
	"2024-01-01,1000,10\n" +
	"2024-02-01,1200,12\n" +
	"2024-03-01,1500,15\n"

const monthlyCSV = "date,region,revenue\n" +
	"2024-01-10,north,100\n" +
	"2024-01-20,south,50\n" +
	"2024-02-03,north,180\n"

type formFile struct {
	field    string
	filename string
	content  string
}

func newTestRouter(t *testing.T, maxBytes int64) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	store := services.NewMemorySessionStore()
	reports := services.NewReportService(store, nil, services.ReportConfig{
		MaxBasicSessions: 10,
		MaxSessions:      20,
		TrendEnabled:     true,
	}, logger)
	compare := services.NewCompareService(store, nil, 20, logger)
	health := services.NewHealthService("test", store, logger)

	errorHandler := apierrors.NewErrorHandler(logger, false)
	uploads := validation.NewUploadValidator(maxBytes, nil, logger)

	reportHandler := NewReportHandler(reports, compare, uploads, logger, errorHandler)
	healthHandler := NewHealthHandler(health, logger)

	r := chi.NewRouter()
	r.NotFound(errorHandler.NotFound)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Mount("/", reportHandler.Routes())
	})
	return r
}

func multipartRequest(t *testing.T, path string, files []formFile, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	return problem
}

func uploadSales(t *testing.T, r http.Handler) api.UploadResponse {
	t.Helper()
	req := multipartRequest(t, "/api/upload-excel",
		[]formFile{{field: "file", filename: "sales.csv", content: salesCSV}},
		map[string]string{"report_type": "sales", "client": "Acme"})
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestUploadExcel(t *testing.T) {
	r := newTestRouter(t, 1<<20)

	resp := uploadSales(t, r)

	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.SessionID, "report_"))
	require.NotNil(t, resp.Payload)
	assert.Equal(t, "Acme", resp.Payload.Meta.Client)
	assert.Equal(t, 2, resp.Summary.RowCount)
	assert.Nil(t, resp.Template)

	var revenue float64
	for _, m := range resp.Payload.Metrics {
		if m.Name == "Total Revenue" {
			revenue = m.Value
		}
	}
	assert.Equal(t, 9500.0, revenue)
}

func TestUploadExcelErrors(t *testing.T) {
	tests := []struct {
		name        string
		maxBytes    int64
		files       []formFile
		fields      map[string]string
		contentType string
		wantStatus  int
		wantType    string
	}{
		{
			name:       "no file",
			maxBytes:   1 << 20,
			files:      []formFile{{field: "other", filename: "sales.csv", content: salesCSV}},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "wrong extension",
			maxBytes:   1 << 20,
			files:      []formFile{{field: "file", filename: "notes.txt", content: "hello"}},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "file too large",
			maxBytes:   16,
			files:      []formFile{{field: "file", filename: "sales.csv", content: salesCSV}},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   apierrors.TypePayloadTooLarge,
		},
		{
			name:       "missing columns",
			maxBytes:   1 << 20,
			files:      []formFile{{field: "file", filename: "units.csv", content: "Date,Product,Units\n2024-01-05,A,3\n"}},
			fields:     map[string]string{"report_type": "sales"},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeMissingColumns,
		},
		{
			name:       "empty file",
			maxBytes:   1 << 20,
			files:      []formFile{{field: "file", filename: "empty.csv", content: ""}},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeEmptyInput,
		},
		{
			name:       "invalid report type",
			maxBytes:   1 << 20,
			files:      []formFile{{field: "file", filename: "sales.csv", content: salesCSV}},
			fields:     map[string]string{"report_type": "weekly"},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:        "json body",
			maxBytes:    1 << 20,
			contentType: "application/json",
			wantStatus:  http.StatusUnsupportedMediaType,
			wantType:    apierrors.TypeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, tt.maxBytes)

			var req *http.Request
			if tt.contentType != "" {
				req = httptest.NewRequest(http.MethodPost, "/api/upload-excel", strings.NewReader("{}"))
				req.Header.Set("Content-Type", tt.contentType)
			} else {
				req = multipartRequest(t, "/api/upload-excel", tt.files, tt.fields)
			}

			w := serve(r, req)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantType, decodeProblem(t, w)["type"])
		})
	}
}

func TestUploadExcelEnhanced(t *testing.T) {
	tests := []struct {
		name         string
		fields       map[string]string
		wantTemplate string
		wantAuto     bool
		wantTrend    bool
	}{
		{
			name:         "detected template with trend",
			wantTemplate: "saas",
			wantAuto:     true,
			wantTrend:    true,
		},
		{
			name:         "explicit template",
			fields:       map[string]string{"template_id": "saas"},
			wantTemplate: "saas",
			wantTrend:    true,
		},
		{
			name:         "trend disabled",
			fields:       map[string]string{"enable_trend": "false"},
			wantTemplate: "saas",
			wantAuto:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, 1<<20)

			req := multipartRequest(t, "/api/upload-excel-enhanced",
				[]formFile{{field: "file", filename: "mrr.csv", content: saasCSV}}, tt.fields)
			w := serve(r, req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp api.UploadResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			require.NotNil(t, resp.Template)
			assert.Equal(t, tt.wantTemplate, resp.Template.ID)
			assert.Equal(t, tt.wantAuto, resp.Template.AutoDetected)
			assert.Equal(t, tt.wantTrend, resp.Payload.TrendAnalysis != nil)
			assert.Equal(t, tt.wantTrend, resp.Summary.HasTrendAnalysis)
			require.NotEmpty(t, resp.Payload.Metrics)
			assert.True(t, resp.Payload.Metrics[0].IsTemplateKPI)
		})
	}
}

func TestUploadExcelEnhancedUnknownTemplate(t *testing.T) {
	r := newTestRouter(t, 1<<20)

	req := multipartRequest(t, "/api/upload-excel-enhanced",
		[]formFile{{field: "file", filename: "mrr.csv", content: saasCSV}},
		map[string]string{"template_id": "crm"})
	w := serve(r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	problem := decodeProblem(t, w)
	assert.Equal(t, apierrors.TypeValidation, problem["type"])
	assert.Equal(t, "crm", problem["template_id"])
}

func TestGetReport(t *testing.T) {
	r := newTestRouter(t, 1<<20)
	uploaded := uploadSales(t, r)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/report/"+uploaded.SessionID, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.ReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uploaded.SessionID, resp.SessionID)
	assert.Equal(t, "sales.csv", resp.Filename)
	assert.Equal(t, len(uploaded.Payload.Metrics), len(resp.Payload.Metrics))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/report/report_missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	problem := decodeProblem(t, w)
	assert.Equal(t, apierrors.TypeNotFound, problem["type"])
	assert.Equal(t, "report_missing", problem["session_id"])
}

func TestDownloadMetricsCSV(t *testing.T) {
	r := newTestRouter(t, 1<<20)
	uploaded := uploadSales(t, r)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/report/"+uploaded.SessionID+"/metrics.csv", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), uploaded.SessionID+"-metrics.csv")
	assert.Contains(t, w.Body.String(), "Total Revenue")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/report/report_missing/metrics.csv", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTemplates(t *testing.T) {
	r := newTestRouter(t, 1<<20)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/templates", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.TemplatesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Count)
	require.Len(t, resp.Templates, 6)
	assert.Equal(t, "saas", resp.Templates[0].ID)
	assert.NotEmpty(t, resp.Templates[0].RequiredColumns)
}

func TestCompare(t *testing.T) {
	const jan = "product,region,revenue,units\nA,north,100,10\nB,south,200,20\n"
	const feb = "product,region,revenue,units\nA,north,120,12\nB,south,180,18\nC,east,20,2\n"

	r := newTestRouter(t, 1<<20)

	req := multipartRequest(t, "/api/compare",
		[]formFile{
			{field: "files", filename: "jan.csv", content: jan},
			{field: "files", filename: "feb.csv", content: feb},
		},
		map[string]string{
			"primary_key": "product",
			"labels":      `["January","February"]`,
		})
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.CompareID, "compare_"))
	require.Len(t, resp.Files, 2)
	assert.Equal(t, "jan.csv", resp.Files[0].Filename)
	assert.Equal(t, 3, resp.Files[1].RowCount)
	require.NotNil(t, resp.Comparison)
	assert.Equal(t, [2]string{"January", "February"}, resp.Comparison.Labels)
	assert.Len(t, resp.Comparison.Details, 3)

	// comparison sessions have no report payload
	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/report/"+resp.CompareID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompareErrors(t *testing.T) {
	const data = "product,revenue\nA,1\n"

	tests := []struct {
		name     string
		files    []formFile
		fields   map[string]string
		wantType string
	}{
		{
			name:     "one file",
			files:    []formFile{{field: "files", filename: "a.csv", content: data}},
			wantType: apierrors.TypeValidation,
		},
		{
			name:     "no files",
			files:    []formFile{{field: "file", filename: "a.csv", content: data}},
			wantType: apierrors.TypeValidation,
		},
		{
			name: "labels not json",
			files: []formFile{
				{field: "files", filename: "a.csv", content: data},
				{field: "files", filename: "b.csv", content: data},
			},
			fields:   map[string]string{"labels": "Jan,Feb"},
			wantType: apierrors.TypeValidation,
		},
		{
			name: "three labels",
			files: []formFile{
				{field: "files", filename: "a.csv", content: data},
				{field: "files", filename: "b.csv", content: data},
			},
			fields:   map[string]string{"labels": `["a","b","c"]`},
			wantType: apierrors.TypeValidation,
		},
		{
			name: "unreadable second file",
			files: []formFile{
				{field: "files", filename: "a.csv", content: data},
				{field: "files", filename: "b.csv", content: ""},
			},
			wantType: apierrors.TypeEmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, 1<<20)

			w := serve(r, multipartRequest(t, "/api/compare", tt.files, tt.fields))
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.wantType, decodeProblem(t, w)["type"])
		})
	}
}

func TestPeriodComparison(t *testing.T) {
	r := newTestRouter(t, 1<<20)

	w := serve(r, multipartRequest(t, "/api/upload-excel",
		[]formFile{{field: "file", filename: "monthly.csv", content: monthlyCSV}}, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var uploaded api.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))

	tests := []struct {
		name        string
		sessionID   string
		body        string
		wantStatus  int
		wantPeriods int
		wantCurrent string
	}{
		{
			name:        "defaults without body",
			sessionID:   uploaded.SessionID,
			wantStatus:  http.StatusOK,
			wantPeriods: 2,
			wantCurrent: "2024-02",
		},
		{
			name:        "explicit month",
			sessionID:   uploaded.SessionID,
			body:        `{"date_column":"date","period_type":"month"}`,
			wantStatus:  http.StatusOK,
			wantPeriods: 2,
			wantCurrent: "2024-02",
		},
		{
			name:       "invalid period type",
			sessionID:  uploaded.SessionID,
			body:       `{"period_type":"fortnight"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			sessionID:  uploaded.SessionID,
			body:       `{"period_type":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown session",
			sessionID:  "report_missing",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/period-comparison/"+tt.sessionID, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := serve(r, req)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp api.PeriodComparisonResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Result)
			assert.Equal(t, tt.wantPeriods, resp.Result.Periods)
			assert.Equal(t, tt.wantCurrent, resp.Result.Current)
			assert.NotNil(t, resp.Result.Comparison)
		})
	}
}

func TestFormBool(t *testing.T) {
	tests := []struct {
		raw  string
		def  bool
		want bool
	}{
		{raw: "", def: true, want: true},
		{raw: "false", def: true, want: false},
		{raw: "0", def: true, want: false},
		{raw: "true", def: false, want: true},
		{raw: "maybe", def: true, want: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formBool(tt.raw, tt.def), tt.raw)
	}
}

func TestRank(t *testing.T) {
	r := newTestRouter(t, 1<<20)

	req := multipartRequest(t, "/api/rank",
		[]formFile{
			{field: "files", filename: "north.csv", content: "store,city,revenue\nN1,Leeds,100\nN2,York,50\n"},
			{field: "files", filename: "south.csv", content: "store,city,revenue\nS1,Bath,300\n"},
			{field: "files", filename: "west.csv", content: "store,city,revenue\nW1,Hull,80\n"},
		},
		map[string]string{"labels": `["North","South","West"]`})
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.RankResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Files, 3)
	assert.Equal(t, 2, resp.Files[0].RowCount)
	require.NotNil(t, resp.Ranking)
	require.Len(t, resp.Ranking.Summary, 1)
	assert.Equal(t, []string{"South", "North", "West"}, resp.Ranking.Summary[0].Ranking)
	require.Len(t, resp.Ranking.Rankings, 3)
	assert.Equal(t, "South", resp.Ranking.Rankings[0].Label)
}

func TestRankErrors(t *testing.T) {
	const data = "store,revenue\nA,1\n"

	tests := []struct {
		name   string
		files  []formFile
		fields map[string]string
	}{
		{
			name:  "one file",
			files: []formFile{{field: "files", filename: "a.csv", content: data}},
		},
		{
			name: "label count mismatch",
			files: []formFile{
				{field: "files", filename: "a.csv", content: data},
				{field: "files", filename: "b.csv", content: data},
			},
			fields: map[string]string{"labels": `["Only"]`},
		},
		{
			name: "too many files",
			files: func() []formFile {
				var files []formFile
				for i := 0; i < 11; i++ {
					files = append(files, formFile{field: "files", filename: "f.csv", content: data})
				}
				return files
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, 1<<20)
			w := serve(r, multipartRequest(t, "/api/rank", tt.files, tt.fields))

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			problem := decodeProblem(t, w)
			assert.Equal(t, apierrors.TypeValidation, problem["type"])
		})
	}
}
