package dataprocessing

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"sheetsight/pkg/contracts/domain"
)

const (
	unknownClient = "Unknown Client"
	unknownPeriod = "Unknown Period"
)

var (
	spreadsheetExt  = regexp.MustCompile(`(?i)\.(xlsx?|csv)$`)
	filenameDivider = regexp.MustCompile(`[_-]`)
)

// MetaOverrides are user supplied values that win over anything inferred
type MetaOverrides struct {
	Client     string
	Period     string
	ReportType string
}

// reportTypeKeywords are checked in order against all text of a table
var reportTypeKeywords = []struct {
	reportType domain.ReportType
	keywords   []string
}{
	{domain.ReportTypeMarketing, []string{"impression", "click", "ctr", "advertising"}},
	{domain.ReportTypeSales, []string{"revenue", "sales", "quantity"}},
	{domain.ReportTypeFinancial, []string{"expense", "income", "balance"}},
	{domain.ReportTypeInventory, []string{"stock", "inventory", "warehouse"}},
}

// DateColumn returns the first column whose name mentions a date, period or month
func DateColumn(columns []string) (string, bool) {
	for _, c := range columns {
		if ContainsAny(c, "date", "period", "month") {
			return c, true
		}
	}
	return "", false
}

// ExtractMetadata builds report metadata from the table, the uploaded
// filename and user overrides.
func ExtractMetadata(table *domain.NormalizedTable, filename string, o MetaOverrides, now time.Time) domain.PayloadMeta {
	meta := domain.PayloadMeta{
		Client:      firstNonEmpty(o.Client, ClientFromFilename(filename)),
		GeneratedAt: now.UTC(),
	}

	if rm := table.ReportMeta; rm != nil {
		meta.Client = firstNonEmpty(o.Client, rm.Client, ClientFromFilename(filename))
		meta.Period = firstNonEmpty(o.Period, rm.Period, unknownPeriod)
		meta.ReportType = firstNonEmpty(o.ReportType, string(DetectReportType(table)))
		return meta
	}

	meta.Period = firstNonEmpty(o.Period, inferPeriod(table))
	meta.ReportType = firstNonEmpty(o.ReportType, string(domain.ReportTypeCustom))
	return meta
}

// ClientFromFilename takes the part of the base name before the first _ or -
func ClientFromFilename(filename string) string {
	base := spreadsheetExt.ReplaceAllString(filepath.Base(filename), "")
	if part := filenameDivider.Split(base, 2)[0]; part != "" {
		return part
	}
	return unknownClient
}

// DetectReportType guesses the report type from keywords anywhere in the table
func DetectReportType(table *domain.NormalizedTable) domain.ReportType {
	text := strings.ToLower(tableText(table))
	for _, candidate := range reportTypeKeywords {
		if ContainsAny(text, candidate.keywords...) {
			return candidate.reportType
		}
	}
	return domain.ReportTypeCustom
}

// inferPeriod spans the sorted values of the first date-like column
func inferPeriod(table *domain.NormalizedTable) string {
	col, ok := DateColumn(table.Columns)
	if !ok {
		return unknownPeriod
	}

	var dates []string
	for _, row := range table.Rows {
		if v := row[col].Text(); v != "" {
			dates = append(dates, v)
		}
	}
	if len(dates) == 0 {
		return unknownPeriod
	}

	sort.Strings(dates)
	first, last := dates[0], dates[len(dates)-1]
	if first == last {
		return first
	}
	return first + " - " + last
}

func tableText(table *domain.NormalizedTable) string {
	var b strings.Builder
	write := func(s string) {
		b.WriteString(s)
		b.WriteByte(' ')
	}

	for _, c := range table.Columns {
		write(c)
	}
	for _, row := range table.Rows {
		for _, c := range table.Columns {
			write(row[c].Text())
		}
	}
	for _, sec := range table.Sections {
		write(sec.Name)
		if sec.Table == nil {
			continue
		}
		for _, h := range sec.Table.Headers {
			write(h)
		}
		for _, row := range sec.Table.Rows {
			for _, k := range sec.Table.Keys {
				write(row[k].Text())
			}
		}
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
