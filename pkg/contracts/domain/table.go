package domain

// Format is the layout of a parsed sheet
type Format string

const (
	FormatHorizontal Format = "horizontal"
	FormatVertical   Format = "vertical"
	FormatReport     Format = "report"
)

// IsVertical reports whether the format is a label/value layout
func (f Format) IsVertical() bool {
	return f == FormatVertical || f == FormatReport
}

// NormalizedTable is the canonical output of normalization.
//
// A table is built once by the dataprocessing package and never mutated
// afterwards; analytics, comparison and trend code only read it.
// All rows share the same key set, equal to Columns, and row order is the
// source order.
type NormalizedTable struct {
	Columns  []string `json:"columns"`
	Rows     []Row    `json:"rows"`
	RowCount int      `json:"row_count"`
	Format   Format   `json:"format"`

	// Populated for vertical tables only
	ExtractedMetrics []ExtractedMetric `json:"extracted_metrics,omitempty"`
	Sections         []Section         `json:"sections,omitempty"`
	ReportMeta       *ReportMeta       `json:"report_meta,omitempty"`
}

// Section looks up a vertical section by name
func (t *NormalizedTable) Section(name string) (Section, bool) {
	for _, s := range t.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// HasColumn reports whether the table has the named column
func (t *NormalizedTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ExtractedMetric is a label/value pair found in a vertical sheet
type ExtractedMetric struct {
	Name     string  `json:"name"`
	Value    float64 `json:"numeric_value"`
	RawValue Cell    `json:"raw_value"`
	Unit     string  `json:"unit"`
	Section  string  `json:"section"`
}

// Section groups the rows found under one section header. Exactly one of
// Entries or Table is set; sub-table sections are named "<section>_table".
type Section struct {
	Name    string         `json:"name"`
	Entries []SectionEntry `json:"entries,omitempty"`
	Table   *SubTable      `json:"table,omitempty"`
}

// IsTable reports whether the section holds an embedded sub-table
func (s Section) IsTable() bool { return s.Table != nil }

// SectionEntry is one metric row accumulated for a section
type SectionEntry struct {
	Metric       string  `json:"metric"`
	Value        Cell    `json:"value"`
	NumericValue float64 `json:"numeric_value"`
}

// SubTable is a small table embedded in a vertical report.
// Keys holds the normalized form of each header, in header order.
type SubTable struct {
	Headers []string `json:"headers"`
	Keys    []string `json:"keys"`
	Rows    []Row    `json:"rows"`
}

// ReportMeta is metadata scraped from label text of a vertical sheet.
// Empty fields were not found.
type ReportMeta struct {
	Client        string `json:"client,omitempty"`
	Period        string `json:"period,omitempty"`
	GeneratedDate string `json:"generated_date,omitempty"`
}
