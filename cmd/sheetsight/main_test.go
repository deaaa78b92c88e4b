package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsight/internal/shared/testutil"
	api "sheetsight/pkg/contracts/api/v1"
	"sheetsight/pkg/contracts/domain"
)

const salesCSV = "Date,Product,Quantity,Revenue\n" +
	"2024-01-05,A,150,4500\n" +
	"2024-01-10,B,50,5000\n"

const saasCSV = "date,mrr,customers\n" +
	"2024-03-01,1500,15\n" +
	"2024-01-01,1000,10\n" +
	"2024-02-01,1200,12\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestReportCommand(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	out, err := execute(t, "report", path, "--type", "sales", "--client", "Acme")
	require.NoError(t, err)

	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Acme", resp.Payload.Meta.Client)
	assert.Nil(t, resp.Template)

	var found bool
	for _, m := range resp.Payload.Metrics {
		if m.Name == "Total Revenue" {
			found = true
			assert.Equal(t, 9500.0, m.Value)
		}
	}
	assert.True(t, found)
}

func TestReportCommandWorkbook(t *testing.T) {
	path := testutil.WriteWorkbook(t, "sales.xlsx", testutil.SalesRows())

	out, err := execute(t, "report", path, "--type", "sales", "--pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"success\": true")
}

func TestReportCommandTemplate(t *testing.T) {
	path := writeFile(t, "mrr.csv", saasCSV)
	csvPath := filepath.Join(t.TempDir(), "out", "metrics.csv")

	out, err := execute(t, "report", path, "--auto-template", "--trend", "--metrics-csv", csvPath)
	require.NoError(t, err)

	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Template)
	assert.Equal(t, "saas", resp.Template.ID)
	assert.True(t, resp.Template.AutoDetected)
	assert.NotNil(t, resp.Payload.TrendAnalysis)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total MRR")
}

func TestReportCommandErrors(t *testing.T) {
	sales := writeFile(t, "sales.csv", salesCSV)
	units := writeFile(t, "units.csv", "Date,Product,Units\n2024-01-05,A,3\n")
	notes := writeFile(t, "notes.txt", "hello")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing file", args: []string{"report", filepath.Join(t.TempDir(), "nope.csv")}, wantErr: "does not exist"},
		{name: "wrong extension", args: []string{"report", notes}, wantErr: ".txt"},
		{name: "unknown type", args: []string{"report", sales, "--type", "weekly"}, wantErr: "unknown report type"},
		{name: "missing columns", args: []string{"report", units, "--type", "sales"}, wantErr: "Missing required columns"},
		{name: "unknown template", args: []string{"report", sales, "--template", "crm"}, wantErr: "unknown template"},
		{name: "exclusive template flags", args: []string{"report", sales, "--template", "saas", "--auto-template"}, wantErr: "none of the others"},
		{name: "no file", args: []string{"report"}, wantErr: "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompareCommand(t *testing.T) {
	jan := writeFile(t, "jan.csv", "product,region,revenue,units\nA,north,100,10\nB,south,200,20\n")
	feb := writeFile(t, "feb.csv", "product,region,revenue,units\nA,north,120,12\nB,south,180,18\nC,east,20,2\n")
	summary := filepath.Join(t.TempDir(), "summary.csv")

	out, err := execute(t, "compare", jan, feb, "--key", "product", "--labels", "January,February", "--summary-csv", summary)
	require.NoError(t, err)

	var resp api.CompareResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, strings.HasPrefix(resp.CompareID, "compare_"))
	assert.Equal(t, [2]string{"January", "February"}, resp.Comparison.Labels)
	assert.Len(t, resp.Comparison.Details, 3)
	require.Len(t, resp.Files, 2)
	assert.Equal(t, "feb.csv", resp.Files[1].Filename)

	data, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), "revenue")
}

func TestCompareCommandErrors(t *testing.T) {
	a := writeFile(t, "a.csv", "product,revenue\nA,1\n")
	empty := writeFile(t, "empty.csv", "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "one file", args: []string{"compare", a}, wantErr: "accepts 2 arg"},
		{name: "bad labels", args: []string{"compare", a, a, "--labels", "only"}, wantErr: "exactly 2 values"},
		{name: "empty second file", args: []string{"compare", a, empty}, wantErr: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), strings.ToLower(tt.wantErr))
		})
	}
}

func TestTrendCommand(t *testing.T) {
	path := writeFile(t, "mrr.csv", saasCSV)
	previous := writeFile(t, "prev.csv", "date,mrr\n2023-12-01,900\n")

	out, err := execute(t, "trend", path, "--date-column", "date", "--value-column", "MRR", "--previous", previous)
	require.NoError(t, err)

	var resp trendOutput
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "mrr", resp.Trend.ValueColumn)
	assert.Equal(t, 3, resp.Periods.Periods)
	assert.Equal(t, "2024-03", resp.Periods.Current)
	assert.Equal(t, "2024-02", resp.Periods.Previous)
	require.NotNil(t, resp.Trend.PeriodComparison)
	assert.Equal(t, 3700.0, resp.Trend.PeriodComparison.Current)
	assert.Equal(t, 900.0, resp.Trend.PeriodComparison.Previous)
}

func TestTrendCommandErrors(t *testing.T) {
	path := writeFile(t, "mrr.csv", saasCSV)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing flags", args: []string{"trend", path}, wantErr: "required flag"},
		{name: "unknown column", args: []string{"trend", path, "--date-column", "date", "--value-column", "arr"}, wantErr: `column "arr" not found`},
		{name: "bad period type", args: []string{"trend", path, "--date-column", "date", "--value-column", "mrr", "--period-type", "fortnight"}, wantErr: "unknown period type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTemplatesCommand(t *testing.T) {
	out, err := execute(t, "templates")
	require.NoError(t, err)

	var resp api.TemplatesResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 6, resp.Count)
	assert.Equal(t, "saas", resp.Templates[0].ID)
	assert.Equal(t, "project", resp.Templates[5].ID)
}

func TestSortByDate(t *testing.T) {
	rows := []domain.Row{
		{"date": domain.StringCell("2024-03-01")},
		{"date": domain.StringCell("n/a")},
		{"date": domain.StringCell("2024-01-01")},
	}

	sorted := sortByDate(rows, "date")
	require.Len(t, sorted, 3)
	assert.Equal(t, "2024-01-01", sorted[0]["date"].Text())
	assert.Equal(t, "2024-03-01", sorted[1]["date"].Text())
	assert.Equal(t, "n/a", sorted[2]["date"].Text())
}

func TestRankCommand(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"north.csv": "store,city,revenue\nN1,Leeds,100\nN2,York,50\n",
		"south.csv": "store,city,revenue\nS1,Bath,300\n",
		"notes.txt": "ignored",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	west := writeFile(t, "west.csv", "store,city,revenue\nW1,Hull,80\n")

	out, err := execute(t, "rank", dir, west)
	require.NoError(t, err)

	var resp api.RankResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Ranking)
	assert.Equal(t, []string{"north.csv", "south.csv", "west.csv"}, resp.Ranking.Labels)
	require.Len(t, resp.Ranking.Rankings, 3)
	assert.Equal(t, "south.csv", resp.Ranking.Rankings[0].Label)
	assert.Equal(t, "west.csv", resp.Ranking.Rankings[2].Label)
}

func TestRankCommandErrors(t *testing.T) {
	one := writeFile(t, "one.csv", "store,revenue\nA,1\n")
	two := writeFile(t, "two.csv", "store,revenue\nB,2\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "single file", args: []string{"rank", one}, wantErr: "at least 2 files"},
		{name: "label count", args: []string{"rank", one, two, "--labels", "A"}, wantErr: "--labels needs 2 values"},
		{name: "empty directory", args: []string{"rank", t.TempDir()}, wantErr: "no spreadsheets found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sheetsight v"))

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "v1", info["api_version"])
	assert.NotEmpty(t, info["go_version"])
}
