package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func TestDiscoveryAccepts(t *testing.T) {
	d := NewDiscovery()

	tests := []struct {
		name string
		want bool
	}{
		{name: "report.xlsx", want: true},
		{name: "REPORT.XLSX", want: true},
		{name: "legacy.xls", want: true},
		{name: "data.csv", want: true},
		{name: "notes.txt", want: false},
		{name: "~$report.xlsx", want: false},
		{name: ".hidden.csv", want: false},
		{name: "dir/nested.csv", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Accepts(tt.name))
		})
	}
}

func TestDiscoveryCustomExtensions(t *testing.T) {
	d := NewDiscovery("csv", " .TSV ")
	assert.True(t, d.Accepts("a.csv"))
	assert.True(t, d.Accepts("a.tsv"))
	assert.False(t, d.Accepts("a.xlsx"))
}

func TestFindSpreadsheets(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.csv", "a.xlsx", "c.pdf", "~$a.xlsx")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	files, err := NewDiscovery().FindSpreadsheets(dir)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.xlsx", files[0].Name)
	assert.Equal(t, filepath.Join(dir, "b.csv"), files[1].Path)
	assert.Equal(t, int64(1), files[1].Size)

	_, err = NewDiscovery().FindSpreadsheets(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "jan.csv", "feb.csv", "readme.md")
	single := filepath.Join(t.TempDir(), "extra.xlsx")
	require.NoError(t, os.WriteFile(single, []byte("x"), 0o644))

	empty := t.TempDir()

	tests := []struct {
		name    string
		paths   []string
		want    []string
		wantErr string
	}{
		{
			name:  "directory and file",
			paths: []string{dir, single},
			want:  []string{filepath.Join(dir, "feb.csv"), filepath.Join(dir, "jan.csv"), single},
		},
		{
			name:  "duplicates dropped",
			paths: []string{filepath.Join(dir, "jan.csv"), dir},
			want:  []string{filepath.Join(dir, "jan.csv"), filepath.Join(dir, "feb.csv")},
		},
		{
			name:    "empty directory",
			paths:   []string{empty},
			wantErr: "no spreadsheets found",
		},
		{
			name:    "missing path",
			paths:   []string{filepath.Join(dir, "nope.csv")},
			wantErr: "failed to stat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDiscovery().Expand(tt.paths)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
