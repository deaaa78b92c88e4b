package files

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides spreadsheet discovery operations
type Discovery struct {
	extensions []string
}

// NewDiscovery creates a discovery accepting the given extensions. An empty
// list accepts .xlsx, .xls and .csv.
func NewDiscovery(extensions ...string) *Discovery {
	if len(extensions) == 0 {
		extensions = []string{".xlsx", ".xls", ".csv"}
	}
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if e != "" {
			exts = append(exts, e)
		}
	}
	return &Discovery{extensions: exts}
}

// Accepts reports whether name has an accepted extension and is not a
// lock or hidden file
func (d *Discovery) Accepts(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	return slices.Contains(d.extensions, strings.ToLower(filepath.Ext(base)))
}

// FindSpreadsheets lists the accepted files directly inside dir, sorted
// by name
func (d *Discovery) FindSpreadsheets(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !d.Accepts(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Expand turns file and directory arguments into the list of spreadsheet
// paths they name. Directories contribute their accepted files in name
// order; files are kept as given and checked later by the reader.
// Duplicate paths are dropped.
func (d *Discovery) Expand(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}

		found, err := d.FindSpreadsheets(p)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no spreadsheets found in %s", p)
		}
		for _, f := range found {
			add(f.Path)
		}
	}
	return out, nil
}
