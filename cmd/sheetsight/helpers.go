package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"sheetsight/internal/services"
	"sheetsight/internal/validation"
	api "sheetsight/pkg/contracts/api/v1"
)

// loadUpload validates a spreadsheet path and reads it as an upload
func (c *cli) loadUpload(path string) (services.Upload, error) {
	v := validation.NewFileValidator(c.logger, c.cfg.Upload.AllowedExtensions...)
	if err := v.ValidateSpreadsheet(path); err != nil {
		return services.Upload{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return services.Upload{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return services.Upload{Filename: filepath.Base(path), Data: data}, nil
}

// loadUploads reads paths concurrently, keeping their order
func (c *cli) loadUploads(paths []string) ([]services.Upload, error) {
	uploads := make([]services.Upload, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		g.Go(func() error {
			upload, err := c.loadUpload(path)
			if err != nil {
				return err
			}
			uploads[i] = upload
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
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

// writeJSON prints v to out, indented when pretty is set
func writeJSON(out io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// splitList splits a comma separated flag value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
