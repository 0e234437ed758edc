// Package loader scans a directory for PDF files.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"unicode/utf8"

	"pdfinbox/internal/errors"
	"pdfinbox/internal/log"
	"pdfinbox/pkg/types"
)

// FileLoader lists the PDF files directly inside a directory.
type FileLoader interface {
	Load(ctx context.Context, dir string) ([]types.FileRecord, error)
}

// DirLoader is the FileLoader backed by the local filesystem.
type DirLoader struct{}

// New returns a DirLoader.
func New() *DirLoader {
	return &DirLoader{}
}

// Load returns one record per entry of dir whose name ends in ".pdf"
// (case-sensitive), in directory order. Sub-directories are skipped, not
// descended. An entry whose metadata cannot be read is dropped; only a
// failure to open dir itself is returned.
func (l *DirLoader) Load(ctx context.Context, dir string) ([]types.FileRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIOError(dir, err)
	}

	records := make([]types.FileRecord, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if entry.IsDir() || !types.IsPDFName(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.LogWithError(errors.NewFileError("cannot stat entry", filepath.Join(dir, name), errors.EntryMetadata, err)).
				Warn("dropping entry")
			continue
		}

		rec := types.FileRecord{
			Name:    name,
			Dir:     dir,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if !utf8.ValidString(name) {
			log.LogWithFields(log.F("dir", dir)).Debug("file name is not valid UTF-8")
			rec.Name = types.InvalidNamePlaceholder
			rec.Placeholder = true
		}
		records = append(records, rec)
	}

	log.LogWithFields(log.F("dir", dir), log.F("count", len(records))).Debug("scan complete")
	return records, nil
}

// LoadFunc adapts a function to FileLoader.
type LoadFunc func(ctx context.Context, dir string) ([]types.FileRecord, error)

// Load calls f.
func (f LoadFunc) Load(ctx context.Context, dir string) ([]types.FileRecord, error) {
	return f(ctx, dir)
}
