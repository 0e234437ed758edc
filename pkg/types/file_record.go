package types

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// PDFSuffix is the literal, case-sensitive suffix a directory entry must
// carry to be listed.
const PDFSuffix = ".pdf"

// InvalidNamePlaceholder replaces names that are not valid UTF-8.
const InvalidNamePlaceholder = "Invalid file name"

// FileRecord is one discovered PDF.
//
// Name is the display identity. No path-based identity is tracked, so two
// files with the same name found in different scans are indistinguishable.
type FileRecord struct {
	Name        string    `json:"name"`
	Dir         string    `json:"dir"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	Placeholder bool      `json:"placeholder,omitempty"` // Name is InvalidNamePlaceholder
}

// Path returns the record's location on disk. Placeholder records have no
// usable path.
func (r FileRecord) Path() string {
	if r.Placeholder {
		return ""
	}
	return filepath.Join(r.Dir, r.Name)
}

// Label is the text shown for the record in a list.
func (r FileRecord) Label() string {
	return r.Name
}

// IsPDFName reports whether name passes the loader filter.
func IsPDFName(name string) bool {
	return strings.HasSuffix(name, PDFSuffix)
}

// String returns a human-readable representation
func (r FileRecord) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	sb.WriteString(fmt.Sprintf("Dir: %s\n", r.Dir))
	sb.WriteString(fmt.Sprintf("Size: %d bytes\n", r.Size))
	return sb.String()
}

// ImportResult holds the outcome of importing a single record into the
// managed directory.
type ImportResult struct {
	Record          FileRecord `json:"record"`
	SourcePath      string     `json:"source_path"`
	DestinationPath string     `json:"destination_path"`
	Moved           bool       `json:"moved"`
	Skipped         bool       `json:"skipped"`
	DryRun          bool       `json:"dry_run"`
}
