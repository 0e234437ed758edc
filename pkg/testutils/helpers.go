// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// PDFHeader is the content written to fixture PDFs.
const PDFHeader = "%PDF-1.4\n%%EOF\n"

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
		require.NoError(t, err)
	}
}

// CreatePDFs creates one fixture PDF per name in dir. Names are used
// verbatim, so non-PDF names can be mixed in.
func CreatePDFs(t *testing.T, dir string, names ...string) {
	t.Helper()
	files := make(map[string]string, len(names))
	for _, name := range names {
		files[name] = PDFHeader
	}
	CreateTestFilesWithContent(t, dir, files)
}

// CreateInbox creates a managed and an unmanaged directory under a fresh
// temp dir and returns their paths.
func CreateInbox(t *testing.T) (managed, unmanaged string) {
	t.Helper()
	root := t.TempDir()
	managed = filepath.Join(root, "papers")
	unmanaged = filepath.Join(root, "downloads")
	require.NoError(t, os.MkdirAll(managed, 0o755))
	require.NoError(t, os.MkdirAll(unmanaged, 0o755))
	return managed, unmanaged
}

// Touch sets the modification time of path.
func Touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	return ansi.Strip(str)
}
