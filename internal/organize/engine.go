package organize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"pdfinbox/internal/config"
	"pdfinbox/internal/errors"
	"pdfinbox/internal/log"
	"pdfinbox/pkg/types"
)

// maxRenameAttempts bounds the search for a free name under the rename
// collision strategy.
const maxRenameAttempts = 1000

// Recorder receives every completed import.
type Recorder interface {
	Record(ctx context.Context, result types.ImportResult) error
}

// Engine moves unmanaged PDFs into the managed directory.
type Engine struct {
	mu         sync.Mutex // Serializes collision checks and moves
	dryRun     bool
	createDirs bool
	backup     bool
	collision  string
	recorder   Recorder
	now        func() time.Time
}

// New creates an engine that renames on collision and creates missing
// directories.
func New() *Engine {
	return &Engine{
		createDirs: true,
		collision:  config.CollisionRename,
		now:        time.Now,
	}
}

// NewWithConfig creates an engine from the import settings in cfg.
func NewWithConfig(cfg *config.Config) *Engine {
	e := New()
	e.SetConfig(cfg)
	return e
}

// SetConfig applies the import settings in cfg.
func (e *Engine) SetConfig(cfg *config.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dryRun = cfg.Settings.DryRun
	e.createDirs = cfg.Settings.CreateDirs
	e.backup = cfg.Settings.Backup
	e.collision = cfg.Settings.Collision
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.mu.Lock()
	e.dryRun = dryRun
	e.mu.Unlock()
}

// SetRecorder registers where completed imports are reported.
func (e *Engine) SetRecorder(r Recorder) {
	e.mu.Lock()
	e.recorder = r
	e.mu.Unlock()
}

// Import moves rec into managedDir. The returned result describes what
// happened even when the move was skipped or simulated.
func (e *Engine) Import(ctx context.Context, rec types.FileRecord, managedDir string) (types.ImportResult, error) {
	result := types.ImportResult{Record: rec}

	if rec.Placeholder {
		return result, errors.ErrPlaceholderEntry
	}
	if rec.Name == "" || rec.Name == "." || rec.Name == ".." || filepath.Base(rec.Name) != rec.Name {
		return result, errors.ErrInvalidPath
	}
	if filepath.Clean(rec.Dir) == filepath.Clean(managedDir) {
		return result, errors.ErrNotUnmanaged
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	result.SourcePath = rec.Path()
	dest := filepath.Join(managedDir, rec.Name)

	e.mu.Lock()
	finalDest, err := e.moveFile(result.SourcePath, dest)
	dryRun := e.dryRun
	recorder := e.recorder
	e.mu.Unlock()

	result.DryRun = dryRun
	if err != nil {
		return result, err
	}
	if finalDest == "" {
		result.Skipped = true
		result.DestinationPath = dest
		return result, nil
	}

	result.DestinationPath = finalDest
	result.Moved = !dryRun

	if result.Moved && recorder != nil {
		if err := recorder.Record(ctx, result); err != nil {
			// The file is already in place, so a history failure is not fatal.
			log.LogWithError(err).Warn("import not recorded")
		}
	}
	return result, nil
}

// MoveFile moves a file from source to destination, handling collisions based on config.
func (e *Engine) MoveFile(src, dest string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.moveFile(src, dest)
	return err
}

// moveFile returns the path the file ended up at, or "" when the move was
// skipped. e.mu must be held.
func (e *Engine) moveFile(src, dest string) (string, error) {
	cleanSrc := filepath.Clean(src)
	cleanDest := filepath.Clean(dest)

	if cleanSrc == cleanDest {
		log.Debugf("source and destination are the same, skipping: %s", src)
		return "", nil
	}

	srcInfo, err := os.Stat(cleanSrc)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileError("source file not found", cleanSrc, errors.FileNotFound, err)
		}
		return "", errors.NewFileError("source file error", cleanSrc, errors.FileAccessDenied, err)
	}
	if srcInfo.IsDir() {
		return "", errors.NewFileError("cannot move directory as file", cleanSrc, errors.InvalidPath, nil)
	}

	destDir := filepath.Dir(cleanDest)
	if _, err := os.Stat(destDir); os.IsNotExist(err) {
		if !e.createDirs {
			return "", errors.NewFileError("destination directory does not exist", destDir, errors.InvalidPath, err)
		}
		if !e.dryRun {
			if err := os.MkdirAll(destDir, 0o755); err != nil {
				return "", errors.NewFileError("failed to create destination directory", destDir, errors.FileOperationFailed, err)
			}
		}
	}

	finalDest, err := e.handleCollision(cleanSrc, cleanDest)
	if err != nil || finalDest == "" {
		return "", err
	}

	if e.dryRun {
		log.Infof("would move %s -> %s", cleanSrc, finalDest)
		return finalDest, nil
	}

	if e.backup {
		if err := e.createBackup(finalDest); err != nil {
			return "", errors.Wrap(err, "backup failed")
		}
	}

	log.Debugf("moving %s to %s", cleanSrc, finalDest)
	if err := rename(cleanSrc, finalDest); err != nil {
		return "", errors.NewFileError("failed to move file", cleanSrc, errors.FileOperationFailed, err)
	}

	log.LogWithFields(log.F("src", cleanSrc), log.F("dest", finalDest)).Info("moved file")
	return finalDest, nil
}

// handleCollision implements collision resolution strategies.
// It returns the final destination path and an error if any.
// If the file should be skipped, it returns an empty string and nil error.
func (e *Engine) handleCollision(src, dest string) (string, error) {
	_, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return dest, nil
	}
	if err != nil {
		return "", errors.NewFileError("error checking destination", dest, errors.FileAccessDenied, err)
	}

	log.Warnf("destination %s already exists, collision strategy: %s", dest, e.collision)

	switch e.collision {
	case config.CollisionSkip:
		log.Infof("skipping move for %s due to collision", src)
		return "", nil
	case config.CollisionOverwrite:
		return dest, nil
	case config.CollisionRename:
		return findUniqueDestName(dest)
	default:
		return "", errors.NewConfigError("unknown collision strategy", e.collision, errors.InvalidConfig, nil)
	}
}

// findUniqueDestName finds a unique filename by adding a counter to the
// basename: paper.pdf becomes paper_(1).pdf.
func findUniqueDestName(originalPath string) (string, error) {
	ext := filepath.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)

	for counter := 1; counter <= maxRenameAttempts; counter++ {
		newName := fmt.Sprintf("%s_(%d)%s", base, counter, ext)
		if _, err := os.Stat(newName); os.IsNotExist(err) {
			log.Infof("renaming destination to %s due to collision", newName)
			return newName, nil
		}
	}

	return "", errors.NewFileError(
		fmt.Sprintf("no free name after %d attempts", maxRenameAttempts),
		originalPath, errors.ImportCollision, nil)
}

// createBackup copies an existing destination to dest.bak.<unix time>.
func (e *Engine) createBackup(dest string) error {
	if _, err := os.Stat(dest); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	backupPath := fmt.Sprintf("%s.bak.%d", dest, e.now().Unix())
	if err := copyFile(dest, backupPath); err != nil {
		return err
	}

	log.Infof("created backup: %s", backupPath)
	return nil
}

// rename moves src to dest, falling back to copy and remove when the two
// live on different filesystems.
func rename(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}

	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	// A failed copy must not leave a truncated file in the managed directory.
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}
