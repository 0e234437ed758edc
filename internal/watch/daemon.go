package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"pdfinbox/internal/errors"
	"pdfinbox/internal/loader"
	"pdfinbox/internal/log"
	"pdfinbox/pkg/types"
)

// Importer moves an unmanaged record into the managed directory.
type Importer interface {
	Import(ctx context.Context, rec types.FileRecord, managedDir string) (types.ImportResult, error)
}

// Event is reported for every change the daemon sees and, with
// auto-import on, once more per file it tried to import.
type Event struct {
	Change Change
	Result *types.ImportResult // nil for a plain change notification
	Err    error
}

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running          bool
	WatchDirectories []string
	LastActivity     time.Time
	FilesProcessed   int // Files imported
}

// Daemon watches the inbox outside the TUI. With auto-import on, PDFs
// that appear in the unmanaged directory are imported right away.
type Daemon struct {
	watcher   *Watcher
	managed   string
	unmanaged string
	loader    loader.FileLoader
	importer  Importer

	mutex        sync.RWMutex
	autoImport   bool
	callback     func(Event)
	processed    int
	lastActivity time.Time
	running      bool
}

// NewDaemon creates a daemon for the two inbox directories.
func NewDaemon(w *Watcher, managed, unmanaged string, l loader.FileLoader, imp Importer) *Daemon {
	return &Daemon{
		watcher:   w,
		managed:   filepath.Clean(managed),
		unmanaged: filepath.Clean(unmanaged),
		loader:    l,
		importer:  imp,
	}
}

// SetAutoImport sets whether new unmanaged PDFs are imported.
func (d *Daemon) SetAutoImport(on bool) {
	d.mutex.Lock()
	d.autoImport = on
	d.mutex.Unlock()
}

// SetCallback sets a function to be called for every event.
func (d *Daemon) SetCallback(cb func(Event)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return DaemonStatus{
		Running:          d.running && d.watcher.IsRunning(),
		WatchDirectories: d.watcher.GetDirectories(),
		LastActivity:     d.lastActivity,
		FilesProcessed:   d.processed,
	}
}

// Run watches both directories until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	d.mutex.Lock()
	if d.running {
		d.mutex.Unlock()
		return errors.New("daemon is already running")
	}
	d.running = true
	d.mutex.Unlock()

	defer func() {
		d.mutex.Lock()
		d.running = false
		d.mutex.Unlock()
	}()

	for _, dir := range []string{d.managed, d.unmanaged} {
		if err := d.watcher.AddDirectory(dir); err != nil {
			return err
		}
	}
	if err := d.watcher.Start(); err != nil {
		return err
	}
	defer d.watcher.Stop()

	log.LogWithFields(log.F("managed", d.managed), log.F("unmanaged", d.unmanaged)).Info("daemon started")
	for {
		select {
		case <-ctx.Done():
			log.Info("daemon stopped")
			return nil
		case c, ok := <-d.watcher.Changes():
			if !ok {
				return nil
			}
			d.handle(ctx, c)
		}
	}
}

func (d *Daemon) handle(ctx context.Context, c Change) {
	d.mutex.Lock()
	d.lastActivity = c.Time
	auto := d.autoImport
	d.mutex.Unlock()

	d.emit(Event{Change: c})
	if !auto || filepath.Clean(c.Dir) != d.unmanaged {
		return
	}

	records, err := d.loader.Load(ctx, d.unmanaged)
	if err != nil {
		d.emit(Event{Change: c, Err: err})
		return
	}
	wanted := make(map[string]bool, len(c.Names))
	for _, n := range c.Names {
		wanted[n] = true
	}

	for _, rec := range records {
		if !wanted[rec.Name] || rec.Placeholder {
			continue
		}
		result, err := d.importer.Import(ctx, rec, d.managed)
		if err != nil {
			log.LogWithError(err).With(log.F("file", rec.Name)).Warn("auto-import failed")
		} else if result.Moved {
			d.mutex.Lock()
			d.processed++
			d.mutex.Unlock()
		}
		d.emit(Event{Change: c, Result: &result, Err: err})
	}
}

func (d *Daemon) emit(e Event) {
	d.mutex.RLock()
	cb := d.callback
	d.mutex.RUnlock()
	if cb != nil {
		cb(e)
	}
}
