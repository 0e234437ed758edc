// Package watch turns filesystem notifications for the scanned directories
// into debounced per-directory change signals.
package watch

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"pdfinbox/internal/errors"
	"pdfinbox/internal/log"
	"pdfinbox/pkg/types"

	"github.com/fsnotify/fsnotify"
)

// ErrNothingToWatch is returned when none of the directories could be
// watched.
var ErrNothingToWatch = errors.New("no directory to watch")

// DefaultDebounce is used when New is given a non-positive debounce.
const DefaultDebounce = 250 * time.Millisecond

// Change reports that the PDF listing of Dir may be stale.
type Change struct {
	Dir   string
	Names []string // PDF names touched since the previous Change, sorted
	Time  time.Time
}

// Watcher monitors directories for PDF files appearing, disappearing or
// changing. Bursts of events in one directory are folded into one Change.
type Watcher struct {
	directories []string
	debounce    time.Duration

	changes  chan Change
	fire     chan string
	stopChan chan struct{}
	done     chan struct{}

	fsWatcher *fsnotify.Watcher

	// pending names per directory, touched only by the event loop
	pending map[string]map[string]struct{}
	timers  map[string]*time.Timer

	mutex   sync.RWMutex
	running bool
	closed  bool
}

// New creates a watcher that waits debounce after the last event in a
// directory before reporting it.
func New(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		debounce:  debounce,
		changes:   make(chan Change, 16),
		fire:      make(chan string, 16),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
		fsWatcher: fsWatcher,
		pending:   make(map[string]map[string]struct{}),
		timers:    make(map[string]*time.Timer),
	}, nil
}

// AddDirectory adds a directory to watch. Sub-directories are not watched.
func (w *Watcher) AddDirectory(dir string) error {
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return errors.NewIOError(dir, err)
	}
	if !info.IsDir() {
		return errors.NewFileError("not a directory", dir, errors.InvalidPath, nil)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.NewFileError("failed to watch directory", dir, errors.FileOperationFailed, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("watching directory")
	return nil
}

// Changes returns the channel that delivers debounced changes. It is
// closed once the watcher has stopped.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins the event loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}
	if w.closed {
		return errors.New("watcher stopped")
	}
	w.running = true

	go w.loop()
	log.Debug("watcher started")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)
	defer w.stopTimers()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case dir := <-w.fire:
			w.flush(dir)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// handle records a relevant event and (re)arms the directory's timer.
func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	name := filepath.Base(event.Name)
	if !types.IsPDFName(name) {
		return
	}

	dir := filepath.Dir(event.Name)
	names, ok := w.pending[dir]
	if !ok {
		names = make(map[string]struct{})
		w.pending[dir] = names
	}
	names[name] = struct{}{}

	log.LogWithFields(log.F("file", event.Name), log.F("op", event.Op.String())).Debug("pdf event")

	if t, ok := w.timers[dir]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[dir] = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- dir:
		case <-w.stopChan:
		}
	})
}

func (w *Watcher) flush(dir string) {
	delete(w.timers, dir)
	names := w.pending[dir]
	delete(w.pending, dir)
	if len(names) == 0 {
		return
	}

	c := Change{Dir: dir, Time: time.Now()}
	for name := range names {
		c.Names = append(c.Names, name)
	}
	sort.Strings(c.Names)

	select {
	case w.changes <- c:
	case <-w.stopChan:
	}
}

func (w *Watcher) stopTimers() {
	for dir, t := range w.timers {
		t.Stop()
		delete(w.timers, dir)
	}
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if w.closed {
		w.mutex.Unlock()
		return
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	if wasRunning {
		close(w.stopChan)
	}
	w.mutex.Unlock()

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("error closing fsnotify watcher")
	}
	if wasRunning {
		<-w.done
	}
	log.Debug("watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the list of directories being watched
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirsCopy := make([]string, len(w.directories))
	copy(dirsCopy, w.directories)
	return dirsCopy
}
