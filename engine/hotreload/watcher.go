package hotreload

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stoy/common"
	"github.com/fsnotify/fsnotify"
)

// ErrWatchRootRemoved is reported when the watched directory is deleted or moved. Reloading is
// suspended until the directory exists again.
var ErrWatchRootRemoved = errors.New("watched directory removed")

// watcher is the implementation of the Watcher interface.
type watcher struct {
	root  string
	cell  *DebounceCell
	fs    *fsnotify.Watcher
	clock func() time.Time

	errs         chan error
	errBuffer    int
	pollInterval time.Duration
	rootMissing  bool

	done     chan struct{}
	wg       *sync.WaitGroup
	once     *sync.Once
	closeErr error
}

// Watcher observes a directory tree and marks the debounce cell on every write or create.
// It never reads file contents.
type Watcher interface {
	// Root returns the absolute path of the watched directory.
	Root() string

	// Errors returns the stream of background errors. Sends never block; errors are dropped
	// when nobody drains the channel.
	//
	// Returns:
	//   - <-chan error: the error stream
	Errors() <-chan error

	// Close stops the background goroutine and releases the OS watch. Safe to call more than once.
	//
	// Returns:
	//   - error: the error from closing the OS watch, if any
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher watches dir and all of its subdirectories, writing change times into cell.
// Directories created later are added as they appear.
//
// Parameters:
//   - dir: the directory to watch
//   - cell: the debounce cell shared with the reloader
//   - options: functional options to configure the watcher
//
// Returns:
//   - Watcher: the running watcher
//   - error: an error if the directory cannot be watched
func NewWatcher(dir string, cell *DebounceCell, options ...WatcherBuilderOption) (Watcher, error) {
	if cell == nil {
		return nil, errors.New("watcher: debounce cell is nil")
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w := &watcher{
		root:         filepath.Clean(root),
		cell:         cell,
		clock:        time.Now,
		errBuffer:    16,
		pollInterval: time.Second,
		done:         make(chan struct{}),
		wg:           &sync.WaitGroup{},
		once:         &sync.Once{},
	}
	for _, opt := range options {
		opt(w)
	}
	w.errs = make(chan error, w.errBuffer)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	w.fs = fsw

	if err := w.addTree(w.root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w.wg.Add(1)
	go w.run()

	common.Logger().Info("watching shader directory", "path", w.root)
	return w, nil
}

func (w *watcher) Root() string {
	return w.root
}

func (w *watcher) Errors() <-chan error {
	return w.errs
}

func (w *watcher) Close() error {
	w.once.Do(func() {
		close(w.done)
		w.closeErr = w.fs.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

// addTree adds dir and every directory below it.
func (w *watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *watcher) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.report(err)
		case <-ticker.C:
			if w.rootMissing {
				w.restoreRoot()
			}
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	common.Logger().Debug("shader watch event", "path", ev.Name, "op", ev.Op.String())

	if filepath.Clean(ev.Name) == w.root && (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)) {
		w.rootMissing = true
		w.report(fmt.Errorf("%w: %s", ErrWatchRootRemoved, w.root))
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.report(err)
			}
		}
	}

	if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
		w.cell.Mark(w.clock())
	}
}

// restoreRoot re-adds the root once it exists again and marks the cell so the shader is re-read.
func (w *watcher) restoreRoot() {
	info, err := os.Stat(w.root)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(w.root); err != nil {
		w.report(err)
		return
	}
	w.rootMissing = false
	w.cell.Mark(w.clock())
	common.Logger().Info("shader directory restored", "path", w.root)
}

func (w *watcher) report(err error) {
	common.Logger().Warn("shader watcher error", "path", w.root, "error", err)
	select {
	case w.errs <- err:
	default:
		common.Logger().Debug("shader watcher error dropped", "error", err)
	}
}
