package config

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/logger"
)

// ChangeCallback is called once per debounced batch of changes with the
// watched paths that changed, sorted.
type ChangeCallback func(changed []string) error

// SourceWatcher watches API sources and the config file and reports
// changes after a quiet period. Parent directories are watched rather
// than the files, so editors that replace files on save are seen.
type SourceWatcher struct {
	watcher        *fsnotify.Watcher
	files          map[string]bool
	callbacks      []ChangeCallback
	mu             sync.Mutex
	pending        map[string]bool
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	logger         *zap.SugaredLogger
	started        bool
	done           chan struct{}
}

// NewSourceWatcher creates a watcher for paths. Paths must be local files.
func NewSourceWatcher(paths []string, debounce time.Duration) (*SourceWatcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("nothing to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	sw := &SourceWatcher{
		watcher:        w,
		files:          make(map[string]bool, len(paths)),
		pending:        make(map[string]bool),
		debouncePeriod: debounce,
		logger:         logger.ComponentLogger("watch"),
		done:           make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		sw.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
		dirs[dir] = true
	}

	return sw, nil
}

// OnChange registers a callback.
func (sw *SourceWatcher) OnChange(cb ChangeCallback) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.callbacks = append(sw.callbacks, cb)
}

// Start begins watching in the background.
func (sw *SourceWatcher) Start() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.started {
		return
	}
	sw.started = true
	go sw.watchLoop()
}

// Stop stops watching. Pending changes are dropped.
func (sw *SourceWatcher) Stop() error {
	sw.mu.Lock()
	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	started := sw.started
	sw.mu.Unlock()
	err := sw.watcher.Close()
	if started {
		<-sw.done
	}
	return err
}

func (sw *SourceWatcher) watchLoop() {
	defer close(sw.done)
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if isBackupFile(event.Name) || !sw.files[filepath.Clean(event.Name)] {
				continue
			}
			sw.logger.Debugw("Watched file changed",
				logger.FieldFile, event.Name,
				logger.FieldOperation, event.Op.String())
			sw.schedule(filepath.Clean(event.Name))

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces rapid changes into one callback round.
func (sw *SourceWatcher) schedule(path string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.pending[path] = true
	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}
	sw.debounceTimer = time.AfterFunc(sw.debouncePeriod, sw.fire)
}

func (sw *SourceWatcher) fire() {
	sw.mu.Lock()
	changed := make([]string, 0, len(sw.pending))
	for p := range sw.pending {
		changed = append(changed, p)
	}
	sw.pending = make(map[string]bool)
	callbacks := make([]ChangeCallback, len(sw.callbacks))
	copy(callbacks, sw.callbacks)
	sw.mu.Unlock()

	sort.Strings(changed)
	sw.logger.Infow("Sources changed", logger.FieldCount, len(changed))

	for _, cb := range callbacks {
		// keep notifying the others
		if err := cb(changed); err != nil {
			sw.logger.Warnw("Change callback failed", logger.FieldError, err)
		}
	}
}
