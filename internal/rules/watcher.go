package rules

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cortexd/internal/logging"
)

// Watcher watches a directory of ".rules" text-format files and reloads a
// RuleSet whenever one changes, debouncing rapid saves the way an editor
// autosave would otherwise trigger repeated reloads.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	dir         string
	debounceDur time.Duration
	debounceMap map[string]time.Time
	current     RuleSet
	onReload    func(RuleSet, error)
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher creates a Watcher over dir. onReload is invoked (from the
// watcher's own goroutine) whenever a ".rules" file is parsed, successfully
// or not; it may be nil.
func NewWatcher(dir string, onReload func(RuleSet, error)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     w,
		dir:         dir,
		debounceDur: 300 * time.Millisecond,
		debounceMap: make(map[string]time.Time),
		onReload:    onReload,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching dir in a background goroutine. Non-blocking.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		log.Warn("rule watcher: failed to create %s: %v", w.dir, err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		log.Warn("rule watcher: initial watch failed: %v", err)
	}

	go w.run()
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

// Current returns the most recently loaded RuleSet.
func (w *Watcher) Current() RuleSet {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".rules") {
				continue
			}
			w.mu.Lock()
			w.debounceMap[event.Name] = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error("rule watcher error: %v", err)
		case <-ticker.C:
			w.flushDebounced()
		}
	}
}

func (w *Watcher) flushDebounced() {
	w.mu.Lock()
	now := time.Now()
	var toLoad []string
	for path, t := range w.debounceMap {
		if now.Sub(t) >= w.debounceDur {
			toLoad = append(toLoad, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toLoad {
		w.reload(path)
	}
}

func (w *Watcher) reload(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		log.Error("rule watcher: failed to read %s: %v", path, err)
		if w.onReload != nil {
			w.onReload(RuleSet{}, err)
		}
		return
	}

	rs, err := ParseRuleSetFromText(string(content), filepath.Base(path))
	if err == nil {
		w.mu.Lock()
		w.current = rs
		w.mu.Unlock()
	} else {
		log.Warn("rule watcher: parse failed for %s: %v", path, err)
	}

	if w.onReload != nil {
		w.onReload(rs, err)
	}
}
