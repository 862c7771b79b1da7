package asset

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher reports asset files that change on disk. Events carries asset names
// relative to each search path the file lies under, ready to be passed to
// Cache.Refresh. The game loop should drain Events without blocking.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	prefixes []string
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches the directories of the search path prefixes below root.
// Directories that do not exist are skipped.
func NewWatcher(root string, prefixes []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := make(map[string]bool)
	var cleaned []string
	for _, prefix := range prefixes {
		prefix = cleanPrefix(prefix)
		cleaned = append(cleaned, prefix)

		dir := filepath.Join(root, filepath.FromSlash(path.Dir(prefix+"x")))
		if watched[dir] {
			continue
		}
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		watched[dir] = true
	}

	watcher := &Watcher{
		watcher:  w,
		root:     root,
		prefixes: cleaned,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	quiet := newDebouncer(debounce)
	defer quiet.stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			quiet.touch(event.Name)
		case file := <-quiet.C:
			for _, name := range w.assetNames(file) {
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// debouncer reports a file once no event has been seen for it for delay, so
// a save written in several steps is reported after the last one. touch and
// stop must be called from a single goroutine.
type debouncer struct {
	delay  time.Duration
	timers map[string]*time.Timer
	C      chan string
	quit   chan struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		C:      make(chan string, 16),
		quit:   make(chan struct{}),
	}
}

func (d *debouncer) touch(file string) {
	if t, ok := d.timers[file]; ok && t.Stop() {
		t.Reset(d.delay)
		return
	}
	d.timers[file] = time.AfterFunc(d.delay, func() {
		select {
		case d.C <- file:
		case <-d.quit:
		}
	})
}

func (d *debouncer) stop() {
	close(d.quit)
	for _, t := range d.timers {
		t.Stop()
	}
}

// assetNames maps a file path reported by fsnotify to every asset name that
// could resolve to it, one per matching search path prefix.
func (w *Watcher) assetNames(file string) []string {
	rel, err := filepath.Rel(w.root, file)
	if err != nil {
		return nil
	}
	return matchPrefixes(w.prefixes, filepath.ToSlash(rel))
}

func matchPrefixes(prefixes []string, rel string) []string {
	var names []string
	for _, prefix := range prefixes {
		name, ok := strings.CutPrefix(rel, prefix)
		if !ok || name == "" || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func cleanPrefix(prefix string) string {
	prefix = strings.TrimPrefix(filepath.ToSlash(prefix), "./")
	return strings.TrimPrefix(prefix, "/")
}
