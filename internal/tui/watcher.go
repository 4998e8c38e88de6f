package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/wk-j/lumen/internal/core/logging"
)

// filesChangedMsg is sent when files in the working tree change on disk.
// Paths are slash separated and relative to the watched root.
type filesChangedMsg struct {
	paths []string
}

// Watcher watches a working tree for changes.
type Watcher struct {
	watcher     *fsnotify.Watcher
	root        string
	ignore      []string
	debounceDur time.Duration
	log         zerolog.Logger
}

// NewWatcher creates a watcher for root and every directory below it that is
// not ignored.
func NewWatcher(root string, ignore []string, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:     watcher,
		root:        root,
		ignore:      ignore,
		debounceDur: debounce,
		log:         logging.Component("watcher"),
	}

	if err := w.addRecursive(root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return w, nil
}

// Start returns a command that blocks until a burst of changes settles and
// reports the changed paths. The model restarts it after every message.
func (w *Watcher) Start() tea.Cmd {
	return func() tea.Msg {
		changed := map[string]bool{}
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.collect(event, changed) {
					continue
				}

				// Debounce: keep collecting until the burst settles
				timer := time.NewTimer(w.debounceDur)
			drain:
				for {
					select {
					case ev, ok := <-w.watcher.Events:
						if !ok {
							break drain
						}
						w.collect(ev, changed)
					case <-timer.C:
						break drain
					}
				}
				timer.Stop()

				return filesChangedMsg{paths: sortedKeys(changed)}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				w.log.Warn().Err(err).Msg("watch error")
			}
		}
	}
}

// collect records an event unless it is ignored. New directories are added to
// the watch list.
func (w *Watcher) collect(event fsnotify.Event, changed map[string]bool) bool {
	rel, ok := w.relative(event.Name)
	if !ok || w.shouldIgnore(rel) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}

	changed[rel] = true
	return true
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addRecursive adds a directory and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip directories we can't read
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.relative(p); ok && rel != "." && (w.shouldIgnore(rel) || w.shouldIgnore(rel+"/")) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

// shouldIgnore reports whether a relative path matches an ignore pattern or
// looks like an editor temp file.
func (w *Watcher) shouldIgnore(rel string) bool {
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}

	// Editor swap and temp files
	base := filepath.Base(rel)
	for _, ext := range []string{".swp", ".swx", ".tmp", "~"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
