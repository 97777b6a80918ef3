// Package watch debounces filesystem change notifications from fsnotify
// into discrete ChangeSets so a rebuild runs once per burst of edits rather
// than once per individual write, grounded on the teacher's serve.go
// watchFiles/handleRebuilds debounce pattern.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeSet is one debounced batch of filesystem changes.
type ChangeSet struct {
	Paths []string
}

// Debounce is the quiet period after the last event before a ChangeSet
// fires, long enough to absorb an editor's temp-file+rename save sequence.
const Debounce = 300 * time.Millisecond

// Watch recursively watches root (skipping destination and hidden
// directories) and sends a ChangeSet on changes after each Debounce-long
// quiet period, until ctx is canceled. It never sends on its own output
// directory to avoid rebuild feedback loops.
func Watch(ctx context.Context, root, destination string, changes chan<- ChangeSet) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root, destination); err != nil {
		return err
	}

	var timer *time.Timer
	pending := map[string]bool{}

	flush := func() {
		if len(pending) == 0 {
			return
		}
		set := ChangeSet{Paths: make([]string, 0, len(pending))}
		for p := range pending {
			set.Paths = append(set.Paths, p)
		}
		pending = map[string]bool{}
		select {
		case changes <- set:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnore(ev.Name, destination) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				addIfDir(watcher, ev.Name, destination)
			}
			pending[ev.Name] = true
			if timer == nil {
				timer = time.AfterFunc(Debounce, flush)
			} else {
				timer.Reset(Debounce)
			}
		case <-watcher.Errors:
			// non-fatal; keep watching
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root, destination string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if isWithin(path, destination) || isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func addIfDir(watcher *fsnotify.Watcher, path, destination string) {
	if isWithin(path, destination) {
		return
	}
	_ = addRecursive(watcher, path, destination)
}

func shouldIgnore(path, destination string) bool {
	if isWithin(path, destination) {
		return true
	}
	base := filepath.Base(path)
	return isHidden(base) || strings.HasSuffix(path, "~") || strings.HasSuffix(path, ".swp")
}

func isHidden(name string) bool {
	return name != "." && strings.HasPrefix(name, ".")
}

func isWithin(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && rel != "..")
}
