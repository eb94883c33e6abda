package store

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watcher invalidates the store cache when the document file changes on disk
// outside of this store instance. The file is human-readable, so hand edits
// while a process is running are a realistic scenario; without the watcher a
// warm cache would keep serving the pre-edit state.
//
// The store's own writes also trigger events. Invalidation is harmless
// there: the next read re-decodes the file it just wrote.
type watcher struct {
	store *Store
	fsw   *fsnotify.Watcher
	done  chan struct{}
}

// newWatcher starts watching the document's directory. Watch failures are
// logged and degrade to a watcher-less store rather than failing Open; the
// cache invalidation it provides is an optimization, not a correctness
// requirement of the single-writer contract.
func newWatcher(s *Store) *watcher {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warnf("could not create file watcher for '%s': %v", s.path, err)
		return nil
	}
	// Watch the directory, not the file: rename-based writes replace the
	// inode, and a watch on the old inode would go stale.
	if err := fsw.Add(filepath.Dir(s.path)); err != nil {
		s.log.Warnf("could not watch directory of '%s': %v", s.path, err)
		fsw.Close()
		return nil
	}

	w := &watcher{
		store: s,
		fsw:   fsw,
		done:  make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *watcher) loop() {
	defer close(w.done)
	target := filepath.Clean(w.store.path)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.store.invalidateCache()
				w.store.log.Debugf("document '%s' changed on disk, cache invalidated", w.store.path)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.store.log.Warnf("file watcher error for '%s': %v", w.store.path, err)
		}
	}
}

// stop closes the underlying watcher and waits for the event loop to drain.
func (w *watcher) stop() {
	w.fsw.Close()
	<-w.done
}
