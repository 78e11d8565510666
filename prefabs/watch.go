package prefabs

import (
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// reloadDebounce is how long a file must stay quiet before its change is
// reported. Editors often save in several writes; only the last one counts.
const reloadDebounce = 100 * time.Millisecond

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	pending := make(map[string]time.Time)
	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isSpecFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now().Add(reloadDebounce)
			timer.Reset(time.Until(earliest(pending)))
		case <-timer.C:
			now := time.Now()
			var due []string
			for name, at := range pending {
				if !now.Before(at) {
					due = append(due, name)
				}
			}
			sort.Strings(due)
			for _, name := range due {
				delete(pending, name)
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			if len(pending) > 0 {
				timer.Reset(time.Until(earliest(pending)))
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

func earliest(pending map[string]time.Time) time.Time {
	var first time.Time
	for _, at := range pending {
		if first.IsZero() || at.Before(first) {
			first = at
		}
	}
	return first
}

// Watch reloads element files under prefabs/elements when they change on
// disk. A file that fails to load or disappears keeps its last good entry so
// hydrated instances never lose their metadata. Close the returned watcher to
// stop.
func (s *Store) Watch(root string) (*Watcher, error) {
	dir := filepath.Join(root, "prefabs", "elements")
	w, err := NewWatcher(dir)
	if err != nil {
		return nil, err
	}
	go func() {
		for {
			select {
			case name, ok := <-w.Events:
				if !ok {
					return
				}
				key := "elements/" + filepath.Base(name)
				if err := s.reloadFile(name, key); err != nil {
					log.Printf("prefabs: reload %s: %v", key, err)
					continue
				}
				log.Printf("prefabs: reloaded %s", key)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("prefabs: watch: %v", err)
			}
		}
	}()
	return w, nil
}

func (s *Store) reloadFile(diskPath, key string) error {
	data, err := readFile(diskPath)
	if err != nil {
		return err
	}
	spec, err := s.decode(data)
	if err != nil {
		return err
	}
	s.Put(key, spec)
	return nil
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
