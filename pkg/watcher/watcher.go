// Package watcher watches a project directory for changes to the .env
// file cascade.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/octet-stream/qwik/pkg/qerror"
)

// envFilePrefix scopes the watcher to the env file cascade: ".env"
// itself and every ".env.*" variant.
const envFilePrefix = ".env"

type Watcher struct {
	mutex sync.Mutex

	log *zerolog.Logger
	dir string

	watcher   *fsnotify.Watcher
	stop      chan struct{}
	closeOnce sync.Once

	EventsReady chan struct{}

	events         *Events
	notifyListener func()
}

// New watches dir, non-recursively, for changes to env cascade files.
// Other files in the directory never produce events.
func New(dir string) (*Watcher, error) {
	fswatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, qerror.Wrap(err, "watcher", "unable to create watcher", map[string]any{"dir": dir})
	}
	if err := fswatcher.Add(dir); err != nil {
		_ = fswatcher.Close()
		return nil, qerror.Wrap(err, "watcher", "unable to watch directory", map[string]any{"dir": dir})
	}

	logger := log.With().Str("component", "watcher").Str("dir", dir).Logger()
	logger.Debug().Msg("env file watcher created")
	w := &Watcher{
		watcher:     fswatcher,
		log:         &logger,
		dir:         dir,
		stop:        make(chan struct{}),
		events:      nil,
		EventsReady: make(chan struct{}),
	}

	// We debounce this to give the system time to process mass file updates
	d := debounce.New(50 * time.Millisecond)
	w.notifyListener = func() {
		d(func() {
			select {
			case w.EventsReady <- struct{}{}:
			case <-w.stop:
			}
		})
	}

	go w.listenForChangeEvents()

	return w, nil
}

// Relevant reports whether path names a file the watcher cares about.
func Relevant(path string) bool {
	base := filepath.Base(path)
	return base == envFilePrefix || strings.HasPrefix(base, envFilePrefix+".")
}

func (w *Watcher) listenForChangeEvents() {
	for {
		select {
		case <-w.stop:
			_ = w.watcher.Close()
			return

		case event := <-w.watcher.Events:
			if !Relevant(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				w.handleCreateOrWriteEvent(event.Name, CREATED)
			case event.Op&fsnotify.Write == fsnotify.Write:
				w.handleCreateOrWriteEvent(event.Name, MODIFIED)
			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				w.recordEventInBatch(filepath.Clean(event.Name), DELETED, nil)
			}

		case err := <-w.watcher.Errors:
			w.log.Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handleCreateOrWriteEvent(path string, event EventType) {
	if info, err := os.Stat(path); err != nil {
		// The file may already be gone again; the delete event follows.
		w.log.Debug().Err(err).Str("path", path).Msg("unable to stat file")
	} else if !info.IsDir() {
		w.recordEventInBatch(path, event, info)
	}
}

func (w *Watcher) recordEventInBatch(path string, event EventType, info os.FileInfo) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.events == nil {
		w.events = newEventBatch()
		w.notifyListener()
	}

	w.events.addEvent(path, event, info)
}

func (w *Watcher) GetEventsBatch() *Events {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	events := w.events
	w.events = nil

	return events
}

func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { close(w.stop) })
	return nil
}
