package envfile

import (
	"context"

	"github.com/octet-stream/qwik/pkg/fns"
	"github.com/octet-stream/qwik/pkg/watcher"
)

// Watch invokes onChange whenever a cascade file in dir is created,
// modified or deleted. Changes are debounced, so one onChange call can
// cover several file operations. Watch blocks until ctx is done.
func Watch(ctx context.Context, dir string, onChange func()) error {
	w, err := watcher.New(dir)
	if err != nil {
		return err
	}
	defer fns.CloseIgnore(w)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.EventsReady:
			// Drain the batch; callers reload the whole cascade, so the
			// per-file details don't matter.
			w.GetEventsBatch()
			onChange()
		}
	}
}
