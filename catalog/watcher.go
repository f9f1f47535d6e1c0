package catalog

import (
	"time"

	"github.com/bep/debounce"
	"github.com/openroll/songpipe/model"
)

// Watcher coalesces change notifications so a burst of filesystem events
// triggers at most one rescan per debounce window.
type Watcher struct {
	dir       string
	debounced func(func())
	onScan    func([]model.SongMetadata, error)
}

func NewWatcher(dir string, interval time.Duration, onScan func([]model.SongMetadata, error)) *Watcher {
	return &Watcher{
		dir:       dir,
		debounced: debounce.New(interval),
		onScan:    onScan,
	}
}

// Notify schedules a rescan of the watched folder.
func (w *Watcher) Notify() {
	w.debounced(func() {
		w.onScan(Scan(w.dir, nil))
	})
}
