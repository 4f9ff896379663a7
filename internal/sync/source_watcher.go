package sync

import (
	"log/slog"

	"github.com/rjeczalik/notify"
)

// SourceWatcher reports filesystem activity under the source tree so the
// manager can schedule a pass ahead of the timer. Events carry no payload
// the engine cares about; every pass is a full re-scan anyway.
type SourceWatcher struct {
	watchDir string
	events   chan notify.EventInfo
}

func NewSourceWatcher(watchDir string) *SourceWatcher {
	return &SourceWatcher{
		watchDir: watchDir,
		// buffered so a burst of events doesn't block the OS notification
		// thread while a pass is running
		events: make(chan notify.EventInfo, 64),
	}
}

func (w *SourceWatcher) Start() error {
	slog.Info("source watcher start", "dir", w.watchDir)

	recursivePath := w.watchDir + "/..."
	return notify.Watch(recursivePath, w.events, notify.All)
}

func (w *SourceWatcher) Stop() {
	notify.Stop(w.events)
	close(w.events)
	slog.Info("source watcher stop")
}

func (w *SourceWatcher) Events() <-chan notify.EventInfo {
	return w.events
}
