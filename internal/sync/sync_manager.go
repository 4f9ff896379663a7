package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Manager owns pass scheduling: an initial pass, a fixed-interval timer loop
// and, optionally, watcher-triggered early passes. The engine itself knows
// nothing about timing.
type Manager struct {
	engine   *Engine
	watcher  *SourceWatcher
	interval time.Duration
}

// NewManager wires the engine to a scheduling loop. watcher may be nil.
func NewManager(engine *Engine, interval time.Duration, watcher *SourceWatcher) *Manager {
	return &Manager{
		engine:   engine,
		watcher:  watcher,
		interval: interval,
	}
}

// Start runs an initial pass and then keeps re-running passes every interval
// until the context is cancelled. Watcher events collapse into a single
// pending trigger, so a storm of source writes costs one extra pass at most.
func (m *Manager) Start(ctx context.Context) error {
	slog.Info("sync manager start", "interval", m.interval, "watch", m.watcher != nil)

	m.runPass(ctx)

	eg, egCtx := errgroup.WithContext(ctx)
	trigger := make(chan struct{}, 1)

	if m.watcher != nil {
		if err := m.watcher.Start(); err != nil {
			return fmt.Errorf("start source watcher: %w", err)
		}

		eg.Go(func() error {
			defer m.watcher.Stop()
			for {
				select {
				case <-egCtx.Done():
					return nil
				case _, ok := <-m.watcher.Events():
					if !ok {
						return nil
					}
					select {
					case trigger <- struct{}{}:
					default:
					}
				}
			}
		})
	}

	eg.Go(func() error {
		// a timer, not a ticker, so a pass slower than the interval never
		// queues up ticks behind itself
		timer := time.NewTimer(m.interval)
		defer timer.Stop()

		for {
			select {
			case <-egCtx.Done():
				return nil

			case <-trigger:
				m.runPass(egCtx)
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(m.interval)

			case <-timer.C:
				m.runPass(egCtx)
				timer.Reset(m.interval)
			}
		}
	})

	err := eg.Wait()
	slog.Info("sync manager stop")
	return err
}

// runPass executes one pass and logs failures. Per-pass errors are never
// fatal to the loop: the next scheduled pass retries the full reconciliation.
func (m *Manager) runPass(ctx context.Context) {
	if _, err := m.engine.RunPass(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, ErrPassAlreadyRunning) {
			return
		}
		slog.Error("pass failed, retrying on next interval", "error", err)
	}
}
