// Package synchronizer wires the replica, sync engine and scheduler for one
// configured source/replica pair.
package synchronizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kyselak85/synchronizer/internal/replica"
	"github.com/kyselak85/synchronizer/internal/sync"
)

type Synchronizer struct {
	config  *Config
	replica *replica.Replica
	engine  *sync.Engine
	manager *sync.Manager
}

func New(cfg *Config) (*Synchronizer, error) {
	rep, err := replica.New(cfg.ReplicaDir)
	if err != nil {
		return nil, fmt.Errorf("create replica: %w", err)
	}

	fp, err := sync.NewFingerprinter(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	ignore := sync.NewIgnoreList(cfg.Exclude...)
	engine := sync.NewEngine(cfg.SourceDir, rep.Root, fp, ignore)

	var watcher *sync.SourceWatcher
	if cfg.Watch {
		watcher = sync.NewSourceWatcher(cfg.SourceDir)
	}

	return &Synchronizer{
		config:  cfg,
		replica: rep,
		engine:  engine,
		manager: sync.NewManager(engine, cfg.Interval, watcher),
	}, nil
}

// Start locks the replica and runs the scheduling loop until the context is
// cancelled.
func (s *Synchronizer) Start(ctx context.Context) error {
	slog.Info("synchronizer start",
		"source", s.config.SourceDir,
		"replica", s.config.ReplicaDir,
		"algorithm", s.config.Algorithm,
		"interval", s.config.Interval)

	if err := s.replica.Setup(); err != nil {
		return err
	}
	defer s.replica.Close()

	return s.manager.Start(ctx)
}

// RunOnce locks the replica, executes a single reconciliation pass and
// releases the lock.
func (s *Synchronizer) RunOnce(ctx context.Context) (*sync.PassResult, error) {
	if err := s.replica.Setup(); err != nil {
		return nil, err
	}
	defer s.replica.Close()

	return s.engine.RunPass(ctx)
}
