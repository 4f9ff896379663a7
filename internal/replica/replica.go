// Package replica manages the writable side of the mirror.
package replica

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/kyselak85/synchronizer/internal/utils"
)

const lockFileName = ".synchronizer.lock"

var ErrReplicaLocked = errors.New("replica locked by another synchronizer process")

// Replica is a handle on the replica root. A flock under the root enforces
// the single-writer rule across processes; the sync engine's ignore list
// keeps the lock file out of reconciliation.
type Replica struct {
	Root string

	flock *flock.Flock
}

func New(rootDir string) (*Replica, error) {
	root, err := utils.ResolvePath(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", rootDir, err)
	}

	return &Replica{
		Root:  root,
		flock: flock.New(filepath.Join(root, lockFileName)),
	}, nil
}

// Setup creates the replica root if missing and takes the lock.
func (r *Replica) Setup() error {
	if err := utils.EnsureDir(r.Root); err != nil {
		return fmt.Errorf("create replica root %s: %w", r.Root, err)
	}

	locked, err := r.flock.TryLock()
	if err != nil {
		return fmt.Errorf("lock replica: %w", err)
	}
	if !locked {
		return ErrReplicaLocked
	}

	return nil
}

// Close releases the lock and removes the lock file. No-op if this process
// never held the lock.
func (r *Replica) Close() error {
	if !r.flock.Locked() {
		return nil
	}

	if err := r.flock.Unlock(); err != nil {
		return fmt.Errorf("unlock replica: %w", err)
	}

	return os.Remove(r.flock.Path())
}
