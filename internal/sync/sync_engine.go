// Package sync implements the tree-diff-and-reconcile engine: one pass walks
// the source tree top-down and converges the replica tree to it with the
// minimal set of creates, updates and deletes. Passes are stateless; both
// trees are re-derived from the filesystem every time.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
)

var (
	ErrPassAlreadyRunning = errors.New("pass already running")

	errNotADirectory = errors.New("exists but is not a directory")
)

// Engine converges the replica tree to the source tree, one full pass at a
// time. The source is never written; the replica has no writer other than
// this engine.
type Engine struct {
	sourceDir  string
	replicaDir string
	walker     *TreeWalker
	fp         *Fingerprinter
	ignore     *IgnoreList
	muPass     sync.Mutex
}

func NewEngine(sourceDir, replicaDir string, fp *Fingerprinter, ignore *IgnoreList) *Engine {
	return &Engine{
		sourceDir:  sourceDir,
		replicaDir: replicaDir,
		walker:     NewTreeWalker(sourceDir, ignore),
		fp:         fp,
		ignore:     ignore,
	}
}

// RunPass performs one full reconciliation sweep. For every source directory,
// in walk order: mirror the directory, remove stale replica entries, then
// reconcile file contents. The first error aborts the pass; the replica is
// left at whatever prefix of the walk was applied and the next pass
// re-converges from scratch.
func (e *Engine) RunPass(ctx context.Context) (*PassResult, error) {
	if !e.muPass.TryLock() {
		return nil, ErrPassAlreadyRunning
	}
	defer e.muPass.Unlock()

	tstart := time.Now()
	slog.Info("pass start", "source", e.sourceDir, "replica", e.replicaDir, "algorithm", e.fp.Algorithm())

	result := &PassResult{}
	err := e.walker.Walk(ctx, func(v *DirVisit) error {
		result.Dirs++
		replicaDir := filepath.Join(e.replicaDir, v.RelPath)

		if err := e.mirrorDir(replicaDir); err != nil {
			return err
		}
		if err := e.removeStale(v, replicaDir, result); err != nil {
			return err
		}
		return e.reconcileFiles(v, replicaDir, result)
	})
	if err != nil {
		slog.Error("pass aborted", "took", time.Since(tstart), "error", err)
		return nil, err
	}

	result.Took = time.Since(tstart)
	slog.Info("pass complete", "took", result.Took, "dirs", result.Dirs,
		"created", result.Created, "updated", result.Updated,
		"deleted", result.Deleted, "unchanged", result.Unchanged)
	return result, nil
}

// mirrorDir ensures the replica-side directory exists before anything is
// deleted or copied inside it. Idempotent.
func (e *Engine) mirrorDir(replicaDir string) error {
	info, err := os.Stat(replicaDir)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return structureErr(replicaDir, errNotADirectory)
	}
	if !os.IsNotExist(err) {
		return structureErr(replicaDir, err)
	}
	if err := os.MkdirAll(replicaDir, 0o755); err != nil {
		return structureErr(replicaDir, err)
	}
	return nil
}

// removeStale deletes every immediate child of replicaDir whose name is not
// present in the corresponding source directory. Stale directories go
// recursively, so a subtree dropped from the source disappears wholesale
// when the walk reaches its former parent.
func (e *Engine) removeStale(v *DirVisit, replicaDir string, result *PassResult) error {
	entries, err := os.ReadDir(replicaDir)
	if err != nil {
		return deletionErr(replicaDir, err)
	}

	keep := mapset.NewThreadUnsafeSet(v.Dirs...)
	keep.Append(v.Files...)

	for _, entry := range entries {
		name := entry.Name()
		if keep.Contains(name) {
			continue
		}

		relPath := filepath.Join(v.RelPath, name)
		if e.ignore.Match(relPath) {
			continue
		}

		target := filepath.Join(replicaDir, name)
		if entry.IsDir() {
			if err := os.RemoveAll(target); err != nil {
				return deletionErr(target, err)
			}
		} else if err := os.Remove(target); err != nil {
			return deletionErr(target, err)
		}

		result.Deleted++
		slog.Info("sync", "op", OpDelete, "path", relPath)
	}

	return nil
}

// reconcileFiles creates every source file missing from the replica and
// replaces every replica file whose fingerprint differs from the source's.
// Matching fingerprints mean no write at all.
func (e *Engine) reconcileFiles(v *DirVisit, replicaDir string, result *PassResult) error {
	for _, name := range v.Files {
		relPath := filepath.Join(v.RelPath, name)
		sourceFile := filepath.Join(e.sourceDir, relPath)
		replicaFile := filepath.Join(replicaDir, name)

		_, err := os.Stat(replicaFile)
		if os.IsNotExist(err) {
			written, err := copyFileAtomic(sourceFile, replicaFile, e.fp, "")
			if err != nil {
				return reconcileErr(replicaFile, err)
			}
			result.Created++
			slog.Info("sync", "op", OpCreate, "path", relPath, "size", humanize.Bytes(uint64(written)))
			continue
		}
		if err != nil {
			return reconcileErr(replicaFile, err)
		}

		sourceDigest, err := e.fp.SumFile(sourceFile)
		if err != nil {
			return reconcileErr(sourceFile, err)
		}
		replicaDigest, err := e.fp.SumFile(replicaFile)
		if err != nil {
			return reconcileErr(replicaFile, err)
		}
		if sourceDigest == replicaDigest {
			result.Unchanged++
			continue
		}

		written, err := copyFileAtomic(sourceFile, replicaFile, e.fp, sourceDigest)
		if err != nil {
			return reconcileErr(replicaFile, err)
		}
		result.Updated++
		slog.Info("sync", "op", OpUpdate, "path", relPath, "size", humanize.Bytes(uint64(written)))
	}

	return nil
}
