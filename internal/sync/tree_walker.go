package sync

import (
	"context"
	"os"
	"path/filepath"
)

// DirVisit is one directory yielded by the walker: its path relative to the
// walk root plus the names of its immediate children, split by kind.
type DirVisit struct {
	RelPath string
	Dirs    []string
	Files   []string
}

// TreeWalker enumerates a directory tree depth-first, top-down. Parents are
// always visited before their children, so directory creation on the replica
// side can precede any operation inside that directory.
type TreeWalker struct {
	root   string
	ignore *IgnoreList
}

func NewTreeWalker(root string, ignore *IgnoreList) *TreeWalker {
	return &TreeWalker{root: root, ignore: ignore}
}

// Walk calls visit exactly once per reachable directory, root first with
// RelPath ".". Ignored entries are omitted from the visit and ignored
// directories are not descended into. The context is checked at each
// directory boundary, the only suspension point of a pass. The first error
// stops the walk.
func (w *TreeWalker) Walk(ctx context.Context, visit func(v *DirVisit) error) error {
	return w.walkDir(ctx, ".", visit)
}

func (w *TreeWalker) walkDir(ctx context.Context, rel string, visit func(v *DirVisit) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(filepath.Join(w.root, rel))
	if err != nil {
		return traversalErr(filepath.Join(w.root, rel), err)
	}

	v := &DirVisit{RelPath: rel}
	for _, entry := range entries {
		relPath := filepath.Join(rel, entry.Name())
		if w.ignore.Match(relPath) {
			continue
		}
		if entry.IsDir() {
			v.Dirs = append(v.Dirs, entry.Name())
		} else {
			v.Files = append(v.Files, entry.Name())
		}
	}

	if err := visit(v); err != nil {
		return err
	}

	for _, name := range v.Dirs {
		if err := w.walkDir(ctx, filepath.Join(rel, name), visit); err != nil {
			return err
		}
	}

	return nil
}
