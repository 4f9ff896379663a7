package sync

import (
	"slices"

	gitignore "github.com/sabhiram/go-gitignore"
)

// The replica lock lives inside the replica root; it must never be removed
// as a stale entry.
var defaultIgnoreLines = []string{
	".synchronizer.lock",
}

// IgnoreList filters paths that a pass must not touch: never walked on the
// source side, never deleted on the replica side. Patterns use gitignore
// syntax and match tree-relative paths.
type IgnoreList struct {
	matcher *gitignore.GitIgnore
}

func NewIgnoreList(patterns ...string) *IgnoreList {
	lines := append(slices.Clone(defaultIgnoreLines), patterns...)
	return &IgnoreList{matcher: gitignore.CompileIgnoreLines(lines...)}
}

func (l *IgnoreList) Match(relPath string) bool {
	if l == nil || l.matcher == nil {
		return false
	}
	return l.matcher.MatchesPath(relPath)
}
