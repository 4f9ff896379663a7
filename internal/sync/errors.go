package sync

import "fmt"

// ErrorKind identifies the phase of a pass that failed.
type ErrorKind uint8

const (
	KindTraversal ErrorKind = iota
	KindStructure
	KindDeletion
	KindReconcile
)

var errorKindNames = []string{
	"traversal",
	"structure",
	"deletion",
	"reconcile",
}

func (k ErrorKind) String() string {
	return errorKindNames[k]
}

// PassError wraps a filesystem failure with the phase it occurred in and the
// path it occurred on. Any PassError aborts the current pass; the next pass
// re-attempts everything from scratch.
type PassError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("%s error at %s: %v", e.Kind, e.Path, e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}

func traversalErr(path string, err error) *PassError {
	return &PassError{Kind: KindTraversal, Path: path, Err: err}
}

func structureErr(path string, err error) *PassError {
	return &PassError{Kind: KindStructure, Path: path, Err: err}
}

func deletionErr(path string, err error) *PassError {
	return &PassError{Kind: KindDeletion, Path: path, Err: err}
}

func reconcileErr(path string, err error) *PassError {
	return &PassError{Kind: KindReconcile, Path: path, Err: err}
}
