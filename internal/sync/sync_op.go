package sync

import "time"

type OpType uint8

var opTypeNames = []string{
	"Create",
	"Update",
	"Delete",
	"Unchanged",
}

const (
	OpCreate OpType = iota
	OpUpdate
	OpDelete
	OpUnchanged
)

func (op OpType) String() string {
	return opTypeNames[op]
}

// PassResult counts the filesystem operations applied by one pass.
type PassResult struct {
	Dirs      int
	Created   int
	Updated   int
	Deleted   int
	Unchanged int
	Took      time.Duration
}

// Mutations returns the number of replica writes the pass performed. A
// converged replica yields zero on the following pass.
func (r *PassResult) Mutations() int {
	return r.Created + r.Updated + r.Deleted
}
