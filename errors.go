package hamt

import (
	"log"
	"os"

	"github.com/pkg/errors"
)

// logger is used only for diagnostics that must never fire on a normal
// Insert/Remove/Get path: its one use is reporting a HashCode override
// that panicked and fell back to the default hash. Invariant panics are
// not logged.
var logger = log.New(os.Stderr, "[hamt] ", log.Lshortfile)

// ErrNotFound is returned by Get when the key is absent. It is a normal
// outcome, not a fault.
var ErrNotFound = errors.New("hamt: key not found")

// invariantf panics with a wrapped, stack-carrying error. It signals a
// defect in the node kernel (a Collision of length 1, a bitmap whose
// popcount disagrees with its children, ...), never a caller mistake.
func invariantf(format string, args ...any) {
	panic(errors.Errorf(format, args...))
}
