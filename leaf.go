package hamt

import (
	"fmt"
	"reflect"
)

// leafNode is the terminal entry for a single key.
type leafNode struct {
	hash  int32
	key   any
	value any
}

func (*leafNode) sealed() {}

func (l *leafNode) String() string {
	return fmt.Sprintf("leaf(k: %v, v: %v)", l.key, l.value)
}

// pair is one key/value entry inside a collisionNode.
type pair struct {
	key   any
	value any
}

// collisionNode is the terminal entry for two or more keys that hash to
// the same 32-bit value. It always holds at least two pairs; a
// collision of length 1 is degenerate and must collapse to a leafNode
// (enforced in alterCollision).
type collisionNode struct {
	hash  int32
	pairs []pair
}

func (*collisionNode) sealed() {}

func (c *collisionNode) String() string {
	return fmt.Sprintf("leaf(%d)", len(c.pairs))
}

// equalKeys is the equality predicate the core needs to drive lookups.
// spec.md treats key equality as an assumed external collaborator; this
// module has no external caller to supply one, so it uses
// reflect.DeepEqual for everything except pointers, which it compares by
// identity instead of by dereferencing: hash.go's hashReflect Ptr case
// (via hashRef/referenceID) hashes a pointer by reference identity, so
// equality must agree or two distinct, equal-valued pointers would be
// equalKeys-equal but hash-unequal, violating spec.md §6's "equality ...
// consistent with the hash".
func equalKeys(a, b any) bool {
	if t := reflect.TypeOf(a); t != nil && t.Kind() == reflect.Ptr {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
