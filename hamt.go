/*
Package hamt implements a persistent, immutable associative map keyed by
arbitrary values, using a Hash Array Mapped Trie (HAMT). Every mutating
operation (Insert, Remove) returns a new Map that shares structure with
its predecessor; the original Map is left valid and unchanged.

A Map routes lookups by splitting a key's 32-bit hash into 5-bit
fragments, one per level of the trie. Interior nodes start out sparse
(bitmap-indexed, holding 1..16 children) and are promoted to a dense,
directly-indexed 32-slot representation once they outgrow the bitmap's
sweet spot. Terminal nodes are a leaf for an unshared hash, or a
collision for two or more keys that happen to hash identically.

This is a generalization, to an any-keyed map and a 32-bit/5-bit-fragment
hash, of github.com/lleo/go-hamt-functional's []byte-keyed, 64-bit/6-bit
HAMT.
*/
package hamt

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// tableStrategy selects how a Map's interior nodes grow. See Options.
type tableStrategy int

const (
	gradePacked tableStrategy = iota
	alwaysArray
)

// Options selects the interior-node growth strategy a Map uses for every
// subsequent Insert. It generalizes the teacher's package-level
// GradeTables/FullTableInit switches (hamt32/main_test.go) into a value
// attached to each Map, so two Maps with different strategies coexist
// safely in one process, unlike the teacher's mutually-exclusive
// globals.
type Options struct {
	strategy tableStrategy
}

// GradePacked is the default strategy: interior nodes start as sparse,
// bitmap-indexed packed nodes and promote to a dense array node once
// they exceed maxChildrenInPacked (16) children, per spec.md ss4.3.
var GradePacked = Options{strategy: gradePacked}

// AlwaysArray allocates every interior node as a dense, 32-slot array
// node immediately. It trades memory for eliminating the bitmap
// indirection on every lookup; every invariant in spec.md ss3 still
// holds, including for a single-child array node, which is simply
// memory-wasteful rather than illegal.
var AlwaysArray = Options{strategy: alwaysArray}

// packedLimit is the number of children a packed node may hold before
// the next insert promotes it to an array node. AlwaysArray reports 0,
// which buildInterior/alterPacked treat as "never stay packed".
func (o Options) packedLimit() uint {
	if o.strategy == alwaysArray {
		return 0
	}
	return maxChildrenInPacked
}

// Map is the top-level, persistent, immutable associative map.
type Map struct {
	root node
	size int
	opts Options
}

// Empty returns a new, empty Map using the default GradePacked growth
// strategy.
func Empty() Map {
	return Map{opts: GradePacked}
}

// NewWithOptions returns a new, empty Map that will grow its interior
// nodes according to opts for every subsequent Insert.
func NewWithOptions(opts Options) Map {
	return Map{opts: opts}
}

// IsEmpty reports whether m holds no entries.
func (m Map) IsEmpty() bool {
	return m.size == 0
}

// Size returns the number of key/value pairs in m. O(1).
func (m Map) Size() int {
	return m.size
}

// Insert returns a new Map with key bound to value. If key is already
// present, its value is overwritten and Size is unchanged; otherwise
// Size increases by one. m itself is left unmodified.
func (m Map) Insert(key, value any) Map {
	keyHash := hash(key)
	inserted := false

	decide := func(cur Lookup) AlterOp {
		if _, found := cur.Found(); !found {
			inserted = true
		}
		return InsertOp(value)
	}

	newRoot := alter(0, m.root, key, keyHash, decide, m.opts)

	size := m.size
	if inserted {
		size++
	}
	return Map{root: newRoot, size: size, opts: m.opts}
}

// Remove returns a new Map with key absent. If key was not present, the
// original Map is returned (same root, same size) rather than an
// equivalent copy. m itself is left unmodified.
func (m Map) Remove(key any) Map {
	keyHash := hash(key)
	removed := false

	decide := func(cur Lookup) AlterOp {
		if _, found := cur.Found(); found {
			removed = true
		}
		return RemoveOp
	}

	newRoot := alter(0, m.root, key, keyHash, decide, m.opts)
	if !removed {
		return m
	}

	return Map{root: newRoot, size: m.size - 1, opts: m.opts}
}

// Get retrieves the value bound to key. The returned error is
// ErrNotFound, wrapped with the key for diagnostics, when key is
// absent; that is a normal outcome, not a fault.
func (m Map) Get(key any) (any, error) {
	v, ok := find(m.root, key, hash(key))
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "key %v", key)
	}
	return v, nil
}

// Each visits every key/value pair in m in depth-first, bitmap/array
// slot order, calling fn once per entry. Iteration stops early if fn
// returns false. The order is deterministic for a given trie shape but
// is not part of the map's contract (spec.md ss1 Non-goals: "iteration
// order"). Grounded on masslbs-network-schema's Trie.All/Node.all
// depth-first walk.
func (m Map) Each(fn func(key, value any) bool) {
	each(m.root, fn)
}

func each(n node, fn func(key, value any) bool) bool {
	switch t := n.(type) {
	case nil:
		return true
	case *leafNode:
		return fn(t.key, t.value)
	case *collisionNode:
		for _, p := range t.pairs {
			if !fn(p.key, p.value) {
				return false
			}
		}
		return true
	case *packedNode:
		for _, c := range t.children {
			if !each(c, fn) {
				return false
			}
		}
		return true
	case *arrayNode:
		for _, c := range t.children {
			if c == nil {
				continue
			}
			if !each(c, fn) {
				return false
			}
		}
		return true
	default:
		invariantf("each: unknown node type %T", n)
		return false
	}
}

// String renders a short diagnostic summary of m. For the full
// structural dump, see LongString.
func (m Map) String() string {
	return "Map{size: " + strconv.Itoa(m.size) + "}"
}

// LongString renders a depth-first, indented dump of m's trie shape.
// See print.go.
func (m Map) LongString() string {
	var b strings.Builder
	writeNode(&b, m.root, 0)
	return b.String()
}
