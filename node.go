package hamt

// node is the sealed family of the four non-empty trie node shapes.
// Empty is represented by the nil node interface value rather than a
// fifth implementation, matching how every slot in the teacher's
// compressedTable/fullTable is simply nil when vacant.
type node interface {
	// sealed is unexported so no type outside this package can satisfy
	// node; the type switches in alter/find/print are exhaustive over
	// *leafNode, *collisionNode, *packedNode, *arrayNode, and nil.
	sealed()
}

// Lookup is the argument alter's decision function is called with: either
// there is no current entry for the key (NoValue), or there is one bound
// to Value (Present).
type Lookup struct {
	found bool
	value any
}

// NoValue indicates no entry currently exists for the probed key.
var NoValue = Lookup{}

// Present wraps the value currently bound to the probed key.
func Present(v any) Lookup {
	return Lookup{found: true, value: v}
}

// Found reports whether the lookup represents an existing entry, and if
// so returns its value.
func (l Lookup) Found() (any, bool) {
	return l.value, l.found
}

// AlterOp is alter's decision function's result: either remove whatever
// is there, or insert/overwrite with a new value. Remove and Insert are
// the two variants, re-expressed from the single dynamically-typed
// sentinel the original algorithm aliases NO_VALUE/PRESENT/INSERT/REMOVE
// to (spec.md ss9).
type AlterOp struct {
	remove bool
	value  any
}

// RemoveOp is the decision "delete whatever entry is here".
var RemoveOp = AlterOp{remove: true}

// InsertOp is the decision "bind the probed key to v".
func InsertOp(v any) AlterOp {
	return AlterOp{value: v}
}

// decideFunc is alter's caller-supplied hook, invoked at most once per
// alter call. It both decides the write and is the single place a
// map-level size counter is adjusted.
type decideFunc func(Lookup) AlterOp

func newLeaf(h int32, key, value any) *leafNode {
	return &leafNode{hash: h, key: key, value: value}
}

// terminalHash returns the hash of a Leaf or Collision node. Only those
// two variants carry a single hash value; calling this on anything else
// is a kernel bug.
func terminalHash(n node) int32 {
	switch t := n.(type) {
	case *leafNode:
		return t.hash
	case *collisionNode:
		return t.hash
	default:
		invariantf("terminalHash: node is not a terminal (leaf or collision): %T", n)
		panic("unreachable")
	}
}

// alter is the single write primitive behind Insert and Remove. shift is
// the bit offset already consumed (5*depth); keyHash is hash(key). opts
// selects the interior-node growth strategy (SPEC_FULL.md ss4.6) new
// interior nodes are built with; it does not change any invariant, only
// whether a sparse spine node is represented as packed or dense.
func alter(shift uint, n node, key any, keyHash int32, f decideFunc, opts Options) node {
	if shift/nbits > maxDepth+1 {
		invariantf("alter: depth bound exceeded at shift %d (maxDepth %d)", shift, maxDepth)
	}

	switch t := n.(type) {
	case nil:
		return alterEmpty(key, keyHash, f)
	case *leafNode:
		return alterLeaf(shift, t, key, keyHash, f, opts)
	case *collisionNode:
		return alterCollision(shift, t, key, keyHash, f, opts)
	case *packedNode:
		return alterPacked(shift, t, key, keyHash, f, opts)
	case *arrayNode:
		return alterArray(shift, t, key, keyHash, f, opts)
	default:
		invariantf("alter: unknown node type %T", n)
		panic("unreachable")
	}
}

func alterEmpty(key any, keyHash int32, f decideFunc) node {
	op := f(NoValue)
	if op.remove {
		return nil
	}
	return newLeaf(keyHash, key, op.value)
}

func alterLeaf(shift uint, l *leafNode, key any, keyHash int32, f decideFunc, opts Options) node {
	if keyHash == l.hash && equalKeys(key, l.key) {
		op := f(Present(l.value))
		if op.remove {
			return nil
		}
		return newLeaf(l.hash, l.key, op.value)
	}

	op := f(NoValue)
	if op.remove {
		return l
	}
	return mergeLeaves(shift, terminalHash(l), l, keyHash, newLeaf(keyHash, key, op.value), opts)
}

func alterCollision(shift uint, c *collisionNode, key any, keyHash int32, f decideFunc, opts Options) node {
	if keyHash != c.hash {
		op := f(NoValue)
		if op.remove {
			return c
		}
		return mergeLeaves(shift, terminalHash(c), c, keyHash, newLeaf(keyHash, key, op.value), opts)
	}

	for i, p := range c.pairs {
		if equalKeys(key, p.key) {
			op := f(Present(p.value))
			if op.remove {
				if len(c.pairs) == 2 {
					var kept pair
					if i == 0 {
						kept = c.pairs[1]
					} else {
						kept = c.pairs[0]
					}
					return newLeaf(c.hash, kept.key, kept.value)
				}
				pairs := make([]pair, 0, len(c.pairs)-1)
				pairs = append(pairs, c.pairs[:i]...)
				pairs = append(pairs, c.pairs[i+1:]...)
				return &collisionNode{hash: c.hash, pairs: pairs}
			}
			pairs := make([]pair, len(c.pairs))
			copy(pairs, c.pairs)
			pairs[i] = pair{key: key, value: op.value}
			return &collisionNode{hash: c.hash, pairs: pairs}
		}
	}

	op := f(NoValue)
	if op.remove {
		return c
	}
	return mergeLeaves(shift, terminalHash(c), c, keyHash, newLeaf(keyHash, key, op.value), opts)
}

// find performs the read-only iterative descent of spec.md ss4.5.
func find(root node, key any, keyHash int32) (any, bool) {
	shift := uint(0)
	n := root

	for {
		switch t := n.(type) {
		case nil:
			return nil, false

		case *leafNode:
			if keyHash == t.hash && equalKeys(key, t.key) {
				return t.value, true
			}
			return nil, false

		case *collisionNode:
			if keyHash != t.hash {
				return nil, false
			}
			for _, p := range t.pairs {
				if equalKeys(key, p.key) {
					return p.value, true
				}
			}
			return nil, false

		case *packedNode:
			f := fragment(shift, keyHash)
			m := mask(f)
			if t.bitmap&m == 0 {
				return nil, false
			}
			idx := popcount32(t.bitmap & (m - 1))
			n = t.children[idx]
			shift += nbits

		case *arrayNode:
			f := fragment(shift, keyHash)
			n = t.children[f]
			shift += nbits

		default:
			invariantf("find: unknown node type %T", n)
		}
	}
}
