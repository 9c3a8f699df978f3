package hamt

import "fmt"

// packedNode is a sparse interior node: a bitmap marking which of the 32
// fragment positions are occupied, and a dense slice of exactly
// popcount(bitmap) children in ascending fragment order. Grounded on the
// teacher's compressedTable (hamt32/compressed_table.go).
type packedNode struct {
	bitmap   uint32
	children []node
}

func (*packedNode) sealed() {}

func (t *packedNode) String() string {
	return fmt.Sprintf("packed(%d)", len(t.children))
}

// arrayNode is a dense interior node: all 32 fragment positions have a
// slot, nil where vacant. Grounded on the teacher's unfinished fullTable
// (hamt.go lines ~515-552), whose copy/get/set/del all stub out `return
// nil`; this module completes what the teacher left as a TODO.
type arrayNode struct {
	size     int
	children [tableCapacity]node
}

func (*arrayNode) sealed() {}

func (t *arrayNode) String() string {
	return fmt.Sprintf("array(%d)", t.size)
}

func alterPacked(shift uint, t *packedNode, key any, keyHash int32, f decideFunc, opts Options) node {
	frag := fragment(shift, keyHash)
	m := mask(frag)
	idx := popcount32(t.bitmap & (m - 1))

	if t.bitmap&m != 0 {
		oldChild := t.children[idx]
		newChild := alter(shift+nbits, oldChild, key, keyHash, f, opts)

		if newChild == oldChild {
			return t
		}

		if newChild == nil {
			if t.bitmap == m {
				return nil
			}
			children := make([]node, len(t.children)-1)
			copy(children, t.children[:idx])
			copy(children[idx:], t.children[idx+1:])
			return &packedNode{bitmap: t.bitmap &^ m, children: children}
		}

		children := make([]node, len(t.children))
		copy(children, t.children)
		children[idx] = newChild
		return &packedNode{bitmap: t.bitmap, children: children}
	}

	op := f(NoValue)
	if op.remove {
		return t
	}

	leaf := newLeaf(keyHash, key, op.value)

	if uint(len(t.children)) >= opts.packedLimit() {
		return promoteToArray(t, frag, leaf)
	}

	children := make([]node, len(t.children)+1)
	copy(children, t.children[:idx])
	children[idx] = leaf
	copy(children[idx+1:], t.children[idx:])
	return &packedNode{bitmap: t.bitmap | m, children: children}
}

// promoteToArray converts a packedNode that has hit its configured limit,
// plus one more leaf, into a dense arrayNode, per spec.md ss4.3.
func promoteToArray(t *packedNode, newFrag uint, newLeaf *leafNode) *arrayNode {
	arr := &arrayNode{size: len(t.children) + 1}
	arr.children[newFrag] = newLeaf

	i := 0
	for bit := uint(0); bit < tableCapacity; bit++ {
		if t.bitmap&mask(bit) != 0 {
			arr.children[bit] = t.children[i]
			i++
		}
	}
	return arr
}

func alterArray(shift uint, t *arrayNode, key any, keyHash int32, f decideFunc, opts Options) node {
	frag := fragment(shift, keyHash)
	c := t.children[frag]

	if c == nil {
		op := f(NoValue)
		if op.remove {
			return t
		}
		children := t.children
		children[frag] = newLeaf(keyHash, key, op.value)
		return &arrayNode{size: t.size + 1, children: children}
	}

	newChild := alter(shift+nbits, c, key, keyHash, f, opts)

	if newChild == c {
		return t
	}

	if newChild == nil {
		if t.size == 1 {
			return nil
		}
		children := t.children
		children[frag] = nil
		return &arrayNode{size: t.size - 1, children: children}
	}

	children := t.children
	children[frag] = newChild
	return &arrayNode{size: t.size, children: children}
}

// mergeLeaves combines two terminal nodes (each a leafNode or
// collisionNode) into a subtree rooted at shift, per spec.md ss4.4. opts
// selects whether the freshly built interior node is a packedNode (the
// default) or, under the AlwaysArray strategy, a dense arrayNode from
// the start (SPEC_FULL.md ss4.6).
func mergeLeaves(shift uint, hashA int32, a node, hashB int32, b node, opts Options) node {
	if hashA == hashB {
		return mergeSameHash(hashA, a, b)
	}

	fA := fragment(shift, hashA)
	fB := fragment(shift, hashB)
	bm := mask(fA) | mask(fB)

	if fA == fB {
		child := mergeLeaves(shift+nbits, hashA, a, hashB, b, opts)
		return buildInterior(opts, bm, []node{child})
	}
	if fA < fB {
		return buildInterior(opts, bm, []node{a, b})
	}
	return buildInterior(opts, bm, []node{b, a})
}

// buildInterior constructs a fresh interior node holding the given
// children, ordered by ascending set bit of bm, as either a packedNode
// or an arrayNode according to opts.
func buildInterior(opts Options, bm uint32, ordered []node) node {
	if opts.packedLimit() == 0 {
		arr := &arrayNode{size: len(ordered)}
		i := 0
		for bit := uint(0); bit < tableCapacity; bit++ {
			if bm&mask(bit) != 0 {
				arr.children[bit] = ordered[i]
				i++
			}
		}
		return arr
	}
	return &packedNode{bitmap: bm, children: ordered}
}

// mergeSameHash builds the collisionNode for two terminals that share a
// hash. The pair order is not observable through Get/Size, only through
// the pretty-printer, but is fixed deterministically per spec.md ss4.4/ss9:
// Collision pairs always precede a merged-in Leaf's single pair; between
// two Leaves, b's pair precedes a's.
func mergeSameHash(h int32, a, b node) *collisionNode {
	aCol, aIsCol := a.(*collisionNode)
	bCol, bIsCol := b.(*collisionNode)

	var pairs []pair
	switch {
	case aIsCol && bIsCol:
		pairs = make([]pair, 0, len(aCol.pairs)+len(bCol.pairs))
		pairs = append(pairs, aCol.pairs...)
		pairs = append(pairs, bCol.pairs...)
	case aIsCol:
		bLeaf := b.(*leafNode)
		pairs = make([]pair, 0, len(aCol.pairs)+1)
		pairs = append(pairs, aCol.pairs...)
		pairs = append(pairs, pair{key: bLeaf.key, value: bLeaf.value})
	case bIsCol:
		aLeaf := a.(*leafNode)
		pairs = make([]pair, 0, len(bCol.pairs)+1)
		pairs = append(pairs, bCol.pairs...)
		pairs = append(pairs, pair{key: aLeaf.key, value: aLeaf.value})
	default:
		aLeaf := a.(*leafNode)
		bLeaf := b.(*leafNode)
		pairs = []pair{
			{key: bLeaf.key, value: bLeaf.value},
			{key: aLeaf.key, value: aLeaf.value},
		}
	}

	return &collisionNode{hash: h, pairs: pairs}
}
