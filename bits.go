package hamt

// The number of bits consumed from a hash at each level of the trie. By
// logical necessity this MUST be 5 bits because 2^5 == 32; the number of
// child slots in a full interior node.
const nbits uint = 5

// tableCapacity is the number of child slots in a dense (array) node;
// 2^5 == 32.
const tableCapacity uint = 1 << nbits

// maxChildrenInPacked is the point at which a sparse (packed) node is
// promoted to a dense (array) node: once a packed node would hold more
// than half of tableCapacity children, the bitmap indirection costs more
// than it saves.
const maxChildrenInPacked = 16

// maxDepth is the deepest level at which an interior node can sit. A hash
// splits into ceil(32/5) == 7 fragments, the 7th with only two significant
// bits (32 - 6*5 == 2), so interior depths run 0..6 and a terminal node
// sits at depth 7 at the deepest.
const maxDepth uint = 6

// fragment extracts the 5-bit slice of hash selecting a child at the
// given shift (shift == 5*depth). The shift is logical (unsigned); hash
// is treated as a 32-bit bit pattern regardless of sign.
func fragment(shift uint, hash int32) uint {
	return uint(uint32(hash)>>shift) & 0b11111
}

// mask returns a bitmap with exactly bit f set.
func mask(f uint) uint32 {
	return uint32(1) << f
}

// popcount32 returns the number of set bits in x using the classic
// folded-shift (SWAR) technique: no multiplication, no table lookup,
// constant time regardless of input.
func popcount32(x uint32) uint {
	x = x - ((x >> 1) & 0x55555555)
	x = (x & 0x33333333) + ((x >> 2) & 0x33333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f
	x = x + (x >> 8)
	x = x + (x >> 16)
	return uint(x & 0x3f)
}
