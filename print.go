package hamt

import "strings"

// writeNode renders n and its descendants to b, one line per non-empty
// node, indented two spaces per depth, per spec.md ss4.7. A nil n (the
// empty map's root, or a vacant array slot) emits nothing. Grounded on
// the teacher's LongString(indent, depth) convention (hamt.go).
func writeNode(b *strings.Builder, n node, depth int) {
	if n == nil {
		return
	}

	indent := strings.Repeat("  ", depth)

	switch t := n.(type) {
	case *leafNode:
		b.WriteString(indent)
		b.WriteString("-")
		b.WriteString(t.String())
		b.WriteString("\n")

	case *collisionNode:
		b.WriteString(indent)
		b.WriteString("-")
		b.WriteString(t.String())
		b.WriteString("\n")

	case *packedNode:
		b.WriteString(indent)
		b.WriteString("-")
		b.WriteString(t.String())
		b.WriteString("\n")
		for _, c := range t.children {
			writeNode(b, c, depth+1)
		}

	case *arrayNode:
		b.WriteString(indent)
		b.WriteString("-")
		b.WriteString(t.String())
		b.WriteString("\n")
		for _, c := range t.children {
			writeNode(b, c, depth+1)
		}

	default:
		invariantf("writeNode: unknown node type %T", n)
	}
}
