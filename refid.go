package hamt

import (
	"reflect"
	"sync"
)

// refTable assigns stable process-lifetime int32 identities to opaque
// values (channels, functions, pointers) that have no other admissible
// hash. Keyed by pointer identity rather than by the value itself,
// because func values are not comparable and cannot be used as Go map
// keys directly.
var refTable = struct {
	mu   sync.Mutex
	ids  map[uintptr]int32
	next int32
}{
	ids: make(map[uintptr]int32),
}

// referenceID returns v's identity, assigning the next sequential id on
// first sight. The counter wraps to 0 on overflow past the largest
// positive int32, per spec.
func referenceID(v any) int32 {
	ptr := reflect.ValueOf(v).Pointer()

	refTable.mu.Lock()
	defer refTable.mu.Unlock()

	if id, ok := refTable.ids[ptr]; ok {
		return id
	}

	id := refTable.next
	refTable.next++
	if refTable.next < 0 {
		refTable.next = 0
	}
	refTable.ids[ptr] = id
	return id
}
