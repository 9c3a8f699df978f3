package hamt

import (
	"math"
	"math/big"
	"reflect"
	"time"
)

// Fixed sentinel hashes for the handful of values that do not carry their
// own bit pattern.
const (
	hashNull      int32 = 0x42108422
	hashUndefined int32 = 0x42108423
	hashTrue      int32 = 0x42108421
	hashFalse     int32 = 0x42108420
)

// intMultiplier is the odd constant used to mix the high half of a
// reinterpreted IEEE-754 double with its folded form; see hashFloat64.
const intMultiplier int32 = 0x45d9f3b

// HashCoder lets a key type override the library's default structural
// hash. hash(v) calls HashCode first; if it panics, the panic is
// recovered and the default hash is used instead, as spec'd: a raised
// failure in a caller-supplied hashCode falls back to the default, it
// is never propagated.
type HashCoder interface {
	HashCode() int32
}

// hash is the total, deterministic hash function driving the trie. It
// never fails: every admissible value maps to some int32.
func hash(v any) (h int32) {
	if v == nil {
		return hashNull
	}

	if hc, ok := v.(HashCoder); ok {
		out, recovered, ok := callHashCode(hc)
		if ok {
			return out
		}
		logger.Printf("HashCode override panicked, falling back to default hash: %v", recovered)
	}

	switch x := v.(type) {
	case bool:
		if x {
			return hashTrue
		}
		return hashFalse
	case string:
		return hashString(x)
	case *big.Int:
		if x == nil {
			return hashNull
		}
		return hashString(x.String())
	case big.Int:
		return hashString(x.String())
	case time.Time:
		return hashFloat64(float64(x.UnixMilli()))
	}

	rv := reflect.ValueOf(v)
	return hashReflect(rv)
}

// callHashCode invokes a HashCoder's override, recovering any panic so a
// misbehaving override can never fail a map operation. The recovered
// value is returned so the caller can log it, per SPEC_FULL.md §7.
func callHashCode(hc HashCoder) (out int32, recovered any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			recovered = r
			ok = false
		}
	}()
	return hc.HashCode(), nil, true
}

func hashReflect(rv reflect.Value) int32 {
	switch rv.Kind() {
	case reflect.Invalid:
		return hashNull

	case reflect.Bool:
		if rv.Bool() {
			return hashTrue
		}
		return hashFalse

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return hashFloat64(float64(rv.Int()))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return hashFloat64(float64(rv.Uint()))

	case reflect.Float32, reflect.Float64:
		return hashFloat64(rv.Float())

	case reflect.String:
		return hashString(rv.String())

	case reflect.Slice, reflect.Array:
		return hashSequence(rv)

	case reflect.Map:
		return hashMap(rv)

	case reflect.Struct:
		return hashStruct(rv)

	case reflect.Ptr:
		if rv.IsNil() {
			return hashNull
		}
		// A pointer is opaque: two distinct pointers to equal-looking
		// structs are still distinct keys unless the caller's equality
		// predicate says otherwise, so identity is what must hash.
		return hashRef(rv.Interface())

	case reflect.Interface:
		if rv.IsNil() {
			return hashNull
		}
		return hashReflect(rv.Elem())

	default:
		// Chan, Func, UnsafePointer, and anything else opaque.
		return hashRef(rv.Interface())
	}
}

// hashFloat64 reinterprets the IEEE-754 bit pattern of f as two 32-bit
// halves and mixes them per spec.md ss4.2. math.Float64bits gives a
// platform-independent bit pattern, so the split below is consistent
// regardless of host endianness.
func hashFloat64(f float64) int32 {
	bits := math.Float64bits(f)
	i := int32(bits >> 32)
	j := int32(bits & 0xffffffff)
	return (intMultiplier * ((i >> 16) ^ i)) ^ j
}

// hashString is the standard 31-multiplier fold over codepoints.
func hashString(s string) int32 {
	var h int32
	for _, c := range s {
		h = 31*h + int32(c)
	}
	return h
}

// hashSequence folds an ordered collection (slice, array, byte buffer).
func hashSequence(rv reflect.Value) int32 {
	var h int32
	n := rv.Len()
	for i := 0; i < n; i++ {
		h = 31*h + hash(rv.Index(i).Interface())
	}
	return h
}

// hashMap dispatches on the map's value type: a zero-size value type
// (the idiomatic Go encoding of a set, map[T]struct{}) hashes as an
// unordered set of its keys; anything else hashes as an unordered
// mapping of key/value pairs.
func hashMap(rv reflect.Value) int32 {
	if rv.IsNil() {
		return hashNull
	}

	if rv.Type().Elem().Size() == 0 {
		return hashSet(rv)
	}

	var h int32
	iter := rv.MapRange()
	for iter.Next() {
		k := hash(iter.Key().Interface())
		v := hash(iter.Value().Interface())
		h = h + merge(v, k)
	}
	return h
}

func hashSet(rv reflect.Value) int32 {
	var h int32
	iter := rv.MapRange()
	for iter.Next() {
		h = h + hash(iter.Key().Interface())
	}
	return h
}

// hashStruct hashes a record (named-field container) as an ordered fold
// over its exported fields in declaration order, each mixed with the hash
// of its field name. Unexported fields are skipped.
func hashStruct(rv reflect.Value) int32 {
	t := rv.Type()
	var h int32
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)
		h = h + merge(hash(fv.Interface()), hashString(field.Name))
	}
	return h
}

// merge is the non-commutative mixer used to combine two sub-hashes,
// e.g. a map's key and value, or a record field's name and value.
func merge(a, b int32) int32 {
	const goldenRatio32 int32 = -0x61c88647 // 0x9e3779b9 as a signed int32
	return a ^ (b + goldenRatio32 + (a << 6) + (a >> 2))
}

// hashRef assigns a stable, process-lifetime integer identity to an
// opaque value (anything that is neither a recognized scalar nor a
// recognized compound shape: channels, functions, and pointers). The id
// itself, not a further mix of it, is the value's hash.
func hashRef(v any) int32 {
	return referenceID(v)
}
