package cache

import (
	"math"
	"reflect"
	"unicode/utf8"
)

// SizeKB returns an approximate size of the whole mapping in kilobytes,
// computed by walking every key and stored value with EstimateKB's rules.
// It is an estimate: container and bookkeeping overhead is not counted, and
// nothing enforces it against the advisory MaxSizeKB option. No expiration
// sweep runs first.
func (c *Cache) SizeKB() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[visit]bool)
	bytes := 0
	for k, e := range c.items {
		bytes += 2 * utf8.RuneCountInString(k)
		bytes += estimateBytes(reflect.ValueOf(e.value), seen)
	}
	return roundKB(bytes)
}

// EstimateKB approximates the in-memory footprint of an arbitrary value in
// kilobytes: booleans cost 4 bytes, numbers 8, strings 2 per character, and
// composite values are traversed recursively. Each distinct object reference
// is visited at most once, so cyclic structures terminate. Kinds with no
// enumerable contents (channels, functions) cost nothing.
func EstimateKB(v any) int {
	return roundKB(estimateBytes(reflect.ValueOf(v), make(map[visit]bool)))
}

// visit identifies an object reference during traversal. The type is part of
// the identity because distinct values can share an address (a struct and its
// first field, a slice and its backing array).
type visit struct {
	ptr uintptr
	typ reflect.Type
}

func estimateBytes(v reflect.Value, seen map[visit]bool) int {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.Bool:
		return 4

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return 8

	case reflect.String:
		return 2 * utf8.RuneCountInString(v.String())

	case reflect.Pointer:
		if v.IsNil() || !mark(v, seen) {
			return 0
		}
		return estimateBytes(v.Elem(), seen)

	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return estimateBytes(v.Elem(), seen)

	case reflect.Slice:
		if v.IsNil() || !mark(v, seen) {
			return 0
		}
		return sumElems(v, seen)

	case reflect.Array:
		return sumElems(v, seen)

	case reflect.Map:
		if v.IsNil() || !mark(v, seen) {
			return 0
		}
		total := 0
		for iter := v.MapRange(); iter.Next(); {
			total += estimateBytes(iter.Key(), seen)
			total += estimateBytes(iter.Value(), seen)
		}
		return total

	case reflect.Struct:
		// The struct itself is free; only its fields cost anything.
		total := 0
		for i := 0; i < v.NumField(); i++ {
			total += estimateBytes(v.Field(i), seen)
		}
		return total

	default:
		// Chan, Func, UnsafePointer: opaque, no enumerable contents.
		return 0
	}
}

func sumElems(v reflect.Value, seen map[visit]bool) int {
	total := 0
	for i := 0; i < v.Len(); i++ {
		total += estimateBytes(v.Index(i), seen)
	}
	return total
}

// mark records a reference and reports whether it was seen for the first
// time.
func mark(v reflect.Value, seen map[visit]bool) bool {
	id := visit{ptr: v.Pointer(), typ: v.Type()}
	if seen[id] {
		return false
	}
	seen[id] = true
	return true
}

func roundKB(bytes int) int {
	return int(math.Round(float64(bytes) / 1024))
}
