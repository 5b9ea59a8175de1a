package handlestore

import (
	"strconv"

	"golang.org/x/exp/constraints"
)

// Handle is an opaque reference to an element stored in a Registry.
//
// The zero value is the null handle and never refers to a live element.
// Handles are comparable and can be used directly as map keys.
type Handle[U constraints.Unsigned] struct {
	v U
}

// NewHandle wraps a raw value. NewHandle(0) is the null handle.
func NewHandle[U constraints.Unsigned](v U) Handle[U] {
	return Handle[U]{v: v}
}

// Cap returns the largest value representable by U.
// A registry whose counter reaches Cap is full.
func Cap[U constraints.Unsigned]() U {
	return ^U(0)
}

// Value returns the raw value of the handle.
func (h Handle[U]) Value() U {
	return h.v
}

// IsNull reports whether h is the null handle.
func (h Handle[U]) IsNull() bool {
	return h.v == 0
}

// String returns the decimal value, or "null" for the null handle.
func (h Handle[U]) String() string {
	if h.v == 0 {
		return "null"
	}
	return strconv.FormatUint(uint64(h.v), 10)
}

// alloc returns the current value and advances h by one.
func (h *Handle[U]) alloc() Handle[U] {
	cur := *h
	h.v++
	return cur
}

// full reports whether no further handles can be allocated after h.
func (h Handle[U]) full() bool {
	return h.v == Cap[U]()
}
