package handlestore

import (
	"context"
	"reflect"

	"golang.org/x/exp/constraints"
)

// Builder builds an element from a constructor key.
type Builder[K comparable, E any] func(key K) E

// Index deduplicates construction of elements from keys of type K.
//
// Constructing the same key twice returns the same handle; the element is
// built once. Each key type has its own Index, so keys of different types
// never collide even when their values look alike.
type Index[E any, U constraints.Unsigned, K comparable] struct {
	reg   *Registry[E, U]
	build Builder[K, E]

	typ     reflect.Type
	name    string
	dynamic bool // K holds interface values that may not be hashable

	handles map[K]Handle[U]
	keys    map[Handle[U]]K
}

// NewIndex attaches an index for key type K to r.
//
// Indices must be attached before the registry stores its first element;
// afterwards NewIndex fails with ErrSealed. A second index for the same key
// type fails with ErrDuplicateIndex.
func NewIndex[E any, U constraints.Unsigned, K comparable](r *Registry[E, U], build Builder[K, E]) (*Index[E, U, K], error) {
	if r == nil {
		return nil, ErrNilRegistry
	}
	if build == nil {
		return nil, ErrNilBuilder
	}

	typ := reflect.TypeOf((*K)(nil)).Elem()
	x := &Index[E, U, K]{
		reg:     r,
		build:   build,
		typ:     typ,
		name:    typ.String(),
		dynamic: holdsInterface(typ),
		handles: make(map[K]Handle[U], r.opts.sizeHint),
		keys:    make(map[Handle[U]]K, r.opts.sizeHint),
	}
	if err := r.attach(x); err != nil {
		return nil, &KeyError{KeyType: x.name, Err: err}
	}
	return x, nil
}

// MustIndex is like NewIndex but panics on error.
// Useful when defining a registry at package level.
func MustIndex[E any, U constraints.Unsigned, K comparable](r *Registry[E, U], build Builder[K, E]) *Index[E, U, K] {
	x, err := NewIndex(r, build)
	if err != nil {
		panic(err)
	}
	return x
}

// Registry returns the registry the index is attached to.
func (x *Index[E, U, K]) Registry() *Registry[E, U] {
	return x.reg
}

// Construct returns the handle for key, building and storing an element on
// the first request.
//
// If the built element is invalid, Construct returns the null handle and a
// nil error; the key is not remembered, so a later call builds again.
// If the registry is full, Construct fails with ErrFull and nothing is
// stored or indexed. Keys already indexed are still served when full.
func (x *Index[E, U, K]) Construct(key K) (Handle[U], error) {
	return x.ConstructContext(context.Background(), key)
}

// ConstructContext is Construct with a context for metrics and span events.
func (x *Index[E, U, K]) ConstructContext(ctx context.Context, key K) (Handle[U], error) {
	if x.dynamic && !hashable(key) {
		return Handle[U]{}, &KeyError{KeyType: x.name, Err: ErrUncomparableKey}
	}

	r := x.reg
	if h, ok := x.handles[key]; ok {
		r.hit(ctx, x.name, h)
		return h, nil
	}
	r.miss(ctx, x.name)

	if r.next.full() {
		return Handle[U]{}, r.fullError(ctx, x.name)
	}

	e := x.build(key)
	if !r.valid(e) {
		r.rejected(ctx, x.name)
		return Handle[U]{}, nil
	}

	h := r.commit(ctx, e, x, x.name)
	x.handles[key] = h
	x.keys[h] = key
	return h, nil
}

// Lookup returns the handle indexed for key without building anything.
func (x *Index[E, U, K]) Lookup(key K) (Handle[U], bool) {
	if x.dynamic && !hashable(key) {
		return Handle[U]{}, false
	}
	h, ok := x.handles[key]
	return h, ok
}

// Len returns the number of indexed keys.
func (x *Index[E, U, K]) Len() int {
	return len(x.handles)
}

func (x *Index[E, U, K]) keyType() reflect.Type {
	return x.typ
}

func (x *Index[E, U, K]) forget(h Handle[U]) bool {
	key, ok := x.keys[h]
	if !ok {
		return false
	}
	delete(x.keys, h)
	if cur, ok := x.handles[key]; ok && cur == h {
		delete(x.handles, key)
	}
	return true
}

func (x *Index[E, U, K]) reset() int {
	n := len(x.handles)
	clear(x.handles)
	clear(x.keys)
	return n
}

// holdsInterface reports whether values of t can carry interface values,
// whose dynamic types decide hashability at run time.
func holdsInterface(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Array:
		return holdsInterface(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if holdsInterface(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// hashable reports whether key can be used as a map key without panicking.
func hashable[K comparable](key K) bool {
	return hashableValue(reflect.ValueOf(&key).Elem())
}

func hashableValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return true
		}
		return hashableValue(v.Elem())
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !hashableValue(v.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !hashableValue(v.Field(i)) {
				return false
			}
		}
		return true
	default:
		return v.Type().Comparable()
	}
}
