package handlestore

import (
	"context"
	"reflect"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/constraints"

	"github.com/randalmurphal/handlestore/pkg/handlestore/observability"
)

// opAdd is the source name recorded for elements inserted with Add.
const opAdd = "add"

// Validator is implemented by element types that can be invalid right after
// construction. A registry over such a type never stores an element whose
// Valid method returns false.
type Validator interface {
	Valid() bool
}

var validatorType = reflect.TypeOf((*Validator)(nil)).Elem()

// indexer is the type-erased view of an Index held by its registry.
type indexer[U constraints.Unsigned] interface {
	keyType() reflect.Type
	// forget drops the entry that produced h, reporting whether one existed.
	forget(h Handle[U]) bool
	// reset drops every entry and returns how many there were.
	reset() int
}

// Registry owns elements of type E addressed by handles of width U.
//
// Elements enter the registry through Add or through an Index attached with
// NewIndex. A Registry is not safe for concurrent use.
type Registry[E any, U constraints.Unsigned] struct {
	opts options

	next     Handle[U]
	elements map[Handle[U]]*E
	indices  []indexer[U]
	origin   map[Handle[U]]indexer[U] // handle -> index that committed it

	validates bool
	nilable   bool
	sealed    bool
}

// New creates an empty registry.
func New[E any, U constraints.Unsigned](opts ...Option) *Registry[E, U] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	et := reflect.TypeOf((*E)(nil)).Elem()
	var nilable bool
	switch et.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		nilable = true
	}

	return &Registry[E, U]{
		opts:      o,
		next:      NewHandle[U](1),
		elements:  make(map[Handle[U]]*E, o.sizeHint),
		origin:    make(map[Handle[U]]indexer[U], o.sizeHint),
		validates: et.Implements(validatorType),
		nilable:   nilable,
	}
}

// Name returns the registry name.
func (r *Registry[E, U]) Name() string {
	return r.opts.name
}

// Get returns a copy of the element for h.
// It reports false for the null handle and for handles not in the registry.
func (r *Registry[E, U]) Get(h Handle[U]) (E, bool) {
	p, ok := r.Ref(h)
	if !ok {
		var zero E
		return zero, false
	}
	return *p, true
}

// Ref returns a pointer to the stored element for h, for in-place mutation.
// The pointer must not be used after h is destroyed or the registry cleared.
func (r *Registry[E, U]) Ref(h Handle[U]) (*E, bool) {
	if h.IsNull() {
		return nil, false
	}
	p, ok := r.elements[h]
	return p, ok
}

// Has reports whether h refers to a live element.
func (r *Registry[E, U]) Has(h Handle[U]) bool {
	_, ok := r.Ref(h)
	return ok
}

// Len returns the number of live elements.
func (r *Registry[E, U]) Len() int {
	return len(r.elements)
}

// Remaining returns how many handles can still be allocated.
func (r *Registry[E, U]) Remaining() U {
	return Cap[U]() - r.next.Value()
}

// Add stores an already built element and returns its new handle.
//
// Add fails with ErrFull when the handle counter is exhausted. If E
// implements Validator and e is not valid, Add returns the null handle and a
// nil error without consuming a handle value.
func (r *Registry[E, U]) Add(e E) (Handle[U], error) {
	return r.AddContext(context.Background(), e)
}

// AddContext is Add with a context for metrics and span events.
func (r *Registry[E, U]) AddContext(ctx context.Context, e E) (Handle[U], error) {
	if r.next.full() {
		return Handle[U]{}, r.fullError(ctx, opAdd)
	}
	if !r.valid(e) {
		r.rejected(ctx, opAdd)
		return Handle[U]{}, nil
	}
	return r.commit(ctx, e, nil, opAdd), nil
}

// Destroy removes the element for h and reports whether it was present.
//
// Under PurgeOnDestroy the index entry that produced h is dropped as well.
// Under RetainOnDestroy it is kept, so constructing the same key again
// returns h, which is no longer present.
func (r *Registry[E, U]) Destroy(h Handle[U]) bool {
	if h.IsNull() {
		return false
	}
	if _, ok := r.elements[h]; !ok {
		return false
	}
	delete(r.elements, h)

	purged := false
	if idx, ok := r.origin[h]; ok {
		delete(r.origin, h)
		if r.opts.policy == PurgeOnDestroy {
			purged = idx.forget(h)
		}
	}

	r.opts.metrics.RecordRelease(context.Background(), r.opts.name, 1)
	observability.LogDestroy(r.opts.logger, r.opts.name, uint64(h.Value()), purged)
	return true
}

// Clear drops every element and every index entry.
// The handle counter is not reset: handles issued before Clear are never
// issued again.
func (r *Registry[E, U]) Clear() {
	released := len(r.elements)
	entries := 0
	for _, idx := range r.indices {
		entries += idx.reset()
	}
	clear(r.elements)
	clear(r.origin)

	if released > 0 {
		r.opts.metrics.RecordRelease(context.Background(), r.opts.name, released)
	}
	observability.LogClear(r.opts.logger, r.opts.name, released, entries)
}

// attach registers an index. Indices can only be attached while the
// registry has never stored an element, and only one per key type.
func (r *Registry[E, U]) attach(idx indexer[U]) error {
	if r.sealed {
		return ErrSealed
	}
	for _, existing := range r.indices {
		if existing.keyType() == idx.keyType() {
			return ErrDuplicateIndex
		}
	}
	r.indices = append(r.indices, idx)
	observability.LogIndexAttached(r.opts.logger, r.opts.name, idx.keyType().String())
	return nil
}

// valid reports whether e may be stored.
func (r *Registry[E, U]) valid(e E) bool {
	if !r.validates {
		return true
	}
	if r.nilable {
		v := reflect.ValueOf(&e).Elem()
		if v.IsNil() {
			return false
		}
	}
	return any(e).(Validator).Valid()
}

// commit allocates the next handle and stores e under it.
// The caller has already checked capacity and validity.
func (r *Registry[E, U]) commit(ctx context.Context, e E, idx indexer[U], source string) Handle[U] {
	h := r.next.alloc()
	r.elements[h] = &e
	if idx != nil {
		r.origin[h] = idx
	}
	r.sealed = true

	r.opts.metrics.RecordAllocation(ctx, r.opts.name, source)
	observability.LogCommit(r.opts.logger, r.opts.name, source, uint64(h.Value()))
	observability.AddSpanEvent(ctx, observability.EventCommit,
		attribute.String("registry", r.opts.name),
		attribute.String("source", source),
		attribute.Int64("handle", int64(h.Value())),
	)
	return h
}

// hit records a dedup index hit.
func (r *Registry[E, U]) hit(ctx context.Context, source string, h Handle[U]) {
	r.opts.metrics.RecordLookup(ctx, r.opts.name, source, true)
	observability.LogHit(r.opts.logger, r.opts.name, source, uint64(h.Value()))
	observability.AddSpanEvent(ctx, observability.EventHit,
		attribute.String("registry", r.opts.name),
		attribute.String("source", source),
		attribute.Int64("handle", int64(h.Value())),
	)
}

// miss records a dedup index miss.
func (r *Registry[E, U]) miss(ctx context.Context, source string) {
	r.opts.metrics.RecordLookup(ctx, r.opts.name, source, false)
}

// rejected records an element that failed validation.
func (r *Registry[E, U]) rejected(ctx context.Context, source string) {
	r.opts.metrics.RecordRejection(ctx, r.opts.name, source)
	observability.LogRejected(r.opts.logger, r.opts.name, source)
	observability.AddSpanEvent(ctx, observability.EventRejected,
		attribute.String("registry", r.opts.name),
		attribute.String("source", source),
	)
}

// fullError records and returns a capacity exhaustion error.
func (r *Registry[E, U]) fullError(ctx context.Context, source string) error {
	err := &FullError{
		Registry: r.opts.name,
		Cap:      uint64(Cap[U]()),
		Op:       source,
	}
	r.opts.metrics.RecordFull(ctx, r.opts.name, source)
	observability.LogFull(r.opts.logger, r.opts.name, source, err.Cap)
	observability.RecordSpanError(ctx, err)
	return err
}
