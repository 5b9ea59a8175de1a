/*
Package handlestore provides an in-memory store that hands out opaque,
typed handles to its elements and deduplicates construction by key.

# Overview

A Registry owns elements of one type E and addresses them with Handle[U],
where U is an unsigned integer type. Handles are allocated from 1 upwards
and are never reused by the same registry; the zero Handle is the null
handle and never refers to an element. When the counter reaches the largest
value of U the registry is full and further allocations fail with ErrFull.

An Index attached to the registry builds elements from keys of one type K
and remembers which handle each key produced, so equal keys share one
element. A registry can carry one Index per key type; keys of different
types never collide.

# Basic Usage

	type Style struct {
	    Font string
	    Size float64
	}

	type ByName string

	type BySize struct{ Pt float64 }

	reg := handlestore.New[Style, uint32]()
	names := handlestore.MustIndex(reg, func(k ByName) Style {
	    return Style{Font: string(k), Size: 12}
	})
	sizes := handlestore.MustIndex(reg, func(k BySize) Style {
	    return Style{Font: "sans", Size: k.Pt}
	})

	h1, _ := names.Construct("serif") // builds, handle 1
	h2, _ := sizes.Construct(BySize{Pt: 10}) // builds, handle 2
	h3, _ := names.Construct("serif") // h3 == h1, nothing built

	style, ok := reg.Get(h1)

Indices must be attached before the registry stores its first element.

# Rejected Construction

If E implements Validator, an element whose Valid method returns false right
after it is built is not stored. Add and Construct return the null handle
with a nil error; no handle value is consumed and the key is not indexed,
so constructing the same key later tries again:

	h, err := idx.Construct(key)
	if err != nil {
	    return err // ErrFull
	}
	if h.IsNull() {
	    // rejected
	}

# Destroy and Dedup Indices

Destroy removes one element. With the default PurgeOnDestroy policy the
index entry that produced the handle is removed with it, and the next
Construct for that key builds a new element under a new handle.

RetainOnDestroy keeps index entries until Clear: Construct then returns
the destroyed handle, and Get reports it absent. Use it only when callers
expect keys to stay bound to their first handle.

Clear removes all elements and index entries but keeps the handle counter.

# Observability

Registries log through an optional *slog.Logger, record OpenTelemetry
metrics through an optional observability.MetricsRecorder, and add span
events to the span carried by the context passed to AddContext or
ConstructContext.

# Thread Safety

A Registry and its indices are not safe for concurrent use. Pointers from
Ref must not be kept across Destroy or Clear of the same handle.
*/
package handlestore
