package handlestore

import (
	"context"
	"fmt"
)

// Shape is a plain element type without validation.
type Shape struct {
	X    int
	Y    bool
	Name string
}

// KeyA and KeyB are constructor keys for Shape.
type KeyA struct{ X int }

type KeyB struct{ Y bool }

// NameA and NameB share an underlying type but index separately.
type NameA string

type NameB string

// Checked is an element type that can be invalid after construction.
type Checked struct {
	N  int
	ok bool
}

func (c Checked) Valid() bool { return c.ok }

// Node validates through a pointer receiver.
type Node struct {
	ok bool
}

func (n *Node) Valid() bool { return n.ok }

// counter counts builder invocations.
type counter struct {
	calls int
}

func (c *counter) shapeFromA(k KeyA) Shape {
	c.calls++
	return Shape{X: k.X, Name: fmt.Sprintf("a%d", k.X)}
}

func (c *counter) shapeFromB(k KeyB) Shape {
	c.calls++
	return Shape{Y: k.Y, Name: fmt.Sprintf("b%t", k.Y)}
}

// checkedFromInt builds a Checked that is valid only for positive keys.
func (c *counter) checkedFromInt(k int) Checked {
	c.calls++
	return Checked{N: k, ok: k > 0}
}

// recordingMetrics captures MetricsRecorder calls.
type recordingMetrics struct {
	allocations []string
	hits        int
	misses      int
	rejections  []string
	full        []string
	released    int
}

func (m *recordingMetrics) RecordAllocation(_ context.Context, _, source string) {
	m.allocations = append(m.allocations, source)
}

func (m *recordingMetrics) RecordLookup(_ context.Context, _, _ string, hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *recordingMetrics) RecordRejection(_ context.Context, _, source string) {
	m.rejections = append(m.rejections, source)
}

func (m *recordingMetrics) RecordFull(_ context.Context, _, source string) {
	m.full = append(m.full, source)
}

func (m *recordingMetrics) RecordRelease(_ context.Context, _ string, count int) {
	m.released += count
}

// fill allocates handles with Add until r is full.
func fill[E any, U interface{ ~uint8 | ~uint16 }](r *Registry[E, U], e E) int {
	n := 0
	for r.Remaining() > 0 {
		if _, err := r.Add(e); err != nil {
			panic(err)
		}
		n++
	}
	return n
}
