// Package interval_index maps half-open [Low, High) float64 ranges to attached
// values, and answers overlap queries in O(log n + k) time. It adapts the
// red-black interval tree of go.etcd.io/etcd/pkg/v3/adt.
package interval_index

import (
	"fmt"
	"math"

	"go.etcd.io/etcd/pkg/v3/adt"
)

// Range is a half-open interval [Low, High).
type Range struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Overlaps returns true if |r| and |o| share any point. Ranges which merely
// touch at an endpoint do not overlap.
func (r Range) Overlaps(o Range) bool { return r.Low < o.High && r.High > o.Low }

// Covers returns true if |o| lies entirely within |r|.
func (r Range) Covers(o Range) bool { return r.Low <= o.Low && o.High <= r.High }

// Validate returns an error if the Range is empty, inverted, or has a
// non-finite endpoint.
func (r Range) Validate() error {
	if math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) {
		return fmt.Errorf("range has a non-finite endpoint: %s", r)
	} else if r.Low >= r.High {
		return fmt.Errorf("expected Low < High: %s", r)
	}
	return nil
}

func (r Range) String() string { return fmt.Sprintf("[%g, %g)", r.Low, r.High) }

// Entry is a Range and its attached Value.
type Entry[V any] struct {
	Range
	Value V
}

// Index is an interval tree of Entries. Multiple Entries may share a Range.
// An Index is not safe for concurrent use.
type Index[V any] struct {
	tree adt.IntervalTree
}

// New returns an empty Index.
func New[V any]() *Index[V] {
	return &Index[V]{tree: adt.NewIntervalTree()}
}

// Insert adds an Entry of |r| and |v|.
func (x *Index[V]) Insert(r Range, v V) {
	x.tree.Insert(toInterval(r), v)
}

// Len is the number of Entries in the Index.
func (x *Index[V]) Len() int { return x.tree.Len() }

// Overlap returns all Entries which overlap |r|, ordered on ascending Low.
func (x *Index[V]) Overlap(r Range) []Entry[V] {
	var out []Entry[V]

	x.tree.Visit(toInterval(r), func(iv *adt.IntervalValue) bool {
		out = append(out, Entry[V]{Range: fromInterval(iv.Ivl), Value: iv.Val.(V)})
		return true
	})
	return out
}

// RemoveOverlap removes all Entries which overlap |r|, and returns them.
// It's a no-op if no Entry overlaps |r|.
func (x *Index[V]) RemoveOverlap(r Range) []Entry[V] {
	var removed = x.Overlap(r)

	for _, e := range removed {
		// Delete removes one node having exactly this interval. Entries sharing
		// a Range are each deleted by their own iteration.
		if !x.tree.Delete(toInterval(e.Range)) {
			panic(fmt.Sprintf("interval_index: overlapping entry %s not found for removal", e.Range))
		}
	}
	return removed
}

// All returns every Entry of the Index, ordered on ascending Low.
func (x *Index[V]) All() []Entry[V] {
	return x.Overlap(Range{Low: math.Inf(-1), High: math.Inf(1)})
}

// endpoint is an adt.Comparable float64.
type endpoint float64

func (e endpoint) Compare(c adt.Comparable) int {
	var o = c.(endpoint)

	if e < o {
		return -1
	} else if e > o {
		return 1
	}
	return 0
}

func toInterval(r Range) adt.Interval {
	return adt.Interval{Begin: endpoint(r.Low), End: endpoint(r.High)}
}

func fromInterval(iv adt.Interval) Range {
	return Range{Low: float64(iv.Begin.(endpoint)), High: float64(iv.End.(endpoint))}
}
