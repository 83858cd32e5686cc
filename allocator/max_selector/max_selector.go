// Package max_selector is a max-priority queue over comparable keys, which
// supports in-place reprioritization of a key already in the queue.
package max_selector

import (
	"container/heap"
	"fmt"
)

// Selector orders keys on descending integer priority. Keys having equal
// priority are ordered on ascending push sequence, so ties are broken
// deterministically in favor of the earliest pushed key.
//
// Push, PopMax, Reprioritize and Remove are O(log n). PeekMax, Priority and
// Len are O(1). A Selector is not safe for concurrent use.
type Selector[K comparable] struct {
	entries []entry[K] // Heap-ordered entries.
	slots   map[K]int  // Index of each key to its offset in |entries|.
	nextSeq uint64     // Sequence number of the next pushed key.
}

type entry[K comparable] struct {
	key      K
	priority int
	seq      uint64
}

// New returns an empty Selector.
func New[K comparable]() *Selector[K] {
	return &Selector[K]{slots: make(map[K]int)}
}

// Len is the number of keys in the Selector.
func (s *Selector[K]) Len() int { return len(s.entries) }

// IsEmpty returns true if the Selector holds no keys.
func (s *Selector[K]) IsEmpty() bool { return len(s.entries) == 0 }

// Contains returns true if |key| is in the Selector.
func (s *Selector[K]) Contains(key K) bool {
	var _, ok = s.slots[key]
	return ok
}

// Priority returns the current priority of |key|, and whether it was found.
func (s *Selector[K]) Priority(key K) (int, bool) {
	if ind, ok := s.slots[key]; ok {
		return s.entries[ind].priority, true
	}
	return 0, false
}

// Push |key| having |priority|. |key| must not already be in the Selector.
func (s *Selector[K]) Push(key K, priority int) {
	if _, ok := s.slots[key]; ok {
		panic(fmt.Sprintf("max_selector: key %v pushed twice", key))
	}
	heap.Push((*selectorHeap[K])(s), entry[K]{key: key, priority: priority, seq: s.nextSeq})
	s.nextSeq++
}

// PeekMax returns the key having maximum priority, without removing it.
// It returns false if the Selector is empty.
func (s *Selector[K]) PeekMax() (key K, priority int, ok bool) {
	if len(s.entries) == 0 {
		return key, 0, false
	}
	return s.entries[0].key, s.entries[0].priority, true
}

// PopMax removes and returns the key having maximum priority.
// The Selector must not be empty.
func (s *Selector[K]) PopMax() (K, int) {
	if len(s.entries) == 0 {
		panic("max_selector: PopMax of empty Selector")
	}
	var e = heap.Pop((*selectorHeap[K])(s)).(entry[K])
	return e.key, e.priority
}

// Reprioritize sets the priority of |key|, which must be in the Selector,
// and restores heap order.
func (s *Selector[K]) Reprioritize(key K, priority int) {
	var ind, ok = s.slots[key]
	if !ok {
		panic(fmt.Sprintf("max_selector: Reprioritize of absent key %v", key))
	}
	s.entries[ind].priority = priority
	heap.Fix((*selectorHeap[K])(s), ind)
}

// Remove |key|, which must be in the Selector, returning its last priority.
func (s *Selector[K]) Remove(key K) int {
	var ind, ok = s.slots[key]
	if !ok {
		panic(fmt.Sprintf("max_selector: Remove of absent key %v", key))
	}
	return heap.Remove((*selectorHeap[K])(s), ind).(entry[K]).priority
}

// selectorHeap implements heap.Interface, maintaining |slots| as entries move.
type selectorHeap[K comparable] Selector[K]

func (h *selectorHeap[K]) Len() int { return len(h.entries) }
func (h *selectorHeap[K]) Less(i, j int) bool {
	var ei, ej = &h.entries[i], &h.entries[j]

	if ei.priority != ej.priority {
		return ei.priority > ej.priority
	}
	return ei.seq < ej.seq
}
func (h *selectorHeap[K]) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.slots[h.entries[i].key] = i
	h.slots[h.entries[j].key] = j
}
func (h *selectorHeap[K]) Push(x interface{}) {
	var e = x.(entry[K])
	h.slots[e.key] = len(h.entries)
	h.entries = append(h.entries, e)
}
func (h *selectorHeap[K]) Pop() interface{} {
	var old, l = h.entries, len(h.entries)
	var x = old[l-1]
	h.entries = old[0 : l-1]
	delete(h.slots, x.key)
	return x
}
