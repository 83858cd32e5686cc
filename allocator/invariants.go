package allocator

import (
	"github.com/pkg/errors"
)

// InvariantChecker is implemented by allocators able to verify their
// internal consistency.
type InvariantChecker interface {
	CheckInvariants() error
}

// CheckInvariants verifies that the sub-range index and Selector hold the
// same sub-ranges, that each sub-range's count is the number of remaining
// Balls overlapping it, and that each such Ball fully covers the sub-range.
// It's O(n log n) and intended for tests and debugging.
func (ca *ColorAllocator) CheckInvariants() error {
	var subRanges = ca.subRanges.All()

	if l := ca.selector.Len(); l != len(subRanges) {
		return errors.Errorf("selector has %d sub-ranges, but index has %d", l, len(subRanges))
	}
	for i, sr := range subRanges {
		if i != 0 && subRanges[i-1].High > sr.Low {
			return errors.Errorf("sub-ranges %s and %s overlap", subRanges[i-1].Range, sr.Range)
		}

		var count, ok = ca.selector.Priority(sr.Range)
		if !ok {
			return errors.Errorf("sub-range %s is indexed but not selectable", sr.Range)
		}
		var covering = ca.balls.Overlap(sr.Range)

		if count != len(covering) {
			return errors.Errorf("sub-range %s has count %d, but %d balls overlap it",
				sr.Range, count, len(covering))
		} else if count == 0 && ca.opts.EvictEmpty {
			return errors.Errorf("sub-range %s has a zero count but wasn't evicted", sr.Range)
		}
		for _, b := range covering {
			if !b.Range.Covers(sr.Range) {
				return errors.Errorf("ball %d %s overlaps but doesn't cover sub-range %s",
					b.Value, b.Range, sr.Range)
			}
		}
	}
	return nil
}
