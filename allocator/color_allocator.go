package allocator

import (
	"fmt"
	"slices"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.densebucket.dev/core/allocator/interval_index"
	"go.densebucket.dev/core/allocator/max_selector"
)

// Options configure a ColorAllocator.
type Options struct {
	// EvictEmpty removes an elementary sub-range as soon as no live Ball
	// covers it, rather than retaining it at a zero count. Sub-ranges which
	// are covered by no Ball at construction (gaps between Balls) are never
	// added. With EvictEmpty, HasRangesLeft is false once all Balls are consumed.
	EvictEmpty bool `long:"evict-empty" env:"EVICT_EMPTY" description:"Drop sub-ranges which no remaining ball covers, instead of emitting them as empty buckets"`
}

// ColorAllocator consumes Buckets from the Balls of a single color.
//
// It co-indexes Balls by Range, elementary sub-ranges by Range, and a
// max_selector.Selector of sub-ranges on their count of covering Balls. For
// every sub-range in the Selector, its priority is exactly the number of
// Balls still indexed which cover it. The Selector priority is the only
// record of a sub-range's count, so the two cannot diverge.
type ColorAllocator struct {
	color     string
	balls     *interval_index.Index[BallID]
	subRanges *interval_index.Index[struct{}]
	selector  *max_selector.Selector[Range]
	opts      Options
}

// NewColorAllocator builds a ColorAllocator of |balls|, each of which must be
// valid and have |color|.
func NewColorAllocator(color string, balls []Ball, opts Options) (*ColorAllocator, error) {
	var startTime = time.Now()
	var ca = &ColorAllocator{
		color:     color,
		balls:     interval_index.New[BallID](),
		subRanges: interval_index.New[struct{}](),
		selector:  max_selector.New[Range](),
		opts:      opts,
	}

	var points = make([]float64, 0, 2*len(balls))
	for _, b := range balls {
		if b.Color != color {
			return nil, errors.Errorf("ball %d has color %q (expected %q)", b.ID, b.Color, color)
		} else if err := b.Validate(); err != nil {
			return nil, err
		}
		points = append(points, b.Low, b.High)
		ca.balls.Insert(b.Range, b.ID)
	}
	slices.Sort(points)
	points = slices.Compact(points)

	// Sub-ranges are pushed in ascending order, so that the Selector breaks
	// ties in favor of the lowest sub-range.
	for i := 1; i < len(points); i++ {
		var r = Range{Low: points[i-1], High: points[i]}
		var count = len(ca.balls.Overlap(r))

		if count == 0 && opts.EvictEmpty {
			continue
		}
		ca.subRanges.Insert(r, struct{}{})
		ca.selector.Push(r, count)
	}

	allocatorSubRangesTotal.Add(float64(ca.selector.Len()))
	allocatorBuildSeconds.Observe(time.Since(startTime).Seconds())

	log.WithFields(log.Fields{
		"color":     color,
		"balls":     ca.balls.Len(),
		"points":    len(points),
		"subRanges": ca.selector.Len(),
		"dur":       time.Since(startTime),
	}).Debug("built color allocator")

	return ca, nil
}

// Color of the allocator.
func (ca *ColorAllocator) Color() string { return ca.color }

// Len is the number of sub-ranges which remain to be consumed.
func (ca *ColorAllocator) Len() int { return ca.selector.Len() }

// Balls is the number of Balls which remain to be consumed.
func (ca *ColorAllocator) Balls() int { return ca.balls.Len() }

// HasRangesLeft returns true if a sub-range remains to be consumed.
func (ca *ColorAllocator) HasRangesLeft() bool { return !ca.selector.IsEmpty() }

// PeekBest returns the densest remaining sub-range and its count,
// or false if no sub-range remains.
func (ca *ColorAllocator) PeekBest() (Range, int, bool) { return ca.selector.PeekMax() }

// Count returns the live count of sub-range |r|, or false if |r| isn't
// a remaining sub-range.
func (ca *ColorAllocator) Count(r Range) (int, bool) { return ca.selector.Priority(r) }

// ConsumeBest removes the densest remaining sub-range, along with every Ball
// covering it, and decrements the count of each other sub-range covered by
// those Balls. It returns the sub-range, its count, and the consumed BallIDs.
// At least one sub-range must remain.
func (ca *ColorAllocator) ConsumeBest() Consumed {
	var best, count = ca.selector.PopMax()

	// Elementary sub-ranges are disjoint, so |best| overlaps only itself.
	if removed := ca.subRanges.RemoveOverlap(best); len(removed) != 1 || removed[0].Range != best {
		panic(fmt.Sprintf("sub-range %s of color %q: expected to remove only itself from the index (removed %d)",
			best, ca.color, len(removed)))
	}

	var consumed = ca.balls.RemoveOverlap(best)
	var out = Consumed{
		Count:   count,
		Color:   ca.color,
		Range:   best,
		BallIDs: make([]BallID, 0, len(consumed)),
	}
	var decrements, evicted int

	for _, ball := range consumed {
		out.BallIDs = append(out.BallIDs, ball.Value)

		// Each remaining sub-range covered by |ball| loses a count.
		for _, sr := range ca.subRanges.Overlap(ball.Range) {
			var n, ok = ca.selector.Priority(sr.Range)
			if !ok {
				panic(fmt.Sprintf("sub-range %s of color %q is indexed but not selectable", sr.Range, ca.color))
			} else if n == 0 {
				panic(fmt.Sprintf("sub-range %s of color %q would have a negative count", sr.Range, ca.color))
			}
			n--
			decrements++

			if n == 0 && ca.opts.EvictEmpty {
				ca.selector.Remove(sr.Range)
				ca.subRanges.RemoveOverlap(sr.Range)
				evicted++
			} else {
				ca.selector.Reprioritize(sr.Range, n)
			}
		}
	}

	if len(consumed) != count {
		panic(fmt.Sprintf("sub-range %s of color %q had count %d, but %d balls were consumed",
			best, ca.color, count, len(consumed)))
	}

	allocatorBucketsTotal.Inc()
	allocatorBallsConsumedTotal.Add(float64(len(consumed)))
	allocatorReprioritizeTotal.Add(float64(decrements))
	allocatorEvictedTotal.Add(float64(evicted))

	if log.GetLevel() >= log.DebugLevel {
		log.WithFields(log.Fields{
			"color":      ca.color,
			"range":      best.String(),
			"count":      count,
			"decrements": decrements,
			"evicted":    evicted,
			"subRanges":  ca.selector.Len(),
			"balls":      ca.balls.Len(),
		}).Debug("consumed bucket")
	}
	return out
}
