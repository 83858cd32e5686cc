package allocator

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// BucketSource is a uniform view over a ColorAllocator, as used by Run.
type BucketSource interface {
	// Color of the source.
	Color() string
	// HasRangesLeft returns true if ConsumeBest may be called.
	HasRangesLeft() bool
	// PeekBest returns the sub-range and count which ConsumeBest would consume.
	PeekBest() (Range, int, bool)
	// ConsumeBest consumes the densest remaining sub-range.
	ConsumeBest() Consumed
}

// NewAllocators builds a ColorAllocator for each color of |ballsByColor|.
// Values of the returned map are *ColorAllocator.
func NewAllocators(ballsByColor map[string][]Ball, opts Options) (map[string]BucketSource, error) {
	var out = make(map[string]BucketSource, len(ballsByColor))

	for color, balls := range ballsByColor {
		var ca, err = NewColorAllocator(color, balls, opts)
		if err != nil {
			return nil, errors.WithMessagef(err, "building allocator of color %q", color)
		}
		out[color] = ca
	}
	return out, nil
}

type RunArgs struct {
	// Allocators to consume Buckets from, keyed on color.
	Allocators map[string]BucketSource
	// Maximum number of Buckets to produce.
	NumBuckets int
	// CheckInvariants verifies, after each round, the invariants of each
	// Allocator which implements InvariantChecker.
	CheckInvariants bool
	// TestHook is an optional testing hook, invoked with each produced Bucket.
	TestHook func(round int, bucket Bucket)
}

// Run produces up to NumBuckets Buckets. Each round, it consumes from the
// Allocator having the strictly greatest peeked count. Allocators are
// examined in sorted color order, and the first examined wins a tie.
// Run returns early, with fewer Buckets, if no Allocator has ranges left.
// If NumBuckets is zero, no Allocator is examined.
func Run(args RunArgs) ([]Bucket, error) {
	if args.NumBuckets <= 0 {
		return nil, nil
	}
	var startTime = time.Now()

	var colors = make([]string, 0, len(args.Allocators))
	for color := range args.Allocators {
		colors = append(colors, color)
	}
	sort.Strings(colors)

	var buckets []Bucket
	for round := 0; round != args.NumBuckets; round++ {
		var best BucketSource
		var bestCount = -1

		for _, color := range colors {
			var src = args.Allocators[color]
			if !src.HasRangesLeft() {
				continue
			}
			if _, count, ok := src.PeekBest(); ok && count > bestCount {
				best, bestCount = src, count
			}
		}
		if best == nil {
			break // All allocators are exhausted.
		}

		var bucket = NewBucket(best.ConsumeBest())
		buckets = append(buckets, bucket)
		allocatorRunRoundsTotal.Inc()

		if args.CheckInvariants {
			for _, color := range colors {
				if ic, ok := args.Allocators[color].(InvariantChecker); !ok {
					continue
				} else if err := ic.CheckInvariants(); err != nil {
					return buckets, errors.WithMessagef(err, "round %d, color %q", round, color)
				}
			}
		}
		if args.TestHook != nil {
			args.TestHook(round, bucket)
		}
	}

	log.WithFields(log.Fields{
		"colors":    len(colors),
		"requested": args.NumBuckets,
		"buckets":   len(buckets),
		"dur":       time.Since(startTime),
	}).Info("allocated buckets")

	if len(buckets) < args.NumBuckets {
		log.WithField("shortfall", args.NumBuckets-len(buckets)).
			Info("all allocators exhausted before reaching requested buckets")
	}
	return buckets, nil
}
