// Package allocator greedily partitions colored "Balls", each spanning a
// half-open numeric range, into a bounded number of "Buckets". Each Bucket
// captures the densest remaining elementary sub-range of a single color,
// along with every Ball covering it, and those Balls are consumed.
//
// A ColorAllocator holds the Balls of one color. It derives elementary
// sub-ranges from the sorted, distinct Ball endpoints, counts the Balls
// covering each, and keeps counts current as Balls are consumed using an
// interval index and a reprioritizable max-selector. Run coordinates a set of
// ColorAllocators, each round consuming from whichever color currently holds
// the globally densest sub-range.
package allocator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	allocatorBucketsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "densebucket_allocator_buckets_total",
		Help: "Cumulative number of buckets consumed from color allocators.",
	})
	allocatorBallsConsumedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "densebucket_allocator_balls_consumed_total",
		Help: "Cumulative number of balls consumed into buckets.",
	})
	allocatorReprioritizeTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "densebucket_allocator_reprioritize_total",
		Help: "Cumulative number of sub-range count decrements applied while consuming buckets.",
	})
	allocatorSubRangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "densebucket_allocator_sub_ranges_total",
		Help: "Cumulative number of elementary sub-ranges built by color allocators.",
	})
	allocatorEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "densebucket_allocator_evicted_sub_ranges_total",
		Help: "Cumulative number of sub-ranges evicted upon reaching a zero count.",
	})
	allocatorBuildSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "densebucket_allocator_build_seconds",
		Help: "Duration required to build a color allocator.",
	})
	allocatorRunRoundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "densebucket_allocator_run_rounds_total",
		Help: "Cumulative number of coordinator rounds which emitted a bucket.",
	})
)
