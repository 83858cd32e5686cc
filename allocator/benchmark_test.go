package allocator

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	gc "gopkg.in/check.v1"
)

func BenchmarkAll(b *testing.B) {
	b.Run("random-ranges", func(b *testing.B) {
		benchmarkRun(b, randomRangeBalls)
	})
	b.Run("shifted-ranges", func(b *testing.B) {
		benchmarkRun(b, shiftedRangeBalls)
	})
}

type BenchmarkHealthSuite struct{}

// TestBenchmarkHealth runs benchmarks with a small N to ensure they don't bit rot.
func (s *BenchmarkHealthSuite) TestBenchmarkHealth(c *gc.C) {
	var fakeB = testing.B{N: 1}

	benchmarkRun(&fakeB, randomRangeBalls)
	benchmarkRun(&fakeB, shiftedRangeBalls)
}

var _ = gc.Suite(&BenchmarkHealthSuite{})

// benchmarkRun builds allocators over 2000 * b.N balls spread across four
// colors, and consumes all of their buckets.
func benchmarkRun(b *testing.B, gen func(r *rand.Rand, i, n int, color string) Ball) {
	var NBalls = 2000 * b.N
	var colors = []string{"red", "green", "blue", "yellow"}
	var r = rand.New(rand.NewPCG(uint64(b.N), 1))

	var byColor = make(map[string][]Ball)
	for i := 0; i != NBalls; i++ {
		var color = colors[i%len(colors)]
		byColor[color] = append(byColor[color], gen(r, i, NBalls, color))
	}
	b.Logf("Benchmarking with %d balls of %d colors", NBalls, len(colors))

	var bucketsBefore = counterVal(allocatorBucketsTotal)
	var decrementsBefore = counterVal(allocatorReprioritizeTotal)

	b.ResetTimer()

	var allocators, err = NewAllocators(byColor, Options{})
	require.NoError(b, err)

	buckets, err := Run(RunArgs{Allocators: allocators, NumBuckets: 2 * NBalls})
	require.NoError(b, err)

	var total int
	for _, bucket := range buckets {
		total += bucket.Count
	}
	require.Equal(b, NBalls, total)

	log.WithFields(log.Fields{
		"balls":      NBalls,
		"buckets":    counterVal(allocatorBucketsTotal) - bucketsBefore,
		"decrements": counterVal(allocatorReprioritizeTotal) - decrementsBefore,
	}).Info("final metrics")
}

// randomRangeBalls have a random start in [0, 1) and a random width in (0, 1).
func randomRangeBalls(r *rand.Rand, i, _ int, color string) Ball {
	var start = r.Float64()
	return Ball{ID: BallID(i), Color: color, Range: Range{Low: start, High: start + 1e-9 + r.Float64()}}
}

// shiftedRangeBalls are of equal width, each offset slightly from the last,
// such that all balls overlap a common sub-range.
func shiftedRangeBalls(_ *rand.Rand, i, n int, color string) Ball {
	var offset = float64(i) / float64(n*2)
	return Ball{ID: BallID(i), Color: color, Range: Range{Low: offset, High: 10 + offset}}
}

func counterVal(c prometheus.Counter) float64 {
	var out dto.Metric
	if err := c.Write(&out); err != nil {
		panic(fmt.Sprintf("writing counter: %v", err))
	}
	return *out.Counter.Value
}
