package allocator

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	gc "gopkg.in/check.v1"
)

type CoordinatorSuite struct{}

func (s *CoordinatorSuite) TestDensestColorWins(c *gc.C) {
	var allocators = buildAllocators(c, Options{}, append(redFixture(),
		Ball{ID: 4, Color: "blue", Range: rng(2, 8)})...)

	// Red's (5, 10) sub-range of count 2 beats blue's (2, 8) of count 1.
	var buckets, err = Run(RunArgs{Allocators: allocators, NumBuckets: 1})
	c.Assert(err, gc.IsNil)
	c.Check(sortedBuckets(buckets), gc.DeepEquals, []Bucket{
		{Color: "red", HalfWidth: 2.5, Count: 2, Range: rng(5, 10), BallIDs: []BallID{1, 2}},
	})

	// Blue was untouched.
	var blue = allocators["blue"].(*ColorAllocator)
	c.Check(blue.Balls(), gc.Equals, 1)
}

func (s *CoordinatorSuite) TestRunToExhaustion(c *gc.C) {
	var allocators = buildAllocators(c, Options{}, append(redFixture(),
		Ball{ID: 4, Color: "blue", Range: rng(2, 8)})...)

	var rounds []int
	var buckets, err = Run(RunArgs{
		Allocators:      allocators,
		NumBuckets:      100,
		CheckInvariants: true,
		TestHook:        func(round int, _ Bucket) { rounds = append(rounds, round) },
	})
	c.Assert(err, gc.IsNil)

	c.Check(sortedBuckets(buckets), gc.DeepEquals, []Bucket{
		{Color: "red", HalfWidth: 2.5, Count: 2, Range: rng(5, 10), BallIDs: []BallID{1, 2}},
		// Blue and red tie at count 1. Blue sorts first, and wins.
		{Color: "blue", HalfWidth: 3, Count: 1, Range: rng(2, 8), BallIDs: []BallID{4}},
		{Color: "red", HalfWidth: 5, Count: 1, Range: rng(20, 30), BallIDs: []BallID{3}},
		// Zero-count sub-ranges remain, and are emitted as empty buckets.
		{Color: "red", HalfWidth: 2.5, Count: 0, Range: rng(0, 5), BallIDs: []BallID{}},
		{Color: "red", HalfWidth: 2.5, Count: 0, Range: rng(10, 15), BallIDs: []BallID{}},
		{Color: "red", HalfWidth: 2.5, Count: 0, Range: rng(15, 20), BallIDs: []BallID{}},
	})
	c.Check(rounds, gc.DeepEquals, []int{0, 1, 2, 3, 4, 5})
}

func (s *CoordinatorSuite) TestRunToExhaustionWithEviction(c *gc.C) {
	var allocators = buildAllocators(c, Options{EvictEmpty: true}, append(redFixture(),
		Ball{ID: 4, Color: "blue", Range: rng(2, 8)})...)

	var buckets, err = Run(RunArgs{Allocators: allocators, NumBuckets: 100, CheckInvariants: true})
	c.Assert(err, gc.IsNil)

	c.Check(sortedBuckets(buckets), gc.DeepEquals, []Bucket{
		{Color: "red", HalfWidth: 2.5, Count: 2, Range: rng(5, 10), BallIDs: []BallID{1, 2}},
		{Color: "blue", HalfWidth: 3, Count: 1, Range: rng(2, 8), BallIDs: []BallID{4}},
		{Color: "red", HalfWidth: 5, Count: 1, Range: rng(20, 30), BallIDs: []BallID{3}},
	})
}

func (s *CoordinatorSuite) TestZeroBucketsTouchesNoAllocator(c *gc.C) {
	var allocators = map[string]BucketSource{"red": untouchable{}, "blue": untouchable{}}

	var buckets, err = Run(RunArgs{Allocators: allocators, NumBuckets: 0})
	c.Check(err, gc.IsNil)
	c.Check(buckets, gc.HasLen, 0)
}

func (s *CoordinatorSuite) TestNoAllocators(c *gc.C) {
	var buckets, err = Run(RunArgs{Allocators: nil, NumBuckets: 3})
	c.Check(err, gc.IsNil)
	c.Check(buckets, gc.HasLen, 0)
}

func (s *CoordinatorSuite) TestInvariantErrorsAreReturned(c *gc.C) {
	var allocators = map[string]BucketSource{"broken": &brokenSource{}}

	var buckets, err = Run(RunArgs{Allocators: allocators, NumBuckets: 5, CheckInvariants: true})
	c.Check(err, gc.ErrorMatches, `round 0, color "broken": whoops`)
	c.Check(buckets, gc.HasLen, 1)

	// Without checking, all rounds run.
	allocators = map[string]BucketSource{"broken": &brokenSource{}}
	buckets, err = Run(RunArgs{Allocators: allocators, NumBuckets: 5})
	c.Check(err, gc.IsNil)
	c.Check(buckets, gc.HasLen, 5)
}

func (s *CoordinatorSuite) TestPartitionAcrossColors(c *gc.C) {
	var balls []Ball
	for i, color := range []string{"red", "green", "blue"} {
		for _, b := range randomBalls(newTestRand(uint64(i)), color, 40) {
			b.ID += BallID(1000 * i)
			balls = append(balls, b)
		}
	}
	var rounds = testutil.ToFloat64(allocatorRunRoundsTotal)
	var allocators = buildAllocators(c, Options{}, balls...)

	var buckets, err = Run(RunArgs{Allocators: allocators, NumBuckets: 25, CheckInvariants: true})
	c.Assert(err, gc.IsNil)
	c.Check(buckets, gc.HasLen, 25)
	c.Check(testutil.ToFloat64(allocatorRunRoundsTotal)-rounds, gc.Equals, 25.0)

	var seen = make(map[BallID]string)
	for _, b := range buckets {
		c.Check(b.BallIDs, gc.HasLen, b.Count)
		c.Check(b.HalfWidth, gc.Equals, (b.Range.High-b.Range.Low)/2)

		for _, id := range b.BallIDs {
			var _, dup = seen[id]
			c.Check(dup, gc.Equals, false)
			seen[id] = b.Color
		}
	}
	for id, color := range seen {
		c.Check(int(id)/1000, gc.Equals, map[string]int{"red": 0, "green": 1, "blue": 2}[color])
	}
	c.Check(len(seen) <= len(balls), gc.Equals, true)
}

func (s *CoordinatorSuite) TestNewAllocatorsError(c *gc.C) {
	var _, err = NewAllocators(map[string][]Ball{
		"red": {{ID: 1, Color: "red", Range: rng(2, 1)}},
	}, Options{})
	c.Check(err, gc.ErrorMatches, `building allocator of color "red": ball 1: expected Low < High: \[2, 1\)`)
}

func buildAllocators(c *gc.C, opts Options, balls ...Ball) map[string]BucketSource {
	var byColor = make(map[string][]Ball)
	for _, b := range balls {
		byColor[b.Color] = append(byColor[b.Color], b)
	}
	var out, err = NewAllocators(byColor, opts)
	c.Assert(err, gc.IsNil)
	return out
}

func sortedBuckets(buckets []Bucket) []Bucket {
	for i := range buckets {
		buckets[i].BallIDs = sorted(buckets[i].BallIDs)
	}
	return buckets
}

// untouchable is a BucketSource which fails the test if used.
type untouchable struct{}

func (untouchable) Color() string                { panic("unexpected Color") }
func (untouchable) HasRangesLeft() bool          { panic("unexpected HasRangesLeft") }
func (untouchable) PeekBest() (Range, int, bool) { panic("unexpected PeekBest") }
func (untouchable) ConsumeBest() Consumed        { panic("unexpected ConsumeBest") }

// brokenSource always has a range, and always fails its invariants.
type brokenSource struct{}

func (*brokenSource) Color() string                { return "broken" }
func (*brokenSource) HasRangesLeft() bool          { return true }
func (*brokenSource) PeekBest() (Range, int, bool) { return rng(0, 1), 0, true }
func (*brokenSource) ConsumeBest() Consumed {
	return Consumed{Color: "broken", Range: rng(0, 1), BallIDs: []BallID{}}
}
func (*brokenSource) CheckInvariants() error { return errors.New("whoops") }

var _ = gc.Suite(&CoordinatorSuite{})
