package allocator

import (
	"github.com/pkg/errors"
	"go.densebucket.dev/core/allocator/interval_index"
)

// BallID uniquely identifies a Ball.
type BallID int64

// Range is a half-open numeric interval [Low, High).
type Range = interval_index.Range

// Ball is a colored Range having an identifier.
type Ball struct {
	ID    BallID
	Color string
	Range
}

// Validate returns an error if the Ball is not well-formed.
func (b Ball) Validate() error {
	if b.Color == "" {
		return errors.Errorf("ball %d has an empty color", b.ID)
	} else if err := b.Range.Validate(); err != nil {
		return errors.WithMessagef(err, "ball %d", b.ID)
	}
	return nil
}

// Consumed is the result of ColorAllocator.ConsumeBest: an elementary
// sub-range of a color, and the Balls which covered it.
type Consumed struct {
	Count   int
	Color   string
	Range   Range
	BallIDs []BallID
}

// Bucket is an output record of Run.
type Bucket struct {
	Color     string   `json:"color" yaml:"color"`
	HalfWidth float64  `json:"half_width" yaml:"half_width"`
	Count     int      `json:"count" yaml:"count"`
	Range     Range    `json:"range" yaml:"range,flow"`
	BallIDs   []BallID `json:"ball_ids" yaml:"ball_ids,flow"`
}

// NewBucket builds a Bucket from a Consumed sub-range.
func NewBucket(c Consumed) Bucket {
	return Bucket{
		Color:     c.Color,
		HalfWidth: (c.Range.High - c.Range.Low) / 2,
		Count:     c.Count,
		Range:     c.Range,
		BallIDs:   c.BallIDs,
	}
}
