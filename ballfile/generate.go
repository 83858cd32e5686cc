package ballfile

import (
	"bufio"
	"io"
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.densebucket.dev/core/allocator"
)

// GenerateArgs parameterize Generate.
type GenerateArgs struct {
	// Number of Balls to generate.
	Count int
	// Colors assigned to Balls, round-robin.
	Colors []string
	// Mode is one of:
	//  - "random": each Ball starts uniformly within [0, Span), and has a
	//    width uniformly within (0, Span].
	//  - "shifted": Ball i spans [o, o + 10*Span) with o = Span * i / (2*Count),
	//    so that every Ball of a color overlaps every other.
	Mode string
	// Span scales generated Ranges.
	Span float64
	// Seed of the generator.
	Seed uint64
}

// Validate returns an error if the GenerateArgs are invalid.
func (args GenerateArgs) Validate() error {
	if args.Count < 0 {
		return errors.Errorf("invalid Count (%d; expected >= 0)", args.Count)
	} else if len(args.Colors) == 0 {
		return errors.New("expected at least one color")
	} else if math.IsNaN(args.Span) || math.IsInf(args.Span, 0) || args.Span <= 0 {
		return errors.Errorf("invalid Span (%g; expected finite and > 0)", args.Span)
	} else if args.Mode != "random" && args.Mode != "shifted" {
		return errors.Errorf("invalid Mode (%q; expected random or shifted)", args.Mode)
	}
	for _, c := range args.Colors {
		if c == "" {
			return errors.New("colors must be non-empty")
		}
	}
	return nil
}

// Generate writes |args.Count| Ball lines to |w|.
func Generate(w io.Writer, args GenerateArgs) error {
	if err := args.Validate(); err != nil {
		return err
	}
	var bw = bufio.NewWriter(w)
	var r = rand.New(rand.NewPCG(args.Seed, args.Seed^0x9e3779b97f4a7c15))

	for i := 0; i != args.Count; i++ {
		var ball = allocator.Ball{ID: allocator.BallID(i), Color: args.Colors[i%len(args.Colors)]}

		switch args.Mode {
		case "random":
			ball.Low = args.Span * r.Float64()
			ball.High = ball.Low + args.Span*(1-r.Float64())
		case "shifted":
			ball.Low = args.Span * float64(i) / float64(2*args.Count)
			ball.High = ball.Low + 10*args.Span
		}
		if _, err := bw.WriteString(FormatLine(ball) + "\n"); err != nil {
			return errors.Wrap(err, "writing ball")
		}
	}
	return errors.Wrap(bw.Flush(), "flushing balls")
}

// GenerateFile writes generated Ball lines to |path| within |fs|,
// replacing any existing file.
func GenerateFile(fs afero.Fs, path string, args GenerateArgs) error {
	var f, err = fs.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating ball file")
	}
	if err = Generate(f, args); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "closing ball file")
}
