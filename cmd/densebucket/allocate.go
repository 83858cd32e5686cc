package main

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"go.densebucket.dev/core/allocator"
	"go.densebucket.dev/core/ballfile"
	mbp "go.densebucket.dev/core/mainboilerplate"
)

type cmdAllocate struct {
	Input     string            `long:"input" short:"i" default:"-" description:"Ball file to read. Use '-' for stdin"`
	Buckets   int               `long:"buckets" short:"n" default:"5" description:"Maximum number of buckets to produce"`
	Format    string            `long:"format" short:"o" choice:"table" choice:"yaml" choice:"json" default:"table" description:"Output format"`
	Check     bool              `long:"check-invariants" description:"Verify allocator invariants after every round (slow)"`
	Allocator allocator.Options `group:"Allocator" namespace:"allocator" env-namespace:"ALLOCATOR"`
}

func init() {
	commands.AddCommand("", "allocate", "Allocate balls into buckets", `
Allocate reads a file of balls, one per line, of the form:

>    <id> <color> <low> <high>

where <id> is an integer and <low> < <high> bound the ball's range. Malformed
lines are skipped.

Balls are grouped on color, and each color's ranges are split into elementary
sub-ranges at every distinct ball endpoint. Each round, the sub-range covered by
the most remaining balls (across all colors) is emitted as a bucket, and the
balls covering it are consumed. Allocation stops after --buckets rounds, or once
every sub-range is consumed.

By default, sub-ranges which no remaining ball covers are retained, and are
eventually emitted as empty buckets. Use --allocator.evict-empty to drop them.

Results can be output in a variety of --format options:
table: Prints a table of buckets.
yaml:  Prints a YAML sequence of buckets.
json:  Prints buckets encoded as JSON, one per line.
`, &cmdAllocate{})
}

func (cmd *cmdAllocate) Execute([]string) error {
	defer startup()()

	var buckets, err = cmd.allocate(afero.NewOsFs())
	mbp.Must(err, "failed to allocate buckets")
	mbp.Must(writeBuckets(os.Stdout, cmd.Format, buckets), "failed to write buckets")
	return nil
}

func (cmd *cmdAllocate) allocate(fs afero.Fs) ([]allocator.Bucket, error) {
	if cmd.Buckets < 0 {
		return nil, errors.Errorf("invalid --buckets (%d; expected >= 0)", cmd.Buckets)
	}

	var balls, err = ballfile.ReadFile(fs, cmd.Input)
	if err != nil {
		return nil, err
	}
	var byColor = ballfile.GroupByColor(balls)

	log.WithFields(log.Fields{
		"input":  cmd.Input,
		"balls":  humanize.Comma(int64(len(balls))),
		"colors": len(byColor),
	}).Info("read ball file")

	allocators, err := allocator.NewAllocators(byColor, cmd.Allocator)
	if err != nil {
		return nil, err
	}
	return allocator.Run(allocator.RunArgs{
		Allocators:      allocators,
		NumBuckets:      cmd.Buckets,
		CheckInvariants: cmd.Check,
	})
}
