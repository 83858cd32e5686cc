package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"go.densebucket.dev/core/ballfile"
	mbp "go.densebucket.dev/core/mainboilerplate"
)

type cmdGenerate struct {
	Output string   `long:"output" short:"O" default:"-" description:"Path to write generated balls. Use '-' for stdout"`
	Count  int      `long:"count" short:"n" default:"2000" description:"Number of balls to generate"`
	Colors []string `long:"color" short:"c" default:"red" description:"Color of generated balls. Repeat to assign multiple colors round-robin"`
	Mode   string   `long:"mode" choice:"random" choice:"shifted" default:"random" description:"Distribution of generated ranges"`
	Span   float64  `long:"span" default:"1" description:"Scale of generated ranges"`
	Seed   uint64   `long:"seed" default:"0" description:"Seed of the random generator"`
}

func init() {
	commands.AddCommand("", "generate", "Generate a random ball file", `
Generate writes a file of balls suitable as input to "allocate", for testing
and benchmarking.

Modes:
random:  Each ball starts uniformly within [0, span), and has a width
         uniformly within (0, span].
shifted: Ball i starts at span * i / (2 * count), and has width 10 * span,
         such that all balls of a color overlap.

Generate 10,000 balls of three colors:
>    densebucket generate --count 10000 --color red --color green --color blue
`, &cmdGenerate{})
}

func (cmd *cmdGenerate) Execute([]string) error {
	defer startup()()

	mbp.Must(cmd.generate(afero.NewOsFs()), "failed to generate balls")
	return nil
}

func (cmd *cmdGenerate) generate(fs afero.Fs) error {
	var args = ballfile.GenerateArgs{
		Count:  cmd.Count,
		Colors: cmd.Colors,
		Mode:   cmd.Mode,
		Span:   cmd.Span,
		Seed:   cmd.Seed,
	}
	log.WithFields(log.Fields{
		"output": cmd.Output,
		"count":  cmd.Count,
		"colors": cmd.Colors,
		"mode":   cmd.Mode,
	}).Info("generating balls")

	if cmd.Output == "-" {
		return ballfile.Generate(os.Stdout, args)
	}
	return ballfile.GenerateFile(fs, cmd.Output, args)
}
