package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	mbp "go.densebucket.dev/core/mainboilerplate"
)

const iniFilename = "densebucket.ini"

// Config is the top-level configuration shared by all sub-commands.
var Config = new(struct {
	Log         mbp.LogConfig         `group:"Logging" namespace:"log" env-namespace:"LOG"`
	Diagnostics mbp.DiagnosticsConfig `group:"Diagnostics" namespace:"diagnostics" env-namespace:"DIAGNOSTICS"`
})

// commands are registered by init functions of sub-command files.
var commands = mbp.NewCommandRegistry()

func main() {
	var parser = flags.NewParser(Config, flags.Default)

	parser.LongDescription = `densebucket greedily partitions colored, numeric ranges ("balls") into
buckets, each of which is the densest remaining sub-range of a single color.

See --help pages of each sub-command for documentation and usage examples.
Optionally configure densebucket with a '` + iniFilename + `' file in the current working
directory, or with '~/.config/densebucket/` + iniFilename + `'. Use the 'print-config'
sub-command to inspect the tool's current configuration. Configuration file
keys follow its output: sections are group names (eg, [Logging]), and keys are
field names (Level) or namespaced flag names (log.level). Unrecognized keys are
ignored with a warning.
`
	mbp.AddPrintConfigCmd(parser, iniFilename, os.Stdout)
	mbp.Must(commands.AddCommands(parser.Command), "could not add sub-commands")
	mbp.MustParseConfig(parser, iniFilename)
}

// startup initializes logging, and returns a closure to be deferred.
func startup() func() {
	var cleanup = mbp.InitDiagnosticsAndRecover(Config.Diagnostics)
	mbp.InitLog(Config.Log)
	return cleanup
}
