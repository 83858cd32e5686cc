package mainboilerplate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ConfigPrefixes are directories searched, in order, for an INI config file:
//   - The current working directory.
//   - ~/.config/densebucket (under the users's $HOME or %UserProfile% directory).
func ConfigPrefixes() []string {
	return []string{
		".",
		filepath.Join(os.Getenv("HOME"), ".config", "densebucket"),
		filepath.Join(os.Getenv("UserProfile"), ".config", "densebucket"),
	}
}

// ParseConfig parses |args| with the Parser, after first applying the first
// INI file named |configName| which is found under one of |prefixes|.
// Explicit flags and environment bindings take precedence over the INI file.
//
// INI sections are option group names, and keys are option field names or
// namespaced long names (as written by print-config). Unknown sections and
// keys are ignored with a warning.
func ParseConfig(parser *flags.Parser, configName string, prefixes []string, args []string) error {
	for _, prefix := range prefixes {
		var path = filepath.Join(prefix, configName)

		if err := parseIniFile(parser, path); err == nil {
			break
		} else if os.IsNotExist(err) {
			// Pass.
		} else {
			return errors.WithMessagef(err, "parsing %s", path)
		}
	}

	var _, err = parser.ParseArgs(args)
	return err
}

// parseIniFile applies the INI file at |path| to the Parser. If the file has
// sections or keys which the Parser doesn't recognize, they're logged and the
// file is applied again with IgnoreUnknown.
func parseIniFile(parser *flags.Parser, path string) error {
	var origOptions = parser.Options
	defer func() { parser.Options = origOptions }()

	parser.Options &^= flags.IgnoreUnknown
	var err = flags.NewIniParser(parser).ParseFile(path)
	if !isUnknownIniKey(err) {
		return err
	}
	log.WithFields(log.Fields{"path": path, "err": err}).
		Warn("ignoring unrecognized configuration (use print-config to list recognized keys)")

	parser.Options |= flags.IgnoreUnknown
	return flags.NewIniParser(parser).ParseFile(path)
}

func isUnknownIniKey(err error) bool {
	switch e := err.(type) {
	case *flags.IniError:
		return strings.HasPrefix(e.Message, "unknown option")
	case *flags.Error:
		return e.Type == flags.ErrUnknownGroup
	default:
		return false
	}
}

// MustParseConfig requires that the Parser parse from the combination of an
// optional INI file (see ConfigPrefixes), configured environment bindings,
// and explicit flags.
func MustParseConfig(parser *flags.Parser, configName string) {
	exitOnParseError(parser, ParseConfig(parser, configName, ConfigPrefixes(), os.Args[1:]))
}

// MustParseArgs requires that Parser be able to ParseArgs without error.
func MustParseArgs(parser *flags.Parser) {
	var _, err = parser.ParseArgs(os.Args[1:])
	exitOnParseError(parser, err)
}

func exitOnParseError(parser *flags.Parser, err error) {
	if err == nil {
		return
	}
	var flagErr, ok = err.(*flags.Error)
	if !ok {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch flagErr.Type {
	case flags.ErrDuplicatedFlag, flags.ErrTag, flags.ErrInvalidTag, flags.ErrShortNameTooLong, flags.ErrMarshal:
		// These error types indicate a problem in the configuration object
		// |parser| was asked to parse (eg, a developer error rather than input error).
		panic(err)

	case flags.ErrCommandRequired:
		// Extend go-flag's "Please specify one command of: ... " output with the full usage.
		os.Stderr.WriteString("\n")
		writeUsage(parser, os.Stderr)
		os.Exit(1)

	case flags.ErrHelp:
		if parser.Options&flags.PrintErrors == 0 {
			writeUsage(parser, os.Stderr)
		}
		os.Exit(0)

	default:
		// Other error types indicate a problem of input, which go-flags
		// has already printed.
		os.Exit(1)
	}
}

func writeUsage(parser *flags.Parser, w io.Writer) {
	parser.WriteHelp(w)
	fmt.Fprintf(w, "\nVersion %s, built at %s.\n", Version, BuildDate)
}

// AddPrintConfigCmd to the Parser. The "print-config" command helps users test
// whether their applications are correctly configured, by exporting all runtime
// configuration in INI format to |out|.
func AddPrintConfigCmd(parser *flags.Parser, configName string, out io.Writer) {
	_, _ = parser.AddCommand("print-config", "Print combined configuration and exit", `
print-config parses the combined configuration from `+configName+`, flags,
and environment variables, and then writes the configuration to stdout in INI format.
`, &printConfig{Parser: parser, out: out})
}

type printConfig struct {
	*flags.Parser `no-flag:"t"`
	out           io.Writer
}

func (p printConfig) Execute([]string) error {
	var ini = flags.NewIniParser(p.Parser)
	ini.Write(p.out, flags.IniIncludeComments|flags.IniCommentDefaults|flags.IniIncludeDefaults)
	return nil
}
