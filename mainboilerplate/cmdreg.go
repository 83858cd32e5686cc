package mainboilerplate

import (
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// CommandRegistry collects sub-commands for later addition to a
// github.com/jessevdk/go-flags Command tree. Sub-commands may be registered
// (eg, from init functions) before their parent Command exists.
type CommandRegistry map[string][]registeredCommand

type registeredCommand struct {
	name, short, long string
	data              interface{}
}

// NewCommandRegistry returns an empty CommandRegistry.
func NewCommandRegistry() CommandRegistry {
	return make(CommandRegistry)
}

// AddCommand registers a command |name| under |parent|, which is a path of
// dot-separated command names relative to the root, or "" for the root itself.
//
//	AddCommand("", "level1", ...)
//	AddCommand("level1", "level2", ...)
func (cr CommandRegistry) AddCommand(parent, name, short, long string, data interface{}) {
	cr[parent] = append(cr[parent], registeredCommand{name: name, short: short, long: long, data: data})
}

// AddCommands adds all registered commands beneath |root|, recursively.
// It returns an error if a command's parent was never added.
func (cr CommandRegistry) AddCommands(root *flags.Command) error {
	var added = map[string]bool{"": true}

	if err := cr.addUnder("", root, added); err != nil {
		return err
	}
	for parent := range cr {
		if !added[parent] {
			return errors.Errorf("parent command %q of %d registered command(s) was not found", parent, len(cr[parent]))
		}
	}
	return nil
}

func (cr CommandRegistry) addUnder(path string, cmd *flags.Command, added map[string]bool) error {
	for _, rc := range cr[path] {
		var child, err = cmd.AddCommand(rc.name, rc.short, rc.long, rc.data)
		if err != nil {
			return errors.WithMessagef(err, "adding command %q", rc.name)
		}

		var childPath = strings.TrimPrefix(path+"."+rc.name, ".")
		added[childPath] = true

		if err = cr.addUnder(childPath, child, added); err != nil {
			return err
		}
	}
	return nil
}
