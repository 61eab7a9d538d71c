package repl

import (
	"sort"
	"strings"
)

// Completer resolves slash command prefixes.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer for the given commands.
func NewCompleter(commands ...string) *Completer {
	c := &Completer{commands: append([]string(nil), commands...)}
	sort.Strings(c.commands)
	return c
}

// Complete returns the commands starting with prefix, sorted.
func (c *Completer) Complete(prefix string) []string {
	var out []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}

// Resolve returns the command named by prefix: an exact match, or the
// only command with that prefix.
func (c *Completer) Resolve(prefix string) (string, bool) {
	matches := c.Complete(prefix)
	for _, m := range matches {
		if m == prefix {
			return m, true
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	return "", false
}
