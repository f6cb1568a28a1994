package extract

import (
	"strings"

	"github.com/muurk/cube2make/internal/pathnorm"
	"github.com/muurk/cube2make/internal/project"
)

// Flags is a list of compiler flags extracted from tool options.
type Flags struct {
	// Values are the flags in first-seen order, e.g. "-I$(PRJ_PATH)/Inc"
	Values []string

	// Unrooted lists include paths no normalization rule could root
	Unrooted []string
}

// defineEscaper escapes characters the shell would interpret in -D values.
var defineEscaper = strings.NewReplacer("(", `\(`, ")", `\)`)

// EscapeDefine escapes every parenthesis in a defined symbol.
func EscapeDefine(value string) string {
	return defineEscaper.Replace(value)
}

// Includes returns the -I flags of tool. Empty values are skipped and values
// repeated across build configurations are emitted once.
func Includes(cp *project.CProject, tool project.Tool, n *pathnorm.Normalizer) Flags {
	var flags Flags
	seen := make(map[string]bool)

	for _, opt := range cp.ToolOptions(tool, project.ValueIncludePath) {
		for _, v := range opt.Values {
			if v == "" {
				continue
			}
			p := n.Include(v)
			flag := "-I" + p.String()
			if seen[flag] {
				continue
			}
			seen[flag] = true
			flags.Values = append(flags.Values, flag)
			if !p.Rooted() {
				flags.Unrooted = append(flags.Unrooted, v)
			}
		}
	}

	return flags
}

// Defines returns the -D flags of tool with parentheses escaped. Empty values
// are skipped and values repeated across build configurations are emitted once.
func Defines(cp *project.CProject, tool project.Tool) Flags {
	var flags Flags
	seen := make(map[string]bool)

	for _, opt := range cp.ToolOptions(tool, project.ValueDefinedSymbols) {
		for _, v := range opt.Values {
			if v == "" {
				continue
			}
			flag := "-D" + EscapeDefine(v)
			if seen[flag] {
				continue
			}
			seen[flag] = true
			flags.Values = append(flags.Values, flag)
		}
	}

	return flags
}
