package extract

import (
	"path"
	"strings"

	"github.com/muurk/cube2make/internal/project"
)

// linkerScriptPrefix is the relative prefix the IDE puts in front of linker
// scripts stored next to the workspace.
const linkerScriptPrefix = "../../../"

// LinkerScript is the linker script declared by the project.
type LinkerScript struct {
	// Raw is the option value as written in .cproject
	Raw string
	// Name is the script's base name, e.g. "STM32F407VGTx_FLASH.ld"
	Name string
}

// LocateLinkerScript reads the linker script option and resolves its name.
func LocateLinkerScript(cp *project.CProject) (*LinkerScript, error) {
	raw, err := cp.LinkerScript()
	if err != nil {
		return nil, err
	}

	name := LinkerScriptName(raw)
	if name == "" {
		return nil, &project.MissingNodeError{What: "link script", File: cp.File}
	}

	return &LinkerScript{Raw: raw, Name: name}, nil
}

// LinkerScriptName converts separators, strips the fixed three-level relative
// prefix and returns the base name, or "" if nothing is left.
func LinkerScriptName(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
	s = strings.TrimPrefix(s, linkerScriptPrefix)
	if s == "" || strings.HasSuffix(s, "/") {
		return ""
	}

	name := path.Base(s)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}
