package buildconfig

import (
	"path/filepath"
	"strings"

	"github.com/muurk/cube2make/internal/extract"
	"github.com/muurk/cube2make/internal/mcu"
)

// Placeholder names understood by Makefile templates.
const (
	KeyTarget      = "TARGET"
	KeyPrjPath     = "PRJ_PATH"
	KeyRepoPath    = "REPO_PATH"
	KeyMCU         = "MCU"
	KeyLDMCU       = "LDMCU"
	KeyCSources    = "C_SOURCES"
	KeyASMSources  = "ASM_SOURCES"
	KeyASMDefs     = "ASM_DEFS"
	KeyASMIncludes = "ASM_INCLUDES"
	KeyCDefs       = "C_DEFS"
	KeyCIncludes   = "C_INCLUDES"
	KeyLDScript    = "LDSCRIPT"
)

// Keys lists every placeholder in template order.
var Keys = []string{
	KeyTarget, KeyPrjPath, KeyRepoPath, KeyMCU, KeyLDMCU,
	KeyCSources, KeyASMSources, KeyASMDefs, KeyASMIncludes,
	KeyCDefs, KeyCIncludes, KeyLDScript,
}

// BuildConfig is the assembled set of values substituted into the Makefile
// template. List fields are already formatted with FormatList.
type BuildConfig struct {
	Target      string
	PrjPath     string
	RepoPath    string
	MCUFlags    string
	LDMCUFlags  string
	CSources    string
	ASMSources  string
	ASMIncludes string
	ASMDefs     string
	CIncludes   string
	CDefs       string
	LDScript    string
}

// Inputs are the extracted project values Assemble works from.
type Inputs struct {
	// Target is the project name
	Target string
	// ProjectDir and RepoDir are host directories, rendered with '/'
	ProjectDir string
	RepoDir    string

	MCU     mcu.Flags
	Sources *extract.Sources

	ASMIncludes []string
	ASMDefines  []string
	CIncludes   []string
	CDefines    []string

	// LinkerScript is the script's base name
	LinkerScript string
}

// Assemble formats inputs into a BuildConfig.
func Assemble(in Inputs) BuildConfig {
	var cSources, asmSources []string
	if in.Sources != nil {
		cSources = extract.Paths(in.Sources.C)
		asmSources = extract.Paths(in.Sources.ASM)
	}

	return BuildConfig{
		Target:      in.Target,
		PrjPath:     filepath.ToSlash(in.ProjectDir),
		RepoPath:    filepath.ToSlash(in.RepoDir),
		MCUFlags:    in.MCU.Compile,
		LDMCUFlags:  in.MCU.Link,
		CSources:    FormatList(cSources),
		ASMSources:  FormatList(asmSources),
		ASMIncludes: FormatList(in.ASMIncludes),
		ASMDefs:     FormatList(in.ASMDefines),
		CIncludes:   FormatList(in.CIncludes),
		CDefs:       FormatList(in.CDefines),
		LDScript:    in.LinkerScript,
	}
}

// Placeholders returns the configuration keyed by placeholder name.
func (c BuildConfig) Placeholders() map[string]string {
	return map[string]string{
		KeyTarget:      c.Target,
		KeyPrjPath:     c.PrjPath,
		KeyRepoPath:    c.RepoPath,
		KeyMCU:         c.MCUFlags,
		KeyLDMCU:       c.LDMCUFlags,
		KeyCSources:    c.CSources,
		KeyASMSources:  c.ASMSources,
		KeyASMDefs:     c.ASMDefs,
		KeyASMIncludes: c.ASMIncludes,
		KeyCDefs:       c.CDefs,
		KeyCIncludes:   c.CIncludes,
		KeyLDScript:    c.LDScript,
	}
}

// FormatList renders items as the value of a Makefile variable continued over
// several lines:
//
//	\
//	    first \
//	    second
//
// An empty list renders as a single newline.
func FormatList(items []string) string {
	if len(items) == 0 {
		return "\n"
	}

	var b strings.Builder
	b.WriteString("\\\n")
	for i, item := range items {
		if i > 0 {
			b.WriteString(" \\\n")
		}
		b.WriteString("    ")
		b.WriteString(item)
	}
	b.WriteString("\n")
	return b.String()
}
