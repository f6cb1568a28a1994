package project

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Identifiers used by the AC6 (System Workbench for STM32) CDT plugin.
const (
	// ToolchainPrefix prefixes the debug and release toolchain superClass
	ToolchainPrefix = "fr.ac6.managedbuild.toolchain.gnu.cross.exe"
	// DebugToolchain is the toolchain of the Debug configuration
	DebugToolchain = ToolchainPrefix + ".debug"

	// MCUOption is the name of the toolchain option holding the part number
	MCUOption = "Mcu"
	// LinkerScriptOption is the superClass of the linker script option
	LinkerScriptOption = "fr.ac6.managedbuild.tool.gnu.cross.c.linker.script"
)

// Tool identifies a build tool by its superClass.
type Tool string

const (
	ToolAssembler Tool = "fr.ac6.managedbuild.tool.gnu.cross.assembler"
	ToolCCompiler Tool = "fr.ac6.managedbuild.tool.gnu.cross.c.compiler"
	ToolCLinker   Tool = "fr.ac6.managedbuild.tool.gnu.cross.c.linker"
)

// String returns a short name for the tool
func (t Tool) String() string {
	switch t {
	case ToolAssembler:
		return "assembler"
	case ToolCCompiler:
		return "c compiler"
	case ToolCLinker:
		return "c linker"
	default:
		return string(t)
	}
}

// ValueType is the declared type of a list option.
type ValueType string

const (
	ValueIncludePath    ValueType = "includePath"
	ValueDefinedSymbols ValueType = "definedSymbols"
)

// ToolOption is one typed list option of a tool.
type ToolOption struct {
	ValueType ValueType
	Values    []string
}

// CProject is a parsed CDT .cproject file.
type CProject struct {
	// File is the path the project was loaded from, if any
	File string

	root *Node
}

// LoadCProject reads and decodes a .cproject file.
func LoadCProject(path string) (*CProject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}

	cp, err := ParseCProject(data)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	cp.File = path
	return cp, nil
}

// ParseCProject decodes the contents of a .cproject file.
func ParseCProject(data []byte) (*CProject, error) {
	var root Node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode cproject: %w", err)
	}
	if root.Name() != "cproject" {
		return nil, fmt.Errorf("unexpected root element <%s>, want <cproject>", root.Name())
	}
	return &CProject{root: &root}, nil
}

// Configurations returns the names of the build configurations in document
// order (typically "Debug" and "Release").
func (c *CProject) Configurations() []string {
	var names []string
	for _, n := range c.root.FindAll("configuration") {
		if name, ok := n.Attr("name"); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Scope returns a view restricted to the named build configuration.
func (c *CProject) Scope(configuration string) (*CProject, error) {
	n := c.root.Find("configuration", AttrEquals("name", configuration))
	if n == nil {
		return nil, &MissingNodeError{
			What:      fmt.Sprintf("build configuration %q", configuration),
			File:      c.File,
			Available: c.Configurations(),
		}
	}
	scoped := &Node{XMLName: c.root.XMLName, Children: []*Node{n}}
	return &CProject{File: c.File, root: scoped}, nil
}

// MCU returns the target part number declared on the toolchain.
// The Debug toolchain is preferred; any AC6 toolchain is accepted.
func (c *CProject) MCU() (string, error) {
	chains := c.root.FindAll("toolChain", AttrEquals("superClass", DebugToolchain))
	chains = append(chains, c.root.FindAll("toolChain", AttrHasPrefix("superClass", ToolchainPrefix))...)

	for _, chain := range chains {
		opt := chain.Child("option", AttrEquals("name", MCUOption))
		if opt == nil {
			continue
		}
		if v, ok := opt.Attr("value"); ok && v != "" {
			return v, nil
		}
	}
	return "", &MissingNodeError{What: "target MCU", File: c.File}
}

// ToolOptions returns the list options of tool with the given value type, in
// document order across all configurations in scope.
func (c *CProject) ToolOptions(tool Tool, valueType ValueType) []ToolOption {
	var out []ToolOption
	for _, t := range c.root.FindAll("tool", AttrEquals("superClass", string(tool))) {
		for _, opt := range t.ChildrenNamed("option", AttrEquals("valueType", string(valueType))) {
			option := ToolOption{ValueType: valueType}
			for _, v := range opt.ChildrenNamed("listOptionValue") {
				value, _ := v.Attr("value")
				option.Values = append(option.Values, value)
			}
			out = append(out, option)
		}
	}
	return out
}

// LinkerScript returns the raw value of the linker script option.
func (c *CProject) LinkerScript() (string, error) {
	for _, t := range c.root.FindAll("tool", AttrEquals("superClass", string(ToolCLinker))) {
		opt := t.Child("option", AttrEquals("superClass", LinkerScriptOption))
		if opt == nil {
			continue
		}
		if v, ok := opt.Attr("value"); ok && v != "" {
			return v, nil
		}
	}
	return "", &MissingNodeError{What: "link script", File: c.File}
}
