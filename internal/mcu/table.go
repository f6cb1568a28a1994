package mcu

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed families/families.yaml
var familiesYAML []byte

// Family is one row of the MCU flag table.
type Family struct {
	// Name identifies the row (e.g., "STM32F4/L4")
	Name string `yaml:"name"`

	// Pattern is an RE2 expression matched against the start of the part number
	Pattern string `yaml:"pattern"`

	// Flags are the GCC code generation flags for the family
	Flags string `yaml:"flags"`

	// Description is free text shown by the mcus command
	Description string `yaml:"description,omitempty"`

	re *regexp.Regexp
}

// Match reports whether part belongs to the family.
func (f *Family) Match(part string) bool {
	return f.re != nil && f.re.MatchString(part)
}

// String returns a human-readable representation of the family.
func (f *Family) String() string {
	return fmt.Sprintf("%s (%s): %s", f.Name, f.Pattern, f.Flags)
}

// Table is an immutable, ordered MCU flag table.
// Rows are evaluated in order and the first match wins.
type Table struct {
	families     []*Family
	m7LinkFamily string
}

// tableContainer is for YAML unmarshaling
type tableContainer struct {
	M7LinkFamily string   `yaml:"m7_link_family"`
	Families     []Family `yaml:"families"`
}

var (
	builtinTable     *Table
	builtinTableOnce sync.Once
	builtinTableErr  error
)

// LoadTable returns the built-in table parsed from the embedded catalog.
// The catalog is parsed once; every call returns the same table.
func LoadTable() (*Table, error) {
	builtinTableOnce.Do(func() {
		builtinTable, builtinTableErr = ParseTable(familiesYAML)
	})
	return builtinTable, builtinTableErr
}

// ParseTable builds a table from a YAML catalog.
func ParseTable(data []byte) (*Table, error) {
	var container tableContainer
	if err := yaml.Unmarshal(data, &container); err != nil {
		return nil, fmt.Errorf("failed to parse MCU table: %w", err)
	}
	return NewTable(container.Families, container.M7LinkFamily)
}

// NewTable compiles families into a table. m7LinkFamily must name one of the
// families; its flags are used to link Cortex-M7 parts.
func NewTable(families []Family, m7LinkFamily string) (*Table, error) {
	t := &Table{
		families:     make([]*Family, 0, len(families)),
		m7LinkFamily: m7LinkFamily,
	}

	seen := make(map[string]bool, len(families))
	for i := range families {
		f := families[i]
		if f.Name == "" {
			return nil, fmt.Errorf("MCU family %d has no name", i+1)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate MCU family %q", f.Name)
		}
		seen[f.Name] = true

		if f.Pattern == "" {
			return nil, fmt.Errorf("MCU family %q has no pattern", f.Name)
		}
		re, err := regexp.Compile(`^(?:` + f.Pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("MCU family %q: invalid pattern: %w", f.Name, err)
		}
		f.re = re
		t.families = append(t.families, &f)
	}

	if t.Family(m7LinkFamily) == nil {
		return nil, fmt.Errorf("m7 link family %q is not in the table", m7LinkFamily)
	}

	return t, nil
}

// Extend returns a new table with extra evaluated before the existing rows.
// An extra family with the same name as an existing row replaces it.
func (t *Table) Extend(extra []Family) (*Table, error) {
	if len(extra) == 0 {
		return t, nil
	}

	override := make(map[string]bool, len(extra))
	merged := make([]Family, 0, len(extra)+len(t.families))
	for _, f := range extra {
		override[f.Name] = true
		merged = append(merged, f)
	}
	for _, f := range t.families {
		if override[f.Name] {
			continue
		}
		merged = append(merged, Family{
			Name:        f.Name,
			Pattern:     f.Pattern,
			Flags:       f.Flags,
			Description: f.Description,
		})
	}

	return NewTable(merged, t.m7LinkFamily)
}

// Families returns the rows in evaluation order.
func (t *Table) Families() []Family {
	out := make([]Family, len(t.families))
	for i, f := range t.families {
		out[i] = *f
	}
	return out
}

// Family returns the row with the given name, or nil.
func (t *Table) Family(name string) *Family {
	for _, f := range t.families {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// M7LinkFamily returns the name of the row used to link Cortex-M7 parts.
func (t *Table) M7LinkFamily() string {
	return t.m7LinkFamily
}

// Count returns the number of rows.
func (t *Table) Count() int {
	return len(t.families)
}
