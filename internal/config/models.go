package config

import "github.com/muurk/cube2make/internal/mcu"

// CurrentVersion is the config file format version.
const CurrentVersion = 1

// Registry represents the entire user configuration file.
// Command-line flags take precedence over every value stored here.
type Registry struct {
	Version int `yaml:"version"`

	// Template is the path of a Makefile template replacing the built-in one
	Template string `yaml:"template,omitempty"`
	// LogLevel enables logging at the given level (debug, info, warn, error)
	LogLevel string `yaml:"log_level,omitempty"`
	// Strict fails conversions on paths that could not be rooted
	Strict bool `yaml:"strict,omitempty"`
	// BuildConfig restricts extraction to one CDT build configuration
	BuildConfig string `yaml:"build_config,omitempty"`

	// MCUFamilies are extra MCU families, evaluated before the built-in table
	MCUFamilies []*MCUFamily `yaml:"mcu_families,omitempty"`
}

// MCUFamily is a user-defined MCU family.
type MCUFamily struct {
	Name        string `yaml:"name"`                  // e.g., "STM32G0"
	Pattern     string `yaml:"pattern"`               // Regular expression matched at the start of the part number
	Flags       string `yaml:"flags"`                 // Compiler and linker flags
	Description string `yaml:"description,omitempty"` // Shown by "cube2make mcus"
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: CurrentVersion,
	}
}

// Families converts the configured MCU families for the MCU table.
func (r *Registry) Families() []mcu.Family {
	families := make([]mcu.Family, 0, len(r.MCUFamilies))
	for _, f := range r.MCUFamilies {
		if f == nil {
			continue
		}
		families = append(families, mcu.Family{
			Name:        f.Name,
			Pattern:     f.Pattern,
			Flags:       f.Flags,
			Description: f.Description,
		})
	}
	return families
}

// Table returns the built-in MCU table extended with the configured families.
func (r *Registry) Table() (*mcu.Table, error) {
	table, err := mcu.LoadTable()
	if err != nil {
		return nil, err
	}
	if len(r.MCUFamilies) == 0 {
		return table, nil
	}
	return table.Extend(r.Families())
}

// SetMCUFamily adds a family or replaces the one with the same name.
func (r *Registry) SetMCUFamily(family *MCUFamily) {
	for i, f := range r.MCUFamilies {
		if f != nil && f.Name == family.Name {
			r.MCUFamilies[i] = family
			return
		}
	}
	r.MCUFamilies = append(r.MCUFamilies, family)
}

// RemoveMCUFamily removes a family by name and reports whether it existed.
func (r *Registry) RemoveMCUFamily(name string) bool {
	for i, f := range r.MCUFamilies {
		if f != nil && f.Name == name {
			r.MCUFamilies = append(r.MCUFamilies[:i], r.MCUFamilies[i+1:]...)
			return true
		}
	}
	return false
}
