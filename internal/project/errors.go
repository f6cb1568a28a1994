package project

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when the IDE-generated project files are missing.
type NotFoundError struct {
	// Dir is the IDE project folder that was searched
	Dir string
	// Missing lists the expected files that do not exist
	Missing []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("SW4STM32 project not found in %q (missing: %s)",
		e.Dir, strings.Join(e.Missing, ", "))
}

// ParseError is returned when a project file cannot be read or decoded.
type ParseError struct {
	// File is the project file that failed to parse
	File string
	// Err is the underlying read or decode error
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse project file %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingNodeError is returned when a project file lacks an expected element
// or attribute.
type MissingNodeError struct {
	// What names the missing setting (e.g., "target MCU", "link script")
	What string
	// File is the project file that was searched
	File string
	// Available lists the alternatives the file does define, if any
	Available []string
}

func (e *MissingNodeError) Error() string {
	msg := fmt.Sprintf("no %s defined", e.What)
	if e.File != "" {
		msg += " in " + e.File
	}
	if len(e.Available) > 0 {
		msg += " (available: " + strings.Join(e.Available, ", ") + ")"
	}
	return msg
}
