package mcu

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CortexM7 is the core identifier that triggers the M7 link override.
const CortexM7 = "cortex-m7"

// Flags is the outcome of resolving a part number.
type Flags struct {
	// Part is the part number that was resolved (e.g., "STM32F746NGHx")
	Part string

	// Family is the name of the matching table row
	Family string

	// Compile are the flags passed to the compiler and assembler
	Compile string

	// Link are the flags passed to the linker. They equal Compile except for
	// Cortex-M7 parts, which link with the M4 flags.
	Link string
}

// UnknownMCUError is returned when no table row matches a part number.
type UnknownMCUError struct {
	Part string
}

func (e *UnknownMCUError) Error() string {
	return fmt.Sprintf("unknown MCU %q", e.Part)
}

// Resolver maps part numbers to compiler and linker flags.
type Resolver struct {
	table  *Table
	logger *zap.Logger
}

// NewResolver creates a resolver over table.
func NewResolver(table *Table, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		table:  table,
		logger: logger,
	}
}

// Resolve returns the flags for part.
func (r *Resolver) Resolve(part string) (Flags, error) {
	part = strings.TrimSpace(part)

	var match *Family
	for _, f := range r.table.families {
		if f.Match(part) {
			match = f
			break
		}
	}
	if match == nil {
		r.logger.Debug("no MCU family matched", zap.String("part", part))
		return Flags{}, &UnknownMCUError{Part: part}
	}

	flags := Flags{
		Part:    part,
		Family:  match.Name,
		Compile: match.Flags,
		Link:    match.Flags,
	}

	if strings.Contains(flags.Compile, CortexM7) {
		// NewTable guarantees the link family exists
		link := r.table.Family(r.table.m7LinkFamily)
		flags.Link = link.Flags
		r.logger.Debug("linking Cortex-M7 part with M4 flags",
			zap.String("part", part),
			zap.String("link_family", link.Name),
		)
	}

	r.logger.Debug("resolved MCU",
		zap.String("part", part),
		zap.String("family", flags.Family),
		zap.String("compile_flags", flags.Compile),
		zap.String("link_flags", flags.Link),
	)

	return flags, nil
}
