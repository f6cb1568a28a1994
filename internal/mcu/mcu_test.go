package mcu

import (
	"errors"
	"strings"
	"testing"
)

const (
	m0Flags = "-mthumb -mcpu=cortex-m0"
	m3Flags = "-mthumb -mcpu=cortex-m3"
	m4Flags = "-mthumb -mcpu=cortex-m4 -mfpu=fpv4-sp-d16 -mfloat-abi=softfp"
	m7Flags = "-mthumb -mcpu=cortex-m7 -mfpu=fpv4-sp-d16 -mfloat-abi=softfp"
)

func loadTable(t *testing.T) *Table {
	t.Helper()
	table, err := LoadTable()
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	return table
}

func TestLoadTable(t *testing.T) {
	table := loadTable(t)

	if table.Count() != 6 {
		t.Errorf("Count() = %d, want 6", table.Count())
	}

	if table.M7LinkFamily() != "STM32F4/L4" {
		t.Errorf("M7LinkFamily() = %q, want STM32F4/L4", table.M7LinkFamily())
	}

	again, err := LoadTable()
	if err != nil {
		t.Fatalf("LoadTable() second call error = %v", err)
	}
	if again != table {
		t.Error("LoadTable() should return the same table on every call")
	}
}

func TestResolve(t *testing.T) {
	resolver := NewResolver(loadTable(t), nil)

	tests := []struct {
		part        string
		wantFamily  string
		wantCompile string
		wantLink    string
	}{
		{"STM32F030F4Px", "STM32F0/L0", m0Flags, m0Flags},
		{"STM32L053R8Tx", "STM32F0/L0", m0Flags, m0Flags},
		{"STM32F103C8Tx", "STM32F1/L1", m3Flags, m3Flags},
		{"STM32F207ZGTx", "STM32F2/L2", m3Flags, m3Flags},
		{"STM32F303VCTx", "STM32F3/L3", m4Flags, m4Flags},
		{"STM32F407VGTx", "STM32F4/L4", m4Flags, m4Flags},
		{"STM32L476RGTx", "STM32F4/L4", m4Flags, m4Flags},
		{"STM32F746NGHx", "STM32F7/L7", m7Flags, m4Flags},
		{"STM32F767ZITx", "STM32F7/L7", m7Flags, m4Flags},
	}

	for _, tt := range tests {
		t.Run(tt.part, func(t *testing.T) {
			flags, err := resolver.Resolve(tt.part)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.part, err)
			}
			if flags.Family != tt.wantFamily {
				t.Errorf("Family = %q, want %q", flags.Family, tt.wantFamily)
			}
			if flags.Compile != tt.wantCompile {
				t.Errorf("Compile = %q, want %q", flags.Compile, tt.wantCompile)
			}
			if flags.Link != tt.wantLink {
				t.Errorf("Link = %q, want %q", flags.Link, tt.wantLink)
			}
		})
	}
}

func TestResolve_CompileEqualsLinkExceptM7(t *testing.T) {
	table := loadTable(t)
	resolver := NewResolver(table, nil)

	for _, f := range table.Families() {
		// Build a plausible part number from the pattern prefix
		part := strings.Replace(f.Pattern, "(F|L)", "F", 1) + "00xx"
		flags, err := resolver.Resolve(part)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", part, err)
		}

		isM7 := strings.Contains(flags.Compile, CortexM7)
		if !isM7 && flags.Compile != flags.Link {
			t.Errorf("%s: Compile %q != Link %q", part, flags.Compile, flags.Link)
		}
		if isM7 && flags.Link != table.Family(table.M7LinkFamily()).Flags {
			t.Errorf("%s: Link = %q, want M4 family flags", part, flags.Link)
		}
	}
}

func TestResolve_Unknown(t *testing.T) {
	resolver := NewResolver(loadTable(t), nil)

	for _, part := range []string{"", "STM32H743ZITx", "ATSAMD21G18A", "XSTM32F407VGTx"} {
		_, err := resolver.Resolve(part)
		if err == nil {
			t.Errorf("Resolve(%q) expected error", part)
			continue
		}
		var unknown *UnknownMCUError
		if !errors.As(err, &unknown) {
			t.Errorf("Resolve(%q) error type = %T, want *UnknownMCUError", part, err)
		}
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	table, err := NewTable([]Family{
		{Name: "specific", Pattern: "STM32F40", Flags: "-specific"},
		{Name: "generic", Pattern: "STM32F4", Flags: "-generic"},
	}, "generic")
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	flags, err := NewResolver(table, nil).Resolve("STM32F407VGTx")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if flags.Family != "specific" {
		t.Errorf("Family = %q, want specific", flags.Family)
	}
}

func TestNewTable_Errors(t *testing.T) {
	tests := []struct {
		name     string
		families []Family
		m7       string
	}{
		{"missing name", []Family{{Pattern: "X", Flags: "-x"}}, "x"},
		{"missing pattern", []Family{{Name: "x", Flags: "-x"}}, "x"},
		{"bad pattern", []Family{{Name: "x", Pattern: "STM32(", Flags: "-x"}}, "x"},
		{"duplicate", []Family{{Name: "x", Pattern: "A"}, {Name: "x", Pattern: "B"}}, "x"},
		{"unknown m7 link family", []Family{{Name: "x", Pattern: "A"}}, "y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.families, tt.m7); err == nil {
				t.Error("NewTable() expected error")
			}
		})
	}
}

func TestTable_Extend(t *testing.T) {
	table := loadTable(t)

	extended, err := table.Extend([]Family{
		{Name: "STM32G4", Pattern: "STM32G4", Flags: "-mthumb -mcpu=cortex-m4"},
		{Name: "STM32F0/L0", Pattern: "STM32(F|L)0", Flags: "-mthumb -mcpu=cortex-m0plus"},
	})
	if err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	if extended.Count() != table.Count()+1 {
		t.Errorf("Count() = %d, want %d", extended.Count(), table.Count()+1)
	}
	if table.Family("STM32G4") != nil {
		t.Error("Extend() must not modify the original table")
	}

	resolver := NewResolver(extended, nil)

	flags, err := resolver.Resolve("STM32G474RETx")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if flags.Family != "STM32G4" {
		t.Errorf("Family = %q, want STM32G4", flags.Family)
	}

	flags, err = resolver.Resolve("STM32F030F4Px")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if flags.Compile != "-mthumb -mcpu=cortex-m0plus" {
		t.Errorf("Compile = %q, want overridden M0 flags", flags.Compile)
	}
}

func TestParseTable_InvalidYAML(t *testing.T) {
	if _, err := ParseTable([]byte("families: [")); err == nil {
		t.Error("ParseTable() expected error for malformed YAML")
	}
}
