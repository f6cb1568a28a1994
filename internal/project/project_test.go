package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func loadFixture(t *testing.T) *CProject {
	t.Helper()
	cp, err := LoadCProject(filepath.Join("testdata", "blinky.cproject"))
	if err != nil {
		t.Fatalf("LoadCProject() error = %v", err)
	}
	return cp
}

func TestLoadDescription(t *testing.T) {
	desc, err := LoadDescription(filepath.Join("testdata", "blinky.project"))
	if err != nil {
		t.Fatalf("LoadDescription() error = %v", err)
	}

	if desc.Name != "Blinky Configuration" {
		t.Errorf("Name = %q, want 'Blinky Configuration'", desc.Name)
	}

	if len(desc.Links) != 11 {
		t.Fatalf("len(Links) = %d, want 11", len(desc.Links))
	}

	folder := desc.Links[0]
	if folder.IsFile() {
		t.Error("virtual folder link should not be a file")
	}
	if folder.LocationURI != "virtual:/virtual" {
		t.Errorf("LocationURI = %q, want virtual:/virtual", folder.LocationURI)
	}

	main := desc.Links[1]
	if !main.IsFile() {
		t.Error("main.c link should be a file")
	}
	if main.Name != "Application/User/main.c" || main.Location != "PARENT-3-PROJECT_LOC/Src/main.c" {
		t.Errorf("unexpected link %+v", main)
	}
}

func TestLoadDescription_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDescription(filepath.Join(dir, "missing.project"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("missing file: error = %v, want *ParseError", err)
	}

	bad := filepath.Join(dir, "bad.project")
	if err := os.WriteFile(bad, []byte("<projectDescription><linkedResources>"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadDescription(bad)
	if !errors.As(err, &parseErr) {
		t.Errorf("truncated file: error = %v, want *ParseError", err)
	}

	wrong := filepath.Join(dir, "wrong.project")
	if err := os.WriteFile(wrong, []byte("<cproject/>"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadDescription(wrong)
	if !errors.As(err, &parseErr) {
		t.Errorf("wrong root: error = %v, want *ParseError", err)
	}
}

func TestCProject_MCU(t *testing.T) {
	mcu, err := loadFixture(t).MCU()
	if err != nil {
		t.Fatalf("MCU() error = %v", err)
	}
	if mcu != "STM32F407VGTx" {
		t.Errorf("MCU() = %q, want STM32F407VGTx", mcu)
	}
}

func TestCProject_MCU_Missing(t *testing.T) {
	cp, err := ParseCProject([]byte(`<cproject><toolChain superClass="fr.ac6.managedbuild.toolchain.gnu.cross.exe.debug"><option name="Board" value="X"/></toolChain></cproject>`))
	if err != nil {
		t.Fatalf("ParseCProject() error = %v", err)
	}

	_, err = cp.MCU()
	var missing *MissingNodeError
	if !errors.As(err, &missing) {
		t.Fatalf("MCU() error = %v, want *MissingNodeError", err)
	}
	if missing.Error() != "no target MCU defined" {
		t.Errorf("Error() = %q", missing.Error())
	}
}

func TestCProject_ToolOptions(t *testing.T) {
	cp := loadFixture(t)

	includes := cp.ToolOptions(ToolCCompiler, ValueIncludePath)
	if len(includes) != 2 {
		t.Fatalf("len(includes) = %d, want 2 (Debug and Release)", len(includes))
	}
	if includes[0].ValueType != ValueIncludePath {
		t.Errorf("ValueType = %q, want includePath", includes[0].ValueType)
	}
	if len(includes[0].Values) != 6 {
		t.Errorf("len(Values) = %d, want 6", len(includes[0].Values))
	}
	if includes[0].Values[5] != "" {
		t.Errorf("Values[5] = %q, want empty value kept", includes[0].Values[5])
	}

	asm := cp.ToolOptions(ToolAssembler, ValueIncludePath)
	if len(asm) != 2 || !reflect.DeepEqual(asm[0].Values, []string{"../../../Inc"}) {
		t.Errorf("assembler includes = %+v", asm)
	}

	if defs := cp.ToolOptions(ToolAssembler, ValueDefinedSymbols); len(defs) != 0 {
		t.Errorf("assembler defines = %+v, want none", defs)
	}
}

func TestCProject_Scope(t *testing.T) {
	cp := loadFixture(t)

	if got := cp.Configurations(); !reflect.DeepEqual(got, []string{"Debug", "Release"}) {
		t.Errorf("Configurations() = %v, want [Debug Release]", got)
	}

	release, err := cp.Scope("Release")
	if err != nil {
		t.Fatalf("Scope(Release) error = %v", err)
	}

	defs := release.ToolOptions(ToolCCompiler, ValueDefinedSymbols)
	if len(defs) != 1 {
		t.Fatalf("len(defs) = %d, want 1", len(defs))
	}
	if last := defs[0].Values[len(defs[0].Values)-1]; last != "NDEBUG" {
		t.Errorf("last Release define = %q, want NDEBUG", last)
	}

	mcu, err := release.MCU()
	if err != nil || mcu != "STM32F407VGTx" {
		t.Errorf("Release MCU() = %q, %v", mcu, err)
	}

	_, err = cp.Scope("Profile")
	var missing *MissingNodeError
	if !errors.As(err, &missing) {
		t.Fatalf("Scope(Profile) error = %v, want *MissingNodeError", err)
	}
	if !reflect.DeepEqual(missing.Available, []string{"Debug", "Release"}) {
		t.Errorf("Available = %v, want [Debug Release]", missing.Available)
	}
	if !strings.HasSuffix(missing.Error(), "(available: Debug, Release)") {
		t.Errorf("Error() = %q", missing.Error())
	}
}

func TestCProject_LinkerScript(t *testing.T) {
	script, err := loadFixture(t).LinkerScript()
	if err != nil {
		t.Fatalf("LinkerScript() error = %v", err)
	}
	if script != "../STM32F407VGTx_FLASH.ld" {
		t.Errorf("LinkerScript() = %q", script)
	}

	cp, err := ParseCProject([]byte(`<cproject><tool superClass="fr.ac6.managedbuild.tool.gnu.cross.c.linker"/></cproject>`))
	if err != nil {
		t.Fatalf("ParseCProject() error = %v", err)
	}
	_, err = cp.LinkerScript()
	var missing *MissingNodeError
	if !errors.As(err, &missing) || missing.Error() != "no link script defined" {
		t.Errorf("LinkerScript() error = %v, want 'no link script defined'", err)
	}
}

func TestParseCProject_WrongRoot(t *testing.T) {
	if _, err := ParseCProject([]byte(`<projectDescription/>`)); err == nil {
		t.Error("ParseCProject() expected error for wrong root element")
	}
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	projectDir := filepath.Join(root, "Blinky")
	ideDir := filepath.Join(projectDir, IDEFolder, "Blinky Configuration")
	if err := os.MkdirAll(ideDir, 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Locate(projectDir)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Locate() on empty folder error = %v, want *NotFoundError", err)
	}
	if len(notFound.Missing) != 2 {
		t.Errorf("Missing = %v, want both files", notFound.Missing)
	}

	for _, f := range []string{".project", ".cproject"} {
		if err := os.WriteFile(filepath.Join(ideDir, f), []byte("<x/>"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := Locate(projectDir)
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if files.Name != "Blinky" {
		t.Errorf("Name = %q, want Blinky", files.Name)
	}
	if files.CProject != filepath.Join(ideDir, ".cproject") {
		t.Errorf("CProject = %q", files.CProject)
	}
}

func TestName(t *testing.T) {
	tests := map[string]string{
		"/work/Blinky":     "Blinky",
		"/work/Blinky/":    "Blinky",
		"/work/Blinky.ioc": "Blinky",
		"relative/Motor":   "Motor",
	}
	for in, want := range tests {
		if got := Name(in); got != want {
			t.Errorf("Name(%q) = %q, want %q", in, got, want)
		}
	}
}
