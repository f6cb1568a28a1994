package extract

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/muurk/cube2make/internal/pathnorm"
	"github.com/muurk/cube2make/internal/project"
)

func fixture(name string) string {
	return filepath.Join("..", "project", "testdata", name)
}

func loadCProject(t *testing.T) *project.CProject {
	t.Helper()
	cp, err := project.LoadCProject(fixture("blinky.cproject"))
	if err != nil {
		t.Fatalf("LoadCProject() error = %v", err)
	}
	return cp
}

func TestClassifySources(t *testing.T) {
	desc, err := project.LoadDescription(fixture("blinky.project"))
	if err != nil {
		t.Fatalf("LoadDescription() error = %v", err)
	}

	sources, err := ClassifySources(desc.Links, pathnorm.New("", ""))
	if err != nil {
		t.Fatalf("ClassifySources() error = %v", err)
	}

	wantC := []string{
		"$(PRJ_PATH)/Src/main.c",
		"$(PRJ_PATH)/Src/stm32f4xx_hal_msp.c",
		"$(PRJ_PATH)/Src/stm32f4xx_it.c",
		"$(REPO_PATH)/Drivers/CMSIS/Device/ST/STM32F4xx/Source/Templates/system_stm32f4xx.c",
		"$(REPO_PATH)/Drivers/STM32F4xx_HAL_Driver/Src/stm32f4xx_hal.c",
		"$(REPO_PATH)/Drivers/STM32F4xx_HAL_Driver/Src/stm32f4xx_hal_gpio.c",
		"$(REPO_PATH)/Drivers/STM32F4xx_HAL_Driver/Src/stm32f4xx_hal_rcc.c",
		"$(REPO_PATH)/Middlewares/Third_Party/FreeRTOS/Source/tasks.c",
	}
	if got := Paths(sources.C); !reflect.DeepEqual(got, wantC) {
		t.Errorf("C sources =\n%v\nwant\n%v", got, wantC)
	}

	wantASM := []string{"$(REPO_PATH)/Drivers/CMSIS/Device/ST/STM32F4xx/Source/Templates/gcc/startup_stm32f407xx.s"}
	if got := Paths(sources.ASM); !reflect.DeepEqual(got, wantASM) {
		t.Errorf("ASM sources = %v, want %v", got, wantASM)
	}

	if !reflect.DeepEqual(sources.Skipped, []string{"Application/User"}) {
		t.Errorf("Skipped = %v, want the virtual folder", sources.Skipped)
	}
	if len(sources.Unrooted) != 0 {
		t.Errorf("Unrooted = %v, want none", sources.Unrooted)
	}
	for _, s := range sources.ASM {
		if s.Kind != KindASM {
			t.Errorf("%s Kind = %v, want ASM", s.Path, s.Kind)
		}
	}
}

func TestClassifySources_UnknownExtension(t *testing.T) {
	links := []project.LinkedResource{
		{Name: "Application/User/main.c", Type: project.LinkTypeFile, Location: "PARENT-3-PROJECT_LOC/Src/main.c"},
		{Name: "Application/User/main.o", Type: project.LinkTypeFile, Location: "PARENT-3-PROJECT_LOC/obj/main.o"},
	}

	_, err := ClassifySources(links, pathnorm.New("", ""))
	var unknown *UnknownSourceError
	if !errors.As(err, &unknown) {
		t.Fatalf("ClassifySources() error = %v, want *UnknownSourceError", err)
	}
	if unknown.Ext != ".o" {
		t.Errorf("Ext = %q, want .o", unknown.Ext)
	}
	if unknown.Path != "$(PRJ_PATH)/obj/main.o" {
		t.Errorf("Path = %q", unknown.Path)
	}
}

func TestClassifySources_UpperCaseAssembly(t *testing.T) {
	links := []project.LinkedResource{
		{Name: "Application/User/startup.S", Type: project.LinkTypeFile, Location: "PARENT-1-PROJECT_LOC/startup/startup.S"},
	}

	sources, err := ClassifySources(links, pathnorm.New("", ""))
	if err != nil {
		t.Fatalf("ClassifySources() error = %v", err)
	}
	if got := Paths(sources.ASM); !reflect.DeepEqual(got, []string{"$(PRJ_PATH)/startup/startup.S"}) {
		t.Errorf("ASM sources = %v", got)
	}
}

func TestClassifySources_Unrooted(t *testing.T) {
	links := []project.LinkedResource{
		{Name: "Lib/extra.c", Type: project.LinkTypeFile, Location: "/opt/vendor/extra.c"},
	}

	sources, err := ClassifySources(links, pathnorm.New("/home/dev/Blinky", ""))
	if err != nil {
		t.Fatalf("ClassifySources() error = %v", err)
	}
	if !reflect.DeepEqual(sources.Unrooted, []string{"/opt/vendor/extra.c"}) {
		t.Errorf("Unrooted = %v", sources.Unrooted)
	}
	if got := Paths(sources.C); !reflect.DeepEqual(got, []string{"/opt/vendor/extra.c"}) {
		t.Errorf("C sources = %v, want the path passed through", got)
	}
}

func TestIncludes(t *testing.T) {
	cp := loadCProject(t)
	n := pathnorm.New("", "")

	c := Includes(cp, project.ToolCCompiler, n)
	want := []string{
		"-I$(PRJ_PATH)/Inc",
		"-I$(REPO_PATH)/Drivers/STM32F4xx_HAL_Driver/Inc",
		"-I$(REPO_PATH)/Drivers/STM32F4xx_HAL_Driver/Inc/Legacy",
		"-I$(REPO_PATH)/Drivers/CMSIS/Device/ST/STM32F4xx/Include",
		"-I$(REPO_PATH)/Drivers/CMSIS/Include",
	}
	if !reflect.DeepEqual(c.Values, want) {
		t.Errorf("C includes =\n%v\nwant\n%v", c.Values, want)
	}

	asm := Includes(cp, project.ToolAssembler, n)
	if !reflect.DeepEqual(asm.Values, []string{"-I$(PRJ_PATH)/Inc"}) {
		t.Errorf("ASM includes = %v", asm.Values)
	}
}

func TestDefines(t *testing.T) {
	cp := loadCProject(t)

	got := Defines(cp, project.ToolCCompiler).Values
	want := []string{
		`-D__weak=__attribute__\(\(weak\)\)`,
		`-D__packed=__attribute__\(\(__packed__\)\)`,
		"-DUSE_HAL_DRIVER",
		"-DSTM32F407xx",
		"-DNDEBUG",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("C defines =\n%v\nwant\n%v", got, want)
	}

	if asm := Defines(cp, project.ToolAssembler).Values; len(asm) != 0 {
		t.Errorf("ASM defines = %v, want none", asm)
	}

	debug, err := cp.Scope("Debug")
	if err != nil {
		t.Fatalf("Scope(Debug) error = %v", err)
	}
	if got := Defines(debug, project.ToolCCompiler).Values; len(got) != 4 {
		t.Errorf("Debug defines = %v, want 4 without NDEBUG", got)
	}
}

func TestEscapeDefine(t *testing.T) {
	tests := map[string]string{
		"USE_HAL_DRIVER":               "USE_HAL_DRIVER",
		"__weak=__attribute__((weak))": `__weak=__attribute__\(\(weak\)\)`,
		"F(x)":                         `F\(x\)`,
	}
	for in, want := range tests {
		if got := EscapeDefine(in); got != want {
			t.Errorf("EscapeDefine(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLinkerScriptName(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"../STM32F407VGTx_FLASH.ld", "STM32F407VGTx_FLASH.ld"},
		{"../../../STM32F103C8Tx_FLASH.ld", "STM32F103C8Tx_FLASH.ld"},
		{`..\..\..\STM32F103C8Tx_FLASH.ld`, "STM32F103C8Tx_FLASH.ld"},
		{"STM32L476RGTx_FLASH.ld", "STM32L476RGTx_FLASH.ld"},
		{"../../../", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LinkerScriptName(tt.raw); got != tt.expected {
			t.Errorf("LinkerScriptName(%q) = %q, want %q", tt.raw, got, tt.expected)
		}
	}
}

func TestLocateLinkerScript(t *testing.T) {
	script, err := LocateLinkerScript(loadCProject(t))
	if err != nil {
		t.Fatalf("LocateLinkerScript() error = %v", err)
	}
	if script.Name != "STM32F407VGTx_FLASH.ld" || script.Raw != "../STM32F407VGTx_FLASH.ld" {
		t.Errorf("LocateLinkerScript() = %+v", script)
	}

	cp, err := project.ParseCProject([]byte(`<cproject/>`))
	if err != nil {
		t.Fatal(err)
	}
	var missing *project.MissingNodeError
	if _, err := LocateLinkerScript(cp); !errors.As(err, &missing) {
		t.Errorf("LocateLinkerScript() error = %v, want *MissingNodeError", err)
	}
}
