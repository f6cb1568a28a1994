package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "cube2make") {
		t.Errorf("GetConfigDir() = %v, should contain 'cube2make'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME is only honoured on Linux and other Unix systems")
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if want := filepath.Join(xdg, "cube2make", "config.yaml"); configPath != want {
		t.Errorf("GetConfigPath() = %v, want %v", configPath, want)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != CurrentVersion {
		t.Errorf("NewRegistry().Version = %v, want %d", reg.Version, CurrentVersion)
	}
	if reg.Strict {
		t.Error("NewRegistry().Strict should be false by default")
	}
	if len(reg.MCUFamilies) != 0 {
		t.Errorf("NewRegistry().MCUFamilies = %v, want none", reg.MCUFamilies)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.Template = "/home/dev/Makefile.tmpl"
	reg.Strict = true
	reg.BuildConfig = "Release"
	reg.SetMCUFamily(&MCUFamily{Name: "STM32H7", Pattern: "STM32H7", Flags: "-mthumb -mcpu=cortex-m7"})

	if err := reg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if loaded.Template != reg.Template || !loaded.Strict || loaded.BuildConfig != "Release" {
		t.Errorf("loaded registry = %+v", loaded)
	}
	if len(loaded.MCUFamilies) != 1 || loaded.MCUFamilies[0].Flags != "-mthumb -mcpu=cortex-m7" {
		t.Errorf("loaded MCUFamilies = %+v", loaded.MCUFamilies)
	}
}

func TestLoadFrom_Missing(t *testing.T) {
	reg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if reg.Version != CurrentVersion {
		t.Errorf("Version = %d, want default", reg.Version)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":        "version: [1\n",
		"wrong version":   "version: 2\n",
		"missing pattern": "version: 1\nmcu_families:\n  - name: STM32H7\n    flags: -mthumb\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("LoadFrom() expected error")
			}
		})
	}
}

func TestRegistryMCUFamilies(t *testing.T) {
	reg := NewRegistry()
	reg.SetMCUFamily(&MCUFamily{Name: "STM32G0", Pattern: "STM32G0", Flags: "-mthumb -mcpu=cortex-m0"})
	reg.SetMCUFamily(&MCUFamily{Name: "STM32G0", Pattern: "STM32G0", Flags: "-mthumb -mcpu=cortex-m0plus"})

	if len(reg.MCUFamilies) != 1 {
		t.Fatalf("SetMCUFamily() should replace by name, got %d families", len(reg.MCUFamilies))
	}

	table, err := reg.Table()
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if f := table.Family("STM32G0"); f == nil || f.Flags != "-mthumb -mcpu=cortex-m0plus" {
		t.Errorf("Family(STM32G0) = %v", f)
	}
	if table.Family("STM32F4/L4") == nil {
		t.Error("built-in families should be kept")
	}

	if !reg.RemoveMCUFamily("STM32G0") || reg.RemoveMCUFamily("STM32G0") {
		t.Error("RemoveMCUFamily() should remove exactly once")
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("relies on XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := CreateDefaultConfig(false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# cube2make configuration file") {
		t.Error("config file should start with the header comment")
	}

	if _, err := CreateDefaultConfig(false); err == nil {
		t.Error("CreateDefaultConfig() should refuse to overwrite")
	}
	if _, err := CreateDefaultConfig(true); err != nil {
		t.Errorf("CreateDefaultConfig(overwrite) error = %v", err)
	}

	reg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if len(reg.MCUFamilies) != 1 {
		t.Errorf("default config MCUFamilies = %v", reg.MCUFamilies)
	}
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}
