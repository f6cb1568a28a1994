// Package config provides user configuration management for cube2make.
//
// This package manages a YAML configuration file holding default settings for
// conversions (template, log level, strict mode, build configuration) and
// extra MCU families for parts the built-in table does not know. The file
// follows OS-specific conventions for its location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/cube2make/config.yaml or $HOME/.config/cube2make/config.yaml
//   - macOS: $HOME/.config/cube2make/config.yaml
//   - Windows: %LOCALAPPDATA%\cube2make\config.yaml
//
// # Example
//
//	version: 1
//	template: /home/dev/templates/Makefile.tmpl
//	strict: true
//	mcu_families:
//	  - name: STM32G0
//	    pattern: STM32G0
//	    flags: -mthumb -mcpu=cortex-m0plus
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File writes are protected by a mutex and performed atomically.
package config
