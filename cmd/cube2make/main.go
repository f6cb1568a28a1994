// Cube2make converts an STM32CubeMX project generated for SW4STM32 into a
// GNU Makefile for the arm-none-eabi toolchain.
//
// It reads the Eclipse .project and CDT .cproject files from
// <project>/SW4STM32/<name> Configuration/, resolves the target MCU, collects
// sources, include paths and defines, renders a Makefile into the project
// folder and copies the linker script next to it.
//
// Usage:
//
//	cube2make <project folder> <STM32Cube repository folder> [flags]
//
// Exit codes: 0 success, -1 usage, -2 template, -3 no project,
// -4 project file, -5 source type or I/O, -6 unknown MCU.
// See 'cube2make --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/cube2make/internal/convert"
	"github.com/muurk/cube2make/internal/logging"
	"github.com/muurk/cube2make/internal/version"
)

// errReported marks errors that were already shown in a failure box.
var errReported = errors.New("reported")

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if convert.IsUsageError(err) {
				fmt.Fprintln(os.Stderr, "Run 'cube2make --help' for usage.")
			}
		}
		os.Exit(convert.ExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "cube2make <project folder> <repository folder>",
	Short: "STM32CubeMX SW4STM32 project to Makefile converter",
	Long: `Generate a GNU Makefile for an STM32CubeMX project.

The project folder is the "Toolchain Folder Location" chosen in STM32CubeMX
with SW4STM32 selected as toolchain. The repository folder is the STM32Cube
firmware package (for example ~/STM32Cube/Repository/STM32Cube_FW_F4_V1.9.0)
the generated project links its drivers and middlewares from.

The Makefile is written into the project folder and the linker script is
copied next to it. Nothing is written when any step fails.

A project folder named like a subcommand (config, mcus, resolve, version)
must be passed with a path prefix, e.g. ./config.`,
	Version: version.Version,
	Example: `  # Generate Makefile and copy the linker script
  cube2make ~/work/Blinky ~/STM32Cube/Repository/STM32Cube_FW_F4_V1.9.0

  # Print the Makefile instead of writing it
  cube2make ./Blinky ~/STM32Cube/Repository/STM32Cube_FW_F4_V1.9.0 --dry-run

  # Use a custom template and only the Release configuration
  cube2make ./Blinky ./repo --template my.tmpl --build-config Release`,
	Args:          exactArgs(2),
	RunE:          runConvert,
	SilenceErrors: true,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return convert.UsageError("%v", err)
	})

	rootCmd.AddCommand(versionCmd)
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return convert.UsageError("accepts %d arg(s), received %d", n, len(args))
		}
		return nil
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  noArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !verboseVersion {
			fmt.Printf("cube2make %s (commit: %s)\n", version.Version, version.Commit)
			return
		}
		details := version.Details()
		for _, key := range []string{"Version", "Commit", "Go", "Platform"} {
			fmt.Printf("%-9s %s\n", key+":", details[key])
		}
	},
}

var verboseVersion bool

func init() {
	versionCmd.Flags().BoolVarP(&verboseVersion, "verbose", "v", false, "Show build details")
}
