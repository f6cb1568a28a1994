package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/cube2make/internal/config"
	"github.com/muurk/cube2make/internal/convert"
	"github.com/muurk/cube2make/internal/logging"
	"github.com/muurk/cube2make/internal/mcu"
	"github.com/muurk/cube2make/internal/ui"
)

// Command flags
var (
	configFile     string
	templatePath   string
	outputPath     string
	buildConfig    string
	logLevel       string
	dryRun         bool
	strict         bool
	noCopyLDScript bool
	quiet          bool
	verbose        bool
	forceInit      bool
	mcuDescription string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/cube2make/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logs go to stderr")

	rootCmd.Flags().StringVarP(&templatePath, "template", "t", "", "Makefile template (default: built-in)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Makefile path (default: <project folder>/Makefile)")
	rootCmd.Flags().StringVar(&buildConfig, "build-config", "", "Only read options of this build configuration (e.g., Debug)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the Makefile to stdout and write nothing")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Fail on paths outside the project and repository")
	rootCmd.Flags().BoolVar(&noCopyLDScript, "no-copy-ldscript", false, "Do not copy the linker script into the project folder")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print created files and errors")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show a preview of the generated Makefile")

	rootCmd.AddCommand(mcusCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configMCUCmd)
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")

	configMCUCmd.AddCommand(configMCUAddCmd)
	configMCUCmd.AddCommand(configMCURemoveCmd)
	configMCUAddCmd.Flags().StringVar(&mcuDescription, "description", "", "Description shown by 'cube2make mcus'")
}

// noArgs is cobra.NoArgs reporting a usage error. A top-level subcommand
// given arguments most likely shadows a project folder of the same name.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if cmd.Parent() == rootCmd {
		return convert.UsageError("%q takes no arguments; to convert a project folder named %q pass it as ./%s",
			cmd.CommandPath(), cmd.Name(), cmd.Name())
	}
	return convert.UsageError("%q takes no arguments, received %d", cmd.CommandPath(), len(args))
}

func showHelp(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// loadSettings loads the user config and initializes logging. The
// --log-level flag wins over the config file.
func loadSettings(cmd *cobra.Command) (*config.Registry, error) {
	var (
		registry *config.Registry
		err      error
	)
	if configFile != "" {
		registry, err = config.LoadFrom(configFile)
	} else {
		registry, err = config.LoadRegistry()
	}
	if err != nil {
		return nil, convert.UsageError("invalid configuration: %v", err)
	}

	level := registry.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if level == "" {
		err = logging.InitializeFromEnv()
	} else {
		err = logging.Initialize(level)
	}
	if err != nil {
		return nil, convert.UsageError("%v", err)
	}
	return registry, nil
}

// conversionOptions merges flags over the config file.
func conversionOptions(cmd *cobra.Command, registry *config.Registry, args []string) (convert.Options, error) {
	opts := convert.Options{
		ProjectDir:       args[0],
		RepoDir:          args[1],
		TemplatePath:     registry.Template,
		Output:           outputPath,
		BuildConfig:      registry.BuildConfig,
		DryRun:           dryRun,
		Strict:           registry.Strict,
		SkipLinkerScript: noCopyLDScript,
		Logger:           logging.GetLogger(),
	}
	if cmd.Flags().Changed("template") {
		opts.TemplatePath = templatePath
	}
	if cmd.Flags().Changed("build-config") {
		opts.BuildConfig = buildConfig
	}
	if cmd.Flags().Changed("strict") {
		opts.Strict = strict
	}

	table, err := registry.Table()
	if err != nil {
		return opts, convert.UsageError("invalid mcu_families in config: %v", err)
	}
	opts.Table = table
	return opts, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	registry, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := conversionOptions(cmd, registry, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	template := "built-in"
	if opts.TemplatePath != "" {
		template = opts.TemplatePath
	}
	params := map[string]string{
		"Project":    args[0],
		"Repository": args[1],
		"Template":   template,
	}
	if opts.BuildConfig != "" {
		params["Build config"] = opts.BuildConfig
	}

	// The Makefile owns stdout on a dry run
	out := os.Stdout
	if dryRun {
		out = os.Stderr
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     "CubeMX to Makefile",
		Command:   "cube2make " + strings.Join(args, " "),
		Params:    params,
		StepNames: convert.StageNames(),
		Verbose:   verbose,
		Quiet:     quiet,
		Output:    out,
		Hints:     convert.TroubleshootingHints,
	})

	var result *convert.Result
	_, err = runner.Run(ctx, func(onStep ui.StepCallback) ([]ui.Detail, error) {
		var err error
		result, err = convert.Run(ctx, opts, observer(onStep))
		if err != nil {
			return nil, err
		}
		details := resultDetails(result)
		if verbose {
			runner.SetPreview(filepath.Base(result.MakefilePath), result.Makefile, ui.DefaultPreviewLines)
			details = append(details, makefileVariables(result.Makefile)...)
		}
		return details, nil
	})
	if err != nil {
		if quiet {
			return err
		}
		return errors.Join(err, errReported)
	}

	logging.LogConversion(result.Project.Name, result.MCU.Part, len(result.Sources.C), len(result.Sources.ASM), result.Created)

	if len(result.Warnings) > 0 && !quiet {
		printer := ui.NewPrinter(out)
		printer.Newline()
		printer.Warning("Paths left unchanged", unrootedDetails(result.Warnings)...)
	}

	if dryRun {
		fmt.Print(result.Makefile)
		return nil
	}
	for _, path := range result.Created {
		fmt.Printf("File created: %s\n", path)
	}
	return nil
}

// observer forwards conversion stages to the runner's step lines.
func observer(onStep ui.StepCallback) convert.Observer {
	return func(stage convert.Stage, status convert.Status, detail string) {
		var s ui.StepStatus
		switch status {
		case convert.StatusRunning:
			s = ui.StepRunning
		case convert.StatusDone:
			s = ui.StepComplete
		case convert.StatusFailed:
			s = ui.StepFailed
		case convert.StatusSkipped:
			s = ui.StepSkipped
		}
		onStep(int(stage), "", s, detail)
	}
}

func resultDetails(result *convert.Result) []ui.Detail {
	details := []ui.Detail{
		{Key: "Target", Value: result.Project.Name},
		{Key: "MCU", Value: result.MCU.Part + " (" + result.MCU.Family + ")"},
		{Key: "Sources", Value: fmt.Sprintf("%d C, %d ASM", len(result.Sources.C), len(result.Sources.ASM))},
		{Key: "Linker script", Value: result.LinkerScript.Name},
		{Key: "Makefile", Value: result.MakefilePath},
	}
	if n := len(result.Warnings); n > 0 {
		details = append(details, ui.Detail{Key: "Warnings", Value: strconv.Itoa(n) + " path(s) left unchanged"})
	}
	return details
}

// makefileVariables returns the single-line assignments of the rendered
// Makefile. Continued lists are already summarized in the result details.
func makefileVariables(makefile string) []ui.Detail {
	var out []ui.Detail
	for _, v := range ui.Variables(makefile) {
		if v.Value != "" {
			out = append(out, v)
		}
	}
	return out
}

func unrootedDetails(paths []string) []ui.Detail {
	details := make([]ui.Detail, len(paths))
	for i, p := range paths {
		details[i] = ui.Detail{Key: strconv.Itoa(i + 1), Value: p}
	}
	return details
}

// mcusCmd lists the MCU family table
var mcusCmd = &cobra.Command{
	Use:   "mcus",
	Short: "List supported MCU families",
	Long: `List the MCU families cube2make can generate flags for.

Families from mcu_families in the config file are listed first; the first
family whose pattern matches a part number wins.`,
	Args: noArgs,
	RunE: runMCUs,
}

func runMCUs(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	table, err := registry.Table()
	if err != nil {
		return convert.UsageError("invalid mcu_families in config: %v", err)
	}

	rows := make([][]string, 0, table.Count())
	for _, f := range table.Families() {
		rows = append(rows, []string{f.Name, f.Pattern, f.Flags, f.Description})
	}
	content := ui.RenderTable([]string{"FAMILY", "PATTERN", "FLAGS", "DESCRIPTION"}, rows)

	if ui.IsTerminal(os.Stdout) {
		return ui.RenderOnce(content + "\n")
	}
	ui.NewPrinter(os.Stdout).Println(content)
	return nil
}

// resolveCmd shows the flags for one part number
var resolveCmd = &cobra.Command{
	Use:   "resolve <part number>",
	Short: "Show compiler and linker flags for a part number",
	Example: `  cube2make resolve STM32F407VGTx
  cube2make resolve STM32H743ZITx`,
	Args: exactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	table, err := registry.Table()
	if err != nil {
		return convert.UsageError("invalid mcu_families in config: %v", err)
	}

	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		return convert.UsageError("%q is a folder, not a part number; to convert a project folder named resolve pass it as ./resolve", args[0])
	}

	printer := ui.NewPrinter(os.Stdout)
	flags, err := mcu.NewResolver(table, logging.GetLogger()).Resolve(args[0])
	if err != nil {
		if !convert.IsUnknownMCU(err) {
			return err
		}
		printer.Failure("Unknown MCU", err, convert.TroubleshootingHints(err))
		return errors.Join(err, errReported)
	}
	logging.Debug("resolved part", zap.String("part", flags.Part), zap.String("family", flags.Family))

	printer.Success(flags.Part,
		ui.Detail{Key: "Family", Value: flags.Family},
		ui.Detail{Key: "MCU", Value: flags.Compile},
		ui.Detail{Key: "LDMCU", Value: flags.Link},
	)
	return nil
}

// configCmd groups the config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the cube2make config file",
	Long: `Manage the YAML config file.

The config file sets defaults for --template, --log-level, --strict and
--build-config, and adds MCU families the built-in table does not know.
Flags always override the config file.`,
	Args: noArgs,
	RunE: showHelp,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  noArgs,
	RunE:  runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := configFile
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		if !ui.IsTerminal(os.Stdin) || !ui.ConfirmOverwrite(path) {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}

	if configFile == "" {
		if _, err := config.CreateDefaultConfig(true); err != nil {
			return err
		}
	} else if err := config.DefaultRegistry().SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("File created: %s\n", path)
	return nil
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			fmt.Println(configFile)
			return nil
		}
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		registry, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(registry)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

// configMCUCmd groups the MCU family commands
var configMCUCmd = &cobra.Command{
	Use:   "mcu",
	Short: "Add or remove MCU families in the config file",
	Long: `Add or remove MCU families in the config file.

Families from the config file are evaluated before the built-in table, so
they can also replace the flags of a built-in family with the same name.`,
	Args: noArgs,
	RunE: showHelp,
}

var configMCUAddCmd = &cobra.Command{
	Use:   "add <name> <pattern> <flags>",
	Short: "Add or replace an MCU family",
	Example: `  cube2make config mcu add STM32G0 STM32G0 "-mthumb -mcpu=cortex-m0plus"
  cube2make config mcu add STM32U5 STM32U5 "-mthumb -mcpu=cortex-m33 -mfpu=fpv5-sp-d16 -mfloat-abi=hard" --description "Cortex-M33 ultra-low-power parts"`,
	Args: exactArgs(3),
	RunE: runConfigMCUAdd,
}

var configMCURemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an MCU family from the config file",
	Args:  exactArgs(1),
	RunE:  runConfigMCURemove,
}

func runConfigMCUAdd(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	registry.SetMCUFamily(&config.MCUFamily{
		Name:        args[0],
		Pattern:     args[1],
		Flags:       args[2],
		Description: mcuDescription,
	})
	if _, err := registry.Table(); err != nil {
		return convert.UsageError("invalid MCU family %q: %v", args[0], err)
	}

	path, err := saveRegistry(registry)
	if err != nil {
		return err
	}

	ui.NewPrinter(os.Stdout).Success("MCU family saved",
		ui.Detail{Key: "Family", Value: args[0]},
		ui.Detail{Key: "Pattern", Value: args[1]},
		ui.Detail{Key: "Flags", Value: args[2]},
		ui.Detail{Key: "Config", Value: path},
	)
	return nil
}

func runConfigMCURemove(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if !registry.RemoveMCUFamily(args[0]) {
		return convert.UsageError("no MCU family %q in the config file", args[0])
	}

	path, err := saveRegistry(registry)
	if err != nil {
		return err
	}

	ui.NewPrinter(os.Stdout).Success("MCU family removed",
		ui.Detail{Key: "Family", Value: args[0]},
		ui.Detail{Key: "Config", Value: path},
	)
	return nil
}

// saveRegistry writes registry to --config or the default path and returns
// the path written.
func saveRegistry(registry *config.Registry) (string, error) {
	if configFile != "" {
		return configFile, registry.SaveTo(configFile)
	}

	path, err := config.GetConfigPath()
	if err != nil {
		return "", err
	}
	if err := registry.Save(); err != nil {
		return "", err
	}
	if _, err := config.ReloadRegistry(); err != nil {
		return "", fmt.Errorf("saved config does not load: %w", err)
	}
	return path, nil
}
