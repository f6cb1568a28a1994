package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/muurk/cube2make/internal/buildconfig"
	"github.com/muurk/cube2make/internal/extract"
	"github.com/muurk/cube2make/internal/makefile"
	"github.com/muurk/cube2make/internal/mcu"
	"github.com/muurk/cube2make/internal/pathnorm"
	"github.com/muurk/cube2make/internal/project"
)

// MakefileName is the default output file name.
const MakefileName = "Makefile"

// Options configures a conversion run.
type Options struct {
	// ProjectDir is the STM32CubeMX "Toolchain Folder Location"
	ProjectDir string
	// RepoDir is the STM32Cube firmware repository
	RepoDir string

	// TemplatePath overrides the built-in Makefile template when set
	TemplatePath string
	// Template is used instead of loading TemplatePath when not nil
	Template *makefile.Template

	// Output is the Makefile path. Default: <ProjectDir>/Makefile
	Output string

	// BuildConfig restricts extraction to one CDT build configuration
	BuildConfig string

	// Table is the MCU family table. Default: the built-in table
	Table *mcu.Table

	// DryRun renders the Makefile without writing any file
	DryRun bool
	// Strict fails the run on paths that could not be rooted
	Strict bool
	// SkipLinkerScript disables copying the linker script to ProjectDir
	SkipLinkerScript bool

	Logger *zap.Logger
}

// Result describes a conversion run.
type Result struct {
	Project *project.Files
	MCU     mcu.Flags
	Sources *extract.Sources
	Config  buildconfig.BuildConfig

	// Makefile is the rendered content as written, including the final newline
	Makefile     string
	MakefilePath string

	LinkerScript     *extract.LinkerScript
	LinkerScriptPath string

	// Created lists the files written, in order
	Created []string

	// Warnings lists paths that could not be rooted
	Warnings []string
}

type runner struct {
	opts    Options
	observe Observer
	logger  *zap.Logger
}

// Run converts the SW4STM32 project in opts.ProjectDir into a Makefile.
//
// Every extraction step and the render complete before the first file is
// written, so a failed run leaves the project folder untouched.
func Run(ctx context.Context, opts Options, observe Observer) (*Result, error) {
	if observe == nil {
		observe = func(Stage, Status, string) {}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &runner{opts: opts, observe: observe, logger: logger}

	tmpl, err := r.loadTemplate()
	if err != nil {
		return nil, err
	}

	projectDir, repoDir, err := checkDirs(opts.ProjectDir, opts.RepoDir)
	if err != nil {
		return nil, err
	}

	table := opts.Table
	if table == nil {
		if table, err = mcu.LoadTable(); err != nil {
			return nil, &Error{Kind: KindUsage, Message: "invalid MCU family table", Err: err}
		}
	}

	result := &Result{}

	// Locate
	err = r.stage(ctx, StageLocate, func() (string, error) {
		files, err := project.Locate(projectDir)
		if err != nil {
			return "", err
		}
		result.Project = files
		return files.Name, nil
	})
	if err != nil {
		return nil, err
	}

	// Parse
	var (
		desc *project.Description
		cp   *project.CProject
	)
	err = r.stage(ctx, StageParse, func() (string, error) {
		var err error
		if desc, err = project.LoadDescription(result.Project.Project); err != nil {
			return "", err
		}
		if cp, err = project.LoadCProject(result.Project.CProject); err != nil {
			return "", err
		}
		if opts.BuildConfig != "" {
			if cp, err = cp.Scope(opts.BuildConfig); err != nil {
				return "", err
			}
			return opts.BuildConfig, nil
		}
		return fmt.Sprintf("%d links", len(desc.Links)), nil
	})
	if err != nil {
		return nil, err
	}

	normalizer := pathnorm.New(projectDir, repoDir)
	var unrooted []string

	// Sources
	err = r.stage(ctx, StageSources, func() (string, error) {
		sources, err := extract.ClassifySources(desc.Links, normalizer)
		if err != nil {
			return "", err
		}
		for _, name := range sources.Skipped {
			r.logger.Debug("skipping linked folder", zap.String("name", name))
		}
		unrooted = append(unrooted, sources.Unrooted...)
		result.Sources = sources
		return fmt.Sprintf("%d C, %d ASM", len(sources.C), len(sources.ASM)), nil
	})
	if err != nil {
		return nil, err
	}

	// MCU
	err = r.stage(ctx, StageMCU, func() (string, error) {
		part, err := cp.MCU()
		if err != nil {
			return "", err
		}
		flags, err := mcu.NewResolver(table, r.logger).Resolve(part)
		if err != nil {
			return "", err
		}
		result.MCU = flags
		return part, nil
	})
	if err != nil {
		return nil, err
	}

	// Includes and defines
	var cIncludes, asmIncludes, cDefines extract.Flags
	err = r.stage(ctx, StageOptions, func() (string, error) {
		asmIncludes = extract.Includes(cp, project.ToolAssembler, normalizer)
		cIncludes = extract.Includes(cp, project.ToolCCompiler, normalizer)
		cDefines = extract.Defines(cp, project.ToolCCompiler)

		unrooted = append(unrooted, asmIncludes.Unrooted...)
		unrooted = append(unrooted, cIncludes.Unrooted...)

		if len(unrooted) > 0 {
			if opts.Strict {
				return "", &UnrootedPathError{Paths: unrooted}
			}
			for _, p := range unrooted {
				r.logger.Warn("path left unchanged", zap.String("path", p))
			}
			result.Warnings = unrooted
		}
		return fmt.Sprintf("%d includes, %d defines", len(cIncludes.Values), len(cDefines.Values)), nil
	})
	if err != nil {
		return nil, err
	}

	// Linker script
	err = r.stage(ctx, StageLinkerScript, func() (string, error) {
		script, err := extract.LocateLinkerScript(cp)
		if err != nil {
			return "", err
		}
		result.LinkerScript = script
		return script.Name, nil
	})
	if err != nil {
		return nil, err
	}

	// Render
	err = r.stage(ctx, StageRender, func() (string, error) {
		result.Config = buildconfig.Assemble(buildconfig.Inputs{
			Target:       result.Project.Name,
			ProjectDir:   projectDir,
			RepoDir:      repoDir,
			MCU:          result.MCU,
			Sources:      result.Sources,
			ASMIncludes:  asmIncludes.Values,
			CIncludes:    cIncludes.Values,
			CDefines:     cDefines.Values,
			LinkerScript: result.LinkerScript.Name,
		})
		out, err := tmpl.Render(result.Config)
		if err != nil {
			return "", err
		}
		result.Makefile = out + "\n"
		return tmpl.Name, nil
	})
	if err != nil {
		return nil, err
	}

	result.MakefilePath = opts.Output
	if result.MakefilePath == "" {
		result.MakefilePath = filepath.Join(projectDir, MakefileName)
	}
	result.LinkerScriptPath = filepath.Join(projectDir, result.LinkerScript.Name)

	// Copy linker script. The copy is staged and only lands next to the
	// Makefile once the Makefile itself has been staged.
	var script *pendingFile
	if opts.DryRun || opts.SkipLinkerScript {
		observe(StageCopy, StatusSkipped, "")
	} else {
		err = r.stage(ctx, StageCopy, func() (string, error) {
			src := filepath.Join(result.Project.IDEDir, result.LinkerScript.Name)
			var err error
			if script, err = stageCopy(src, result.LinkerScriptPath); err != nil {
				return "", err
			}
			return result.LinkerScript.Name, nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Write Makefile
	if opts.DryRun {
		observe(StageWrite, StatusSkipped, "dry run")
		return result, nil
	}
	err = r.stage(ctx, StageWrite, func() (string, error) {
		mk, err := stageFile(result.MakefilePath, []byte(result.Makefile), 0644)
		if err != nil {
			return "", err
		}
		if err := script.Commit(); err != nil {
			mk.Discard()
			return "", err
		}
		if err := mk.Commit(); err != nil {
			script.Revert()
			return "", err
		}

		if !opts.SkipLinkerScript {
			result.Created = append(result.Created, result.LinkerScriptPath)
		}
		result.Created = append(result.Created, result.MakefilePath)
		return filepath.Base(result.MakefilePath), nil
	})
	if err != nil {
		script.Discard()
		return nil, err
	}

	return result, nil
}

func (r *runner) stage(ctx context.Context, s Stage, fn func() (string, error)) error {
	if err := ctx.Err(); err != nil {
		r.observe(s, StatusFailed, "cancelled")
		return &Error{Kind: KindIO, Message: "conversion cancelled", Err: err}
	}

	r.observe(s, StatusRunning, "")
	r.logger.Debug("stage started", zap.String("stage", s.String()))

	detail, err := fn()
	if err != nil {
		classified := Classify(err)
		r.observe(s, StatusFailed, classified.Kind.String())
		r.logger.Debug("stage failed",
			zap.String("stage", s.String()),
			zap.Int("exit_code", classified.Kind.ExitCode()),
			zap.Error(err),
		)
		return classified
	}

	r.observe(s, StatusDone, detail)
	r.logger.Debug("stage complete",
		zap.String("stage", s.String()),
		zap.String("detail", detail),
	)
	return nil
}

func (r *runner) loadTemplate() (*makefile.Template, error) {
	if r.opts.Template != nil {
		return r.opts.Template, nil
	}
	if r.opts.TemplatePath == "" {
		return makefile.Default(), nil
	}

	tmpl, err := makefile.Load(r.opts.TemplatePath)
	if err != nil {
		return nil, Classify(err)
	}
	r.logger.Debug("loaded template",
		zap.String("path", r.opts.TemplatePath),
		zap.Bool("legacy", tmpl.Legacy()),
	)
	return tmpl, nil
}

// checkDirs resolves both folders to absolute paths and checks they exist.
func checkDirs(projectDir, repoDir string) (string, string, error) {
	prj, err := absDir(projectDir, "STM32CubeMX \"Toolchain Folder Location\"")
	if err != nil {
		return "", "", err
	}
	repo, err := absDir(repoDir, "STM32CubeMX repository location")
	if err != nil {
		return "", "", err
	}
	return prj, repo, nil
}

func absDir(dir, what string) (string, error) {
	if dir == "" {
		return "", UsageError("%s is required", what)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &Error{Kind: KindUsage, Message: fmt.Sprintf("invalid %s %q", what, dir), Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", UsageError("%s %q is not found", what, abs)
	}
	return abs, nil
}
