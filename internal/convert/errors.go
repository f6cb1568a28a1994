package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muurk/cube2make/internal/extract"
	"github.com/muurk/cube2make/internal/makefile"
	"github.com/muurk/cube2make/internal/mcu"
	"github.com/muurk/cube2make/internal/project"
)

// Kind is the category of a conversion failure. Each kind maps to one
// process exit code.
type Kind int

const (
	// KindUsage indicates invalid arguments or settings
	KindUsage Kind = iota
	// KindTemplate indicates the Makefile template could not be loaded
	KindTemplate
	// KindNoProject indicates the SW4STM32 project files were not found
	KindNoProject
	// KindProjectFile indicates a malformed or incomplete project file
	KindProjectFile
	// KindIO indicates an unusable source list or a failed file write
	KindIO
	// KindUnknownMCU indicates a part number missing from the MCU table
	KindUnknownMCU
)

// ExitCode returns the process exit code for the kind
func (k Kind) ExitCode() int {
	switch k {
	case KindUsage:
		return -1
	case KindTemplate:
		return -2
	case KindNoProject:
		return -3
	case KindProjectFile:
		return -4
	case KindIO:
		return -5
	case KindUnknownMCU:
		return -6
	default:
		return -5
	}
}

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "Invalid Command Line"
	case KindTemplate:
		return "Template Error"
	case KindNoProject:
		return "Project Not Found"
	case KindProjectFile:
		return "Project File Error"
	case KindIO:
		return "Output Error"
	case KindUnknownMCU:
		return "Unknown MCU"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a classified conversion failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UsageError reports an invalid argument or setting.
func UsageError(format string, args ...any) *Error {
	return &Error{Kind: KindUsage, Message: fmt.Sprintf(format, args...)}
}

// UnrootedPathError is returned in strict mode when paths could not be
// rewritten relative to the project or repository root.
type UnrootedPathError struct {
	Paths []string
}

func (e *UnrootedPathError) Error() string {
	return fmt.Sprintf("%d path(s) outside the project and repository: %s",
		len(e.Paths), strings.Join(e.Paths, ", "))
}

// Classify returns err as a classified *Error. Errors from the conversion
// packages keep their category; anything else is an output error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var convErr *Error
	if errors.As(err, &convErr) {
		return convErr
	}

	kind := KindIO
	var (
		tmplErr     *makefile.TemplateError
		notFound    *project.NotFoundError
		parseErr    *project.ParseError
		missingErr  *project.MissingNodeError
		unrooted    *UnrootedPathError
		unknownSrc  *extract.UnknownSourceError
		unknownPart *mcu.UnknownMCUError
	)
	switch {
	case errors.As(err, &tmplErr):
		kind = KindTemplate
	case errors.As(err, &notFound):
		kind = KindNoProject
	case errors.As(err, &parseErr), errors.As(err, &missingErr), errors.As(err, &unrooted):
		kind = KindProjectFile
	case errors.As(err, &unknownSrc):
		kind = KindIO
	case errors.As(err, &unknownPart):
		kind = KindUnknownMCU
	}

	return &Error{Kind: kind, Err: err}
}

// ExitCode returns the process exit code for err, 0 when err is nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return Classify(err).Kind.ExitCode()
}

// IsUsageError checks if an error is an invalid argument error
func IsUsageError(err error) bool {
	return err != nil && Classify(err).Kind == KindUsage
}

// IsUnknownMCU checks if an error is an unresolvable part number
func IsUnknownMCU(err error) bool {
	return err != nil && Classify(err).Kind == KindUnknownMCU
}

// TroubleshootingHints returns user-facing advice for a failed conversion.
func TroubleshootingHints(err error) []string {
	if err == nil {
		return nil
	}

	switch Classify(err).Kind {
	case KindUsage:
		return []string{
			"Pass the STM32CubeMX \"Toolchain Folder Location\" and the firmware repository folder",
			"Both arguments must be existing directories",
			"Try: cube2make --help",
		}
	case KindTemplate:
		return []string{
			"Check the --template path or the template setting in the config file",
			"Placeholders must be one of TARGET, PRJ_PATH, REPO_PATH, MCU, LDMCU, C_SOURCES, ASM_SOURCES, ASM_DEFS, ASM_INCLUDES, C_DEFS, C_INCLUDES, LDSCRIPT",
			"Legacy templates must write make variables as $$(NAME)",
		}
	case KindNoProject:
		return []string{
			"Generate the project with STM32CubeMX using the SW4STM32 toolchain",
			"The project folder name must match the \"<name> Configuration\" folder under SW4STM32",
		}
	case KindProjectFile:
		return []string{
			"Regenerate the project with STM32CubeMX",
			"Check that .cproject defines a target MCU and a linker script",
			"Run with --log-level debug for details",
		}
	case KindUnknownMCU:
		return []string{
			"List supported families with: cube2make mcus",
			"Add the family to mcu_families in the config file",
		}
	default:
		return []string{
			"Check that the project folder is writable",
			"Only .c, .s and .S files can be linked into the project",
		}
	}
}
