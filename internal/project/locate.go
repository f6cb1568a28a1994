package project

import (
	"os"
	"path/filepath"
	"strings"
)

// IDEFolder is the sub-folder STM32CubeMX generates for the SW4STM32 toolchain.
const IDEFolder = "SW4STM32"

// Files are the IDE project files of a generated STM32CubeMX project.
type Files struct {
	// Name is the project name, derived from the project folder name
	Name string
	// ProjectDir is the absolute project ("Toolchain Folder Location") folder
	ProjectDir string
	// IDEDir is the folder holding .project, .cproject and the linker script
	IDEDir string
	// Project is the path of the Eclipse .project file
	Project string
	// CProject is the path of the CDT .cproject file
	CProject string
}

// Name returns the project name for a project folder: its base name without
// extension.
func Name(projectDir string) string {
	base := filepath.Base(filepath.Clean(projectDir))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Locate finds the SW4STM32 project files inside projectDir, which is
// expected to be absolute.
func Locate(projectDir string) (*Files, error) {
	name := Name(projectDir)
	ideDir := filepath.Join(projectDir, IDEFolder, name+" Configuration")

	files := &Files{
		Name:       name,
		ProjectDir: projectDir,
		IDEDir:     ideDir,
		Project:    filepath.Join(ideDir, ".project"),
		CProject:   filepath.Join(ideDir, ".cproject"),
	}

	var missing []string
	for _, f := range []string{files.Project, files.CProject} {
		if info, err := os.Stat(f); err != nil || info.IsDir() {
			missing = append(missing, filepath.Base(f))
		}
	}
	if len(missing) > 0 {
		return nil, &NotFoundError{Dir: ideDir, Missing: missing}
	}

	return files, nil
}
