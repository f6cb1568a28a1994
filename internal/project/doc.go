// Package project reads the IDE project files STM32CubeMX generates for the
// SW4STM32 (AC6 System Workbench) toolchain.
//
// Two files are read from "<project>/SW4STM32/<name> Configuration/":
//
//   - .project: the Eclipse project description, whose linkedResources list
//     every source file of the build
//   - .cproject: the CDT build settings, holding the target MCU, per-tool
//     include paths and defined symbols, and the linker script
//
// The .project file maps onto Description. The .cproject file is decoded into
// a generic Node tree and queried by element name and attribute:
//
//	cp, err := project.LoadCProject(files.CProject)
//	if err != nil {
//	    return err
//	}
//	mcu, err := cp.MCU()
//	includes := cp.ToolOptions(project.ToolCCompiler, project.ValueIncludePath)
//
// Errors are typed: NotFoundError when the files are missing, ParseError when
// they cannot be decoded, and MissingNodeError when an expected setting is
// absent.
package project
