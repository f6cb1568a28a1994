// Package convert runs a complete STM32CubeMX to Makefile conversion.
//
// Run executes the stages in order (locate, parse, sources, mcu, options,
// ldscript, render, copy, write) and reports progress to an Observer. Any
// failure stops the run and is returned as a *Error whose Kind selects the
// process exit code:
//
//	 0  success
//	-1  invalid command line
//	-2  template load failure
//	-3  no SW4STM32 project found
//	-4  project file parse or structure failure
//	-5  unusable source file or output write failure
//	-6  MCU not in the family table
//
// No file is written until every extraction step and the template render
// succeeded. The Makefile and the linker script copy are written atomically.
package convert
