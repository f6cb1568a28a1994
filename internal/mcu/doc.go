// Package mcu maps STM32 part numbers to GCC code generation flags.
//
// The mapping is an ordered table of families, each with a regular expression
// matched against the start of the part number. The built-in table is
// embedded as YAML and can be extended with user-defined families:
//
//	table, err := mcu.LoadTable()
//	if err != nil {
//	    return err
//	}
//	flags, err := mcu.NewResolver(table, logger).Resolve("STM32F407VGTx")
//	// flags.Compile == flags.Link == "-mthumb -mcpu=cortex-m4 ..."
//
// # Evaluation Order
//
// Rows are evaluated top to bottom and the first match wins. User families
// added with Table.Extend are evaluated before the built-in rows.
//
// # Cortex-M7
//
// The toolchain links Cortex-M7 binaries with M4 code generation flags. When
// the resolved compile flags contain "cortex-m7", the link flags are taken
// from the table's m7 link family instead.
package mcu
