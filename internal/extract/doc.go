// Package extract derives the build settings of an STM32CubeMX project from
// its parsed IDE files: the C and assembly source lists, the include and
// define flags of each tool, and the linker script name.
//
// Every function is pure. Paths are rewritten with a pathnorm.Normalizer and
// paths that could not be rooted are reported back rather than logged, so the
// caller decides whether to warn or fail.
package extract
