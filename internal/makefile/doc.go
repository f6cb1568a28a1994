// Package makefile renders the Makefile from a BuildConfig.
//
// The built-in template targets the arm-none-eabi GNU toolchain and is
// embedded with //go:embed. A user template can replace it, written either
// as a Go text/template:
//
//	TARGET = {{.TARGET}}
//	C_SOURCES = {{.C_SOURCES}}
//
// or in the legacy dollar format, where make variables must be escaped:
//
//	TARGET = $TARGET
//	CC = $$(PREFIX)gcc
//
// Every placeholder is one of the names in buildconfig.Keys. Referencing any
// other name fails the render.
package makefile
