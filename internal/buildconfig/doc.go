// Package buildconfig assembles the values substituted into a Makefile
// template from the pieces extracted out of an STM32CubeMX project.
package buildconfig
