// Package logging provides structured logging for cube2make.
//
// This package wraps a global zap logger. Logging is silent by default so the
// converter's normal output stays clean; it is enabled with --log-level or
// the CUBE2MAKE_LOG_LEVEL environment variable.
//
// # Log Levels
//
//   - Debug: stage transitions, skipped links, template details
//   - Info: conversion summary
//   - Warn: paths left unchanged by normalization
//   - Error: fatal conversion errors
//
// # Structured Logging
//
//	logging.Warn("path left unchanged",
//	    zap.String("path", "/opt/vendor/lib.c"),
//	)
//
// # Output Format
//
// Logs are written to stderr in console format:
//
//	2025-11-25T10:30:45.123-0800  WARN  path left unchanged  {"path": "/opt/vendor/lib.c"}
package logging
