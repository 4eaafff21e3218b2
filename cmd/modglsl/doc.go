// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the modglsl command line: one-shot builds, the
// polling watch loop, dependency graphs, configuration management and the
// error catalog.
package cmd
