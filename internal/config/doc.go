// SPDX-License-Identifier: MPL-2.0

// Package config handles modglsl configuration using Viper with CUE as the file format.
//
// Values are layered, lowest precedence first: built-in defaults, a CUE config
// file, MODGLSL_* environment variables and command-line flags. The config
// file is the --config path when given, else config.cue in the user config
// directory ($XDG_CONFIG_HOME/modglsl on Linux), else ./modglsl.cue.
//
// Files are validated against the embedded #Config schema (config_schema.cue)
// before they reach Viper, so unknown keys and malformed values are reported
// with their CUE path.
package config
