// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/invowk/modglsl/pkg/shadermod"
)

const (
	// LogLevelDebug logs manifest cache hits and every tick.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs imports, rebuilds and errors.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only problems.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only failures.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidPollInterval is returned when the poll interval is not positive.
	ErrInvalidPollInterval = errors.New("invalid poll interval")
	// ErrInvalidIncludeDir is returned when an include directory is blank.
	ErrInvalidIncludeDir = errors.New("invalid include directory")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level the CLI logger prints.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidPollIntervalError is returned when PollInterval is zero or negative.
	InvalidPollIntervalError struct {
		Value time.Duration
	}

	// InvalidIncludeDirError is returned for an empty or whitespace-only
	// include directory.
	InvalidIncludeDirError struct {
		Index int
		Value string
	}

	// InvalidWatchConfigError collects field-level errors of a WatchConfig.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field-level errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// IncludeDirs are searched in order for the manifest and module files.
		IncludeDirs []string `json:"include_dirs" mapstructure:"include_dirs"`
		// Manifest is the manifest file name or path.
		Manifest string `json:"manifest" mapstructure:"manifest"`
		// Target is the module assembled by build and watch.
		Target string `json:"target" mapstructure:"target"`
		// Output is the file written by build and watch.
		Output string `json:"output" mapstructure:"output"`
		// PollInterval is the delay between watch ticks.
		PollInterval time.Duration `json:"poll_interval" mapstructure:"poll_interval"`
		// SignatureMode selects how module changes are detected.
		SignatureMode shadermod.SignatureMode `json:"signature_mode" mapstructure:"signature_mode"`
		// ProvenanceMarkers enables the per-module comment line in output.
		ProvenanceMarkers bool `json:"provenance_markers" mapstructure:"provenance_markers"`
		// LogLevel is the minimum level the CLI logger prints.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// Watch configures the optional filesystem notification trigger.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// WatchConfig configures the filesystem notification trigger of the
	// watch command.
	WatchConfig struct {
		// Notify starts a tick early when a matching file changes.
		Notify bool `json:"notify" mapstructure:"notify"`
		// Patterns are doublestar globs, relative to each include directory.
		Patterns []string `json:"patterns" mapstructure:"patterns"`
		// Ignore are doublestar globs excluded from Patterns.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
		// Debounce coalesces bursts of events.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		IncludeDirs:       []string{"shaders"},
		Manifest:          "glslmodules",
		Target:            "main",
		Output:            "",
		PollInterval:      time.Second,
		SignatureMode:     shadermod.SignatureStrict,
		ProvenanceMarkers: true,
		LogLevel:          LogLevelInfo,
		Watch: WatchConfig{
			Notify:   false,
			Patterns: []string{"**/*.glsl", "**/glslmodules", "**/*.cue", "**/*.toml", "**/*.hcl"},
			Ignore:   []string{"**/.git/**", "**/*~", "**/*.swp"},
			Debounce: 100 * time.Millisecond,
		},
	}
}

// IsValid returns whether the Config has valid fields. It checks constraints
// that also apply to values coming from the environment or flags, which the
// CUE schema never sees.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for i, dir := range c.IncludeDirs {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, &InvalidIncludeDirError{Index: i, Value: dir})
		}
	}
	if c.Target != "" {
		if err := shadermod.ValidateName(c.Target); err != nil {
			errs = append(errs, err)
		}
	}
	if c.PollInterval <= 0 {
		errs = append(errs, &InvalidPollIntervalError{Value: c.PollInterval})
	}
	if valid, fieldErrs := c.SignatureMode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether every pattern is a well-formed doublestar glob and
// the debounce is not negative.
func (w WatchConfig) IsValid() (bool, []error) {
	var errs []error
	for _, p := range append(append([]string(nil), w.Patterns...), w.Ignore...) {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("malformed glob pattern %q", p))
		}
	}
	if w.Debounce < 0 {
		errs = append(errs, fmt.Errorf("negative debounce %s", w.Debounce))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWatchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid watch config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidWatchConfig and the field errors.
func (e *InvalidWatchConfigError) Unwrap() []error {
	return append([]error{ErrInvalidWatchConfig}, e.FieldErrors...)
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Error implements the error interface for InvalidPollIntervalError.
func (e *InvalidPollIntervalError) Error() string {
	return fmt.Sprintf("invalid poll interval %s: must be positive", e.Value)
}

// Unwrap returns ErrInvalidPollInterval for errors.Is() compatibility.
func (e *InvalidPollIntervalError) Unwrap() error { return ErrInvalidPollInterval }

// Error implements the error interface for InvalidIncludeDirError.
func (e *InvalidIncludeDirError) Error() string {
	return fmt.Sprintf("include_dirs[%d]: blank directory %q", e.Index, e.Value)
}

// Unwrap returns ErrInvalidIncludeDir for errors.Is() compatibility.
func (e *InvalidIncludeDirError) Unwrap() error { return ErrInvalidIncludeDir }
