// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/invowk/modglsl/internal/config"
	"github.com/invowk/modglsl/pkg/shaderbuild"
)

// skipConfigAnnotation marks commands that must work without a valid
// configuration.
const skipConfigAnnotation = "modglsl/skip-config"

type (
	// App wires CLI services and the state shared by every command handler.
	App struct {
		Config config.Provider

		flags   rootFlagValues
		cfg     *config.Config
		cfgPath string
		logger  *log.Logger
		stdout  io.Writer
		stderr  io.Writer
	}

	rootFlagValues struct {
		configPath string
		verbose    bool
	}

	// flagBindings maps config keys to the flag names that override them.
	flagBindings map[string]string
)

// configFlags lists every flag that overrides a configuration key. Commands
// that do not define a flag simply leave its key to the lower layers.
var configFlags = flagBindings{
	"include_dirs":       "include",
	"manifest":           "manifest",
	"log_level":          "log-level",
	"output":             "output",
	"poll_interval":      "interval",
	"signature_mode":     "signature-mode",
	"provenance_markers": "markers",
	"watch.notify":       "notify",
}

// NewApp creates an App writing to the given streams. nil streams default to
// the process streams.
func NewApp(stdout, stderr io.Writer) *App {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &App{
		Config: config.NewProvider(),
		stdout: stdout,
		stderr: stderr,
		logger: newLogger(stderr, log.InfoLevel),
	}
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		ReportTimestamp: true,
		Level:           level,
	})
}

// loadConfig resolves the effective configuration for cmd and configures the
// logger from it.
func (a *App) loadConfig(ctx context.Context, cmd *cobra.Command) error {
	flags := cmd.Flags()
	opts := config.LoadOptions{
		ConfigFilePath: a.flags.configPath,
		Flags:          make(map[string]*pflag.Flag, len(configFlags)),
	}
	for key, name := range configFlags {
		if f := flags.Lookup(name); f != nil {
			opts.Flags[key] = f
		}
	}

	cfg, path, err := a.Config.Load(ctx, opts)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.cfgPath = path

	level, err := log.ParseLevel(cfg.LogLevel.String())
	if err != nil {
		level = log.InfoLevel
	}
	if a.flags.verbose {
		level = log.DebugLevel
	}
	a.logger.SetLevel(level)

	if path != "" {
		a.logger.Debug("configuration loaded", "path", path)
	}
	return nil
}

// newBuilder creates a Builder configured from the loaded configuration,
// with its messages forwarded to the CLI logger at debug level. Failures
// are logged by the callers from the returned errors.
func (a *App) newBuilder() *shaderbuild.Builder {
	b := shaderbuild.New(
		shaderbuild.WithSignatureMode(a.cfg.SignatureMode),
		shaderbuild.WithProvenanceMarkers(a.cfg.ProvenanceMarkers),
	)
	for _, dir := range a.cfg.IncludeDirs {
		b.AddIncludeDir(dir)
	}
	b.RegisterLogCallback(func(msg string) {
		a.logger.Debug(msg)
	})
	return b
}

// target returns the positional target, falling back to the configured one.
func (a *App) target(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.cfg.Target
}

// importManifest loads the configured manifest into b, logging entries that
// could not be imported.
func (a *App) importManifest(b *shaderbuild.Builder) (shaderbuild.ImportResult, error) {
	res, err := b.ImportModulesFromFile(a.cfg.Manifest)
	if err != nil {
		return res, describe(err, "import modules", a.cfg.Manifest)
	}
	for _, entryErr := range res.Errors {
		a.logger.Warn(entryErr.Error(), "manifest", res.Manifest)
	}
	return res, nil
}

// manifestDir returns the directory of the manifest as found by the last
// import, or of the configured path when it was never found.
func manifestDir(res shaderbuild.ImportResult, fallback string) string {
	if res.Manifest != "" {
		return filepath.Dir(res.Manifest)
	}
	return filepath.Dir(fallback)
}
