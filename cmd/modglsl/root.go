// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/modglsl/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the modglsl command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modglsl",
		Short: "Assemble GLSL shaders from named modules",
		Long: TitleStyle.Render("modglsl") + SubtitleStyle.Render(" - Assemble GLSL shaders from named modules") + `

modglsl reads a manifest that names shader modules, follows the
'// @use name' directives inside them and concatenates every module a
target needs, dependencies first and each module once.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Put your modules and a 'glslmodules' manifest in ./shaders
  2. Add '// @use colors' to modules that need the 'colors' module
  3. Build with: modglsl build main

` + SubtitleStyle.Render("Examples:") + `
  modglsl build main -o main.frag     Build 'main' into main.frag
  modglsl watch main -o main.frag     Rebuild whenever a module changes
  modglsl graph main                  Show the concatenation order
  modglsl explain module_not_found    Describe an error kind`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}
			return app.loadConfig(cmd.Context(), cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&app.flags.configPath, "config", "", "config file (default is "+defaultConfigHint()+")")
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.StringSliceP("include", "I", nil, "include directory searched for manifests and modules (repeatable)")
	pf.String("manifest", "", "manifest file listing the modules")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newBuildCommand(app),
		newWatchCommand(app),
		newGraphCommand(app),
		newConfigCommand(app),
		newExplainCommand(),
	)
	return rootCmd
}

func defaultConfigHint() string {
	if p, err := config.DefaultConfigPath(); err == nil {
		return p
	}
	return "$HOME/.config/" + config.AppName + "/config.cue"
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command line in os.Args and returns the process exit code.
func Run() int {
	app := NewApp(os.Stdout, os.Stderr)
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(&app.flags.verbose)),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// Execute runs the command line and exits the process. It is called by
// main.main.
func Execute() {
	os.Exit(Run())
}
