// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/modglsl/internal/config"
)

// newConfigCommand creates the `modglsl config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage modglsl configuration",
		Long: `Manage modglsl configuration.

Configuration is read from, in increasing precedence: built-in defaults, the
first of --config, the user config file and ./modglsl.cue, MODGLSL_*
environment variables, and command-line flags.

The user config file is stored in:
  - Linux: ~/.config/modglsl/config.cue
  - macOS: ~/Library/Application Support/modglsl/config.cue
  - Windows: %APPDATA%\modglsl\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var asCUE bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asCUE {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(app.cfg))
				return err
			}
			showConfig(cmd.OutOrStdout(), app.cfg, app.cfgPath)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&asCUE, "cue", false, "print the configuration as a CUE file")
	cfgCmd.AddCommand(showCmd)

	var (
		initPath string
		force    bool
	)
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a default configuration file",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := initPath
			if path == "" {
				p, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&initPath, "path", "", "file to create (default is the user config file)")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if p, err := config.DefaultConfigPath(); err == nil {
				fmt.Fprintf(out, "User config file: %s\n", p)
			}
			if app.cfgPath != "" {
				fmt.Fprintf(out, "Active config file: %s\n", app.cfgPath)
			} else {
				fmt.Fprintln(out, "Active config file: (none, using defaults)")
			}
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, path string) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	field := func(indent, key string, value any) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}
	list := func(indent, key string, items []string) {
		if len(items) == 0 {
			fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), SubtitleStyle.Render("(none)"))
			return
		}
		fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), valueStyle.Render(strings.Join(items, ", ")))
	}

	list("", "include_dirs", cfg.IncludeDirs)
	field("", "manifest", cfg.Manifest)
	field("", "target", cfg.Target)
	if cfg.Output == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("output"), SubtitleStyle.Render("(stdout)"))
	} else {
		field("", "output", cfg.Output)
	}
	field("", "poll_interval", cfg.PollInterval)
	field("", "signature_mode", cfg.SignatureMode)
	field("", "provenance_markers", cfg.ProvenanceMarkers)
	field("", "log_level", cfg.LogLevel)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	field("  ", "notify", cfg.Watch.Notify)
	list("  ", "patterns", cfg.Watch.Patterns)
	list("  ", "ignore", cfg.Watch.Ignore)
	field("  ", "debounce", cfg.Watch.Debounce)
}
