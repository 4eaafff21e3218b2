// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBuildCommand(app *App) *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build [target]",
		Short: "Build a target once",
		Long: `Import the manifest, resolve the target's @use directives and write the
assembled shader to --output, or to standard output when no output is set.

The target defaults to the 'target' configuration key.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, app, args)
		},
	}

	buildCmd.Flags().StringP("output", "o", "", "write the shader to this file instead of standard output")
	buildCmd.Flags().String("signature-mode", "", "signature comparison: strict or content")
	buildCmd.Flags().Bool("markers", true, "emit a provenance comment before each module")
	return buildCmd
}

func runBuild(cmd *cobra.Command, app *App, args []string) error {
	target := app.target(args)
	b := app.newBuilder()

	if _, err := app.importManifest(b); err != nil {
		return err
	}

	text, err := b.Build(target)
	if err != nil {
		return describe(err, "build shader", target)
	}

	if app.cfg.Output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	if err := writeOutput(app.cfg.Output, text); err != nil {
		return err
	}
	app.logger.Info("shader written", "target", target, "output", app.cfg.Output, "bytes", len(text))
	return nil
}
