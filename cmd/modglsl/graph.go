// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGraphCommand(app *App) *cobra.Command {
	var all bool

	graphCmd := &cobra.Command{
		Use:   "graph [target]",
		Short: "Print the concatenation order of a target",
		Long: `Print the modules a target is assembled from, one per line, dependencies
first. With --all, print an order covering every module in the manifest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.newBuilder()
			if _, err := app.importManifest(b); err != nil {
				return err
			}

			var (
				order []string
				err   error
			)
			if all {
				order, err = b.Graph().TopologicalSort()
				if err != nil {
					return describe(err, "order modules", app.cfg.Manifest)
				}
			} else {
				target := app.target(args)
				order, err = b.Resolve(target)
				if err != nil {
					return describe(err, "resolve target", target)
				}
			}

			out := cmd.OutOrStdout()
			for _, name := range order {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	graphCmd.Flags().BoolVar(&all, "all", false, "order every module instead of one target")
	return graphCmd
}
