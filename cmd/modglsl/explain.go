// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/modglsl/internal/issue"
)

func newExplainCommand() *cobra.Command {
	var style string

	explainCmd := &cobra.Command{
		Use:   "explain [kind]",
		Short: "Describe an error kind and how to fix it",
		Long: `Describe an error kind reported by modglsl, such as module_not_found or
cyclic_dependency. Without an argument, list every kind.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, i := range issue.Values() {
					fmt.Fprintln(out, i.Name())
				}
				return nil
			}

			i, ok := issue.Lookup(args[0])
			if !ok {
				return issue.NewErrorContext().
					WithOperation("explain error kind").
					WithResource(args[0]).
					WithSuggestion("Run 'modglsl explain' to list the known kinds").
					Wrap(fmt.Errorf("unknown error kind %q", args[0])).
					BuildError()
			}

			rendered, err := i.Render(style)
			if err != nil {
				return fmt.Errorf("render %s: %w", i.Name(), err)
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}

	explainCmd.Flags().StringVar(&style, "style", "auto", "glamour style: auto, dark, light, notty or a JSON style path")
	return explainCmd
}
