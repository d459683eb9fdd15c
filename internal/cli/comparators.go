package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"digital.vasic.probe/pkg/comparator"
)

// NewComparatorsCommand lists the comparator names accepted by the
// comparator config key.
func NewComparatorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "comparators",
		Short:        "List the built-in comparator names",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range comparator.Default.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
