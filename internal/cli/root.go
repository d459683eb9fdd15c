// Package cli implements the probe-demo command line.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// NewRootCommand creates the root command. Run without a
// subcommand it runs the demo suite.
func NewRootCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "probe-demo",
		Short: "Run the probe demo suite",
		Long: `probe-demo runs a small suite of probes covering every call shape:
plain return values, a custom comparator, a failing test, a
parameterized function, a mutated argument, a generic function and a
method on a constructed instance.

Configuration is read from --config, then PROBE_* environment
variables, then flags.

Exit code: 0 unless --strict is set and a test failed.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSuite(cmd, opts)
		},
	}

	opts.bind(cmd)

	cmd.AddCommand(NewComparatorsCommand())
	cmd.AddCommand(NewConfigCommand())

	return cmd
}
