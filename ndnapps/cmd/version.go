package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the version of the binary. It is set at link time.
var Version = "dev"

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ndnapps %s\n", Version)
		},
	}
}
