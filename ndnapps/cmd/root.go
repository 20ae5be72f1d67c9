// Package cmd provides the command-line interface for ndnapps.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// RootOptions holds the flags shared by all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ndnapps",
		Short: "Run simulated NDN traffic generators.",
		Long: `ndnapps runs scenarios of rate-controlled NDN requesters and ` +
			`responders over lossy links and reports what they sent and ` +
			`what arrived.`,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"print every generator activity to stderr")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// Execute runs the root command and exits. Registered exit handlers flush
// the traces and recorders before the process ends.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
