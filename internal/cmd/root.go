package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hookline",
		Short: "Supervise an agent CLI session via lifecycle hook notifications",
		Long: `hookline launches an interactive coding-agent CLI, receives its lifecycle
hook events (session start, prompt submitted, response stop) over a loopback
HTTP channel, and tracks per-session state.`,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newForwardHookCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
