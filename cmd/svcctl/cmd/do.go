package cmd

import (
	"github.com/spf13/cobra"
)

var doCmd = &cobra.Command{
	Use:   "do <service> <config> <action> [args...]",
	Short: "Run a named action command for a service",
	Long:  `Run one of the service's declared action commands with any extra arguments appended verbatim. The child's exit code is propagated verbatim.`,
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRunner().Do(cmd.Context(), args[0], args[1], args[2], args[3:])
	},
}

func init() {
	rootCmd.AddCommand(doCmd)
}
