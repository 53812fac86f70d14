package cmd

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <service> <config>",
	Short: "Run as foreground child process",
	Long:  `Run the service's declared run command as a foreground child process (convenient for development). The child's exit code is propagated verbatim.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newRunner().Run(cmd.Context(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
