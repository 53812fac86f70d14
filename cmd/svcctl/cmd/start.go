package cmd

import (
	"fmt"

	svcctl "github.com/axondata/go-svcctl"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <service> <config>",
	Short: "Start the supervisor unit for a service config",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, config := args[0], args[1]
		fmt.Printf("Starting service [%s] for config [%s]...\n", service, config)

		if err := newController().Start(cmd.Context(), service, config); err != nil {
			return err
		}

		fmt.Println("Service started:", svcctl.UnitName(service, config))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
