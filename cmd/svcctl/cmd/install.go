package cmd

import (
	"fmt"

	svcctl "github.com/axondata/go-svcctl"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <service> <config>",
	Short: "Install the supervisor unit for a service config",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, config := args[0], args[1]
		fmt.Printf("Setting up service [%s] for config [%s]...\n", service, config)

		if err := newController().Install(cmd.Context(), service, config); err != nil {
			return err
		}

		fmt.Println("Service installed:", svcctl.UnitName(service, config))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
