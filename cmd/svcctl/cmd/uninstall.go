package cmd

import (
	"fmt"

	svcctl "github.com/axondata/go-svcctl"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <service> <config>",
	Short: "Remove the supervisor unit for a service config",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, config := args[0], args[1]
		fmt.Printf("Removing service [%s] for config [%s]...\n", service, config)

		if err := newController().Uninstall(cmd.Context(), service, config); err != nil {
			return err
		}

		fmt.Println("Service uninstalled:", svcctl.UnitName(service, config))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
