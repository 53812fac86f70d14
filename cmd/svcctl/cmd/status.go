package cmd

import (
	"fmt"

	svcctl "github.com/axondata/go-svcctl"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <service> <config>",
	Short: "Query the supervisor for the unit's current state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, config := args[0], args[1]

		active, err := newController().Status(cmd.Context(), service, config)
		if err != nil {
			return err
		}

		state := "inactive"
		if active {
			state = "active"
		}
		fmt.Printf("%s: %s\n", svcctl.UnitName(service, config), state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
