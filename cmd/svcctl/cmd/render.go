package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <service> <config>",
	Short: "Print the rendered unit definition without installing it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := newController().RenderUnit(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Print(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
