package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	svcctl "github.com/axondata/go-svcctl"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <service> <config>",
	Short: "Watch the installed unit file for changes",
	Long:  `Watch the unit file on disk and report writes and removals, to spot drift between the rendered definition and what is installed. Runs until interrupted.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, config := args[0], args[1]
		cfg := buildConfig()
		unitPath := cfg.UnitPath(svcctl.UnitName(service, config))

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		events, cleanup, err := svcctl.WatchUnit(ctx, unitPath, 0)
		if err != nil {
			return err
		}
		defer func() { _ = cleanup() }()

		fmt.Println("Watching:", unitPath)
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if event.Err != nil {
					fmt.Println("watch error:", event.Err)
					continue
				}
				fmt.Printf("%s: %s\n", event.Type, event.Path)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
