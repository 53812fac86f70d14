package main

import (
	"errors"
	"fmt"
	"os"

	svcctl "github.com/axondata/go-svcctl"
	"github.com/axondata/go-svcctl/cmd/svcctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)

		// run/do propagate the child's own exit code verbatim
		var exitErr *svcctl.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
