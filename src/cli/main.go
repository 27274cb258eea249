package main

import (
	"errors"
	"os"

	"github.com/sofmeright/forgeline/src/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var xe *cmd.ExitCodeError
		if errors.As(err, &xe) {
			os.Exit(xe.Code)
		}
		os.Exit(1)
	}
}
