package main

import (
	"fmt"
	"os"

	"vidpack/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(services.ExitCode(err))
	}
}
