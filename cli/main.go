package main

import (
	"os"

	"github.com/sflowg/voltage/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
