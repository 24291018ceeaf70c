package main

import (
	"os"

	"github.com/forgecli/forge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
