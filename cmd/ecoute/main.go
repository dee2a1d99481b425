package main

import (
	"os"

	"github.com/lbreton/ecoute/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
