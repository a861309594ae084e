package main

import (
	"os"

	"github.com/idelchi/dupstat/internal/cli"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		os.Exit(1)
	}
}
