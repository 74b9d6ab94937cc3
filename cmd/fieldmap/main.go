// Package main is the entry point for the fieldmap CLI.
package main

import (
	"fmt"
	"os"

	"fieldmap/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
