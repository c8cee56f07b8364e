// Package main is the entry point for the bgviz command.
package main

import (
	"os"

	"github.com/jwulff/bgviz-go/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
