// Package main is the entry point for the authectl CLI.
package main

import (
	"os"

	"github.com/authe-me/authe-go/cmd/authectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
