// Package main is the entry point for the sirparcel CLI.
package main

import (
	"os"

	"sirparcel/cmd/sirparcel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
