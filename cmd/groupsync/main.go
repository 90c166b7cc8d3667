// Package main is the entry point for the groupsync binary.
package main

import (
	"os"

	"groupsync/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
