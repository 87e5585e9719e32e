// Command umbrella scaffolds and tracks AI-SDLC projects.
package main

import (
	"os"

	"github.com/roach88/umbrella/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
