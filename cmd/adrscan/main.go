// Command adrscan detects architectural drift between a project's ADRs and
// its codebase.
package main

import (
	"os"

	"github.com/photondrift/adrscan/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
