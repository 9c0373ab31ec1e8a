// Command stagehand is the workflow phase engine CLI. All functionality
// lives in internal/cli; this entrypoint only translates the command result
// into a process exit code.
package main

import (
	"os"

	"github.com/parkerhale/stagehand/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
