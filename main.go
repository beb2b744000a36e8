// main is the entry point for the docname CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/docname/cmd"
	"github.com/huangsam/docname/internal/iocache"
)

func main() {
	err := cmd.Execute()

	// Flush and close persistence before deciding the exit code, since
	// os.Exit skips deferred calls.
	iocache.CloseStores()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
