// Command mopra serves the local-inference orchestrator over HTTP and offers
// one-shot maintenance commands (sweep, models).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mopra:", err)
		os.Exit(1)
	}
}
