// Command animtrace replays animation scenarios through a compositor and
// records the frames they produce.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/compositor/cmd/animtrace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
