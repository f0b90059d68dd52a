// Command replay reads a recorded session of newline-delimited server messages
// from a file argument (or stdin), feeds it through a fresh engine, and writes
// the commands the bot would have sent to stdout, one per line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cxd309/racebot/internal/engine"
)

func main() {
	var in io.Reader = os.Stdin
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	if err := engine.Replay(in, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "replay error: %v\n", err)
		os.Exit(1)
	}
}
