// Command bridgefinder crawls a WikiTree family tree, searches for profiles
// that could connect its end-of-line ancestors to other trees, and writes a
// scored report.
//
// Usage:
//
//	bridgefinder find Smith-1 -o report.md
//	bridgefinder export Smith-1 -o tree.ged
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
