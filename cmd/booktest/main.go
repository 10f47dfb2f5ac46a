// Command booktest migrates and exercises the booktest model on sqlite.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "booktest:", err)
		os.Exit(1)
	}
}
