// Command paramtool inspects and edits parameter snapshot images on a host.
// An image holds the primary snapshot followed by the backup snapshot.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
