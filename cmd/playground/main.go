// Command playground runs a small demo on the crius runtime.
package main

import (
	"embed"
	"fmt"
	"os"
)

//go:embed configs
var configFS embed.FS

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
