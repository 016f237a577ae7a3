// kitty-panel draws a live status dashboard in a kitty window.
//
// Usage:
//
//	kitty-panel [--bar] [--config PATH] [--verbose]
//	kitty-panel detect
//	kitty-panel probes
//	kitty-panel status [--bar]
package main

import (
	"fmt"
	"os"

	"gitlab.com/tinyland/lab/kitty-panel/pkg/cli"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "kitty-panel: %v\n", err)
		os.Exit(1)
	}
}
