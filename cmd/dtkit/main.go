// Command dtkit runs and inspects the design toolkit component runtime.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/dtkit/cmd/dtkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cmd.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
