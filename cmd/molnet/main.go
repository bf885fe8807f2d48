// molnet - molecular network generation from similarity matrices
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/molnet/cmd/molnet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
