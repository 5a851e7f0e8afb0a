package main

import (
	"fmt"
	"os"

	"github.com/adl-lang/adlc/cmd/adlc/cmd"
)

func main() {
	if err := cmd.Root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
