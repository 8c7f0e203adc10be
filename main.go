package main

import (
	"os"

	"github.com/bimmerbailey/f1brief/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
