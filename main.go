package main

import (
	"os"

	"github.com/FathurrahmanNasution/portfolio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
