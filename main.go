package main

import (
	"os"

	"github.com/paradoks/clubhub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
