package main

import (
	"os"

	"github.com/cloudberry-contrib/imagecheck/cmd/imagecheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
