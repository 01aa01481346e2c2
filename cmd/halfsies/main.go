package main

import (
	"os"

	"github.com/halfsies-dev/halfsies/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
