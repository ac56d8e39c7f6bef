package main

import (
	"os"

	"gotr/cmd/otrsim/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
