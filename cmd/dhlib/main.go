package main

import (
	"os"

	"dhlib/cmd/dhlib/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
