package main

import (
	"os"

	"github.com/nikhilsahni/ipofolio/cmd/ipofolio/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
