package main

import (
	"os"

	"github.com/noah-isme/buildbot/cmd/buildbot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
