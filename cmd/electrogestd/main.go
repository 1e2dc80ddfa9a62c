// Package main implements the ElectroGest daemon (electrogestd), the
// commercial management system served over a REST API and launched either
// directly or through the electrogest launcher.
package main

import (
	"os"

	"github.com/juniorxam/Gestaodevendas/cmd/electrogestd/commands"
)

func main() {
	commands.SetupCommands()

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
