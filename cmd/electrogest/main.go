// Package main implements the ElectroGest launcher (electrogest): runtime
// check, dependency refresh, and foreground launch of the management
// dashboard daemon.
package main

import (
	"github.com/juniorxam/Gestaodevendas/cmd/electrogest/commands"
)

func main() {
	commands.Execute()
}
