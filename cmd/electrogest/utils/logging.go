// Package utils provides logging setup for the electrogest CLI.
package utils

import (
	"os"

	"github.com/juniorxam/Gestaodevendas/internal/logging"
)

// SetupLogging configures logging for query-style subcommands. Enables full
// debug output when DEBUG=true, otherwise applies the requested level and
// suppresses INFO/WARN noise so command results stay readable.
func SetupLogging(level string) {
	if os.Getenv("DEBUG") == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		return
	}
	logging.SetLevel(level)
	logging.SuppressOutput()
}
