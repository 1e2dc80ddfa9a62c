// Package commands provides the CLI command structure for the ElectroGest
// daemon. The daemon is a single root command: flags configure the HTTP
// bind address, database location, backup policy, and logging; validation
// runs before the daemon starts.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/juniorxam/Gestaodevendas/cmd/electrogestd/config"
	"github.com/juniorxam/Gestaodevendas/cmd/electrogestd/daemon"
	"github.com/juniorxam/Gestaodevendas/cmd/electrogestd/utils"
	"github.com/juniorxam/Gestaodevendas/internal/logging"
	"github.com/juniorxam/Gestaodevendas/internal/version"
	"github.com/spf13/cobra"
)

// Global variable to track log file handle for cleanup
var logFileHandle *os.File

// CleanupLogFile closes the log file handle if it exists.
func CleanupLogFile() {
	if logFileHandle != nil {
		if err := logFileHandle.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
		logFileHandle = nil
	}
}

// Root command for the ElectroGest daemon
var RootCmd = &cobra.Command{
	Use:   "electrogestd",
	Short: "ElectroGest commercial management daemon",
	Long: `ElectroGest daemon (electrogestd) serves the commercial management system:
customers, products, stock, sales, promotions, reports, and auditing over a
REST API backed by SQLite.

Started directly or through the electrogest launcher.`,
	Version:      version.DaemonVersion,
	SilenceUsage: true,
	Example: `  # Start with defaults (127.0.0.1:8501, ./electrogest.db)
  electrogestd

  # Custom database and bind address
  electrogestd --api=0.0.0.0:8501 --db=/var/lib/electrogest/electrogest.db

  # Disable periodic backups, verbose logging
  electrogestd --no-auto-backup --log-level=DEBUG`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.DisplayLogo(version.DaemonVersion)
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if config.Global.LogFile != "" {
			logDir := filepath.Dir(config.Global.LogFile)
			if err := os.MkdirAll(logDir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
			}

			var err error
			logFileHandle, err = os.OpenFile(config.Global.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", config.Global.LogFile, err)
			}
			logging.SetOutput(logFileHandle)
		}

		logging.SetLevel(config.Global.LogLevel)

		if err := config.Validate(); err != nil {
			CleanupLogFile()
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer CleanupLogFile()
		return daemon.Run()
	},
}

// SetupCommands initializes all commands and their flags.
func SetupCommands() {
	SetupFlags(RootCmd)
}
