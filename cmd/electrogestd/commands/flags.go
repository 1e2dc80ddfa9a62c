package commands

import (
	"github.com/juniorxam/Gestaodevendas/cmd/electrogestd/config"
	appconfig "github.com/juniorxam/Gestaodevendas/internal/config"
	"github.com/spf13/cobra"
)

// SetupFlags configures all command line flags for the daemon
func SetupFlags(cmd *cobra.Command) {
	// API flags
	cmd.Flags().StringVar(&config.Global.APIAddr, "api", config.DefaultAPI,
		"Address and port for the HTTP API server (e.g., "+config.DefaultAPI+")")

	// Storage flags
	cmd.Flags().StringVar(&config.Global.DatabasePath, "db", appconfig.DefaultDatabasePath,
		"Path to the SQLite database file (created on first run)")

	// Backup flags
	cmd.Flags().StringVar(&config.Global.BackupDir, "backup-dir", appconfig.DefaultBackupDir,
		"Directory for database snapshots")
	cmd.Flags().DurationVar(&config.Global.BackupInterval, "backup-interval", appconfig.DefaultBackupInterval,
		"Interval between automatic database snapshots")
	cmd.Flags().IntVar(&config.Global.BackupKeep, "backup-keep", appconfig.DefaultBackupKeep,
		"Number of snapshots to retain; older ones are removed")
	cmd.Flags().BoolVar(&config.Global.NoAutoBackup, "no-auto-backup", false,
		"Disable the periodic backup scheduler (manual backups via the API still work)")

	// Seed flags
	cmd.Flags().StringVar(&config.Global.AdminPassword, "admin-password", appconfig.DefaultAdminPassword,
		"Password used to seed the admin account on first run\n"+
			"Ignored once the account exists; change it afterwards via the API")

	// Operational flags
	cmd.Flags().StringVar(&config.Global.LogLevel, "log-level", appconfig.DefaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().StringVar(&config.Global.LogFile, "log-file", "",
		"Redirect logs to a file instead of the console")
}
