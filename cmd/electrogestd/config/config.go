// Package config holds the daemon's runtime configuration, populated from
// command line flags and validated before the daemon starts.
package config

import (
	"fmt"
	"time"

	appconfig "github.com/juniorxam/Gestaodevendas/internal/config"
	"github.com/juniorxam/Gestaodevendas/internal/logging"
	"github.com/juniorxam/Gestaodevendas/internal/validate"
)

// Defaults for the daemon flags.
var (
	DefaultAPI = fmt.Sprintf("%s:%d", appconfig.DefaultBindAddr, appconfig.DefaultBindPort)
)

// DaemonConfig is the full daemon configuration.
type DaemonConfig struct {
	APIAddr string // Flag form, host:port
	APIHost string // Parsed host
	APIPort int    // Parsed port

	DatabasePath string
	LogLevel     string
	LogFile      string

	BackupDir      string
	BackupInterval time.Duration
	BackupKeep     int
	NoAutoBackup   bool

	// AdminPassword seeds the admin account on first run. Ignored once the
	// account exists.
	AdminPassword string
}

// Global is the daemon configuration populated by flags.
var Global = DaemonConfig{
	APIAddr:        DefaultAPI,
	DatabasePath:   appconfig.DefaultDatabasePath,
	LogLevel:       appconfig.DefaultLogLevel,
	BackupDir:      appconfig.DefaultBackupDir,
	BackupInterval: appconfig.DefaultBackupInterval,
	BackupKeep:     appconfig.DefaultBackupKeep,
	AdminPassword:  appconfig.DefaultAdminPassword,
}

// Validate checks the configuration and fills the parsed API host/port.
func Validate() error {
	netAddr, err := validate.ParseBindAddress(Global.APIAddr)
	if err != nil {
		return fmt.Errorf("invalid API address: %w", err)
	}
	if err := validate.ValidateField(netAddr.Port, "required,min=1,max=65535"); err != nil {
		return fmt.Errorf("daemon requires a specific API port (not 0): %w", err)
	}
	Global.APIHost = netAddr.Host
	Global.APIPort = netAddr.Port

	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}
	if err := validate.ValidateRequiredString(Global.DatabasePath, "database path"); err != nil {
		return err
	}
	if err := validate.ValidateRequiredString(Global.BackupDir, "backup directory"); err != nil {
		return err
	}
	if !Global.NoAutoBackup {
		if err := validate.ValidatePositiveTimeout(Global.BackupInterval, "backup interval"); err != nil {
			return err
		}
	}
	if Global.BackupKeep < 1 {
		return fmt.Errorf("backup retention must keep at least 1 snapshot")
	}
	if len(Global.AdminPassword) < 6 {
		return fmt.Errorf("admin password must have at least 6 characters")
	}
	return nil
}
