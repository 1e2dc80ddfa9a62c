// Package config provides common default configuration values shared across
// ElectroGest components (storage, HTTP API, launcher). This centralizes
// configuration management and ensures consistency between the dashboard
// daemon and the launcher that bootstraps it.
package config

import "time"

const (
	// AppTitle is the product banner title shown by the launcher and the
	// daemon startup logo.
	AppTitle = "ElectroGest - Sistema de Gestão Comercial"

	// DefaultBindAddr is the default bind address for the dashboard API.
	// The dashboard is a locally-run tool, so it binds to loopback unless
	// explicitly told otherwise.
	DefaultBindAddr = "127.0.0.1"

	// DefaultBindPort is the default dashboard API port. Kept at the port
	// the original dashboard served on so bookmarks and the launcher's
	// readiness probe keep working.
	DefaultBindPort = 8501

	// DefaultLogLevel is the default log level for all components.
	// INFO provides good balance of visibility without verbose debug output.
	DefaultLogLevel = "INFO"

	// DefaultDatabasePath is the default SQLite database file, resolved
	// relative to the working directory like the original product did.
	DefaultDatabasePath = "electrogest.db"

	// DefaultBackupDir is where database snapshots are written.
	DefaultBackupDir = "backups"

	// DefaultBackupInterval is how often the backup scheduler snapshots
	// the database when automatic backups are enabled.
	DefaultBackupInterval = 6 * time.Hour

	// DefaultBackupKeep is how many snapshots the retention pass preserves.
	DefaultBackupKeep = 30

	// DefaultAdminLogin is the seeded administrator account.
	DefaultAdminLogin = "admin"

	// DefaultAdminPassword is the seeded administrator password. Operators
	// are expected to change it on first login; the API warns while it is
	// still in use.
	DefaultAdminPassword = "admin123"

	// DefaultManifestPath is where the launcher looks for the dependency
	// manifest when no flag overrides it.
	DefaultManifestPath = "requirements.txt"
)
