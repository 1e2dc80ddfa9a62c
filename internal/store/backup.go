package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/juniorxam/Gestaodevendas/internal/logging"
)

// BackupInfo describes one snapshot on disk.
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// BackupManager creates, lists, restores, and prunes timestamped snapshot
// copies of the database file. Snapshots are plain file copies: SQLite in WAL
// mode keeps the main file consistent at every committed transaction, and the
// dashboard checkpoints before copying.
type BackupManager struct {
	store     *Store
	backupDir string
	keep      int
}

// NewBackupManager creates a manager writing snapshots under backupDir,
// retaining at most keep snapshots during cleanup.
func NewBackupManager(store *Store, backupDir string, keep int) *BackupManager {
	return &BackupManager{store: store, backupDir: backupDir, keep: keep}
}

// CreateBackup checkpoints the WAL and copies the database file into the
// backup directory. The optional suffix tags the filename (e.g. "manual",
// "pre_restore"). Returns the snapshot path.
func (m *BackupManager) CreateBackup(suffix string) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Fold WAL content into the main file so the copy is complete
	if _, err := m.store.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return "", fmt.Errorf("failed to checkpoint database: %w", err)
	}

	name := "electrogest_" + time.Now().Format("20060102_150405")
	if suffix != "" {
		name += "_" + suffix
	}
	dst := filepath.Join(m.backupDir, name+".db")

	if err := copyFile(m.store.path, dst); err != nil {
		return "", fmt.Errorf("failed to copy database: %w", err)
	}

	logging.Success("Backup created: %s", dst)
	return dst, nil
}

// ListBackups returns snapshots in the backup directory, newest first.
func (m *BackupManager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  entry.Name(),
			Path:      filepath.Join(m.backupDir, entry.Name()),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// RestoreBackup replaces the live database file with the named snapshot.
// A safety snapshot of the current state is taken first so a bad restore is
// itself recoverable. The store must be reopened by the caller afterwards;
// restore is only offered while the daemon holds no open transactions.
func (m *BackupManager) RestoreBackup(backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not accessible: %w", err)
	}

	if _, err := m.CreateBackup("pre_restore"); err != nil {
		return fmt.Errorf("failed to create pre-restore snapshot: %w", err)
	}

	// Checkpoint and drop WAL sidecars so the restored file is authoritative
	if _, err := m.store.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		logging.Warn("Checkpoint before restore failed: %v", err)
	}

	if err := copyFile(backupPath, m.store.path); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	for _, sidecar := range []string{m.store.path + "-wal", m.store.path + "-shm"} {
		if err := os.Remove(sidecar); err != nil && !os.IsNotExist(err) {
			logging.Warn("Failed to remove %s: %v", sidecar, err)
		}
	}

	logging.Success("Database restored from %s", backupPath)
	return nil
}

// CleanupOldBackups removes the oldest snapshots beyond the retention count.
// Returns how many files were deleted.
func (m *BackupManager) CleanupOldBackups() (int, error) {
	backups, err := m.ListBackups()
	if err != nil {
		return 0, err
	}
	if len(backups) <= m.keep {
		return 0, nil
	}

	removed := 0
	for _, b := range backups[m.keep:] {
		if err := os.Remove(b.Path); err != nil {
			logging.Warn("Failed to remove old backup %s: %v", b.Path, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logging.Info("Removed %d old backup(s), retaining %d", removed, m.keep)
	}
	return removed, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// BackupScheduler snapshots the database on a fixed interval and prunes old
// snapshots after each run.
type BackupScheduler struct {
	manager  *BackupManager
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewBackupScheduler creates a scheduler around manager firing every interval.
func NewBackupScheduler(manager *BackupManager, interval time.Duration) *BackupScheduler {
	return &BackupScheduler{
		manager:  manager,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the scheduling loop in a background goroutine.
func (s *BackupScheduler) Start() {
	logging.Info("Backup scheduler started (every %v)", s.interval)
	go s.run()
}

func (s *BackupScheduler) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.manager.CreateBackup("auto"); err != nil {
				logging.Error("Scheduled backup failed: %v", err)
				continue
			}
			if _, err := s.manager.CleanupOldBackups(); err != nil {
				logging.Warn("Backup cleanup failed: %v", err)
			}
		case <-s.stopCh:
			return
		}
	}
}

// Shutdown stops the scheduling loop and waits for it to exit.
func (s *BackupScheduler) Shutdown() {
	close(s.stopCh)
	<-s.doneCh
	logging.Info("Backup scheduler stopped")
}
