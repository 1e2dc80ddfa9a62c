package auth

import (
	"context"
	"time"

	"github.com/juniorxam/Gestaodevendas/internal/logging"
	"github.com/juniorxam/Gestaodevendas/internal/store"
)

// AuditEntry is one row from the logs table.
type AuditEntry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Module    string `json:"module"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	IPAddress string `json:"ipAddress"`
}

// AuditLog records operator actions into the logs table. Every mutating
// endpoint writes an entry so the admin panel can answer who changed what.
type AuditLog struct {
	store *store.Store
}

// NewAuditLog creates an audit writer over the given store.
func NewAuditLog(s *store.Store) *AuditLog {
	return &AuditLog{store: s}
}

// Record writes one audit entry. Audit failures are logged but never fail
// the business operation that triggered them.
func (a *AuditLog) Record(ctx context.Context, user, module, action, details, ipAddress string) {
	if ipAddress == "" {
		ipAddress = "127.0.0.1"
	}
	now := time.Now().Format("2006-01-02 15:04:05")
	_, err := a.store.Exec(ctx,
		`INSERT INTO logs (data_hora, usuario, modulo, acao, detalhes, ip_address)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		now, user, module, action, details, ipAddress)
	if err != nil {
		logging.Error("Failed to record audit entry (%s/%s by %s): %v", module, action, user, err)
	}
}

// List returns recent audit entries, newest first, optionally filtered by
// user and module.
func (a *AuditLog) List(ctx context.Context, user, module string, limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	query := `SELECT id, data_hora, COALESCE(usuario,''), COALESCE(modulo,''),
	                 COALESCE(acao,''), COALESCE(detalhes,''), COALESCE(ip_address,'')
	          FROM logs WHERE 1=1`
	args := []any{}
	if user != "" {
		query += " AND usuario = ?"
		args = append(args, user)
	}
	if module != "" {
		query += " AND modulo = ?"
		args = append(args, module)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := a.store.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.User, &e.Module, &e.Action, &e.Details, &e.IPAddress); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
