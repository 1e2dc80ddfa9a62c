package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/store"
)

// HandleUserList lists accounts. Password hashes never leave the auth
// package.
func HandleUserList(users *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.ListUsers(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": list, "count": len(list)})
	}
}

// HandleUserCreate registers an account.
func HandleUserCreate(users *auth.Service, audit *auth.AuditLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Login    string `json:"login" binding:"required"`
			Name     string `json:"name" binding:"required"`
			Password string `json:"password" binding:"required"`
			Level    string `json:"level" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		if err := users.CreateUser(c.Request.Context(), in.Login, in.Name, in.Password,
			auth.AccessLevel(in.Level)); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		audit.Record(c.Request.Context(), caller.Login, "USUARIOS", "Criou usuário",
			in.Login+" ("+in.Level+")", c.ClientIP())
		c.JSON(http.StatusCreated, gin.H{"status": "created"})
	}
}

// HandleUserSetActive activates or deactivates an account. Deactivation
// also revokes the account's live sessions via revoke.
func HandleUserSetActive(users *auth.Service, audit *auth.AuditLog, revoke func(login string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		login := c.Param("login")

		var in struct {
			Active *bool `json:"active" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		if login == caller.Login && !*in.Active {
			respondError(c, http.StatusConflict, "cannot deactivate your own account")
			return
		}

		if err := users.SetUserActive(c.Request.Context(), login, *in.Active); err != nil {
			respondBadRequest(c, err)
			return
		}
		if !*in.Active {
			revoke(login)
		}

		action := "Ativou usuário"
		if !*in.Active {
			action = "Desativou usuário"
		}
		audit.Record(c.Request.Context(), caller.Login, "USUARIOS", action, login, c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

// HandleUserResetPassword sets a new password for an account and revokes
// its live sessions.
func HandleUserResetPassword(users *auth.Service, audit *auth.AuditLog, revoke func(login string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		login := c.Param("login")

		var in struct {
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		if err := users.ResetPassword(c.Request.Context(), login, in.Password); err != nil {
			respondBadRequest(c, err)
			return
		}
		revoke(login)

		caller := CurrentIdentity(c)
		audit.Record(c.Request.Context(), caller.Login, "USUARIOS", "Redefiniu senha", login, c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}

// HandleAuditList returns audit entries, newest first, filtered by ?user=
// and ?module=.
func HandleAuditList(audit *auth.AuditLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		entries, err := audit.List(c.Request.Context(), c.Query("user"), c.Query("module"), limit)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": entries, "count": len(entries)})
	}
}

// HandleAdminQuery runs a read-only SQL query against the database. Only
// SELECT statements are accepted.
func HandleAdminQuery(db *store.Store, audit *auth.AuditLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Query string `json:"query" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		trimmed := strings.TrimSpace(in.Query)
		if !strings.EqualFold(firstWord(trimmed), "SELECT") {
			respondError(c, http.StatusForbidden, "only SELECT queries are allowed")
			return
		}
		if strings.Contains(trimmed, ";") {
			respondError(c, http.StatusForbidden, "multiple statements are not allowed")
			return
		}

		rows, err := db.Query(c.Request.Context(), trimmed)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			respondInternal(c, err)
			return
		}

		var results []map[string]any
		for rows.Next() {
			values := make([]any, len(columns))
			scanTargets := make([]any, len(columns))
			for i := range values {
				scanTargets[i] = &values[i]
			}
			if err := rows.Scan(scanTargets...); err != nil {
				respondInternal(c, err)
				return
			}

			row := make(map[string]any, len(columns))
			for i, col := range columns {
				if b, ok := values[i].([]byte); ok {
					row[col] = string(b)
				} else {
					row[col] = values[i]
				}
			}
			results = append(results, row)

			if len(results) >= 1000 {
				break
			}
		}
		if err := rows.Err(); err != nil {
			respondInternal(c, err)
			return
		}

		caller := CurrentIdentity(c)
		audit.Record(c.Request.Context(), caller.Login, "SISTEMA", "Executou consulta SQL", trimmed, c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"columns": columns, "rows": results, "count": len(results)})
	}
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// HandleBackupCreate takes a manual database snapshot.
func HandleBackupCreate(backups *store.BackupManager, audit *auth.AuditLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		path, err := backups.CreateBackup("manual")
		if err != nil {
			respondInternal(c, err)
			return
		}

		caller := CurrentIdentity(c)
		audit.Record(c.Request.Context(), caller.Login, "SISTEMA", "Criou backup", path, c.ClientIP())
		c.JSON(http.StatusCreated, gin.H{"path": path})
	}
}

// HandleBackupList lists snapshots, newest first.
func HandleBackupList(backups *store.BackupManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := backups.ListBackups()
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"backups": list, "count": len(list)})
	}
}

// HandleBackupRestore replaces the live database with a snapshot. A safety
// snapshot of the current state is taken first.
func HandleBackupRestore(backups *store.BackupManager, audit *auth.AuditLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Path string `json:"path" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBadRequest(c, err)
			return
		}

		if err := backups.RestoreBackup(in.Path); err != nil {
			respondBadRequest(c, err)
			return
		}

		caller := CurrentIdentity(c)
		audit.Record(c.Request.Context(), caller.Login, "SISTEMA", "Restaurou backup", in.Path, c.ClientIP())
		c.JSON(http.StatusOK, gin.H{"status": "restored"})
	}
}

// SystemStats is the admin system status payload.
type SystemStats struct {
	CacheStats   store.CacheStats `json:"cacheStats"`
	LiveSessions int              `json:"liveSessions"`
}

// HandleAdminStats reports report-cache efficiency and live session count.
func HandleAdminStats(cacheStats func() store.CacheStats, sessionCount func() int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, SystemStats{
			CacheStats:   cacheStats(),
			LiveSessions: sessionCount(),
		})
	}
}
