package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/juniorxam/Gestaodevendas/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "auth_test.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	return NewService(s), s
}

// TestAccessLevelAllows tests the authorization hierarchy
func TestAccessLevelAllows(t *testing.T) {
	tests := []struct {
		level  AccessLevel
		needed AccessLevel
		want   bool
	}{
		{LevelAdmin, LevelAdmin, true},
		{LevelAdmin, LevelOperator, true},
		{LevelAdmin, LevelViewer, true},
		{LevelOperator, LevelAdmin, false},
		{LevelOperator, LevelOperator, true},
		{LevelOperator, LevelViewer, true},
		{LevelViewer, LevelAdmin, false},
		{LevelViewer, LevelOperator, false},
		{LevelViewer, LevelViewer, true},
		{AccessLevel("UNKNOWN"), LevelViewer, false},
	}

	for _, tt := range tests {
		if got := tt.level.Allows(tt.needed); got != tt.want {
			t.Errorf("%s.Allows(%s) = %v, want %v", tt.level, tt.needed, got, tt.want)
		}
	}
}

// TestLoginRoundTrip tests create-then-login with bcrypt hashing
func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "joao", "João Souza", "segredo1", LevelOperator); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	user, err := svc.Login(ctx, "joao", "segredo1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.AccessLevel != LevelOperator {
		t.Errorf("Login() level = %s, want %s", user.AccessLevel, LevelOperator)
	}
	if user.Name != "João Souza" {
		t.Errorf("Login() name = %q, want %q", user.Name, "João Souza")
	}

	// Wrong password must be indistinguishable from unknown login
	if _, err := svc.Login(ctx, "joao", "errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "ninguem", "segredo1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

// TestLoginLegacyHashUpgrade tests SHA-256 verification and in-place upgrade
func TestLoginLegacyHashUpgrade(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	// Seed an account with the legacy hash format
	legacy := legacySHA256Hex("admin123")
	if _, err := st.Exec(ctx,
		`INSERT INTO usuarios (login, senha, nome, nivel_acesso, ativo) VALUES ('admin', ?, 'Administrador', 'ADMIN', 1)`,
		legacy); err != nil {
		t.Fatalf("seed legacy user: %v", err)
	}

	if _, err := svc.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("Login() with legacy hash error = %v", err)
	}

	// The stored hash must now be bcrypt
	var stored string
	if err := st.QueryRow(ctx, "SELECT senha FROM usuarios WHERE login = 'admin'").Scan(&stored); err != nil {
		t.Fatalf("read stored hash: %v", err)
	}
	if stored == legacy {
		t.Error("legacy hash was not upgraded after successful login")
	}

	// And login still works against the upgraded hash
	if _, err := svc.Login(ctx, "admin", "admin123"); err != nil {
		t.Errorf("Login() after upgrade error = %v", err)
	}
}

// TestInactiveUserCannotLogin tests account deactivation
func TestInactiveUserCannotLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "ana", "Ana", "senha123", LevelViewer); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := svc.SetUserActive(ctx, "ana", false); err != nil {
		t.Fatalf("SetUserActive() error = %v", err)
	}

	if _, err := svc.Login(ctx, "ana", "senha123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() deactivated error = %v, want ErrInvalidCredentials", err)
	}
}

// TestChangePassword tests verification of the current password
func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "oper", "Operator", "antiga1", LevelOperator); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if err := svc.ChangePassword(ctx, "oper", "errada", "nova123"); err == nil {
		t.Error("ChangePassword() with wrong current password = nil, want error")
	}
	if err := svc.ChangePassword(ctx, "oper", "antiga1", "abc"); err == nil {
		t.Error("ChangePassword() with short new password = nil, want error")
	}

	if err := svc.ChangePassword(ctx, "oper", "antiga1", "nova123"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := svc.Login(ctx, "oper", "nova123"); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
	if _, err := svc.Login(ctx, "oper", "antiga1"); err == nil {
		t.Error("Login() with old password = nil, want error")
	}
}

// TestCreateUserValidation tests login/level/password constraints
func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.CreateUser(ctx, "ok", "", "senha123", LevelViewer); err == nil {
		t.Error("CreateUser() with 2-char login = nil, want error")
	}
	if err := svc.CreateUser(ctx, "user1", "U", "12345", LevelViewer); err == nil {
		t.Error("CreateUser() with short password = nil, want error")
	}
	if err := svc.CreateUser(ctx, "user1", "U", "senha123", AccessLevel("ROOT")); err == nil {
		t.Error("CreateUser() with bad level = nil, want error")
	}

	if err := svc.CreateUser(ctx, "user1", "U", "senha123", LevelViewer); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := svc.CreateUser(ctx, "user1", "U", "senha123", LevelViewer); err == nil {
		t.Error("CreateUser() duplicate login = nil, want error")
	}
}

// TestAuditLogRecordAndList tests the audit round trip with filters
func TestAuditLogRecordAndList(t *testing.T) {
	_, st := newTestService(t)
	ctx := context.Background()
	audit := NewAuditLog(st)

	audit.Record(ctx, "admin", "VENDAS", "Registrou venda", "Venda #1", "10.0.0.5")
	audit.Record(ctx, "op", "ESTOQUE", "Ajuste de estoque", "", "")

	entries, err := audit.List(ctx, "", "", 50)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() count = %d, want 2", len(entries))
	}
	// Newest first
	if entries[0].Module != "ESTOQUE" {
		t.Errorf("List()[0].Module = %q, want ESTOQUE", entries[0].Module)
	}
	// Empty IP defaults to loopback
	if entries[0].IPAddress != "127.0.0.1" {
		t.Errorf("List()[0].IPAddress = %q, want 127.0.0.1", entries[0].IPAddress)
	}

	filtered, err := audit.List(ctx, "admin", "VENDAS", 50)
	if err != nil {
		t.Fatalf("List(filtered) error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].User != "admin" {
		t.Errorf("List(filtered) = %+v, want single admin entry", filtered)
	}
}
