package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

// openTestStore creates a schema-initialized store in a temp directory
func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	return s
}

// TestInitSchemaIdempotent tests that schema creation is safe to repeat
func TestInitSchemaIdempotent(t *testing.T) {
	s := openTestStore(t)

	if err := s.InitSchema(context.Background()); err != nil {
		t.Errorf("second InitSchema() error = %v, want nil", err)
	}
}

// TestEnsureSeedData tests admin and category seeding
func TestEnsureSeedData(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.EnsureSeedData(ctx, "hash-1"); err != nil {
		t.Fatalf("EnsureSeedData() error = %v", err)
	}

	var hash string
	if err := s.QueryRow(ctx, "SELECT senha FROM usuarios WHERE login = 'admin'").Scan(&hash); err != nil {
		t.Fatalf("admin user not seeded: %v", err)
	}
	if hash != "hash-1" {
		t.Errorf("admin hash = %q, want %q", hash, "hash-1")
	}

	var categories int
	if err := s.QueryRow(ctx, "SELECT COUNT(*) FROM categorias").Scan(&categories); err != nil {
		t.Fatalf("count categories: %v", err)
	}
	if categories != len(defaultCategories) {
		t.Errorf("seeded categories = %d, want %d", categories, len(defaultCategories))
	}

	// Re-seeding must not overwrite the existing admin password
	if err := s.EnsureSeedData(ctx, "hash-2"); err != nil {
		t.Fatalf("second EnsureSeedData() error = %v", err)
	}
	if err := s.QueryRow(ctx, "SELECT senha FROM usuarios WHERE login = 'admin'").Scan(&hash); err != nil {
		t.Fatalf("re-read admin: %v", err)
	}
	if hash != "hash-1" {
		t.Errorf("admin hash after re-seed = %q, want original %q", hash, "hash-1")
	}
}

// TestExecInsertReturnsID tests that inserts surface the generated row ID
func TestExecInsertReturnsID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.ExecInsert(ctx, "INSERT INTO clientes (nome) VALUES (?)", "Maria Silva")
	if err != nil {
		t.Fatalf("ExecInsert() error = %v", err)
	}
	if id < 1 {
		t.Errorf("ExecInsert() id = %d, want >= 1", id)
	}
}

// TestWithTxRollback tests that a failing transaction leaves no rows behind
func TestWithTxRollback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	wantErr := errors.New("forced failure")
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO clientes (nome) VALUES (?)", "Ghost"); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("WithTx() error = %v, want %v", err, wantErr)
	}

	var count int
	if err := s.QueryRow(ctx, "SELECT COUNT(*) FROM clientes").Scan(&count); err != nil {
		t.Fatalf("count clientes: %v", err)
	}
	if count != 0 {
		t.Errorf("rows after rollback = %d, want 0", count)
	}
}

// TestIsBusyError tests busy-error classification
func TestIsBusyError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{fmt.Errorf("database is locked"), true},
		{fmt.Errorf("database is busy"), true},
		{fmt.Errorf("UNIQUE constraint failed: clientes.cpf"), false},
	}

	for _, tt := range tests {
		if got := isBusyError(tt.err); got != tt.want {
			t.Errorf("isBusyError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
