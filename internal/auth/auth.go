// Package auth provides authentication, authorization, and audit logging for
// the ElectroGest dashboard.
//
// Accounts live in the usuarios table with one of three access levels:
// ADMIN > OPERADOR > VISUALIZADOR. New password hashes use bcrypt; databases
// created by earlier versions stored unsalted SHA-256 hex, which this package
// still verifies and transparently upgrades to bcrypt on the next successful
// login.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/juniorxam/Gestaodevendas/internal/logging"
	"github.com/juniorxam/Gestaodevendas/internal/store"
	"github.com/juniorxam/Gestaodevendas/internal/validate"
)

// AccessLevel is a user authorization tier.
type AccessLevel string

const (
	LevelAdmin    AccessLevel = "ADMIN"
	LevelOperator AccessLevel = "OPERADOR"
	LevelViewer   AccessLevel = "VISUALIZADOR"
)

// Allows reports whether a user at this level may perform an action that
// requires needed. ADMIN covers everything, OPERADOR covers operator and
// viewer actions, VISUALIZADOR covers only viewer actions.
func (l AccessLevel) Allows(needed AccessLevel) bool {
	switch l {
	case LevelAdmin:
		return true
	case LevelOperator:
		return needed == LevelOperator || needed == LevelViewer
	case LevelViewer:
		return needed == LevelViewer
	}
	return false
}

// User is a dashboard account.
type User struct {
	Login       string      `json:"login"`
	Name        string      `json:"name"`
	AccessLevel AccessLevel `json:"accessLevel"`
	Active      bool        `json:"active"`
	CreatedAt   string      `json:"createdAt"`
}

// ErrInvalidCredentials is returned when login or password don't match an
// active account. Deliberately indistinct about which of the two failed.
var ErrInvalidCredentials = errors.New("invalid login or password")

// Service authenticates users and manages accounts.
type Service struct {
	store *store.Store
}

// NewService creates an auth service over the given store.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// legacySHA256Hex matches the hash format earlier versions stored.
func legacySHA256Hex(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// verifyPassword checks password against a stored hash, accepting both
// bcrypt and the legacy SHA-256 hex format. Reports whether the hash is
// legacy so the caller can upgrade it.
func verifyPassword(stored, password string) (ok bool, legacy bool) {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}
	want := legacySHA256Hex(password)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(want)) == 1, true
}

// Login authenticates a user and returns the account on success. Legacy
// SHA-256 hashes are upgraded to bcrypt in place after a successful check.
func (s *Service) Login(ctx context.Context, login, password string) (*User, error) {
	login = strings.ToLower(strings.TrimSpace(login))

	var storedHash string
	user := &User{Login: login, Active: true}
	var level string
	err := s.store.QueryRow(ctx,
		"SELECT senha, nome, nivel_acesso FROM usuarios WHERE login = ? AND ativo = 1",
		login).Scan(&storedHash, &user.Name, &level)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	user.AccessLevel = AccessLevel(level)

	ok, legacy := verifyPassword(storedHash, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if legacy {
		if newHash, err := HashPassword(password); err == nil {
			if _, err := s.store.Exec(ctx, "UPDATE usuarios SET senha = ? WHERE login = ?", newHash, login); err != nil {
				logging.Warn("Failed to upgrade legacy password hash for %s: %v", login, err)
			} else {
				logging.Info("Upgraded legacy password hash for %s", login)
			}
		}
	}

	return user, nil
}

// ChangePassword verifies the current password and stores a bcrypt hash of
// the new one.
func (s *Service) ChangePassword(ctx context.Context, login, current, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("new password must have at least 6 characters")
	}

	if _, err := s.Login(ctx, login, current); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.store.Exec(ctx, "UPDATE usuarios SET senha = ? WHERE login = ?", hash, login); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// CreateUser registers a new account. Admin-only at the API layer.
func (s *Service) CreateUser(ctx context.Context, login, name, password string, level AccessLevel) error {
	login = strings.ToLower(strings.TrimSpace(login))
	if err := validate.LoginFormat(login); err != nil {
		return err
	}
	if err := validate.ValidateAccessLevel(string(level)); err != nil {
		return err
	}
	if len(password) < 6 {
		return fmt.Errorf("password must have at least 6 characters")
	}

	var existing string
	err := s.store.QueryRow(ctx, "SELECT login FROM usuarios WHERE login = ?", login).Scan(&existing)
	if err == nil {
		return fmt.Errorf("login '%s' already exists", login)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check login: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.store.Exec(ctx,
		`INSERT INTO usuarios (login, senha, nome, nivel_acesso, ativo, data_criacao)
		 VALUES (?, ?, ?, ?, 1, CURRENT_TIMESTAMP)`,
		login, hash, strings.TrimSpace(name), string(level))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SetUserActive activates or deactivates an account. Deactivated accounts
// cannot log in; their history in vendas and logs is preserved.
func (s *Service) SetUserActive(ctx context.Context, login string, active bool) error {
	activeVal := 0
	if active {
		activeVal = 1
	}
	rows, err := s.store.Exec(ctx, "UPDATE usuarios SET ativo = ? WHERE login = ?", activeVal, login)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user '%s' not found", login)
	}
	return nil
}

// ResetPassword sets a new password without requiring the current one.
// Admin-only at the API layer.
func (s *Service) ResetPassword(ctx context.Context, login, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("new password must have at least 6 characters")
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	rows, err := s.store.Exec(ctx, "UPDATE usuarios SET senha = ? WHERE login = ?", hash, login)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user '%s' not found", login)
	}
	return nil
}

// ListUsers returns every account, active and inactive.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.store.Query(ctx,
		"SELECT login, nome, nivel_acesso, ativo, data_criacao FROM usuarios ORDER BY login")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var level string
		var active int
		if err := rows.Scan(&u.Login, &u.Name, &level, &active, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.AccessLevel = AccessLevel(level)
		u.Active = active == 1
		users = append(users, u)
	}
	return users, rows.Err()
}
