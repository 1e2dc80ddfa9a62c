package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/store"
)

// Category is one row of the categorias table.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"createdAt"`
}

// CategoryService manages the product category list.
type CategoryService struct {
	store *store.Store
	audit *auth.AuditLog
}

// NewCategoryService creates a category service.
func NewCategoryService(s *store.Store, audit *auth.AuditLog) *CategoryService {
	return &CategoryService{store: s, audit: audit}
}

// List returns categories, optionally including deactivated ones.
func (s *CategoryService) List(ctx context.Context, includeInactive bool) ([]Category, error) {
	query := `SELECT id, nome, COALESCE(descricao,''), ativo, data_cadastro FROM categorias`
	if !includeInactive {
		query += " WHERE ativo = 1"
	}
	query += " ORDER BY nome"

	rows, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var active int
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &active, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Active = active == 1
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Register adds a category with a unique name.
func (s *CategoryService) Register(ctx context.Context, name, description, user, ip string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("category name is required")
	}

	var existing int64
	err := s.store.QueryRow(ctx, "SELECT id FROM categorias WHERE nome = ?", name).Scan(&existing)
	if err == nil {
		return 0, fmt.Errorf("category %q already exists", name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check category: %w", err)
	}

	id, err := s.store.ExecInsert(ctx,
		"INSERT INTO categorias (nome, descricao, ativo) VALUES (?, ?, 1)",
		name, strings.TrimSpace(description))
	if err != nil {
		return 0, fmt.Errorf("failed to register category: %w", err)
	}

	s.audit.Record(ctx, user, "CATEGORIAS", "Cadastrou categoria", name, ip)
	return id, nil
}

// idByName returns the ID for a category name, creating it when missing.
// Product registration uses this so typing a new category name just works.
func (s *CategoryService) idByName(ctx context.Context, name, user, ip string) (int64, error) {
	name = strings.TrimSpace(name)
	var id int64
	err := s.store.QueryRow(ctx, "SELECT id FROM categorias WHERE nome = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return s.Register(ctx, name, "Categoria criada automaticamente", user, ip)
}

// Update changes a category's name and description.
func (s *CategoryService) Update(ctx context.Context, id int64, name, description, user, ip string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is required")
	}

	var other int64
	err := s.store.QueryRow(ctx, "SELECT id FROM categorias WHERE nome = ? AND id != ?", name, id).Scan(&other)
	if err == nil {
		return fmt.Errorf("category %q already exists", name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check category: %w", err)
	}

	rows, err := s.store.Exec(ctx,
		"UPDATE categorias SET nome = ?, descricao = ? WHERE id = ?",
		name, strings.TrimSpace(description), id)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("category #%d not found", id)
	}

	s.audit.Record(ctx, user, "CATEGORIAS", "Atualizou categoria", fmt.Sprintf("#%d - %s", id, name), ip)
	return nil
}

// Deactivate retires a category. Blocked while active products still use it.
func (s *CategoryService) Deactivate(ctx context.Context, id int64, user, ip string) error {
	var products int
	err := s.store.QueryRow(ctx,
		"SELECT COUNT(*) FROM produtos WHERE categoria_id = ? AND ativo = 1", id).Scan(&products)
	if err != nil {
		return fmt.Errorf("failed to check products: %w", err)
	}
	if products > 0 {
		return fmt.Errorf("category #%d has %d active product(s) and cannot be deactivated", id, products)
	}

	rows, err := s.store.Exec(ctx, "UPDATE categorias SET ativo = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("category #%d not found", id)
	}

	s.audit.Record(ctx, user, "CATEGORIAS", "Desativou categoria", fmt.Sprintf("#%d", id), ip)
	return nil
}
