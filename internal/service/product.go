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

// Product is one row of the produtos table joined with its category name.
type Product struct {
	ID           int64   `json:"id"`
	Barcode      string  `json:"barcode,omitempty"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Category     string  `json:"category,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	CostPrice    float64 `json:"costPrice"`
	SalePrice    float64 `json:"salePrice"`
	StockQty     int     `json:"stockQty"`
	MinStock     int     `json:"minStock"`
	Active       bool    `json:"active"`
	RegisteredAt string  `json:"registeredAt"`
	RegisteredBy string  `json:"registeredBy,omitempty"`
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	Barcode      string  `json:"barcode"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Manufacturer string  `json:"manufacturer"`
	CostPrice    float64 `json:"costPrice"`
	SalePrice    float64 `json:"salePrice" binding:"required"`
	StockQty     int     `json:"stockQty"`
	MinStock     int     `json:"minStock"`
}

// ProductStats aggregates catalog counters.
type ProductStats struct {
	TotalActive   int     `json:"totalActive"`
	TotalInactive int     `json:"totalInactive"`
	StockValue    float64 `json:"stockValue"`
	LowStock      int     `json:"lowStock"`
	OutOfStock    int     `json:"outOfStock"`
}

// ProductService manages the product catalog.
type ProductService struct {
	store      *store.Store
	audit      *auth.AuditLog
	categories *CategoryService
}

// NewProductService creates a product service. It needs the category service
// to auto-create categories typed in during product registration.
func NewProductService(s *store.Store, audit *auth.AuditLog, categories *CategoryService) *ProductService {
	return &ProductService{store: s, audit: audit, categories: categories}
}

const productSelect = `
	SELECT p.id, COALESCE(p.codigo_barras,''), p.nome, COALESCE(p.descricao,''),
	       COALESCE(c.nome,''), COALESCE(p.fabricante,''),
	       COALESCE(p.preco_custo,0), p.preco_venda, p.quantidade_estoque,
	       p.estoque_minimo, p.ativo, p.data_cadastro, COALESCE(p.usuario_cadastro,'')
	FROM produtos p
	LEFT JOIN categorias c ON p.categoria_id = c.id`

func scanProducts(rows *sql.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var p Product
		var active int
		if err := rows.Scan(&p.ID, &p.Barcode, &p.Name, &p.Description, &p.Category,
			&p.Manufacturer, &p.CostPrice, &p.SalePrice, &p.StockQty, &p.MinStock,
			&active, &p.RegisteredAt, &p.RegisteredBy); err != nil {
			return nil, err
		}
		p.Active = active == 1
		products = append(products, p)
	}
	return products, rows.Err()
}

// List returns the catalog ordered by name.
func (s *ProductService) List(ctx context.Context, includeInactive bool) ([]Product, error) {
	query := productSelect
	if !includeInactive {
		query += " WHERE p.ativo = 1"
	}
	query += " ORDER BY p.nome"

	rows, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Search finds active products by name, barcode, or description fragment.
func (s *ProductService) Search(ctx context.Context, term string, limit int) ([]Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	like := "%" + term + "%"
	rows, err := s.store.Query(ctx,
		productSelect+` WHERE (p.nome LIKE ? OR p.codigo_barras LIKE ? OR p.descricao LIKE ?)
		 AND p.ativo = 1 ORDER BY p.nome LIMIT ?`,
		like, like, like, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// GetByID fetches one product regardless of active flag.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*Product, error) {
	return s.getOne(ctx, "p.id = ?", id)
}

// GetByBarcode fetches one active product by barcode; the sales page scans
// straight into this.
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, nil
	}
	return s.getOne(ctx, "p.codigo_barras = ? AND p.ativo = 1", barcode)
}

func (s *ProductService) getOne(ctx context.Context, where string, arg any) (*Product, error) {
	rows, err := s.store.Query(ctx, productSelect+" WHERE "+where, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// Register adds a product. Names are stored uppercase the way the catalog
// has always kept them; barcodes must be unique.
func (s *ProductService) Register(ctx context.Context, in ProductInput, user, ip string) (int64, error) {
	name := strings.ToUpper(strings.TrimSpace(in.Name))
	if name == "" {
		return 0, fmt.Errorf("product name is required")
	}
	if in.SalePrice <= 0 {
		return 0, fmt.Errorf("sale price must be greater than zero")
	}
	if in.StockQty < 0 || in.MinStock < 0 {
		return 0, fmt.Errorf("stock quantities cannot be negative")
	}

	barcode := strings.TrimSpace(in.Barcode)
	if barcode != "" {
		var existing int64
		err := s.store.QueryRow(ctx, "SELECT id FROM produtos WHERE codigo_barras = ?", barcode).Scan(&existing)
		if err == nil {
			return 0, fmt.Errorf("barcode already registered to product #%d", existing)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to check barcode: %w", err)
		}
	}

	var categoryID any
	if cat := strings.TrimSpace(in.Category); cat != "" {
		id, err := s.categories.idByName(ctx, cat, user, ip)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve category: %w", err)
		}
		categoryID = id
	}

	minStock := in.MinStock
	if minStock == 0 {
		minStock = 5
	}

	id, err := s.store.ExecInsert(ctx,
		`INSERT INTO produtos (codigo_barras, nome, descricao, categoria_id, fabricante,
		        preco_custo, preco_venda, quantidade_estoque, estoque_minimo, ativo, usuario_cadastro)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		nullable(barcode), name, strings.TrimSpace(in.Description), categoryID,
		strings.TrimSpace(in.Manufacturer), in.CostPrice, in.SalePrice, in.StockQty, minStock, user)
	if err != nil {
		return 0, fmt.Errorf("failed to register product: %w", err)
	}

	s.audit.Record(ctx, user, "PRODUTOS", "Cadastrou produto", fmt.Sprintf("Produto #%d - %s", id, name), ip)
	return id, nil
}

// Update rewrites a product's editable fields. Stock quantity is not
// editable here; stock changes go through the stock service so every unit
// movement is accounted for.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput, user, ip string) error {
	name := strings.ToUpper(strings.TrimSpace(in.Name))
	if name == "" {
		return fmt.Errorf("product name is required")
	}
	if in.SalePrice <= 0 {
		return fmt.Errorf("sale price must be greater than zero")
	}

	barcode := strings.TrimSpace(in.Barcode)
	if barcode != "" {
		var other int64
		err := s.store.QueryRow(ctx, "SELECT id FROM produtos WHERE codigo_barras = ? AND id != ?", barcode, id).Scan(&other)
		if err == nil {
			return fmt.Errorf("barcode already registered to product #%d", other)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check barcode: %w", err)
		}
	}

	var categoryID any
	if cat := strings.TrimSpace(in.Category); cat != "" {
		cid, err := s.categories.idByName(ctx, cat, user, ip)
		if err != nil {
			return fmt.Errorf("failed to resolve category: %w", err)
		}
		categoryID = cid
	}

	rows, err := s.store.Exec(ctx,
		`UPDATE produtos SET codigo_barras = ?, nome = ?, descricao = ?, categoria_id = ?,
		        fabricante = ?, preco_custo = ?, preco_venda = ?, estoque_minimo = ?
		 WHERE id = ?`,
		nullable(barcode), name, strings.TrimSpace(in.Description), categoryID,
		strings.TrimSpace(in.Manufacturer), in.CostPrice, in.SalePrice, in.MinStock, id)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("product #%d not found", id)
	}

	s.audit.Record(ctx, user, "PRODUTOS", "Atualizou produto", fmt.Sprintf("Produto #%d - %s", id, name), ip)
	return nil
}

// SetActive activates or retires a product. Retired products keep their
// sales history but stop appearing in searches and the sales page.
func (s *ProductService) SetActive(ctx context.Context, id int64, active bool, user, ip string) error {
	activeVal := 0
	action := "Desativou produto"
	if active {
		activeVal = 1
		action = "Reativou produto"
	}

	rows, err := s.store.Exec(ctx, "UPDATE produtos SET ativo = ? WHERE id = ?", activeVal, id)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("product #%d not found", id)
	}

	s.audit.Record(ctx, user, "PRODUTOS", action, fmt.Sprintf("Produto #%d", id), ip)
	return nil
}

// CheckStock reports whether qty units are available and the current level.
func (s *ProductService) CheckStock(ctx context.Context, id int64, qty int) (bool, int, error) {
	var current int
	err := s.store.QueryRow(ctx,
		"SELECT quantidade_estoque FROM produtos WHERE id = ? AND ativo = 1", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, fmt.Errorf("product #%d not found", id)
	}
	if err != nil {
		return false, 0, err
	}
	return current >= qty, current, nil
}

// LowStock lists active products at or below their minimum stock level.
func (s *ProductService) LowStock(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.store.Query(ctx,
		productSelect+` WHERE p.quantidade_estoque <= p.estoque_minimo AND p.ativo = 1
		 ORDER BY p.quantidade_estoque ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Stats returns catalog counters for the dashboard.
func (s *ProductService) Stats(ctx context.Context) (*ProductStats, error) {
	var st ProductStats
	err := s.store.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN ativo = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN ativo = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN ativo = 1 THEN quantidade_estoque * COALESCE(preco_custo, 0) ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN ativo = 1 AND quantidade_estoque <= estoque_minimo THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN ativo = 1 AND quantidade_estoque = 0 THEN 1 ELSE 0 END), 0)
		 FROM produtos`).Scan(&st.TotalActive, &st.TotalInactive, &st.StockValue, &st.LowStock, &st.OutOfStock)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
