package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/store"
	"github.com/juniorxam/Gestaodevendas/internal/validate"
)

// Stock movement types. SAIDA and AJUSTE must never drive a quantity below
// zero; the transaction enforces it.
const (
	MovementEntry  = "ENTRADA"
	MovementExit   = "SAIDA"
	MovementAdjust = "AJUSTE"
)

// StockMovement is one recorded movement against a product.
type StockMovement struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Before      int    `json:"before"`
	After       int    `json:"after"`
}

// CategoryStock is stock value grouped by category.
type CategoryStock struct {
	Category string  `json:"category"`
	Products int     `json:"products"`
	Units    int     `json:"units"`
	Value    float64 `json:"value"`
}

// StockReport summarizes the whole inventory.
type StockReport struct {
	TotalProducts     int             `json:"totalProducts"`
	TotalUnits        int             `json:"totalUnits"`
	TotalValue        float64         `json:"totalValue"`
	TotalValueDisplay string          `json:"totalValueDisplay"`
	LowStock          int             `json:"lowStock"`
	OutOfStock        int             `json:"outOfStock"`
	ByCategory        []CategoryStock `json:"byCategory"`
}

// ReplenishmentSuggestion is a product below its minimum with the quantity
// needed to reach it.
type ReplenishmentSuggestion struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Current   int    `json:"current"`
	Minimum   int    `json:"minimum"`
	Suggested int    `json:"suggested"`
}

// StockService moves inventory in and out and reports on it. Movements
// invalidate the report cache so stock aggregates stay current.
type StockService struct {
	store *store.Store
	audit *auth.AuditLog
	cache *store.QueryCache
}

// NewStockService creates a stock service sharing the report query cache.
func NewStockService(s *store.Store, audit *auth.AuditLog, cache *store.QueryCache) *StockService {
	return &StockService{store: s, audit: audit, cache: cache}
}

// RegisterMovement applies an ENTRADA, SAIDA, or AJUSTE to a product. For
// AJUSTE the quantity is the new absolute stock; for the others it is the
// delta. Exits that would go negative fail and roll back.
func (s *StockService) RegisterMovement(ctx context.Context, productID int64, movement string, quantity int, user, reason, ip string) (*StockMovement, error) {
	switch movement {
	case MovementEntry, MovementExit, MovementAdjust:
	default:
		return nil, fmt.Errorf("invalid movement type: %s", movement)
	}
	if quantity < 0 || (movement != MovementAdjust && quantity == 0) {
		return nil, fmt.Errorf("quantity must be positive")
	}

	result := &StockMovement{ProductID: productID, Type: movement, Quantity: quantity}

	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			"SELECT nome, quantidade_estoque FROM produtos WHERE id = ? AND ativo = 1",
			productID).Scan(&result.ProductName, &result.Before)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("product #%d not found", productID)
		}
		if err != nil {
			return err
		}

		switch movement {
		case MovementEntry:
			result.After = result.Before + quantity
		case MovementExit:
			result.After = result.Before - quantity
			if result.After < 0 {
				return fmt.Errorf("insufficient stock for %s (available: %d, requested: %d)",
					result.ProductName, result.Before, quantity)
			}
		case MovementAdjust:
			result.After = quantity
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE produtos SET quantidade_estoque = ? WHERE id = ?", result.After, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate()
	details := fmt.Sprintf("%s: %s de %d para %d", result.ProductName, movement, result.Before, result.After)
	if reason != "" {
		details += " - " + reason
	}
	s.audit.Record(ctx, user, "ESTOQUE", "Movimentou estoque", details, ip)
	return result, nil
}

// RegisterEntry adds quantity to a product's stock.
func (s *StockService) RegisterEntry(ctx context.Context, productID int64, quantity int, user, reason, ip string) (*StockMovement, error) {
	return s.RegisterMovement(ctx, productID, MovementEntry, quantity, user, reason, ip)
}

// RegisterExit removes quantity from a product's stock.
func (s *StockService) RegisterExit(ctx context.Context, productID int64, quantity int, user, reason, ip string) (*StockMovement, error) {
	return s.RegisterMovement(ctx, productID, MovementExit, quantity, user, reason, ip)
}

// Adjust sets a product's stock to an absolute quantity.
func (s *StockService) Adjust(ctx context.Context, productID int64, quantity int, user, reason, ip string) (*StockMovement, error) {
	return s.RegisterMovement(ctx, productID, MovementAdjust, quantity, user, reason, ip)
}

// Report summarizes active inventory: totals, low and out-of-stock counts,
// value per category.
func (s *StockService) Report(ctx context.Context) (*StockReport, error) {
	r := &StockReport{}
	err := s.store.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(quantidade_estoque), 0),
		        COALESCE(SUM(quantidade_estoque * preco_venda), 0),
		        COALESCE(SUM(CASE WHEN quantidade_estoque <= estoque_minimo AND quantidade_estoque > 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN quantidade_estoque = 0 THEN 1 ELSE 0 END), 0)
		 FROM produtos WHERE ativo = 1`).
		Scan(&r.TotalProducts, &r.TotalUnits, &r.TotalValue, &r.LowStock, &r.OutOfStock)
	if err != nil {
		return nil, err
	}
	r.TotalValueDisplay = validate.FormatBRL(r.TotalValue)

	rows, err := s.store.Query(ctx,
		`SELECT COALESCE(c.nome, 'Sem categoria'), COUNT(p.id),
		        COALESCE(SUM(p.quantidade_estoque), 0),
		        COALESCE(SUM(p.quantidade_estoque * p.preco_venda), 0)
		 FROM produtos p
		 LEFT JOIN categorias c ON p.categoria_id = c.id
		 WHERE p.ativo = 1
		 GROUP BY c.nome
		 ORDER BY SUM(p.quantidade_estoque * p.preco_venda) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cs CategoryStock
		if err := rows.Scan(&cs.Category, &cs.Products, &cs.Units, &cs.Value); err != nil {
			return nil, err
		}
		r.ByCategory = append(r.ByCategory, cs)
	}
	return r, rows.Err()
}

// ReplenishmentSuggestions lists active products below minimum with the
// quantity needed to restore it, worst first.
func (s *StockService) ReplenishmentSuggestions(ctx context.Context) ([]ReplenishmentSuggestion, error) {
	rows, err := s.store.Query(ctx,
		`SELECT id, nome, quantidade_estoque, estoque_minimo,
		        estoque_minimo - quantidade_estoque
		 FROM produtos
		 WHERE ativo = 1 AND quantidade_estoque < estoque_minimo
		 ORDER BY (estoque_minimo - quantidade_estoque) DESC, nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []ReplenishmentSuggestion
	for rows.Next() {
		var rs ReplenishmentSuggestion
		if err := rows.Scan(&rs.ProductID, &rs.Name, &rs.Current, &rs.Minimum, &rs.Suggested); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, rs)
	}
	return suggestions, rows.Err()
}
