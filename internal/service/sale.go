package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/store"
	"github.com/juniorxam/Gestaodevendas/internal/validate"
)

// SaleItemInput is one line of a sale being registered. UnitPrice zero means
// "charge the catalog price"; PromotionID links the discount that produced
// a non-catalog price.
type SaleItemInput struct {
	ProductID   int64   `json:"productId" binding:"required" validate:"required"`
	Quantity    int     `json:"quantity" validate:"min=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"min=0"`
	PromotionID int64   `json:"promotionId" validate:"min=0"`
}

// SaleInput is a sale registration request. CustomerID zero registers an
// anonymous (no-CPF) sale.
type SaleInput struct {
	CustomerID    int64           `json:"customerId" validate:"min=0"`
	Items         []SaleItemInput `json:"items" binding:"required" validate:"required,min=1,dive"`
	PaymentMethod string          `json:"paymentMethod" binding:"required" validate:"required"`
}

// Sale is a registered sale header.
type Sale struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	CustomerID    int64   `json:"customerId,omitempty"`
	CustomerName  string  `json:"customerName,omitempty"`
	CustomerCPF   string  `json:"customerCpf,omitempty"`
	Total         float64 `json:"total"`
	TotalDisplay  string  `json:"totalDisplay"`
	PaymentMethod string  `json:"paymentMethod"`
	RegisteredBy  string  `json:"registeredBy"`
	ItemCount     int     `json:"itemCount"`
}

// SaleItem is one line of a registered sale.
type SaleItem struct {
	ID            int64   `json:"id"`
	ProductID     int64   `json:"productId"`
	ProductName   string  `json:"productName"`
	Barcode       string  `json:"barcode,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	Subtotal      float64 `json:"subtotal"`
	PromotionName string  `json:"promotionName,omitempty"`
}

// SaleDetails is a sale with its lines.
type SaleDetails struct {
	Sale  Sale       `json:"sale"`
	Items []SaleItem `json:"items"`
}

// PaymentSplit is revenue grouped by payment method.
type PaymentSplit struct {
	Method string  `json:"method"`
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
}

// TopProduct is one entry of the best-sellers list.
type TopProduct struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// SaleMetrics aggregates a period for the dashboard.
type SaleMetrics struct {
	TotalSales      int            `json:"totalSales"`
	Revenue         float64        `json:"revenue"`
	RevenueDisplay  string         `json:"revenueDisplay"`
	AverageTicket   float64        `json:"averageTicket"`
	UniqueCustomers int            `json:"uniqueCustomers"`
	PaymentMethods  []PaymentSplit `json:"paymentMethods"`
	TopProducts     []TopProduct   `json:"topProducts"`
}

// SaleFilter narrows period listings.
type SaleFilter struct {
	From       string // inclusive, YYYY-MM-DD
	To         string // inclusive, YYYY-MM-DD
	CustomerID int64
	User       string
	Limit      int
}

// SaleService registers, lists, and voids sales. Writes invalidate the
// report cache so dashboard aggregates pick them up immediately.
type SaleService struct {
	store *store.Store
	audit *auth.AuditLog
	cache *store.QueryCache
}

// NewSaleService creates a sale service sharing the report query cache.
func NewSaleService(s *store.Store, audit *auth.AuditLog, cache *store.QueryCache) *SaleService {
	return &SaleService{store: s, audit: audit, cache: cache}
}

// Register records a sale in one transaction: prices resolve against the
// catalog, stock is verified and decremented per line, and the header total
// is the sum of line subtotals. Any failed check rolls the whole sale back.
func (s *SaleService) Register(ctx context.Context, in SaleInput, user, ip string) (int64, error) {
	if err := validate.ValidateStruct(in); err != nil {
		return 0, fmt.Errorf("invalid sale: %w", err)
	}

	var saleID int64
	var total float64

	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		type line struct {
			productID   int64
			qty         int
			unitPrice   float64
			promotionID any
		}
		lines := make([]line, 0, len(in.Items))
		total = 0

		for _, item := range in.Items {
			qty := item.Quantity
			if qty <= 0 {
				qty = 1
			}

			var name string
			var catalogPrice float64
			var stock int
			err := tx.QueryRowContext(ctx,
				"SELECT nome, preco_venda, quantidade_estoque FROM produtos WHERE id = ? AND ativo = 1",
				item.ProductID).Scan(&name, &catalogPrice, &stock)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("product #%d not found", item.ProductID)
			}
			if err != nil {
				return err
			}

			if stock < qty {
				return fmt.Errorf("insufficient stock for %s (available: %d, requested: %d)", name, stock, qty)
			}

			price := item.UnitPrice
			if price <= 0 {
				price = catalogPrice
			}

			var promotionID any
			if item.PromotionID > 0 {
				promotionID = item.PromotionID
			}

			lines = append(lines, line{item.ProductID, qty, price, promotionID})
			total += price * float64(qty)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO vendas (cliente_id, valor_total, forma_pagamento, usuario_registro)
			 VALUES (?, ?, ?, ?)`,
			nullableID(in.CustomerID), total, in.PaymentMethod, user)
		if err != nil {
			return err
		}
		saleID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		for _, l := range lines {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO itens_venda (venda_id, produto_id, quantidade, preco_unitario, promocao_id)
				 VALUES (?, ?, ?, ?, ?)`,
				saleID, l.productID, l.qty, l.unitPrice, l.promotionID); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE produtos SET quantidade_estoque = quantidade_estoque - ? WHERE id = ?",
				l.qty, l.productID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.cache.Invalidate()
	s.audit.Record(ctx, user, "VENDAS", "Registrou venda",
		fmt.Sprintf("Venda #%d - %s - %d itens", saleID, validate.FormatBRL(total), len(in.Items)), ip)
	return saleID, nil
}

// ListByPeriod returns sales between filter.From and filter.To inclusive,
// optionally narrowed by customer and registering user.
func (s *SaleService) ListByPeriod(ctx context.Context, filter SaleFilter) ([]Sale, error) {
	if filter.From == "" || filter.To == "" {
		return nil, fmt.Errorf("period start and end are required")
	}
	limit := filter.Limit
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}

	query := `
		SELECT v.id, v.data_venda, COALESCE(v.cliente_id, 0), COALESCE(c.nome,''), COALESCE(c.cpf,''),
		       v.valor_total, COALESCE(v.forma_pagamento,''), v.usuario_registro, COUNT(i.id)
		FROM vendas v
		LEFT JOIN clientes c ON v.cliente_id = c.id
		LEFT JOIN itens_venda i ON v.id = i.venda_id
		WHERE date(v.data_venda) BETWEEN ? AND ?`
	args := []any{filter.From, filter.To}

	if filter.CustomerID > 0 {
		query += " AND v.cliente_id = ?"
		args = append(args, filter.CustomerID)
	}
	if filter.User != "" {
		query += " AND v.usuario_registro = ?"
		args = append(args, filter.User)
	}
	query += " GROUP BY v.id ORDER BY v.data_venda DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.Date, &sale.CustomerID, &sale.CustomerName,
			&sale.CustomerCPF, &sale.Total, &sale.PaymentMethod, &sale.RegisteredBy,
			&sale.ItemCount); err != nil {
			return nil, err
		}
		sale.TotalDisplay = validate.FormatBRL(sale.Total)
		if sale.CustomerCPF != "" {
			sale.CustomerCPF = validate.FormatCPF(sale.CustomerCPF)
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// Details returns a sale header with its lines, or nil when not found.
func (s *SaleService) Details(ctx context.Context, saleID int64) (*SaleDetails, error) {
	var d SaleDetails
	err := s.store.QueryRow(ctx,
		`SELECT v.id, v.data_venda, COALESCE(v.cliente_id, 0), COALESCE(c.nome,''), COALESCE(c.cpf,''),
		        v.valor_total, COALESCE(v.forma_pagamento,''), v.usuario_registro
		 FROM vendas v
		 LEFT JOIN clientes c ON v.cliente_id = c.id
		 WHERE v.id = ?`, saleID).
		Scan(&d.Sale.ID, &d.Sale.Date, &d.Sale.CustomerID, &d.Sale.CustomerName,
			&d.Sale.CustomerCPF, &d.Sale.Total, &d.Sale.PaymentMethod, &d.Sale.RegisteredBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.Sale.TotalDisplay = validate.FormatBRL(d.Sale.Total)
	if d.Sale.CustomerCPF != "" {
		d.Sale.CustomerCPF = validate.FormatCPF(d.Sale.CustomerCPF)
	}

	rows, err := s.store.Query(ctx,
		`SELECT i.id, i.produto_id, p.nome, COALESCE(p.codigo_barras,''), i.quantidade,
		        i.preco_unitario, COALESCE(pr.nome,'')
		 FROM itens_venda i
		 JOIN produtos p ON i.produto_id = p.id
		 LEFT JOIN promocoes pr ON i.promocao_id = pr.id
		 WHERE i.venda_id = ?
		 ORDER BY i.id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Barcode,
			&item.Quantity, &item.UnitPrice, &item.PromotionName); err != nil {
			return nil, err
		}
		item.Subtotal = item.UnitPrice * float64(item.Quantity)
		d.Items = append(d.Items, item)
		d.Sale.ItemCount++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// CustomerHistory lists a customer's purchases, newest first.
func (s *SaleService) CustomerHistory(ctx context.Context, customerID int64, limit int) ([]Sale, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	rows, err := s.store.Query(ctx,
		`SELECT v.id, v.data_venda, v.valor_total, COALESCE(v.forma_pagamento,''),
		        COUNT(i.id), v.usuario_registro
		 FROM vendas v
		 JOIN itens_venda i ON v.id = i.venda_id
		 WHERE v.cliente_id = ?
		 GROUP BY v.id
		 ORDER BY v.data_venda DESC
		 LIMIT ?`, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.Date, &sale.Total, &sale.PaymentMethod,
			&sale.ItemCount, &sale.RegisteredBy); err != nil {
			return nil, err
		}
		sale.CustomerID = customerID
		sale.TotalDisplay = validate.FormatBRL(sale.Total)
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// Void cancels a sale: every line's quantity goes back to stock, then the
// lines and header are deleted, all in one transaction.
func (s *SaleService) Void(ctx context.Context, saleID int64, user, reason, ip string) error {
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		var exists int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM vendas WHERE id = ?", saleID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sale #%d not found", saleID)
		}
		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx,
			"SELECT produto_id, quantidade FROM itens_venda WHERE venda_id = ?", saleID)
		if err != nil {
			return err
		}

		type restock struct {
			productID int64
			qty       int
		}
		var restocks []restock
		for rows.Next() {
			var r restock
			if err := rows.Scan(&r.productID, &r.qty); err != nil {
				rows.Close()
				return err
			}
			restocks = append(restocks, r)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		if len(restocks) == 0 {
			return fmt.Errorf("sale #%d has no items", saleID)
		}

		for _, r := range restocks {
			if _, err := tx.ExecContext(ctx,
				"UPDATE produtos SET quantidade_estoque = quantidade_estoque + ? WHERE id = ?",
				r.qty, r.productID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM itens_venda WHERE venda_id = ?", saleID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM vendas WHERE id = ?", saleID)
		return err
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate()
	details := fmt.Sprintf("Venda #%d estornada", saleID)
	if reason != "" {
		details += " - Motivo: " + reason
	}
	s.audit.Record(ctx, user, "VENDAS", "Estornou venda", details, ip)
	return nil
}

// Metrics aggregates a period: totals, average ticket, unique customers,
// payment split, top products.
func (s *SaleService) Metrics(ctx context.Context, from, to string) (*SaleMetrics, error) {
	if from == "" || to == "" {
		return nil, fmt.Errorf("period start and end are required")
	}

	m := &SaleMetrics{}
	err := s.store.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(valor_total), 0), COALESCE(AVG(valor_total), 0),
		        COUNT(DISTINCT cliente_id)
		 FROM vendas
		 WHERE date(data_venda) BETWEEN ? AND ?`, from, to).
		Scan(&m.TotalSales, &m.Revenue, &m.AverageTicket, &m.UniqueCustomers)
	if err != nil {
		return nil, err
	}
	m.RevenueDisplay = validate.FormatBRL(m.Revenue)

	rows, err := s.store.Query(ctx,
		`SELECT COALESCE(forma_pagamento,''), COUNT(*), COALESCE(SUM(valor_total), 0)
		 FROM vendas
		 WHERE date(data_venda) BETWEEN ? AND ?
		 GROUP BY forma_pagamento
		 ORDER BY SUM(valor_total) DESC`, from, to)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p PaymentSplit
		if err := rows.Scan(&p.Method, &p.Count, &p.Total); err != nil {
			rows.Close()
			return nil, err
		}
		m.PaymentMethods = append(m.PaymentMethods, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.store.Query(ctx,
		`SELECT p.id, p.nome, SUM(i.quantidade), SUM(i.quantidade * i.preco_unitario)
		 FROM itens_venda i
		 JOIN vendas v ON i.venda_id = v.id
		 JOIN produtos p ON i.produto_id = p.id
		 WHERE date(v.data_venda) BETWEEN ? AND ?
		 GROUP BY p.id
		 ORDER BY SUM(i.quantidade) DESC
		 LIMIT 10`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.Quantity, &tp.Total); err != nil {
			return nil, err
		}
		m.TopProducts = append(m.TopProducts, tp)
	}
	return m, rows.Err()
}

// Today is a convenience for the dashboard's same-day metrics card.
func (s *SaleService) Today(ctx context.Context) (*SaleMetrics, error) {
	today := time.Now().Format("2006-01-02")
	return s.Metrics(ctx, today, today)
}

// nullableID maps zero IDs to NULL for optional foreign keys.
func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}
