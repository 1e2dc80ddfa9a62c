package service

import (
	"context"
	"fmt"
	"time"

	"github.com/juniorxam/Gestaodevendas/internal/store"
	"github.com/juniorxam/Gestaodevendas/internal/validate"
)

// GeneralMetrics is the dashboard's headline card.
type GeneralMetrics struct {
	ActiveCustomers  int     `json:"activeCustomers"`
	ActiveProducts   int     `json:"activeProducts"`
	SalesThisMonth   int     `json:"salesThisMonth"`
	RevenueThisMonth float64 `json:"revenueThisMonth"`
	RevenueDisplay   string  `json:"revenueDisplay"`
	LowStockProducts int     `json:"lowStockProducts"`
	ActivePromotions int     `json:"activePromotions"`
	AverageTicket    float64 `json:"averageTicket"`
	GeneratedAt      string  `json:"generatedAt"`
}

// DailySales is one point of the sales-over-time series.
type DailySales struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// TopCustomer is one entry of the best-customers ranking.
type TopCustomer struct {
	CustomerID int64   `json:"customerId"`
	Name       string  `json:"name"`
	Purchases  int     `json:"purchases"`
	Total      float64 `json:"total"`
}

// SellerProductivity is revenue grouped by registering user.
type SellerProductivity struct {
	User    string  `json:"user"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
	Average float64 `json:"average"`
}

// PeriodReport is the full period breakdown.
type PeriodReport struct {
	From         string               `json:"from"`
	To           string               `json:"to"`
	Metrics      *SaleMetrics         `json:"metrics"`
	DailySeries  []DailySales         `json:"dailySeries"`
	TopCustomers []TopCustomer        `json:"topCustomers"`
	Sellers      []SellerProductivity `json:"sellers"`
}

// ReportService builds aggregate views. Results are cached in a query cache
// shared with the sale and stock services, whose writes invalidate it; other
// writes age out with the cache TTL.
type ReportService struct {
	store *store.Store
	sales *SaleService
	stock *StockService
	cache *store.QueryCache
}

// NewReportService creates a report service over the shared query cache.
func NewReportService(s *store.Store, sales *SaleService, stock *StockService, cache *store.QueryCache) *ReportService {
	return &ReportService{
		store: s,
		sales: sales,
		stock: stock,
		cache: cache,
	}
}

// InvalidateCache drops all cached report results.
func (r *ReportService) InvalidateCache() {
	r.cache.Invalidate()
}

// CacheStats exposes the report cache's hit statistics.
func (r *ReportService) CacheStats() store.CacheStats {
	return r.cache.Stats()
}

// GeneralMetrics builds the dashboard headline numbers for the current month.
func (r *ReportService) GeneralMetrics(ctx context.Context) (*GeneralMetrics, error) {
	key := store.Key("general_metrics", time.Now().Format("2006-01-02"))
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*GeneralMetrics), nil
	}

	m := &GeneralMetrics{GeneratedAt: time.Now().Format(time.RFC3339)}

	if err := r.store.QueryRow(ctx,
		"SELECT COUNT(*) FROM clientes WHERE ativo = 1").Scan(&m.ActiveCustomers); err != nil {
		return nil, err
	}
	if err := r.store.QueryRow(ctx,
		"SELECT COUNT(*) FROM produtos WHERE ativo = 1").Scan(&m.ActiveProducts); err != nil {
		return nil, err
	}
	if err := r.store.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(valor_total), 0), COALESCE(AVG(valor_total), 0)
		 FROM vendas
		 WHERE strftime('%Y-%m', data_venda) = strftime('%Y-%m', 'now')`).
		Scan(&m.SalesThisMonth, &m.RevenueThisMonth, &m.AverageTicket); err != nil {
		return nil, err
	}
	if err := r.store.QueryRow(ctx,
		`SELECT COUNT(*) FROM produtos
		 WHERE ativo = 1 AND quantidade_estoque <= estoque_minimo`).Scan(&m.LowStockProducts); err != nil {
		return nil, err
	}
	if err := r.store.QueryRow(ctx,
		`SELECT COUNT(*) FROM promocoes
		 WHERE status = 'ATIVA' AND date('now') BETWEEN data_inicio AND data_fim`).
		Scan(&m.ActivePromotions); err != nil {
		return nil, err
	}
	m.RevenueDisplay = validate.FormatBRL(m.RevenueThisMonth)

	r.cache.Set(key, m)
	return m, nil
}

// DailySeries returns per-day sale counts and revenue for the last N days,
// oldest first. Days without sales are absent from the result.
func (r *ReportService) DailySeries(ctx context.Context, days int) ([]DailySales, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	key := store.Key("daily_series", days, time.Now().Format("2006-01-02"))
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]DailySales), nil
	}

	rows, err := r.store.Query(ctx,
		`SELECT date(data_venda), COUNT(*), COALESCE(SUM(valor_total), 0)
		 FROM vendas
		 WHERE data_venda >= datetime('now', ?)
		 GROUP BY date(data_venda)
		 ORDER BY date(data_venda)`, fmt.Sprintf("-%d days", days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []DailySales
	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Date, &d.Count, &d.Revenue); err != nil {
			return nil, err
		}
		series = append(series, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.cache.Set(key, series)
	return series, nil
}

// TopCustomers ranks customers by total spent in a period.
func (r *ReportService) TopCustomers(ctx context.Context, from, to string, limit int) ([]TopCustomer, error) {
	if from == "" || to == "" {
		return nil, fmt.Errorf("period start and end are required")
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := r.store.Query(ctx,
		`SELECT c.id, c.nome, COUNT(v.id), COALESCE(SUM(v.valor_total), 0)
		 FROM vendas v
		 JOIN clientes c ON v.cliente_id = c.id
		 WHERE date(v.data_venda) BETWEEN ? AND ?
		 GROUP BY c.id
		 ORDER BY SUM(v.valor_total) DESC
		 LIMIT ?`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []TopCustomer
	for rows.Next() {
		var tc TopCustomer
		if err := rows.Scan(&tc.CustomerID, &tc.Name, &tc.Purchases, &tc.Total); err != nil {
			return nil, err
		}
		customers = append(customers, tc)
	}
	return customers, rows.Err()
}

// SellerProductivity ranks registering users by revenue in a period.
func (r *ReportService) SellerProductivity(ctx context.Context, from, to string) ([]SellerProductivity, error) {
	if from == "" || to == "" {
		return nil, fmt.Errorf("period start and end are required")
	}

	rows, err := r.store.Query(ctx,
		`SELECT usuario_registro, COUNT(*), COALESCE(SUM(valor_total), 0), COALESCE(AVG(valor_total), 0)
		 FROM vendas
		 WHERE date(data_venda) BETWEEN ? AND ?
		 GROUP BY usuario_registro
		 ORDER BY SUM(valor_total) DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sellers []SellerProductivity
	for rows.Next() {
		var sp SellerProductivity
		if err := rows.Scan(&sp.User, &sp.Sales, &sp.Revenue, &sp.Average); err != nil {
			return nil, err
		}
		sellers = append(sellers, sp)
	}
	return sellers, rows.Err()
}

// PeriodReport assembles metrics, daily series, customer ranking, and seller
// productivity for a period in one call.
func (r *ReportService) PeriodReport(ctx context.Context, from, to string) (*PeriodReport, error) {
	key := store.Key("period_report", from, to)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*PeriodReport), nil
	}

	metrics, err := r.sales.Metrics(ctx, from, to)
	if err != nil {
		return nil, err
	}

	series, err := r.dailySeriesBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	customers, err := r.TopCustomers(ctx, from, to, 10)
	if err != nil {
		return nil, err
	}

	sellers, err := r.SellerProductivity(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &PeriodReport{
		From:         from,
		To:           to,
		Metrics:      metrics,
		DailySeries:  series,
		TopCustomers: customers,
		Sellers:      sellers,
	}
	r.cache.Set(key, report)
	return report, nil
}

func (r *ReportService) dailySeriesBetween(ctx context.Context, from, to string) ([]DailySales, error) {
	rows, err := r.store.Query(ctx,
		`SELECT date(data_venda), COUNT(*), COALESCE(SUM(valor_total), 0)
		 FROM vendas
		 WHERE date(data_venda) BETWEEN ? AND ?
		 GROUP BY date(data_venda)
		 ORDER BY date(data_venda)`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []DailySales
	for rows.Next() {
		var d DailySales
		if err := rows.Scan(&d.Date, &d.Count, &d.Revenue); err != nil {
			return nil, err
		}
		series = append(series, d)
	}
	return series, rows.Err()
}

// StockReport proxies the stock service's inventory summary so report
// consumers have a single entry point.
func (r *ReportService) StockReport(ctx context.Context) (*StockReport, error) {
	key := store.Key("stock_report")
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*StockReport), nil
	}
	report, err := r.stock.Report(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, report)
	return report, nil
}
