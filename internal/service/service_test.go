package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/store"
)

type testEnv struct {
	store      *store.Store
	customers  *CustomerService
	categories *CategoryService
	products   *ProductService
	sales      *SaleService
	stock      *StockService
	promotions *PromotionService
	reports    *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "service_test.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}

	audit := auth.NewAuditLog(s)
	categories := NewCategoryService(s, audit)
	reportCache := store.NewQueryCache(store.DefaultCacheTTL)
	sales := NewSaleService(s, audit, reportCache)
	stock := NewStockService(s, audit, reportCache)

	return &testEnv{
		store:      s,
		customers:  NewCustomerService(s, audit),
		categories: categories,
		products:   NewProductService(s, audit, categories),
		sales:      sales,
		stock:      stock,
		promotions: NewPromotionService(s, audit),
		reports:    NewReportService(s, sales, stock, reportCache),
	}
}

func (e *testEnv) mustRegisterProduct(t *testing.T, name string, price float64, stock int) int64 {
	t.Helper()
	id, err := e.products.Register(context.Background(), ProductInput{
		Name:      name,
		SalePrice: price,
		StockQty:  stock,
		Category:  "Eletrônicos",
	}, "tester", "127.0.0.1")
	if err != nil {
		t.Fatalf("products.Register(%q) error = %v", name, err)
	}
	return id
}

func TestCustomerRegisterAndLookup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.customers.Register(ctx, CustomerInput{
		Name:  "Maria Silva",
		CPF:   "529.982.247-25",
		Email: "maria@example.com",
	}, "tester", "127.0.0.1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := env.customers.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() = nil, want customer")
	}
	if got.Name != "Maria Silva" {
		t.Errorf("Name = %q, want %q", got.Name, "Maria Silva")
	}

	// stored CPF is digits only, lookup accepts the formatted form
	byCPF, err := env.customers.GetByCPF(ctx, "529.982.247-25")
	if err != nil {
		t.Fatalf("GetByCPF() error = %v", err)
	}
	if byCPF == nil || byCPF.ID != id {
		t.Errorf("GetByCPF() = %+v, want id %d", byCPF, id)
	}
}

func TestCustomerDuplicateCPFRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := CustomerInput{Name: "Maria", CPF: "52998224725"}
	if _, err := env.customers.Register(ctx, first, "tester", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	second := CustomerInput{Name: "Outra Maria", CPF: "529.982.247-25"}
	if _, err := env.customers.Register(ctx, second, "tester", ""); err == nil {
		t.Error("Register() with duplicate CPF succeeded, want error")
	}
}

func TestCustomerInvalidCPFRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.customers.Register(context.Background(),
		CustomerInput{Name: "João", CPF: "111.111.111-11"}, "tester", "")
	if err == nil {
		t.Error("Register() with invalid CPF succeeded, want error")
	}
}

func TestProductRegisterAndSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.mustRegisterProduct(t, "notebook gamer", 4500, 3)

	got, err := env.products.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() = nil, want product")
	}
	if got.Name != "NOTEBOOK GAMER" {
		t.Errorf("Name = %q, want uppercase %q", got.Name, "NOTEBOOK GAMER")
	}
	if got.Category != "Eletrônicos" {
		t.Errorf("Category = %q, want %q", got.Category, "Eletrônicos")
	}

	results, err := env.products.Search(ctx, "notebook", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Search() returned %d products, want 1", len(results))
	}
}

func TestProductStockQtyNotEditableViaUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.mustRegisterProduct(t, "Teclado", 120, 10)

	err := env.products.Update(ctx, id, ProductInput{
		Name:      "Teclado Mecânico",
		SalePrice: 150,
		StockQty:  999,
	}, "tester", "")
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := env.products.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.StockQty != 10 {
		t.Errorf("StockQty after Update() = %d, want 10", got.StockQty)
	}
	if got.SalePrice != 150 {
		t.Errorf("SalePrice after Update() = %v, want 150", got.SalePrice)
	}
}

func TestSaleRegisterDecrementsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.mustRegisterProduct(t, "Mouse", 80, 5)

	saleID, err := env.sales.Register(ctx, SaleInput{
		Items:         []SaleItemInput{{ProductID: id, Quantity: 2}},
		PaymentMethod: "PIX",
	}, "tester", "127.0.0.1")
	if err != nil {
		t.Fatalf("sales.Register() error = %v", err)
	}
	if saleID == 0 {
		t.Fatal("sales.Register() returned id 0")
	}

	got, err := env.products.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.StockQty != 3 {
		t.Errorf("StockQty after sale = %d, want 3", got.StockQty)
	}

	details, err := env.sales.Details(ctx, saleID)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if details == nil {
		t.Fatal("Details() = nil, want sale")
	}
	if details.Sale.Total != 160 {
		t.Errorf("Total = %v, want 160", details.Sale.Total)
	}
	if len(details.Items) != 1 {
		t.Errorf("Details() returned %d items, want 1", len(details.Items))
	}
}

func TestSaleRegisterInsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	okID := env.mustRegisterProduct(t, "Cabo HDMI", 30, 10)
	lowID := env.mustRegisterProduct(t, "Monitor", 900, 1)

	_, err := env.sales.Register(ctx, SaleInput{
		Items: []SaleItemInput{
			{ProductID: okID, Quantity: 2},
			{ProductID: lowID, Quantity: 5},
		},
		PaymentMethod: "DINHEIRO",
	}, "tester", "")
	if err == nil {
		t.Fatal("Register() with insufficient stock succeeded, want error")
	}

	// the first line must not have been committed
	got, err := env.products.GetByID(ctx, okID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.StockQty != 10 {
		t.Errorf("StockQty after failed sale = %d, want 10", got.StockQty)
	}
}

func TestSaleVoidRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.mustRegisterProduct(t, "Fone", 200, 4)

	saleID, err := env.sales.Register(ctx, SaleInput{
		Items:         []SaleItemInput{{ProductID: id, Quantity: 3}},
		PaymentMethod: "CARTAO_CREDITO",
	}, "tester", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := env.sales.Void(ctx, saleID, "tester", "cliente desistiu", ""); err != nil {
		t.Fatalf("Void() error = %v", err)
	}

	got, err := env.products.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.StockQty != 4 {
		t.Errorf("StockQty after void = %d, want 4", got.StockQty)
	}

	details, err := env.sales.Details(ctx, saleID)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if details != nil {
		t.Error("Details() after Void() returned sale, want nil")
	}
}

func TestSaleRegisterRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.mustRegisterProduct(t, "Cabo HDMI", 35, 10)

	tests := []struct {
		name string
		in   SaleInput
	}{
		{"no items", SaleInput{PaymentMethod: "PIX"}},
		{"empty items", SaleInput{Items: []SaleItemInput{}, PaymentMethod: "PIX"}},
		{"missing payment method", SaleInput{
			Items: []SaleItemInput{{ProductID: id, Quantity: 1}},
		}},
		{"negative quantity", SaleInput{
			Items:         []SaleItemInput{{ProductID: id, Quantity: -2}},
			PaymentMethod: "PIX",
		}},
		{"negative unit price", SaleInput{
			Items:         []SaleItemInput{{ProductID: id, Quantity: 1, UnitPrice: -10}},
			PaymentMethod: "PIX",
		}},
	}

	for _, tt := range tests {
		if _, err := env.sales.Register(ctx, tt.in, "tester", ""); err == nil {
			t.Errorf("Register() with %s = nil error, want error", tt.name)
		}
	}

	// Valid input still goes through.
	if _, err := env.sales.Register(ctx, SaleInput{
		Items:         []SaleItemInput{{ProductID: id, Quantity: 1}},
		PaymentMethod: "PIX",
	}, "tester", ""); err != nil {
		t.Errorf("Register() with valid input error = %v", err)
	}
}

func TestReportCacheInvalidatedByWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.mustRegisterProduct(t, "Carregador", 80, 10)

	register := func() {
		t.Helper()
		if _, err := env.sales.Register(ctx, SaleInput{
			Items:         []SaleItemInput{{ProductID: id, Quantity: 1}},
			PaymentMethod: "PIX",
		}, "tester", ""); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}

	register()
	gm, err := env.reports.GeneralMetrics(ctx)
	if err != nil {
		t.Fatalf("GeneralMetrics() error = %v", err)
	}
	if gm.SalesThisMonth != 1 {
		t.Fatalf("SalesThisMonth = %d, want 1", gm.SalesThisMonth)
	}

	// A new sale must show up immediately, not after the cache TTL.
	register()
	gm, err = env.reports.GeneralMetrics(ctx)
	if err != nil {
		t.Fatalf("GeneralMetrics() error = %v", err)
	}
	if gm.SalesThisMonth != 2 {
		t.Errorf("SalesThisMonth after second sale = %d, want 2", gm.SalesThisMonth)
	}

	// Stock movements invalidate too.
	before, err := env.reports.StockReport(ctx)
	if err != nil {
		t.Fatalf("StockReport() error = %v", err)
	}
	if _, err := env.stock.RegisterEntry(ctx, id, 5, "tester", "reposição", ""); err != nil {
		t.Fatalf("RegisterEntry() error = %v", err)
	}
	after, err := env.reports.StockReport(ctx)
	if err != nil {
		t.Fatalf("StockReport() error = %v", err)
	}
	if after.TotalUnits != before.TotalUnits+5 {
		t.Errorf("TotalUnits after entry = %d, want %d", after.TotalUnits, before.TotalUnits+5)
	}
}

func TestStockMovements(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.mustRegisterProduct(t, "Pilha AA", 10, 20)

	mv, err := env.stock.RegisterEntry(ctx, id, 30, "tester", "compra fornecedor", "")
	if err != nil {
		t.Fatalf("RegisterEntry() error = %v", err)
	}
	if mv.After != 50 {
		t.Errorf("After entry = %d, want 50", mv.After)
	}

	mv, err = env.stock.RegisterExit(ctx, id, 45, "tester", "", "")
	if err != nil {
		t.Fatalf("RegisterExit() error = %v", err)
	}
	if mv.After != 5 {
		t.Errorf("After exit = %d, want 5", mv.After)
	}

	if _, err := env.stock.RegisterExit(ctx, id, 6, "tester", "", ""); err == nil {
		t.Error("RegisterExit() below zero succeeded, want error")
	}

	mv, err = env.stock.Adjust(ctx, id, 0, "tester", "inventário", "")
	if err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}
	if mv.After != 0 {
		t.Errorf("After adjust = %d, want 0", mv.After)
	}
}

func TestReplenishmentSuggestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// default minimum stock is 5
	id := env.mustRegisterProduct(t, "Carregador", 60, 2)
	env.mustRegisterProduct(t, "Suporte", 40, 50)

	suggestions, err := env.stock.ReplenishmentSuggestions(ctx)
	if err != nil {
		t.Fatalf("ReplenishmentSuggestions() error = %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	if suggestions[0].ProductID != id || suggestions[0].Suggested != 3 {
		t.Errorf("suggestion = %+v, want product %d suggested 3", suggestions[0], id)
	}
}

func TestPromotionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.promotions.Create(ctx, PromotionInput{
		Name:      "Semana do Cliente",
		Type:      PromoPercentDiscount,
		Discount:  10,
		StartDate: "2026-08-01",
		EndDate:   "2026-12-31",
		Status:    PromoActive,
	}, "tester", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	active, err := env.promotions.List(ctx, true)
	if err != nil {
		t.Fatalf("List(active) error = %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("List(active) returned %d promotions, want 1", len(active))
	}

	if got := active[0].ApplyDiscount(100); got != 90 {
		t.Errorf("ApplyDiscount(100) = %v, want 90", got)
	}

	if err := env.promotions.Cancel(ctx, id, "tester", ""); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	got, err := env.promotions.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != PromoCancelled {
		t.Errorf("Status after Cancel() = %q, want %q", got.Status, PromoCancelled)
	}

	if err := env.promotions.Cancel(ctx, id, "tester", ""); err == nil {
		t.Error("Cancel() on cancelled promotion succeeded, want error")
	}
}

func TestPromotionValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   PromotionInput
	}{
		{"bad type", PromotionInput{Name: "X", Type: "BRINDE", Discount: 5, StartDate: "2026-01-01", EndDate: "2026-02-01"}},
		{"zero discount", PromotionInput{Name: "X", Type: PromoFixedDiscount, StartDate: "2026-01-01", EndDate: "2026-02-01"}},
		{"inverted dates", PromotionInput{Name: "X", Type: PromoFixedDiscount, Discount: 5, StartDate: "2026-02-01", EndDate: "2026-01-01"}},
		{"percent over 100", PromotionInput{Name: "X", Type: PromoPercentDiscount, Discount: 150, StartDate: "2026-01-01", EndDate: "2026-02-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.promotions.Create(ctx, tt.in, "tester", ""); err == nil {
				t.Errorf("Create(%s) succeeded, want error", tt.name)
			}
		})
	}
}

func TestSaleMetricsAndReports(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.mustRegisterProduct(t, "Lâmpada LED", 25, 100)

	for i := 0; i < 3; i++ {
		if _, err := env.sales.Register(ctx, SaleInput{
			Items:         []SaleItemInput{{ProductID: id, Quantity: 2}},
			PaymentMethod: "PIX",
		}, "tester", ""); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}

	m, err := env.sales.Today(ctx)
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if m.TotalSales != 3 {
		t.Errorf("TotalSales = %d, want 3", m.TotalSales)
	}
	if m.Revenue != 150 {
		t.Errorf("Revenue = %v, want 150", m.Revenue)
	}
	if len(m.TopProducts) != 1 || m.TopProducts[0].Quantity != 6 {
		t.Errorf("TopProducts = %+v, want one entry with quantity 6", m.TopProducts)
	}

	gm, err := env.reports.GeneralMetrics(ctx)
	if err != nil {
		t.Fatalf("GeneralMetrics() error = %v", err)
	}
	if gm.SalesThisMonth != 3 {
		t.Errorf("SalesThisMonth = %d, want 3", gm.SalesThisMonth)
	}

	// second call must come from the cache
	if _, err := env.reports.GeneralMetrics(ctx); err != nil {
		t.Fatalf("GeneralMetrics() (cached) error = %v", err)
	}
	if stats := env.reports.CacheStats(); stats.Hits == 0 {
		t.Error("CacheStats().Hits = 0, want at least one cache hit")
	}

	sr, err := env.reports.StockReport(ctx)
	if err != nil {
		t.Fatalf("StockReport() error = %v", err)
	}
	if sr.TotalUnits != 94 {
		t.Errorf("TotalUnits = %d, want 94", sr.TotalUnits)
	}
}

func TestCategoryDeactivateBlockedByProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustRegisterProduct(t, "Ventilador", 150, 8)

	cats, err := env.categories.List(ctx, false)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var catID int64
	for _, c := range cats {
		if c.Name == "Eletrônicos" {
			catID = c.ID
		}
	}
	if catID == 0 {
		t.Fatal("category Eletrônicos not found")
	}

	if err := env.categories.Deactivate(ctx, catID, "tester", ""); err == nil {
		t.Error("Deactivate() with active products succeeded, want error")
	}
}
