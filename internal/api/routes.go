package api

import (
	"github.com/gin-gonic/gin"
	"github.com/juniorxam/Gestaodevendas/internal/api/handlers"
	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/version"
)

// Configures all API routes. Read endpoints need VISUALIZADOR, write
// endpoints OPERADOR, and user/backup/query administration ADMIN.
func (s *Server) setupRoutes(router *gin.Engine) {
	cfg := s.config

	v1 := router.Group("/api/v1")

	// Unauthenticated: health for the launcher's readiness probe, login.
	v1.GET("/health", handlers.HandleHealth(version.DaemonVersion, s.startTime))
	v1.POST("/auth/login", s.handleLogin)

	viewer := v1.Group("", s.requireLevel(auth.LevelViewer))
	operator := v1.Group("", s.requireLevel(auth.LevelOperator))
	admin := v1.Group("", s.requireLevel(auth.LevelAdmin))

	// Session management
	viewer.POST("/auth/logout", s.handleLogout)
	viewer.POST("/auth/password", s.handleChangePassword)
	viewer.GET("/auth/whoami", s.handleWhoami)

	// Customers
	viewer.GET("/customers", handlers.HandleCustomerList(cfg.Customers))
	viewer.GET("/customers/stats", handlers.HandleCustomerStats(cfg.Customers))
	viewer.GET("/customers/:id", handlers.HandleCustomerGet(cfg.Customers))
	viewer.GET("/customers/:id/history", handlers.HandleCustomerHistory(cfg.Sales))
	operator.POST("/customers", handlers.HandleCustomerCreate(cfg.Customers))
	operator.POST("/customers/import", handlers.HandleCustomerImport(cfg.Customers))
	operator.PUT("/customers/:id", handlers.HandleCustomerUpdate(cfg.Customers))
	admin.DELETE("/customers/:id", handlers.HandleCustomerDelete(cfg.Customers))

	// Products and categories
	viewer.GET("/products", handlers.HandleProductList(cfg.Products))
	viewer.GET("/products/stats", handlers.HandleProductStats(cfg.Products))
	viewer.GET("/products/:id", handlers.HandleProductGet(cfg.Products))
	viewer.GET("/products/:id/stock", handlers.HandleProductStockCheck(cfg.Products))
	viewer.GET("/products/barcode/:barcode", handlers.HandleProductByBarcode(cfg.Products))
	operator.POST("/products", handlers.HandleProductCreate(cfg.Products))
	operator.PUT("/products/:id", handlers.HandleProductUpdate(cfg.Products))
	operator.PUT("/products/:id/active", handlers.HandleProductSetActive(cfg.Products))

	viewer.GET("/categories", handlers.HandleCategoryList(cfg.Categories))
	operator.POST("/categories", handlers.HandleCategoryCreate(cfg.Categories))
	operator.PUT("/categories/:id", handlers.HandleCategoryUpdate(cfg.Categories))
	admin.DELETE("/categories/:id", handlers.HandleCategoryDeactivate(cfg.Categories))

	// Sales
	viewer.GET("/sales", handlers.HandleSaleList(cfg.Sales))
	viewer.GET("/sales/metrics", handlers.HandleSaleMetrics(cfg.Sales))
	viewer.GET("/sales/:id", handlers.HandleSaleGet(cfg.Sales))
	operator.POST("/sales", handlers.HandleSaleCreate(cfg.Sales))
	admin.DELETE("/sales/:id", handlers.HandleSaleVoid(cfg.Sales))

	// Stock
	viewer.GET("/stock/report", handlers.HandleStockReport(cfg.Stock))
	viewer.GET("/stock/low", handlers.HandleStockLow(cfg.Products))
	viewer.GET("/stock/replenishment", handlers.HandleStockReplenishment(cfg.Stock))
	operator.POST("/stock/movements", handlers.HandleStockMovement(cfg.Stock))

	// Promotions
	viewer.GET("/promotions", handlers.HandlePromotionList(cfg.Promotions))
	viewer.GET("/promotions/:id", handlers.HandlePromotionGet(cfg.Promotions))
	operator.POST("/promotions", handlers.HandlePromotionCreate(cfg.Promotions))
	operator.PUT("/promotions/:id", handlers.HandlePromotionUpdate(cfg.Promotions))
	operator.DELETE("/promotions/:id", handlers.HandlePromotionCancel(cfg.Promotions))

	// Reports
	viewer.GET("/reports/general", handlers.HandleReportGeneral(cfg.Reports))
	viewer.GET("/reports/daily", handlers.HandleReportDailySeries(cfg.Reports))
	viewer.GET("/reports/period", handlers.HandleReportPeriod(cfg.Reports))
	viewer.GET("/reports/top-customers", handlers.HandleReportTopCustomers(cfg.Reports))
	viewer.GET("/reports/sellers", handlers.HandleReportSellers(cfg.Reports))
	viewer.GET("/reports/stock", handlers.HandleReportStock(cfg.Reports))

	// Administration
	admin.GET("/admin/users", handlers.HandleUserList(cfg.Auth))
	admin.POST("/admin/users", handlers.HandleUserCreate(cfg.Auth, cfg.Audit))
	admin.PUT("/admin/users/:login/active", handlers.HandleUserSetActive(cfg.Auth, cfg.Audit, s.sessions.RevokeUser))
	admin.PUT("/admin/users/:login/password", handlers.HandleUserResetPassword(cfg.Auth, cfg.Audit, s.sessions.RevokeUser))
	admin.GET("/admin/logs", handlers.HandleAuditList(cfg.Audit))
	admin.POST("/admin/query", handlers.HandleAdminQuery(cfg.Store, cfg.Audit))
	admin.GET("/admin/stats", handlers.HandleAdminStats(cfg.Reports.CacheStats, s.sessions.Count))

	if cfg.Backups != nil {
		admin.POST("/admin/backups", handlers.HandleBackupCreate(cfg.Backups, cfg.Audit))
		admin.GET("/admin/backups", handlers.HandleBackupList(cfg.Backups))
		admin.POST("/admin/backups/restore", handlers.HandleBackupRestore(cfg.Backups, cfg.Audit))
	}
}
