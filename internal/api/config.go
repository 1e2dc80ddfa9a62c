package api

import (
	"fmt"
	"time"

	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/service"
	"github.com/juniorxam/Gestaodevendas/internal/store"
	"github.com/juniorxam/Gestaodevendas/internal/validate"
)

// DefaultSessionTTL is how long a login token stays valid without renewal.
const DefaultSessionTTL = 8 * time.Hour

// Config holds everything the API server needs to serve requests.
type Config struct {
	BindAddr string
	BindPort int

	Store      *store.Store
	Auth       *auth.Service
	Audit      *auth.AuditLog
	Customers  *service.CustomerService
	Categories *service.CategoryService
	Products   *service.ProductService
	Sales      *service.SaleService
	Stock      *service.StockService
	Promotions *service.PromotionService
	Reports    *service.ReportService
	Backups    *store.BackupManager

	SessionTTL time.Duration
}

// Validate checks that the config can produce a working server.
func (c *Config) Validate() error {
	if err := validate.ValidateRequiredString(c.BindAddr, "bind address"); err != nil {
		return err
	}
	if err := validate.ValidatePortRange(c.BindPort); err != nil {
		return err
	}
	if c.Store == nil {
		return fmt.Errorf("store is required")
	}
	if c.Auth == nil {
		return fmt.Errorf("auth service is required")
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	return nil
}
