package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/store"
)

// Promotion types. LEVE_MAIS is "take N pay N-1" style and does not change
// the unit price directly.
const (
	PromoPercentDiscount = "DESCONTO_PERCENTUAL"
	PromoFixedDiscount   = "DESCONTO_FIXO"
	PromoTakeMore        = "LEVE_MAIS"
)

// Promotion statuses.
const (
	PromoPlanned   = "PLANEJADA"
	PromoActive    = "ATIVA"
	PromoFinished  = "CONCLUÍDA"
	PromoCancelled = "CANCELADA"
)

// Promotion is a time-bounded discount campaign.
type Promotion struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Type        string  `json:"type"`
	Discount    float64 `json:"discount"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	Status      string  `json:"status"`
	CreatedBy   string  `json:"createdBy,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// PromotionInput is a create or update request.
type PromotionInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Type        string  `json:"type" binding:"required"`
	Discount    float64 `json:"discount"`
	StartDate   string  `json:"startDate" binding:"required"`
	EndDate     string  `json:"endDate" binding:"required"`
	Status      string  `json:"status"`
}

// PromotionService manages discount campaigns.
type PromotionService struct {
	store *store.Store
	audit *auth.AuditLog
}

// NewPromotionService creates a promotion service.
func NewPromotionService(s *store.Store, audit *auth.AuditLog) *PromotionService {
	return &PromotionService{store: s, audit: audit}
}

func validPromotionType(t string) bool {
	switch t {
	case PromoPercentDiscount, PromoFixedDiscount, PromoTakeMore:
		return true
	}
	return false
}

func validPromotionStatus(s string) bool {
	switch s {
	case PromoPlanned, PromoActive, PromoFinished, PromoCancelled:
		return true
	}
	return false
}

func normalizePromotion(in *PromotionInput) error {
	if in.Name == "" {
		return fmt.Errorf("promotion name is required")
	}
	if !validPromotionType(in.Type) {
		return fmt.Errorf("invalid promotion type: %s", in.Type)
	}
	if in.Type != PromoTakeMore && in.Discount <= 0 {
		return fmt.Errorf("discount must be positive")
	}
	if in.Type == PromoPercentDiscount && in.Discount >= 100 {
		return fmt.Errorf("percentage discount must be below 100")
	}

	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %s", in.StartDate)
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %s", in.EndDate)
	}
	if end.Before(start) {
		return fmt.Errorf("end date precedes start date")
	}

	if in.Status == "" {
		in.Status = PromoPlanned
	}
	if !validPromotionStatus(in.Status) {
		return fmt.Errorf("invalid promotion status: %s", in.Status)
	}
	return nil
}

// Create registers a campaign. Names are unique.
func (s *PromotionService) Create(ctx context.Context, in PromotionInput, user, ip string) (int64, error) {
	if err := normalizePromotion(&in); err != nil {
		return 0, err
	}

	var existing int64
	err := s.store.QueryRow(ctx, "SELECT id FROM promocoes WHERE nome = ?", in.Name).Scan(&existing)
	if err == nil {
		return 0, fmt.Errorf("promotion %q already exists", in.Name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	id, err := s.store.ExecInsert(ctx,
		`INSERT INTO promocoes (nome, descricao, tipo, valor_desconto, data_inicio, data_fim, status, usuario_criacao)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Description, in.Type, in.Discount, in.StartDate, in.EndDate, in.Status, user)
	if err != nil {
		return 0, err
	}

	s.audit.Record(ctx, user, "PROMOCOES", "Criou promoção",
		fmt.Sprintf("%s (%s, %s a %s)", in.Name, in.Type, in.StartDate, in.EndDate), ip)
	return id, nil
}

const promotionSelect = `
	SELECT id, nome, COALESCE(descricao,''), tipo, COALESCE(valor_desconto, 0),
	       data_inicio, data_fim, status, COALESCE(usuario_criacao,''), data_criacao
	FROM promocoes`

func (s *PromotionService) scanPromotions(rows *sql.Rows) ([]Promotion, error) {
	defer rows.Close()
	var promos []Promotion
	for rows.Next() {
		var p Promotion
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Type, &p.Discount,
			&p.StartDate, &p.EndDate, &p.Status, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}

// List returns campaigns, newest first. With activeOnly, only ATIVA
// campaigns whose window covers today.
func (s *PromotionService) List(ctx context.Context, activeOnly bool) ([]Promotion, error) {
	query := promotionSelect
	var args []any
	if activeOnly {
		query += " WHERE status = ? AND date('now') BETWEEN data_inicio AND data_fim"
		args = append(args, PromoActive)
	}
	query += " ORDER BY data_inicio DESC"

	rows, err := s.store.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return s.scanPromotions(rows)
}

// GetByID returns a campaign, or nil when not found.
func (s *PromotionService) GetByID(ctx context.Context, id int64) (*Promotion, error) {
	var p Promotion
	err := s.store.QueryRow(ctx, promotionSelect+" WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Type, &p.Discount,
			&p.StartDate, &p.EndDate, &p.Status, &p.CreatedBy, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update rewrites a campaign. Cancelled campaigns are immutable.
func (s *PromotionService) Update(ctx context.Context, id int64, in PromotionInput, user, ip string) error {
	if err := normalizePromotion(&in); err != nil {
		return err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("promotion #%d not found", id)
	}
	if current.Status == PromoCancelled {
		return fmt.Errorf("promotion %q is cancelled", current.Name)
	}

	var existing int64
	err = s.store.QueryRow(ctx, "SELECT id FROM promocoes WHERE nome = ? AND id != ?", in.Name, id).Scan(&existing)
	if err == nil {
		return fmt.Errorf("promotion %q already exists", in.Name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = s.store.Exec(ctx,
		`UPDATE promocoes SET nome = ?, descricao = ?, tipo = ?, valor_desconto = ?,
		        data_inicio = ?, data_fim = ?, status = ?
		 WHERE id = ?`,
		in.Name, in.Description, in.Type, in.Discount, in.StartDate, in.EndDate, in.Status, id)
	if err != nil {
		return err
	}

	s.audit.Record(ctx, user, "PROMOCOES", "Atualizou promoção", in.Name, ip)
	return nil
}

// Cancel marks a campaign CANCELADA. Already finished or cancelled campaigns
// cannot be cancelled.
func (s *PromotionService) Cancel(ctx context.Context, id int64, user, ip string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("promotion #%d not found", id)
	}
	if current.Status == PromoCancelled || current.Status == PromoFinished {
		return fmt.Errorf("promotion %q is already %s", current.Name, current.Status)
	}

	if _, err := s.store.Exec(ctx,
		"UPDATE promocoes SET status = ? WHERE id = ?", PromoCancelled, id); err != nil {
		return err
	}

	s.audit.Record(ctx, user, "PROMOCOES", "Cancelou promoção", current.Name, ip)
	return nil
}

// ApplyDiscount returns the unit price after a campaign's discount. Prices
// never go below zero; LEVE_MAIS leaves the unit price unchanged.
func (p *Promotion) ApplyDiscount(unitPrice float64) float64 {
	switch p.Type {
	case PromoPercentDiscount:
		discounted := unitPrice * (1 - p.Discount/100)
		if discounted < 0 {
			return 0
		}
		return discounted
	case PromoFixedDiscount:
		discounted := unitPrice - p.Discount
		if discounted < 0 {
			return 0
		}
		return discounted
	default:
		return unitPrice
	}
}
