// Package service implements the ElectroGest business services: customers,
// categories, products, stock, sales, promotions, and reports. Each service
// wraps the SQLite store, enforces the domain rules, and writes audit
// entries for mutations.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/juniorxam/Gestaodevendas/internal/auth"
	"github.com/juniorxam/Gestaodevendas/internal/store"
	"github.com/juniorxam/Gestaodevendas/internal/validate"
)

// Customer is one row of the clientes table.
type Customer struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CPF          string `json:"cpf,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	BirthDate    string `json:"birthDate,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	CEP          string `json:"cep,omitempty"`
	RegisteredAt string `json:"registeredAt"`
	RegisteredBy string `json:"registeredBy,omitempty"`
}

// CustomerInput carries the fields a caller may set when registering or
// updating a customer.
type CustomerInput struct {
	Name      string `json:"name" binding:"required"`
	CPF       string `json:"cpf"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birthDate"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	CEP       string `json:"cep"`
}

// CustomerStats aggregates counts for the customer dashboard card.
type CustomerStats struct {
	Total        int `json:"total"`
	WithCPF      int `json:"withCpf"`
	WithEmail    int `json:"withEmail"`
	NewThisMonth int `json:"newThisMonth"`
}

// CustomerService manages the customer registry.
type CustomerService struct {
	store *store.Store
	audit *auth.AuditLog
}

// NewCustomerService creates a customer service.
func NewCustomerService(s *store.Store, audit *auth.AuditLog) *CustomerService {
	return &CustomerService{store: s, audit: audit}
}

// normalizeCustomer validates and canonicalizes input before persistence.
// CPF is stored as bare digits; phone and CEP keep whatever formatting
// cleans to a recognizable length.
func normalizeCustomer(in *CustomerInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("customer name is required")
	}

	if in.CPF != "" {
		if !validate.ValidCPF(in.CPF) {
			return fmt.Errorf("invalid CPF: %s", in.CPF)
		}
		in.CPF = validate.CleanCPF(in.CPF)
	}

	if in.Email != "" {
		if err := validate.ValidateField(in.Email, "email"); err != nil {
			return fmt.Errorf("invalid email: %s", in.Email)
		}
	}
	return nil
}

// Register adds a customer, rejecting duplicate CPFs.
func (s *CustomerService) Register(ctx context.Context, in CustomerInput, user, ip string) (int64, error) {
	if err := normalizeCustomer(&in); err != nil {
		return 0, err
	}

	if in.CPF != "" {
		var existing int64
		err := s.store.QueryRow(ctx, "SELECT id FROM clientes WHERE cpf = ?", in.CPF).Scan(&existing)
		if err == nil {
			return 0, fmt.Errorf("CPF already registered to customer #%d", existing)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to check CPF: %w", err)
		}
	}

	id, err := s.store.ExecInsert(ctx,
		`INSERT INTO clientes (nome, cpf, email, telefone, data_nascimento, endereco, cidade, estado, cep, usuario_cadastro)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, nullable(in.CPF), nullable(in.Email), nullable(in.Phone), nullable(in.BirthDate),
		nullable(in.Address), nullable(in.City), nullable(in.State), nullable(in.CEP), user)
	if err != nil {
		return 0, fmt.Errorf("failed to register customer: %w", err)
	}

	s.audit.Record(ctx, user, "CLIENTES", "Cadastrou cliente", fmt.Sprintf("Cliente #%d - %s", id, in.Name), ip)
	return id, nil
}

// Search finds customers by name, CPF, or email fragment. An empty term
// lists the most recent registrations instead.
func (s *CustomerService) Search(ctx context.Context, term string, limit int) ([]Customer, error) {
	term = strings.TrimSpace(term)
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if term == "" {
		rows, err := s.store.Query(ctx,
			`SELECT id, nome, COALESCE(cpf,''), COALESCE(email,''), COALESCE(telefone,''),
			        COALESCE(data_nascimento,''), COALESCE(endereco,''), COALESCE(cidade,''),
			        COALESCE(estado,''), COALESCE(cep,''), data_cadastro, COALESCE(usuario_cadastro,'')
			 FROM clientes
			 ORDER BY data_cadastro DESC LIMIT ?`, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return scanCustomers(rows)
	}

	like := "%" + term + "%"
	cpfLike := "%" + validate.CleanCPF(term) + "%"
	if validate.CleanCPF(term) == "" {
		cpfLike = like
	}

	rows, err := s.store.Query(ctx,
		`SELECT id, nome, COALESCE(cpf,''), COALESCE(email,''), COALESCE(telefone,''),
		        COALESCE(data_nascimento,''), COALESCE(endereco,''), COALESCE(cidade,''),
		        COALESCE(estado,''), COALESCE(cep,''), data_cadastro, COALESCE(usuario_cadastro,'')
		 FROM clientes
		 WHERE nome LIKE ? OR cpf LIKE ? OR email LIKE ?
		 ORDER BY nome LIMIT ?`,
		like, cpfLike, like, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// GetByID fetches one customer.
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*Customer, error) {
	return s.getBy(ctx, "id = ?", id)
}

// GetByCPF fetches one customer by document, accepting formatted input.
func (s *CustomerService) GetByCPF(ctx context.Context, cpf string) (*Customer, error) {
	digits := validate.CleanCPF(cpf)
	if digits == "" {
		return nil, fmt.Errorf("invalid CPF: %s", cpf)
	}
	return s.getBy(ctx, "cpf = ?", digits)
}

func (s *CustomerService) getBy(ctx context.Context, where string, arg any) (*Customer, error) {
	row := s.store.QueryRow(ctx,
		`SELECT id, nome, COALESCE(cpf,''), COALESCE(email,''), COALESCE(telefone,''),
		        COALESCE(data_nascimento,''), COALESCE(endereco,''), COALESCE(cidade,''),
		        COALESCE(estado,''), COALESCE(cep,''), data_cadastro, COALESCE(usuario_cadastro,'')
		 FROM clientes WHERE `+where, arg)

	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.CPF, &c.Email, &c.Phone, &c.BirthDate,
		&c.Address, &c.City, &c.State, &c.CEP, &c.RegisteredAt, &c.RegisteredBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update rewrites a customer's editable fields.
func (s *CustomerService) Update(ctx context.Context, id int64, in CustomerInput, user, ip string) error {
	if err := normalizeCustomer(&in); err != nil {
		return err
	}

	if in.CPF != "" {
		var other int64
		err := s.store.QueryRow(ctx, "SELECT id FROM clientes WHERE cpf = ? AND id != ?", in.CPF, id).Scan(&other)
		if err == nil {
			return fmt.Errorf("CPF already registered to customer #%d", other)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check CPF: %w", err)
		}
	}

	rows, err := s.store.Exec(ctx,
		`UPDATE clientes SET nome = ?, cpf = ?, email = ?, telefone = ?, data_nascimento = ?,
		        endereco = ?, cidade = ?, estado = ?, cep = ?
		 WHERE id = ?`,
		in.Name, nullable(in.CPF), nullable(in.Email), nullable(in.Phone), nullable(in.BirthDate),
		nullable(in.Address), nullable(in.City), nullable(in.State), nullable(in.CEP), id)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("customer #%d not found", id)
	}

	s.audit.Record(ctx, user, "CLIENTES", "Atualizou cliente", fmt.Sprintf("Cliente #%d - %s", id, in.Name), ip)
	return nil
}

// Delete removes a customer. Blocked while sales reference the customer so
// sales history stays attributable.
func (s *CustomerService) Delete(ctx context.Context, id int64, user, ip string) error {
	var sales int
	if err := s.store.QueryRow(ctx, "SELECT COUNT(*) FROM vendas WHERE cliente_id = ?", id).Scan(&sales); err != nil {
		return fmt.Errorf("failed to check sales: %w", err)
	}
	if sales > 0 {
		return fmt.Errorf("customer #%d has %d sale(s) and cannot be deleted", id, sales)
	}

	rows, err := s.store.Exec(ctx, "DELETE FROM clientes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("customer #%d not found", id)
	}

	s.audit.Record(ctx, user, "CLIENTES", "Excluiu cliente", fmt.Sprintf("Cliente #%d", id), ip)
	return nil
}

// ImportResult reports the outcome of a batch import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportBatch registers many customers in one call. Rows that fail
// validation or collide on CPF are skipped and reported, not fatal; an
// operator fixing a spreadsheet wants the rest of the file loaded.
func (s *CustomerService) ImportBatch(ctx context.Context, inputs []CustomerInput, user, ip string) ImportResult {
	result := ImportResult{}
	for i, in := range inputs {
		if _, err := s.Register(ctx, in, user, ip); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	s.audit.Record(ctx, user, "CLIENTES", "Importou clientes em lote",
		fmt.Sprintf("%d importados, %d ignorados", result.Imported, result.Skipped), ip)
	return result
}

// Stats returns registry counters.
func (s *CustomerService) Stats(ctx context.Context) (*CustomerStats, error) {
	var st CustomerStats
	err := s.store.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(cpf),
		        COUNT(email),
		        COALESCE(SUM(CASE WHEN strftime('%Y-%m', data_cadastro) = strftime('%Y-%m', 'now') THEN 1 ELSE 0 END), 0)
		 FROM clientes`).Scan(&st.Total, &st.WithCPF, &st.WithEmail, &st.NewThisMonth)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func scanCustomers(rows *sql.Rows) ([]Customer, error) {
	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.CPF, &c.Email, &c.Phone, &c.BirthDate,
			&c.Address, &c.City, &c.State, &c.CEP, &c.RegisteredAt, &c.RegisteredBy); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// nullable maps empty strings to NULL so UNIQUE columns (cpf) don't collide
// on the empty string.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
