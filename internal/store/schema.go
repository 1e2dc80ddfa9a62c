package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juniorxam/Gestaodevendas/internal/config"
)

// schemaStatements creates every table and index the dashboard uses. Table
// and column names match the original product's database so files created
// by earlier versions open without migration.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS clientes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		cpf TEXT UNIQUE,
		email TEXT,
		telefone TEXT,
		data_nascimento DATE,
		endereco TEXT,
		cidade TEXT,
		estado TEXT,
		cep TEXT,
		data_cadastro TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		usuario_cadastro TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clientes_cpf ON clientes(cpf)`,
	`CREATE INDEX IF NOT EXISTS idx_clientes_nome ON clientes(nome)`,

	`CREATE TABLE IF NOT EXISTS categorias (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL UNIQUE,
		descricao TEXT,
		ativo INTEGER DEFAULT 1,
		data_cadastro TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categorias_nome ON categorias(nome)`,

	`CREATE TABLE IF NOT EXISTS produtos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		codigo_barras TEXT UNIQUE,
		nome TEXT NOT NULL,
		descricao TEXT,
		categoria_id INTEGER,
		fabricante TEXT,
		preco_custo DECIMAL(10,2),
		preco_venda DECIMAL(10,2) NOT NULL,
		quantidade_estoque INTEGER DEFAULT 0,
		estoque_minimo INTEGER DEFAULT 5,
		ativo INTEGER DEFAULT 1,
		data_cadastro TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		usuario_cadastro TEXT,
		FOREIGN KEY (categoria_id) REFERENCES categorias(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_produtos_codigo ON produtos(codigo_barras)`,
	`CREATE INDEX IF NOT EXISTS idx_produtos_nome ON produtos(nome)`,

	`CREATE TABLE IF NOT EXISTS promocoes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL UNIQUE,
		descricao TEXT,
		tipo TEXT CHECK(tipo IN ('DESCONTO_PERCENTUAL', 'DESCONTO_FIXO', 'LEVE_MAIS')) NOT NULL,
		valor_desconto DECIMAL(10,2),
		data_inicio DATE NOT NULL,
		data_fim DATE NOT NULL,
		status TEXT DEFAULT 'PLANEJADA' CHECK(status IN ('PLANEJADA', 'ATIVA', 'CONCLUÍDA', 'CANCELADA')),
		usuario_criacao TEXT,
		data_criacao TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_promocoes_periodo ON promocoes(data_inicio, data_fim)`,

	`CREATE TABLE IF NOT EXISTS vendas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		data_venda TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		cliente_id INTEGER,
		valor_total DECIMAL(10,2) NOT NULL,
		forma_pagamento TEXT,
		usuario_registro TEXT NOT NULL,
		FOREIGN KEY (cliente_id) REFERENCES clientes(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vendas_data ON vendas(data_venda)`,
	`CREATE INDEX IF NOT EXISTS idx_vendas_cliente ON vendas(cliente_id)`,

	`CREATE TABLE IF NOT EXISTS itens_venda (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		venda_id INTEGER NOT NULL,
		produto_id INTEGER NOT NULL,
		quantidade INTEGER NOT NULL,
		preco_unitario DECIMAL(10,2) NOT NULL,
		promocao_id INTEGER,
		FOREIGN KEY (venda_id) REFERENCES vendas(id) ON DELETE CASCADE,
		FOREIGN KEY (produto_id) REFERENCES produtos(id),
		FOREIGN KEY (promocao_id) REFERENCES promocoes(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_itens_venda ON itens_venda(venda_id)`,

	`CREATE TABLE IF NOT EXISTS usuarios (
		login TEXT PRIMARY KEY,
		senha TEXT,
		nome TEXT,
		nivel_acesso TEXT CHECK(nivel_acesso IN ('ADMIN', 'OPERADOR', 'VISUALIZADOR')),
		ativo INTEGER DEFAULT 1,
		data_criacao TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		data_hora TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		usuario TEXT,
		modulo TEXT,
		acao TEXT,
		detalhes TEXT,
		ip_address TEXT
	)`,
}

// defaultCategories are seeded on first run so the product catalog has
// somewhere to hang new products.
var defaultCategories = []struct {
	Name        string
	Description string
}{
	{"Smartphones", "Celulares e smartphones"},
	{"Tablets", "Tablets e iPads"},
	{"Notebooks", "Notebooks e laptops"},
	{"Video Games", "Consoles e jogos"},
	{"Acessórios", "Acessórios em geral"},
	{"Áudio", "Fones, caixas de som"},
	{"TVs", "Televisores"},
	{"Informática", "Periféricos e componentes"},
}

// InitSchema creates every table and index if missing. Safe to call on
// every startup.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
	}
	return nil
}

// EnsureSeedData guarantees the admin account and default categories exist.
// adminHash is the password hash to store when the admin account is created;
// existing accounts are never overwritten.
func (s *Store) EnsureSeedData(ctx context.Context, adminHash string) error {
	var login string
	err := s.QueryRow(ctx, "SELECT login FROM usuarios WHERE login = ?", config.DefaultAdminLogin).Scan(&login)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		_, err = s.Exec(ctx,
			`INSERT INTO usuarios (login, senha, nome, nivel_acesso, ativo, data_criacao)
			 VALUES (?, ?, ?, 'ADMIN', 1, CURRENT_TIMESTAMP)`,
			config.DefaultAdminLogin, adminHash, "Administrador")
		if err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
	}

	for _, cat := range defaultCategories {
		_, err := s.Exec(ctx,
			`INSERT OR IGNORE INTO categorias (nome, descricao, ativo) VALUES (?, ?, 1)`,
			cat.Name, cat.Description)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
		}
	}

	return nil
}
