package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/schema.sql
var sqliteSchema string

// OpenSQLite abre (ou cria) o banco SQLite no caminho informado e aplica o schema
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("caminho do banco SQLite não informado")
	}

	db, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco SQLite: %w", err)
	}

	// Uma única conexão serializa as escritas e mantém os pragmas válidos
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("erro ao aplicar schema SQLite: %w", err)
	}

	return db, nil
}

// SQLiteDSN monta a DSN com chaves estrangeiras e busy timeout habilitados
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	return "file:" + path + "?" + q.Encode()
}
