// internal/db/schema.go
package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// Execer is satisfied by *sql.DB, *sqlx.DB and transactions.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Statements splits the embedded schema into individual statements.
func Statements() []string {
	var stmts []string
	for _, s := range strings.Split(schemaSQL, ";") {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// EnsureSchema creates the customers and addresses tables when missing.
// Every statement is IF NOT EXISTS, so running it on each start is safe.
func EnsureSchema(ctx context.Context, db Execer) error {
	for i, stmt := range Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
