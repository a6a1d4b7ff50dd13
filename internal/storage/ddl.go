package storage

import (
	"context"
	"fmt"
	"strings"
)

// CreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for the
// given table and columns. Mirrored TSV rows are untyped text, so every
// column is TEXT; this keeps the DDL portable across postgres and sqlite.
func CreateTableSQL(table string, columns []string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("storage: table must not be empty")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("storage: columns must not be empty")
	}
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(defs, ", ")), nil
}

// EnsureTable creates the destination table when it does not exist yet.
func EnsureTable(ctx context.Context, repo Repository, cfg Config) error {
	ddl, err := CreateTableSQL(cfg.Table, cfg.Columns)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, ddl)
}

// quoteIdent double-quotes an identifier. Both postgres and sqlite accept
// double-quoted identifiers.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
