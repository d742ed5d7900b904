// Package migrations applies the embedded goose migrations to the local cache
// (SQLite) and to the authoritative store (PostgreSQL).
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	sqliteDialect   = "sqlite3"
	postgresDialect = "postgres"

	cacheDir    = "sql/cache"
	postgresDir = "sql/postgres"
)

//go:embed sql/cache/*.sql sql/postgres/*.sql
var files embed.FS

// UpCache runs all pending cache migrations.
func UpCache(db *sql.DB) error {
	return up(db, sqliteDialect, cacheDir)
}

// UpPostgres runs all pending authoritative store migrations.
func UpPostgres(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return up(db, postgresDialect, postgresDir)
}

func up(db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(files)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("run goose up migrations (%s): %w", dir, err)
	}

	return nil
}
