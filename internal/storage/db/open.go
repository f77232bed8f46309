// Package db contains the sqlite schema, queries and utilities used
// by the storage package.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // sqlite sql.DB driver initialization
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

//go:embed migrations/*.sql
var migrations embed.FS

// connection pragmas, applied by the driver to every new connection
var pragmas = []string{
	"journal_mode(wal)",
	"synchronous(normal)",
	"busy_timeout(5000)",
	"foreign_keys(on)",
	"temp_store(memory)",
}

// Open connects to the SQLite database at dbPath, creating the file and its
// parent directory when missing, and migrates it to the latest schema.
func Open(ctx context.Context, logger *slog.Logger, dbPath string) (*sql.DB, error) {
	if dbPath != MemoryPath {
		const userOnlyDirPerms = 0o700
		if err := os.MkdirAll(filepath.Dir(dbPath), userOnlyDirPerms); err != nil {
			return nil, fmt.Errorf("failed to create db parent directory: %w", err)
		}
	}

	handle, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create DB handler: %w", err)
	}
	// a single connection serializes writers and keeps :memory: databases
	// from splitting across connections
	handle.SetMaxOpenConns(1)
	if err = handle.PingContext(ctx); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	if err = migrate(ctx, logger.With(slog.String("db", dbPath)), handle); err != nil {
		_ = handle.Close()
		return nil, err
	}
	return handle, nil
}

func dsn(dbPath string) string {
	params := url.Values{"_time_format": {"sqlite"}}
	for _, pragma := range pragmas {
		params.Add("_pragma", pragma)
	}
	return "file:" + dbPath + "?" + params.Encode()
}

func migrate(ctx context.Context, logger *slog.Logger, handle *sql.DB) error {
	dir, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, handle, dir)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}
	for _, res := range results {
		logger.DebugContext(ctx, "migration applied",
			slog.String("source", res.Source.Path),
			slog.Duration("duration", res.Duration),
		)
	}
	return nil
}
