package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/influxdata/influxdb/pkg/snowflake"

	"github.com/stolasapp/facet/internal/storage/db"
	"github.com/stolasapp/facet/internal/theme"
)

// DB is a [Store] backed by a SQLite database.
type DB struct {
	ids     *snowflake.Generator
	db      *sql.DB
	queries *db.Queries
	logger  *slog.Logger
}

// NewDB opens (and migrates) the database at dbPath.
func NewDB(ctx context.Context, dbPath string, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, dbPath)
	if err != nil {
		return nil, err
	}
	return &DB{
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:      handle,
		queries: db.New(handle),
		logger:  logger.With(slog.String("component", "storage")),
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// NewVisitorID satisfies the [Store] interface.
func (d *DB) NewVisitorID() uint64 {
	return d.ids.Next()
}

// GetPreference satisfies the [Preferences] interface.
func (d *DB) GetPreference(ctx context.Context, visitor uint64) (theme.Preference, error) {
	if visitor == 0 {
		return "", ErrInvalidVisitor
	}
	row, err := d.queries.GetPreference(ctx, visitor)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	pref, err := theme.Parse(row.Theme)
	if err != nil {
		// the schema constrains values, so this only happens on manual edits
		d.logger.WarnContext(ctx, "stored preference is invalid",
			slog.Uint64("visitor", visitor),
			slog.String("theme", row.Theme),
		)
		return "", ErrNotFound
	}
	return pref, nil
}

// SetPreference satisfies the [Preferences] interface.
func (d *DB) SetPreference(ctx context.Context, visitor uint64, pref theme.Preference) error {
	if visitor == 0 {
		return ErrInvalidVisitor
	}
	pref, err := theme.Parse(string(pref))
	if err != nil {
		return err
	}
	if err = d.queries.UpsertPreference(ctx, visitor, string(pref)); err != nil {
		return fmt.Errorf("failed to store preference: %w", err)
	}
	return nil
}

// ClearPreference satisfies the [Preferences] interface.
func (d *DB) ClearPreference(ctx context.Context, visitor uint64) error {
	return d.queries.DeletePreference(ctx, visitor)
}

var _ Store = (*DB)(nil)
