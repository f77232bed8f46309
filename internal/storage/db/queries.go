package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both [sql.DB] and [sql.Tx].
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries runs the statements against the preferences schema.
type Queries struct {
	db DBTX
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Preference is a row of the preferences table.
type Preference struct {
	Visitor   uint64
	Theme     string
	UpdatedAt time.Time
}

const getPreference = `-- name: GetPreference :one
select visitor, theme, updated_at
from preferences
where visitor = ?`

// GetPreference returns the visitor's row or [sql.ErrNoRows].
func (q *Queries) GetPreference(ctx context.Context, visitor uint64) (Preference, error) {
	var p Preference
	err := q.db.QueryRowContext(ctx, getPreference, visitor).
		Scan(&p.Visitor, &p.Theme, &p.UpdatedAt)
	return p, err
}

const upsertPreference = `-- name: UpsertPreference :exec
insert into preferences (visitor, theme, updated_at)
values (?, ?, current_timestamp)
on conflict (visitor) do update
    set theme      = excluded.theme,
        updated_at = excluded.updated_at`

// UpsertPreference writes the visitor's theme.
func (q *Queries) UpsertPreference(ctx context.Context, visitor uint64, theme string) error {
	_, err := q.db.ExecContext(ctx, upsertPreference, visitor, theme)
	return err
}

const deletePreference = `-- name: DeletePreference :exec
delete from preferences
where visitor = ?`

// DeletePreference removes the visitor's row, if any.
func (q *Queries) DeletePreference(ctx context.Context, visitor uint64) error {
	_, err := q.db.ExecContext(ctx, deletePreference, visitor)
	return err
}
