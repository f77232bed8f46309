// Package storage persists showcase visitor state, currently the theme
// preference behind the theme toggle.
package storage

import (
	"context"

	"github.com/stolasapp/facet/internal/theme"
)

const (
	// ErrNotFound is returned when a visitor has no stored preference.
	ErrNotFound Error = "not found"
	// ErrInvalidVisitor is returned for the zero visitor ID.
	ErrInvalidVisitor Error = "invalid visitor id"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Preferences are the methods on a storage implementation that read and
// write a visitor's theme preference.
type Preferences interface {
	// GetPreference returns the stored preference for the visitor. An
	// [ErrNotFound] is returned if the visitor never chose one.
	GetPreference(ctx context.Context, visitor uint64) (theme.Preference, error)
	// SetPreference stores the visitor's preference, replacing any prior
	// value. Choosing [theme.System] is stored like any other value.
	SetPreference(ctx context.Context, visitor uint64, pref theme.Preference) error
	// ClearPreference forgets the visitor's preference.
	ClearPreference(ctx context.Context, visitor uint64) error
}

// Store is the storage surface used by the showcase server.
type Store interface {
	Preferences
	// NewVisitorID allocates a new, unique visitor ID.
	NewVisitorID() uint64
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
