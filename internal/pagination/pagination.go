// Package pagination provides utilities around page tokens.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

var tokenEncoding = base64.RawURLEncoding

// Cursor is the state carried by a page token.
type Cursor interface {
	// Validate reports whether a decoded cursor is usable.
	Validate() error
}

// TokenError is an opaque error related to pagination tokens. The error message
// does not reveal internal details; use [errors.Unwrap] to access the cause.
type TokenError struct {
	cause error
}

// Error satisfies [error].
func (terr TokenError) Error() string {
	return "invalid pagination token"
}

// Unwrap returns the underlying cause of the token error.
func (terr TokenError) Unwrap() error {
	return terr.cause
}

// FromToken decodes an opaque pagination token into cursor.
// Returns a [TokenError] if decoding or validation fails.
func FromToken(tkn string, cursor Cursor) error {
	if tkn == "" {
		return TokenError{cause: errors.New("empty token")}
	}
	data, err := tokenEncoding.DecodeString(tkn)
	if err != nil {
		return TokenError{cause: err}
	}
	if err = json.Unmarshal(data, cursor); err != nil {
		return TokenError{cause: err}
	}
	if err = cursor.Validate(); err != nil {
		return TokenError{cause: err}
	}
	return nil
}

// ToToken encodes cursor into an opaque pagination token. Returns a
// [TokenError] if validation or encoding fails.
func ToToken(cursor Cursor) (string, error) {
	if err := cursor.Validate(); err != nil {
		return "", TokenError{cause: err}
	}
	data, err := json.Marshal(cursor)
	if err != nil {
		return "", TokenError{cause: err}
	}
	return tokenEncoding.EncodeToString(data), nil
}
