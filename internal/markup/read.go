package markup

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
)

// Attrs is the read side of an element's attributes.
type Attrs interface {
	Attr(name string) (string, bool)
}

// Bool reads a boolean attribute. A present attribute is true unless its
// value is "false".
func Bool(el Attrs, name string) bool {
	v, ok := el.Attr(name)
	return ok && !strings.EqualFold(strings.TrimSpace(v), "false")
}

// Float reads a numeric attribute, returning fallback when it is absent or
// malformed.
func Float(el Attrs, name string, fallback float64) float64 {
	v, ok := el.Attr(name)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback
	}
	return f
}

// Duration reads a delay attribute holding either a Go duration ("150ms")
// or a bare number of milliseconds. Absent, malformed and negative values
// yield fallback.
func Duration(el Attrs, name string, fallback time.Duration) time.Duration {
	v, ok := el.Attr(name)
	if !ok {
		return fallback
	}
	v = strings.TrimSpace(v)
	if ms, err := strconv.Atoi(v); err == nil {
		if ms < 0 {
			return fallback
		}
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// JSON decodes a JSON attribute into dst. Comments and trailing commas are
// tolerated. Absent or malformed values report false, and dst must then be
// treated as unusable.
func JSON(el Attrs, name string, dst any) bool {
	v, ok := el.Attr(name)
	if !ok || strings.TrimSpace(v) == "" {
		return false
	}
	return json.Unmarshal(jsonc.ToJSON([]byte(v)), dst) == nil
}

// List splits a comma-separated attribute value, dropping blanks.
func List(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
