// Package theme resolves, applies and persists the light/dark preference.
package theme

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
)

// Error is an error type returned by the theme package.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// ErrInvalidPreference is returned when parsing an unknown preference.
const ErrInvalidPreference Error = "invalid theme preference"

const (
	// StorageKey is the key the preference is persisted under.
	StorageKey = "facet-theme"
	// CookieName carries the preference to the server so pages render in
	// the right theme before any script runs.
	CookieName = "facet_theme"

	darkClass    = "dark"
	cookieMaxAge = 365 * 24 * time.Hour
)

// Preference is a user's theme choice.
type Preference string

// Preferences.
const (
	Light  Preference = "light"
	Dark   Preference = "dark"
	System Preference = "system"
)

// Parse returns the preference named by s.
func Parse(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case Light, Dark, System:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPreference, s)
	}
}

// Resolve maps System onto Light or Dark.
func (p Preference) Resolve(systemDark bool) Preference {
	switch p {
	case Light, Dark:
		return p
	default:
		if systemDark {
			return Dark
		}
		return Light
	}
}

// Toggle returns the opposite of the resolved preference.
func (p Preference) Toggle(systemDark bool) Preference {
	if p.Resolve(systemDark) == Dark {
		return Light
	}
	return Dark
}

// Storage persists the preference outside the document, like a browser's
// local storage.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemoryStorage is an in-memory [Storage].
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// Get satisfies [Storage].
func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Set satisfies [Storage].
func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// Load returns the persisted preference, or System when none or an invalid
// one is stored.
func Load(storage Storage) Preference {
	v, ok := storage.Get(StorageKey)
	if !ok {
		return System
	}
	p, err := Parse(v)
	if err != nil {
		return System
	}
	return p
}

// Save persists pref.
func Save(storage Storage, pref Preference) error {
	if err := storage.Set(StorageKey, string(pref)); err != nil {
		return fmt.Errorf("failed to persist theme preference: %w", err)
	}
	return nil
}

// Apply reflects pref on the document element: the dark class when the
// resolved theme is dark, data-theme with the preference itself and the
// matching color-scheme.
func Apply(doc *dom.Document, pref Preference, systemDark bool) {
	root := doc.DocumentElement()
	if root == nil {
		return
	}
	resolved := pref.Resolve(systemDark)
	root.SetAttr("class", withClass(root.AttrOr("class", ""), darkClass, resolved == Dark))
	root.SetAttr(markup.DataAttrTheme, string(pref))
	root.SetAttr("style", "color-scheme:"+string(resolved))
}

// Restore re-applies the persisted preference and returns it.
func Restore(doc *dom.Document, storage Storage, systemDark bool) Preference {
	pref := Load(storage)
	Apply(doc, pref, systemDark)
	return pref
}

// Current returns the preference applied to the document, or System.
func Current(doc *dom.Document) Preference {
	root := doc.DocumentElement()
	if root == nil {
		return System
	}
	p, err := Parse(root.AttrOr(markup.DataAttrTheme, ""))
	if err != nil {
		return System
	}
	return p
}

// IsDark reports whether the document is currently rendered dark.
func IsDark(doc *dom.Document) bool {
	root := doc.DocumentElement()
	return root != nil && slices.Contains(strings.Fields(root.AttrOr("class", "")), darkClass)
}

func withClass(classes, class string, on bool) string {
	fields := slices.DeleteFunc(strings.Fields(classes), func(c string) bool { return c == class })
	if on {
		fields = append(fields, class)
	}
	return strings.Join(fields, " ")
}

// RootClass is the class a server renders on <html> for pref. System
// renders none and is resolved by [Script] before first paint.
func RootClass(pref Preference) string {
	if pref == Dark {
		return darkClass
	}
	return ""
}

// Cookie returns the cookie carrying pref.
func Cookie(pref Preference, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(pref),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromRequest returns the preference carried by the request cookie, or
// System.
func FromRequest(r *http.Request) Preference {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return System
	}
	p, err := Parse(c.Value)
	if err != nil {
		return System
	}
	return p
}

// Script is the inline script placed in the page head. It applies the
// persisted preference before first paint so the page never flashes the
// wrong theme. Without a persisted value the server-rendered preference
// stands.
func Script() string {
	return `(function(){try{` +
		`var r=document.documentElement;` +
		`var p=localStorage.getItem("` + StorageKey + `")||r.getAttribute("` + markup.DataAttrTheme + `")||"system";` +
		`var d=p==="dark"||(p==="system"&&matchMedia("(prefers-color-scheme: dark)").matches);` +
		`r.classList.toggle("` + darkClass + `",d);` +
		`r.setAttribute("` + markup.DataAttrTheme + `",p);` +
		`r.style.colorScheme=d?"dark":"light";` +
		`}catch(e){}})();`
}
