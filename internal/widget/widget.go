// Package widget attaches interactive behavior to server-rendered widget
// markup. Each controller is built from an explicit config, usually read
// once from the root's data attributes by its ConfigFrom helper, and
// composes the disclosure, roving, dismissal, positioning and search
// capabilities.
package widget

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/theme"
)

// ErrMissingElement reports markup lacking a required part.
const ErrMissingElement = markup.ErrMissingElement

// StructureError is returned by constructors when a widget's markup is
// missing a part it needs.
type StructureError struct {
	Widget string
	Part   string
	Detail string
}

func (e *StructureError) Error() string {
	msg := fmt.Sprintf("%s: %s part %q", ErrMissingElement, e.Widget, e.Part)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns [ErrMissingElement].
func (e *StructureError) Unwrap() error { return ErrMissingElement }

func missing(widget, part string) error {
	return &StructureError{Widget: widget, Part: part}
}

// Widget is a mounted controller.
type Widget interface {
	// Root returns the element carrying data-facet.
	Root() *dom.Element
	// Destroy releases every listener, timer and subscription.
	Destroy()
}

// Env is the per-document runtime shared by every widget mounted on it.
type Env struct {
	Doc    *dom.Document
	Stack  *dismiss.Stack
	Logger *slog.Logger

	// Base resolves relative remote search endpoints.
	Base *url.URL
	// Client performs remote searches. A shared caching client is used
	// when nil.
	Client *http.Client
	// Storage persists the theme preference.
	Storage theme.Storage
	// SystemDark reports the platform color scheme.
	SystemDark bool

	ids int
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithLogger sets the logger widgets derive theirs from.
func WithLogger(logger *slog.Logger) EnvOption {
	return func(e *Env) { e.Logger = logger }
}

// WithBase sets the base URL for relative search endpoints.
func WithBase(base *url.URL) EnvOption {
	return func(e *Env) { e.Base = base }
}

// WithHTTPClient sets the remote search client.
func WithHTTPClient(client *http.Client) EnvOption {
	return func(e *Env) { e.Client = client }
}

// WithStorage sets the theme preference storage.
func WithStorage(storage theme.Storage, systemDark bool) EnvOption {
	return func(e *Env) {
		e.Storage = storage
		e.SystemDark = systemDark
	}
}

// NewEnv creates the runtime for doc.
func NewEnv(doc *dom.Document, opts ...EnvOption) *Env {
	env := &Env{
		Doc:     doc,
		Stack:   dismiss.NewStack(doc),
		Logger:  slog.Default(),
		Storage: &theme.MemoryStorage{},
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

func (e *Env) logger(widget string, root *dom.Element) *slog.Logger {
	attrs := []any{slog.String("component", widget)}
	if id := root.ID(); id != "" {
		attrs = append(attrs, slog.String("id", id))
	}
	return e.Logger.With(attrs...)
}

// ensureID gives el a document-unique id when it has none.
func (e *Env) ensureID(el *dom.Element, prefix string) string {
	if id := el.ID(); id != "" {
		return id
	}
	for {
		e.ids++
		id := "facet-" + prefix + "-" + strconv.Itoa(e.ids)
		if e.Doc.ElementByID(id) == nil {
			el.SetAttr("id", id)
			return id
		}
	}
}

// parts returns the elements of the named part owned by root: parts inside
// a nested widget belong to that widget.
func parts(root *dom.Element, name string) []*dom.Element {
	var out []*dom.Element
	for _, el := range root.QueryAll(markup.Part(name)) {
		if owner(el) == root {
			out = append(out, el)
		}
	}
	return out
}

// part returns the first element of the named part owned by root, or nil.
func part(root *dom.Element, name string) *dom.Element {
	if els := parts(root, name); len(els) > 0 {
		return els[0]
	}
	return nil
}

func owner(el *dom.Element) *dom.Element {
	parent := el.Parent()
	if parent == nil {
		return nil
	}
	return parent.Closest("[" + markup.DataAttrWidget + "]")
}

// listeners collects remove funcs for Destroy.
type listeners []func()

func (l *listeners) on(el *dom.Element, eventType string, fn func(*dom.Event)) {
	*l = append(*l, el.AddEventListener(eventType, fn))
}

func (l *listeners) release() {
	for _, remove := range *l {
		remove()
	}
	*l = nil
}

// setInput writes value to a hidden form input and dispatches change when
// it differs.
func setInput(input *dom.Element, value string) {
	if input == nil || input.Value() == value {
		return
	}
	input.SetValue(value)
	input.Dispatch(&dom.Event{Type: dom.EventChange})
}

func boolAttr(on bool) string {
	return strconv.FormatBool(on)
}
