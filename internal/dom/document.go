// Package dom is a headless document model for the interaction runtime.
//
// A [Document] wraps an HTML node tree parsed with golang.org/x/net/html and
// adds what a browser would otherwise provide to widget controllers: event
// listeners with bubbling, focus tracking, element geometry supplied by the
// embedder, scroll offsets, and a single-threaded [Loop] for timers and
// asynchronous results. Controllers consume the markup purely through
// attribute and selector queries.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/stolasapp/facet/internal/clock"
)

// ErrNotFound is returned when a required element cannot be located.
const ErrNotFound Error = "element not found"

// Error is an error type returned by the dom package.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Document is a parsed HTML document with runtime state. A Document and
// every Element derived from it must only be used from the goroutine
// running its [Loop].
type Document struct {
	root      *html.Node
	elements  map[*html.Node]*Element
	listeners listenerSet
	active    *Element
	viewport  Rect
	loop      *Loop
}

// Option configures a Document.
type Option func(*Document)

// WithClock sets the clock used by the document's loop timers. The real
// clock is used by default.
func WithClock(clk clock.Clock) Option {
	return func(d *Document) { d.loop = NewLoop(clk) }
}

// WithViewport sets the initial viewport rect.
func WithViewport(viewport Rect) Option {
	return func(d *Document) { d.viewport = viewport }
}

// Parse reads an HTML document from r.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}
	doc := &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
		viewport: Rect{Width: 1280, Height: 800}, //nolint:mnd // default desktop viewport
	}
	for _, opt := range opts {
		opt(doc)
	}
	if doc.loop == nil {
		doc.loop = NewLoop(clock.Real())
	}
	return doc, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Loop returns the event loop that owns this document.
func (d *Document) Loop() *Loop { return d.loop }

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element {
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "html" {
			return d.wrap(n)
		}
	}
	return nil
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.Query("body")
}

// Query returns the first element in the document matching selector, or nil.
func (d *Document) Query(selector string) *Element {
	sel := goquery.NewDocumentFromNode(d.root).Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return d.wrap(sel.Get(0))
}

// QueryAll returns every element in the document matching selector, in
// document order.
func (d *Document) QueryAll(selector string) []*Element {
	return d.wrapAll(goquery.NewDocumentFromNode(d.root).Find(selector).Nodes)
}

// ElementByID returns the element with the given id, or nil.
func (d *Document) ElementByID(id string) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	return d.wrap(found)
}

// ActiveElement returns the focused element, or nil when nothing has focus.
func (d *Document) ActiveElement() *Element {
	if d.active != nil && !d.active.Attached() {
		d.active = nil
	}
	return d.active
}

// Viewport returns the current viewport rect.
func (d *Document) Viewport() Rect { return d.viewport }

// SetViewport resizes the viewport and dispatches a resize event on the
// document.
func (d *Document) SetViewport(viewport Rect) {
	d.viewport = viewport
	d.dispatchDocument(&Event{Type: EventResize})
}

// Scroll dispatches a document-level scroll event, as produced by scrolling
// the page itself.
func (d *Document) Scroll() {
	d.dispatchDocument(&Event{Type: EventScroll})
}

// AddEventListener registers fn for events of type reaching the document.
// The returned func removes the listener and is safe to call repeatedly.
func (d *Document) AddEventListener(eventType string, fn func(*Event)) (remove func()) {
	return d.listeners.add(eventType, fn)
}

// ListenerCount returns the number of live document listeners for eventType.
func (d *Document) ListenerCount(eventType string) int {
	return d.listeners.count(eventType)
}

// Render serializes the document back to HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{node: n, doc: d}
	d.elements[n] = el
	return el
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// walk visits n and its descendants depth first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
