package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// IsFocusable reports whether the element can receive focus
// programmatically: it is visible, not disabled and either natively
// focusable or carries a tabindex.
func (e *Element) IsFocusable() bool {
	if !e.Visible() || e.HasAttr("disabled") {
		return false
	}
	if e.HasAttr("tabindex") {
		return true
	}
	switch e.Tag() {
	case "a", "area":
		return e.HasAttr("href")
	case "input":
		return !strings.EqualFold(e.AttrOr("type", "text"), "hidden")
	case "button", "select", "textarea", "iframe", "summary":
		return true
	}
	return e.HasAttr("contenteditable")
}

// IsTabbable reports whether the element takes part in sequential keyboard
// navigation: it is focusable and its tabindex is not negative.
func (e *Element) IsTabbable() bool {
	if !e.IsFocusable() {
		return false
	}
	if v, ok := e.Attr("tabindex"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return err == nil && n >= 0
	}
	return true
}

// Tabbables returns the tabbable descendants of e in document order.
func (e *Element) Tabbables() []*Element {
	return e.doc.tabbables(e.node, false)
}

// Tabbables returns every tabbable element in document order.
func (d *Document) Tabbables() []*Element {
	return d.tabbables(d.root, true)
}

func (d *Document) tabbables(root *html.Node, inclusive bool) []*Element {
	var out []*Element
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && (inclusive || n != root) {
			if hasAttr(n, "hidden") {
				return
			}
			if el := d.wrap(n); el.IsTabbable() {
				out = append(out, el)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return out
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
