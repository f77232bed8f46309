package dom

import (
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Element is an element node of a [Document].
type Element struct {
	node      *html.Node
	doc       *Document
	listeners listenerSet

	rect         Rect
	scrollTop    float64
	scrollHeight float64
}

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.node.Data }

// ID returns the id attribute.
func (e *Element) ID() string { return attr(e.node, "id") }

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the value of the named attribute or fallback when absent.
func (e *Element) AttrOr(name, fallback string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return fallback
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets the named attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr removes the named attribute if present.
func (e *Element) RemoveAttr(name string) {
	e.node.Attr = slices.DeleteFunc(e.node.Attr, func(a html.Attribute) bool {
		return a.Key == name
	})
}

// ToggleAttr sets an empty boolean attribute when on and removes it
// otherwise.
func (e *Element) ToggleAttr(name string, on bool) {
	if on {
		e.SetAttr(name, "")
	} else {
		e.RemoveAttr(name)
	}
}

// Hidden reports whether the element carries the hidden attribute.
func (e *Element) Hidden() bool { return e.HasAttr("hidden") }

// SetHidden toggles the hidden attribute.
func (e *Element) SetHidden(hidden bool) { e.ToggleAttr("hidden", hidden) }

// Visible reports whether neither the element nor any ancestor is hidden.
func (e *Element) Visible() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && slices.ContainsFunc(n.Attr, func(a html.Attribute) bool {
			return a.Key == "hidden"
		}) {
			return false
		}
	}
	return true
}

// Disabled reports whether the element is disabled, either natively or via
// aria-disabled/data-disabled.
func (e *Element) Disabled() bool {
	if e.HasAttr("disabled") || e.HasAttr("data-disabled") {
		return true
	}
	v, _ := e.Attr("aria-disabled")
	return v == "true"
}

// Value returns the value attribute (the form value of inputs).
func (e *Element) Value() string { return attr(e.node, "value") }

// SetValue sets the value attribute.
func (e *Element) SetValue(v string) { e.SetAttr("value", v) }

// Text returns the combined text content of the element and its
// descendants with surrounding whitespace trimmed.
func (e *Element) Text() string {
	return strings.TrimSpace(e.selection().Text())
}

// SetText replaces the element's children with a single text node.
func (e *Element) SetText(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Query returns the first descendant matching selector, or nil.
func (e *Element) Query(selector string) *Element {
	sel := e.selection().Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return e.doc.wrap(sel.Get(0))
}

// MustQuery returns the first descendant matching selector or an error
// wrapping [ErrNotFound].
func (e *Element) MustQuery(selector string) (*Element, error) {
	if el := e.Query(selector); el != nil {
		return el, nil
	}
	return nil, fmt.Errorf("%w: %q inside <%s>", ErrNotFound, selector, e.Tag())
}

// QueryAll returns every descendant matching selector, in document order.
func (e *Element) QueryAll(selector string) []*Element {
	return e.doc.wrapAll(e.selection().Find(selector).Nodes)
}

// Matches reports whether the element matches selector.
func (e *Element) Matches(selector string) bool {
	return e.selection().Is(selector)
}

// Closest returns the nearest ancestor-or-self matching selector, or nil.
func (e *Element) Closest(selector string) *Element {
	sel := e.selection().Closest(selector)
	if sel.Length() == 0 {
		return nil
	}
	return e.doc.wrap(sel.Get(0))
}

// Parent returns the parent element, or nil at the root.
func (e *Element) Parent() *Element {
	if p := e.node.Parent; p != nil && p.Type == html.ElementNode {
		return e.doc.wrap(p)
	}
	return nil
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// Attached reports whether the element is still part of its document.
func (e *Element) Attached() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// AppendHTML parses fragment in the context of e, appends the resulting
// nodes and returns the new element children.
func (e *Element) AppendHTML(fragment string) []*Element {
	before := e.node.LastChild
	e.selection().AppendHtml(fragment)
	start := e.node.FirstChild
	if before != nil {
		start = before.NextSibling
	}
	var added []*Element
	for c := start; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			added = append(added, e.doc.wrap(c))
		}
	}
	return added
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches the element from the document.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
	if e.doc.active != nil && e.Contains(e.doc.active) {
		e.doc.active = nil
	}
}

// OuterHTML serializes the element.
func (e *Element) OuterHTML() string {
	out, err := goquery.OuterHtml(e.selection())
	if err != nil {
		return ""
	}
	return out
}

func (e *Element) selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(e.node).Selection
}
