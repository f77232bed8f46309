package dom

import "golang.org/x/net/html"

// Rect is a bounding rectangle in viewport coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Left returns the left edge.
func (r Rect) Left() float64 { return r.X }

// Top returns the top edge.
func (r Rect) Top() float64 { return r.Y }

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// IsZero reports whether the rect carries no geometry.
func (r Rect) IsZero() bool { return r == Rect{} }

// Translate returns r moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Rect returns the element's bounding rect as last supplied by the embedder.
func (e *Element) Rect() Rect { return e.rect }

// SetRect updates the element's bounding rect and notifies geometry
// observers when it changed.
func (e *Element) SetRect(r Rect) {
	if e.rect == r {
		return
	}
	e.rect = r
	e.dispatch(&Event{Type: EventGeometry, Target: e})
}

// Observe calls fn whenever the element's geometry changes. The returned
// func stops observation.
func (e *Element) Observe(fn func()) (stop func()) {
	return e.AddEventListener(EventGeometry, func(*Event) { fn() })
}

// ScrollTop returns the element's vertical scroll offset.
func (e *Element) ScrollTop() float64 { return e.scrollTop }

// ClientHeight returns the visible height of the element.
func (e *Element) ClientHeight() float64 { return e.rect.Height }

// ScrollHeight returns the height of the element's content. It defaults to
// the client height when not set.
func (e *Element) ScrollHeight() float64 {
	return max(e.scrollHeight, e.ClientHeight())
}

// SetScrollHeight sets the height of the element's scrollable content.
func (e *Element) SetScrollHeight(h float64) { e.scrollHeight = h }

// SetScrollTop scrolls the element to offset top. The rects of known
// descendants move by the scrolled distance and a scroll event is
// dispatched to the element and the document.
func (e *Element) SetScrollTop(top float64) {
	delta := top - e.scrollTop
	if delta == 0 {
		return
	}
	e.scrollTop = top
	walk(e.node, func(n *html.Node) bool {
		if n == e.node {
			return true
		}
		if child, ok := e.doc.elements[n]; ok && !child.rect.IsZero() {
			child.rect = child.rect.Translate(0, -delta)
		}
		return true
	})
	e.dispatch(&Event{Type: EventScroll, Target: e})
}
