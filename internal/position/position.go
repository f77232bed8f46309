// Package position computes where a floating element sits relative to its
// reference element and keeps it there while both are shown.
package position

import (
	"strconv"
	"strings"

	"github.com/stolasapp/facet/internal/dom"
)

// Side is the side of the reference the floating element is placed on.
type Side string

// Sides.
const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// Align is the alignment of the floating element along the reference's
// edge.
type Align string

// Alignments.
const (
	AlignStart  Align = "start"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"
)

// ParseSide returns the Side named by s, or SideBottom when s is not a
// side.
func ParseSide(s string) Side {
	switch side := Side(strings.ToLower(strings.TrimSpace(s))); side {
	case SideTop, SideRight, SideBottom, SideLeft:
		return side
	default:
		return SideBottom
	}
}

// ParseAlign returns the Align named by s, or AlignCenter when s is not an
// alignment.
func ParseAlign(s string) Align {
	switch align := Align(strings.ToLower(strings.TrimSpace(s))); align {
	case AlignStart, AlignCenter, AlignEnd:
		return align
	default:
		return AlignCenter
	}
}

func (s Side) opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideRight:
		return SideLeft
	case SideLeft:
		return SideRight
	default:
		return SideTop
	}
}

func (s Side) vertical() bool {
	return s == SideTop || s == SideBottom
}

// Options configures placement.
type Options struct {
	// Side defaults to SideBottom.
	Side Side
	// Align defaults to AlignCenter.
	Align Align
	// Offset is the gap between reference and floating element.
	Offset float64
	// Padding is the minimum distance kept from the viewport edges.
	Padding float64
	// Flip moves the floating element to the opposite side when the
	// preferred side overflows and the opposite side overflows less.
	Flip bool
	// Shift slides the floating element along the cross axis to keep it in
	// the viewport.
	Shift bool
}

func (o Options) normalized() Options {
	if o.Side == "" {
		o.Side = SideBottom
	}
	if o.Align == "" {
		o.Align = AlignCenter
	}
	return o
}

// Position is a computed placement in viewport coordinates.
type Position struct {
	X, Y  float64
	Side  Side
	Align Align
}

// Compute places a floating rect of the given size against reference inside
// viewport. Only the floating rect's width and height are used.
func Compute(reference, floating, viewport dom.Rect, opts Options) Position {
	opts = opts.normalized()
	pos := place(reference, floating, opts.Side, opts.Align, opts.Offset)

	if opts.Flip {
		if over := overflow(pos, floating, viewport, opts.Padding); over > 0 {
			flipped := place(reference, floating, opts.Side.opposite(), opts.Align, opts.Offset)
			if overflow(flipped, floating, viewport, opts.Padding) < over {
				pos = flipped
			}
		}
	}

	if opts.Shift {
		if pos.Side.vertical() {
			pos.X = clamp(pos.X, viewport.Left()+opts.Padding, viewport.Right()-opts.Padding-floating.Width)
		} else {
			pos.Y = clamp(pos.Y, viewport.Top()+opts.Padding, viewport.Bottom()-opts.Padding-floating.Height)
		}
	}
	return pos
}

func place(ref, floating dom.Rect, side Side, align Align, offset float64) Position {
	pos := Position{Side: side, Align: align}
	switch side {
	case SideTop:
		pos.Y = ref.Top() - floating.Height - offset
	case SideBottom:
		pos.Y = ref.Bottom() + offset
	case SideLeft:
		pos.X = ref.Left() - floating.Width - offset
	case SideRight:
		pos.X = ref.Right() + offset
	}

	if side.vertical() {
		pos.X = alignAxis(ref.Left(), ref.Width, floating.Width, align)
	} else {
		pos.Y = alignAxis(ref.Top(), ref.Height, floating.Height, align)
	}
	return pos
}

func alignAxis(start, refSize, size float64, align Align) float64 {
	switch align {
	case AlignStart:
		return start
	case AlignEnd:
		return start + refSize - size
	default:
		return start + (refSize-size)/2 //nolint:mnd // centered
	}
}

// overflow measures how far the floating element crosses the viewport edge
// on its main axis.
func overflow(pos Position, floating, viewport dom.Rect, padding float64) float64 {
	switch pos.Side {
	case SideTop:
		return viewport.Top() + padding - pos.Y
	case SideBottom:
		return pos.Y + floating.Height - (viewport.Bottom() - padding)
	case SideLeft:
		return viewport.Left() + padding - pos.X
	default:
		return pos.X + floating.Width - (viewport.Right() - padding)
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}

// Attach positions floating against reference and keeps it updated on
// document scroll and resize and whenever the geometry of either element
// changes. The computed coordinates are written as fixed positioning in
// the floating element's style attribute along with data-side and
// data-align. The returned detach func removes every subscription and is
// safe to call repeatedly.
func Attach(reference, floating *dom.Element, opts Options) (detach func()) {
	doc := floating.Document()
	update := func() {
		pos := Compute(reference.Rect(), floating.Rect(), doc.Viewport(), opts)
		floating.SetAttr("style", "position:fixed;left:"+px(pos.X)+";top:"+px(pos.Y))
		floating.SetAttr("data-side", string(pos.Side))
		floating.SetAttr("data-align", string(pos.Align))
	}
	update()

	subs := []func(){
		doc.AddEventListener(dom.EventScroll, func(*dom.Event) { update() }),
		doc.AddEventListener(dom.EventResize, func(*dom.Event) { update() }),
		reference.Observe(update),
		floating.Observe(update),
	}
	detached := false
	return func() {
		if detached {
			return
		}
		detached = true
		for _, unsub := range subs {
			unsub()
		}
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
