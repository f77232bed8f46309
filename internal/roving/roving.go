// Package roving tracks a highlighted item among an ordered, filterable set
// of list items and drives it from the keyboard and the mouse.
package roving

import (
	"slices"
	"strings"
	"time"

	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
)

// DefaultSuppressWindow is how long mouse highlighting stays suppressed
// after a keyboard-driven scroll.
const DefaultSuppressWindow = 200 * time.Millisecond

// Policy decides what happens when navigation runs past either end.
type Policy int

// Policies.
const (
	// Clamp stops at the first and last enabled items.
	Clamp Policy = iota
	// Wrap cycles around.
	Wrap
)

// Orientation selects which arrow keys navigate.
type Orientation int

// Orientations.
const (
	Vertical Orientation = iota
	Horizontal
	Both
)

// Item is one entry of a list.
type Item struct {
	Element  *dom.Element
	Value    string
	Label    string
	Disabled bool
	Group    string
	// Remote marks items spliced in from a remote search.
	Remote bool

	removeHover func()
}

// ItemFrom reads an item from its element: the value from data-value, the
// label from data-label falling back to the text content, and the group
// from the closest group part.
func ItemFrom(el *dom.Element) Item {
	label := el.AttrOr(markup.DataAttrLabel, el.Text())
	item := Item{
		Element:  el,
		Value:    el.AttrOr(markup.DataAttrValue, label),
		Label:    label,
		Disabled: el.Disabled(),
		Remote:   el.HasAttr(markup.DataAttrRemote),
	}
	if group := el.Closest(markup.Part(markup.PartGroup)); group != nil {
		item.Group = group.AttrOr(markup.DataAttrValue, "")
	}
	return item
}

// ItemsFrom reads every element matching selector inside container.
func ItemsFrom(container *dom.Element, selector string) []Item {
	els := container.QueryAll(selector)
	items := make([]Item, 0, len(els))
	for _, el := range els {
		items = append(items, ItemFrom(el))
	}
	return items
}

// Config is resolved once when the list is created.
type Config struct {
	// Container is the scrollable list element.
	Container *dom.Element
	Policy    Policy
	// Orientation defaults to Vertical.
	Orientation Orientation
	// FocusItems moves DOM focus to the highlighted item. Otherwise the
	// highlight is announced through aria-activedescendant on Owner.
	FocusItems bool
	Owner      *dom.Element
	// Reorder re-appends visible items in ranked order on SetVisible.
	Reorder bool
	// IgnoreHover leaves the highlight to the keyboard and explicit calls,
	// for tab strips and radio groups.
	IgnoreHover bool
	// SuppressWindow defaults to DefaultSuppressWindow.
	SuppressWindow time.Duration
	OnHighlight    func(*Item)
}

// List is a roving-highlight controller over ordered items.
type List struct {
	cfg  Config
	loop *dom.Loop

	items       []*Item
	visible     []*Item
	highlighted *Item

	keyboardScrolling bool
	scrollTimer       *dom.Timer
}

// New creates a list over items with every item visible and nothing
// highlighted.
func New(cfg Config, items []Item) *List {
	if cfg.SuppressWindow <= 0 {
		cfg.SuppressWindow = DefaultSuppressWindow
	}
	l := &List{cfg: cfg, loop: cfg.Container.Document().Loop()}
	l.Append(items...)
	return l
}

// Items returns every item in list order.
func (l *List) Items() []*Item { return l.items }

// Visible returns the visible items in display order.
func (l *List) Visible() []*Item { return l.visible }

// Highlighted returns the highlighted item, or nil.
func (l *List) Highlighted() *Item { return l.highlighted }

// HighlightedIndex returns the position of the highlighted item in the
// visible sequence, or -1.
func (l *List) HighlightedIndex() int {
	return slices.Index(l.visible, l.highlighted)
}

// Append adds items at the end of the list. They are visible.
func (l *List) Append(items ...Item) []*Item {
	added := make([]*Item, 0, len(items))
	for _, item := range items {
		it := &item
		if it.Element != nil && !l.cfg.IgnoreHover {
			it.removeHover = it.Element.AddEventListener(dom.EventMouseEnter, func(*dom.Event) {
				l.OnMouseEnter(it)
			})
		}
		l.items = append(l.items, it)
		l.visible = append(l.visible, it)
		added = append(added, it)
	}
	return added
}

// Remove drops the items for which drop returns true. Their elements are
// left in place for the caller to dispose of.
func (l *List) Remove(drop func(*Item) bool) {
	l.items = slices.DeleteFunc(l.items, func(it *Item) bool {
		if !drop(it) {
			return false
		}
		if it.removeHover != nil {
			it.removeHover()
		}
		if l.highlighted == it {
			l.highlighted = nil
		}
		return true
	})
	l.visible = slices.DeleteFunc(l.visible, func(it *Item) bool {
		return !slices.Contains(l.items, it)
	})
}

// Find returns the first item with value, or nil.
func (l *List) Find(value string) *Item {
	for _, it := range l.items {
		if it.Value == value {
			return it
		}
	}
	return nil
}

// SetVisible replaces the visible set with the items at indexes, in that
// order. Hidden items get the hidden attribute. When the highlighted item
// is no longer visible the highlight falls back to the first enabled
// visible item.
func (l *List) SetVisible(indexes []int) {
	visible := make([]*Item, 0, len(indexes))
	for _, i := range indexes {
		visible = append(visible, l.items[i])
	}
	l.visible = visible

	for _, it := range l.items {
		if it.Element != nil {
			it.Element.SetHidden(!slices.Contains(visible, it))
		}
	}
	if l.cfg.Reorder {
		for _, it := range visible {
			if it.Element != nil && it.Element.Parent() != nil {
				it.Element.Parent().AppendChild(it.Element)
			}
		}
	}

	if l.highlighted != nil && !slices.Contains(visible, l.highlighted) {
		l.ClearHighlight()
		l.MoveFirst()
	}
}

// ShowAll makes every item visible in list order.
func (l *List) ShowAll() {
	all := make([]int, len(l.items))
	for i := range all {
		all[i] = i
	}
	l.SetVisible(all)
}

// HighlightByIndex highlights the item at position i of the visible
// sequence and clears every other highlight. It panics when i is out of
// range. A disabled item is never highlighted; the call then reports
// false and leaves the highlight unchanged.
func (l *List) HighlightByIndex(i int) bool {
	it := l.visible[i]
	if it.Disabled {
		return false
	}
	l.highlight(it)
	return true
}

// Highlight highlights it when it is visible and enabled.
func (l *List) Highlight(it *Item) bool {
	i := slices.Index(l.visible, it)
	if i < 0 {
		return false
	}
	return l.HighlightByIndex(i)
}

// ClearHighlight removes the highlight.
func (l *List) ClearHighlight() {
	if l.highlighted == nil {
		return
	}
	l.setHighlighted(l.highlighted, false)
	l.highlighted = nil
	if l.cfg.Owner != nil {
		l.cfg.Owner.RemoveAttr(markup.AriaActiveDesc)
	}
	if l.cfg.OnHighlight != nil {
		l.cfg.OnHighlight(nil)
	}
}

// MoveNext highlights the next enabled visible item.
func (l *List) MoveNext() bool { return l.move(1) }

// MovePrevious highlights the previous enabled visible item.
func (l *List) MovePrevious() bool { return l.move(-1) }

// MoveFirst highlights the first enabled visible item.
func (l *List) MoveFirst() bool {
	return l.scan(0, 1, len(l.visible))
}

// MoveLast highlights the last enabled visible item.
func (l *List) MoveLast() bool {
	return l.scan(len(l.visible)-1, -1, len(l.visible))
}

func (l *List) move(step int) bool {
	n := len(l.visible)
	cur := l.HighlightedIndex()
	if cur < 0 {
		if step > 0 {
			return l.MoveFirst()
		}
		return l.MoveLast()
	}
	if l.cfg.Policy == Wrap {
		return l.scan((cur+step+n)%n, step, n-1)
	}
	return l.scan(cur+step, step, n)
}

// scan highlights the first enabled item among at most count positions
// starting at start and stepping by step. Positions wrap under the Wrap
// policy and end the scan otherwise.
func (l *List) scan(start, step, count int) bool {
	n := len(l.visible)
	for i, pos := 0, start; i < count; i, pos = i+1, pos+step {
		if l.cfg.Policy == Wrap {
			pos = (pos%n + n) % n
		} else if pos < 0 || pos >= n {
			return false
		}
		if !l.visible[pos].Disabled {
			l.highlight(l.visible[pos])
			return true
		}
	}
	return false
}

// HandleKey applies a navigation key and reports whether it was consumed.
func (l *List) HandleKey(key string) bool {
	next, prev := l.keys()
	var moved bool
	switch {
	case slices.Contains(next, key):
		moved = l.MoveNext()
	case slices.Contains(prev, key):
		moved = l.MovePrevious()
	case key == dom.KeyHome:
		moved = l.MoveFirst()
	case key == dom.KeyEnd:
		moved = l.MoveLast()
	default:
		return false
	}
	if moved {
		l.keyboardScroll()
	}
	return true
}

func (l *List) keys() (next, prev []string) {
	switch l.cfg.Orientation {
	case Horizontal:
		return []string{dom.KeyArrowRight}, []string{dom.KeyArrowLeft}
	case Both:
		return []string{dom.KeyArrowDown, dom.KeyArrowRight}, []string{dom.KeyArrowUp, dom.KeyArrowLeft}
	default:
		return []string{dom.KeyArrowDown}, []string{dom.KeyArrowUp}
	}
}

// OnMouseEnter highlights it unless a keyboard-driven scroll happened
// within the suppression window.
func (l *List) OnMouseEnter(it *Item) {
	if l.keyboardScrolling || it == l.highlighted {
		return
	}
	l.Highlight(it)
}

// KeyboardScrolling reports whether mouse highlighting is suppressed.
func (l *List) KeyboardScrolling() bool { return l.keyboardScrolling }

// keyboardScroll scrolls the highlighted item into view and, when that
// moved the container, suppresses mouse highlighting until the window
// passes without further keyboard scrolling.
func (l *List) keyboardScroll() {
	if !l.ScrollIntoView(l.HighlightedIndex()) {
		return
	}
	l.keyboardScrolling = true
	l.scrollTimer.Stop()
	l.scrollTimer = l.loop.AfterFunc(l.cfg.SuppressWindow, func() {
		l.keyboardScrolling = false
		l.scrollTimer = nil
	})
}

// ScrollIntoView scrolls the container by the minimum amount that brings
// the visible item at position i fully into view, clamped to the
// container's scroll range. It reports whether the container moved.
func (l *List) ScrollIntoView(i int) bool {
	if i < 0 || i >= len(l.visible) || l.visible[i].Element == nil {
		return false
	}
	container := l.cfg.Container
	item := l.visible[i].Element.Rect()
	if item.IsZero() {
		return false
	}
	scrollTop := container.ScrollTop()
	clientHeight := container.ClientHeight()
	top := item.Top() - container.Rect().Top() + scrollTop
	bottom := top + item.Height

	target := scrollTop
	switch {
	case top < scrollTop:
		target = top
	case bottom > scrollTop+clientHeight:
		target = bottom - clientHeight
	}
	target = max(0, min(target, container.ScrollHeight()-clientHeight))
	if target == scrollTop {
		return false
	}
	container.SetScrollTop(target)
	return true
}

// Destroy removes every listener and pending timer.
func (l *List) Destroy() {
	l.scrollTimer.Stop()
	l.scrollTimer = nil
	for _, it := range l.items {
		if it.removeHover != nil {
			it.removeHover()
		}
	}
}

func (l *List) highlight(it *Item) {
	if l.highlighted != it {
		if l.highlighted != nil {
			l.setHighlighted(l.highlighted, false)
		}
		l.highlighted = it
		l.setHighlighted(it, true)
		if l.cfg.OnHighlight != nil {
			l.cfg.OnHighlight(it)
		}
	}
	if it.Element == nil {
		return
	}
	if l.cfg.FocusItems {
		it.Element.Focus()
	} else if l.cfg.Owner != nil && it.Element.ID() != "" {
		l.cfg.Owner.SetAttr(markup.AriaActiveDesc, it.Element.ID())
	}
}

func (l *List) setHighlighted(it *Item, on bool) {
	if it.Element != nil {
		it.Element.ToggleAttr(markup.DataAttrHighlighted, on)
	}
}

// Labels returns the labels of items, for logging and tests.
func Labels(items []*Item) string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
	}
	return strings.Join(labels, ",")
}
