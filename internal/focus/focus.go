// Package focus finds focusable elements, moves focus and traps it within a
// container.
package focus

import "github.com/stolasapp/facet/internal/dom"

// Focusables returns the focusable descendants of container in document
// order. Disabled elements, elements with a negative tabindex, hidden inputs
// and hidden subtrees are skipped.
func Focusables(container *dom.Element) []*dom.Element {
	if container == nil {
		return nil
	}
	return container.Tabbables()
}

// Focus moves focus to el. It reports whether el ended up focused.
func Focus(el *dom.Element) bool {
	if el == nil {
		return false
	}
	el.Focus()
	return el.HasFocus()
}

// First focuses the first focusable descendant of container, falling back
// to the container itself.
func First(container *dom.Element) bool {
	if els := Focusables(container); len(els) > 0 {
		return Focus(els[0])
	}
	return Focus(container)
}

// Last focuses the last focusable descendant of container, falling back to
// the container itself.
func Last(container *dom.Element) bool {
	if els := Focusables(container); len(els) > 0 {
		return Focus(els[len(els)-1])
	}
	return Focus(container)
}

// Restore moves focus back to el if it is still attached to its document.
func Restore(el *dom.Element) bool {
	if el == nil || !el.Attached() {
		return false
	}
	return Focus(el)
}

// Trap keeps keyboard focus inside container: Tab on the last focusable
// element wraps to the first, Shift+Tab on the first wraps to the last, and
// focus that lands outside the container is pulled back in. The returned
// func releases the trap and is safe to call repeatedly.
func Trap(container *dom.Element) (release func()) {
	doc := container.Document()

	removeKey := doc.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) {
		if ev.Key != dom.KeyTab || ev.DefaultPrevented() {
			return
		}
		els := Focusables(container)
		if len(els) == 0 {
			ev.PreventDefault()
			return
		}
		first, last := els[0], els[len(els)-1]
		active := doc.ActiveElement()
		switch {
		case !container.Contains(active):
			ev.PreventDefault()
			Focus(first)
		case ev.Shift && (active == first || active == container):
			ev.PreventDefault()
			Focus(last)
		case !ev.Shift && active == last:
			ev.PreventDefault()
			Focus(first)
		}
	})

	pulling := false
	removeFocus := doc.AddEventListener(dom.EventFocusIn, func(ev *dom.Event) {
		if pulling || container.Contains(ev.Target) || !container.Attached() {
			return
		}
		pulling = true
		defer func() { pulling = false }()
		if !First(container) {
			ev.Target.Blur()
		}
	})

	released := false
	return func() {
		if released {
			return
		}
		released = true
		removeKey()
		removeFocus()
	}
}
