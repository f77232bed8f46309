package dom

// Focus moves focus to the element, dispatching focusout on the previously
// focused element and focusin on this one. It is a no-op when the element
// cannot receive focus or already has it.
func (e *Element) Focus() {
	if !e.IsFocusable() || !e.Attached() {
		return
	}
	prev := e.doc.ActiveElement()
	if prev == e {
		return
	}
	if prev != nil {
		prev.dispatch(&Event{Type: EventFocusOut, Target: prev, RelatedTarget: e})
	}
	e.doc.active = e
	e.dispatch(&Event{Type: EventFocusIn, Target: e, RelatedTarget: prev})
}

// Blur removes focus from the element if it has it.
func (e *Element) Blur() {
	if e.doc.ActiveElement() != e {
		return
	}
	e.doc.active = nil
	e.dispatch(&Event{Type: EventFocusOut, Target: e})
}

// HasFocus reports whether the element is the active element.
func (e *Element) HasFocus() bool {
	return e.doc.ActiveElement() == e
}

// PointerDown dispatches a pointerdown event. Unless a listener prevents
// the default action, focus moves to the nearest focusable ancestor-or-self
// or leaves the document when there is none.
func (e *Element) PointerDown() bool {
	ev := &Event{Type: EventPointerDown, Target: e}
	e.dispatch(ev)
	if ev.defaultPrevented {
		return false
	}
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.IsFocusable() {
			cur.Focus()
			return true
		}
	}
	if active := e.doc.ActiveElement(); active != nil {
		active.Blur()
	}
	return true
}

// Click simulates a primary-button click: pointerdown with its focus
// default action followed by click. Disabled elements receive neither.
func (e *Element) Click() {
	if e.HasAttr("disabled") {
		return
	}
	e.PointerDown()
	if !e.Attached() {
		return
	}
	e.dispatch(&Event{Type: EventClick, Target: e})
}

// KeyDown dispatches a keydown event for key to the element. An unprevented
// Tab moves focus from the element focused after dispatch to the next
// tabbable element in document order, or the previous one with shift,
// leaving the document past either end. It reports whether the default
// action ran.
func (e *Element) KeyDown(key string, shift bool) bool {
	ev := &Event{Type: EventKeyDown, Target: e, Key: key, Shift: shift}
	e.dispatch(ev)
	if ev.defaultPrevented {
		return false
	}
	if key == KeyTab {
		from := e.doc.ActiveElement()
		if from == nil {
			from = e
		}
		e.doc.tab(from, shift)
	}
	return true
}

// KeyDown dispatches key to the active element, or to <body> when nothing
// has focus.
func (d *Document) KeyDown(key string, shift bool) bool {
	target := d.ActiveElement()
	if target == nil {
		target = d.Body()
	}
	return target.KeyDown(key, shift)
}

func (d *Document) tab(from *Element, backward bool) {
	order := d.Tabbables()
	idx := -1
	for i, el := range order {
		if el == from {
			idx = i
			break
		}
	}
	next := idx + 1
	if backward {
		next = idx - 1
		if idx == -1 {
			next = len(order) - 1
		}
	}
	if next < 0 || next >= len(order) {
		if active := d.ActiveElement(); active != nil {
			active.Blur()
		}
		return
	}
	order[next].Focus()
}

// Hover dispatches mouseenter to the element.
func (e *Element) Hover() {
	e.dispatch(&Event{Type: EventMouseEnter, Target: e})
}

// Leave dispatches mouseleave to the element.
func (e *Element) Leave() {
	e.dispatch(&Event{Type: EventMouseLeave, Target: e})
}

// Type appends text to the element's value one character at a time,
// dispatching an input event after each.
func (e *Element) Type(text string) {
	for _, r := range text {
		e.SetValue(e.Value() + string(r))
		e.dispatch(&Event{Type: EventInput, Target: e})
	}
}

// Clear empties the element's value and dispatches an input event.
func (e *Element) Clear() {
	e.SetValue("")
	e.dispatch(&Event{Type: EventInput, Target: e})
}
