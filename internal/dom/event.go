package dom

import "slices"

// Event types dispatched by the runtime.
const (
	EventClick       = "click"
	EventPointerDown = "pointerdown"
	EventKeyDown     = "keydown"
	EventFocusIn     = "focusin"
	EventFocusOut    = "focusout"
	EventInput       = "input"
	EventChange      = "change"
	EventMouseEnter  = "mouseenter"
	EventMouseLeave  = "mouseleave"
	EventScroll      = "scroll"
	EventResize      = "resize"

	// EventGeometry is dispatched on an element whose rect changed.
	EventGeometry = "facet:geometry"
)

// Key names carried by keydown events.
const (
	KeyArrowDown  = "ArrowDown"
	KeyArrowUp    = "ArrowUp"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
	KeyEnter      = "Enter"
	KeySpace      = " "
	KeyEscape     = "Escape"
	KeyTab        = "Tab"
)

// Event is a dispatched UI event.
type Event struct {
	Type string
	// Target is the element the event was dispatched to. It is nil for
	// document-level events such as resize.
	Target *Element
	// CurrentTarget is the element whose listener is running, nil while
	// document listeners run.
	CurrentTarget *Element
	// RelatedTarget is the element gaining focus for focusout, and losing
	// focus for focusin.
	RelatedTarget *Element
	Key           string
	Shift         bool
	// Detail carries event-specific data for synthetic events.
	Detail any

	defaultPrevented bool
	stopped          bool
}

// PreventDefault cancels the event's default action.
func (ev *Event) PreventDefault() { ev.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool { return ev.defaultPrevented }

// StopPropagation prevents the event from reaching further ancestors and
// the document.
func (ev *Event) StopPropagation() { ev.stopped = true }

// bubbles reports whether events of this type travel to ancestors.
func bubbles(eventType string) bool {
	switch eventType {
	case EventMouseEnter, EventMouseLeave, EventGeometry, EventScroll:
		return false
	default:
		return true
	}
}

// reachesDocument reports whether document listeners see the event. Element
// scrolls reach the document so positioned content can follow any
// scrolling ancestor.
func reachesDocument(eventType string) bool {
	return bubbles(eventType) || eventType == EventScroll
}

type listener struct {
	fn      func(*Event)
	removed bool
}

type listenerSet map[string][]*listener

func (s *listenerSet) add(eventType string, fn func(*Event)) func() {
	if *s == nil {
		*s = make(listenerSet)
	}
	l := &listener{fn: fn}
	(*s)[eventType] = append((*s)[eventType], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		(*s)[eventType] = slices.DeleteFunc((*s)[eventType], func(other *listener) bool {
			return other == l
		})
	}
}

func (s listenerSet) count(eventType string) int {
	return len(s[eventType])
}

// run invokes a snapshot of the listeners so that listeners added or
// removed during dispatch do not disturb iteration.
func (s listenerSet) run(ev *Event) {
	for _, l := range slices.Clone(s[ev.Type]) {
		if l.removed {
			continue
		}
		l.fn(ev)
	}
}

// AddEventListener registers fn for events of eventType dispatched to the
// element or, for bubbling types, to its descendants. The returned func
// removes the listener and is safe to call repeatedly.
func (e *Element) AddEventListener(eventType string, fn func(*Event)) (remove func()) {
	return e.listeners.add(eventType, fn)
}

// ListenerCount returns the number of live listeners on the element.
func (e *Element) ListenerCount(eventType string) int {
	return e.listeners.count(eventType)
}

// Dispatch sends ev to the element, bubbling when the event type does.
// It reports whether the default action should proceed.
func (e *Element) Dispatch(ev *Event) bool {
	ev.Target = e
	e.dispatch(ev)
	return !ev.defaultPrevented
}

func (e *Element) dispatch(ev *Event) {
	for cur := e; cur != nil; cur = cur.Parent() {
		ev.CurrentTarget = cur
		cur.listeners.run(ev)
		if ev.stopped || !bubbles(ev.Type) {
			break
		}
	}
	ev.CurrentTarget = nil
	if !ev.stopped && reachesDocument(ev.Type) {
		e.doc.listeners.run(ev)
	}
}

func (d *Document) dispatchDocument(ev *Event) {
	d.listeners.run(ev)
}
