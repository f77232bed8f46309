// Package dismiss closes open layers on outside pointer-down, Escape and
// Tab.
package dismiss

import "github.com/stolasapp/facet/internal/dom"

// Reason describes why a layer was dismissed.
type Reason int

// Reasons.
const (
	// ReasonProgrammatic is a close requested by code or by the widget's
	// own controls.
	ReasonProgrammatic Reason = iota
	// ReasonOutside is a pointer-down outside the layer.
	ReasonOutside
	// ReasonEscape is the Escape key.
	ReasonEscape
	// ReasonTab is the Tab key moving focus away.
	ReasonTab
	// ReasonSelect is the commit of an item inside the layer.
	ReasonSelect
)

func (r Reason) String() string {
	switch r {
	case ReasonOutside:
		return "outside"
	case ReasonEscape:
		return "escape"
	case ReasonTab:
		return "tab"
	case ReasonSelect:
		return "select"
	default:
		return "programmatic"
	}
}

// Stack tracks the open layers of one document in the order they opened.
// While at least one layer is open the stack holds exactly one document
// pointerdown listener and one keydown listener.
type Stack struct {
	doc         *dom.Document
	layers      []*Layer
	unsubscribe func()
}

// NewStack creates an empty stack for doc.
func NewStack(doc *dom.Document) *Stack {
	return &Stack{doc: doc}
}

// LayerOptions configures a layer.
type LayerOptions struct {
	// Contains reports whether an element belongs to the layer, typically
	// its trigger or content.
	Contains func(*dom.Element) bool
	// OnDismiss is called when the layer is dismissed. It is expected to
	// close the owning widget, which removes the layer.
	OnDismiss func(Reason)
	// Outside enables dismissal on pointer-down outside the layer.
	Outside bool
	// Escape enables dismissal on the Escape key.
	Escape bool
	// Tab enables dismissal when Tab is pressed.
	Tab bool
}

// Layer is an open entry on a [Stack].
type Layer struct {
	stack   *Stack
	opts    LayerOptions
	removed bool
}

// Push adds a layer on top of the stack.
func (s *Stack) Push(opts LayerOptions) *Layer {
	l := &Layer{stack: s, opts: opts}
	s.layers = append(s.layers, l)
	if len(s.layers) == 1 {
		s.subscribe()
	}
	return l
}

// Len returns the number of open layers.
func (s *Stack) Len() int { return len(s.layers) }

// Top returns the most recently opened layer, or nil.
func (s *Stack) Top() *Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

func (s *Stack) subscribe() {
	removePointer := s.doc.AddEventListener(dom.EventPointerDown, s.onPointerDown)
	removeKey := s.doc.AddEventListener(dom.EventKeyDown, s.onKeyDown)
	s.unsubscribe = func() {
		removePointer()
		removeKey()
	}
}

// onPointerDown dismisses the topmost layer that allows outside dismissal,
// passing over layers that do not. A layer containing the target ends the
// walk: the pointer-down is inside it and everything beneath.
func (s *Stack) onPointerDown(ev *dom.Event) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		switch {
		case l.contains(ev.Target):
			return
		case l.opts.Outside:
			l.dismiss(ReasonOutside)
			return
		}
	}
}

func (s *Stack) onKeyDown(ev *dom.Event) {
	top := s.Top()
	if top == nil || ev.DefaultPrevented() {
		return
	}
	switch ev.Key {
	case dom.KeyEscape:
		if top.opts.Escape {
			ev.PreventDefault()
			top.dismiss(ReasonEscape)
		}
	case dom.KeyTab:
		if top.opts.Tab {
			top.dismiss(ReasonTab)
		}
	}
}

// IsTop reports whether the layer is the topmost open layer.
func (l *Layer) IsTop() bool {
	return !l.removed && l.stack.Top() == l
}

// Remove takes the layer off its stack. It is safe to call repeatedly.
func (l *Layer) Remove() {
	if l.removed {
		return
	}
	l.removed = true
	s := l.stack
	for i, other := range s.layers {
		if other == l {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			break
		}
	}
	if len(s.layers) == 0 && s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (l *Layer) contains(el *dom.Element) bool {
	return el != nil && l.opts.Contains != nil && l.opts.Contains(el)
}

func (l *Layer) dismiss(reason Reason) {
	if l.opts.OnDismiss != nil {
		l.opts.OnDismiss(reason)
	}
}
