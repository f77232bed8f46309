package widget

import (
	"slices"
	"strings"
	"time"

	"github.com/stolasapp/facet/internal/disclosure"
	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/position"
	"github.com/stolasapp/facet/internal/roving"
)

// SelectConfig configures a [Select].
type SelectConfig struct {
	// Multiple keeps the listbox open on commit and toggles values.
	Multiple    bool
	Placeholder string
	// Values are selected at mount.
	Values    []string
	Position  position.Options
	HideDelay time.Duration
	OnChange  func(values []string)
}

// SelectConfigFrom reads a select config from root. Initial values come
// from the hidden input, falling back to data-value.
func SelectConfigFrom(root *dom.Element) SelectConfig {
	values := root.AttrOr(markup.DataAttrValue, "")
	if input := part(root, markup.PartInput); input != nil && input.Value() != "" {
		values = input.Value()
	}
	return SelectConfig{
		Multiple:    markup.Bool(root, markup.DataAttrMultiple),
		Placeholder: root.AttrOr(markup.DataAttrPlaceholder, ""),
		Values:      markup.List(values),
		Position:    positionFrom(root, position.SideBottom, position.AlignStart),
		HideDelay:   markup.Duration(root, markup.DataAttrCloseDelay, hideDelay),
	}
}

// Select is a button that opens a listbox of options. The committed
// selection is mirrored to a hidden input and to the trigger label.
type Select struct {
	root    *dom.Element
	cfg     SelectConfig
	trigger *dom.Element
	label   *dom.Element
	input   *dom.Element
	search  *dom.Element

	disclosure *disclosure.Disclosure
	listbox    *listbox
	values     []string
	listeners  listeners
}

// NewSelect attaches a select to root.
func NewSelect(env *Env, root *dom.Element, cfg SelectConfig) (*Select, error) {
	trigger := part(root, markup.PartTrigger)
	if trigger == nil {
		return nil, missing(markup.WidgetSelect, markup.PartTrigger)
	}
	content := part(root, markup.PartContent)
	if content == nil {
		return nil, missing(markup.WidgetSelect, markup.PartContent)
	}
	s := &Select{
		root:    root,
		cfg:     cfg,
		trigger: trigger,
		label:   part(root, markup.PartLabel),
		input:   part(root, markup.PartInput),
		search:  part(root, markup.PartSearch),
	}
	if s.label == nil {
		s.label = trigger
	}
	if !cfg.Multiple && len(cfg.Values) > 1 {
		cfg.Values = cfg.Values[:1]
	}
	s.values = slices.Clone(cfg.Values)

	owner := s.search
	lb, err := newListbox(env, root, listboxConfig{
		Widget:   markup.WidgetSelect,
		Owner:    owner,
		Policy:   roving.Clamp,
		Selected: func(it *roving.Item) bool { return slices.Contains(s.values, it.Value) },
		OnCommit: s.commit,
	})
	if err != nil {
		return nil, err
	}
	s.listbox = lb
	list := lb.list
	if !list.HasAttr("tabindex") {
		list.SetAttr("tabindex", "-1")
	}
	if cfg.Multiple {
		list.SetAttr("aria-multiselectable", "true")
	}
	trigger.SetAttr("role", "combobox")
	trigger.SetAttr(markup.AriaHasPopup, "listbox")
	trigger.SetAttr(markup.AriaControls, env.ensureID(list, "listbox"))

	opts := cfg.Position
	d, err := disclosure.New(disclosure.Config{
		Trigger:        trigger,
		Content:        content,
		Container:      root,
		Stack:          env.Stack,
		DismissOutside: true,
		DismissEscape:  true,
		DismissTab:     true,
		Position:       &opts,
		MoveFocus:      true,
		InitialFocus: func() *dom.Element {
			if s.search != nil {
				return s.search
			}
			return list
		},
		RestoreFocus: true,
		HideDelay:    cfg.HideDelay,
		Expanded:     true,
		OnClose:      func(dismiss.Reason) { s.reset() },
		Logger:       env.logger(markup.WidgetSelect, root),
	})
	if err != nil {
		return nil, err
	}
	s.disclosure = d

	s.listeners.on(trigger, dom.EventClick, func(*dom.Event) {
		if d.IsOpen() {
			d.Close(dismiss.ReasonProgrammatic)
			return
		}
		s.open(func() bool { return false })
	})
	s.listeners.on(trigger, dom.EventKeyDown, s.onTriggerKey)
	s.listeners.on(content, dom.EventKeyDown, func(ev *dom.Event) {
		lb.handleKey(ev, s.search == nil, s.search == nil)
	})
	if s.search != nil {
		s.listeners.on(s.search, dom.EventInput, func(*dom.Event) { lb.filter(s.search.Value()) })
	}
	s.sync()
	return s, nil
}

// Root satisfies [Widget].
func (s *Select) Root() *dom.Element { return s.root }

// IsOpen reports whether the listbox is shown.
func (s *Select) IsOpen() bool { return s.disclosure.IsOpen() }

// Values returns the committed values in selection order.
func (s *Select) Values() []string { return slices.Clone(s.values) }

// Highlighted returns the highlighted item, or nil.
func (s *Select) Highlighted() *roving.Item { return s.listbox.items.Highlighted() }

// Visible returns the visible items in display order.
func (s *Select) Visible() []*roving.Item { return s.listbox.items.Visible() }

func (s *Select) onTriggerKey(ev *dom.Event) {
	if s.disclosure.IsOpen() {
		return
	}
	items := s.listbox.items
	switch ev.Key {
	case dom.KeyArrowDown, dom.KeyEnter, dom.KeySpace:
		ev.PreventDefault()
		s.open(items.MoveFirst)
	case dom.KeyArrowUp:
		ev.PreventDefault()
		s.open(items.MoveLast)
	}
}

// open shows the listbox and highlights the selection, or calls fallback
// when nothing selected is visible.
func (s *Select) open(fallback func() bool) {
	s.disclosure.Open()
	s.listbox.highlightSelected(fallback)
}

// commit completes every dependent update before the listbox closes.
func (s *Select) commit(it *roving.Item) {
	if s.cfg.Multiple {
		if i := slices.Index(s.values, it.Value); i >= 0 {
			s.values = slices.Delete(s.values, i, i+1)
		} else {
			s.values = append(s.values, it.Value)
		}
	} else {
		s.values = []string{it.Value}
	}
	s.sync()
	if s.cfg.OnChange != nil {
		s.cfg.OnChange(s.Values())
	}
	if !s.cfg.Multiple {
		s.disclosure.Close(dismiss.ReasonSelect)
	}
}

func (s *Select) sync() {
	setInput(s.input, strings.Join(s.values, ","))
	var labels []string
	for _, v := range s.values {
		if it := s.listbox.items.Find(v); it != nil {
			labels = append(labels, it.Label)
		} else {
			labels = append(labels, v)
		}
	}
	if len(labels) == 0 {
		s.label.SetText(s.cfg.Placeholder)
		s.trigger.SetAttr(markup.DataAttrPlaceholder, "")
	} else {
		s.label.SetText(strings.Join(labels, ", "))
		s.trigger.RemoveAttr(markup.DataAttrPlaceholder)
	}
	s.listbox.syncSelected()
}

func (s *Select) reset() {
	if s.search != nil {
		s.search.SetValue("")
	}
	s.listbox.reset()
}

// Destroy satisfies [Widget].
func (s *Select) Destroy() {
	s.listeners.release()
	s.listbox.destroy()
	s.disclosure.Destroy()
}
