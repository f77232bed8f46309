package widget

import (
	"github.com/stolasapp/facet/internal/disclosure"
	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/position"
	"github.com/stolasapp/facet/internal/roving"
)

// ComboboxConfig configures a [Combobox].
type ComboboxConfig struct {
	// SearchURL extends local matches with a remote search endpoint.
	SearchURL string
	// Value is selected at mount.
	Value    string
	Position position.Options
	OnChange func(value string)
}

// ComboboxConfigFrom reads a combobox config from root.
func ComboboxConfigFrom(root *dom.Element) ComboboxConfig {
	value := root.AttrOr(markup.DataAttrValue, "")
	if input := part(root, markup.PartInput); input != nil && input.Value() != "" {
		value = input.Value()
	}
	return ComboboxConfig{
		SearchURL: root.AttrOr(markup.DataAttrSearchURL, ""),
		Value:     value,
		Position:  positionFrom(root, position.SideBottom, position.AlignStart),
	}
}

// Combobox is a text field that filters a popup listbox as the user types.
// Focus stays in the field while the highlight moves through the options.
type Combobox struct {
	root   *dom.Element
	cfg    ComboboxConfig
	search *dom.Element
	input  *dom.Element

	disclosure *disclosure.Disclosure
	listbox    *listbox
	value      string
	listeners  listeners
}

// NewCombobox attaches a combobox to root.
func NewCombobox(env *Env, root *dom.Element, cfg ComboboxConfig) (*Combobox, error) {
	field := part(root, markup.PartSearch)
	if field == nil {
		return nil, missing(markup.WidgetCombobox, markup.PartSearch)
	}
	content := part(root, markup.PartContent)
	if content == nil {
		return nil, missing(markup.WidgetCombobox, markup.PartContent)
	}
	c := &Combobox{
		root:   root,
		cfg:    cfg,
		search: field,
		input:  part(root, markup.PartInput),
		value:  cfg.Value,
	}
	lb, err := newListbox(env, root, listboxConfig{
		Widget:    markup.WidgetCombobox,
		Owner:     field,
		Policy:    roving.Clamp,
		SearchURL: cfg.SearchURL,
		Selected:  func(it *roving.Item) bool { return it.Value == c.value },
		OnCommit:  c.commit,
	})
	if err != nil {
		return nil, err
	}
	c.listbox = lb
	field.SetAttr("role", "combobox")
	field.SetAttr("aria-autocomplete", "list")
	field.SetAttr(markup.AriaControls, env.ensureID(lb.list, "listbox"))

	toggle := part(root, markup.PartTrigger)
	opts := cfg.Position
	d, err := disclosure.New(disclosure.Config{
		Trigger:        field,
		Content:        content,
		Container:      root,
		Stack:          env.Stack,
		DismissOutside: true,
		DismissEscape:  true,
		DismissTab:     true,
		Contains: func(el *dom.Element) bool {
			return toggle != nil && toggle.Contains(el)
		},
		Position: &opts,
		Anchor:   root,
		Expanded: true,
		OnClose:  func(dismiss.Reason) { lb.reset() },
		Logger:   env.logger(markup.WidgetCombobox, root),
	})
	if err != nil {
		return nil, err
	}
	c.disclosure = d

	c.listeners.on(field, dom.EventInput, func(*dom.Event) {
		d.Open()
		lb.filter(field.Value())
	})
	c.listeners.on(field, dom.EventKeyDown, c.onKey)
	if toggle != nil {
		c.listeners.on(toggle, dom.EventClick, func(*dom.Event) {
			if d.IsOpen() {
				d.Close(dismiss.ReasonProgrammatic)
			} else {
				c.open(func() bool { return false })
			}
			field.Focus()
		})
	}
	if it := lb.items.Find(c.value); it != nil && field.Value() == "" {
		field.SetValue(it.Label)
	}
	setInput(c.input, c.value)
	return c, nil
}

// Root satisfies [Widget].
func (c *Combobox) Root() *dom.Element { return c.root }

// IsOpen reports whether the listbox is shown.
func (c *Combobox) IsOpen() bool { return c.disclosure.IsOpen() }

// Value returns the committed value.
func (c *Combobox) Value() string { return c.value }

// Visible returns the visible items in display order.
func (c *Combobox) Visible() []*roving.Item { return c.listbox.items.Visible() }

// Highlighted returns the highlighted item, or nil.
func (c *Combobox) Highlighted() *roving.Item { return c.listbox.items.Highlighted() }

func (c *Combobox) onKey(ev *dom.Event) {
	if !c.disclosure.IsOpen() {
		switch ev.Key {
		case dom.KeyArrowDown:
			ev.PreventDefault()
			c.open(c.listbox.items.MoveFirst)
		case dom.KeyArrowUp:
			ev.PreventDefault()
			c.open(c.listbox.items.MoveLast)
		}
		return
	}
	c.listbox.handleKey(ev, false, false)
}

func (c *Combobox) open(fallback func() bool) {
	c.disclosure.Open()
	c.listbox.highlightSelected(fallback)
}

func (c *Combobox) commit(it *roving.Item) {
	c.value = it.Value
	c.search.SetValue(it.Label)
	setInput(c.input, c.value)
	c.listbox.syncSelected()
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(c.value)
	}
	c.disclosure.Close(dismiss.ReasonSelect)
}

// Destroy satisfies [Widget].
func (c *Combobox) Destroy() {
	c.listeners.release()
	c.listbox.destroy()
	c.disclosure.Destroy()
}
