package widget

import (
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/roving"
)

// TabsConfig configures [Tabs].
type TabsConfig struct {
	// Value is the initially active tab. The first enabled tab is used
	// when empty or unknown.
	Value       string
	Orientation roving.Orientation
	// Manual activates tabs on Enter, Space or click only. Otherwise
	// moving focus activates.
	Manual   bool
	OnChange func(value string)
}

// TabsConfigFrom reads a tabs config from root.
func TabsConfigFrom(root *dom.Element) TabsConfig {
	cfg := TabsConfig{
		Value:       root.AttrOr(markup.DataAttrValue, ""),
		Orientation: roving.Horizontal,
		Manual:      root.AttrOr(markup.DataAttrActivation, "") == "manual",
	}
	if input := part(root, markup.PartInput); input != nil && input.Value() != "" {
		cfg.Value = input.Value()
	}
	if root.AttrOr(markup.DataAttrOrientation, "") == "vertical" {
		cfg.Orientation = roving.Vertical
	}
	return cfg
}

// Tabs shows one panel at a time, selected by a strip of triggers.
type Tabs struct {
	root     *dom.Element
	cfg      TabsConfig
	input    *dom.Element
	panels   map[string]*dom.Element
	triggers *roving.List
	active   *roving.Item
	// anchoring is set while the highlight follows focus without
	// activating.
	anchoring bool
	listeners listeners
}

// NewTabs attaches tabs to root. Every trigger must have a panel with the
// same value.
func NewTabs(env *Env, root *dom.Element, cfg TabsConfig) (*Tabs, error) {
	t := &Tabs{
		root:   root,
		cfg:    cfg,
		input:  part(root, markup.PartInput),
		panels: make(map[string]*dom.Element),
	}
	for _, panel := range parts(root, markup.PartPanel) {
		t.panels[panel.AttrOr(markup.DataAttrValue, "")] = panel
	}

	var items []roving.Item
	for _, trigger := range parts(root, markup.PartTrigger) {
		item := roving.ItemFrom(trigger)
		panel, ok := t.panels[item.Value]
		if !ok {
			return nil, &StructureError{Widget: markup.WidgetTabs, Part: markup.PartPanel, Detail: "value " + item.Value}
		}
		trigger.SetAttr("role", "tab")
		trigger.SetAttr(markup.AriaControls, env.ensureID(panel, "panel"))
		panel.SetAttr("role", "tabpanel")
		panel.SetAttr(markup.AriaLabelledBy, env.ensureID(trigger, "tab"))
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, missing(markup.WidgetTabs, markup.PartTrigger)
	}
	if list := part(root, markup.PartList); list != nil {
		list.SetAttr("role", "tablist")
		orientation := "horizontal"
		if cfg.Orientation == roving.Vertical {
			orientation = "vertical"
		}
		list.SetAttr(markup.AriaOrientation, orientation)
	}

	t.triggers = roving.New(roving.Config{
		Container:   root,
		Policy:      roving.Wrap,
		Orientation: cfg.Orientation,
		FocusItems:  true,
		IgnoreHover: true,
		OnHighlight: func(it *roving.Item) {
			if it != nil && !cfg.Manual && !t.anchoring {
				t.activate(it)
			}
		},
	}, items)

	for _, it := range t.triggers.Items() {
		if it.Disabled {
			continue
		}
		t.listeners.on(it.Element, dom.EventClick, func(*dom.Event) {
			t.triggers.Highlight(it)
			t.activate(it)
		})
		t.listeners.on(it.Element, dom.EventKeyDown, func(ev *dom.Event) {
			t.anchoring = true
			t.triggers.Highlight(it)
			t.anchoring = false
			switch {
			case t.triggers.HandleKey(ev.Key):
				ev.PreventDefault()
			case ev.Key == dom.KeyEnter || ev.Key == dom.KeySpace:
				ev.PreventDefault()
				t.activate(it)
			}
		})
	}

	initial := t.triggers.Find(cfg.Value)
	if initial == nil || initial.Disabled {
		initial = nil
		for _, it := range t.triggers.Items() {
			if !it.Disabled {
				initial = it
				break
			}
		}
	}
	if initial != nil {
		t.activate(initial)
	}
	return t, nil
}

// Root satisfies [Widget].
func (t *Tabs) Root() *dom.Element { return t.root }

// Value returns the active tab value.
func (t *Tabs) Value() string {
	if t.active == nil {
		return ""
	}
	return t.active.Value
}

// Select activates the tab with value.
func (t *Tabs) Select(value string) bool {
	it := t.triggers.Find(value)
	if it == nil || it.Disabled {
		return false
	}
	t.activate(it)
	return true
}

func (t *Tabs) activate(it *roving.Item) {
	if t.active == it {
		return
	}
	t.active = it
	for _, other := range t.triggers.Items() {
		on := other == it
		state := markup.StateInactive
		tabindex := "-1"
		if on {
			state = markup.StateActive
			tabindex = "0"
		}
		other.Element.SetAttr(markup.DataAttrState, state)
		other.Element.SetAttr(markup.AriaSelected, boolAttr(on))
		other.Element.SetAttr("tabindex", tabindex)
		panel := t.panels[other.Value]
		panel.SetAttr(markup.DataAttrState, state)
		panel.SetHidden(!on)
	}
	setInput(t.input, it.Value)
	if t.cfg.OnChange != nil {
		t.cfg.OnChange(it.Value)
	}
}

// Destroy satisfies [Widget].
func (t *Tabs) Destroy() {
	t.listeners.release()
	t.triggers.Destroy()
}
