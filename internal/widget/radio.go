package widget

import (
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/roving"
)

// RadioGroupConfig configures a [RadioGroup].
type RadioGroupConfig struct {
	Value       string
	Orientation roving.Orientation
	Disabled    bool
	OnChange    func(value string)
}

// RadioGroupConfigFrom reads a radio group config from root. Arrow keys of
// both axes navigate unless data-orientation narrows them.
func RadioGroupConfigFrom(root *dom.Element) RadioGroupConfig {
	cfg := RadioGroupConfig{
		Value:       root.AttrOr(markup.DataAttrValue, ""),
		Orientation: roving.Both,
		Disabled:    root.Disabled(),
	}
	if input := part(root, markup.PartInput); input != nil && input.Value() != "" {
		cfg.Value = input.Value()
	}
	switch root.AttrOr(markup.DataAttrOrientation, "") {
	case "vertical":
		cfg.Orientation = roving.Vertical
	case "horizontal":
		cfg.Orientation = roving.Horizontal
	}
	return cfg
}

// RadioGroup is a set of mutually exclusive items where moving focus with
// the arrow keys also selects.
type RadioGroup struct {
	root      *dom.Element
	cfg       RadioGroupConfig
	input     *dom.Element
	items     *roving.List
	value     string
	anchoring bool
	listeners listeners
}

// NewRadioGroup attaches a radio group to root.
func NewRadioGroup(_ *Env, root *dom.Element, cfg RadioGroupConfig) (*RadioGroup, error) {
	els := parts(root, markup.PartItem)
	if len(els) == 0 {
		return nil, missing(markup.WidgetRadioGroup, markup.PartItem)
	}
	r := &RadioGroup{
		root:  root,
		cfg:   cfg,
		input: part(root, markup.PartInput),
	}
	root.SetAttr("role", "radiogroup")
	items := make([]roving.Item, 0, len(els))
	for _, el := range els {
		el.SetAttr("role", "radio")
		item := roving.ItemFrom(el)
		if cfg.Disabled {
			item.Disabled = true
		}
		if item.Disabled {
			el.SetAttr(markup.AriaDisabled, "true")
		}
		items = append(items, item)
	}
	r.items = roving.New(roving.Config{
		Container:   root,
		Policy:      roving.Wrap,
		Orientation: cfg.Orientation,
		FocusItems:  true,
		IgnoreHover: true,
		OnHighlight: func(it *roving.Item) {
			if it != nil && !r.anchoring {
				r.Select(it.Value)
			}
		},
	}, items)

	for _, it := range r.items.Items() {
		if it.Disabled {
			continue
		}
		r.listeners.on(it.Element, dom.EventClick, func(*dom.Event) { r.items.Highlight(it) })
		r.listeners.on(it.Element, dom.EventKeyDown, func(ev *dom.Event) {
			switch ev.Key {
			case dom.KeySpace:
				ev.PreventDefault()
				r.Select(it.Value)
			case dom.KeyHome, dom.KeyEnd:
			default:
				r.anchor(it)
				if r.items.HandleKey(ev.Key) {
					ev.PreventDefault()
				}
			}
		})
	}
	r.sync(cfg.Value)
	return r, nil
}

// Root satisfies [Widget].
func (r *RadioGroup) Root() *dom.Element { return r.root }

// Value returns the checked value, empty when none is checked.
func (r *RadioGroup) Value() string { return r.value }

// Select checks the enabled item with value.
func (r *RadioGroup) Select(value string) bool {
	it := r.items.Find(value)
	if it == nil || it.Disabled {
		return false
	}
	if value == r.value {
		return true
	}
	r.sync(value)
	if r.cfg.OnChange != nil {
		r.cfg.OnChange(value)
	}
	return true
}

// anchor moves the highlight to the focused item without selecting it,
// so arrow keys step from there.
func (r *RadioGroup) anchor(it *roving.Item) {
	r.anchoring = true
	r.items.Highlight(it)
	r.anchoring = false
}

// sync marks value checked. With nothing checked the first enabled item
// takes the tab stop.
func (r *RadioGroup) sync(value string) {
	if it := r.items.Find(value); it == nil || it.Disabled {
		value = ""
	}
	r.value = value
	stop := value
	if stop == "" {
		for _, it := range r.items.Items() {
			if !it.Disabled {
				stop = it.Value
				break
			}
		}
	}
	for _, it := range r.items.Items() {
		on := value != "" && it.Value == value
		state := markup.StateUnchecked
		if on {
			state = markup.StateChecked
		}
		it.Element.SetAttr(markup.DataAttrState, state)
		it.Element.SetAttr(markup.AriaChecked, boolAttr(on))
		tabindex := "-1"
		if it.Value == stop {
			tabindex = "0"
		}
		it.Element.SetAttr("tabindex", tabindex)
	}
	setInput(r.input, value)
}

// Destroy satisfies [Widget].
func (r *RadioGroup) Destroy() {
	r.listeners.release()
	r.items.Destroy()
}
