package widget

import (
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
)

// ToggleConfig configures a [Toggle].
type ToggleConfig struct {
	// Widget is markup.WidgetCheckbox or markup.WidgetSwitch.
	Widget   string
	Checked  bool
	Disabled bool
	// Value is submitted while checked. It defaults to "on".
	Value    string
	OnChange func(checked bool)
}

// ToggleConfigFrom reads a checkbox or switch config from root.
func ToggleConfigFrom(root *dom.Element) ToggleConfig {
	cfg := ToggleConfig{
		Widget:   root.AttrOr(markup.DataAttrWidget, markup.WidgetCheckbox),
		Checked:  root.AttrOr(markup.DataAttrState, "") == markup.StateChecked,
		Disabled: root.Disabled(),
		Value:    root.AttrOr(markup.DataAttrValue, "on"),
	}
	if trigger := part(root, markup.PartTrigger); trigger != nil && trigger.Disabled() {
		cfg.Disabled = true
	}
	return cfg
}

// Toggle is a two-state button backing a checkbox or a switch. The hidden
// input carries Value while checked and is empty otherwise.
type Toggle struct {
	root      *dom.Element
	cfg       ToggleConfig
	trigger   *dom.Element
	input     *dom.Element
	checked   bool
	listeners listeners
}

// NewToggle attaches a checkbox or switch to root. The root itself acts as
// the button when it has no trigger part.
func NewToggle(_ *Env, root *dom.Element, cfg ToggleConfig) (*Toggle, error) {
	if cfg.Value == "" {
		cfg.Value = "on"
	}
	trigger := part(root, markup.PartTrigger)
	if trigger == nil {
		trigger = root
	}
	t := &Toggle{
		root:    root,
		cfg:     cfg,
		trigger: trigger,
		input:   part(root, markup.PartInput),
	}
	role := "checkbox"
	if cfg.Widget == markup.WidgetSwitch {
		role = "switch"
	}
	trigger.SetAttr("role", role)
	if cfg.Disabled {
		trigger.SetAttr(markup.AriaDisabled, "true")
	} else {
		t.listeners.on(trigger, dom.EventClick, func(*dom.Event) { t.Toggle() })
		t.listeners.on(trigger, dom.EventKeyDown, func(ev *dom.Event) {
			if ev.Key == dom.KeySpace {
				ev.PreventDefault()
				t.Toggle()
			}
		})
	}
	t.set(cfg.Checked, false)
	return t, nil
}

// Root satisfies [Widget].
func (t *Toggle) Root() *dom.Element { return t.root }

// Checked reports the current state.
func (t *Toggle) Checked() bool { return t.checked }

// Toggle flips the state unless disabled.
func (t *Toggle) Toggle() {
	if t.cfg.Disabled {
		return
	}
	t.set(!t.checked, true)
}

// SetChecked sets the state unless disabled.
func (t *Toggle) SetChecked(checked bool) {
	if t.cfg.Disabled || checked == t.checked {
		return
	}
	t.set(checked, true)
}

func (t *Toggle) set(checked, notify bool) {
	t.checked = checked
	state := markup.StateUnchecked
	value := ""
	if checked {
		state = markup.StateChecked
		value = t.cfg.Value
	}
	for _, el := range []*dom.Element{t.root, t.trigger} {
		el.SetAttr(markup.DataAttrState, state)
	}
	for _, ind := range parts(t.root, markup.PartIndicator) {
		ind.SetAttr(markup.DataAttrState, state)
		ind.SetHidden(!checked && t.cfg.Widget == markup.WidgetCheckbox)
	}
	t.trigger.SetAttr(markup.AriaChecked, boolAttr(checked))
	setInput(t.input, value)
	if notify && t.cfg.OnChange != nil {
		t.cfg.OnChange(checked)
	}
}

// Destroy satisfies [Widget].
func (t *Toggle) Destroy() { t.listeners.release() }
