package widget

import (
	"slices"
	"strings"

	"github.com/stolasapp/facet/internal/disclosure"
	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/roving"
)

// CollapsibleConfig configures a [Collapsible].
type CollapsibleConfig struct {
	Open         bool
	Disabled     bool
	OnOpenChange func(open bool)
}

// CollapsibleConfigFrom reads a collapsible config from root.
func CollapsibleConfigFrom(root *dom.Element) CollapsibleConfig {
	return CollapsibleConfig{
		Open:     root.AttrOr(markup.DataAttrState, "") == markup.StateOpen,
		Disabled: root.Disabled(),
	}
}

// Collapsible is an inline region shown and hidden by its trigger.
type Collapsible struct {
	root       *dom.Element
	disclosure *disclosure.Disclosure
	listeners  listeners
}

// NewCollapsible attaches a collapsible to root.
func NewCollapsible(env *Env, root *dom.Element, cfg CollapsibleConfig) (*Collapsible, error) {
	trigger := part(root, markup.PartTrigger)
	if trigger == nil {
		return nil, missing(markup.WidgetCollapsible, markup.PartTrigger)
	}
	content := part(root, markup.PartContent)
	if content == nil {
		return nil, missing(markup.WidgetCollapsible, markup.PartContent)
	}
	trigger.SetAttr(markup.AriaControls, env.ensureID(content, "collapsible"))

	c := &Collapsible{root: root}
	d, err := disclosure.New(disclosure.Config{
		Trigger:   trigger,
		Content:   content,
		Container: root,
		Expanded:  true,
		OnOpen:    func() { notify(cfg.OnOpenChange, true) },
		OnClose:   func(dismiss.Reason) { notify(cfg.OnOpenChange, false) },
		Logger:    env.logger(markup.WidgetCollapsible, root),
	})
	if err != nil {
		return nil, err
	}
	c.disclosure = d
	if cfg.Open {
		d.Open()
	}
	if !cfg.Disabled {
		c.listeners.on(trigger, dom.EventClick, func(*dom.Event) { d.Toggle() })
	}
	return c, nil
}

// Root satisfies [Widget].
func (c *Collapsible) Root() *dom.Element { return c.root }

// IsOpen reports whether the content is shown.
func (c *Collapsible) IsOpen() bool { return c.disclosure.IsOpen() }

// Toggle flips the collapsible.
func (c *Collapsible) Toggle() { c.disclosure.Toggle() }

// Destroy satisfies [Widget].
func (c *Collapsible) Destroy() {
	c.listeners.release()
	c.disclosure.Destroy()
}

// AccordionConfig configures an [Accordion].
type AccordionConfig struct {
	// Multiple lets several items be open at once.
	Multiple bool
	// Collapsible lets the open item of a single accordion be closed.
	Collapsible bool
	// Values are opened at mount.
	Values   []string
	OnChange func(values []string)
}

// AccordionConfigFrom reads an accordion config from root. Initially open
// values come from the hidden input, falling back to data-value.
func AccordionConfigFrom(root *dom.Element) AccordionConfig {
	values := root.AttrOr(markup.DataAttrValue, "")
	if input := part(root, markup.PartInput); input != nil && input.Value() != "" {
		values = input.Value()
	}
	return AccordionConfig{
		Multiple:    markup.Bool(root, markup.DataAttrMultiple),
		Collapsible: markup.Bool(root, markup.DataAttrCollapsible),
		Values:      markup.List(values),
	}
}

type accordionItem struct {
	value      string
	disclosure *disclosure.Disclosure
}

// Accordion is a stack of collapsible sections.
type Accordion struct {
	root      *dom.Element
	cfg       AccordionConfig
	input     *dom.Element
	items     []*accordionItem
	triggers  *roving.List
	listeners listeners
}

// NewAccordion attaches an accordion to root.
func NewAccordion(env *Env, root *dom.Element, cfg AccordionConfig) (*Accordion, error) {
	a := &Accordion{root: root, cfg: cfg, input: part(root, markup.PartInput)}
	logger := env.logger(markup.WidgetAccordion, root)

	var triggers []roving.Item
	for _, el := range parts(root, markup.PartItem) {
		value := el.AttrOr(markup.DataAttrValue, "")
		trigger := partIn(root, el, markup.PartTrigger)
		if trigger == nil {
			return nil, &StructureError{Widget: markup.WidgetAccordion, Part: markup.PartTrigger, Detail: "item " + value}
		}
		content := partIn(root, el, markup.PartContent)
		if content == nil {
			return nil, &StructureError{Widget: markup.WidgetAccordion, Part: markup.PartContent, Detail: "item " + value}
		}
		trigger.SetAttr(markup.AriaControls, env.ensureID(content, "accordion"))
		d, err := disclosure.New(disclosure.Config{
			Trigger:   trigger,
			Content:   content,
			Container: el,
			Expanded:  true,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		item := &accordionItem{value: value, disclosure: d}
		a.items = append(a.items, item)

		disabled := el.Disabled() || trigger.Disabled()
		triggers = append(triggers, roving.Item{Element: trigger, Value: value, Disabled: disabled})
		if !disabled {
			a.listeners.on(trigger, dom.EventClick, func(*dom.Event) { a.Toggle(item.value) })
		}
	}
	if len(a.items) == 0 {
		return nil, missing(markup.WidgetAccordion, markup.PartItem)
	}

	a.triggers = roving.New(roving.Config{
		Container:   root,
		Policy:      roving.Wrap,
		FocusItems:  true,
		IgnoreHover: true,
	}, triggers)
	for _, it := range a.triggers.Items() {
		a.listeners.on(it.Element, dom.EventKeyDown, func(ev *dom.Event) {
			if a.triggers.HandleKey(ev.Key) {
				ev.PreventDefault()
			}
		})
		a.listeners.on(it.Element, dom.EventFocusIn, func(*dom.Event) { a.triggers.Highlight(it) })
	}

	for _, value := range cfg.Values {
		if item := a.find(value); item != nil {
			item.disclosure.Open()
			if !cfg.Multiple {
				break
			}
		}
	}
	a.sync()
	return a, nil
}

// Root satisfies [Widget].
func (a *Accordion) Root() *dom.Element { return a.root }

// Values returns the open item values in item order.
func (a *Accordion) Values() []string {
	var out []string
	for _, item := range a.items {
		if item.disclosure.IsOpen() {
			out = append(out, item.value)
		}
	}
	return out
}

// Toggle opens a closed item and closes an open one, honoring the single
// and collapsible modes.
func (a *Accordion) Toggle(value string) {
	item := a.find(value)
	if item == nil {
		return
	}
	if item.disclosure.IsOpen() {
		if !a.cfg.Multiple && !a.cfg.Collapsible {
			return
		}
		item.disclosure.Close(dismiss.ReasonProgrammatic)
	} else {
		if !a.cfg.Multiple {
			for _, other := range a.items {
				other.disclosure.Close(dismiss.ReasonProgrammatic)
			}
		}
		item.disclosure.Open()
	}
	a.sync()
	if a.cfg.OnChange != nil {
		a.cfg.OnChange(a.Values())
	}
}

func (a *Accordion) sync() {
	setInput(a.input, strings.Join(a.Values(), ","))
}

func (a *Accordion) find(value string) *accordionItem {
	i := slices.IndexFunc(a.items, func(item *accordionItem) bool { return item.value == value })
	if i < 0 {
		return nil
	}
	return a.items[i]
}

// Destroy satisfies [Widget].
func (a *Accordion) Destroy() {
	a.listeners.release()
	a.triggers.Destroy()
	for _, item := range a.items {
		item.disclosure.Destroy()
	}
}

// partIn returns the first part of root's named parts inside container.
func partIn(root, container *dom.Element, name string) *dom.Element {
	for _, el := range parts(root, name) {
		if container.Contains(el) {
			return el
		}
	}
	return nil
}
