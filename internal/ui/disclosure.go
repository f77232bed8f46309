package ui

import (
	"slices"
	"strings"

	"github.com/a-h/templ"

	"github.com/stolasapp/facet/internal/markup"
)

// CollapsibleProps configures [Collapsible].
type CollapsibleProps struct {
	ID      string
	Trigger templ.Component
	Content templ.Component
	Open    bool
	Class   string
	Attrs   templ.Attributes
}

// Collapsible renders a trigger that shows and hides a region in place.
func Collapsible(p CollapsibleProps) templ.Component {
	return el("div", opt("id", p.ID), facet(markup.WidgetCollapsible),
		state(p.Open, markup.StateOpen, markup.StateClosed), class(p.Class),
	).attr(extra(p.Attrs)...).with(
		el("button", a("type", "button"), part(markup.PartTrigger),
			a(markup.AriaExpanded, boolString(p.Open)), class(cn(classButton, "px-0"))).with(p.Trigger),
		el("div", part(markup.PartContent), state(p.Open, markup.StateOpen, markup.StateClosed),
			flag("hidden", !p.Open)).with(p.Content),
	)
}

// Section is one trigger and panel pair of an accordion or tab set.
type Section struct {
	Value    string
	Title    string
	Content  templ.Component
	Disabled bool
}

// AccordionProps configures [Accordion].
type AccordionProps struct {
	ID string
	// Name submits the open values with a form when set.
	Name     string
	Sections []Section
	Open     []string
	// Multiple allows more than one section open at once.
	Multiple bool
	// Collapsible allows closing the last open section in single mode.
	Collapsible bool
	Class       string
	Attrs       templ.Attributes
}

// Accordion renders stacked sections, each expanding its own panel.
func Accordion(p AccordionProps) templ.Component {
	sections := make([]templ.Component, 0, len(p.Sections))
	for _, s := range p.Sections {
		open := slices.Contains(p.Open, s.Value)
		sections = append(sections, el("div", part(markup.PartItem), a(markup.DataAttrValue, s.Value),
			flag(markup.DataAttrDisabled, s.Disabled), state(open, markup.StateOpen, markup.StateClosed),
			class("border-b"),
		).with(
			el("h3", class("flex")).with(
				el("button", a("type", "button"), part(markup.PartTrigger), a(markup.AriaExpanded, boolString(open)),
					flag("disabled", s.Disabled), class("flex flex-1 items-center justify-between py-4 text-sm font-medium"),
				).with(text(s.Title)),
			),
			el("div", part(markup.PartContent), a("role", "region"), state(open, markup.StateOpen, markup.StateClosed),
				flag("hidden", !open), class("pb-4 text-sm")).with(s.Content),
		))
	}
	return el("div", opt("id", p.ID), facet(markup.WidgetAccordion),
		opt(markup.DataAttrValue, strings.Join(p.Open, ",")),
		flag(markup.DataAttrMultiple, p.Multiple), flag(markup.DataAttrCollapsible, p.Collapsible), class(p.Class),
	).attr(extra(p.Attrs)...).with(
		when(p.Name != "", hiddenInput(p.Name, strings.Join(p.Open, ","))),
		group(sections...),
	)
}

// TabsProps configures [Tabs].
type TabsProps struct {
	ID       string
	Tabs     []Section
	Value    string
	Vertical bool
	// Manual requires Enter or Space to activate a focused tab.
	Manual bool
	Class  string
	Attrs  templ.Attributes
}

// Tabs renders a tab strip and one panel per tab.
func Tabs(p TabsProps) templ.Component {
	value := p.Value
	if value == "" {
		for _, t := range p.Tabs {
			if !t.Disabled {
				value = t.Value
				break
			}
		}
	}
	orientation, activation := "horizontal", ""
	if p.Vertical {
		orientation = "vertical"
	}
	if p.Manual {
		activation = "manual"
	}

	triggers := make([]templ.Component, 0, len(p.Tabs))
	panels := make([]templ.Component, 0, len(p.Tabs))
	for _, t := range p.Tabs {
		active := t.Value == value
		triggers = append(triggers, el("button", a("type", "button"), part(markup.PartTrigger),
			a(markup.DataAttrValue, t.Value), a("role", "tab"), a(markup.AriaSelected, boolString(active)),
			state(active, markup.StateActive, markup.StateInactive), flag("disabled", t.Disabled),
			class("rounded-sm px-3 py-1 text-sm font-medium data-[state=active]:bg-background data-[state=active]:shadow"),
		).with(text(t.Title)))
		panels = append(panels, el("div", part(markup.PartPanel), a(markup.DataAttrValue, t.Value),
			a("role", "tabpanel"), state(active, markup.StateActive, markup.StateInactive),
			flag("hidden", !active), class("mt-2")).with(t.Content))
	}
	return el("div", opt("id", p.ID), facet(markup.WidgetTabs), opt(markup.DataAttrValue, value),
		a(markup.DataAttrOrientation, orientation), opt(markup.DataAttrActivation, activation), class(p.Class),
	).attr(extra(p.Attrs)...).with(
		el("div", part(markup.PartList), a("role", "tablist"), a(markup.AriaOrientation, orientation),
			class("inline-flex items-center rounded-md bg-muted p-1")).with(triggers...),
		group(panels...),
	)
}

func hiddenInput(name, value string) templ.Component {
	return el("input", a("type", "hidden"), part(markup.PartInput), a("name", name), a("value", value))
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
