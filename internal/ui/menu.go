package ui

import (
	"github.com/a-h/templ"

	"github.com/stolasapp/facet/internal/markup"
)

// MenuItemKind distinguishes the entries of a menu.
type MenuItemKind int

// Menu item kinds.
const (
	MenuAction MenuItemKind = iota
	MenuCheckbox
	MenuRadio
	MenuSeparator
	MenuSub
)

// MenuItem is one entry of a [Menu]. Items is used by MenuSub only and
// Group by MenuRadio only.
type MenuItem struct {
	Kind     MenuItemKind
	Value    string
	Label    string
	Group    string
	Checked  bool
	Disabled bool
	Items    []MenuItem
}

// MenuProps configures [Menu].
type MenuProps struct {
	ID      string
	Trigger templ.Component
	Items   []MenuItem
	Placement
	Class string
	Attrs templ.Attributes
}

// Menu renders a dropdown menu with optional nested submenus.
func Menu(p MenuProps) templ.Component {
	return el("div", opt("id", p.ID), facet(markup.WidgetMenu), class(cn("relative inline-block", p.Class))).
		attr(p.Placement.attrs()...).attr(extra(p.Attrs)...).with(
		trigger("menu", p.Trigger),
		el("div", part(markup.PartContent), a("role", "menu"), state(false, markup.StateOpen, markup.StateClosed),
			flag("hidden", true), class(cn(classContent, "min-w-48 p-1"))).with(menuItems(p.Items)...),
	)
}

func menuItems(items []MenuItem) []templ.Component {
	out := make([]templ.Component, 0, len(items))
	for _, it := range items {
		switch it.Kind {
		case MenuSeparator:
			out = append(out, el("div", part(markup.PartSeparator), a("role", "separator"), class(classSep)))
		case MenuSub:
			out = append(out, el("div", part(markup.PartSub)).with(
				el("div", part(markup.PartSubTrigger), a(markup.DataAttrValue, it.Value), a(markup.DataAttrLabel, it.Label), a("role", "menuitem"),
					a(markup.AriaHasPopup, "menu"), a(markup.AriaExpanded, "false"), flag(markup.DataAttrDisabled, it.Disabled),
					class(cn(classItem, "justify-between"))).with(text(it.Label), el("span").with(text("›"))),
				el("div", part(markup.PartSubContent), a("role", "menu"), state(false, markup.StateOpen, markup.StateClosed),
					flag("hidden", true), class(cn(classContent, "min-w-40 p-1"))).with(menuItems(it.Items)...),
			))
		case MenuCheckbox, MenuRadio:
			name, role := markup.PartCheckboxItem, "menuitemcheckbox"
			if it.Kind == MenuRadio {
				name, role = markup.PartRadioItem, "menuitemradio"
			}
			out = append(out, el("div", part(name), a(markup.DataAttrValue, it.Value), a(markup.DataAttrLabel, it.Label), opt(markup.DataAttrGroup, it.Group),
				a("role", role), a(markup.AriaChecked, boolString(it.Checked)),
				state(it.Checked, markup.StateChecked, markup.StateUnchecked), flag(markup.DataAttrDisabled, it.Disabled),
				class(cn(classItem, "pl-8"))).with(
				el("span", part(markup.PartIndicator), class("absolute left-2")).with(when(it.Checked, text("✓"))),
				text(it.Label),
			))
		default:
			out = append(out, el("div", part(markup.PartItem), a(markup.DataAttrValue, it.Value), a(markup.DataAttrLabel, it.Label), a("role", "menuitem"),
				flag(markup.DataAttrDisabled, it.Disabled), class(classItem)).with(text(it.Label)))
		}
	}
	return out
}
