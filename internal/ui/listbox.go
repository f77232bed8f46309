package ui

import (
	"cmp"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/search"
)

// Option is one choice of a select, combobox or command palette.
type Option struct {
	Value string
	Label string
	// Group collects options under a labelled heading. Options without a
	// group render before the first group.
	Group       string
	Description string
	Disabled    bool
}

// Affordances are the texts shown while a list is empty, loading or failed.
// Empty fields fall back to English defaults.
type Affordances struct {
	Empty   string
	Loading string
	Error   string
}

func (af Affordances) render(remote bool) templ.Component {
	empty := cmp.Or(af.Empty, "No results found.")
	return group(
		el("div", part(markup.PartEmpty), flag("hidden", true), class(classAffordance)).with(text(empty)),
		when(remote, el("div", part(markup.PartLoading), a(markup.AriaLive, "polite"), flag("hidden", true),
			class(classAffordance)).with(text(cmp.Or(af.Loading, "Searching...")))),
		when(remote, el("div", part(markup.PartError), a("role", "alert"), flag("hidden", true),
			class(cn(classAffordance, "text-destructive"))).with(text(cmp.Or(af.Error, "Search failed.")))),
	)
}

// SelectProps configures [Select].
type SelectProps struct {
	ID          string
	Name        string
	Placeholder string
	Options     []Option
	Values      []string
	Multiple    bool
	// Searchable adds a filter field above the list.
	Searchable bool
	Affordances
	Placement
	Class string
	Attrs templ.Attributes
}

// Select renders a button that opens a list of options.
func Select(p SelectProps) templ.Component {
	value := strings.Join(p.Values, ",")
	label := selectedLabels(p.Options, p.Values)
	return el("div", opt("id", p.ID), facet(markup.WidgetSelect), opt(markup.DataAttrPlaceholder, p.Placeholder),
		opt(markup.DataAttrValue, value), flag(markup.DataAttrMultiple, p.Multiple), class(p.Class),
	).attr(p.Placement.attrs()...).attr(extra(p.Attrs)...).with(
		el("button", a("type", "button"), part(markup.PartTrigger), a("role", "combobox"),
			a(markup.AriaHasPopup, "listbox"), a(markup.AriaExpanded, "false"),
			flag(markup.DataAttrPlaceholder, label == ""), class(cn(classButton, "w-48 justify-between border")),
		).with(el("span", part(markup.PartLabel)).with(text(cmp.Or(label, p.Placeholder)))),
		hiddenInput(p.Name, value),
		el("div", part(markup.PartContent), state(false, markup.StateOpen, markup.StateClosed),
			flag("hidden", true), class(cn(classContent, "p-0")),
		).with(
			when(p.Searchable, el("input", part(markup.PartSearch), a("type", "text"), a("autocomplete", "off"),
				a("placeholder", "Search..."), class(cn(classInput, "rounded-b-none border-0 border-b")))),
			el("div", part(markup.PartList), a("role", "listbox"), flag("aria-multiselectable", p.Multiple),
				class(classList)).with(options(p.Options, p.Values)),
			when(p.Searchable, p.Affordances.render(false)),
		),
	)
}

// ComboboxProps configures [Combobox].
type ComboboxProps struct {
	ID          string
	Name        string
	Placeholder string
	Options     []Option
	Value       string
	// SearchURL adds remote results for each query.
	SearchURL string
	Affordances
	Placement
	Class string
	Attrs templ.Attributes
}

// Combobox renders a text field that filters a list of options.
func Combobox(p ComboboxProps) templ.Component {
	var values []string
	if p.Value != "" {
		values = []string{p.Value}
	}
	return el("div", opt("id", p.ID), facet(markup.WidgetCombobox), opt(markup.DataAttrValue, p.Value),
		opt(markup.DataAttrSearchURL, p.SearchURL), class(cn("relative inline-flex w-64", p.Class)),
	).attr(p.Placement.attrs()...).attr(extra(p.Attrs)...).with(
		el("input", part(markup.PartSearch), a("type", "text"), a("role", "combobox"), a("autocomplete", "off"),
			a(markup.AriaExpanded, "false"), opt("placeholder", p.Placeholder),
			opt("value", selectedLabels(p.Options, values)), class(cn(classInput, "pr-8"))),
		el("button", a("type", "button"), part(markup.PartTrigger), a("tabindex", "-1"),
			a("aria-label", "Show options"), class("absolute right-0 h-9 px-2")).with(text("▾")),
		hiddenInput(p.Name, p.Value),
		el("div", part(markup.PartContent), state(false, markup.StateOpen, markup.StateClosed),
			flag("hidden", true), class(cn(classContent, "w-64 p-0")),
		).with(
			el("div", part(markup.PartList), a("role", "listbox"), class(classList)).with(options(p.Options, values)),
			p.Affordances.render(p.SearchURL != ""),
		),
	)
}

// CommandProps configures [Command].
type CommandProps struct {
	ID          string
	Placeholder string
	Options     []Option
	SearchURL   string
	// Loop wraps keyboard navigation at either end of the list.
	Loop bool
	Affordances
	Class string
	Attrs templ.Attributes
}

// Command renders an always-open palette: a search field over a filtered
// list of actions.
func Command(p CommandProps) templ.Component {
	return el("div", opt("id", p.ID), facet(markup.WidgetCommand), opt(markup.DataAttrSearchURL, p.SearchURL),
		flag(markup.DataAttrLoop, p.Loop), class(cn("flex w-96 flex-col rounded-md border", p.Class)),
	).attr(extra(p.Attrs)...).with(
		el("input", part(markup.PartSearch), a("type", "text"), a("role", "combobox"), a("autocomplete", "off"),
			opt("placeholder", p.Placeholder), class(cn(classInput, "rounded-b-none border-0 border-b"))),
		el("div", part(markup.PartList), a("role", "listbox"), class(classList)).with(options(p.Options, nil)),
		p.Affordances.render(p.SearchURL != ""),
	)
}

// SearchItem renders one remote search result as a list item. The matched
// runes of the label are wrapped in <mark>.
func SearchItem(o Option, positions []int) templ.Component {
	return item(o, false, templ.Raw(search.HighlightHTML(o.Label, positions, "<mark>", "</mark>")))
}

func options(opts []Option, selected []string) templ.Component {
	var loose []templ.Component
	var order []string
	groups := make(map[string][]templ.Component)
	for _, o := range opts {
		rendered := item(o, slices.Contains(selected, o.Value), text(o.Label))
		if o.Group == "" {
			loose = append(loose, rendered)
			continue
		}
		if _, ok := groups[o.Group]; !ok {
			order = append(order, o.Group)
		}
		groups[o.Group] = append(groups[o.Group], rendered)
	}

	out := loose
	for i, name := range order {
		if i > 0 || len(loose) > 0 {
			out = append(out, el("div", part(markup.PartSeparator), a("role", "separator"), class(classSep)))
		}
		out = append(out, el("div", part(markup.PartGroup), a(markup.DataAttrValue, name), a("role", "group")).with(
			el("div", part(markup.PartGroupLabel), class(classLabel)).with(text(name)),
			group(groups[name]...),
		))
	}
	return group(out...)
}

func item(o Option, selected bool, label templ.Component) templ.Component {
	return el("div", part(markup.PartItem), a(markup.DataAttrValue, o.Value), a(markup.DataAttrLabel, o.Label),
		a("role", "option"), a(markup.AriaSelected, boolString(selected)), flag(markup.DataAttrSelected, selected),
		flag(markup.DataAttrDisabled, o.Disabled), class(classItem),
	).with(
		el("span").with(label),
		when(o.Description != "", el("span", class("ml-auto truncate pl-4 text-xs text-muted-foreground")).
			with(text(o.Description))),
	)
}

func selectedLabels(opts []Option, values []string) string {
	var labels []string
	for _, v := range values {
		if i := slices.IndexFunc(opts, func(o Option) bool { return o.Value == v }); i >= 0 {
			labels = append(labels, opts[i].Label)
		}
	}
	return strings.Join(labels, ", ")
}
