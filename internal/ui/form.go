package ui

import (
	"cmp"
	"encoding/json"
	"reflect"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/widget"
)

// ToggleProps configures [Checkbox] and [Switch].
type ToggleProps struct {
	ID       string
	Name     string
	Label    string
	Checked  bool
	Disabled bool
	// Value is submitted while checked; the runtime defaults it to "on".
	Value string
	Class string
	Attrs templ.Attributes
}

// Checkbox renders a two-state check box with a label.
func Checkbox(p ToggleProps) templ.Component {
	return toggle(markup.WidgetCheckbox, "checkbox",
		"peer size-4 shrink-0 rounded-sm border data-[state=checked]:bg-primary",
		el("span", part(markup.PartIndicator), state(p.Checked, markup.StateChecked, markup.StateUnchecked),
			flag("hidden", !p.Checked), class("flex items-center justify-center text-xs")).with(text("✓")),
		p)
}

// Switch renders an on/off switch with a label.
func Switch(p ToggleProps) templ.Component {
	return toggle(markup.WidgetSwitch, "switch",
		"inline-flex h-5 w-9 shrink-0 items-center rounded-full border-2 border-transparent bg-input data-[state=checked]:bg-primary",
		el("span", part(markup.PartIndicator), state(p.Checked, markup.StateChecked, markup.StateUnchecked),
			class("block size-4 rounded-full bg-background shadow transition-transform data-[state=checked]:translate-x-4")),
		p)
}

func toggle(name, role, buttonClass string, indicator templ.Component, p ToggleProps) templ.Component {
	checked := state(p.Checked, markup.StateChecked, markup.StateUnchecked)
	value := ""
	if p.Checked {
		value = cmp.Or(p.Value, "on")
	}
	return el("div", opt("id", p.ID), facet(name), checked, opt(markup.DataAttrValue, p.Value),
		flag(markup.DataAttrDisabled, p.Disabled), class(cn("flex items-center gap-2", p.Class)),
	).attr(extra(p.Attrs)...).with(
		el("button", a("type", "button"), part(markup.PartTrigger), a("role", role),
			a(markup.AriaChecked, boolString(p.Checked)), checked, flag("disabled", p.Disabled), class(buttonClass),
		).with(indicator),
		when(p.Name != "", hiddenInput(p.Name, value)),
		when(p.Label != "", el("span", class("text-sm font-medium")).with(text(p.Label))),
	)
}

// RadioGroupProps configures [RadioGroup].
type RadioGroupProps struct {
	ID       string
	Name     string
	Options  []Option
	Value    string
	Vertical bool
	Disabled bool
	Class    string
	Attrs    templ.Attributes
}

// RadioGroup renders a set of mutually exclusive choices.
func RadioGroup(p RadioGroupProps) templ.Component {
	orientation := "horizontal"
	if p.Vertical {
		orientation = "vertical"
	}
	radios := make([]templ.Component, 0, len(p.Options))
	for _, o := range p.Options {
		checked := o.Value == p.Value
		radios = append(radios, el("div", part(markup.PartItem), a(markup.DataAttrValue, o.Value),
			a(markup.DataAttrLabel, o.Label), a("role", "radio"), a(markup.AriaChecked, boolString(checked)),
			state(checked, markup.StateChecked, markup.StateUnchecked), flag(markup.DataAttrDisabled, o.Disabled),
			class("flex cursor-default items-center gap-2 text-sm data-[disabled]:opacity-50"),
		).with(
			el("span", class("size-4 rounded-full border data-[state=checked]:border-4")),
			text(o.Label),
		))
	}
	return el("div", opt("id", p.ID), facet(markup.WidgetRadioGroup), opt(markup.DataAttrValue, p.Value),
		a(markup.DataAttrOrientation, orientation), a("role", "radiogroup"), flag(markup.DataAttrDisabled, p.Disabled),
		class(cn("flex gap-3", p.Class)),
	).attr(extra(p.Attrs)...).with(
		when(p.Name != "", hiddenInput(p.Name, p.Value)),
		group(radios...),
	)
}

// SliderProps configures [Slider]. A zero Max renders 100.
type SliderProps struct {
	ID       string
	Name     string
	Min      float64
	Max      float64
	Step     float64
	Value    float64
	Label    string
	Disabled bool
	Class    string
	Attrs    templ.Attributes
}

// Slider renders a track and a draggable, keyboard-operable thumb.
func Slider(p SliderProps) templ.Component {
	if p.Max == 0 && p.Min == 0 {
		p.Max = 100
	}
	if p.Step <= 0 {
		p.Step = 1
	}
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	pct := 0.0
	if span := p.Max - p.Min; span > 0 {
		pct = (p.Value - p.Min) / span * 100
	}
	return el("div", opt("id", p.ID), facet(markup.WidgetSlider), a(markup.DataAttrMin, num(p.Min)),
		a(markup.DataAttrMax, num(p.Max)), a(markup.DataAttrStep, num(p.Step)), a(markup.DataAttrValue, num(p.Value)),
		flag(markup.DataAttrDisabled, p.Disabled), flag("disabled", p.Disabled),
		class(cn("relative flex h-5 w-64 touch-none select-none items-center", p.Class)),
	).attr(extra(p.Attrs)...).with(
		el("div", part(markup.PartTrack), class("relative h-1.5 w-full grow rounded-full bg-primary/20")).with(
			el("div", part(markup.PartRange), a("style", "width: "+num(pct)+"%"),
				class("absolute h-full rounded-full bg-primary")),
		),
		el("span", part(markup.PartThumb), a("role", "slider"), opt("aria-label", p.Label),
			a(markup.AriaValueMin, num(p.Min)), a(markup.AriaValueMax, num(p.Max)), a(markup.AriaValueNow, num(p.Value)),
			a("tabindex", "0"), a("style", "left: "+num(pct)+"%"),
			class("absolute block size-4 -translate-x-1/2 rounded-full border bg-background shadow")),
		when(p.Name != "", hiddenInput(p.Name, num(p.Value))),
	)
}

// DatePickerProps configures [DatePicker].
type DatePickerProps struct {
	ID          string
	Name        string
	Placeholder string
	Value       time.Time
	Calendar    widget.CalendarOptions
	Placement
	Class string
	Attrs templ.Attributes
}

// DatePicker renders a trigger and a calendar popover. The day grid is
// generated by the runtime when the popover opens.
func DatePicker(p DatePickerProps) templ.Component {
	value, label := "", p.Placeholder
	if !p.Value.IsZero() {
		value = p.Value.Format(time.DateOnly)
		label = p.Value.Format(cmp.Or(p.Calendar.Format, widget.DefaultDateFormat))
	}
	cal := ""
	if raw, err := json.Marshal(p.Calendar); err == nil && !reflect.ValueOf(p.Calendar).IsZero() {
		cal = string(raw)
	}
	return el("div", opt("id", p.ID), facet(markup.WidgetDatePicker), opt(markup.DataAttrPlaceholder, p.Placeholder),
		opt(markup.DataAttrValue, value), opt(markup.DataAttrCalendar, cal), class(p.Class),
	).attr(p.Placement.attrs()...).attr(extra(p.Attrs)...).with(
		el("button", a("type", "button"), part(markup.PartTrigger), a(markup.AriaHasPopup, "dialog"),
			a(markup.AriaExpanded, "false"), flag(markup.DataAttrPlaceholder, value == ""),
			class(cn(classButton, "w-56 justify-start border"))).with(
			el("span", part(markup.PartLabel)).with(text(label)),
		),
		hiddenInput(p.Name, value),
		el("div", part(markup.PartContent), a("role", "dialog"), state(false, markup.StateOpen, markup.StateClosed),
			flag("hidden", true), class(cn(classContent, "w-auto p-3"))).with(
			el("div", class("flex items-center justify-between pb-2")).with(
				el("button", a("type", "button"), part(markup.PartPrev), a("aria-label", "Previous month"),
					class("size-7 rounded-md border")).with(text("‹")),
				el("span", part(markup.PartHeading), a(markup.AriaLive, "polite"), class("text-sm font-medium")),
				el("button", a("type", "button"), part(markup.PartNext), a("aria-label", "Next month"),
					class("size-7 rounded-md border")).with(text("›")),
			),
			el("div", part(markup.PartGrid), a("role", "grid")),
		),
	)
}

// ThemeToggleProps configures [ThemeToggle].
type ThemeToggleProps struct {
	ID    string
	Label string
	// Dark is the server's view of the current theme.
	Dark  bool
	Class string
	Attrs templ.Attributes
}

// ThemeToggle renders the light/dark switch button.
func ThemeToggle(p ThemeToggleProps) templ.Component {
	return el("button", a("type", "button"), opt("id", p.ID), facet(markup.WidgetThemeToggle),
		a(markup.AriaPressed, boolString(p.Dark)), a("aria-label", cmp.Or(p.Label, "Toggle theme")),
		class(cn(classButton, "size-9 px-0", p.Class)),
	).attr(extra(p.Attrs)...).with(
		el("span", class("dark:hidden")).with(text("☀")),
		el("span", class("hidden dark:inline")).with(text("☾")),
	)
}
