package ui

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/stolasapp/facet/internal/markup"
)

// Placement positions floating content relative to its trigger. Empty
// fields keep the runtime defaults.
type Placement struct {
	Side   string
	Align  string
	Offset float64
}

func (p Placement) attrs() []attr {
	out := []attr{opt(markup.DataAttrSide, p.Side), opt(markup.DataAttrAlign, p.Align)}
	if p.Offset != 0 {
		out = append(out, a(markup.DataAttrOffset, strconv.FormatFloat(p.Offset, 'f', -1, 64)))
	}
	return out
}

func delay(name string, d time.Duration) attr {
	if d <= 0 {
		return attr{skip: true}
	}
	return a(name, d.String())
}

// PopoverProps configures [Popover].
type PopoverProps struct {
	ID      string
	Trigger templ.Component
	Content templ.Component
	// CloseLabel renders a close button inside the content when set.
	CloseLabel string
	Placement
	Modal bool
	Class string
	Attrs templ.Attributes
}

// Popover renders a trigger and floating content that opens on click.
func Popover(p PopoverProps) templ.Component {
	return el("div",
		opt("id", p.ID), facet(markup.WidgetPopover), flag(markup.DataAttrModal, p.Modal), class(p.Class),
	).attr(p.Placement.attrs()...).attr(extra(p.Attrs)...).with(
		trigger("dialog", p.Trigger),
		el("div", part(markup.PartContent), a("role", "dialog"), state(false, markup.StateOpen, markup.StateClosed),
			flag("hidden", true), class(cn(classContent, "w-72")),
		).with(p.Content, closeButton(p.CloseLabel)),
	)
}

// DialogProps configures [Dialog].
type DialogProps struct {
	ID          string
	Trigger     templ.Component
	Title       string
	Description string
	Content     templ.Component
	CloseLabel  string
	// KeepOnOutside disables dismissal by clicking the overlay.
	KeepOnOutside bool
	Class         string
	Attrs         templ.Attributes
}

// Dialog renders a modal window behind a trigger.
func Dialog(p DialogProps) templ.Component {
	dismiss := attr{skip: true}
	if p.KeepOnOutside {
		dismiss = a(markup.DataAttrDismissOutside, "false")
	}
	return el("div", opt("id", p.ID), facet(markup.WidgetDialog), dismiss, class(p.Class)).
		attr(extra(p.Attrs)...).with(
		trigger("dialog", p.Trigger),
		el("div", part(markup.PartOverlay), flag("hidden", true),
			class("fixed inset-0 z-50 bg-black/80")),
		el("div", part(markup.PartContent), a("role", "dialog"), a(markup.AriaModal, "true"),
			state(false, markup.StateOpen, markup.StateClosed), flag("hidden", true),
			class(cn(classContent, "fixed left-1/2 top-1/2 w-full max-w-lg -translate-x-1/2 -translate-y-1/2 p-6")),
		).with(
			when(p.Title != "", el("h2", class("text-lg font-semibold")).with(text(p.Title))),
			when(p.Description != "", el("p", class("text-sm text-muted-foreground")).with(text(p.Description))),
			p.Content,
			closeButton(p.CloseLabel),
		),
	)
}

// HoverProps configures [Tooltip] and [HoverCard].
type HoverProps struct {
	ID      string
	Trigger templ.Component
	Content templ.Component
	Placement
	OpenDelay  time.Duration
	CloseDelay time.Duration
	Class      string
	Attrs      templ.Attributes
}

// Tooltip renders a short label shown while the trigger is hovered or
// focused.
func Tooltip(p HoverProps) templ.Component {
	return hover(markup.WidgetTooltip, "tooltip", "rounded-md bg-primary px-3 py-1.5 text-xs text-primary-foreground", p)
}

// HoverCard renders a rich preview shown while the trigger is hovered.
func HoverCard(p HoverProps) templ.Component {
	return hover(markup.WidgetHoverCard, "dialog", cn(classContent, "w-64"), p)
}

func hover(name, role, contentClass string, p HoverProps) templ.Component {
	return el("div",
		opt("id", p.ID), facet(name), class(cn("inline-block", p.Class)),
		delay(markup.DataAttrOpenDelay, p.OpenDelay), delay(markup.DataAttrCloseDelay, p.CloseDelay),
	).attr(p.Placement.attrs()...).attr(extra(p.Attrs)...).with(
		el("span", part(markup.PartTrigger), a("tabindex", "0")).with(p.Trigger),
		el("div", part(markup.PartContent), a("role", role),
			state(false, markup.StateOpen, markup.StateClosed), flag("hidden", true), class(contentClass),
		).with(p.Content),
	)
}

func trigger(popup string, label templ.Component) templ.Component {
	return el("button", a("type", "button"), part(markup.PartTrigger),
		a(markup.AriaHasPopup, popup), a(markup.AriaExpanded, "false"), class(classButton),
	).with(label)
}

func closeButton(label string) templ.Component {
	if label == "" {
		return nil
	}
	return el("button", a("type", "button"), part(markup.PartClose), class(cn(classButton, "mt-4"))).
		with(text(label))
}
