package widget

import (
	"log/slog"
	"time"

	"github.com/stolasapp/facet/internal/disclosure"
	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/position"
)

const (
	defaultOffset  = 4
	defaultPadding = 8
	// hideDelay covers the closing fade of floating content.
	hideDelay = 150 * time.Millisecond
)

// positionFrom reads data-side, data-align and data-offset.
func positionFrom(el *dom.Element, side position.Side, align position.Align) position.Options {
	opts := position.Options{
		Side:    side,
		Align:   align,
		Offset:  markup.Float(el, markup.DataAttrOffset, defaultOffset),
		Padding: defaultPadding,
		Flip:    true,
		Shift:   true,
	}
	if v, ok := el.Attr(markup.DataAttrSide); ok {
		opts.Side = position.ParseSide(v)
	}
	if v, ok := el.Attr(markup.DataAttrAlign); ok {
		opts.Align = position.ParseAlign(v)
	}
	return opts
}

// PopoverConfig configures a [Popover].
type PopoverConfig struct {
	Position  position.Options
	Modal     bool
	HideDelay time.Duration
	// OnOpenChange is called after every transition.
	OnOpenChange func(open bool)
}

// PopoverConfigFrom reads a popover config from root.
func PopoverConfigFrom(root *dom.Element) PopoverConfig {
	return PopoverConfig{
		Position:  positionFrom(root, position.SideBottom, position.AlignCenter),
		Modal:     markup.Bool(root, markup.DataAttrModal),
		HideDelay: markup.Duration(root, markup.DataAttrCloseDelay, hideDelay),
	}
}

// Popover is click-toggled floating content.
type Popover struct {
	root       *dom.Element
	disclosure *disclosure.Disclosure
	listeners  listeners
}

// NewPopover attaches a popover to root.
func NewPopover(env *Env, root *dom.Element, cfg PopoverConfig) (*Popover, error) {
	trigger := part(root, markup.PartTrigger)
	if trigger == nil {
		return nil, missing(markup.WidgetPopover, markup.PartTrigger)
	}
	content := part(root, markup.PartContent)
	if content == nil {
		return nil, missing(markup.WidgetPopover, markup.PartContent)
	}
	trigger.SetAttr(markup.AriaControls, env.ensureID(content, "popover"))
	trigger.SetAttr(markup.AriaHasPopup, "dialog")

	logger := env.logger(markup.WidgetPopover, root)
	p := &Popover{root: root}
	opts := cfg.Position
	d, err := disclosure.New(disclosure.Config{
		Trigger:        trigger,
		Content:        content,
		Container:      root,
		Stack:          env.Stack,
		DismissOutside: true,
		DismissEscape:  true,
		Position:       &opts,
		Modal:          cfg.Modal,
		MoveFocus:      true,
		RestoreFocus:   true,
		HideDelay:      cfg.HideDelay,
		Expanded:       true,
		OnOpen:         func() { notify(cfg.OnOpenChange, true) },
		OnClose:        func(dismiss.Reason) { notify(cfg.OnOpenChange, false) },
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}
	p.disclosure = d

	p.listeners.on(trigger, dom.EventClick, func(*dom.Event) { d.Toggle() })
	for _, closer := range parts(root, markup.PartClose) {
		p.listeners.on(closer, dom.EventClick, func(*dom.Event) { d.Close(dismiss.ReasonProgrammatic) })
	}
	logger.Debug("mounted", slog.Bool("modal", cfg.Modal))
	return p, nil
}

// Root satisfies [Widget].
func (p *Popover) Root() *dom.Element { return p.root }

// IsOpen reports whether the popover is open.
func (p *Popover) IsOpen() bool { return p.disclosure.IsOpen() }

// Open opens the popover.
func (p *Popover) Open() { p.disclosure.Open() }

// Close closes the popover.
func (p *Popover) Close() { p.disclosure.Close(dismiss.ReasonProgrammatic) }

// Destroy satisfies [Widget].
func (p *Popover) Destroy() {
	p.listeners.release()
	p.disclosure.Destroy()
}

func notify(fn func(bool), open bool) {
	if fn != nil {
		fn(open)
	}
}
