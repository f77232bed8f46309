package widget

import (
	"time"

	"github.com/stolasapp/facet/internal/disclosure"
	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/position"
)

const (
	defaultOpenDelay      = 700 * time.Millisecond
	defaultHoverCardClose = 300 * time.Millisecond
)

// HoverConfig configures a [Hover].
type HoverConfig struct {
	// Widget is markup.WidgetTooltip or markup.WidgetHoverCard.
	Widget     string
	OpenDelay  time.Duration
	CloseDelay time.Duration
	Position   position.Options
	// Interactive keeps the content open while the pointer is over it.
	Interactive bool
}

// TooltipConfigFrom reads a tooltip config from root.
func TooltipConfigFrom(root *dom.Element) HoverConfig {
	return HoverConfig{
		Widget:     markup.WidgetTooltip,
		OpenDelay:  markup.Duration(root, markup.DataAttrOpenDelay, defaultOpenDelay),
		CloseDelay: markup.Duration(root, markup.DataAttrCloseDelay, 0),
		Position:   positionFrom(root, position.SideTop, position.AlignCenter),
	}
}

// HoverCardConfigFrom reads a hover card config from root.
func HoverCardConfigFrom(root *dom.Element) HoverConfig {
	return HoverConfig{
		Widget:      markup.WidgetHoverCard,
		OpenDelay:   markup.Duration(root, markup.DataAttrOpenDelay, defaultOpenDelay),
		CloseDelay:  markup.Duration(root, markup.DataAttrCloseDelay, defaultHoverCardClose),
		Position:    positionFrom(root, position.SideBottom, position.AlignCenter),
		Interactive: true,
	}
}

// Hover is content shown while the pointer rests on, or focus is in, the
// trigger: tooltips and hover cards.
type Hover struct {
	root       *dom.Element
	cfg        HoverConfig
	loop       *dom.Loop
	disclosure *disclosure.Disclosure
	listeners  listeners

	openTimer  *dom.Timer
	closeTimer *dom.Timer
}

// NewHover attaches a tooltip or hover card to root.
func NewHover(env *Env, root *dom.Element, cfg HoverConfig) (*Hover, error) {
	if cfg.Widget == "" {
		cfg.Widget = markup.WidgetTooltip
	}
	trigger := part(root, markup.PartTrigger)
	if trigger == nil {
		return nil, missing(cfg.Widget, markup.PartTrigger)
	}
	content := part(root, markup.PartContent)
	if content == nil {
		return nil, missing(cfg.Widget, markup.PartContent)
	}
	if cfg.Widget == markup.WidgetTooltip {
		content.SetAttr("role", "tooltip")
		trigger.SetAttr("aria-describedby", env.ensureID(content, "tooltip"))
	}

	h := &Hover{root: root, cfg: cfg, loop: env.Doc.Loop()}
	opts := cfg.Position
	d, err := disclosure.New(disclosure.Config{
		Trigger:       trigger,
		Content:       content,
		Container:     root,
		Stack:         env.Stack,
		DismissEscape: true,
		Position:      &opts,
		Logger:        env.logger(cfg.Widget, root),
	})
	if err != nil {
		return nil, err
	}
	h.disclosure = d

	h.listeners.on(trigger, dom.EventMouseEnter, func(*dom.Event) { h.scheduleOpen(cfg.OpenDelay) })
	h.listeners.on(trigger, dom.EventMouseLeave, func(*dom.Event) { h.scheduleClose() })
	h.listeners.on(trigger, dom.EventFocusIn, func(*dom.Event) { h.scheduleOpen(0) })
	h.listeners.on(trigger, dom.EventFocusOut, func(*dom.Event) { h.scheduleClose() })
	h.listeners.on(trigger, dom.EventPointerDown, func(*dom.Event) {
		if cfg.Widget == markup.WidgetTooltip {
			h.cancel()
			d.Close(dismiss.ReasonProgrammatic)
		}
	})
	if cfg.Interactive {
		h.listeners.on(content, dom.EventMouseEnter, func(*dom.Event) { h.cancel() })
		h.listeners.on(content, dom.EventMouseLeave, func(*dom.Event) { h.scheduleClose() })
	}
	return h, nil
}

// Root satisfies [Widget].
func (h *Hover) Root() *dom.Element { return h.root }

// IsOpen reports whether the content is shown.
func (h *Hover) IsOpen() bool { return h.disclosure.IsOpen() }

func (h *Hover) scheduleOpen(delay time.Duration) {
	h.closeTimer.Stop()
	h.closeTimer = nil
	if h.disclosure.IsOpen() || h.openTimer != nil {
		return
	}
	if delay <= 0 {
		h.disclosure.Open()
		return
	}
	h.openTimer = h.loop.AfterFunc(delay, func() {
		h.openTimer = nil
		h.disclosure.Open()
	})
}

func (h *Hover) scheduleClose() {
	h.openTimer.Stop()
	h.openTimer = nil
	if !h.disclosure.IsOpen() || h.closeTimer != nil {
		return
	}
	if h.cfg.CloseDelay <= 0 {
		h.disclosure.Close(dismiss.ReasonProgrammatic)
		return
	}
	h.closeTimer = h.loop.AfterFunc(h.cfg.CloseDelay, func() {
		h.closeTimer = nil
		h.disclosure.Close(dismiss.ReasonProgrammatic)
	})
}

func (h *Hover) cancel() {
	h.openTimer.Stop()
	h.openTimer = nil
	h.closeTimer.Stop()
	h.closeTimer = nil
}

// Destroy satisfies [Widget].
func (h *Hover) Destroy() {
	h.cancel()
	h.listeners.release()
	h.disclosure.Destroy()
}
