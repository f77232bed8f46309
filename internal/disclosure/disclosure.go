// Package disclosure implements the open/closed state machine shared by
// every widget with a trigger and a show/hide-able content region.
package disclosure

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/focus"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/position"
)

// Reason describes why a disclosure closed.
type Reason = dismiss.Reason

// Config is resolved once when the disclosure is created.
type Config struct {
	Trigger *dom.Element
	Content *dom.Element
	// Container receives data-state alongside trigger and content.
	Container *dom.Element
	// Companions are shown and hidden together with the content, such as
	// a modal overlay.
	Companions []*dom.Element

	// Stack registers the open disclosure for outside/Escape/Tab dismissal.
	// Dismissal is disabled when nil.
	Stack          *dismiss.Stack
	DismissOutside bool
	DismissEscape  bool
	DismissTab     bool
	// Contains extends the region treated as inside the disclosure, for
	// example to a nested submenu rendered elsewhere.
	Contains func(*dom.Element) bool

	// Position attaches floating positioning against Anchor (the trigger
	// by default) while open.
	Position *position.Options
	Anchor   *dom.Element

	// Modal traps focus inside the content while open. A modal
	// disclosure restores focus even after an outside pointer-down, which
	// can only land on its inert overlay.
	Modal bool
	// MoveFocus focuses InitialFocus, or the first focusable element of the
	// content, after FocusDelay.
	MoveFocus    bool
	InitialFocus func() *dom.Element
	FocusDelay   time.Duration
	// RestoreFocus returns focus to the trigger on close, except when the
	// disclosure was dismissed by an outside pointer-down.
	RestoreFocus bool
	// HideDelay keeps the content rendered for the closing transition.
	HideDelay time.Duration
	// Expanded toggles aria-expanded on the trigger.
	Expanded bool

	OnOpen  func()
	OnClose func(Reason)

	Logger *slog.Logger
}

// Disclosure is an open/closed state machine. Its zero state is closed.
type Disclosure struct {
	cfg    Config
	loop   *dom.Loop
	logger *slog.Logger

	open      bool
	destroyed bool

	detachPosition func()
	layer          *dismiss.Layer
	releaseTrap    func()
	hideTimer      *dom.Timer
	focusTimer     *dom.Timer
}

// New creates a closed disclosure. It fails when the trigger or content is
// missing.
func New(cfg Config) (*Disclosure, error) {
	if cfg.Trigger == nil {
		return nil, fmt.Errorf("disclosure trigger: %w", markup.ErrMissingElement)
	}
	if cfg.Content == nil {
		return nil, fmt.Errorf("disclosure content: %w", markup.ErrMissingElement)
	}
	if cfg.Anchor == nil {
		cfg.Anchor = cfg.Trigger
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Disclosure{
		cfg:    cfg,
		loop:   cfg.Content.Document().Loop(),
		logger: logger,
	}, nil
}

// IsOpen reports whether the disclosure is open.
func (d *Disclosure) IsOpen() bool { return d.open }

// Trigger returns the trigger element.
func (d *Disclosure) Trigger() *dom.Element { return d.cfg.Trigger }

// Content returns the content element.
func (d *Disclosure) Content() *dom.Element { return d.cfg.Content }

// Contains reports whether el is inside the trigger, the content or the
// configured extension.
func (d *Disclosure) Contains(el *dom.Element) bool {
	if d.cfg.Trigger.Contains(el) || d.cfg.Content.Contains(el) {
		return true
	}
	return d.cfg.Contains != nil && d.cfg.Contains(el)
}

// Open shows the content. It is a no-op when already open.
func (d *Disclosure) Open() {
	if d.open || d.destroyed {
		return
	}
	d.open = true
	d.hideTimer.Stop()
	d.hideTimer = nil

	d.setHidden(false)
	d.setState(markup.StateOpen)

	if d.cfg.Position != nil && d.detachPosition == nil {
		d.detachPosition = position.Attach(d.cfg.Anchor, d.cfg.Content, *d.cfg.Position)
	}
	if d.cfg.Stack != nil {
		d.layer = d.cfg.Stack.Push(dismiss.LayerOptions{
			Contains:  d.Contains,
			OnDismiss: d.Close,
			Outside:   d.cfg.DismissOutside,
			Escape:    d.cfg.DismissEscape,
			Tab:       d.cfg.DismissTab,
		})
	}
	if d.cfg.Modal {
		d.releaseTrap = focus.Trap(d.cfg.Content)
	}
	if d.cfg.MoveFocus {
		if d.cfg.FocusDelay > 0 {
			d.focusTimer = d.loop.AfterFunc(d.cfg.FocusDelay, d.focusContent)
		} else {
			d.focusContent()
		}
	}
	if d.cfg.OnOpen != nil {
		d.cfg.OnOpen()
	}
}

// Close hides the content. It is a no-op when already closed, so a
// disclosure that was never opened never moves focus.
func (d *Disclosure) Close(reason Reason) {
	if !d.open {
		return
	}
	d.open = false
	d.release()
	d.setState(markup.StateClosed)

	if d.cfg.OnClose != nil {
		d.cfg.OnClose(reason)
	}

	if d.cfg.HideDelay > 0 {
		d.hideTimer = d.loop.AfterFunc(d.cfg.HideDelay, func() {
			d.hideTimer = nil
			d.setHidden(true)
		})
	} else {
		d.setHidden(true)
	}

	if d.cfg.RestoreFocus && (reason != dismiss.ReasonOutside || d.cfg.Modal) {
		d.restoreFocus()
	}
	d.logger.Debug("disclosure closed", slog.String("reason", reason.String()))
}

// Toggle opens a closed disclosure and closes an open one.
func (d *Disclosure) Toggle() {
	if d.open {
		d.Close(dismiss.ReasonProgrammatic)
	} else {
		d.Open()
	}
}

// Destroy releases every subscription and timer without restoring focus.
// The disclosure cannot be reopened.
func (d *Disclosure) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.release()
	d.hideTimer.Stop()
	d.hideTimer = nil
	if d.open {
		d.open = false
		d.setState(markup.StateClosed)
		d.setHidden(true)
	}
}

func (d *Disclosure) release() {
	d.focusTimer.Stop()
	d.focusTimer = nil
	if d.detachPosition != nil {
		d.detachPosition()
		d.detachPosition = nil
	}
	if d.layer != nil {
		d.layer.Remove()
		d.layer = nil
	}
	if d.releaseTrap != nil {
		d.releaseTrap()
		d.releaseTrap = nil
	}
}

func (d *Disclosure) setHidden(hidden bool) {
	d.cfg.Content.SetHidden(hidden)
	for _, el := range d.cfg.Companions {
		el.SetHidden(hidden)
	}
}

func (d *Disclosure) setState(state string) {
	for _, el := range append([]*dom.Element{d.cfg.Trigger, d.cfg.Content, d.cfg.Container}, d.cfg.Companions...) {
		if el != nil {
			el.SetAttr(markup.DataAttrState, state)
		}
	}
	if d.cfg.Expanded {
		d.cfg.Trigger.SetAttr(markup.AriaExpanded, fmt.Sprint(state == markup.StateOpen))
	}
}

func (d *Disclosure) focusContent() {
	d.focusTimer = nil
	if !d.open {
		return
	}
	if d.cfg.InitialFocus != nil {
		if target := d.cfg.InitialFocus(); focus.Focus(target) {
			return
		}
	}
	focus.First(d.cfg.Content)
}

// restoreFocus returns focus to the trigger when focus is inside the
// disclosure or has left the document.
func (d *Disclosure) restoreFocus() {
	active := d.cfg.Content.Document().ActiveElement()
	if active != nil && !d.Contains(active) {
		return
	}
	focus.Restore(d.cfg.Trigger)
}
