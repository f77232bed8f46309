package widget

import (
	"time"

	"github.com/stolasapp/facet/internal/disclosure"
	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
)

const (
	// dialogHideDelay matches the dialog's fade-out transition.
	dialogHideDelay = 200 * time.Millisecond
	// dialogFocusDelay lets the opening transition start before focus
	// moves inside.
	dialogFocusDelay = 10 * time.Millisecond
)

// DialogConfig configures a [Dialog].
type DialogConfig struct {
	// DismissOutside closes the dialog on overlay clicks.
	DismissOutside bool
	HideDelay      time.Duration
	FocusDelay     time.Duration
	OnOpenChange   func(open bool)
}

// DialogConfigFrom reads a dialog config from root.
func DialogConfigFrom(root *dom.Element) DialogConfig {
	return DialogConfig{
		DismissOutside: root.AttrOr(markup.DataAttrDismissOutside, "true") != "false",
		HideDelay:      markup.Duration(root, markup.DataAttrCloseDelay, dialogHideDelay),
		FocusDelay:     dialogFocusDelay,
	}
}

// Dialog is a modal window with an overlay. Focus is trapped inside while
// open and returns to the trigger on close.
type Dialog struct {
	root       *dom.Element
	disclosure *disclosure.Disclosure
	listeners  listeners
}

// NewDialog attaches a dialog to root.
func NewDialog(env *Env, root *dom.Element, cfg DialogConfig) (*Dialog, error) {
	trigger := part(root, markup.PartTrigger)
	if trigger == nil {
		return nil, missing(markup.WidgetDialog, markup.PartTrigger)
	}
	content := part(root, markup.PartContent)
	if content == nil {
		return nil, missing(markup.WidgetDialog, markup.PartContent)
	}
	content.SetAttr("role", "dialog")
	content.SetAttr(markup.AriaModal, "true")
	if !content.HasAttr("tabindex") {
		content.SetAttr("tabindex", "-1")
	}
	trigger.SetAttr(markup.AriaHasPopup, "dialog")
	trigger.SetAttr(markup.AriaControls, env.ensureID(content, "dialog"))

	var companions []*dom.Element
	overlay := part(root, markup.PartOverlay)
	if overlay != nil {
		companions = append(companions, overlay)
	}

	dlg := &Dialog{root: root}
	d, err := disclosure.New(disclosure.Config{
		Trigger:        trigger,
		Content:        content,
		Container:      root,
		Companions:     companions,
		Stack:          env.Stack,
		DismissOutside: cfg.DismissOutside,
		DismissEscape:  true,
		Modal:          true,
		MoveFocus:      true,
		FocusDelay:     cfg.FocusDelay,
		RestoreFocus:   true,
		HideDelay:      cfg.HideDelay,
		Expanded:       true,
		OnOpen:         func() { notify(cfg.OnOpenChange, true) },
		OnClose:        func(dismiss.Reason) { notify(cfg.OnOpenChange, false) },
		Logger:         env.logger(markup.WidgetDialog, root),
	})
	if err != nil {
		return nil, err
	}
	dlg.disclosure = d

	dlg.listeners.on(trigger, dom.EventClick, func(*dom.Event) { d.Open() })
	for _, closer := range parts(root, markup.PartClose) {
		dlg.listeners.on(closer, dom.EventClick, func(*dom.Event) { d.Close(dismiss.ReasonProgrammatic) })
	}
	if overlay != nil {
		// the overlay is inert: pressing it must not move focus
		dlg.listeners.on(overlay, dom.EventPointerDown, func(ev *dom.Event) { ev.PreventDefault() })
	}
	return dlg, nil
}

// Root satisfies [Widget].
func (d *Dialog) Root() *dom.Element { return d.root }

// IsOpen reports whether the dialog is open.
func (d *Dialog) IsOpen() bool { return d.disclosure.IsOpen() }

// Open opens the dialog.
func (d *Dialog) Open() { d.disclosure.Open() }

// Close closes the dialog.
func (d *Dialog) Close() { d.disclosure.Close(dismiss.ReasonProgrammatic) }

// Destroy satisfies [Widget].
func (d *Dialog) Destroy() {
	d.listeners.release()
	d.disclosure.Destroy()
}
