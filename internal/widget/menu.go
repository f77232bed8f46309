package widget

import (
	"log/slog"
	"time"

	"github.com/stolasapp/facet/internal/disclosure"
	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/position"
	"github.com/stolasapp/facet/internal/roving"
)

// MenuConfig configures a [Menu].
type MenuConfig struct {
	Position  position.Options
	HideDelay time.Duration
	// OnSelect is called with the value of an activated plain item.
	OnSelect func(value string)
	// OnCheckedChange is called when a checkbox item toggles.
	OnCheckedChange func(value string, checked bool)
	// OnRadioChange is called when a radio item is chosen.
	OnRadioChange func(group, value string)
}

// MenuConfigFrom reads a menu config from root.
func MenuConfigFrom(root *dom.Element) MenuConfig {
	return MenuConfig{
		Position:  positionFrom(root, position.SideBottom, position.AlignStart),
		HideDelay: markup.Duration(root, markup.DataAttrCloseDelay, hideDelay),
	}
}

// menuLevel is the menu content or one submenu.
type menuLevel struct {
	container  *dom.Element
	parent     *menuLevel
	disclosure *disclosure.Disclosure
	items      *roving.List
	// subs are keyed by their sub-trigger.
	subs map[*dom.Element]*menuLevel
}

func (l *menuLevel) closeSubs(reason dismiss.Reason, except *menuLevel) {
	for _, sub := range l.subs {
		if sub != except {
			sub.disclosure.Close(reason)
		}
	}
}

// Menu is a dropdown of actions with optional checkbox items, radio items
// and nested submenus. Each level owns its own roving list and disclosure,
// so Escape and outside clicks close the innermost open level first.
type Menu struct {
	root      *dom.Element
	cfg       MenuConfig
	env       *Env
	logger    *slog.Logger
	top       *menuLevel
	levels    map[*dom.Element]*menuLevel
	listeners listeners
}

// NewMenu attaches a menu to root.
func NewMenu(env *Env, root *dom.Element, cfg MenuConfig) (*Menu, error) {
	trigger := part(root, markup.PartTrigger)
	if trigger == nil {
		return nil, missing(markup.WidgetMenu, markup.PartTrigger)
	}
	content := part(root, markup.PartContent)
	if content == nil {
		return nil, missing(markup.WidgetMenu, markup.PartContent)
	}
	m := &Menu{
		root:   root,
		cfg:    cfg,
		env:    env,
		logger: env.logger(markup.WidgetMenu, root),
		levels: make(map[*dom.Element]*menuLevel),
	}
	trigger.SetAttr(markup.AriaHasPopup, "menu")
	trigger.SetAttr(markup.AriaControls, env.ensureID(content, "menu"))

	opts := cfg.Position
	top, err := m.newLevel(content, nil, disclosure.Config{
		Trigger:        trigger,
		Content:        content,
		Container:      root,
		Stack:          env.Stack,
		DismissOutside: true,
		DismissEscape:  true,
		DismissTab:     true,
		Position:       &opts,
		MoveFocus:      true,
		InitialFocus:   func() *dom.Element { return content },
		RestoreFocus:   true,
		HideDelay:      cfg.HideDelay,
		Expanded:       true,
		Logger:         m.logger,
	})
	if err != nil {
		return nil, err
	}
	m.top = top

	m.listeners.on(trigger, dom.EventClick, func(*dom.Event) { top.disclosure.Toggle() })
	m.listeners.on(trigger, dom.EventKeyDown, m.onTriggerKey)
	m.listeners.on(content, dom.EventKeyDown, m.onKey)
	m.logger.Debug("mounted", slog.Int("levels", len(m.levels)))
	return m, nil
}

// newLevel wires the items and submenus whose closest content is
// container.
func (m *Menu) newLevel(container *dom.Element, parent *menuLevel, cfg disclosure.Config) (*menuLevel, error) {
	lvl := &menuLevel{
		container: container,
		parent:    parent,
		subs:      make(map[*dom.Element]*menuLevel),
	}
	container.SetAttr("role", "menu")
	if !container.HasAttr("tabindex") {
		container.SetAttr("tabindex", "-1")
	}

	var items []roving.Item
	for _, el := range m.levelParts(container, markup.PartItem, markup.PartCheckboxItem, markup.PartRadioItem, markup.PartSubTrigger) {
		switch el.AttrOr(markup.DataAttrPart, "") {
		case markup.PartCheckboxItem:
			el.SetAttr("role", "menuitemcheckbox")
			setChecked(el, el.AttrOr(markup.DataAttrState, "") == markup.StateChecked)
		case markup.PartRadioItem:
			el.SetAttr("role", "menuitemradio")
			setChecked(el, el.AttrOr(markup.DataAttrState, "") == markup.StateChecked)
		default:
			el.SetAttr("role", "menuitem")
		}
		if !el.HasAttr("tabindex") {
			el.SetAttr("tabindex", "-1")
		}
		item := roving.ItemFrom(el)
		if item.Disabled {
			el.SetAttr(markup.AriaDisabled, "true")
		}
		items = append(items, item)
	}
	lvl.items = roving.New(roving.Config{
		Container:  container,
		Policy:     roving.Wrap,
		FocusItems: true,
	}, items)

	cfg.OnClose = func(reason dismiss.Reason) {
		lvl.closeSubs(reason, nil)
		lvl.items.ClearHighlight()
		if parent == nil {
			return
		}
		// tabbing away leaves the whole menu; an outside click closes one
		// level at a time
		if reason == dismiss.ReasonTab {
			m.top.disclosure.Close(reason)
		}
	}
	d, err := disclosure.New(cfg)
	if err != nil {
		return nil, err
	}
	lvl.disclosure = d
	m.levels[container] = lvl

	for _, it := range lvl.items.Items() {
		m.listeners.on(it.Element, dom.EventClick, func(*dom.Event) { m.activate(lvl, it) })
		m.listeners.on(it.Element, dom.EventMouseEnter, func(*dom.Event) { m.hover(lvl, it) })
	}

	for _, sub := range m.levelParts(container, markup.PartSub) {
		subTrigger := partOfSub(sub, markup.PartSubTrigger)
		if subTrigger == nil {
			return nil, missing(markup.WidgetMenu, markup.PartSubTrigger)
		}
		subContent := partOfSub(sub, markup.PartSubContent)
		if subContent == nil {
			return nil, missing(markup.WidgetMenu, markup.PartSubContent)
		}
		subTrigger.SetAttr(markup.AriaHasPopup, "menu")
		subTrigger.SetAttr(markup.AriaControls, m.env.ensureID(subContent, "submenu"))
		opts := positionFrom(sub, position.SideRight, position.AlignStart)
		child, err := m.newLevel(subContent, lvl, disclosure.Config{
			Trigger:        subTrigger,
			Content:        subContent,
			Container:      sub,
			Stack:          m.env.Stack,
			DismissOutside: true,
			DismissEscape:  true,
			DismissTab:     true,
			Contains:       func(el *dom.Element) bool { return lvl.disclosure.Contains(el) },
			Position:       &opts,
			RestoreFocus:   true,
			Expanded:       true,
			Logger:         m.logger,
		})
		if err != nil {
			return nil, err
		}
		lvl.subs[subTrigger] = child
	}
	return lvl, nil
}

// levelParts returns the named parts owned by the menu whose closest
// content or sub-content is container.
func (m *Menu) levelParts(container *dom.Element, names ...string) []*dom.Element {
	var out []*dom.Element
	for _, el := range container.QueryAll(markup.Parts(names...)) {
		if owner(el) != m.root {
			continue
		}
		if el.Parent().Closest(markup.Parts(markup.PartContent, markup.PartSubContent)) == container {
			out = append(out, el)
		}
	}
	return out
}

func partOfSub(sub *dom.Element, name string) *dom.Element {
	for _, el := range sub.QueryAll(markup.Part(name)) {
		if el.Parent().Closest(markup.Part(markup.PartSub)) == sub {
			return el
		}
	}
	return nil
}

// Root satisfies [Widget].
func (m *Menu) Root() *dom.Element { return m.root }

// IsOpen reports whether the menu is open.
func (m *Menu) IsOpen() bool { return m.top.disclosure.IsOpen() }

// Open opens the menu.
func (m *Menu) Open() { m.top.disclosure.Open() }

// Close closes the menu and every submenu.
func (m *Menu) Close() { m.top.disclosure.Close(dismiss.ReasonProgrammatic) }

// Depth returns the number of open levels, zero when closed.
func (m *Menu) Depth() int {
	n := 0
	for _, lvl := range m.levels {
		if lvl.disclosure.IsOpen() {
			n++
		}
	}
	return n
}

// Checked reports whether the checkbox or radio item with value is checked.
func (m *Menu) Checked(value string) bool {
	for _, lvl := range m.levels {
		if it := lvl.items.Find(value); it != nil {
			return it.Element.AttrOr(markup.DataAttrState, "") == markup.StateChecked
		}
	}
	return false
}

func (m *Menu) onTriggerKey(ev *dom.Event) {
	d := m.top.disclosure
	if d.IsOpen() {
		return
	}
	switch ev.Key {
	case dom.KeyArrowDown, dom.KeyEnter, dom.KeySpace:
		ev.PreventDefault()
		d.Open()
		m.top.items.MoveFirst()
	case dom.KeyArrowUp:
		ev.PreventDefault()
		d.Open()
		m.top.items.MoveLast()
	}
}

func (m *Menu) onKey(ev *dom.Event) {
	if ev.Target == nil {
		return
	}
	lvl := m.levels[ev.Target.Closest(markup.Parts(markup.PartContent, markup.PartSubContent))]
	if lvl == nil || !lvl.disclosure.IsOpen() {
		return
	}
	it := lvl.items.Highlighted()
	switch ev.Key {
	case dom.KeyArrowRight:
		if it != nil && lvl.subs[it.Element] != nil {
			ev.PreventDefault()
			m.openSub(lvl, it.Element, true)
		}
	case dom.KeyArrowLeft:
		if lvl.parent != nil {
			ev.PreventDefault()
			lvl.disclosure.Close(dismiss.ReasonProgrammatic)
		}
	case dom.KeyEnter, dom.KeySpace:
		if it != nil {
			ev.PreventDefault()
			m.activate(lvl, it)
		}
	default:
		if lvl.items.HandleKey(ev.Key) {
			ev.PreventDefault()
		}
	}
}

func (m *Menu) activate(lvl *menuLevel, it *roving.Item) {
	if it.Disabled {
		return
	}
	el := it.Element
	switch el.AttrOr(markup.DataAttrPart, "") {
	case markup.PartSubTrigger:
		m.openSub(lvl, el, true)
	case markup.PartCheckboxItem:
		checked := el.AttrOr(markup.DataAttrState, "") != markup.StateChecked
		setChecked(el, checked)
		if m.cfg.OnCheckedChange != nil {
			m.cfg.OnCheckedChange(it.Value, checked)
		}
	case markup.PartRadioItem:
		group := radioGroup(it)
		for _, other := range m.levels {
			for _, o := range other.items.Items() {
				if o.Element.AttrOr(markup.DataAttrPart, "") == markup.PartRadioItem && radioGroup(o) == group {
					setChecked(o.Element, o == it)
				}
			}
		}
		if m.cfg.OnRadioChange != nil {
			m.cfg.OnRadioChange(group, it.Value)
		}
	default:
		if m.cfg.OnSelect != nil {
			m.cfg.OnSelect(it.Value)
		}
		m.top.disclosure.Close(dismiss.ReasonSelect)
	}
}

func (m *Menu) hover(lvl *menuLevel, it *roving.Item) {
	if sub := lvl.subs[it.Element]; sub != nil {
		if !it.Disabled {
			m.openSub(lvl, it.Element, false)
		}
		return
	}
	lvl.closeSubs(dismiss.ReasonProgrammatic, nil)
}

// openSub opens the submenu of trigger, closing its siblings. Keyboard
// opening moves focus to the first submenu item.
func (m *Menu) openSub(lvl *menuLevel, trigger *dom.Element, focusFirst bool) {
	sub := lvl.subs[trigger]
	if sub == nil {
		return
	}
	lvl.closeSubs(dismiss.ReasonProgrammatic, sub)
	sub.disclosure.Open()
	if focusFirst {
		sub.items.ClearHighlight()
		sub.items.MoveFirst()
	}
}

// radioGroup is data-group, falling back to the enclosing group part.
func radioGroup(it *roving.Item) string {
	return it.Element.AttrOr(markup.DataAttrGroup, it.Group)
}

func setChecked(el *dom.Element, checked bool) {
	state := markup.StateUnchecked
	if checked {
		state = markup.StateChecked
	}
	el.SetAttr(markup.DataAttrState, state)
	el.SetAttr(markup.AriaChecked, boolAttr(checked))
}

// Destroy satisfies [Widget].
func (m *Menu) Destroy() {
	m.listeners.release()
	for _, lvl := range m.levels {
		lvl.items.Destroy()
		lvl.disclosure.Destroy()
	}
}
