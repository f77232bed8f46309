package widget

import (
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/roving"
)

// EventSelect is dispatched on a command palette's root when an item is
// activated. Its Detail is the item value.
const EventSelect = "facet:select"

// CommandConfig configures a [Command].
type CommandConfig struct {
	SearchURL string
	// Loop wraps keyboard navigation around the ends.
	Loop     bool
	OnSelect func(value string)
}

// CommandConfigFrom reads a command config from root.
func CommandConfigFrom(root *dom.Element) CommandConfig {
	return CommandConfig{
		SearchURL: root.AttrOr(markup.DataAttrSearchURL, ""),
		Loop:      markup.Bool(root, markup.DataAttrLoop),
	}
}

// Command is a search box over a grouped list of actions. The first match
// is highlighted as the user types and Enter activates it.
type Command struct {
	root      *dom.Element
	cfg       CommandConfig
	search    *dom.Element
	listbox   *listbox
	selected  string
	listeners listeners
}

// NewCommand attaches a command palette to root.
func NewCommand(env *Env, root *dom.Element, cfg CommandConfig) (*Command, error) {
	field := part(root, markup.PartSearch)
	if field == nil {
		return nil, missing(markup.WidgetCommand, markup.PartSearch)
	}
	c := &Command{root: root, cfg: cfg, search: field}
	policy := roving.Clamp
	if cfg.Loop {
		policy = roving.Wrap
	}
	lb, err := newListbox(env, root, listboxConfig{
		Widget:    markup.WidgetCommand,
		Owner:     field,
		Policy:    policy,
		SearchURL: cfg.SearchURL,
		Selected:  func(it *roving.Item) bool { return c.selected != "" && it.Value == c.selected },
		OnCommit:  c.activate,
	})
	if err != nil {
		return nil, err
	}
	c.listbox = lb
	field.SetAttr("role", "combobox")
	field.SetAttr(markup.AriaExpanded, "true")
	field.SetAttr(markup.AriaControls, env.ensureID(lb.list, "listbox"))

	c.listeners.on(field, dom.EventInput, func(*dom.Event) { lb.filter(field.Value()) })
	c.listeners.on(field, dom.EventKeyDown, func(ev *dom.Event) { lb.handleKey(ev, true, false) })
	lb.items.MoveFirst()
	return c, nil
}

// Root satisfies [Widget].
func (c *Command) Root() *dom.Element { return c.root }

// Selected returns the value of the last activated item.
func (c *Command) Selected() string { return c.selected }

// Visible returns the visible items in display order.
func (c *Command) Visible() []*roving.Item { return c.listbox.items.Visible() }

// Highlighted returns the highlighted item, or nil.
func (c *Command) Highlighted() *roving.Item { return c.listbox.items.Highlighted() }

// Filter runs query as if typed into the search box.
func (c *Command) Filter(query string) {
	c.search.SetValue(query)
	c.listbox.filter(query)
}

func (c *Command) activate(it *roving.Item) {
	c.selected = it.Value
	if c.cfg.OnSelect != nil {
		c.cfg.OnSelect(it.Value)
	}
	c.root.Dispatch(&dom.Event{Type: EventSelect, Detail: it.Value})
}

// Destroy satisfies [Widget].
func (c *Command) Destroy() {
	c.listeners.release()
	c.listbox.destroy()
}
