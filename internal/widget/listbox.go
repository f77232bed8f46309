package widget

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/roving"
	"github.com/stolasapp/facet/internal/search"
)

type listboxConfig struct {
	Widget string
	// Owner carries aria-activedescendant.
	Owner  *dom.Element
	Policy roving.Policy
	// SearchURL enables remote search.
	SearchURL string
	// Selected reports whether an item is part of the committed selection.
	Selected func(*roving.Item) bool
	OnCommit func(*roving.Item)
	Logger   *slog.Logger
}

// listbox is the filterable item list shared by select, combobox and
// command. Remote results are appended as items flagged Remote and are
// replaced by every response, except the selected ones which stay visible
// whatever the query.
type listbox struct {
	env  *Env
	cfg  listboxConfig
	root *dom.Element
	list *dom.Element

	empty   *dom.Element
	loading *dom.Element
	failure *dom.Element

	items   *roving.List
	matcher *search.Matcher
	remote  *search.Remote

	query         string
	itemListeners map[*roving.Item]func()
}

func newListbox(env *Env, root *dom.Element, cfg listboxConfig) (*listbox, error) {
	list := part(root, markup.PartList)
	if list == nil {
		return nil, missing(cfg.Widget, markup.PartList)
	}
	if cfg.Owner == nil {
		cfg.Owner = list
	}
	if cfg.Logger == nil {
		cfg.Logger = env.logger(cfg.Widget, root)
	}
	list.SetAttr("role", "listbox")

	lb := &listbox{
		env:           env,
		cfg:           cfg,
		root:          root,
		list:          list,
		empty:         part(root, markup.PartEmpty),
		loading:       part(root, markup.PartLoading),
		failure:       part(root, markup.PartError),
		matcher:       search.NewMatcher(),
		itemListeners: make(map[*roving.Item]func()),
	}

	var items []roving.Item
	for _, el := range parts(root, markup.PartItem) {
		if list.Contains(el) {
			items = append(items, roving.ItemFrom(el))
		}
	}
	lb.items = roving.New(roving.Config{
		Container: list,
		Policy:    cfg.Policy,
		Owner:     cfg.Owner,
		Reorder:   true,
	}, nil)
	lb.add(items...)

	if cfg.SearchURL != "" {
		remote, err := search.NewRemote(env.Doc.Loop(), search.RemoteConfig{
			Endpoint:  cfg.SearchURL,
			Base:      env.Base,
			Client:    env.Client,
			Logger:    cfg.Logger,
			OnStart:   lb.remoteStarted,
			OnResults: lb.remoteResults,
			OnError:   lb.remoteFailed,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Widget, err)
		}
		lb.remote = remote
	}
	lb.setHidden(lb.loading, true)
	lb.setHidden(lb.failure, true)
	lb.apply()
	return lb, nil
}

// add registers items and wires their pointer handlers.
func (lb *listbox) add(items ...roving.Item) []*roving.Item {
	added := lb.items.Append(items...)
	for _, it := range added {
		el := it.Element
		el.SetAttr("role", "option")
		lb.env.ensureID(el, lb.cfg.Widget+"-item")
		if it.Disabled {
			el.SetAttr(markup.AriaDisabled, "true")
		}
		removeDown := el.AddEventListener(dom.EventPointerDown, func(ev *dom.Event) {
			// keep focus on the input or list
			ev.PreventDefault()
		})
		removeClick := el.AddEventListener(dom.EventClick, func(*dom.Event) { lb.commit(it) })
		lb.itemListeners[it] = func() {
			removeDown()
			removeClick()
		}
	}
	lb.syncSelected()
	return added
}

// filter narrows the items to query and starts a remote search for it.
// A non-empty query highlights the best match.
func (lb *listbox) filter(query string) {
	lb.query = strings.TrimSpace(query)
	if lb.remote != nil {
		if lb.query == "" {
			lb.remote.Cancel()
			lb.dropRemote()
			lb.setHidden(lb.loading, true)
			lb.setHidden(lb.failure, true)
			lb.list.RemoveAttr(markup.AriaBusy)
		} else {
			lb.remote.Search(lb.query)
		}
	}
	lb.apply()
	if lb.query != "" {
		lb.items.ClearHighlight()
		lb.items.MoveFirst()
	}
}

// apply recomputes the visible items: local items ranked against the
// query followed by every remote item.
func (lb *listbox) apply() {
	items := lb.items.Items()
	var (
		candidates []search.Candidate
		local      []int
	)
	for i, it := range items {
		if it.Remote {
			continue
		}
		local = append(local, i)
		candidates = append(candidates, search.Candidate{Text: it.Label, Disabled: it.Disabled})
	}
	var visible []int
	for _, j := range lb.matcher.Filter(lb.query, candidates) {
		visible = append(visible, local[j])
	}
	for i, it := range items {
		if it.Remote {
			visible = append(visible, i)
		}
	}
	lb.items.SetVisible(visible)

	groups := search.Groups(visible, func(i int) string { return items[i].Group })
	for _, group := range lb.groups() {
		group.SetHidden(!groups[group.AttrOr(markup.DataAttrValue, "")])
	}
	for _, sep := range parts(lb.root, markup.PartSeparator) {
		sep.SetHidden(lb.query != "")
	}
	lb.syncEmpty()
}

func (lb *listbox) syncEmpty() {
	pending := lb.remote != nil && lb.remote.Pending()
	lb.setHidden(lb.empty, len(lb.items.Visible()) > 0 || pending)
}

func (lb *listbox) groups() []*dom.Element {
	var out []*dom.Element
	for _, group := range parts(lb.root, markup.PartGroup) {
		if lb.list.Contains(group) {
			out = append(out, group)
		}
	}
	return out
}

// handleKey applies navigation and commit keys. Home and End navigate only
// when homeEnd is set, leaving them to text inputs otherwise.
func (lb *listbox) handleKey(ev *dom.Event, homeEnd, spaceCommits bool) bool {
	switch ev.Key {
	case dom.KeyEnter:
		if it := lb.items.Highlighted(); it != nil {
			ev.PreventDefault()
			lb.commit(it)
			return true
		}
		return false
	case dom.KeySpace:
		if !spaceCommits {
			return false
		}
		if it := lb.items.Highlighted(); it != nil {
			ev.PreventDefault()
			lb.commit(it)
		}
		return true
	case dom.KeyHome, dom.KeyEnd:
		if !homeEnd {
			return false
		}
	}
	if lb.items.HandleKey(ev.Key) {
		ev.PreventDefault()
		return true
	}
	return false
}

func (lb *listbox) commit(it *roving.Item) {
	if it == nil || it.Disabled {
		return
	}
	lb.cfg.OnCommit(it)
	lb.syncSelected()
}

// highlightSelected highlights the first selected visible item, falling
// back to fallback.
func (lb *listbox) highlightSelected(fallback func() bool) {
	for _, it := range lb.items.Visible() {
		if lb.cfg.Selected(it) && lb.items.Highlight(it) {
			lb.items.ScrollIntoView(lb.items.HighlightedIndex())
			return
		}
	}
	fallback()
}

func (lb *listbox) syncSelected() {
	for _, it := range lb.items.Items() {
		on := lb.cfg.Selected(it)
		it.Element.SetAttr(markup.AriaSelected, boolAttr(on))
		it.Element.ToggleAttr(markup.DataAttrSelected, on)
	}
}

// reset clears the query and highlight.
func (lb *listbox) reset() {
	lb.items.ClearHighlight()
	if lb.query != "" || lb.remote != nil {
		lb.filter("")
	}
}

func (lb *listbox) remoteStarted(string) {
	lb.setHidden(lb.loading, false)
	lb.setHidden(lb.failure, true)
	lb.list.SetAttr(markup.AriaBusy, "true")
	lb.syncEmpty()
}

func (lb *listbox) remoteFailed(string, error) {
	lb.setHidden(lb.loading, true)
	lb.setHidden(lb.failure, false)
	lb.list.RemoveAttr(markup.AriaBusy)
	lb.syncEmpty()
}

func (lb *listbox) remoteResults(_ string, results []search.Result) {
	lb.setHidden(lb.loading, true)
	lb.setHidden(lb.failure, true)
	lb.list.RemoveAttr(markup.AriaBusy)
	lb.dropRemote()

	for _, res := range results {
		container := lb.list
		if res.Group != "" {
			container = lb.group(res.Group)
		}
		for _, el := range container.AppendHTML(res.HTML) {
			for _, itemEl := range itemElements(el) {
				it := roving.ItemFrom(itemEl)
				// values stay unique across local and remote items
				if lb.items.Find(it.Value) != nil {
					itemEl.Remove()
					continue
				}
				itemEl.SetAttr(markup.DataAttrRemote, "")
				it.Remote = true
				lb.add(it)
			}
		}
	}
	lb.pruneGroups()
	highlighted := lb.items.Highlighted()
	lb.apply()
	if highlighted == nil {
		lb.items.MoveFirst()
	}
	lb.cfg.Logger.Debug("spliced remote results", slog.Int("results", len(results)))
}

// itemElements returns the items carried by a spliced fragment root. A
// fragment without item parts is itself the item.
func itemElements(el *dom.Element) []*dom.Element {
	if el.Matches(markup.Part(markup.PartItem)) {
		return []*dom.Element{el}
	}
	if items := el.QueryAll(markup.Part(markup.PartItem)); len(items) > 0 {
		return items
	}
	el.SetAttr(markup.DataAttrPart, markup.PartItem)
	return []*dom.Element{el}
}

// group returns the group with value name, creating a remote group when
// none exists.
func (lb *listbox) group(name string) *dom.Element {
	for _, group := range lb.groups() {
		if group.AttrOr(markup.DataAttrValue, "") == name {
			return group
		}
	}
	escaped := html.EscapeString(name)
	added := lb.list.AppendHTML(fmt.Sprintf(
		`<div %s="%s" %s="%s" %s role="group"><div %s="%s">%s</div></div>`,
		markup.DataAttrPart, markup.PartGroup,
		markup.DataAttrValue, escaped,
		markup.DataAttrRemote,
		markup.DataAttrPart, markup.PartGroupLabel,
		escaped,
	))
	return added[0]
}

// dropRemote removes every remote item that is not selected.
func (lb *listbox) dropRemote() {
	lb.items.Remove(func(it *roving.Item) bool {
		if !it.Remote || lb.cfg.Selected(it) {
			return false
		}
		if remove, ok := lb.itemListeners[it]; ok {
			remove()
			delete(lb.itemListeners, it)
		}
		it.Element.Remove()
		return true
	})
	lb.pruneGroups()
}

// pruneGroups removes remote groups left without items.
func (lb *listbox) pruneGroups() {
	for _, group := range lb.groups() {
		if group.HasAttr(markup.DataAttrRemote) && group.Query(markup.Part(markup.PartItem)) == nil {
			group.Remove()
		}
	}
}

func (lb *listbox) setHidden(el *dom.Element, hidden bool) {
	if el != nil {
		el.SetHidden(hidden)
	}
}

func (lb *listbox) destroy() {
	if lb.remote != nil {
		lb.remote.Cancel()
	}
	for _, remove := range lb.itemListeners {
		remove()
	}
	clear(lb.itemListeners)
	lb.items.Destroy()
}
