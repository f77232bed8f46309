package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
)

const actionsMenu = `
<div data-facet="menu" id="menu">
	<button data-facet-part="trigger" id="trigger">Actions</button>
	<div data-facet-part="content" id="content" hidden>
		<div data-facet-part="item" data-value="new" id="new">New</div>
		<div data-facet-part="sub" id="share-sub">
			<div data-facet-part="sub-trigger" data-value="share" id="share">Share</div>
			<div data-facet-part="sub-content" id="share-content" hidden>
				<div data-facet-part="item" data-value="email" id="email">Email</div>
				<div data-facet-part="item" data-value="link" id="link">Copy link</div>
			</div>
		</div>
		<div data-facet-part="item" data-value="archive" data-disabled id="archive">Archive</div>
		<div data-facet-part="separator"></div>
		<div data-facet-part="checkbox-item" data-value="hidden" id="show-hidden">Show hidden</div>
		<div data-facet-part="radio-item" data-group="sort" data-value="name" data-state="checked" id="sort-name">Name</div>
		<div data-facet-part="radio-item" data-group="sort" data-value="date" id="sort-date">Date</div>
	</div>
</div>
<button id="outside">outside</button>`

type menuRecorder struct {
	selected []string
	checked  map[string]bool
	radio    []string
}

func newMenu(t *testing.T) (*harness, *Menu, *menuRecorder) {
	t.Helper()
	h := newHarness(t, actionsMenu)
	rec := &menuRecorder{checked: make(map[string]bool)}
	cfg := MenuConfigFrom(h.el("menu"))
	cfg.OnSelect = func(v string) { rec.selected = append(rec.selected, v) }
	cfg.OnCheckedChange = func(v string, on bool) { rec.checked[v] = on }
	cfg.OnRadioChange = func(group, v string) { rec.radio = append(rec.radio, group+"="+v) }
	m, err := NewMenu(h.env, h.el("menu"), cfg)
	require.NoError(t, err)
	return h, m, rec
}

func TestMenu_Roles(t *testing.T) {
	t.Parallel()
	h, _, _ := newMenu(t)
	assert.Equal(t, "menu", h.el("trigger").AttrOr(markup.AriaHasPopup, ""))
	assert.Equal(t, "content", h.el("trigger").AttrOr(markup.AriaControls, ""))
	assert.Equal(t, "menu", h.el("content").AttrOr("role", ""))
	assert.Equal(t, "menu", h.el("share-content").AttrOr("role", ""))
	assert.Equal(t, "share-content", h.el("share").AttrOr(markup.AriaControls, ""))

	for id, role := range map[string]string{
		"new":         "menuitem",
		"share":       "menuitem",
		"email":       "menuitem",
		"show-hidden": "menuitemcheckbox",
		"sort-name":   "menuitemradio",
	} {
		assert.Equal(t, role, h.el(id).AttrOr("role", ""), id)
	}
	assert.Equal(t, "true", h.el("sort-name").AttrOr(markup.AriaChecked, ""))
	assert.Equal(t, "false", h.el("show-hidden").AttrOr(markup.AriaChecked, ""))
	assert.Equal(t, "true", h.el("archive").AttrOr(markup.AriaDisabled, ""))
}

func TestMenu_NestedEscape(t *testing.T) {
	t.Parallel()
	h, m, _ := newMenu(t)
	trigger := h.el("trigger")
	trigger.Focus()

	trigger.KeyDown(dom.KeyArrowDown, false)
	require.True(t, m.IsOpen())
	assert.Equal(t, "new", h.activeID())
	assert.Equal(t, "true", trigger.AttrOr(markup.AriaExpanded, ""))

	h.doc.KeyDown(dom.KeyArrowDown, false)
	assert.Equal(t, "share", h.activeID())
	h.doc.KeyDown(dom.KeyArrowRight, false)
	require.Equal(t, 2, m.Depth())
	assert.Equal(t, "email", h.activeID())
	assert.False(t, h.el("share-content").Hidden())

	h.doc.KeyDown(dom.KeyEscape, false)
	assert.Equal(t, 1, m.Depth(), "escape closes the innermost level first")
	assert.True(t, m.IsOpen())
	assert.Equal(t, "share", h.activeID())

	h.doc.KeyDown(dom.KeyEscape, false)
	assert.Zero(t, m.Depth())
	assert.Equal(t, "trigger", h.activeID())
	assert.Zero(t, h.env.Stack.Len())
}

func TestMenu_ArrowLeftClosesSubmenu(t *testing.T) {
	t.Parallel()
	h, m, _ := newMenu(t)
	h.el("trigger").Click()
	assert.Equal(t, "content", h.activeID())
	h.doc.KeyDown(dom.KeyArrowDown, false)
	h.doc.KeyDown(dom.KeyArrowDown, false)
	require.Equal(t, "share", h.activeID())
	h.doc.KeyDown(dom.KeyEnter, false)
	require.Equal(t, 2, m.Depth())
	assert.Equal(t, "email", h.activeID())

	h.doc.KeyDown(dom.KeyArrowDown, false)
	h.doc.KeyDown(dom.KeyArrowDown, false)
	assert.Equal(t, "email", h.activeID(), "submenu navigation wraps")

	h.doc.KeyDown(dom.KeyArrowLeft, false)
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, "share", h.activeID())

	h.doc.KeyDown(dom.KeyArrowLeft, false)
	assert.Equal(t, 1, m.Depth(), "the root level ignores ArrowLeft")
}

func TestMenu_SelectCloses(t *testing.T) {
	t.Parallel()
	h, m, rec := newMenu(t)

	h.el("trigger").Click()
	h.el("share").Hover()
	require.Equal(t, 2, m.Depth())
	h.el("link").Click()
	assert.Equal(t, []string{"link"}, rec.selected)
	assert.False(t, m.IsOpen())
	assert.Zero(t, m.Depth())
	assert.Equal(t, "trigger", h.activeID())

	h.el("trigger").Click()
	h.el("archive").Click()
	assert.True(t, m.IsOpen(), "disabled items do nothing")
	h.el("new").Click()
	assert.Equal(t, []string{"link", "new"}, rec.selected)
	assert.False(t, m.IsOpen())
}

func TestMenu_CheckboxAndRadioItems(t *testing.T) {
	t.Parallel()
	h, m, rec := newMenu(t)
	h.el("trigger").Click()

	h.el("show-hidden").Click()
	assert.True(t, m.IsOpen(), "checkbox items keep the menu open")
	assert.True(t, m.Checked("hidden"))
	assert.Equal(t, markup.StateChecked, h.el("show-hidden").AttrOr(markup.DataAttrState, ""))
	assert.Equal(t, map[string]bool{"hidden": true}, rec.checked)

	h.el("show-hidden").Hover()
	assert.Equal(t, "show-hidden", h.activeID())
	h.doc.KeyDown(dom.KeySpace, false)
	assert.False(t, m.Checked("hidden"))

	h.el("sort-date").Click()
	assert.True(t, m.IsOpen())
	assert.True(t, m.Checked("date"))
	assert.False(t, m.Checked("name"))
	assert.Equal(t, "false", h.el("sort-name").AttrOr(markup.AriaChecked, ""))
	assert.Equal(t, []string{"sort=date"}, rec.radio)
}

func TestMenu_HoverSwitchesSubmenus(t *testing.T) {
	t.Parallel()
	h, m, _ := newMenu(t)
	h.el("trigger").Click()

	h.el("share").Hover()
	assert.Equal(t, 2, m.Depth())
	assert.NotEqual(t, "email", h.activeID(), "hover opens without moving focus")

	h.el("email").Hover()
	assert.Equal(t, 2, m.Depth(), "hovering inside the submenu keeps it open")

	h.el("new").Hover()
	assert.Equal(t, 1, m.Depth())
}

func TestMenu_OutsideClickClosesOneLevelAtATime(t *testing.T) {
	t.Parallel()
	h, m, _ := newMenu(t)
	h.el("trigger").Click()
	h.el("share").Hover()
	require.Equal(t, 2, m.Depth())

	h.el("new").PointerDown()
	assert.Equal(t, 2, m.Depth(), "the parent level counts as inside the submenu")

	h.el("outside").Click()
	assert.Equal(t, 1, m.Depth(), "the first outside click closes only the submenu")
	assert.True(t, m.IsOpen())
	assert.Equal(t, 1, h.env.Stack.Len())

	h.el("outside").Click()
	assert.Zero(t, m.Depth())
	assert.False(t, m.IsOpen())
	assert.Equal(t, "outside", h.activeID())
	assert.Zero(t, h.env.Stack.Len())
	assert.Zero(t, h.doc.ListenerCount(dom.EventPointerDown))
}

func TestMenu_TabClosesEveryLevel(t *testing.T) {
	t.Parallel()
	h, m, _ := newMenu(t)
	h.el("trigger").Click()
	h.doc.KeyDown(dom.KeyArrowDown, false)
	h.doc.KeyDown(dom.KeyArrowDown, false)
	h.doc.KeyDown(dom.KeyArrowRight, false)
	require.Equal(t, 2, m.Depth())

	h.doc.KeyDown(dom.KeyTab, false)
	assert.Zero(t, m.Depth())
	assert.False(t, m.IsOpen())
	assert.Zero(t, h.env.Stack.Len())
}

func TestMenu_MissingSubContent(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
<div data-facet="menu" id="menu">
	<button data-facet-part="trigger">Actions</button>
	<div data-facet-part="content">
		<div data-facet-part="sub"><div data-facet-part="sub-trigger">More</div></div>
	</div>
</div>`)
	_, err := NewMenu(h.env, h.el("menu"), MenuConfigFrom(h.el("menu")))
	var structure *StructureError
	require.ErrorAs(t, err, &structure)
	assert.Equal(t, markup.PartSubContent, structure.Part)
}
