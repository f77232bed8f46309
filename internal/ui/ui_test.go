package ui

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/theme"
	"github.com/stolasapp/facet/internal/widget"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(t.Context(), &b))
	return b.String()
}

func query(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(render(t, c)))
	require.NoError(t, err)
	return doc
}

var fruit = []Option{
	{Value: "apple", Label: "Apple", Group: "Fruit"},
	{Value: "banana", Label: "Banana", Group: "Fruit", Disabled: true},
	{Value: "carrot", Label: "Carrot", Group: "Vegetables"},
}

func gallery() templ.Component {
	return group(
		Popover(PopoverProps{ID: "popover", Trigger: text("Open"), Content: text("Hello"), CloseLabel: "Close"}),
		Dialog(DialogProps{ID: "dialog", Trigger: text("Edit"), Title: "Edit profile", Content: text("form"), CloseLabel: "Save"}),
		Tooltip(HoverProps{ID: "tooltip", Trigger: text("?"), Content: text("Help"), OpenDelay: 300 * time.Millisecond}),
		HoverCard(HoverProps{ID: "hover-card", Trigger: text("@facet"), Content: text("profile")}),
		Collapsible(CollapsibleProps{ID: "collapsible", Trigger: text("More"), Content: text("details")}),
		Accordion(AccordionProps{ID: "accordion", Open: []string{"one"}, Sections: []Section{
			{Value: "one", Title: "One", Content: text("first")},
			{Value: "two", Title: "Two", Content: text("second")},
		}}),
		Tabs(TabsProps{ID: "tabs", Tabs: []Section{
			{Value: "account", Title: "Account", Content: text("a")},
			{Value: "password", Title: "Password", Content: text("p")},
		}}),
		Select(SelectProps{ID: "select", Name: "fruit", Placeholder: "Pick", Options: fruit}),
		Combobox(ComboboxProps{ID: "combobox", Name: "food", Options: fruit}),
		Command(CommandProps{ID: "command", Options: fruit}),
		Menu(MenuProps{ID: "menu", Trigger: text("Actions"), Items: []MenuItem{
			{Value: "new", Label: "New"},
			{Kind: MenuSub, Value: "share", Label: "Share", Items: []MenuItem{{Value: "email", Label: "Email"}}},
			{Kind: MenuSeparator},
			{Kind: MenuCheckbox, Value: "hidden", Label: "Show hidden"},
			{Kind: MenuRadio, Group: "sort", Value: "name", Label: "Name", Checked: true},
		}}),
		Checkbox(ToggleProps{ID: "checkbox", Name: "terms", Label: "Accept"}),
		Switch(ToggleProps{ID: "switch", Name: "wifi", Label: "Wi-Fi", Checked: true}),
		RadioGroup(RadioGroupProps{ID: "radio-group", Name: "plan", Value: "pro", Options: []Option{
			{Value: "free", Label: "Free"}, {Value: "pro", Label: "Pro"},
		}}),
		Slider(SliderProps{ID: "slider", Name: "volume", Value: 40, Label: "Volume"}),
		DatePicker(DatePickerProps{ID: "date-picker", Name: "day", Placeholder: "Pick a date",
			Calendar: widget.CalendarOptions{WeekStartsOn: 1}}),
		ThemeToggle(ThemeToggleProps{ID: "theme-toggle"}),
	)
}

func mount(t *testing.T, c templ.Component) (*dom.Document, []widget.Widget) {
	t.Helper()
	doc, err := dom.ParseString("<!doctype html><html><head></head><body>" + render(t, c) + "</body></html>")
	require.NoError(t, err)
	env := widget.NewEnv(doc,
		widget.WithLogger(slog.New(slog.DiscardHandler)),
		widget.WithStorage(&theme.MemoryStorage{}, false),
	)
	mounted, err := widget.Mount(env)
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, w := range mounted {
			w.Destroy()
		}
	})
	return doc, mounted
}

func TestGallery_Mounts(t *testing.T) {
	t.Parallel()
	doc, mounted := mount(t, gallery())
	assert.Len(t, mounted, len(widget.Names()), "every widget renders markup the runtime accepts")
	for _, name := range widget.Names() {
		assert.NotNil(t, doc.Query(markup.Widget(name)), name)
	}
}

func TestSelect_RenderedMarkupIsInteractive(t *testing.T) {
	t.Parallel()
	doc, _ := mount(t, Select(SelectProps{ID: "select", Name: "fruit", Placeholder: "Pick", Options: fruit}))
	root := doc.ElementByID("select")
	trigger := root.Query(markup.Part(markup.PartTrigger))
	content := root.Query(markup.Part(markup.PartContent))
	assert.Equal(t, "Pick", root.Query(markup.Part(markup.PartLabel)).Text())

	trigger.Click()
	require.False(t, content.Hidden())
	root.Query(`[data-value="carrot"]`).Click()
	assert.True(t, content.Hidden())
	assert.Equal(t, "carrot", root.Query(markup.Part(markup.PartInput)).Value())
	assert.Equal(t, "Carrot", root.Query(markup.Part(markup.PartLabel)).Text())
}

func TestSelect_Markup(t *testing.T) {
	t.Parallel()
	doc := query(t, Select(SelectProps{
		Name:       "fruit",
		Options:    fruit,
		Values:     []string{"apple", "carrot"},
		Multiple:   true,
		Searchable: true,
		Placement:  Placement{Side: "top", Offset: 8},
	}))
	root := doc.Find(markup.Widget(markup.WidgetSelect))
	assert.Equal(t, "apple,carrot", root.AttrOr(markup.DataAttrValue, ""))
	assert.Equal(t, "top", root.AttrOr(markup.DataAttrSide, ""))
	assert.Equal(t, "8", root.AttrOr(markup.DataAttrOffset, ""))
	_, multiple := root.Attr(markup.DataAttrMultiple)
	assert.True(t, multiple)

	assert.Equal(t, "Apple, Carrot", doc.Find(markup.Part(markup.PartLabel)).Text())
	assert.Equal(t, "apple,carrot", doc.Find(markup.Part(markup.PartInput)).AttrOr("value", ""))
	assert.Equal(t, 1, doc.Find(markup.Part(markup.PartSearch)).Length())
	assert.Equal(t, 1, doc.Find(markup.Part(markup.PartEmpty)).Length())
	assert.Zero(t, doc.Find(markup.Part(markup.PartLoading)).Length(), "local lists have no loading state")

	groups := doc.Find(markup.Part(markup.PartGroup))
	require.Equal(t, 2, groups.Length())
	assert.Equal(t, "Fruit", groups.First().Find(markup.Part(markup.PartGroupLabel)).Text())
	assert.Equal(t, 1, doc.Find(markup.Part(markup.PartSeparator)).Length(), "separators sit between groups")

	banana := doc.Find(`[data-value="banana"]`)
	_, disabled := banana.Attr(markup.DataAttrDisabled)
	assert.True(t, disabled)
	assert.Equal(t, "true", doc.Find(`[data-value="apple"]`).AttrOr(markup.AriaSelected, ""))
}

func TestCombobox_RemoteAffordances(t *testing.T) {
	t.Parallel()
	doc := query(t, Combobox(ComboboxProps{
		Options:     fruit,
		Value:       "apple",
		SearchURL:   "/search",
		Affordances: Affordances{Empty: "Nothing"},
	}))
	assert.Equal(t, "/search", doc.Find(markup.Widget(markup.WidgetCombobox)).AttrOr(markup.DataAttrSearchURL, ""))
	assert.Equal(t, "Apple", doc.Find(markup.Part(markup.PartSearch)).AttrOr("value", ""))
	assert.Equal(t, "Nothing", doc.Find(markup.Part(markup.PartEmpty)).Text())
	assert.Equal(t, "Searching...", doc.Find(markup.Part(markup.PartLoading)).Text())
	assert.Equal(t, 1, doc.Find(markup.Part(markup.PartError)).Length())
}

func TestCommand_ClassesMerge(t *testing.T) {
	t.Parallel()
	doc := query(t, Command(CommandProps{Options: fruit, Class: "w-full", Loop: true}))
	root := doc.Find(markup.Widget(markup.WidgetCommand))
	classes := strings.Fields(root.AttrOr("class", ""))
	assert.Contains(t, classes, "w-full")
	assert.NotContains(t, classes, "w-96", "conflicting utilities are replaced")
	_, loop := root.Attr(markup.DataAttrLoop)
	assert.True(t, loop)
}

func TestSearchItem(t *testing.T) {
	t.Parallel()
	doc := query(t, SearchItem(Option{Value: "r-d", Label: "R&D <lab>", Description: "team"}, []int{0, 1}))
	it := doc.Find(markup.Part(markup.PartItem))
	assert.Equal(t, "r-d", it.AttrOr(markup.DataAttrValue, ""))
	assert.Equal(t, "R&D <lab>", it.AttrOr(markup.DataAttrLabel, ""))
	assert.Equal(t, "R&", it.Find("mark").Text())
	assert.Equal(t, "team", it.Find("span").Last().Text())
}

func TestMenu_Markup(t *testing.T) {
	t.Parallel()
	doc := query(t, Menu(MenuProps{Trigger: text("Actions"), Items: []MenuItem{
		{Kind: MenuSub, Value: "share", Label: "Share", Items: []MenuItem{{Value: "email", Label: "Email"}}},
		{Kind: MenuCheckbox, Value: "hidden", Label: "Show hidden", Checked: true},
		{Kind: MenuRadio, Group: "sort", Value: "date", Label: "Date"},
	}}))
	sub := doc.Find(markup.Part(markup.PartSub))
	assert.Equal(t, 1, sub.Find(markup.Part(markup.PartSubTrigger)).Length())
	assert.Equal(t, "Email", sub.Find(markup.Part(markup.PartSubContent)+" "+markup.Part(markup.PartItem)).Text())

	check := doc.Find(markup.Part(markup.PartCheckboxItem))
	assert.Equal(t, markup.StateChecked, check.AttrOr(markup.DataAttrState, ""))
	assert.Equal(t, "Show hidden", check.AttrOr(markup.DataAttrLabel, ""))
	radio := doc.Find(markup.Part(markup.PartRadioItem))
	assert.Equal(t, "sort", radio.AttrOr(markup.DataAttrGroup, ""))
	assert.Equal(t, "false", radio.AttrOr(markup.AriaChecked, ""))
}

func TestDatePicker_Markup(t *testing.T) {
	t.Parallel()
	doc := query(t, DatePicker(DatePickerProps{
		Name:     "day",
		Value:    time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC),
		Calendar: widget.CalendarOptions{Min: "2024-01-01"},
	}))
	root := doc.Find(markup.Widget(markup.WidgetDatePicker))
	assert.JSONEq(t, `{"weekStartsOn":0,"min":"2024-01-01"}`, root.AttrOr(markup.DataAttrCalendar, ""))
	assert.Equal(t, "Apr 20, 2024", doc.Find(markup.Part(markup.PartLabel)).Text())
	assert.Equal(t, "2024-04-20", doc.Find(markup.Part(markup.PartInput)).AttrOr("value", ""))

	plain := query(t, DatePicker(DatePickerProps{Placeholder: "Pick"}))
	_, ok := plain.Find(markup.Widget(markup.WidgetDatePicker)).Attr(markup.DataAttrCalendar)
	assert.False(t, ok, "default options are left to the runtime")
}

func TestToggle_Markup(t *testing.T) {
	t.Parallel()
	doc := query(t, Switch(ToggleProps{Name: "wifi", Checked: true, Value: "yes"}))
	assert.Equal(t, "yes", doc.Find(markup.Part(markup.PartInput)).AttrOr("value", ""))
	assert.Equal(t, "true", doc.Find(markup.Part(markup.PartTrigger)).AttrOr(markup.AriaChecked, ""))

	doc = query(t, Checkbox(ToggleProps{Name: "terms"}))
	assert.Empty(t, doc.Find(markup.Part(markup.PartInput)).AttrOr("value", "x"))
	_, hidden := doc.Find(markup.Part(markup.PartIndicator)).Attr("hidden")
	assert.True(t, hidden)
}

func TestTabs_DefaultsToFirstEnabled(t *testing.T) {
	t.Parallel()
	doc := query(t, Tabs(TabsProps{Manual: true, Tabs: []Section{
		{Value: "a", Title: "A", Disabled: true},
		{Value: "b", Title: "B"},
	}}))
	root := doc.Find(markup.Widget(markup.WidgetTabs))
	assert.Equal(t, "b", root.AttrOr(markup.DataAttrValue, ""))
	assert.Equal(t, "manual", root.AttrOr(markup.DataAttrActivation, ""))
	_, hidden := doc.Find(markup.Part(markup.PartPanel) + `[data-value="b"]`).Attr("hidden")
	assert.False(t, hidden)
}

func TestLayout(t *testing.T) {
	t.Parallel()
	out := render(t, Layout(LayoutProps{
		Title:       "facet <ui>",
		Theme:       theme.Dark,
		Stylesheets: []string{"/static/facet.css"},
		Body:        text("hello"),
	}))
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<html lang="en" class="dark" data-theme="dark">`)
	assert.Contains(t, out, "<title>facet &lt;ui&gt;</title>")
	assert.Contains(t, out, theme.Script())
	assert.Contains(t, out, `href="/static/facet.css"`)

	light := render(t, Layout(LayoutProps{Theme: theme.System, Body: text("x")}))
	assert.Contains(t, light, `<html lang="en" data-theme="system">`)
}
