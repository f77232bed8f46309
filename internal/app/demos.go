package app

import (
	"maps"
	"slices"
	"time"

	"github.com/a-h/templ"

	"github.com/stolasapp/facet/internal/catalog"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/theme"
	"github.com/stolasapp/facet/internal/ui"
	"github.com/stolasapp/facet/internal/widget"
)

// ErrUnknownComponent is returned for a component name without a demo.
const ErrUnknownComponent Error = "unknown component"

// Error is an error type returned by this package.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// perGroup is how many catalog entries of each group the local lists show.
const perGroup = 4

// demoData is what a demo may draw from when rendering.
type demoData struct {
	catalog   *catalog.Catalog
	searchURL string
	theme     theme.Preference
}

func (d demoData) options(n int) []ui.Option {
	var opts []ui.Option
	taken := make(map[string]int)
	for _, e := range d.catalog.Entries() {
		if taken[e.Group] == n {
			continue
		}
		taken[e.Group]++
		opts = append(opts, ui.Option{Value: e.Value, Label: e.Label, Group: e.Group})
	}
	return opts
}

type demo struct {
	title   string
	summary string
	// docs is CommonMark.
	docs   string
	render func(demoData) templ.Component
}

var demos = map[string]demo{
	markup.WidgetPopover: {
		title:   "Popover",
		summary: "Floating content anchored to a trigger, opened by click.",
		docs: "Click the trigger to toggle the content. `Escape` or a click outside closes it and returns focus " +
			"to the trigger.\n\nSet `data-side`, `data-align` and `data-offset` to change the placement. " +
			"The content flips to the opposite side when it would overflow the viewport.",
		render: func(demoData) templ.Component {
			return ui.Popover(ui.PopoverProps{
				ID:         "popover-demo",
				Trigger:    ui.Text("Open popover"),
				Content:    ui.Text("Place any content here."),
				CloseLabel: "Done",
				Placement:  ui.Placement{Side: "bottom", Align: "start", Offset: 4},
			})
		},
	},
	markup.WidgetDialog: {
		title:   "Dialog",
		summary: "A modal window that traps focus until dismissed.",
		docs: "Opening the dialog moves focus to its first focusable element and keeps `Tab` inside it. " +
			"`Escape`, a close button or a click on the overlay dismisses it.\n\n" +
			"Add `data-dismiss-outside=\"false\"` to ignore overlay clicks.",
		render: func(demoData) templ.Component {
			return ui.Dialog(ui.DialogProps{
				ID:          "dialog-demo",
				Trigger:     ui.Text("Edit profile"),
				Title:       "Edit profile",
				Description: "Changes are saved when you close the dialog.",
				Content:     ui.Text("Name and email fields go here."),
				CloseLabel:  "Save changes",
			})
		},
	},
	markup.WidgetTooltip: {
		title:   "Tooltip",
		summary: "A short label shown on hover or focus after a delay.",
		docs:    "`data-open-delay` and `data-close-delay` accept a Go duration such as `300ms` or a bare number of milliseconds.",
		render: func(demoData) templ.Component {
			return ui.Tooltip(ui.HoverProps{
				ID:        "tooltip-demo",
				Trigger:   ui.Text("Hover me"),
				Content:   ui.Text("Add to library"),
				Placement: ui.Placement{Side: "top"},
				OpenDelay: 300 * time.Millisecond,
			})
		},
	},
	markup.WidgetHoverCard: {
		title:   "Hover card",
		summary: "A rich preview that stays open while the pointer is over it.",
		docs:    "Moving the pointer from the trigger into the card keeps it open. Leaving both closes it after the close delay.",
		render: func(demoData) templ.Component {
			return ui.HoverCard(ui.HoverProps{
				ID:         "hover-card-demo",
				Trigger:    ui.Link("#hover-card-demo", "@facet", ""),
				Content:    ui.Text("Server-rendered widgets with a headless interaction runtime."),
				OpenDelay:  500 * time.Millisecond,
				CloseDelay: 200 * time.Millisecond,
			})
		},
	},
	markup.WidgetCollapsible: {
		title:   "Collapsible",
		summary: "A region shown and hidden in place.",
		docs:    "The trigger reflects the state in `aria-expanded`; the content carries `data-state`.",
		render: func(demoData) templ.Component {
			return ui.Collapsible(ui.CollapsibleProps{
				ID:      "collapsible-demo",
				Trigger: ui.Text("Show 3 more repositories"),
				Content: ui.Stack(ui.Text("facet/dom"), ui.Text("facet/widget"), ui.Text("facet/ui")),
			})
		},
	},
	markup.WidgetAccordion: {
		title:   "Accordion",
		summary: "Stacked sections, each expanding its own panel.",
		docs: "By default one section is open at a time. `data-multiple` lets sections open independently and " +
			"`data-collapsible` allows closing the last open one.\n\n" +
			"Arrow keys move between triggers and wrap; `Home` and `End` jump to the ends.",
		render: func(demoData) templ.Component {
			return ui.Accordion(ui.AccordionProps{
				ID:          "accordion-demo",
				Name:        "faq",
				Open:        []string{"accessible"},
				Collapsible: true,
				Sections: []ui.Section{
					{Value: "accessible", Title: "Is it accessible?", Content: ui.Text("It follows the WAI-ARIA design pattern.")},
					{Value: "styled", Title: "Is it styled?", Content: ui.Text("It ships utility classes you can override.")},
					{Value: "animated", Title: "Is it animated?", Content: ui.Text("Closing waits for the exit transition.")},
				},
			})
		},
	},
	markup.WidgetTabs: {
		title:   "Tabs",
		summary: "A tab strip switching between panels.",
		docs:    "Arrow keys move focus between tabs and activate them. Set `data-activation=\"manual\"` to require `Enter` or `Space`.",
		render: func(demoData) templ.Component {
			return ui.Tabs(ui.TabsProps{
				ID: "tabs-demo",
				Tabs: []ui.Section{
					{Value: "account", Title: "Account", Content: ui.Text("Make changes to your account here.")},
					{Value: "password", Title: "Password", Content: ui.Text("Change your password here.")},
					{Value: "billing", Title: "Billing", Content: ui.Text("Billing is managed elsewhere."), Disabled: true},
				},
			})
		},
	},
	markup.WidgetSelect: {
		title:   "Select",
		summary: "A button that opens a list of options.",
		docs: "`ArrowDown`, `ArrowUp`, `Enter` and `Space` on the closed trigger open the list with the selection " +
			"highlighted. Typing in the search field filters the options.\n\n" +
			"With `data-multiple` the list stays open and the hidden input holds comma-joined values.",
		render: func(d demoData) templ.Component {
			return ui.Select(ui.SelectProps{
				ID:          "select-demo",
				Name:        "item",
				Placeholder: "Select an item",
				Options:     d.options(perGroup),
				Searchable:  true,
			})
		},
	},
	markup.WidgetCombobox: {
		title:   "Combobox",
		summary: "A text field that filters local options and queries the search endpoint.",
		docs: "Typing filters the local options immediately and asks the search endpoint after a short pause. " +
			"Results from an older query are discarded.\n\n" +
			"The search endpoint accepts a CEL `filter` over `this.label`, `this.group`, `this.value` and " +
			"`this.description`, for example `this.group == \"Fruits\"`.",
		render: func(d demoData) templ.Component {
			return ui.Combobox(ui.ComboboxProps{
				ID:          "combobox-demo",
				Name:        "item",
				Placeholder: "Search the catalog...",
				Options:     d.options(perGroup / 2),
				SearchURL:   d.searchURL,
			})
		},
	},
	markup.WidgetCommand: {
		title:   "Command",
		summary: "An always-open palette over a grouped list of actions.",
		docs:    "Groups hide when none of their items match. With `data-loop` arrow navigation wraps at either end.",
		render: func(d demoData) templ.Component {
			return ui.Command(ui.CommandProps{
				ID:          "command-demo",
				Placeholder: "Type a command or search...",
				Options:     d.options(perGroup),
				SearchURL:   d.searchURL,
				Loop:        true,
			})
		},
	},
	markup.WidgetMenu: {
		title:   "Dropdown menu",
		summary: "A menu of actions with nested submenus.",
		docs: "`ArrowRight` or `Enter` opens a submenu and `ArrowLeft` closes it. `Escape` closes the innermost " +
			"open level first.\n\nCheckbox and radio items keep the menu open.",
		render: func(demoData) templ.Component {
			return ui.Menu(ui.MenuProps{
				ID:      "menu-demo",
				Trigger: ui.Text("Options"),
				Items: []ui.MenuItem{
					{Value: "profile", Label: "Profile"},
					{Value: "settings", Label: "Settings"},
					{Kind: ui.MenuSub, Value: "invite", Label: "Invite users", Items: []ui.MenuItem{
						{Value: "email", Label: "Email"},
						{Value: "message", Label: "Message"},
					}},
					{Kind: ui.MenuSeparator},
					{Kind: ui.MenuCheckbox, Value: "status-bar", Label: "Status bar", Checked: true},
					{Kind: ui.MenuRadio, Group: "position", Value: "top", Label: "Top", Checked: true},
					{Kind: ui.MenuRadio, Group: "position", Value: "bottom", Label: "Bottom"},
					{Kind: ui.MenuSeparator},
					{Value: "api", Label: "API", Disabled: true},
				},
			})
		},
	},
	markup.WidgetCheckbox: {
		title:   "Checkbox",
		summary: "A two-state check box.",
		docs:    "Click or `Space` toggles it. The hidden input holds the value while checked and is empty otherwise.",
		render: func(demoData) templ.Component {
			return ui.Checkbox(ui.ToggleProps{ID: "checkbox-demo", Name: "terms", Label: "Accept terms and conditions"})
		},
	},
	markup.WidgetSwitch: {
		title:   "Switch",
		summary: "An on/off switch.",
		docs:    "A switch is a checkbox with `role=\"switch\"`.",
		render: func(demoData) templ.Component {
			return ui.Switch(ui.ToggleProps{ID: "switch-demo", Name: "airplane", Label: "Airplane mode", Checked: true})
		},
	},
	markup.WidgetRadioGroup: {
		title:   "Radio group",
		summary: "A set of mutually exclusive choices.",
		docs:    "Arrow keys move and select, skipping disabled choices and wrapping at the ends.",
		render: func(demoData) templ.Component {
			return ui.RadioGroup(ui.RadioGroupProps{
				ID:    "radio-group-demo",
				Name:  "density",
				Value: "comfortable",
				Options: []ui.Option{
					{Value: "default", Label: "Default"},
					{Value: "comfortable", Label: "Comfortable"},
					{Value: "compact", Label: "Compact", Disabled: true},
				},
			})
		},
	},
	markup.WidgetSlider: {
		title:   "Slider",
		summary: "A value picked along a track.",
		docs:    "Arrow keys move by one step, `PageUp` and `PageDown` by ten, `Home` and `End` to the bounds.",
		render: func(demoData) templ.Component {
			return ui.Slider(ui.SliderProps{ID: "slider-demo", Name: "volume", Value: 50, Step: 5, Label: "Volume"})
		},
	},
	markup.WidgetDatePicker: {
		title:   "Date picker",
		summary: "A calendar popover writing an ISO-8601 date.",
		docs: "Configure the calendar with JSON in `data-calendar`; comments and trailing commas are allowed. " +
			"Malformed configuration falls back to the defaults.\n\n" +
			"| key | meaning |\n| --- | --- |\n| `weekStartsOn` | 0 (Sunday) to 6 |\n" +
			"| `min`, `max` | bounds as `YYYY-MM-DD` |\n| `disabledWeekdays` | weekdays that cannot be picked |\n" +
			"| `format` | Go layout of the trigger label |",
		render: func(demoData) templ.Component {
			return ui.DatePicker(ui.DatePickerProps{
				ID:          "date-picker-demo",
				Name:        "date",
				Placeholder: "Pick a date",
				Calendar:    widget.CalendarOptions{WeekStartsOn: 1, DisabledWeekdays: []int{0, 6}},
			})
		},
	},
	markup.WidgetThemeToggle: {
		title:   "Theme toggle",
		summary: "Switches between light and dark and remembers the choice.",
		docs:    "The choice is stored per visitor. Pages render with the stored theme so it never flashes.",
		render: func(d demoData) templ.Component {
			return ui.ThemeToggle(ui.ThemeToggleProps{ID: "theme-toggle-demo", Dark: d.theme == theme.Dark})
		},
	},
}

// Components lists every component with a demo, sorted.
func Components() []string {
	return slices.Sorted(maps.Keys(demos))
}

// Fragment renders the demo of the named component without the page around
// it. Remote searches in the demo go to searchURL.
func Fragment(name string, cat *catalog.Catalog, searchURL string) (templ.Component, error) {
	d, ok := demos[name]
	if !ok {
		return nil, ErrUnknownComponent
	}
	return d.render(demoData{catalog: cat, searchURL: searchURL, theme: theme.System}), nil
}
