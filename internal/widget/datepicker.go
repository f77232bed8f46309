package widget

import (
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/stolasapp/facet/internal/clock"
	"github.com/stolasapp/facet/internal/disclosure"
	"github.com/stolasapp/facet/internal/dismiss"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/position"
)

// DatePickerConfig configures a [DatePicker].
type DatePickerConfig struct {
	Calendar Calendar
	// Value is the selected date, zero for none.
	Value       time.Time
	Placeholder string
	Position    position.Options
	HideDelay   time.Duration
	OnChange    func(day time.Time)
}

// DatePickerConfigFrom reads a date picker config from root. A malformed
// data-calendar attribute yields the default calendar.
func DatePickerConfigFrom(root *dom.Element) DatePickerConfig {
	var opts CalendarOptions
	if !markup.JSON(root, markup.DataAttrCalendar, &opts) {
		opts = CalendarOptions{}
	}
	cfg := DatePickerConfig{
		Calendar:    opts.Resolve(),
		Placeholder: root.AttrOr(markup.DataAttrPlaceholder, ""),
		Position:    positionFrom(root, position.SideBottom, position.AlignStart),
		HideDelay:   markup.Duration(root, markup.DataAttrCloseDelay, hideDelay),
	}
	value := root.AttrOr(markup.DataAttrValue, "")
	if input := part(root, markup.PartInput); input != nil && input.Value() != "" {
		value = input.Value()
	}
	if day, ok := ParseDate(value); ok {
		cfg.Value = day
	}
	return cfg
}

// DatePicker is a trigger opening a month calendar. The selection is kept
// in a hidden input as an ISO-8601 date and shown formatted on the trigger.
type DatePicker struct {
	root    *dom.Element
	cfg     DatePickerConfig
	clock   clock.Clock
	trigger *dom.Element
	label   *dom.Element
	input   *dom.Element
	heading *dom.Element
	grid    *dom.Element
	prev    *dom.Element
	next    *dom.Element

	disclosure *disclosure.Disclosure
	logger     *slog.Logger

	selected time.Time
	view     time.Time
	cursor   time.Time

	listeners listeners
}

// NewDatePicker attaches a date picker to root.
func NewDatePicker(env *Env, root *dom.Element, cfg DatePickerConfig) (*DatePicker, error) {
	trigger := part(root, markup.PartTrigger)
	if trigger == nil {
		return nil, missing(markup.WidgetDatePicker, markup.PartTrigger)
	}
	content := part(root, markup.PartContent)
	if content == nil {
		return nil, missing(markup.WidgetDatePicker, markup.PartContent)
	}
	grid := part(root, markup.PartGrid)
	if grid == nil {
		return nil, missing(markup.WidgetDatePicker, markup.PartGrid)
	}
	if cfg.Calendar.Format == "" {
		cfg.Calendar.Format = DefaultDateFormat
	}
	dp := &DatePicker{
		root:    root,
		cfg:     cfg,
		clock:   env.Doc.Loop().Clock(),
		trigger: trigger,
		label:   part(root, markup.PartLabel),
		input:   part(root, markup.PartInput),
		heading: part(root, markup.PartHeading),
		grid:    grid,
		prev:    part(root, markup.PartPrev),
		next:    part(root, markup.PartNext),
		logger:  env.logger(markup.WidgetDatePicker, root),
	}
	if dp.label == nil {
		dp.label = trigger
	}
	if !cfg.Value.IsZero() {
		dp.selected = civil(cfg.Value)
	}
	grid.SetAttr("role", "grid")
	if dp.heading != nil {
		dp.heading.SetAttr(markup.AriaLive, "polite")
		grid.SetAttr(markup.AriaLabelledBy, env.ensureID(dp.heading, "calendar-heading"))
	}
	trigger.SetAttr(markup.AriaHasPopup, "dialog")
	trigger.SetAttr(markup.AriaControls, env.ensureID(content, "calendar"))
	content.SetAttr("role", "dialog")

	opts := cfg.Position
	d, err := disclosure.New(disclosure.Config{
		Trigger:        trigger,
		Content:        content,
		Container:      root,
		Stack:          env.Stack,
		DismissOutside: true,
		DismissEscape:  true,
		Position:       &opts,
		MoveFocus:      true,
		InitialFocus:   func() *dom.Element { return dp.dayButton(dp.cursor) },
		RestoreFocus:   true,
		HideDelay:      cfg.HideDelay,
		Expanded:       true,
		Logger:         dp.logger,
	})
	if err != nil {
		return nil, err
	}
	dp.disclosure = d

	dp.listeners.on(trigger, dom.EventClick, func(*dom.Event) {
		if d.IsOpen() {
			d.Close(dismiss.ReasonProgrammatic)
			return
		}
		dp.Open()
	})
	dp.listeners.on(grid, dom.EventClick, dp.onDayClick)
	dp.listeners.on(grid, dom.EventKeyDown, dp.onKey)
	if dp.prev != nil {
		dp.listeners.on(dp.prev, dom.EventClick, func(*dom.Event) { dp.shiftMonth(-1) })
	}
	if dp.next != nil {
		dp.listeners.on(dp.next, dom.EventClick, func(*dom.Event) { dp.shiftMonth(1) })
	}
	dp.sync()
	dp.cursor = dp.initialCursor()
	dp.view = monthOf(dp.cursor)
	dp.render()
	return dp, nil
}

// Root satisfies [Widget].
func (dp *DatePicker) Root() *dom.Element { return dp.root }

// IsOpen reports whether the calendar is shown.
func (dp *DatePicker) IsOpen() bool { return dp.disclosure.IsOpen() }

// Value returns the selected date, zero when none.
func (dp *DatePicker) Value() time.Time { return dp.selected }

// Month returns the first day of the displayed month.
func (dp *DatePicker) Month() time.Time { return dp.view }

// Cursor returns the keyboard-focused date.
func (dp *DatePicker) Cursor() time.Time { return dp.cursor }

// Open shows the calendar at the selected date, or today.
func (dp *DatePicker) Open() {
	if dp.disclosure.IsOpen() {
		return
	}
	dp.cursor = dp.initialCursor()
	dp.view = monthOf(dp.cursor)
	dp.render()
	dp.disclosure.Open()
}

// Select commits day when it is allowed.
func (dp *DatePicker) Select(day time.Time) bool {
	day = civil(day)
	if !dp.cfg.Calendar.Allowed(day) {
		return false
	}
	dp.selected = day
	dp.cursor = day
	dp.sync()
	if dp.cfg.OnChange != nil {
		dp.cfg.OnChange(day)
	}
	dp.disclosure.Close(dismiss.ReasonSelect)
	return true
}

func (dp *DatePicker) initialCursor() time.Time {
	if !dp.selected.IsZero() {
		return dp.selected
	}
	return dp.cfg.Calendar.Clamp(dp.today())
}

func (dp *DatePicker) today() time.Time {
	return civil(dp.clock.Now())
}

func (dp *DatePicker) onDayClick(ev *dom.Event) {
	if ev.Target == nil {
		return
	}
	btn := ev.Target.Closest(markup.Part(markup.PartDay))
	if btn == nil {
		return
	}
	if day, ok := ParseDate(btn.AttrOr(markup.DataAttrValue, "")); ok {
		dp.Select(day)
	}
}

func (dp *DatePicker) onKey(ev *dom.Event) {
	cal := dp.cfg.Calendar
	next := dp.cursor
	switch ev.Key {
	case dom.KeyArrowLeft:
		next = next.AddDate(0, 0, -1)
	case dom.KeyArrowRight:
		next = next.AddDate(0, 0, 1)
	case dom.KeyArrowUp:
		next = next.AddDate(0, 0, -7)
	case dom.KeyArrowDown:
		next = next.AddDate(0, 0, 7)
	case dom.KeyPageUp:
		next = addMonths(next, -1)
	case dom.KeyPageDown:
		next = addMonths(next, 1)
	case dom.KeyHome:
		next = next.AddDate(0, 0, -cal.offset(next))
	case dom.KeyEnd:
		next = next.AddDate(0, 0, 6-cal.offset(next))
	case dom.KeyEnter, dom.KeySpace:
		ev.PreventDefault()
		dp.Select(dp.cursor)
		return
	default:
		return
	}
	ev.PreventDefault()
	dp.moveCursor(cal.Clamp(next))
}

// moveCursor focuses day, paging the grid when it leaves the view.
func (dp *DatePicker) moveCursor(day time.Time) {
	dp.cursor = day
	if !monthOf(day).Equal(dp.view) {
		dp.view = monthOf(day)
		dp.render()
	} else {
		dp.syncTabStop()
	}
	if btn := dp.dayButton(day); btn != nil {
		btn.Focus()
	}
}

func (dp *DatePicker) shiftMonth(n int) {
	target := addMonths(dp.view, n)
	cal := dp.cfg.Calendar
	if n < 0 && !cal.Min.IsZero() && target.Before(monthOf(cal.Min)) {
		return
	}
	if n > 0 && !cal.Max.IsZero() && target.After(monthOf(cal.Max)) {
		return
	}
	dp.view = target
	dp.cursor = cal.Clamp(addMonths(dp.cursor, n))
	dp.render()
}

func (dp *DatePicker) dayButton(day time.Time) *dom.Element {
	return dp.grid.Query(fmt.Sprintf(`%s[%s="%s"]`,
		markup.Part(markup.PartDay), markup.DataAttrValue, day.Format(time.DateOnly)))
}

// render regenerates the grid for the displayed month.
func (dp *DatePicker) render() {
	cal := dp.cfg.Calendar
	if dp.heading != nil {
		dp.heading.SetText(dp.view.Format("January 2006"))
	}
	if dp.prev != nil {
		dp.prev.ToggleAttr("disabled", !cal.Min.IsZero() && !dp.view.After(monthOf(cal.Min)))
	}
	if dp.next != nil {
		dp.next.ToggleAttr("disabled", !cal.Max.IsZero() && !dp.view.Before(monthOf(cal.Max)))
	}
	for _, child := range dp.grid.Children() {
		child.Remove()
	}

	today := dp.today()
	var b strings.Builder
	b.WriteString(`<div role="row">`)
	for _, wd := range cal.Weekdays() {
		name := wd.String()
		fmt.Fprintf(&b, `<span role="columnheader" abbr="%s">%s</span>`, name, html.EscapeString(name[:2]))
	}
	b.WriteString(`</div>`)
	for _, week := range cal.Weeks(dp.view) {
		b.WriteString(`<div role="row">`)
		for _, day := range week {
			iso := day.Format(time.DateOnly)
			tabindex := "-1"
			if day.Equal(dp.cursor) {
				tabindex = "0"
			}
			fmt.Fprintf(&b, `<button type="button" role="gridcell" %s="%s" %s="%s" tabindex="%s"`,
				markup.DataAttrPart, markup.PartDay, markup.DataAttrValue, iso, tabindex)
			if day.Month() != dp.view.Month() {
				b.WriteString(` data-outside`)
			}
			if day.Equal(today) {
				b.WriteString(` data-today aria-current="date"`)
			}
			if !dp.selected.IsZero() && day.Equal(dp.selected) {
				fmt.Fprintf(&b, ` %s %s="true"`, markup.DataAttrSelected, markup.AriaSelected)
			}
			if !cal.Allowed(day) {
				fmt.Fprintf(&b, ` %s %s="true"`, markup.DataAttrDisabled, markup.AriaDisabled)
			}
			fmt.Fprintf(&b, `>%d</button>`, day.Day())
		}
		b.WriteString(`</div>`)
	}
	dp.grid.AppendHTML(b.String())
	dp.logger.Debug("rendered month", slog.String("month", dp.view.Format("2006-01")))
}

func (dp *DatePicker) syncTabStop() {
	iso := dp.cursor.Format(time.DateOnly)
	for _, btn := range dp.grid.QueryAll(markup.Part(markup.PartDay)) {
		tabindex := "-1"
		if btn.AttrOr(markup.DataAttrValue, "") == iso {
			tabindex = "0"
		}
		btn.SetAttr("tabindex", tabindex)
	}
}

// sync writes the selection to the hidden input and the trigger label.
func (dp *DatePicker) sync() {
	if dp.selected.IsZero() {
		setInput(dp.input, "")
		dp.label.SetText(dp.cfg.Placeholder)
		dp.trigger.SetAttr(markup.DataAttrPlaceholder, "")
		return
	}
	setInput(dp.input, dp.selected.Format(time.DateOnly))
	dp.label.SetText(dp.selected.Format(dp.cfg.Calendar.Format))
	dp.trigger.RemoveAttr(markup.DataAttrPlaceholder)
}

// Destroy satisfies [Widget].
func (dp *DatePicker) Destroy() {
	dp.listeners.release()
	dp.disclosure.Destroy()
}
