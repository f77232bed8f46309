package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_Weeks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		weekStart time.Weekday
		month     time.Time
		weeks     int
		first     time.Time
		last      time.Time
	}{
		{"sunday start", time.Sunday, date(2024, time.March, 15), 6, date(2024, time.February, 25), date(2024, time.April, 6)},
		{"monday start", time.Monday, date(2024, time.March, 1), 5, date(2024, time.February, 26), date(2024, time.March, 31)},
		{"exact fit", time.Sunday, date(2026, time.February, 10), 4, date(2026, time.February, 1), date(2026, time.February, 28)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			cal := Calendar{WeekStart: test.weekStart}
			weeks := cal.Weeks(test.month)
			require.Len(t, weeks, test.weeks)
			assert.Equal(t, test.first, weeks[0][0])
			assert.Equal(t, test.last, weeks[len(weeks)-1][6])
			for _, week := range weeks {
				assert.Equal(t, test.weekStart, week[0].Weekday())
			}
		})
	}
}

func TestCalendar_Weekdays(t *testing.T) {
	t.Parallel()
	cal := Calendar{WeekStart: time.Saturday}
	assert.Equal(t, []time.Weekday{
		time.Saturday, time.Sunday, time.Monday, time.Tuesday,
		time.Wednesday, time.Thursday, time.Friday,
	}, cal.Weekdays())
}

func TestCalendar_Bounds(t *testing.T) {
	t.Parallel()
	cal := CalendarOptions{
		Min:              "2024-03-10",
		Max:              "2024-03-01",
		DisabledWeekdays: []int{0, 6, 9},
	}.Resolve()
	assert.Equal(t, date(2024, time.March, 1), cal.Min, "reversed bounds are swapped")
	assert.Equal(t, date(2024, time.March, 10), cal.Max)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, cal.Disabled)
	assert.Equal(t, DefaultDateFormat, cal.Format)

	assert.True(t, cal.Allowed(date(2024, time.March, 4)))
	assert.False(t, cal.Allowed(date(2024, time.March, 2)), "saturday")
	assert.False(t, cal.Allowed(date(2024, time.February, 29)))
	assert.False(t, cal.Allowed(date(2024, time.March, 11)))

	assert.Equal(t, cal.Min, cal.Clamp(date(2023, time.December, 25)))
	assert.Equal(t, cal.Max, cal.Clamp(date(2025, time.January, 1)))
	assert.Equal(t, date(2024, time.March, 5), cal.Clamp(date(2024, time.March, 5)))
}

func TestCalendarOptions_Resolve(t *testing.T) {
	t.Parallel()
	cal := CalendarOptions{WeekStartsOn: 9, Min: "March 1", Format: "2006/01/02"}.Resolve()
	assert.Equal(t, time.Sunday, cal.WeekStart)
	assert.True(t, cal.Min.IsZero())
	assert.Equal(t, "2006/01/02", cal.Format)
}

func TestAddMonths(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{date(2023, time.March, 31), -1, date(2023, time.February, 28)},
		{date(2024, time.December, 15), 1, date(2025, time.January, 15)},
		{date(2024, time.May, 31), -12, date(2023, time.May, 31)},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, addMonths(test.in, test.n), "%v%+d", test.in, test.n)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()
	d, ok := ParseDate("2024-02-29")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.February, 29), d)

	for _, bad := range []string{"", "2023-02-29", "02/29/2024", "2024-02-29T10:00:00Z"} {
		_, ok := ParseDate(bad)
		assert.False(t, ok, bad)
	}
}

const datePickerPage = `
<div data-facet="date-picker" id="dp" data-placeholder="Pick a date"
	data-calendar='{
		// weeks start on monday
		"weekStartsOn": 1,
		"min": "2024-02-10",
		"max": "2024-04-20",
		"disabledWeekdays": [0],
	}'>
	<button data-facet-part="trigger" id="trigger"><span data-facet-part="label" id="label"></span></button>
	<input type="hidden" name="day" data-facet-part="input" id="input">
	<div data-facet-part="content" id="content" hidden>
		<button data-facet-part="prev" id="prev">prev</button>
		<span data-facet-part="heading" id="heading"></span>
		<button data-facet-part="next" id="next">next</button>
		<div data-facet-part="grid" id="grid"></div>
	</div>
</div>
<button id="outside">outside</button>`

func focusedDay(h *harness) string {
	if el := h.doc.ActiveElement(); el != nil {
		return el.AttrOr(markup.DataAttrValue, "")
	}
	return ""
}

func TestDatePicker(t *testing.T) {
	t.Parallel()
	h := newHarness(t, datePickerPage)
	var picked []time.Time
	cfg := DatePickerConfigFrom(h.el("dp"))
	cfg.OnChange = func(day time.Time) { picked = append(picked, day) }
	require.Equal(t, time.Monday, cfg.Calendar.WeekStart, "commented JSON is accepted")
	dp, err := NewDatePicker(h.env, h.el("dp"), cfg)
	require.NoError(t, err)
	trigger, grid := h.el("trigger"), h.el("grid")
	assert.Equal(t, "Pick a date", h.el("label").Text())
	assert.True(t, trigger.HasAttr(markup.DataAttrPlaceholder))
	assert.Equal(t, "dialog", trigger.AttrOr(markup.AriaHasPopup, ""))

	trigger.Click()
	require.True(t, dp.IsOpen())
	assert.Equal(t, "March 2024", h.el("heading").Text())
	assert.Equal(t, "2024-03-15", focusedDay(h), "today takes focus")
	today := dp.dayButton(date(2024, time.March, 15))
	assert.True(t, today.HasAttr("data-today"))
	assert.Equal(t, "date", today.AttrOr("aria-current", ""))
	assert.Equal(t, "Mo", grid.Query(`[role="columnheader"]`).Text())
	assert.Len(t, grid.QueryAll(markup.Part(markup.PartDay)), 35)
	assert.True(t, dp.dayButton(date(2024, time.February, 26)).HasAttr("data-outside"))

	h.doc.KeyDown(dom.KeyArrowRight, false)
	h.doc.KeyDown(dom.KeyArrowRight, false)
	assert.Equal(t, "2024-03-17", focusedDay(h))
	assert.True(t, dp.dayButton(date(2024, time.March, 17)).HasAttr(markup.DataAttrDisabled))
	h.doc.KeyDown(dom.KeyEnter, false)
	assert.True(t, dp.IsOpen(), "disabled days cannot be selected")
	assert.True(t, dp.Value().IsZero())

	h.doc.KeyDown(dom.KeyArrowUp, false)
	assert.Equal(t, "2024-03-10", focusedDay(h))
	h.doc.KeyDown(dom.KeyHome, false)
	assert.Equal(t, "2024-03-04", focusedDay(h))
	h.doc.KeyDown(dom.KeyEnd, false)
	assert.Equal(t, "2024-03-10", focusedDay(h))

	h.doc.KeyDown(dom.KeyPageUp, false)
	assert.Equal(t, "February 2024", h.el("heading").Text())
	assert.Equal(t, "2024-02-10", focusedDay(h))
	assert.True(t, h.el("prev").HasAttr("disabled"), "the minimum month cannot go back")
	h.doc.KeyDown(dom.KeyArrowUp, false)
	assert.Equal(t, date(2024, time.February, 10), dp.Cursor(), "the cursor is clamped to the minimum")

	h.el("next").Click()
	h.el("next").Click()
	assert.Equal(t, date(2024, time.April, 1), dp.Month())
	assert.True(t, h.el("next").HasAttr("disabled"))
	assert.True(t, dp.dayButton(date(2024, time.April, 27)).HasAttr(markup.DataAttrDisabled), "after the maximum")

	dp.dayButton(date(2024, time.April, 20)).Click()
	assert.False(t, dp.IsOpen())
	assert.Equal(t, date(2024, time.April, 20), dp.Value())
	assert.Equal(t, "2024-04-20", h.el("input").Value())
	assert.Equal(t, "Apr 20, 2024", h.el("label").Text())
	assert.False(t, trigger.HasAttr(markup.DataAttrPlaceholder))
	assert.Equal(t, "trigger", h.activeID())
	assert.Equal(t, []time.Time{date(2024, time.April, 20)}, picked)

	trigger.Click()
	assert.Equal(t, "April 2024", h.el("heading").Text(), "reopening shows the selection")
	assert.Equal(t, "2024-04-20", focusedDay(h))
	assert.Equal(t, "true", dp.dayButton(date(2024, time.April, 20)).AttrOr(markup.AriaSelected, ""))

	h.doc.KeyDown(dom.KeyEscape, false)
	assert.False(t, dp.IsOpen())
	assert.Equal(t, "trigger", h.activeID())
	assert.Equal(t, "2024-04-20", h.el("input").Value())
}

func TestDatePicker_MalformedCalendar(t *testing.T) {
	t.Parallel()
	h := newHarness(t, datePickerPage)
	h.el("dp").SetAttr(markup.DataAttrCalendar, `{"weekStartsOn": 1, "min": `)
	h.el("input").SetValue("2024-01-05")
	cfg := DatePickerConfigFrom(h.el("dp"))
	assert.Equal(t, time.Sunday, cfg.Calendar.WeekStart)
	assert.True(t, cfg.Calendar.Min.IsZero())
	assert.Equal(t, DefaultDateFormat, cfg.Calendar.Format)
	assert.Equal(t, date(2024, time.January, 5), cfg.Value)

	dp, err := NewDatePicker(h.env, h.el("dp"), cfg)
	require.NoError(t, err)
	assert.Equal(t, "Jan 5, 2024", h.el("label").Text())
	assert.Equal(t, date(2024, time.January, 1), dp.Month())

	h.el("outside").Click()
	h.el("trigger").Click()
	h.el("outside").Click()
	assert.False(t, dp.IsOpen())
	assert.Equal(t, "outside", h.activeID())
}

func TestDatePicker_MissingGrid(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
<div data-facet="date-picker" id="dp">
	<button data-facet-part="trigger">pick</button>
	<div data-facet-part="content"></div>
</div>`)
	_, err := NewDatePicker(h.env, h.el("dp"), DatePickerConfigFrom(h.el("dp")))
	var structure *StructureError
	require.ErrorAs(t, err, &structure)
	assert.Equal(t, markup.PartGrid, structure.Part)
}
