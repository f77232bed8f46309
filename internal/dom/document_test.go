package dom

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/facet/internal/clock"
)

func parse(t *testing.T, body string) *Document {
	t.Helper()
	doc, err := ParseString("<!doctype html><html><head></head><body>"+body+"</body></html>",
		WithClock(clock.Fake(time.Unix(0, 0))))
	require.NoError(t, err)
	return doc
}

func TestDispatch_Bubbles(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<div id="outer"><button id="inner">x</button></div>`)
	outer := doc.ElementByID("outer")
	inner := doc.ElementByID("inner")

	var order []string
	outer.AddEventListener(EventClick, func(ev *Event) {
		order = append(order, "outer")
		assert.Equal(t, inner, ev.Target)
		assert.Equal(t, outer, ev.CurrentTarget)
	})
	inner.AddEventListener(EventClick, func(*Event) { order = append(order, "inner") })
	doc.AddEventListener(EventClick, func(*Event) { order = append(order, "document") })

	inner.Click()
	assert.Equal(t, []string{"inner", "outer", "document"}, order)
}

func TestDispatch_StopPropagation(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<div id="outer"><button id="inner">x</button></div>`)
	inner := doc.ElementByID("inner")

	reached := false
	doc.ElementByID("outer").AddEventListener(EventKeyDown, func(*Event) { reached = true })
	doc.AddEventListener(EventKeyDown, func(*Event) { reached = true })
	inner.AddEventListener(EventKeyDown, func(ev *Event) { ev.StopPropagation() })

	inner.KeyDown(KeyEnter, false)
	assert.False(t, reached)
}

func TestDispatch_NonBubbling(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<div id="outer"><span id="inner">x</span></div>`)

	reached := 0
	doc.ElementByID("outer").AddEventListener(EventMouseEnter, func(*Event) { reached++ })
	doc.AddEventListener(EventMouseEnter, func(*Event) { reached++ })

	doc.ElementByID("inner").Hover()
	assert.Zero(t, reached)
}

func TestAddEventListener_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()
	doc := parse(t, ``)

	calls := 0
	remove := doc.AddEventListener(EventPointerDown, func(*Event) { calls++ })
	other := doc.AddEventListener(EventPointerDown, func(*Event) { calls++ })
	require.Equal(t, 2, doc.ListenerCount(EventPointerDown))

	remove()
	remove()
	assert.Equal(t, 1, doc.ListenerCount(EventPointerDown))

	doc.Body().PointerDown()
	assert.Equal(t, 1, calls)

	other()
	assert.Zero(t, doc.ListenerCount(EventPointerDown))
}

func TestAddEventListener_RemovedDuringDispatch(t *testing.T) {
	t.Parallel()
	doc := parse(t, ``)

	var removeSecond func()
	secondCalled := false
	doc.AddEventListener(EventKeyDown, func(*Event) { removeSecond() })
	removeSecond = doc.AddEventListener(EventKeyDown, func(*Event) { secondCalled = true })

	doc.KeyDown(KeyEscape, false)
	assert.False(t, secondCalled)
}

func TestKeyDown_TabOrder(t *testing.T) {
	t.Parallel()
	doc := parse(t, `
		<button id="a">a</button>
		<span id="skip" tabindex="-1">skip</span>
		<input type="hidden" id="h">
		<div hidden><button id="hidden">h</button></div>
		<button id="disabled" disabled>d</button>
		<a id="link" href="#">l</a>
		<input id="field">`)

	ids := func() []string {
		var out []string
		for _, el := range doc.Tabbables() {
			out = append(out, el.ID())
		}
		return out
	}
	assert.Equal(t, []string{"a", "link", "field"}, ids())

	doc.ElementByID("a").Focus()
	doc.KeyDown(KeyTab, false)
	assert.Equal(t, "link", doc.ActiveElement().ID())
	doc.KeyDown(KeyTab, false)
	assert.Equal(t, "field", doc.ActiveElement().ID())
	doc.KeyDown(KeyTab, true)
	assert.Equal(t, "link", doc.ActiveElement().ID())

	doc.ElementByID("field").Focus()
	doc.KeyDown(KeyTab, false)
	assert.Nil(t, doc.ActiveElement())
}

func TestKeyDown_PreventedTabKeepsFocus(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<button id="a">a</button><button id="b">b</button>`)
	a := doc.ElementByID("a")
	a.AddEventListener(EventKeyDown, func(ev *Event) { ev.PreventDefault() })

	a.Focus()
	assert.False(t, doc.KeyDown(KeyTab, false))
	assert.True(t, a.HasFocus())
}

func TestFocus_Events(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<button id="a">a</button><button id="b">b</button><p id="p">text</p>`)
	a, b := doc.ElementByID("a"), doc.ElementByID("b")

	var got []string
	doc.AddEventListener(EventFocusIn, func(ev *Event) { got = append(got, "in:"+ev.Target.ID()) })
	doc.AddEventListener(EventFocusOut, func(ev *Event) {
		related := ""
		if ev.RelatedTarget != nil {
			related = ev.RelatedTarget.ID()
		}
		got = append(got, "out:"+ev.Target.ID()+">"+related)
	})

	a.Focus()
	a.Focus()
	b.Focus()
	doc.ElementByID("p").Focus()
	b.Blur()
	assert.Equal(t, []string{"in:a", "out:a>b", "in:b", "out:b>"}, got)
}

func TestClick_FocusesNearestFocusable(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<button id="btn"><span id="label">go</span></button><p id="p">x</p>`)

	doc.ElementByID("label").Click()
	assert.Equal(t, "btn", doc.ActiveElement().ID())

	doc.ElementByID("p").Click()
	assert.Nil(t, doc.ActiveElement())
}

func TestSetScrollTop_TranslatesDescendants(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<ul id="list"><li id="one">1</li><li id="two">2</li></ul>`)
	list := doc.ElementByID("list")
	list.SetRect(Rect{Y: 100, Width: 200, Height: 50})
	list.SetScrollHeight(200)
	one := doc.ElementByID("one")
	one.SetRect(Rect{Y: 100, Width: 200, Height: 25})
	two := doc.ElementByID("two")
	two.SetRect(Rect{Y: 125, Width: 200, Height: 25})

	scrolls := 0
	doc.AddEventListener(EventScroll, func(*Event) { scrolls++ })

	list.SetScrollTop(20)
	assert.InDelta(t, 80, one.Rect().Top(), 0.001)
	assert.InDelta(t, 105, two.Rect().Top(), 0.001)
	assert.InDelta(t, 100, list.Rect().Top(), 0.001)
	assert.InDelta(t, 200, list.ScrollHeight(), 0.001)
	assert.Equal(t, 1, scrolls)
}

func TestObserve(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<div id="box"></div>`)
	box := doc.ElementByID("box")

	calls := 0
	stop := box.Observe(func() { calls++ })
	box.SetRect(Rect{Width: 10, Height: 10})
	box.SetRect(Rect{Width: 10, Height: 10})
	stop()
	box.SetRect(Rect{Width: 20, Height: 10})
	assert.Equal(t, 1, calls)
}

func TestAppendHTML(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<ul id="list"><li>a</li></ul>`)
	list := doc.ElementByID("list")

	added := list.AppendHTML(`<li id="b">b</li><li id="c">c</li>`)
	require.Len(t, added, 2)
	assert.Equal(t, "b", added[0].ID())
	assert.Len(t, list.Children(), 3)

	added[1].Remove()
	assert.False(t, added[1].Attached())
	assert.Len(t, list.QueryAll("li"), 2)
}

func TestMustQuery(t *testing.T) {
	t.Parallel()
	doc := parse(t, `<div id="root"></div>`)

	_, err := doc.ElementByID("root").MustQuery(`[data-facet-part="content"]`)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoop_StoppedTimerNeverRuns(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(time.Unix(0, 0))
	loop := NewLoop(clk)

	ran := false
	timer := loop.AfterFunc(100*time.Millisecond, func() { ran = true })
	clk.Advance(100 * time.Millisecond)
	assert.True(t, timer.Stop(), "callback queued but not yet run")
	loop.Drain()
	assert.False(t, ran)
	assert.False(t, timer.Stop())
}

func TestLoop_AfterFuncRunsOnDrain(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(time.Unix(0, 0))
	loop := NewLoop(clk)

	var order []int
	loop.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })
	loop.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
	clk.Advance(5 * time.Millisecond)
	assert.Zero(t, loop.Drain())

	clk.Advance(15 * time.Millisecond)
	assert.Equal(t, 2, loop.Drain())
	assert.Equal(t, []int{1, 2}, order)
}

func TestLoop_Run(t *testing.T) {
	t.Parallel()
	loop := NewLoop(clock.Real())
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	go func() {
		_ = loop.Run(ctx)
	}()
	loop.Post(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted callback did not run")
	}
}
