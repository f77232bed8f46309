package widget

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/facet/internal/clock"
	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
)

type harness struct {
	t   *testing.T
	doc *dom.Document
	clk *clock.FakeClock
	env *Env
}

func newHarness(t *testing.T, body string, opts ...EnvOption) *harness {
	t.Helper()
	clk := clock.Fake(time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC))
	doc, err := dom.ParseString("<!doctype html><html><head></head><body>"+body+"</body></html>", dom.WithClock(clk))
	require.NoError(t, err)
	opts = append([]EnvOption{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	return &harness{t: t, doc: doc, clk: clk, env: NewEnv(doc, opts...)}
}

func (h *harness) el(id string) *dom.Element {
	h.t.Helper()
	el := h.doc.ElementByID(id)
	require.NotNil(h.t, el, "element #%s", id)
	return el
}

func (h *harness) advance(d time.Duration) {
	h.clk.Advance(d)
	h.doc.Loop().Drain()
}

// settle drains the loop until cond holds, for work completing on other
// goroutines such as remote searches.
func (h *harness) settle(cond func() bool) {
	h.t.Helper()
	require.Eventually(h.t, func() bool {
		h.doc.Loop().Drain()
		return cond()
	}, 5*time.Second, time.Millisecond)
}

func (h *harness) activeID() string {
	if el := h.doc.ActiveElement(); el != nil {
		return el.ID()
	}
	return ""
}

func TestStructureError(t *testing.T) {
	t.Parallel()

	err := error(&StructureError{Widget: "tabs", Part: "panel", Detail: "value b"})
	require.ErrorIs(t, err, ErrMissingElement)
	assert.Equal(t, `missing required element: tabs part "panel" (value b)`, err.Error())

	var structure *StructureError
	require.ErrorAs(t, missing("select", "trigger"), &structure)
	assert.Equal(t, "trigger", structure.Part)
}

func TestParts_NestedOwnership(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `
<div data-facet="popover" id="outer">
	<button data-facet-part="trigger" id="outer-trigger">outer</button>
	<div data-facet-part="content">
		<div data-facet="popover" id="inner">
			<button data-facet-part="trigger" id="inner-trigger">inner</button>
		</div>
	</div>
</div>`)

	outer := parts(h.el("outer"), markup.PartTrigger)
	require.Len(t, outer, 1)
	assert.Equal(t, "outer-trigger", outer[0].ID())
	assert.Equal(t, "inner-trigger", part(h.el("inner"), markup.PartTrigger).ID())
	assert.Nil(t, part(h.el("inner"), markup.PartContent))
}

func TestEnsureID(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `<div id="facet-item-1"></div><div id="keep"></div><div class="anon"></div>`)

	assert.Equal(t, "keep", h.env.ensureID(h.el("keep"), "item"))
	anon := h.doc.Query(".anon")
	id := h.env.ensureID(anon, "item")
	assert.Equal(t, "facet-item-2", id, "existing ids are skipped")
	assert.Equal(t, id, h.env.ensureID(anon, "item"))
}

func TestSetInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t, `<input type="hidden" id="input" value="a">`)
	input := h.el("input")
	changes := 0
	input.AddEventListener(dom.EventChange, func(*dom.Event) { changes++ })

	setInput(input, "a")
	assert.Zero(t, changes)
	setInput(input, "b")
	assert.Equal(t, "b", input.Value())
	assert.Equal(t, 1, changes)
	setInput(nil, "c")
}

const gallery = `
<div data-facet="popover" id="popover">
	<button data-facet-part="trigger">open</button>
	<div data-facet-part="content" hidden><button>inside</button></div>
</div>
<div data-facet="checkbox" id="checkbox">
	<button data-facet-part="trigger">accept</button>
	<input type="hidden" data-facet-part="input">
</div>
<div data-facet="tabs" id="tabs">
	<div data-facet-part="list">
		<button data-facet-part="trigger" data-value="a">A</button>
		<button data-facet-part="trigger" data-value="b">B</button>
	</div>
	<div data-facet-part="panel" data-value="a">panel a</div>
	<div data-facet-part="panel" data-value="b">panel b</div>
</div>
<div data-facet="sparkles" id="unknown"></div>`

func TestMount(t *testing.T) {
	t.Parallel()
	h := newHarness(t, gallery)

	widgets, err := Mount(h.env)
	require.NoError(t, err)
	require.Len(t, widgets, 3)
	assert.Equal(t, "popover", widgets[0].Root().ID())
	assert.Equal(t, "checkbox", widgets[1].Root().ID())
	assert.Equal(t, "tabs", widgets[2].Root().ID())

	tabs, ok := widgets[2].(*Tabs)
	require.True(t, ok)
	assert.Equal(t, "a", tabs.Value())

	for _, w := range widgets {
		w.Destroy()
	}
}

func TestMount_StructureErrorFailsFast(t *testing.T) {
	t.Parallel()
	h := newHarness(t, gallery+`
<div data-facet="tabs" id="broken">
	<button data-facet-part="trigger" data-value="orphan">orphan</button>
</div>`)

	widgets, err := Mount(h.env)
	require.Error(t, err)
	assert.Nil(t, widgets)
	require.ErrorIs(t, err, ErrMissingElement)

	var structure *StructureError
	require.True(t, errors.As(err, &structure))
	assert.Equal(t, markup.WidgetTabs, structure.Widget)
	assert.Equal(t, markup.PartPanel, structure.Part)

	h.el("popover").Query(markup.Part(markup.PartTrigger)).Click()
	assert.True(t, h.doc.ElementByID("popover").Query(markup.Part(markup.PartContent)).Hidden(),
		"widgets mounted before the failure are destroyed")
}

func TestNames(t *testing.T) {
	t.Parallel()
	names := Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, markup.WidgetDatePicker)
	assert.Contains(t, names, markup.WidgetThemeToggle)
	assert.Len(t, names, 17)
}
