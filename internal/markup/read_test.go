package markup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type attrs map[string]string

func (a attrs) Attr(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

func TestBool(t *testing.T) {
	t.Parallel()
	el := attrs{"a": "", "b": "false", "c": "true"}
	assert.True(t, Bool(el, "a"))
	assert.False(t, Bool(el, "b"))
	assert.True(t, Bool(el, "c"))
	assert.False(t, Bool(el, "missing"))
}

func TestDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "milliseconds", value: "150", want: 150 * time.Millisecond},
		{name: "go duration", value: "1.5s", want: 1500 * time.Millisecond},
		{name: "negative falls back", value: "-5", want: time.Second},
		{name: "garbage falls back", value: "soon", want: time.Second},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, Duration(attrs{"d": test.value}, "d", time.Second))
		})
	}
	assert.Equal(t, time.Second, Duration(attrs{}, "d", time.Second))
}

func TestFloat(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 2.5, Float(attrs{"n": " 2.5 "}, "n", 0), 0.0001)
	assert.InDelta(t, 7, Float(attrs{"n": "x"}, "n", 7), 0.0001)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var cfg struct {
		Min string `json:"min"`
	}
	assert.True(t, JSON(attrs{"c": `{"min": "2024-01-01", /* lower bound */}`}, "c", &cfg))
	assert.Equal(t, "2024-01-01", cfg.Min)

	assert.False(t, JSON(attrs{"c": `{"min": `}, "c", &cfg))
	assert.False(t, JSON(attrs{"c": ""}, "c", &cfg))
	assert.False(t, JSON(attrs{}, "c", &cfg))
}

func TestList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b"}, List(" a, ,b,"))
	assert.Nil(t, List(""))
}

func TestSelectors(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `[data-facet="select"]`, Widget(WidgetSelect))
	assert.Equal(t, `[data-facet-part="item"], [data-facet-part="checkbox-item"]`,
		Parts(PartItem, PartCheckboxItem))
}
