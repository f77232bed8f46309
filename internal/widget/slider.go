package widget

import (
	"fmt"
	"math"
	"strconv"

	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
)

// pageSteps is how many steps PageUp and PageDown move.
const pageSteps = 10

// SliderConfig configures a [Slider].
type SliderConfig struct {
	Min      float64
	Max      float64
	Step     float64
	Value    float64
	Disabled bool
	OnChange func(value float64)
}

// SliderConfigFrom reads a slider config from root. The range defaults to
// 0..100 with a step of 1, and the value to the minimum.
func SliderConfigFrom(root *dom.Element) SliderConfig {
	cfg := SliderConfig{
		Min:      markup.Float(root, markup.DataAttrMin, 0),
		Max:      markup.Float(root, markup.DataAttrMax, 100),
		Step:     markup.Float(root, markup.DataAttrStep, 1),
		Disabled: root.Disabled(),
	}
	cfg.Value = markup.Float(root, markup.DataAttrValue, cfg.Min)
	if input := part(root, markup.PartInput); input != nil {
		if v, err := strconv.ParseFloat(input.Value(), 64); err == nil {
			cfg.Value = v
		}
	}
	return cfg
}

// Slider picks a number in a range with a keyboard-operable thumb.
type Slider struct {
	root      *dom.Element
	cfg       SliderConfig
	thumb     *dom.Element
	rangeEl   *dom.Element
	input     *dom.Element
	value     float64
	listeners listeners
}

// NewSlider attaches a slider to root.
func NewSlider(_ *Env, root *dom.Element, cfg SliderConfig) (*Slider, error) {
	thumb := part(root, markup.PartThumb)
	if thumb == nil {
		return nil, missing(markup.WidgetSlider, markup.PartThumb)
	}
	if cfg.Max < cfg.Min {
		cfg.Min, cfg.Max = cfg.Max, cfg.Min
	}
	if cfg.Step <= 0 {
		cfg.Step = 1
	}
	s := &Slider{
		root:    root,
		cfg:     cfg,
		thumb:   thumb,
		rangeEl: part(root, markup.PartRange),
		input:   part(root, markup.PartInput),
	}
	thumb.SetAttr("role", "slider")
	thumb.SetAttr(markup.AriaValueMin, formatNumber(cfg.Min))
	thumb.SetAttr(markup.AriaValueMax, formatNumber(cfg.Max))
	if cfg.Disabled {
		thumb.SetAttr(markup.AriaDisabled, "true")
		thumb.SetAttr("tabindex", "-1")
	} else {
		if !thumb.HasAttr("tabindex") {
			thumb.SetAttr("tabindex", "0")
		}
		s.listeners.on(thumb, dom.EventKeyDown, s.onKey)
	}
	s.set(cfg.Value, false)
	return s, nil
}

// Root satisfies [Widget].
func (s *Slider) Root() *dom.Element { return s.root }

// Value returns the current value.
func (s *Slider) Value() float64 { return s.value }

// SetValue snaps v to the step grid within range.
func (s *Slider) SetValue(v float64) {
	if s.cfg.Disabled {
		return
	}
	s.set(v, true)
}

func (s *Slider) onKey(ev *dom.Event) {
	step := s.cfg.Step
	next := s.value
	switch ev.Key {
	case dom.KeyArrowRight, dom.KeyArrowUp:
		next += step
	case dom.KeyArrowLeft, dom.KeyArrowDown:
		next -= step
	case dom.KeyPageUp:
		next += step * pageSteps
	case dom.KeyPageDown:
		next -= step * pageSteps
	case dom.KeyHome:
		next = s.cfg.Min
	case dom.KeyEnd:
		next = s.cfg.Max
	default:
		return
	}
	ev.PreventDefault()
	s.set(next, true)
}

// snap rounds v to the nearest step from Min and clamps it to the range.
func (s *Slider) snap(v float64) float64 {
	lo, hi, step := s.cfg.Min, s.cfg.Max, s.cfg.Step
	v = lo + math.Round((v-lo)/step)*step
	// the last step may overshoot a max that is not on the grid
	v = math.Max(lo, math.Min(hi, v))
	return roundTo(v, decimals(step))
}

func (s *Slider) set(v float64, notify bool) {
	v = s.snap(v)
	changed := v != s.value
	s.value = v
	text := formatNumber(v)
	s.thumb.SetAttr(markup.AriaValueNow, text)
	s.root.SetAttr(markup.DataAttrValue, text)

	pct := 0.0
	if span := s.cfg.Max - s.cfg.Min; span > 0 {
		pct = (v - s.cfg.Min) / span * 100
	}
	s.thumb.SetAttr("style", fmt.Sprintf("left: %s%%", formatNumber(roundTo(pct, 2))))
	if s.rangeEl != nil {
		s.rangeEl.SetAttr("style", fmt.Sprintf("width: %s%%", formatNumber(roundTo(pct, 2))))
	}
	setInput(s.input, text)
	if notify && changed && s.cfg.OnChange != nil {
		s.cfg.OnChange(v)
	}
}

// Destroy satisfies [Widget].
func (s *Slider) Destroy() { s.listeners.release() }

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// decimals counts the fractional digits of step.
func decimals(step float64) int {
	text := formatNumber(step)
	for i := range len(text) {
		if text[i] == '.' {
			return len(text) - i - 1
		}
	}
	return 0
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
