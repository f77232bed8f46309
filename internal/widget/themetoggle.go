package widget

import (
	"log/slog"

	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/theme"
)

// ThemeToggleConfig configures a [ThemeToggle].
type ThemeToggleConfig struct {
	OnChange func(pref theme.Preference)
}

// ThemeToggle flips the document between light and dark and persists the
// choice.
type ThemeToggle struct {
	root      *dom.Element
	cfg       ThemeToggleConfig
	env       *Env
	trigger   *dom.Element
	logger    *slog.Logger
	listeners listeners
}

// NewThemeToggle attaches a theme toggle to root, which acts as the button
// unless it has a trigger part. The persisted preference is applied at
// mount.
func NewThemeToggle(env *Env, root *dom.Element, cfg ThemeToggleConfig) (*ThemeToggle, error) {
	trigger := part(root, markup.PartTrigger)
	if trigger == nil {
		trigger = root
	}
	t := &ThemeToggle{
		root:    root,
		cfg:     cfg,
		env:     env,
		trigger: trigger,
		logger:  env.logger(markup.WidgetThemeToggle, root),
	}
	theme.Restore(env.Doc, env.Storage, env.SystemDark)
	t.sync()
	t.listeners.on(trigger, dom.EventClick, func(*dom.Event) { t.Toggle() })
	return t, nil
}

// Root satisfies [Widget].
func (t *ThemeToggle) Root() *dom.Element { return t.root }

// Toggle switches to the opposite of the rendered theme. A storage failure
// is logged and the document still switches.
func (t *ThemeToggle) Toggle() {
	pref := theme.Current(t.env.Doc).Toggle(t.env.SystemDark)
	if err := theme.Save(t.env.Storage, pref); err != nil {
		t.logger.Warn("failed to persist theme", slog.Any("error", err))
	}
	theme.Apply(t.env.Doc, pref, t.env.SystemDark)
	t.sync()
	if t.cfg.OnChange != nil {
		t.cfg.OnChange(pref)
	}
}

func (t *ThemeToggle) sync() {
	dark := theme.IsDark(t.env.Doc)
	t.trigger.SetAttr(markup.AriaPressed, boolAttr(dark))
	t.root.SetAttr(markup.DataAttrTheme, string(theme.Current(t.env.Doc)))
}

// Destroy satisfies [Widget].
func (t *ThemeToggle) Destroy() { t.listeners.release() }
