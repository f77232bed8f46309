package widget

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/stolasapp/facet/internal/dom"
	"github.com/stolasapp/facet/internal/markup"
)

type mountFunc func(*Env, *dom.Element) (Widget, error)

func mounter[C any, W Widget](from func(*dom.Element) C, build func(*Env, *dom.Element, C) (W, error)) mountFunc {
	return func(env *Env, root *dom.Element) (Widget, error) {
		w, err := build(env, root, from(root))
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}

var mounters = map[string]mountFunc{
	markup.WidgetPopover:     mounter(PopoverConfigFrom, NewPopover),
	markup.WidgetDialog:      mounter(DialogConfigFrom, NewDialog),
	markup.WidgetTooltip:     mounter(TooltipConfigFrom, NewHover),
	markup.WidgetHoverCard:   mounter(HoverCardConfigFrom, NewHover),
	markup.WidgetCollapsible: mounter(CollapsibleConfigFrom, NewCollapsible),
	markup.WidgetAccordion:   mounter(AccordionConfigFrom, NewAccordion),
	markup.WidgetTabs:        mounter(TabsConfigFrom, NewTabs),
	markup.WidgetSelect:      mounter(SelectConfigFrom, NewSelect),
	markup.WidgetCombobox:    mounter(ComboboxConfigFrom, NewCombobox),
	markup.WidgetCommand:     mounter(CommandConfigFrom, NewCommand),
	markup.WidgetMenu:        mounter(MenuConfigFrom, NewMenu),
	markup.WidgetCheckbox:    mounter(ToggleConfigFrom, NewToggle),
	markup.WidgetSwitch:      mounter(ToggleConfigFrom, NewToggle),
	markup.WidgetRadioGroup:  mounter(RadioGroupConfigFrom, NewRadioGroup),
	markup.WidgetSlider:      mounter(SliderConfigFrom, NewSlider),
	markup.WidgetDatePicker:  mounter(DatePickerConfigFrom, NewDatePicker),
	markup.WidgetThemeToggle: mounter(func(*dom.Element) ThemeToggleConfig { return ThemeToggleConfig{} }, NewThemeToggle),
}

// Mount attaches a controller to every data-facet root of the document in
// document order. Unknown widget names are logged and skipped. The first
// construction error destroys what was already mounted and is returned.
func Mount(env *Env) ([]Widget, error) {
	var mounted []Widget
	for _, root := range env.Doc.QueryAll("[" + markup.DataAttrWidget + "]") {
		name := root.AttrOr(markup.DataAttrWidget, "")
		mount, ok := mounters[name]
		if !ok {
			env.Logger.Warn("unknown widget", slog.String("component", name))
			continue
		}
		w, err := mount(env, root)
		if err != nil {
			for _, m := range mounted {
				m.Destroy()
			}
			return nil, fmt.Errorf("failed to mount %s: %w", name, err)
		}
		mounted = append(mounted, w)
	}
	env.Logger.Debug("mounted widgets", slog.Int("count", len(mounted)))
	return mounted, nil
}

// Names returns every widget name Mount recognizes, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(mounters))
}
