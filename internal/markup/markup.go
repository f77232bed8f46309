// Package markup is the attribute contract between the server-rendered
// widgets and the interaction runtime. Renderers emit these attributes and
// controllers locate parts and read options through them.
package markup

// Error is an error type for markup contract violations.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// ErrMissingElement reports that a widget's markup lacks a required part.
const ErrMissingElement Error = "missing required element"

// Data attribute names (without the "data-" prefix for use in templ attributes).
const (
	AttrWidget      = "facet"
	AttrPart        = "facet-part"
	AttrState       = "state"
	AttrValue       = "value"
	AttrLabel       = "label"
	AttrGroup       = "group"
	AttrDisabled    = "disabled"
	AttrHighlighted = "highlighted"
	AttrSelected    = "selected"
	AttrRemote      = "remote"
	AttrSide        = "side"
	AttrAlign       = "align"
	AttrOffset      = "offset"
	AttrMultiple    = "multiple"
	AttrCollapsible = "collapsible"
	AttrSearchURL   = "search-url"
	AttrCalendar    = "calendar"
	AttrOpenDelay   = "open-delay"
	AttrCloseDelay  = "close-delay"
	AttrMin         = "min"
	AttrMax         = "max"
	AttrStep        = "step"
	AttrPlaceholder = "placeholder"
	AttrTheme       = "theme"
	AttrModal       = "modal"

	AttrDismissOutside = "dismiss-outside"
	AttrOrientation    = "orientation"
	AttrActivation     = "activation"
	AttrLoop           = "loop"
)

// Data attribute names with prefix (for use in CSS selectors and tests).
const (
	DataAttrWidget      = "data-" + AttrWidget
	DataAttrPart        = "data-" + AttrPart
	DataAttrState       = "data-" + AttrState
	DataAttrValue       = "data-" + AttrValue
	DataAttrLabel       = "data-" + AttrLabel
	DataAttrGroup       = "data-" + AttrGroup
	DataAttrDisabled    = "data-" + AttrDisabled
	DataAttrHighlighted = "data-" + AttrHighlighted
	DataAttrSelected    = "data-" + AttrSelected
	DataAttrRemote      = "data-" + AttrRemote
	DataAttrSide        = "data-" + AttrSide
	DataAttrAlign       = "data-" + AttrAlign
	DataAttrOffset      = "data-" + AttrOffset
	DataAttrMultiple    = "data-" + AttrMultiple
	DataAttrCollapsible = "data-" + AttrCollapsible
	DataAttrSearchURL   = "data-" + AttrSearchURL
	DataAttrCalendar    = "data-" + AttrCalendar
	DataAttrOpenDelay   = "data-" + AttrOpenDelay
	DataAttrCloseDelay  = "data-" + AttrCloseDelay
	DataAttrMin         = "data-" + AttrMin
	DataAttrMax         = "data-" + AttrMax
	DataAttrStep        = "data-" + AttrStep
	DataAttrPlaceholder = "data-" + AttrPlaceholder
	DataAttrTheme       = "data-" + AttrTheme
	DataAttrModal       = "data-" + AttrModal

	DataAttrDismissOutside = "data-" + AttrDismissOutside
	DataAttrOrientation    = "data-" + AttrOrientation
	DataAttrActivation     = "data-" + AttrActivation
	DataAttrLoop           = "data-" + AttrLoop
)

// ARIA attribute names.
const (
	AriaExpanded    = "aria-expanded"
	AriaSelected    = "aria-selected"
	AriaChecked     = "aria-checked"
	AriaDisabled    = "aria-disabled"
	AriaHidden      = "aria-hidden"
	AriaControls    = "aria-controls"
	AriaLabelledBy  = "aria-labelledby"
	AriaActiveDesc  = "aria-activedescendant"
	AriaValueNow    = "aria-valuenow"
	AriaValueMin    = "aria-valuemin"
	AriaValueMax    = "aria-valuemax"
	AriaValueText   = "aria-valuetext"
	AriaHasPopup    = "aria-haspopup"
	AriaModal       = "aria-modal"
	AriaOrientation = "aria-orientation"
	AriaPressed     = "aria-pressed"
	AriaBusy        = "aria-busy"
	AriaLive        = "aria-live"
)

// Widget identities for the data-facet attribute.
const (
	WidgetPopover     = "popover"
	WidgetDialog      = "dialog"
	WidgetTooltip     = "tooltip"
	WidgetHoverCard   = "hover-card"
	WidgetCollapsible = "collapsible"
	WidgetAccordion   = "accordion"
	WidgetTabs        = "tabs"
	WidgetSelect      = "select"
	WidgetCombobox    = "combobox"
	WidgetCommand     = "command"
	WidgetMenu        = "menu"
	WidgetCheckbox    = "checkbox"
	WidgetSwitch      = "switch"
	WidgetRadioGroup  = "radio-group"
	WidgetSlider      = "slider"
	WidgetDatePicker  = "date-picker"
	WidgetThemeToggle = "theme-toggle"
)

// Part names for the data-facet-part attribute.
const (
	PartTrigger      = "trigger"
	PartContent      = "content"
	PartOverlay      = "overlay"
	PartClose        = "close"
	PartItem         = "item"
	PartCheckboxItem = "checkbox-item"
	PartRadioItem    = "radio-item"
	PartGroup        = "group"
	PartGroupLabel   = "group-label"
	PartSeparator    = "separator"
	PartList         = "list"
	PartInput        = "input"
	PartSearch       = "search"
	PartLabel        = "label"
	PartEmpty        = "empty"
	PartLoading      = "loading"
	PartError        = "error"
	PartPanel        = "panel"
	PartSection      = "section"
	PartSubTrigger   = "sub-trigger"
	PartSubContent   = "sub-content"
	PartSub          = "sub"
	PartTrack        = "track"
	PartRange        = "range"
	PartThumb        = "thumb"
	PartCalendar     = "calendar"
	PartHeading      = "heading"
	PartPrev         = "prev"
	PartNext         = "next"
	PartGrid         = "grid"
	PartDay          = "day"
	PartIndicator    = "indicator"
)

// State values for the data-state attribute.
const (
	StateOpen      = "open"
	StateClosed    = "closed"
	StateChecked   = "checked"
	StateUnchecked = "unchecked"
	StateActive    = "active"
	StateInactive  = "inactive"
)

// Widget returns a selector matching the root of the named widget.
func Widget(name string) string {
	return "[" + DataAttrWidget + `="` + name + `"]`
}

// Part returns a selector matching the named part.
func Part(name string) string {
	return "[" + DataAttrPart + `="` + name + `"]`
}

// Parts returns a selector matching any of the named parts.
func Parts(names ...string) string {
	sel := ""
	for i, name := range names {
		if i > 0 {
			sel += ", "
		}
		sel += Part(name)
	}
	return sel
}
