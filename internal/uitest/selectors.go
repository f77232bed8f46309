package uitest

import (
	"fmt"

	"github.com/stolasapp/facet/internal/markup"
)

// CSS selectors built from markup constants.
// These ensure test selectors stay in sync with the rendered widget structure.

var (
	// SelectorRoot selects the document element carrying the theme.
	SelectorRoot = "html"

	// SelectorThemeToggle selects the header theme toggle.
	SelectorThemeToggle = "header #theme"

	// SelectorSiteTitle selects the home link in the header.
	SelectorSiteTitle = "header a[href='/']"

	// SelectorProse selects rendered documentation.
	SelectorProse = "main article"

	// SelectorAnyWidget selects every widget root.
	SelectorAnyWidget = "[" + markup.DataAttrWidget + "]"
)

// WidgetPart returns a selector for a part inside the named widget.
func WidgetPart(widget, part string) string {
	return markup.Widget(widget) + " " + markup.Part(part)
}

// DocsLink returns a selector for the documentation link of a gallery card.
func DocsLink(name string) string {
	return fmt.Sprintf("section#%s a[href='/components/%s']", name, name)
}
