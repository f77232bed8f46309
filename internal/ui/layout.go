package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/stolasapp/facet/internal/markup"
	"github.com/stolasapp/facet/internal/theme"
)

// LayoutProps configures [Layout].
type LayoutProps struct {
	Title string
	// Theme is the visitor's stored preference.
	Theme theme.Preference
	// Stylesheets are linked in order from the head.
	Stylesheets []string
	Header      templ.Component
	Body        templ.Component
}

// Layout renders a complete page. The theme pre-paint script runs before
// any content so a stored preference never flashes the opposite theme.
func Layout(p LayoutProps) templ.Component {
	links := make([]templ.Component, 0, len(p.Stylesheets))
	for _, href := range p.Stylesheets {
		links = append(links, el("link", a("rel", "stylesheet"), a("href", href)))
	}
	html := el("html", a("lang", "en"), opt("class", theme.RootClass(p.Theme)), opt(markup.DataAttrTheme, string(p.Theme))).with(
		el("head").with(
			el("meta", a("charset", "utf-8")),
			el("meta", a("name", "viewport"), a("content", "width=device-width, initial-scale=1")),
			el("title").with(text(p.Title)),
			el("script").with(templ.Raw(theme.Script())),
			group(links...),
		),
		el("body", class("min-h-screen bg-background font-sans text-foreground antialiased")).with(
			when(p.Header != nil, el("header", class("border-b")).with(p.Header)),
			el("main", class("container mx-auto py-8")).with(p.Body),
		),
	)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
			return err
		}
		return html.Render(ctx, w)
	})
}

// Heading renders a section title with an optional lead paragraph.
func Heading(title, lead string) templ.Component {
	return group(
		el("h1", class("text-3xl font-bold tracking-tight")).with(text(title)),
		when(lead != "", el("p", class("mt-2 text-muted-foreground")).with(text(lead))),
	)
}

// Link renders an anchor.
func Link(href, label, classes string) templ.Component {
	return el("a", a("href", href), class(cn("underline-offset-4 hover:underline", classes))).with(text(label))
}

// Text renders escaped text.
func Text(s string) templ.Component { return text(s) }

// Stack renders children in a vertical stack.
func Stack(children ...templ.Component) templ.Component {
	return el("div", class("flex flex-col gap-6")).with(children...)
}

// Card renders a titled panel.
func Card(title string, id string, body templ.Component) templ.Component {
	return el("section", opt("id", id), class("rounded-lg border p-6")).with(
		el("h2", class("mb-4 text-lg font-semibold")).with(text(title)),
		body,
	)
}

// SiteHeader renders the header bar: a home link and trailing actions.
func SiteHeader(title, href string, actions ...templ.Component) templ.Component {
	return el("div", class("container mx-auto flex h-14 items-center justify-between")).with(
		Link(href, title, "font-bold hover:no-underline"),
		el("div", class("flex items-center gap-2")).with(actions...),
	)
}

// Prose renders HTML that is already sanitized.
func Prose(html string) templ.Component {
	return el("article", class("prose max-w-none dark:prose-invert")).with(templ.Raw(html))
}
