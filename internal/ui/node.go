// Package ui renders the server side of every widget: markup that follows the
// attribute contract in package markup, so the interaction runtime can attach
// to it without further configuration.
package ui

import (
	"context"
	"io"
	"maps"
	"slices"

	"github.com/a-h/templ"

	"github.com/stolasapp/facet/internal/markup"
)

type attr struct {
	name  string
	value string
	flag  bool
	skip  bool
}

func a(name, value string) attr { return attr{name: name, value: value} }

// opt omits the attribute when value is empty.
func opt(name, value string) attr { return attr{name: name, value: value, skip: value == ""} }

func flag(name string, on bool) attr { return attr{name: name, flag: true, skip: !on} }

func facet(name string) attr { return a(markup.DataAttrWidget, name) }

func part(name string) attr { return a(markup.DataAttrPart, name) }

func class(classes string) attr { return opt("class", classes) }

func state(open bool, on, off string) attr {
	if open {
		return a(markup.DataAttrState, on)
	}
	return a(markup.DataAttrState, off)
}

func extra(attrs templ.Attributes) []attr {
	out := make([]attr, 0, len(attrs))
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		switch v := attrs[key].(type) {
		case bool:
			out = append(out, flag(key, v))
		case string:
			out = append(out, a(key, v))
		}
	}
	return out
}

var voidTags = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "link": true, "meta": true,
}

type element struct {
	tag      string
	attrs    []attr
	children []templ.Component
}

func el(tag string, attrs ...attr) *element {
	return &element{tag: tag, attrs: attrs}
}

func (e *element) with(children ...templ.Component) *element {
	e.children = append(e.children, children...)
	return e
}

func (e *element) attr(attrs ...attr) *element {
	e.attrs = append(e.attrs, attrs...)
	return e
}

// Render satisfies [templ.Component].
func (e *element) Render(ctx context.Context, w io.Writer) error {
	if _, err := io.WriteString(w, "<"+e.tag); err != nil {
		return err
	}
	for _, at := range e.attrs {
		if at.skip {
			continue
		}
		s := " " + at.name
		if !at.flag {
			s += `="` + templ.EscapeString(at.value) + `"`
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if voidTags[e.tag] {
		return nil
	}
	for _, child := range e.children {
		if child == nil {
			continue
		}
		if err := child.Render(ctx, w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</"+e.tag+">")
	return err
}

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

func group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func when(cond bool, c templ.Component) templ.Component {
	if cond {
		return c
	}
	return nil
}
