package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// attr is one HTML attribute. A boolean attribute renders its bare name when
// set and nothing otherwise.
type attr struct {
	name    string
	value   string
	boolean bool
	set     bool
}

func at(name string, value string) attr { return attr{name: name, value: value} }

func flag(name string, set bool) attr { return attr{name: name, boolean: true, set: set} }

func class(names ...string) attr {
	kept := names[:0:0]
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			kept = append(kept, name)
		}
	}
	return attr{name: "class", value: strings.Join(kept, " ")}
}

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "link": true, "meta": true,
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func (hw *htmlWriter) render(ctx context.Context, c templ.Component) {
	if hw.err == nil && c != nil {
		hw.err = c.Render(ctx, hw.w)
	}
}

// el renders an element with escaped attributes and children.
func el(tag string, attrs []attr, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<" + tag)
		for _, a := range attrs {
			if a.name == "" {
				continue
			}
			if a.boolean {
				if a.set {
					hw.raw(" " + a.name)
				}
				continue
			}
			hw.raw(" " + a.name + `="` + templ.EscapeString(a.value) + `"`)
		}
		hw.raw(">")
		if voidElements[tag] {
			return hw.err
		}
		for _, child := range children {
			hw.render(ctx, child)
		}
		hw.raw("</" + tag + ">")
		return hw.err
	})
}

// attrs is shorthand for an attribute list.
func attrs(list ...attr) []attr { return list }

func text(value string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(value))
		return err
	})
}

func group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		for _, child := range children {
			hw.render(ctx, child)
		}
		return hw.err
	})
}

func when(cond bool, c templ.Component) templ.Component {
	if !cond {
		return nil
	}
	return c
}

// each renders one component per item.
func each[T any](items []T, render func(T) templ.Component) templ.Component {
	children := make([]templ.Component, 0, len(items))
	for _, item := range items {
		children = append(children, render(item))
	}
	return group(children...)
}

// doctype is the only markup written without escaping.
var doctype = templ.Raw("<!doctype html>")
