package templates

import (
	"github.com/a-h/templ"
)

type option struct {
	value string
	label string
}

func field(label string, control templ.Component) templ.Component {
	return el("label", attrs(class("field")),
		el("span", attrs(class("field-label")), text(label)),
		control,
	)
}

func input(kind string, name string, value string, required bool, extra ...attr) templ.Component {
	list := attrs(at("type", kind), at("name", name), at("value", value), flag("required", required))
	return el("input", append(list, extra...))
}

func selectBox(name string, selected string, options []option, required bool, extra ...attr) templ.Component {
	list := append(attrs(at("name", name), flag("required", required)), extra...)
	return el("select", list, each(options, func(o option) templ.Component {
		return el("option", attrs(at("value", o.value), flag("selected", o.value == selected)), text(o.label))
	}))
}

func statusOptions(loc Localizer, statuses []string, blankKey string) []option {
	options := make([]option, 0, len(statuses)+1)
	if blankKey != "" {
		options = append(options, option{value: "", label: T(loc, blankKey)})
	}
	for _, status := range statuses {
		options = append(options, option{value: status, label: statusLabel(loc, status)})
	}
	return options
}

func submit(label string) templ.Component {
	return el("button", attrs(at("type", "submit"), class("button-primary")), text(label))
}

// postForm is a form that posts through HTMX into #main and falls back to a
// plain POST without JavaScript.
func postForm(action string, extra []attr, children ...templ.Component) templ.Component {
	list := append(attrs(at("method", "post"), at("action", action), at("hx-post", action), at("hx-target", "#main")), extra...)
	return el("form", list, children...)
}
