package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// writer emits HTML for a component. The first write error sticks and every
// later call is a no-op, so components read as straight-line markup.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// component turns fn into a templ.Component.
func component(fn func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{ctx: ctx, w: out}
		fn(w)
		return w.err
	})
}

// raw writes trusted markup.
func (w *writer) raw(parts ...string) {
	for _, s := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, s)
	}
}

// text writes escaped text.
func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (w *writer) attr(name, value string) {
	w.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// optAttr writes the attribute only when value is set.
func (w *writer) optAttr(name, value string) {
	if value != "" {
		w.attr(name, value)
	}
}

// url writes a URL attribute sanitized by templ.URL.
func (w *writer) url(name, u string) {
	w.attr(name, string(templ.URL(u)))
}

// flag writes a boolean attribute when on.
func (w *writer) flag(name string, on bool) {
	if on {
		w.raw(" ", name)
	}
}

// elem writes <tag>text</tag>.
func (w *writer) elem(tag, text string) {
	w.raw("<", tag, ">")
	w.text(text)
	w.raw("</", tag, ">")
}

// render writes a child component.
func (w *writer) render(c templ.Component) {
	if w.err == nil && c != nil {
		w.err = c.Render(w.ctx, w.w)
	}
}
