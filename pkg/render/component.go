package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// Component is a unit of markup.
type Component interface {
	Render(w io.Writer) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(w io.Writer) error

// Render implements Component.
func (f ComponentFunc) Render(w io.Writer) error {
	return f(w)
}

// HTML is trusted markup written verbatim.
type HTML string

// Render implements Component.
func (h HTML) Render(w io.Writer) error {
	_, err := io.WriteString(w, string(h))
	return err
}

// Text is plain text, escaped on output.
type Text string

// Render implements Component.
func (t Text) Render(w io.Writer) error {
	_, err := io.WriteString(w, escapeHTML(string(t)))
	return err
}

// Fragment renders its children in order. Nil children are skipped.
func Fragment(children ...Component) Component {
	return ComponentFunc(func(w io.Writer) error {
		for _, c := range children {
			if c == nil {
				continue
			}
			if err := c.Render(w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Template executes the named html/template with data.
func Template(t *template.Template, name string, data any) Component {
	return ComponentFunc(func(w io.Writer) error {
		if t == nil {
			return fmt.Errorf("render: nil template %q", name)
		}
		return t.ExecuteTemplate(w, name, data)
	})
}

// Island marks a region for client-side enhancement. Props are encoded as
// JSON in the data-props attribute and must be JSON-serializable.
//
//	<div data-island="counter" data-props="{&#34;n&#34;:1}">fallback</div>
func Island(name string, props any, fallback Component) Component {
	return ComponentFunc(func(w io.Writer) error {
		raw, err := json.Marshal(props)
		if err != nil {
			return fmt.Errorf("render: island %q props: %w", name, err)
		}
		if _, err := fmt.Fprintf(w, `<div data-island="%s" data-props="%s">`, escapeAttr(name), escapeAttr(string(raw))); err != nil {
			return err
		}
		if fallback != nil {
			if err := fallback.Render(w); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "</div>")
		return err
	})
}
