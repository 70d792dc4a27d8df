package web

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/imagefield/pkg/imagefield"
)

// FieldParams is everything a view needs to render one field.
type FieldParams struct {
	ID       string
	BasePath string
	Label    string
	// Value is what the text input shows; empty while the field is in error.
	Value   string
	Status  imagefield.Status
	Notice  *imagefield.Notice
	Pending bool
	// Preview is a data URI to show as an image, set only for accepted files.
	Preview string
}

// ElementID is the DOM id of the field's root element, the target of SSE patches.
func (p FieldParams) ElementID() string {
	return "imagefield-" + p.ID
}

// URL builds the path of one of the field's actions.
func (p FieldParams) URL(action string) string {
	u := strings.TrimSuffix(p.BasePath, "/") + "/" + p.ID
	if action != "" {
		u += "/" + action
	}
	return u
}

// Views renders the field. Replace Field to use your own templ components.
type Views struct {
	Field func(FieldParams) templ.Component
}

// DefaultViews returns the built-in markup.
func DefaultViews() Views {
	return Views{Field: fieldView}
}

func fieldView(p FieldParams) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		esc := templ.EscapeString
		id := p.ElementID()

		b.WriteString(`<div id="` + esc(id) + `" class="imagefield" data-status="` + esc(p.Status.String()) + `">`)

		b.WriteString(`<label for="` + esc(id) + `-input">` + esc(p.Label) + `</label>`)
		b.WriteString(`<form method="post" action="` + esc(p.URL("text")) + `">`)
		b.WriteString(`<input id="` + esc(id) + `-input" type="text" name="value" value="` + esc(p.Value) + `"`)
		b.WriteString(` data-bind-value`)
		b.WriteString(` data-on-input__debounce.300ms="` + esc("@post('"+p.URL("text")+"')") + `"`)
		if p.Status.IsError() {
			b.WriteString(` aria-invalid="true"`)
		}
		b.WriteString(`></form>`)

		b.WriteString(`<form method="post" action="` + esc(p.URL("file")) + `" enctype="multipart/form-data"`)
		b.WriteString(` data-on-change="` + esc("@post('"+p.URL("file")+"', {contentType: 'form'})") + `">`)
		b.WriteString(`<input type="file" name="file" accept="image/*">`)
		b.WriteString(`<button type="submit">Upload</button></form>`)

		if p.Pending {
			b.WriteString(`<p class="imagefield-pending">Processing file...</p>`)
		}

		if p.Preview != "" {
			b.WriteString(`<img class="imagefield-preview" alt="" src="` + esc(p.Preview) + `">`)
		}

		if n := p.Notice; n != nil {
			b.WriteString(`<div class="imagefield-notice imagefield-notice-` + esc(string(n.Severity)) + `" role="alert">`)
			b.WriteString(`<span>` + esc(n.Message) + `</span>`)
			if n.Overridable() {
				b.WriteString(actionButton(p.URL("override"), n.Action))
			}
			b.WriteString(actionButton(p.URL("dismiss"), "Dismiss"))
			b.WriteString(`</div>`)
		}

		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func actionButton(url, caption string) string {
	esc := templ.EscapeString
	return `<form method="post" action="` + esc(url) + `">` +
		`<button type="submit" data-on-click__prevent="` + esc("@post('"+url+"')") + `">` + esc(caption) + `</button>` +
		`</form>`
}
